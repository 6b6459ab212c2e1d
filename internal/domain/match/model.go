package match

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusLive      Status = "live"
	StatusFinished  Status = "finished"
	StatusCancelled Status = "cancelled"
)

// Winner is the side that won a finished match, relative to the match's own home/away fields.
type Winner string

const (
	WinnerHome Winner = "home"
	WinnerAway Winner = "away"
	WinnerDraw Winner = "draw"
)

var (
	ErrMissingID      = errors.New("match id is required")
	ErrMissingTeam    = errors.New("match team is required")
	ErrSameTeam       = errors.New("match home and away team are the same")
	ErrInvalidStatus  = errors.New("invalid match status")
	ErrResultMismatch = errors.New("match result does not agree with status")
	ErrNegativeScore  = errors.New("match score must be non-negative")
	ErrWinnerMismatch = errors.New("match winner does not agree with score")
	ErrMissingKickoff = errors.New("match start time is required")
)

type Result struct {
	HomeScore int
	AwayScore int
	Winner    Winner
}

// NewResult builds a result with the winner derived from the scores.
func NewResult(homeScore, awayScore int) *Result {
	return &Result{
		HomeScore: homeScore,
		AwayScore: awayScore,
		Winner:    WinnerFromScores(homeScore, awayScore),
	}
}

func WinnerFromScores(homeScore, awayScore int) Winner {
	switch {
	case homeScore > awayScore:
		return WinnerHome
	case homeScore < awayScore:
		return WinnerAway
	default:
		return WinnerDraw
	}
}

// Match is one fixture keyed by the provider's external id. Upcoming fixtures and
// finished history share the same record; Result is set iff Status is finished.
type Match struct {
	ID        string
	HomeTeam  string
	AwayTeam  string
	League    string
	StartTime time.Time
	Status    Status
	Result    *Result
	UpdatedAt time.Time
}

func (m Match) HomeKey() TeamKey {
	return NewTeamKey(m.HomeTeam)
}

func (m Match) AwayKey() TeamKey {
	return NewTeamKey(m.AwayTeam)
}

func (m Match) IsFinished() bool {
	return m.Status == StatusFinished && m.Result != nil
}

// Involves reports whether team plays on either side.
func (m Match) Involves(team TeamKey) bool {
	return m.HomeKey().Equal(team) || m.AwayKey().Equal(team)
}

// IsPair reports whether the unordered pair {home, away} equals {a, b}.
func (m Match) IsPair(a, b TeamKey) bool {
	home, away := m.HomeKey(), m.AwayKey()
	return (home.Equal(a) && away.Equal(b)) || (home.Equal(b) && away.Equal(a))
}

func (m Match) Validate() error {
	if strings.TrimSpace(m.ID) == "" {
		return ErrMissingID
	}
	if m.HomeKey().IsZero() || m.AwayKey().IsZero() {
		return fmt.Errorf("%w: id=%s", ErrMissingTeam, m.ID)
	}
	if m.HomeKey().Equal(m.AwayKey()) {
		return fmt.Errorf("%w: id=%s team=%s", ErrSameTeam, m.ID, m.HomeTeam)
	}
	if m.StartTime.IsZero() {
		return fmt.Errorf("%w: id=%s", ErrMissingKickoff, m.ID)
	}
	if !m.Status.Valid() {
		return fmt.Errorf("%w: id=%s status=%q", ErrInvalidStatus, m.ID, m.Status)
	}

	finished := m.Status == StatusFinished
	if finished != (m.Result != nil) {
		return fmt.Errorf("%w: id=%s status=%s", ErrResultMismatch, m.ID, m.Status)
	}
	if m.Result == nil {
		return nil
	}
	if m.Result.HomeScore < 0 || m.Result.AwayScore < 0 {
		return fmt.Errorf("%w: id=%s", ErrNegativeScore, m.ID)
	}
	if m.Result.Winner != WinnerFromScores(m.Result.HomeScore, m.Result.AwayScore) {
		return fmt.Errorf("%w: id=%s winner=%s", ErrWinnerMismatch, m.ID, m.Result.Winner)
	}
	return nil
}

func (s Status) Valid() bool {
	switch s {
	case StatusScheduled, StatusLive, StatusFinished, StatusCancelled:
		return true
	default:
		return false
	}
}

func ParseStatus(raw string) (Status, bool) {
	status := Status(strings.ToLower(strings.TrimSpace(raw)))
	return status, status.Valid()
}

func ParseWinner(raw string) (Winner, bool) {
	winner := Winner(strings.ToLower(strings.TrimSpace(raw)))
	switch winner {
	case WinnerHome, WinnerAway, WinnerDraw:
		return winner, true
	default:
		return "", false
	}
}

// Merge applies an incoming record to a stored one. Finished records are never
// overwritten. The second return value reports whether anything changed.
func Merge(stored, incoming Match) (Match, bool) {
	if stored.Status == StatusFinished {
		return stored, false
	}
	if stored.Status == incoming.Status && sameResult(stored.Result, incoming.Result) {
		return stored, false
	}

	out := stored
	out.Status = incoming.Status
	out.Result = cloneResult(incoming.Result)
	if !incoming.StartTime.IsZero() {
		out.StartTime = incoming.StartTime
	}
	if strings.TrimSpace(incoming.League) != "" {
		out.League = incoming.League
	}
	return out, true
}

// Clone returns a copy that shares no pointers with m.
func (m Match) Clone() Match {
	out := m
	out.Result = cloneResult(m.Result)
	return out
}

func cloneResult(r *Result) *Result {
	if r == nil {
		return nil
	}
	v := *r
	return &v
}

func sameResult(a, b *Result) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
