package thesportsdb

import (
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/match-forecast/internal/domain/match"
)

type feed string

const (
	feedUpcoming feed = "upcoming"
	feedResults  feed = "results"
	feedHistory  feed = "history"
)

func mapStatus(raw string) (match.Status, bool) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "MATCH FINISHED", "FT", "AET", "PEN", "FINISHED":
		return match.StatusFinished, true
	case "", "NS", "NOT STARTED", "TBD", "SCHEDULED", "TIME TO BE DEFINED":
		return match.StatusScheduled, true
	case "1H", "2H", "HT", "ET", "BT", "P", "LIVE", "IN PLAY":
		return match.StatusLive, true
	case "POSTPONED", "PST", "CANCELLED", "CANC", "ABANDONED", "ABD", "SUSP", "INT":
		return match.StatusCancelled, true
	default:
		return "", false
	}
}

// toMatch converts one validated provider event. The winner is always derived from
// the scores, and a finished event without both scores is rejected.
func toMatch(item eventPayload, source feed) (match.Match, error) {
	startTime, err := parseKickoff(item)
	if err != nil {
		return match.Match{}, err
	}

	status, ok := mapStatus(item.Status)
	if !ok {
		return match.Match{}, fmt.Errorf("unknown status %q", item.Status)
	}
	if strings.EqualFold(strings.TrimSpace(item.Postponed), "yes") && status != match.StatusFinished {
		status = match.StatusCancelled
	}

	bothScores := item.HomeScore.Valid && item.AwayScore.Valid
	if source == feedResults && strings.TrimSpace(item.Status) == "" && bothScores {
		status = match.StatusFinished
	}

	out := match.Match{
		ID:        strings.TrimSpace(item.IDEvent),
		HomeTeam:  strings.TrimSpace(item.HomeTeam),
		AwayTeam:  strings.TrimSpace(item.AwayTeam),
		League:    strings.TrimSpace(item.League),
		StartTime: startTime,
		Status:    status,
	}
	if status == match.StatusFinished {
		if !bothScores {
			return match.Match{}, fmt.Errorf("finished event %s has no final score", out.ID)
		}
		out.Result = match.NewResult(item.HomeScore.Value, item.AwayScore.Value)
	}

	if err := out.Validate(); err != nil {
		return match.Match{}, err
	}
	return out, nil
}

var kickoffLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04",
}

func parseKickoff(item eventPayload) (time.Time, error) {
	if ts := strings.TrimSpace(item.Timestamp); ts != "" {
		if parsed, ok := parseProviderDateTime(ts); ok {
			return parsed, nil
		}
	}

	date := strings.TrimSpace(item.DateEvent)
	if date == "" {
		return time.Time{}, fmt.Errorf("event %s has no date", item.IDEvent)
	}
	clock := strings.TrimSpace(item.Time)
	if clock == "" {
		clock = "00:00:00"
	}
	if parsed, ok := parseProviderDateTime(date + "T" + clock); ok {
		return parsed, nil
	}
	if parsed, err := time.Parse("2006-01-02", date); err == nil {
		return parsed.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("event %s has unparseable kickoff %q %q", item.IDEvent, date, item.Time)
}

func parseProviderDateTime(raw string) (time.Time, bool) {
	for _, layout := range kickoffLayouts {
		parsed, err := time.Parse(layout, raw)
		if err == nil {
			return parsed.UTC(), true
		}
	}
	return time.Time{}, false
}
