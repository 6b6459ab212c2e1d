package thesportsdb

import (
	"bytes"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
)

// eventsEnvelope covers both list shapes: the league endpoints answer under "events",
// searchevents.php answers under "event". Either may be null.
type eventsEnvelope struct {
	Events []eventPayload `json:"events"`
	Event  []eventPayload `json:"event"`
}

func (e eventsEnvelope) items() []eventPayload {
	if len(e.Events) > 0 {
		return e.Events
	}
	return e.Event
}

type eventPayload struct {
	IDEvent   string  `json:"idEvent" validate:"required"`
	HomeTeam  string  `json:"strHomeTeam" validate:"required"`
	AwayTeam  string  `json:"strAwayTeam" validate:"required,nefield=HomeTeam"`
	League    string  `json:"strLeague"`
	Season    string  `json:"strSeason"`
	Timestamp string  `json:"strTimestamp"`
	DateEvent string  `json:"dateEvent" validate:"required_without=Timestamp"`
	Time      string  `json:"strTime"`
	HomeScore flexInt `json:"intHomeScore"`
	AwayScore flexInt `json:"intAwayScore"`
	Status    string  `json:"strStatus"`
	Postponed string  `json:"strPostponed"`
}

// flexInt accepts a JSON number, a numeric string, an empty string or null.
type flexInt struct {
	Value int
	Valid bool
}

func (f *flexInt) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	*f = flexInt{}
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	if trimmed[0] == '"' {
		var raw string
		if err := sonic.Unmarshal(trimmed, &raw); err != nil {
			return err
		}
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return nil
		}
		value, err := strconv.Atoi(raw)
		if err != nil {
			// Non-numeric score strings are treated as absent.
			return nil
		}
		*f = flexInt{Value: value, Valid: true}
		return nil
	}

	var value float64
	if err := sonic.Unmarshal(trimmed, &value); err != nil {
		return err
	}
	*f = flexInt{Value: int(value), Valid: true}
	return nil
}
