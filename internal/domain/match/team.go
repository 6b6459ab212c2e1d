package match

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// TeamKey is the normalized identity of a team name. Two names refer to the same
// team iff their keys are equal and non-empty.
type TeamKey string

func NewTeamKey(name string) TeamKey {
	value := strings.TrimSpace(name)
	if value == "" {
		return ""
	}

	folder := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if folded, _, err := transform.String(folder, value); err == nil {
		value = folded
	}
	value = strings.ToLower(value)

	var builder strings.Builder
	lastDash := false
	for _, r := range value {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			builder.WriteRune(r)
			lastDash = false
			continue
		}
		if !lastDash {
			builder.WriteByte('-')
			lastDash = true
		}
	}

	return TeamKey(strings.Trim(builder.String(), "-"))
}

func (k TeamKey) Equal(other TeamKey) bool {
	return k != "" && k == other
}

func (k TeamKey) IsZero() bool {
	return k == ""
}

func (k TeamKey) String() string {
	return string(k)
}
