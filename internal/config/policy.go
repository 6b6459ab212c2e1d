package config

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/riskibarqy/match-forecast/internal/domain/forecast"
)

// Policy is the optional YAML file tuning the scoring model and the history sync.
//
//	weights:
//	  name: weighted
//	  form: 0.30
//	  head_to_head: 0.20
//	sync:
//	  max_requests: 120
type Policy struct {
	Weights forecast.Weights `yaml:"weights"`
	Sync    SyncPolicy       `yaml:"sync"`
}

type SyncPolicy struct {
	MaxRequests       int `yaml:"max_requests"`
	SufficientHistory int `yaml:"sufficient_history"`
	TopTeams          int `yaml:"top_teams"`
	HeadToHeadPairs   int `yaml:"head_to_head_pairs"`
}

func LoadPolicy(path string) (Policy, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Policy{}, fmt.Errorf("read policy file: %w", err)
	}
	return ParsePolicy(raw)
}

// ParsePolicy rejects unknown keys and negative values. Missing keys keep defaults.
func ParsePolicy(raw []byte) (Policy, error) {
	var policy Policy

	decoder := yaml.NewDecoder(bytes.NewReader(raw))
	decoder.KnownFields(true)
	if err := decoder.Decode(&policy); err != nil && err != io.EOF {
		return Policy{}, fmt.Errorf("decode policy: %w", err)
	}

	w := policy.Weights
	for name, v := range map[string]float64{
		"form":           w.Form,
		"win_rate":       w.WinRate,
		"goals":          w.Goals,
		"head_to_head":   w.HeadToHead,
		"home_advantage": w.HomeAdvantage,
	} {
		if v < 0 || v > 1 {
			return Policy{}, fmt.Errorf("weights.%s must be within [0, 1], got %v", name, v)
		}
	}

	s := policy.Sync
	if s.MaxRequests < 0 || s.SufficientHistory < 0 || s.TopTeams < 0 || s.HeadToHeadPairs < 0 {
		return Policy{}, fmt.Errorf("sync values must be >= 0")
	}

	return policy, nil
}
