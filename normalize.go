package seoulmetro

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
)

var ErrInvalidRules = errors.New("invalid line rules")

// StationOverride rewrites Line From to To, but only for the listed
// stations.
type StationOverride struct {
	Stations []string `yaml:"stations"`
	From     string   `yaml:"from"`
	To       string   `yaml:"to"`
}

// AliasRule collapses every alias into Canonical.
type AliasRule struct {
	Canonical string   `yaml:"canonical"`
	Aliases   []string `yaml:"aliases"`
}

type LineRules struct {
	Overrides []StationOverride `yaml:"overrides"`
	Aliases   []AliasRule       `yaml:"aliases"`
}

// Validate rejects alias tables that would rename a value twice.
func (r LineRules) Validate() error {
	owner := make(map[string]string)
	for _, rule := range r.Aliases {
		if rule.Canonical == "" {
			return fmt.Errorf("%w: empty canonical name", ErrInvalidRules)
		}
		for _, alias := range rule.Aliases {
			if prev, ok := owner[alias]; ok && prev != rule.Canonical {
				return fmt.Errorf("%w: %s is an alias of both %s and %s", ErrInvalidRules, alias, prev, rule.Canonical)
			}
			owner[alias] = rule.Canonical
		}
	}
	for _, rule := range r.Aliases {
		if other, ok := owner[rule.Canonical]; ok && other != rule.Canonical {
			return fmt.Errorf("%w: canonical %s is an alias of %s", ErrInvalidRules, rule.Canonical, other)
		}
	}
	canonical := make(map[string]bool, len(r.Aliases))
	for _, rule := range r.Aliases {
		canonical[rule.Canonical] = true
	}
	for _, o := range r.Overrides {
		if o.From == "" || o.To == "" {
			return fmt.Errorf("%w: override needs from and to", ErrInvalidRules)
		}
		// Aliases run after overrides, so a canonical From would match again
		// on a second pass.
		if canonical[o.From] {
			return fmt.Errorf("%w: override from canonical line %s", ErrInvalidRules, o.From)
		}
	}
	return nil
}

// Normalize returns a copy of records with station overrides applied
// first and aliases collapsed second. The input is not modified.
func Normalize(records []RidershipRecord, rules LineRules) []RidershipRecord {
	out := slices.Clone(records)

	overridden := 0
	for _, o := range rules.Overrides {
		for i := range out {
			if out[i].Line == o.From && slices.Contains(o.Stations, out[i].Station) {
				out[i].Line = o.To
				overridden++
			}
		}
	}

	renamed := 0
	for _, rule := range rules.Aliases {
		for i := range out {
			if out[i].Line != rule.Canonical && slices.Contains(rule.Aliases, out[i].Line) {
				out[i].Line = rule.Canonical
				renamed++
			}
		}
	}

	slog.Info(fmt.Sprintf("Normalized lines: %d station override(s), %d alias rename(s)", overridden, renamed))
	return out
}
