package seoulmetro

import (
	"fmt"
	"gopkg.in/yaml.v3"
	"os"
)

// Config holds the line tables that aren't read from data files.
type Config struct {
	Rules LineRules `yaml:",inline"`
	// Colors maps a canonical line name to a "#RRGGBB" color.
	Colors map[string]string `yaml:"colors"`
}

// DefaultConfig returns the built-in tables for the Seoul Metro extracts.
func DefaultConfig() *Config {
	return &Config{
		Rules: LineRules{
			Overrides: []StationOverride{
				{
					// The Gyeongwon corridor stations are now served by the Gyeongui-Jungang line
					Stations: []string{"서빙고", "옥수", "왕십리", "응봉", "이촌", "청량리", "한남"},
					From:     "경원선",
					To:       "경의/중앙선",
				},
			},
			Aliases: []AliasRule{
				{Canonical: "1호선", Aliases: []string{"1호선", "경원선", "경인선", "경부선", "장항선"}},
				{Canonical: "3호선", Aliases: []string{"3호선", "일산선"}},
				{Canonical: "4호선", Aliases: []string{"4호선", "안산선", "과천선"}},
				{Canonical: "9호선", Aliases: []string{"9호선", "9호선2~3단계"}},
				{Canonical: "수인/분당선", Aliases: []string{"수인선", "분당선"}},
				{Canonical: "경의/중앙선", Aliases: []string{"경의선", "중앙선"}},
				{Canonical: "공항철도", Aliases: []string{"공항철도 1호선"}},
			},
		},
		Colors: map[string]string{
			"1호선":    "#0052A4",
			"2호선":    "#009D3E",
			"3호선":    "#EF7C1C",
			"4호선":    "#00A5DE",
			"5호선":    "#996CAC",
			"6호선":    "#CD7C2F",
			"7호선":    "#747F00",
			"8호선":    "#EA545D",
			"9호선":    "#A17E46",
			"수인/분당선": "#F5A200",
			"우이신설선":  "#B0CE18",
			"공항철도":   "#0090D2",
		},
	}
}

// LoadConfig reads a YAML config. Sections that are absent keep their
// defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var file struct {
		Overrides *[]StationOverride `yaml:"overrides"`
		Aliases   *[]AliasRule       `yaml:"aliases"`
		Colors    map[string]string  `yaml:"colors"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg := DefaultConfig()
	if file.Overrides != nil {
		cfg.Rules.Overrides = *file.Overrides
	}
	if file.Aliases != nil {
		cfg.Rules.Aliases = *file.Aliases
	}
	if file.Colors != nil {
		cfg.Colors = file.Colors
	}
	if err := cfg.Rules.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}
