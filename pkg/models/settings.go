package models

import (
	"strings"
	"unicode"

	"github.com/pluqqy/tpmedit/pkg/formmap"
)

// Settings represents the editor configuration
type Settings struct {
	ConfigPath string            `yaml:"config_path"`
	Sections   []SectionSettings `yaml:"sections"`
	Number     NumberSettings    `yaml:"number"`
	Output     OutputSettings    `yaml:"output"`
	UI         UISettings        `yaml:"ui"`
}

// SectionSettings names a top-level key of the config document and the label
// shown on its tab
type SectionSettings struct {
	Key   string `yaml:"key"`
	Label string `yaml:"label"`
}

// NumberSettings bounds numeric fields
type NumberSettings struct {
	Min      float64 `yaml:"min"`
	Max      float64 `yaml:"max"`
	Decimals int     `yaml:"decimals"`
}

// Bounds converts the settings into the limits applied by forms
func (n NumberSettings) Bounds() formmap.NumberBounds {
	return formmap.NumberBounds{Min: n.Min, Max: n.Max, Decimals: n.Decimals}
}

// OutputSettings controls how the config file is written
type OutputSettings struct {
	Indent int `yaml:"indent"`
}

// UISettings controls UI preferences
type UISettings struct {
	WatchFile bool `yaml:"watch_file"`
	ShowPaths bool `yaml:"show_paths"`
}

// DefaultSettings returns the default configuration
func DefaultSettings() *Settings {
	return &Settings{
		ConfigPath: "data/config.json",
		Sections: []SectionSettings{
			{Key: "dirty_air", Label: "Dirty Air"},
			{Key: "tyres", Label: "Tyres"},
			{Key: "pitstops", Label: "Pitstops"},
			{Key: "incidents", Label: "Incidents"},
			{Key: "safety_car", Label: "Safety Car"},
			{Key: "injuries", Label: "Injuries"},
		},
		Number: NumberSettings{
			Min:      -1e6,
			Max:      1e6,
			Decimals: 4,
		},
		Output: OutputSettings{
			Indent: 4,
		},
		UI: UISettings{
			WatchFile: true,
			ShowPaths: false,
		},
	}
}

// SectionLabel returns the configured label for key, or a title-cased form
// of the key itself ("safety_car" becomes "Safety Car").
func (s *Settings) SectionLabel(key string) string {
	for _, sec := range s.Sections {
		if sec.Key == key && sec.Label != "" {
			return sec.Label
		}
	}
	return Humanize(key)
}

// OrderSections puts the configured sections first, in configured order, and
// appends the remaining keys in the order given. Configured keys that are
// not in keys are skipped.
func (s *Settings) OrderSections(keys []string) []string {
	present := make(map[string]bool, len(keys))
	for _, k := range keys {
		present[k] = true
	}

	out := make([]string, 0, len(keys))
	used := make(map[string]bool, len(keys))
	for _, sec := range s.Sections {
		if present[sec.Key] && !used[sec.Key] {
			out = append(out, sec.Key)
			used[sec.Key] = true
		}
	}
	for _, k := range keys {
		if !used[k] {
			out = append(out, k)
			used[k] = true
		}
	}
	return out
}

// Humanize turns a snake_case or kebab-case key into words with initial
// capitals.
func Humanize(key string) string {
	words := strings.FieldsFunc(key, func(r rune) bool {
		return r == '_' || r == '-' || r == ' '
	})
	for i, w := range words {
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	if len(words) == 0 {
		return key
	}
	return strings.Join(words, " ")
}
