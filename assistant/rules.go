// Package assistant implements the AI equipment-recommendation pipeline:
// regex-based specification extraction, catalog filtering, LLM ranking via a
// local Ollama daemon, and availability checks through the schedule package.
package assistant

import (
	"regexp"
	"strconv"
	"strings"
)

// Spec is one technical constraint mined from free text, normalized to the
// parameter's canonical unit so numeric comparison is unit-agnostic.
type Spec struct {
	Param string  `json:"param"`
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// SpecRule maps one parameter to its prompt pattern. The pattern's first
// capture is the numeric value, the second the unit; Scale converts each
// accepted unit spelling (lower-cased) into the canonical one.
type SpecRule struct {
	Param   string
	Pattern *regexp.Regexp
	Unit    string
	Scale   map[string]float64
}

// DefaultRules is the fixed, ordered rule table. Order matters only for the
// ordering of extracted specs, not for matching.
var DefaultRules = []SpecRule{
	{
		Param:   "frequency",
		Pattern: regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*(ghz|mhz|khz|hz)\b`),
		Unit:    "Hz",
		Scale:   map[string]float64{"ghz": 1e9, "mhz": 1e6, "khz": 1e3, "hz": 1},
	},
	{
		Param:   "power",
		Pattern: regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*(mw|kw|w)\b`),
		Unit:    "W",
		Scale:   map[string]float64{"mw": 1e-3, "kw": 1e3, "w": 1},
	},
	{
		Param:   "temperature",
		Pattern: regexp.MustCompile(`(?i)(-?\d+(?:[.,]\d+)?)\s*(?:°\s*c|deg(?:rees)?\s*c|celsius)\b`),
		Unit:    "°C",
		Scale:   nil, // single unit
	},
	{
		Param:   "voltage",
		Pattern: regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*(mv|kv|v)\b`),
		Unit:    "V",
		Scale:   map[string]float64{"mv": 1e-3, "kv": 1e3, "v": 1},
	},
	{
		Param:   "current",
		Pattern: regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*(ma|a|amps?)\b`),
		Unit:    "A",
		Scale:   map[string]float64{"ma": 1e-3, "a": 1, "amp": 1, "amps": 1},
	},
}

// ExtractSpecs mines text with DefaultRules. Zero matches is a normal
// outcome, not an error; callers fall back to the unfiltered catalog.
func ExtractSpecs(text string) []Spec {
	return extractWith(DefaultRules, text)
}

func extractWith(rules []SpecRule, text string) []Spec {
	var out []Spec
	for _, r := range rules {
		for _, m := range r.Pattern.FindAllStringSubmatch(text, -1) {
			v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64)
			if err != nil {
				continue
			}
			if r.Scale != nil && len(m) > 2 {
				if f, ok := r.Scale[strings.ToLower(m[2])]; ok {
					v *= f
				}
			}
			out = append(out, Spec{Param: r.Param, Value: v, Unit: r.Unit})
		}
	}
	return out
}
