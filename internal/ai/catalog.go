// Package ai implements the response generator: a dispatch layer over either
// a hosted chat-completion backend or a deterministic local mock, plus the
// fixed competency catalog and prompt templates shared by both paths.
package ai

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Competency is one entry of the fixed soft-skill catalog: a single-letter
// code, a display label, and the definition shown in prompts and reports.
type Competency struct {
	Code        string `json:"code"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

// Catalog is the process-wide read-only competency table plus the assistant
// persona used by the prompt templates. Loaded once at startup.
type Catalog struct {
	SystemRole   string       `json:"system_role"`
	Competencies []Competency `json:"competencies"`
}

// DefaultCatalog returns the hard-coded catalog used when no prompts file is
// configured or the configured file cannot be read.
func DefaultCatalog() Catalog {
	return Catalog{
		SystemRole: "You are the university's learning-support AI assistant.",
		Competencies: []Competency{
			{Code: "R", Label: "Resilience", Description: "learns from setbacks and failures and recovers from them"},
			{Code: "I", Label: "Initiative", Description: "sets own goals and pursues them without giving up"},
			{Code: "T", Label: "Teamwork", Description: "cooperates with others to achieve a shared purpose"},
			{Code: "S", Label: "Self-Efficacy", Description: "trusts in one's own way of solving problems"},
			{Code: "U", Label: "Understanding", Description: "grasps subject matter in a scientific, systematic way"},
			{Code: "M", Label: "Multitasking", Description: "works on multiple tasks in a balanced manner"},
			{Code: "E", Label: "Empathy", Description: "imagines and stays close to how other people feel"},
			{Code: "C", Label: "Innovation", Description: "creates change through new ways of thinking"},
		},
	}
}

// LoadCatalog reads the catalog from the JSON file at path. Any failure
// (missing file, malformed JSON, empty competency list) falls back to the
// hard-coded default, matching the startup contract that a catalog is always
// available. Labels from the file are normalized to title case.
func LoadCatalog(path string) Catalog {
	if path == "" {
		return DefaultCatalog()
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		log.Warn().Str("path", path).Err(err).Msg("prompts file not found, using default catalog")
		return DefaultCatalog()
	}

	var c Catalog
	if err := json.Unmarshal(raw, &c); err != nil {
		log.Error().Str("path", path).Err(err).Msg("prompts file unreadable, using default catalog")
		return DefaultCatalog()
	}
	if len(c.Competencies) == 0 {
		log.Warn().Str("path", path).Msg("prompts file has no competencies, using default catalog")
		return DefaultCatalog()
	}

	if c.SystemRole == "" {
		c.SystemRole = DefaultCatalog().SystemRole
	}
	titleCaser := cases.Title(language.English)
	defaults := DefaultCatalog().Competencies
	for i := range c.Competencies {
		c.Competencies[i].Label = titleCaser.String(strings.TrimSpace(c.Competencies[i].Label))
		c.Competencies[i].Code = strings.TrimSpace(c.Competencies[i].Code)
		if c.Competencies[i].Code == "" {
			// Prompts files authored as label/description pairs omit
			// codes. Assign them positionally from the default catalog
			// so keyword rules and the fallback pair still resolve.
			if i < len(defaults) {
				c.Competencies[i].Code = defaults[i].Code
			} else if label := c.Competencies[i].Label; label != "" {
				c.Competencies[i].Code = strings.ToUpper(string([]rune(label)[0]))
			}
		}
	}
	return c
}

// byCode returns the catalog entry with the given code, or false when the
// code is not in the catalog.
func (c Catalog) byCode(code string) (Competency, bool) {
	for _, comp := range c.Competencies {
		if comp.Code == code {
			return comp, true
		}
	}
	return Competency{}, false
}
