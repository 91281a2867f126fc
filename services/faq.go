package services

import (
	"strings"

	"usedcar-analyzer/models"
)

// SearchFAQ returns the FAQ entries whose category, question or answer
// contains term, compared case-insensitively. An empty or blank term
// matches everything.
func SearchFAQ(entries []models.FAQEntry, term string) []models.FAQEntry {
	term = strings.TrimSpace(term)
	if term == "" {
		return append([]models.FAQEntry(nil), entries...)
	}

	needle := strings.ToLower(term)
	out := make([]models.FAQEntry, 0, len(entries))
	for _, e := range entries {
		if strings.Contains(strings.ToLower(e.Question), needle) ||
			strings.Contains(strings.ToLower(e.Answer), needle) ||
			strings.Contains(strings.ToLower(e.Category), needle) {
			out = append(out, e)
		}
	}
	return out
}
