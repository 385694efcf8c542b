package models

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Importance is the risk tier of a clause.
type Importance string

const (
	ImportanceHigh   Importance = "high"
	ImportanceMedium Importance = "medium"
	ImportanceLow    Importance = "low"
)

// Clause is a canonical extracted clause. Type is already human-cased
// (underscores replaced, title case) by the normalizer.
type Clause struct {
	Type       string            `json:"type"`
	Text       string            `json:"text"`
	Importance Importance        `json:"importance"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

var (
	highRiskKeywords   = []string{"liability", "termination", "indemnity", "payment", "dispute"}
	mediumRiskKeywords = []string{"confidentiality", "warranty", "governing", "interest"}
)

// ImportanceForType classifies a clause type into a risk tier. This is the
// single classification function: the risk chart and the clause list must
// both go through it so they can never disagree.
func ImportanceForType(clauseType string) Importance {
	lowered := strings.ToLower(clauseType)
	for _, kw := range highRiskKeywords {
		if strings.Contains(lowered, kw) {
			return ImportanceHigh
		}
	}
	for _, kw := range mediumRiskKeywords {
		if strings.Contains(lowered, kw) {
			return ImportanceMedium
		}
	}
	return ImportanceLow
}

// DisplayClauseType converts a backend class name like "payment_clause"
// into "Payment Clause".
func DisplayClauseType(raw string) string {
	spaced := strings.ReplaceAll(strings.TrimSpace(raw), "_", " ")
	words := strings.Fields(spaced)
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + strings.ToLower(w[size:])
	}
	return strings.Join(words, " ")
}

// minClauseTextLength is the shortest clause text worth showing.
const minClauseTextLength = 6

// ValidClauseText reports whether an extracted clause text should survive
// normalization. Backends occasionally emit literal "null" strings or the
// placeholder "No text available" for clauses they could not ground.
func ValidClauseText(text string) bool {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) < minClauseTextLength {
		return false
	}
	if strings.EqualFold(trimmed, "null") {
		return false
	}
	if trimmed == "No text available" {
		return false
	}
	return true
}
