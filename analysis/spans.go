package analysis

import (
	"sort"
	"strings"

	"finsight-backend/models"
)

// ClauseSpan anchors a clause inside the document text as a half-open
// character range [StartOffset, EndOffset). ClauseIndex refers back to the
// position of the clause in the normalized clause list.
type ClauseSpan struct {
	ClauseIndex int `json:"clause_index"`
	StartOffset int `json:"start_offset"`
	EndOffset   int `json:"end_offset"`
}

// ResolveSpans maps extracted clause texts back onto the raw document text.
// The returned spans are strictly increasing and non-overlapping, in document
// order. Clauses that cannot be anchored, either because their text is not a
// substring of the document or because every occurrence lies before an
// already consumed span, come back as residual indices: they stay listable
// but are never highlighted.
//
// Anchoring uses first-occurrence substring search only. A repeated phrase
// is consumed left to right, one occurrence per clause, so a later duplicate
// clause can lose its anchor.
func ResolveSpans(documentText string, clauses []models.Clause) ([]ClauseSpan, []int) {
	spans := make([]ClauseSpan, 0, len(clauses))
	residual := make([]int, 0)

	if documentText == "" {
		for i := range clauses {
			residual = append(residual, i)
		}
		return spans, residual
	}

	type candidate struct {
		clauseIndex int
		firstAt     int
	}

	candidates := make([]candidate, 0, len(clauses))
	for i, clause := range clauses {
		at := strings.Index(documentText, clause.Text)
		if at < 0 {
			residual = append(residual, i)
			continue
		}
		candidates = append(candidates, candidate{clauseIndex: i, firstAt: at})
	}

	// Stable: clauses sharing a first occurrence keep their original order.
	sort.SliceStable(candidates, func(a, b int) bool {
		return candidates[a].firstAt < candidates[b].firstAt
	})

	lastEnd := 0
	for _, cand := range candidates {
		text := clauses[cand.clauseIndex].Text
		at := strings.Index(documentText[lastEnd:], text)
		if at < 0 {
			// Only occurrences before the cursor remain; drop from highlights.
			residual = append(residual, cand.clauseIndex)
			continue
		}
		start := lastEnd + at
		end := start + len(text)
		spans = append(spans, ClauseSpan{
			ClauseIndex: cand.clauseIndex,
			StartOffset: start,
			EndOffset:   end,
		})
		lastEnd = end
	}

	sort.Ints(residual)
	return spans, residual
}
