package analysis

import (
	"encoding/json"
	"sort"

	"finsight-backend/models"
)

// The analysis backends have shipped three clause payload shapes over time.
// They are resolved exactly once, here, into canonical records; nothing
// downstream ever looks at a raw payload again.
type clauseShape int

const (
	clauseShapeNone       clauseShape = iota
	clauseShapeMultiModel             // results[model].extractions[]
	clauseShapeFlat                   // clauses[]
	clauseShapeLegacy                 // langextract.clauses[]
)

// NormalizeNER converts a raw NER payload into entity occurrences.
// A payload without an entities list yields an empty slice, not an error.
func NormalizeNER(raw models.RawPayload) []models.NormalizedEntity {
	entities := make([]models.NormalizedEntity, 0)
	for _, item := range getSlice(raw, "entities") {
		m, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		text := getString(m, "text")
		if text == "" {
			continue
		}
		label := firstString(m, "label", "type")
		if label == "" {
			label = "UNKNOWN"
		}
		entities = append(entities, models.NormalizedEntity{Text: text, Label: label})
	}
	return entities
}

// NormalizeSentiment converts a raw FinBERT payload into the canonical
// sentiment record. Aggregate counts come from statistics.sentiment_distribution
// when present; sentence detail from sentence_results. A payload with neither
// yields the neutral zero record.
func NormalizeSentiment(raw models.RawPayload) models.SentimentRecord {
	rec := models.NeutralSentiment()

	stats := getMap(raw, "statistics")
	if stats != nil {
		for label, v := range getMap(stats, "sentiment_distribution") {
			count, ok := toInt(v)
			if !ok || count <= 0 {
				continue
			}
			rec.Distribution[models.CanonicalSentimentLabel(label)] += count
		}
		if overall := getString(stats, "overall_sentiment"); overall != "" {
			rec.OverallLabel = models.CanonicalSentimentLabel(overall)
		}
		if averages := getMap(stats, "average_scores"); averages != nil {
			if score, ok := toFloat(averages[getString(stats, "overall_sentiment")]); ok {
				rec.OverallScore = score
			}
		}
	}

	for _, item := range getSlice(raw, "sentence_results") {
		m, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		score, _ := toFloat(m["score"])
		rec.PerSentence = append(rec.PerSentence, models.SentenceSentiment{
			Text:  getString(m, "text"),
			Label: models.CanonicalSentimentLabel(getString(m, "label")),
			Score: score,
		})
	}

	// No statistics block: fall back to counting sentences so the chart
	// still has something to show.
	if stats == nil && len(rec.PerSentence) > 0 {
		for _, s := range rec.PerSentence {
			rec.Distribution[s.Label]++
		}
		rec.OverallLabel = dominantLabel(rec.Distribution)
	}

	return rec
}

// NormalizeClauses converts a raw clause-extraction payload, in any of the
// three historical shapes, into canonical clauses plus the document text the
// extractions refer to. Clauses failing the text filter are discarded here,
// before any view sees them.
func NormalizeClauses(raw models.RawPayload) ([]models.Clause, string) {
	extractions, documentText, shape := resolveClausePayload(raw)

	clauses := make([]models.Clause, 0, len(extractions))
	if shape == clauseShapeNone {
		return clauses, documentText
	}

	for _, item := range extractions {
		m, ok := item.(map[string]interface{})
		if !ok {
			continue
		}

		text := firstString(m, "extraction_text", "text")
		if !models.ValidClauseText(text) {
			continue
		}

		rawType := firstString(m, "extraction_class", "type", "class")
		if rawType == "" {
			rawType = "General Clause"
		}
		displayType := models.DisplayClauseType(rawType)

		clauses = append(clauses, models.Clause{
			Type:       displayType,
			Text:       text,
			Importance: models.ImportanceForType(displayType),
			Attributes: stringAttributes(getMap(m, "attributes")),
		})
	}

	return clauses, documentText
}

// resolveClausePayload identifies which of the three payload shapes was
// received and pulls out the extraction list and document text.
func resolveClausePayload(raw models.RawPayload) ([]interface{}, string, clauseShape) {
	documentText := getString(raw, "text")

	// Shape (a): multi-model results keyed by model name. Model keys are
	// walked in sorted order so the same payload always resolves to the
	// same model's extractions.
	if results := getMap(raw, "results"); len(results) > 0 {
		names := make([]string, 0, len(results))
		for name := range results {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			modelResult, ok := results[name].(map[string]interface{})
			if !ok {
				continue
			}
			extractions := getSlice(modelResult, "extractions")
			if extractions == nil {
				continue
			}
			if documentText == "" {
				documentText = getString(getMap(modelResult, "json_output"), "text")
			}
			return extractions, documentText, clauseShapeMultiModel
		}
	}

	// Shape (b): flat clause list.
	if clauses := getSlice(raw, "clauses"); clauses != nil {
		return clauses, documentText, clauseShapeFlat
	}

	// Shape (c): legacy nested payload.
	if legacy := getMap(raw, "langextract"); legacy != nil {
		if clauses := getSlice(legacy, "clauses"); clauses != nil {
			if documentText == "" {
				documentText = getString(legacy, "text")
			}
			return clauses, documentText, clauseShapeLegacy
		}
	}

	return nil, documentText, clauseShapeNone
}

func dominantLabel(dist map[models.SentimentLabel]int) models.SentimentLabel {
	best := models.SentimentNeutral
	bestCount := 0
	// Fixed probe order keeps ties deterministic.
	for _, label := range []models.SentimentLabel{models.SentimentPositive, models.SentimentNegative, models.SentimentNeutral} {
		if dist[label] > bestCount {
			best = label
			bestCount = dist[label]
		}
	}
	return best
}

func stringAttributes(raw map[string]interface{}) map[string]string {
	if len(raw) == 0 {
		return nil
	}
	attrs := make(map[string]string, len(raw))
	for k, v := range raw {
		if s, ok := v.(string); ok {
			attrs[k] = s
		}
	}
	if len(attrs) == 0 {
		return nil
	}
	return attrs
}

// Loose-payload accessors. Backend fields routinely go missing or change
// type between versions; every probe degrades to a zero value.

func getString(m map[string]interface{}, key string) string {
	if m == nil {
		return ""
	}
	s, _ := m[key].(string)
	return s
}

func firstString(m map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		if s := getString(m, key); s != "" {
			return s
		}
	}
	return ""
}

func getSlice(m map[string]interface{}, key string) []interface{} {
	if m == nil {
		return nil
	}
	s, _ := m[key].([]interface{})
	return s
}

func getMap(m map[string]interface{}, key string) map[string]interface{} {
	if m == nil {
		return nil
	}
	sub, _ := m[key].(map[string]interface{})
	return sub
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

func toInt(v interface{}) (int, bool) {
	f, ok := toFloat(v)
	if !ok {
		return 0, false
	}
	return int(f), true
}
