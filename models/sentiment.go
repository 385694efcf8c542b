package models

import "strings"

// SentimentLabel is one of the three canonical sentiment buckets.
type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "positive"
	SentimentNegative SentimentLabel = "negative"
	SentimentNeutral  SentimentLabel = "neutral"
)

// CanonicalSentimentLabel folds a backend label into the three canonical
// buckets. FinBERT sometimes emits extended labels ("very positive"), which
// collapse into their base bucket; anything unrecognized is neutral.
func CanonicalSentimentLabel(raw string) SentimentLabel {
	label := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case strings.Contains(label, "positive"):
		return SentimentPositive
	case strings.Contains(label, "negative"):
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

// SentenceSentiment is one sentence-level result from the sentiment backend.
type SentenceSentiment struct {
	Text  string         `json:"text"`
	Label SentimentLabel `json:"label"`
	Score float64        `json:"score"`
}

// SentimentRecord is the canonical sentiment result for a document.
// A document with no sentiment data is represented by NeutralSentiment(),
// never by an error.
type SentimentRecord struct {
	OverallLabel SentimentLabel         `json:"overall_label"`
	OverallScore float64                `json:"overall_score"`
	PerSentence  []SentenceSentiment    `json:"per_sentence"`
	Distribution map[SentimentLabel]int `json:"distribution"`
}

// NeutralSentiment returns the zero record used when the backend payload
// carries neither statistics nor sentence results.
func NeutralSentiment() SentimentRecord {
	return SentimentRecord{
		OverallLabel: SentimentNeutral,
		OverallScore: 0,
		PerSentence:  []SentenceSentiment{},
		Distribution: map[SentimentLabel]int{},
	}
}
