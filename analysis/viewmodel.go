package analysis

import (
	"finsight-backend/models"
)

// ViewModel is everything the frontend needs to render one analyzed document:
// canonical records plus the derived chart and highlight data. It is computed
// once per bundle by pure functions, so two calls over the same stored
// analysis always render identically.
type ViewModel struct {
	DocumentText   string                    `json:"document_text"`
	Entities       []models.NormalizedEntity `json:"entities"`
	EntityGroups   []models.EntityGroup      `json:"entity_groups"`
	Sentiment      models.SentimentRecord    `json:"sentiment"`
	Clauses        []models.Clause           `json:"clauses"`
	Spans          []ClauseSpan              `json:"spans"`
	Residual       []int                     `json:"residual"`
	SentimentChart []ChartBucket             `json:"sentiment_chart"`
	RiskChart      []ChartBucket             `json:"risk_chart"`
}

// Empty reports whether the bundle carried no usable analysis at all, which
// routes the UI to its waiting state instead of an error.
func (v ViewModel) Empty() bool {
	return len(v.Entities) == 0 && len(v.Clauses) == 0 &&
		len(v.Sentiment.PerSentence) == 0 && len(v.Sentiment.Distribution) == 0
}

// BuildViewModel normalizes a raw analysis bundle and derives the view model.
// documentText, when known from the extraction step, wins over whatever text
// the clause payload carries.
func BuildViewModel(documentText string, ner, sentiment, clauses models.RawPayload) ViewModel {
	clauseList, clauseText := NormalizeClauses(clauses)
	if documentText == "" {
		documentText = clauseText
	}

	entities := NormalizeNER(ner)
	record := NormalizeSentiment(sentiment)
	spans, residual := ResolveSpans(documentText, clauseList)

	return ViewModel{
		DocumentText:   documentText,
		Entities:       entities,
		EntityGroups:   EntityDistribution(entities),
		Sentiment:      record,
		Clauses:        clauseList,
		Spans:          spans,
		Residual:       residual,
		SentimentChart: SentimentDistribution(record),
		RiskChart:      RiskDistribution(clauseList),
	}
}

// BuildViewModelFromAnalysis is the stored-analysis convenience wrapper.
func BuildViewModelFromAnalysis(a *models.Analysis) ViewModel {
	return BuildViewModel(a.DocumentText, a.NER, a.Sentiment, a.Clauses)
}
