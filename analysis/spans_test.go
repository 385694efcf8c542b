package analysis

import (
	"testing"

	"finsight-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clause(clauseType, text string) models.Clause {
	return models.Clause{
		Type:       clauseType,
		Text:       text,
		Importance: models.ImportanceForType(clauseType),
	}
}

func TestResolveSpans_DocumentOrder(t *testing.T) {
	doc := "First the payment terms apply. Then confidentiality is required. Finally termination rules."
	clauses := []models.Clause{
		clause("Termination Clause", "Finally termination rules."),
		clause("Payment Clause", "First the payment terms apply."),
		clause("Confidentiality Clause", "Then confidentiality is required."),
	}

	spans, residual := ResolveSpans(doc, clauses)
	require.Len(t, spans, 3)
	assert.Empty(t, residual)

	// Spans come out in document order regardless of clause-list order.
	assert.Equal(t, 1, spans[0].ClauseIndex)
	assert.Equal(t, 2, spans[1].ClauseIndex)
	assert.Equal(t, 0, spans[2].ClauseIndex)

	for i := 0; i < len(spans)-1; i++ {
		assert.LessOrEqual(t, spans[i].EndOffset, spans[i+1].StartOffset)
	}
	for _, s := range spans {
		assert.Equal(t, clauses[s.ClauseIndex].Text, doc[s.StartOffset:s.EndOffset])
	}
}

func TestResolveSpans_UnanchorableClauseGoesResidual(t *testing.T) {
	doc := "Only the payment clause is present here."
	clauses := []models.Clause{
		clause("Payment Clause", "payment clause is present"),
		clause("Liability Clause", "this text is nowhere in the document"),
	}

	spans, residual := ResolveSpans(doc, clauses)
	require.Len(t, spans, 1)
	assert.Equal(t, []int{1}, residual)
}

func TestResolveSpans_RepeatedTextConsumedOncePerWalk(t *testing.T) {
	doc := "Fees apply. Fees apply. Fees apply."
	clauses := []models.Clause{
		clause("Fee Clause", "Fees apply."),
		clause("Fee Clause", "Fees apply."),
	}

	spans, residual := ResolveSpans(doc, clauses)
	require.Len(t, spans, 2)
	assert.Empty(t, residual)
	assert.Equal(t, 0, spans[0].StartOffset)
	assert.Equal(t, 12, spans[1].StartOffset)
	assert.LessOrEqual(t, spans[0].EndOffset, spans[1].StartOffset)
}

func TestResolveSpans_OccurrenceBeforeCursorIsDropped(t *testing.T) {
	// The shared prefix anchors the longer clause first; the shorter clause's
	// only occurrence then lies inside the consumed span.
	doc := "The Liability Clause limits damages heavily."
	clauses := []models.Clause{
		clause("Liability Clause", "The Liability Clause limits damages"),
		clause("Liability Clause", "Liability Clause limits"),
	}

	spans, residual := ResolveSpans(doc, clauses)
	require.Len(t, spans, 1)
	assert.Equal(t, 0, spans[0].ClauseIndex)
	assert.Equal(t, []int{1}, residual)
}

func TestResolveSpans_EmptyDocumentText(t *testing.T) {
	clauses := []models.Clause{clause("Payment Clause", "Payment is due.")}

	spans, residual := ResolveSpans("", clauses)
	assert.Empty(t, spans)
	assert.Equal(t, []int{0}, residual)
}

func TestResolveSpans_Deterministic(t *testing.T) {
	doc := "A pays B. B indemnifies A. A pays B again. Disputes go to arbitration."
	clauses := []models.Clause{
		clause("Payment Clause", "A pays B"),
		clause("Indemnity Clause", "B indemnifies A."),
		clause("Payment Clause", "A pays B again."),
		clause("Dispute Clause", "Disputes go to arbitration."),
	}

	first, firstResidual := ResolveSpans(doc, clauses)
	second, secondResidual := ResolveSpans(doc, clauses)
	assert.Equal(t, first, second)
	assert.Equal(t, firstResidual, secondResidual)
}

// End-to-end scenario: normalize → classify → anchor → aggregate.
func TestViewModel_EndToEnd(t *testing.T) {
	doc := "A. The Liability Clause limits damages. B. The Confidentiality Clause restricts disclosure."
	clausePayload := models.RawPayload{
		"text": doc,
		"clauses": []interface{}{
			map[string]interface{}{"type": "liability_clause", "text": "The Liability Clause limits damages"},
			map[string]interface{}{"type": "confidentiality_clause", "text": "The Confidentiality Clause restricts disclosure"},
		},
	}

	vm := BuildViewModel("", models.RawPayload{}, models.RawPayload{}, clausePayload)

	require.Len(t, vm.Clauses, 2)
	assert.Equal(t, []ChartBucket{
		{Label: "High", Count: 1},
		{Label: "Medium", Count: 1},
	}, vm.RiskChart)

	require.Len(t, vm.Spans, 2)
	assert.Empty(t, vm.Residual)
	assert.LessOrEqual(t, vm.Spans[0].EndOffset, vm.Spans[1].StartOffset)
	assert.Equal(t, 0, vm.Spans[0].ClauseIndex)
	assert.Equal(t, 1, vm.Spans[1].ClauseIndex)
	assert.False(t, vm.Empty())
}

func TestViewModel_EmptyBundleIsWaitingState(t *testing.T) {
	vm := BuildViewModel("", models.RawPayload{}, models.RawPayload{}, models.RawPayload{})
	assert.True(t, vm.Empty())
}
