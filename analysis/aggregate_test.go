package analysis

import (
	"fmt"
	"testing"

	"finsight-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntityDistribution_SortsAndTruncates(t *testing.T) {
	entities := make([]models.NormalizedEntity, 0)
	// 12 labels with increasing counts; only the top 10 survive.
	for i := 1; i <= 12; i++ {
		label := fmt.Sprintf("LABEL_%02d", i)
		for j := 0; j < i; j++ {
			entities = append(entities, models.NormalizedEntity{
				Text:  fmt.Sprintf("%s occurrence %d", label, j),
				Label: label,
			})
		}
	}

	groups := EntityDistribution(entities)
	require.Len(t, groups, 10)
	assert.Equal(t, "LABEL_12", groups[0].Type)
	assert.Equal(t, 12, groups[0].Count)
	assert.Equal(t, "LABEL_03", groups[9].Type)
	for i := 0; i < len(groups)-1; i++ {
		assert.GreaterOrEqual(t, groups[i].Count, groups[i+1].Count)
	}
}

func TestEntityDistribution_CapsExamplesAtTen(t *testing.T) {
	entities := make([]models.NormalizedEntity, 0, 15)
	for i := 0; i < 15; i++ {
		entities = append(entities, models.NormalizedEntity{
			Text:  fmt.Sprintf("Acme %d", i),
			Label: "COMPANY",
		})
	}

	groups := EntityDistribution(entities)
	require.Len(t, groups, 1)
	assert.Equal(t, 15, groups[0].Count)
	assert.Len(t, groups[0].Examples, models.MaxEntityExamples)
	assert.Equal(t, "Acme 0", groups[0].Examples[0])
}

func TestEntityDistribution_Empty(t *testing.T) {
	assert.Empty(t, EntityDistribution(nil))
}

func TestSentimentDistribution_ZeroFilled(t *testing.T) {
	buckets := SentimentDistribution(models.NeutralSentiment())
	assert.Equal(t, []ChartBucket{
		{Label: "Positive", Count: 0},
		{Label: "Negative", Count: 0},
		{Label: "Neutral", Count: 0},
	}, buckets)
}

func TestSentimentDistribution_FixedBucketOrder(t *testing.T) {
	rec := models.NeutralSentiment()
	rec.Distribution[models.SentimentNegative] = 3
	rec.Distribution[models.SentimentPositive] = 1

	buckets := SentimentDistribution(rec)
	assert.Equal(t, "Positive", buckets[0].Label)
	assert.Equal(t, 1, buckets[0].Count)
	assert.Equal(t, 3, buckets[1].Count)
	assert.Equal(t, 0, buckets[2].Count)
}

func TestRiskDistribution_OmitsEmptyTiers(t *testing.T) {
	clauses := []models.Clause{
		clause("Termination Clause", "Either party may terminate this agreement."),
		clause("Payment Clause", "Payment is due in thirty days."),
		clause("Governing Law Clause", "This agreement is governed by Delaware law."),
	}

	buckets := RiskDistribution(clauses)
	assert.Equal(t, []ChartBucket{
		{Label: "High", Count: 2},
		{Label: "Medium", Count: 1},
	}, buckets)
}

func TestRiskDistribution_Empty(t *testing.T) {
	assert.Empty(t, RiskDistribution(nil))
}
