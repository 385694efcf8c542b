package analysis

import (
	"sort"

	"finsight-backend/models"
)

// ChartBucket is one labeled count in a chart-ready distribution.
type ChartBucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// maxEntityGroups caps the entity distribution at the ten most frequent labels.
const maxEntityGroups = 10

// EntityDistribution groups entity occurrences by label, most frequent first,
// truncated to the top ten. Each group keeps up to ten example texts in
// occurrence order.
func EntityDistribution(entities []models.NormalizedEntity) []models.EntityGroup {
	byLabel := make(map[string]*models.EntityGroup)
	order := make([]string, 0)

	for _, e := range entities {
		group, ok := byLabel[e.Label]
		if !ok {
			group = &models.EntityGroup{Type: e.Label}
			byLabel[e.Label] = group
			order = append(order, e.Label)
		}
		group.Count++
		if len(group.Examples) < models.MaxEntityExamples {
			group.Examples = append(group.Examples, e.Text)
		}
	}

	groups := make([]models.EntityGroup, 0, len(order))
	for _, label := range order {
		groups = append(groups, *byLabel[label])
	}
	sort.SliceStable(groups, func(a, b int) bool {
		return groups[a].Count > groups[b].Count
	})

	if len(groups) > maxEntityGroups {
		groups = groups[:maxEntityGroups]
	}
	return groups
}

// SentimentDistribution renders the three fixed sentiment buckets, zero-filled
// when the record carries no counts.
func SentimentDistribution(rec models.SentimentRecord) []ChartBucket {
	return []ChartBucket{
		{Label: "Positive", Count: rec.Distribution[models.SentimentPositive]},
		{Label: "Negative", Count: rec.Distribution[models.SentimentNegative]},
		{Label: "Neutral", Count: rec.Distribution[models.SentimentNeutral]},
	}
}

// RiskDistribution counts clauses per risk tier. Tiers with no clauses are
// omitted entirely rather than reported as zero.
func RiskDistribution(clauses []models.Clause) []ChartBucket {
	counts := map[models.Importance]int{}
	for _, c := range clauses {
		counts[models.ImportanceForType(c.Type)]++
	}

	buckets := make([]ChartBucket, 0, 3)
	for _, tier := range []struct {
		importance models.Importance
		label      string
	}{
		{models.ImportanceHigh, "High"},
		{models.ImportanceMedium, "Medium"},
		{models.ImportanceLow, "Low"},
	} {
		if counts[tier.importance] > 0 {
			buckets = append(buckets, ChartBucket{Label: tier.label, Count: counts[tier.importance]})
		}
	}
	return buckets
}
