package report

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finsight-backend/analysis"
	"finsight-backend/models"
)

func sampleViewModel() analysis.ViewModel {
	ner := models.RawPayload{
		"entities": []interface{}{
			map[string]interface{}{"text": "Acme Corp", "label": "ORG"},
			map[string]interface{}{"text": "Q3 2025", "label": "DATE"},
		},
	}
	sentiment := models.RawPayload{
		"statistics": map[string]interface{}{
			"overall_sentiment": "negative",
			"sentiment_distribution": map[string]interface{}{
				"positive": float64(1),
				"negative": float64(3),
				"neutral":  float64(2),
			},
		},
		"sentence_results": []interface{}{
			map[string]interface{}{"text": "Revenue declined sharply.", "label": "negative", "score": 0.92},
		},
	}
	clauses := models.RawPayload{
		"clauses": []interface{}{
			map[string]interface{}{
				"extraction_class": "liability_clause",
				"text":             "The supplier accepts unlimited liability.",
			},
		},
	}
	return analysis.BuildViewModel("The supplier accepts unlimited liability.", ner, sentiment, clauses)
}

func fixedNow() time.Time {
	return time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)
}

func TestBuild_JSONRoundTrips(t *testing.T) {
	export, err := Build(sampleViewModel(), FormatJSON, fixedNow())
	require.NoError(t, err)

	assert.Equal(t, "analysis_results_20260314_150926.json", export.Filename)
	assert.Equal(t, "application/json", export.MimeType)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(export.Content, &decoded))
	assert.Contains(t, decoded, "entities")
	assert.Contains(t, decoded, "risk_chart")
}

func TestBuild_CSVContainsEntitiesAndClauses(t *testing.T) {
	export, err := Build(sampleViewModel(), FormatCSV, fixedNow())
	require.NoError(t, err)

	content := string(export.Content)
	assert.Equal(t, "text/csv", export.MimeType)
	assert.Contains(t, content, "Type,Text")
	assert.Contains(t, content, "ORG,Acme Corp")
	assert.Contains(t, content, "Extracted Clauses")
	assert.Contains(t, content, "Liability Clause,high")
}

func TestBuild_TextReportSections(t *testing.T) {
	export, err := Build(sampleViewModel(), FormatText, fixedNow())
	require.NoError(t, err)

	content := string(export.Content)
	assert.Contains(t, content, "FINANCIAL INSIGHT ANALYSIS REPORT")
	assert.Contains(t, content, "NAMED ENTITY RECOGNITION")
	assert.Contains(t, content, "Overall Sentiment: NEGATIVE")
	assert.Contains(t, content, "[LIABILITY CLAUSE]")
	assert.Contains(t, content, "Total Clauses Extracted: 1")
	assert.Contains(t, content, "END OF REPORT")
}

func TestBuild_HTMLReport(t *testing.T) {
	export, err := Build(sampleViewModel(), FormatHTML, fixedNow())
	require.NoError(t, err)

	content := string(export.Content)
	assert.Equal(t, "text/html", export.MimeType)
	assert.True(t, strings.HasPrefix(content, "<!DOCTYPE html>"))
	assert.Contains(t, content, "Financial Insight Analysis Report")
	assert.Contains(t, content, "<h2")
	assert.Contains(t, content, "Liability Clause")
	assert.Contains(t, content, "Report ID: 20260314150926")
}

func TestBuild_UnsupportedFormat(t *testing.T) {
	_, err := Build(sampleViewModel(), Format("pdf"), fixedNow())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format")
}

func TestSupportedFormats(t *testing.T) {
	formats := SupportedFormats()
	require.Len(t, formats, 4)
	assert.Equal(t, FormatJSON, formats[0].ID)
	assert.Equal(t, ".html", formats[3].Extension)
}
