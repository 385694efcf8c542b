package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"finsight-backend/analysis"
)

// Format identifies an export format.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatText Format = "txt"
	FormatHTML Format = "html"
)

// FormatInfo describes one supported export format for discovery endpoints.
type FormatInfo struct {
	ID          Format `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Extension   string `json:"extension"`
	MimeType    string `json:"mime_type"`
}

// SupportedFormats lists every export format the service can produce.
func SupportedFormats() []FormatInfo {
	return []FormatInfo{
		{FormatJSON, "JSON", "Complete analysis results in JSON format", ".json", "application/json"},
		{FormatCSV, "CSV", "Entities and clauses in CSV format", ".csv", "text/csv"},
		{FormatText, "Text Report", "Formatted text summary", ".txt", "text/plain"},
		{FormatHTML, "HTML Report", "Comprehensive HTML report with styling", ".html", "text/html"},
	}
}

// Export carries a rendered export ready to stream to the client.
type Export struct {
	Filename string
	MimeType string
	Content  []byte
}

// maxExampleEntities caps the occurrences listed per entity type in the
// text report.
const maxExampleEntities = 5

// Build renders a view model in the requested format.
func Build(vm analysis.ViewModel, format Format, now time.Time) (*Export, error) {
	switch format {
	case FormatJSON:
		return buildJSON(vm, now)
	case FormatCSV:
		return buildCSV(vm, now)
	case FormatText:
		return buildText(vm, now)
	case FormatHTML:
		return BuildHTMLReport(vm, now)
	default:
		return nil, fmt.Errorf("unsupported format: %s, use 'json', 'csv', 'txt' or 'html'", format)
	}
}

func exportFilename(prefix, ext string, now time.Time) string {
	return fmt.Sprintf("%s_%s%s", prefix, now.Format("20060102_150405"), ext)
}

func buildJSON(vm analysis.ViewModel, now time.Time) (*Export, error) {
	content, err := json.MarshalIndent(vm, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode results: %w", err)
	}

	return &Export{
		Filename: exportFilename("analysis_results", ".json", now),
		MimeType: "application/json",
		Content:  content,
	}, nil
}

func buildCSV(vm analysis.ViewModel, now time.Time) (*Export, error) {
	var buf bytes.Buffer

	writer := csv.NewWriter(&buf)
	if err := writer.Write([]string{"Type", "Text"}); err != nil {
		return nil, err
	}
	for _, entity := range vm.Entities {
		if err := writer.Write([]string{entity.Label, entity.Text}); err != nil {
			return nil, err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}

	if len(vm.Clauses) > 0 {
		buf.WriteString("\nExtracted Clauses\n")
		writer = csv.NewWriter(&buf)
		if err := writer.Write([]string{"Type", "Importance", "Text"}); err != nil {
			return nil, err
		}
		for _, clause := range vm.Clauses {
			if err := writer.Write([]string{clause.Type, string(clause.Importance), clause.Text}); err != nil {
				return nil, err
			}
		}
		writer.Flush()
		if err := writer.Error(); err != nil {
			return nil, err
		}
	}

	return &Export{
		Filename: exportFilename("analysis_results", ".csv", now),
		MimeType: "text/csv",
		Content:  buf.Bytes(),
	}, nil
}

func buildText(vm analysis.ViewModel, now time.Time) (*Export, error) {
	var b strings.Builder
	rule := strings.Repeat("=", 60)
	subRule := strings.Repeat("-", 60)

	fmt.Fprintln(&b, rule)
	fmt.Fprintln(&b, "FINANCIAL INSIGHT ANALYSIS REPORT")
	fmt.Fprintf(&b, "Generated: %s\n", now.Format("2006-01-02 15:04:05"))
	fmt.Fprintln(&b, rule)
	fmt.Fprintln(&b)

	if len(vm.Entities) > 0 {
		fmt.Fprintln(&b, "NAMED ENTITY RECOGNITION")
		fmt.Fprintln(&b, subRule)
		fmt.Fprintf(&b, "Total Entities Found: %d\n\n", len(vm.Entities))

		for _, group := range vm.EntityGroups {
			fmt.Fprintf(&b, "%s: %d instances\n", group.Type, group.Count)
			examples := group.Examples
			if len(examples) > maxExampleEntities {
				examples = examples[:maxExampleEntities]
			}
			for _, example := range examples {
				fmt.Fprintf(&b, "  - %s\n", example)
			}
			if group.Count > maxExampleEntities {
				fmt.Fprintf(&b, "  ... and %d more\n", group.Count-maxExampleEntities)
			}
			fmt.Fprintln(&b)
		}
	}

	if len(vm.Sentiment.Distribution) > 0 || len(vm.Sentiment.PerSentence) > 0 {
		fmt.Fprintln(&b, "SENTIMENT ANALYSIS")
		fmt.Fprintln(&b, subRule)
		fmt.Fprintf(&b, "Overall Sentiment: %s\n\n", strings.ToUpper(string(vm.Sentiment.OverallLabel)))

		fmt.Fprintln(&b, "Sentiment Distribution:")
		for _, bucket := range vm.SentimentChart {
			fmt.Fprintf(&b, "  %s: %d\n", bucket.Label, bucket.Count)
		}
		fmt.Fprintln(&b)
	}

	if len(vm.Clauses) > 0 {
		fmt.Fprintln(&b, "CLAUSE EXTRACTION")
		fmt.Fprintln(&b, subRule)

		for _, clause := range vm.Clauses {
			fmt.Fprintf(&b, "\n[%s]\n", strings.ToUpper(clause.Type))
			fmt.Fprintln(&b, clause.Text)
			fmt.Fprintf(&b, "Importance: %s\n", clause.Importance)
		}
		fmt.Fprintf(&b, "\nTotal Clauses Extracted: %d\n\n", len(vm.Clauses))
	}

	fmt.Fprintln(&b, rule)
	fmt.Fprintln(&b, "END OF REPORT")
	fmt.Fprintln(&b, rule)

	return &Export{
		Filename: exportFilename("analysis_report", ".txt", now),
		MimeType: "text/plain",
		Content:  []byte(b.String()),
	}, nil
}
