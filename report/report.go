package report

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"finsight-backend/analysis"
)

// markdown renders the report body. GFM tables carry the chart data.
var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
)

// maxReportSentences caps the per-sentence sentiment listing in the HTML
// report.
const maxReportSentences = 10

const reportStyle = `
body { font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; margin: 40px; background: #f5f5f5; }
.container { max-width: 1200px; margin: 0 auto; background: white; padding: 40px; border-radius: 8px; box-shadow: 0 2px 10px rgba(0,0,0,0.1); }
h1 { color: #2c3e50; border-bottom: 3px solid #3498db; padding-bottom: 10px; }
h2 { color: #34495e; margin-top: 30px; border-left: 4px solid #3498db; padding-left: 15px; }
table { border-collapse: collapse; margin: 20px 0; }
th, td { border: 1px solid #ecf0f1; padding: 8px 16px; text-align: left; }
th { background: #ecf0f1; color: #34495e; }
blockquote { background: #fff3cd; border-left: 4px solid #ffc107; padding: 15px; margin: 15px 0; border-radius: 4px; }
.metadata { background: #f8f9fa; padding: 15px; border-radius: 4px; margin-top: 30px; font-size: 0.9em; color: #6c757d; }
`

// BuildHTMLReport renders the comprehensive HTML report: summary statistics,
// entity groups, sentiment and every extracted clause, assembled as markdown
// and converted to styled HTML.
func BuildHTMLReport(vm analysis.ViewModel, now time.Time) (*Export, error) {
	body, err := renderMarkdown(buildReportMarkdown(vm, now))
	if err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}

	var page strings.Builder
	page.WriteString("<!DOCTYPE html>\n<html lang='en'>\n<head>\n")
	page.WriteString("<meta charset='UTF-8'>\n")
	page.WriteString("<meta name='viewport' content='width=device-width, initial-scale=1.0'>\n")
	page.WriteString("<title>Financial Insight Analysis Report</title>\n")
	page.WriteString("<style>" + reportStyle + "</style>\n")
	page.WriteString("</head>\n<body>\n<div class='container'>\n")
	page.WriteString(body)
	page.WriteString("\n</div>\n</body>\n</html>\n")

	return &Export{
		Filename: exportFilename("financial_insight_report", ".html", now),
		MimeType: "text/html",
		Content:  []byte(page.String()),
	}, nil
}

func renderMarkdown(src string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func buildReportMarkdown(vm analysis.ViewModel, now time.Time) string {
	var b strings.Builder

	fmt.Fprintln(&b, "# Financial Insight Analysis Report")
	fmt.Fprintf(&b, "\nGenerated on %s\n", now.Format("January 2, 2006 at 3:04 PM"))

	fmt.Fprintln(&b, "\n| Entities Found | Overall Sentiment | Clauses Extracted |")
	fmt.Fprintln(&b, "| --- | --- | --- |")
	fmt.Fprintf(&b, "| %d | %s | %d |\n",
		len(vm.Entities),
		strings.ToUpper(string(vm.Sentiment.OverallLabel)),
		len(vm.Clauses))

	if len(vm.EntityGroups) > 0 {
		fmt.Fprintln(&b, "\n## Named Entity Recognition")
		for _, group := range vm.EntityGroups {
			fmt.Fprintf(&b, "\n### %s (%d)\n\n", group.Type, group.Count)
			for _, example := range group.Examples {
				fmt.Fprintf(&b, "- %s\n", example)
			}
		}
	}

	if len(vm.Sentiment.PerSentence) > 0 {
		fmt.Fprintln(&b, "\n## Sentiment Analysis")
		fmt.Fprintln(&b)
		sentences := vm.Sentiment.PerSentence
		if len(sentences) > maxReportSentences {
			sentences = sentences[:maxReportSentences]
		}
		for _, sentence := range sentences {
			fmt.Fprintf(&b, "**[%s]** %s\n\n", strings.ToUpper(string(sentence.Label)), sentence.Text)
		}
	}

	if len(vm.Clauses) > 0 {
		fmt.Fprintln(&b, "\n## Extracted Clauses")
		for _, clause := range vm.Clauses {
			fmt.Fprintf(&b, "\n**%s** (%s importance)\n\n", clause.Type, clause.Importance)
			fmt.Fprintf(&b, "> %s\n", clause.Text)
		}
	}

	if len(vm.RiskChart) > 0 {
		fmt.Fprintln(&b, "\n## Risk Distribution")
		fmt.Fprintln(&b, "\n| Tier | Clauses |")
		fmt.Fprintln(&b, "| --- | --- |")
		for _, bucket := range vm.RiskChart {
			fmt.Fprintf(&b, "| %s | %d |\n", bucket.Label, bucket.Count)
		}
	}

	fmt.Fprintln(&b, "\n---")
	fmt.Fprintf(&b, "\n**Financial Insight** - AI-Powered Document Analysis\n\nReport ID: %s\n", now.Format("20060102150405"))

	return b.String()
}
