package inference

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"finsight-backend/models"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
)

// ExtractionResult is the text-extraction backend's output for a document.
type ExtractionResult struct {
	Text     string                 `json:"text"`
	HTML     string                 `json:"html"`
	Metadata map[string]interface{} `json:"metadata"`
}

// ExtractText runs the document through the text-extraction backend.
func (c *Client) ExtractText(ctx context.Context, filename string, data io.Reader) (*ExtractionResult, error) {
	body, err := c.postMultipart(ctx, "/api/v1/docling/extract-text", filename, data)
	if err != nil {
		return nil, err
	}

	var result ExtractionResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode extraction response: %w", err)
	}
	if result.Text == "" {
		return nil, fmt.Errorf("no text could be extracted from %s", filename)
	}
	return &result, nil
}

// ExtractEntities calls the NER backend and returns its payload as received.
func (c *Client) ExtractEntities(ctx context.Context, text string) (models.RawPayload, error) {
	body, err := c.postJSON(ctx, "/api/v1/ner/extract-entities", map[string]string{"text": text})
	if err != nil {
		return nil, err
	}
	return decodePayload(body)
}

// AnalyzeSentiment calls the sentiment backend for sentence-level analysis
// and returns its payload as received.
func (c *Client) AnalyzeSentiment(ctx context.Context, text string) (models.RawPayload, error) {
	body, err := c.postJSON(ctx, "/api/v1/finbert/analyze-text-sentences", map[string]string{"text": text})
	if err != nil {
		return nil, err
	}
	return decodePayload(body)
}

// ExtractClauses calls the clause-extraction backend and returns its payload
// as received. The backend relays LLM output, which is occasionally broken
// JSON (unclosed arrays, fenced code blocks); a repair pass recovers those
// before giving up.
func (c *Client) ExtractClauses(ctx context.Context, text string) (models.RawPayload, error) {
	body, err := c.postJSON(ctx, "/api/v1/langextract/extract-clauses", map[string]string{"text": text})
	if err != nil {
		return nil, err
	}

	payload, err := decodePayload(body)
	if err == nil {
		return payload, nil
	}

	repaired, repairErr := jsonrepair.RepairJSON(string(body))
	if repairErr != nil {
		return nil, fmt.Errorf("failed to decode clause response: %w", err)
	}
	return decodePayload([]byte(repaired))
}

func decodePayload(body []byte) (models.RawPayload, error) {
	var payload models.RawPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode response payload: %w", err)
	}
	return payload, nil
}
