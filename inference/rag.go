package inference

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
)

// RAGUploadResult is the RAG backend's acknowledgement of a processed document.
type RAGUploadResult struct {
	Filename  string `json:"filename"`
	SizeBytes int64  `json:"size_bytes"`
	Message   string `json:"message"`
}

// RAGQueryResult is an answer from the RAG backend with the document sources
// it drew on.
type RAGQueryResult struct {
	Answer  string   `json:"answer"`
	Sources []string `json:"sources"`
}

// UploadDocument registers a document with the RAG backend so it can be
// queried against.
func (c *Client) UploadDocument(ctx context.Context, filename string, data io.Reader) (*RAGUploadResult, error) {
	body, err := c.postMultipart(ctx, "/api/v1/rag/upload-document", filename, data)
	if err != nil {
		return nil, err
	}

	var result struct {
		Success   bool   `json:"success"`
		Filename  string `json:"filename"`
		SizeBytes int64  `json:"size_bytes"`
		Message   string `json:"message"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode upload response: %w", err)
	}
	if !result.Success {
		return nil, fmt.Errorf("RAG backend rejected document %s", filename)
	}

	return &RAGUploadResult{
		Filename:  result.Filename,
		SizeBytes: result.SizeBytes,
		Message:   result.Message,
	}, nil
}

// Query asks the RAG backend a question about the uploaded documents.
func (c *Client) Query(ctx context.Context, question string, topK int) (*RAGQueryResult, error) {
	if topK <= 0 {
		topK = 3
	}

	body, err := c.postJSON(ctx, "/api/v1/rag/query", map[string]interface{}{
		"question": question,
		"top_k":    topK,
	})
	if err != nil {
		return nil, err
	}

	var result struct {
		Success  bool   `json:"success"`
		Answer   string `json:"answer"`
		Error    string `json:"error"`
		Metadata struct {
			SourcesUsed []string `json:"sources_used"`
		} `json:"metadata"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode query response: %w", err)
	}
	if !result.Success {
		if result.Error != "" {
			return nil, fmt.Errorf("RAG query failed: %s", result.Error)
		}
		return nil, fmt.Errorf("RAG query failed")
	}

	return &RAGQueryResult{
		Answer:  result.Answer,
		Sources: result.Metadata.SourcesUsed,
	}, nil
}
