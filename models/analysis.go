package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// RawPayload holds a backend response exactly as received. The analysis
// backends have drifted across several response formats, so payloads are
// stored loosely typed and resolved by the analysis package on read.
type RawPayload map[string]interface{}

// Value implements driver.Valuer for JSONB
func (p RawPayload) Value() (driver.Value, error) {
	if p == nil {
		return json.Marshal(map[string]interface{}{})
	}
	return json.Marshal(p)
}

// Scan implements sql.Scanner for JSONB
func (p *RawPayload) Scan(value interface{}) error {
	if value == nil {
		*p = make(RawPayload)
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		*p = make(RawPayload)
		return nil
	}

	if len(bytes) == 0 {
		*p = make(RawPayload)
		return nil
	}

	return json.Unmarshal(bytes, p)
}

// Analysis is the stored result bundle for one pipeline run over a document:
// the extracted text plus the raw payload of every analysis backend that was
// invoked. Absent payloads stay empty maps, never NULL errors.
type Analysis struct {
	ID           uuid.UUID  `json:"id"`
	DocumentID   uuid.UUID  `json:"document_id"`
	DocumentText string     `json:"document_text"`
	NER          RawPayload `json:"ner"`
	Sentiment    RawPayload `json:"sentiment"`
	Clauses      RawPayload `json:"clauses"`
	CreatedAt    time.Time  `json:"created_at"`
}
