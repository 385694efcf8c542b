package models

// NormalizedEntity is a single entity occurrence from the NER backend.
// Duplicates are retained on purpose: each one is a distinct occurrence
// in the document.
type NormalizedEntity struct {
	Text  string `json:"text"`
	Label string `json:"label"`
}

// MaxEntityExamples caps the example texts kept per entity group.
const MaxEntityExamples = 10

// EntityGroup aggregates entity occurrences that share a label.
type EntityGroup struct {
	Type     string   `json:"type"`
	Count    int      `json:"count"`
	Examples []string `json:"examples"`
}
