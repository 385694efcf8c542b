package models

import "time"

// ChatSender identifies who produced a chat message.
type ChatSender string

const (
	SenderUser ChatSender = "user"
	SenderBot  ChatSender = "bot"
)

// ChatMessage is one entry in a session transcript. The ID is the transcript
// length at append time, so IDs are monotonic within a session and restart
// after a clear.
type ChatMessage struct {
	ID        int        `json:"id"`
	Text      string     `json:"text"`
	Sender    ChatSender `json:"sender"`
	Timestamp time.Time  `json:"timestamp"`
	Sources   []string   `json:"sources,omitempty"`
}

// UploadedDocument records a document successfully registered with the RAG
// backend. A session may only send queries while it holds at least one.
type UploadedDocument struct {
	Name      string `json:"name"`
	SizeBytes int64  `json:"size_bytes"`
	URL       string `json:"url"`
}
