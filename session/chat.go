package session

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"finsight-backend/inference"
	"finsight-backend/models"
)

// RAGBackend is the slice of the inference client the chat manager needs.
type RAGBackend interface {
	UploadDocument(ctx context.Context, filename string, data io.Reader) (*inference.RAGUploadResult, error)
	Query(ctx context.Context, question string, topK int) (*inference.RAGQueryResult, error)
}

const greetingText = "Hello! Upload a financial or legal document and ask me anything about it."

// promptDelay simulates a moment of thinking before the bot asks for an
// upload. No network call is involved; queries without an uploaded document
// never reach the RAG backend.
const defaultPromptDelay = 800 * time.Millisecond

// ChatManager owns one session's chat transcript and its uploaded-document
// list. The transcript is append-only until Clear; message IDs are the
// transcript length at append time. The uploading/querying flags ignore
// re-entrant triggers instead of queueing them.
type ChatManager struct {
	mu sync.Mutex

	rag       RAGBackend
	messages  []models.ChatMessage
	documents []models.UploadedDocument
	uploading bool
	querying  bool

	promptDelay time.Duration
	now         func() time.Time
}

// ChatOption is a functional option for ChatManager
type ChatOption func(*ChatManager)

// WithPromptDelay overrides the simulated upload-prompt delay
func WithPromptDelay(d time.Duration) ChatOption {
	return func(m *ChatManager) {
		m.promptDelay = d
	}
}

// WithClock overrides the timestamp source
func WithClock(now func() time.Time) ChatOption {
	return func(m *ChatManager) {
		m.now = now
	}
}

// NewChatManager creates a chat manager seeded with the greeting message.
func NewChatManager(rag RAGBackend, opts ...ChatOption) *ChatManager {
	m := &ChatManager{
		rag:         rag,
		promptDelay: defaultPromptDelay,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.appendLocked(greetingText, models.SenderBot, nil)
	return m
}

func (m *ChatManager) appendLocked(text string, sender models.ChatSender, sources []string) models.ChatMessage {
	msg := models.ChatMessage{
		ID:        len(m.messages),
		Text:      text,
		Sender:    sender,
		Timestamp: m.now(),
		Sources:   sources,
	}
	m.messages = append(m.messages, msg)
	return msg
}

// Upload sends a file to the RAG backend and records the outcome in the
// transcript. A second upload while one is in flight is ignored.
func (m *ChatManager) Upload(ctx context.Context, filename string, data io.Reader) (*models.ChatMessage, error) {
	m.mu.Lock()
	if m.uploading {
		m.mu.Unlock()
		return nil, nil
	}
	m.uploading = true
	m.appendLocked(fmt.Sprintf("Uploading %s...", filename), models.SenderBot, nil)
	m.mu.Unlock()

	result, err := m.rag.UploadDocument(ctx, filename, data)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.uploading = false

	if err != nil {
		msg := m.appendLocked(fmt.Sprintf("Sorry, the upload failed: %v", err), models.SenderBot, nil)
		return &msg, nil
	}

	m.documents = append(m.documents, models.UploadedDocument{
		Name:      result.Filename,
		SizeBytes: result.SizeBytes,
		URL:       "/uploads/" + result.Filename,
	})
	msg := m.appendLocked(
		fmt.Sprintf("Document '%s' uploaded and processed successfully. Ask me anything about it!", result.Filename),
		models.SenderBot, nil)
	return &msg, nil
}

// SendQuery appends the user's question immediately, then resolves the bot
// reply. Empty or whitespace text is a silent no-op, as is a query while
// another is in flight. Without an uploaded document the bot prompts for one
// after a fixed simulated delay and no network call is made.
func (m *ChatManager) SendQuery(ctx context.Context, text string, topK int) (*models.ChatMessage, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, nil
	}

	m.mu.Lock()
	if m.querying {
		m.mu.Unlock()
		return nil, nil
	}
	m.querying = true
	m.appendLocked(trimmed, models.SenderUser, nil)
	hasDocuments := len(m.documents) > 0
	m.mu.Unlock()

	if !hasDocuments {
		time.Sleep(m.promptDelay)
		m.mu.Lock()
		defer m.mu.Unlock()
		m.querying = false
		msg := m.appendLocked("Please upload a document first so I have something to answer from.", models.SenderBot, nil)
		return &msg, nil
	}

	result, err := m.rag.Query(ctx, trimmed, topK)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.querying = false

	if err != nil {
		msg := m.appendLocked(fmt.Sprintf("Sorry, I couldn't answer that: %v", err), models.SenderBot, nil)
		return &msg, nil
	}
	msg := m.appendLocked(result.Answer, models.SenderBot, result.Sources)
	return &msg, nil
}

// Clear resets the transcript to a single greeting and forgets the uploaded
// documents. Queries after a clear behave as if nothing was ever uploaded.
func (m *ChatManager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = nil
	m.documents = nil
	m.appendLocked(greetingText, models.SenderBot, nil)
}

// Messages returns a copy of the transcript.
func (m *ChatManager) Messages() []models.ChatMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.ChatMessage, len(m.messages))
	copy(out, m.messages)
	return out
}

// Documents returns a copy of the uploaded-document list.
func (m *ChatManager) Documents() []models.UploadedDocument {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.UploadedDocument, len(m.documents))
	copy(out, m.documents)
	return out
}

// CanQuery reports whether at least one document has been uploaded.
func (m *ChatManager) CanQuery() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.documents) > 0
}
