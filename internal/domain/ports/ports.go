// Package ports defines interfaces for external dependencies.
// Clean Architecture: These are the boundaries - usecases depend on these abstractions,
// not concrete implementations. Adapters implement these interfaces.
package ports

import (
	"context"
	"errors"
	"io"

	"github.com/docchat/docchat/internal/domain/entities"
)

// ErrUnreachable classifies transport-level failures: the remote service
// could not be contacted at all (connection refused, DNS, timeout).
var ErrUnreachable = errors.New("service unreachable")

// ErrBadReply classifies failures where the remote service was reached
// but the outcome is unusable: a non-2xx status or a 2xx body missing
// the expected reply field.
var ErrBadReply = errors.New("unusable service reply")

// ChatService sends a user message to the remote assistant.
type ChatService interface {
	// Send submits the message and returns the assistant's reply.
	// history carries the prior transcript when the caller opts into
	// history-aware requests; it may be nil.
	Send(ctx context.Context, message string, history []entities.Turn) (*entities.ChatReply, error)
}

// KnowledgeService ingests reference material into the remote corpus.
// Interface Segregation: ingestion only, no chat responsibility.
type KnowledgeService interface {
	// UploadText submits pasted text as form-encoded payload.
	UploadText(ctx context.Context, text string) error

	// UploadFile submits a document as a multipart payload.
	UploadFile(ctx context.Context, filename string, content io.Reader) error

	// UploadURL submits a web address as a JSON payload.
	UploadURL(ctx context.Context, url string) error
}

// FileWatcher monitors a directory for changes.
type FileWatcher interface {
	// Watch starts monitoring the directory and emits events.
	Watch(ctx context.Context, dir string) (<-chan FileEvent, error)

	// Stop stops the watcher.
	Stop() error
}

// FileEvent represents a file system change.
type FileEvent struct {
	Path      string
	Operation FileOperation
}

// FileOperation is the type of file change.
type FileOperation int

const (
	FileCreated FileOperation = iota
	FileModified
	FileDeleted
)
