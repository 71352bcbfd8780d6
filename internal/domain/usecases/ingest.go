// Package usecases - ingest.go handles knowledge ingestion into the remote corpus.
package usecases

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/docchat/docchat/internal/domain/conversation"
	"github.com/docchat/docchat/internal/domain/entities"
	"github.com/docchat/docchat/internal/domain/ports"
	"github.com/docchat/docchat/internal/infrastructure/logging"
)

// Out-of-band notice texts for the paste-text and URL variants.
const (
	MsgTextUploaded   = "Knowledge uploaded successfully."
	MsgTextFailed     = "Failed to upload knowledge."
	MsgURLFailed      = "Error processing URL. Please try again."
	msgFileFailedFmt  = "Error processing %s. Please try again."
	msgFileSuccessFmt = "Successfully processed %s: %s"
	msgURLSuccessFmt  = "Successfully processed URL: %s"
)

// NoticeFunc receives acknowledgments that are not part of the
// transcript. The view layer decides how to surface them (status line,
// alert, or its own appended turn); the coordinator only guarantees
// that no outcome goes unreported.
type NoticeFunc func(text string, err error)

// IngestionCoordinator sequences the three ingestion intents - pasted
// text, uploaded file, submitted URL - against the remote service.
// All three share the same gate discipline as chat.
type IngestionCoordinator struct {
	knowledge ports.KnowledgeService
	convo     *conversation.Conversation
	notify    NoticeFunc
	log       *logging.Logger
}

// NewIngestionCoordinator creates an IngestionCoordinator with injected
// dependencies. notify may be nil, in which case out-of-band outcomes
// are only logged.
func NewIngestionCoordinator(
	knowledge ports.KnowledgeService,
	convo *conversation.Conversation,
	notify NoticeFunc,
	log *logging.Logger,
) *IngestionCoordinator {
	if log == nil {
		log = logging.Nop()
	}
	if notify == nil {
		notify = func(string, error) {}
	}
	return &IngestionCoordinator{
		knowledge: knowledge,
		convo:     convo,
		notify:    notify,
		log:       log,
	}
}

// UploadText submits pasted knowledge text. Blank input is a silent
// no-op. The outcome is surfaced through the notice callback rather
// than the transcript; callers clear their input buffer only on a nil
// return so a failed paste can be retried without retyping.
func (c *IngestionCoordinator) UploadText(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	if err := c.convo.Begin(); err != nil {
		return err
	}
	defer c.convo.End()

	if err := c.knowledge.UploadText(ctx, text); err != nil {
		c.log.Error("text upload failed", "error", err)
		c.notify(MsgTextFailed, err)
		return err
	}

	c.notify(MsgTextUploaded, nil)
	return nil
}

// UploadFile submits a document read from content. Success appends an
// assistant turn naming the processed file with a filename citation;
// failure appends a fixed failure turn with no citation.
func (c *IngestionCoordinator) UploadFile(ctx context.Context, filename string, content io.Reader) error {
	if err := c.convo.Begin(); err != nil {
		return err
	}
	defer c.convo.End()

	label := fileSourceLabel(filename)
	if err := c.knowledge.UploadFile(ctx, filename, content); err != nil {
		c.log.Error("file upload failed", "file", filename, "error", err)
		c.convo.Append(entities.NewAssistantTurn(fmt.Sprintf(msgFileFailedFmt, label), nil))
		return err
	}

	c.convo.Append(entities.NewAssistantTurn(
		fmt.Sprintf(msgFileSuccessFmt, label, filename),
		[]entities.Citation{{Source: label, Filename: filename}},
	))
	return nil
}

// SubmitURL submits a web address. Empty input is a silent no-op.
// Success appends an assistant turn with a URL citation; failure is
// reported through the notice callback and returned, so the view keeps
// the field contents for a retry.
func (c *IngestionCoordinator) SubmitURL(ctx context.Context, url string) error {
	if strings.TrimSpace(url) == "" {
		return nil
	}

	if err := c.convo.Begin(); err != nil {
		return err
	}
	defer c.convo.End()

	if err := c.knowledge.UploadURL(ctx, url); err != nil {
		c.log.Error("url ingestion failed", "url", url, "error", err)
		c.notify(MsgURLFailed, err)
		return err
	}

	c.convo.Append(entities.NewAssistantTurn(
		fmt.Sprintf(msgURLSuccessFmt, url),
		[]entities.Citation{{Source: "URL", URL: url}},
	))
	return nil
}

// fileSourceLabel derives the citation source label from the file kind.
func fileSourceLabel(filename string) string {
	if strings.EqualFold(filepath.Ext(filename), ".pdf") {
		return "PDF"
	}
	return "File"
}
