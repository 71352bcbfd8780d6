package usecases

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/docchat/docchat/internal/domain/conversation"
	"github.com/docchat/docchat/internal/domain/entities"
	"github.com/docchat/docchat/internal/domain/ports"
)

// mockKnowledgeService implements ports.KnowledgeService for testing
type mockKnowledgeService struct {
	textFn func(text string) error
	fileFn func(filename string, content io.Reader) error
	urlFn  func(url string) error

	textCalls int
	fileCalls int
	urlCalls  int
}

func (m *mockKnowledgeService) UploadText(ctx context.Context, text string) error {
	m.textCalls++
	if m.textFn != nil {
		return m.textFn(text)
	}
	return nil
}

func (m *mockKnowledgeService) UploadFile(ctx context.Context, filename string, content io.Reader) error {
	m.fileCalls++
	if m.fileFn != nil {
		return m.fileFn(filename, content)
	}
	return nil
}

func (m *mockKnowledgeService) UploadURL(ctx context.Context, url string) error {
	m.urlCalls++
	if m.urlFn != nil {
		return m.urlFn(url)
	}
	return nil
}

// noticeRecorder captures out-of-band acknowledgments.
type noticeRecorder struct {
	texts []string
	errs  []error
}

func (r *noticeRecorder) record(text string, err error) {
	r.texts = append(r.texts, text)
	r.errs = append(r.errs, err)
}

func TestSubmitURL_Success(t *testing.T) {
	convo := conversation.New()
	knowledge := &mockKnowledgeService{}
	co := NewIngestionCoordinator(knowledge, convo, nil, nil)

	if err := co.SubmitURL(context.Background(), "https://example.com"); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	turns := convo.Turns()
	if len(turns) != 1 {
		t.Fatalf("expected one assistant turn, got %d", len(turns))
	}
	turn := turns[0]
	if turn.Role != entities.RoleAssistant {
		t.Errorf("expected assistant turn, got %q", turn.Role)
	}
	if !strings.Contains(turn.Content, "https://example.com") {
		t.Errorf("turn must name the processed URL, got %q", turn.Content)
	}
	if len(turn.Sources) != 1 || turn.Sources[0].Source != "URL" || turn.Sources[0].URL != "https://example.com" {
		t.Errorf("unexpected citation: %+v", turn.Sources)
	}
	if convo.Busy() {
		t.Error("gate must be released after the action settles")
	}
}

func TestSubmitURL_FailureSkipsTranscript(t *testing.T) {
	convo := conversation.New()
	knowledge := &mockKnowledgeService{
		urlFn: func(url string) error {
			return fmt.Errorf("%w: upload/url returned status 500", ports.ErrBadReply)
		},
	}
	rec := &noticeRecorder{}
	co := NewIngestionCoordinator(knowledge, convo, rec.record, nil)

	err := co.SubmitURL(context.Background(), "https://example.com")
	if err == nil {
		t.Fatal("expected the error back so the view preserves the field")
	}

	if convo.Len() != 0 {
		t.Errorf("url failure must not append a turn in this variant, got %d", convo.Len())
	}
	if len(rec.texts) != 1 || rec.texts[0] != MsgURLFailed {
		t.Errorf("expected %q notice, got %v", MsgURLFailed, rec.texts)
	}
	if convo.Busy() {
		t.Error("gate must be released on the failure path")
	}
}

func TestSubmitURL_EmptyIsNoOp(t *testing.T) {
	convo := conversation.New()
	knowledge := &mockKnowledgeService{}
	co := NewIngestionCoordinator(knowledge, convo, nil, nil)

	if err := co.SubmitURL(context.Background(), "  "); err != nil {
		t.Fatalf("blank url: %v", err)
	}
	if knowledge.urlCalls != 0 || convo.Len() != 0 {
		t.Error("blank url must issue no request and append nothing")
	}
}

func TestUploadFile_Success(t *testing.T) {
	convo := conversation.New()
	knowledge := &mockKnowledgeService{}
	co := NewIngestionCoordinator(knowledge, convo, nil, nil)

	err := co.UploadFile(context.Background(), "notes.pdf", strings.NewReader("%PDF-1.4"))
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}

	turns := convo.Turns()
	if len(turns) != 1 {
		t.Fatalf("expected one assistant turn, got %d", len(turns))
	}
	turn := turns[0]
	if !strings.Contains(turn.Content, "notes.pdf") {
		t.Errorf("turn must name the processed file, got %q", turn.Content)
	}
	if len(turn.Sources) != 1 || turn.Sources[0].Source != "PDF" || turn.Sources[0].Filename != "notes.pdf" {
		t.Errorf("unexpected citation: %+v", turn.Sources)
	}
}

func TestUploadFile_Failure(t *testing.T) {
	convo := conversation.New()
	knowledge := &mockKnowledgeService{
		fileFn: func(filename string, content io.Reader) error {
			return fmt.Errorf("%w: upload/pdf returned status 422", ports.ErrBadReply)
		},
	}
	co := NewIngestionCoordinator(knowledge, convo, nil, nil)

	err := co.UploadFile(context.Background(), "notes.pdf", strings.NewReader("junk"))
	if err == nil {
		t.Fatal("expected error return")
	}

	turns := convo.Turns()
	if len(turns) != 1 {
		t.Fatalf("expected one failure turn, got %d", len(turns))
	}
	if !strings.Contains(turns[0].Content, "Error processing") {
		t.Errorf("expected fixed failure text, got %q", turns[0].Content)
	}
	if len(turns[0].Sources) != 0 {
		t.Error("failure turns carry no citation")
	}
	if convo.Busy() {
		t.Error("gate must be released on the failure path")
	}
}

func TestUploadText_SuccessNotifiesAndReturnsNil(t *testing.T) {
	convo := conversation.New()
	knowledge := &mockKnowledgeService{}
	rec := &noticeRecorder{}
	co := NewIngestionCoordinator(knowledge, convo, rec.record, nil)

	if err := co.UploadText(context.Background(), "useful facts"); err != nil {
		t.Fatalf("upload failed: %v", err)
	}

	if convo.Len() != 0 {
		t.Error("text upload acknowledges out of band, not via the transcript")
	}
	if len(rec.texts) != 1 || rec.texts[0] != MsgTextUploaded {
		t.Errorf("expected %q notice, got %v", MsgTextUploaded, rec.texts)
	}
}

func TestUploadText_FailureReturnsErrorForRetry(t *testing.T) {
	convo := conversation.New()
	knowledge := &mockKnowledgeService{
		textFn: func(text string) error {
			return fmt.Errorf("%w: connection refused", ports.ErrUnreachable)
		},
	}
	rec := &noticeRecorder{}
	co := NewIngestionCoordinator(knowledge, convo, rec.record, nil)

	// The non-nil return tells the view to preserve the input buffer.
	if err := co.UploadText(context.Background(), "useful facts"); err == nil {
		t.Fatal("expected error return")
	}
	if len(rec.texts) != 1 || rec.texts[0] != MsgTextFailed {
		t.Errorf("expected %q notice, got %v", MsgTextFailed, rec.texts)
	}
	if convo.Busy() {
		t.Error("gate must be released on the failure path")
	}
}

func TestUploadText_BlankIsNoOp(t *testing.T) {
	convo := conversation.New()
	knowledge := &mockKnowledgeService{}
	rec := &noticeRecorder{}
	co := NewIngestionCoordinator(knowledge, convo, rec.record, nil)

	if err := co.UploadText(context.Background(), " \n "); err != nil {
		t.Fatalf("blank text: %v", err)
	}
	if knowledge.textCalls != 0 || len(rec.texts) != 0 {
		t.Error("blank text must issue no request and no notice")
	}
}

func TestFileSourceLabel(t *testing.T) {
	if got := fileSourceLabel("notes.pdf"); got != "PDF" {
		t.Errorf("expected PDF label, got %q", got)
	}
	if got := fileSourceLabel("NOTES.PDF"); got != "PDF" {
		t.Errorf("extension match must be case-insensitive, got %q", got)
	}
	if got := fileSourceLabel("readme.md"); got != "File" {
		t.Errorf("expected generic label, got %q", got)
	}
}

func TestIngestion_GateContention(t *testing.T) {
	convo := conversation.New()
	knowledge := &mockKnowledgeService{}
	co := NewIngestionCoordinator(knowledge, convo, nil, nil)

	if err := convo.Begin(); err != nil {
		t.Fatalf("setup begin failed: %v", err)
	}
	defer convo.End()

	if err := co.SubmitURL(context.Background(), "https://example.com"); err == nil {
		t.Error("url submit must respect the gate")
	}
	if err := co.UploadText(context.Background(), "facts"); err == nil {
		t.Error("text upload must respect the gate")
	}
	if err := co.UploadFile(context.Background(), "a.txt", strings.NewReader("a")); err == nil {
		t.Error("file upload must respect the gate")
	}
	if knowledge.urlCalls+knowledge.textCalls+knowledge.fileCalls != 0 {
		t.Error("no request may start while the gate is held")
	}
}
