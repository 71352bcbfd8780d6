// Package tui is the terminal view surface.
// Clean Architecture: Framework/driver layer - it renders the
// conversation and translates key presses into coordinator calls. All
// orchestration semantics live in the domain layer.
package tui

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/docchat/docchat/internal/domain/conversation"
	"github.com/docchat/docchat/internal/domain/usecases"
	"github.com/docchat/docchat/internal/infrastructure/logging"
)

// Notice is an out-of-band acknowledgment surfaced on the status line
// instead of the transcript.
type Notice struct {
	Text string
	Err  error
}

// TranscriptChanged repaints the transcript. The conversation's render
// hook sends it whenever a turn is appended, so the user's own turn
// shows up before the remote call settles.
type TranscriptChanged struct{}

// FileDetected reports a file dropped into the watch folder.
type FileDetected struct {
	Path string
}

// Deps carries the wired collaborators the view needs.
type Deps struct {
	Convo   *conversation.Conversation
	Chat    *usecases.ChatCoordinator
	Ingest  *usecases.IngestionCoordinator
	Notices <-chan Notice
	Log     *logging.Logger
}

type focusArea int

const (
	focusChat focusArea = iota
	focusKnowledge
	focusURL
	focusFile
	focusCount
)

// Model is the Bubble Tea model for the whole interface.
type Model struct {
	deps Deps

	transcript viewport.Model
	spin       spinner.Model
	chatInput  textinput.Model
	knowledge  textarea.Model
	urlInput   textinput.Model
	fileInput  textinput.Model

	focus        focusArea
	status       string
	statusIsErr  bool
	pendingFiles []string

	width  int
	height int
	ready  bool

	theme theme
}

type chatDoneMsg struct{ err error }

type textDoneMsg struct{ err error }

type urlDoneMsg struct {
	url string
	err error
}

type fileDoneMsg struct {
	name string
	err  error
}

type noticeMsg Notice

// NewModel builds the initial interface state.
func NewModel(deps Deps) Model {
	if deps.Log == nil {
		deps.Log = logging.Nop()
	}

	chatInput := textinput.New()
	chatInput.Prompt = "> "
	chatInput.Placeholder = "Type your message..."
	chatInput.CharLimit = 4000
	chatInput.Focus()

	knowledge := textarea.New()
	knowledge.Placeholder = "Paste knowledge base content here..."
	knowledge.SetHeight(3)
	knowledge.Blur()

	urlInput := textinput.New()
	urlInput.Prompt = "> "
	urlInput.Placeholder = "https://example.com"
	urlInput.Blur()

	fileInput := textinput.New()
	fileInput.Prompt = "> "
	fileInput.Placeholder = "Path to a document (.pdf, .txt, .md)"
	fileInput.Blur()

	sp := spinner.New()
	sp.Spinner = spinner.Points

	return Model{
		deps:       deps,
		transcript: viewport.New(0, 0),
		spin:       sp,
		chatInput:  chatInput,
		knowledge:  knowledge,
		urlInput:   urlInput,
		fileInput:  fileInput,
		focus:      focusChat,
		theme:      newTheme(),
	}
}

// Init starts the spinner and the notice listener.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.listenNoticesCmd())
}

// Update is the event loop.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		m.ready = true
		m.renderTranscript()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case TranscriptChanged:
		m.renderTranscript()
		return m, nil

	case noticeMsg:
		m.status = msg.Text
		m.statusIsErr = msg.Err != nil
		return m, m.listenNoticesCmd()

	case FileDetected:
		return m.onFileDetected(msg.Path)

	case chatDoneMsg:
		m.renderTranscript()
		return m.afterAction()

	case textDoneMsg:
		if msg.err == nil {
			m.knowledge.Reset()
		}
		return m.afterAction()

	case urlDoneMsg:
		if msg.err == nil {
			m.urlInput.SetValue("")
			m.renderTranscript()
		}
		return m.afterAction()

	case fileDoneMsg:
		m.renderTranscript()
		if msg.err == nil {
			m.fileInput.SetValue("")
		}
		return m.afterAction()

	case tea.KeyMsg:
		return m.onKey(msg)

	default:
		// Cursor blinks and other component messages go to the
		// focused input.
		return m.updateFocused(msg)
	}
}

// onKey routes key presses: global bindings first, then the focused input.
func (m Model) onKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit

	case "tab":
		m.setFocus((m.focus + 1) % focusCount)
		return m, nil

	case "shift+tab":
		m.setFocus((m.focus + focusCount - 1) % focusCount)
		return m, nil

	case "pgup":
		m.transcript.LineUp(8)
		return m, nil

	case "pgdown":
		m.transcript.LineDown(8)
		return m, nil

	case "ctrl+s":
		if m.focus == focusKnowledge {
			return m.submitKnowledge()
		}

	case "enter":
		// The gate is the authoritative guard; the interface merely
		// refuses to start a second action while one is in flight.
		switch m.focus {
		case focusChat:
			return m.submitChat()
		case focusURL:
			return m.submitURL()
		case focusFile:
			return m.submitFile()
		}
	}

	return m.updateFocused(msg)
}

// updateFocused forwards a key press to whichever input has focus.
func (m Model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case focusChat:
		m.chatInput, cmd = m.chatInput.Update(msg)
	case focusKnowledge:
		m.knowledge, cmd = m.knowledge.Update(msg)
	case focusURL:
		m.urlInput, cmd = m.urlInput.Update(msg)
	case focusFile:
		m.fileInput, cmd = m.fileInput.Update(msg)
	}
	return m, cmd
}

func (m *Model) setFocus(target focusArea) {
	m.focus = target
	m.chatInput.Blur()
	m.knowledge.Blur()
	m.urlInput.Blur()
	m.fileInput.Blur()
	switch target {
	case focusChat:
		m.chatInput.Focus()
	case focusKnowledge:
		m.knowledge.Focus()
	case focusURL:
		m.urlInput.Focus()
	case focusFile:
		m.fileInput.Focus()
	}
}

func (m Model) submitChat() (tea.Model, tea.Cmd) {
	if m.deps.Convo.Busy() {
		return m, nil
	}
	text := m.chatInput.Value()
	if strings.TrimSpace(text) == "" {
		return m, nil
	}
	m.chatInput.SetValue("")
	return m, m.sendChatCmd(text)
}

func (m Model) submitKnowledge() (tea.Model, tea.Cmd) {
	if m.deps.Convo.Busy() {
		return m, nil
	}
	text := m.knowledge.Value()
	if strings.TrimSpace(text) == "" {
		return m, nil
	}
	// Buffer is kept until the upload succeeds so a failure can be
	// retried without retyping.
	return m, m.uploadTextCmd(text)
}

func (m Model) submitURL() (tea.Model, tea.Cmd) {
	if m.deps.Convo.Busy() {
		return m, nil
	}
	address := strings.TrimSpace(m.urlInput.Value())
	if address == "" {
		return m, nil
	}
	if !isWellFormedURL(address) {
		m.status = "Enter a full URL, e.g. https://example.com"
		m.statusIsErr = true
		return m, nil
	}
	return m, m.submitURLCmd(address)
}

func (m Model) submitFile() (tea.Model, tea.Cmd) {
	if m.deps.Convo.Busy() {
		return m, nil
	}
	path := strings.TrimSpace(m.fileInput.Value())
	if path == "" {
		return m, nil
	}
	return m, m.ingestFileCmd(path)
}

// onFileDetected queues drop-folder files and dispatches them one at a
// time so auto-ingestion honors the same gate as interactive actions.
func (m Model) onFileDetected(path string) (tea.Model, tea.Cmd) {
	for _, queued := range m.pendingFiles {
		if queued == path {
			return m, nil
		}
	}
	m.pendingFiles = append(m.pendingFiles, path)
	return m.drainPending()
}

// afterAction runs once a coordinator action settles and picks up any
// queued drop-folder work.
func (m Model) afterAction() (tea.Model, tea.Cmd) {
	return m.drainPending()
}

func (m Model) drainPending() (tea.Model, tea.Cmd) {
	if len(m.pendingFiles) == 0 || m.deps.Convo.Busy() {
		return m, nil
	}
	next := m.pendingFiles[0]
	m.pendingFiles = append([]string(nil), m.pendingFiles[1:]...)
	return m, m.ingestFileCmd(next)
}

func (m Model) sendChatCmd(text string) tea.Cmd {
	chat := m.deps.Chat
	return func() tea.Msg {
		return chatDoneMsg{err: chat.SendMessage(context.Background(), text)}
	}
}

func (m Model) uploadTextCmd(text string) tea.Cmd {
	ingest := m.deps.Ingest
	return func() tea.Msg {
		return textDoneMsg{err: ingest.UploadText(context.Background(), text)}
	}
}

func (m Model) submitURLCmd(address string) tea.Cmd {
	ingest := m.deps.Ingest
	return func() tea.Msg {
		return urlDoneMsg{url: address, err: ingest.SubmitURL(context.Background(), address)}
	}
}

func (m Model) ingestFileCmd(path string) tea.Cmd {
	ingest := m.deps.Ingest
	log := m.deps.Log
	return func() tea.Msg {
		name := filepath.Base(path)
		f, err := os.Open(path)
		if err != nil {
			log.Error("opening document failed", "path", path, "error", err)
			return fileDoneMsg{name: name, err: err}
		}
		defer f.Close()
		return fileDoneMsg{name: name, err: ingest.UploadFile(context.Background(), name, f)}
	}
}

func (m Model) listenNoticesCmd() tea.Cmd {
	notices := m.deps.Notices
	if notices == nil {
		return nil
	}
	return func() tea.Msg {
		n, ok := <-notices
		if !ok {
			return nil
		}
		return noticeMsg(n)
	}
}

// isWellFormedURL enforces the interface-level URL constraint before a
// submission is allowed.
func isWellFormedURL(address string) bool {
	parsed, err := url.Parse(address)
	if err != nil {
		return false
	}
	return (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}
