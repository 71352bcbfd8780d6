package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/docchat/docchat/internal/domain/entities"
)

// layout recomputes pane sizes after a terminal resize.
func (m *Model) layout() {
	inner := m.width - 4
	if inner < 20 {
		inner = 20
	}

	// Fixed chrome: header, three single-line input panels, knowledge
	// box, status and help lines, borders.
	transcriptHeight := m.height - 19
	if transcriptHeight < 5 {
		transcriptHeight = 5
	}

	m.transcript.Width = inner
	m.transcript.Height = transcriptHeight
	m.chatInput.Width = inner - 2
	m.urlInput.Width = inner - 2
	m.fileInput.Width = inner - 2
	m.knowledge.SetWidth(inner)
}

// renderTranscript repaints the viewport from the conversation snapshot
// and scrolls to the latest turn.
func (m *Model) renderTranscript() {
	turns := m.deps.Convo.Turns()
	blocks := make([]string, 0, len(turns))
	for _, turn := range turns {
		blocks = append(blocks, m.renderTurn(turn))
	}
	m.transcript.SetContent(strings.Join(blocks, "\n\n"))
	m.transcript.GotoBottom()
}

// renderTurn formats one transcript entry with its citations.
func (m *Model) renderTurn(turn entities.Turn) string {
	label := m.theme.botLabel.Render("Assistant")
	if turn.Role == entities.RoleUser {
		label = m.theme.userLabel.Render("You")
	}

	body := m.theme.turnBody.Width(m.transcript.Width).Render(turn.Content)

	lines := []string{label, body}
	if len(turn.Sources) > 0 {
		lines = append(lines, m.theme.sourceHeader.Render("Sources:"))
		for _, src := range turn.Sources {
			lines = append(lines, "  • "+m.renderCitation(src))
		}
	}
	return strings.Join(lines, "\n")
}

// renderCitation handles the three presence combinations: web-derived
// citations render as links, document-derived ones as plain filenames,
// and bare citations fall back to the source label.
func (m *Model) renderCitation(src entities.Citation) string {
	switch {
	case src.URL != "":
		return m.theme.sourceLink.Render(src.URL)
	case src.Filename != "":
		return m.theme.sourceFile.Render(src.Filename)
	default:
		return m.theme.sourceFile.Render(src.Source)
	}
}

// View renders the whole interface.
func (m Model) View() string {
	if !m.ready {
		return "starting..."
	}

	header := m.theme.header.Render("Document Chat Assistant")

	transcript := m.panelStyle(focusCount).Render(m.transcript.View())

	typing := ""
	if m.deps.Convo.Busy() {
		typing = m.theme.typing.Render(m.spin.View() + " Typing...")
	}

	chat := m.inputPanel("Chat", m.chatInput.View(), focusChat)
	knowledge := m.inputPanel("Knowledge (ctrl+s to upload)", m.knowledge.View(), focusKnowledge)
	urlPanel := m.inputPanel("Website URL", m.urlInput.View(), focusURL)
	filePanel := m.inputPanel("Document upload", m.fileInput.View(), focusFile)

	status := ""
	if m.status != "" {
		style := m.theme.status
		if m.statusIsErr {
			style = m.theme.statusError
		}
		status = style.Render(m.status)
	}

	help := m.theme.help.Render("tab: switch field · enter: submit · ctrl+s: upload knowledge · pgup/pgdn: scroll · ctrl+c: quit")

	sections := []string{header, transcript}
	if typing != "" {
		sections = append(sections, typing)
	}
	sections = append(sections, chat, knowledge, urlPanel, filePanel)
	if status != "" {
		sections = append(sections, status)
	}
	sections = append(sections, help)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// inputPanel frames an input with its title, highlighting the focused one.
func (m Model) inputPanel(title, body string, area focusArea) string {
	return m.panelStyle(area).Render(m.theme.panelTitle.Render(title) + "\n" + body)
}

func (m Model) panelStyle(area focusArea) lipgloss.Style {
	if m.focus == area {
		return m.theme.panelFocused
	}
	return m.theme.panel
}
