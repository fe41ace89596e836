package terminal

import (
	"fmt"
	"strings"

	"coldcase/internal/session"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if !m.ready {
		return "Connecting..."
	}
	st := m.sess.State()

	status := ""
	if st.Busy {
		status = m.styles.System.Render(m.spinner.View() + " Analyzing database...")
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderHeader(),
		m.styles.Content.Render(m.viewport.View()),
		status,
		m.textinput.View(),
		m.styles.RenderDivider(m.width),
		m.renderFooter(),
	)
}

// prompt renders the shell prompt for st, e.g. "GUEST@LAPD: ~/evidence$ ".
func prompt(sess *session.Session, st session.State) string {
	c := sess.Engine().Archive().Case
	guest := c.Guest
	if guest == "" {
		guest = "guest"
	}
	return fmt.Sprintf("%s@%s: ~%s$ ", strings.ToUpper(guest), c.Host, st.Location())
}

func (m Model) renderHeader() string {
	c := m.sess.Engine().Archive().Case
	agency := c.Agency
	if agency == "" {
		agency = c.Host
	}
	parts := []string{agency, m.now().Format("2006-01-02"), "CASE #" + c.ID}

	used := 0
	for _, p := range parts {
		used += lipgloss.Width(p)
	}
	gap := (m.width - used) / 2
	if gap < 2 {
		gap = 2
	}
	line := strings.Join(parts, strings.Repeat(" ", gap))
	return m.styles.Header.Width(max(m.width, lipgloss.Width(line))).Render(line)
}

func (m Model) renderFooter() string {
	help := "Enter: run • Tab: select file • Ctrl+Y: copy • PgUp/PgDn: scroll • Ctrl+C: exit"
	if m.selected >= 0 && m.selected < len(m.listing) {
		help = fmt.Sprintf("Selected: %s • %s", m.listing[m.selected], help)
	}
	return m.styles.Footer.Render(help)
}

// renderTranscript renders every entry of st, then the solved banner once the
// case is closed.
func (m Model) renderTranscript(st session.State) string {
	var sb strings.Builder

	for i, e := range st.Transcript {
		content := e.Content
		style := m.styles.ForKind(string(e.Kind))

		switch {
		case e.Kind == session.KindAssistant:
			content = m.safeRenderMarkdown(content)
		case m.isSelectedRow(i):
			style = m.styles.Selected
		}
		sb.WriteString(style.Render(content))
		sb.WriteString("\n")
	}

	if st.Solved {
		banner := m.sess.Engine().Archive().Case.Solved
		if len(banner) > 0 {
			sb.WriteString(m.styles.Banner.Render(strings.Join(banner, "\n")))
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// isSelectedRow reports whether transcript entry i is the selected row of the
// latest listing.
func (m Model) isSelectedRow(i int) bool {
	return m.listingAt >= 0 && m.selected >= 0 && i == m.listingAt+1+m.selected
}

// safeRenderMarkdown renders markdown with panic recovery.
func (m Model) safeRenderMarkdown(content string) (result string) {
	defer func() {
		if r := recover(); r != nil {
			result = content
		}
	}()

	if m.renderer != nil && content != "" {
		rendered, err := m.renderer.Render(content)
		if err == nil {
			return strings.TrimRight(rendered, "\n")
		}
	}
	return content
}
