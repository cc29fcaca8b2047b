package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/DekunleJr/Signatures/internal/model"
)

// View renders the UI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	header := m.renderHeader()

	var body string
	switch m.page {
	case PagePortfolio:
		body = m.renderPortfolio()
	case PageServices:
		body = m.renderServices()
	case PageDashboard:
		body = m.renderDashboard()
	case PageAdmin:
		body = m.renderAdmin()
	case PageLogin:
		body = m.renderForm("Log In", "Enter:submit  Ctrl+R:forgot password  Esc:back")
	case PageSignup:
		body = m.renderForm("Create Account", "Tab:next field  Enter:submit  Esc:back")
	case PageReset:
		body = m.renderResetForm()
	case PageHelp:
		body = m.renderHelp()
	}

	if m.mode == ModeOrder {
		modal := m.renderOrderModal()
		body = lipgloss.Place(
			m.width, m.height-4,
			lipgloss.Center, lipgloss.Center,
			modal,
			lipgloss.WithWhitespaceChars(" "),
		)
	}

	statusBar := m.renderStatusBar()

	return lipgloss.JoinVertical(lipgloss.Left, header, body, statusBar)
}

func (m Model) renderHeader() string {
	title := HeaderStyle.Render("Signatures")
	clock := HelpStyle.Render(time.Now().Format("15:04:05"))

	tabs := []struct {
		page  Page
		label string
	}{
		{PagePortfolio, "1 Portfolio"},
		{PageServices, "2 Services"},
		{PageDashboard, "3 Dashboard"},
	}

	var bar string
	for _, t := range tabs {
		if m.page == t.page {
			bar += TabActiveStyle.Render(t.label)
		} else {
			bar += TabStyle.Render(t.label)
		}
	}
	if m.session.IsAdmin() {
		if m.page == PageAdmin {
			bar += TabActiveStyle.Render("4 Admin")
		} else {
			bar += TabStyle.Render("4 Admin")
		}
	}

	who := HelpStyle.Render("not logged in  i:log in  s:sign up")
	if user := m.session.User(); user != nil {
		who = HelpStyle.Render(user.FullName() + "  L:logout")
		if user.IsAdmin {
			who = AdminBadgeStyle.Render("admin ") + who
		}
	}

	line := title + " " + clock + "  " + bar
	avail := m.width - lipgloss.Width(line) - lipgloss.Width(who) - 1
	if avail > 0 {
		line += strings.Repeat(" ", avail)
	}
	return line + who
}

func (m Model) renderPortfolio() string {
	var s string

	works := m.visibleWorks()
	if m.loading && len(works) == 0 {
		return ContentStyle.Render("Loading the portfolio...")
	}
	if len(works) == 0 {
		return ContentStyle.Render(HelpStyle.Render("Nothing here yet."))
	}

	for i, w := range works {
		cursor := "  "
		style := ItemStyle
		if i == m.cursor {
			cursor = "❯ "
			style = ItemSelectedStyle
		}

		like := likeMark(w)
		line := fmt.Sprintf("%s%s %s", cursor, like, truncate(w.Title, m.width-30))
		if w.Description != "" {
			line += HelpStyle.Render("  " + truncate(w.Description, 40))
		}
		s += style.Render(line) + "\n"
	}

	s += "\n" + HelpStyle.Render(fmt.Sprintf("Page %d/%d  (%d works)  ←/→ pages",
		m.works.Page(), m.works.TotalPages(), m.works.TotalCount()))

	return ContentStyle.Render(s)
}

func likeMark(w model.Work) string {
	if w.LikedByUser {
		return LikedStyle.Render("♥")
	}
	return HelpStyle.Render("♡")
}

func (m Model) renderServices() string {
	if m.loading && len(m.services) == 0 {
		return ContentStyle.Render("Loading services...")
	}
	if len(m.services) == 0 {
		return ContentStyle.Render(HelpStyle.Render("No services listed."))
	}

	var s string
	for i, svc := range m.services {
		cursor := "  "
		style := ItemStyle
		if i == m.cursor {
			cursor = "❯ "
			style = ItemSelectedStyle
		}
		line := cursor + truncate(svc.Title, 30)
		if svc.Description != "" {
			line += HelpStyle.Render("  " + truncate(svc.Description, m.width-40))
		}
		s += style.Render(line) + "\n"
	}
	s += "\n" + HelpStyle.Render(fmt.Sprintf("%d services", m.servTotal))

	return ContentStyle.Render(s)
}

func (m Model) renderDashboard() string {
	if m.dashboard == nil {
		return ContentStyle.Render("Loading your dashboard...")
	}

	d := m.dashboard
	var s string
	s += lipgloss.NewStyle().Bold(true).Foreground(Primary).Render(d.FullName()) + "\n"
	s += HelpStyle.Render(d.Email) + "\n"
	if d.PhoneNumber != "" {
		s += HelpStyle.Render(d.PhoneNumber) + "\n"
	}
	s += "\n" + lipgloss.NewStyle().Bold(true).Render("Liked works") + "\n"

	if len(d.LikedWorks) == 0 {
		s += HelpStyle.Render("  None yet. Press x on a work to like it.") + "\n"
	}
	for i, w := range d.LikedWorks {
		cursor := "  "
		style := ItemStyle
		if i == m.cursor {
			cursor = "❯ "
			style = ItemSelectedStyle
		}
		s += style.Render(cursor+LikedStyle.Render("♥")+" "+truncate(w.Title, m.width-20)) + "\n"
	}

	return ContentStyle.Render(s)
}

func (m Model) renderAdmin() string {
	users := m.users.Items()
	if m.loading && len(users) == 0 {
		return ContentStyle.Render("Loading users...")
	}
	if len(users) == 0 {
		return ContentStyle.Render(HelpStyle.Render("No users."))
	}

	var s string
	for i, u := range users {
		cursor := "  "
		style := ItemStyle
		if i == m.cursor {
			cursor = "❯ "
			style = ItemSelectedStyle
		}

		name := u.FullName()
		if name == "" {
			name = u.Email
		}
		line := fmt.Sprintf("%s%-25s %-30s %s", cursor, truncate(name, 25), truncate(u.Email, 30), u.Status)
		rendered := style.Render(line)
		if u.Status == model.StatusBlocked {
			rendered = BlockedStyle.Render(line)
		}
		if u.IsAdmin {
			rendered += " " + AdminBadgeStyle.Render("admin")
		}
		s += rendered + "\n"
	}

	s += "\n" + HelpStyle.Render(fmt.Sprintf("Page %d/%d  b:block/unblock", m.users.Page(), m.users.TotalPages()))

	return ContentStyle.Render(s)
}

func (m Model) renderForm(title, help string) string {
	content := lipgloss.NewStyle().Bold(true).Foreground(Primary).Render(title) + "\n\n"
	for _, in := range m.inputs {
		content += FormLabelStyle.Render(in.Placeholder) + "\n"
		content += in.View() + "\n\n"
	}
	content += HelpStyle.Render(help)

	return lipgloss.Place(
		m.width, m.height-4,
		lipgloss.Center, lipgloss.Center,
		ModalStyle.Render(content),
		lipgloss.WithWhitespaceChars(" "),
	)
}

func (m Model) renderResetForm() string {
	title := "Reset Password"
	help := "Enter:send code  Esc:back"
	if len(m.inputs) > 1 {
		help = "Enter:set new password  Esc:back"
	}
	return m.renderForm(title, help)
}

func (m Model) renderOrderModal() string {
	title := "Order"
	if w := m.currentWork(); w != nil {
		title = "Order: " + truncate(w.Title, 40)
	}

	content := lipgloss.NewStyle().Bold(true).Render(title) + "\n\n"
	if len(m.inputs) > 0 {
		content += m.inputs[0].View() + "\n\n"
	}
	content += HelpStyle.Render("Enter:send  Esc:cancel")

	return ModalStyle.Render(content)
}

func (m Model) renderStatusBar() string {
	help := statusHelp(m.page)
	if m.message != "" {
		help = m.message
	}

	notice := ""
	if n := m.session.Notifier().Latest(); n != nil {
		notice = NoticeStyle(n.Severity.String()).Render(n.Title + ": " + n.Message)
	}

	if notice != "" {
		avail := m.width - lipgloss.Width(help) - lipgloss.Width(notice) - 2
		if avail > 0 {
			help += strings.Repeat(" ", avail) + notice
		} else {
			help += " " + notice
		}
	}

	return StatusBarStyle.Width(m.width).Render(help)
}

func statusHelp(p Page) string {
	switch p {
	case PagePortfolio:
		return "j/k:move  ←/→:pages  x:like  o:order  r:refresh  ?:help  q:quit"
	case PageServices:
		return "j/k:move  r:refresh  1:portfolio  q:quit"
	case PageDashboard:
		return "j/k:move  r:refresh  1:portfolio  q:quit"
	case PageAdmin:
		return "j/k:move  ←/→:pages  b:block/unblock  r:refresh  q:quit"
	case PageLogin, PageSignup, PageReset:
		return "Tab:next field  Enter:submit  Esc:back"
	}
	return "?:help  q:quit"
}

func (m Model) renderHelp() string {
	help := `
╭──── Keyboard Shortcuts ────╮
│                            │
│  Pages                     │
│  ─────                     │
│  1      Portfolio          │
│  2      Services           │
│  3      Dashboard          │
│  4      Admin (admins)     │
│                            │
│  Browsing                  │
│  ────────                  │
│  j/↓    Move down          │
│  k/↑    Move up            │
│  ←/→    Prev/next page     │
│  r      Refresh            │
│                            │
│  Actions                   │
│  ───────                   │
│  x      Like / unlike      │
│  o      Order a work       │
│  i      Log in             │
│  s      Sign up            │
│  L      Log out            │
│                            │
│  ?      Toggle help        │
│  q      Quit               │
│                            │
╰────────────────────────────╯

      Press any key to close
`
	return lipgloss.Place(m.width, m.height-4, lipgloss.Center, lipgloss.Center, help)
}
