package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/desertthunder/skillswap/internal/services"
)

func (m *Model) View() string {
	var b strings.Builder
	switch m.view {
	case LoadingView:
		b.WriteString(styles.title.Render("SkillSwap"))
		b.WriteString("\nChecking your session...\n")
	case LoginView:
		m.viewLogin(&b)
	case FeedView:
		b.WriteString(m.posts.View())
		b.WriteString("\n")
		m.viewFooter(&b, m.keys.up, m.keys.down, m.keys.enter, m.keys.next, m.keys.mine, m.keys.refresh, m.keys.logout, m.keys.quit)
	case DetailView:
		m.viewDetail(&b)
		m.viewFooter(&b, m.keys.back, m.keys.delete, m.keys.logout, m.keys.quit)
	case ConfirmView:
		m.viewDetail(&b)
		b.WriteString(styles.warn.Render(fmt.Sprintf("Delete post #%d? This cannot be undone.", m.selected.ID)))
		b.WriteString("\n")
		m.viewFooter(&b, m.keys.yes, m.keys.no)
	}
	return b.String()
}

func (m *Model) viewLogin(b *strings.Builder) {
	b.WriteString(styles.title.Render("Sign in to SkillSwap"))
	b.WriteString("\n")
	b.WriteString(m.email.View())
	b.WriteString("\n")
	b.WriteString(m.password.View())
	b.WriteString("\n\n")
	m.viewFooter(b)
	b.WriteString(styles.help.Render("tab: switch field • enter: submit • ctrl+c: quit"))
	b.WriteString("\n")
}

func (m *Model) viewDetail(b *strings.Builder) {
	p := m.selected
	if p == nil {
		return
	}
	b.WriteString(styles.title.Render(fmt.Sprintf("Post #%d", p.ID)))
	b.WriteString("\n")
	fmt.Fprintf(b, "%s %s\n", styles.label.Render("Type:"), styles.postType(p.PostType))
	fmt.Fprintf(b, "%s %s\n", styles.label.Render("Description:"), p.Description)
	if cats := categoryList(p.Categories); cats != "" {
		fmt.Fprintf(b, "%s %s\n", styles.label.Render("Categories:"), cats)
	}
	if p.PinCode != nil && *p.PinCode != "" {
		fmt.Fprintf(b, "%s %s\n", styles.label.Render("Pin code:"), *p.PinCode)
	}

	b.WriteString("\n")
	if m.author == nil {
		fmt.Fprintf(b, "%s %s\n", styles.label.Render("Author:"), p.Author())
	} else {
		fmt.Fprintf(b, "%s %s <%s>\n", styles.label.Render("Author:"), m.author.DisplayName(), m.author.Email)
		if m.author.PinCode != nil && *m.author.PinCode != "" {
			fmt.Fprintf(b, "%s %s\n", styles.label.Render("Location:"), *m.author.PinCode)
		}
	}
	b.WriteString("\n")
}

func (m *Model) viewFooter(b *strings.Builder, bindings ...key.Binding) {
	if m.err != nil {
		b.WriteString(styles.err.Render("Error: " + errorMessage(m.err)))
		b.WriteString("\n")
	} else if m.status != "" {
		b.WriteString(styles.ok.Render(m.status))
		b.WriteString("\n")
	}
	if len(bindings) > 0 {
		b.WriteString(m.help.ShortHelpView(bindings))
		b.WriteString("\n")
	}
}

// errorMessage prefers the backend's message over the full wrapped error.
func errorMessage(err error) string {
	var rf *services.RequestFailed
	if errors.As(err, &rf) {
		return rf.Message
	}
	return err.Error()
}
