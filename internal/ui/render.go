package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) renderMain() string {
	styles := m.theme.Styles()

	sections := []string{
		m.renderHeader(styles),
		m.renderTable(styles),
	}
	if detail := m.renderDetail(styles); detail != "" {
		sections = append(sections, detail)
	}
	sections = append(sections, m.renderFooter(styles))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader(styles Styles) string {
	var tabs []string
	for _, s := range screenOrder {
		label := fmt.Sprintf("%d:%s", int(s)+1, s.String())
		if s == m.screen {
			tabs = append(tabs, styles.ActiveTab.Render(label))
		} else {
			tabs = append(tabs, styles.Tab.Render(label))
		}
	}
	left := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
	right := styles.FaintText.Render(m.theme.Name)
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	return styles.Header.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

func (m Model) renderTable(styles Styles) string {
	view := m.currentView()

	// Column widths are display cells, not bytes; truncated cells carry a
	// one-cell ellipsis and non-ASCII names must not shift the columns.
	widths := make([]int, len(view.Headers))
	for i, h := range view.Headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range view.Rows {
		for i, cell := range row {
			if w := lipgloss.Width(cell); i < len(widths) && w > widths[i] {
				widths[i] = w
			}
		}
	}

	var b strings.Builder
	var headerCells []string
	for i, h := range view.Headers {
		headerCells = append(headerCells, padRight(h, widths[i]))
	}
	b.WriteString(styles.MutedText.Render("  " + strings.Join(headerCells, "  ")))
	b.WriteString("\n")

	if len(view.Rows) == 0 {
		empty := "no results"
		if m.query != "" {
			empty = fmt.Sprintf("no results for %q", m.query)
		}
		b.WriteString(styles.FaintText.Render("  " + empty))
		return b.String()
	}

	selected := m.selected[m.screen]
	for idx, row := range view.Rows {
		var cells []string
		for i, cell := range row {
			cells = append(cells, padRight(cell, widths[i]))
		}
		if idx == selected {
			b.WriteString(styles.Selected.Render("> " + strings.Join(cells, "  ")))
		} else {
			b.WriteString(styles.Text.Render("  " + strings.Join(cells, "  ")))
		}
		if idx < len(view.Rows)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// renderDetail shows the fields a table row has no room for.
func (m Model) renderDetail(styles Styles) string {
	id, ok := m.selectedID()
	if !ok {
		return ""
	}
	switch m.screen {
	case ScreenOrders:
		order, ok := m.collections.orders.Get(id)
		if !ok {
			return ""
		}
		var lines []string
		lines = append(lines, styles.AccentText.Render(fmt.Sprintf("#%d %s", order.ID, order.CustomerName))+
			"  "+styles.StatusStyle(order.Status).Render(order.Status))
		if order.Phone != "" || order.Address != "" {
			lines = append(lines, styles.MutedText.Render(strings.TrimSpace(order.Phone+"  "+order.Address)))
		}
		for _, line := range order.Lines {
			lines = append(lines, styles.Text.Render(
				fmt.Sprintf("  %d× %s  %s", line.Quantity, line.Name, formatPrice(float64(line.Quantity)*line.Price))))
		}
		lines = append(lines, styles.MutedText.Render("total "+formatPrice(order.Total)))
		return styles.Border.Padding(0, 1).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))

	case ScreenMessages:
		msg, ok := m.collections.messages.Get(id)
		if !ok {
			return ""
		}
		body := truncate(msg.Body, 500)
		header := styles.AccentText.Render(fmt.Sprintf("%s <%s>", msg.Name, msg.Email))
		return styles.Border.Padding(0, 1).Render(lipgloss.JoinVertical(lipgloss.Left,
			header,
			styles.Text.Render(body),
		))
	}
	return ""
}

func (m Model) renderFooter(styles Styles) string {
	view := m.currentView()

	pager := m.pager
	pager.SetTotalPages(view.TotalPages)
	pager.Page = view.Page - 1

	var left []string
	if m.busy {
		left = append(left, m.spin.View())
	}
	switch {
	case m.status.sessionExpired:
		left = append(left, styles.DangerText.Render("session expired; refresh your token"))
	case m.status.err != "":
		left = append(left, styles.DangerText.Render(m.status.err))
	case m.status.info != "":
		left = append(left, styles.SuccessText.Render(m.status.info))
	}
	if m.searching {
		left = append(left, "/"+m.searchInput.View())
	} else if m.query != "" {
		left = append(left, styles.MutedText.Render(fmt.Sprintf("filter: %q", m.query)))
	}
	if m.screen == ScreenMenu && m.menuFilter != 0 {
		left = append(left, styles.MutedText.Render(fmt.Sprintf("category: %d", m.menuFilter)))
	}

	counts := fmt.Sprintf("%d items · page %d/%d %s", view.Total, view.Page, view.TotalPages, pager.View())
	hints := styles.FaintText.Render("? help")

	leftStr := strings.Join(left, "  ")
	right := counts + "  " + hints
	gap := m.width - lipgloss.Width(leftStr) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	return styles.Footer.Width(m.width).Render(leftStr + strings.Repeat(" ", gap) + right)
}

func (m Model) renderForm() string {
	styles := m.theme.Styles()
	f := m.form

	lines := []string{styles.AccentText.Render(f.title), ""}
	for i, field := range f.fields {
		label := field.label
		if field.required {
			label += " *"
		}
		marker := "  "
		if i == f.focus {
			marker = "> "
		}
		lines = append(lines, styles.MutedText.Render(marker+label))
		lines = append(lines, "  "+field.input.View())
	}
	if f.err != "" {
		lines = append(lines, "", styles.DangerText.Render(f.err))
	}
	if m.busy {
		lines = append(lines, "", m.spin.View()+" "+styles.MutedText.Render("saving…"))
	}
	lines = append(lines, "", styles.FaintText.Render("enter next/submit · ctrl+s submit · esc cancel"))

	box := styles.FocusBorder.Padding(1, 2).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
	return m.renderOverlay(box)
}

func (m Model) renderHelp() string {
	styles := m.theme.Styles()
	entries := []struct{ key, desc string }{
		{"1-6", "Switch screen"},
		{"tab", "Next screen"},
		{"j/k", "Move selection"},
		{"h/l", "Change page"},
		{"/", "Search"},
		{"f", "Cycle category filter (menu)"},
		{"n", "New"},
		{"e", "Edit"},
		{"d", "Delete"},
		{"enter", "Order actions (orders)"},
		{"y", "Copy id"},
		{"r", "Refresh"},
		{"T", "Cycle theme"},
		{"esc", "Clear filter / cancel"},
		{"Q", "Quit"},
	}
	var lines []string
	lines = append(lines, styles.AccentText.Render("maitre — keys"), "")
	for _, e := range entries {
		lines = append(lines, fmt.Sprintf("%s %s",
			styles.AccentText.Render(padRight("<"+e.key+">", 9)),
			styles.Text.Render(e.desc)))
	}
	lines = append(lines, "", styles.FaintText.Render("any key to close"))
	box := styles.Border.Padding(1, 2).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
	return m.renderOverlay(box)
}

// renderOverlay centers a box in the window.
func (m Model) renderOverlay(box string) string {
	if m.width <= 0 || m.height <= 0 {
		return box
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
