package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Modal is the interface for modal dialogs.
// The Update method returns the updated modal, a command, and a bool
// indicating if the modal should close.
type Modal interface {
	Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool)
	View(theme Theme, width, height int) string
}

// confirmModal asks before a destructive action.
type confirmModal struct {
	prompt  string
	confirm tea.Cmd
}

func (c confirmModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil, false
	}
	switch {
	case key.Matches(keyMsg, keys.Confirm):
		return c, c.confirm, true
	case keyMsg.String() == "y":
		return c, c.confirm, true
	case keyMsg.String() == "esc", keyMsg.String() == "n":
		return c, nil, true
	}
	return c, nil, false
}

func (c confirmModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	body := lipgloss.JoinVertical(lipgloss.Left,
		styles.DangerText.Render(c.prompt),
		"",
		styles.MutedText.Render("enter/y confirm · esc/n cancel"),
	)
	return styles.FocusBorder.Padding(1, 2).Render(body)
}

// openDeleteConfirm builds the delete confirmation for the selected row.
func (m Model) openDeleteConfirm() (tea.Model, tea.Cmd) {
	id, ok := m.selectedID()
	if !ok {
		return m, nil
	}
	if m.busy {
		return m, nil
	}

	var remove tea.Cmd
	switch m.screen {
	case ScreenCategories:
		coll, client, ctx := m.collections.categories, m.client, m.ctx
		remove = func() tea.Msg {
			err := coll.Remove(ctx, id, func(ctx context.Context) error {
				return client.DeleteCategory(ctx, id)
			})
			return mutationDoneMsg{screen: ScreenCategories, verb: "category deleted", err: err}
		}
	case ScreenMenu:
		coll, client, ctx := m.collections.menu, m.client, m.ctx
		remove = func() tea.Msg {
			err := coll.Remove(ctx, id, func(ctx context.Context) error {
				return client.DeleteMenuItem(ctx, id)
			})
			return mutationDoneMsg{screen: ScreenMenu, verb: "menu item deleted", err: err}
		}
	case ScreenUsers:
		coll, client, ctx := m.collections.users, m.client, m.ctx
		remove = func() tea.Msg {
			err := coll.Remove(ctx, id, func(ctx context.Context) error {
				return client.DeleteUser(ctx, id)
			})
			return mutationDoneMsg{screen: ScreenUsers, verb: "user deleted", err: err}
		}
	case ScreenOffers:
		coll, client, ctx := m.collections.offers, m.client, m.ctx
		remove = func() tea.Msg {
			err := coll.Remove(ctx, id, func(ctx context.Context) error {
				return client.DeleteOffer(ctx, id)
			})
			return mutationDoneMsg{screen: ScreenOffers, verb: "offer deleted", err: err}
		}
	case ScreenMessages:
		coll, client, ctx := m.collections.messages, m.client, m.ctx
		remove = func() tea.Msg {
			err := coll.Remove(ctx, id, func(ctx context.Context) error {
				return client.DeleteMessage(ctx, id)
			})
			return mutationDoneMsg{screen: ScreenMessages, verb: "message deleted", err: err}
		}
	default:
		// Orders are never deleted from the console.
		m.status.info = "orders cannot be deleted"
		return m, nil
	}

	m.modal = confirmModal{
		prompt:  fmt.Sprintf("Delete %s #%d?", screenNoun(m.screen), id),
		confirm: remove,
	}
	return m, nil
}

func screenNoun(s Screen) string {
	switch s {
	case ScreenCategories:
		return "category"
	case ScreenMenu:
		return "menu item"
	case ScreenUsers:
		return "user"
	case ScreenOffers:
		return "offer"
	case ScreenMessages:
		return "message"
	case ScreenOrders:
		return "order"
	}
	return "item"
}

var _ Modal = confirmModal{}
