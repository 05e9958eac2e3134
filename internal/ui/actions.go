package ui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kcherif/maitre/internal/api"
	"github.com/kcherif/maitre/internal/orders"
)

// actionMenu lists the lifecycle actions legal for one order. The action set
// is computed from the order's status when the menu opens; terminal orders
// never get a menu.
type actionMenu struct {
	order    api.Order
	actions  []orders.Action
	selected int
}

// openActionMenu opens the lifecycle menu for the selected order.
func (m Model) openActionMenu() (tea.Model, tea.Cmd) {
	if m.screen != ScreenOrders {
		return m, nil
	}
	id, ok := m.selectedID()
	if !ok {
		return m, nil
	}
	order, ok := m.collections.orders.Get(id)
	if !ok {
		return m, nil
	}
	actions := orders.AvailableActions(orders.Status(order.Status))
	if len(actions) == 0 {
		m.status.info = fmt.Sprintf("order #%d is %s; no actions", order.ID, order.Status)
		return m, nil
	}
	m.actionMenu = &actionMenu{order: order, actions: actions}
	return m, nil
}

func (m Model) handleActionMenuKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	menu := m.actionMenu
	switch msg.String() {
	case "esc":
		m.actionMenu = nil
		return m, nil
	case "j", "down":
		if menu.selected < len(menu.actions)-1 {
			menu.selected++
		}
		return m, nil
	case "k", "up":
		if menu.selected > 0 {
			menu.selected--
		}
		return m, nil
	case "enter":
		if m.busy {
			return m, nil
		}
		m.busy = true
		return m, tea.Batch(m.applyActionCmd(menu.order, menu.actions[menu.selected]), m.spin.Tick)
	}
	return m, nil
}

// applyActionCmd runs the transition through the machine and reconciles the
// confirmed order back into the collection. The machine only moves the
// status after the server acknowledges, so a failure leaves the collection
// entry byte-for-byte as it was.
func (m Model) applyActionCmd(order api.Order, action orders.Action) tea.Cmd {
	coll, machine, ctx := m.collections.orders, m.machine, m.ctx
	return func() tea.Msg {
		_, err := coll.Update(ctx, order.ID, func(ctx context.Context) (api.Order, error) {
			if err := machine.Apply(ctx, &order, action); err != nil {
				return api.Order{}, err
			}
			return order, nil
		})
		verb := fmt.Sprintf("order #%d → %s", order.ID, order.Status)
		return mutationDoneMsg{screen: ScreenOrders, verb: verb, err: err}
	}
}

func (menu *actionMenu) View(theme Theme) string {
	styles := theme.Styles()
	lines := []string{
		styles.AccentText.Render(fmt.Sprintf("Order #%d · %s", menu.order.ID, menu.order.Status)),
		"",
	}
	for i, action := range menu.actions {
		label := action.Label()
		if i == menu.selected {
			lines = append(lines, styles.Selected.Render(" "+label+" "))
		} else {
			lines = append(lines, styles.Text.Render(" "+label+" "))
		}
	}
	lines = append(lines, "", styles.MutedText.Render("enter apply · esc close"))
	return styles.FocusBorder.Padding(1, 2).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
