// Package orders models the order lifecycle: a fixed forward transition
// table from pending through delivered, with cancellation possible only
// before the order is accepted. Status changes are confirmed-only: nothing
// local moves until the backend acknowledges the update.
package orders

import (
	"context"
	"fmt"

	"github.com/kcherif/maitre/internal/api"
)

// Status is an order's lifecycle state.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusPreparing Status = "preparing"
	StatusReady     Status = "ready"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

// Action is an operator-initiated transition.
type Action string

const (
	ActionAccept        Action = "accept"
	ActionReject        Action = "reject"
	ActionStartPrep     Action = "start_preparing"
	ActionMarkReady     Action = "mark_ready"
	ActionMarkDelivered Action = "mark_delivered"
)

type transition struct {
	action Action
	target Status
}

// transitions is the complete table. Delivered and cancelled are terminal
// and have no row.
var transitions = map[Status][]transition{
	StatusPending: {
		{action: ActionAccept, target: StatusConfirmed},
		{action: ActionReject, target: StatusCancelled},
	},
	StatusConfirmed: {
		{action: ActionStartPrep, target: StatusPreparing},
	},
	StatusPreparing: {
		{action: ActionMarkReady, target: StatusReady},
	},
	StatusReady: {
		{action: ActionMarkDelivered, target: StatusDelivered},
	},
}

// AvailableActions returns the operator actions legal from state. It is
// computed on every call, never stored, so it cannot drift from the status
// it was derived from. Terminal states return nil.
func AvailableActions(state Status) []Action {
	rows := transitions[state]
	if len(rows) == 0 {
		return nil
	}
	actions := make([]Action, len(rows))
	for i, row := range rows {
		actions[i] = row.action
	}
	return actions
}

// Target resolves the state reached by applying action from state.
func Target(state Status, action Action) (Status, bool) {
	for _, row := range transitions[state] {
		if row.action == action {
			return row.target, true
		}
	}
	return "", false
}

// Terminal reports whether state has no outgoing transitions.
func Terminal(state Status) bool {
	return len(transitions[state]) == 0
}

// Label returns the operator-facing name for an action.
func (a Action) Label() string {
	switch a {
	case ActionAccept:
		return "Accept"
	case ActionReject:
		return "Reject"
	case ActionStartPrep:
		return "Start preparing"
	case ActionMarkReady:
		return "Mark ready"
	case ActionMarkDelivered:
		return "Mark delivered"
	}
	return string(a)
}

// StatusUpdater issues the status-update request. *api.Client implements it.
type StatusUpdater interface {
	UpdateOrderStatus(ctx context.Context, id int64, status string) error
}

var _ StatusUpdater = (*api.Client)(nil)

// Machine applies operator actions to orders through a StatusUpdater.
type Machine struct {
	updater StatusUpdater
}

// NewMachine builds a Machine over the given updater.
func NewMachine(updater StatusUpdater) *Machine {
	return &Machine{updater: updater}
}

// Apply validates action against order's current status, issues the update,
// and on success moves order to the target status. An illegal action is a
// validation error and issues no request; a failed request leaves the order
// untouched. There is no optimistic path here.
func (m *Machine) Apply(ctx context.Context, order *api.Order, action Action) error {
	if order == nil {
		return fmt.Errorf("order is nil")
	}
	current := Status(order.Status)
	target, ok := Target(current, action)
	if !ok {
		return &api.ValidationError{
			Field:  "status",
			Reason: fmt.Sprintf("action %q is not legal from %q", action, current),
		}
	}
	if err := m.updater.UpdateOrderStatus(ctx, order.ID, string(target)); err != nil {
		return err
	}
	order.Status = string(target)
	return nil
}
