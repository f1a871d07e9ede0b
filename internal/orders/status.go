package orders

import (
	"fmt"
	"strings"
)

type Status string

const (
	StatusPending    Status = "PENDING"
	StatusReceived   Status = "RECEIVED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusDone       Status = "DONE"
	StatusCompleted  Status = "COMPLETED"
	StatusCancelled  Status = "CANCELLED"
)

func (s Status) String() string { return string(s) }

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusReceived, StatusInProgress, StatusDone, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

// ParseStatus accepts the stored form case-insensitively ("in_progress", "IN_PROGRESS").
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToUpper(strings.TrimSpace(s)))
	if !st.IsValid() {
		return "", fmt.Errorf("%w: unknown status %q", ErrInvalidInput, s)
	}
	return st, nil
}

// Trigger is an event that moves an order along the transition table.
type Trigger string

const (
	TriggerPaymentConfirmed Trigger = "payment_confirmed"
	TriggerPaymentRefused   Trigger = "payment_refused"
	TriggerKitchenAccepted  Trigger = "kitchen_accepted"
	TriggerKitchenFinished  Trigger = "kitchen_finished"
	TriggerPickedUp         Trigger = "picked_up"
	TriggerCancel           Trigger = "cancel"
)

type transition struct {
	from []Status
	to   Status
}

var transitions = map[Trigger]transition{
	TriggerPaymentConfirmed: {from: []Status{StatusPending}, to: StatusReceived},
	TriggerPaymentRefused:   {from: []Status{StatusPending, StatusReceived}, to: StatusCancelled},
	TriggerKitchenAccepted:  {from: []Status{StatusReceived}, to: StatusInProgress},
	TriggerKitchenFinished:  {from: []Status{StatusInProgress}, to: StatusDone},
	TriggerPickedUp:         {from: []Status{StatusDone}, to: StatusCompleted},
	TriggerCancel:           {from: []Status{StatusPending, StatusReceived, StatusInProgress}, to: StatusCancelled},
}

// validNext is the edge set of the transition table, keyed by source state.
var validNext = func() map[Status]map[Status]bool {
	next := map[Status]map[Status]bool{}
	for _, t := range transitions {
		for _, from := range t.from {
			if next[from] == nil {
				next[from] = map[Status]bool{}
			}
			next[from][t.to] = true
		}
	}
	return next
}()

func CanTransition(from, to Status) bool {
	return validNext[from][to]
}

// Fire returns the state reached by applying trigger t from current.
// changed is false when the target equals current; that case always succeeds.
func Fire(current Status, t Trigger) (next Status, changed bool, err error) {
	tr, ok := transitions[t]
	if !ok {
		return current, false, fmt.Errorf("%w: unknown trigger %q", ErrInvalidTransition, t)
	}
	if tr.to == current {
		return current, false, nil
	}
	for _, from := range tr.from {
		if from == current {
			return tr.to, true, nil
		}
	}
	return current, false, fmt.Errorf("%w: %s from %s", ErrInvalidTransition, t, current)
}

// MoveTo validates a direct status change against the table.
func MoveTo(current, target Status) (changed bool, err error) {
	if target == current {
		return false, nil
	}
	if !CanTransition(current, target) {
		return false, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current, target)
	}
	return true, nil
}
