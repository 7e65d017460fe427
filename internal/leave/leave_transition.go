package leave

import leaveerrors "go-leave/internal/leave/errors"

// LedgerAction is the balance side effect of a status transition.
type LedgerAction int

const (
	LedgerNone LedgerAction = iota
	LedgerRestore
)

func (a LedgerAction) String() string {
	if a == LedgerRestore {
		return "restore"
	}
	return "none"
}

type transitionKey struct {
	from Status
	to   Status
}

// Days are deducted when an application is created, so approval keeps them
// and every other exit gives them back.
var transitions = map[transitionKey]LedgerAction{
	{StatusPending, StatusApproved}:  LedgerNone,
	{StatusPending, StatusRejected}:  LedgerRestore,
	{StatusPending, StatusCancelled}: LedgerRestore,
}

// ResolveTransition returns the ledger action for moving current to target.
// Anything but a pending application fails with ErrNotPending; a target missing
// from the table fails with ErrInvalidTransition.
func ResolveTransition(current, target Status) (LedgerAction, error) {
	if current != StatusPending {
		return LedgerNone, leaveerrors.ErrNotPending
	}
	action, ok := transitions[transitionKey{from: current, to: target}]
	if !ok {
		return LedgerNone, leaveerrors.ErrInvalidTransition
	}
	return action, nil
}
