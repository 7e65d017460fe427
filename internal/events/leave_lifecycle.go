package events

import "time"

const LeaveLifecycleTopic = "hr.leave.lifecycle.v1"

const (
	LeaveCreated       = "leave_created"
	LeaveStatusChanged = "leave_status_changed"
)

const LeaveAggregateType = "leave_application"

// LeaveLifecycleEvent is published once per committed create or transition.
// AvailableLeaves is the employee balance right after the change.
type LeaveLifecycleEvent struct {
	EventID         string    `json:"event_id"`
	EventType       string    `json:"event_type"`
	RequestID       string    `json:"request_id,omitempty"`
	LeaveID         string    `json:"leave_id"`
	EmployeeID      string    `json:"employee_id"`
	ManagerID       string    `json:"manager_id,omitempty"`
	ActorID         string    `json:"actor_id,omitempty"`
	FromStatus      string    `json:"from_status,omitempty"`
	ToStatus        string    `json:"to_status"`
	StartDate       string    `json:"start_date"`
	EndDate         string    `json:"end_date"`
	WorkDays        int       `json:"work_days"`
	BalanceRestored bool      `json:"balance_restored"`
	AvailableLeaves int       `json:"available_leaves"`
	OccurredAt      time.Time `json:"occurred_at"`
}
