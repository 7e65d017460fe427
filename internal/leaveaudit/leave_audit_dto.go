package leaveaudit

type AuditLogResponse struct {
	EventID         string  `json:"event_id"`
	EventType       string  `json:"event_type"`
	LeaveID         string  `json:"leave_id"`
	EmployeeID      string  `json:"employee_id"`
	ActorID         *string `json:"actor_id,omitempty"`
	FromStatus      *string `json:"from_status,omitempty"`
	ToStatus        string  `json:"to_status"`
	WorkDays        int     `json:"work_days"`
	AvailableLeaves int     `json:"available_leaves"`
	OccurredAt      string  `json:"occurred_at"`
}
