package leave

// Dates are optional at the binding layer so a missing date reaches the
// validator and fails with ErrNullDate.
type CreateLeaveRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Reason    string `json:"reason" binding:"max=500"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type LeaveResponse struct {
	ID              string  `json:"id"`
	EmployeeID      string  `json:"employee_id"`
	EmployeeName    string  `json:"employee_name,omitempty"`
	ManagerID       *string `json:"manager_id,omitempty"`
	ManagerName     string  `json:"manager_name,omitempty"`
	StartDate       string  `json:"start_date"`
	EndDate         string  `json:"end_date"`
	WorkDays        int     `json:"work_days"`
	Reason          string  `json:"reason"`
	Status          string  `json:"status"`
	DecidedBy       *string `json:"decided_by,omitempty"`
	DecidedAt       *string `json:"decided_at,omitempty"`
	CreatedAt       string  `json:"created_at"`
	AvailableLeaves *int    `json:"available_leaves,omitempty"`
}
