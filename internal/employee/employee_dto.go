package employee

type CreateEmployeeRequest struct {
	FirstName   string `json:"first_name" binding:"required,max=100"`
	LastName    string `json:"last_name" binding:"required,max=100"`
	Role        string `json:"role" binding:"required,oneof=EMPLOYEE MANAGER HR_ADMIN"`
	TotalLeaves *int   `json:"total_leaves" binding:"required,min=0"`
	ManagerID   string `json:"manager_id" binding:"omitempty,uuid"`
}

type UpdateTotalLeavesRequest struct {
	TotalLeaves *int `json:"total_leaves" binding:"required,min=0"`
}

type EmployeeResponse struct {
	ID              string           `json:"id"`
	FirstName       string           `json:"first_name"`
	LastName        string           `json:"last_name"`
	Role            string           `json:"role"`
	Manager         *ManagerResponse `json:"manager,omitempty"`
	TotalLeaves     int              `json:"total_leaves"`
	AvailableLeaves int              `json:"available_leaves"`
}

type ManagerResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role,omitempty"`
}
