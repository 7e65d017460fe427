package rbac

const (
	ResourceLeave    = "leave"
	ResourceEmployee = "employee"
	ResourceRBAC     = "rbac"

	ActionCreate   = "create"
	ActionRead     = "read"
	ActionList     = "list"
	ActionUpdate   = "update"
	ActionApprove  = "approve"
	ActionCancel   = "cancel"
	ActionReadTeam = "read_team"
	ActionReadAll  = "read_all"
)

// DefaultPolicies grant permissions per role. Record-level authority (owner,
// snapshotted manager) is checked by the services.
var DefaultPolicies = [][]string{
	{"EMPLOYEE", ResourceLeave, ActionCreate},
	{"EMPLOYEE", ResourceLeave, ActionRead},
	{"EMPLOYEE", ResourceLeave, ActionUpdate},
	{"EMPLOYEE", ResourceLeave, ActionCancel},
	{"EMPLOYEE", ResourceEmployee, ActionRead},

	{"MANAGER", ResourceLeave, ActionApprove},
	{"MANAGER", ResourceLeave, ActionReadTeam},
	{"MANAGER", ResourceEmployee, ActionList},

	{"HR_ADMIN", ResourceLeave, ActionReadAll},
	{"HR_ADMIN", ResourceEmployee, ActionCreate},
	{"HR_ADMIN", ResourceEmployee, ActionUpdate},
	{"HR_ADMIN", ResourceRBAC, ActionRead},
}

// DefaultInheritance: HR_ADMIN > MANAGER > EMPLOYEE.
var DefaultInheritance = [][]string{
	{"MANAGER", "EMPLOYEE"},
	{"HR_ADMIN", "MANAGER"},
}
