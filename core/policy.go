package core

import "axiapac.com/attendance/model"

type Action int

const (
	ActionUnknown Action = iota
	ActionCreateAdmin
	ActionCreateEmployee
	ActionSetActiveStatus
	ActionListEmployees
	ActionReadAttendance
)

func (a Action) String() string {
	switch a {
	case ActionCreateAdmin:
		return "create-admin"
	case ActionCreateEmployee:
		return "create-employee"
	case ActionSetActiveStatus:
		return "set-active-status"
	case ActionListEmployees:
		return "list-employees"
	case ActionReadAttendance:
		return "read-attendance"
	}
	return "unknown"
}

// CreateActionFor returns the action needed to create an account of role.
func CreateActionFor(role model.Role) Action {
	switch role {
	case model.RoleAdmin:
		return ActionCreateAdmin
	case model.RoleEmployee:
		return ActionCreateEmployee
	}
	return ActionUnknown
}

// CanPerform decides whether an actor with the given role may perform the
// action. Anything not listed is denied.
func CanPerform(role model.Role, adminRole model.AdminRole, action Action) bool {
	isAdmin := role == model.RoleAdmin
	isSuperadmin := isAdmin && adminRole == model.AdminRoleSuperadmin
	isEditor := isAdmin && adminRole == model.AdminRoleEditor

	switch action {
	case ActionCreateAdmin:
		return isSuperadmin
	case ActionCreateEmployee:
		return isEditor || isSuperadmin
	case ActionSetActiveStatus:
		return isSuperadmin
	case ActionListEmployees:
		return isAdmin
	case ActionReadAttendance:
		// attendance views are public
		return true
	}
	return false
}
