package model

// Action is an operation gated by the authorization policy.
type Action string

// Actions.
const (
	ActionManageUsers          Action = "manage_users"
	ActionDeleteUser           Action = "delete_user"
	ActionChangeRole           Action = "change_role"
	ActionManageVehicles       Action = "manage_vehicles"
	ActionRecordTrip           Action = "record_trip"
	ActionCorrectArrival       Action = "correct_arrival"
	ActionDeleteChecklist      Action = "delete_checklist"
	ActionViewReports          Action = "view_reports"
	ActionViewDeletionReports  Action = "view_deletion_reports"
	ActionDeleteDeletionReport Action = "delete_deletion_report"
)

// minimumRole maps each action to the least privileged role allowed to
// perform it. Every entry point (HTTP middleware and store-level guards)
// consults this table through CanPerform; client-side checks are advisory
// only and the server re-checks on each request.
var minimumRole = map[Action]string{
	ActionManageUsers:          RoleAdmin,
	ActionDeleteUser:           RoleAdmin,
	ActionChangeRole:           RoleAdmin,
	ActionManageVehicles:       RoleCollaborator,
	ActionRecordTrip:           RoleCollaborator,
	ActionCorrectArrival:       RoleAdmin,
	ActionDeleteChecklist:      RoleAdmin,
	ActionViewReports:          RoleCollaborator,
	ActionViewDeletionReports:  RoleAdmin,
	ActionDeleteDeletionReport: RoleAdmin,
}

// CanPerform reports whether a role is allowed to perform an action.
// Unknown actions fail closed.
func CanPerform(role string, action Action) bool {
	minimum, ok := minimumRole[action]
	if !ok {
		return false
	}
	return RoleAtLeast(role, minimum)
}
