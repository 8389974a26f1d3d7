package model

import "testing"

func TestCanPerform(t *testing.T) {
	tests := []struct {
		role     string
		action   Action
		expected bool
	}{
		{RoleAdmin, ActionManageUsers, true},
		{RoleAdmin, ActionDeleteUser, true},
		{RoleAdmin, ActionCorrectArrival, true},
		{RoleAdmin, ActionRecordTrip, true},
		{RoleCollaborator, ActionRecordTrip, true},
		{RoleCollaborator, ActionManageVehicles, true},
		{RoleCollaborator, ActionViewReports, true},
		{RoleCollaborator, ActionManageUsers, false},
		{RoleCollaborator, ActionDeleteUser, false},
		{RoleCollaborator, ActionChangeRole, false},
		{RoleCollaborator, ActionCorrectArrival, false},
		{RoleCollaborator, ActionViewDeletionReports, false},
		{RoleCollaborator, ActionDeleteDeletionReport, false},
		// Unknown actions and roles fail-closed.
		{RoleAdmin, Action("unknown"), false},
		{"", ActionRecordTrip, false},
	}

	for _, tt := range tests {
		got := CanPerform(tt.role, tt.action)
		if got != tt.expected {
			t.Errorf("CanPerform(%q, %q) = %v, want %v", tt.role, tt.action, got, tt.expected)
		}
	}
}
