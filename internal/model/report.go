package model

import "time"

// DeletionReport is an append-only audit record created whenever an admin
// removes a user account. It is not linked back to the user once created
// and may itself be deleted by an admin.
type DeletionReport struct {
	ID              int64     `json:"id"`
	Reference       string    `json:"reference"`
	DeletedUserID   int64     `json:"deleted_user_id"`
	DeletedUserName string    `json:"deleted_user_name"`
	AdminID         int64     `json:"admin_id"`
	AdminName       string    `json:"admin_name"`
	Reason          string    `json:"reason"`
	CreatedAt       time.Time `json:"created_at"`
}
