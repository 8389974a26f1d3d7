package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/lpireis/frota/internal/model"
)

// DeleteUserWithReport soft-deletes a user and creates the deletion audit
// record in a single transaction: both writes succeed or neither does.
// An empty reason is rejected before any write.
//
// Returns nil, nil when the target user does not exist or is already deleted.
func DeleteUserWithReport(ctx context.Context, db *sql.DB, targetID int64, reason string, admin *model.User) (*model.DeletionReport, error) {
	if reason == "" {
		return nil, ErrEmptyReason
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var targetName string
	err = tx.QueryRowContext(ctx,
		`SELECT username FROM users WHERE id = ? AND deleted_at IS NULL`, targetID,
	).Scan(&targetName)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting target user: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE users SET deleted_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted_at IS NULL`,
		targetID,
	); err != nil {
		return nil, fmt.Errorf("deleting user: %w", err)
	}

	reference := uuid.NewString()
	result, err := tx.ExecContext(ctx,
		`INSERT INTO deletion_reports (reference, deleted_user_id, deleted_user_name, admin_id, admin_name, reason)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		reference, targetID, targetName, admin.ID, admin.Username, reason,
	)
	if err != nil {
		return nil, fmt.Errorf("recording deletion report: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing user deletion: %w", err)
	}

	reportID, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting report id: %w", err)
	}
	return GetDeletionReport(ctx, db, reportID)
}

// GetDeletionReport returns a deletion report by ID.
func GetDeletionReport(ctx context.Context, db *sql.DB, id int64) (*model.DeletionReport, error) {
	r := &model.DeletionReport{}
	err := db.QueryRowContext(ctx,
		`SELECT id, reference, deleted_user_id, deleted_user_name, admin_id, admin_name, reason, created_at
		 FROM deletion_reports WHERE id = ?`, id,
	).Scan(&r.ID, &r.Reference, &r.DeletedUserID, &r.DeletedUserName, &r.AdminID, &r.AdminName, &r.Reason, &r.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting deletion report: %w", err)
	}
	return r, nil
}

// ListDeletionReports returns all deletion reports, newest first.
func ListDeletionReports(ctx context.Context, db *sql.DB) ([]model.DeletionReport, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, reference, deleted_user_id, deleted_user_name, admin_id, admin_name, reason, created_at
		 FROM deletion_reports ORDER BY created_at DESC, id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing deletion reports: %w", err)
	}
	defer rows.Close()

	var reports []model.DeletionReport
	for rows.Next() {
		var r model.DeletionReport
		if err := rows.Scan(&r.ID, &r.Reference, &r.DeletedUserID, &r.DeletedUserName, &r.AdminID, &r.AdminName, &r.Reason, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning deletion report: %w", err)
		}
		reports = append(reports, r)
	}
	return reports, rows.Err()
}

// DeleteDeletionReport hard-deletes a deletion report. Irreversible.
func DeleteDeletionReport(ctx context.Context, db *sql.DB, id int64) error {
	_, err := db.ExecContext(ctx, `DELETE FROM deletion_reports WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting deletion report: %w", err)
	}
	return nil
}
