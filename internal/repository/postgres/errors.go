package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Constraint names declared in migrations/files
const (
	constraintFolderKey          = "folders_key_active_idx"
	constraintFolderSiblingName  = "folders_parent_name_active_idx"
	constraintFileSiblingName    = "files_folder_name_active_idx"
	constraintInvitationCode     = "organizations_invitation_code_unique"
	constraintMembershipUserOrg  = "organization_users_user_org_unique"
	constraintFavoritePrimaryKey = "favorite_files_pkey"
)

// IsPgDuplicateError checks if error is a unique constraint violation
func IsPgDuplicateError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// 23505 = unique_violation
		return pgErr.Code == "23505"
	}
	return false
}

// IsPgNoRowsError checks if error is a "no rows" error
func IsPgNoRowsError(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// IsPgForeignKeyError checks if error is a foreign key violation
func IsPgForeignKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// 23503 = foreign_key_violation
		return pgErr.Code == "23503"
	}
	return false
}

// PgConstraintName returns the violated constraint, or "" if err is not a
// postgres constraint error
func PgConstraintName(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}
