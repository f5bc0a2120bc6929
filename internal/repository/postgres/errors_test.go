package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestPgErrorClassification(t *testing.T) {
	duplicate := &pgconn.PgError{Code: "23505", ConstraintName: constraintInvitationCode}
	foreignKey := &pgconn.PgError{Code: "23503", ConstraintName: "files_folder_id_fkey"}

	tests := []struct {
		name           string
		err            error
		wantDuplicate  bool
		wantForeignKey bool
		wantNoRows     bool
		wantConstraint string
	}{
		{
			name:           "unique violation",
			err:            duplicate,
			wantDuplicate:  true,
			wantConstraint: constraintInvitationCode,
		},
		{
			name:           "wrapped unique violation",
			err:            fmt.Errorf("create organization: %w", duplicate),
			wantDuplicate:  true,
			wantConstraint: constraintInvitationCode,
		},
		{
			name:           "foreign key violation",
			err:            foreignKey,
			wantForeignKey: true,
			wantConstraint: "files_folder_id_fkey",
		},
		{
			name:       "no rows",
			err:        fmt.Errorf("get folder: %w", pgx.ErrNoRows),
			wantNoRows: true,
		},
		{
			name: "plain error",
			err:  errors.New("connection reset"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantDuplicate, IsPgDuplicateError(tt.err))
			assert.Equal(t, tt.wantForeignKey, IsPgForeignKeyError(tt.err))
			assert.Equal(t, tt.wantNoRows, IsPgNoRowsError(tt.err))
			assert.Equal(t, tt.wantConstraint, PgConstraintName(tt.err))
		})
	}
}
