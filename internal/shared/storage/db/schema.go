package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrSchemaMissing means the analyses table has not been created; run cmd/migrate or set
// DB_AUTO_MIGRATE=true.
var ErrSchemaMissing = errors.New("analyses table is missing")

const schemaQuery = `SELECT to_regclass('public.analyses') IS NOT NULL`

// CheckSchema verifies that the analyses table exists.
func CheckSchema(ctx context.Context, database *sql.DB) error {
	var ok bool
	if err := database.QueryRowContext(ctx, schemaQuery).Scan(&ok); err != nil {
		return fmt.Errorf("check schema: %w", err)
	}
	if !ok {
		return ErrSchemaMissing
	}
	return nil
}
