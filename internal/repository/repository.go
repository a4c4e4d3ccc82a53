package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/stanstork/gpl-website-api/internal/models"
)

const (
	defaultListLimit = 25
	maxListLimit     = 100
)

// uniqueViolation is the postgres SQLSTATE for a unique constraint failure.
const uniqueViolation = "23505"

// IsUniqueViolation reports whether err came from a unique constraint.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == uniqueViolation
	}
	return false
}

// IsNotFound reports whether err means the requested row does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}

func nullableString(s *string) interface{} {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return trimmed
}

// textArg passes a trimmed edit through unchanged, including "". A nil
// pointer means the column is left alone.
func textArg(s *string) interface{} {
	if s == nil {
		return nil
	}
	return strings.TrimSpace(*s)
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}

// submissionFilter builds the WHERE clause shared by the admin submission listings.
func submissionFilter(opts models.SubmissionListOptions, typeColumn string) (string, []interface{}) {
	var (
		conditions []string
		args       []interface{}
	)
	if opts.Status != "" {
		args = append(args, string(opts.Status))
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if typeColumn != "" && opts.Type != "" {
		args = append(args, opts.Type)
		conditions = append(conditions, fmt.Sprintf("%s = $%d", typeColumn, len(args)))
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	args = append(args, clampLimit(opts.Limit), maxInt(opts.Offset, 0))
	where += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	return where, args
}

func countByStatus(ctx context.Context, db *sql.DB, table string) (models.StatusCounts, error) {
	rows, err := db.QueryContext(ctx, "SELECT status, COUNT(*) FROM "+table+" GROUP BY status")
	if err != nil {
		return nil, errors.Wrapf(err, "count %s by status", table)
	}
	defer rows.Close()

	counts := make(models.StatusCounts)
	for _, status := range models.SubmissionStatuses() {
		counts[status] = 0
	}
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, errors.Wrapf(err, "scan %s status count", table)
		}
		counts[models.SubmissionStatus(status)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrapf(err, "iterate %s status counts", table)
	}
	return counts, nil
}

func deleteByID(ctx context.Context, db *sql.DB, table, id string) error {
	result, err := db.ExecContext(ctx, "DELETE FROM "+table+" WHERE id = $1", id)
	if err != nil {
		return errors.Wrapf(err, "delete from %s", table)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return errors.Wrapf(err, "delete from %s", table)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
