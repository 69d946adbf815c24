package store

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a looked-up record does not exist.
var ErrNotFound = errors.New("record not found")

const uniqueViolation = "23505"

// ValidationError carries field-level messages keyed by JSON field name.
type ValidationError struct {
	Messages map[string][]string
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Messages))
	for field := range e.Messages {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		for _, msg := range e.Messages[field] {
			parts = append(parts, fmt.Sprintf("%s %s", field, msg))
		}
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// Add appends a message for field.
func (e *ValidationError) Add(field, msg string) {
	if e.Messages == nil {
		e.Messages = make(map[string][]string)
	}
	e.Messages[field] = append(e.Messages[field], msg)
}

func (e *ValidationError) empty() bool {
	return len(e.Messages) == 0
}

func invalid(field, msg string) *ValidationError {
	e := &ValidationError{}
	e.Add(field, msg)
	return e
}

// IsUniqueViolation recognizes unique constraint failures from every driver
// the service can run on.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolation
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == uniqueViolation
	}

	// modernc sqlite errors are not translated by the gorm dialector
	s := err.Error()
	return strings.Contains(s, "UNIQUE constraint failed") ||
		strings.Contains(s, "SQLSTATE "+uniqueViolation)
}
