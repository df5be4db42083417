package postgres

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const maxListLimit = 500

type scanner interface {
	Scan(dest ...interface{}) error
}

func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func nullTimePtr(t *time.Time) interface{} {
	if t == nil || t.IsZero() {
		return nil
	}
	return *t
}

func nullTime(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t
}

// optString maps an unset or empty patch field to NULL so COALESCE keeps the column.
func optString[T ~string](v *T) interface{} {
	if v == nil || *v == "" {
		return nil
	}
	return string(*v)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// validID rejects ids that would make Postgres fail the uuid cast.
func validID(id string) bool {
	_, err := uuid.Parse(strings.TrimSpace(id))
	return err == nil
}

// clampLimit returns nil (LIMIT ALL) when no limit was requested.
func clampLimit(limit int) interface{} {
	if limit <= 0 {
		return nil
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}
