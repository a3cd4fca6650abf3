package postgres

import (
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

// isUniqueViolation verifica se un errore è una violazione di vincolo unico (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// nullTime converte lo zero value in NULL.
func nullTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

// nullInt converte 0 in NULL (gli id 0 sono il sentinel "assente").
func nullInt(n int64) *int64 {
	if n == 0 {
		return nil
	}
	return &n
}

func derefTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

func derefInt(n *int64) int64 {
	if n == nil {
		return 0
	}
	return *n
}

func joinSet(set []string) string {
	return strings.Join(set, ", ")
}
