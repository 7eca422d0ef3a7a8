package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	codeUniqueViolation = "23505"
	codeCheckViolation  = "23514"
)

// IsUniqueViolation проверяет, является ли ошибка нарушением уникальности (SQLSTATE 23505).
func IsUniqueViolation(err error) bool {
	return hasCode(err, codeUniqueViolation)
}

// IsCheckViolation reports a failed CHECK constraint (SQLSTATE 23514).
func IsCheckViolation(err error) bool {
	return hasCode(err, codeCheckViolation)
}

// hasCode безопасно работает с обернутыми ошибками благодаря errors.As.
func hasCode(err error, code string) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.SQLState() == code
	}

	return false
}
