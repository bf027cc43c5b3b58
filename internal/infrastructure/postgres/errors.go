package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/anycompany/carmarket/pkg/apperror"
)

const (
	msgEmailTaken = "A user with this email address already exists"
	uniqueCode    = "23505"
)

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueCode
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key value") || strings.Contains(msg, "UNIQUE constraint failed")
}

// translate maps gorm and driver errors onto apperror codes.
func translate(err error, notFound, conflict string) error {
	switch {
	case err == nil:
		return nil
	case apperror.As(err) != nil:
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperror.NotFound(notFound)
	case isUniqueViolation(err):
		return apperror.Wrap(apperror.CodeConflict, err, conflict)
	default:
		return apperror.Wrap(apperror.CodeInternal, err, "database error")
	}
}

// affected turns a zero-row update or delete into NOT_FOUND.
func affected(res *gorm.DB, notFound, conflict string) error {
	if res.Error != nil {
		return translate(res.Error, notFound, conflict)
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound(notFound)
	}
	return nil
}
