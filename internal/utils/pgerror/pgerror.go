package pgerror

import (
	"errors"
	"fmt"

	"foodgram/domain"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const codeUniqueViolation = "23505"

func IsUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == codeUniqueViolation
}

// Translate maps driver errors onto domain errors. A unique violation becomes
// domain.ErrDuplicate, a missing row domain.ErrNotFound.
func Translate(err error) error {
	switch {
	case err == nil:
		return nil
	case IsUniqueViolation(err):
		return fmt.Errorf("%w: %v", domain.ErrDuplicate, err)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %v", domain.ErrNotFound, err)
	default:
		return err
	}
}
