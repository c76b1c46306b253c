package postgres

import (
	"database/sql"
	"errors"

	pq "github.com/lib/pq"

	"github.com/julianstephens/tally/internal/storage"
)

const uniqueViolationCode = pq.ErrorCode("23505")

func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return storage.ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolationCode {
		return storage.ErrUniqueViolation
	}
	return err
}
