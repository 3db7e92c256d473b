package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestToDomainErrorPassesThroughDomainErrors(t *testing.T) {
	orig := NewValidationError("riskLevel is invalid", nil)

	mapped := ToDomainError(orig)

	assert.Equal(t, "VALIDATION_FAILED", mapped.Code)
	assert.Equal(t, http.StatusBadRequest, mapped.HTTPStatus)
}

func TestToDomainErrorMapsNoRowsToNotFound(t *testing.T) {
	mapped := ToDomainError(fmt.Errorf("query report: %w", pgx.ErrNoRows))

	assert.Equal(t, "NOT_FOUND", mapped.Code)
	assert.Equal(t, http.StatusNotFound, mapped.HTTPStatus)
}

func TestToDomainErrorMapsUniqueViolationToConflict(t *testing.T) {
	pgErr := &pgconn.PgError{
		Code:           "23505",
		ConstraintName: "users_email_key",
	}

	mapped := ToDomainError(fmt.Errorf("insert user: %w", pgErr))

	assert.Equal(t, "CONFLICT", mapped.Code)
	assert.Equal(t, http.StatusBadRequest, mapped.HTTPStatus)
	assert.ErrorIs(t, mapped, pgErr)
}

func TestToDomainErrorKeepsOtherPgErrorsInternal(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23503"}

	mapped := ToDomainError(pgErr)

	assert.Equal(t, "INTERNAL_ERROR", mapped.Code)
	assert.Equal(t, http.StatusInternalServerError, mapped.HTTPStatus)
}

func TestToDomainErrorWrapsUnknownErrors(t *testing.T) {
	mapped := ToDomainError(errors.New("connection reset"))

	assert.Equal(t, "INTERNAL_ERROR", mapped.Code)
	assert.Equal(t, "internal server error", mapped.Message)
}

func TestToDomainErrorNil(t *testing.T) {
	assert.Nil(t, ToDomainError(nil))
}
