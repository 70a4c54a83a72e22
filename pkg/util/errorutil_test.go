package util

import (
	"errors"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainError(t *testing.T) {
	t.Run("domain errors pass through", func(t *testing.T) {
		err := NewForbidden("no")
		de := ToDomainError(err)
		assert.Equal(t, CodeForbidden, de.Code)
		assert.Equal(t, http.StatusForbidden, de.HTTPStatus)
	})

	t.Run("pgx no rows maps to not found", func(t *testing.T) {
		de := ToDomainError(pgx.ErrNoRows)
		assert.Equal(t, CodeNotFound, de.Code)
	})

	t.Run("unique violation maps to conflict", func(t *testing.T) {
		de := ToDomainError(&pgconn.PgError{Code: "23505", ConstraintName: "customers_phone_number_key"})
		assert.Equal(t, CodeConflict, de.Code)
		assert.Equal(t, "customers_phone_number_key", de.Details["constraint"])
	})

	t.Run("unknown errors become internal", func(t *testing.T) {
		de := ToDomainError(errors.New("boom"))
		assert.Equal(t, CodeInternal, de.Code)
		assert.Equal(t, http.StatusInternalServerError, de.HTTPStatus)
	})
}

func TestMapErrorNil(t *testing.T) {
	require.NoError(t, MapError(nil))
}

func TestDomainErrorUnwrap(t *testing.T) {
	cause := errors.New("cause")
	err := NewInternalError(cause)
	assert.ErrorIs(t, err, cause)
}
