package provisioning

import (
	"errors"
	"net/http"
	"testing"

	"comercia/internal/apperr"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestRedirectPath_Deterministic(t *testing.T) {
	first := RedirectPath("Acme SAS")
	second := RedirectPath("Acme SAS")
	assert.Equal(t, first, second)
	assert.Equal(t, "/inventory/Acme%20SAS", first)
}

func TestRedirectPath_EscapesSpecialCharacters(t *testing.T) {
	// Path-segment escaping: non-ASCII and spaces are percent-encoded, a
	// slash cannot smuggle in an extra segment, and sub-delims like & stay
	// literal because they are valid inside a segment.
	assert.Equal(t, "/inventory/Caf%C3%A9%20&%20T%C3%A9", RedirectPath("Café & Té"))
	assert.Equal(t, "/inventory/a%2Fb", RedirectPath("a/b"))
}

func TestMapRelationalError_UniqueViolationOnNIT(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "companies_nit_key"}

	err := mapRelationalError("company row insert", pgErr)
	assert.Equal(t, apperr.KindConflict, apperr.GetKind(err))

	status, resp := MapError(err)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Len(t, resp.Errors, 1)
	assert.Equal(t, "nit", resp.Errors[0].Field)
}

func TestMapRelationalError_UniqueViolationOther(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "companies_name_key"}

	err := mapRelationalError("company row insert", pgErr)
	status, resp := MapError(err)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "general", resp.Errors[0].Field)
}

func TestMapRelationalError_InsufficientPrivilege(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "42501"}

	err := mapRelationalError("membership insert", pgErr)
	assert.Equal(t, apperr.KindPermission, apperr.GetKind(err))

	status, resp := MapError(err)
	assert.Equal(t, http.StatusInternalServerError, status)
	// Permission details never leak to the caller.
	assert.Equal(t, "the operation is not permitted", resp.Errors[0].Message)
}

func TestMapRelationalError_Unclassified(t *testing.T) {
	err := mapRelationalError("store projection insert", errors.New("broken pipe"))
	assert.Equal(t, apperr.KindInfrastructure, apperr.GetKind(err))

	status, _ := MapError(err)
	assert.Equal(t, http.StatusInternalServerError, status)
}

func TestMapError_ValidationFields(t *testing.T) {
	err := apperr.Validation("validation failed",
		apperr.FieldError{Field: "nit", Message: "nit must match the format 900123456-7"},
		apperr.FieldError{Field: "email", Message: "email must be a valid email address"},
	)

	status, resp := MapError(err)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Len(t, resp.Errors, 2)
	assert.Equal(t, "nit", resp.Errors[0].Field)
}

func TestMapError_InfrastructureIncludesCause(t *testing.T) {
	err := apperr.Infrastructure("company row insert failed", errors.New("broken pipe"))

	status, resp := MapError(err)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "general", resp.Errors[0].Field)
	assert.Equal(t, "company row insert failed: broken pipe", resp.Errors[0].Message)
}

func TestMapError_ForeignError(t *testing.T) {
	status, resp := MapError(errors.New("something unexpected"))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "general", resp.Errors[0].Field)
	assert.Equal(t, "something unexpected", resp.Errors[0].Message)
}
