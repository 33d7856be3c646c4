package provisioning

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"comercia/internal/apperr"

	"github.com/jackc/pgx/v5/pgconn"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Result is the success payload returned to the caller.
type Result struct {
	CompanyName string `json:"companyName"`
	StoreID     string `json:"storeId"`
	RedirectURL string `json:"redirectUrl"`
}

// ErrorResponse is the terminal-failure payload.
type ErrorResponse struct {
	Errors []apperr.FieldError `json:"errors"`
}

// RedirectPath computes the post-onboarding redirect for a company name.
// Deterministic: the same name always yields the same path.
func RedirectPath(companyName string) string {
	return "/inventory/" + url.PathEscape(companyName)
}

func buildResult(companyName string, storeDocID primitive.ObjectID) *Result {
	return &Result{
		CompanyName: companyName,
		StoreID:     storeDocID.Hex(),
		RedirectURL: RedirectPath(companyName),
	}
}

// Postgres error codes the saga distinguishes.
const (
	pgUniqueViolation       = "23505"
	pgInsufficientPrivilege = "42501"
)

// mapRelationalError classifies a relational-store failure. Unique
// violations that slipped past the pre-check become conflicts with a field
// pointing at the offending column; privilege errors become permission
// failures; everything else is infrastructure.
func mapRelationalError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			field := "general"
			if strings.Contains(pgErr.ConstraintName, "nit") {
				field = "nit"
			}
			return apperr.Conflict("duplicate record",
				apperr.FieldError{Field: field, Message: "a record with this value already exists"})
		case pgInsufficientPrivilege:
			return apperr.Permission("the operation is not permitted on the relational store", err)
		}
	}
	return apperr.Infrastructure(op+" failed", err)
}

// MapError converts a terminal saga error into the HTTP status and the
// structured error list the route adapters return.
func MapError(err error) (int, *ErrorResponse) {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		fields := appErr.Fields
		if len(fields) == 0 {
			// Error() includes the wrapped cause when one is present.
			message := appErr.Error()
			if appErr.Kind == apperr.KindPermission {
				message = "the operation is not permitted"
			}
			fields = []apperr.FieldError{{Field: "general", Message: message}}
		}
		return appErr.HTTPStatus(), &ErrorResponse{Errors: fields}
	}
	return http.StatusInternalServerError, &ErrorResponse{
		Errors: []apperr.FieldError{{Field: "general", Message: err.Error()}},
	}
}
