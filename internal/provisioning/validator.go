package provisioning

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"comercia/internal/apperr"
	"comercia/internal/common"
	"comercia/internal/repositories"

	"github.com/go-playground/validator/v10"
)

// ValidationResult carries the valid flag and the ordered field errors.
type ValidationResult struct {
	Valid  bool
	Errors []apperr.FieldError
}

// Validator enforces the request rules: NIT format first, then required
// fields, then the relational duplicate check. Only the duplicate check
// touches a store, and it is a single read.
type Validator interface {
	Validate(ctx context.Context, req *Request) (*ValidationResult, error)
}

type requestValidator struct {
	companies repositories.CompanyRepository
	validate  *validator.Validate
}

func NewRequestValidator(companies repositories.CompanyRepository) Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// Registration only fails for an empty tag name.
	_ = v.RegisterValidation("nit", func(fl validator.FieldLevel) bool {
		return common.IsValidNIT(fl.Field().String())
	})
	return &requestValidator{companies: companies, validate: v}
}

func (rv *requestValidator) Validate(ctx context.Context, req *Request) (*ValidationResult, error) {
	// A malformed NIT rejects immediately, independent of other fields and
	// before any store access.
	if req.NIT != "" && !common.IsValidNIT(req.NIT) {
		return &ValidationResult{
			Valid:  false,
			Errors: []apperr.FieldError{{Field: "nit", Message: "nit must match the format 900123456-7"}},
		}, nil
	}

	if err := rv.validate.Struct(req); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return nil, apperr.Infrastructure("request validation failed", err)
		}
		result := &ValidationResult{Valid: false}
		for _, fe := range verrs {
			result.Errors = append(result.Errors, apperr.FieldError{
				Field:   fe.Field(),
				Message: messageForTag(fe),
			})
		}
		return result, nil
	}

	// One read query; matches become field errors, never an HTTP 5xx.
	matches, err := rv.companies.FindConflicts(ctx, req.NIT, req.CompanyName)
	if err != nil {
		return nil, apperr.Infrastructure("company uniqueness check failed", err)
	}

	result := &ValidationResult{Valid: true}
	for _, match := range matches {
		if match.NIT == req.NIT {
			result.Valid = false
			result.Errors = append(result.Errors, apperr.FieldError{
				Field:   "nit",
				Message: "a company with this nit is already registered",
			})
		}
		if strings.EqualFold(match.Name, req.CompanyName) {
			result.Valid = false
			result.Errors = append(result.Errors, apperr.FieldError{
				Field:   "companyName",
				Message: "a company with this name is already registered",
			})
		}
	}
	return result, nil
}

func messageForTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "datetime":
		return fmt.Sprintf("%s must be in YYYY-MM-DD format", fe.Field())
	case "nit":
		return "nit must match the format 900123456-7"
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
