package provisioning

import (
	"context"
	"errors"
	"time"

	"comercia/internal/apperr"
	"comercia/internal/models"
	"comercia/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// IdentityResolver maps an external-auth subject id to the internal user id,
// creating the user on first contact. Provisioning never deletes this record.
type IdentityResolver interface {
	Resolve(ctx context.Context, subject string, req *Request) (uuid.UUID, error)
}

type identityResolver struct {
	users repositories.UserRepository
}

func NewIdentityResolver(users repositories.UserRepository) IdentityResolver {
	return &identityResolver{users: users}
}

func (r *identityResolver) Resolve(ctx context.Context, subject string, req *Request) (uuid.UUID, error) {
	if subject == "" {
		return uuid.Nil, apperr.Validation("missing auth subject",
			apperr.FieldError{Field: "general", Message: "authenticated subject is required"})
	}

	existing, err := r.users.GetByAuthSubject(ctx, subject)
	if err == nil {
		return existing.ID, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, apperr.Infrastructure("user lookup failed", err)
	}

	user := &models.User{
		ID:          uuid.New(),
		AuthSubject: subject,
		Email:       req.Email,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Phone:       req.Phone,
	}
	if req.BirthDate != "" {
		if birth, perr := time.Parse("2006-01-02", req.BirthDate); perr == nil {
			user.BirthDate = &birth
		}
	}

	// An insert failure here is fatal: no tenant data exists yet, so the
	// saga aborts with nothing to compensate.
	if err := r.users.Create(ctx, user); err != nil {
		return uuid.Nil, mapRelationalError("user insert", err)
	}
	return user.ID, nil
}
