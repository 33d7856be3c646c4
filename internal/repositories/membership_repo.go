package repositories

import (
	"context"

	"comercia/internal/models"

	"github.com/google/uuid"
)

type MembershipRepository interface {
	Create(ctx context.Context, membership *models.Membership) error
	// ClearOtherDefaults unsets is_default on every membership of the user
	// except the one for the given company.
	ClearOtherDefaults(ctx context.Context, userID, companyID uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type membershipRepo struct {
	db Database
}

func NewMembershipRepo(db Database) MembershipRepository {
	return &membershipRepo{db: db}
}

func (r *membershipRepo) Create(ctx context.Context, membership *models.Membership) error {
	query := `
		INSERT INTO memberships (id, user_id, company_id, role, is_default, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, membership.ID, membership.UserID, membership.CompanyID, membership.Role, membership.IsDefault)
	return err
}

func (r *membershipRepo) ClearOtherDefaults(ctx context.Context, userID, companyID uuid.UUID) error {
	query := `
		UPDATE memberships
		SET is_default = FALSE, updated_at = NOW()
		WHERE user_id = $1 AND company_id <> $2 AND is_default = TRUE
	`
	_, err := r.db.Exec(ctx, query, userID, companyID)
	return err
}

func (r *membershipRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM memberships WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}
