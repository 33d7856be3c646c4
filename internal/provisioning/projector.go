package provisioning

import (
	"context"
	"log/slog"
	"time"

	"comercia/internal/models"
	"comercia/internal/repositories"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// ProjectionInput is everything the relational projection needs after the
// document-store transaction committed.
type ProjectionInput struct {
	Request      *Request
	UserID       uuid.UUID
	CompanyID    uuid.UUID
	SecurityCode string
	DocIDs       *DocumentIDs
}

// Projector writes the relational side of the tenant: company row,
// membership, then subscription and store projection concurrently. Every row
// id is recorded into the artifact set before its insert is issued: an insert
// whose outcome is ambiguous (timeout or cancellation after the server
// applied it) must still be compensated, and deleting a row that was never
// written is a no-op.
type Projector interface {
	Project(ctx context.Context, in *ProjectionInput, artifacts *Artifacts) error
}

type relationalProjector struct {
	companies     repositories.CompanyRepository
	memberships   repositories.MembershipRepository
	subscriptions repositories.SubscriptionRepository
	stores        repositories.StoreRepository
	log           *slog.Logger
}

func NewRelationalProjector(
	companies repositories.CompanyRepository,
	memberships repositories.MembershipRepository,
	subscriptions repositories.SubscriptionRepository,
	stores repositories.StoreRepository,
	log *slog.Logger,
) Projector {
	return &relationalProjector{
		companies:     companies,
		memberships:   memberships,
		subscriptions: subscriptions,
		stores:        stores,
		log:           log,
	}
}

func (p *relationalProjector) Project(ctx context.Context, in *ProjectionInput, artifacts *Artifacts) error {
	req := in.Request

	company := &models.Company{
		ID:           in.CompanyID,
		DocumentID:   in.DocIDs.CompanyDocID.Hex(),
		Name:         req.CompanyName,
		NIT:          req.NIT,
		Address:      req.CompanyAddress,
		Phone:        req.CompanyPhone,
		Email:        req.CompanyEmail,
		SecurityCode: in.SecurityCode,
		Status:       "active",
	}
	artifacts.CompanyRowID = &company.ID
	if err := p.companies.Create(ctx, company); err != nil {
		return mapRelationalError("company row insert", err)
	}

	membership := &models.Membership{
		ID:        uuid.New(),
		UserID:    in.UserID,
		CompanyID: in.CompanyID,
		Role:      models.MembershipRoleAdmin,
		IsDefault: true,
	}
	artifacts.MembershipID = &membership.ID
	if err := p.memberships.Create(ctx, membership); err != nil {
		return mapRelationalError("membership insert", err)
	}

	// Best-effort: a failure here does not abort the saga.
	if err := p.memberships.ClearOtherDefaults(ctx, in.UserID, in.CompanyID); err != nil {
		p.log.Warn("clearing other default memberships failed",
			"user_id", in.UserID.String(),
			"company_id", in.CompanyID.String(),
			"error", err)
	}

	subscription := &models.Subscription{
		ID:        uuid.New(),
		CompanyID: in.CompanyID,
		PlanName:  models.DefaultPlanName,
		Status:    "active",
		StartDate: time.Now().UTC(),
	}
	storeName := req.StoreName
	if storeName == "" {
		storeName = req.CompanyName
	}
	storeAddress := req.StoreAddress
	if storeAddress == "" {
		storeAddress = req.CompanyAddress
	}
	storeRow := &models.Store{
		ID:         uuid.New(),
		CompanyID:  in.CompanyID,
		DocumentID: in.DocIDs.StoreDocID.Hex(),
		Name:       storeName,
		Address:    storeAddress,
	}

	// The two inserts run concurrently. A partial success must be
	// compensated as a whole, so both ids go into the artifact set up front
	// and a plain group is used: one failing insert must not cancel its
	// in-flight sibling, whose write may commit regardless.
	artifacts.SubscriptionID = &subscription.ID
	artifacts.StoreRowID = &storeRow.ID

	var g errgroup.Group
	g.Go(func() error {
		if err := p.subscriptions.Create(ctx, subscription); err != nil {
			return mapRelationalError("subscription insert", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := p.stores.Create(ctx, storeRow); err != nil {
			return mapRelationalError("store projection insert", err)
		}
		return nil
	})
	return g.Wait()
}
