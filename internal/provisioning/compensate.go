package provisioning

import (
	"context"
	"fmt"
	"log/slog"

	"comercia/internal/docstore"
	"comercia/internal/models"
	"comercia/internal/repositories"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Artifacts is the set of records a saga attempt may have created. The
// projector records each row id before issuing its insert, so an ambiguous
// write outcome still gets compensated; the compensator deletes whatever is
// present, in reverse creation order, and deleting a row that was never
// written is a no-op. The identity record is never part of the set.
type Artifacts struct {
	SagaID         uuid.UUID
	CompanyDocID   primitive.ObjectID
	StoreDocID     primitive.ObjectID
	CompanyRowID   *uuid.UUID
	MembershipID   *uuid.UUID
	SubscriptionID *uuid.UUID
	StoreRowID     *uuid.UUID
}

// Compensator undoes the partial work of a failed saga. Deletes are
// best-effort: a failed delete is logged, recorded as a reconciliation task
// for the background sweep, and never surfaced to the caller beyond the
// returned error marking the saga FAILED_PARTIAL.
type Compensator interface {
	Compensate(ctx context.Context, artifacts *Artifacts) error
}

type compensationCoordinator struct {
	stores        repositories.StoreRepository
	subscriptions repositories.SubscriptionRepository
	memberships   repositories.MembershipRepository
	companies     repositories.CompanyRepository
	docs          docstore.CompanyStore
	recon         repositories.ReconciliationRepository
	log           *slog.Logger
}

func NewCompensationCoordinator(
	stores repositories.StoreRepository,
	subscriptions repositories.SubscriptionRepository,
	memberships repositories.MembershipRepository,
	companies repositories.CompanyRepository,
	docs docstore.CompanyStore,
	recon repositories.ReconciliationRepository,
	log *slog.Logger,
) Compensator {
	return &compensationCoordinator{
		stores:        stores,
		subscriptions: subscriptions,
		memberships:   memberships,
		companies:     companies,
		docs:          docs,
		recon:         recon,
		log:           log,
	}
}

func (c *compensationCoordinator) Compensate(ctx context.Context, a *Artifacts) error {
	failed := 0

	// Strict reverse creation order: relational store -> subscription ->
	// membership -> company row -> store document -> company document.
	if a.StoreRowID != nil {
		if err := c.stores.Delete(ctx, *a.StoreRowID); err != nil {
			failed++
			c.record(ctx, a.SagaID, models.ArtifactStoreRow, a.StoreRowID.String(), models.StoreRelational, err)
		}
	}
	if a.SubscriptionID != nil {
		if err := c.subscriptions.Delete(ctx, *a.SubscriptionID); err != nil {
			failed++
			c.record(ctx, a.SagaID, models.ArtifactSubscriptionRow, a.SubscriptionID.String(), models.StoreRelational, err)
		}
	}
	if a.MembershipID != nil {
		if err := c.memberships.Delete(ctx, *a.MembershipID); err != nil {
			failed++
			c.record(ctx, a.SagaID, models.ArtifactMembershipRow, a.MembershipID.String(), models.StoreRelational, err)
		}
	}
	if a.CompanyRowID != nil {
		if err := c.companies.Delete(ctx, *a.CompanyRowID); err != nil {
			failed++
			c.record(ctx, a.SagaID, models.ArtifactCompanyRow, a.CompanyRowID.String(), models.StoreRelational, err)
		}
	}
	if !a.StoreDocID.IsZero() {
		if err := c.docs.DeleteStore(ctx, a.StoreDocID); err != nil {
			failed++
			c.record(ctx, a.SagaID, models.ArtifactStoreDoc, a.StoreDocID.Hex(), models.StoreDocument, err)
		}
	}
	if !a.CompanyDocID.IsZero() {
		if err := c.docs.DeleteCompany(ctx, a.CompanyDocID); err != nil {
			failed++
			c.record(ctx, a.SagaID, models.ArtifactCompanyDoc, a.CompanyDocID.Hex(), models.StoreDocument, err)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d compensating deletes failed", failed)
	}
	return nil
}

// record logs the failed delete with enough detail for manual reconciliation
// and queues it for the background sweep. Queueing is itself best-effort.
func (c *compensationCoordinator) record(ctx context.Context, sagaID uuid.UUID, artifact, artifactID, store string, cause error) {
	c.log.Error("compensating delete failed",
		"saga_id", sagaID.String(),
		"artifact", artifact,
		"artifact_id", artifactID,
		"store", store,
		"error", cause)

	msg := cause.Error()
	task := &models.ReconciliationTask{
		ID:         uuid.New(),
		SagaID:     sagaID,
		Artifact:   artifact,
		ArtifactID: artifactID,
		Store:      store,
		Attempts:   1,
		LastError:  &msg,
	}
	if err := c.recon.Create(ctx, task); err != nil {
		c.log.Error("recording reconciliation task failed",
			"saga_id", sagaID.String(),
			"artifact", artifact,
			"artifact_id", artifactID,
			"error", err)
	}
}
