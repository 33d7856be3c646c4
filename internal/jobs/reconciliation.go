package jobs

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

// ReconciliationSweeper retries the compensating deletes that failed during
// a saga. Tasks whose attempts hit the cap are left in place and flagged for
// manual reconciliation.
type ReconciliationSweeper struct {
	recon         repositories.ReconciliationRepository
	stores        repositories.StoreRepository
	subscriptions repositories.SubscriptionRepository
	memberships   repositories.MembershipRepository
	companies     repositories.CompanyRepository
	docs          docstore.CompanyStore
	log           *slog.Logger

	maxAttempts int
	batchSize   int
}

func NewReconciliationSweeper(
	recon repositories.ReconciliationRepository,
	stores repositories.StoreRepository,
	subscriptions repositories.SubscriptionRepository,
	memberships repositories.MembershipRepository,
	companies repositories.CompanyRepository,
	docs docstore.CompanyStore,
	log *slog.Logger,
	maxAttempts, batchSize int,
) *ReconciliationSweeper {
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	if batchSize <= 0 {
		batchSize = 50
	}
	return &ReconciliationSweeper{
		recon:         recon,
		stores:        stores,
		subscriptions: subscriptions,
		memberships:   memberships,
		companies:     companies,
		docs:          docs,
		log:           log,
		maxAttempts:   maxAttempts,
		batchSize:     batchSize,
	}
}

// Run processes one batch of pending tasks. Called by the scheduler; safe to
// call concurrently only in singleton mode.
func (s *ReconciliationSweeper) Run(ctx context.Context) error {
	tasks, err := s.recon.ListPending(ctx, s.maxAttempts, s.batchSize)
	if err != nil {
		return fmt.Errorf("listing reconciliation tasks: %w", err)
	}

	for _, task := range tasks {
		if err := s.deleteArtifact(ctx, task); err != nil {
			s.log.Warn("reconciliation retry failed",
				"task_id", task.ID.String(),
				"saga_id", task.SagaID.String(),
				"artifact", task.Artifact,
				"artifact_id", task.ArtifactID,
				"attempts", task.Attempts+1,
				"error", err)
			if merr := s.recon.MarkAttempt(ctx, task.ID, err.Error()); merr != nil {
				s.log.Error("marking reconciliation attempt failed", "task_id", task.ID.String(), "error", merr)
			}
			if task.Attempts+1 >= s.maxAttempts {
				// Alert line: operators reconcile these by hand.
				s.log.Error("reconciliation exhausted, manual cleanup required",
					"task_id", task.ID.String(),
					"saga_id", task.SagaID.String(),
					"artifact", task.Artifact,
					"artifact_id", task.ArtifactID,
					"store", task.Store)
			}
			continue
		}

		if derr := s.recon.Delete(ctx, task.ID); derr != nil {
			s.log.Error("removing completed reconciliation task failed", "task_id", task.ID.String(), "error", derr)
			continue
		}
		s.log.Info("orphaned artifact reconciled",
			"saga_id", task.SagaID.String(),
			"artifact", task.Artifact,
			"artifact_id", task.ArtifactID)
	}
	return nil
}

func (s *ReconciliationSweeper) deleteArtifact(ctx context.Context, task *models.ReconciliationTask) error {
	switch task.Artifact {
	case models.ArtifactStoreRow, models.ArtifactSubscriptionRow, models.ArtifactMembershipRow, models.ArtifactCompanyRow:
		id, err := uuid.Parse(task.ArtifactID)
		if err != nil {
			return fmt.Errorf("invalid relational artifact id %q: %w", task.ArtifactID, err)
		}
		switch task.Artifact {
		case models.ArtifactStoreRow:
			return s.stores.Delete(ctx, id)
		case models.ArtifactSubscriptionRow:
			return s.subscriptions.Delete(ctx, id)
		case models.ArtifactMembershipRow:
			return s.memberships.Delete(ctx, id)
		default:
			return s.companies.Delete(ctx, id)
		}
	case models.ArtifactStoreDoc, models.ArtifactCompanyDoc:
		id, err := primitive.ObjectIDFromHex(task.ArtifactID)
		if err != nil {
			return fmt.Errorf("invalid document artifact id %q: %w", task.ArtifactID, err)
		}
		if task.Artifact == models.ArtifactStoreDoc {
			return s.docs.DeleteStore(ctx, id)
		}
		return s.docs.DeleteCompany(ctx, id)
	default:
		return fmt.Errorf("unknown artifact kind %q", task.Artifact)
	}
}
