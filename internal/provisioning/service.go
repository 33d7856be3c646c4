package provisioning

import (
	"context"
	"log/slog"
	"time"

	"comercia/internal/apperr"
	"comercia/internal/caching"
	"comercia/internal/common"

	"github.com/google/uuid"
)

// Saga states, logged as the request progresses.
type SagaState string

const (
	StateValidating        SagaState = "VALIDATING"
	StateResolvingIdentity SagaState = "RESOLVING_IDENTITY"
	StateDocTx             SagaState = "DOC_TX"
	StateProjecting        SagaState = "PROJECTING"
	StateSuccess           SagaState = "SUCCESS"
	StateCompensating      SagaState = "COMPENSATING"
	StateFailed            SagaState = "FAILED"
	StateFailedCompensated SagaState = "FAILED_COMPENSATED"
	StateFailedPartial     SagaState = "FAILED_PARTIAL"
)

// AssetProvisioner creates per-tenant object storage after a successful
// saga. Failures are logged, never fatal.
type AssetProvisioner interface {
	ProvisionTenantBucket(ctx context.Context, companyID uuid.UUID) error
}

// Service runs the whole onboarding saga. Both route adapters
// (/inventory/create and /control_login/create) call this one service.
type Service interface {
	Provision(ctx context.Context, payload map[string]any, authSubject string) (*Result, error)
}

type service struct {
	validator   Validator
	identities  IdentityResolver
	documents   DocumentWriter
	projector   Projector
	compensator Compensator
	cache       caching.CacheService
	assets      AssetProvisioner
	log         *slog.Logger

	stepTimeout    time.Duration
	reservationTTL time.Duration
}

// Options tune the saga's timeouts. Zero values fall back to defaults.
type Options struct {
	StepTimeout    time.Duration
	ReservationTTL time.Duration
}

func NewService(
	validator Validator,
	identities IdentityResolver,
	documents DocumentWriter,
	projector Projector,
	compensator Compensator,
	cache caching.CacheService,
	assets AssetProvisioner,
	log *slog.Logger,
	opts Options,
) Service {
	if opts.StepTimeout <= 0 {
		opts.StepTimeout = 15 * time.Second
	}
	if opts.ReservationTTL <= 0 {
		opts.ReservationTTL = time.Minute
	}
	return &service{
		validator:      validator,
		identities:     identities,
		documents:      documents,
		projector:      projector,
		compensator:    compensator,
		cache:          cache,
		assets:         assets,
		log:            log,
		stepTimeout:    opts.StepTimeout,
		reservationTTL: opts.ReservationTTL,
	}
}

func (s *service) Provision(ctx context.Context, payload map[string]any, authSubject string) (*Result, error) {
	sagaID := uuid.New()
	log := s.log.With("saga_id", sagaID.String())

	req := Normalize(payload)

	log.Info("saga state", "state", StateValidating, "nit", req.NIT)
	result, err := withTimeout(ctx, s.stepTimeout, func(stepCtx context.Context) (*ValidationResult, error) {
		return s.validator.Validate(stepCtx, req)
	})
	if err != nil {
		log.Info("saga state", "state", StateFailed, "step", "validate")
		return nil, err
	}
	if !result.Valid {
		log.Info("saga state", "state", StateFailed, "step", "validate")
		return nil, apperr.Validation("validation failed", result.Errors...)
	}

	// Advisory reservation: narrows the window in which two concurrent
	// requests with the same NIT can both pass validation. The unique
	// indexes in both stores remain the real guard.
	if s.cache != nil {
		reserved, rerr := s.cache.ReserveNIT(ctx, req.NIT, s.reservationTTL)
		if rerr != nil {
			log.Warn("nit reservation unavailable", "error", rerr)
		} else if !reserved {
			log.Info("saga state", "state", StateFailed, "step", "reserve")
			return nil, apperr.Conflict("provisioning already in progress",
				apperr.FieldError{Field: "nit", Message: "a registration for this nit is already in progress"})
		} else {
			defer func() {
				if rerr := s.cache.ReleaseNIT(context.WithoutCancel(ctx), req.NIT); rerr != nil {
					log.Warn("nit reservation release failed", "error", rerr)
				}
			}()
		}
	}

	log.Info("saga state", "state", StateResolvingIdentity)
	userID, err := withTimeout(ctx, s.stepTimeout, func(stepCtx context.Context) (uuid.UUID, error) {
		return s.identities.Resolve(stepCtx, authSubject, req)
	})
	if err != nil {
		log.Info("saga state", "state", StateFailed, "step", "identity")
		return nil, err
	}

	companyID := uuid.New()
	securityCode, err := common.GenerateSecurityCode()
	if err != nil {
		log.Info("saga state", "state", StateFailed, "step", "security_code")
		return nil, apperr.Infrastructure("security code generation failed", err)
	}

	log.Info("saga state", "state", StateDocTx, "company_id", companyID.String())
	docIDs, err := withTimeout(ctx, s.stepTimeout, func(stepCtx context.Context) (*DocumentIDs, error) {
		return s.documents.CreateDocuments(stepCtx, req, companyID, securityCode)
	})
	if err != nil {
		// The transaction aborted: neither document persists, nothing to
		// compensate.
		log.Info("saga state", "state", StateFailed, "step", "doc_tx")
		return nil, err
	}

	artifacts := &Artifacts{
		SagaID:       sagaID,
		CompanyDocID: docIDs.CompanyDocID,
		StoreDocID:   docIDs.StoreDocID,
	}

	log.Info("saga state", "state", StateProjecting,
		"company_doc_id", docIDs.CompanyDocID.Hex(),
		"store_doc_id", docIDs.StoreDocID.Hex())
	in := &ProjectionInput{
		Request:      req,
		UserID:       userID,
		CompanyID:    companyID,
		SecurityCode: securityCode,
		DocIDs:       docIDs,
	}
	_, err = withTimeout(ctx, s.stepTimeout, func(stepCtx context.Context) (struct{}, error) {
		return struct{}{}, s.projector.Project(stepCtx, in, artifacts)
	})
	if err != nil {
		// Everything after the document-store commit must be undone before
		// returning, even if the request context is already done.
		log.Info("saga state", "state", StateCompensating)
		compCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.stepTimeout)
		defer cancel()
		if cerr := s.compensator.Compensate(compCtx, artifacts); cerr != nil {
			log.Error("saga state", "state", StateFailedPartial, "error", cerr)
		} else {
			log.Info("saga state", "state", StateFailedCompensated)
		}
		return nil, err
	}

	if s.assets != nil {
		if aerr := s.assets.ProvisionTenantBucket(ctx, companyID); aerr != nil {
			log.Warn("tenant bucket provisioning failed", "company_id", companyID.String(), "error", aerr)
		}
	}

	log.Info("saga state", "state", StateSuccess,
		"company_id", companyID.String(),
		"user_id", userID.String())
	return buildResult(req.CompanyName, docIDs.StoreDocID), nil
}

// withTimeout bounds one saga step so a stalled store call cannot block the
// request indefinitely.
func withTimeout[T any](ctx context.Context, d time.Duration, fn func(context.Context) (T, error)) (T, error) {
	stepCtx, cancel := context.WithTimeout(ctx, d)
	defer cancel()
	return fn(stepCtx)
}
