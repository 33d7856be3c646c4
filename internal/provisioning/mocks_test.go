package provisioning

import (
	"context"
	"time"

	"comercia/internal/docstore"
	"comercia/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Repository mocks shared by the provisioning tests.

type MockCompanyRepository struct {
	mock.Mock
}

func (m *MockCompanyRepository) Create(ctx context.Context, company *models.Company) error {
	args := m.Called(ctx, company)
	return args.Error(0)
}

func (m *MockCompanyRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Company), args.Error(1)
}

func (m *MockCompanyRepository) FindConflicts(ctx context.Context, nit, name string) ([]*models.Company, error) {
	args := m.Called(ctx, nit, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Company), args.Error(1)
}

func (m *MockCompanyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByAuthSubject(ctx context.Context, subject string) (*models.User, error) {
	args := m.Called(ctx, subject)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type MockMembershipRepository struct {
	mock.Mock
}

func (m *MockMembershipRepository) Create(ctx context.Context, membership *models.Membership) error {
	args := m.Called(ctx, membership)
	return args.Error(0)
}

func (m *MockMembershipRepository) ClearOtherDefaults(ctx context.Context, userID, companyID uuid.UUID) error {
	args := m.Called(ctx, userID, companyID)
	return args.Error(0)
}

func (m *MockMembershipRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockSubscriptionRepository struct {
	mock.Mock
}

func (m *MockSubscriptionRepository) Create(ctx context.Context, subscription *models.Subscription) error {
	args := m.Called(ctx, subscription)
	return args.Error(0)
}

func (m *MockSubscriptionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockStoreRepository struct {
	mock.Mock
}

func (m *MockStoreRepository) Create(ctx context.Context, store *models.Store) error {
	args := m.Called(ctx, store)
	return args.Error(0)
}

func (m *MockStoreRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockReconciliationRepository struct {
	mock.Mock
}

func (m *MockReconciliationRepository) Create(ctx context.Context, task *models.ReconciliationTask) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockReconciliationRepository) ListPending(ctx context.Context, maxAttempts, limit int) ([]*models.ReconciliationTask, error) {
	args := m.Called(ctx, maxAttempts, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ReconciliationTask), args.Error(1)
}

func (m *MockReconciliationRepository) MarkAttempt(ctx context.Context, id uuid.UUID, lastError string) error {
	args := m.Called(ctx, id, lastError)
	return args.Error(0)
}

func (m *MockReconciliationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockCompanyStore struct {
	mock.Mock
}

func (m *MockCompanyStore) CreateCompanyWithStore(ctx context.Context, company *docstore.CompanyDocument, store *docstore.StoreDocument) (primitive.ObjectID, primitive.ObjectID, error) {
	args := m.Called(ctx, company, store)
	return args.Get(0).(primitive.ObjectID), args.Get(1).(primitive.ObjectID), args.Error(2)
}

func (m *MockCompanyStore) FindByNIT(ctx context.Context, nit string) (*docstore.CompanyDocument, error) {
	args := m.Called(ctx, nit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*docstore.CompanyDocument), args.Error(1)
}

func (m *MockCompanyStore) DeleteCompany(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCompanyStore) DeleteStore(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCompanyStore) EnsureIndexes(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Saga component mocks used by the service tests.

type MockValidator struct {
	mock.Mock
}

func (m *MockValidator) Validate(ctx context.Context, req *Request) (*ValidationResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ValidationResult), args.Error(1)
}

type MockIdentityResolver struct {
	mock.Mock
}

func (m *MockIdentityResolver) Resolve(ctx context.Context, subject string, req *Request) (uuid.UUID, error) {
	args := m.Called(ctx, subject, req)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

type MockDocumentWriter struct {
	mock.Mock
}

func (m *MockDocumentWriter) CreateDocuments(ctx context.Context, req *Request, companyID uuid.UUID, securityCode string) (*DocumentIDs, error) {
	args := m.Called(ctx, req, companyID, securityCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*DocumentIDs), args.Error(1)
}

type MockProjector struct {
	mock.Mock
}

func (m *MockProjector) Project(ctx context.Context, in *ProjectionInput, artifacts *Artifacts) error {
	args := m.Called(ctx, in, artifacts)
	return args.Error(0)
}

type MockCompensator struct {
	mock.Mock
}

func (m *MockCompensator) Compensate(ctx context.Context, artifacts *Artifacts) error {
	args := m.Called(ctx, artifacts)
	return args.Error(0)
}

type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) ReserveNIT(ctx context.Context, nit string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, nit, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockCacheService) ReleaseNIT(ctx context.Context, nit string) error {
	args := m.Called(ctx, nit)
	return args.Error(0)
}

func (m *MockCacheService) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
