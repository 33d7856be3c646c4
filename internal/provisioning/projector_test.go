package provisioning

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"comercia/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RelationalProjectorTestSuite struct {
	suite.Suite
	companies     *MockCompanyRepository
	memberships   *MockMembershipRepository
	subscriptions *MockSubscriptionRepository
	stores        *MockStoreRepository
	projector     Projector
}

func (suite *RelationalProjectorTestSuite) SetupTest() {
	suite.companies = &MockCompanyRepository{}
	suite.memberships = &MockMembershipRepository{}
	suite.subscriptions = &MockSubscriptionRepository{}
	suite.stores = &MockStoreRepository{}
	suite.companies.Test(suite.T())
	suite.memberships.Test(suite.T())
	suite.subscriptions.Test(suite.T())
	suite.stores.Test(suite.T())

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	suite.projector = NewRelationalProjector(suite.companies, suite.memberships, suite.subscriptions, suite.stores, logger)
}

func (suite *RelationalProjectorTestSuite) TearDownTest() {
	suite.companies.AssertExpectations(suite.T())
	suite.memberships.AssertExpectations(suite.T())
	suite.subscriptions.AssertExpectations(suite.T())
	suite.stores.AssertExpectations(suite.T())
}

func TestRelationalProjectorTestSuite(t *testing.T) {
	suite.Run(t, new(RelationalProjectorTestSuite))
}

func projectionInput() *ProjectionInput {
	return &ProjectionInput{
		Request:      validRequest(),
		UserID:       uuid.New(),
		CompanyID:    uuid.New(),
		SecurityCode: "code-1",
		DocIDs: &DocumentIDs{
			CompanyDocID: primitive.NewObjectID(),
			StoreDocID:   primitive.NewObjectID(),
		},
	}
}

func (suite *RelationalProjectorTestSuite) TestProject_Success() {
	ctx := context.Background()
	in := projectionInput()
	artifacts := &Artifacts{SagaID: uuid.New()}

	suite.companies.On("Create", mock.Anything, mock.AnythingOfType("*models.Company")).Return(nil).Run(func(args mock.Arguments) {
		company := args.Get(1).(*models.Company)
		assert.Equal(suite.T(), in.CompanyID, company.ID)
		assert.Equal(suite.T(), in.DocIDs.CompanyDocID.Hex(), company.DocumentID)
		assert.Equal(suite.T(), "active", company.Status)
	})
	suite.memberships.On("Create", mock.Anything, mock.AnythingOfType("*models.Membership")).Return(nil).Run(func(args mock.Arguments) {
		membership := args.Get(1).(*models.Membership)
		assert.Equal(suite.T(), models.MembershipRoleAdmin, membership.Role)
		assert.True(suite.T(), membership.IsDefault)
	})
	suite.memberships.On("ClearOtherDefaults", mock.Anything, in.UserID, in.CompanyID).Return(nil)
	suite.subscriptions.On("Create", mock.Anything, mock.AnythingOfType("*models.Subscription")).Return(nil).Run(func(args mock.Arguments) {
		subscription := args.Get(1).(*models.Subscription)
		assert.Equal(suite.T(), models.DefaultPlanName, subscription.PlanName)
	})
	suite.stores.On("Create", mock.Anything, mock.AnythingOfType("*models.Store")).Return(nil).Run(func(args mock.Arguments) {
		store := args.Get(1).(*models.Store)
		assert.Equal(suite.T(), in.DocIDs.StoreDocID.Hex(), store.DocumentID)
		assert.Equal(suite.T(), in.Request.CompanyName, store.Name)
	})

	err := suite.projector.Project(ctx, in, artifacts)
	assert.NoError(suite.T(), err)
	assert.NotNil(suite.T(), artifacts.CompanyRowID)
	assert.NotNil(suite.T(), artifacts.MembershipID)
	assert.NotNil(suite.T(), artifacts.SubscriptionID)
	assert.NotNil(suite.T(), artifacts.StoreRowID)
}

func (suite *RelationalProjectorTestSuite) TestProject_MembershipFailureStopsProjection() {
	ctx := context.Background()
	in := projectionInput()
	artifacts := &Artifacts{SagaID: uuid.New()}

	suite.companies.On("Create", mock.Anything, mock.Anything).Return(nil)
	suite.memberships.On("Create", mock.Anything, mock.Anything).Return(errors.New("membership insert failed"))

	err := suite.projector.Project(ctx, in, artifacts)
	assert.Error(suite.T(), err)
	assert.NotNil(suite.T(), artifacts.CompanyRowID)
	// The membership id is recorded even though the insert reported failure:
	// the report may be wrong, and deleting an absent row is a no-op.
	assert.NotNil(suite.T(), artifacts.MembershipID)
	assert.Nil(suite.T(), artifacts.SubscriptionID)
	assert.Nil(suite.T(), artifacts.StoreRowID)
	suite.subscriptions.AssertNotCalled(suite.T(), "Create")
	suite.stores.AssertNotCalled(suite.T(), "Create")
}

func (suite *RelationalProjectorTestSuite) TestProject_ClearOtherDefaultsFailureIsNonFatal() {
	ctx := context.Background()
	in := projectionInput()
	artifacts := &Artifacts{SagaID: uuid.New()}

	suite.companies.On("Create", mock.Anything, mock.Anything).Return(nil)
	suite.memberships.On("Create", mock.Anything, mock.Anything).Return(nil)
	suite.memberships.On("ClearOtherDefaults", mock.Anything, in.UserID, in.CompanyID).Return(errors.New("lock timeout"))
	suite.subscriptions.On("Create", mock.Anything, mock.Anything).Return(nil)
	suite.stores.On("Create", mock.Anything, mock.Anything).Return(nil)

	err := suite.projector.Project(ctx, in, artifacts)
	assert.NoError(suite.T(), err)
}

func (suite *RelationalProjectorTestSuite) TestProject_PartialConcurrentFailureKeepsBothCompensatable() {
	// Subscription insert fails while the store insert succeeds. The error
	// propagates and both concurrent ids are in the artifact set, so the
	// compensator removes the succeeded store row and no-ops on the
	// subscription.
	ctx := context.Background()
	in := projectionInput()
	artifacts := &Artifacts{SagaID: uuid.New()}

	suite.companies.On("Create", mock.Anything, mock.Anything).Return(nil)
	suite.memberships.On("Create", mock.Anything, mock.Anything).Return(nil)
	suite.memberships.On("ClearOtherDefaults", mock.Anything, in.UserID, in.CompanyID).Return(nil)
	suite.subscriptions.On("Create", mock.Anything, mock.Anything).Return(errors.New("subscription insert failed"))
	suite.stores.On("Create", mock.Anything, mock.Anything).Return(nil)

	err := suite.projector.Project(ctx, in, artifacts)
	assert.Error(suite.T(), err)
	assert.NotNil(suite.T(), artifacts.SubscriptionID)
	assert.NotNil(suite.T(), artifacts.StoreRowID)
	assert.NotNil(suite.T(), artifacts.CompanyRowID)
	assert.NotNil(suite.T(), artifacts.MembershipID)
}

func (suite *RelationalProjectorTestSuite) TestProject_AmbiguousInsertOutcomeStaysCompensatable() {
	// The subscription insert times out after the server may already have
	// applied it. The id must be in the artifact set regardless, so the
	// compensator deletes the possibly-committed row.
	ctx := context.Background()
	in := projectionInput()
	artifacts := &Artifacts{SagaID: uuid.New()}

	suite.companies.On("Create", mock.Anything, mock.Anything).Return(nil)
	suite.memberships.On("Create", mock.Anything, mock.Anything).Return(nil)
	suite.memberships.On("ClearOtherDefaults", mock.Anything, in.UserID, in.CompanyID).Return(nil)
	suite.subscriptions.On("Create", mock.Anything, mock.Anything).Return(context.DeadlineExceeded)
	suite.stores.On("Create", mock.Anything, mock.Anything).Return(nil)

	err := suite.projector.Project(ctx, in, artifacts)
	assert.Error(suite.T(), err)
	assert.NotNil(suite.T(), artifacts.SubscriptionID)
	assert.NotNil(suite.T(), artifacts.StoreRowID)
}
