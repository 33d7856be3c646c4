package repositories

import (
	"context"
	"errors"
	"testing"

	"comercia/internal/models"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type MembershipRepoTestSuite struct {
	suite.Suite
	mock    pgxmock.PgxPoolIface
	repo    MembershipRepository
	context context.Context
}

func (suite *MembershipRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock
	suite.repo = NewMembershipRepo(mock)
	suite.context = context.Background()
}

func (suite *MembershipRepoTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestMembershipRepoTestSuite(t *testing.T) {
	suite.Run(t, new(MembershipRepoTestSuite))
}

func (suite *MembershipRepoTestSuite) TestCreate_AdminDefault() {
	membership := &models.Membership{
		ID:        uuid.New(),
		UserID:    uuid.New(),
		CompanyID: uuid.New(),
		Role:      models.MembershipRoleAdmin,
		IsDefault: true,
	}

	suite.mock.ExpectExec(`
			INSERT INTO memberships \(id, user_id, company_id, role, is_default, created_at, updated_at\)
			VALUES \(\$1, \$2, \$3, \$4, \$5, NOW\(\), NOW\(\)\)
		`).WithArgs(membership.ID, membership.UserID, membership.CompanyID, membership.Role, membership.IsDefault).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := suite.repo.Create(suite.context, membership)
	assert.NoError(suite.T(), err)
}

func (suite *MembershipRepoTestSuite) TestCreate_DatabaseError() {
	membership := &models.Membership{
		ID:        uuid.New(),
		UserID:    uuid.New(),
		CompanyID: uuid.New(),
		Role:      models.MembershipRoleAdmin,
		IsDefault: true,
	}

	suite.mock.ExpectExec(`INSERT INTO memberships`).
		WithArgs(membership.ID, membership.UserID, membership.CompanyID, membership.Role, membership.IsDefault).
		WillReturnError(errors.New("insert failed"))

	err := suite.repo.Create(suite.context, membership)
	assert.Error(suite.T(), err)
}

func (suite *MembershipRepoTestSuite) TestClearOtherDefaults_ExcludesNewCompany() {
	userID := uuid.New()
	companyID := uuid.New()

	suite.mock.ExpectExec(`
			UPDATE memberships
			SET is_default = FALSE, updated_at = NOW\(\)
			WHERE user_id = \$1 AND company_id <> \$2 AND is_default = TRUE
		`).WithArgs(userID, companyID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 2))

	err := suite.repo.ClearOtherDefaults(suite.context, userID, companyID)
	assert.NoError(suite.T(), err)
}

func (suite *MembershipRepoTestSuite) TestClearOtherDefaults_NoOtherMemberships() {
	userID := uuid.New()
	companyID := uuid.New()

	suite.mock.ExpectExec(`UPDATE memberships`).
		WithArgs(userID, companyID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := suite.repo.ClearOtherDefaults(suite.context, userID, companyID)
	assert.NoError(suite.T(), err)
}

func (suite *MembershipRepoTestSuite) TestDelete_Success() {
	id := uuid.New()

	suite.mock.ExpectExec(`DELETE FROM memberships WHERE id = \$1`).
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err := suite.repo.Delete(suite.context, id)
	assert.NoError(suite.T(), err)
}
