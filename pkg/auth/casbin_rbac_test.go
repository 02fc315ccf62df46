package auth_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/narwhalmedia/catalog/pkg/auth"
	"github.com/narwhalmedia/catalog/pkg/logger"
)

type CasbinRBACTestSuite struct {
	suite.Suite
	rbac *auth.CasbinRBAC
}

func (suite *CasbinRBACTestSuite) SetupTest() {
	var err error
	suite.rbac, err = auth.NewCatalogRBAC("", logger.NewNoop())
	suite.Require().NoError(err)
}

func (suite *CasbinRBACTestSuite) TestCheckPermission() {
	suite.True(suite.rbac.CheckPermission(auth.DefaultRequiredRole, auth.ResourceCatalog, auth.ActionRead))
	suite.True(suite.rbac.CheckPermission(auth.DefaultRequiredRole, auth.ResourceCatalog, auth.ActionWrite))
	suite.False(suite.rbac.CheckPermission("viewer", auth.ResourceCatalog, auth.ActionRead))
	suite.False(suite.rbac.CheckPermission(auth.DefaultRequiredRole, "billing", auth.ActionRead))
}

func (suite *CasbinRBACTestSuite) TestCheckPermissions() {
	suite.True(suite.rbac.CheckPermissions([]string{"offline_access", auth.DefaultRequiredRole}, auth.ResourceCatalog, auth.ActionWrite))
	suite.False(suite.rbac.CheckPermissions([]string{"offline_access"}, auth.ResourceCatalog, auth.ActionWrite))
	suite.False(suite.rbac.CheckPermissions(nil, auth.ResourceCatalog, auth.ActionRead))
}

func (suite *CasbinRBACTestSuite) TestGroupingPolicy() {
	policy := "p, admin-catalog, catalog, read\ng, alice, admin-catalog"
	rbac, err := auth.NewCasbinRBACFromString(auth.DefaultModel, policy, logger.NewNoop())
	suite.Require().NoError(err)

	suite.True(rbac.CheckPermission("alice", auth.ResourceCatalog, auth.ActionRead))
	suite.False(rbac.CheckPermission("bob", auth.ResourceCatalog, auth.ActionRead))
}

func (suite *CasbinRBACTestSuite) TestMalformedPolicy() {
	_, err := auth.NewCasbinRBACFromString(auth.DefaultModel, "p, only-two", logger.NewNoop())
	suite.Error(err)
}

func TestCasbinRBACTestSuite(t *testing.T) {
	suite.Run(t, new(CasbinRBACTestSuite))
}
