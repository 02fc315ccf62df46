package auth

import (
	"fmt"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"

	"github.com/narwhalmedia/catalog/pkg/interfaces"
)

// CasbinRBAC provides Casbin-based role-based access control. The policy
// is fixed at construction.
type CasbinRBAC struct {
	enforcer *casbin.Enforcer
	logger   interfaces.Logger
}

// NewCasbinRBACFromString creates an enforcer from a model and CSV policy
// lines ("p, role, resource, action" or "g, subject, role").
func NewCasbinRBACFromString(modelText, policyText string, logger interfaces.Logger) (*CasbinRBAC, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, fmt.Errorf("failed to load model: %w", err)
	}

	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("failed to create enforcer: %w", err)
	}

	r := &CasbinRBAC{enforcer: enforcer, logger: logger}
	for _, line := range strings.Split(policyText, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Split(line, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}

		switch {
		case parts[0] == "p" && len(parts) >= RequiredPolicyParts:
			if _, err := enforcer.AddPolicy(parts[1], parts[2], parts[3]); err != nil {
				return nil, fmt.Errorf("failed to add policy %q: %w", line, err)
			}
		case parts[0] == "g" && len(parts) >= MinimumPolicyParts:
			if _, err := enforcer.AddGroupingPolicy(parts[1], parts[2]); err != nil {
				return nil, fmt.Errorf("failed to add grouping policy %q: %w", line, err)
			}
		default:
			return nil, fmt.Errorf("malformed policy line %q", line)
		}
	}
	return r, nil
}

// NewCatalogRBAC grants requiredRole read and write access to the catalog.
func NewCatalogRBAC(requiredRole string, logger interfaces.Logger) (*CasbinRBAC, error) {
	if requiredRole == "" {
		requiredRole = DefaultRequiredRole
	}
	policy := fmt.Sprintf("p, %[1]s, %[2]s, %[3]s\np, %[1]s, %[2]s, %[4]s",
		requiredRole, ResourceCatalog, ActionRead, ActionWrite)
	return NewCasbinRBACFromString(DefaultModel, policy, logger)
}

// CheckPermission checks if a role has permission to perform an action on a resource
func (r *CasbinRBAC) CheckPermission(role, resource, action string) bool {
	allowed, err := r.enforcer.Enforce(role, resource, action)
	if err != nil {
		r.logger.Error("Failed to check permission",
			interfaces.Error(err),
			interfaces.String("role", role),
			interfaces.String("resource", resource),
			interfaces.String("action", action))
		return false
	}
	return allowed
}

// CheckPermissions checks if any of the roles have permission to perform an action on a resource
func (r *CasbinRBAC) CheckPermissions(roles []string, resource, action string) bool {
	for _, role := range roles {
		if r.CheckPermission(role, resource, action) {
			return true
		}
	}
	return false
}
