package auth

const (
	// DefaultRequiredRole is the realm role that grants access to the catalog.
	DefaultRequiredRole = "admin-catalog"

	ResourceCatalog = "catalog"

	ActionRead  = "read"
	ActionWrite = "write"

	// RBAC constants.
	MinimumPolicyParts  = 3
	RequiredPolicyParts = 4
)

// DefaultModel is a plain RBAC model: subjects inherit roles through g.
const DefaultModel = `[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act`
