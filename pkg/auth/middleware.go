package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	pkgerrors "github.com/narwhalmedia/catalog/pkg/errors"
)

// ContextKey is a type for context keys
type ContextKey string

// ContextKeyClaims is the context key for validated JWT claims
const ContextKeyClaims ContextKey = "claims"

const ginClaimsKey = "auth.claims"

// Authorizer decides whether any of roles may perform action on resource.
type Authorizer interface {
	CheckPermissions(roles []string, resource, action string) bool
}

// WithClaims stores claims on ctx.
func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, ContextKeyClaims, claims)
}

// ClaimsFromContext returns the claims stored by the auth middleware.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(ContextKeyClaims).(*Claims)
	return claims, ok
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" value.
func BearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// ActionForMethod maps safe HTTP methods to read and everything else to write.
func ActionForMethod(method string) string {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return ActionRead
	default:
		return ActionWrite
	}
}

// GinAuthenticate validates the bearer token and stores its claims on the
// request context. Failures are reported through c.Error for the error
// middleware to render.
func GinAuthenticate(validator *TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := BearerToken(c.GetHeader("Authorization"))
		if !ok {
			_ = c.Error(pkgerrors.Unauthorized("missing bearer token"))
			c.Abort()
			return
		}

		claims, err := validator.Validate(token)
		if err != nil {
			_ = c.Error(pkgerrors.Unauthorized("invalid token"))
			c.Abort()
			return
		}

		c.Set(ginClaimsKey, claims)
		c.Request = c.Request.WithContext(WithClaims(c.Request.Context(), claims))
		c.Next()
	}
}

// GinAuthorize requires the authenticated subject to hold a role allowed
// to act on resource. The action is derived from the HTTP method.
func GinAuthorize(authorizer Authorizer, resource string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := ClaimsFromContext(c.Request.Context())
		if !ok {
			_ = c.Error(pkgerrors.Unauthorized("unauthenticated"))
			c.Abort()
			return
		}

		action := ActionForMethod(c.Request.Method)
		if !authorizer.CheckPermissions(claims.Roles(), resource, action) {
			_ = c.Error(pkgerrors.Forbidden("permission denied: " + resource + ":" + action))
			c.Abort()
			return
		}
		c.Next()
	}
}

// UnaryAuthInterceptor authenticates every gRPC call except publicMethods
// and requires read access to resource.
func UnaryAuthInterceptor(validator *TokenValidator, authorizer Authorizer, resource string, publicMethods ...string) grpc.UnaryServerInterceptor {
	public := make(map[string]bool, len(publicMethods))
	for _, m := range publicMethods {
		public[m] = true
	}

	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if public[info.FullMethod] {
			return handler(ctx, req)
		}

		md, ok := metadata.FromIncomingContext(ctx)
		if !ok {
			return nil, status.Error(codes.Unauthenticated, "missing metadata")
		}
		values := md.Get("authorization")
		if len(values) == 0 {
			return nil, status.Error(codes.Unauthenticated, "missing authorization header")
		}
		token, ok := BearerToken(values[0])
		if !ok {
			return nil, status.Error(codes.Unauthenticated, "invalid authorization header format")
		}

		claims, err := validator.Validate(token)
		if err != nil {
			return nil, status.Error(codes.Unauthenticated, "invalid token")
		}
		if !authorizer.CheckPermissions(claims.Roles(), resource, ActionRead) {
			return nil, status.Error(codes.PermissionDenied, "permission denied")
		}

		return handler(WithClaims(ctx, claims), req)
	}
}
