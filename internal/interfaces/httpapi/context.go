package httpapi

import (
	"context"

	"github.com/riskibarqy/nil-marketplace/internal/domain/user"
	"go.opentelemetry.io/otel/attribute"
)

type principalKey struct{}

func withPrincipal(ctx context.Context, p user.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func principalFromContext(ctx context.Context) (user.Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(user.Principal)
	return p, ok
}

// principalAttributes tags handler spans with the caller; email is never recorded.
func principalAttributes(ctx context.Context) []attribute.KeyValue {
	p, ok := principalFromContext(ctx)
	if !ok {
		return nil
	}
	return []attribute.KeyValue{
		attribute.String("enduser.id", p.UserID),
		attribute.String("enduser.role", string(p.Role)),
	}
}
