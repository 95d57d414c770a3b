// Package ownerctx carries the authenticated caller identity through
// request contexts. Owner 0 is the anonymous/system owner used by
// single-tenant deployments.
package ownerctx

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type ctxKey struct{}

// AnonymousOwner is the sentinel owner id for unauthenticated requests
// when anonymous mode is enabled.
const AnonymousOwner = snowflake.ID(0)

// WithOwnerID returns a context carrying the caller's owner id.
func WithOwnerID(ctx context.Context, id snowflake.ID) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// OwnerIDFromContext extracts the caller's owner id. ok is false when no
// identity was attached.
func OwnerIDFromContext(ctx context.Context) (snowflake.ID, bool) {
	id, ok := ctx.Value(ctxKey{}).(snowflake.ID)
	return id, ok
}
