// Package revocation tracks logged-out session tokens by their jti until the
// token would have expired on its own.
package revocation

import (
	"context"
	"time"
)

type Repository interface {
	// Revoke marks jti as revoked for ttl. A non-positive ttl is a no-op since
	// the token is already past its expiry.
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}
