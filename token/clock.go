package token

import "time"

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// DefaultExpirySkew is the safety margin subtracted from a token's expiry so
// that a token is treated as expired slightly before its real deadline. This
// avoids issuing a request with a credential that dies mid-flight.
const DefaultExpirySkew = 30 * time.Second

// IsExpired reports whether the given access credential should be treated as
// expired. It fails closed: an empty token, undecodable claims, or a missing
// exp claim all count as expired. The boundary is inclusive: a token is
// expired as soon as now >= exp-skew.
func IsExpired(rawToken string, skew time.Duration) bool {
	if rawToken == "" {
		return true
	}

	claims := DecodeClaims(rawToken)
	if claims == nil || claims.Exp == 0 {
		return true
	}

	deadline := claims.Exp - int64(skew/time.Second)
	return NowTimeFunc().Unix() >= deadline
}
