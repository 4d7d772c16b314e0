package token

import (
	"encoding/json"
	"strconv"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// Claims holds the payload fields this client reads from an access credential.
// They are decoded on demand and never persisted. No signature verification is
// performed here - the backend remains the sole authority that verifies the
// signature before trusting the subject ID; these values drive UI and routing
// decisions only.
type Claims struct {
	Sub string // Users unique ID
	Exp int64  // Expiration, epoch seconds. Zero when the claim is absent
}

// DecodeClaims extracts the claims from a compact serialized token without
// verifying its signature. It fails closed: any malformed input (wrong segment
// count, invalid base64, invalid JSON) yields nil, never a panic or an error.
func DecodeClaims(rawToken string) *Claims {
	unverifiedToken, _, err := jwtlib.NewParser().ParseUnverified(rawToken, jwtlib.MapClaims{})
	if err != nil {
		return nil
	}

	mapClaims, ok := unverifiedToken.Claims.(jwtlib.MapClaims)
	if !ok {
		return nil
	}

	claims := &Claims{}

	switch sub := mapClaims["sub"].(type) {
	case string:
		claims.Sub = sub
	case float64:
		claims.Sub = strconv.FormatInt(int64(sub), 10)
	case json.Number:
		claims.Sub = sub.String()
	}

	if exp, ok := epochSeconds(mapClaims["exp"]); ok {
		claims.Exp = exp
	}

	return claims
}

// epochSeconds normalizes an exp claim that may arrive as a JSON number or as
// a numeric string.
func epochSeconds(value any) (int64, bool) {
	switch v := value.(type) {
	case float64:
		return int64(v), true
	case int64:
		return v, true
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		return int64(f), true
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, false
		}
		return int64(f), true
	}
	return 0, false
}
