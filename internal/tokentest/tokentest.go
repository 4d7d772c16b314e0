// Package tokentest builds compact serialized tokens for tests. The tokens
// carry a fake signature: nothing client-side verifies signatures, so none of
// the consumers care.
package tokentest

import (
	"encoding/base64"
	"fmt"
)

const header = `{"alg":"HS256","typ":"JWT"}`

// Make returns a token whose payload holds the given subject and expiry.
func Make(sub string, exp int64) string {
	return FromPayload(fmt.Sprintf(`{"sub":%q,"exp":%d}`, sub, exp))
}

// FromPayload returns a token around an arbitrary JSON payload.
func FromPayload(payload string) string {
	enc := base64.RawURLEncoding
	return enc.EncodeToString([]byte(header)) + "." + enc.EncodeToString([]byte(payload)) + ".sig"
}
