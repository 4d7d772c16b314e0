package credstore

// DefaultTokenType is the token type label used when the backend does not
// supply one.
const DefaultTokenType = "Bearer"

// Credential is the opaque bearer access token plus its type label. At most
// one credential is resident at a time; there is no concept of multiple
// concurrent sessions in this layer.
type Credential struct {
	Token string `json:"access_token"`
	Type  string `json:"token_type"`
}

// Profile caches denormalized facts about the current user alongside the
// credential, purely to avoid re-fetching the user record on every check. It
// may be stale relative to the backend and is a hint, never a security
// boundary: admission decisions must also hold a currently valid credential,
// and every backend endpoint re-checks privilege server-side.
type Profile struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Admin  bool   `json:"admin"`
}

// Store is persistent keyed state for the current session. Implementations
// must make Set and Clear atomic from a reader's point of view: no reader may
// observe a half-written credential/type pair or a partially cleared store.
// No expiry logic lives here.
type Store interface {
	// Credential returns the stored access credential, if any.
	Credential() (Credential, bool)

	// SetCredential stores the access credential. An empty Type preserves
	// the previously stored type, falling back to DefaultTokenType.
	SetCredential(cred Credential) error

	// Profile returns the cached profile flags, if any.
	Profile() (Profile, bool)

	// SetProfile stores the cached profile flags.
	SetProfile(profile Profile) error

	// Clear removes every key. Absence of a credential afterwards means the
	// user is logically logged out, regardless of any profile contents.
	Clear() error
}
