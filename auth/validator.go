package auth

// Built-in validate_user implementations. Each returns a plain predicate
// assignable to the hooks registry; none has side effects.

// NewTokenValidator accepts any token carrying a valid HS256 signature by
// the shared secret. The serverID is deliberately ignored: one secret
// covers every passworded server in this scheme.
func NewTokenValidator(secret []byte) func(token string, user UserInfo, serverID string) bool {
	return func(token string, _ UserInfo, _ string) bool {
		_, err := VerifyToken(secret, token)
		return err == nil
	}
}

// NewPasswordValidator treats the presented token as a plain password and
// compares it against a stored Argon2id hash. This is the built-in scheme
// for passworded servers when no OAuth2 validator is registered.
func NewPasswordValidator(encodedHash string) func(token string, user UserInfo, serverID string) bool {
	return func(token string, _ UserInfo, _ string) bool {
		ok, err := ComparePassword(token, encodedHash)
		return err == nil && ok
	}
}
