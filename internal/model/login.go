package model

// LoginFailure enumerates the user-facing reasons a login can fail.
type LoginFailure int

const (
	// LoginFailureNone means the login succeeded.
	LoginFailureNone LoginFailure = iota
	// LoginInvalidCredentials means no user matched email and password.
	LoginInvalidCredentials
	// LoginAccountDisabled means the credentials matched a suspended account.
	LoginAccountDisabled
)

// Message returns the fixed text shown to the user.
func (f LoginFailure) Message() string {
	switch f {
	case LoginInvalidCredentials:
		return "Credenziali non valide."
	case LoginAccountDisabled:
		return "Il tuo account è disattivato. Contatta l'amministratore."
	default:
		return ""
	}
}

// Code returns a stable machine-readable code.
func (f LoginFailure) Code() string {
	switch f {
	case LoginInvalidCredentials:
		return "INVALID_CREDENTIALS"
	case LoginAccountDisabled:
		return "ACCOUNT_DISABLED"
	default:
		return ""
	}
}

// LoginResult is either a logged-in user or a failure reason, never both.
type LoginResult struct {
	User    *User
	Failure LoginFailure
}

// LoginOK builds a successful result.
func LoginOK(u *User) LoginResult {
	return LoginResult{User: u}
}

// LoginFailed builds a failed result.
func LoginFailed(f LoginFailure) LoginResult {
	return LoginResult{Failure: f}
}

// OK reports whether the login succeeded.
func (r LoginResult) OK() bool {
	return r.User != nil && r.Failure == LoginFailureNone
}
