package domain

// Identity is an authenticated principal. Anonymous sessions carry a nil *Identity.
type Identity struct {
	UserID string
	Email  string
}

type IdentityEventKind int

const (
	SignedIn IdentityEventKind = iota + 1
	SignedOut
	TokenRefreshed
	UserUpdated
)

func (k IdentityEventKind) String() string {
	switch k {
	case SignedIn:
		return "SIGNED_IN"
	case SignedOut:
		return "SIGNED_OUT"
	case TokenRefreshed:
		return "TOKEN_REFRESHED"
	case UserUpdated:
		return "USER_UPDATED"
	default:
		return "UNKNOWN"
	}
}

type IdentityEvent struct {
	Kind     IdentityEventKind
	Identity *Identity
}
