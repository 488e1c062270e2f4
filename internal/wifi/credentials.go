package wifi

// Credentials is an SSID and passphrase pair.
type Credentials struct {
	SSID   string
	Secret string
}

// CredentialSource identifies which configured pair was chosen.
type CredentialSource int

const (
	SourceNone CredentialSource = iota
	SourceUser
	SourceDefault
)

// String returns a human-readable name for the source
func (s CredentialSource) String() string {
	switch s {
	case SourceUser:
		return "user"
	case SourceDefault:
		return "default"
	default:
		return "none"
	}
}

// ConfigProvider exposes the two candidate credential pairs.
// Implementations are read-only from the negotiator's point of view.
type ConfigProvider interface {
	// UserCredentials returns the pair configured by the user (may be empty)
	UserCredentials() Credentials
	// DefaultCredentials returns the built-in default pair (may be empty)
	DefaultCredentials() Credentials
}

// SelectCredentials picks the user pair if its SSID is set, otherwise the
// default pair if its SSID is set. ok is false when neither is available.
// The other pair is never tried as a second attempt.
func SelectCredentials(p ConfigProvider) (creds Credentials, source CredentialSource, ok bool) {
	if p == nil {
		return Credentials{}, SourceNone, false
	}
	if user := p.UserCredentials(); user.SSID != "" {
		return user, SourceUser, true
	}
	if def := p.DefaultCredentials(); def.SSID != "" {
		return def, SourceDefault, true
	}
	return Credentials{}, SourceNone, false
}

// StaticCredentials is a ConfigProvider backed by two fixed pairs.
type StaticCredentials struct {
	User    Credentials
	Default Credentials
}

// UserCredentials implements ConfigProvider
func (s StaticCredentials) UserCredentials() Credentials { return s.User }

// DefaultCredentials implements ConfigProvider
func (s StaticCredentials) DefaultCredentials() Credentials { return s.Default }
