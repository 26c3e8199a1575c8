package auth

import (
	"errors"

	"github.com/danielaviles128-glitch/avarjoyas-api/pkg"
)

var (
	ErrMissingCredentials = errors.New("missing credentials")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotConfigured      = errors.New("admin credentials not configured")
	ErrMissingToken       = errors.New("missing auth token")
	ErrInvalidToken       = errors.New("invalid auth token")
)

// Admin is the single privileged identity, supplied via configuration at
// startup; immutable for the process lifetime.
type Admin struct {
	Username     string
	PasswordHash string
}

type Service struct {
	admin *Admin
	codec *Codec
}

func NewService(admin *Admin, codec *Codec) *Service {
	return &Service{
		admin: admin,
		codec: codec,
	}
}

// Login checks the given credentials against the configured admin and issues
// a session token on success. The password hash check runs regardless of
// whether the username matches, and both failure modes return the very same
// ErrInvalidCredentials (no signal about which of the two was wrong).
func (s *Service) Login(username, password string) (string, error) {
	if username == "" || password == "" {
		return "", ErrMissingCredentials
	}

	if s.admin == nil || s.admin.Username == "" || s.admin.PasswordHash == "" {
		return "", ErrNotConfigured
	}

	passwordOK := pkg.CheckPasswordHash(password, s.admin.PasswordHash)
	if !passwordOK || username != s.admin.Username {
		return "", ErrInvalidCredentials
	}

	return s.codec.Issue(username)
}
