// Package session persists the backend token pair and derives the current
// user identity from the access token claims. The backend owns token
// validation; claims are parsed unverified purely to know who we are and
// when the token lapses.
package session

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"gopkg.in/yaml.v3"
)

const sessionFileName = "session.yml"

// ErrNoSession is returned by Load when no session file exists.
var ErrNoSession = errors.New("no stored session")

// Session is the persisted login state.
type Session struct {
	AccessToken  string    `yaml:"access_token"`
	RefreshToken string    `yaml:"refresh_token,omitempty"`
	UserID       int64     `yaml:"user_id"`
	UserName     string    `yaml:"user_name,omitempty"`
	ExpiresAt    time.Time `yaml:"expires_at,omitempty"`
}

// Path returns the session file path for a data directory.
func Path(dataDir string) string {
	return filepath.Join(dataDir, sessionFileName)
}

// Load reads the stored session, or ErrNoSession when none exists.
func Load(dataDir string) (*Session, error) {
	raw, err := os.ReadFile(Path(dataDir))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("read session: %w", err)
	}

	var s Session
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("parse session: %w", err)
	}
	if s.AccessToken == "" {
		return nil, ErrNoSession
	}

	return &s, nil
}

// Save writes the session to disk with owner-only permissions.
func Save(dataDir string, s *Session) error {
	raw, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	if err := os.WriteFile(Path(dataDir), raw, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}

	return nil
}

// Clear removes the stored session. Missing files are not an error.
func Clear(dataDir string) error {
	if err := os.Remove(Path(dataDir)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}

// Expired reports whether the access token is past its claimed expiry.
// Tokens without an exp claim never report expired.
func (s *Session) Expired() bool {
	return !s.ExpiresAt.IsZero() && time.Now().After(s.ExpiresAt)
}

// FromTokens builds a session from a freshly issued token pair, deriving
// user identity from the access token claims.
func FromTokens(accessToken, refreshToken string) (*Session, error) {
	userID, name, expiresAt, err := identityFromToken(accessToken)
	if err != nil {
		return nil, err
	}

	return &Session{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		UserID:       userID,
		UserName:     name,
		ExpiresAt:    expiresAt,
	}, nil
}

func identityFromToken(raw string) (int64, string, time.Time, error) {
	parser := jwt.NewParser()

	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(raw, claims); err != nil {
		return 0, "", time.Time{}, fmt.Errorf("parse access token: %w", err)
	}

	userID, err := subjectUserID(claims)
	if err != nil {
		return 0, "", time.Time{}, err
	}

	name, _ := claims["name"].(string)

	var expiresAt time.Time
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		expiresAt = exp.Time
	}

	return userID, name, expiresAt, nil
}

// subjectUserID accepts either a numeric `sub` claim or an explicit
// `userId` claim, whichever the backend issues.
func subjectUserID(claims jwt.MapClaims) (int64, error) {
	if sub, err := claims.GetSubject(); err == nil && sub != "" {
		if id, err := strconv.ParseInt(sub, 10, 64); err == nil {
			return id, nil
		}
	}

	if v, ok := claims["userId"].(float64); ok {
		return int64(v), nil
	}

	return 0, errors.New("access token carries no user id claim")
}
