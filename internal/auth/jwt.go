// Package auth issues and verifies the two bearer tokens of a session and
// hashes account passwords.
//
// SESSION MODEL:
//   - access token: short-lived (default 1h), carries the account id and a
//     few profile claims, verified on every authenticated request.
//   - refresh token: long-lived (default 10 days), carries only the account
//     id. The current refresh token is also stored on the account document;
//     the service layer rejects any refresh token that is not byte-equal to
//     the stored one, which is what makes rotation and logout work.
//
// Both are HS256 JWTs signed with different secrets, so a refresh token can
// never be replayed as an access token (and vice versa). The audience claim
// names the kind as a second guard.
//
//	HEADER.PAYLOAD.SIGNATURE
//	payload (access):  {"sub":"<id>","aud":["access"],"username":...,"exp":...}
//	payload (refresh): {"sub":"<id>","aud":["refresh"],"jti":"<xid>","exp":...}
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/xid"

	"github.com/sakif/videotube/internal/config"
)

const issuer = "videotube"

const (
	audienceAccess  = "access"
	audienceRefresh = "refresh"
)

// ErrTokenExpired is returned (wrapped) when a token was valid but its exp
// claim has passed.
var ErrTokenExpired = errors.New("auth: token expired")

// Identity is what an access token says about its bearer.
type Identity struct {
	UserID   string
	Username string
	Email    string
	FullName string
}

type accessClaims struct {
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	FullName string `json:"fullName,omitempty"`
	jwt.RegisteredClaims
}

type refreshClaims struct {
	jwt.RegisteredClaims
}

// TokenService signs and verifies access and refresh tokens.
type TokenService struct {
	accessSecret  []byte
	accessTTL     time.Duration
	refreshSecret []byte
	refreshTTL    time.Duration

	// now is swappable so tests can mint already-expired tokens.
	now func() time.Time
}

// NewTokenService builds a TokenService from the token section of the
// config. Secrets shorter than 16 characters are rejected.
func NewTokenService(cfg config.TokenConfig) (*TokenService, error) {
	if len(cfg.AccessSecret) < 16 || len(cfg.RefreshSecret) < 16 {
		return nil, errors.New("auth: JWT secrets must be at least 16 characters")
	}
	if cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0 {
		return nil, errors.New("auth: token lifetimes must be positive")
	}
	return &TokenService{
		accessSecret:  []byte(cfg.AccessSecret),
		accessTTL:     cfg.AccessTTL,
		refreshSecret: []byte(cfg.RefreshSecret),
		refreshTTL:    cfg.RefreshTTL,
		now:           time.Now,
	}, nil
}

// AccessTTL is the lifetime of access tokens, used for cookie MaxAge.
func (s *TokenService) AccessTTL() time.Duration { return s.accessTTL }

// RefreshTTL is the lifetime of refresh tokens, used for cookie MaxAge.
func (s *TokenService) RefreshTTL() time.Duration { return s.refreshTTL }

// IssueAccess signs a new access token for the given identity.
func (s *TokenService) IssueAccess(id Identity) (string, error) {
	if id.UserID == "" {
		return "", errors.New("auth: access token needs a subject")
	}
	now := s.now()
	c := accessClaims{
		Username: id.Username,
		Email:    id.Email,
		FullName: id.FullName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID,
			Audience:  jwt.ClaimStrings{audienceAccess},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
			Issuer:    issuer,
		},
	}
	return sign(c, s.accessSecret)
}

// IssueRefresh signs a new refresh token for the given account id. Each
// token carries a fresh jti, so two tokens issued within the same second
// are still different strings.
func (s *TokenService) IssueRefresh(userID string) (string, error) {
	if userID == "" {
		return "", errors.New("auth: refresh token needs a subject")
	}
	now := s.now()
	c := refreshClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        xid.New().String(),
			Subject:   userID,
			Audience:  jwt.ClaimStrings{audienceRefresh},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.refreshTTL)),
			Issuer:    issuer,
		},
	}
	return sign(c, s.refreshSecret)
}

// ValidateAccess verifies an access token and returns its identity.
func (s *TokenService) ValidateAccess(tokenStr string) (Identity, error) {
	c := &accessClaims{}
	if err := s.parse(tokenStr, c, s.accessSecret, audienceAccess); err != nil {
		return Identity{}, err
	}
	return Identity{
		UserID:   c.Subject,
		Username: c.Username,
		Email:    c.Email,
		FullName: c.FullName,
	}, nil
}

// ValidateRefresh verifies a refresh token's signature and expiry and
// returns the account id. It does NOT check the token against the stored
// one; that is the caller's job.
func (s *TokenService) ValidateRefresh(tokenStr string) (string, error) {
	c := &refreshClaims{}
	if err := s.parse(tokenStr, c, s.refreshSecret, audienceRefresh); err != nil {
		return "", err
	}
	return c.Subject, nil
}

func sign(c jwt.Claims, secret []byte) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}
	return signed, nil
}

// parse runs the shared verification: HS256 only, our issuer, the expected
// audience, and a mandatory exp claim.
func (s *TokenService) parse(tokenStr string, c jwt.Claims, secret []byte, audience string) error {
	if tokenStr == "" {
		return errors.New("auth: token is empty")
	}
	token, err := jwt.ParseWithClaims(
		tokenStr,
		c,
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithAudience(audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ErrTokenExpired
		}
		return fmt.Errorf("auth: invalid token: %w", err)
	}
	if !token.Valid {
		return errors.New("auth: invalid token claims")
	}

	sub, err := c.GetSubject()
	if err != nil || sub == "" {
		return errors.New("auth: token has no subject")
	}
	return nil
}
