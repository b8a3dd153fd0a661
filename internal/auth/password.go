package auth

// PASSWORD HASHING:
// Account passwords are stored as bcrypt hashes in the "password" field of
// the users collection. The hash string embeds its own salt and cost:
//
//	$2a$12$<22-char salt><31-char hash>
//
// so verification needs nothing but the stored string and the candidate.

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// defaultCost is the bcrypt work factor used in production.
const defaultCost = 12

// maxPasswordBytes is bcrypt's input limit. Longer inputs are rejected
// instead of being silently truncated.
const maxPasswordBytes = 72

// ErrPasswordMismatch is returned by Verify when the candidate does not
// match the stored hash.
var ErrPasswordMismatch = errors.New("auth: invalid password")

// PasswordService hashes and verifies account passwords.
//
// The cost is a field so tests can use bcrypt.MinCost and stay fast.
type PasswordService struct {
	cost int
}

// NewPasswordService creates a PasswordService with the default cost (12).
func NewPasswordService() *PasswordService {
	return &PasswordService{cost: defaultCost}
}

// NewPasswordServiceForTest creates a PasswordService with a custom cost.
// Other packages' tests pass bcrypt.MinCost (4). Never use it in main.
func NewPasswordServiceForTest(cost int) *PasswordService {
	return &PasswordService{cost: cost}
}

// Hash returns the bcrypt hash of plaintext.
func (p *PasswordService) Hash(plaintext string) (string, error) {
	if len(plaintext) > maxPasswordBytes {
		return "", fmt.Errorf("auth: password must be %d bytes or fewer", maxPasswordBytes)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), p.cost)
	if err != nil {
		return "", fmt.Errorf("auth: hashing password: %w", err)
	}
	return string(hashed), nil
}

// Verify returns nil when plaintext matches hash, ErrPasswordMismatch when
// it does not, and a wrapped error when the hash itself is unusable.
//
// The comparison inside bcrypt is constant-time.
func (p *PasswordService) Verify(hash, plaintext string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrPasswordMismatch
		}
		return fmt.Errorf("auth: comparing password hash: %w", err)
	}
	return nil
}
