package services

import (
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
)

const (
	// PasswordCost is the bcrypt work factor for every stored hash.
	PasswordCost = 10
	// TokenDuration is how long an issued session token stays valid.
	TokenDuration = time.Hour
)

// CredentialService hashes passwords and issues and verifies signed session tokens.
type CredentialService struct {
	jwtSecret []byte
	now       func() time.Time
}

// NewCredentialService creates a CredentialService signing with jwtSecret.
func NewCredentialService(jwtSecret string) *CredentialService {
	return NewCredentialServiceWithClock(jwtSecret, time.Now)
}

// NewCredentialServiceWithClock creates a CredentialService that reads the time from now.
func NewCredentialServiceWithClock(jwtSecret string, now func() time.Time) *CredentialService {
	return &CredentialService{
		jwtSecret: []byte(jwtSecret),
		now:       now,
	}
}

// HashPassword returns the salted bcrypt hash of password.
func (s *CredentialService) HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// VerifyPassword reports whether password matches the stored hash.
func (s *CredentialService) VerifyPassword(password, passwordHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password)) == nil
}

// IssueToken signs an HS256 token for subject, expiring TokenDuration from now.
func (s *CredentialService) IssueToken(subject string) (string, error) {
	issuedAt := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.StandardClaims{
		Subject:   subject,
		IssuedAt:  issuedAt.Unix(),
		ExpiresAt: issuedAt.Add(TokenDuration).Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// VerifyToken checks the signature and expiry of tokenString and returns its subject.
// Expiry is checked against the service clock rather than the library's.
func (s *CredentialService) VerifyToken(tokenString string) (string, error) {
	parser := &jwt.Parser{
		ValidMethods:         []string{jwt.SigningMethodHS256.Alg()},
		SkipClaimsValidation: true,
	}

	var claims jwt.StandardClaims
	_, err := parser.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	if claims.Subject == "" || claims.ExpiresAt == 0 {
		return "", fmt.Errorf("%w: missing subject or expiry", ErrTokenInvalid)
	}
	if s.now().Unix() > claims.ExpiresAt {
		return "", fmt.Errorf("%w at %v", ErrTokenExpired, time.Unix(claims.ExpiresAt, 0).UTC())
	}
	return claims.Subject, nil
}
