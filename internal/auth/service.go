package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cooscarhuerta/CRMGrapHQL/internal/domain"
	"github.com/cooscarhuerta/CRMGrapHQL/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	// TokenTTL bounds the lifetime of issued session tokens.
	TokenTTL = 24 * time.Hour

	bcryptCost = 10
)

// Identity is the authenticated salesperson bound to a request. A nil
// *Identity means anonymous; operations that need one reject it
// themselves.
type Identity struct {
	ID      int64  `json:"id,string"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Surname string `json:"surname"`
}

// Claims is the JWT payload carried by session tokens.
type Claims struct {
	ID      int64  `json:"id,string"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Surname string `json:"surname"`
	jwt.RegisteredClaims
}

// RegisterInput carries the registration profile.
type RegisterInput struct {
	Email    string `json:"email" mapstructure:"email"`
	Password string `json:"password" mapstructure:"password"`
	Name     string `json:"name" mapstructure:"name"`
	Surname  string `json:"surname" mapstructure:"surname"`
}

// Service issues and validates session tokens against the user store.
type Service struct {
	users  repository.UserRepository
	secret []byte
	newID  func() int64
}

func NewService(users repository.UserRepository, secret []byte, newID func() int64) *Service {
	return &Service{users: users, secret: secret, newID: newID}
}

// Register creates a salesperson account. Duplicate email fails with
// domain.ErrConflict and leaves the existing account untouched.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	if _, err := s.users.GetByEmail(ctx, input.Email); err == nil {
		return nil, fmt.Errorf("%w: user %s", domain.ErrConflict, input.Email)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("%w: hash password: %v", domain.ErrInternal, err)
	}

	user := &domain.User{
		ID:        s.newID(),
		Email:     input.Email,
		Name:      input.Name,
		Surname:   input.Surname,
		Password:  string(hash),
		CreatedAt: time.Now(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	zap.L().Info("registered user", zap.String("email", user.Email))
	return user, nil
}

// Authenticate verifies credentials and returns a signed 24h token.
// Unknown email fails with NotFound, wrong password with Unauthorized.
func (s *Service) Authenticate(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return "", fmt.Errorf("%w: wrong password", domain.ErrUnauthorized)
	}
	return s.issueToken(user)
}

func (s *Service) issueToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := Claims{
		ID:      user.ID,
		Email:   user.Email,
		Name:    user.Name,
		Surname: user.Surname,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("%w: sign token: %v", domain.ErrInternal, err)
	}
	return token, nil
}

// Verify checks signature and expiry statelessly. Any failure yields a
// nil Identity rather than an error; anonymous access is legal and
// each operation decides for itself whether it is acceptable.
func (s *Service) Verify(tokenString string) *Identity {
	if tokenString == "" {
		return nil
	}
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil
	}
	return &Identity{
		ID:      claims.ID,
		Email:   claims.Email,
		Name:    claims.Name,
		Surname: claims.Surname,
	}
}

// Secret exposes the signing key to the web layer's token middleware.
func (s *Service) Secret() []byte {
	return s.secret
}

type identityKey struct{}

// WithIdentity binds the identity to the request context.
func WithIdentity(ctx context.Context, ident *Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, ident)
}

// IdentityFrom returns the identity bound to ctx, or nil for anonymous.
func IdentityFrom(ctx context.Context) *Identity {
	ident, _ := ctx.Value(identityKey{}).(*Identity)
	return ident
}
