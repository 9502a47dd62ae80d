package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/laritechfarms/farms-api/internal/core/domain"
	"github.com/laritechfarms/farms-api/internal/core/ports"
)

const minPasswordLength = 6

// tokenClaims is the payload signed into every access token.
type tokenClaims struct {
	UserID   int64  `json:"id_usuario"`
	TenantID int64  `json:"id_tenant"`
	Email    string `json:"email"`
	Role     string `json:"rol"`
	jwt.RegisteredClaims
}

// AuthService issues and verifies access tokens and manages credentials.
type AuthService struct {
	users      ports.UserRepository
	jwtSecret  []byte
	tokenTTL   time.Duration
	bcryptCost int
	log        zerolog.Logger
	now        func() time.Time
}

// NewAuthService signs tokens with jwtSecret (HS256) valid for tokenTTL.
func NewAuthService(users ports.UserRepository, jwtSecret string, tokenTTL time.Duration, bcryptCost int, log zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{
		users:      users,
		jwtSecret:  []byte(jwtSecret),
		tokenTTL:   tokenTTL,
		bcryptCost: bcryptCost,
		log:        log,
		now:        time.Now,
	}
}

// Login checks email and password against an active user and issues a token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, domain.MissingFields(missing(map[string]bool{"email": email == "", "password": password == ""})...)
	}

	user, err := s.users.FindActiveByEmail(ctx, email)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if user.Tenant == nil || !user.Tenant.Active {
		return nil, domain.ErrTenantSuspended
	}

	now := s.now()
	token, expiresAt, err := s.issue(user, now)
	if err != nil {
		return nil, err
	}

	if err := s.users.TouchLastLogin(ctx, user.ID, now); err != nil {
		s.log.Warn().Err(err).Int64("user_id", user.ID).Msg("failed to record last login")
	} else {
		user.LastLogin = &now
	}

	s.log.Info().Int64("user_id", user.ID).Int64("tenant_id", user.TenantID).Msg("login")
	return &domain.Session{Token: token, ExpiresAt: expiresAt, User: domain.ProfileOf(user)}, nil
}

func (s *AuthService) issue(user *domain.User, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(s.tokenTTL)
	claims := tokenClaims{
		UserID:   user.ID,
		TenantID: user.TenantID,
		Email:    user.Email,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Authenticate verifies token and re-resolves its user, so deactivating a
// user or tenant revokes tokens that are still within their expiry.
func (s *AuthService) Authenticate(ctx context.Context, token string) (domain.Identity, error) {
	claims := &tokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil || !parsed.Valid || claims.UserID == 0 {
		return domain.Identity{}, domain.ErrInvalidToken
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if domain.IsNotFound(err) {
			return domain.Identity{}, domain.ErrUserInactive
		}
		return domain.Identity{}, err
	}
	if !user.Active {
		return domain.Identity{}, domain.ErrUserInactive
	}
	if user.Tenant == nil || !user.Tenant.Active {
		return domain.Identity{}, domain.ErrTenantInactive
	}

	return domain.Identity{
		UserID:   user.ID,
		TenantID: user.TenantID,
		Email:    user.Email,
		Role:     user.Role,
	}, nil
}

func (s *AuthService) Profile(ctx context.Context, caller domain.Identity) (*domain.Profile, error) {
	user, err := s.users.FindByID(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}
	p := domain.ProfileOf(user)
	return &p, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, caller domain.Identity, current, next string) error {
	if current == "" || next == "" {
		return domain.MissingFields(missing(map[string]bool{"currentPassword": current == "", "newPassword": next == ""})...)
	}
	if len(next) < minPasswordLength {
		return domain.Invalid("newPassword must be at least %d characters", minPasswordLength)
	}

	user, err := s.users.FindByID(ctx, caller.UserID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)) != nil {
		return domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), s.bcryptCost)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
		return err
	}
	s.log.Info().Int64("user_id", user.ID).Msg("password changed")
	return nil
}

// CreateUser provisions an account inside the caller's tenant.
func (s *AuthService) CreateUser(ctx context.Context, caller domain.Identity, user *domain.User, password string) (*domain.User, error) {
	if len(password) < minPasswordLength {
		return nil, domain.Invalid("password must be at least %d characters", minPasswordLength)
	}
	if !domain.ValidRole(user.Role) {
		return nil, domain.Invalid("invalid rol %q", user.Role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, err
	}
	user.ID = 0
	user.TenantID = caller.TenantID
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	user.PasswordHash = string(hash)
	user.Active = true

	if err := s.users.Create(ctx, user); err != nil {
		var conflict *domain.ConflictError
		if errors.As(err, &conflict) {
			return nil, domain.Duplicate("email %s already registered", user.Email)
		}
		return nil, err
	}
	return user, nil
}

// missing returns the names flagged true, in sorted order.
func missing(fields map[string]bool) []string {
	out := make([]string, 0, len(fields))
	for name, absent := range fields {
		if absent {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}
