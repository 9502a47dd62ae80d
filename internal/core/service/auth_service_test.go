package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/laritechfarms/farms-api/internal/core/domain"
)

type stubUserRepo struct {
	users  map[int64]*domain.User
	nextID int64
	logins int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[int64]*domain.User), nextID: 1}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	if u.Tenant != nil {
		tenant := *u.Tenant
		clone.Tenant = &tenant
	}
	return &clone
}

func (r *stubUserRepo) add(t *testing.T, email, password, role string, userActive, tenantActive bool) *domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	u := &domain.User{
		ID:           r.nextID,
		TenantID:     7,
		FirstName:    "Ana",
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		Active:       userActive,
		Tenant:       &domain.Tenant{ID: 7, Name: "Granja Norte", Active: tenantActive},
	}
	r.nextID++
	r.users[u.ID] = u
	return cloneUser(u)
}

func (r *stubUserRepo) FindActiveByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email && u.Active {
			return cloneUser(u), nil
		}
	}
	return nil, domain.NotFound("usuario")
}

func (r *stubUserRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.NotFound("usuario")
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) error {
	for _, u := range r.users {
		if u.Email == user.Email {
			return domain.Duplicate("usuario already exists")
		}
	}
	user.ID = r.nextID
	r.nextID++
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *stubUserRepo) UpdatePassword(_ context.Context, id int64, hash string) error {
	u, ok := r.users[id]
	if !ok {
		return domain.NotFound("usuario")
	}
	u.PasswordHash = hash
	return nil
}

func (r *stubUserRepo) TouchLastLogin(_ context.Context, id int64, at time.Time) error {
	r.logins++
	r.users[id].LastLogin = &at
	return nil
}

func newAuthService(repo *stubUserRepo) *AuthService {
	return NewAuthService(repo, "secret", time.Hour, bcrypt.MinCost, zerolog.Nop())
}

func TestAuthService_Login_Success(t *testing.T) {
	repo := newStubUserRepo()
	user := repo.add(t, "ana@granja.com", "pass123", domain.RoleAdmin, true, true)
	svc := newAuthService(repo)

	session, err := svc.Login(context.Background(), "  ANA@granja.com ", "pass123")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if session.Token == "" {
		t.Fatal("expected a token")
	}
	if session.User.ID != user.ID || session.User.Tenant.Name != "Granja Norte" {
		t.Fatalf("unexpected profile: %+v", session.User)
	}
	if repo.logins != 1 || session.User.LastLogin == nil {
		t.Fatal("expected the login timestamp to be recorded")
	}
	if got := session.ExpiresAt.Sub(time.Now()); got < 59*time.Minute || got > time.Hour {
		t.Fatalf("unexpected expiry in %v", got)
	}

	claims := &tokenClaims{}
	if _, err := jwt.ParseWithClaims(session.Token, claims, func(*jwt.Token) (any, error) { return []byte("secret"), nil }); err != nil {
		t.Fatalf("token does not verify: %v", err)
	}
	if claims.UserID != user.ID || claims.TenantID != 7 || claims.Role != domain.RoleAdmin {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestAuthService_Login_Failures(t *testing.T) {
	repo := newStubUserRepo()
	repo.add(t, "ana@granja.com", "pass123", domain.RoleAdmin, true, true)
	repo.add(t, "off@granja.com", "pass123", domain.RoleAdmin, false, true)
	repo.add(t, "sus@granja.com", "pass123", domain.RoleAdmin, true, false)
	svc := newAuthService(repo)

	cases := []struct {
		email, password string
		want            error
	}{
		{"ana@granja.com", "wrong", domain.ErrInvalidCredentials},
		{"nobody@granja.com", "pass123", domain.ErrInvalidCredentials},
		{"off@granja.com", "pass123", domain.ErrInvalidCredentials},
		{"sus@granja.com", "pass123", domain.ErrTenantSuspended},
	}
	for _, tc := range cases {
		if _, err := svc.Login(context.Background(), tc.email, tc.password); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.email, tc.want, err)
		}
	}
	if repo.logins != 0 {
		t.Fatal("failed logins must not touch the last login timestamp")
	}
}

func TestAuthService_Login_MissingFields(t *testing.T) {
	_, err := newAuthService(newStubUserRepo()).Login(context.Background(), "", "")
	var ve *domain.ValidationError
	if !errors.As(err, &ve) || len(ve.Missing) != 2 {
		t.Fatalf("expected both fields missing, got %v", err)
	}
}

func TestAuthService_Authenticate(t *testing.T) {
	repo := newStubUserRepo()
	repo.add(t, "ana@granja.com", "pass123", domain.RoleSupervisor, true, true)
	svc := newAuthService(repo)

	session, err := svc.Login(context.Background(), "ana@granja.com", "pass123")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	id, err := svc.Authenticate(context.Background(), session.Token)
	if err != nil {
		t.Fatalf("Authenticate returned error: %v", err)
	}
	if id.TenantID != 7 || id.Role != domain.RoleSupervisor || id.Email != "ana@granja.com" {
		t.Fatalf("unexpected identity: %+v", id)
	}
}

func TestAuthService_Authenticate_RevokedByLookup(t *testing.T) {
	repo := newStubUserRepo()
	user := repo.add(t, "ana@granja.com", "pass123", domain.RoleAdmin, true, true)
	svc := newAuthService(repo)
	session, err := svc.Login(context.Background(), "ana@granja.com", "pass123")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	repo.users[user.ID].Tenant.Active = false
	if _, err := svc.Authenticate(context.Background(), session.Token); !errors.Is(err, domain.ErrTenantInactive) {
		t.Fatalf("expected ErrTenantInactive, got %v", err)
	}

	repo.users[user.ID].Active = false
	if _, err := svc.Authenticate(context.Background(), session.Token); !errors.Is(err, domain.ErrUserInactive) {
		t.Fatalf("expected ErrUserInactive, got %v", err)
	}

	delete(repo.users, user.ID)
	if _, err := svc.Authenticate(context.Background(), session.Token); !errors.Is(err, domain.ErrUserInactive) {
		t.Fatalf("expected ErrUserInactive for a deleted user, got %v", err)
	}
}

func TestAuthService_Authenticate_RejectsBadTokens(t *testing.T) {
	repo := newStubUserRepo()
	user := repo.add(t, "ana@granja.com", "pass123", domain.RoleAdmin, true, true)
	svc := newAuthService(repo)
	now := time.Now()

	sign := func(method jwt.SigningMethod, key any, exp time.Time) string {
		claims := tokenClaims{
			UserID:   user.ID,
			TenantID: user.TenantID,
			Role:     user.Role,
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(exp),
			},
		}
		s, err := jwt.NewWithClaims(method, claims).SignedString(key)
		if err != nil {
			t.Fatalf("sign: %v", err)
		}
		return s
	}

	cases := map[string]string{
		"expired":      sign(jwt.SigningMethodHS256, []byte("secret"), now.Add(-time.Minute)),
		"wrong secret": sign(jwt.SigningMethodHS256, []byte("other"), now.Add(time.Hour)),
		"wrong alg":    sign(jwt.SigningMethodHS512, []byte("secret"), now.Add(time.Hour)),
		"garbage":      "not.a.token",
	}
	for name, token := range cases {
		if _, err := svc.Authenticate(context.Background(), token); !errors.Is(err, domain.ErrInvalidToken) {
			t.Fatalf("%s: expected ErrInvalidToken, got %v", name, err)
		}
	}
}

func TestAuthService_ChangePassword(t *testing.T) {
	repo := newStubUserRepo()
	user := repo.add(t, "ana@granja.com", "pass123", domain.RoleAdmin, true, true)
	svc := newAuthService(repo)
	caller := domain.Identity{UserID: user.ID, TenantID: user.TenantID}

	if err := svc.ChangePassword(context.Background(), caller, "wrong", "newpass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	var ve *domain.ValidationError
	if err := svc.ChangePassword(context.Background(), caller, "pass123", "abc"); !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError for a short password, got %v", err)
	}
	if err := svc.ChangePassword(context.Background(), caller, "pass123", "newpass"); err != nil {
		t.Fatalf("ChangePassword returned error: %v", err)
	}
	if _, err := svc.Login(context.Background(), "ana@granja.com", "newpass"); err != nil {
		t.Fatalf("login with the new password failed: %v", err)
	}
}

func TestAuthService_CreateUser(t *testing.T) {
	repo := newStubUserRepo()
	admin := repo.add(t, "ana@granja.com", "pass123", domain.RoleAdmin, true, true)
	svc := newAuthService(repo)
	caller := domain.Identity{UserID: admin.ID, TenantID: 7, Role: domain.RoleAdmin}

	created, err := svc.CreateUser(context.Background(), caller, &domain.User{
		FirstName: "Luis",
		Email:     " Luis@Granja.com ",
		Role:      domain.RoleOperator,
		TenantID:  99,
	}, "secret1")
	if err != nil {
		t.Fatalf("CreateUser returned error: %v", err)
	}
	if created.TenantID != 7 || created.Email != "luis@granja.com" || !created.Active {
		t.Fatalf("unexpected user: %+v", created)
	}
	if bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("secret1")) != nil {
		t.Fatal("password was not hashed")
	}

	_, err = svc.CreateUser(context.Background(), caller, &domain.User{Email: "luis@granja.com", Role: domain.RoleOperator}, "secret1")
	var conflict *domain.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictError for a duplicate email, got %v", err)
	}

	_, err = svc.CreateUser(context.Background(), caller, &domain.User{Email: "x@granja.com", Role: "owner"}, "secret1")
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError for an unknown role, got %v", err)
	}
}
