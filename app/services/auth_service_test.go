package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/devrodri-com/mutter-games-dev/app/models"
)

type memAdminRepo struct {
	mu    sync.Mutex
	users map[string]*models.AdminUser
}

func newMemAdminRepo() *memAdminRepo {
	return &memAdminRepo{users: make(map[string]*models.AdminUser)}
}

func (m *memAdminRepo) GetAll(ctx context.Context) ([]models.AdminUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.AdminUser
	for _, u := range m.users {
		out = append(out, *u)
	}
	return out, nil
}

func (m *memAdminRepo) GetByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[email]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, nil
}

func (m *memAdminRepo) Create(ctx context.Context, user *models.AdminUser) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.Email] = user
	return nil
}

func (m *memAdminRepo) Update(ctx context.Context, user *models.AdminUser) error {
	return m.Create(ctx, user)
}

func (m *memAdminRepo) Delete(ctx context.Context, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, email)
	return nil
}

func newTestAuthService(admins *memAdminRepo) *AuthService {
	return NewAuthService([]byte("test-secret"), NewMemoryClaimsStore(), admins)
}

func TestIssueAndVerifyTokenRoundTrip(t *testing.T) {
	svc := newTestAuthService(newMemAdminRepo())

	token, err := svc.IssueToken(Identity{UID: "user-1", Admin: true, Superadmin: true})
	if err != nil {
		t.Fatal(err)
	}
	id, err := svc.VerifyToken(token)
	if err != nil {
		t.Fatal(err)
	}
	if id.UID != "user-1" || !id.Admin || !id.Superadmin {
		t.Fatalf("claims lost in round trip: %+v", id)
	}
}

func TestVerifyTokenRejectsWrongSecret(t *testing.T) {
	issuer := newTestAuthService(newMemAdminRepo())
	verifier := NewAuthService([]byte("other-secret"), NewMemoryClaimsStore(), newMemAdminRepo())

	token, err := issuer.IssueToken(Identity{UID: "user-1"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := verifier.VerifyToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestLoginChecksPasswordAndActivo(t *testing.T) {
	admins := newMemAdminRepo()
	hash, err := HashPassword("correct-horse")
	if err != nil {
		t.Fatal(err)
	}
	admins.Create(context.Background(), &models.AdminUser{
		Email:        "ana@example.com",
		Rol:          models.RoleAdmin,
		Activo:       true,
		PasswordHash: hash,
	})
	admins.Create(context.Background(), &models.AdminUser{
		Email:        "off@example.com",
		Rol:          models.RoleAdmin,
		Activo:       false,
		PasswordHash: hash,
	})
	svc := newTestAuthService(admins)
	ctx := context.Background()

	if _, _, err := svc.Login(ctx, "ana@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for bad password, got %v", err)
	}
	if _, _, err := svc.Login(ctx, "off@example.com", "correct-horse"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for inactive user, got %v", err)
	}
	if _, _, err := svc.Login(ctx, "nobody@example.com", "correct-horse"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}

	token, user, err := svc.Login(ctx, "ana@example.com", "correct-horse")
	if err != nil {
		t.Fatal(err)
	}
	if user.Email != "ana@example.com" {
		t.Fatalf("unexpected user %+v", user)
	}
	id, err := svc.VerifyToken(token)
	if err != nil {
		t.Fatal(err)
	}
	if !id.Admin || id.Superadmin {
		t.Fatalf("expected admin-only claims, got %+v", id)
	}
}

func TestRefreshPicksUpRoleChange(t *testing.T) {
	svc := newTestAuthService(newMemAdminRepo())
	ctx := context.Background()

	token, err := svc.IssueToken(Identity{UID: "ana@example.com", Admin: true})
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.SetCustomClaims(ctx, "ana@example.com", true, true); err != nil {
		t.Fatal(err)
	}

	_, id, err := svc.Refresh(ctx, token)
	if err != nil {
		t.Fatal(err)
	}
	if !id.Superadmin {
		t.Fatal("refresh must fold in the updated claims mirror")
	}
}

func TestRefreshAnonymousSkipsMirror(t *testing.T) {
	svc := newTestAuthService(newMemAdminRepo())

	token, err := svc.IssueToken(Identity{UID: "anon-1", Anonymous: true})
	if err != nil {
		t.Fatal(err)
	}
	_, id, err := svc.Refresh(context.Background(), token)
	if err != nil {
		t.Fatal(err)
	}
	if id.Admin || id.Superadmin || !id.Anonymous {
		t.Fatalf("anonymous refresh must not grant claims: %+v", id)
	}
}

func TestProvisionAnonymousSharesInFlightAttempt(t *testing.T) {
	svc := newTestAuthService(newMemAdminRepo())
	svc.provisionHook = func() { time.Sleep(50 * time.Millisecond) }
	ctx := context.Background()

	const callers = 8
	uids := make(chan string, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, _, err := svc.ProvisionAnonymous(ctx, "session-1")
			if err != nil {
				t.Error(err)
				return
			}
			uids <- id.UID
		}()
	}
	wg.Wait()
	close(uids)

	seen := make(map[string]bool)
	for uid := range uids {
		seen[uid] = true
	}
	if len(seen) != 1 {
		t.Fatalf("concurrent provisioning under one session key must share a uid, got %d distinct", len(seen))
	}

	other, _, err := svc.ProvisionAnonymous(ctx, "session-2")
	if err != nil {
		t.Fatal(err)
	}
	if seen[other.UID] {
		t.Fatal("different session keys must get different identities")
	}
}
