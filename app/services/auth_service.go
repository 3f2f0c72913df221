package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/devrodri-com/mutter-games-dev/app/models"
	"github.com/devrodri-com/mutter-games-dev/app/repositories"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/singleflight"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrProvisionTimeout   = errors.New("anonymous sign-in timed out")
)

// Identity is a resolved bearer credential: the uid plus its role claims.
type Identity struct {
	UID        string `json:"uid"`
	Admin      bool   `json:"admin"`
	Superadmin bool   `json:"superadmin"`
	Anonymous  bool   `json:"anonymous,omitempty"`
}

func (id Identity) Role() string {
	if id.Superadmin {
		return models.RoleSuperadmin
	}
	if id.Admin {
		return models.RoleAdmin
	}
	return ""
}

type tokenClaims struct {
	Admin      bool `json:"admin"`
	Superadmin bool `json:"superadmin"`
	Anonymous  bool `json:"anonymous,omitempty"`
	jwt.RegisteredClaims
}

// AuthService is the identity/claims provider: it issues and verifies bearer
// credentials, provisions anonymous identities and keeps the claims mirror
// in sync with the admin-user records.
type AuthService struct {
	secret        []byte
	tokenTTL      time.Duration
	provisionWait time.Duration
	claims        ClaimsStore
	admins        repositories.AdminUserRepositoryImpl
	group         singleflight.Group

	// provisionHook runs inside the shared provisioning attempt; tests use it
	// to hold the attempt open.
	provisionHook func()
}

func NewAuthService(secret []byte, claims ClaimsStore, admins repositories.AdminUserRepositoryImpl) *AuthService {
	return &AuthService{
		secret:        secret,
		tokenTTL:      time.Hour,
		provisionWait: 10 * time.Second,
		claims:        claims,
		admins:        admins,
	}
}

func (s *AuthService) IssueToken(id Identity) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		Admin:      id.Admin,
		Superadmin: id.Superadmin,
		Anonymous:  id.Anonymous,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (s *AuthService) VerifyToken(raw string) (*Identity, error) {
	var claims tokenClaims
	token, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return &Identity{
		UID:        claims.Subject,
		Admin:      claims.Admin,
		Superadmin: claims.Superadmin,
		Anonymous:  claims.Anonymous,
	}, nil
}

type provisioned struct {
	identity Identity
	token    string
}

// ProvisionAnonymous mints an anonymous identity for a visitor session.
// Concurrent calls under the same session key share a single in-flight
// attempt, and the wait is bounded: past the deadline the call fails instead
// of hanging.
func (s *AuthService) ProvisionAnonymous(ctx context.Context, sessionKey string) (Identity, string, error) {
	ch := s.group.DoChan("anon:"+sessionKey, func() (interface{}, error) {
		if s.provisionHook != nil {
			s.provisionHook()
		}
		id := Identity{UID: "anon-" + uuid.New().String(), Anonymous: true}
		token, err := s.IssueToken(id)
		if err != nil {
			return nil, err
		}
		return provisioned{identity: id, token: token}, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return Identity{}, "", res.Err
		}
		p := res.Val.(provisioned)
		return p.identity, p.token, nil
	case <-time.After(s.provisionWait):
		return Identity{}, "", ErrProvisionTimeout
	case <-ctx.Done():
		return Identity{}, "", ctx.Err()
	}
}

// Refresh reissues a token for a still-valid credential, re-reading the
// claims mirror so role changes made since issuance take effect.
func (s *AuthService) Refresh(ctx context.Context, raw string) (string, *Identity, error) {
	id, err := s.VerifyToken(raw)
	if err != nil {
		return "", nil, err
	}
	if !id.Anonymous {
		admin, superadmin, cerr := s.claims.Get(ctx, id.UID)
		if cerr != nil {
			return "", nil, cerr
		}
		id.Admin = admin
		id.Superadmin = superadmin
	}
	token, err := s.IssueToken(*id)
	if err != nil {
		return "", nil, err
	}
	return token, id, nil
}

// SetCustomClaims updates the claims mirror for uid. Callers changing a role
// must update both the admin-user record and this mirror; skipping either
// leaves authorization inconsistent.
func (s *AuthService) SetCustomClaims(ctx context.Context, uid string, admin, superadmin bool) error {
	return s.claims.Set(ctx, uid, admin, superadmin)
}

func (s *AuthService) RevokeClaims(ctx context.Context, uid string) error {
	return s.claims.Delete(ctx, uid)
}

// Login authenticates an admin user and issues a role-claim token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.AdminUser, error) {
	user, err := s.admins.GetByEmail(ctx, email)
	if err != nil {
		return "", nil, fmt.Errorf("failed to look up admin user: %w", err)
	}
	if user == nil || !user.Activo {
		return "", nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	id := Identity{
		UID:        user.Email,
		Admin:      user.Rol == models.RoleAdmin || user.Rol == models.RoleSuperadmin,
		Superadmin: user.Rol == models.RoleSuperadmin,
	}
	if err := s.claims.Set(ctx, id.UID, id.Admin, id.Superadmin); err != nil {
		return "", nil, err
	}
	token, err := s.IssueToken(id)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
