package forum

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	domainauth "github.com/devhive/devhive-client/internal/domain/auth"
	"github.com/devhive/devhive-client/internal/gateway"
)

// UserProfile is the application-database record for a user, distinct from
// the provider identity.
type UserProfile struct {
	ID        string          `json:"_id"`
	Email     string          `json:"email"`
	Name      string          `json:"name"`
	Image     string          `json:"image"`
	Role      domainauth.Role `json:"role"`
	CreatedAt time.Time       `json:"created_at"`
	LastLogin time.Time       `json:"last_log_in"`
}

// UsersService operates on user profiles and roles.
type UsersService struct {
	gw     *gateway.Gateway
	logger *slog.Logger
}

// RegisterProfile creates the application-database profile for a freshly
// signed-up identity. New users start at the bronze tier.
func (s *UsersService) RegisterProfile(ctx context.Context, identity domainauth.Identity) error {
	now := time.Now().UTC()
	body := map[string]any{
		"email":       identity.Email,
		"name":        identity.DisplayName,
		"image":       identity.AvatarURL,
		"role":        domainauth.RoleBronze,
		"created_at":  now.Format(time.RFC3339),
		"last_log_in": now.Format(time.RFC3339),
	}
	if err := s.gw.PostJSON(ctx, "/users", body, nil); err != nil {
		return fmt.Errorf("register profile: %w", err)
	}
	return nil
}

// TouchLastLogin updates the user's last-login timestamp.
func (s *UsersService) TouchLastLogin(ctx context.Context, email string) error {
	body := map[string]string{
		"email":       email,
		"last_log_in": time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.gw.PatchJSON(ctx, "/users/last-login", body, nil); err != nil {
		return fmt.Errorf("touch last login: %w", err)
	}
	return nil
}

// UserRole fetches the authoritative role for a user. Implements
// ports.RoleReader for the role resolver.
func (s *UsersService) UserRole(ctx context.Context, email string) (domainauth.Role, error) {
	var out struct {
		Role domainauth.Role `json:"role"`
	}
	if err := s.gw.GetJSON(ctx, "/users/"+url.PathEscape(email)+"/role", &out); err != nil {
		return "", fmt.Errorf("fetch user role: %w", err)
	}
	return out.Role, nil
}

// Get returns the profile for a user by email.
func (s *UsersService) Get(ctx context.Context, email string) (*UserProfile, error) {
	var profile UserProfile
	if err := s.gw.GetJSON(ctx, "/users?email="+url.QueryEscape(email), &profile); err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &profile, nil
}

// List returns all user profiles (admin view).
func (s *UsersService) List(ctx context.Context) ([]UserProfile, error) {
	var users []UserProfile
	if err := s.gw.GetJSON(ctx, "/allUsers", &users); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// PromoteRole sets a user's role (admin action). The caller is responsible
// for refreshing the role resolver when promoting the signed-in user.
func (s *UsersService) PromoteRole(ctx context.Context, userID string, role domainauth.Role) error {
	if !role.Valid() {
		return fmt.Errorf("promote role: invalid role %q", role)
	}
	body := map[string]domainauth.Role{"role": role}
	if err := s.gw.PatchJSON(ctx, "/user/role/"+url.PathEscape(userID), body, nil); err != nil {
		return fmt.Errorf("promote role: %w", err)
	}
	return nil
}
