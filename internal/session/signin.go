package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopdesk/shopdesk/pkg/domain"
)

// ErrNoToken is returned when a login response carries no token.
var ErrNoToken = errors.New("login response carried no token")

// SignIn stores the token from a login response and, when the response
// embeds a profile, the profile too.
func (s *Store) SignIn(ctx context.Context, resp *domain.LoginResponse) error {
	tok := resp.AuthToken()
	if tok == "" {
		return fmt.Errorf("session.SignIn: %w", ErrNoToken)
	}
	if err := s.SetToken(ctx, tok); err != nil {
		return fmt.Errorf("session.SignIn: %w", err)
	}
	if p := resp.Profile(); p != nil {
		s.SetUser(p)
	}
	return nil
}
