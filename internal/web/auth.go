package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Sternrassler/medshield-admin/pkg/client"
	"github.com/Sternrassler/medshield-admin/pkg/procview"
)

// TokenCookie carries the bearer token for browsers.
const TokenCookie = "access_token"

// tokenFrom returns the bearer token of the Authorization header, else
// the access_token cookie.
func tokenFrom(r *http.Request) string {
	if token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	if c, err := r.Cookie(TokenCookie); err == nil {
		return c.Value
	}
	return ""
}

// session resolves the caller through /me. The returned context carries
// the token for subsequent API calls. Authentication is resolved before
// rendering, so the session is never loading. A rejected or missing token
// yields an empty session; any other /me failure is returned as an error
// wrapping procview.ErrFetchFailed.
func (s *Server) session(r *http.Request) (procview.Session, context.Context, error) {
	token := tokenFrom(r)
	if token == "" {
		return procview.Session{}, r.Context(), nil
	}

	ctx := client.WithToken(r.Context(), token)
	meCtx, cancel := context.WithTimeout(ctx, s.config.RequestTimeout)
	defer cancel()

	user, err := s.api.Me(meCtx)
	switch {
	case errors.Is(err, client.ErrUnauthorized):
		s.logger.Debug().Msg("Token rejected by /me")
		return procview.Session{}, ctx, nil
	case err != nil:
		s.logger.Error().Err(err).Msg("Failed to resolve current user")
		return procview.Session{}, ctx, fmt.Errorf("%w: resolve user: %w", procview.ErrFetchFailed, err)
	case user.Disabled:
		return procview.Session{}, ctx, nil
	}
	return procview.Session{User: user.Username}, ctx, nil
}
