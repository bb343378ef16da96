package middleware

import (
	"context"
	"database/sql"
	"errors"
	"net/http"

	"github.com/AdamBeresnev/arena-bracket/internal/config"
	"github.com/AdamBeresnev/arena-bracket/internal/httputil"
	"github.com/AdamBeresnev/arena-bracket/internal/organizer"
	"github.com/alexedwards/scs/v2"
	"github.com/google/uuid"
	"github.com/markbates/goth"
	"github.com/markbates/goth/providers/discord"
	"github.com/markbates/goth/providers/google"
	"github.com/rs/zerolog"
)

type ContextKey string

const OrganizerIDKey ContextKey = "organizerID"

// SessionOrganizerKey is where the session manager keeps the signed in
// organizer's id.
const SessionOrganizerKey = "organizerID"

type OrganizerLoader interface {
	GetOrganizer(ctx context.Context, id uuid.UUID) (*organizer.Organizer, error)
}

// InitAuth registers the OAuth providers that have credentials configured.
func InitAuth(cfg *config.Config) {
	var providers []goth.Provider
	if cfg.DiscordKey != "" {
		providers = append(providers, discord.New(cfg.DiscordKey, cfg.DiscordSecret, cfg.DiscordCallbackURL,
			discord.ScopeIdentify, discord.ScopeEmail))
	}
	if cfg.GoogleKey != "" {
		providers = append(providers, google.New(cfg.GoogleKey, cfg.GoogleSecret, cfg.GoogleCallbackURL,
			"email", "profile"))
	}
	goth.UseProviders(providers...)
}

// LoadOrganizer puts the session's organizer into the request context when
// it still exists. It never rejects a request. A session pointing at a
// deleted organizer is cleared.
func LoadOrganizer(sessionManager *scs.SessionManager, organizers OrganizerLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			idStr := sessionManager.GetString(r.Context(), SessionOrganizerKey)
			if idStr == "" {
				next.ServeHTTP(w, r)
				return
			}

			id, err := uuid.Parse(idStr)
			if err != nil {
				sessionManager.Remove(r.Context(), SessionOrganizerKey)
				next.ServeHTTP(w, r)
				return
			}

			o, err := organizers.GetOrganizer(r.Context(), id)
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					sessionManager.Remove(r.Context(), SessionOrganizerKey)
				}
				zerolog.Ctx(r.Context()).Warn().Err(err).Str("organizer_id", idStr).Msg("load session organizer")
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), OrganizerIDKey, id)
			ctx = context.WithValue(ctx, organizer.OrganizerKey, o)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects requests without a signed in organizer.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetOrganizerIDFromContext(r.Context()); !ok {
			httputil.Unauthorized(w, r, "Unauthorized", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func GetOrganizerIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(OrganizerIDKey).(uuid.UUID)
	return id, ok
}

func GetAuthenticatedOrganizer(ctx context.Context) *organizer.Organizer {
	o, _ := ctx.Value(organizer.OrganizerKey).(*organizer.Organizer)
	return o
}
