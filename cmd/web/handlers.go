package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"

	"github.com/AdamBeresnev/arena-bracket/internal/bracket"
	"github.com/AdamBeresnev/arena-bracket/internal/httputil"
	"github.com/AdamBeresnev/arena-bracket/internal/middleware"
	"github.com/AdamBeresnev/arena-bracket/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/markbates/goth"
	"github.com/markbates/goth/gothic"
	"github.com/rs/zerolog"
)

func (app *application) createTournament(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := middleware.GetOrganizerIDFromContext(r.Context())

	var in service.CreateTournamentInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httputil.BadRequest(w, r, "Invalid request body: "+err.Error(), err)
		return
	}

	t, err := app.tournaments.CreateTournament(r.Context(), ownerID, in)
	if err != nil {
		httputil.Error(w, r, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/tournaments/%s", t.ID))
	httputil.JSON(w, http.StatusCreated, t)
}

func (app *application) listTournaments(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := middleware.GetOrganizerIDFromContext(r.Context())

	tournaments, err := app.tournaments.GetTournamentsForOrganizer(r.Context(), ownerID)
	if err != nil {
		httputil.InternalServerError(w, r, "Failed to get tournaments", err)
		return
	}
	httputil.JSON(w, http.StatusOK, tournaments)
}

func (app *application) getTournament(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	data, err := app.tournaments.GetTournamentData(r.Context(), id)
	if err != nil {
		httputil.Error(w, r, err)
		return
	}
	httputil.JSON(w, http.StatusOK, data)
}

// getBracket returns the raw schedule for clients that lay it out
// themselves.
func (app *application) getBracket(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	data, err := app.tournaments.GetTournamentData(r.Context(), id)
	if err != nil {
		httputil.Error(w, r, err)
		return
	}
	httputil.JSON(w, http.StatusOK, struct {
		Version  int              `json:"version"`
		Schedule bracket.Schedule `json:"schedule"`
	}{data.Tournament.Version, data.Schedule})
}

func (app *application) sharedTournament(w http.ResponseWriter, r *http.Request) {
	data, err := app.tournaments.GetTournamentByShareCode(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		httputil.Error(w, r, err)
		return
	}
	httputil.JSON(w, http.StatusOK, data)
}

func (app *application) recordResult(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := middleware.GetOrganizerIDFromContext(r.Context())

	id, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}
	matchID, err := strconv.Atoi(chi.URLParam(r, "matchID"))
	if err != nil {
		httputil.BadRequest(w, r, "Invalid match ID", err)
		return
	}

	var in service.RecordResultInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httputil.BadRequest(w, r, "Invalid winner ID", err)
		return
	}
	in.MatchID = matchID

	update, err := app.matches.RecordResult(r.Context(), ownerID, id, in)
	if err != nil {
		httputil.Error(w, r, err)
		return
	}
	httputil.JSON(w, http.StatusOK, update)
}

func (app *application) nextMatch(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}
	entryID, ok := parseUUIDParam(w, r, "entryID")
	if !ok {
		return
	}

	m, err := app.matches.NextMatchForEntry(r.Context(), id, entryID)
	if err != nil {
		httputil.Error(w, r, err)
		return
	}
	if m == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	httputil.JSON(w, http.StatusOK, struct {
		*bracket.Match
		Status bracket.MatchStatus `json:"status"`
	}{m, m.Status()})
}

func (app *application) subscribe(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}
	if _, err := app.tournaments.GetTournamentData(r.Context(), id); err != nil {
		httputil.Error(w, r, err)
		return
	}

	if err := app.hub.Serve(w, r, id.String()); err != nil {
		// The upgrader has already answered the request.
		zerolog.Ctx(r.Context()).Warn().Err(err).Msg("websocket upgrade failed")
	}
}

func (app *application) me(w http.ResponseWriter, r *http.Request) {
	o := middleware.GetAuthenticatedOrganizer(r.Context())
	if o == nil {
		httputil.NotFound(w, r, "Organizer not found", nil)
		return
	}
	httputil.JSON(w, http.StatusOK, o)
}

func (app *application) loginOptions(w http.ResponseWriter, r *http.Request) {
	providers := []string{}
	for name := range goth.GetProviders() {
		providers = append(providers, name)
	}
	sort.Strings(providers)
	httputil.JSON(w, http.StatusOK, map[string]any{"providers": providers, "guest": true})
}

func (app *application) beginAuth(w http.ResponseWriter, r *http.Request) {
	gothic.BeginAuthHandler(w, withProvider(r))
}

func (app *application) completeAuth(w http.ResponseWriter, r *http.Request) {
	gothUser, err := gothic.CompleteUserAuth(w, withProvider(r))
	if err != nil {
		httputil.BadRequest(w, r, "Authentication failure", err)
		return
	}

	o, err := app.organizers.FindOrCreateByProvider(r.Context(), gothUser)
	if err != nil {
		httputil.InternalServerError(w, r, "Failed to find or create organizer", err)
		return
	}

	if err := app.sessions.RenewToken(r.Context()); err != nil {
		httputil.InternalServerError(w, r, "Failed to renew session", err)
		return
	}
	app.sessions.Put(r.Context(), middleware.SessionOrganizerKey, o.ID.String())
	http.Redirect(w, r, "/", http.StatusFound)
}

func (app *application) guestLogin(w http.ResponseWriter, r *http.Request) {
	o, err := app.organizers.Guest(r.Context())
	if err != nil {
		httputil.InternalServerError(w, r, "Failed to login as guest", err)
		return
	}

	if err := app.sessions.RenewToken(r.Context()); err != nil {
		httputil.InternalServerError(w, r, "Failed to renew session", err)
		return
	}
	app.sessions.Put(r.Context(), middleware.SessionOrganizerKey, o.ID.String())
	httputil.JSON(w, http.StatusOK, o)
}

func (app *application) logout(w http.ResponseWriter, r *http.Request) {
	if err := app.sessions.Destroy(r.Context()); err != nil {
		httputil.InternalServerError(w, r, "Failed to end session", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// withProvider exposes the chi route parameter where gothic looks for it.
func withProvider(r *http.Request) *http.Request {
	q := r.URL.Query()
	q.Set("provider", chi.URLParam(r, "provider"))
	r.URL.RawQuery = q.Encode()
	return r
}

func parseUUIDParam(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		httputil.BadRequest(w, r, "Invalid "+name, err)
		return uuid.Nil, false
	}
	return id, true
}
