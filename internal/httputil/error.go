package httputil

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/AdamBeresnev/arena-bracket/internal/bracket"
	"github.com/AdamBeresnev/arena-bracket/internal/service"
	"github.com/AdamBeresnev/arena-bracket/internal/store"
	"github.com/rs/zerolog"
)

type errorBody struct {
	Error string `json:"error"`
}

// JSON writes v with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func InternalServerError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	zerolog.Ctx(r.Context()).Error().Err(err).Msg(msg)
	JSON(w, http.StatusInternalServerError, errorBody{Error: "Internal Server Error"})
}

func BadRequest(w http.ResponseWriter, r *http.Request, msg string, err error) {
	zerolog.Ctx(r.Context()).Warn().Err(err).Str("message", msg).Msg("bad request")
	JSON(w, http.StatusBadRequest, errorBody{Error: msg})
}

func NotFound(w http.ResponseWriter, r *http.Request, msg string, err error) {
	zerolog.Ctx(r.Context()).Warn().Err(err).Str("message", msg).Msg("not found")
	JSON(w, http.StatusNotFound, errorBody{Error: msg})
}

func Unauthorized(w http.ResponseWriter, r *http.Request, msg string, err error) {
	zerolog.Ctx(r.Context()).Debug().Err(err).Str("message", msg).Msg("unauthorized")
	JSON(w, http.StatusUnauthorized, errorBody{Error: msg})
}

func Forbidden(w http.ResponseWriter, r *http.Request, msg string, err error) {
	zerolog.Ctx(r.Context()).Warn().Err(err).Str("message", msg).Msg("forbidden")
	JSON(w, http.StatusForbidden, errorBody{Error: msg})
}

func Conflict(w http.ResponseWriter, r *http.Request, msg string, err error) {
	zerolog.Ctx(r.Context()).Warn().Err(err).Str("message", msg).Msg("conflict")
	JSON(w, http.StatusConflict, errorBody{Error: msg})
}

// Error picks the response for an error coming out of the service layer.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, bracket.ErrInsufficientParticipants),
		errors.Is(err, bracket.ErrUnsupportedFormat),
		errors.Is(err, bracket.ErrInvalidTeam),
		errors.Is(err, bracket.ErrDuplicateTeam),
		errors.Is(err, bracket.ErrInvalidWinner),
		errors.Is(err, service.ErrNameRequired),
		errors.Is(err, service.ErrEntryNameTooLong):
		BadRequest(w, r, err.Error(), err)
	case errors.Is(err, bracket.ErrMatchNotFound),
		errors.Is(err, service.ErrEntryNotInRoster),
		errors.Is(err, sql.ErrNoRows):
		NotFound(w, r, "Not found", err)
	case errors.Is(err, service.ErrNotOwner):
		Forbidden(w, r, err.Error(), err)
	case errors.Is(err, store.ErrVersionConflict):
		Conflict(w, r, "Tournament changed, reload and try again", err)
	default:
		InternalServerError(w, r, "Request failed", err)
	}
}
