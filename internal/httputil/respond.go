package httputil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/shedworks/shed-tracker/internal/league"
)

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type errorBody struct {
	Detail string `json:"detail"`
}

func InternalServerError(w http.ResponseWriter, msg string, err error) {
	slog.Error(msg, "error", err)
	JSON(w, http.StatusInternalServerError, errorBody{Detail: "Internal Server Error"})
}

func BadRequest(w http.ResponseWriter, msg string, err error) {
	if err != nil {
		slog.Warn("bad request", "message", msg, "error", err)
	} else {
		slog.Warn("bad request", "message", msg)
	}
	JSON(w, http.StatusBadRequest, errorBody{Detail: msg})
}

func NotFound(w http.ResponseWriter, msg string, err error) {
	if err != nil {
		slog.Warn("not found", "message", msg, "error", err)
	} else {
		slog.Warn("not found", "message", msg)
	}
	JSON(w, http.StatusNotFound, errorBody{Detail: msg})
}

func Unauthorized(w http.ResponseWriter, msg string) {
	slog.Warn("unauthorized", "message", msg)
	JSON(w, http.StatusUnauthorized, errorBody{Detail: msg})
}

func Conflict(w http.ResponseWriter, msg string) {
	slog.Warn("conflict", "message", msg)
	JSON(w, http.StatusConflict, errorBody{Detail: msg})
}

// Error maps a service error onto its HTTP status: not-found, validation and
// conflict errors are client errors; anything else is a storage failure and
// surfaces as a 500 unmodified.
func Error(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, league.ErrPlayerNotFound),
		errors.Is(err, league.ErrMatchNotFound),
		errors.Is(err, league.ErrSeasonNotFound),
		errors.Is(err, league.ErrEventTypeNotFound):
		NotFound(w, err.Error(), nil)
	case errors.Is(err, league.ErrSelfPlay),
		errors.Is(err, league.ErrSinglesLineup),
		errors.Is(err, league.ErrDoublesLineup),
		errors.Is(err, league.ErrDuplicatePlayers),
		errors.Is(err, league.ErrPlayerName),
		errors.Is(err, league.ErrSeasonDateRange):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, league.ErrNotLatestMatch),
		errors.Is(err, league.ErrNameTaken):
		Conflict(w, err.Error())
	default:
		InternalServerError(w, "request failed", err)
	}
}
