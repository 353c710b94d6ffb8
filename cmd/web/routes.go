package main

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shedworks/shed-tracker/internal/config"
	"github.com/shedworks/shed-tracker/internal/httputil"
	"github.com/shedworks/shed-tracker/internal/league"
	"github.com/shedworks/shed-tracker/internal/middleware"
	"github.com/shedworks/shed-tracker/internal/service"
	"github.com/shedworks/shed-tracker/internal/snooker"
	"github.com/shedworks/shed-tracker/internal/store"
)

const auditLogDisplayLimit = 100

func newRouter(cfg *config.Config, sessionManager *scs.SessionManager, database *sqlx.DB) http.Handler {
	playerStore := store.NewPlayerStore(database)
	matchStore := store.NewMatchStore(database)
	seasonStore := store.NewSeasonStore(database)
	eventStore := store.NewEventStore(database)
	auditStore := store.NewAuditStore(database)

	seasonService := service.NewSeasonService(seasonStore)
	ratingService := service.NewRatingService(matchStore, seasonService)
	playerService := service.NewPlayerService(database, playerStore, auditStore)
	matchService := service.NewMatchService(database, playerStore, matchStore, eventStore, auditStore, ratingService)
	statsService := service.NewStatsService(playerStore, matchStore, ratingService)
	scoreboard := snooker.NewScoreboard()

	r := chi.NewRouter()

	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Admin-Password"},
		AllowCredentials: true,
	}))
	r.Use(sessionManager.LoadAndSave)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		httputil.JSON(w, http.StatusOK, map[string]string{"message": "Shed Tournament API"})
	})

	r.Post("/login", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httputil.BadRequest(w, "Invalid request body", err)
			return
		}
		if !middleware.VerifyPassword(req.Password, cfg.AppPassword) {
			httputil.Unauthorized(w, "Invalid password")
			return
		}
		middleware.Login(sessionManager, r)
		httputil.JSON(w, http.StatusOK, map[string]string{"message": "Logged in"})
	})

	r.Post("/logout", func(w http.ResponseWriter, r *http.Request) {
		middleware.Logout(sessionManager, r)
		httputil.JSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(sessionManager))

		r.Post("/players", func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				PlayerName string `json:"player_name"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				httputil.BadRequest(w, "Invalid request body", err)
				return
			}
			player, err := playerService.Create(r.Context(), req.PlayerName)
			if err != nil {
				httputil.Error(w, err)
				return
			}
			httputil.JSON(w, http.StatusCreated, player)
		})

		r.Get("/players", func(w http.ResponseWriter, r *http.Request) {
			players, err := playerService.List(r.Context())
			if err != nil {
				httputil.InternalServerError(w, "Failed to list players", err)
				return
			}
			httputil.JSON(w, http.StatusOK, players)
		})

		r.Get("/players/{id}", func(w http.ResponseWriter, r *http.Request) {
			id, err := uuid.Parse(chi.URLParam(r, "id"))
			if err != nil {
				httputil.BadRequest(w, "Invalid player id", err)
				return
			}
			player, err := playerService.Get(r.Context(), id)
			if err != nil {
				httputil.Error(w, err)
				return
			}
			httputil.JSON(w, http.StatusOK, player)
		})

		r.Put("/players/{id}", func(w http.ResponseWriter, r *http.Request) {
			id, err := uuid.Parse(chi.URLParam(r, "id"))
			if err != nil {
				httputil.BadRequest(w, "Invalid player id", err)
				return
			}
			var req struct {
				PlayerName    string `json:"player_name"`
				PlayerElo     int    `json:"player_elo"`
				AdminPassword string `json:"admin_password"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				httputil.BadRequest(w, "Invalid request body", err)
				return
			}
			if !middleware.VerifyPassword(req.AdminPassword, cfg.AdminPassword) {
				httputil.Unauthorized(w, "Invalid admin password")
				return
			}
			player, err := playerService.Update(r.Context(), id, req.PlayerName, req.PlayerElo)
			if err != nil {
				httputil.Error(w, err)
				return
			}
			httputil.JSON(w, http.StatusOK, player)
		})

		r.Delete("/players/{id}", func(w http.ResponseWriter, r *http.Request) {
			id, err := uuid.Parse(chi.URLParam(r, "id"))
			if err != nil {
				httputil.BadRequest(w, "Invalid player id", err)
				return
			}
			if !middleware.VerifyPassword(r.Header.Get("X-Admin-Password"), cfg.AdminPassword) {
				httputil.Unauthorized(w, "Invalid admin password")
				return
			}
			if err := playerService.Delete(r.Context(), id); err != nil {
				httputil.Error(w, err)
				return
			}
			httputil.JSON(w, http.StatusOK, map[string]string{"message": "Player deleted"})
		})

		r.Get("/players/{id}/rating", func(w http.ResponseWriter, r *http.Request) {
			id, err := uuid.Parse(chi.URLParam(r, "id"))
			if err != nil {
				httputil.BadRequest(w, "Invalid player id", err)
				return
			}
			if _, err := playerService.Get(r.Context(), id); err != nil {
				httputil.Error(w, err)
				return
			}
			season, err := seasonService.Resolve(r.Context(), r.URL.Query().Get("season"), time.Now().UTC())
			if err != nil {
				httputil.Error(w, err)
				return
			}
			elo, counted, err := ratingService.CurrentRating(r.Context(), id, season)
			if err != nil {
				httputil.Error(w, err)
				return
			}
			httputil.JSON(w, http.StatusOK, map[string]any{
				"player_id":       id,
				"elo":             elo,
				"matches_counted": counted,
				"season":          season,
			})
		})

		r.Post("/matches", func(w http.ResponseWriter, r *http.Request) {
			var req service.RecordMatchRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				httputil.BadRequest(w, "Invalid request body", err)
				return
			}
			match, err := matchService.Record(r.Context(), req)
			if err != nil {
				httputil.Error(w, err)
				return
			}
			httputil.JSON(w, http.StatusCreated, match)
		})

		r.Get("/matches", func(w http.ResponseWriter, r *http.Request) {
			matches, err := matchStore.ListAll(r.Context())
			if err != nil {
				httputil.InternalServerError(w, "Failed to list matches", err)
				return
			}
			httputil.JSON(w, http.StatusOK, matches)
		})

		r.Delete("/matches/{id}", func(w http.ResponseWriter, r *http.Request) {
			id, err := uuid.Parse(chi.URLParam(r, "id"))
			if err != nil {
				httputil.BadRequest(w, "Invalid match id", err)
				return
			}
			snapshot, err := matchService.Undo(r.Context(), id)
			if err != nil {
				httputil.Error(w, err)
				return
			}
			httputil.JSON(w, http.StatusOK, snapshot)
		})

		r.Get("/seasons", func(w http.ResponseWriter, r *http.Request) {
			seasons, err := seasonService.List(r.Context())
			if err != nil {
				httputil.InternalServerError(w, "Failed to list seasons", err)
				return
			}
			httputil.JSON(w, http.StatusOK, seasons)
		})

		r.Post("/seasons", func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				Name      string `json:"name"`
				StartDate string `json:"start_date"`
				EndDate   string `json:"end_date"`
				Special   bool   `json:"special"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				httputil.BadRequest(w, "Invalid request body", err)
				return
			}
			start, err := time.Parse("2006-01-02", req.StartDate)
			if err != nil {
				httputil.BadRequest(w, "Invalid start_date, expected YYYY-MM-DD", err)
				return
			}
			end, err := time.Parse("2006-01-02", req.EndDate)
			if err != nil {
				httputil.BadRequest(w, "Invalid end_date, expected YYYY-MM-DD", err)
				return
			}
			season, err := seasonService.Create(r.Context(), req.Name, start, end, req.Special)
			if err != nil {
				httputil.Error(w, err)
				return
			}
			httputil.JSON(w, http.StatusCreated, season)
		})

		r.Get("/seasons/current", func(w http.ResponseWriter, r *http.Request) {
			season, err := seasonService.Resolve(r.Context(), league.SelectorCurrent, time.Now().UTC())
			if err != nil {
				httputil.Error(w, err)
				return
			}
			httputil.JSON(w, http.StatusOK, season)
		})

		r.Get("/stats/streaks", func(w http.ResponseWriter, r *http.Request) {
			streaks, err := statsService.Streaks(r.Context())
			if err != nil {
				httputil.InternalServerError(w, "Failed to compute streaks", err)
				return
			}
			httputil.JSON(w, http.StatusOK, streaks)
		})

		r.Get("/stats/longest-streaks", func(w http.ResponseWriter, r *http.Request) {
			streaks, err := statsService.LongestStreaks(r.Context())
			if err != nil {
				httputil.InternalServerError(w, "Failed to compute longest streaks", err)
				return
			}
			httputil.JSON(w, http.StatusOK, streaks)
		})

		r.Get("/stats/kd", func(w http.ResponseWriter, r *http.Request) {
			ratios, err := statsService.KDRatios(r.Context())
			if err != nil {
				httputil.InternalServerError(w, "Failed to compute K/D ratios", err)
				return
			}
			httputil.JSON(w, http.StatusOK, ratios)
		})

		r.Get("/stats/busiest-day", func(w http.ResponseWriter, r *http.Request) {
			busiest, err := statsService.BusiestDay(r.Context())
			if err != nil {
				httputil.InternalServerError(w, "Failed to compute busiest day", err)
				return
			}
			httputil.JSON(w, http.StatusOK, busiest)
		})

		r.Get("/stats/head-to-head", func(w http.ResponseWriter, r *http.Request) {
			player1, err := uuid.Parse(r.URL.Query().Get("player1"))
			if err != nil {
				httputil.BadRequest(w, "Invalid player1 id", err)
				return
			}
			player2, err := uuid.Parse(r.URL.Query().Get("player2"))
			if err != nil {
				httputil.BadRequest(w, "Invalid player2 id", err)
				return
			}
			stats, err := statsService.HeadToHead(r.Context(), player1, player2)
			if err != nil {
				httputil.Error(w, err)
				return
			}
			httputil.JSON(w, http.StatusOK, stats)
		})

		r.Get("/stats/usage", func(w http.ResponseWriter, r *http.Request) {
			usage, err := statsService.UsageStats(r.Context())
			if err != nil {
				httputil.InternalServerError(w, "Failed to compute usage stats", err)
				return
			}
			httputil.JSON(w, http.StatusOK, usage)
		})

		r.Get("/stats/matches-per-day", func(w http.ResponseWriter, r *http.Request) {
			var playerID *uuid.UUID
			if raw := r.URL.Query().Get("player_id"); raw != "" {
				id, err := uuid.Parse(raw)
				if err != nil {
					httputil.BadRequest(w, "Invalid player_id", err)
					return
				}
				playerID = &id
			}
			perDay, err := statsService.MatchesPerDay(r.Context(), playerID)
			if err != nil {
				httputil.InternalServerError(w, "Failed to compute matches per day", err)
				return
			}
			httputil.JSON(w, http.StatusOK, perDay)
		})

		r.Get("/events/recent", func(w http.ResponseWriter, r *http.Request) {
			name := r.URL.Query().Get("name")
			if name == "" {
				httputil.BadRequest(w, "Missing event name", nil)
				return
			}
			days := 90
			since := time.Now().UTC().AddDate(0, 0, -days)
			ids, err := eventStore.RecentEventPlayers(r.Context(), name, since)
			if err != nil {
				httputil.InternalServerError(w, "Failed to list recent events", err)
				return
			}
			httputil.JSON(w, http.StatusOK, map[string]any{"event": name, "days": days, "player_ids": ids})
		})

		r.Get("/auditlog", func(w http.ResponseWriter, r *http.Request) {
			logs, err := auditStore.ListRecent(r.Context(), auditLogDisplayLimit)
			if err != nil {
				httputil.InternalServerError(w, "Failed to read audit log", err)
				return
			}
			httputil.JSON(w, http.StatusOK, logs)
		})

		r.Get("/snooker", func(w http.ResponseWriter, r *http.Request) {
			httputil.JSON(w, http.StatusOK, scoreboard.State())
		})

		r.Post("/snooker/action", func(w http.ResponseWriter, r *http.Request) {
			var action snooker.Action
			if err := json.NewDecoder(r.Body).Decode(&action); err != nil {
				httputil.BadRequest(w, "Invalid request body", err)
				return
			}
			httputil.JSON(w, http.StatusOK, scoreboard.Apply(action))
		})
	})

	return r
}
