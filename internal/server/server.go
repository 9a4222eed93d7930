package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/ChicagoDave/tourplanner/internal/store"
	"github.com/ChicagoDave/tourplanner/pkg/cost"
	"github.com/ChicagoDave/tourplanner/pkg/economics"
	"github.com/ChicagoDave/tourplanner/pkg/geo"
	"github.com/ChicagoDave/tourplanner/pkg/routing"
	"github.com/ChicagoDave/tourplanner/pkg/spec"
	"github.com/ChicagoDave/tourplanner/pkg/tour"
	"github.com/ChicagoDave/tourplanner/pkg/travel"
	"github.com/ChicagoDave/tourplanner/pkg/validation"
)

// Server exposes one tour project over HTTP. Settlements are applied to the
// profile store and announced on the websocket feed.
type Server struct {
	spec     *spec.TourSpec
	schema   *validation.Report
	planner  *tour.Planner
	profiles store.ProfileStore
	hub      *Hub

	mu   sync.Mutex
	tour *tour.Tour
}

// New validates and schedules the project's stops and makes sure its player
// exists in the profile store.
func New(ctx context.Context, s *spec.TourSpec, profiles store.ProfileStore) (*Server, error) {
	schema := spec.Validate(s)
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("invalid project: %w", err)
	}
	planner, err := s.Planner(nil)
	if err != nil {
		return nil, err
	}
	t, err := s.BuildTour(ctx, planner)
	if err != nil {
		return nil, fmt.Errorf("building tour: %w", err)
	}
	if _, err := profiles.Get(ctx, s.Player.ID); errors.Is(err, store.ErrPlayerNotFound) {
		if _, err := profiles.Put(ctx, s.Player); err != nil {
			return nil, fmt.Errorf("seeding player %s: %w", s.Player.ID, err)
		}
	} else if err != nil {
		return nil, err
	}
	return &Server{
		spec:     s,
		schema:   schema,
		planner:  planner,
		profiles: profiles,
		hub:      NewHub(),
		tour:     t,
	}, nil
}

// Handler returns the router. The /ws route only attaches clients while the
// hub loop runs; Start runs it, callers mounting Handler alone must run it too.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(corsMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/plan", s.handlePlan)
		r.Get("/profile", s.handleProfile)
		r.Post("/distance", s.handleDistance)
		r.Post("/travel/estimate", s.handleTravelEstimate)
		r.Post("/route/suggest", s.handleRouteSuggest)
		r.Post("/quote", s.handleQuote)
		r.Post("/stops/{stopID}/complete", s.handleComplete)
		r.Post("/stops/{stopID}/cancel", s.handleCancel)
	})
	r.Get("/ws", s.hub.ServeWs)

	return r
}

// Start runs the hub and serves on port until ctx is cancelled.
func (s *Server) Start(ctx context.Context, port int) error {
	go s.hub.Run(ctx)

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: s.Handler()}
	go func() {
		<-ctx.Done()
		srv.Shutdown(context.Background())
	}()

	log.Printf("TourPlanner server starting on http://localhost%s", srv.Addr)
	log.Printf("Tour: %s (%d stops)", s.tour.Name, len(s.tour.Stops))
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	itinerary, planReport := s.planner.Plan(s.tour)
	s.mu.Unlock()

	report := validation.NewReport()
	report.Merge(s.schema)
	report.Merge(planReport)
	writeJSON(w, http.StatusOK, map[string]any{
		"itinerary":  itinerary,
		"cost":       cost.Estimate(itinerary),
		"validation": report,
	})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	p, err := s.profiles.Get(r.Context(), s.spec.Player.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleDistance(w http.ResponseWriter, r *http.Request) {
	var req struct {
		From string `json:"from"`
		To   string `json:"to"`
	}
	if !decode(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"from":        req.From,
		"to":          req.To,
		"distance_km": geo.DistanceKm(req.From, req.To),
	})
}

// handleTravelEstimate prices a raw distance when distance_km is given,
// otherwise a full leg between two labels. An empty mode is suggested.
func (s *Server) handleTravelEstimate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		From       string      `json:"from"`
		To         string      `json:"to"`
		DistanceKm *float64    `json:"distance_km"`
		Mode       travel.Mode `json:"mode"`
	}
	if !decode(w, r, &req) {
		return
	}
	model := s.planner.Travel
	if req.DistanceKm != nil {
		mode := req.Mode
		if mode == "" {
			mode = travel.SuggestMode(*req.DistanceKm)
		}
		est, err := model.Estimate(*req.DistanceKm, mode)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"mode": mode, "estimate": est})
		return
	}
	mode := req.Mode
	if mode == "" {
		mode = travel.SuggestMode(geo.DistanceKm(req.From, req.To))
	}
	leg, err := model.Leg(req.From, req.To, mode)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, leg)
}

// handleRouteSuggest orders the posted stops, or the tour's own active stops
// when none are posted.
func (s *Server) handleRouteSuggest(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Stops []routing.Stop `json:"stops"`
	}
	if !decode(w, r, &req) {
		return
	}
	if len(req.Stops) == 0 {
		s.mu.Lock()
		req.Stops = s.tour.RouteStops()
		s.mu.Unlock()
	}
	writeJSON(w, http.StatusOK, routing.Suggest(req.Stops))
}

func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	var req struct {
		VenueID  string             `json:"venue_id"`
		ShowType economics.ShowType `json:"show_type"`
	}
	if !decode(w, r, &req) {
		return
	}
	venue := s.spec.VenueByID(req.VenueID)
	if venue == nil {
		writeError(w, validation.Invalid("venue_id", req.VenueID, "unknown venue"))
		return
	}
	if req.ShowType == "" {
		req.ShowType = economics.ShowStandard
	}
	p, err := s.profiles.Get(r.Context(), s.spec.Player.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	q, err := economics.QuoteGig(*venue, req.ShowType, p.PlayerState)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"venue":    venue,
		"quote":    q,
		"bookable": q.Bookable(),
	})
}

// completion is both the response body and the websocket payload for a
// settled stop.
type completion struct {
	TourID     string               `json:"tour_id"`
	StopID     string               `json:"stop_id"`
	EventID    string               `json:"event_id"`
	Settlement economics.Settlement `json:"settlement"`
	Profile    store.Profile        `json:"profile"`
}

// handleComplete settles a stop against the stored profile. The tour is only
// updated once the store has accepted the deltas, so a failed apply leaves
// the stop scheduled.
func (s *Server) handleComplete(w http.ResponseWriter, r *http.Request) {
	stopID := chi.URLParam(r, "stopID")
	var req struct {
		Seed *int64 `json:"seed"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeJSONError(w, http.StatusBadRequest, "bad request")
		return
	}
	var rnd economics.RandomSource
	if req.Seed != nil {
		rnd = economics.SeededSource(*req.Seed)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ctx := r.Context()
	player, err := s.profiles.Get(ctx, s.spec.Player.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	draft := *s.tour
	draft.Stops = append([]tour.Stop(nil), s.tour.Stops...)
	settlement, err := s.planner.Complete(&draft, stopID, player.PlayerState, rnd)
	if err != nil {
		writeError(w, err)
		return
	}

	eventID := store.EventID(s.tour.ID, stopID)
	profile, err := s.profiles.ApplyDelta(ctx, player.ID, eventID, settlement.Deltas())
	if err != nil {
		writeError(w, err)
		return
	}
	s.tour = &draft

	out := completion{
		TourID:     s.tour.ID,
		StopID:     stopID,
		EventID:    eventID,
		Settlement: settlement,
		Profile:    profile,
	}
	log.Printf("Settled %s: success=%t attendance=%d payment=%d", stopID, settlement.IsSuccess, settlement.Attendance, settlement.Payment)
	s.hub.Publish("settlement", out)
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	stopID := chi.URLParam(r, "stopID")

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.planner.Cancel(s.tour, stopID); err != nil {
		writeError(w, err)
		return
	}
	i, _ := s.tour.Find(stopID)
	stop := s.tour.Stops[i]
	s.hub.Publish("cancellation", map[string]string{"tour_id": s.tour.ID, "stop_id": stopID})
	writeJSON(w, http.StatusOK, stop)
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSONError(w, http.StatusBadRequest, "bad request")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps engine and store errors to status codes.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, validation.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, tour.ErrStopNotFound), errors.Is(err, store.ErrPlayerNotFound):
		status = http.StatusNotFound
	case errors.Is(err, tour.ErrInvalidTransition), errors.Is(err, store.ErrAlreadySettled):
		status = http.StatusConflict
	case errors.Is(err, tour.ErrRequirementsUnmet):
		status = http.StatusUnprocessableEntity
	}
	if status == http.StatusInternalServerError {
		log.Printf("request failed: %v", err)
	}
	writeJSONError(w, status, err.Error())
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	if msg == "" {
		msg = http.StatusText(status)
	}
	writeJSON(w, status, map[string]string{"error": msg})
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
