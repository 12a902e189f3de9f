package preview

import (
	"context"
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/vtree/internal/demo"
)

// PatchRecorder counts the DOM patches of each frame.
type PatchRecorder interface {
	RecordPatches(n int)
}

// Config configures a preview Server.
type Config struct {
	// Tick is the interval between frames. Zero disables the ticker; frames
	// then only advance through POST /step.
	Tick time.Duration

	// Logger receives request and frame logs. Default: slog.Default().
	Logger *slog.Logger

	// Gatherer backs GET /metrics. Nil leaves the route out.
	Gatherer prometheus.Gatherer

	// Patches, if set, is told the patch count of every frame.
	Patches PatchRecorder
}

// Server plays a scenario and streams its frames.
type Server struct {
	player *demo.Player
	config Config
	hub    *hub
	router chi.Router
}

// New returns a server for player.
func New(player *demo.Player, config Config) *Server {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	s := &Server{
		player: player,
		config: config,
		hub:    newHub(config.Logger),
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/", s.handlePage)
	r.Get("/frame", s.handleFrame)
	r.Post("/step", s.handleStep)
	r.Get("/ws", s.handleWebSocket)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	if s.config.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.config.Gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Clients returns the number of connected WebSocket clients.
func (s *Server) Clients() int { return s.hub.count() }

// Step advances the player one tick and pushes the frame to every client.
func (s *Server) Step(ctx context.Context) demo.Frame {
	f, err := s.player.Step(ctx)
	if err != nil {
		s.config.Logger.Warn("frame failed", "tick", f.Tick, "error", err)
	}
	if s.config.Patches != nil {
		s.config.Patches.RecordPatches(len(f.Patches))
	}
	s.config.Logger.Debug("frame", "tick", f.Tick, "patches", len(f.Patches))
	s.hub.broadcast(f)
	return f
}

// Run steps on every tick until ctx is done.
func (s *Server) Run(ctx context.Context) {
	if s.config.Tick <= 0 {
		<-ctx.Done()
		return
	}
	ticker := time.NewTicker(s.config.Tick)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Step(ctx)
		}
	}
}

// ListenAndServe serves on addr and runs the ticker until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go s.Run(ctx)

	errc := make(chan error, 1)
	go func() {
		s.config.Logger.Info("preview listening", "addr", addr, "scenario", s.player.Scenario().Name)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		s.hub.close()
		return err
	case <-ctx.Done():
	}

	shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	s.hub.close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.config.Logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.player.Frame())
}

func (s *Server) handleStep(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Step(r.Context()))
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	s.hub.serve(w, r, s.player.Frame)
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	f := s.player.Frame()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := page.Execute(w, pageData{
		Scenario:    f.Scenario,
		Description: s.player.Scenario().Description,
		Tick:        f.Tick,
		Output:      template.HTML(f.HTML),
	})
	if err != nil {
		s.config.Logger.Error("page render failed", "error", err)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
