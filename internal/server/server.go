package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"gameday-assistant/internal/appstate"
	"gameday-assistant/internal/assistant"
	"gameday-assistant/internal/config"
	"gameday-assistant/internal/db"
	"gameday-assistant/internal/responder"
	"gameday-assistant/internal/store"
	"gameday-assistant/internal/telemetry"
	"gameday-assistant/internal/types"
)

type Server struct {
	router   *chi.Mux
	cfg      config.Config
	logger   *zap.Logger
	sessions *store.MemoryStore
	database *db.DB
	events   *store.EventStore
	sink     telemetry.Sink
	prompt   responder.PromptSpec
	// proxy answers POST /assistant/respond
	proxy     responder.Fallback
	completer responder.ChatCompleter
	// remote is what each session's assistant asks first
	remote responder.Responder
	// storeSink is nil unless events are persisted
	storeSink *telemetry.StoreSink
}

type Option func(*Server)

// WithChatCompleter replaces the OpenAI client behind the proxy endpoint.
func WithChatCompleter(c responder.ChatCompleter) Option {
	return func(s *Server) { s.completer = c }
}

// WithSessionRemote replaces the responder session assistants call first.
func WithSessionRemote(r responder.Responder) Option {
	return func(s *Server) { s.remote = r }
}

// WithEventStore persists telemetry through es instead of opening DB_URL.
func WithEventStore(es *store.EventStore) Option {
	return func(s *Server) { s.events = es }
}

func NewServer(cfg config.Config, logger *zap.Logger, opts ...Option) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	prompt, err := responder.LoadPromptSpec(cfg.PromptPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load prompt spec: %w", err)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.AllowedOrigin},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Requested-With", "X-Session-Id"},
		ExposedHeaders:   []string{"X-Session-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	s := &Server{
		router: r,
		cfg:    cfg,
		logger: logger,
		prompt: prompt,
	}
	for _, opt := range opts {
		opt(s)
	}
	r.Use(s.requestLogger)

	if s.completer == nil && cfg.OpenAIAPIKey != "" {
		s.completer = responder.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL)
	}
	s.proxy = responder.Fallback{Secondary: responder.NewMockResponder()}
	if s.completer != nil {
		s.proxy.Primary = responder.NewOpenAIResponder(prompt, s.completer, cfg.Model)
	} else {
		logger.Warn("OPENAI_API_KEY is not set; the proxy endpoint answers with mock replies")
	}

	if s.events == nil && cfg.DatabaseURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		database, err := db.New(ctx, cfg.DatabaseURL, logger.Named("db"))
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		if err := database.RunMigrations(ctx, os.DirFS(cfg.MigrationsDir)); err != nil {
			database.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		logger.Info("database connection established")
		s.database = database
		s.events = store.NewEventStore(database)
	} else if s.events == nil {
		logger.Info("DB_URL not provided, telemetry goes to the log only")
	}

	sinks := telemetry.Multi{telemetry.NewLoggerSink(logger)}
	if s.events != nil {
		s.storeSink = telemetry.NewStoreSink(s.events, logger.Named("telemetry"))
		sinks = append(sinks, s.storeSink)
	}
	s.sink = sinks

	// The proxy applies its own system prompt, so sessions send none.
	if s.remote == nil {
		s.remote = responder.NewRemoteClient(cfg.ProxyURL, "", cfg.ProxyTimeout)
	}
	s.sessions = store.NewMemoryStore(s.newSession, cfg.SessionIdleTTL)

	s.routes()
	return s, nil
}

func (s *Server) routes() {
	s.router.Get("/api/health", s.handleHealth)
	// Assistant proxy consumed by RemoteClient
	s.router.Post("/assistant/respond", s.handleProxyRespond)
	// Session assistant
	s.router.Post("/api/assistant/input", s.handleInput)
	s.router.Post("/api/assistant/actions", s.handleAction)
	s.router.Get("/api/assistant/history", s.handleHistory)
	s.router.Delete("/api/assistant/history", s.handleClearHistory)
	s.router.Get("/api/assistant/state", s.handleState)
	s.router.Post("/api/assistant/proactive", s.handleProactive)
	s.router.Post("/api/assistant/visibility", s.handleVisibility)
	s.router.Get("/api/assistant/events", s.handleEvents)
	s.router.Delete("/api/assistant/session", s.handleDeleteSession)
	// App state simulation
	s.router.Post("/api/app/route", s.handleRoute)
}

func (s *Server) Router() http.Handler { return s.router }

// Close flushes queued telemetry and releases the database connection.
func (s *Server) Close() error {
	if s.storeSink != nil {
		s.storeSink.Close()
	}
	if s.database != nil {
		return s.database.Close()
	}
	return nil
}

// SweepSessions drops idle sessions every interval until ctx is done.
func (s *Server) SweepSessions(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := s.sessions.Sweep(); n > 0 {
				s.logger.Debug("swept idle sessions", zap.Int("removed", n))
			}
		}
	}
}

// newSession wires a fresh app state to its own assistant. Route, game day
// and phase changes feed the assistant's proactive check.
func (s *Server) newSession(id string) (*appstate.Store, *assistant.Assistant) {
	app := appstate.New()
	a := assistant.New(
		assistant.Deps{Remote: s.remote, Navigator: app, AppState: app, Source: app},
		assistant.WithLogger(s.logger.With(zap.String("session", id))),
		assistant.WithSink(s.sink),
		assistant.WithSessionID(id),
		assistant.WithEnabled(s.cfg.AssistantEnabled),
		assistant.WithProactive(s.cfg.ProactiveEnabled),
		assistant.WithCooldown(s.cfg.ProactiveCooldown),
		assistant.WithDisplayLimit(s.cfg.HistoryDisplayLimit),
		assistant.WithFlipDelay(s.cfg.FlipDelay),
	)
	app.OnChange(a.Observe)
	return app, a
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{"status": "ok"}
	if s.database != nil {
		if err := s.database.HealthCheck(r.Context()); err != nil {
			status["database"] = "unavailable"
		} else {
			status["database"] = "ok"
		}
	}
	writeJSON(w, http.StatusOK, status)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, types.ErrorResponse{Error: msg})
}

func newSessionID() string {
	return "s_" + uuid.NewString()
}

// getSessionID retrieves the session ID from cookie, header or query parameter
func getSessionID(r *http.Request) string {
	if cookie, err := GetSessionCookie(r); err == nil && cookie != "" {
		return cookie
	}
	if sid := r.Header.Get("X-Session-Id"); sid != "" {
		return sid
	}
	if sid := r.URL.Query().Get("sessionId"); sid != "" {
		return sid
	}
	return ""
}

// getOrCreateSessionID gets the existing session ID or creates a new one,
// setting the cookie
func (s *Server) getOrCreateSessionID(w http.ResponseWriter, r *http.Request) string {
	sid := getSessionID(r)
	if sid == "" {
		sid = newSessionID()
		s.logger.Debug("creating new session", zap.String("session", sid), zap.String("path", r.URL.Path))
		SetSessionCookie(w, r, sid)
	}
	w.Header().Set("X-Session-Id", sid)
	return sid
}
