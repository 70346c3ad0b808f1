// Package server serves the calculator screens to a browser. Every browser
// gets its own session holding a navigator; pages are rendered on the server.
package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/iwvelando/zus-calculator/internal/pension"
	"github.com/iwvelando/zus-calculator/pkg/constants"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

//go:embed static/*
var staticFiles embed.FS

//go:embed templates/page.html
var pageTemplate string

var page = template.Must(template.New("page").Funcs(template.FuncMap{
	"inc": func(i int) int { return i + 1 },
	"refresh": func(s stateView) bool {
		return s.Simulator != nil && s.Simulator.ResultsVisible && !s.Simulator.OptionsVisible
	},
}).Parse(pageTemplate))

type handler struct {
	logger      *zap.Logger
	store       *Store
	maxFormSize int64
	version     string
	now         func() time.Time
}

// NewHandler constructs the HTTP handler that serves the screens, the state API
// and the static assets.
func NewHandler(logger *zap.Logger, store *Store, maxFormSize int64, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if maxFormSize <= 0 {
		maxFormSize = constants.DefaultMaxFormSizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{logger: logger, store: store, maxFormSize: maxFormSize, version: trimmedVersion, now: store.now}

	mux := http.NewServeMux()

	// Screens
	mux.HandleFunc("/", h.handleIndex)
	mux.HandleFunc("/calculator", h.handleCalculator)
	mux.HandleFunc("/dashboard", h.handleDashboard)
	mux.HandleFunc("/simulator", h.handleSimulator)

	// Session snapshot for scripts and tests
	mux.HandleFunc("/api/state", h.handleState)

	// Version endpoint for UI metadata
	mux.HandleFunc("/api/version", h.handleVersion)

	// Static assets
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(fmt.Sprintf("failed to prepare embedded static files: %v", err))
	}
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.FS(sub))))

	return mux
}

func (h *handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	s := h.session(w, r)
	var state stateView
	s.view(func(nav *pension.Navigator, notice string) {
		state = buildState(nav, notice)
	})

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := page.Execute(w, state); err != nil {
		h.logger.Error("failed to render page",
			zap.String("op", "server.handleIndex"),
			zap.String("page", state.Page),
			zap.Error(err),
		)
	}
}

func (h *handler) handleCalculator(w http.ResponseWriter, r *http.Request) {
	h.handleAction(w, r, "server.handleCalculator", func(s *Session, nav *pension.Navigator, action string) error {
		switch action {
		case "slider":
			value, err := strconv.Atoi(strings.TrimSpace(r.PostForm.Get("slider")))
			if err != nil {
				return fmt.Errorf("invalid slider value: %w", err)
			}
			return nav.SetFromSlider(value)
		case "text":
			return nav.SetFromText(r.PostForm.Get("amount"))
		case "check":
			if err := applyCheckedAmount(nav, r.PostForm); err != nil {
				return err
			}
			return nav.Check()
		}
		return errUnknownAction(action)
	})
}

// applyCheckedAmount applies whichever control the user changed before
// pressing check. Without scripts the slider does not mirror into the text
// field, so an edited text field wins, then a moved slider.
func applyCheckedAmount(nav *pension.Navigator, form url.Values) error {
	current := strconv.Itoa(nav.Amount())
	if text, ok := form["amount"]; ok && len(text) > 0 && strings.TrimSpace(text[0]) != current {
		return nav.SetFromText(text[0])
	}
	if slider := strings.TrimSpace(form.Get("slider")); slider != "" && slider != current {
		value, err := strconv.Atoi(slider)
		if err != nil {
			return fmt.Errorf("invalid slider value: %w", err)
		}
		return nav.SetFromSlider(value)
	}
	return nil
}

func (h *handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	h.handleAction(w, r, "server.handleDashboard", func(s *Session, nav *pension.Navigator, action string) error {
		switch action {
		case "back":
			return nav.Back()
		case "next":
			return nav.Next()
		}

		d := nav.Dashboard()
		if d == nil {
			return fmt.Errorf("%w: %s on %s", pension.ErrNoTransition, action, nav.Page())
		}
		switch action {
		case "toggle":
			d.ToggleBreakdown(r.PostForm.Get("breakdown") != "")
		case "category":
			c, err := pension.ParseCategory(r.PostForm.Get("category"))
			if err != nil {
				return err
			}
			d.SelectCategory(c)
		default:
			return errUnknownAction(action)
		}
		return nil
	})
}

func (h *handler) handleSimulator(w http.ResponseWriter, r *http.Request) {
	h.handleAction(w, r, "server.handleSimulator", func(s *Session, nav *pension.Navigator, action string) error {
		if action == "" && r.PostForm.Get("offer") != "" {
			action = "offer"
		}
		if action == "back" {
			return nav.Back()
		}

		sim := nav.Simulator()
		if sim == nil {
			return fmt.Errorf("%w: %s on %s", pension.ErrNoTransition, action, nav.Page())
		}
		switch action {
		case "save":
			saveFields(sim, r)
		case "sample":
			sim.PopulateSample()
		case "simulate":
			saveFields(sim, r)
			s.simulate()
		case "offer":
			offer, err := pension.ParseOffer(r.PostForm.Get("offer"))
			if err != nil {
				return err
			}
			if !s.openNotice(offer) {
				return fmt.Errorf("offer %s is not available yet", offer.Label())
			}
		case "dismiss":
			s.dismissNotice()
		default:
			return errUnknownAction(action)
		}
		return nil
	})
}

// saveFields copies the submitted form fields into the simulator. Fields
// missing from the request keep their value.
func saveFields(sim *pension.Simulator, r *http.Request) {
	for _, f := range pension.Fields {
		if values, ok := r.PostForm[f.Key()]; ok && len(values) > 0 {
			sim.SetField(f, values[0])
		}
	}
}

type actionFunc func(s *Session, nav *pension.Navigator, action string) error

// handleAction parses a screen form, applies fn under the session lock and
// redirects back to the current screen.
func (h *handler) handleAction(w http.ResponseWriter, r *http.Request, op string, fn actionFunc) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxFormSize)
	if err := r.ParseForm(); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("form exceeds limit of %d bytes", h.maxFormSize), op)
			return
		}
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to parse form: %v", err), op)
		return
	}

	s, known := h.lookup(r)
	if !known {
		// A fresh session starts on the calculator; the stale action is dropped.
		s = h.newSession(w)
		h.logger.Info("action for unknown session dropped",
			zap.String("op", op),
			zap.String("session", s.ID),
		)
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	action := r.PostForm.Get("action")
	err := s.update(h.now(), func(nav *pension.Navigator) error {
		return fn(s, nav, action)
	})
	if err != nil {
		level := h.logger.Warn
		if !errors.Is(err, pension.ErrNoTransition) {
			level = h.logger.Info
		}
		level("action ignored",
			zap.String("op", op),
			zap.String("session", s.ID),
			zap.String("action", action),
			zap.Error(err),
		)
	} else {
		h.logger.Debug("action applied",
			zap.String("op", op),
			zap.String("session", s.ID),
			zap.String("action", action),
		)
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func errUnknownAction(action string) error {
	return fmt.Errorf("unknown action %q", action)
}

func (h *handler) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	s, known := h.lookup(r)
	if !known {
		h.respondError(w, http.StatusNotFound, "no session", "server.handleState")
		return
	}

	var state stateView
	s.view(func(nav *pension.Navigator, notice string) {
		state = buildState(nav, notice)
	})
	h.writeJSON(w, http.StatusOK, state)
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

// session returns the caller's session, starting a new one when needed.
func (h *handler) session(w http.ResponseWriter, r *http.Request) *Session {
	if s, ok := h.lookup(r); ok {
		return s
	}
	return h.newSession(w)
}

// lookup resolves the session cookie. Any request that reaches a session,
// page reloads included, keeps it from being swept.
func (h *handler) lookup(r *http.Request) (*Session, bool) {
	cookie, err := r.Cookie(constants.SessionCookieName)
	if err != nil {
		return nil, false
	}
	s, ok := h.store.Get(cookie.Value)
	if ok {
		s.touch(h.now())
	}
	return s, ok
}

func (h *handler) newSession(w http.ResponseWriter) *Session {
	s := h.store.Create()
	http.SetCookie(w, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    s.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return s
}

func (h *handler) respondError(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}

// Serve runs the HTTP server and the session sweeper until ctx is done.
func Serve(ctx context.Context, cfg *Config, logger *zap.Logger, version string) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	store := NewStore(logger, cfg.SessionTTLDuration())
	defer store.Close()

	sweeper, err := NewSweeper(store, cfg.SweepSchedule)
	if err != nil {
		return fmt.Errorf("failed to schedule session sweep: %w", err)
	}

	srv := &http.Server{
		Addr:              cfg.Address,
		Handler:           NewHandler(logger, store, cfg.FormSizeBytes(), version),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("web UI listening",
			zap.String("op", "server.Serve"),
			zap.String("address", cfg.Address),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		sweeper.Start()
		<-ctx.Done()
		sweeper.Stop()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown failed: %w", err)
		}
		logger.Info("web UI stopped", zap.String("op", "server.Serve"))
		return nil
	})
	return g.Wait()
}
