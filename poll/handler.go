package poll

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/trickstertwo/xclock"
	"github.com/trickstertwo/xlog"

	"github.com/trickstertwo/xstatus"
)

// HeaderRequestID is echoed back on every poll response.
const HeaderRequestID = "X-Request-Id"

// Handler serves polls over HTTP:
//
//	GET /{queue}?count=n   drain up to n (default 5) messages
//	GET /-/healthz         hub health as JSON
//
// Mount it under a prefix with http.StripPrefix.
type Handler struct {
	hub       *xstatus.Hub
	responder *Responder
	html      Renderer
	json      Renderer
	logger    *xlog.Logger
	clock     xclock.Clock
}

// Option configures a Handler.
type Option func(*Handler)

// WithHTMLRenderer replaces the default row fragment renderer.
func WithHTMLRenderer(r Renderer) Option {
	return func(h *Handler) { h.html = r }
}

// WithJSONRenderer replaces the renderer used for Accept: application/json.
func WithJSONRenderer(r Renderer) Option {
	return func(h *Handler) { h.json = r }
}

// WithLogger overrides the hub logger for request logs.
func WithLogger(l *xlog.Logger) Option {
	return func(h *Handler) { h.logger = l }
}

func NewHandler(hub *xstatus.Hub, opts ...Option) *Handler {
	h := &Handler{
		hub:       hub,
		responder: NewResponder(hub),
		html:      NewHTMLRenderer(),
		json:      JSONRenderer{},
		logger:    hub.Logger(),
		clock:     hub.Clock(),
	}
	for _, o := range opts {
		if o != nil {
			o(h)
		}
	}
	return h
}

// Routes returns the handler tree, wrapped in panic recovery.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /-/healthz", h.health)
	mux.HandleFunc("GET /{queue}", h.poll)
	mux.HandleFunc("GET /{$}", h.poll)
	return h.recoverer(mux)
}

func (h *Handler) poll(w http.ResponseWriter, r *http.Request) {
	start := h.clock.Now()
	reqID := r.Header.Get(HeaderRequestID)
	if reqID == "" {
		reqID = uuid.NewString()
	}
	w.Header().Set(HeaderRequestID, reqID)

	queue := r.PathValue("queue")
	log := h.logger.With(xlog.Str("request_id", reqID), xlog.Str("queue", queue))

	resp, err := h.responder.Poll(r.Context(), queue, r.URL.Query().Get("count"))
	if err != nil {
		code := statusFor(err)
		if code >= http.StatusInternalServerError {
			log.Error().Err(err).Dur("duration", h.clock.Since(start)).Msg("poll failed")
			http.Error(w, http.StatusText(code), code)
			return
		}
		log.Warn().Err(err).Msg("poll rejected")
		http.Error(w, err.Error(), code)
		return
	}

	if resp.Stop {
		w.Header().Set(HeaderPoll, PollStop)
		w.WriteHeader(StatusStopPolling)
		log.Debug().Dur("duration", h.clock.Since(start)).Msg("poll stop")
		return
	}

	renderer := h.rendererFor(r)
	var buf bytes.Buffer
	if err := renderer.Render(&buf, h.responder.Records(resp)); err != nil {
		// The drained messages are already gone from the store. Counts go
		// through Float64, the numeric field xlog events carry.
		log.Error().Err(err).Float64("lost", float64(len(resp.Items))).Msg("render failed")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", renderer.ContentType())
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())

	log.Debug().
		Float64("requested", float64(resp.Requested)).
		Float64("items", float64(len(resp.Items))).
		Dur("duration", h.clock.Since(start)).
		Msg("poll drained")
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	st := h.hub.Health(r.Context())
	code := http.StatusOK
	if st.Status == "unhealthy" {
		code = http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":    st.Status,
		"message":   st.Message,
		"timestamp": st.Timestamp,
		"metrics":   st.Metrics,
	})
}

func (h *Handler) rendererFor(r *http.Request) Renderer {
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		return h.json
	}
	return h.html
}

func (h *Handler) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			h.logger.Error().Str("panic", fmt.Sprint(rec)).Msg("poll handler panic (recovered)")
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}()
		next.ServeHTTP(w, r)
	})
}

// statusFor maps the error taxonomy onto HTTP. Store failures are server
// errors so a polling client never mistakes them for an empty queue.
func statusFor(err error) int {
	switch {
	case errors.Is(err, xstatus.ErrValidation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
