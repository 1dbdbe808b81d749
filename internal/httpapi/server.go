package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/vietcalls99/UptimeKit-CLI/internal/domain"
	"github.com/vietcalls99/UptimeKit-CLI/internal/repo"
)

// StatusSource reports the scheduler's in-memory status for a monitor.
type StatusSource interface {
	LastStatus(id domain.MonitorID) (domain.Status, bool)
}

// Server is the local JSON API the dashboard talks to. The scheduler picks
// up monitor changes on its next reconciliation tick; the API never touches
// the scheduler's registry directly.
type Server struct {
	Logger *zap.Logger
	Store  repo.Store
	Status StatusSource
}

func NewServer(l *zap.Logger, store repo.Store, status StatusSource) *Server {
	return &Server{Logger: l, Store: store, Status: status}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.AllowAll().Handler)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/monitors", s.handleListMonitors)
		r.Post("/monitors", s.handleAddMonitor)
		r.Get("/monitors/{id}", s.handleGetMonitor)
		r.Put("/monitors/{id}", s.handleUpdateMonitor)
		r.Delete("/monitors/{id}", s.handleDeleteMonitor)
		r.Get("/monitors/{id}/heartbeats", s.handleListHeartbeats)
		r.Get("/monitors/{id}/certificate", s.handleGetCertificate)
		r.Get("/settings/notifications", s.handleGetNotifications)
		r.Put("/settings/notifications", s.handleSetNotifications)
	})

	return r
}

type monitorPayload struct {
	Type       string `json:"type"`
	Target     string `json:"target"`
	Interval   int    `json:"interval"`
	Name       string `json:"name"`
	WebhookURL string `json:"webhookUrl"`
	GroupName  string `json:"groupName"`
}

func (p *monitorPayload) validate() error {
	if !domain.MonitorType(p.Type).Valid() {
		return errors.New("type must be one of http, icmp, dns, ssl")
	}
	if p.Target == "" {
		return errors.New("target is required")
	}
	if p.Interval < 1 {
		return errors.New("interval must be at least 1 second")
	}
	return nil
}

type monitorView struct {
	domain.Monitor
	LastStatus string `json:"lastStatus"`
}

func (s *Server) view(m domain.Monitor) monitorView {
	v := monitorView{Monitor: m, LastStatus: domain.StatusUnknown.String()}
	if s.Status != nil {
		if st, ok := s.Status.LastStatus(m.ID); ok {
			v.LastStatus = st.String()
		}
	}
	return v
}

func (s *Server) handleListMonitors(w http.ResponseWriter, r *http.Request) {
	ms, err := s.Store.List(r.Context())
	if err != nil {
		s.Logger.Error("list_monitors_error", zap.Error(err))
		http.Error(w, "list error", http.StatusInternalServerError)
		return
	}
	views := make([]monitorView, 0, len(ms))
	for _, m := range ms {
		views = append(views, s.view(m))
	}
	writeJSON(w, views)
}

func (s *Server) handleAddMonitor(w http.ResponseWriter, r *http.Request) {
	var p monitorPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, "bad payload", http.StatusBadRequest)
		return
	}
	if err := p.validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	m := &domain.Monitor{
		Type:       domain.MonitorType(p.Type),
		Target:     p.Target,
		IntervalS:  p.Interval,
		Name:       p.Name,
		WebhookURL: p.WebhookURL,
		GroupName:  p.GroupName,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.Store.Add(r.Context(), m); err != nil {
		s.Logger.Error("add_monitor_error", zap.Error(err))
		http.Error(w, "could not add", http.StatusInternalServerError)
		return
	}

	s.Logger.Info("monitor_added",
		zap.String("monitor_id", string(m.ID)),
		zap.String("type", p.Type),
		zap.String("target", p.Target),
	)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(s.view(*m))
}

func (s *Server) handleGetMonitor(w http.ResponseWriter, r *http.Request) {
	id := domain.MonitorID(chi.URLParam(r, "id"))
	m, err := s.Store.Get(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, s.view(*m))
}

func (s *Server) handleUpdateMonitor(w http.ResponseWriter, r *http.Request) {
	id := domain.MonitorID(chi.URLParam(r, "id"))
	existing, err := s.Store.Get(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	var p monitorPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, "bad payload", http.StatusBadRequest)
		return
	}
	if err := p.validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	existing.Type = domain.MonitorType(p.Type)
	existing.Target = p.Target
	existing.IntervalS = p.Interval
	existing.Name = p.Name
	existing.WebhookURL = p.WebhookURL
	existing.GroupName = p.GroupName
	if err := s.Store.Update(r.Context(), existing); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, s.view(*existing))
}

func (s *Server) handleDeleteMonitor(w http.ResponseWriter, r *http.Request) {
	id := domain.MonitorID(chi.URLParam(r, "id"))
	if err := s.Store.Delete(r.Context(), id); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListHeartbeats(w http.ResponseWriter, r *http.Request) {
	id := domain.MonitorID(chi.URLParam(r, "id"))
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 1000 {
			limit = n
		}
	}
	hbs, err := s.Store.ListByMonitor(r.Context(), id, limit)
	if err != nil {
		s.Logger.Error("list_heartbeats_error", zap.Error(err))
		http.Error(w, "list error", http.StatusInternalServerError)
		return
	}
	if hbs == nil {
		hbs = []domain.Heartbeat{}
	}
	writeJSON(w, hbs)
}

func (s *Server) handleGetCertificate(w http.ResponseWriter, r *http.Request) {
	id := domain.MonitorID(chi.URLParam(r, "id"))
	snap, err := s.Store.GetCertificate(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, snap)
}

type notificationsPayload struct {
	Enabled bool `json:"enabled"`
}

func (s *Server) handleGetNotifications(w http.ResponseWriter, r *http.Request) {
	enabled, err := s.Store.NotificationsEnabled(r.Context())
	if err != nil {
		http.Error(w, "settings error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, notificationsPayload{Enabled: enabled})
}

func (s *Server) handleSetNotifications(w http.ResponseWriter, r *http.Request) {
	var p notificationsPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, "bad payload", http.StatusBadRequest)
		return
	}
	if err := s.Store.SetNotificationsEnabled(r.Context(), p.Enabled); err != nil {
		http.Error(w, "settings error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, p)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, repo.ErrNotFound) {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	http.Error(w, "storage error", http.StatusInternalServerError)
}
