package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/vietcalls99/UptimeKit-CLI/internal/domain"
	"github.com/vietcalls99/UptimeKit-CLI/internal/repo/memory"
)

type fixedStatus struct {
	st domain.Status
}

func (f fixedStatus) LastStatus(id domain.MonitorID) (domain.Status, bool) {
	return f.st, true
}

func newTestServer(t *testing.T) (*Server, *memory.Store) {
	t.Helper()
	store := memory.New()
	return NewServer(zap.NewNop(), store, fixedStatus{st: domain.StatusUp}), store
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	s, _ := newTestServer(t)
	rec := doJSON(t, s.Router(), http.MethodGet, "/healthz", nil)
	if rec.Code != 200 || rec.Body.String() != "ok" {
		t.Fatalf("healthz: code=%d body=%q", rec.Code, rec.Body.String())
	}
}

func TestAddAndListMonitors(t *testing.T) {
	s, _ := newTestServer(t)
	r := s.Router()

	rec := doJSON(t, r, http.MethodPost, "/api/monitors", monitorPayload{
		Type: "http", Target: "https://example.com", Interval: 60, Name: "site",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("add: code=%d body=%s", rec.Code, rec.Body.String())
	}
	var created monitorView
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.ID == "" || created.LastStatus != "up" {
		t.Fatalf("created: %+v", created)
	}

	rec = doJSON(t, r, http.MethodGet, "/api/monitors", nil)
	if rec.Code != 200 {
		t.Fatalf("list: code=%d", rec.Code)
	}
	var list []monitorView
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list) != 1 || list[0].Name != "site" {
		t.Fatalf("list: %+v", list)
	}
}

func TestAddMonitor_Validation(t *testing.T) {
	s, _ := newTestServer(t)
	r := s.Router()

	cases := []monitorPayload{
		{Type: "tcp", Target: "x", Interval: 60},
		{Type: "http", Target: "", Interval: 60},
		{Type: "http", Target: "https://example.com"},
		{Type: "dns", Target: "example.com", Interval: -5},
	}
	for _, p := range cases {
		rec := doJSON(t, r, http.MethodPost, "/api/monitors", p)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("payload %+v: want 400, got %d", p, rec.Code)
		}
	}
}

func TestUpdateAndDeleteMonitor(t *testing.T) {
	s, store := newTestServer(t)
	r := s.Router()

	m := &domain.Monitor{Type: domain.TypeHTTP, Target: "https://example.com", IntervalS: 60}
	if err := store.Add(context.Background(), m); err != nil {
		t.Fatalf("seed: %v", err)
	}

	rec := doJSON(t, r, http.MethodPut, "/api/monitors/"+string(m.ID), monitorPayload{
		Type: "http", Target: "https://example.com", Interval: 10,
	})
	if rec.Code != 200 {
		t.Fatalf("update: code=%d body=%s", rec.Code, rec.Body.String())
	}
	got, _ := store.Get(context.Background(), m.ID)
	if got.IntervalS != 10 {
		t.Fatalf("update not applied: %+v", got)
	}

	rec = doJSON(t, r, http.MethodDelete, "/api/monitors/"+string(m.ID), nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete: code=%d", rec.Code)
	}
	rec = doJSON(t, r, http.MethodDelete, "/api/monitors/"+string(m.ID), nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("double delete: want 404, got %d", rec.Code)
	}
}

func TestListHeartbeats(t *testing.T) {
	s, store := newTestServer(t)
	r := s.Router()

	m := &domain.Monitor{Type: domain.TypeHTTP, Target: "https://example.com", IntervalS: 60}
	_ = store.Add(context.Background(), m)
	for i := 0; i < 3; i++ {
		_ = store.Append(context.Background(), &domain.Heartbeat{
			MonitorID: m.ID,
			Status:    domain.StatusUp,
			LatencyMS: int64(i),
			CheckedAt: time.Now().UTC(),
		})
	}

	rec := doJSON(t, r, http.MethodGet, "/api/monitors/"+string(m.ID)+"/heartbeats?limit=2", nil)
	if rec.Code != 200 {
		t.Fatalf("heartbeats: code=%d", rec.Code)
	}
	var hbs []domain.Heartbeat
	if err := json.Unmarshal(rec.Body.Bytes(), &hbs); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(hbs) != 2 || hbs[0].LatencyMS != 2 {
		t.Fatalf("want newest 2, got %+v", hbs)
	}
}

func TestCertificateNotFound(t *testing.T) {
	s, _ := newTestServer(t)
	rec := doJSON(t, s.Router(), http.MethodGet, "/api/monitors/nope/certificate", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("want 404, got %d", rec.Code)
	}
}

func TestNotificationsToggle(t *testing.T) {
	s, _ := newTestServer(t)
	r := s.Router()

	rec := doJSON(t, r, http.MethodGet, "/api/settings/notifications", nil)
	var p notificationsPayload
	_ = json.Unmarshal(rec.Body.Bytes(), &p)
	if !p.Enabled {
		t.Fatal("want enabled by default")
	}

	rec = doJSON(t, r, http.MethodPut, "/api/settings/notifications", notificationsPayload{Enabled: false})
	if rec.Code != 200 {
		t.Fatalf("put: code=%d", rec.Code)
	}
	rec = doJSON(t, r, http.MethodGet, "/api/settings/notifications", nil)
	_ = json.Unmarshal(rec.Body.Bytes(), &p)
	if p.Enabled {
		t.Fatal("want disabled after toggle")
	}
}
