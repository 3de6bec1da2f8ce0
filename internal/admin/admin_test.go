package admin

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/danmuck/gadgetctl/internal/registry"
	"github.com/danmuck/gadgetctl/internal/testutil/testlog"
	"github.com/gin-gonic/gin"
)

func newTestAdmin(t *testing.T) (*Server, *registry.Registry) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	reg := registry.Defaults()
	return New("gadgetd.test", reg, nil), reg
}

func getJSON(t *testing.T, s *Server, path string, wantStatus int) map[string]any {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)
	if rr.Code != wantStatus {
		t.Fatalf("GET %s: status=%d want=%d body=%s", path, rr.Code, wantStatus, rr.Body.String())
	}
	var body map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("GET %s: decode body: %v", path, err)
	}
	return body
}

func TestHealthAndReady(t *testing.T) {
	testlog.Start(t)
	s, _ := newTestAdmin(t)

	health := getJSON(t, s, "/health", http.StatusOK)
	if health["status"] != "ok" || health["service"] != "gadgetd.test" {
		t.Fatalf("health body: %v", health)
	}

	ready := getJSON(t, s, "/ready", http.StatusOK)
	if ready["ready"] != true {
		t.Fatalf("ready body: %v", ready)
	}
}

func TestGadgetListAndCurrent(t *testing.T) {
	testlog.Start(t)
	s, reg := newTestAdmin(t)

	if _, err := reg.Receive("counter", "increment"); err != nil {
		t.Fatalf("receive: %v", err)
	}

	list := getJSON(t, s, "/gadgets", http.StatusOK)
	want := []any{"counter", "maxcell"}
	if !reflect.DeepEqual(list["gadgets"], want) {
		t.Fatalf("gadget list: got=%v want=%v", list["gadgets"], want)
	}

	current := getJSON(t, s, "/gadgets/counter", http.StatusOK)
	if current["current"] != "1" {
		t.Fatalf("counter view: %v", current)
	}

	missing := getJSON(t, s, "/gadgets/bogus", http.StatusNotFound)
	if msg, ok := missing["error"].(string); !ok || msg == "" {
		t.Fatalf("missing gadget must carry an error: %v", missing)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	testlog.Start(t)
	s, _ := newTestAdmin(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("GET /metrics: status=%d", rr.Code)
	}
}
