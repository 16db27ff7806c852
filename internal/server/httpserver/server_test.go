package httpserver

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/yndnr/kiwi/internal/core/service"
	"github.com/yndnr/kiwi/internal/server/httpserver/handler"
	"github.com/yndnr/kiwi/internal/storage/memory"
	"github.com/yndnr/kiwi/internal/telemetry/metric"
)

func newTestRouter(t *testing.T, reg *metric.Registry, rateLimit int) http.Handler {
	t.Helper()
	kv := service.NewKVService(memory.New())
	return NewRouter(&RouterConfig{
		Handler:       handler.New(kv, nil),
		Metrics:       reg,
		ExposeMetrics: reg != nil,
		RateLimit:     rateLimit,
	})
}

func post(t *testing.T, client *http.Client, url, body string) (int, map[string]any) {
	t.Helper()
	resp, err := client.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	defer resp.Body.Close()

	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("POST %s: decode: %v", url, err)
	}
	return resp.StatusCode, out
}

func TestRouter_KeyLifecycle(t *testing.T) {
	ts := httptest.NewServer(newTestRouter(t, nil, 0))
	defer ts.Close()

	status, body := post(t, ts.Client(), ts.URL+"/set", `{"key":"foo","value":"bar"}`)
	if status != http.StatusOK || body["code"] != "OK" {
		t.Fatalf("set: %d %v", status, body)
	}
	if body["request_id"] == "" {
		t.Error("set: empty request_id")
	}

	status, body = post(t, ts.Client(), ts.URL+"/get", `{"key":"foo"}`)
	data, _ := body["data"].(map[string]any)
	if status != http.StatusOK || data["value"] != "bar" {
		t.Fatalf("get: %d %v", status, body)
	}

	status, body = post(t, ts.Client(), ts.URL+"/del", `{"key":"foo"}`)
	if status != http.StatusOK || body["data"] != "OK" {
		t.Fatalf("del: %d %v", status, body)
	}

	status, body = post(t, ts.Client(), ts.URL+"/get", `{"key":"foo"}`)
	if status != http.StatusNotFound || body["code"] != "KIWI-KEY-4040" {
		t.Fatalf("get after del: %d %v", status, body)
	}
}

func TestRouter_UnknownRoute(t *testing.T) {
	ts := httptest.NewServer(newTestRouter(t, nil, 0))
	defer ts.Close()

	resp, err := ts.Client().Get(ts.URL + "/sessions")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestRouter_RateLimitSkipsProbes(t *testing.T) {
	ts := httptest.NewServer(newTestRouter(t, nil, 1))
	defer ts.Close()

	status, _ := post(t, ts.Client(), ts.URL+"/set", `{"key":"a","value":"1"}`)
	if status != http.StatusOK {
		t.Fatalf("first set: %d", status)
	}
	status, body := post(t, ts.Client(), ts.URL+"/set", `{"key":"a","value":"2"}`)
	if status != http.StatusTooManyRequests || body["code"] != "KIWI-RATE-4290" {
		t.Fatalf("second set: %d %v", status, body)
	}

	for range 3 {
		resp, err := ts.Client().Get(ts.URL + "/health")
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("health status = %d", resp.StatusCode)
		}
	}
}

func TestRouter_Metrics(t *testing.T) {
	reg := metric.NewRegistry()
	ts := httptest.NewServer(newTestRouter(t, reg, 0))
	defer ts.Close()

	post(t, ts.Client(), ts.URL+"/set", `{"key":"k","value":"v"}`)
	post(t, ts.Client(), ts.URL+"/get", `{"key":"missing"}`)

	if got := testutil.ToFloat64(reg.HTTPRequestsTotal.WithLabelValues("POST", "/set", "200")); got != 1 {
		t.Errorf("set requests = %v", got)
	}
	if got := testutil.ToFloat64(reg.HTTPRequestsTotal.WithLabelValues("POST", "/get", "404")); got != 1 {
		t.Errorf("get 404 requests = %v", got)
	}

	resp, err := ts.Client().Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	text, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(text), "kiwi_http_requests_total") {
		t.Errorf("/metrics status=%d body lacks kiwi_http_requests_total", resp.StatusCode)
	}
}

func TestRouter_MetricsNotExposed(t *testing.T) {
	kv := service.NewKVService(memory.New())
	ts := httptest.NewServer(NewRouter(&RouterConfig{
		Handler: handler.New(kv, nil),
		Metrics: metric.NewRegistry(),
	}))
	defer ts.Close()

	resp, err := ts.Client().Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestServer_StartShutdown(t *testing.T) {
	s := New("127.0.0.1:0", newTestRouter(t, nil, 0), nil)
	if s.Addr() != nil {
		t.Error("Addr() before Start should be nil")
	}

	errCh := make(chan error, 1)
	if err := s.Start(errCh); err != nil {
		t.Fatalf("Start: %v", err)
	}

	resp, err := http.Get("http://" + s.Addr().String() + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("health status = %d", resp.StatusCode)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		t.Errorf("Shutdown: %v", err)
	}

	select {
	case err := <-errCh:
		t.Errorf("unexpected serve error: %v", err)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestServer_StartBindError(t *testing.T) {
	s := New("256.0.0.1:99999", http.NotFoundHandler(), nil)
	if err := s.Start(nil); err == nil {
		t.Error("expected bind error")
	}
}
