package integration

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

type echoPayload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestGetDecodesSuccessBody(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.Method != http.MethodGet {
			t.Errorf("method = %s, want GET", r.Method)
		}
		if r.URL.Path != "/api/v1/things/42" {
			t.Errorf("path = %s, want /api/v1/things/42", r.URL.Path)
		}
		if accept := r.Header.Get("Accept"); accept != "application/json" {
			t.Errorf("Accept = %q, want application/json", accept)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"name":"thing","count":3}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	got, err := Get[echoPayload](context.Background(), c, "/api/v1/things/42")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Name != "thing" || got.Count != 3 {
		t.Errorf("Get() = %+v, want {thing 3}", got)
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}
}

func TestPostSendsJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q, want application/json", ct)
		}
		var in echoPayload
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if in.Name != "in" {
			t.Errorf("request name = %q, want in", in.Name)
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"name":"out","count":1}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	got, err := Post[echoPayload](context.Background(), c, "/api/v1/things", echoPayload{Name: "in"})
	if err != nil {
		t.Fatalf("Post() error = %v", err)
	}
	if got.Name != "out" {
		t.Errorf("Post() name = %q, want out", got.Name)
	}
}

func TestAccepts2xxRange(t *testing.T) {
	for _, status := range []int{200, 201, 202, 204} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(status)
			}))
			defer srv.Close()

			c := NewClient(srv.URL, time.Second)
			if _, err := Get[struct{}](context.Background(), c, "/x"); err != nil {
				t.Errorf("status %d: unexpected error %v", status, err)
			}
		})
	}
}

func TestEmptySuccessBodyDecodesToZeroValue(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	got, err := Get[echoPayload](context.Background(), c, "/x")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != (echoPayload{}) {
		t.Errorf("Get() = %+v, want zero value", got)
	}
}

func TestRemoteErrorCarriesStatusAndBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"error":"overloaded"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	_, err := Get[echoPayload](context.Background(), c, "/x")
	if !errors.Is(err, ErrRemote) {
		t.Fatalf("error = %v, want ErrRemote", err)
	}

	status, ok := RemoteStatus(err)
	if !ok || status != http.StatusServiceUnavailable {
		t.Errorf("RemoteStatus() = %d, %v; want 503, true", status, ok)
	}
	if !strings.Contains(err.Error(), "overloaded") {
		t.Errorf("error message %q should carry the response body", err.Error())
	}
}

func TestRemoteErrorBodyIsTruncated(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(strings.Repeat("x", 10*maxErrorBody)))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	_, err := Get[echoPayload](context.Background(), c, "/x")

	var callErr *CallError
	if !errors.As(err, &callErr) {
		t.Fatalf("error = %v, want *CallError", err)
	}
	if len(callErr.Body) > maxErrorBody {
		t.Errorf("body length = %d, want <= %d", len(callErr.Body), maxErrorBody)
	}
}

func TestDecodeErrorOnMalformedSuccessBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"name": truncated`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	_, err := Get[echoPayload](context.Background(), c, "/x")
	if !errors.Is(err, ErrDecode) {
		t.Fatalf("error = %v, want ErrDecode", err)
	}
	if _, ok := RemoteStatus(err); ok {
		t.Error("decode failures must not report a remote status")
	}
}

func TestDecodeErrorOnUnserializableRequestBody(t *testing.T) {
	c := NewClient("http://unused.invalid", time.Second)
	_, err := Post[struct{}](context.Background(), c, "/x", map[string]any{"bad": make(chan int)})
	if !errors.Is(err, ErrDecode) {
		t.Fatalf("error = %v, want ErrDecode", err)
	}
}

func TestTimeoutClassification(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	c := NewClient(srv.URL, 50*time.Millisecond)
	start := time.Now()
	_, err := Get[echoPayload](context.Background(), c, "/slow")
	elapsed := time.Since(start)

	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("error = %v, want ErrTimeout", err)
	}
	if errors.Is(err, ErrTransport) {
		t.Error("timeout must not also match ErrTransport")
	}
	if elapsed > time.Second {
		t.Errorf("call took %v, want abandonment near the 50ms budget", elapsed)
	}
}

func TestTransportClassificationOnRefusedConnection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewClient(url, time.Second)
	_, err := Get[echoPayload](context.Background(), c, "/x")
	if !errors.Is(err, ErrTransport) {
		t.Fatalf("error = %v, want ErrTransport", err)
	}
	if errors.Is(err, ErrTimeout) {
		t.Error("connection refusal must not match ErrTimeout")
	}
}

func TestNewClientNormalizesBaseURL(t *testing.T) {
	c := NewClient("http://example.test/base/", time.Second)
	if c.BaseURL() != "http://example.test/base" {
		t.Errorf("BaseURL() = %q, want trailing slash trimmed", c.BaseURL())
	}
}

func TestNewClientDefaultTimeout(t *testing.T) {
	c := NewClient("http://example.test", 0)
	if c.Timeout() != DefaultTimeout {
		t.Errorf("Timeout() = %v, want %v", c.Timeout(), DefaultTimeout)
	}
}

func TestHealthCheck(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		var path atomic.Value
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path.Store(r.URL.Path)
			w.Write([]byte(`{"status":"ok"}`))
		}))
		defer srv.Close()

		c := NewClient(srv.URL, time.Second)
		if !c.HealthCheck(context.Background()) {
			t.Error("HealthCheck() = false, want true")
		}
		if got := path.Load(); got != "/health" {
			t.Errorf("probe path = %v, want /health", got)
		}
	})

	t.Run("remote failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		c := NewClient(srv.URL, time.Second)
		if c.HealthCheck(context.Background()) {
			t.Error("HealthCheck() = true, want false on 500")
		}
	})

	t.Run("unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		url := srv.URL
		srv.Close()

		c := NewClient(url, time.Second)
		if c.HealthCheck(context.Background()) {
			t.Error("HealthCheck() = true, want false when unreachable")
		}
	})

	t.Run("timeout", func(t *testing.T) {
		release := make(chan struct{})
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-release
		}))
		defer srv.Close()
		defer close(release)

		c := NewClient(srv.URL, 50*time.Millisecond)
		if c.HealthCheck(context.Background()) {
			t.Error("HealthCheck() = true, want false on timeout")
		}
	})
}

func TestRepeatedGetsAreIndependent(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{"name":"same","count":1}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	for i := 0; i < 3; i++ {
		got, err := Get[echoPayload](context.Background(), c, "/x")
		if err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
		if got.Name != "same" {
			t.Errorf("call %d: name = %q, want same", i, got.Name)
		}
	}
	if calls.Load() != 3 {
		t.Errorf("calls = %d, want one request per Get", calls.Load())
	}
}
