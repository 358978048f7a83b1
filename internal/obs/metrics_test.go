package obs

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCanonicalPath(t *testing.T) {
	cases := map[string]string{
		"":                            "/",
		"/metrics":                    "/metrics",
		"/v1/departments/42":          "/v1/departments/:id",
		"/v1/employees/me":            "/v1/employees/me",
		"/v1/employees/7":             "/v1/employees/:id",
		"/v1/leave-requests/9":        "/v1/leave-requests/:id",
		"/v1/departments":             "/v1/departments",
		"/v1/transactions?limit=10":   "/v1/transactions",
		"/v1/events/3":                "/v1/events/:id",
		"/v1/auth/login":              "/v1/auth/login",
		"/healthz":                    "/healthz",
	}
	for input, expected := range cases {
		if got := CanonicalPath(input); got != expected {
			t.Fatalf("CanonicalPath(%q)=%q, want %q", input, got, expected)
		}
	}
}

// flushRecorder stands in for the server connection under a streaming handler.
type flushRecorder struct {
	*httptest.ResponseRecorder
	flushed bool
}

func (f *flushRecorder) Flush() { f.flushed = true }

func TestInstrumentPropagatesFlush(t *testing.T) {
	handler := Instrument(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f, ok := w.(http.Flusher)
		if !ok {
			t.Fatal("instrumented writer is not a Flusher")
		}
		f.Flush()
	}))

	rec := &flushRecorder{ResponseRecorder: httptest.NewRecorder()}
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/feed", nil))

	if !rec.flushed {
		t.Fatal("Flush did not reach the underlying writer")
	}
}
