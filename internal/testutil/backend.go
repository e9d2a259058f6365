package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
)

// Request is one request received by the fake backend.
type Request struct {
	Form   url.Values
	Method string
	Path   string
	Body   []byte
}

// Backend is a chi routed fake of the banking backend. Routes that are not
// registered answer 404.
type Backend struct {
	router   chi.Router
	server   *httptest.Server
	requests []Request
	mu       sync.Mutex
}

// NewBackend starts a fake backend that is closed when the test ends.
func NewBackend(t *testing.T) *Backend {
	t.Helper()

	b := &Backend{router: chi.NewRouter()}
	b.router.Use(b.record)
	b.server = httptest.NewServer(b.router)
	t.Cleanup(b.server.Close)

	return b
}

// URL returns the base URL of the fake backend.
func (b *Backend) URL() string {
	return b.server.URL
}

// Handle registers a handler for method and chi pattern.
func (b *Backend) Handle(method, pattern string, h http.HandlerFunc) {
	b.router.MethodFunc(method, pattern, h)
}

// JSON registers a route that answers with body encoded as JSON.
func (b *Backend) JSON(method, pattern string, status int, body any) {
	b.Handle(method, pattern, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	})
}

// HTML registers a route that answers with a raw HTML fragment.
func (b *Backend) HTML(pattern, fragment string) {
	b.Handle(http.MethodGet, pattern, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = io.WriteString(w, fragment)
	})
}

// Raw registers a route that answers with body as is.
func (b *Backend) Raw(method, pattern string, status int, body string) {
	b.Handle(method, pattern, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	})
}

// Requests returns a copy of the requests received so far.
func (b *Backend) Requests() []Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Request(nil), b.requests...)
}

// Paths returns "METHOD /path" for every request received so far.
func (b *Backend) Paths() []string {
	reqs := b.Requests()
	out := make([]string, len(reqs))
	for i, r := range reqs {
		out[i] = r.Method + " " + r.Path
	}
	return out
}

func (b *Backend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = r.Body.Close()

		rec := Request{
			Method: r.Method,
			Path:   r.URL.EscapedPath(),
			Body:   body,
		}
		if r.Header.Get("Content-Type") == "application/x-www-form-urlencoded" {
			rec.Form, _ = url.ParseQuery(string(body))
		}

		b.mu.Lock()
		b.requests = append(b.requests, rec)
		b.mu.Unlock()

		r.Body = io.NopCloser(bytes.NewReader(body))
		next.ServeHTTP(w, r)
	})
}

// Success is the backend's success envelope.
func Success(header, message string) map[string]any {
	return map[string]any{"success": message, "header": header}
}

// Failure is the backend's error envelope.
func Failure(header, message string) map[string]any {
	return map[string]any{"error": message, "header": header}
}

// LoginError is the message the fake login form shows for wrong credentials.
const LoginError = "Login failed. Either the email or password was incorrect."

// Login registers a login form that accepts email and password, sets the
// user_id cookie to session and redirects home. Other credentials re-render
// the form with LoginError.
func (b *Backend) Login(email, password, session string) {
	b.Handle(http.MethodPost, "/login", func(w http.ResponseWriter, r *http.Request) {
		if r.PostFormValue("email") != email || r.PostFormValue("password") != password {
			_, _ = w.Write([]byte(`<form class="login-form"><p id="error">` + LoginError + `</p></form>`))
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "user_id", Value: session, Path: "/"})
		http.Redirect(w, r, "/home", http.StatusSeeOther)
	})
}

// Authenticated registers an HTML route that answers 401 unless the request
// carries the user_id cookie session.
func (b *Backend) Authenticated(pattern, session, fragment string) {
	b.Handle(http.MethodGet, pattern, func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie("user_id")
		if err != nil || cookie.Value != session {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(fragment))
	})
}
