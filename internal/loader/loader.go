// Package loader fetches page fragments, extracts their data islands and
// hands them to the page handlers.
package loader

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/Veraticus/bankdash/internal/api"
	"github.com/Veraticus/bankdash/internal/common"
	"github.com/Veraticus/bankdash/internal/state"
	"github.com/go-chi/chi/v5"
)

// Route names a page kind.
type Route string

// Routes.
const (
	RouteDashboard    Route = "dashboard"
	RouteBank         Route = "bank"
	RouteContracts    Route = "contracts"
	RouteTransactions Route = "transactions"
	RouteAddBank      Route = "add-bank"
	RouteSettings     Route = "settings"
	RouteLogout       Route = "logout"
)

// Paths the loader redirects to.
const (
	HomePath  = "/"
	ErrorPath = "/error?error_title=Error%20validating%20the%20login!&error_message=Please%20login%20again."
)

var routes = map[string]Route{
	api.PathDashboard:    RouteDashboard,
	"/bank/{id:[0-9]+}":  RouteBank,
	api.PathContracts:    RouteContracts,
	api.PathTransactions: RouteTransactions,
	api.PathAddBank:      RouteAddBank,
	api.PathSettings:     RouteSettings,
	api.PathLogout:       RouteLogout,
}

// Page is a loaded fragment.
type Page struct {
	Response *api.Envelope
	BankID   *int64
	Islands  Islands
	Route    Route
	Path     string
	HTML     string
	Redirect string
}

// Handler initializes the controller of a page.
type Handler func(ctx context.Context, p *Page) error

// Fetcher loads fragments from the backend. *api.Client satisfies it.
type Fetcher interface {
	Fragment(ctx context.Context, path string) (string, error)
	Logout(ctx context.Context) error
}

// Store persists the last visited page.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
}

// Loader navigates between pages. Only the newest navigation's result is
// applied; older ones return common.ErrSuperseded.
type Loader struct {
	fetcher  Fetcher
	store    Store
	router   *chi.Mux
	handlers map[Route]Handler
	current  *Page
	gen      uint64
	mu       sync.Mutex
}

// New creates a loader.
func New(fetcher Fetcher, store Store) *Loader {
	router := chi.NewRouter()
	for pattern := range routes {
		router.Get(pattern, func(http.ResponseWriter, *http.Request) {})
	}
	return &Loader{
		fetcher:  fetcher,
		store:    store,
		router:   router,
		handlers: make(map[Route]Handler),
	}
}

// Handle registers the handler run after a page of route loaded.
func (l *Loader) Handle(route Route, h Handler) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.handlers[route] = h
}

// Match resolves a path to its route and URL parameters.
func (l *Loader) Match(path string) (Route, map[string]string, error) {
	rctx := chi.NewRouteContext()
	pattern := l.router.Find(rctx, http.MethodGet, path)
	route, ok := routes[pattern]
	if !ok {
		return "", nil, fmt.Errorf("%w: no page for %s", common.ErrNotFound, path)
	}
	params := make(map[string]string, len(rctx.URLParams.Keys))
	for i, key := range rctx.URLParams.Keys {
		params[key] = rctx.URLParams.Values[i]
	}
	return route, params, nil
}

// normalize strips scheme, host and query from target.
func normalize(target string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(target))
	if err != nil {
		return "", fmt.Errorf("invalid page url %q: %w", target, err)
	}
	path := u.Path
	if path == "" {
		path = "/"
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	return path, nil
}

func (l *Loader) begin() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.gen++
	return l.gen
}

func (l *Loader) isCurrent(gen uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return gen == l.gen
}

// Navigate loads the page at target, runs its handler and remembers it as
// the page to restore.
func (l *Loader) Navigate(ctx context.Context, target string) (*Page, error) {
	path, err := normalize(target)
	if err != nil {
		return nil, err
	}
	route, params, err := l.Match(path)
	if err != nil {
		return nil, err
	}
	gen := l.begin()

	if route == RouteLogout {
		return l.logout(ctx, gen)
	}

	fragment, err := l.fetcher.Fragment(ctx, path)
	if !l.isCurrent(gen) {
		slog.Debug("Dropping superseded navigation", "path", path)
		return nil, common.ErrSuperseded
	}
	if err != nil {
		return nil, err
	}

	if strings.Contains(fragment, api.SessionInvalidMarker) {
		slog.Warn("Session is no longer valid", "path", path)
		return &Page{Path: path, Route: route, Redirect: ErrorPath}, common.ErrSessionInvalid
	}

	page := &Page{
		Path:    path,
		Route:   route,
		HTML:    fragment,
		Islands: ExtractIslands(fragment),
	}
	if id, ok := params["id"]; ok {
		if v, parseErr := strconv.ParseInt(id, 10, 64); parseErr == nil {
			page.BankID = &v
		}
	}
	if raw, ok := page.Islands[IslandResponse]; ok {
		page.Response = parseResponse(raw)
	}

	if err := l.dispatch(ctx, page); err != nil {
		return page, err
	}
	if !l.isCurrent(gen) {
		return nil, common.ErrSuperseded
	}

	l.mu.Lock()
	l.current = page
	l.mu.Unlock()

	if err := l.store.Set(ctx, state.KeyOldURL, path); err != nil {
		common.LogError(err, "Failed to remember page", "path", path)
	}
	return page, nil
}

func (l *Loader) dispatch(ctx context.Context, page *Page) error {
	l.mu.Lock()
	h, ok := l.handlers[page.Route]
	l.mu.Unlock()
	if !ok {
		return nil
	}

	err := h(ctx, page)
	if errors.Is(err, common.ErrMissingDataIsland) {
		slog.Warn("Page is missing its data", "path", page.Path, "error", err)
		return nil
	}
	return err
}

func (l *Loader) logout(ctx context.Context, gen uint64) (*Page, error) {
	if err := l.fetcher.Logout(ctx); err != nil {
		return nil, err
	}
	if err := l.store.Delete(ctx, state.KeyOldURL, state.KeySession); err != nil {
		common.LogError(err, "Failed to forget page")
	}
	page := &Page{Path: api.PathLogout, Route: RouteLogout, Redirect: HomePath}
	if l.isCurrent(gen) {
		l.mu.Lock()
		l.current = nil
		l.mu.Unlock()
	}
	return page, nil
}

// Leave drops pending navigations, forgets the remembered page and session
// and returns a page that redirects out of the client, to target.
func (l *Loader) Leave(ctx context.Context, target string) *Page {
	l.begin()
	if err := l.store.Delete(ctx, state.KeyOldURL, state.KeySession); err != nil {
		common.LogError(err, "Failed to forget page")
	}
	l.mu.Lock()
	l.current = nil
	l.mu.Unlock()
	return &Page{Path: target, Redirect: target}
}

// Restore navigates to the remembered page, or the dashboard.
func (l *Loader) Restore(ctx context.Context) (*Page, error) {
	target := api.PathDashboard
	old, ok, err := l.store.Get(ctx, state.KeyOldURL)
	if err != nil {
		common.LogError(err, "Failed to read remembered page")
	}
	if ok && old != "" && old != api.PathLogout {
		target = old
	}
	return l.Navigate(ctx, target)
}

// Current returns the last page that finished loading.
func (l *Loader) Current() *Page {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.current
}
