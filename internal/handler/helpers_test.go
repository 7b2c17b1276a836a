package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rc397/FlavorMap/internal/domain"
	"github.com/rc397/FlavorMap/internal/handler"
	"github.com/rc397/FlavorMap/internal/static"
)

// mockSpotServicer is a test double for handler.SpotServicer.
// Set only the method fields your test needs.
type mockSpotServicer struct {
	list   func(ctx context.Context) ([]domain.Spot, error)
	create func(ctx context.Context, in domain.SpotInput) (domain.Spot, error)
}

func (m *mockSpotServicer) List(ctx context.Context) ([]domain.Spot, error) {
	return m.list(ctx)
}
func (m *mockSpotServicer) Create(ctx context.Context, in domain.SpotInput) (domain.Spot, error) {
	return m.create(ctx, in)
}

// compile-time check: mockSpotServicer must satisfy handler.SpotServicer.
var _ handler.SpotServicer = (*mockSpotServicer)(nil)

// ---- helpers ---------------------------------------------------------------

// newHTTPHandler wires the router with the given servicer and no static bundle.
func newHTTPHandler(svc handler.SpotServicer) http.Handler {
	return handler.NewRouter(handler.Options{Spots: svc})
}

func spotFixture(id, name string) domain.Spot {
	return domain.Spot{
		ID:        id,
		Name:      name,
		Lat:       40.7128,
		Lng:       -74.006,
		Cuisine:   "Pizza",
		Emoji:     "🍕",
		Note:      "thin crust",
		CreatedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func validPayload() map[string]any {
	return map[string]any{
		"name":    "Joe's Pizza",
		"lat":     40.7128,
		"lng":     -74.006,
		"cuisine": "Pizza",
		"emoji":   "🍕",
		"note":    "thin crust",
	}
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, h http.Handler, method, target string, body *bytes.Buffer) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == nil {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, body)
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp.Error
}

// newStaticRoot builds <tmp>/secret.txt next to an asset root holding
// index.html, app.js, css/site.css and api/doc.txt, and returns a Resolver for the root.
func newStaticRoot(t *testing.T) *static.Resolver {
	t.Helper()
	base := t.TempDir()
	root := filepath.Join(base, "static")
	files := map[string]string{
		filepath.Join(base, "secret.txt"):        "top secret",
		filepath.Join(root, "index.html"):        "<!doctype html><title>FlavorMap</title>",
		filepath.Join(root, "app.js"):            "console.log('map')",
		filepath.Join(root, "css", "site.css"):   "body{margin:0}",
		filepath.Join(root, "css", "index.html"): "<p>styles</p>",
		filepath.Join(root, "api", "doc.txt"):    "api notes",
	}
	for p, body := range files {
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	}
	r, err := static.New(root)
	require.NoError(t, err)
	return r
}
