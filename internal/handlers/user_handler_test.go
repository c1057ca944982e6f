package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskdesk/internal/handlers"
	"taskdesk/testutil"
)

func TestUserDashboard(t *testing.T) {
	r, _ := testutil.SetupTestRouter(t)
	cookie := testutil.LoginAsUser(t, r)

	w := testutil.Do(r, http.MethodGet, "/", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := testutil.DecodeJSON(t, w)
	assert.Equal(t, "John Doe", body["name"])
	assert.NotContains(t, body, "message")

	page := body["todos"].(map[string]any)
	assert.Equal(t, float64(3), page["total"])
	assert.Equal(t, float64(5), page["rowsPerPage"])
	assert.Equal(t, []any{float64(5), float64(10), float64(25)}, page["rowsPerPageOptions"])

	items := page["items"].([]any)
	require.Len(t, items, 3)
	first := items[0].(map[string]any)
	assert.Equal(t, "Prepare sprint demo", first["title"])
	assert.Equal(t, "primary", first["statusColor"])
	assert.Equal(t, "error", first["priorityColor"])
	assert.Contains(t, first["remaining"], "day(s) left")
}

func TestUserDashboard_Pagination(t *testing.T) {
	r, _ := testutil.SetupTestRouter(t)
	cookie := testutil.LoginAsUser(t, r)

	w := testutil.Do(r, http.MethodGet, "/?page=7&rowsPerPage=20", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)

	page := testutil.DecodeJSON(t, w)["todos"].(map[string]any)
	assert.Equal(t, float64(5), page["rowsPerPage"], "20 is not an option on the user dashboard")
	assert.Equal(t, float64(0), page["page"], "page is clamped to the last page")
}

func TestUserDashboard_Empty(t *testing.T) {
	r, _ := testutil.SetupTestRouter(t)
	cookie := testutil.Login(t, r, "sam@example.com", "Password3")

	w := testutil.Do(r, http.MethodGet, "/", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)

	body := testutil.DecodeJSON(t, w)
	assert.Equal(t, "No tasks assigned yet.", body["message"])
	page := body["todos"].(map[string]any)
	assert.Equal(t, []any{}, page["items"])
}

func TestUserStream(t *testing.T) {
	r, _ := testutil.SetupTestRouter(t)
	cookie := testutil.LoginAsUser(t, r)

	orig := handlers.StreamInterval
	handlers.StreamInterval = 10 * time.Millisecond
	defer func() { handlers.StreamInterval = orig }()

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, "/stream", nil).WithContext(ctx)
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/event-stream")

	out := w.Body.String()
	assert.GreaterOrEqual(t, strings.Count(out, "event:remaining"), 2, out)
	assert.Contains(t, out, `"id":1`)
	assert.Contains(t, out, `"remaining":`)
}
