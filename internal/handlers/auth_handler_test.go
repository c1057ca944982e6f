package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskdesk/internal/repositories"
	"taskdesk/testutil"
)

func TestLogin_Success(t *testing.T) {
	r, _ := testutil.SetupTestRouter(t)

	t.Run("admin", func(t *testing.T) {
		w := testutil.Do(r, http.MethodPost, "/login", map[string]string{"identifier": "admin", "password": "Admin123"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		body := testutil.DecodeJSON(t, w)
		assert.Equal(t, "/admin-dashboard", body["redirect"])
		assert.Equal(t, map[string]any{"role": "admin", "username": "admin"}, body["session"])

		cookie := testutil.FindCookie(w, "currentUser")
		require.NotNil(t, cookie, "Expected currentUser cookie to be set")
		assert.True(t, cookie.HttpOnly)
	})

	t.Run("user with mixed-case email", func(t *testing.T) {
		w := testutil.Do(r, http.MethodPost, "/login", map[string]string{"identifier": "JOHN@example.com", "password": "Password1"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		body := testutil.DecodeJSON(t, w)
		assert.Equal(t, "/", body["redirect"])
		session := body["session"].(map[string]any)
		assert.Equal(t, "user", session["role"])
		assert.Equal(t, float64(1), session["id"])
		assert.Equal(t, "John Doe", session["name"])
	})

	t.Run("form encoded body", func(t *testing.T) {
		form := url.Values{"identifier": {"admin"}, "password": {"Admin123"}}
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	})
}

func TestLogin_Failures(t *testing.T) {
	r, _ := testutil.SetupTestRouter(t)

	t.Run("wrong password", func(t *testing.T) {
		w := testutil.Do(r, http.MethodPost, "/login", map[string]string{"identifier": "john@example.com", "password": "nope"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.JSONEq(t, `{"error":"Invalid credentials"}`, w.Body.String())
		assert.Nil(t, testutil.FindCookie(w, "currentUser"))
	})

	t.Run("missing fields", func(t *testing.T) {
		w := testutil.Do(r, http.MethodPost, "/login", map[string]string{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		body := testutil.DecodeJSON(t, w)
		assert.Equal(t, map[string]any{
			"identifier": "Username / Email is required",
			"password":   "Password is required",
		}, body["errors"])
	})

	t.Run("malformed JSON", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader("{"))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error":"Invalid request payload"}`, w.Body.String())
	})
}

func TestLogin_UpstreamFailure(t *testing.T) {
	srv := testutil.SetupFailingServer(t)
	r := testutil.NewRouterFor(srv.URL)

	w := testutil.Do(r, http.MethodPost, "/login", map[string]string{"identifier": "admin", "password": "Admin123"})
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.JSONEq(t, `{"error":"Something went wrong. Please try again."}`, w.Body.String())
}

func TestRegister_FlowWithFlash(t *testing.T) {
	r, store := testutil.SetupTestRouter(t)

	w := testutil.Do(r, http.MethodPost, "/register", map[string]string{
		"name":     "Kim Park",
		"email":    "kim@example.com",
		"password": "Secret1",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.JSONEq(t, `{"redirect":"/login"}`, w.Body.String())

	users, err := store.ListUsers(context.Background(), repositories.UserFilter{})
	require.NoError(t, err)
	assert.Len(t, users, 4)

	flash := testutil.FindCookie(w, "registerSuccess")
	require.NotNil(t, flash, "Expected flash cookie after registration")

	// 次のログイン画面で1度だけ表示される
	w = testutil.Do(r, http.MethodGet, "/login", nil, flash)
	require.Equal(t, http.StatusOK, w.Code)
	body := testutil.DecodeJSON(t, w)
	assert.Equal(t, "Account created successfully! Please login.", body["flash"])

	cleared := testutil.FindCookie(w, "registerSuccess")
	require.NotNil(t, cleared, "Expected flash cookie to be cleared")
	assert.Less(t, cleared.MaxAge, 0)

	w = testutil.Do(r, http.MethodGet, "/login", nil)
	body = testutil.DecodeJSON(t, w)
	assert.Equal(t, "", body["flash"])
}

func TestRegister_Validation(t *testing.T) {
	r, _ := testutil.SetupTestRouter(t)

	t.Run("field errors", func(t *testing.T) {
		w := testutil.Do(r, http.MethodPost, "/register", map[string]string{
			"name":     "K",
			"email":    "not-an-email",
			"password": "abc",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		body := testutil.DecodeJSON(t, w)
		assert.Equal(t, map[string]any{
			"name":     "Name must be at least 2 characters",
			"email":    "Invalid email address",
			"password": "Password must contain at least one number",
		}, body["errors"])
	})

	t.Run("password failing several rules reports the last", func(t *testing.T) {
		w := testutil.Do(r, http.MethodPost, "/register", map[string]string{
			"name":     "Kim",
			"email":    "kim2@example.com",
			"password": "abcdefg",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		body := testutil.DecodeJSON(t, w)
		errs := body["errors"].(map[string]any)
		assert.Equal(t, "Password must contain at least one number", errs["password"])
	})

	t.Run("duplicate email", func(t *testing.T) {
		w := testutil.Do(r, http.MethodPost, "/register", map[string]string{
			"name":     "Johnny",
			"email":    "John@Example.com",
			"password": "Secret1",
		})
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.JSONEq(t, `{"errors":{"email":"User with this email already exists"}}`, w.Body.String())
	})
}

func TestLogout(t *testing.T) {
	r, _ := testutil.SetupTestRouter(t)
	cookie := testutil.LoginAsUser(t, r)

	w := testutil.Do(r, http.MethodPost, "/logout", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"redirect":"/login"}`, w.Body.String())

	cleared := testutil.FindCookie(w, "currentUser")
	require.NotNil(t, cleared)
	assert.Less(t, cleared.MaxAge, 0)
}
