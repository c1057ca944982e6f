package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"taskdesk/internal/apiclient"
	"taskdesk/internal/config"
	"taskdesk/internal/mockserver"
	"taskdesk/internal/repositories"
	"taskdesk/internal/routes"
)

// TestSessionSecret はテスト用のセッション署名鍵です。
const TestSessionSecret = "test-session-secret"

// SetupMockServer は組み込みフィクスチャを読み込んだメモリストアでモックサーバーを起動します。
// サーバーはテスト終了時に停止します。
func SetupMockServer(t *testing.T) (*httptest.Server, *repositories.MemoryStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f, err := repositories.LoadFixture("")
	require.NoError(t, err)
	store := repositories.NewMemoryStore(f)

	srv := httptest.NewServer(mockserver.NewRouter(store, nil))
	t.Cleanup(srv.Close)
	return srv, store
}

// SetupFailingServer は常に 500 を返すサーバーを起動します。
func SetupFailingServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "upstream failure", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)
	return srv
}

// NewTestConfig は baseURL のモックサーバーに接続するテスト用の設定です。
func NewTestConfig(baseURL string) *config.Config {
	return &config.Config{
		Port:              "0",
		MockServerBaseURL: baseURL,
		SessionSecret:     TestSessionSecret,
		SessionTTL:        time.Hour,
		AllowOrigins:      []string{"http://localhost:5173"},
		HTTPTimeout:       5 * time.Second,
		StoreDriver:       "memory",
	}
}

// SetupTestRouter はモックサーバーと、それに接続した web ルーターを用意します。
func SetupTestRouter(t *testing.T) (*gin.Engine, *repositories.MemoryStore) {
	t.Helper()
	srv, store := SetupMockServer(t)
	return NewRouterFor(srv.URL), store
}

// NewRouterFor は baseURL に接続する web ルーターを作成します。
func NewRouterFor(baseURL string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := NewTestConfig(baseURL)
	return routes.SetupRouter(cfg, apiclient.New(cfg.MockServerBaseURL, cfg.HTTPTimeout))
}

// Do はリクエストを送り、レスポンスを返します。body が nil でなければ JSON で送ります。
func Do(r http.Handler, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	buf := &bytes.Buffer{}
	if body != nil {
		b, _ := json.Marshal(body)
		buf = bytes.NewBuffer(b)
	}
	req := httptest.NewRequest(method, path, buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return Serve(r, req)
}

// Serve は組み立て済みのリクエストを処理します。
func Serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// Login はログインし、発行された currentUser クッキーを返します。
func Login(t *testing.T, r http.Handler, identifier, password string) *http.Cookie {
	t.Helper()
	w := Do(r, http.MethodPost, "/login", map[string]string{
		"identifier": identifier,
		"password":   password,
	})
	require.Equal(t, http.StatusOK, w.Code, "login failed: %s", w.Body.String())

	cookie := FindCookie(w, "currentUser")
	require.NotNil(t, cookie, "currentUser cookie was not set")
	return cookie
}

// LoginAsAdmin はフィクスチャの管理者でログインします。
func LoginAsAdmin(t *testing.T, r http.Handler) *http.Cookie {
	return Login(t, r, "admin", "Admin123")
}

// LoginAsUser はフィクスチャの John Doe (ID 1) でログインします。
func LoginAsUser(t *testing.T, r http.Handler) *http.Cookie {
	return Login(t, r, "john@example.com", "Password1")
}

// FindCookie はレスポンスの Set-Cookie から name のクッキーを探します。
func FindCookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// DecodeJSON はレスポンスボディを map に変換します。
func DecodeJSON(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}
