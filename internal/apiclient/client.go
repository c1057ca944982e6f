// Package apiclient はモックREST サーバー (/users, /todo, /auth) を呼び出すクライアントです。
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"taskdesk/internal/models"
)

// ErrNotFound は 404 が返った場合のエラーです。
var ErrNotFound = errors.New("resource not found")

// APIError は 2xx 以外のレスポンスを表します。
type APIError struct {
	StatusCode int
	Method     string
	Path       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.Path, e.StatusCode)
}

// Is は 404 を ErrNotFound として扱えるようにします。
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// Client はモックサーバーへの HTTP クライアントです。
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New は baseURL に対する Client を作成します。
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// NewWithHTTPClient は任意の http.Client を使う Client を作成します (テスト用)。
func NewWithHTTPClient(baseURL string, hc *http.Client) *Client {
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpClient: hc}
}

// BaseURL は接続先を返します。
func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return &APIError{StatusCode: resp.StatusCode, Method: method, Path: path}
	}
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: failed to decode response: %w", method, path, err)
	}
	return nil
}

// ListUsers は GET /users です。
func (c *Client) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := c.do(ctx, http.MethodGet, "/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// FindUsersByEmail は GET /users?email= です。
func (c *Client) FindUsersByEmail(ctx context.Context, email string) ([]models.User, error) {
	var users []models.User
	path := "/users?" + url.Values{"email": {email}}.Encode()
	if err := c.do(ctx, http.MethodGet, path, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// CreateUser は POST /users です。
func (c *Client) CreateUser(ctx context.Context, u models.User) (*models.User, error) {
	var created models.User
	if err := c.do(ctx, http.MethodPost, "/users", u, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// GetAdmin は GET /auth です。
func (c *Client) GetAdmin(ctx context.Context) (*models.Admin, error) {
	var admin models.Admin
	if err := c.do(ctx, http.MethodGet, "/auth", nil, &admin); err != nil {
		return nil, err
	}
	return &admin, nil
}

// Ping はモックサーバーに到達できるか確認します。
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/auth", nil, nil)
}

// ListTodos は GET /todo です。
func (c *Client) ListTodos(ctx context.Context) ([]models.Todo, error) {
	var todos []models.Todo
	if err := c.do(ctx, http.MethodGet, "/todo", nil, &todos); err != nil {
		return nil, err
	}
	return todos, nil
}

// ListTodosByUser は GET /todo?assignedUser= です。
func (c *Client) ListTodosByUser(ctx context.Context, userID int) ([]models.Todo, error) {
	var todos []models.Todo
	path := "/todo?" + url.Values{"assignedUser": {strconv.Itoa(userID)}}.Encode()
	if err := c.do(ctx, http.MethodGet, path, nil, &todos); err != nil {
		return nil, err
	}
	return todos, nil
}

// GetTodo は GET /todo/{id} です。
func (c *Client) GetTodo(ctx context.Context, id int) (*models.Todo, error) {
	var t models.Todo
	if err := c.do(ctx, http.MethodGet, "/todo/"+strconv.Itoa(id), nil, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// CreateTodo は POST /todo です。
func (c *Client) CreateTodo(ctx context.Context, t models.Todo) (*models.Todo, error) {
	var created models.Todo
	if err := c.do(ctx, http.MethodPost, "/todo", t, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// PatchTodo は PATCH /todo/{id} です。
func (c *Client) PatchTodo(ctx context.Context, id int, patch models.TodoPatch) (*models.Todo, error) {
	var updated models.Todo
	if err := c.do(ctx, http.MethodPatch, "/todo/"+strconv.Itoa(id), patch, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteTodo は DELETE /todo/{id} です。
func (c *Client) DeleteTodo(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, "/todo/"+strconv.Itoa(id), nil, nil)
}
