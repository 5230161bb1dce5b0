package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventory/internal/core/apperror"
	appctx "inventory/internal/core/context"
	"inventory/internal/domain/auth"
	"inventory/internal/infrastructure/storage/memory"
)

func newEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Recovery(), Trace(), ErrorHandler())
	r.Use(handlers...)
	return r
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

type stubValidator struct {
	user *appctx.UserContext
	err  error
}

func (s stubValidator) ValidateToken(string) (*appctx.UserContext, error) {
	return s.user, s.err
}

func TestErrorHandler_HidesInternalDetails(t *testing.T) {
	r := newEngine()
	r.GET("/boom", func(c *gin.Context) {
		_ = c.Error(errors.New("db password leaked in message"))
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	req.Header.Set(HeaderRequestID, "req-42")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "password")
	body := decodeBody(t, w)
	assert.Equal(t, apperror.CodeInternal, body["code"])
	assert.Equal(t, "req-42", body["details"].(map[string]any)["request_id"])
	assert.Equal(t, "req-42", w.Header().Get(HeaderRequestID))
}

func TestErrorHandler_RendersAppError(t *testing.T) {
	r := newEngine()
	r.GET("/missing", func(c *gin.Context) {
		_ = c.Error(apperror.NewNotFound("product", "p-1"))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))

	require.Equal(t, http.StatusNotFound, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, apperror.CodeNotFound, body["code"])
	assert.NotEmpty(t, body["message"])
}

func TestRecovery_ReturnsInternalError(t *testing.T) {
	r := newEngine()
	r.GET("/panic", func(c *gin.Context) { panic("kaboom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "kaboom")
}

func TestAuth(t *testing.T) {
	staff := &appctx.UserContext{UserID: "u-1", Email: "s@example.com", Role: "staff"}

	tests := []struct {
		name      string
		header    string
		validator stubValidator
		roles     []string
		status    int
	}{
		{"missing header", "", stubValidator{user: staff}, nil, http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", stubValidator{user: staff}, nil, http.StatusUnauthorized},
		{"invalid token", "Bearer x", stubValidator{err: apperror.NewUnauthorized("invalid token")}, nil, http.StatusUnauthorized},
		{"valid token", "Bearer x", stubValidator{user: staff}, nil, http.StatusOK},
		{"role allowed", "Bearer x", stubValidator{user: staff}, []string{"admin", "staff"}, http.StatusOK},
		{"role denied", "Bearer x", stubValidator{user: staff}, []string{"admin"}, http.StatusForbidden},
		{"all roles", "Bearer x", stubValidator{user: staff}, auth.AllRoles, http.StatusOK},
		{"unknown role on principal", "Bearer x", stubValidator{user: &appctx.UserContext{UserID: "u-1", Role: "owner"}}, auth.AllRoles, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chain := []gin.HandlerFunc{Auth(tt.validator)}
			if tt.roles != nil {
				chain = append(chain, RequireRole(tt.roles...))
			}
			r := newEngine(chain...)
			r.GET("/x", func(c *gin.Context) {
				assert.Equal(t, "u-1", appctx.GetUserID(c.Request.Context()))
				c.Status(http.StatusOK)
			})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/x", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}
}

func TestRequireRole_WithoutPrincipal(t *testing.T) {
	r := newEngine(RequireRole("admin"))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func idempotentEngine(store *memory.IdempotencyStore, calls *int) *gin.Engine {
	r := newEngine(Idempotency(store))
	r.POST("/orders", func(c *gin.Context) {
		*calls++
		resp := gin.H{"call": *calls}
		CompleteIdempotency(c, http.StatusCreated, "application/json", resp)
		c.JSON(http.StatusCreated, resp)
	})
	return r
}

func postOrder(r *gin.Engine, key, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body))
	if key != "" {
		req.Header.Set(HeaderIdempotencyKey, key)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestIdempotency_ReplaysCompletedResponse(t *testing.T) {
	store := memory.NewIdempotencyStore(time.Hour)
	calls := 0
	r := idempotentEngine(store, &calls)

	first := postOrder(r, "k-1", `{"a":1}`)
	second := postOrder(r, "k-1", `{"a":1}`)

	assert.Equal(t, 1, calls)
	assert.Equal(t, http.StatusCreated, second.Code)
	assert.JSONEq(t, first.Body.String(), second.Body.String())
	assert.Equal(t, "true", second.Header().Get("Idempotent-Replayed"))

	// without a key every request runs
	postOrder(r, "", `{"a":1}`)
	assert.Equal(t, 2, calls)
}

func TestIdempotency_InFlightKeyConflicts(t *testing.T) {
	store := memory.NewIdempotencyStore(time.Hour)
	calls := 0
	r := idempotentEngine(store, &calls)

	body := `{"a":1}`
	sum := sha256.Sum256([]byte(body))
	replay, err := store.AcquireKey(context.Background(), "k-2", "", "POST /orders", hex.EncodeToString(sum[:]))
	require.NoError(t, err)
	require.Nil(t, replay)

	w := postOrder(r, "k-2", body)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, apperror.CodeIdempotencyConflict, decodeBody(t, w)["code"])
	assert.Zero(t, calls)
}

func TestIdempotency_RejectsLongKey(t *testing.T) {
	store := memory.NewIdempotencyStore(time.Hour)
	calls := 0
	r := idempotentEngine(store, &calls)

	w := postOrder(r, strings.Repeat("k", maxIdempotencyKeyLength+1), `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, calls)
}

type tokenUsers map[string]*appctx.UserContext

func (m tokenUsers) ValidateToken(token string) (*appctx.UserContext, error) {
	if u, ok := m[token]; ok {
		return u, nil
	}
	return nil, apperror.NewUnauthorized("invalid token")
}

func TestIdempotency_KeysAreScopedPerUser(t *testing.T) {
	store := memory.NewIdempotencyStore(time.Hour)
	users := tokenUsers{
		"tok-a": {UserID: "u-a", Role: "staff"},
		"tok-b": {UserID: "u-b", Role: "staff"},
	}
	calls := 0
	r := newEngine(Auth(users), Idempotency(store))
	r.POST("/orders", func(c *gin.Context) {
		calls++
		resp := gin.H{"user": appctx.GetUserID(c.Request.Context()), "call": calls}
		CompleteIdempotency(c, http.StatusCreated, "application/json", resp)
		c.JSON(http.StatusCreated, resp)
	})

	post := func(token, body string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body))
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set(HeaderIdempotencyKey, "shared-key")
		r.ServeHTTP(w, req)
		return w
	}

	a := post("tok-a", `{"qty":1}`)
	require.Equal(t, http.StatusCreated, a.Code, a.Body.String())

	// Same key, different user and body: a fresh request, not a mismatch.
	b := post("tok-b", `{"qty":2}`)
	require.Equal(t, http.StatusCreated, b.Code, b.Body.String())
	assert.Empty(t, b.Header().Get("Idempotent-Replayed"))
	assert.Equal(t, "u-b", decodeBody(t, b)["user"])
	assert.Equal(t, 2, calls)

	replay := post("tok-a", `{"qty":1}`)
	assert.Equal(t, "true", replay.Header().Get("Idempotent-Replayed"))
	assert.JSONEq(t, a.Body.String(), replay.Body.String())
	assert.Equal(t, 2, calls)

	mismatch := post("tok-b", `{"qty":3}`)
	assert.Equal(t, http.StatusUnprocessableEntity, mismatch.Code)
	assert.Equal(t, 2, calls)
}
