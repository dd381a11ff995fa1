package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sorgulen/tjenesteportal/internal/config"
	"github.com/sorgulen/tjenesteportal/internal/domain"
	"github.com/sorgulen/tjenesteportal/internal/http/handler"
	"github.com/sorgulen/tjenesteportal/internal/http/middleware"
	"github.com/sorgulen/tjenesteportal/internal/identity"
)

const adminTestSecret = "test-jwt-secret"

func signAdminToken(t *testing.T, isAdmin bool) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   "user-123",
		"email": "ops@sorgulen.no",
		"exp":   time.Now().Add(time.Hour).Unix(),
		"user_metadata": map[string]interface{}{
			"is_admin": isAdmin,
		},
	})
	signed, err := token.SignedString([]byte(adminTestSecret))
	require.NoError(t, err)
	return signed
}

// newAdminRouter mounts the admin order routes behind the same middleware
// chain the portal uses
func newAdminRouter(upstreamURL string) http.Handler {
	logger := zap.NewNop()
	h := handler.NewAdminOrderHandler(newOrderClient(upstreamURL), logger)

	validator := identity.NewTokenValidator(&config.IdentityConfig{JWTSecret: adminTestSecret})
	auth := middleware.NewAuth(validator, logger)

	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(auth.Authenticate)
		r.Use(auth.RequireAdmin)
		r.Route("/admin/orders", func(r chi.Router) {
			r.Get("/", h.List)
			r.Get("/stats", h.Stats)
			r.Patch("/{id}", h.UpdateStatus)
		})
	})
	return r
}

func adminRequest(t *testing.T, router http.Handler, method, target, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func adminUpstreamOrders() []domain.Order {
	return []domain.Order{
		{ID: "order-1-aaaa", CustomerName: "Ola Hansen", ServiceType: domain.ServiceBroyting, Status: domain.OrderStatusNew},
		{ID: "order-2-bbbb", CustomerName: "Kari Nordmann", ServiceType: domain.ServicePlenklipping, Status: domain.OrderStatusInProgress},
		{ID: "order-3-cccc", CustomerName: "Per Olsen", ServiceType: domain.ServiceBroyting, Status: domain.OrderStatusDone},
	}
}

func TestAdminOrderHandler_List(t *testing.T) {
	t.Run("passes caller token upstream and lists orders", func(t *testing.T) {
		var upstreamAuth string
		upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			upstreamAuth = r.Header.Get("Authorization")
			json.NewEncoder(w).Encode(adminUpstreamOrders())
		}))
		defer upstream.Close()

		router := newAdminRouter(upstream.URL)
		token := signAdminToken(t, true)
		rr := adminRequest(t, router, http.MethodGet, "/admin/orders", token, nil)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "Bearer "+token, upstreamAuth)

		var orders []domain.Order
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &orders))
		assert.Len(t, orders, 3)
	})

	t.Run("applies status and service filters locally", func(t *testing.T) {
		upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(adminUpstreamOrders())
		}))
		defer upstream.Close()

		router := newAdminRouter(upstream.URL)
		token := signAdminToken(t, true)
		rr := adminRequest(t, router, http.MethodGet, "/admin/orders?status=new&service=brøyting", token, nil)

		assert.Equal(t, http.StatusOK, rr.Code)

		var orders []domain.Order
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &orders))
		require.Len(t, orders, 1)
		assert.Equal(t, "order-1-aaaa", orders[0].ID)
	})

	t.Run("rejects invalid status filter", func(t *testing.T) {
		router := newAdminRouter("http://127.0.0.1:0")
		rr := adminRequest(t, router, http.MethodGet, "/admin/orders?status=archived", signAdminToken(t, true), nil)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("requires a bearer token", func(t *testing.T) {
		router := newAdminRouter("http://127.0.0.1:0")
		rr := adminRequest(t, router, http.MethodGet, "/admin/orders", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("rejects non-admin token", func(t *testing.T) {
		router := newAdminRouter("http://127.0.0.1:0")
		rr := adminRequest(t, router, http.MethodGet, "/admin/orders", signAdminToken(t, false), nil)
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("maps upstream failure to bad gateway", func(t *testing.T) {
		upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer upstream.Close()

		router := newAdminRouter(upstream.URL)
		rr := adminRequest(t, router, http.MethodGet, "/admin/orders", signAdminToken(t, true), nil)

		assert.Equal(t, http.StatusBadGateway, rr.Code)

		var resp domain.ErrorResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, "Kunne ikke hente bestillinger", resp.Message)
	})
}

func TestAdminOrderHandler_Stats(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(adminUpstreamOrders())
	}))
	defer upstream.Close()

	router := newAdminRouter(upstream.URL)
	rr := adminRequest(t, router, http.MethodGet, "/admin/orders/stats", signAdminToken(t, true), nil)

	assert.Equal(t, http.StatusOK, rr.Code)

	var stats domain.OrderStats
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &stats))
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 1, stats.New)
	assert.Equal(t, 1, stats.InProgress)
	assert.Equal(t, 1, stats.Done)
	assert.Equal(t, 0, stats.Cancelled)
}

func TestAdminOrderHandler_UpdateStatus(t *testing.T) {
	t.Run("forwards status change", func(t *testing.T) {
		var patchedPath string
		var patched map[string]string
		upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			patchedPath = r.URL.Path
			require.NoError(t, json.NewDecoder(r.Body).Decode(&patched))
			w.WriteHeader(http.StatusNoContent)
		}))
		defer upstream.Close()

		router := newAdminRouter(upstream.URL)
		rr := adminRequest(t, router, http.MethodPatch, "/admin/orders/order-1-aaaa", signAdminToken(t, true),
			map[string]string{"status": "done"})

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "/v1/orders/order-1-aaaa", patchedPath)
		assert.Equal(t, "done", patched["status"])

		var resp map[string]string
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, "order-1-aaaa", resp["id"])
		assert.Equal(t, "done", resp["status"])
	})

	t.Run("rejects invalid status without calling upstream", func(t *testing.T) {
		called := false
		upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
		}))
		defer upstream.Close()

		router := newAdminRouter(upstream.URL)
		rr := adminRequest(t, router, http.MethodPatch, "/admin/orders/order-1-aaaa", signAdminToken(t, true),
			map[string]string{"status": "archived"})

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.False(t, called)
	})

	t.Run("maps unknown order to not found", func(t *testing.T) {
		upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer upstream.Close()

		router := newAdminRouter(upstream.URL)
		rr := adminRequest(t, router, http.MethodPatch, "/admin/orders/missing", signAdminToken(t, true),
			map[string]string{"status": "done"})

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("maps upstream failure to bad gateway", func(t *testing.T) {
		upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer upstream.Close()

		router := newAdminRouter(upstream.URL)
		rr := adminRequest(t, router, http.MethodPatch, "/admin/orders/order-1-aaaa", signAdminToken(t, true),
			map[string]string{"status": "done"})

		assert.Equal(t, http.StatusBadGateway, rr.Code)

		var resp domain.ErrorResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, "Oppdatering feilet", resp.Message)
	})
}
