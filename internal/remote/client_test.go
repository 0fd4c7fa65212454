package remote_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/stockdesk/internal/apperr"
	"github.com/tuanvumaihuynh/stockdesk/internal/config"
	"github.com/tuanvumaihuynh/stockdesk/internal/model"
	"github.com/tuanvumaihuynh/stockdesk/internal/remote"
	"github.com/tuanvumaihuynh/stockdesk/internal/session"
	"github.com/tuanvumaihuynh/stockdesk/pkg/correlationid"
	"github.com/tuanvumaihuynh/stockdesk/pkg/validator"
)

func newClient(t *testing.T, handler http.HandlerFunc, sess *session.Session) *remote.Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	v, err := validator.NewDefaultValidator()
	require.NoError(t, err)

	if sess == nil {
		sess = session.Static("secret")
	}

	c, err := remote.NewClient(config.Remote{BaseURL: srv.URL + "/"}, slog.New(slog.DiscardHandler), sess, v)
	require.NoError(t, err)
	return c
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck
	json.NewEncoder(w).Encode(v)
}

func TestListOrders(t *testing.T) {
	ctx := context.Background()

	t.Run("Should decode success envelope with bearer token", func(t *testing.T) {
		var gotAuth, gotPath, gotCorrelation string
		c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			gotPath = r.URL.Path
			gotCorrelation = r.Header.Get(correlationid.Header)
			writeJSON(w, http.StatusOK, map[string]any{
				"status": "SUCCESS",
				"data": []map[string]any{
					{"_id": "a", "status": "Pending", "totalAmount": 1999, "customer": map[string]any{"firstName": "Ada"}},
					{"_id": "b", "status": "Shipped"},
				},
			})
		}, nil)

		orders, err := c.ListOrders(correlationid.NewContext(ctx, "corr-7"))
		require.NoError(t, err)

		assert.Equal(t, "Bearer secret", gotAuth)
		assert.Equal(t, "/order/all-orders", gotPath)
		assert.Equal(t, "corr-7", gotCorrelation)
		require.Len(t, orders, 2)
		assert.Equal(t, "a", orders[0].ID)
		assert.Equal(t, model.Money(1999), orders[0].TotalAmount)
		assert.Equal(t, "Ada", orders[0].Customer.FirstName)
		assert.Equal(t, model.OrderStatusShipped, orders[1].Status)
	})

	t.Run("Should return empty slice for empty data", func(t *testing.T) {
		c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"status": "SUCCESS", "data": nil})
		}, nil)

		orders, err := c.ListOrders(ctx)
		require.NoError(t, err)
		assert.NotNil(t, orders)
		assert.Empty(t, orders)
	})

	t.Run("Should surface envelope message", func(t *testing.T) {
		c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"status": "ERROR", "message": "database offline"})
		}, nil)

		_, err := c.ListOrders(ctx)
		require.Error(t, err)
		assert.ErrorIs(t, err, apperr.EnvelopeErr)
		assert.NotErrorIs(t, err, apperr.TransportErr)
	})

	t.Run("Should map non-2xx to transport error", func(t *testing.T) {
		c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusInternalServerError, map[string]any{"status": "ERROR", "message": "boom"})
		}, nil)

		_, err := c.ListOrders(ctx)
		require.Error(t, err)
		assert.ErrorIs(t, err, apperr.TransportErr)
	})

	t.Run("Should reject records without id", func(t *testing.T) {
		c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{
				"status": "SUCCESS",
				"data":   []map[string]any{{"_id": "a"}, {"status": "Pending"}},
			})
		}, nil)

		orders, err := c.ListOrders(ctx)
		assert.ErrorIs(t, err, apperr.ValidationErr)
		assert.Nil(t, orders)
	})

	t.Run("Should treat malformed body as transport error", func(t *testing.T) {
		c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			//nolint:errcheck
			w.Write([]byte("<html>"))
		}, nil)

		_, err := c.ListOrders(ctx)
		assert.ErrorIs(t, err, apperr.TransportErr)
	})

	t.Run("Should fail without session token", func(t *testing.T) {
		called := false
		c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			called = true
		}, session.Static(""))

		_, err := c.ListOrders(ctx)
		assert.ErrorIs(t, err, apperr.SessionUnavailableErr)
		assert.False(t, called)
	})
}

func TestUpdateOrderStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("Should send status body", func(t *testing.T) {
		var gotMethod, gotPath string
		var gotBody map[string]string
		c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			gotMethod = r.Method
			gotPath = r.URL.Path
			b, _ := io.ReadAll(r.Body)
			//nolint:errcheck
			json.Unmarshal(b, &gotBody)
			w.WriteHeader(http.StatusNoContent)
		}, nil)

		require.NoError(t, c.UpdateOrderStatus(ctx, "a1", model.OrderStatusShipped))
		assert.Equal(t, http.MethodPut, gotMethod)
		assert.Equal(t, "/order/update-order/a1", gotPath)
		assert.Equal(t, map[string]string{"status": "Shipped"}, gotBody)
	})

	t.Run("Should fail on explicit envelope failure", func(t *testing.T) {
		c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"status": "ERROR", "message": "invalid transition"})
		}, nil)

		err := c.UpdateOrderStatus(ctx, "a1", model.OrderStatusShipped)
		assert.ErrorIs(t, err, apperr.EnvelopeErr)
	})

	t.Run("Should invalidate session on 401", func(t *testing.T) {
		tokens := []string{"first", "second"}
		refreshes := 0
		sess := session.New(session.Token{Value: "expired-soon"}, session.RefresherFunc(func(context.Context) (session.Token, error) {
			tok := tokens[refreshes]
			refreshes++
			return session.Token{Value: tok}, nil
		}))

		var seen []string
		c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			seen = append(seen, r.Header.Get("Authorization"))
			if len(seen) == 1 {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			w.WriteHeader(http.StatusOK)
		}, sess)

		assert.ErrorIs(t, c.UpdateOrderStatus(ctx, "a1", model.OrderStatusShipped), apperr.TransportErr)
		require.NoError(t, c.UpdateOrderStatus(ctx, "a1", model.OrderStatusShipped))
		assert.Equal(t, []string{"Bearer expired-soon", "Bearer first"}, seen)
	})
}

func TestDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("Should delete order and stock on their paths", func(t *testing.T) {
		var paths []string
		c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodDelete, r.Method)
			paths = append(paths, r.URL.Path)
			writeJSON(w, http.StatusOK, map[string]any{"status": "SUCCESS"})
		}, nil)

		require.NoError(t, c.DeleteOrder(ctx, "o1"))
		require.NoError(t, c.DeleteStock(ctx, "s1"))
		assert.Equal(t, []string{"/order/delete-order/o1", "/stock/delete-stock/s1"}, paths)
	})

	t.Run("Should surface not found as transport error with remote message", func(t *testing.T) {
		c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusNotFound, map[string]any{"status": "ERROR", "message": "Stock not found"})
		}, nil)

		err := c.DeleteStock(ctx, "missing")
		require.ErrorIs(t, err, apperr.TransportErr)
		assert.Contains(t, err.Error(), "Stock not found")
	})
}

func TestListStocks(t *testing.T) {
	ctx := context.Background()

	t.Run("Should decode stocks", func(t *testing.T) {
		c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/stock/all-stocks", r.URL.Path)
			writeJSON(w, http.StatusOK, map[string]any{
				"status": "SUCCESS",
				"data": []map[string]any{{
					"_id":           "s1",
					"product":       map[string]any{"_id": "p1", "name": "Tee", "code": "TEE-1", "images": []string{"a.png"}},
					"batchNumber":   "B-7",
					"quantity":      3,
					"lowStockAlert": 5,
					"supplier":      "Acme",
				}},
			})
		}, nil)

		stocks, err := c.ListStocks(ctx)
		require.NoError(t, err)
		require.Len(t, stocks, 1)
		assert.Equal(t, "Tee", stocks[0].Product.Name)
		assert.True(t, stocks[0].IsLowStock())
	})

	t.Run("Should reject negative quantity", func(t *testing.T) {
		c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{
				"status": "SUCCESS",
				"data":   []map[string]any{{"_id": "s1", "product": map[string]any{"_id": "p1"}, "quantity": -1}},
			})
		}, nil)

		_, err := c.ListStocks(ctx)
		assert.ErrorIs(t, err, apperr.ValidationErr)
	})
}

func TestCancelledRequest(t *testing.T) {
	started := make(chan struct{})
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.Copy(io.Discard, r.Body) //nolint:errcheck
		close(started)
		<-r.Context().Done()
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	err := c.UpdateOrderStatus(ctx, "a1", model.OrderStatusShipped)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, err, apperr.RequestCancelledErr)
	assert.NotErrorIs(t, err, apperr.TransportErr)

	msg := apperr.Message(err)
	assert.Equal(t, "request was cancelled", msg)
	assert.NotContains(t, msg, "order/update-order")
}
