package dashboard_test

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/stockdesk/internal/apperr"
	"github.com/tuanvumaihuynh/stockdesk/internal/config"
	"github.com/tuanvumaihuynh/stockdesk/internal/dashboard"
	"github.com/tuanvumaihuynh/stockdesk/internal/model"
)

var testDashboardCfg = config.Dashboard{
	SearchDebounce: 20 * time.Millisecond,
	SuccessRevert:  time.Hour,
	ErrorRevert:    time.Hour,
}

type mockAuditor struct {
	mock.Mock
}

func (m *mockAuditor) OrderStatusUpdated(ctx context.Context, order model.Order, from model.OrderStatus) error {
	return m.Called(order, from).Error(0)
}

func (m *mockAuditor) OrderDeleted(ctx context.Context, order model.Order) error {
	return m.Called(order).Error(0)
}

func (m *mockAuditor) StockDeleted(ctx context.Context, stock model.Stock) error {
	return m.Called(stock).Error(0)
}

type fakeRemote struct {
	mu        sync.Mutex
	orders    []model.Order
	stocks    []model.Stock
	listErr   error
	updateErr error
	deleteErr error
	// block, when set, holds UpdateOrderStatus until closed or ctx is done
	block   chan struct{}
	started chan struct{}
	updates []string
	deletes []string
}

func (f *fakeRemote) ListOrders(context.Context) ([]model.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.orders, f.listErr
}

func (f *fakeRemote) UpdateOrderStatus(ctx context.Context, id string, status model.OrderStatus) error {
	if f.started != nil {
		close(f.started)
	}
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, id+"="+string(status))
	return f.updateErr
}

func (f *fakeRemote) DeleteOrder(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, id)
	return f.deleteErr
}

func (f *fakeRemote) ListStocks(context.Context) ([]model.Stock, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stocks, f.listErr
}

func (f *fakeRemote) DeleteStock(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, id)
	return f.deleteErr
}

func newOrderBoard(t *testing.T, remote *fakeRemote, auditor *mockAuditor) *dashboard.OrderBoard {
	t.Helper()

	b := dashboard.NewOrderBoard(testDashboardCfg, slog.New(slog.DiscardHandler), remote, auditor, dashboard.NewConfirmations())
	t.Cleanup(b.Close)
	require.NoError(t, b.Reload(context.Background()))
	return b
}

func TestOrderBoardUpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("Should change exactly the updated order on success", func(t *testing.T) {
		remote := &fakeRemote{orders: sampleOrders()}
		auditor := &mockAuditor{}
		auditor.On("OrderStatusUpdated", mock.MatchedBy(func(o model.Order) bool {
			return o.ID == "b" && o.Status == model.OrderStatusShipped
		}), model.OrderStatusPending).Return(nil).Once()

		b := newOrderBoard(t, remote, auditor)
		b.Search("pending")
		b.FlushSearch()
		before := b.View()
		require.Len(t, before.Items, 2)

		updated, err := b.UpdateStatus(ctx, "b", model.OrderStatusShipped)
		require.NoError(t, err)
		assert.Equal(t, model.OrderStatusShipped, updated.Status)

		canonical := b.All()
		assert.Equal(t, sampleOrders()[0], canonical[0])
		assert.Equal(t, sampleOrders()[2], canonical[2])
		assert.Equal(t, model.OrderStatusShipped, canonical[1].Status)

		after := b.View()
		require.Len(t, after.Items, 1)
		assert.Equal(t, "a", after.Items[0].ID)

		st, ok := b.RowState("b")
		require.True(t, ok)
		assert.False(t, st.Loading)
		assert.Nil(t, st.Error)

		auditor.AssertExpectations(t)
	})

	t.Run("Should leave every status unchanged on failure", func(t *testing.T) {
		remote := &fakeRemote{orders: sampleOrders(), updateErr: apperr.TransportErr.WithMsg("remote service is unreachable")}
		auditor := &mockAuditor{}

		b := newOrderBoard(t, remote, auditor)

		_, err := b.UpdateStatus(ctx, "a", model.OrderStatusDelivered)
		require.ErrorIs(t, err, apperr.TransportErr)

		assert.Equal(t, sampleOrders(), b.All())
		st, ok := b.RowState("a")
		require.True(t, ok)
		require.NotNil(t, st.Error)
		assert.Equal(t, "remote service is unreachable", *st.Error)

		auditor.AssertNotCalled(t, "OrderStatusUpdated", mock.Anything, mock.Anything)
	})

	t.Run("Should keep committed status while loading and reject re-entry", func(t *testing.T) {
		remote := &fakeRemote{
			orders:  sampleOrders(),
			block:   make(chan struct{}),
			started: make(chan struct{}),
		}
		auditor := &mockAuditor{}
		auditor.On("OrderStatusUpdated", mock.Anything, mock.Anything).Return(nil)

		b := newOrderBoard(t, remote, auditor)

		done := make(chan error, 1)
		go func() {
			_, err := b.UpdateStatus(ctx, "a", model.OrderStatusShipped)
			done <- err
		}()
		<-remote.started

		st, ok := b.RowState("a")
		require.True(t, ok)
		assert.True(t, st.Loading)
		got, _ := b.Get("a")
		assert.Equal(t, model.OrderStatusPending, got.Status)

		_, err := b.UpdateStatus(ctx, "a", model.OrderStatusCancelled)
		assert.ErrorIs(t, err, apperr.UpdateInFlightErr)

		close(remote.block)
		require.NoError(t, <-done)

		got, _ = b.Get("a")
		assert.Equal(t, model.OrderStatusShipped, got.Status)
		assert.Equal(t, []string{"a=Shipped"}, remote.updates)
	})

	t.Run("Should reject unknown status and unknown order", func(t *testing.T) {
		remote := &fakeRemote{orders: sampleOrders()}
		b := newOrderBoard(t, remote, &mockAuditor{})

		_, err := b.UpdateStatus(ctx, "a", model.OrderStatus("Lost"))
		assert.ErrorIs(t, err, apperr.ValidationErr)

		_, err = b.UpdateStatus(ctx, "zzz", model.OrderStatusShipped)
		assert.ErrorIs(t, err, apperr.NotFoundErr)

		assert.Empty(t, remote.updates)
		_, ok := b.RowState("a")
		assert.False(t, ok)
	})

	t.Run("Should cancel in-flight update on close", func(t *testing.T) {
		remote := &fakeRemote{
			orders:  sampleOrders(),
			block:   make(chan struct{}),
			started: make(chan struct{}),
		}
		b := dashboard.NewOrderBoard(testDashboardCfg, slog.New(slog.DiscardHandler), remote, &mockAuditor{}, dashboard.NewConfirmations())
		require.NoError(t, b.Reload(ctx))

		done := make(chan error, 1)
		go func() {
			_, err := b.UpdateStatus(ctx, "a", model.OrderStatusShipped)
			done <- err
		}()
		<-remote.started

		b.Close()
		assert.ErrorIs(t, <-done, context.Canceled)

		got, _ := b.Get("a")
		assert.Equal(t, model.OrderStatusPending, got.Status)

		st, ok := b.RowState("a")
		require.True(t, ok)
		require.NotNil(t, st.Error)
		assert.Equal(t, "request was cancelled", *st.Error)
	})
}

func TestOrderBoardLoad(t *testing.T) {
	t.Run("Should expose single error and empty list on failed load", func(t *testing.T) {
		remote := &fakeRemote{orders: sampleOrders(), listErr: apperr.EnvelopeErr.WithMsg("orders unavailable")}
		b := dashboard.NewOrderBoard(testDashboardCfg, slog.New(slog.DiscardHandler), remote, &mockAuditor{}, dashboard.NewConfirmations())
		defer b.Close()

		err := b.Reload(context.Background())
		require.ErrorIs(t, err, apperr.EnvelopeErr)

		v := b.OrderView()
		assert.Empty(t, v.Items)
		assert.Equal(t, "orders unavailable", v.Error)
		assert.True(t, v.Loaded)
	})

	t.Run("Should apply debounced search", func(t *testing.T) {
		b := newOrderBoard(t, &fakeRemote{orders: sampleOrders()}, &mockAuditor{})

		b.Search("grace")
		assert.Eventually(t, func() bool {
			v := b.View()
			return len(v.Items) == 1 && v.Items[0].ID == "c" && v.Query == "grace"
		}, time.Second, 5*time.Millisecond)
	})
}

func TestOrderBoardDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("Should delete only after confirmation", func(t *testing.T) {
		remote := &fakeRemote{orders: sampleOrders()}
		auditor := &mockAuditor{}
		auditor.On("OrderDeleted", sampleOrders()[0]).Return(nil).Once()
		confirmations := dashboard.NewConfirmations()
		b := dashboard.NewOrderBoard(testDashboardCfg, slog.New(slog.DiscardHandler), remote, auditor, confirmations)
		defer b.Close()
		require.NoError(t, b.Reload(ctx))

		desc, err := b.RequestDelete("a")
		require.NoError(t, err)
		assert.Equal(t, dashboard.KindOrder, desc.Kind)
		assert.Equal(t, "a", desc.TargetID)
		assert.Contains(t, desc.Message, "Ada Lovelace")
		assert.Empty(t, remote.deletes)

		require.NoError(t, confirmations.Confirm(ctx, desc.Token))
		assert.Equal(t, []string{"a"}, remote.deletes)

		_, ok := b.Get("a")
		assert.False(t, ok)
		assert.Len(t, b.View().Items, 2)
		auditor.AssertExpectations(t)
	})

	t.Run("Should keep list unchanged when delete fails", func(t *testing.T) {
		remote := &fakeRemote{orders: sampleOrders(), deleteErr: apperr.TransportErr}
		confirmations := dashboard.NewConfirmations()
		b := dashboard.NewOrderBoard(testDashboardCfg, slog.New(slog.DiscardHandler), remote, &mockAuditor{}, confirmations)
		defer b.Close()
		require.NoError(t, b.Reload(ctx))

		desc, err := b.RequestDelete("b")
		require.NoError(t, err)

		assert.ErrorIs(t, confirmations.Confirm(ctx, desc.Token), apperr.TransportErr)
		assert.Len(t, b.View().Items, 3)
		assert.Equal(t, 1, confirmations.Len())
	})

	t.Run("Should not call remote when cancelled", func(t *testing.T) {
		remote := &fakeRemote{orders: sampleOrders()}
		confirmations := dashboard.NewConfirmations()
		b := dashboard.NewOrderBoard(testDashboardCfg, slog.New(slog.DiscardHandler), remote, &mockAuditor{}, confirmations)
		defer b.Close()
		require.NoError(t, b.Reload(ctx))

		desc, err := b.RequestDelete("b")
		require.NoError(t, err)
		require.NoError(t, confirmations.Cancel(desc.Token))

		assert.Empty(t, remote.deletes)
		assert.Len(t, b.View().Items, 3)
	})

	t.Run("Should fail for unknown order", func(t *testing.T) {
		remote := &fakeRemote{orders: sampleOrders()}
		b := newOrderBoard(t, remote, &mockAuditor{})

		_, err := b.RequestDelete("zzz")
		assert.ErrorIs(t, err, apperr.NotFoundErr)
		assert.Empty(t, remote.deletes)
	})
}

func TestOrderBoardBrowse(t *testing.T) {
	orders := []model.Order{{ID: "a", Items: []model.OrderItem{itemWithImages("x", "x1", "x2"), itemWithImages("y")}}}
	b := newOrderBoard(t, &fakeRemote{orders: orders}, &mockAuditor{})

	browser, err := b.Browse("a")
	require.NoError(t, err)
	assert.Equal(t, 2, browser.ItemCount())
	assert.Equal(t, 2, browser.ImageCount())

	_, err = b.Browse("zzz")
	assert.ErrorIs(t, err, apperr.NotFoundErr)
}

func sampleStocks() []model.Stock {
	return []model.Stock{
		{ID: "s1", BatchNumber: "B-1", Quantity: 2, LowStockAlert: 5, Supplier: "Acme", Product: model.Product{ID: "p1", Name: "Shirt", Code: "SH-1"}},
		{ID: "s2", BatchNumber: "B-2", Quantity: 50, LowStockAlert: 5, Supplier: "Globex", Product: model.Product{ID: "p2", Name: "Scarf", Code: "SC-1"}},
		{ID: "s3", BatchNumber: "B-3", Quantity: 5, LowStockAlert: 5, Supplier: "Acme", Product: model.Product{ID: "p3", Name: "Socks", Code: "SO-1"}},
	}
}

func TestStockBoard(t *testing.T) {
	ctx := context.Background()

	t.Run("Should list low stock", func(t *testing.T) {
		b := dashboard.NewStockBoard(testDashboardCfg, slog.New(slog.DiscardHandler), &fakeRemote{stocks: sampleStocks()}, &mockAuditor{}, dashboard.NewConfirmations())
		defer b.Close()
		require.NoError(t, b.Reload(ctx))

		low := b.LowStock()
		require.Len(t, low, 2)
		assert.Equal(t, "s1", low[0].ID)
		assert.Equal(t, "s3", low[1].ID)
	})

	t.Run("Should remove exactly one stock on confirmed delete", func(t *testing.T) {
		remote := &fakeRemote{stocks: sampleStocks()}
		auditor := &mockAuditor{}
		auditor.On("StockDeleted", sampleStocks()[1]).Return(errors.New("outbox down")).Once()
		confirmations := dashboard.NewConfirmations()
		b := dashboard.NewStockBoard(testDashboardCfg, slog.New(slog.DiscardHandler), remote, auditor, confirmations)
		defer b.Close()
		require.NoError(t, b.Reload(ctx))

		b.Search("acme")
		b.FlushSearch()
		require.Len(t, b.View().Items, 2)

		desc, err := b.RequestDelete("s2")
		require.NoError(t, err)
		assert.Contains(t, desc.Message, "B-2")
		assert.Contains(t, desc.Message, "Scarf")

		// audit failures do not undo a delete the remote service accepted
		require.NoError(t, confirmations.Confirm(ctx, desc.Token))

		v := b.View()
		assert.Len(t, v.Items, 2)
		_, ok := b.Get("s2")
		assert.False(t, ok)
		_, ok = b.Get("s1")
		assert.True(t, ok)
		auditor.AssertExpectations(t)
	})

	t.Run("Should delete once when the same stock is requested twice", func(t *testing.T) {
		remote := &fakeRemote{stocks: sampleStocks()}
		auditor := &mockAuditor{}
		auditor.On("StockDeleted", sampleStocks()[0]).Return(nil).Once()
		confirmations := dashboard.NewConfirmations()
		b := dashboard.NewStockBoard(testDashboardCfg, slog.New(slog.DiscardHandler), remote, auditor, confirmations)
		defer b.Close()
		require.NoError(t, b.Reload(ctx))

		first, err := b.RequestDelete("s1")
		require.NoError(t, err)
		second, err := b.RequestDelete("s1")
		require.NoError(t, err)
		assert.Equal(t, first.Token, second.Token)
		assert.Equal(t, 1, confirmations.Len())

		require.NoError(t, confirmations.Confirm(ctx, first.Token))
		assert.ErrorIs(t, confirmations.Confirm(ctx, second.Token), apperr.ConfirmationNotFoundErr)

		assert.Equal(t, []string{"s1"}, remote.deletes)
		assert.Len(t, b.All(), 2)
		auditor.AssertExpectations(t)
		auditor.AssertNumberOfCalls(t, "StockDeleted", 1)
	})

	t.Run("Should not call remote when the stock left the list after the request", func(t *testing.T) {
		remote := &fakeRemote{stocks: sampleStocks()}
		auditor := &mockAuditor{}
		confirmations := dashboard.NewConfirmations()
		b := dashboard.NewStockBoard(testDashboardCfg, slog.New(slog.DiscardHandler), remote, auditor, confirmations)
		defer b.Close()
		require.NoError(t, b.Reload(ctx))

		desc, err := b.RequestDelete("s1")
		require.NoError(t, err)

		remote.mu.Lock()
		remote.stocks = sampleStocks()[1:]
		remote.mu.Unlock()
		require.NoError(t, b.Reload(ctx))

		assert.ErrorIs(t, confirmations.Confirm(ctx, desc.Token), apperr.NotFoundErr)
		assert.Empty(t, remote.deletes)
		assert.Zero(t, confirmations.Len())
		auditor.AssertNotCalled(t, "StockDeleted", mock.Anything)
	})

	t.Run("Should fail for unknown stock without remote call", func(t *testing.T) {
		remote := &fakeRemote{stocks: sampleStocks()}
		b := dashboard.NewStockBoard(testDashboardCfg, slog.New(slog.DiscardHandler), remote, &mockAuditor{}, dashboard.NewConfirmations())
		defer b.Close()
		require.NoError(t, b.Reload(ctx))

		_, err := b.RequestDelete("nope")
		assert.ErrorIs(t, err, apperr.NotFoundErr)
		assert.Empty(t, remote.deletes)
	})
}
