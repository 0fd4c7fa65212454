package zerror_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tuanvumaihuynh/stockdesk/pkg/zerror"
)

func TestZError(t *testing.T) {
	notFound := zerror.NewNotFound("ORDER_NOT_FOUND", "order not found")

	t.Run("Should match by code through wrapping", func(t *testing.T) {
		err := fmt.Errorf("delete order: %w", notFound.WrapParent(context.Canceled))

		assert.ErrorIs(t, err, notFound)
		assert.ErrorIs(t, err, context.Canceled)
		assert.NotErrorIs(t, err, zerror.NewNotFound("STOCK_NOT_FOUND", "stock not found"))
	})

	t.Run("Should keep code when message changes", func(t *testing.T) {
		err := notFound.WithMsg("order 42 is gone")

		assert.ErrorIs(t, err, notFound)
		assert.Equal(t, "order 42 is gone", err.Msg())
		assert.Equal(t, zerror.StatusNotFound, err.Status())
	})

	t.Run("Should extract message from chain", func(t *testing.T) {
		err := fmt.Errorf("outer: %w", notFound)

		assert.Equal(t, "order not found", zerror.Message(err))
		assert.Equal(t, "plain", zerror.Message(errors.New("plain")))
	})

	t.Run("Should format parent in error string", func(t *testing.T) {
		err := notFound.WrapParent(errors.New("boom"))

		assert.Equal(t, "Code=ORDER_NOT_FOUND, Msg=order not found, Parent=(boom)", err.Error())
		assert.Equal(t, "NOT_FOUND", err.Status().String())
	})
}
