package http

import (
	"fmt"
	"net/http"

	"github.com/tuanvumaihuynh/stockdesk/internal/apperr"
	"github.com/tuanvumaihuynh/stockdesk/pkg/ptr"
	"github.com/tuanvumaihuynh/stockdesk/pkg/validator"
)

// Browse moves accepted by GET /orders/{id}/browse.
const (
	moveNextItem  = "nextItem"
	movePrevItem  = "prevItem"
	moveNextImage = "nextImage"
	movePrevImage = "prevImage"
)

type orderHandler struct {
	board     OrderBoard
	validator validator.Validator
}

func newOrderHandler(board OrderBoard, v validator.Validator) *orderHandler {
	return &orderHandler{
		board:     board,
		validator: v,
	}
}

// ListOrders returns the filtered orders. A q parameter replaces the search
// query and applies it without waiting for the debounce.
func (h *orderHandler) ListOrders(w http.ResponseWriter, r *http.Request) error {
	var q *string
	if err := queryParam(r, "q", &q); err != nil {
		return err
	}
	if q != nil {
		h.board.Search(*q)
		h.board.FlushSearch()
	}

	return writeJSON(w, http.StatusOK, toOrderListResponse(h.board.OrderView()))
}

func (h *orderHandler) ReloadOrders(w http.ResponseWriter, r *http.Request) error {
	if err := h.board.Reload(r.Context()); err != nil {
		return fmt.Errorf("order board reload: %w", err)
	}

	return writeJSON(w, http.StatusOK, toOrderListResponse(h.board.OrderView()))
}

func (h *orderHandler) SearchOrders(w http.ResponseWriter, r *http.Request) error {
	var req SearchRequest
	if err := decodeBody(r, h.validator, &req); err != nil {
		return err
	}

	h.board.Search(req.Query)

	return writeJSON(w, http.StatusAccepted, SearchResponse(req))
}

func (h *orderHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) error {
	id, err := pathParam(r, "id")
	if err != nil {
		return err
	}

	var req UpdateOrderStatusRequest
	if err := decodeBody(r, h.validator, &req); err != nil {
		return err
	}

	order, err := h.board.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		return fmt.Errorf("order board update status: %w", err)
	}

	return writeJSON(w, http.StatusOK, toOrderResponse(order))
}

func (h *orderHandler) RequestOrderDelete(w http.ResponseWriter, r *http.Request) error {
	id, err := pathParam(r, "id")
	if err != nil {
		return err
	}

	confirmation, err := h.board.RequestDelete(id)
	if err != nil {
		return fmt.Errorf("order board request delete: %w", err)
	}

	return writeJSON(w, http.StatusCreated, confirmation)
}

// BrowseOrder positions a browser at the client's item and image, applies the
// optional move and returns the resulting position. Absent indices are 0.
func (h *orderHandler) BrowseOrder(w http.ResponseWriter, r *http.Request) error {
	id, err := pathParam(r, "id")
	if err != nil {
		return err
	}

	var (
		item, image *int
		move        *string
	)
	if err := queryParam(r, "item", &item); err != nil {
		return err
	}
	if err := queryParam(r, "image", &image); err != nil {
		return err
	}
	if err := queryParam(r, "move", &move); err != nil {
		return err
	}

	browser, err := h.board.Browse(id)
	if err != nil {
		return fmt.Errorf("order board browse: %w", err)
	}
	browser.Seek(ptr.Value(item), ptr.Value(image))

	switch m := ptr.Value(move); m {
	case "":
	case moveNextItem:
		browser.NextItem()
	case movePrevItem:
		browser.PrevItem()
	case moveNextImage:
		browser.NextImage()
	case movePrevImage:
		browser.PrevImage()
	default:
		return apperr.ValidationErr.WithMsg(fmt.Sprintf("unknown move %q", m))
	}

	return writeJSON(w, http.StatusOK, toBrowseResponse(id, browser))
}
