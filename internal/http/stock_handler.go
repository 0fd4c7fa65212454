package http

import (
	"fmt"
	"net/http"

	"github.com/tuanvumaihuynh/stockdesk/pkg/validator"
)

type stockHandler struct {
	board     StockBoard
	validator validator.Validator
}

func newStockHandler(board StockBoard, v validator.Validator) *stockHandler {
	return &stockHandler{
		board:     board,
		validator: v,
	}
}

func (h *stockHandler) ListStocks(w http.ResponseWriter, r *http.Request) error {
	var q *string
	if err := queryParam(r, "q", &q); err != nil {
		return err
	}
	if q != nil {
		h.board.Search(*q)
		h.board.FlushSearch()
	}

	return writeJSON(w, http.StatusOK, toStockListResponse(h.board.View()))
}

func (h *stockHandler) ReloadStocks(w http.ResponseWriter, r *http.Request) error {
	if err := h.board.Reload(r.Context()); err != nil {
		return fmt.Errorf("stock board reload: %w", err)
	}

	return writeJSON(w, http.StatusOK, toStockListResponse(h.board.View()))
}

func (h *stockHandler) SearchStocks(w http.ResponseWriter, r *http.Request) error {
	var req SearchRequest
	if err := decodeBody(r, h.validator, &req); err != nil {
		return err
	}

	h.board.Search(req.Query)

	return writeJSON(w, http.StatusAccepted, SearchResponse(req))
}

func (h *stockHandler) ListLowStocks(w http.ResponseWriter, _ *http.Request) error {
	return writeJSON(w, http.StatusOK, toStockResponses(h.board.LowStock()))
}

func (h *stockHandler) RequestStockDelete(w http.ResponseWriter, r *http.Request) error {
	id, err := pathParam(r, "id")
	if err != nil {
		return err
	}

	confirmation, err := h.board.RequestDelete(id)
	if err != nil {
		return fmt.Errorf("stock board request delete: %w", err)
	}

	return writeJSON(w, http.StatusCreated, confirmation)
}
