package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"cafeteria-backend/internal/adapter/logger"
	"cafeteria-backend/internal/domain"
	"cafeteria-backend/internal/interfaces"
)

type OrderHandler struct {
	service interfaces.OrderService
	logger  logger.Logger
}

func NewOrderHandler(service interfaces.OrderService, lgr logger.Logger) *OrderHandler {
	return &OrderHandler{service: service, logger: lgr}
}

type createOrderRequest struct {
	Items []orderItemRequest `json:"items"`
}

type orderItemRequest struct {
	MenuID   int `json:"menuId"`
	Cantidad int `json:"cantidad"`
}

type updateEstadoRequest struct {
	Estado string `json:"estado"`
}

func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	requester, _ := requesterFrom(r.Context())

	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cmd := interfaces.CreateOrderCommand{CustomerID: requester.ID}
	for _, item := range req.Items {
		cmd.Lines = append(cmd.Lines, interfaces.CartLine{
			MenuItemID: item.MenuID,
			Quantity:   item.Cantidad,
		})
	}

	order, err := h.service.Create(r.Context(), cmd)
	if err != nil {
		writeError(w, err)
		return
	}

	writeMessage(w, http.StatusCreated, "Pedido created successfully", toOrderResponse(order))
}

func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	requester, _ := requesterFrom(r.Context())

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	result, err := h.service.List(r.Context(), page, limit, requester)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, successEnvelope{
		Success:    true,
		Data:       toOrderResponses(result.Orders),
		Pagination: result.Pagination,
	})
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	requester, _ := requesterFrom(r.Context())

	id, err := pathID(r, "id")
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid pedido id")
		return
	}

	order, err := h.service.Get(r.Context(), id, requester)
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusOK, toOrderResponse(order))
}

func (h *OrderHandler) UpdateEstado(w http.ResponseWriter, r *http.Request) {
	requester, _ := requesterFrom(r.Context())

	id, err := pathID(r, "id")
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid pedido id")
		return
	}

	var req updateEstadoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	order, err := h.service.UpdateStatus(r.Context(), id, domain.Status(req.Estado), requester)
	if err != nil {
		writeError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "Pedido estado updated successfully", toOrderResponse(order))
}

func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	requester, _ := requesterFrom(r.Context())

	id, err := pathID(r, "id")
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid pedido id")
		return
	}

	order, err := h.service.Cancel(r.Context(), id, requester)
	if err != nil {
		writeError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "Pedido cancelled successfully", toOrderResponse(order))
}

func (h *OrderHandler) History(w http.ResponseWriter, r *http.Request) {
	requester, _ := requesterFrom(r.Context())

	id, err := pathID(r, "id")
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid pedido id")
		return
	}

	logs, err := h.service.History(r.Context(), id, requester)
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusOK, toStatusLogResponses(logs))
}

func pathID(r *http.Request, name string) (int, error) {
	return strconv.Atoi(chi.URLParam(r, name))
}
