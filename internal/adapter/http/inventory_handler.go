package http

import (
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"

	"cafeteria-backend/internal/adapter/logger"
	"cafeteria-backend/internal/interfaces"
)

type InventoryHandler struct {
	service interfaces.InventoryService
	logger  logger.Logger
}

func NewInventoryHandler(service interfaces.InventoryService, lgr logger.Logger) *InventoryHandler {
	return &InventoryHandler{service: service, logger: lgr}
}

type createIngredientRequest struct {
	Nombre      string          `json:"nombre"`
	Unidad      string          `json:"unidad"`
	Stock       decimal.Decimal `json:"stock"`
	StockMinimo decimal.Decimal `json:"stockMinimo"`
}

type updateIngredientRequest struct {
	Nombre             *string          `json:"nombre"`
	UnidadMedida       *string          `json:"unidadMedida"`
	CantidadDisponible *decimal.Decimal `json:"cantidadDisponible"`
	CantidadMinima     *decimal.Decimal `json:"cantidadMinima"`
}

type adjustStockRequest struct {
	Cantidad decimal.Decimal `json:"cantidad"`
}

func (h *InventoryHandler) List(w http.ResponseWriter, r *http.Request) {
	ingredients, err := h.service.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, toIngredientResponses(ingredients))
}

func (h *InventoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid ingrediente id")
		return
	}

	ing, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, toIngredientResponse(ing))
}

func (h *InventoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createIngredientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ing, err := h.service.Create(r.Context(), interfaces.CreateIngredientCommand{
		Name:      req.Nombre,
		Unit:      req.Unidad,
		Available: req.Stock,
		Minimum:   req.StockMinimo,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeMessage(w, http.StatusCreated, "Ingrediente created successfully", toIngredientResponse(ing))
}

func (h *InventoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid ingrediente id")
		return
	}

	var req updateIngredientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ing, err := h.service.Update(r.Context(), id, interfaces.UpdateIngredientCommand{
		Name:      req.Nombre,
		Unit:      req.UnidadMedida,
		Available: req.CantidadDisponible,
		Minimum:   req.CantidadMinima,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "Ingrediente updated successfully", toIngredientResponse(ing))
}

func (h *InventoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid ingrediente id")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "Ingrediente deleted successfully", nil)
}

// Adjust applies a signed stock delta: positive receives stock, negative
// consumes it. A delta that would take the quantity negative is rejected.
func (h *InventoryHandler) Adjust(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid ingrediente id")
		return
	}

	var req adjustStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ing, err := h.service.Adjust(r.Context(), id, req.Cantidad)
	if err != nil {
		writeError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "Stock updated successfully", toIngredientResponse(ing))
}

func (h *InventoryHandler) LowStock(w http.ResponseWriter, r *http.Request) {
	ingredients, err := h.service.ListLowStock(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, toIngredientResponses(ingredients))
}
