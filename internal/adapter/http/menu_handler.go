package http

import (
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"

	"cafeteria-backend/internal/adapter/logger"
	"cafeteria-backend/internal/interfaces"
)

type MenuHandler struct {
	service interfaces.MenuService
	logger  logger.Logger
}

func NewMenuHandler(service interfaces.MenuService, lgr logger.Logger) *MenuHandler {
	return &MenuHandler{service: service, logger: lgr}
}

type createMenuItemRequest struct {
	Nombre      string          `json:"nombre"`
	Descripcion string          `json:"descripcion"`
	Precio      decimal.Decimal `json:"precio"`
	Disponible  *bool           `json:"disponible"`
	Categoria   string          `json:"categoria"`
}

type updateMenuItemRequest struct {
	Nombre      *string          `json:"nombre"`
	Descripcion *string          `json:"descripcion"`
	Precio      *decimal.Decimal `json:"precio"`
	Disponible  *bool            `json:"disponible"`
	Categoria   *string          `json:"categoria"`
}

type recipeLineRequest struct {
	IngredienteID int             `json:"ingredienteId"`
	Cantidad      decimal.Decimal `json:"cantidad"`
}

// List serves the customer-facing menu: available items only. Staff may ask
// for the full catalog with ?all=true.
func (h *MenuHandler) List(w http.ResponseWriter, r *http.Request) {
	requester, ok := requesterFrom(r.Context())

	if r.URL.Query().Get("all") == "true" && ok && requester.Staff() {
		all, err := h.service.ListAll(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeData(w, http.StatusOK, toMenuItemResponses(all))
		return
	}

	available, err := h.service.ListAvailable(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, toMenuItemResponses(available))
}

func (h *MenuHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid menu id")
		return
	}

	item, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusOK, toMenuItemResponse(item))
}

func (h *MenuHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createMenuItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	available := true
	if req.Disponible != nil {
		available = *req.Disponible
	}

	item, err := h.service.Create(r.Context(), interfaces.CreateMenuItemCommand{
		Name:        req.Nombre,
		Description: req.Descripcion,
		Price:       req.Precio,
		Available:   available,
		Category:    req.Categoria,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeMessage(w, http.StatusCreated, "Menu item created successfully", toMenuItemResponse(item))
}

func (h *MenuHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid menu id")
		return
	}

	var req updateMenuItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.service.Update(r.Context(), id, interfaces.UpdateMenuItemCommand{
		Name:        req.Nombre,
		Description: req.Descripcion,
		Price:       req.Precio,
		Available:   req.Disponible,
		Category:    req.Categoria,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "Menu item updated successfully", toMenuItemResponse(item))
}

func (h *MenuHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid menu id")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "Menu item deleted successfully", nil)
}

func (h *MenuHandler) AddIngrediente(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid menu id")
		return
	}

	var req recipeLineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.service.AddRecipeLine(r.Context(), id, req.IngredienteID, req.Cantidad)
	if err != nil {
		writeError(w, err)
		return
	}

	writeMessage(w, http.StatusCreated, "Ingrediente added to menu item", toMenuItemResponse(item))
}

func (h *MenuHandler) UpdateIngrediente(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid menu id")
		return
	}
	ingredienteID, err := pathID(r, "ingredienteId")
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid ingrediente id")
		return
	}

	var req struct {
		Cantidad decimal.Decimal `json:"cantidad"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.service.UpdateRecipeLine(r.Context(), id, ingredienteID, req.Cantidad)
	if err != nil {
		writeError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "Ingrediente updated on menu item", toMenuItemResponse(item))
}

func (h *MenuHandler) RemoveIngrediente(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid menu id")
		return
	}
	ingredienteID, err := pathID(r, "ingredienteId")
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid ingrediente id")
		return
	}

	item, err := h.service.RemoveRecipeLine(r.Context(), id, ingredienteID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "Ingrediente removed from menu item", toMenuItemResponse(item))
}
