package handlers

import (
	"net/http"

	"github.com/ghuser/catalog/pkg/httpx"
	appsvcs "github.com/ghuser/catalog/services/item/application/services"
)

// GetItemHandler handles GET /items/{id}.
type GetItemHandler struct{ base }

// NewGetItemHandler returns a GetItemHandler backed by the given services.
func NewGetItemHandler(svc *appsvcs.Services, production bool) *GetItemHandler {
	return &GetItemHandler{newBase(svc, production)}
}

// Execute returns one item.
//
//	@Summary		Get item
//	@Tags			items
//	@Produce		json
//	@Param			id	path		string	true	"Item ID"	format(uuid)
//	@Success		200	{object}	dto.ItemResponse
//	@Failure		400	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Failure		503	{object}	ErrorResponse
//	@Router			/items/{id} [get]
func (h *GetItemHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}
	item, err := h.svc.Item.Get(r.Context(), id)
	if err != nil {
		h.errw.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, item)
}
