package handlers

import (
	"net/http"

	"github.com/ghuser/catalog/pkg/httpx"
	appsvcs "github.com/ghuser/catalog/services/item/application/services"
)

// GetItemsHandler handles GET /items.
type GetItemsHandler struct{ base }

// NewGetItemsHandler returns a GetItemsHandler backed by the given services.
func NewGetItemsHandler(svc *appsvcs.Services, production bool) *GetItemsHandler {
	return &GetItemsHandler{newBase(svc, production)}
}

// Execute lists all items.
//
//	@Summary		List items
//	@Description	Returns every item in the catalog
//	@Tags			items
//	@Produce		json
//	@Success		200	{array}		dto.ItemResponse
//	@Failure		503	{object}	ErrorResponse
//	@Router			/items [get]
func (h *GetItemsHandler) Execute(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.Item.List(r.Context())
	if err != nil {
		h.errw.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, items)
}
