package handlers

import (
	"net/http"

	"github.com/ghuser/catalog/pkg/httpx"
	appsvcs "github.com/ghuser/catalog/services/item/application/services"
)

// DeleteItemHandler handles DELETE /items/{id}.
type DeleteItemHandler struct{ base }

// NewDeleteItemHandler returns a DeleteItemHandler backed by the given services.
func NewDeleteItemHandler(svc *appsvcs.Services, production bool) *DeleteItemHandler {
	return &DeleteItemHandler{newBase(svc, production)}
}

// Execute removes an item.
//
//	@Summary	Delete item
//	@Tags		items
//	@Param		id	path	string	true	"Item ID"	format(uuid)
//	@Success	204
//	@Failure	400	{object}	ErrorResponse
//	@Failure	404	{object}	ErrorResponse
//	@Failure	503	{object}	ErrorResponse
//	@Router		/items/{id} [delete]
func (h *DeleteItemHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}
	if err := h.svc.Item.Delete(r.Context(), id); err != nil {
		h.errw.WriteError(w, err)
		return
	}
	httpx.NoContent(w)
}
