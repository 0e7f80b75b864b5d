package handlers

import (
	"net/http"

	"github.com/ghuser/catalog/pkg/httpx"
	pkgvalidator "github.com/ghuser/catalog/pkg/validator"
	"github.com/ghuser/catalog/services/item/application/dto"
	appsvcs "github.com/ghuser/catalog/services/item/application/services"
)

// PutItemHandler handles PUT /items/{id}.
type PutItemHandler struct{ base }

// NewPutItemHandler returns a PutItemHandler backed by the given services.
func NewPutItemHandler(svc *appsvcs.Services, production bool) *PutItemHandler {
	return &PutItemHandler{newBase(svc, production)}
}

// Execute overwrites name and price of an item.
//
//	@Summary		Update item
//	@Description	Replaces name and price; description and createdDate are kept
//	@Tags			items
//	@Accept			json
//	@Param			id		path	string					true	"Item ID"	format(uuid)
//	@Param			request	body	dto.UpdateItemRequest	true	"Item update request"
//	@Success		204
//	@Failure		400	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Failure		422	{object}	ValidationErrorResponse
//	@Failure		503	{object}	ErrorResponse
//	@Router			/items/{id} [put]
func (h *PutItemHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}
	req, ok := pkgvalidator.ValidateRequest[dto.UpdateItemRequest](w, r)
	if !ok {
		return
	}
	if err := h.svc.Item.Update(r.Context(), id, *req); err != nil {
		h.errw.WriteError(w, err)
		return
	}
	httpx.NoContent(w)
}
