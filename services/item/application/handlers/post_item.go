package handlers

import (
	"net/http"

	"github.com/ghuser/catalog/pkg/httpx"
	pkgvalidator "github.com/ghuser/catalog/pkg/validator"
	"github.com/ghuser/catalog/services/item/application/dto"
	appsvcs "github.com/ghuser/catalog/services/item/application/services"
)

// PostItemHandler handles POST /items requests.
type PostItemHandler struct{ base }

// NewPostItemHandler returns a PostItemHandler backed by the given services.
func NewPostItemHandler(svc *appsvcs.Services, production bool) *PostItemHandler {
	return &PostItemHandler{newBase(svc, production)}
}

// Execute creates a new item.
//
//	@Summary		Create item
//	@Description	Creates an item; id and createdDate are assigned by the server
//	@Tags			items
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.CreateItemRequest	true	"Item creation request"
//	@Success		201		{object}	dto.ItemResponse
//	@Header			201		{string}	Location	"/items/{id}"
//	@Failure		400		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Failure		413		{object}	ErrorResponse
//	@Failure		422		{object}	ValidationErrorResponse
//	@Failure		503		{object}	ErrorResponse
//	@Router			/items [post]
func (h *PostItemHandler) Execute(w http.ResponseWriter, r *http.Request) {
	req, ok := pkgvalidator.ValidateRequest[dto.CreateItemRequest](w, r)
	if !ok {
		return
	}

	item, err := h.svc.Item.Create(r.Context(), *req)
	if err != nil {
		h.errw.WriteError(w, err)
		return
	}

	httpx.Created(w, "/items/"+item.ID, item)
}
