package controllers

import (
	"net/http"

	"github.com/katara/mono-repo/backend/services/account-service/internal/dtos"
	"github.com/katara/mono-repo/backend/services/account-service/internal/services"
	shared_dtos "github.com/katara/mono-repo/backend/shared/go-dtos"
	"github.com/katara/mono-repo/backend/shared/go-utils"
)

type ContactController struct {
	contactService *services.ContactService
	whatsAppLink   string
}

func NewContactController(contactService *services.ContactService, whatsAppLink string) *ContactController {
	return &ContactController{contactService: contactService, whatsAppLink: whatsAppLink}
}

// SubmitHandler => POST /contact. Authentication is optional.
func (c *ContactController) SubmitHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.ContactRequest
	if !shared_dtos.DecodeAndValidate(w, r, validate, &req) {
		return
	}

	if err := c.contactService.Submit(r.Context(), req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusInternalServerError, utils.ErrCodeInternal, "Failed to save message", nil, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.ContactResponse{OK: true, WhatsApp: c.whatsAppLink})
}
