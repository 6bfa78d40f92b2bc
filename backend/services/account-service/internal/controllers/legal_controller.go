package controllers

import (
	"net/http"

	"github.com/katara/mono-repo/backend/services/account-service/internal/dtos"
	"github.com/katara/mono-repo/backend/shared/go-utils"
)

const legalPlaceholder = "Contenido por definir en el frontend / sitio oficial."

type LegalController struct{}

func NewLegalController() *LegalController {
	return &LegalController{}
}

func (c *LegalController) TermsHandler(w http.ResponseWriter, _ *http.Request) {
	utils.RespondWithJSON(w, http.StatusOK, dtos.LegalDocument{
		Title:   "Términos y Condiciones",
		Content: legalPlaceholder,
	})
}

func (c *LegalController) PrivacyHandler(w http.ResponseWriter, _ *http.Request) {
	utils.RespondWithJSON(w, http.StatusOK, dtos.LegalDocument{
		Title:   "Política de Privacidad",
		Content: legalPlaceholder,
	})
}
