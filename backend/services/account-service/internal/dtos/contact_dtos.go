package dtos

type ContactRequest struct {
	Email   *string `json:"email" validate:"omitempty,email,max=254"`
	Message string  `json:"message" validate:"required,max=5000"`
}

type ContactResponse struct {
	OK       bool   `json:"ok"`
	WhatsApp string `json:"whatsapp"`
}

type LegalDocument struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}
