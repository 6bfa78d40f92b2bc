package utils

import (
	"fmt"
	"html"
)

// BrandedEmail is the content of one KataraLM transactional email. Body is
// inserted as HTML; every other field is escaped.
type BrandedEmail struct {
	Subject      string
	Title        string
	Body         string
	Code         string
	CTAURL       string
	CTAText      string
	ContactEmail string
	WhatsAppLink string
	TermsURL     string
	PrivacyURL   string
	Year         int
}

// Arguments: subject, title, body, code block, cta block, contact email,
// whatsapp link, terms url, privacy url, year.
const brandedEmailHTML = `<!doctype html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<meta name="color-scheme" content="light">
<title>%[1]s</title>
<style>
html,body { background:#ffffff; margin:0; padding:0; }
.container { max-width:600px; margin:18px auto; background:#ffffff; border-radius:18px; box-shadow:0 8px 30px rgba(2,6,23,0.06); font-family:Arial,Helvetica,sans-serif; }
.brand { background:#1E2A5A; color:#ffffff; padding:16px 18px; font-weight:800; font-size:18px; }
.subtitle { font-size:12px; color:#cbd5e1; font-weight:400; }
.content { padding:16px 18px 6px; text-align:center; }
h1 { margin:0 0 10px; font-size:18px; color:#0f172a; }
p { margin:0 0 14px; font-size:14px; line-height:1.6; color:#334155; }
.code-box { background:#f8fafc; border:1px solid #e2e8f0; border-radius:14px; padding:14px; }
.code { font-size:28px; letter-spacing:6px; font-weight:900; color:#1E2A5A; font-family:monospace; }
.cta a { display:inline-block; margin-top:14px; background:#1E2A5A; color:#ffffff; text-decoration:none; padding:12px 18px; border-radius:12px; font-weight:700; }
.footer { padding:12px 18px 18px; border-top:1px solid #e2e8f0; font-size:12px; color:#64748b; text-align:center; }
.footer a { color:#1E2A5A; }
.muted { color:#94a3b8; font-size:11px; text-align:center; }
</style>
</head>
<body>
  <div class="container">
    <div class="brand">KataraLM<div class="subtitle">Asistente inteligente de reciclaje y sostenibilidad</div></div>
    <div class="content">
      <h1>%[2]s</h1>
      <p>%[3]s</p>
      %[4]s
      %[5]s
    </div>
    <div class="footer">
      <div>¿Necesitas ayuda? Contáctanos: <a href="mailto:%[6]s">%[6]s</a> · <a href="%[7]s">WhatsApp</a></div>
      <div style="margin-top:6px;"><a href="%[8]s">Términos y Condiciones</a> · <a href="%[9]s">Política de Privacidad</a></div>
      <div style="margin-top:10px;">© %[10]d KataraLM. Todos los derechos reservados.</div>
    </div>
  </div>
  <div class="muted">Si tú no solicitaste este correo, puedes ignorarlo.</div>
</body>
</html>`

const codeBlockHTML = `<div class="code-box">
        <div style="font-size:12px;color:#64748b;margin-bottom:6px;">Tu código es:</div>
        <div class="code">%s</div>
        <div style="font-size:12px;color:#64748b;margin-top:10px;">No compartas este código con nadie.</div>
      </div>`

const ctaBlockHTML = `<div class="cta"><a href="%s">%s</a></div>`

func orHash(s string) string {
	if s == "" {
		return "#"
	}
	return s
}

// RenderBrandedEmail fills the shared KataraLM layout.
func RenderBrandedEmail(e BrandedEmail) string {
	esc := html.EscapeString

	code := ""
	if e.Code != "" {
		code = fmt.Sprintf(codeBlockHTML, esc(e.Code))
	}
	cta := ""
	if e.CTAURL != "" && e.CTAText != "" {
		cta = fmt.Sprintf(ctaBlockHTML, esc(e.CTAURL), esc(e.CTAText))
	}

	return fmt.Sprintf(brandedEmailHTML,
		esc(e.Subject), esc(e.Title), e.Body, code, cta,
		esc(e.ContactEmail), esc(orHash(e.WhatsAppLink)),
		esc(orHash(e.TermsURL)), esc(orHash(e.PrivacyURL)),
		e.Year,
	)
}
