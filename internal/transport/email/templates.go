package email

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"
)

//go:embed templates/*
var templateFS embed.FS

// Subjects of the outgoing messages.
const (
	subjectVerification      = "كود التحقق - أضحيتي"
	subjectPasswordReset     = "كود إعادة تعيين كلمة المرور - أضحيتي"
	subjectOrderConfirmation = "تأكيد طلب الشراء - أضحيتي"
	subjectAdminNotification = "طلب شراء جديد - أضحيتي"
)

// Templates renders the Arabic (RTL) message bodies.
type Templates struct {
	html *htmltemplate.Template
	text *texttemplate.Template
}

// LoadTemplates parses the embedded templates.
func LoadTemplates() (*Templates, error) {
	h, err := htmltemplate.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse html templates: %w", err)
	}
	t, err := texttemplate.ParseFS(templateFS, "templates/*.txt")
	if err != nil {
		return nil, fmt.Errorf("parse text templates: %w", err)
	}
	return &Templates{html: h, text: t}, nil
}

type codeData struct {
	Email   string
	Code    string
	Minutes int
}

type orderData struct {
	OrderID  string
	Customer string
}

// Verification renders the registration code message.
func (t *Templates) Verification(to, code string, minutes int) (Message, error) {
	return t.render(KindVerification, to, subjectVerification,
		"verification.html", "verification.txt", codeData{Email: to, Code: code, Minutes: minutes})
}

// PasswordReset renders the reset code message.
func (t *Templates) PasswordReset(to, code string, minutes int) (Message, error) {
	return t.render(KindPasswordReset, to, subjectPasswordReset,
		"password_reset.html", "password_reset.txt", codeData{Email: to, Code: code, Minutes: minutes})
}

// OrderConfirmation renders the customer's order receipt.
func (t *Templates) OrderConfirmation(to, orderID string) (Message, error) {
	return t.render(KindOrderConfirmation, to, subjectOrderConfirmation,
		"order_confirmation.html", "", orderData{OrderID: orderID})
}

// AdminNotification renders the new-order notice for the administrator.
func (t *Templates) AdminNotification(adminEmail, orderID, customer string) (Message, error) {
	return t.render(KindAdminNotification, adminEmail, subjectAdminNotification,
		"admin_notification.html", "", orderData{OrderID: orderID, Customer: customer})
}

func (t *Templates) render(kind Kind, to, subject, htmlName, textName string, data any) (Message, error) {
	var hb bytes.Buffer
	if err := t.html.ExecuteTemplate(&hb, htmlName, data); err != nil {
		return Message{}, fmt.Errorf("render %s: %w", htmlName, err)
	}

	msg := Message{Kind: kind, To: to, Subject: subject, HTML: hb.String()}
	if textName != "" {
		var tb bytes.Buffer
		if err := t.text.ExecuteTemplate(&tb, textName, data); err != nil {
			return Message{}, fmt.Errorf("render %s: %w", textName, err)
		}
		msg.Text = tb.String()
	}
	return msg, nil
}
