package notification

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/malabro/eshop-backend/internal/models"
)

var templateFuncs = template.FuncMap{
	"money": func(v float64) string { return fmt.Sprintf("%.0f FCFA", v) },
	"date":  func(t time.Time) string { return t.Format("02/01/2006 15:04") },
}

const layoutHead = `<!DOCTYPE html><html><body style="font-family:Arial,sans-serif;color:#222;max-width:640px;margin:auto">`
const layoutFoot = `<p style="color:#888;font-size:12px">MALABRO</p></body></html>`

var (
	welcomeTmpl = template.Must(template.New("welcome").Funcs(templateFuncs).Parse(layoutHead + `
<h2>Bienvenue {{.FullName}} !</h2>
<p>Votre compte MALABRO a été créé avec l'adresse {{.Email}}.</p>
<p>Vous pouvez dès maintenant passer vos commandes.</p>` + layoutFoot))

	adminOrderTmpl = template.Must(template.New("admin-order").Funcs(templateFuncs).Parse(layoutHead + `
<h2>Nouvelle commande {{.OrderReference}}</h2>
<p><strong>Client :</strong> {{.CustomerName}} ({{.CustomerEmail}}, {{.CustomerPhone}})</p>
<p><strong>Livraison :</strong> {{.ShippingAddress}}, {{.ShippingCity}}, {{.ShippingCountry}}</p>
<table border="1" cellpadding="6" cellspacing="0" style="border-collapse:collapse">
<tr><th>Produit</th><th>Quantité</th><th>Prix</th><th>Sous-total</th></tr>
{{range .Items}}<tr><td>{{.ProductName}}</td><td>{{.Quantity}}</td><td>{{money .ProductPrice}}</td><td>{{money .Subtotal}}</td></tr>
{{end}}</table>
<p><strong>Total :</strong> {{money .TotalAmount}} &middot; {{.PaymentMethod}} &middot; {{date .CreatedAt}}</p>` + layoutFoot))

	adminPaymentTmpl = template.Must(template.New("admin-payment").Funcs(templateFuncs).Parse(layoutHead + `
<h2>Paiement initié : {{.OrderReference}}</h2>
<p><strong>Client :</strong> {{.CustomerName}}</p>
<p><strong>Email :</strong> {{.CustomerEmail}}</p>
<p><strong>Téléphone :</strong> {{.CustomerPhone}}</p>
<p><strong>Montant :</strong> {{money .TotalAmount}}</p>
<p><strong>Méthode :</strong> {{.PaymentMethod}}</p>
<p>Vérifiez la réception du paiement puis marquez la commande comme payée.</p>` + layoutFoot))

	customerPaymentTmpl = template.Must(template.New("customer-payment").Funcs(templateFuncs).Parse(layoutHead + `
<h2>Merci {{.CustomerName}} !</h2>
<p>Nous avons bien reçu votre demande de paiement pour la commande <strong>{{.OrderReference}}</strong>
d'un montant de {{money .TotalAmount}}.</p>
<p>Nous confirmerons votre commande dès réception du paiement.</p>` + layoutFoot))
)

func render(tmpl *template.Template, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}

func WelcomeEmail(user models.User) (Message, error) {
	body, err := render(welcomeTmpl, user)
	if err != nil {
		return Message{}, err
	}
	return Message{To: user.Email, Subject: "Bienvenue chez MALABRO", Body: body, HTML: true}, nil
}

func AdminNewOrderEmail(adminEmail string, order models.Order) (Message, error) {
	body, err := render(adminOrderTmpl, order)
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:      adminEmail,
		Subject: fmt.Sprintf("Nouvelle commande %s - %s", order.OrderReference, order.CustomerName),
		Body:    body,
		HTML:    true,
	}, nil
}

func AdminPaymentStartedEmail(adminEmail string, input models.PaymentStartedInput) (Message, error) {
	body, err := render(adminPaymentTmpl, input)
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:      adminEmail,
		Subject: fmt.Sprintf("Paiement initié - %s", input.OrderReference),
		Body:    body,
		HTML:    true,
	}, nil
}

func CustomerPaymentStartedEmail(input models.PaymentStartedInput) (Message, error) {
	body, err := render(customerPaymentTmpl, input)
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:      input.CustomerEmail,
		Subject: fmt.Sprintf("Commande %s - paiement en cours de vérification", input.OrderReference),
		Body:    body,
		HTML:    true,
	}, nil
}
