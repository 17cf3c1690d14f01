package services

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"donpollo_back_end/internal/config"
	"donpollo_back_end/internal/models"
	"donpollo_back_end/internal/report"
	"donpollo_back_end/internal/utils"

	"github.com/rs/zerolog"
	"github.com/wneessen/go-mail"
)

// OrderNotifier prévient la boutique par e-mail à chaque nouvelle commande
type OrderNotifier struct {
	cfg      config.SMTPConfig
	shopName string
	log      zerolog.Logger
	timeout  time.Duration
	send     func(ctx context.Context, msg *mail.Msg) error
}

func NewOrderNotifier(cfg config.SMTPConfig, shopName string, log zerolog.Logger) *OrderNotifier {
	n := &OrderNotifier{cfg: cfg, shopName: shopName, log: log, timeout: 30 * time.Second}
	n.send = n.dialAndSend
	return n
}

// OrderPlaced s'utilise comme orders.PlacedHook ; l'envoi part en arrière-plan
func (n *OrderNotifier) OrderPlaced(_ context.Context, conf models.Confirmation) {
	msg, err := n.BuildMessage(conf)
	if err != nil {
		n.log.Error().Err(err).Str("order_number", conf.Order.OrderNumber).Msg("❌ E-mail de commande invalide")
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
		defer cancel()

		if err := n.send(ctx, msg); err != nil {
			n.log.Error().Err(err).Str("order_number", conf.Order.OrderNumber).Msg("❌ Envoi e-mail échoué")
			return
		}
		n.log.Info().Str("order_number", conf.Order.OrderNumber).Str("to", n.cfg.NotifyTo).Msg("📤 E-mail de commande envoyé")
	}()
}

func (n *OrderNotifier) BuildMessage(conf models.Confirmation) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(n.cfg.From); err != nil {
		return nil, err
	}
	if err := msg.To(n.cfg.NotifyTo); err != nil {
		return nil, err
	}
	msg.Subject(fmt.Sprintf("[%s] Nuevo pedido %s", n.shopName, conf.Order.OrderNumber))
	msg.SetBodyString(mail.TypeTextHTML, orderHTML(n.shopName, conf))

	png, err := utils.PickupQR(conf.Order.OrderNumber, conf.InvoiceNumber)
	if err != nil {
		return nil, err
	}
	msg.AttachReader("retiro_"+conf.Order.OrderNumber+".png", bytes.NewReader(png))
	return msg, nil
}

func (n *OrderNotifier) dialAndSend(ctx context.Context, msg *mail.Msg) error {
	client, err := mail.NewClient(n.cfg.Host,
		mail.WithPort(n.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthLogin),
		mail.WithUsername(n.cfg.Username),
		mail.WithPassword(n.cfg.Password),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return err
	}
	return client.DialAndSendWithContext(ctx, msg)
}

func orderHTML(shopName string, conf models.Confirmation) string {
	var rows strings.Builder
	for _, l := range conf.Lines {
		fmt.Fprintf(&rows, `
			<tr>
				<td>%s</td>
				<td>%d</td>
				<td>%s</td>
				<td>%s</td>
			</tr>`, html.EscapeString(l.ProductName), l.Quantity, report.FormatMoney(l.UnitPrice), report.FormatMoney(l.Subtotal))
	}

	o := conf.Order
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="es">
<head><meta charset="UTF-8"><title>Nuevo pedido</title></head>
<body style="font-family: Arial, sans-serif;">
	<h2>%s · Pedido %s</h2>
	<p>Factura: <strong>%s</strong></p>
	<p>Cliente: %s<br>Teléfono: %s<br>Dirección: %s<br>Pago: %s</p>
	<table style="border-collapse: collapse;">
		<thead><tr><th>Producto</th><th>Cantidad</th><th>Precio</th><th>Subtotal</th></tr></thead>
		<tbody>%s
		</tbody>
	</table>
	<p><strong>Total: %s</strong></p>
</body>
</html>`,
		html.EscapeString(shopName), o.OrderNumber, conf.InvoiceNumber,
		html.EscapeString(o.CustomerName), html.EscapeString(o.CustomerPhone),
		html.EscapeString(o.CustomerAddress), html.EscapeString(o.PaymentMethod),
		rows.String(), report.FormatMoney(o.Total))
}
