// Package notify implementa los puertos de notificación sobre SMTP. Todas las
// notificaciones son best-effort: un fallo de correo nunca revierte la operación
// que lo originó, solo se registra.
package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/wneessen/go-mail"

	"github.com/jhoicas/almacen-api/internal/application/orders"
	"github.com/jhoicas/almacen-api/internal/application/stock"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/pkg/config"
	"github.com/jhoicas/almacen-api/pkg/logger"
)

var _ orders.Notifier = (*Mailer)(nil)
var _ stock.Notifier = (*Mailer)(nil)

// Mailer envía las notificaciones a los responsables de la sede por correo.
// Con SMTP_HOST vacío no envía nada: registra la notificación en el log y termina
// (modo desarrollo).
type Mailer struct {
	cfg config.SMTPConfig
	log *logger.Logger
}

// NewMailer construye el notificador de correo.
func NewMailer(cfg config.SMTPConfig, log *logger.Logger) *Mailer {
	return &Mailer{cfg: cfg, log: log}
}

// NotifyOrderShipped avisa a los responsables de la sede que su pedido salió del almacén.
func (m *Mailer) NotifyOrderShipped(ctx context.Context, order *entity.PurchaseOrder, location *entity.Location) error {
	subject := fmt.Sprintf("Pedido %s enviado", shortID(order.ID))
	body := fmt.Sprintf(
		"El pedido %s para la sede %s salió del almacén central.\n\nEstado: %s\nLíneas:\n%s",
		order.ID, location.Name, order.Status, formatLines(order),
	)
	return m.send(ctx, location.ResponsibleEmails(), subject, body)
}

// NotifyOrderReceived avisa que la sede confirmó la recepción del pedido.
func (m *Mailer) NotifyOrderReceived(ctx context.Context, order *entity.PurchaseOrder, location *entity.Location) error {
	subject := fmt.Sprintf("Pedido %s recibido", shortID(order.ID))
	body := fmt.Sprintf(
		"La sede %s confirmó la recepción del pedido %s. El stock recibido ya figura en el libro de la sede.",
		location.Name, order.ID,
	)
	return m.send(ctx, location.ResponsibleEmails(), subject, body)
}

// NotifyStockBelowMinimum avisa que un artículo quedó por debajo de su umbral mínimo.
func (m *Mailer) NotifyStockBelowMinimum(ctx context.Context, article *entity.Article, location *entity.Location, current int64) error {
	min := int64(0)
	if article.MinStock != nil {
		min = *article.MinStock
	}
	subject := fmt.Sprintf("Stock bajo mínimo: %s en %s", article.Name, location.Name)
	body := fmt.Sprintf(
		"El artículo %s (SKU %s) quedó en %d unidades en la sede %s, por debajo del mínimo de %d.",
		article.Name, article.SKU, current, location.Name, min,
	)
	return m.send(ctx, location.ResponsibleEmails(), subject, body)
}

func (m *Mailer) send(ctx context.Context, to []string, subject, body string) error {
	if len(to) == 0 {
		m.log.Warn().Str("subject", subject).Msg("notificación sin destinatarios")
		return nil
	}
	if m.cfg.Host == "" {
		m.log.Info().Str("subject", subject).Strs("to", to).Msg("notificación (SMTP deshabilitado)")
		return nil
	}

	msg := mail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return fmt.Errorf("remitente inválido: %w", err)
	}
	if err := msg.To(to...); err != nil {
		return fmt.Errorf("destinatarios inválidos: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	opts := []mail.Option{mail.WithPort(m.cfg.Port)}
	if m.cfg.User != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.cfg.User),
			mail.WithPassword(m.cfg.Password),
		)
	}
	client, err := mail.NewClient(m.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("cliente SMTP: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("enviar correo: %w", err)
	}
	return nil
}

func formatLines(order *entity.PurchaseOrder) string {
	var b strings.Builder
	for _, l := range order.Lines {
		fmt.Fprintf(&b, "  - artículo %s: pedido %d, enviado %d\n", l.ArticleID, l.Ordered, l.Shipped)
	}
	return b.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
