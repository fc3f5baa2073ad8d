package notify

import (
	"encoding/base64"
	"fmt"
	"time"

	"github.com/pesanort/tallergo/internal/models"
)

const emailLayout = `<!DOCTYPE html>
<html>
  <body style="margin: 0; padding: 0; font-family: Arial, sans-serif; background-color: #f3f4f6;">
    <table width="100%%" cellpadding="0" cellspacing="0" style="background-color: #f3f4f6; padding: 40px 0;">
      <tr>
        <td align="center">
          <table width="600" cellpadding="0" cellspacing="0" style="background-color: #ffffff; border-radius: 8px; overflow: hidden;">
            <tr>
              <td style="background: linear-gradient(135deg, #fb923c 0%%, #f97316 100%%); padding: 40px; text-align: center;">
                <h1 style="margin: 0; color: #ffffff; font-size: 32px; font-weight: bold;">PESANORT</h1>
                <p style="margin: 10px 0 0 0; color: #ffffff; font-size: 14px;">Sistema de Gestión de Taller</p>
              </td>
            </tr>
            <tr>
              <td style="padding: 40px;">%s</td>
            </tr>
            <tr>
              <td style="background-color: #f9fafb; padding: 30px; text-align: center; border-top: 1px solid #e5e7eb;">
                <p style="margin: 0; color: #6b7280; font-size: 12px;">© %d PESANORT - Taller Automotriz</p>
              </td>
            </tr>
          </table>
        </td>
      </tr>
    </table>
  </body>
</html>`

func wrap(content string) string {
	return fmt.Sprintf(emailLayout, content, time.Now().Year())
}

func detailRow(label, value string) string {
	return fmt.Sprintf(`<tr>
      <td style="padding: 12px; border-bottom: 1px solid #e5e7eb; font-weight: bold; color: #6b7280; font-size: 14px;">%s</td>
      <td style="padding: 12px; border-bottom: 1px solid #e5e7eb; color: #1f2937; font-size: 14px;">%s</td>
    </tr>`, label, value)
}

// AppointmentConfirmationEmail is sent to the customer right after a public
// appointment request. qrPNG may be nil; when present it is embedded inline
// so the confirmation link can be scanned from a phone.
func AppointmentConfirmationEmail(a *models.Appointment, confirmURL string, qrPNG []byte) (subject, html string) {
	subject = "PESANORT - Confirma tu cita"

	qrBlock := ""
	if len(qrPNG) > 0 {
		qrBlock = fmt.Sprintf(`<p style="text-align: center; margin: 20px 0;">
          <img src="data:image/png;base64,%s" width="160" height="160" alt="QR de confirmación" />
        </p>`, base64.StdEncoding.EncodeToString(qrPNG))
	}

	content := fmt.Sprintf(`<h2 style="margin: 0 0 20px 0; color: #1f2937;">Hola %s,</h2>
      <p style="color: #1f2937; font-size: 16px; line-height: 1.6;">
        Hemos recibido tu solicitud de cita. Por favor confírmala haciendo clic en el botón.
        El enlace es válido por 48 horas.
      </p>
      <table width="100%%" cellpadding="0" cellspacing="0" style="margin: 30px 0; border-collapse: collapse;">
        %s%s%s
      </table>
      <p style="text-align: center; margin: 30px 0;">
        <a href="%s" style="display: inline-block; padding: 14px 28px; background-color: #f97316; color: #ffffff; border-radius: 6px; text-decoration: none; font-weight: bold;">Confirmar cita</a>
      </p>
      %s`,
		a.Name,
		detailRow("Fecha", a.Date.Format("02/01/2006")),
		detailRow("Teléfono", a.Phone),
		detailRow("Descripción", a.Description),
		confirmURL,
		qrBlock,
	)

	return subject, wrap(content)
}

// AppointmentConfirmedNotificationEmail tells staff a customer confirmed
func AppointmentConfirmedNotificationEmail(a *models.Appointment) (subject, html string) {
	subject = "PESANORT - Cita confirmada por el cliente"

	content := fmt.Sprintf(`<h2 style="margin: 0 0 20px 0; color: #1f2937;">Cita confirmada</h2>
      <p style="color: #1f2937; font-size: 16px; line-height: 1.6;">
        El cliente ha confirmado su cita. Detalles:
      </p>
      <table width="100%%" cellpadding="0" cellspacing="0" style="margin: 30px 0; border-collapse: collapse;">
        %s%s%s%s%s
      </table>`,
		detailRow("Cliente", a.Name),
		detailRow("Email", a.Email),
		detailRow("Teléfono", a.Phone),
		detailRow("Fecha", a.Date.Format("02/01/2006")),
		detailRow("Descripción", a.Description),
	)

	return subject, wrap(content)
}

var statusMessages = map[models.OrderStatus]struct {
	subject string
	message string
	color   string
}{
	models.OrderInProgress: {
		subject: "Su vehículo está en proceso",
		message: "Hemos comenzado a trabajar en su vehículo. Le mantendremos informado del progreso.",
		color:   "#3b82f6",
	},
	models.OrderPaused: {
		subject: "Su orden de servicio ha sido pausada",
		message: "Hemos pausado temporalmente el trabajo en su vehículo. Nos pondremos en contacto con usted para coordinar los siguientes pasos.",
		color:   "#f59e0b",
	},
	models.OrderCompleted: {
		subject: "Su vehículo está listo",
		message: "¡Buenas noticias! Hemos completado el servicio de su vehículo. Ya puede pasar a recogerlo.",
		color:   "#10b981",
	},
}

// ServiceOrderStatusEmail tells the customer about a status change
func ServiceOrderStatusEmail(order *models.ServiceOrder) (subject, html string) {
	info := statusMessages[order.Status]
	subject = "PESANORT - " + info.subject

	vehicle := ""
	plate := ""
	if order.Vehicle != nil {
		vehicle = order.Vehicle.Brand + " " + order.Vehicle.Model
		plate = order.Vehicle.Plate
	}
	customerName := ""
	if order.Customer != nil {
		customerName = order.Customer.Name
	}

	content := fmt.Sprintf(`<h2 style="margin: 0 0 20px 0; color: #1f2937;">Hola %s,</h2>
      <div style="border-left: 4px solid %s; padding: 20px; margin: 20px 0; background-color: #f9fafb; border-radius: 4px;">
        <p style="margin: 0; color: #1f2937; font-size: 16px; line-height: 1.6;">%s</p>
      </div>
      <table width="100%%" cellpadding="0" cellspacing="0" style="margin: 30px 0; border-collapse: collapse;">
        %s%s%s%s
      </table>
      <p style="margin: 30px 0 10px 0; color: #6b7280; font-size: 14px;">Si tiene alguna pregunta, no dude en contactarnos.</p>
      <p style="margin: 10px 0 0 0; color: #1f2937; font-size: 14px; font-weight: bold;">Equipo PESANORT</p>`,
		customerName,
		info.color,
		info.message,
		detailRow("Orden de Servicio", "#"+order.OrderNumber),
		detailRow("Vehículo", vehicle),
		detailRow("Placa", plate),
		detailRow("Estado", string(order.Status)),
	)

	return subject, wrap(content)
}

// LowStockAlertEmail warns an admin that a part dropped to the threshold
func LowStockAlertEmail(part *models.Part) (subject, html string) {
	subject = fmt.Sprintf("PESANORT - Stock bajo: %s", part.Name)

	content := fmt.Sprintf(`<h2 style="margin: 0 0 20px 0; color: #1f2937;">Alerta de stock bajo</h2>
      <p style="color: #1f2937; font-size: 16px; line-height: 1.6;">
        El siguiente repuesto ha llegado a un nivel crítico de inventario:
      </p>
      <table width="100%%" cellpadding="0" cellspacing="0" style="margin: 30px 0; border-collapse: collapse;">
        %s%s%s
      </table>
      <p style="color: #6b7280; font-size: 14px;">Considere reponer el inventario pronto.</p>`,
		detailRow("Repuesto", part.Name),
		detailRow("Código", part.Code),
		detailRow("Stock actual", fmt.Sprintf("%d unidades", part.Stock)),
	)

	return subject, wrap(content)
}
