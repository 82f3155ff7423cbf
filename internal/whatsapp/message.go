package whatsapp

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/axisvitor/sistema-cobranca/internal/domain"
)

var ptBR = message.NewPrinter(language.BrazilianPortuguese)

func formatCurrency(v float64) string {
	return ptBR.Sprintf("R$ %.2f", v)
}

// RenderCharge builds the payment-reminder message sent to a customer.
func RenderCharge(c *domain.Customer, d *domain.Debt) string {
	desc := d.Description
	if desc == "" {
		desc = "Não especificada"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Olá %s,\n\n", c.Name)
	b.WriteString("Gostaríamos de lembrá-lo(a) sobre um pagamento pendente:\n\n")
	fmt.Fprintf(&b, "Valor: %s\n", formatCurrency(d.Amount))
	fmt.Fprintf(&b, "Vencimento: %s\n", d.DueDate.Format("02/01/2006"))
	fmt.Fprintf(&b, "Descrição: %s\n\n", desc)
	b.WriteString("Por favor, entre em contato conosco para regularizar sua situação.\n\n")
	b.WriteString("Esta é uma mensagem automática. Não responda por este canal.")
	return b.String()
}

// RenderReport builds the daily management report message.
func RenderReport(r domain.Report) string {
	var b strings.Builder
	b.WriteString("📊 Relatório Diário de Cobranças\n\n")
	fmt.Fprintf(&b, "Total de Cobranças: %d\n", r.Total)
	fmt.Fprintf(&b, "Enviadas com Sucesso: %d\n", r.Success)
	fmt.Fprintf(&b, "Falhas no Envio: %d\n\n", r.Failure)
	fmt.Fprintf(&b, "💰 Valor Total Pendente: %s\n\n", formatCurrency(r.PendingTotal))
	b.WriteString("Esta é uma mensagem automática do sistema.")
	return b.String()
}
