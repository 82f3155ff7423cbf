package whatsapp_test

import (
	"strings"
	"testing"
	"time"

	"github.com/axisvitor/sistema-cobranca/internal/domain"
	"github.com/axisvitor/sistema-cobranca/internal/whatsapp"
)

func TestRenderCharge(t *testing.T) {
	c := &domain.Customer{Name: "Maria Souza", Phone: "11999998888"}
	d := &domain.Debt{
		Amount:      150.0,
		DueDate:     time.Date(2026, 8, 15, 0, 0, 0, 0, time.Local),
		Description: "Mensalidade agosto",
	}

	msg := whatsapp.RenderCharge(c, d)

	for _, want := range []string{"Olá Maria Souza", "R$", "150", "15/08/2026", "Mensalidade agosto"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("message missing %q:\n%s", want, msg)
		}
	}
}

func TestRenderCharge_EmptyDescription(t *testing.T) {
	c := &domain.Customer{Name: "João"}
	d := &domain.Debt{Amount: 10, DueDate: time.Now()}

	msg := whatsapp.RenderCharge(c, d)
	if !strings.Contains(msg, "Não especificada") {
		t.Fatalf("expected placeholder description, got:\n%s", msg)
	}
}

func TestRenderReport(t *testing.T) {
	msg := whatsapp.RenderReport(domain.Report{
		Total:        3,
		Success:      2,
		Failure:      1,
		PendingTotal: 150.0,
	})

	for _, want := range []string{
		"Total de Cobranças: 3",
		"Enviadas com Sucesso: 2",
		"Falhas no Envio: 1",
		"R$",
	} {
		if !strings.Contains(msg, want) {
			t.Fatalf("report missing %q:\n%s", want, msg)
		}
	}
}
