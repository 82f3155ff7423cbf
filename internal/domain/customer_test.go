package domain_test

import (
	"testing"
	"time"

	"github.com/axisvitor/sistema-cobranca/internal/domain"
)

func TestCreateCustomerRequest_Validate(t *testing.T) {
	valid := domain.CreateCustomerRequest{
		Name:     "Maria Souza",
		Phone:    "(11) 99999-8888",
		Document: "123.456.789-00",
	}

	t.Run("valid request passes", func(t *testing.T) {
		if err := valid.Validate(); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	t.Run("empty name", func(t *testing.T) {
		r := valid
		r.Name = ""
		if err := r.Validate(); err != domain.ErrInvalidName {
			t.Fatalf("expected ErrInvalidName, got %v", err)
		}
	})

	t.Run("empty phone", func(t *testing.T) {
		r := valid
		r.Phone = ""
		if err := r.Validate(); err != domain.ErrInvalidPhone {
			t.Fatalf("expected ErrInvalidPhone, got %v", err)
		}
	})

	t.Run("empty document", func(t *testing.T) {
		r := valid
		r.Document = ""
		if err := r.Validate(); err != domain.ErrInvalidDocument {
			t.Fatalf("expected ErrInvalidDocument, got %v", err)
		}
	})

	t.Run("embedded debt with zero amount", func(t *testing.T) {
		r := valid
		r.Debts = []domain.CreateDebtRequest{{Amount: 0, DueDate: time.Now()}}
		if err := r.Validate(); err != domain.ErrInvalidAmount {
			t.Fatalf("expected ErrInvalidAmount, got %v", err)
		}
	})
}

func TestEnqueueChargeRequest_Validate(t *testing.T) {
	tests := []struct {
		name string
		req  domain.EnqueueChargeRequest
		want error
	}{
		{"valid", domain.EnqueueChargeRequest{CustomerID: "c1", DebtID: "d1"}, nil},
		{"missing customer id", domain.EnqueueChargeRequest{DebtID: "d1"}, domain.ErrInvalidCustomerID},
		{"missing debt id", domain.EnqueueChargeRequest{CustomerID: "c1"}, domain.ErrInvalidDebtID},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.req.Validate(); err != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestCustomer_FindDebt(t *testing.T) {
	c := &domain.Customer{
		ID: "c1",
		Debts: []domain.Debt{
			{ID: "d1", Amount: 100},
			{ID: "d2", Amount: 50},
		},
	}

	d, err := c.FindDebt("d2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Amount != 50 {
		t.Fatalf("expected amount=50, got %v", d.Amount)
	}

	if _, err := c.FindDebt("missing"); err != domain.ErrDebtNotFound {
		t.Fatalf("expected ErrDebtNotFound, got %v", err)
	}
}
