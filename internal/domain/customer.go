package domain

import "time"

// DebtStatus tracks the lifecycle of a single debt.
type DebtStatus string

const (
	DebtPending DebtStatus = "PENDING"
	DebtPaid    DebtStatus = "PAID"
	DebtOverdue DebtStatus = "OVERDUE"
)

func (s DebtStatus) IsValid() bool {
	switch s {
	case DebtPending, DebtPaid, DebtOverdue:
		return true
	}
	return false
}

// Channel is the delivery channel of a notification record.
type Channel string

const (
	ChannelWhatsApp Channel = "WHATSAPP"
	ChannelEmail    Channel = "EMAIL"
)

// NotificationStatus is the recorded outcome of a delivery attempt.
type NotificationStatus string

const (
	NotificationSent    NotificationStatus = "SENT"
	NotificationError   NotificationStatus = "ERROR"
	NotificationPending NotificationStatus = "PENDING"
)

// Customer is the aggregate root. Debts and notification records are child
// rows addressed by their own UUIDs, never by position.
type Customer struct {
	ID            string               `json:"id"`
	Name          string               `json:"name"`
	Phone         string               `json:"phone"`
	Email         string               `json:"email,omitempty"`
	Document      string               `json:"document"`
	Debts         []Debt               `json:"debts,omitempty"`
	Notifications []NotificationRecord `json:"notifications,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

// FindDebt returns the debt with the given id, or ErrDebtNotFound.
func (c *Customer) FindDebt(debtID string) (*Debt, error) {
	for i := range c.Debts {
		if c.Debts[i].ID == debtID {
			return &c.Debts[i], nil
		}
	}
	return nil, ErrDebtNotFound
}

// Debt is an amount owed by a customer.
type Debt struct {
	ID          string     `json:"id"`
	CustomerID  string     `json:"customer_id"`
	Amount      float64    `json:"amount"`
	DueDate     time.Time  `json:"due_date"`
	Description string     `json:"description,omitempty"`
	Status      DebtStatus `json:"status"`
}

// NotificationRecord is the audit trail of one delivery attempt.
// Records are append-only and never mutated after being written.
type NotificationRecord struct {
	ID         string             `json:"id"`
	CustomerID string             `json:"customer_id"`
	Channel    Channel            `json:"channel"`
	SentAt     time.Time          `json:"sent_at"`
	Status     NotificationStatus `json:"status"`
	Message    string             `json:"message,omitempty"`
}

// CreateCustomerRequest is the inbound payload for registering a customer.
type CreateCustomerRequest struct {
	Name     string              `json:"name"`
	Phone    string              `json:"phone"`
	Email    string              `json:"email,omitempty"`
	Document string              `json:"document"`
	Debts    []CreateDebtRequest `json:"debts,omitempty"`
}

func (r *CreateCustomerRequest) Validate() error {
	if r.Name == "" {
		return ErrInvalidName
	}
	if r.Phone == "" {
		return ErrInvalidPhone
	}
	if r.Document == "" {
		return ErrInvalidDocument
	}
	for i := range r.Debts {
		if err := r.Debts[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// CreateDebtRequest is the inbound payload for adding a debt to a customer.
type CreateDebtRequest struct {
	Amount      float64   `json:"amount"`
	DueDate     time.Time `json:"due_date"`
	Description string    `json:"description,omitempty"`
}

func (r *CreateDebtRequest) Validate() error {
	if r.Amount <= 0 {
		return ErrInvalidAmount
	}
	if r.DueDate.IsZero() {
		return ErrInvalidDueDate
	}
	return nil
}

// EnqueueChargeRequest asks for a charge notification to be queued.
type EnqueueChargeRequest struct {
	CustomerID string `json:"customer_id"`
	DebtID     string `json:"debt_id"`
}

func (r *EnqueueChargeRequest) Validate() error {
	if r.CustomerID == "" {
		return ErrInvalidCustomerID
	}
	if r.DebtID == "" {
		return ErrInvalidDebtID
	}
	return nil
}

// ListFilter holds pagination parameters for customer listing.
type ListFilter struct {
	Page  int
	Limit int
}
