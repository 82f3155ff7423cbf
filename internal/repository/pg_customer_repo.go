package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/axisvitor/sistema-cobranca/internal/domain"
)

type pgCustomerRepository struct {
	pool *pgxpool.Pool
}

// NewPgCustomerRepository returns a CustomerRepository backed by PostgreSQL.
func NewPgCustomerRepository(pool *pgxpool.Pool) CustomerRepository {
	return &pgCustomerRepository{pool: pool}
}

func (r *pgCustomerRepository) Create(ctx context.Context, c *domain.Customer) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	_, err = tx.Exec(ctx, `
		INSERT INTO customers (id, name, phone, email, document, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		c.ID, c.Name, c.Phone, c.Email, c.Document, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "customers_document_key") {
			return domain.ErrDuplicateDocument
		}
		return fmt.Errorf("insert customer: %w", err)
	}

	for i := range c.Debts {
		d := &c.Debts[i]
		_, err = tx.Exec(ctx, `
			INSERT INTO debts (id, customer_id, amount, due_date, description, status)
			VALUES ($1,$2,$3,$4,$5,$6)`,
			d.ID, c.ID, d.Amount, d.DueDate, d.Description, d.Status,
		)
		if err != nil {
			return fmt.Errorf("insert debt: %w", err)
		}
	}

	return tx.Commit(ctx)
}

func (r *pgCustomerRepository) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, phone, email, document, created_at, updated_at
		FROM customers WHERE id = $1`, id)

	c, err := scanCustomer(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if c.Debts, err = r.debtsFor(ctx, id); err != nil {
		return nil, err
	}
	if c.Notifications, err = r.notificationsFor(ctx, id); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *pgCustomerRepository) List(ctx context.Context, f domain.ListFilter) ([]*domain.Customer, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM customers`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count customers: %w", err)
	}

	offset := (f.Page - 1) * f.Limit
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, phone, email, document, created_at, updated_at
		FROM customers
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`, f.Limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	var customers []*domain.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, 0, err
		}
		customers = append(customers, c)
	}
	return customers, total, rows.Err()
}

func (r *pgCustomerRepository) AddDebt(ctx context.Context, customerID string, d *domain.Debt) error {
	tag, err := r.pool.Exec(ctx, `
		INSERT INTO debts (id, customer_id, amount, due_date, description, status)
		SELECT $1, id, $3, $4, $5, $6 FROM customers WHERE id = $2`,
		d.ID, customerID, d.Amount, d.DueDate, d.Description, d.Status,
	)
	if err != nil {
		return fmt.Errorf("insert debt: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *pgCustomerRepository) AppendNotification(ctx context.Context, customerID string, rec *domain.NotificationRecord) error {
	tag, err := r.pool.Exec(ctx, `
		INSERT INTO notifications (id, customer_id, channel, sent_at, status, message)
		SELECT $1, id, $3, $4, $5, $6 FROM customers WHERE id = $2`,
		rec.ID, customerID, rec.Channel, rec.SentAt, rec.Status, rec.Message,
	)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *pgCustomerRepository) FindOverdue(ctx context.Context, asOf time.Time) ([]OverdueDebt, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT customer_id, id
		FROM debts
		WHERE status = 'PENDING' AND due_date <= $1
		ORDER BY due_date ASC`, asOf)
	if err != nil {
		return nil, fmt.Errorf("find overdue debts: %w", err)
	}
	defer rows.Close()

	var result []OverdueDebt
	for rows.Next() {
		var od OverdueDebt
		if err := rows.Scan(&od.CustomerID, &od.DebtID); err != nil {
			return nil, err
		}
		result = append(result, od)
	}
	return result, rows.Err()
}

func (r *pgCustomerRepository) ListAll(ctx context.Context) ([]*domain.Customer, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, phone, email, document, created_at, updated_at
		FROM customers`)
	if err != nil {
		return nil, fmt.Errorf("scan customers: %w", err)
	}
	defer rows.Close()

	var customers []*domain.Customer
	byID := make(map[string]*domain.Customer)
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, c)
		byID[c.ID] = c
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	debtRows, err := r.pool.Query(ctx, `
		SELECT id, customer_id, amount, due_date, description, status FROM debts`)
	if err != nil {
		return nil, fmt.Errorf("scan debts: %w", err)
	}
	defer debtRows.Close()
	for debtRows.Next() {
		var d domain.Debt
		var desc *string
		if err := debtRows.Scan(&d.ID, &d.CustomerID, &d.Amount, &d.DueDate, &desc, &d.Status); err != nil {
			return nil, err
		}
		if desc != nil {
			d.Description = *desc
		}
		if c, ok := byID[d.CustomerID]; ok {
			c.Debts = append(c.Debts, d)
		}
	}
	if err := debtRows.Err(); err != nil {
		return nil, err
	}

	notifRows, err := r.pool.Query(ctx, `
		SELECT id, customer_id, channel, sent_at, status, message FROM notifications`)
	if err != nil {
		return nil, fmt.Errorf("scan notifications: %w", err)
	}
	defer notifRows.Close()
	for notifRows.Next() {
		var n domain.NotificationRecord
		var msg *string
		if err := notifRows.Scan(&n.ID, &n.CustomerID, &n.Channel, &n.SentAt, &n.Status, &msg); err != nil {
			return nil, err
		}
		if msg != nil {
			n.Message = *msg
		}
		if c, ok := byID[n.CustomerID]; ok {
			c.Notifications = append(c.Notifications, n)
		}
	}
	return customers, notifRows.Err()
}

func (r *pgCustomerRepository) debtsFor(ctx context.Context, customerID string) ([]domain.Debt, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, customer_id, amount, due_date, description, status
		FROM debts WHERE customer_id = $1
		ORDER BY due_date ASC`, customerID)
	if err != nil {
		return nil, fmt.Errorf("load debts: %w", err)
	}
	defer rows.Close()

	var debts []domain.Debt
	for rows.Next() {
		var d domain.Debt
		var desc *string
		if err := rows.Scan(&d.ID, &d.CustomerID, &d.Amount, &d.DueDate, &desc, &d.Status); err != nil {
			return nil, err
		}
		if desc != nil {
			d.Description = *desc
		}
		debts = append(debts, d)
	}
	return debts, rows.Err()
}

func (r *pgCustomerRepository) notificationsFor(ctx context.Context, customerID string) ([]domain.NotificationRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, customer_id, channel, sent_at, status, message
		FROM notifications WHERE customer_id = $1
		ORDER BY sent_at ASC`, customerID)
	if err != nil {
		return nil, fmt.Errorf("load notifications: %w", err)
	}
	defer rows.Close()

	var records []domain.NotificationRecord
	for rows.Next() {
		var n domain.NotificationRecord
		var msg *string
		if err := rows.Scan(&n.ID, &n.CustomerID, &n.Channel, &n.SentAt, &n.Status, &msg); err != nil {
			return nil, err
		}
		if msg != nil {
			n.Message = *msg
		}
		records = append(records, n)
	}
	return records, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCustomer(row rowScanner) (*domain.Customer, error) {
	var c domain.Customer
	var email *string
	if err := row.Scan(&c.ID, &c.Name, &c.Phone, &email, &c.Document, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	if email != nil {
		c.Email = *email
	}
	return &c, nil
}
