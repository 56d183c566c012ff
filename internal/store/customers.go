package store

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/jackc/pgx/v5"

	"github.com/dsuarezv/bankledger/internal/domain"
)

const customerColumns = "id, customer_id, name, gender, age, identification, address, phone_number, status"

// GetCustomer retrieves a customer by its public id.
func (p *Postgres) GetCustomer(ctx context.Context, customerID string) (domain.Customer, error) {
	var c domain.Customer
	err := p.db.QueryRow(ctx,
		"SELECT "+customerColumns+" FROM customers WHERE customer_id = $1",
		customerID,
	).Scan(&c.ID, &c.CustomerID, &c.Name, &c.Gender, &c.Age, &c.Identification, &c.Address, &c.PhoneNumber, &c.Status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Customer{}, domain.ErrCustomerNotFound
		}
		return domain.Customer{}, err
	}
	return c, nil
}

func (p *Postgres) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	rows, err := p.db.Query(ctx, "SELECT "+customerColumns+" FROM customers ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	customers := make([]domain.Customer, 0)
	for rows.Next() {
		var c domain.Customer
		if err := rows.Scan(&c.ID, &c.CustomerID, &c.Name, &c.Gender, &c.Age, &c.Identification, &c.Address, &c.PhoneNumber, &c.Status); err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

func (p *Postgres) CreateCustomer(ctx context.Context, c domain.Customer) (domain.Customer, error) {
	err := p.db.QueryRow(ctx,
		`INSERT INTO customers (customer_id, name, gender, age, identification, address, phone_number, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id`,
		c.CustomerID, c.Name, c.Gender, c.Age, c.Identification, c.Address, c.PhoneNumber, c.Status,
	).Scan(&c.ID)
	if err != nil {
		return domain.Customer{}, err
	}
	return c, nil
}

func (p *Postgres) UpdateCustomer(ctx context.Context, c domain.Customer) (domain.Customer, error) {
	tag, err := p.db.Exec(ctx,
		"UPDATE customers SET name = $1, address = $2, phone_number = $3, status = $4 WHERE customer_id = $5",
		c.Name, c.Address, c.PhoneNumber, c.Status, c.CustomerID)
	if err != nil {
		return domain.Customer{}, err
	}
	if tag.RowsAffected() == 0 {
		return domain.Customer{}, domain.ErrCustomerNotFound
	}
	return c, nil
}

func (p *Postgres) DeleteCustomer(ctx context.Context, customerID string) error {
	tag, err := p.db.Exec(ctx, "DELETE FROM customers WHERE customer_id = $1", customerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCustomerNotFound
	}
	return nil
}

// MemoryCustomers implements customers.Store with a mutex-guarded map.
type MemoryCustomers struct {
	mu        sync.Mutex
	nextID    int64
	customers map[string]domain.Customer
}

func NewMemoryCustomers() *MemoryCustomers {
	return &MemoryCustomers{customers: make(map[string]domain.Customer)}
}

func (m *MemoryCustomers) GetCustomer(ctx context.Context, customerID string) (domain.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.customers[customerID]
	if !ok {
		return domain.Customer{}, domain.ErrCustomerNotFound
	}
	return c, nil
}

func (m *MemoryCustomers) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Customer, 0, len(m.customers))
	for _, c := range m.customers {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryCustomers) CreateCustomer(ctx context.Context, c domain.Customer) (domain.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	c.ID = m.nextID
	m.customers[c.CustomerID] = c
	return c, nil
}

func (m *MemoryCustomers) UpdateCustomer(ctx context.Context, c domain.Customer) (domain.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.customers[c.CustomerID]; !ok {
		return domain.Customer{}, domain.ErrCustomerNotFound
	}
	m.customers[c.CustomerID] = c
	return c, nil
}

func (m *MemoryCustomers) DeleteCustomer(ctx context.Context, customerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.customers[customerID]; !ok {
		return domain.ErrCustomerNotFound
	}
	delete(m.customers, customerID)
	return nil
}
