// Package customers manages customer identity records and announces
// lifecycle changes on the customer event channel. It shares nothing
// with the ledger core beyond the customer id foreign key.
package customers

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dsuarezv/bankledger/internal/domain"
)

// Store is the durable customer record store.
type Store interface {
	GetCustomer(ctx context.Context, customerID string) (domain.Customer, error)
	ListCustomers(ctx context.Context) ([]domain.Customer, error)
	CreateCustomer(ctx context.Context, c domain.Customer) (domain.Customer, error)
	UpdateCustomer(ctx context.Context, c domain.Customer) (domain.Customer, error)
	DeleteCustomer(ctx context.Context, customerID string) error
}

// Publisher announces customer lifecycle events. Publishing is
// best-effort: a broker failure never fails the CRUD operation.
type Publisher interface {
	PublishCustomerEvent(ctx context.Context, routingKey string, event domain.CustomerEvent) error
}

const (
	KeyCustomerCreated = "customer.created"
	KeyCustomerUpdated = "customer.updated"
	KeyCustomerDeleted = "customer.deleted"
)

type Service struct {
	store Store
	pub   Publisher
	log   zerolog.Logger
}

// New builds the customer service. pub may be nil, in which case no
// events are published.
func New(store Store, pub Publisher, log zerolog.Logger) *Service {
	return &Service{store: store, pub: pub, log: log}
}

func (s *Service) Create(ctx context.Context, c domain.Customer) (domain.Customer, error) {
	c.CustomerID = uuid.NewString()
	c.Status = true

	saved, err := s.store.CreateCustomer(ctx, c)
	if err != nil {
		return domain.Customer{}, fmt.Errorf("create customer: %w", err)
	}

	s.publish(ctx, KeyCustomerCreated, saved)
	s.log.Info().Str("customer_id", saved.CustomerID).Msg("customer created")
	return saved, nil
}

func (s *Service) Get(ctx context.Context, customerID string) (domain.Customer, error) {
	return s.store.GetCustomer(ctx, customerID)
}

func (s *Service) List(ctx context.Context) ([]domain.Customer, error) {
	return s.store.ListCustomers(ctx)
}

// Update replaces the mutable contact fields and the status flag. The
// customer id and identification are immutable.
func (s *Service) Update(ctx context.Context, customerID string, data domain.Customer) (domain.Customer, error) {
	existing, err := s.store.GetCustomer(ctx, customerID)
	if err != nil {
		return domain.Customer{}, err
	}

	existing.Name = data.Name
	existing.Address = data.Address
	existing.PhoneNumber = data.PhoneNumber
	existing.Status = data.Status

	saved, err := s.store.UpdateCustomer(ctx, existing)
	if err != nil {
		return domain.Customer{}, fmt.Errorf("update customer: %w", err)
	}

	s.publish(ctx, KeyCustomerUpdated, saved)
	return saved, nil
}

func (s *Service) Delete(ctx context.Context, customerID string) error {
	existing, err := s.store.GetCustomer(ctx, customerID)
	if err != nil {
		return err
	}
	if err := s.store.DeleteCustomer(ctx, customerID); err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}

	existing.Status = false
	s.publish(ctx, KeyCustomerDeleted, existing)
	return nil
}

func (s *Service) publish(ctx context.Context, key string, c domain.Customer) {
	if s.pub == nil {
		return
	}
	event := domain.CustomerEvent{
		CustomerID: c.CustomerID,
		Name:       c.Name,
		Status:     c.Status,
	}
	if err := s.pub.PublishCustomerEvent(ctx, key, event); err != nil {
		s.log.Error().Err(err).Str("routing_key", key).Msg("failed to publish customer event")
	}
}
