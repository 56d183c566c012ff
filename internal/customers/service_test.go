package customers_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dsuarezv/bankledger/internal/customers"
	"github.com/dsuarezv/bankledger/internal/domain"
	"github.com/dsuarezv/bankledger/internal/store"
)

type recordingPublisher struct {
	keys   []string
	events []domain.CustomerEvent
	err    error
}

func (p *recordingPublisher) PublishCustomerEvent(ctx context.Context, routingKey string, event domain.CustomerEvent) error {
	p.keys = append(p.keys, routingKey)
	p.events = append(p.events, event)
	return p.err
}

func newService(t *testing.T) (*customers.Service, *recordingPublisher) {
	t.Helper()
	pub := &recordingPublisher{}
	return customers.New(store.NewMemoryCustomers(), pub, zerolog.Nop()), pub
}

func TestCreatePublishesEvent(t *testing.T) {
	svc, pub := newService(t)

	saved, err := svc.Create(context.Background(), domain.Customer{Name: "Jose Lema"})
	require.NoError(t, err)

	assert.NotEmpty(t, saved.CustomerID)
	assert.True(t, saved.Status)
	require.Len(t, pub.keys, 1)
	assert.Equal(t, customers.KeyCustomerCreated, pub.keys[0])
	assert.Equal(t, saved.CustomerID, pub.events[0].CustomerID)
	assert.Equal(t, "Jose Lema", pub.events[0].Name)
}

func TestCreateSurvivesPublisherFailure(t *testing.T) {
	svc, pub := newService(t)
	pub.err = errors.New("broker down")

	saved, err := svc.Create(context.Background(), domain.Customer{Name: "Marianela"})
	require.NoError(t, err, "event publishing is best-effort")
	assert.NotEmpty(t, saved.CustomerID)
}

func TestUpdate(t *testing.T) {
	svc, pub := newService(t)
	saved, err := svc.Create(context.Background(), domain.Customer{Name: "Jose Lema", Address: "Otavalo"})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), saved.CustomerID, domain.Customer{
		Name: "Jose Lema", Address: "Quito", PhoneNumber: "098254785", Status: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "Quito", updated.Address)
	assert.Equal(t, saved.CustomerID, updated.CustomerID, "customer id is immutable")

	require.Len(t, pub.keys, 2)
	assert.Equal(t, customers.KeyCustomerUpdated, pub.keys[1])
}

func TestUpdateUnknownCustomer(t *testing.T) {
	svc, _ := newService(t)
	_, err := svc.Update(context.Background(), "missing", domain.Customer{Name: "X"})
	assert.ErrorIs(t, err, domain.ErrCustomerNotFound)
}

func TestDeletePublishesInactiveEvent(t *testing.T) {
	svc, pub := newService(t)
	saved, err := svc.Create(context.Background(), domain.Customer{Name: "Juan Osorio"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), saved.CustomerID))

	_, err = svc.Get(context.Background(), saved.CustomerID)
	assert.ErrorIs(t, err, domain.ErrCustomerNotFound)

	require.Len(t, pub.keys, 2)
	assert.Equal(t, customers.KeyCustomerDeleted, pub.keys[1])
	assert.False(t, pub.events[1].Status)
}

func TestDeleteUnknownCustomer(t *testing.T) {
	svc, _ := newService(t)
	assert.ErrorIs(t, svc.Delete(context.Background(), "missing"), domain.ErrCustomerNotFound)
}

func TestListCustomers(t *testing.T) {
	svc, _ := newService(t)
	for _, name := range []string{"A", "B", "C"} {
		_, err := svc.Create(context.Background(), domain.Customer{Name: name})
		require.NoError(t, err)
	}
	list, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 3)
}

func TestNilPublisher(t *testing.T) {
	svc := customers.New(store.NewMemoryCustomers(), nil, zerolog.Nop())
	_, err := svc.Create(context.Background(), domain.Customer{Name: "No Broker"})
	assert.NoError(t, err)
}
