package events

import (
	"sync"

	"github.com/dsuarezv/bankledger/internal/domain"
)

// CustomerCache is the accounts-side view of known customers, filled
// from customer events. Its lifetime is owned by the Listener that
// feeds it; consumers only get the existence query.
type CustomerCache struct {
	mu        sync.RWMutex
	customers map[string]domain.CustomerEvent
}

func NewCustomerCache() *CustomerCache {
	return &CustomerCache{customers: make(map[string]domain.CustomerEvent)}
}

// Put records the latest event for a customer, replacing any prior one.
func (c *CustomerCache) Put(event domain.CustomerEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.customers[event.CustomerID] = event
}

// Exists reports whether any event has been seen for the customer.
func (c *CustomerCache) Exists(customerID string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.customers[customerID]
	return ok
}

// Len is the number of distinct customers seen.
func (c *CustomerCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.customers)
}
