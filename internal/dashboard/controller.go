package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/sorgulen/tjenesteportal/internal/domain"
)

// ErrNoAccess is returned when no usable token is available for a
// privileged call
var ErrNoAccess = errors.New("no access token available")

// State is the lifecycle of the order listing
type State string

const (
	StateIdle      State = "idle"
	StateLoading   State = "loading"
	StateLoaded    State = "loaded"
	StateLoadError State = "load_error"
)

// OrderService is the slice of the order API the dashboard needs
type OrderService interface {
	List(ctx context.Context, token string) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, token, id string, status domain.OrderStatus) error
}

// TokenSource hands out the bearer token for privileged calls
type TokenSource interface {
	AccessToken() (string, bool)
}

// Controller drives the admin order dashboard: it loads the listing,
// keeps statistics current, applies the view filter, and performs status
// changes optimistically with rollback on failure.
type Controller struct {
	orders OrderService
	tokens TokenSource
	logger *zap.Logger

	mu      sync.Mutex
	state   State
	list    []domain.Order
	filter  domain.OrderFilter
	loadErr string
}

// NewController creates an idle dashboard controller
func NewController(orders OrderService, tokens TokenSource, logger *zap.Logger) *Controller {
	return &Controller{
		orders: orders,
		tokens: tokens,
		logger: logger,
		state:  StateIdle,
	}
}

// State returns the current listing state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// LoadError returns the message of the last failed load
func (c *Controller) LoadError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadErr
}

// Load pulls the full order listing from the order API. On failure the
// listing is cleared and the state carries a generic error message; the
// operator retries by reloading.
func (c *Controller) Load(ctx context.Context) error {
	c.mu.Lock()
	c.state = StateLoading
	c.mu.Unlock()

	token, ok := c.tokens.AccessToken()
	if !ok {
		c.failLoad()
		return ErrNoAccess
	}

	orders, err := c.orders.List(ctx, token)
	if err != nil {
		c.logger.Error("Failed to load orders", zap.Error(err))
		c.failLoad()
		return err
	}

	c.mu.Lock()
	c.list = orders
	c.state = StateLoaded
	c.loadErr = ""
	c.mu.Unlock()

	c.logger.Info("Orders loaded", zap.Int("count", len(orders)))
	return nil
}

func (c *Controller) failLoad() {
	c.mu.Lock()
	c.list = nil
	c.state = StateLoadError
	c.loadErr = "Kunne ikke hente bestillinger"
	c.mu.Unlock()
}

// Stats tallies the full listing, regardless of the active filter
func (c *Controller) Stats() domain.OrderStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return domain.CountStats(c.list)
}

// SetFilter replaces the view filter. The underlying listing is untouched.
func (c *Controller) SetFilter(f domain.OrderFilter) {
	c.mu.Lock()
	c.filter = f
	c.mu.Unlock()
}

// Filter returns the active view filter
func (c *Controller) Filter() domain.OrderFilter {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter
}

// Visible returns the orders passing the active filter
func (c *Controller) Visible() []domain.Order {
	c.mu.Lock()
	defer c.mu.Unlock()
	return domain.FilterOrders(c.list, c.filter)
}

// FilterSummary describes how much of the listing the filter shows
func (c *Controller) FilterSummary() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	visible := len(domain.FilterOrders(c.list, c.filter))
	if visible == len(c.list) {
		return fmt.Sprintf("Viser alle %d bestillinger", len(c.list))
	}
	return fmt.Sprintf("Viser %d av %d bestillinger", visible, len(c.list))
}

// UpdateStatus changes an order's status optimistically: the listing is
// updated first, then the order API is told. A failed remote update rolls
// the listing back to the previous status.
func (c *Controller) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error {
	if !status.IsValid() {
		return fmt.Errorf("invalid order status %q", status)
	}

	token, ok := c.tokens.AccessToken()
	if !ok {
		return ErrNoAccess
	}

	previous, found := c.setStatus(id, status)
	if !found {
		return fmt.Errorf("order %q not in listing", id)
	}

	if err := c.orders.UpdateStatus(ctx, token, id, status); err != nil {
		c.setStatus(id, previous)
		c.logger.Warn("Status update rolled back",
			zap.String("order_id", id),
			zap.String("status", string(status)),
			zap.Error(err),
		)
		return err
	}

	c.logger.Info("Order status updated",
		zap.String("order_id", id),
		zap.String("status", string(status)),
	)
	return nil
}

// setStatus swaps the in-memory status of one order and reports the value
// it had before
func (c *Controller) setStatus(id string, status domain.OrderStatus) (domain.OrderStatus, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.list {
		if c.list[i].ID == id {
			previous := c.list[i].Status
			c.list[i].Status = status
			return previous, true
		}
	}
	return "", false
}
