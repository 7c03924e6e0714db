package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"seafood-order-service/internal/cart"
	"seafood-order-service/internal/models"
	"seafood-order-service/internal/redisclient"
	"seafood-order-service/internal/util"

	"go.uber.org/zap"
)

var (
	// ErrUnknownProduct is returned when a cart operation references a product
	// that does not exist in the catalog. The original behavior here was a
	// silent no-op; an explicit error is reported instead so the HTTP layer
	// can answer 404.
	ErrUnknownProduct = errors.New("unknown product")
)

// Catalog resolves products at add time
type Catalog interface {
	GetProductByID(ctx context.Context, id string) (*models.Product, error)
}

// SnapshotStore persists serialized carts per session
type SnapshotStore interface {
	SaveCartSnapshot(ctx context.Context, sessionID string, data []byte, ttl time.Duration) error
	LoadCartSnapshot(ctx context.Context, sessionID string) ([]byte, error)
	DeleteCartSnapshot(ctx context.Context, sessionID string) error
}

// CartView is the read model handed to callers
type CartView struct {
	Lines []cart.Line `json:"lines"`
	Total int64       `json:"total"`
}

// CartService maintains the working cart for each active session. Carts live
// in memory and are mirrored to the snapshot store after every mutation;
// a session missing from memory is rehydrated from its snapshot.
type CartService struct {
	catalog   Catalog
	snapshots SnapshotStore
	ttl       time.Duration
	logger    *zap.Logger

	mu    sync.Mutex
	carts map[string]*cart.Cart
}

// NewCartService creates a new cart service
func NewCartService(catalog Catalog, snapshots SnapshotStore, snapshotTTL time.Duration) *CartService {
	return &CartService{
		catalog:   catalog,
		snapshots: snapshots,
		ttl:       snapshotTTL,
		logger:    util.GetLogger(),
		carts:     make(map[string]*cart.Cart),
	}
}

// AddItem resolves the product and adds it to the session cart, merging
// quantities into an existing line for the same product.
func (cs *CartService) AddItem(ctx context.Context, sessionID, productID string, quantity int, notes string) (CartView, error) {
	ctx, span := util.StartSpan(ctx, "CartService.AddItem")
	defer span.End()

	if quantity <= 0 {
		return CartView{}, cart.ErrInvalidQuantity
	}

	product, err := cs.catalog.GetProductByID(ctx, productID)
	if err != nil {
		return CartView{}, ErrUnknownProduct
	}

	cs.mu.Lock()
	defer cs.mu.Unlock()

	c := cs.loadLocked(ctx, sessionID)
	if err := c.Add(product.ID, quantity, product.Price, notes); err != nil {
		return CartView{}, err
	}

	util.CartItemsAddedTotal.Inc()
	cs.persistLocked(ctx, sessionID, c)
	return view(c), nil
}

// RemoveItem deletes the line for the product; absent is a no-op
func (cs *CartService) RemoveItem(ctx context.Context, sessionID, productID string) CartView {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	c := cs.loadLocked(ctx, sessionID)
	c.Remove(productID)

	util.CartItemsRemovedTotal.Inc()
	cs.persistLocked(ctx, sessionID, c)
	return view(c)
}

// UpdateQuantity overwrites a line's quantity; non-positive removes the line,
// an unknown product is a no-op.
func (cs *CartService) UpdateQuantity(ctx context.Context, sessionID, productID string, quantity int) CartView {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	c := cs.loadLocked(ctx, sessionID)
	c.SetQuantity(productID, quantity)

	cs.persistLocked(ctx, sessionID, c)
	return view(c)
}

// Clear empties the session cart and drops its snapshot
func (cs *CartService) Clear(ctx context.Context, sessionID string) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.clearLocked(ctx, sessionID)
}

// View returns the current cart contents and total
func (cs *CartService) View(ctx context.Context, sessionID string) CartView {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return view(cs.loadLocked(ctx, sessionID))
}

// Lines returns a copy of the session's current lines, for order submission
func (cs *CartService) Lines(ctx context.Context, sessionID string) []cart.Line {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return cs.loadLocked(ctx, sessionID).Lines()
}

func (cs *CartService) clearLocked(ctx context.Context, sessionID string) {
	delete(cs.carts, sessionID)
	if err := cs.snapshots.DeleteCartSnapshot(ctx, sessionID); err != nil {
		util.CartSnapshotFailuresTotal.WithLabelValues("delete").Inc()
		cs.logger.Warn("Failed to delete cart snapshot",
			zap.String("session_id", sessionID),
			zap.Error(err))
	}
}

// loadLocked returns the session cart, rehydrating it from the snapshot
// store on a memory miss. Callers hold cs.mu.
func (cs *CartService) loadLocked(ctx context.Context, sessionID string) *cart.Cart {
	if c, ok := cs.carts[sessionID]; ok {
		return c
	}

	c := cart.New()
	data, err := cs.snapshots.LoadCartSnapshot(ctx, sessionID)
	switch {
	case errors.Is(err, redisclient.ErrSnapshotNotFound):
		// fresh session
	case err != nil:
		util.CartSnapshotFailuresTotal.WithLabelValues("load").Inc()
		cs.logger.Warn("Failed to load cart snapshot",
			zap.String("session_id", sessionID),
			zap.Error(err))
	default:
		restored, derr := cart.DecodeSnapshot(data)
		if derr != nil {
			cs.logger.Warn("Discarding undecodable cart snapshot",
				zap.String("session_id", sessionID),
				zap.Error(derr))
		} else {
			c = restored
		}
	}

	cs.carts[sessionID] = c
	return c
}

// persistLocked mirrors the cart to the snapshot store. The write is
// last-write-wins and failures only degrade rehydration, so they are logged
// and counted rather than surfaced.
func (cs *CartService) persistLocked(ctx context.Context, sessionID string, c *cart.Cart) {
	data, err := cart.EncodeSnapshot(c, time.Now())
	if err != nil {
		util.CartSnapshotFailuresTotal.WithLabelValues("encode").Inc()
		cs.logger.Error("Failed to encode cart snapshot", zap.Error(err))
		return
	}

	if err := cs.snapshots.SaveCartSnapshot(ctx, sessionID, data, cs.ttl); err != nil {
		util.CartSnapshotFailuresTotal.WithLabelValues("save").Inc()
		cs.logger.Warn("Failed to save cart snapshot",
			zap.String("session_id", sessionID),
			zap.Error(err))
	}
}

func view(c *cart.Cart) CartView {
	return CartView{Lines: c.Lines(), Total: c.Total()}
}
