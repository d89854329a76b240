package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"nightloom_server/identity"
	"nightloom_server/lib"
	"nightloom_server/notify"
	"nightloom_server/structs/tables"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
)

// CartBackend is the persistence surface the cart service needs. The
// bun-backed implementation lives in the store package.
type CartBackend interface {
	ListForUser(ctx context.Context, userID uuid.UUID) ([]tables.CartItem, error)
	Find(ctx context.Context, userID, productID uuid.UUID, variantID *uuid.UUID) (*tables.CartItem, error)
	Insert(ctx context.Context, item *tables.CartItem) (*tables.CartItem, error)
	SetQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) error
	Delete(ctx context.Context, userID, itemID uuid.UUID) error
	DeleteAllForUser(ctx context.Context, userID uuid.UUID) error
}

// CartLocks serializes cart mutations per (user, product, variant) triple.
// Share one instance across every cart service touching the same backend;
// request-scoped services with private locks would not contend with each
// other and concurrent adds could race into duplicate rows.
type CartLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewCartLocks() *CartLocks {
	return &CartLocks{locks: make(map[string]*sync.Mutex)}
}

func (cl *CartLocks) lock(userID, productID uuid.UUID, variantID *uuid.UUID) *sync.Mutex {
	key := userID.String() + "|" + productID.String() + "|"
	if variantID != nil {
		key += variantID.String()
	}

	cl.mu.Lock()
	defer cl.mu.Unlock()

	lock, ok := cl.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		cl.locks[key] = lock
	}
	return lock
}

// CartService holds the signed-in user's cart: an in-memory snapshot kept in
// step with the backend. All mutations require a signed-in user. Adds for
// the same (product, variant) pair are serialized so concurrent adds merge
// into one row instead of racing into duplicates.
type CartService struct {
	logger   *gecho.Logger
	backend  CartBackend
	provider identity.Provider
	sink     notify.Sink

	mu      sync.Mutex
	items   []tables.CartItem
	loaded  bool
	loadSeq uint64

	locks *CartLocks

	unsubscribe func()
}

// NewCartService builds a cart service over the given backend. Services
// sharing a backend must share locks; a nil locks gets a private instance,
// which is fine for a long-lived service but not for per-request ones.
func NewCartService(logger *gecho.Logger, backend CartBackend, provider identity.Provider, sink notify.Sink, locks *CartLocks) *CartService {
	if sink == nil {
		sink = notify.Discard()
	}
	if locks == nil {
		locks = NewCartLocks()
	}

	cs := &CartService{
		logger:   logger,
		backend:  backend,
		provider: provider,
		sink:     sink,
		locks:    locks,
	}

	// Follow sign-in and sign-out for the lifetime of the service. A
	// request-scoped service with a static provider gets a no-op cancel.
	cs.unsubscribe = provider.Subscribe(func(u *identity.User) {
		cs.reset()
		if u != nil {
			if err := cs.Load(context.Background()); err != nil {
				cs.logger.Warn("Cart load after sign-in failed", gecho.Field("error", err), gecho.Field("user_id", u.ID))
			}
		}
	})

	return cs
}

// Close cancels the identity subscription.
func (cs *CartService) Close() {
	if cs.unsubscribe != nil {
		cs.unsubscribe()
	}
}

// reset drops all in-memory cart state.
func (cs *CartService) reset() {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.items = nil
	cs.loaded = false
	cs.loadSeq++
}

func (cs *CartService) currentUser() (*identity.User, error) {
	user, ok := cs.provider.Current()
	if !ok {
		return nil, lib.ErrAuthRequired
	}
	return user, nil
}

// Load fetches the user's cart from the backend and replaces the in-memory
// snapshot. With no signed-in user it resets to empty without error.
// Overlapping loads are sequence-stamped: a load that was superseded while
// in flight discards its result. A failed load keeps the previous snapshot
// intact and returns lib.ErrDataUnavailable.
func (cs *CartService) Load(ctx context.Context) error {
	user, ok := cs.provider.Current()
	if !ok {
		cs.reset()
		return nil
	}

	cs.mu.Lock()
	cs.loadSeq++
	seq := cs.loadSeq
	cs.mu.Unlock()

	items, err := cs.backend.ListForUser(ctx, user.ID)

	cs.mu.Lock()
	defer cs.mu.Unlock()

	if cs.loadSeq != seq {
		// A newer load or a sign-out superseded this one.
		return nil
	}

	if err != nil {
		cs.logger.Error("Failed to load cart", gecho.Field("error", err), gecho.Field("user_id", user.ID))
		return fmt.Errorf("%w: %v", lib.ErrDataUnavailable, err)
	}

	cs.items = items
	cs.loaded = true
	return nil
}

// Add puts quantity of a (product, variant) pair in the cart. When a row for
// the same pair already exists the quantities merge. A nil variant is its
// own identity and never merges with a concrete variant.
func (cs *CartService) Add(ctx context.Context, productID uuid.UUID, variantID *uuid.UUID, quantity int) error {
	user, err := cs.currentUser()
	if err != nil {
		return err
	}
	if productID == uuid.Nil || quantity < 1 {
		return lib.ErrValidationFailed
	}

	lock := cs.locks.lock(user.ID, productID, variantID)
	lock.Lock()
	defer lock.Unlock()

	existing, err := cs.backend.Find(ctx, user.ID, productID, variantID)
	if err != nil {
		cs.logger.Error("Failed to look up cart item", gecho.Field("error", err), gecho.Field("product_id", productID))
		cs.sink.Notify("Cart", "Could not add item to cart", notify.Error)
		return fmt.Errorf("%w: %v", lib.ErrDataUnavailable, err)
	}

	if existing != nil {
		merged := existing.Quantity + quantity
		if err := cs.backend.SetQuantity(ctx, user.ID, existing.ID, merged); err != nil {
			cs.logger.Error("Failed to update cart quantity", gecho.Field("error", err), gecho.Field("item_id", existing.ID))
			cs.sink.Notify("Cart", "Could not add item to cart", notify.Error)
			return fmt.Errorf("%w: %v", lib.ErrDataUnavailable, err)
		}
		cs.sink.Notify("Cart", "Item quantity updated", notify.Success)
		return cs.Load(ctx)
	}

	item := &tables.CartItem{
		UserID:    user.ID,
		ProductID: productID,
		VariantID: variantID,
		Quantity:  quantity,
	}
	_, err = cs.backend.Insert(ctx, item)
	if errors.Is(err, lib.ErrConflict) {
		// Another writer created the row between Find and Insert; merge
		// into it instead.
		existing, ferr := cs.backend.Find(ctx, user.ID, productID, variantID)
		if ferr == nil && existing != nil {
			merged := existing.Quantity + quantity
			if serr := cs.backend.SetQuantity(ctx, user.ID, existing.ID, merged); serr == nil {
				cs.sink.Notify("Cart", "Item quantity updated", notify.Success)
				return cs.Load(ctx)
			}
		}
	}
	if err != nil {
		cs.logger.Error("Failed to insert cart item", gecho.Field("error", err), gecho.Field("product_id", productID))
		cs.sink.Notify("Cart", "Could not add item to cart", notify.Error)
		return fmt.Errorf("%w: %v", lib.ErrDataUnavailable, err)
	}

	cs.sink.Notify("Cart", "Item added to cart", notify.Success)
	return cs.Load(ctx)
}

// UpdateQuantity sets the quantity of one of the user's cart rows. A
// quantity of zero or less removes the row. Rows belonging to other users
// are out of reach and surface as lib.ErrNotFound.
func (cs *CartService) UpdateQuantity(ctx context.Context, itemID uuid.UUID, quantity int) error {
	user, err := cs.currentUser()
	if err != nil {
		return err
	}
	if itemID == uuid.Nil {
		return lib.ErrValidationFailed
	}

	if quantity <= 0 {
		return cs.Remove(ctx, itemID)
	}

	if err := cs.backend.SetQuantity(ctx, user.ID, itemID, quantity); err != nil {
		if errors.Is(err, lib.ErrNotFound) {
			return err
		}
		cs.logger.Error("Failed to update cart quantity", gecho.Field("error", err), gecho.Field("item_id", itemID))
		return fmt.Errorf("%w: %v", lib.ErrDataUnavailable, err)
	}

	return cs.Load(ctx)
}

// Remove deletes one of the user's cart rows. Rows belonging to other
// users are out of reach and surface as lib.ErrNotFound.
func (cs *CartService) Remove(ctx context.Context, itemID uuid.UUID) error {
	user, err := cs.currentUser()
	if err != nil {
		return err
	}
	if itemID == uuid.Nil {
		return lib.ErrValidationFailed
	}

	if err := cs.backend.Delete(ctx, user.ID, itemID); err != nil {
		if errors.Is(err, lib.ErrNotFound) {
			return err
		}
		cs.logger.Error("Failed to remove cart item", gecho.Field("error", err), gecho.Field("item_id", itemID))
		return fmt.Errorf("%w: %v", lib.ErrDataUnavailable, err)
	}

	cs.sink.Notify("Cart", "Item removed from cart", notify.Info)
	return cs.Load(ctx)
}

// Clear empties the cart. With no signed-in user there is nothing to clear
// and the call is a no-op. No reload follows; nothing remains to fetch.
func (cs *CartService) Clear(ctx context.Context) error {
	user, ok := cs.provider.Current()
	if !ok {
		return nil
	}

	if err := cs.backend.DeleteAllForUser(ctx, user.ID); err != nil {
		cs.logger.Error("Failed to clear cart", gecho.Field("error", err), gecho.Field("user_id", user.ID))
		return fmt.Errorf("%w: %v", lib.ErrDataUnavailable, err)
	}

	cs.mu.Lock()
	cs.items = []tables.CartItem{}
	cs.loaded = false
	cs.loadSeq++
	cs.mu.Unlock()

	cs.sink.Notify("Cart", "Cart cleared", notify.Info)
	return nil
}

// Snapshot returns a copy of the in-memory cart rows.
func (cs *CartService) Snapshot() []tables.CartItem {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	out := make([]tables.CartItem, len(cs.items))
	copy(out, cs.items)
	return out
}

// Loaded reports whether a load has completed for the current identity.
func (cs *CartService) Loaded() bool {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return cs.loaded
}

// Total returns the cart total in minor currency units. Pricing is the
// product's base price times quantity; variant price deltas are not
// applied here, matching what the storefront shows in the cart drawer.
func (cs *CartService) Total() uint64 {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	var total uint64
	for i := range cs.items {
		if cs.items[i].Product == nil {
			continue
		}
		total += cs.items[i].Product.Price * uint64(cs.items[i].Quantity)
	}
	return total
}

// ItemCount returns the summed quantity across all rows.
func (cs *CartService) ItemCount() int {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	count := 0
	for i := range cs.items {
		count += cs.items[i].Quantity
	}
	return count
}
