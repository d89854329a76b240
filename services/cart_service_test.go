package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"nightloom_server/identity"
	"nightloom_server/lib"
	"nightloom_server/structs/tables"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCartBackend is an in-memory CartBackend for exercising the cart state
// machine without a database.
type fakeCartBackend struct {
	mu       sync.Mutex
	rows     map[uuid.UUID]*tables.CartItem
	products map[uuid.UUID]*tables.Product
	variants map[uuid.UUID]*tables.ProductVariant

	failList    bool
	blockList   chan struct{}
	listStarted chan struct{}
	findDelay   time.Duration
}

func newFakeCartBackend() *fakeCartBackend {
	return &fakeCartBackend{
		rows:     make(map[uuid.UUID]*tables.CartItem),
		products: make(map[uuid.UUID]*tables.Product),
		variants: make(map[uuid.UUID]*tables.ProductVariant),
	}
}

func (f *fakeCartBackend) addProduct(price uint64) uuid.UUID {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := uuid.New()
	f.products[id] = &tables.Product{ID: id, Name: "Product " + id.String()[:8], Price: price, IsActive: true}
	return id
}

func (f *fakeCartBackend) addVariant(productID uuid.UUID, delta int64) uuid.UUID {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := uuid.New()
	f.variants[id] = &tables.ProductVariant{ID: id, ProductID: productID, Size: "M", PriceDelta: delta, IsActive: true}
	return id
}

func (f *fakeCartBackend) hydrate(item *tables.CartItem) tables.CartItem {
	out := *item
	if p, ok := f.products[item.ProductID]; ok {
		cp := *p
		out.Product = &cp
	}
	if item.VariantID != nil {
		if v, ok := f.variants[*item.VariantID]; ok {
			cv := *v
			out.Variant = &cv
		}
	}
	return out
}

func (f *fakeCartBackend) ListForUser(ctx context.Context, userID uuid.UUID) ([]tables.CartItem, error) {
	if f.blockList != nil {
		if f.listStarted != nil {
			f.listStarted <- struct{}{}
		}
		<-f.blockList
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failList {
		return nil, errors.New("connection refused")
	}

	out := []tables.CartItem{}
	for _, item := range f.rows {
		if item.UserID == userID {
			out = append(out, f.hydrate(item))
		}
	}
	return out, nil
}

func (f *fakeCartBackend) Find(ctx context.Context, userID, productID uuid.UUID, variantID *uuid.UUID) (*tables.CartItem, error) {
	if f.findDelay > 0 {
		time.Sleep(f.findDelay)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	for _, item := range f.rows {
		if item.UserID != userID || item.ProductID != productID {
			continue
		}
		if (item.VariantID == nil) != (variantID == nil) {
			continue
		}
		if variantID != nil && *item.VariantID != *variantID {
			continue
		}
		hydrated := f.hydrate(item)
		return &hydrated, nil
	}
	return nil, nil
}

func (f *fakeCartBackend) Insert(ctx context.Context, item *tables.CartItem) (*tables.CartItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	stored := *item
	stored.ID = uuid.New()
	f.rows[stored.ID] = &stored

	hydrated := f.hydrate(&stored)
	return &hydrated, nil
}

func (f *fakeCartBackend) SetQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	item, ok := f.rows[itemID]
	if !ok || item.UserID != userID {
		return lib.ErrNotFound
	}
	item.Quantity = quantity
	return nil
}

func (f *fakeCartBackend) Delete(ctx context.Context, userID, itemID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	item, ok := f.rows[itemID]
	if !ok || item.UserID != userID {
		return lib.ErrNotFound
	}
	delete(f.rows, itemID)
	return nil
}

func (f *fakeCartBackend) DeleteAllForUser(ctx context.Context, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, item := range f.rows {
		if item.UserID == userID {
			delete(f.rows, id)
		}
	}
	return nil
}

func signedInEmitter() *identity.Emitter {
	emitter := identity.NewEmitter()
	emitter.SignIn(identity.User{ID: uuid.New(), Email: "shopper@nightloom.shop"})
	return emitter
}

func newTestCartService(backend CartBackend, provider identity.Provider) *CartService {
	return NewCartService(gecho.NewDefaultLogger(), backend, provider, nil, nil)
}

func TestAddRequiresSignedInUser(t *testing.T) {
	backend := newFakeCartBackend()
	svc := newTestCartService(backend, identity.NewEmitter())
	defer svc.Close()

	err := svc.Add(context.Background(), uuid.New(), nil, 1)
	assert.ErrorIs(t, err, lib.ErrAuthRequired)
}

func TestAnonymousLoadResetsWithoutError(t *testing.T) {
	backend := newFakeCartBackend()
	svc := newTestCartService(backend, identity.NewEmitter())
	defer svc.Close()

	require.NoError(t, svc.Load(context.Background()))
	assert.Empty(t, svc.Snapshot())
	assert.False(t, svc.Loaded())
}

func TestAnonymousClearIsNoOp(t *testing.T) {
	backend := newFakeCartBackend()
	svc := newTestCartService(backend, identity.NewEmitter())
	defer svc.Close()

	require.NoError(t, svc.Clear(context.Background()))
}

func TestAddValidatesInput(t *testing.T) {
	backend := newFakeCartBackend()
	svc := newTestCartService(backend, signedInEmitter())
	defer svc.Close()

	assert.ErrorIs(t, svc.Add(context.Background(), uuid.Nil, nil, 1), lib.ErrValidationFailed)
	assert.ErrorIs(t, svc.Add(context.Background(), uuid.New(), nil, 0), lib.ErrValidationFailed)
	assert.ErrorIs(t, svc.Add(context.Background(), uuid.New(), nil, -3), lib.ErrValidationFailed)
}

func TestAddMergesQuantitiesForSamePair(t *testing.T) {
	backend := newFakeCartBackend()
	productID := backend.addProduct(2900)

	svc := newTestCartService(backend, signedInEmitter())
	defer svc.Close()

	require.NoError(t, svc.Add(context.Background(), productID, nil, 2))
	require.NoError(t, svc.Add(context.Background(), productID, nil, 3))

	require.NoError(t, svc.Load(context.Background()))
	items := svc.Snapshot()
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
	assert.Equal(t, 5, svc.ItemCount())
}

func TestNilVariantIsDistinctFromConcreteVariant(t *testing.T) {
	backend := newFakeCartBackend()
	productID := backend.addProduct(2900)
	variantID := backend.addVariant(productID, 0)

	svc := newTestCartService(backend, signedInEmitter())
	defer svc.Close()

	require.NoError(t, svc.Add(context.Background(), productID, nil, 1))
	require.NoError(t, svc.Add(context.Background(), productID, &variantID, 1))

	require.NoError(t, svc.Load(context.Background()))
	assert.Len(t, svc.Snapshot(), 2)
}

func TestConcurrentAddsForSamePairMerge(t *testing.T) {
	backend := newFakeCartBackend()
	productID := backend.addProduct(1000)

	svc := newTestCartService(backend, signedInEmitter())
	defer svc.Close()

	const workers = 8
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = svc.Add(context.Background(), productID, nil, 1)
		}()
	}
	wg.Wait()

	require.NoError(t, svc.Load(context.Background()))
	items := svc.Snapshot()
	require.Len(t, items, 1)
	assert.Equal(t, workers, items[0].Quantity)
}

func TestConcurrentAddsAcrossServiceInstancesMerge(t *testing.T) {
	backend := newFakeCartBackend()
	backend.findDelay = 20 * time.Millisecond
	productID := backend.addProduct(1000)

	user := identity.User{ID: uuid.New(), Email: "shopper@nightloom.shop"}
	locks := NewCartLocks()

	// One service per request, as the HTTP layer builds them. The shared
	// locks are what keeps the adds from racing into duplicate rows.
	const workers = 4
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			svc := NewCartService(gecho.NewDefaultLogger(), backend, identity.Static(&user), nil, locks)
			defer svc.Close()
			_ = svc.Add(context.Background(), productID, nil, 1)
		}()
	}
	wg.Wait()

	svc := NewCartService(gecho.NewDefaultLogger(), backend, identity.Static(&user), nil, locks)
	defer svc.Close()
	require.NoError(t, svc.Load(context.Background()))
	items := svc.Snapshot()
	require.Len(t, items, 1)
	assert.Equal(t, workers, items[0].Quantity)
}

func TestMutationsAreScopedToOwner(t *testing.T) {
	backend := newFakeCartBackend()
	productID := backend.addProduct(2900)

	owner := newTestCartService(backend, signedInEmitter())
	defer owner.Close()

	require.NoError(t, owner.Add(context.Background(), productID, nil, 2))
	require.NoError(t, owner.Load(context.Background()))
	ownedItemID := owner.Snapshot()[0].ID

	intruder := newTestCartService(backend, signedInEmitter())
	defer intruder.Close()

	assert.ErrorIs(t, intruder.UpdateQuantity(context.Background(), ownedItemID, 99), lib.ErrNotFound)
	assert.ErrorIs(t, intruder.Remove(context.Background(), ownedItemID), lib.ErrNotFound)

	// The owner's row is untouched.
	require.NoError(t, owner.Load(context.Background()))
	items := owner.Snapshot()
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
}

func TestUpdateQuantityZeroRemovesRow(t *testing.T) {
	backend := newFakeCartBackend()
	productID := backend.addProduct(2900)

	svc := newTestCartService(backend, signedInEmitter())
	defer svc.Close()

	require.NoError(t, svc.Add(context.Background(), productID, nil, 2))
	require.NoError(t, svc.Load(context.Background()))
	itemID := svc.Snapshot()[0].ID

	require.NoError(t, svc.UpdateQuantity(context.Background(), itemID, 0))
	assert.Empty(t, svc.Snapshot())

	require.NoError(t, svc.Load(context.Background()))
	assert.Empty(t, svc.Snapshot())
}

func TestUpdateQuantitySetsNewValue(t *testing.T) {
	backend := newFakeCartBackend()
	productID := backend.addProduct(2900)

	svc := newTestCartService(backend, signedInEmitter())
	defer svc.Close()

	require.NoError(t, svc.Add(context.Background(), productID, nil, 1))
	require.NoError(t, svc.Load(context.Background()))
	itemID := svc.Snapshot()[0].ID

	require.NoError(t, svc.UpdateQuantity(context.Background(), itemID, 3))
	items := svc.Snapshot()
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)
}

func TestTotalUsesBasePriceAndIgnoresVariantDeltas(t *testing.T) {
	backend := newFakeCartBackend()
	teeID := backend.addProduct(2900)
	hoodieID := backend.addProduct(4900)
	variantID := backend.addVariant(hoodieID, 500)

	svc := newTestCartService(backend, signedInEmitter())
	defer svc.Close()

	require.NoError(t, svc.Add(context.Background(), teeID, nil, 2))
	require.NoError(t, svc.Add(context.Background(), hoodieID, &variantID, 1))
	require.NoError(t, svc.Load(context.Background()))

	// 2 * 2900 + 1 * 4900; the +500 variant delta does not apply
	assert.Equal(t, uint64(10700), svc.Total())
	assert.Equal(t, 3, svc.ItemCount())
}

func TestClearEmptiesCart(t *testing.T) {
	backend := newFakeCartBackend()
	productID := backend.addProduct(2900)

	svc := newTestCartService(backend, signedInEmitter())
	defer svc.Close()

	require.NoError(t, svc.Add(context.Background(), productID, nil, 2))
	require.NoError(t, svc.Clear(context.Background()))

	assert.Empty(t, svc.Snapshot())
	require.NoError(t, svc.Load(context.Background()))
	assert.Empty(t, svc.Snapshot())
}

func TestFailedLoadKeepsPreviousSnapshot(t *testing.T) {
	backend := newFakeCartBackend()
	productID := backend.addProduct(2900)

	svc := newTestCartService(backend, signedInEmitter())
	defer svc.Close()

	require.NoError(t, svc.Add(context.Background(), productID, nil, 2))
	require.NoError(t, svc.Load(context.Background()))
	require.Len(t, svc.Snapshot(), 1)

	backend.mu.Lock()
	backend.failList = true
	backend.mu.Unlock()

	err := svc.Load(context.Background())
	assert.ErrorIs(t, err, lib.ErrDataUnavailable)

	// The earlier snapshot survives the failed refresh
	assert.Len(t, svc.Snapshot(), 1)
	assert.Equal(t, uint64(5800), svc.Total())
}

func TestSignOutResetsState(t *testing.T) {
	backend := newFakeCartBackend()
	productID := backend.addProduct(2900)

	emitter := signedInEmitter()
	svc := newTestCartService(backend, emitter)
	defer svc.Close()

	require.NoError(t, svc.Add(context.Background(), productID, nil, 2))
	require.NoError(t, svc.Load(context.Background()))
	require.True(t, svc.Loaded())

	emitter.SignOut()

	assert.Empty(t, svc.Snapshot())
	assert.False(t, svc.Loaded())
	assert.Zero(t, svc.Total())
	assert.Zero(t, svc.ItemCount())
}

func TestSignInTriggersLoad(t *testing.T) {
	backend := newFakeCartBackend()
	productID := backend.addProduct(2900)
	user := identity.User{ID: uuid.New(), Email: "shopper@nightloom.shop"}

	rowID := uuid.New()
	backend.rows[rowID] = &tables.CartItem{
		ID:        rowID,
		UserID:    user.ID,
		ProductID: productID,
		Quantity:  1,
	}

	emitter := identity.NewEmitter()
	svc := newTestCartService(backend, emitter)
	defer svc.Close()

	emitter.SignIn(user)

	assert.True(t, svc.Loaded())
	assert.Equal(t, 1, svc.ItemCount())
}

func TestSupersededLoadIsDiscarded(t *testing.T) {
	backend := newFakeCartBackend()
	productID := backend.addProduct(2900)

	emitter := signedInEmitter()
	svc := newTestCartService(backend, emitter)
	defer svc.Close()

	require.NoError(t, svc.Add(context.Background(), productID, nil, 1))

	release := make(chan struct{})
	started := make(chan struct{}, 1)
	backend.blockList = release
	backend.listStarted = started

	done := make(chan error, 1)
	go func() {
		done <- svc.Load(context.Background())
	}()

	// Sign out while the load is in flight, then let it finish. Its result
	// must not repopulate the cart.
	<-started
	emitter.SignOut()
	close(release)

	require.NoError(t, <-done)
	assert.Empty(t, svc.Snapshot())
	assert.False(t, svc.Loaded())
}
