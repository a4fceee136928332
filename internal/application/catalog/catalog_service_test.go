package catalog

import (
	"context"
	"sort"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockledger/backend/internal/domain/catalog"
	"github.com/stockledger/backend/internal/domain/shared"
)

type memItemRepo struct {
	items map[uuid.UUID]catalog.Item
}

func newMemItemRepo() *memItemRepo {
	return &memItemRepo{items: make(map[uuid.UUID]catalog.Item)}
}

func (r *memItemRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Item, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &item, nil
}

func (r *memItemRepo) FindBySKU(_ context.Context, sku string) (*catalog.Item, error) {
	for _, item := range r.items {
		if item.SKU == sku {
			copied := item
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memItemRepo) FindAll(_ context.Context, _ shared.Filter) ([]catalog.Item, error) {
	out := make([]catalog.Item, 0, len(r.items))
	for _, item := range r.items {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
	return out, nil
}

func (r *memItemRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.items)), nil
}

func (r *memItemRepo) Save(_ context.Context, item *catalog.Item) error {
	r.items[item.ID] = *item
	return nil
}

func (r *memItemRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.items[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

type memLocationRepo struct {
	locations map[uuid.UUID]catalog.StorageLocation
	order     []uuid.UUID
}

func newMemLocationRepo() *memLocationRepo {
	return &memLocationRepo{locations: make(map[uuid.UUID]catalog.StorageLocation)}
}

func (r *memLocationRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.StorageLocation, error) {
	loc, ok := r.locations[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &loc, nil
}

func (r *memLocationRepo) FindByName(_ context.Context, name string) (*catalog.StorageLocation, error) {
	for _, loc := range r.locations {
		if loc.Name == name {
			copied := loc
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memLocationRepo) FindFirst(_ context.Context) (*catalog.StorageLocation, error) {
	for _, id := range r.order {
		if loc, ok := r.locations[id]; ok {
			return &loc, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memLocationRepo) FindAll(_ context.Context, _ shared.Filter) ([]catalog.StorageLocation, error) {
	out := make([]catalog.StorageLocation, 0, len(r.locations))
	for _, id := range r.order {
		if loc, ok := r.locations[id]; ok {
			out = append(out, loc)
		}
	}
	return out, nil
}

func (r *memLocationRepo) Save(_ context.Context, location *catalog.StorageLocation) error {
	if _, ok := r.locations[location.ID]; !ok {
		r.order = append(r.order, location.ID)
	}
	r.locations[location.ID] = *location
	return nil
}

func (r *memLocationRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.locations, id)
	return nil
}

type memSupplierRepo struct {
	suppliers map[uuid.UUID]catalog.Supplier
}

func newMemSupplierRepo() *memSupplierRepo {
	return &memSupplierRepo{suppliers: make(map[uuid.UUID]catalog.Supplier)}
}

func (r *memSupplierRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Supplier, error) {
	s, ok := r.suppliers[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &s, nil
}

func (r *memSupplierRepo) FindByName(_ context.Context, name string) (*catalog.Supplier, error) {
	for _, s := range r.suppliers {
		if s.Name == name {
			copied := s
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memSupplierRepo) FindAll(_ context.Context, _ shared.Filter) ([]catalog.Supplier, error) {
	out := make([]catalog.Supplier, 0, len(r.suppliers))
	for _, s := range r.suppliers {
		out = append(out, s)
	}
	return out, nil
}

func (r *memSupplierRepo) Save(_ context.Context, supplier *catalog.Supplier) error {
	r.suppliers[supplier.ID] = *supplier
	return nil
}

func (r *memSupplierRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.suppliers, id)
	return nil
}

func newTestService() (*CatalogService, *memItemRepo, *memLocationRepo, *memSupplierRepo) {
	itemRepo := newMemItemRepo()
	locationRepo := newMemLocationRepo()
	supplierRepo := newMemSupplierRepo()
	return NewCatalogService(itemRepo, locationRepo, supplierRepo), itemRepo, locationRepo, supplierRepo
}

func TestCatalogServiceCreateItem(t *testing.T) {
	ctx := context.Background()

	t.Run("creates item", func(t *testing.T) {
		service, _, _, _ := newTestService()

		item, err := service.CreateItem(ctx, CreateItemRequest{
			SKU:          "SKU-001",
			Name:         "M8 Bolt",
			ReorderLevel: decimal.NewFromInt(20),
		})
		require.NoError(t, err)
		assert.Equal(t, "SKU-001", item.SKU)
		assert.Equal(t, "pcs", item.UnitOfMeasure)
		assert.True(t, item.ReorderLevel.Equal(decimal.NewFromInt(20)))
	})

	t.Run("rejects duplicate sku", func(t *testing.T) {
		service, _, _, _ := newTestService()

		_, err := service.CreateItem(ctx, CreateItemRequest{SKU: "SKU-001", Name: "First"})
		require.NoError(t, err)

		_, err = service.CreateItem(ctx, CreateItemRequest{SKU: "SKU-001", Name: "Second"})
		require.Error(t, err)
		assert.Equal(t, shared.ErrAlreadyExists, err)
	})

	t.Run("rejects invalid reorder level", func(t *testing.T) {
		service, _, _, _ := newTestService()

		_, err := service.CreateItem(ctx, CreateItemRequest{
			SKU:          "SKU-002",
			Name:         "Widget",
			ReorderLevel: decimal.NewFromInt(-1),
		})
		require.Error(t, err)
	})
}

func TestCatalogServiceUpdateItem(t *testing.T) {
	ctx := context.Background()
	service, _, _, _ := newTestService()

	created, err := service.CreateItem(ctx, CreateItemRequest{SKU: "SKU-001", Name: "M8 Bolt"})
	require.NoError(t, err)

	level := decimal.NewFromInt(30)
	updated, err := service.UpdateItem(ctx, created.ID, UpdateItemRequest{
		Name:         "M8 Bolt zinc",
		ReorderLevel: &level,
	})
	require.NoError(t, err)
	assert.Equal(t, "M8 Bolt zinc", updated.Name)
	assert.True(t, updated.ReorderLevel.Equal(level))

	t.Run("unknown item", func(t *testing.T) {
		_, err := service.UpdateItem(ctx, uuid.New(), UpdateItemRequest{Name: "x"})
		require.Error(t, err)
		assert.Equal(t, shared.ErrNotFound, err)
	})
}

func TestCatalogServiceGetItemBySKU(t *testing.T) {
	ctx := context.Background()
	service, _, _, _ := newTestService()

	_, err := service.CreateItem(ctx, CreateItemRequest{SKU: "SKU-001", Name: "M8 Bolt"})
	require.NoError(t, err)

	item, err := service.GetItemBySKU(ctx, "SKU-001")
	require.NoError(t, err)
	assert.Equal(t, "M8 Bolt", item.Name)

	_, err = service.GetItemBySKU(ctx, "SKU-404")
	require.Error(t, err)
}

func TestCatalogServiceListItems(t *testing.T) {
	ctx := context.Background()
	service, _, _, _ := newTestService()

	for _, sku := range []string{"SKU-003", "SKU-001", "SKU-002"} {
		_, err := service.CreateItem(ctx, CreateItemRequest{SKU: sku, Name: "Item " + sku})
		require.NoError(t, err)
	}

	items, total, err := service.ListItems(ctx, ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, items, 3)
	assert.Equal(t, "SKU-001", items[0].SKU)
}

func TestCatalogServiceLocations(t *testing.T) {
	ctx := context.Background()

	t.Run("creates and lists locations", func(t *testing.T) {
		service, _, _, _ := newTestService()

		loc, err := service.CreateLocation(ctx, CreateLocationRequest{Name: "Main warehouse"})
		require.NoError(t, err)
		assert.Equal(t, "Main warehouse", loc.Name)

		locations, err := service.ListLocations(ctx)
		require.NoError(t, err)
		assert.Len(t, locations, 1)
	})

	t.Run("rejects duplicate name", func(t *testing.T) {
		service, _, _, _ := newTestService()

		_, err := service.CreateLocation(ctx, CreateLocationRequest{Name: "Main warehouse"})
		require.NoError(t, err)

		_, err = service.CreateLocation(ctx, CreateLocationRequest{Name: "Main warehouse"})
		require.Error(t, err)
		assert.Equal(t, shared.ErrAlreadyExists, err)
	})
}

func TestCatalogServiceDefaultReceivingLocation(t *testing.T) {
	ctx := context.Background()

	t.Run("creates default location on empty catalog", func(t *testing.T) {
		service, _, locationRepo, _ := newTestService()

		loc, err := service.DefaultReceivingLocation(ctx)
		require.NoError(t, err)
		assert.Equal(t, DefaultLocationName, loc.Name)

		// Created once, then reused.
		again, err := service.DefaultReceivingLocation(ctx)
		require.NoError(t, err)
		assert.Equal(t, loc.ID, again.ID)
		assert.Len(t, locationRepo.locations, 1)
	})

	t.Run("returns oldest existing location", func(t *testing.T) {
		service, _, _, _ := newTestService()

		first, err := service.CreateLocation(ctx, CreateLocationRequest{Name: "Dock A"})
		require.NoError(t, err)
		_, err = service.CreateLocation(ctx, CreateLocationRequest{Name: "Dock B"})
		require.NoError(t, err)

		loc, err := service.DefaultReceivingLocation(ctx)
		require.NoError(t, err)
		assert.Equal(t, first.ID, loc.ID)
	})
}

func TestCatalogServiceSuppliers(t *testing.T) {
	ctx := context.Background()

	t.Run("creates supplier", func(t *testing.T) {
		service, _, _, _ := newTestService()

		supplier, err := service.CreateSupplier(ctx, CreateSupplierRequest{
			Name:         "Acme GmbH",
			ContactEmail: "orders@acme.example",
		})
		require.NoError(t, err)
		assert.Equal(t, "Acme GmbH", supplier.Name)
		assert.Equal(t, "orders@acme.example", supplier.ContactEmail)
	})

	t.Run("rejects duplicate name", func(t *testing.T) {
		service, _, _, _ := newTestService()

		_, err := service.CreateSupplier(ctx, CreateSupplierRequest{Name: "Acme GmbH"})
		require.NoError(t, err)

		_, err = service.CreateSupplier(ctx, CreateSupplierRequest{Name: "Acme GmbH"})
		require.Error(t, err)
		assert.Equal(t, shared.ErrAlreadyExists, err)
	})

	t.Run("updates contact details", func(t *testing.T) {
		service, _, _, _ := newTestService()

		created, err := service.CreateSupplier(ctx, CreateSupplierRequest{Name: "Acme GmbH"})
		require.NoError(t, err)

		updated, err := service.UpdateSupplier(ctx, created.ID, UpdateSupplierRequest{
			ContactEmail: "sales@acme.example",
			ContactPhone: "+49 30 1234",
		})
		require.NoError(t, err)
		assert.Equal(t, "sales@acme.example", updated.ContactEmail)
		assert.Equal(t, "+49 30 1234", updated.ContactPhone)
	})
}
