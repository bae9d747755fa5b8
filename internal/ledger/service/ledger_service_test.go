package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"radagast/internal/domain"
	apperrors "radagast/internal/errors"
	"radagast/internal/storage"
)

type fakeTx struct {
	committed  bool
	rolledBack bool
}

func (f *fakeTx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return nil, nil
}

func (f *fakeTx) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return nil, nil
}

func (f *fakeTx) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return nil
}

func (f *fakeTx) Commit() error {
	f.committed = true
	return nil
}

func (f *fakeTx) Rollback() error {
	if !f.committed {
		f.rolledBack = true
	}
	return nil
}

type mockTxManager struct {
	tx       *fakeTx
	beginErr error
	calls    int
}

func (m *mockTxManager) BeginTx(ctx context.Context, opts *sql.TxOptions) (storage.Tx, error) {
	m.calls++
	if m.beginErr != nil {
		return nil, m.beginErr
	}
	return m.tx, nil
}

type mockProductRepository struct {
	FindByIDForUpdateFunc func(ctx context.Context, q storage.Querier, id uint) (*domain.Product, error)
	UpdateQuantityFunc    func(ctx context.Context, q storage.Querier, id uint, quantity int) error
}

func (m *mockProductRepository) FindByIDForUpdate(ctx context.Context, q storage.Querier, id uint) (*domain.Product, error) {
	return m.FindByIDForUpdateFunc(ctx, q, id)
}

func (m *mockProductRepository) UpdateQuantity(ctx context.Context, q storage.Querier, id uint, quantity int) error {
	return m.UpdateQuantityFunc(ctx, q, id, quantity)
}

type mockEventRepository struct {
	InsertFunc func(ctx context.Context, q storage.Querier, event domain.LedgerEvent) (uint, error)
	inserted   []domain.LedgerEvent
}

func (m *mockEventRepository) Insert(ctx context.Context, q storage.Querier, event domain.LedgerEvent) (uint, error) {
	m.inserted = append(m.inserted, event)
	if m.InsertFunc != nil {
		return m.InsertFunc(ctx, q, event)
	}
	return uint(len(m.inserted)), nil
}

func (m *mockEventRepository) FindAll(ctx context.Context) ([]domain.LedgerEvent, error) {
	return m.inserted, nil
}

func (m *mockEventRepository) FindByProduct(ctx context.Context, productID uint) ([]domain.LedgerEvent, error) {
	return m.inserted, nil
}

func (m *mockEventRepository) FindByWarehouse(ctx context.Context, warehouse string) ([]domain.LedgerEvent, error) {
	return m.inserted, nil
}

func (m *mockEventRepository) FindByDateRange(ctx context.Context, from, to time.Time) ([]domain.LedgerEvent, error) {
	return m.inserted, nil
}

func (m *mockEventRepository) FindByWarehouseAndDateRange(ctx context.Context, warehouse string, from, to time.Time) ([]domain.LedgerEvent, error) {
	return m.inserted, nil
}

type mockNotifier struct {
	products []domain.Product
}

func (m *mockNotifier) ProductSold(ctx context.Context, product domain.Product) {
	m.products = append(m.products, product)
}

// stockState backs the mocks with a tiny in-memory product so tests can
// replay event sequences against real quantity arithmetic.
type stockState struct {
	product domain.Product
}

func (s *stockState) productRepo() *mockProductRepository {
	return &mockProductRepository{
		FindByIDForUpdateFunc: func(ctx context.Context, q storage.Querier, id uint) (*domain.Product, error) {
			if id != s.product.ID {
				return nil, apperrors.NewNotFoundError("product not found")
			}
			p := s.product
			return &p, nil
		},
		UpdateQuantityFunc: func(ctx context.Context, q storage.Querier, id uint, quantity int) error {
			s.product.Quantity = quantity
			return nil
		},
	}
}

func newTestService(productRepo ProductRepository, eventRepo EventRepository, notifier Notifier) (*LedgerService, *mockTxManager) {
	txMgr := &mockTxManager{tx: &fakeTx{}}
	svc := NewLedgerService(txMgr, productRepo, eventRepo, notifier, zap.NewNop(), 5*time.Second)
	return svc, txMgr
}

func TestRecordShipment_IncrementsStock(t *testing.T) {
	state := &stockState{product: domain.Product{ID: 1, Name: "Widget", Quantity: 10, Price: 2.5}}
	eventRepo := &mockEventRepository{}
	svc, txMgr := newTestService(state.productRepo(), eventRepo, nil)

	event, err := svc.RecordShipment(context.Background(), 1, 5, "Main Warehouse", "bob")

	assert.NoError(t, err)
	assert.Equal(t, domain.EventShipment, event.Kind)
	assert.Equal(t, 5, event.Quantity)
	assert.Equal(t, 12.5, event.Amount)
	assert.Equal(t, 15, state.product.Quantity)
	assert.True(t, txMgr.tx.committed)
}

func TestRecordSale_DecrementsStockAndNotifies(t *testing.T) {
	state := &stockState{product: domain.Product{ID: 1, Quantity: 10, ReorderThreshold: 5, Price: 1.0}}
	eventRepo := &mockEventRepository{}
	notifier := &mockNotifier{}
	svc, txMgr := newTestService(state.productRepo(), eventRepo, notifier)

	event, err := svc.RecordSale(context.Background(), 1, 4, "Main Warehouse", "alice")

	assert.NoError(t, err)
	assert.Equal(t, domain.EventSale, event.Kind)
	assert.Equal(t, 6, state.product.Quantity)
	assert.True(t, txMgr.tx.committed)

	// The hook is told about the post-sale state, after commit.
	assert.Len(t, notifier.products, 1)
	assert.Equal(t, 6, notifier.products[0].Quantity)
}

func TestRecordSale_InsufficientStock_LeavesNoPartialState(t *testing.T) {
	state := &stockState{product: domain.Product{ID: 1, Quantity: 3, Price: 1.0}}
	eventRepo := &mockEventRepository{}
	notifier := &mockNotifier{}
	svc, txMgr := newTestService(state.productRepo(), eventRepo, notifier)

	event, err := svc.RecordSale(context.Background(), 1, 5, "Main Warehouse", "alice")

	assert.Nil(t, event)
	ise, ok := apperrors.IsInsufficientStockError(err)
	assert.True(t, ok)
	assert.Equal(t, 5, ise.Requested)
	assert.Equal(t, 3, ise.Available)

	assert.Equal(t, 3, state.product.Quantity)
	assert.Empty(t, eventRepo.inserted)
	assert.Empty(t, notifier.products)
	assert.False(t, txMgr.tx.committed)
	assert.True(t, txMgr.tx.rolledBack)
}

func TestRecordSale_ExactStock_Succeeds(t *testing.T) {
	state := &stockState{product: domain.Product{ID: 1, Quantity: 5, Price: 1.0}}
	svc, _ := newTestService(state.productRepo(), &mockEventRepository{}, nil)

	_, err := svc.RecordSale(context.Background(), 1, 5, "Main Warehouse", "alice")

	assert.NoError(t, err)
	assert.Equal(t, 0, state.product.Quantity)
}

func TestRecordReturn_IncrementsWithoutNotify(t *testing.T) {
	state := &stockState{product: domain.Product{ID: 1, Quantity: 2, ReorderThreshold: 20, Price: 1.0}}
	notifier := &mockNotifier{}
	svc, _ := newTestService(state.productRepo(), &mockEventRepository{}, notifier)

	event, err := svc.RecordReturn(context.Background(), 1, 3, "Main Warehouse", "carol")

	assert.NoError(t, err)
	assert.Equal(t, domain.EventReturn, event.Kind)
	assert.Equal(t, 5, state.product.Quantity)
	assert.Empty(t, notifier.products)
}

func TestRecord_NonPositiveQuantity_Rejected(t *testing.T) {
	state := &stockState{product: domain.Product{ID: 1, Quantity: 10}}
	svc, txMgr := newTestService(state.productRepo(), &mockEventRepository{}, nil)

	for _, qty := range []int{0, -3} {
		_, err := svc.RecordShipment(context.Background(), 1, qty, "Main Warehouse", "bob")
		_, ok := apperrors.IsValidationError(err)
		assert.True(t, ok)
	}

	// Validation fails before any transaction is opened.
	assert.Equal(t, 0, txMgr.calls)
}

func TestRecord_UnknownProduct_NotFound(t *testing.T) {
	state := &stockState{product: domain.Product{ID: 1, Quantity: 10}}
	svc, _ := newTestService(state.productRepo(), &mockEventRepository{}, nil)

	_, err := svc.RecordShipment(context.Background(), 99, 5, "Main Warehouse", "bob")

	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestRecord_InsertFailure_NoCommit(t *testing.T) {
	state := &stockState{product: domain.Product{ID: 1, Quantity: 10, Price: 1.0}}
	eventRepo := &mockEventRepository{
		InsertFunc: func(ctx context.Context, q storage.Querier, event domain.LedgerEvent) (uint, error) {
			return 0, errors.New("disk full")
		},
	}
	svc, txMgr := newTestService(state.productRepo(), eventRepo, nil)

	_, err := svc.RecordSale(context.Background(), 1, 2, "Main Warehouse", "alice")

	assert.Error(t, err)
	assert.False(t, txMgr.tx.committed)
	assert.True(t, txMgr.tx.rolledBack)
}

func TestLedgerReplay_QuantityMatchesEventSum(t *testing.T) {
	initial := 100
	state := &stockState{product: domain.Product{ID: 1, Quantity: initial, ReorderThreshold: 0, Price: 1.0}}
	eventRepo := &mockEventRepository{}
	svc, _ := newTestService(state.productRepo(), eventRepo, nil)

	ctx := context.Background()
	_, _ = svc.RecordShipment(ctx, 1, 50, "A", "h")
	_, _ = svc.RecordSale(ctx, 1, 30, "A", "h")
	_, _ = svc.RecordReturn(ctx, 1, 5, "A", "h")
	_, _ = svc.RecordSale(ctx, 1, 25, "A", "h")
	_, _ = svc.RecordShipment(ctx, 1, 10, "A", "h")

	sum := 0
	for _, e := range eventRepo.inserted {
		sum += e.QuantityDelta()
	}

	assert.Equal(t, initial+sum, state.product.Quantity)
	assert.Equal(t, 110, state.product.Quantity)
}
