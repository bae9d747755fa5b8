package service

import (
	"context"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"radagast/internal/domain"
	apperrors "radagast/internal/errors"
)

type stubProductRepo struct {
	products []domain.Product
}

func (s *stubProductRepo) FindByID(ctx context.Context, id uint) (*domain.Product, error) {
	for _, p := range s.products {
		if p.ID == id {
			cp := p
			return &cp, nil
		}
	}
	return nil, apperrors.NewNotFoundError("product not found")
}

func (s *stubProductRepo) FindAll(ctx context.Context) ([]domain.Product, error) {
	return s.products, nil
}

type stubEventRepo struct {
	events []domain.LedgerEvent
}

func (s *stubEventRepo) FindByProductSince(ctx context.Context, productID uint, since time.Time) ([]domain.LedgerEvent, error) {
	return s.events, nil
}

type stubUserRepo struct {
	buyers []domain.User
}

func (s *stubUserRepo) FindByRole(ctx context.Context, role domain.Role) ([]domain.User, error) {
	return s.buyers, nil
}

type recordingOrderPlacer struct {
	created   []domain.PurchaseOrder
	completed []uint
	nextID    uint
}

func (p *recordingOrderPlacer) CreateAutoApproved(ctx context.Context, product domain.Product, buyer domain.User, quantity int, notes string) (*domain.PurchaseOrder, error) {
	p.nextID++
	order := domain.NewPurchaseOrder(product, buyer, quantity, true)
	order.ID = p.nextID
	order.Status = domain.OrderStatusApproved
	if notes != "" {
		order.Notes = notes
	}
	p.created = append(p.created, order)
	return &order, nil
}

func (p *recordingOrderPlacer) Complete(ctx context.Context, orderID uint) (*domain.PurchaseOrder, error) {
	p.completed = append(p.completed, orderID)
	for i := range p.created {
		if p.created[i].ID == orderID {
			p.created[i].Status = domain.OrderStatusCompleted
			cp := p.created[i]
			return &cp, nil
		}
	}
	return nil, apperrors.NewNotFoundError("order not found")
}

type stubAdvisor struct {
	response string
	prompts  []string
}

func (s *stubAdvisor) Advise(ctx context.Context, prompt string) string {
	s.prompts = append(s.prompts, prompt)
	return s.response
}

func newReplenishService(products []domain.Product, buyers []domain.User, advice string) (*ReplenishmentService, *recordingOrderPlacer, *stubAdvisor) {
	placer := &recordingOrderPlacer{}
	advisor := &stubAdvisor{response: advice}
	svc := NewReplenishmentService(
		&stubProductRepo{products: products},
		&stubEventRepo{},
		&stubUserRepo{buyers: buyers},
		placer,
		advisor,
		FirstBuyerPicker{},
		zap.NewNop(),
	)
	return svc, placer, advisor
}

func buyer() domain.User {
	return domain.User{ID: 7, FullName: "Bob Buyer", Role: domain.RoleBuyer}
}

func TestProductSold_BelowReorderPoint_PlacesCompletedOrder(t *testing.T) {
	product := domain.Product{ID: 1, Name: "Widget", Quantity: 3, ReorderThreshold: 5, Price: 10.0}
	svc, placer, _ := newReplenishService([]domain.Product{product}, []domain.User{buyer()}, "")

	svc.ProductSold(context.Background(), product)

	assert.Len(t, placer.created, 1)
	order := placer.created[0]
	assert.Equal(t, 15, order.Quantity) // threshold + 10
	assert.True(t, order.AutoTriggered)
	assert.Equal(t, domain.OrderStatusCompleted, order.Status)
	assert.Equal(t, []uint{order.ID}, placer.completed)
}

func TestProductSold_JustAboveTriggerBand_NoOrder(t *testing.T) {
	// Trigger is quantity <= threshold-2; threshold-1 stays quiet.
	product := domain.Product{ID: 1, Quantity: 4, ReorderThreshold: 5, Price: 10.0}
	svc, placer, _ := newReplenishService([]domain.Product{product}, []domain.User{buyer()}, "")

	svc.ProductSold(context.Background(), product)

	assert.Empty(t, placer.created)
}

func TestProductSold_NoBuyer_SilentlySkips(t *testing.T) {
	product := domain.Product{ID: 1, Quantity: 0, ReorderThreshold: 5, Price: 10.0}
	svc, placer, _ := newReplenishService([]domain.Product{product}, nil, "")

	svc.ProductSold(context.Background(), product)

	assert.Empty(t, placer.created)
	assert.Empty(t, placer.completed)
}

func TestGetRecommendation_HighUrgency_TriggersOrder(t *testing.T) {
	product := domain.Product{ID: 1, Name: "Widget", Quantity: 12, ReorderThreshold: 5, Price: 10.0}
	advice := "Quantity: 75 | Urgency: HIGH | Reasoning: seasonal demand spike expected"
	svc, placer, advisor := newReplenishService([]domain.Product{product}, []domain.User{buyer()}, advice)

	rec, err := svc.GetRecommendation(context.Background(), 1)

	assert.NoError(t, err)
	assert.Equal(t, 75, rec.RecommendedQuantity)
	assert.Equal(t, "HIGH", rec.Urgency)
	assert.True(t, rec.AutoTriggered)
	assert.NotZero(t, rec.OrderID)

	assert.Len(t, placer.created, 1)
	assert.Equal(t, 75, placer.created[0].Quantity)
	assert.Contains(t, placer.created[0].Notes, "Urgency: HIGH")
	assert.Contains(t, placer.created[0].Notes, "seasonal demand spike")

	// The prompt carried the product's stock position.
	assert.Len(t, advisor.prompts, 1)
	assert.Contains(t, advisor.prompts[0], "Widget")
}

func TestGetRecommendation_LowUrgencyAboveThreshold_NoOrder(t *testing.T) {
	product := domain.Product{ID: 1, Quantity: 40, ReorderThreshold: 5, Price: 10.0}
	advice := "Quantity: 20 | Urgency: LOW | Reasoning: stock levels are healthy for now"
	svc, placer, _ := newReplenishService([]domain.Product{product}, []domain.User{buyer()}, advice)

	rec, err := svc.GetRecommendation(context.Background(), 1)

	assert.NoError(t, err)
	assert.False(t, rec.AutoTriggered)
	assert.Equal(t, "no action required", rec.Message)
	assert.Empty(t, placer.created)
}

func TestGetRecommendation_LowUrgencyButBelowReorderPoint_StillOrders(t *testing.T) {
	product := domain.Product{ID: 1, Quantity: 2, ReorderThreshold: 5, Price: 10.0}
	advice := "Quantity: 30 | Urgency: LOW | Reasoning: modest restock keeps coverage adequate"
	svc, placer, _ := newReplenishService([]domain.Product{product}, []domain.User{buyer()}, advice)

	rec, err := svc.GetRecommendation(context.Background(), 1)

	assert.NoError(t, err)
	assert.True(t, rec.AutoTriggered)
	assert.Len(t, placer.created, 1)
	assert.Equal(t, 30, placer.created[0].Quantity)
}

func TestGetRecommendation_NoBuyer_ReportsInsteadOfOrdering(t *testing.T) {
	product := domain.Product{ID: 1, Quantity: 0, ReorderThreshold: 5, Price: 10.0}
	advice := "Quantity: 50 | Urgency: CRITICAL | Reasoning: product is out of stock"
	svc, placer, _ := newReplenishService([]domain.Product{product}, nil, advice)

	rec, err := svc.GetRecommendation(context.Background(), 1)

	assert.NoError(t, err)
	assert.False(t, rec.AutoTriggered)
	assert.Contains(t, rec.Message, "no order could be placed")
	assert.Empty(t, placer.created)
}

func TestGetRecommendation_LongReasoning_TruncatedInNotes(t *testing.T) {
	product := domain.Product{ID: 1, Quantity: 0, ReorderThreshold: 5, Price: 10.0}
	longReason := strings.Repeat("critical shortage across regions ", 10)
	advice := "Quantity: 40 | Urgency: CRITICAL | Reasoning: " + longReason
	svc, placer, _ := newReplenishService([]domain.Product{product}, []domain.User{buyer()}, advice)

	_, err := svc.GetRecommendation(context.Background(), 1)

	assert.NoError(t, err)
	assert.Len(t, placer.created, 1)

	notes := placer.created[0].Notes
	assert.Contains(t, notes, "...")
	assert.Less(t, len(notes), len(longReason))
}

func TestTruncate_BacksUpToRuneBoundary(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "abcde...", truncate("abcdef", 5))

	// "é" is two bytes; a limit landing mid-rune must not split it.
	s := strings.Repeat("é", 4)
	got := truncate(s, 5)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, "éé...", got)
}

func TestGetRecommendation_UnknownProduct(t *testing.T) {
	svc, _, _ := newReplenishService(nil, []domain.User{buyer()}, "")

	_, err := svc.GetRecommendation(context.Background(), 42)

	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestCheckAll_SweepsOnlyNearThresholdProducts(t *testing.T) {
	products := []domain.Product{
		{ID: 1, Name: "Empty", Quantity: 0, ReorderThreshold: 5, Price: 10.0},
		{ID: 2, Name: "Near", Quantity: 14, ReorderThreshold: 5, Price: 10.0},
		{ID: 3, Name: "Plenty", Quantity: 200, ReorderThreshold: 5, Price: 10.0},
	}
	advice := "Quantity: 25 | Urgency: HIGH | Reasoning: demand is outpacing supply"
	svc, placer, _ := newReplenishService(products, []domain.User{buyer()}, advice)

	result, err := svc.CheckAll(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 3, result.CheckedProducts)
	assert.Equal(t, 2, result.LowStockProducts)
	assert.Equal(t, 2, result.AutoTriggeredCount)
	assert.Len(t, result.Recommendations, 2)
	assert.Len(t, placer.created, 2)
}
