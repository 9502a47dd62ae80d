package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/laritechfarms/farms-api/internal/core/domain"
	"github.com/laritechfarms/farms-api/internal/core/ports"
)

// stubSaleRepo runs InTx against an in-memory stock table and only keeps
// the writes when fn succeeds.
type stubSaleRepo struct {
	stock   map[int64]int
	clients map[int64]bool
	sales   map[int64]*domain.Sale
	nextID  int64
	txs     int
	findErr error
}

func newStubSaleRepo() *stubSaleRepo {
	return &stubSaleRepo{
		stock:   map[int64]int{1: 10, 2: 3},
		clients: map[int64]bool{5: true},
		sales:   map[int64]*domain.Sale{},
		nextID:  100,
	}
}

func (r *stubSaleRepo) List(context.Context, int64, domain.SaleFilter, domain.Page) ([]domain.Sale, int64, error) {
	return nil, 0, nil
}

func (r *stubSaleRepo) FindByID(_ context.Context, tenantID, id int64) (*domain.Sale, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	s, ok := r.sales[id]
	if !ok || s.TenantID != tenantID {
		return nil, domain.NotFound("venta")
	}
	clone := *s
	return &clone, nil
}

func (r *stubSaleRepo) UpdateStatus(ctx context.Context, tenantID, id int64, status string) (*domain.Sale, error) {
	s, err := r.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	r.sales[id].Status = status
	s.Status = status
	return s, nil
}

func (r *stubSaleRepo) Stats(context.Context, int64, domain.DateRange) (*domain.SaleStats, error) {
	return &domain.SaleStats{}, nil
}

func (r *stubSaleRepo) InTx(_ context.Context, fn func(tx ports.SaleTx) error) error {
	r.txs++
	tx := &stubSaleTx{repo: r, stock: make(map[int64]int, len(r.stock)), nextID: r.nextID}
	for k, v := range r.stock {
		tx.stock[k] = v
	}
	if err := fn(tx); err != nil {
		return err
	}
	r.stock = tx.stock
	r.nextID = tx.nextID
	for _, s := range tx.sales {
		s.Lines = tx.lines[s.ID]
		r.sales[s.ID] = s
	}
	return nil
}

type stubSaleTx struct {
	repo   *stubSaleRepo
	stock  map[int64]int
	sales  []*domain.Sale
	lines  map[int64][]domain.SaleLine
	nextID int64
}

func (tx *stubSaleTx) ClientExists(_ context.Context, _ int64, clientID int64) (bool, error) {
	return tx.repo.clients[clientID], nil
}

func (tx *stubSaleTx) InsertSale(_ context.Context, sale *domain.Sale) error {
	tx.nextID++
	sale.ID = tx.nextID
	clone := *sale
	tx.sales = append(tx.sales, &clone)
	return nil
}

func (tx *stubSaleTx) InsertLines(_ context.Context, lines []domain.SaleLine) error {
	if tx.lines == nil {
		tx.lines = map[int64][]domain.SaleLine{}
	}
	for _, l := range lines {
		tx.lines[l.SaleID] = append(tx.lines[l.SaleID], l)
	}
	return nil
}

func (tx *stubSaleTx) DecrementStock(_ context.Context, _ int64, productID int64, qty int) error {
	have, ok := tx.stock[productID]
	if !ok {
		return domain.NotFound("producto")
	}
	if have < qty {
		return domain.ErrInsufficientStock
	}
	tx.stock[productID] = have - qty
	return nil
}

type stubIdempotency struct {
	entries   map[string]int64
	completed map[string]int64
	released  []string
}

func newStubIdempotency() *stubIdempotency {
	return &stubIdempotency{entries: map[string]int64{}, completed: map[string]int64{}}
}

func (s *stubIdempotency) Claim(_ context.Context, key string) (int64, bool, error) {
	if id, ok := s.entries[key]; ok {
		return id, false, nil
	}
	s.entries[key] = 0
	return 0, true, nil
}

func (s *stubIdempotency) Complete(_ context.Context, key string, saleID int64) error {
	s.entries[key] = saleID
	s.completed[key] = saleID
	return nil
}

func (s *stubIdempotency) Release(_ context.Context, key string) error {
	delete(s.entries, key)
	s.released = append(s.released, key)
	return nil
}

func newSale(lines ...domain.SaleLine) *domain.Sale {
	return &domain.Sale{
		Date:  domain.NewDate(time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)),
		Lines: lines,
	}
}

func TestSaleCreate(t *testing.T) {
	repo := newStubSaleRepo()
	svc := NewSaleService(repo, nil, nil, zerolog.Nop())

	client := int64(5)
	in := newSale(
		domain.SaleLine{ProductID: 1, Quantity: 4, UnitPrice: 2.5},
		domain.SaleLine{ProductID: 2, Quantity: 1, UnitPrice: 10},
	)
	in.ClientID = &client

	got, replayed, err := svc.Create(context.Background(), staffCaller, in, "")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if replayed {
		t.Fatal("Create() replayed = true on first request")
	}
	if got.Total != 20 {
		t.Fatalf("total = %v, want 20", got.Total)
	}
	if got.TenantID != 7 || got.UserID != 3 || got.Status != domain.SaleCompleted {
		t.Fatalf("Create() = %+v, want tenant 7, user 3, estado %q", got, domain.SaleCompleted)
	}
	if len(got.Lines) != 2 || got.Lines[0].SaleID != got.ID {
		t.Fatalf("lines = %+v, want two lines of sale %d", got.Lines, got.ID)
	}
	if repo.stock[1] != 6 || repo.stock[2] != 2 {
		t.Fatalf("stock = %v, want 1:6 2:2", repo.stock)
	}
}

func TestSaleCreateInsufficientStockRollsBack(t *testing.T) {
	repo := newStubSaleRepo()
	svc := NewSaleService(repo, nil, nil, zerolog.Nop())

	in := newSale(
		domain.SaleLine{ProductID: 1, Quantity: 2, UnitPrice: 1},
		domain.SaleLine{ProductID: 2, Quantity: 4, UnitPrice: 1},
	)
	_, _, err := svc.Create(context.Background(), staffCaller, in, "")

	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Create() error = %v, want ValidationError", err)
	}
	if repo.stock[1] != 10 || repo.stock[2] != 3 {
		t.Fatalf("stock = %v, want it untouched", repo.stock)
	}
	if len(repo.sales) != 0 {
		t.Fatalf("sales = %v, want none", repo.sales)
	}
}

func TestSaleCreateUnknownClient(t *testing.T) {
	repo := newStubSaleRepo()
	svc := NewSaleService(repo, nil, nil, zerolog.Nop())

	client := int64(6)
	in := newSale(domain.SaleLine{ProductID: 1, Quantity: 1, UnitPrice: 1})
	in.ClientID = &client

	if _, _, err := svc.Create(context.Background(), staffCaller, in, ""); !domain.IsNotFound(err) {
		t.Fatalf("Create() error = %v, want not found", err)
	}
	if repo.stock[1] != 10 {
		t.Fatal("stock changed for a rejected sale")
	}
}

func TestSaleCreateValidation(t *testing.T) {
	svc := NewSaleService(newStubSaleRepo(), nil, nil, zerolog.Nop())

	tests := []struct {
		name string
		sale *domain.Sale
	}{
		{"no date", &domain.Sale{Lines: []domain.SaleLine{{ProductID: 1, Quantity: 1}}}},
		{"no lines", newSale()},
		{"zero quantity", newSale(domain.SaleLine{ProductID: 1, Quantity: 0, UnitPrice: 1})},
		{"no product", newSale(domain.SaleLine{Quantity: 1, UnitPrice: 1})},
		{"negative price", newSale(domain.SaleLine{ProductID: 1, Quantity: 1, UnitPrice: -1})},
		{"bad status", func() *domain.Sale {
			s := newSale(domain.SaleLine{ProductID: 1, Quantity: 1, UnitPrice: 1})
			s.Status = "Enviada"
			return s
		}()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.Create(context.Background(), staffCaller, tt.sale, "")
			var verr *domain.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Create() error = %v, want ValidationError", err)
			}
		})
	}
}

func TestSaleCreateIdempotentReplay(t *testing.T) {
	repo := newStubSaleRepo()
	idem := newStubIdempotency()
	svc := NewSaleService(repo, nil, idem, zerolog.Nop())

	first, replayed, err := svc.Create(context.Background(), staffCaller, newSale(domain.SaleLine{ProductID: 1, Quantity: 2, UnitPrice: 3}), "abc")
	if err != nil || replayed {
		t.Fatalf("first Create() = %v, %v, want fresh sale", replayed, err)
	}
	if idem.completed["venta:7:abc"] != first.ID {
		t.Fatalf("completed = %v, want key bound to sale %d", idem.completed, first.ID)
	}

	second, replayed, err := svc.Create(context.Background(), staffCaller, newSale(domain.SaleLine{ProductID: 1, Quantity: 2, UnitPrice: 3}), "abc")
	if err != nil {
		t.Fatalf("second Create() error = %v", err)
	}
	if !replayed || second.ID != first.ID {
		t.Fatalf("second Create() = sale %d replayed %v, want sale %d replayed", second.ID, replayed, first.ID)
	}
	if repo.txs != 1 || repo.stock[1] != 8 {
		t.Fatalf("txs = %d stock = %d, want a single decrement", repo.txs, repo.stock[1])
	}
}

func TestSaleCreateIdempotencyKeyIsTenantScoped(t *testing.T) {
	repo := newStubSaleRepo()
	idem := newStubIdempotency()
	svc := NewSaleService(repo, nil, idem, zerolog.Nop())

	if _, _, err := svc.Create(context.Background(), staffCaller, newSale(domain.SaleLine{ProductID: 1, Quantity: 1, UnitPrice: 1}), "k"); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	other := staffCaller
	other.TenantID = 8
	_, replayed, err := svc.Create(context.Background(), other, newSale(domain.SaleLine{ProductID: 1, Quantity: 1, UnitPrice: 1}), "k")
	if err != nil || replayed {
		t.Fatalf("Create() for another tenant = %v, %v, want a fresh sale", replayed, err)
	}
}

func TestSaleCreateInFlightConflict(t *testing.T) {
	repo := newStubSaleRepo()
	idem := newStubIdempotency()
	idem.entries["venta:7:busy"] = 0
	svc := NewSaleService(repo, nil, idem, zerolog.Nop())

	_, _, err := svc.Create(context.Background(), staffCaller, newSale(domain.SaleLine{ProductID: 1, Quantity: 1, UnitPrice: 1}), "busy")
	var conflict *domain.ConflictError
	if !errors.As(err, &conflict) || conflict.Kind != domain.InProgress {
		t.Fatalf("Create() error = %v, want in-progress conflict", err)
	}
	if repo.txs != 0 {
		t.Fatal("in-flight duplicate opened a transaction")
	}
}

func TestSaleCreateFailureReleasesKey(t *testing.T) {
	repo := newStubSaleRepo()
	idem := newStubIdempotency()
	svc := NewSaleService(repo, nil, idem, zerolog.Nop())

	_, _, err := svc.Create(context.Background(), staffCaller, newSale(domain.SaleLine{ProductID: 2, Quantity: 50, UnitPrice: 1}), "retry")
	if err == nil {
		t.Fatal("Create() error = nil, want insufficient stock")
	}
	if len(idem.released) != 1 || idem.released[0] != "venta:7:retry" {
		t.Fatalf("released = %v, want the failed key", idem.released)
	}

	if _, replayed, err := svc.Create(context.Background(), staffCaller, newSale(domain.SaleLine{ProductID: 2, Quantity: 1, UnitPrice: 1}), "retry"); err != nil || replayed {
		t.Fatalf("retry Create() = %v, %v, want a fresh sale", replayed, err)
	}
}

func TestSaleCreateReadFailureAfterCommitKeepsKey(t *testing.T) {
	repo := newStubSaleRepo()
	idem := newStubIdempotency()
	svc := NewSaleService(repo, nil, idem, zerolog.Nop())

	repo.findErr = errors.New("connection reset")
	if _, _, err := svc.Create(context.Background(), staffCaller, newSale(domain.SaleLine{ProductID: 1, Quantity: 2, UnitPrice: 5}), "k-1"); err == nil {
		t.Fatal("expected the read error to surface")
	}
	if len(idem.released) != 0 {
		t.Fatalf("committed sale must not release its key, released %v", idem.released)
	}
	key := idempotencyScope(staffCaller.TenantID, "k-1")
	if idem.completed[key] != 101 {
		t.Fatalf("expected key completed with sale 101, got %v", idem.completed)
	}

	repo.findErr = nil
	got, replayed, err := svc.Create(context.Background(), staffCaller, newSale(domain.SaleLine{ProductID: 1, Quantity: 2, UnitPrice: 5}), "k-1")
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if !replayed || got.ID != 101 {
		t.Fatalf("expected replay of sale 101, got id=%d replayed=%v", got.ID, replayed)
	}
	if len(repo.sales) != 1 || repo.stock[1] != 8 {
		t.Fatalf("retry must not create a second sale: sales=%d stock=%d", len(repo.sales), repo.stock[1])
	}
}

func TestSaleUpdateStatus(t *testing.T) {
	repo := newStubSaleRepo()
	repo.sales[1] = &domain.Sale{ID: 1, TenantID: 7, Status: domain.SaleCompleted}
	svc := NewSaleService(repo, nil, nil, zerolog.Nop())

	if _, err := svc.UpdateStatus(context.Background(), staffCaller, 1, ""); err == nil {
		t.Fatal("UpdateStatus() with empty estado succeeded")
	}
	if _, err := svc.UpdateStatus(context.Background(), staffCaller, 1, "Perdida"); err == nil {
		t.Fatal("UpdateStatus() with unknown estado succeeded")
	}
	got, err := svc.UpdateStatus(context.Background(), staffCaller, 1, domain.SaleCancelled)
	if err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}
	if got.Status != domain.SaleCancelled {
		t.Fatalf("estado = %q, want %q", got.Status, domain.SaleCancelled)
	}
}
