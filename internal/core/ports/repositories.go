package ports

import (
	"context"
	"time"

	"github.com/laritechfarms/farms-api/internal/core/domain"
)

// TenantStore is the persistence contract shared by every farm record. Every
// method filters on tenantID; a record owned by another tenant is reported
// as not found.
type TenantStore[T any, F any] interface {
	List(ctx context.Context, tenantID int64, filter F, page domain.Page) ([]T, int64, error)
	FindByID(ctx context.Context, tenantID, id int64) (*T, error)
	Create(ctx context.Context, record *T) error
	Update(ctx context.Context, tenantID, id int64, changes domain.Changes) (*T, error)
	Delete(ctx context.Context, tenantID, id int64) error
}

// UserRepository reads and writes login accounts. Users and tenants are
// returned with Tenant loaded.
type UserRepository interface {
	FindActiveByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) error
	UpdatePassword(ctx context.Context, id int64, hash string) error
	TouchLastLogin(ctx context.Context, id int64, at time.Time) error
}

type BatchRepository interface {
	TenantStore[domain.Batch, domain.BatchFilter]
	CountBirds(ctx context.Context, tenantID, batchID int64) (int64, error)
}

type BirdRepository interface {
	TenantStore[domain.Bird, domain.BirdFilter]
	CountHealthRecords(ctx context.Context, tenantID, birdID int64) (int64, error)
	Stats(ctx context.Context, tenantID int64, r domain.DateRange) (*domain.BirdStats, error)
}

type ProductRepository interface {
	TenantStore[domain.Product, domain.ProductFilter]
	Categories(ctx context.Context, tenantID int64) ([]domain.GroupTotal, error)
	AdjustStock(ctx context.Context, tenantID, id int64, change domain.StockChange) (*domain.Product, error)
	CountSaleLines(ctx context.Context, tenantID, productID int64) (int64, error)
}

type ClientRepository interface {
	TenantStore[domain.Client, domain.ClientFilter]
	CountSales(ctx context.Context, tenantID, clientID int64) (int64, error)
}

// SaleRepository persists sales. Creation goes through InTx so the header,
// its lines and the stock decrements commit or roll back together.
type SaleRepository interface {
	List(ctx context.Context, tenantID int64, filter domain.SaleFilter, page domain.Page) ([]domain.Sale, int64, error)
	FindByID(ctx context.Context, tenantID, id int64) (*domain.Sale, error)
	UpdateStatus(ctx context.Context, tenantID, id int64, status string) (*domain.Sale, error)
	Stats(ctx context.Context, tenantID int64, r domain.DateRange) (*domain.SaleStats, error)
	InTx(ctx context.Context, fn func(tx SaleTx) error) error
}

// SaleTx is the set of writes available inside a sale transaction.
type SaleTx interface {
	ClientExists(ctx context.Context, tenantID, clientID int64) (bool, error)
	InsertSale(ctx context.Context, sale *domain.Sale) error
	InsertLines(ctx context.Context, lines []domain.SaleLine) error
	DecrementStock(ctx context.Context, tenantID, productID int64, qty int) error
}

type EmployeeRepository interface {
	TenantStore[domain.Employee, domain.EmployeeFilter]
	Positions(ctx context.Context, tenantID int64) ([]domain.GroupTotal, error)
	CountDependents(ctx context.Context, tenantID, employeeID int64) (int64, error)
}

type AttendanceRepository interface {
	TenantStore[domain.Attendance, domain.AttendanceFilter]
	ExistsForDay(ctx context.Context, tenantID, employeeID int64, day domain.Date) (bool, error)
	Stats(ctx context.Context, tenantID int64, r domain.DateRange) (*domain.AttendanceStats, error)
}

type LoanRepository interface {
	TenantStore[domain.Loan, domain.LoanFilter]
	Stats(ctx context.Context, tenantID int64, r domain.DateRange) (*domain.LoanStats, error)
}

type InventoryRepository interface {
	TenantStore[domain.InventoryItem, domain.InventoryFilter]
	Categories(ctx context.Context, tenantID int64) ([]domain.GroupTotal, error)
	Alerts(ctx context.Context, tenantID int64) ([]domain.InventoryItem, error)
	AdjustStock(ctx context.Context, tenantID, id int64, change domain.StockChange) (*domain.InventoryItem, error)
}

type VehicleRepository interface {
	TenantStore[domain.Vehicle, domain.VehicleFilter]
	PlateTaken(ctx context.Context, tenantID int64, plate string, exceptID int64) (bool, error)
	CountTransport(ctx context.Context, tenantID, vehicleID int64) (int64, error)
	Stats(ctx context.Context, tenantID int64, r domain.DateRange) (*domain.VehicleStats, error)
}

type HealthRepository interface {
	TenantStore[domain.HealthRecord, domain.RecordFilter]
	Stats(ctx context.Context, tenantID int64, r domain.DateRange) (*domain.HealthStats, error)
}

type MortalityRepository interface {
	TenantStore[domain.MortalityRecord, domain.RecordFilter]
	Stats(ctx context.Context, tenantID int64, r domain.DateRange) (*domain.MortalityStats, error)
}

type EggRepository interface {
	TenantStore[domain.EggRecord, domain.RecordFilter]
	Stats(ctx context.Context, tenantID int64, r domain.DateRange) (*domain.EggStats, error)
}

type ExpenseRepository interface {
	TenantStore[domain.Expense, domain.ExpenseFilter]
	Stats(ctx context.Context, tenantID int64, r domain.DateRange) (*domain.ExpenseStats, error)
}

// AuditRepository stores the mutation trail.
type AuditRepository interface {
	Record(ctx context.Context, event domain.AuditEvent) error
	List(ctx context.Context, tenantID int64, filter domain.AuditFilter, page domain.Page) ([]domain.AuditEvent, int64, error)
}

// IdempotencyStore guards sale creation against client retries.
//
// Claim returns claimed=true when the caller owns the key and must create the
// sale. Otherwise saleID is the sale a previous request created, or 0 while
// that request is still in flight.
type IdempotencyStore interface {
	Claim(ctx context.Context, key string) (saleID int64, claimed bool, err error)
	Complete(ctx context.Context, key string, saleID int64) error
	Release(ctx context.Context, key string) error
}
