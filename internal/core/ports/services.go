package ports

import (
	"context"

	"github.com/laritechfarms/farms-api/internal/core/domain"
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (*domain.Session, error)
	Authenticate(ctx context.Context, token string) (domain.Identity, error)
	Profile(ctx context.Context, caller domain.Identity) (*domain.Profile, error)
	ChangePassword(ctx context.Context, caller domain.Identity, current, next string) error
	CreateUser(ctx context.Context, caller domain.Identity, user *domain.User, password string) (*domain.User, error)
}

// RecordService is the CRUD surface every farm record exposes.
type RecordService[T any, F any, P any] interface {
	List(ctx context.Context, caller domain.Identity, filter F, page domain.Page) (*domain.PageResult[T], error)
	Get(ctx context.Context, caller domain.Identity, id int64) (*T, error)
	Create(ctx context.Context, caller domain.Identity, record *T) (*T, error)
	Update(ctx context.Context, caller domain.Identity, id int64, patch P) (*T, error)
	Delete(ctx context.Context, caller domain.Identity, id int64) error
}

type BatchService interface {
	RecordService[domain.Batch, domain.BatchFilter, domain.BatchPatch]
}

type BirdService interface {
	RecordService[domain.Bird, domain.BirdFilter, domain.BirdPatch]
	Stats(ctx context.Context, caller domain.Identity, r domain.DateRange) (*domain.BirdStats, error)
}

type ProductService interface {
	RecordService[domain.Product, domain.ProductFilter, domain.ProductPatch]
	Categories(ctx context.Context, caller domain.Identity) ([]domain.GroupTotal, error)
	AdjustStock(ctx context.Context, caller domain.Identity, id int64, change domain.StockChange) (*domain.Product, error)
}

type ClientService interface {
	RecordService[domain.Client, domain.ClientFilter, domain.ClientPatch]
}

// SaleService creates sales atomically. Create reports replayed=true when an
// idempotency key matched an earlier sale.
type SaleService interface {
	List(ctx context.Context, caller domain.Identity, filter domain.SaleFilter, page domain.Page) (*domain.PageResult[domain.Sale], error)
	Get(ctx context.Context, caller domain.Identity, id int64) (*domain.Sale, error)
	Create(ctx context.Context, caller domain.Identity, sale *domain.Sale, idempotencyKey string) (created *domain.Sale, replayed bool, err error)
	UpdateStatus(ctx context.Context, caller domain.Identity, id int64, status string) (*domain.Sale, error)
	Stats(ctx context.Context, caller domain.Identity, r domain.DateRange) (*domain.SaleStats, error)
	ClientSales(ctx context.Context, caller domain.Identity, clientID int64, page domain.Page) (*domain.PageResult[domain.Sale], error)
}

type EmployeeService interface {
	RecordService[domain.Employee, domain.EmployeeFilter, domain.EmployeePatch]
	Positions(ctx context.Context, caller domain.Identity) ([]domain.GroupTotal, error)
}

type AttendanceService interface {
	RecordService[domain.Attendance, domain.AttendanceFilter, domain.AttendancePatch]
	Stats(ctx context.Context, caller domain.Identity, r domain.DateRange) (*domain.AttendanceStats, error)
}

type LoanService interface {
	RecordService[domain.Loan, domain.LoanFilter, domain.LoanPatch]
	Stats(ctx context.Context, caller domain.Identity, r domain.DateRange) (*domain.LoanStats, error)
}

type InventoryService interface {
	RecordService[domain.InventoryItem, domain.InventoryFilter, domain.InventoryPatch]
	Categories(ctx context.Context, caller domain.Identity) ([]domain.GroupTotal, error)
	Alerts(ctx context.Context, caller domain.Identity) ([]domain.InventoryItem, error)
	AdjustStock(ctx context.Context, caller domain.Identity, id int64, change domain.StockChange) (*domain.InventoryItem, error)
}

type VehicleService interface {
	RecordService[domain.Vehicle, domain.VehicleFilter, domain.VehiclePatch]
	Stats(ctx context.Context, caller domain.Identity, r domain.DateRange) (*domain.VehicleStats, error)
}

type HealthService interface {
	RecordService[domain.HealthRecord, domain.RecordFilter, domain.HealthPatch]
	Stats(ctx context.Context, caller domain.Identity, r domain.DateRange) (*domain.HealthStats, error)
}

type MortalityService interface {
	RecordService[domain.MortalityRecord, domain.RecordFilter, domain.MortalityPatch]
	Stats(ctx context.Context, caller domain.Identity, r domain.DateRange) (*domain.MortalityStats, error)
}

type EggService interface {
	RecordService[domain.EggRecord, domain.RecordFilter, domain.EggPatch]
	Stats(ctx context.Context, caller domain.Identity, r domain.DateRange) (*domain.EggStats, error)
}

type ExpenseService interface {
	RecordService[domain.Expense, domain.ExpenseFilter, domain.ExpensePatch]
	Stats(ctx context.Context, caller domain.Identity, r domain.DateRange) (*domain.ExpenseStats, error)
}

type AuditService interface {
	Record(ctx context.Context, event domain.AuditEvent)
	List(ctx context.Context, caller domain.Identity, filter domain.AuditFilter, page domain.Page) (*domain.PageResult[domain.AuditEvent], error)
}
