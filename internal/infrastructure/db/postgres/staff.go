package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/laritechfarms/farms-api/internal/core/domain"
)

func employeeScope(f domain.EmployeeFilter) scope {
	return all(
		equalsBool("empleado.activo", f.Active),
		equals("empleado.puesto", f.Position),
		search(f.Search, "empleado.nombre", "empleado.apellido"),
	)
}

// EmployeeRepository implements ports.EmployeeRepository.
type EmployeeRepository struct {
	*store[domain.Employee, domain.EmployeeFilter]
}

func NewEmployeeRepository(db *gorm.DB) *EmployeeRepository {
	s := newStore[domain.Employee](db, "empleado", "id_empleado", "empleado.apellido ASC, empleado.nombre ASC", employeeScope)
	s.listing = func(q *gorm.DB, _ int64) *gorm.DB {
		return q.Select(`empleado.*,
			(SELECT COUNT(*) FROM prestamo_empleado p WHERE p.id_empleado = empleado.id_empleado AND p.id_tenant = empleado.id_tenant) AS total_prestamos,
			(SELECT COUNT(*) FROM asistencia a WHERE a.id_empleado = empleado.id_empleado AND a.id_tenant = empleado.id_tenant) AS total_asistencias`)
	}
	s.detail = func(q *gorm.DB, tenantID int64) *gorm.DB {
		return q.
			Preload("Loans", func(db *gorm.DB) *gorm.DB {
				return db.Where("id_tenant = ?", tenantID).Order("fecha DESC").Limit(10)
			}).
			Preload("Attendance", func(db *gorm.DB) *gorm.DB {
				return db.Where("id_tenant = ?", tenantID).Order("fecha DESC").Limit(30)
			})
	}
	return &EmployeeRepository{store: s}
}

func (r *EmployeeRepository) Positions(ctx context.Context, tenantID int64) ([]domain.GroupTotal, error) {
	out, err := groupTotals(r.scoped(ctx, tenantID), "empleado.puesto", "empleado.salario", "clave ASC", 0)
	if err != nil {
		return nil, fmt.Errorf("employee positions: %w", err)
	}
	return out, nil
}

func (r *EmployeeRepository) CountDependents(ctx context.Context, tenantID, employeeID int64) (int64, error) {
	loans, err := count[domain.Loan](ctx, r.db, tenantID, "id_empleado = ?", employeeID)
	if err != nil {
		return 0, err
	}
	attendance, err := count[domain.Attendance](ctx, r.db, tenantID, "id_empleado = ?", employeeID)
	if err != nil {
		return 0, err
	}
	return loans + attendance, nil
}

func attendanceScope(f domain.AttendanceFilter) scope {
	return all(
		equalsID("asistencia.id_empleado", f.EmployeeID),
		equals("asistencia.estado", f.Status),
		dateRange("asistencia.fecha", f.Range),
	)
}

// AttendanceRepository implements ports.AttendanceRepository.
type AttendanceRepository struct {
	*store[domain.Attendance, domain.AttendanceFilter]
}

func NewAttendanceRepository(db *gorm.DB) *AttendanceRepository {
	s := newStore[domain.Attendance](db, "asistencia", "id_asistencia", "asistencia.fecha DESC, asistencia.id_asistencia DESC", attendanceScope)
	withEmployee := func(q *gorm.DB, _ int64) *gorm.DB { return q.Preload("Employee") }
	s.listing = withEmployee
	s.detail = withEmployee
	return &AttendanceRepository{store: s}
}

func (r *AttendanceRepository) ExistsForDay(ctx context.Context, tenantID, employeeID int64, day domain.Date) (bool, error) {
	n, err := count[domain.Attendance](ctx, r.db, tenantID, "id_empleado = ? AND fecha = ?", employeeID, day.Time)
	return n > 0, err
}

func (r *AttendanceRepository) Stats(ctx context.Context, tenantID int64, rng domain.DateRange) (*domain.AttendanceStats, error) {
	base := func() *gorm.DB {
		return r.scoped(ctx, tenantID).Scopes(dateRange("asistencia.fecha", rng))
	}

	stats := &domain.AttendanceStats{}
	if err := base().Count(&stats.Total).Error; err != nil {
		return nil, fmt.Errorf("attendance total: %w", err)
	}
	var err error
	if stats.ByStatus, err = groupTotals(base(), "asistencia.estado", "0", "cantidad DESC", 0); err != nil {
		return nil, fmt.Errorf("attendance by status: %w", err)
	}
	if stats.ByEmployee, err = groupTotals(base(), "asistencia.id_empleado", "0", "cantidad DESC", 10); err != nil {
		return nil, fmt.Errorf("attendance by employee: %w", err)
	}
	return stats, nil
}

func loanScope(f domain.LoanFilter) scope {
	return all(
		equalsID("prestamo_empleado.id_empleado", f.EmployeeID),
		equals("prestamo_empleado.estado", f.Status),
		dateRange("prestamo_empleado.fecha", f.Range),
	)
}

// LoanRepository implements ports.LoanRepository.
type LoanRepository struct {
	*store[domain.Loan, domain.LoanFilter]
}

func NewLoanRepository(db *gorm.DB) *LoanRepository {
	s := newStore[domain.Loan](db, "prestamo", "id_prestamo", "prestamo_empleado.fecha DESC, prestamo_empleado.id_prestamo DESC", loanScope)
	withEmployee := func(q *gorm.DB, _ int64) *gorm.DB { return q.Preload("Employee") }
	s.listing = withEmployee
	s.detail = withEmployee
	return &LoanRepository{store: s}
}

func (r *LoanRepository) Stats(ctx context.Context, tenantID int64, rng domain.DateRange) (*domain.LoanStats, error) {
	base := func() *gorm.DB {
		return r.scoped(ctx, tenantID).Scopes(dateRange("prestamo_empleado.fecha", rng))
	}

	sum, err := summarize(base(), "prestamo_empleado.monto")
	if err != nil {
		return nil, fmt.Errorf("loan summary: %w", err)
	}
	stats := &domain.LoanStats{Summary: sum}
	if stats.ByStatus, err = groupTotals(base(), "prestamo_empleado.estado", "prestamo_empleado.monto", "total DESC", 0); err != nil {
		return nil, fmt.Errorf("loans by status: %w", err)
	}
	if stats.ByEmployee, err = groupTotals(base(), "prestamo_empleado.id_empleado", "prestamo_empleado.monto", "total DESC", 10); err != nil {
		return nil, fmt.Errorf("loans by employee: %w", err)
	}
	return stats, nil
}
