package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/laritechfarms/farms-api/internal/core/domain"
	"github.com/laritechfarms/farms-api/internal/core/ports"
)

// EmployeeService manages employees.
type EmployeeService struct {
	records[domain.Employee, domain.EmployeeFilter, domain.EmployeePatch]
	employees ports.EmployeeRepository
}

// NewEmployeeService creates an EmployeeService.
func NewEmployeeService(employees ports.EmployeeRepository, log zerolog.Logger) *EmployeeService {
	s := &EmployeeService{employees: employees}
	s.records = records[domain.Employee, domain.EmployeeFilter, domain.EmployeePatch]{
		store:       employees,
		log:         log,
		entity:      "empleado",
		prepare:     s.prepare,
		guardDelete: s.guardDelete,
	}
	return s
}

func (s *EmployeeService) prepare(_ context.Context, caller domain.Identity, e *domain.Employee) error {
	e.ID = 0
	e.TenantID = caller.TenantID
	e.Loans = nil
	e.Attendance = nil
	if e.Salary < 0 {
		return domain.Invalid("salario must not be negative")
	}
	return nil
}

func (s *EmployeeService) guardDelete(ctx context.Context, caller domain.Identity, id int64) error {
	n, err := s.employees.CountDependents(ctx, caller.TenantID, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return domain.Dependents("cannot delete empleado: it has %d attendance or loan records", n)
	}
	return nil
}

func (s *EmployeeService) Positions(ctx context.Context, caller domain.Identity) ([]domain.GroupTotal, error) {
	return s.employees.Positions(ctx, caller.TenantID)
}

// AttendanceService records one attendance entry per employee and day.
type AttendanceService struct {
	records[domain.Attendance, domain.AttendanceFilter, domain.AttendancePatch]
	attendance ports.AttendanceRepository
	employees  ports.EmployeeRepository
}

// NewAttendanceService creates an AttendanceService.
func NewAttendanceService(attendance ports.AttendanceRepository, employees ports.EmployeeRepository, log zerolog.Logger) *AttendanceService {
	s := &AttendanceService{attendance: attendance, employees: employees}
	s.records = records[domain.Attendance, domain.AttendanceFilter, domain.AttendancePatch]{
		store:        attendance,
		log:          log,
		entity:       "asistencia",
		prepare:      s.prepare,
		checkChanges: s.checkChanges,
	}
	return s
}

func (s *AttendanceService) prepare(ctx context.Context, caller domain.Identity, a *domain.Attendance) error {
	a.ID = 0
	a.TenantID = caller.TenantID
	a.RecordedBy = caller.UserID
	a.Employee = nil
	if a.Status == "" {
		a.Status = domain.AttendancePresent
	}
	if !validAttendanceStatus(a.Status) {
		return domain.Invalid("invalid estado %q", a.Status)
	}
	if err := validClock("hora_entrada", a.CheckIn); err != nil {
		return err
	}
	if a.CheckOut != nil {
		if err := validClock("hora_salida", *a.CheckOut); err != nil {
			return err
		}
	}
	if _, err := s.employees.FindByID(ctx, caller.TenantID, a.EmployeeID); err != nil {
		return err
	}
	dup, err := s.attendance.ExistsForDay(ctx, caller.TenantID, a.EmployeeID, a.Date)
	if err != nil {
		return err
	}
	if dup {
		return domain.Duplicate("attendance already recorded for empleado %d on %s", a.EmployeeID, a.Date)
	}
	return nil
}

func (s *AttendanceService) checkChanges(_ context.Context, _ domain.Identity, _ int64, changes domain.Changes) error {
	if v, ok := changes["estado"].(string); ok && !validAttendanceStatus(v) {
		return domain.Invalid("invalid estado %q", v)
	}
	for _, col := range []string{"hora_entrada", "hora_salida"} {
		if v, ok := changes[col].(string); ok {
			if err := validClock(col, v); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *AttendanceService) Stats(ctx context.Context, caller domain.Identity, r domain.DateRange) (*domain.AttendanceStats, error) {
	return s.attendance.Stats(ctx, caller.TenantID, r)
}

func validAttendanceStatus(s string) bool {
	switch s {
	case domain.AttendancePresent, domain.AttendanceLate, domain.AttendanceAbsent, domain.AttendanceJustified:
		return true
	}
	return false
}

// validClock accepts HH:MM or HH:MM:SS.
func validClock(field, v string) error {
	if _, err := time.Parse("15:04", v); err == nil {
		return nil
	}
	if _, err := time.Parse("15:04:05", v); err == nil {
		return nil
	}
	return domain.Invalid("%s must be HH:MM", field)
}

// LoanService manages employee loans.
type LoanService struct {
	records[domain.Loan, domain.LoanFilter, domain.LoanPatch]
	loans     ports.LoanRepository
	employees ports.EmployeeRepository
}

// NewLoanService creates a LoanService.
func NewLoanService(loans ports.LoanRepository, employees ports.EmployeeRepository, log zerolog.Logger) *LoanService {
	s := &LoanService{loans: loans, employees: employees}
	s.records = records[domain.Loan, domain.LoanFilter, domain.LoanPatch]{
		store:        loans,
		log:          log,
		entity:       "prestamo",
		prepare:      s.prepare,
		checkChanges: s.checkChanges,
	}
	return s
}

func (s *LoanService) prepare(ctx context.Context, caller domain.Identity, l *domain.Loan) error {
	l.ID = 0
	l.TenantID = caller.TenantID
	l.UserID = caller.UserID
	l.Employee = nil
	if l.Status == "" {
		l.Status = domain.LoanPending
	}
	if l.Amount <= 0 {
		return domain.Invalid("monto must be greater than zero")
	}
	if _, err := s.employees.FindByID(ctx, caller.TenantID, l.EmployeeID); err != nil {
		return err
	}
	return nil
}

func (s *LoanService) checkChanges(_ context.Context, _ domain.Identity, _ int64, changes domain.Changes) error {
	if v, ok := changes["monto"].(float64); ok && v <= 0 {
		return domain.Invalid("monto must be greater than zero")
	}
	if v, ok := changes["estado"].(string); ok {
		switch v {
		case domain.LoanPending, domain.LoanPaid, domain.LoanCancelled:
		default:
			return domain.Invalid("invalid estado %q", v)
		}
	}
	return nil
}

func (s *LoanService) Stats(ctx context.Context, caller domain.Identity, r domain.DateRange) (*domain.LoanStats, error) {
	return s.loans.Stats(ctx, caller.TenantID, r)
}
