package service

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/laritechfarms/farms-api/internal/core/domain"
)

type stubEmployeeRepo struct {
	*stubStore[domain.Employee, domain.EmployeeFilter]
	dependents int64
}

func (r *stubEmployeeRepo) Positions(context.Context, int64) ([]domain.GroupTotal, error) {
	return nil, nil
}

func (r *stubEmployeeRepo) CountDependents(context.Context, int64, int64) (int64, error) {
	return r.dependents, nil
}

type stubAttendanceRepo struct {
	*stubStore[domain.Attendance, domain.AttendanceFilter]
	days map[string]bool
}

func (r *stubAttendanceRepo) ExistsForDay(_ context.Context, _ int64, employeeID int64, day domain.Date) (bool, error) {
	return r.days[attendanceKey(employeeID, day)], nil
}

func (r *stubAttendanceRepo) Stats(context.Context, int64, domain.DateRange) (*domain.AttendanceStats, error) {
	return &domain.AttendanceStats{}, nil
}

func attendanceKey(employeeID int64, day domain.Date) string {
	return day.String() + "/" + strconv.FormatInt(employeeID, 10)
}

func newEmployees(ids ...int64) *stubEmployeeRepo {
	known := make(map[int64]bool, len(ids))
	for _, id := range ids {
		known[id] = true
	}
	return &stubEmployeeRepo{stubStore: &stubStore[domain.Employee, domain.EmployeeFilter]{
		find: func(tenantID, id int64) (*domain.Employee, error) {
			if tenantID != 7 || !known[id] {
				return nil, domain.NotFound("empleado")
			}
			return &domain.Employee{ID: id, TenantID: tenantID}, nil
		},
	}}
}

func TestAttendanceCreate(t *testing.T) {
	attendance := &stubAttendanceRepo{stubStore: &stubStore[domain.Attendance, domain.AttendanceFilter]{}}
	svc := NewAttendanceService(attendance, newEmployees(2), zerolog.Nop())

	day := domain.NewDate(time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC))
	got, err := svc.Create(context.Background(), staffCaller, &domain.Attendance{EmployeeID: 2, Date: day, CheckIn: "07:30"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if got.Status != domain.AttendancePresent {
		t.Fatalf("estado = %q, want %q", got.Status, domain.AttendancePresent)
	}
	if got.RecordedBy != staffCaller.UserID || got.TenantID != staffCaller.TenantID {
		t.Fatalf("Create() = %+v, want recorded by user 3 in tenant 7", got)
	}
}

func TestAttendanceCreateDuplicateDay(t *testing.T) {
	day := domain.NewDate(time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC))
	attendance := &stubAttendanceRepo{
		stubStore: &stubStore[domain.Attendance, domain.AttendanceFilter]{},
		days:      map[string]bool{attendanceKey(2, day): true},
	}
	svc := NewAttendanceService(attendance, newEmployees(2), zerolog.Nop())

	_, err := svc.Create(context.Background(), staffCaller, &domain.Attendance{EmployeeID: 2, Date: day, CheckIn: "07:30"})
	var conflict *domain.ConflictError
	if !errors.As(err, &conflict) || conflict.Kind != domain.DuplicateKey {
		t.Fatalf("Create() error = %v, want duplicate conflict", err)
	}
	if len(attendance.created) != 0 {
		t.Fatal("duplicate attendance reached the store")
	}
}

func TestAttendanceCreateRejects(t *testing.T) {
	day := domain.NewDate(time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC))
	late := "25:00"

	tests := []struct {
		name     string
		in       domain.Attendance
		notFound bool
	}{
		{"bad estado", domain.Attendance{EmployeeID: 2, Date: day, CheckIn: "08:00", Status: "Vacaciones"}, false},
		{"bad hora_entrada", domain.Attendance{EmployeeID: 2, Date: day, CheckIn: "8am"}, false},
		{"bad hora_salida", domain.Attendance{EmployeeID: 2, Date: day, CheckIn: "08:00", CheckOut: &late}, false},
		{"unknown empleado", domain.Attendance{EmployeeID: 9, Date: day, CheckIn: "08:00"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attendance := &stubAttendanceRepo{stubStore: &stubStore[domain.Attendance, domain.AttendanceFilter]{}}
			svc := NewAttendanceService(attendance, newEmployees(2), zerolog.Nop())

			in := tt.in
			_, err := svc.Create(context.Background(), staffCaller, &in)
			if tt.notFound {
				if !domain.IsNotFound(err) {
					t.Fatalf("Create() error = %v, want not found", err)
				}
				return
			}
			var verr *domain.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Create() error = %v, want ValidationError", err)
			}
		})
	}
}

func TestEmployeeDeleteBlockedByDependents(t *testing.T) {
	employees := newEmployees(2)
	employees.dependents = 2
	svc := NewEmployeeService(employees, zerolog.Nop())

	err := svc.Delete(context.Background(), staffCaller, 2)
	var conflict *domain.ConflictError
	if !errors.As(err, &conflict) || conflict.Kind != domain.HasDependents {
		t.Fatalf("Delete() error = %v, want dependents conflict", err)
	}
}

func TestEmployeeCreateRejectsNegativeSalary(t *testing.T) {
	svc := NewEmployeeService(newEmployees(), zerolog.Nop())

	_, err := svc.Create(context.Background(), staffCaller, &domain.Employee{FirstName: "Luis", LastName: "Mora", Position: "Galponero", Salary: -5})
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Create() error = %v, want ValidationError", err)
	}
}
