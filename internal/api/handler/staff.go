package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/laritechfarms/farms-api/internal/api/middleware"
	"github.com/laritechfarms/farms-api/internal/core/domain"
	"github.com/laritechfarms/farms-api/internal/core/ports"
)

type EmployeeHandler struct {
	resource[domain.Employee, domain.EmployeeFilter, domain.EmployeePatch]
	employees  ports.EmployeeService
	attendance ports.AttendanceService
}

func NewEmployeeHandler(svc ports.EmployeeService, attendance ports.AttendanceService) *EmployeeHandler {
	return &EmployeeHandler{
		resource: resource[domain.Employee, domain.EmployeeFilter, domain.EmployeePatch]{
			svc:      svc,
			entity:   "empleado",
			required: []string{"nombre", "apellido", "puesto", "salario", "fecha_contratacion"},
			fresh:    func() *domain.Employee { return &domain.Employee{Active: true} },
			idOf:     func(e *domain.Employee) int64 { return e.ID },
			filter: func(c echo.Context) (domain.EmployeeFilter, error) {
				q := newQuery(c)
				f := domain.EmployeeFilter{Active: q.flag("activo"), Position: q.str("puesto"), Search: q.str("search")}
				return f, q.err
			},
		},
		employees:  svc,
		attendance: attendance,
	}
}

// Positions handles GET /empleados/puestos.
func (h *EmployeeHandler) Positions(c echo.Context) error {
	return read(h.employees.Positions)(c)
}

// RecordAttendance handles POST /empleados/:id/asistencia.
//
// @Summary      Record attendance for an employee
// @Tags         empleados
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                true  "Employee id"
// @Param        body  body      domain.Attendance  true  "Attendance"
// @Success      201   {object}  domain.Attendance
// @Failure      400   {object}  map[string]any
// @Failure      404   {object}  map[string]any
// @Failure      409   {object}  map[string]any
// @Router       /empleados/{id}/asistencia [post]
func (h *EmployeeHandler) RecordAttendance(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var rec domain.Attendance
	if err := decodeCreate(c, &rec, "fecha", "hora_entrada"); err != nil {
		return err
	}
	rec.EmployeeID = id

	out, err := h.attendance.Create(c.Request().Context(), caller, &rec)
	if err != nil {
		return err
	}
	middleware.SetAuditEntityID(c, strconv.FormatInt(out.ID, 10))
	return respond(c, http.StatusCreated, out, "asistencia created")
}

type AttendanceHandler struct {
	resource[domain.Attendance, domain.AttendanceFilter, domain.AttendancePatch]
	attendance ports.AttendanceService
}

func NewAttendanceHandler(svc ports.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{
		resource: resource[domain.Attendance, domain.AttendanceFilter, domain.AttendancePatch]{
			svc:      svc,
			entity:   "asistencia",
			required: []string{"id_empleado", "fecha", "hora_entrada"},
			idOf:     func(a *domain.Attendance) int64 { return a.ID },
			filter: func(c echo.Context) (domain.AttendanceFilter, error) {
				q := newQuery(c)
				f := domain.AttendanceFilter{EmployeeID: q.id("id_empleado"), Status: q.str("estado"), Range: q.dates()}
				return f, q.err
			},
		},
		attendance: svc,
	}
}

// Stats handles GET /asistencias/stats.
func (h *AttendanceHandler) Stats(c echo.Context) error {
	return rangeStats(h.attendance.Stats)(c)
}

type LoanHandler struct {
	resource[domain.Loan, domain.LoanFilter, domain.LoanPatch]
	loans ports.LoanService
}

func NewLoanHandler(svc ports.LoanService) *LoanHandler {
	return &LoanHandler{
		resource: resource[domain.Loan, domain.LoanFilter, domain.LoanPatch]{
			svc:      svc,
			entity:   "prestamo",
			required: []string{"id_empleado", "fecha", "monto"},
			idOf:     func(l *domain.Loan) int64 { return l.ID },
			filter: func(c echo.Context) (domain.LoanFilter, error) {
				q := newQuery(c)
				f := domain.LoanFilter{EmployeeID: q.id("id_empleado"), Status: q.str("estado"), Range: q.dates()}
				return f, q.err
			},
		},
		loans: svc,
	}
}

// Stats handles GET /prestamos-empleados/stats.
func (h *LoanHandler) Stats(c echo.Context) error {
	return rangeStats(h.loans.Stats)(c)
}
