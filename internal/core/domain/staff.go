package domain

const (
	AttendancePresent   = "Presente"
	AttendanceLate      = "Tardanza"
	AttendanceAbsent    = "Ausente"
	AttendanceJustified = "Justificado"

	LoanPending   = "Pendiente"
	LoanPaid      = "Pagado"
	LoanCancelled = "Cancelado"
)

// Employee (empleado) of the farm.
type Employee struct {
	ID        int64   `json:"id_empleado" gorm:"column:id_empleado;primaryKey"`
	TenantID  int64   `json:"id_tenant" gorm:"column:id_tenant;not null;index"`
	FirstName string  `json:"nombre" gorm:"column:nombre;type:varchar(100);not null"`
	LastName  string  `json:"apellido" gorm:"column:apellido;type:varchar(100);not null"`
	Position  string  `json:"puesto" gorm:"column:puesto;type:varchar(100);not null"`
	Salary    float64 `json:"salario" gorm:"column:salario;type:numeric(12,2);not null"`
	HireDate  Date    `json:"fecha_contratacion" gorm:"column:fecha_contratacion;type:date;not null"`
	Phone     *string `json:"telefono" gorm:"column:telefono;type:varchar(30)"`
	Email     *string `json:"correo" gorm:"column:correo;type:varchar(150)"`
	Active    bool    `json:"activo" gorm:"column:activo;not null"`

	LoanCount       int64        `json:"total_prestamos" gorm:"column:total_prestamos;->;-:migration"`
	AttendanceCount int64        `json:"total_asistencias" gorm:"column:total_asistencias;->;-:migration"`
	Loans           []Loan       `json:"prestamos,omitempty" gorm:"foreignKey:EmployeeID;references:ID"`
	Attendance      []Attendance `json:"asistencias,omitempty" gorm:"foreignKey:EmployeeID;references:ID"`
}

func (Employee) TableName() string { return "empleado" }

type EmployeeFilter struct {
	Active   *bool
	Position string
	Search   string
}

type EmployeePatch struct {
	FirstName Optional[string]  `json:"nombre"`
	LastName  Optional[string]  `json:"apellido"`
	Position  Optional[string]  `json:"puesto"`
	Salary    Optional[float64] `json:"salario"`
	HireDate  Optional[Date]    `json:"fecha_contratacion"`
	Active    Optional[bool]    `json:"activo"`
	Phone     Optional[string]  `json:"telefono"`
	Email     Optional[string]  `json:"correo"`
}

func (p EmployeePatch) Changes() (Changes, error) {
	b := newPatch()
	required(b, "nombre", p.FirstName)
	required(b, "apellido", p.LastName)
	required(b, "puesto", p.Position)
	required(b, "salario", p.Salary)
	required(b, "fecha_contratacion", p.HireDate)
	required(b, "activo", p.Active)
	nullable(b, "telefono", p.Phone)
	nullable(b, "correo", p.Email)
	return b.result()
}

// Attendance (asistencia) is one employee's check-in for a day.
type Attendance struct {
	ID         int64   `json:"id_asistencia" gorm:"column:id_asistencia;primaryKey"`
	TenantID   int64   `json:"id_tenant" gorm:"column:id_tenant;not null;uniqueIndex:ux_asistencia_dia,priority:1"`
	EmployeeID int64   `json:"id_empleado" gorm:"column:id_empleado;not null;uniqueIndex:ux_asistencia_dia,priority:2"`
	Date       Date    `json:"fecha" gorm:"column:fecha;type:date;not null;uniqueIndex:ux_asistencia_dia,priority:3"`
	CheckIn    string  `json:"hora_entrada" gorm:"column:hora_entrada;type:varchar(8);not null"`
	CheckOut   *string `json:"hora_salida" gorm:"column:hora_salida;type:varchar(8)"`
	Status     string  `json:"estado" gorm:"column:estado;type:varchar(20);not null;default:Presente"`
	Notes      *string `json:"observaciones" gorm:"column:observaciones;type:text"`
	RecordedBy int64   `json:"id_usuario_registro" gorm:"column:id_usuario_registro;not null"`

	Employee *Employee `json:"empleado,omitempty" gorm:"foreignKey:EmployeeID;references:ID"`
}

func (Attendance) TableName() string { return "asistencia" }

type AttendanceFilter struct {
	EmployeeID *int64
	Status     string
	Range      DateRange
}

type AttendancePatch struct {
	CheckIn  Optional[string] `json:"hora_entrada"`
	CheckOut Optional[string] `json:"hora_salida"`
	Status   Optional[string] `json:"estado"`
	Notes    Optional[string] `json:"observaciones"`
}

func (p AttendancePatch) Changes() (Changes, error) {
	b := newPatch()
	required(b, "hora_entrada", p.CheckIn)
	nullable(b, "hora_salida", p.CheckOut)
	required(b, "estado", p.Status)
	nullable(b, "observaciones", p.Notes)
	return b.result()
}

type AttendanceStats struct {
	Total      int64        `json:"totalRegistros"`
	ByStatus   []GroupTotal `json:"porEstado"`
	ByEmployee []GroupTotal `json:"porEmpleado"`
}

// Loan (prestamo_empleado) is an advance paid to an employee.
type Loan struct {
	ID           int64   `json:"id_prestamo" gorm:"column:id_prestamo;primaryKey"`
	TenantID     int64   `json:"id_tenant" gorm:"column:id_tenant;not null;index"`
	EmployeeID   int64   `json:"id_empleado" gorm:"column:id_empleado;not null;index"`
	Date         Date    `json:"fecha" gorm:"column:fecha;type:date;not null"`
	Amount       float64 `json:"monto" gorm:"column:monto;type:numeric(12,2);not null"`
	Description  *string `json:"descripcion" gorm:"column:descripcion;type:text"`
	Status       string  `json:"estado" gorm:"column:estado;type:varchar(20);not null;default:Pendiente"`
	Installments *int    `json:"cuotas" gorm:"column:cuotas"`
	UserID       int64   `json:"id_usuario" gorm:"column:id_usuario;not null"`

	Employee *Employee `json:"empleado,omitempty" gorm:"foreignKey:EmployeeID;references:ID"`
}

func (Loan) TableName() string { return "prestamo_empleado" }

type LoanFilter struct {
	EmployeeID *int64
	Status     string
	Range      DateRange
}

type LoanPatch struct {
	Date         Optional[Date]    `json:"fecha"`
	Amount       Optional[float64] `json:"monto"`
	Description  Optional[string]  `json:"descripcion"`
	Status       Optional[string]  `json:"estado"`
	Installments Optional[int]     `json:"cuotas"`
}

func (p LoanPatch) Changes() (Changes, error) {
	b := newPatch()
	required(b, "fecha", p.Date)
	required(b, "monto", p.Amount)
	nullable(b, "descripcion", p.Description)
	required(b, "estado", p.Status)
	nullable(b, "cuotas", p.Installments)
	return b.result()
}

type LoanStats struct {
	Summary
	ByStatus   []GroupTotal `json:"porEstado"`
	ByEmployee []GroupTotal `json:"porEmpleado"`
}
