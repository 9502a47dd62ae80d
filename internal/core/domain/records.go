package domain

const (
	EggExcellent = "Excelente"
	EggGood      = "Buena"
	EggFair      = "Regular"
	EggPoor      = "Mala"
)

// ValidEggQuality reports whether q is a known egg grade.
func ValidEggQuality(q string) bool {
	switch q {
	case EggExcellent, EggGood, EggFair, EggPoor:
		return true
	}
	return false
}

// HealthRecord (salud_ave) is a treatment applied to a bird.
type HealthRecord struct {
	ID              int64    `json:"id_salud" gorm:"column:id_salud;primaryKey"`
	TenantID        int64    `json:"id_tenant" gorm:"column:id_tenant;not null;index"`
	BirdID          int64    `json:"id_ave" gorm:"column:id_ave;not null;index"`
	Date            Date     `json:"fecha" gorm:"column:fecha;type:date;not null"`
	TreatmentType   *string  `json:"tipo_tratamiento" gorm:"column:tipo_tratamiento;type:varchar(100)"`
	Measures        *string  `json:"medidas" gorm:"column:medidas;type:text"`
	Quantity        *float64 `json:"cantidad" gorm:"column:cantidad;type:numeric(10,2)"`
	Description     *string  `json:"descripcion" gorm:"column:descripcion;type:text"`
	Cost            *float64 `json:"costo" gorm:"column:costo;type:numeric(12,2)"`
	ProductsApplied *string  `json:"aplicacion_productos" gorm:"column:aplicacion_productos;type:text"`
	UserID          int64    `json:"id_usuario" gorm:"column:id_usuario;not null"`
}

func (HealthRecord) TableName() string { return "salud_ave" }

type HealthPatch struct {
	Date            Optional[Date]    `json:"fecha"`
	TreatmentType   Optional[string]  `json:"tipo_tratamiento"`
	Measures        Optional[string]  `json:"medidas"`
	Quantity        Optional[float64] `json:"cantidad"`
	Description     Optional[string]  `json:"descripcion"`
	Cost            Optional[float64] `json:"costo"`
	ProductsApplied Optional[string]  `json:"aplicacion_productos"`
}

func (p HealthPatch) Changes() (Changes, error) {
	b := newPatch()
	required(b, "fecha", p.Date)
	nullable(b, "tipo_tratamiento", p.TreatmentType)
	nullable(b, "medidas", p.Measures)
	nullable(b, "cantidad", p.Quantity)
	nullable(b, "descripcion", p.Description)
	nullable(b, "costo", p.Cost)
	nullable(b, "aplicacion_productos", p.ProductsApplied)
	return b.result()
}

type HealthStats struct {
	Total       int64        `json:"totalTratamientos"`
	ByTreatment []GroupTotal `json:"porTipoTratamiento"`
	TotalCost   float64      `json:"costoTotal"`
}

// MortalityRecord (control_muertes) counts deaths for a day.
type MortalityRecord struct {
	ID               int64   `json:"id_control_muertes" gorm:"column:id_control_muertes;primaryKey"`
	TenantID         int64   `json:"id_tenant" gorm:"column:id_tenant;not null;index"`
	BirdID           *int64  `json:"id_ave" gorm:"column:id_ave;index"`
	Date             Date    `json:"fecha" gorm:"column:fecha;type:date;not null"`
	Deaths           int     `json:"cantidad_muertes" gorm:"column:cantidad_muertes;not null"`
	MainCause        *string `json:"causa_principal" gorm:"column:causa_principal;type:varchar(150)"`
	CorrectiveAction *string `json:"accion_correctiva" gorm:"column:accion_correctiva;type:text"`
	UserID           int64   `json:"id_usuario" gorm:"column:id_usuario;not null"`
}

func (MortalityRecord) TableName() string { return "control_muertes" }

type MortalityPatch struct {
	BirdID           Optional[int64]  `json:"id_ave"`
	Date             Optional[Date]   `json:"fecha"`
	Deaths           Optional[int]    `json:"cantidad_muertes"`
	MainCause        Optional[string] `json:"causa_principal"`
	CorrectiveAction Optional[string] `json:"accion_correctiva"`
}

func (p MortalityPatch) Changes() (Changes, error) {
	b := newPatch()
	nullable(b, "id_ave", p.BirdID)
	required(b, "fecha", p.Date)
	required(b, "cantidad_muertes", p.Deaths)
	nullable(b, "causa_principal", p.MainCause)
	nullable(b, "accion_correctiva", p.CorrectiveAction)
	return b.result()
}

type MortalityStats struct {
	Total   int64        `json:"totalRegistros"`
	Deaths  int64        `json:"totalMuertes"`
	ByCause []GroupTotal `json:"porCausa"`
	ByDay   []GroupTotal `json:"porDia"`
}

// EggRecord (control_huevos) is a day's egg collection.
type EggRecord struct {
	ID       int64   `json:"id_control_huevos" gorm:"column:id_control_huevos;primaryKey"`
	TenantID int64   `json:"id_tenant" gorm:"column:id_tenant;not null;index"`
	BirdID   *int64  `json:"id_ave" gorm:"column:id_ave;index"`
	Date     Date    `json:"fecha" gorm:"column:fecha;type:date;not null"`
	Eggs     int     `json:"cantidad_huevos" gorm:"column:cantidad_huevos;not null"`
	Quality  *string `json:"calidad" gorm:"column:calidad;type:varchar(20)"`
	UserID   int64   `json:"id_usuario" gorm:"column:id_usuario;not null"`
}

func (EggRecord) TableName() string { return "control_huevos" }

type EggPatch struct {
	BirdID  Optional[int64]  `json:"id_ave"`
	Date    Optional[Date]   `json:"fecha"`
	Eggs    Optional[int]    `json:"cantidad_huevos"`
	Quality Optional[string] `json:"calidad"`
}

func (p EggPatch) Changes() (Changes, error) {
	if p.Quality.Set && !p.Quality.Null && !ValidEggQuality(p.Quality.Value) {
		return nil, Invalid("invalid calidad %q", p.Quality.Value)
	}
	b := newPatch()
	nullable(b, "id_ave", p.BirdID)
	required(b, "fecha", p.Date)
	required(b, "cantidad_huevos", p.Eggs)
	nullable(b, "calidad", p.Quality)
	return b.result()
}

type EggStats struct {
	Summary
	ByQuality []GroupTotal `json:"porCalidad"`
	ByDay     []GroupTotal `json:"porDia"`
}

// RecordFilter narrows bird-linked records (health, mortality, eggs).
type RecordFilter struct {
	BirdID  *int64
	Quality string
	Range   DateRange
}

// Expense (gasto_operacion) is an operating cost.
type Expense struct {
	ID            int64   `json:"id_gasto" gorm:"column:id_gasto;primaryKey"`
	TenantID      int64   `json:"id_tenant" gorm:"column:id_tenant;not null;index"`
	Date          Date    `json:"fecha" gorm:"column:fecha;type:date;not null"`
	Category      string  `json:"categoria" gorm:"column:categoria;type:varchar(100);not null"`
	Description   *string `json:"descripcion" gorm:"column:descripcion;type:text"`
	Amount        float64 `json:"monto" gorm:"column:monto;type:numeric(12,2);not null"`
	PaymentMethod *string `json:"metodo_pago" gorm:"column:metodo_pago;type:varchar(50)"`
	UserID        int64   `json:"id_usuario" gorm:"column:id_usuario;not null"`
}

func (Expense) TableName() string { return "gasto_operacion" }

type ExpenseFilter struct {
	Category      string
	PaymentMethod string
	Range         DateRange
}

type ExpensePatch struct {
	Date          Optional[Date]    `json:"fecha"`
	Category      Optional[string]  `json:"categoria"`
	Description   Optional[string]  `json:"descripcion"`
	Amount        Optional[float64] `json:"monto"`
	PaymentMethod Optional[string]  `json:"metodo_pago"`
}

func (p ExpensePatch) Changes() (Changes, error) {
	b := newPatch()
	required(b, "fecha", p.Date)
	required(b, "categoria", p.Category)
	nullable(b, "descripcion", p.Description)
	required(b, "monto", p.Amount)
	nullable(b, "metodo_pago", p.PaymentMethod)
	return b.result()
}

type ExpenseStats struct {
	Summary
	ByCategory      []GroupTotal `json:"porCategoria"`
	ByPaymentMethod []GroupTotal `json:"porMetodoPago"`
	ByDay           []GroupTotal `json:"porDia"`
}
