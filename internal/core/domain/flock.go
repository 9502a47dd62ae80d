package domain

// Batch and bird states and types.
const (
	BatchActive   = "Activo"
	BatchInactive = "Inactivo"
	BatchEvicted  = "Desalojado"

	BirdAlive   = "Viva"
	BirdDead    = "Muerta"
	BirdSold    = "Vendida"
	BirdCulled  = "Descarte"
	BirdLayer   = "Ponedoras"
	BirdBroiler = "Engorde"
)

// Batch (lote) is a group of birds housed together.
type Batch struct {
	ID        int64   `json:"id_lote" gorm:"column:id_lote;primaryKey"`
	TenantID  int64   `json:"id_tenant" gorm:"column:id_tenant;not null;index"`
	Type      string  `json:"tipo" gorm:"column:tipo;type:varchar(50);not null"`
	StartDate Date    `json:"fecha_inicio" gorm:"column:fecha_inicio;type:date;not null"`
	EndDate   *Date   `json:"fecha_fin" gorm:"column:fecha_fin;type:date"`
	Quantity  int     `json:"cantidad" gorm:"column:cantidad;not null"`
	House     string  `json:"galera" gorm:"column:galera;type:varchar(50);not null"`
	Status    string  `json:"estado" gorm:"column:estado;type:varchar(20);not null;default:Activo"`
	Notes     *string `json:"observaciones" gorm:"column:observaciones;type:text"`

	BirdCount int64  `json:"total_aves" gorm:"column:total_aves;->;-:migration"`
	Birds     []Bird `json:"aves,omitempty" gorm:"foreignKey:BatchID;references:ID"`
}

func (Batch) TableName() string { return "lote" }

type BatchFilter struct {
	Status string
	Type   string
	Search string
}

type BatchPatch struct {
	Type      Optional[string] `json:"tipo"`
	StartDate Optional[Date]   `json:"fecha_inicio"`
	EndDate   Optional[Date]   `json:"fecha_fin"`
	Quantity  Optional[int]    `json:"cantidad"`
	House     Optional[string] `json:"galera"`
	Status    Optional[string] `json:"estado"`
	Notes     Optional[string] `json:"observaciones"`
}

func (p BatchPatch) Changes() (Changes, error) {
	b := newPatch()
	required(b, "tipo", p.Type)
	required(b, "fecha_inicio", p.StartDate)
	nullable(b, "fecha_fin", p.EndDate)
	required(b, "cantidad", p.Quantity)
	required(b, "galera", p.House)
	required(b, "estado", p.Status)
	nullable(b, "observaciones", p.Notes)
	return b.result()
}

// Bird (ave). IDs are allocated per tenant, so the key is (id_ave, id_tenant).
type Bird struct {
	ID            int64    `json:"id_ave" gorm:"column:id_ave;primaryKey;autoIncrement:false"`
	TenantID      int64    `json:"id_tenant" gorm:"column:id_tenant;primaryKey;autoIncrement:false"`
	Type          string   `json:"tipo" gorm:"column:tipo;type:varchar(20);not null"`
	Age           int      `json:"edad" gorm:"column:edad;not null"`
	Status        string   `json:"estado" gorm:"column:estado;type:varchar(20);not null"`
	Weight        *float64 `json:"peso" gorm:"column:peso;type:numeric(8,3)"`
	BatchID       *int64   `json:"id_lote" gorm:"column:id_lote;index"`
	EntryDate     Date     `json:"fecha_ingreso" gorm:"column:fecha_ingreso;type:date;not null"`
	ExitDate      *Date    `json:"fecha_salida" gorm:"column:fecha_salida;type:date"`
	ExitReason    *string  `json:"motivo_salida" gorm:"column:motivo_salida;type:varchar(150)"`
	EggProduction int      `json:"produccion_huevos" gorm:"column:produccion_huevos;not null;default:0"`

	Batch *Batch `json:"lote,omitempty" gorm:"foreignKey:BatchID;references:ID"`
}

func (Bird) TableName() string { return "ave" }

type BirdFilter struct {
	Status  string
	Type    string
	BatchID *int64
}

type BirdPatch struct {
	Type          Optional[string]  `json:"tipo"`
	Age           Optional[int]     `json:"edad"`
	Status        Optional[string]  `json:"estado"`
	Weight        Optional[float64] `json:"peso"`
	BatchID       Optional[int64]   `json:"id_lote"`
	ExitDate      Optional[Date]    `json:"fecha_salida"`
	ExitReason    Optional[string]  `json:"motivo_salida"`
	EggProduction Optional[int]     `json:"produccion_huevos"`
}

func (p BirdPatch) Changes() (Changes, error) {
	b := newPatch()
	required(b, "tipo", p.Type)
	required(b, "edad", p.Age)
	required(b, "estado", p.Status)
	nullable(b, "peso", p.Weight)
	nullable(b, "id_lote", p.BatchID)
	nullable(b, "fecha_salida", p.ExitDate)
	nullable(b, "motivo_salida", p.ExitReason)
	required(b, "produccion_huevos", p.EggProduction)
	return b.result()
}

// BirdGroup is one estado/tipo bucket of the flock statistics.
type BirdGroup struct {
	Status    string  `json:"estado"`
	Type      string  `json:"tipo"`
	Count     int64   `json:"cantidad"`
	AvgWeight float64 `json:"peso_promedio"`
	AvgAge    float64 `json:"edad_promedio"`
}

type BirdStats struct {
	Total         int64       `json:"totalAves"`
	Groups        []BirdGroup `json:"porEstadoYTipo"`
	LayerEggTotal int64       `json:"produccionHuevosPonedoras"`
}
