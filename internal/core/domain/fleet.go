package domain

const (
	VehicleActive      = "Activo"
	VehicleMaintenance = "Mantenimiento"
	VehicleInactive    = "Inactivo"
)

// Vehicle (vehiculo). Plates are unique within a tenant.
type Vehicle struct {
	ID         int64    `json:"id_vehiculo" gorm:"column:id_vehiculo;primaryKey"`
	TenantID   int64    `json:"id_tenant" gorm:"column:id_tenant;not null;uniqueIndex:ux_vehiculo_placa,priority:1"`
	Type       string   `json:"tipo" gorm:"column:tipo;type:varchar(50);not null"`
	Plate      string   `json:"placa" gorm:"column:placa;type:varchar(20);not null;uniqueIndex:ux_vehiculo_placa,priority:2"`
	Brand      *string  `json:"marca" gorm:"column:marca;type:varchar(50)"`
	Model      *string  `json:"modelo" gorm:"column:modelo;type:varchar(50)"`
	Year       *int     `json:"anio" gorm:"column:anio"`
	Status     string   `json:"estado" gorm:"column:estado;type:varchar(20);not null;default:Activo"`
	Capacity   *float64 `json:"capacidad" gorm:"column:capacidad;type:numeric(10,2)"`
	AcquiredAt *Date    `json:"fecha_adquisicion" gorm:"column:fecha_adquisicion;type:date"`
}

func (Vehicle) TableName() string { return "vehiculo" }

type VehicleFilter struct {
	Status string
	Type   string
}

type VehiclePatch struct {
	Type       Optional[string]  `json:"tipo"`
	Plate      Optional[string]  `json:"placa"`
	Brand      Optional[string]  `json:"marca"`
	Model      Optional[string]  `json:"modelo"`
	Year       Optional[int]     `json:"anio"`
	Status     Optional[string]  `json:"estado"`
	Capacity   Optional[float64] `json:"capacidad"`
	AcquiredAt Optional[Date]    `json:"fecha_adquisicion"`
}

func (p VehiclePatch) Changes() (Changes, error) {
	b := newPatch()
	required(b, "tipo", p.Type)
	required(b, "placa", p.Plate)
	nullable(b, "marca", p.Brand)
	nullable(b, "modelo", p.Model)
	nullable(b, "anio", p.Year)
	required(b, "estado", p.Status)
	nullable(b, "capacidad", p.Capacity)
	nullable(b, "fecha_adquisicion", p.AcquiredAt)
	return b.result()
}

type VehicleStats struct {
	Total         int64        `json:"totalVehiculos"`
	ByStatus      []GroupTotal `json:"porEstado"`
	ByType        []GroupTotal `json:"porTipo"`
	TotalCapacity float64      `json:"capacidadTotal"`
}
