package domain

// InventoryItem (inventario_granja) is a farm supply such as feed or medicine.
type InventoryItem struct {
	ID       int64   `json:"id_inventario" gorm:"column:id_inventario;primaryKey"`
	TenantID int64   `json:"id_tenant" gorm:"column:id_tenant;not null;index"`
	Name     string  `json:"nombre" gorm:"column:nombre;type:varchar(150);not null"`
	Quantity int     `json:"cantidad" gorm:"column:cantidad;not null"`
	Unit     string  `json:"unidad" gorm:"column:unidad;type:varchar(30);not null"`
	Category *string `json:"categoria" gorm:"column:categoria;type:varchar(100)"`
	MinStock *int    `json:"minimo_stock" gorm:"column:minimo_stock"`
	Supplier *string `json:"proveedor" gorm:"column:proveedor;type:varchar(150)"`
	Notes    *string `json:"observaciones" gorm:"column:observaciones;type:text"`

	StockStatus string `json:"estado_stock" gorm:"-"`
}

func (InventoryItem) TableName() string { return "inventario_granja" }

// Classify fills StockStatus from the current quantity and minimum.
func (i *InventoryItem) Classify() {
	i.StockStatus = StockStatus(i.Quantity, i.MinStock)
}

type InventoryFilter struct {
	Category string
	Search   string
	LowStock bool
}

type InventoryPatch struct {
	Name     Optional[string] `json:"nombre"`
	Quantity Optional[int]    `json:"cantidad"`
	Unit     Optional[string] `json:"unidad"`
	Category Optional[string] `json:"categoria"`
	MinStock Optional[int]    `json:"minimo_stock"`
	Supplier Optional[string] `json:"proveedor"`
	Notes    Optional[string] `json:"observaciones"`
}

func (p InventoryPatch) Changes() (Changes, error) {
	b := newPatch()
	required(b, "nombre", p.Name)
	required(b, "cantidad", p.Quantity)
	required(b, "unidad", p.Unit)
	nullable(b, "categoria", p.Category)
	nullable(b, "minimo_stock", p.MinStock)
	nullable(b, "proveedor", p.Supplier)
	nullable(b, "observaciones", p.Notes)
	return b.result()
}

// StockChange is a stock adjustment request for a product or inventory item.
type StockChange struct {
	Op       StockOp
	Quantity int
	Notes    *string
}

// Validate rejects negative quantities.
func (s StockChange) Validate() error {
	if s.Quantity < 0 {
		return Invalid("cantidad must not be negative")
	}
	return nil
}
