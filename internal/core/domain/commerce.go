package domain

import "time"

const (
	SaleCompleted = "Completada"
	SaleCancelled = "Cancelada"
	SalePending   = "Pendiente"
)

// ValidSaleStatus reports whether s is a known sale state.
func ValidSaleStatus(s string) bool {
	return s == SaleCompleted || s == SaleCancelled || s == SalePending
}

// Product is a sellable item whose stock is decremented by sales.
type Product struct {
	ID       int64   `json:"id_producto" gorm:"column:id_producto;primaryKey"`
	TenantID int64   `json:"id_tenant" gorm:"column:id_tenant;not null;index"`
	Name     string  `json:"nombre" gorm:"column:nombre;type:varchar(150);not null"`
	Size     *string `json:"tamanio" gorm:"column:tamanio;type:varchar(50)"`
	Price    float64 `json:"precio" gorm:"column:precio;type:numeric(12,2);not null"`
	Stock    int     `json:"stock" gorm:"column:stock;not null;default:0"`
	Category *string `json:"categoria" gorm:"column:categoria;type:varchar(100)"`
	Active   bool    `json:"activo" gorm:"column:activo;not null"`
}

func (Product) TableName() string { return "producto" }

type ProductFilter struct {
	Active   *bool
	Category string
	Search   string
}

type ProductPatch struct {
	Name     Optional[string]  `json:"nombre"`
	Size     Optional[string]  `json:"tamanio"`
	Price    Optional[float64] `json:"precio"`
	Stock    Optional[int]     `json:"stock"`
	Category Optional[string]  `json:"categoria"`
	Active   Optional[bool]    `json:"activo"`
}

func (p ProductPatch) Changes() (Changes, error) {
	b := newPatch()
	required(b, "nombre", p.Name)
	nullable(b, "tamanio", p.Size)
	required(b, "precio", p.Price)
	required(b, "stock", p.Stock)
	nullable(b, "categoria", p.Category)
	required(b, "activo", p.Active)
	return b.result()
}

// Client (cliente) is a buyer of farm products.
type Client struct {
	ID           int64     `json:"id_cliente" gorm:"column:id_cliente;primaryKey"`
	TenantID     int64     `json:"id_tenant" gorm:"column:id_tenant;not null;index"`
	Name         string    `json:"nombre" gorm:"column:nombre;type:varchar(150);not null"`
	Phone        *string   `json:"telefono" gorm:"column:telefono;type:varchar(30)"`
	Email        *string   `json:"correo" gorm:"column:correo;type:varchar(150)"`
	Address      *string   `json:"direccion" gorm:"column:direccion;type:varchar(250)"`
	TaxID        *string   `json:"ruc" gorm:"column:ruc;type:varchar(20)"`
	RegisteredAt time.Time `json:"fecha_registro" gorm:"column:fecha_registro;autoCreateTime"`

	SaleCount int64 `json:"total_ventas" gorm:"column:total_ventas;->;-:migration"`
}

func (Client) TableName() string { return "cliente" }

type ClientFilter struct {
	Search string
}

type ClientPatch struct {
	Name    Optional[string] `json:"nombre"`
	Phone   Optional[string] `json:"telefono"`
	Email   Optional[string] `json:"correo"`
	Address Optional[string] `json:"direccion"`
	TaxID   Optional[string] `json:"ruc"`
}

func (p ClientPatch) Changes() (Changes, error) {
	b := newPatch()
	required(b, "nombre", p.Name)
	nullable(b, "telefono", p.Phone)
	nullable(b, "correo", p.Email)
	nullable(b, "direccion", p.Address)
	nullable(b, "ruc", p.TaxID)
	return b.result()
}

// Sale (venta) header. Total is derived from its lines at creation.
type Sale struct {
	ID       int64   `json:"id_venta" gorm:"column:id_venta;primaryKey"`
	TenantID int64   `json:"id_tenant" gorm:"column:id_tenant;not null;index"`
	ClientID *int64  `json:"id_cliente" gorm:"column:id_cliente;index"`
	UserID   int64   `json:"id_usuario" gorm:"column:id_usuario;not null"`
	Date     Date    `json:"fecha" gorm:"column:fecha;type:date;not null"`
	Total    float64 `json:"total" gorm:"column:total;type:numeric(14,2);not null"`
	Status   string  `json:"estado" gorm:"column:estado;type:varchar(20);not null;default:Completada"`
	Notes    *string `json:"observaciones" gorm:"column:observaciones;type:text"`

	Client *Client    `json:"cliente,omitempty" gorm:"foreignKey:ClientID;references:ID"`
	Lines  []SaleLine `json:"detalles,omitempty" gorm:"foreignKey:SaleID;references:ID"`
}

func (Sale) TableName() string { return "venta" }

// SaleLine (detalle_venta) is one product line of a sale.
type SaleLine struct {
	ID        int64   `json:"id_detalle" gorm:"column:id_detalle;primaryKey"`
	TenantID  int64   `json:"id_tenant" gorm:"column:id_tenant;not null;index"`
	SaleID    int64   `json:"id_venta" gorm:"column:id_venta;not null;index"`
	ProductID int64   `json:"id_producto" gorm:"column:id_producto;not null;index"`
	Quantity  int     `json:"cantidad" gorm:"column:cantidad;not null"`
	UnitPrice float64 `json:"precio_unitario" gorm:"column:precio_unitario;type:numeric(12,2);not null"`

	Product *Product `json:"producto,omitempty" gorm:"foreignKey:ProductID;references:ID"`
}

func (SaleLine) TableName() string { return "detalle_venta" }

// Subtotal is quantity times unit price.
func (l SaleLine) Subtotal() float64 {
	return float64(l.Quantity) * l.UnitPrice
}

// SaleTotal sums the subtotals of lines.
func SaleTotal(lines []SaleLine) float64 {
	var total float64
	for _, l := range lines {
		total += l.Subtotal()
	}
	return total
}

type SaleFilter struct {
	Status   string
	ClientID *int64
	Range    DateRange
}

type SaleStats struct {
	Count    int64        `json:"totalVentas"`
	Revenue  float64      `json:"ingresoTotal"`
	Average  float64      `json:"ventaPromedio"`
	ByStatus []GroupTotal `json:"porEstado"`
	ByDay    []GroupTotal `json:"porDia"`
}
