package domain

import "time"

const (
	RoleAdmin      = "admin"
	RoleManager    = "gerente"
	RoleSupervisor = "supervisor"
	RoleOperator   = "operador"
)

// ValidRole reports whether r is one of the known roles.
func ValidRole(r string) bool {
	switch r {
	case RoleAdmin, RoleManager, RoleSupervisor, RoleOperator:
		return true
	}
	return false
}

// Tenant is an isolated farm organization. Tenants are provisioned out of band.
type Tenant struct {
	ID        int64     `json:"id_tenant" gorm:"column:id_tenant;primaryKey"`
	Name      string    `json:"nombre" gorm:"column:nombre;type:varchar(150);not null"`
	Email     *string   `json:"correo,omitempty" gorm:"column:correo;type:varchar(150)"`
	Phone     *string   `json:"telefono,omitempty" gorm:"column:telefono;type:varchar(30)"`
	Active    bool      `json:"activo" gorm:"column:activo;not null"`
	CreatedAt time.Time `json:"fecha_creacion" gorm:"column:fecha_creacion;autoCreateTime"`
}

func (Tenant) TableName() string { return "tenant" }

// User models an authenticated actor that belongs to exactly one tenant.
type User struct {
	ID           int64      `json:"id_usuario" gorm:"column:id_usuario;primaryKey"`
	TenantID     int64      `json:"id_tenant" gorm:"column:id_tenant;not null;index"`
	FirstName    string     `json:"nombre" gorm:"column:nombre;type:varchar(100);not null"`
	LastName     string     `json:"apellido" gorm:"column:apellido;type:varchar(100)"`
	Email        string     `json:"email" gorm:"column:email;type:varchar(150);not null;uniqueIndex"`
	PasswordHash string     `json:"-" gorm:"column:password_hash;not null"`
	Role         string     `json:"rol" gorm:"column:rol;type:varchar(20);not null"`
	Active       bool       `json:"activo" gorm:"column:activo;not null"`
	LastLogin    *time.Time `json:"ultimo_login,omitempty" gorm:"column:ultimo_login"`
	CreatedAt    time.Time  `json:"fecha_creacion" gorm:"column:fecha_creacion;autoCreateTime"`

	Tenant *Tenant `json:"tenant,omitempty" gorm:"foreignKey:TenantID;references:ID"`
}

func (User) TableName() string { return "usuario" }

// Identity is the caller resolved from a verified token.
type Identity struct {
	UserID   int64  `json:"id_usuario"`
	TenantID int64  `json:"id_tenant"`
	Email    string `json:"email"`
	Role     string `json:"rol"`
}

// TenantSummary is the tenant part of a login or profile response.
type TenantSummary struct {
	ID   int64  `json:"id_tenant"`
	Name string `json:"nombre"`
}

// Profile is the user view returned by login and /auth/me.
type Profile struct {
	ID        int64         `json:"id_usuario"`
	FirstName string        `json:"nombre"`
	LastName  string        `json:"apellido"`
	Email     string        `json:"email"`
	Role      string        `json:"rol"`
	LastLogin *time.Time    `json:"ultimo_login,omitempty"`
	Tenant    TenantSummary `json:"tenant"`
}

// ProfileOf builds the public profile of u. u.Tenant must be loaded.
func ProfileOf(u *User) Profile {
	p := Profile{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Role:      u.Role,
		LastLogin: u.LastLogin,
	}
	if u.Tenant != nil {
		p.Tenant = TenantSummary{ID: u.Tenant.ID, Name: u.Tenant.Name}
	}
	return p
}

// Session is the result of a successful login.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      Profile   `json:"user"`
}
