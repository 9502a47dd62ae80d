package domain

import "time"

// AuditEvent records one successful mutation made through the API.
type AuditEvent struct {
	ID        string    `json:"id" bson:"_id"`
	TenantID  int64     `json:"id_tenant" bson:"tenant_id"`
	UserID    int64     `json:"id_usuario" bson:"user_id"`
	Method    string    `json:"method" bson:"method"`
	Route     string    `json:"route" bson:"route"`
	Entity    string    `json:"entidad" bson:"entity"`
	EntityID  string    `json:"id_entidad,omitempty" bson:"entity_id,omitempty"`
	Status    int       `json:"status" bson:"status"`
	RequestID string    `json:"request_id,omitempty" bson:"request_id,omitempty"`
	At        time.Time `json:"at" bson:"at"`
}

type AuditFilter struct {
	Entity string
}
