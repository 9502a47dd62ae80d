package domain

// GroupTotal is one bucket of a grouped aggregate.
type GroupTotal struct {
	Key   string  `json:"clave" gorm:"column:clave"`
	Count int64   `json:"cantidad" gorm:"column:cantidad"`
	Sum   float64 `json:"total" gorm:"column:total"`
}

// Summary is the count/sum/average triple most stats endpoints report.
type Summary struct {
	Count   int64   `json:"cantidad" gorm:"column:cantidad"`
	Sum     float64 `json:"total" gorm:"column:total"`
	Average float64 `json:"promedio" gorm:"column:promedio"`
}
