package model

// RestaurantConfig is the singleton row of the `configuracion` table.
type RestaurantConfig struct {
	Name        string `json:"nombre"`
	Address     string `json:"direccion"`
	Phone       string `json:"telefono"`
	OpeningTime string `json:"horario_apertura"`
	ClosingTime string `json:"horario_cierre"`
}

// DailyStats is the dashboard summary for one day.
type DailyStats struct {
	ReservationsToday int `json:"reservas_hoy"`
	TotalTables       int `json:"mesas_totales"`
	OccupiedTables    int `json:"mesas_ocupadas"`
	AvailableTables   int `json:"mesas_disponibles"`
	PendingToday      int `json:"reservas_pendientes"`
	OccupancyPercent  int `json:"ocupacion_porcentaje"`
}
