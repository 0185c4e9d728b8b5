package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/restaurant-reservation/internal/model"
)

// configRowID is the primary key of the singleton configuration row.
const configRowID = 1

// ConfigRepo reads and writes the restaurant profile.
type ConfigRepo struct {
	db *sql.DB
}

func NewConfigRepo(db *sql.DB) *ConfigRepo { return &ConfigRepo{db: db} }

// Get returns the profile or ErrNotFound when the row was never seeded.
func (r *ConfigRepo) Get(ctx context.Context) (model.RestaurantConfig, error) {
	var c model.RestaurantConfig
	err := r.db.QueryRowContext(ctx,
		`SELECT nombre, direccion, telefono, horario_apertura, horario_cierre
		 FROM configuracion ORDER BY id LIMIT 1`).
		Scan(&c.Name, &c.Address, &c.Phone, &c.OpeningTime, &c.ClosingTime)
	if errors.Is(err, sql.ErrNoRows) {
		return model.RestaurantConfig{}, ErrNotFound
	}
	return c, err
}

// Save replaces the profile, creating the row when it does not exist yet.
func (r *ConfigRepo) Save(ctx context.Context, c model.RestaurantConfig) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE configuracion SET nombre=?, direccion=?, telefono=?, horario_apertura=?, horario_cierre=? WHERE id=?`,
		c.Name, c.Address, c.Phone, c.OpeningTime, c.ClosingTime, configRowID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil || n > 0 {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO configuracion (id, nombre, direccion, telefono, horario_apertura, horario_cierre) VALUES (?,?,?,?,?,?)`,
		configRowID, c.Name, c.Address, c.Phone, c.OpeningTime, c.ClosingTime)
	return err
}
