package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.LocationRepository = (*LocationRepo)(nil)

// LocationRepo implementación de LocationRepository sobre PostgreSQL (usable con pool o tx).
// Los responsables viven en location_contacts como filas hijas ordenadas por posición.
type LocationRepo struct {
	q Querier
}

// NewLocationRepository construye el adaptador de sedes. Pasar pool o tx (Querier).
func NewLocationRepository(q Querier) *LocationRepo {
	return &LocationRepo{q: q}
}

// Create persiste una sede con su lista de responsables.
func (r *LocationRepo) Create(ctx context.Context, l *entity.Location) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	query := `
		INSERT INTO locations (id, name, address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`
	if _, err := r.q.Exec(ctx, query, l.ID, l.Name, l.Address, l.CreatedAt, l.UpdatedAt); err != nil {
		return fmt.Errorf("create location: %w", err)
	}
	return r.insertContacts(ctx, l)
}

// GetByID obtiene una sede con sus responsables; nil si no existe.
func (r *LocationRepo) GetByID(ctx context.Context, id string) (*entity.Location, error) {
	query := `SELECT id, name, address, created_at, updated_at FROM locations WHERE id = $1`
	var l entity.Location
	err := r.q.QueryRow(ctx, query, id).Scan(&l.ID, &l.Name, &l.Address, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get location: %w", err)
	}
	if err := r.loadContacts(ctx, &l); err != nil {
		return nil, err
	}
	return &l, nil
}

// Update actualiza la sede y reemplaza su lista de responsables completa.
func (r *LocationRepo) Update(ctx context.Context, l *entity.Location) error {
	query := `UPDATE locations SET name = $2, address = $3, updated_at = $4 WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, l.ID, l.Name, l.Address, l.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update location: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM location_contacts WHERE location_id = $1`, l.ID); err != nil {
		return fmt.Errorf("clear location contacts: %w", err)
	}
	return r.insertContacts(ctx, l)
}

// List lista las sedes con sus responsables.
func (r *LocationRepo) List(ctx context.Context, limit, offset int) ([]*entity.Location, error) {
	query := `SELECT id, name, address, created_at, updated_at
		FROM locations ORDER BY name LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()
	var list []*entity.Location
	for rows.Next() {
		var l entity.Location
		if err := rows.Scan(&l.ID, &l.Name, &l.Address, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		list = append(list, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, l := range list {
		if err := r.loadContacts(ctx, l); err != nil {
			return nil, err
		}
	}
	return list, nil
}

func (r *LocationRepo) insertContacts(ctx context.Context, l *entity.Location) error {
	query := `
		INSERT INTO location_contacts (location_id, position, name, email, phone)
		VALUES ($1, $2, $3, $4, $5)`
	for i, c := range l.Responsables {
		if _, err := r.q.Exec(ctx, query, l.ID, i, c.Name, c.Email, c.Phone); err != nil {
			return fmt.Errorf("insert location contact: %w", err)
		}
	}
	return nil
}

func (r *LocationRepo) loadContacts(ctx context.Context, l *entity.Location) error {
	query := `SELECT name, email, phone FROM location_contacts
		WHERE location_id = $1 ORDER BY position`
	rows, err := r.q.Query(ctx, query, l.ID)
	if err != nil {
		return fmt.Errorf("load location contacts: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var c entity.ResponsibleContact
		if err := rows.Scan(&c.Name, &c.Email, &c.Phone); err != nil {
			return fmt.Errorf("scan location contact: %w", err)
		}
		l.Responsables = append(l.Responsables, c)
	}
	return rows.Err()
}
