package repository

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
	"github.com/stanstork/gpl-website-api/internal/models"
)

type EmergencyContactParams struct {
	Region          string
	Name            string
	PrimaryNumber   string
	SecondaryNumber *string
	Description     *string
	Available       string
	Order           int
	IsActive        bool
}

type EmergencyContactRepository interface {
	ListActive(ctx context.Context) ([]models.EmergencyContact, error)
	ListAll(ctx context.Context) ([]models.EmergencyContact, error)
	Create(ctx context.Context, params EmergencyContactParams) (models.EmergencyContact, error)
	Update(ctx context.Context, id string, params EmergencyContactParams) (models.EmergencyContact, error)
	Delete(ctx context.Context, id string) error
}

type emergencyContactRepository struct {
	db *sql.DB
}

func NewEmergencyContactRepository(db *sql.DB) EmergencyContactRepository {
	return &emergencyContactRepository{db: db}
}

const emergencyContactColumns = `id, region, name, primary_number, secondary_number, description, available, "order", is_active, created_at, updated_at`

func scanEmergencyContact(s scanner) (models.EmergencyContact, error) {
	var (
		c           models.EmergencyContact
		secondary   sql.NullString
		description sql.NullString
	)
	err := s.Scan(&c.ID, &c.Region, &c.Name, &c.PrimaryNumber, &secondary, &description, &c.Available, &c.Order, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return models.EmergencyContact{}, err
	}
	c.SecondaryNumber = stringPtr(secondary)
	c.Description = stringPtr(description)
	return c, nil
}

func (r *emergencyContactRepository) ListActive(ctx context.Context) ([]models.EmergencyContact, error) {
	return r.query(ctx, `SELECT `+emergencyContactColumns+` FROM emergency_contacts WHERE is_active = TRUE ORDER BY "order" ASC, region ASC`)
}

func (r *emergencyContactRepository) ListAll(ctx context.Context) ([]models.EmergencyContact, error) {
	return r.query(ctx, `SELECT `+emergencyContactColumns+` FROM emergency_contacts ORDER BY "order" ASC, region ASC`)
}

func (r *emergencyContactRepository) query(ctx context.Context, query string) ([]models.EmergencyContact, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "list emergency contacts")
	}
	defer rows.Close()

	out := []models.EmergencyContact{}
	for rows.Next() {
		c, err := scanEmergencyContact(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan emergency contact")
		}
		out = append(out, c)
	}
	return out, errors.Wrap(rows.Err(), "iterate emergency contacts")
}

func (r *emergencyContactRepository) Create(ctx context.Context, params EmergencyContactParams) (models.EmergencyContact, error) {
	query := `
		INSERT INTO emergency_contacts (region, name, primary_number, secondary_number, description, available, "order", is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + emergencyContactColumns
	c, err := scanEmergencyContact(r.db.QueryRowContext(ctx, query,
		params.Region, params.Name, params.PrimaryNumber,
		nullableString(params.SecondaryNumber), nullableString(params.Description),
		availableOrDefault(params.Available), params.Order, params.IsActive))
	if err != nil {
		return models.EmergencyContact{}, errors.Wrap(err, "insert emergency contact")
	}
	return c, nil
}

func (r *emergencyContactRepository) Update(ctx context.Context, id string, params EmergencyContactParams) (models.EmergencyContact, error) {
	query := `
		UPDATE emergency_contacts
		SET region = $2, name = $3, primary_number = $4, secondary_number = $5, description = $6,
		    available = $7, "order" = $8, is_active = $9, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + emergencyContactColumns
	c, err := scanEmergencyContact(r.db.QueryRowContext(ctx, query,
		id, params.Region, params.Name, params.PrimaryNumber,
		nullableString(params.SecondaryNumber), nullableString(params.Description),
		availableOrDefault(params.Available), params.Order, params.IsActive))
	if err != nil {
		return models.EmergencyContact{}, errors.Wrap(err, "update emergency contact")
	}
	return c, nil
}

func (r *emergencyContactRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, "emergency_contacts", id)
}

func availableOrDefault(s string) string {
	if s == "" {
		return "24/7"
	}
	return s
}
