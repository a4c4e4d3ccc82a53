package repository

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
	"github.com/stanstork/gpl-website-api/internal/models"
)

// CreateServiceRequestParams backs generic, outage and streetlight rows alike.
// The reference number is assigned by the caller before the insert.
type CreateServiceRequestParams struct {
	Type                   models.ServiceRequestType
	Name                   string
	Email                  *string
	Phone                  string
	Address                string
	AccountNumber          *string
	Details                models.RequestDetails
	PreferredContactMethod models.ContactMethod
	ReferenceNumber        string
}

type ServiceRequestRepository interface {
	Create(ctx context.Context, params CreateServiceRequestParams) (models.ServiceRequest, error)
	Get(ctx context.Context, id string) (models.ServiceRequest, error)
	List(ctx context.Context, opts models.SubmissionListOptions) ([]models.ServiceRequest, error)
	Update(ctx context.Context, id string, update models.SubmissionUpdate) (models.ServiceRequest, error)
	CountByStatus(ctx context.Context) (models.StatusCounts, error)
}

type serviceRequestRepository struct {
	db *sql.DB
}

func NewServiceRequestRepository(db *sql.DB) ServiceRequestRepository {
	return &serviceRequestRepository{db: db}
}

const serviceRequestColumns = `id, type, name, email, phone, address, account_number, details,
	preferred_contact_method, reference_number, status, assigned_to, notes, created_at, updated_at`

func scanServiceRequest(s scanner) (models.ServiceRequest, error) {
	var (
		sr            models.ServiceRequest
		reqType       string
		email         sql.NullString
		accountNumber sql.NullString
		details       []byte
		method        string
		status        string
		assignedTo    sql.NullString
		notes         sql.NullString
	)
	err := s.Scan(
		&sr.ID,
		&reqType,
		&sr.Name,
		&email,
		&sr.Phone,
		&sr.Address,
		&accountNumber,
		&details,
		&method,
		&sr.ReferenceNumber,
		&status,
		&assignedTo,
		&notes,
		&sr.CreatedAt,
		&sr.UpdatedAt,
	)
	if err != nil {
		return models.ServiceRequest{}, err
	}

	decoded, err := models.UnmarshalDetails(details)
	if err != nil {
		return models.ServiceRequest{}, errors.Wrapf(err, "service request %s", sr.ID)
	}

	sr.Type = models.ServiceRequestType(reqType)
	sr.Email = stringPtr(email)
	sr.AccountNumber = stringPtr(accountNumber)
	sr.Details = decoded
	sr.PreferredContactMethod = models.ContactMethod(method)
	sr.Status = models.SubmissionStatus(status)
	sr.AssignedTo = stringPtr(assignedTo)
	sr.Notes = stringPtr(notes)
	return sr, nil
}

func (r *serviceRequestRepository) Create(ctx context.Context, params CreateServiceRequestParams) (models.ServiceRequest, error) {
	details, err := models.MarshalDetails(params.Details)
	if err != nil {
		return models.ServiceRequest{}, errors.Wrap(err, "encode service request details")
	}
	method := params.PreferredContactMethod
	if method == "" {
		method = models.ContactMethodEmail
	}

	query := `
		INSERT INTO service_requests (
			type, name, email, phone, address, account_number, details,
			preferred_contact_method, reference_number, status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 'pending')
		RETURNING ` + serviceRequestColumns
	sr, err := scanServiceRequest(r.db.QueryRowContext(ctx, query,
		string(params.Type),
		params.Name,
		nullableString(params.Email),
		params.Phone,
		params.Address,
		nullableString(params.AccountNumber),
		details,
		string(method),
		params.ReferenceNumber,
	))
	if err != nil {
		return models.ServiceRequest{}, errors.Wrap(err, "insert service request")
	}
	return sr, nil
}

func (r *serviceRequestRepository) Get(ctx context.Context, id string) (models.ServiceRequest, error) {
	query := `SELECT ` + serviceRequestColumns + ` FROM service_requests WHERE id = $1`
	sr, err := scanServiceRequest(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return models.ServiceRequest{}, errors.Wrap(err, "get service request")
	}
	return sr, nil
}

func (r *serviceRequestRepository) List(ctx context.Context, opts models.SubmissionListOptions) ([]models.ServiceRequest, error) {
	filter, args := submissionFilter(opts, "type")
	rows, err := r.db.QueryContext(ctx, `SELECT `+serviceRequestColumns+` FROM service_requests `+filter, args...)
	if err != nil {
		return nil, errors.Wrap(err, "list service requests")
	}
	defer rows.Close()

	out := []models.ServiceRequest{}
	for rows.Next() {
		sr, err := scanServiceRequest(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan service request")
		}
		out = append(out, sr)
	}
	return out, errors.Wrap(rows.Err(), "iterate service requests")
}

func (r *serviceRequestRepository) Update(ctx context.Context, id string, update models.SubmissionUpdate) (models.ServiceRequest, error) {
	query := `
		UPDATE service_requests
		SET status = COALESCE($2::submission_status, status),
		    notes = CASE WHEN $3::text IS NULL THEN notes ELSE NULLIF($3::text, '') END,
		    assigned_to = COALESCE($4::uuid, assigned_to),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING ` + serviceRequestColumns
	sr, err := scanServiceRequest(r.db.QueryRowContext(ctx, query,
		id, statusArg(update.Status), textArg(update.Notes), nullableString(update.AssignedTo)))
	if err != nil {
		return models.ServiceRequest{}, errors.Wrap(err, "update service request")
	}
	return sr, nil
}

func (r *serviceRequestRepository) CountByStatus(ctx context.Context) (models.StatusCounts, error) {
	return countByStatus(ctx, r.db, "service_requests")
}
