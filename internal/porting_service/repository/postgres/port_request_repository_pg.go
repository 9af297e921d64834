package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/healthsms/golang_services/internal/core_domain"
	"github.com/healthsms/golang_services/internal/platform/database"
	"github.com/healthsms/golang_services/internal/porting_service/domain"
)

const portRequestColumns = `id, org_id, created_by_user_id, phone_number, losing_carrier, authorized_name,
	authorized_email, authorized_phone, service_address, provider_port_request_sid, status, status_detail,
	completed_at, created_at, updated_at`

type PgPortRequestRepository struct {
	db     database.DBTX
	logger *slog.Logger
}

func NewPgPortRequestRepository(db database.DBTX, logger *slog.Logger) *PgPortRequestRepository {
	return &PgPortRequestRepository{db: db, logger: logger.With("component", "port_request_repository_pg")}
}

func scanPortRequest(row pgx.Row) (*domain.PortRequest, error) {
	var pr domain.PortRequest
	var status string
	err := row.Scan(
		&pr.ID,
		&pr.OrgID,
		&pr.CreatedByUserID,
		&pr.PhoneNumber,
		&pr.LosingCarrier,
		&pr.AuthorizedName,
		&pr.AuthorizedEmail,
		&pr.AuthorizedPhone,
		&pr.ServiceAddress,
		&pr.ProviderRequestID,
		&status,
		&pr.StatusDetail,
		&pr.CompletedAt,
		&pr.CreatedAt,
		&pr.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	pr.Status = domain.PortStatus(status)
	return &pr, nil
}

func (r *PgPortRequestRepository) Create(ctx context.Context, pr *domain.PortRequest) error {
	query := `INSERT INTO port_requests (
	            id, org_id, created_by_user_id, phone_number, losing_carrier,
	            authorized_name, authorized_email, authorized_phone,
	            service_address, provider_port_request_sid, status
	          ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	          RETURNING created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		pr.ID, pr.OrgID, pr.CreatedByUserID, pr.PhoneNumber, pr.LosingCarrier,
		pr.AuthorizedName, pr.AuthorizedEmail, pr.AuthorizedPhone,
		pr.ServiceAddress, pr.ProviderRequestID, string(pr.Status),
	).Scan(&pr.CreatedAt, &pr.UpdatedAt)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error creating port request", "org_id", pr.OrgID, "error", err)
		return fmt.Errorf("creating port request: %w", err)
	}
	return nil
}

func (r *PgPortRequestRepository) ListByOrg(ctx context.Context, orgID uuid.UUID) ([]domain.PortRequest, error) {
	query := `SELECT ` + portRequestColumns + ` FROM port_requests WHERE org_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, orgID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error listing port requests", "org_id", orgID, "error", err)
		return nil, fmt.Errorf("listing port requests: %w", err)
	}
	defer rows.Close()

	requests := []domain.PortRequest{}
	for rows.Next() {
		pr, err := scanPortRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning port request: %w", err)
		}
		requests = append(requests, *pr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating port requests: %w", err)
	}
	return requests, nil
}

func (r *PgPortRequestRepository) GetByID(ctx context.Context, orgID, id uuid.UUID) (*domain.PortRequest, error) {
	query := `SELECT ` + portRequestColumns + ` FROM port_requests WHERE id = $1 AND org_id = $2`
	pr, err := scanPortRequest(r.db.QueryRow(ctx, query, id, orgID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, core_domain.ErrNotFound
		}
		return nil, fmt.Errorf("fetching port request %s: %w", id, err)
	}
	return pr, nil
}

func (r *PgPortRequestRepository) ApplyStatusUpdate(ctx context.Context, u domain.PortStatusUpdate) ([]domain.PortRequestRef, error) {
	query := `UPDATE port_requests
	          SET status = $1,
	              status_detail = $2,
	              updated_at = now(),
	              completed_at = CASE WHEN $1 = 'completed' THEN COALESCE(completed_at, now()) ELSE completed_at END
	          WHERE provider_port_request_sid = $3
	          RETURNING id, org_id`

	rows, err := r.db.Query(ctx, query, string(u.Status), u.Detail, u.ProviderRequestID)
	if err != nil {
		return nil, fmt.Errorf("updating port status: %w", err)
	}
	defer rows.Close()

	refs := []domain.PortRequestRef{}
	for rows.Next() {
		var ref domain.PortRequestRef
		if err := rows.Scan(&ref.ID, &ref.OrgID); err != nil {
			return nil, fmt.Errorf("scanning updated port request: %w", err)
		}
		refs = append(refs, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("updating port status: %w", err)
	}
	return refs, nil
}
