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
)

const phoneNumberColumns = `id, org_id, e164_number, label, provider_number_sid, call_forward_to,
	call_forward_authorized_number_id, a2p_status, created_at`

// PgPhoneNumberRepository backs both the number service and the compliance
// service's number association.
type PgPhoneNumberRepository struct {
	db     database.DBTX
	logger *slog.Logger
}

func NewPgPhoneNumberRepository(db database.DBTX, logger *slog.Logger) *PgPhoneNumberRepository {
	return &PgPhoneNumberRepository{db: db, logger: logger.With("component", "phone_number_repository_pg")}
}

func scanPhoneNumber(row pgx.Row) (*core_domain.PhoneNumber, error) {
	var n core_domain.PhoneNumber
	var a2p string
	err := row.Scan(
		&n.ID,
		&n.OrgID,
		&n.E164Number,
		&n.Label,
		&n.ProviderNumberID,
		&n.CallForwardTo,
		&n.CallForwardAuthorizedNumberID,
		&a2p,
		&n.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	n.A2PStatus = core_domain.A2PStatus(a2p)
	return &n, nil
}

func (r *PgPhoneNumberRepository) list(ctx context.Context, query string, args ...any) ([]core_domain.PhoneNumber, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error listing phone numbers", "error", err)
		return nil, fmt.Errorf("listing phone numbers: %w", err)
	}
	defer rows.Close()

	numbers := []core_domain.PhoneNumber{}
	for rows.Next() {
		n, err := scanPhoneNumber(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning phone number: %w", err)
		}
		numbers = append(numbers, *n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating phone numbers: %w", err)
	}
	return numbers, nil
}

func (r *PgPhoneNumberRepository) ListByOrg(ctx context.Context, orgID uuid.UUID) ([]core_domain.PhoneNumber, error) {
	query := `SELECT ` + phoneNumberColumns + ` FROM phone_numbers WHERE org_id = $1 ORDER BY label NULLS LAST, e164_number`
	return r.list(ctx, query, orgID)
}

func (r *PgPhoneNumberRepository) ListWithProviderID(ctx context.Context, orgID uuid.UUID) ([]core_domain.PhoneNumber, error) {
	query := `SELECT ` + phoneNumberColumns + ` FROM phone_numbers WHERE org_id = $1 AND provider_number_sid IS NOT NULL ORDER BY e164_number`
	return r.list(ctx, query, orgID)
}

func (r *PgPhoneNumberRepository) GetByID(ctx context.Context, orgID, id uuid.UUID) (*core_domain.PhoneNumber, error) {
	query := `SELECT ` + phoneNumberColumns + ` FROM phone_numbers WHERE id = $1 AND org_id = $2`
	n, err := scanPhoneNumber(r.db.QueryRow(ctx, query, id, orgID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, core_domain.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Error fetching phone number", "phone_number_id", id, "error", err)
		return nil, fmt.Errorf("fetching phone number %s: %w", id, err)
	}
	return n, nil
}

// UpdateForwarding writes the forwarding columns. A non-nil authorizedID must name an
// approved record of the same org at write time; the record is share-locked so a
// concurrent disable either waits for this write or makes it match no rows.
func (r *PgPhoneNumberRepository) UpdateForwarding(ctx context.Context, orgID, id uuid.UUID, forwardTo *string, authorizedID *uuid.UUID) (*core_domain.PhoneNumber, error) {
	query := `UPDATE phone_numbers SET call_forward_to = $1, call_forward_authorized_number_id = $2
	          WHERE id = $3 AND org_id = $4
	            AND ($2::uuid IS NULL OR EXISTS (
	                SELECT 1 FROM authorized_forward_numbers
	                WHERE id = $2 AND org_id = $4 AND status = 'approved'
	                FOR SHARE))
	          RETURNING ` + phoneNumberColumns
	n, err := scanPhoneNumber(r.db.QueryRow(ctx, query, forwardTo, authorizedID, id, orgID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			if authorizedID != nil {
				return nil, core_domain.ErrNotAuthorized
			}
			return nil, core_domain.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Error updating forwarding", "phone_number_id", id, "error", err)
		return nil, fmt.Errorf("updating forwarding for %s: %w", id, err)
	}
	return n, nil
}

// EffectiveForwardTarget prefers the authorized number and falls back to the legacy column.
// A reference to a record that is no longer approved resolves to no forwarding.
func (r *PgPhoneNumberRepository) EffectiveForwardTarget(ctx context.Context, e164 string) (*string, error) {
	query := `SELECT CASE WHEN pn.call_forward_authorized_number_id IS NULL THEN pn.call_forward_to
	                      ELSE afn.e164_number END
	          FROM phone_numbers pn
	          LEFT JOIN authorized_forward_numbers afn
	            ON afn.id = pn.call_forward_authorized_number_id AND afn.status = 'approved'
	          WHERE pn.e164_number = $1`
	var target *string
	if err := r.db.QueryRow(ctx, query, e164).Scan(&target); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, core_domain.ErrNotFound
		}
		return nil, fmt.Errorf("resolving forward target for %s: %w", e164, err)
	}
	return target, nil
}

func (r *PgPhoneNumberRepository) Create(ctx context.Context, n *core_domain.PhoneNumber) error {
	query := `INSERT INTO phone_numbers (id, org_id, e164_number, label, provider_number_sid, a2p_status)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING created_at`
	err := r.db.QueryRow(ctx, query, n.ID, n.OrgID, n.E164Number, n.Label, n.ProviderNumberID, string(n.A2PStatus)).Scan(&n.CreatedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return core_domain.ErrConflict
		}
		r.logger.ErrorContext(ctx, "Error creating phone number", "number", n.E164Number, "error", err)
		return fmt.Errorf("creating phone number: %w", err)
	}
	return nil
}

func (r *PgPhoneNumberRepository) SetA2PStatusByProviderID(ctx context.Context, orgID uuid.UUID, providerNumberID string, status core_domain.A2PStatus) error {
	_, err := r.db.Exec(ctx,
		`UPDATE phone_numbers SET a2p_status = $1 WHERE org_id = $2 AND provider_number_sid = $3`,
		string(status), orgID, providerNumberID)
	if err != nil {
		return fmt.Errorf("setting a2p status for %s: %w", providerNumberID, err)
	}
	return nil
}

func (r *PgPhoneNumberRepository) PromoteA2PStatus(ctx context.Context, orgID uuid.UUID, from, to core_domain.A2PStatus) (int64, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE phone_numbers SET a2p_status = $1 WHERE org_id = $2 AND a2p_status = $3`,
		string(to), orgID, string(from))
	if err != nil {
		return 0, fmt.Errorf("promoting a2p status: %w", err)
	}
	return tag.RowsAffected(), nil
}
