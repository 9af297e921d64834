package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/healthsms/golang_services/internal/core_domain"
	"github.com/healthsms/golang_services/internal/number_service/domain"
	"github.com/healthsms/golang_services/internal/platform/database"
)

const authorizedNumberColumns = `id, org_id, created_by_user_id, e164_number, label, status, verified_at, created_at`

type PgAuthorizedNumberRepository struct {
	db     database.TxBeginner
	logger *slog.Logger
}

func NewPgAuthorizedNumberRepository(db database.TxBeginner, logger *slog.Logger) *PgAuthorizedNumberRepository {
	return &PgAuthorizedNumberRepository{db: db, logger: logger.With("component", "authorized_number_repository_pg")}
}

func scanAuthorizedNumber(row pgx.Row) (*domain.AuthorizedForwardNumber, error) {
	var n domain.AuthorizedForwardNumber
	var status string
	if err := row.Scan(&n.ID, &n.OrgID, &n.CreatedByUserID, &n.E164Number, &n.Label, &status, &n.VerifiedAt, &n.CreatedAt); err != nil {
		return nil, err
	}
	n.Status = domain.AuthorizedNumberStatus(status)
	return &n, nil
}

func (r *PgAuthorizedNumberRepository) getOne(ctx context.Context, query string, args ...any) (*domain.AuthorizedForwardNumber, error) {
	n, err := scanAuthorizedNumber(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, core_domain.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Error fetching authorized number", "error", err)
		return nil, fmt.Errorf("fetching authorized number: %w", err)
	}
	return n, nil
}

func (r *PgAuthorizedNumberRepository) GetByID(ctx context.Context, orgID, id uuid.UUID) (*domain.AuthorizedForwardNumber, error) {
	query := `SELECT ` + authorizedNumberColumns + ` FROM authorized_forward_numbers WHERE id = $1 AND org_id = $2`
	return r.getOne(ctx, query, id, orgID)
}

func (r *PgAuthorizedNumberRepository) GetByNumber(ctx context.Context, orgID uuid.UUID, e164 string) (*domain.AuthorizedForwardNumber, error) {
	query := `SELECT ` + authorizedNumberColumns + ` FROM authorized_forward_numbers WHERE org_id = $1 AND e164_number = $2`
	return r.getOne(ctx, query, orgID, e164)
}

// UpsertApproved keeps the existing label when none is given and the first verification time.
func (r *PgAuthorizedNumberRepository) UpsertApproved(ctx context.Context, orgID, userID uuid.UUID, e164 string, label *string) (*domain.AuthorizedForwardNumber, error) {
	query := `INSERT INTO authorized_forward_numbers (org_id, created_by_user_id, e164_number, label, status, verified_at)
	          VALUES ($1, $2, $3, $4, 'approved', now())
	          ON CONFLICT (org_id, e164_number) DO UPDATE SET
	            label = COALESCE(EXCLUDED.label, authorized_forward_numbers.label),
	            status = 'approved',
	            verified_at = COALESCE(authorized_forward_numbers.verified_at, now())
	          RETURNING ` + authorizedNumberColumns

	n, err := scanAuthorizedNumber(r.db.QueryRow(ctx, query, orgID, userID, e164, label))
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return nil, core_domain.InvalidInput("Your session is invalid. Please log out and log back in.").WithCause(err)
		}
		r.logger.ErrorContext(ctx, "Error upserting authorized number", "org_id", orgID, "error", err)
		return nil, fmt.Errorf("upserting authorized number: %w", err)
	}
	return n, nil
}

func (r *PgAuthorizedNumberRepository) ListActive(ctx context.Context, orgID uuid.UUID) ([]domain.AuthorizedForwardNumber, error) {
	query := `SELECT ` + authorizedNumberColumns + ` FROM authorized_forward_numbers
	          WHERE org_id = $1 AND status <> 'disabled' ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, orgID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error listing authorized numbers", "org_id", orgID, "error", err)
		return nil, fmt.Errorf("listing authorized numbers: %w", err)
	}
	defer rows.Close()

	numbers := []domain.AuthorizedForwardNumber{}
	for rows.Next() {
		n, err := scanAuthorizedNumber(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning authorized number: %w", err)
		}
		numbers = append(numbers, *n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating authorized numbers: %w", err)
	}
	return numbers, nil
}

func (r *PgAuthorizedNumberRepository) Disable(ctx context.Context, orgID, id uuid.UUID) (int64, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}

	cleared, err := disableInTx(ctx, tx, orgID, id)
	if err != nil {
		_ = tx.Rollback(ctx)
		if !errors.Is(err, core_domain.ErrNotFound) {
			r.logger.ErrorContext(ctx, "Error disabling authorized number", "org_id", orgID, "authorized_number_id", id, "error", err)
		}
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("committing disable: %w", err)
	}
	return cleared, nil
}

func disableInTx(ctx context.Context, tx pgx.Tx, orgID, id uuid.UUID) (int64, error) {
	tag, err := tx.Exec(ctx,
		`UPDATE authorized_forward_numbers SET status = 'disabled' WHERE id = $1 AND org_id = $2`,
		id, orgID)
	if err != nil {
		return 0, fmt.Errorf("disabling authorized number: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return 0, core_domain.ErrNotFound
	}

	tag, err = tx.Exec(ctx,
		`UPDATE phone_numbers SET call_forward_authorized_number_id = NULL, call_forward_to = NULL
		 WHERE org_id = $1 AND call_forward_authorized_number_id = $2`,
		orgID, id)
	if err != nil {
		return 0, fmt.Errorf("clearing forwarding references: %w", err)
	}
	return tag.RowsAffected(), nil
}
