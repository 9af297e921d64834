package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/healthsms/golang_services/internal/compliance_service/domain"
	"github.com/healthsms/golang_services/internal/core_domain"
	"github.com/healthsms/golang_services/internal/platform/database"
)

type PgOrganizationRepository struct {
	db     database.DBTX
	logger *slog.Logger
}

func NewPgOrganizationRepository(db database.DBTX, logger *slog.Logger) *PgOrganizationRepository {
	return &PgOrganizationRepository{db: db, logger: logger.With("component", "organization_repository_pg")}
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (r *PgOrganizationRepository) GetByID(ctx context.Context, orgID uuid.UUID) (*domain.Organization, error) {
	query := `SELECT id, name, legal_name, ein, business_address, business_city, business_state, business_zip,
	          brand_type, trust_product_sid, brand_registration_sid, brand_status,
	          campaign_sid, campaign_status, messaging_service_sid, created_at
	          FROM organizations WHERE id = $1`

	var o domain.Organization
	var street, city, state, zip, brandStatus, campaignStatus *string
	err := r.db.QueryRow(ctx, query, orgID).Scan(
		&o.ID,
		&o.Name,
		&o.LegalName,
		&o.TaxID,
		&street,
		&city,
		&state,
		&zip,
		&o.BrandType,
		&o.TrustProfileID,
		&o.BrandRegistrationID,
		&brandStatus,
		&o.CampaignID,
		&campaignStatus,
		&o.MessagingServiceID,
		&o.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, core_domain.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Error fetching organization", "org_id", orgID, "error", err)
		return nil, fmt.Errorf("fetching organization %s: %w", orgID, err)
	}

	o.BusinessAddress = domain.Address{Street: deref(street), City: deref(city), State: deref(state), Zip: deref(zip)}
	o.BrandStatus = domain.StatusUnregistered
	if brandStatus != nil && *brandStatus != "" {
		o.BrandStatus = *brandStatus
	}
	o.CampaignStatus = domain.StatusUnregistered
	if campaignStatus != nil && *campaignStatus != "" {
		o.CampaignStatus = *campaignStatus
	}
	return &o, nil
}

// exec runs an UPDATE that must touch exactly the org's row.
func (r *PgOrganizationRepository) exec(ctx context.Context, op string, orgID uuid.UUID, query string, args ...any) error {
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		r.logger.ErrorContext(ctx, "Organization update failed", "operation", op, "org_id", orgID, "error", err)
		return fmt.Errorf("%s for org %s: %w", op, orgID, err)
	}
	if tag.RowsAffected() == 0 {
		return core_domain.ErrNotFound
	}
	return nil
}

func (r *PgOrganizationRepository) SaveBusinessInfo(ctx context.Context, orgID uuid.UUID, info domain.BusinessInfo) error {
	query := `UPDATE organizations
	          SET legal_name = $1, ein = $2, business_address = $3, business_city = $4,
	              business_state = $5, business_zip = $6, brand_type = $7
	          WHERE id = $8`
	return r.exec(ctx, "save business info", orgID, query,
		info.LegalName,
		info.TaxID,
		nullIfEmpty(info.Address.Street),
		nullIfEmpty(info.Address.City),
		nullIfEmpty(info.Address.State),
		nullIfEmpty(info.Address.Zip),
		string(info.BrandType),
		orgID,
	)
}

func (r *PgOrganizationRepository) SetBrandRegistration(ctx context.Context, orgID uuid.UUID, trustProfileID, brandRegistrationID, brandStatus string) error {
	query := `UPDATE organizations
	          SET trust_product_sid = $1, brand_registration_sid = $2, brand_status = $3
	          WHERE id = $4`
	return r.exec(ctx, "set brand registration", orgID, query, trustProfileID, brandRegistrationID, brandStatus, orgID)
}

func (r *PgOrganizationRepository) SetBrandStatus(ctx context.Context, orgID uuid.UUID, status string) error {
	query := `UPDATE organizations SET brand_status = $1 WHERE id = $2`
	return r.exec(ctx, "set brand status", orgID, query, status, orgID)
}

func (r *PgOrganizationRepository) SetMessagingServiceIfAbsent(ctx context.Context, orgID uuid.UUID, serviceID string) (string, error) {
	query := `UPDATE organizations SET messaging_service_sid = $1
	          WHERE id = $2 AND messaging_service_sid IS NULL`
	tag, err := r.db.Exec(ctx, query, serviceID, orgID)
	if err != nil {
		return "", fmt.Errorf("set messaging service for org %s: %w", orgID, err)
	}
	if tag.RowsAffected() == 1 {
		return serviceID, nil
	}

	var stored *string
	err = r.db.QueryRow(ctx, `SELECT messaging_service_sid FROM organizations WHERE id = $1`, orgID).Scan(&stored)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", core_domain.ErrNotFound
		}
		return "", fmt.Errorf("reading messaging service for org %s: %w", orgID, err)
	}
	if stored == nil {
		return "", fmt.Errorf("messaging service for org %s neither stored nor set", orgID)
	}
	return *stored, nil
}

func (r *PgOrganizationRepository) SetCampaign(ctx context.Context, orgID uuid.UUID, campaignID, campaignStatus string) error {
	query := `UPDATE organizations SET campaign_sid = $1, campaign_status = $2 WHERE id = $3`
	return r.exec(ctx, "set campaign", orgID, query, campaignID, campaignStatus, orgID)
}

func (r *PgOrganizationRepository) SetCampaignStatus(ctx context.Context, orgID uuid.UUID, status string) error {
	query := `UPDATE organizations SET campaign_status = $1 WHERE id = $2`
	return r.exec(ctx, "set campaign status", orgID, query, status, orgID)
}
