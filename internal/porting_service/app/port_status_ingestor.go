package app

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/healthsms/golang_services/internal/core_domain"
	"github.com/healthsms/golang_services/internal/platform/messagebroker"
	"github.com/healthsms/golang_services/internal/porting_service/domain"
)

type IngestResult struct {
	Status  domain.PortStatus
	Matched int
}

// PortStatusIngestor applies provider-reported port statuses. Used by the webhook
// and by explicit refreshes.
type PortStatusIngestor struct {
	repo   domain.PortRequestRepository
	events *messagebroker.EventPublisher
	logger *slog.Logger
}

func NewPortStatusIngestor(repo domain.PortRequestRepository, events *messagebroker.EventPublisher, logger *slog.Logger) *PortStatusIngestor {
	return &PortStatusIngestor{repo: repo, events: events, logger: logger.With("component", "port_status_ingestor")}
}

// IngestPortStatus is idempotent: replaying the same update leaves the row as it was,
// including completed_at. Unknown ids are ignored.
func (i *PortStatusIngestor) IngestPortStatus(ctx context.Context, providerRequestID, vendorStatus, vendorDetail string) (*IngestResult, error) {
	providerRequestID = strings.TrimSpace(providerRequestID)
	if providerRequestID == "" {
		return nil, core_domain.NewError(core_domain.ErrMissingRequestID, "Missing PortRequestSid")
	}

	status := domain.MapVendorStatus(vendorStatus)
	var detail *string
	if d := strings.TrimSpace(vendorDetail); d != "" {
		detail = &d
	}

	refs, err := i.repo.ApplyStatusUpdate(ctx, domain.PortStatusUpdate{
		ProviderRequestID: providerRequestID,
		Status:            status,
		Detail:            detail,
	})
	if err != nil {
		i.logger.ErrorContext(ctx, "Failed to apply port status", "provider_request_id", providerRequestID, "error", err)
		return nil, fmt.Errorf("applying port status for %s: %w", providerRequestID, err)
	}

	statusIngestionsCounter.WithLabelValues(string(status), strconv.FormatBool(len(refs) > 0)).Inc()
	if len(refs) == 0 {
		i.logger.InfoContext(ctx, "Port status for unknown request ignored", "provider_request_id", providerRequestID, "vendor_status", vendorStatus)
		return &IngestResult{Status: status}, nil
	}

	for _, ref := range refs {
		i.events.PublishEvent(ctx, domain.SubjectPortStatusChanged, domain.PortStatusChangedEvent{
			OrgID:             ref.OrgID,
			PortRequestID:     ref.ID,
			ProviderRequestID: providerRequestID,
			Status:            status,
			StatusDetail:      detail,
			OccurredAt:        time.Now().UTC(),
		})
	}
	i.logger.InfoContext(ctx, "Port status applied",
		"provider_request_id", providerRequestID,
		"vendor_status", vendorStatus,
		"status", status,
		"matched", len(refs),
	)
	return &IngestResult{Status: status, Matched: len(refs)}, nil
}
