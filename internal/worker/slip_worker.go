package worker

// slip_worker.go
// Processes transfer slip jobs: resolves the committed transfer, renders the
// PDF slip and mails it to the back office. SMTP sends go through a circuit
// breaker so a flapping mail gateway fails fast instead of stalling workers.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/osama347/general-store-management-system-sub000/internal/infra"
	"github.com/osama347/general-store-management-system-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// SlipWorker generates and mails transfer slips.
type SlipWorker struct {
	transfers   repository.TransferRepository
	catalog     repository.CatalogRepository
	directory   repository.LocationRepository
	mailer      *infra.Mailer
	breaker     *infra.CircuitBreaker
	storagePath string
	opsEmail    string
}

func NewSlipWorker(
	transfers repository.TransferRepository,
	catalog repository.CatalogRepository,
	directory repository.LocationRepository,
	mailer *infra.Mailer,
	breaker *infra.CircuitBreaker,
	storagePath, opsEmail string,
) *SlipWorker {
	return &SlipWorker{
		transfers:   transfers,
		catalog:     catalog,
		directory:   directory,
		mailer:      mailer,
		breaker:     breaker,
		storagePath: storagePath,
		opsEmail:    opsEmail,
	}
}

// Process renders and sends one slip. A returned error triggers a retry and
// eventually the DLQ; the transfer itself is already committed and unaffected.
func (w *SlipWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload SlipJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("slip_worker: invalid payload")
		return nil // malformed jobs are not retryable
	}

	t, err := w.transfers.FindByID(ctx, payload.TransferID)
	if err != nil {
		return fmt.Errorf("slip_worker: load transfer %d: %w", payload.TransferID, err)
	}

	slip := infra.SlipData{
		TransferID:  t.TransferID,
		Quantity:    t.Quantity,
		PerformedBy: t.PerformedBy,
		CreatedAt:   t.CreatedAt,
	}
	if p, err := w.catalog.GetProduct(ctx, t.ProductID); err == nil {
		slip.ProductName = p.Name
		slip.ProductSKU = p.SKU
	} else {
		slip.ProductName = t.ProductID.String()
	}
	slip.FromLocation = w.locationName(ctx, t.FromLocationID.String())
	slip.ToLocation = w.locationName(ctx, t.ToLocationID.String())

	pdfPath, err := infra.GenerateTransferSlipPDF(slip, w.storagePath)
	if err != nil {
		return fmt.Errorf("slip_worker: generate pdf: %w", err)
	}

	if w.opsEmail == "" {
		log.Debug().Uint64("transfer_id", t.TransferID).Msg("slip_worker: no ops email configured — slip stored only")
		return nil
	}

	subject := fmt.Sprintf("Transfer slip #%d — %s", t.TransferID, slip.ProductName)
	body := fmt.Sprintf("%d × %s moved from %s to %s by %s.",
		t.Quantity, slip.ProductName, slip.FromLocation, slip.ToLocation, t.PerformedBy)

	sendErr := w.breaker.Execute(func() error {
		return w.mailer.SendSlip(w.opsEmail, subject, body, pdfPath)
	})
	if sendErr != nil {
		return fmt.Errorf("slip_worker: send email: %w", sendErr)
	}

	log.Info().Uint64("transfer_id", t.TransferID).Msg("slip_worker: slip sent")
	return nil
}

func (w *SlipWorker) locationName(ctx context.Context, id string) string {
	locID, err := uuid.Parse(id)
	if err != nil {
		return id
	}
	loc, err := w.directory.GetLocation(ctx, locID)
	if err != nil {
		return id
	}
	return loc.Name
}
