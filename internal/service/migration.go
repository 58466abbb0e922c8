package service

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/whummer/stripe-xero-sync/internal/config"
	"github.com/whummer/stripe-xero-sync/internal/domain/ledger"
	"github.com/whummer/stripe-xero-sync/internal/domain/source"
	ierr "github.com/whummer/stripe-xero-sync/internal/errors"
	"github.com/whummer/stripe-xero-sync/internal/logger"
	"github.com/whummer/stripe-xero-sync/internal/mapper"
	"github.com/whummer/stripe-xero-sync/internal/types"
	"github.com/whummer/stripe-xero-sync/internal/watermark"
	"github.com/whummer/stripe-xero-sync/internal/window"
)

// MigrationService drives one migration pass. Records are processed
// strictly sequentially, newest first as the source yields them; the
// watermark is persisted before each record and the migrated id after,
// so a crash at any point is recovered by re-running.
type MigrationService struct {
	cfg    *config.Configuration
	logger *logger.Logger
	source source.Repository
	sink   ledger.Repository
	states watermark.Store
	mapper *mapper.Mapper

	// limiter paces destination writes, one submission per pacing delay.
	limiter *rate.Limiter

	// dryRunContacts remembers contacts minted with synthetic ids during
	// a dry run, so repeat customers are not re-resolved and re-logged.
	dryRunContacts map[string]*ledger.Contact
}

// RunSummary aggregates per-record outcomes of one pass.
type RunSummary struct {
	RunID        string
	DryRun       bool
	Fetched      int
	FilteredOut  int
	Skipped      int
	Recorded     int
	Inconsistent int
}

func NewMigrationService(
	cfg *config.Configuration,
	log *logger.Logger,
	src source.Repository,
	sink ledger.Repository,
	states watermark.Store,
	m *mapper.Mapper,
) *MigrationService {
	return &MigrationService{
		cfg:            cfg,
		logger:         log,
		source:         src,
		sink:           sink,
		states:         states,
		mapper:         m,
		limiter:        rate.NewLimiter(rate.Every(cfg.Migration.PacingDelay), 1),
		dryRunContacts: make(map[string]*ledger.Contact),
	}
}

// MigrateInvoices runs one invoice pass over the planned window.
func (s *MigrationService) MigrateInvoices(ctx context.Context) (*RunSummary, error) {
	state, win, summary, err := s.beginRun(ctx, "invoices")
	if err != nil {
		return nil, err
	}

	for inv, err := range s.source.ListInvoices(ctx, win) {
		if err != nil {
			return summary, err
		}
		if summary.Recorded >= s.cfg.Migration.MaxRecords {
			s.logger.Infow("max records reached, halting pass",
				"run_id", summary.RunID,
				"max_records", s.cfg.Migration.MaxRecords)
			break
		}
		summary.Fetched++
		state.Advance(inv.Created)
		if err := s.states.Save(state); err != nil {
			return summary, err
		}
		outcome, err := s.migrateInvoice(ctx, state, inv)
		if err != nil {
			return summary, err
		}
		s.record(summary, outcome)
		if outcome == types.RecordOutcomeRecorded {
			if err := s.limiter.Wait(ctx); err != nil {
				return summary, err
			}
		}
	}
	s.finishRun(summary)
	return summary, nil
}

// MigrateRefunds runs one refund pass over the planned window.
func (s *MigrationService) MigrateRefunds(ctx context.Context) (*RunSummary, error) {
	state, win, summary, err := s.beginRun(ctx, "refunds")
	if err != nil {
		return nil, err
	}

	for refund, err := range s.source.ListRefunds(ctx, win) {
		if err != nil {
			return summary, err
		}
		if summary.Recorded >= s.cfg.Migration.MaxRecords {
			s.logger.Infow("max records reached, halting pass",
				"run_id", summary.RunID,
				"max_records", s.cfg.Migration.MaxRecords)
			break
		}
		summary.Fetched++
		state.Advance(refund.Created)
		if err := s.states.Save(state); err != nil {
			return summary, err
		}
		outcome, err := s.migrateRefund(ctx, state, refund)
		if err != nil {
			return summary, err
		}
		s.record(summary, outcome)
		if outcome == types.RecordOutcomeRecorded {
			if err := s.limiter.Wait(ctx); err != nil {
				return summary, err
			}
		}
	}
	s.finishRun(summary)
	return summary, nil
}

func (s *MigrationService) migrateInvoice(ctx context.Context, state *watermark.State, inv *source.Invoice) (types.RecordOutcome, error) {
	if ok, reason := s.invoiceEligible(inv); !ok {
		s.logger.Debugw("invoice not eligible", "invoice_id", inv.ID, "reason", reason)
		return types.RecordOutcomeFilteredOut, nil
	}
	// In dry runs the migrated set is ignored so the full would-be work
	// is reported.
	if !s.dryRun() && state.HasInvoice(inv.ID) {
		s.logger.Debugw("invoice already migrated", "invoice_id", inv.ID)
		return types.RecordOutcomeSkipped, nil
	}

	contact, err := s.ensureContact(ctx, inv.CustomerID)
	if err != nil {
		return "", err
	}

	spec := s.mapper.MapInvoice(inv, contact)
	existing, err := s.findInvoice(ctx, contact.ID, spec.InvoiceNumber)
	if err != nil {
		return "", err
	}
	if existing != nil {
		s.logger.Infow("destination invoice already exists, marking migrated",
			"invoice_id", inv.ID,
			"invoice_number", existing.InvoiceNumber)
		return types.RecordOutcomeSkipped, s.markInvoice(state, inv.ID)
	}

	created, err := s.createInvoice(ctx, spec)
	if err != nil {
		return "", err
	}
	s.logf("created invoice %s for %s (%s %s)", created.InvoiceNumber, contact.Name, created.Total, created.Currency)

	if spec.Paid() {
		if err := s.createPayment(ctx, &ledger.Payment{
			InvoiceID:   created.ID,
			AccountCode: s.cfg.Xero.PaymentsAccountCode,
			Amount:      spec.Total,
			Currency:    spec.Currency,
			Date:        *spec.FullyPaidOnDate,
		}); err != nil {
			return "", err
		}
	}

	if err := s.migrateFee(ctx, inv, created, spec); err != nil {
		return "", err
	}

	return types.RecordOutcomeRecorded, s.markInvoice(state, inv.ID)
}

// migrateFee creates the payable fee bill for the sales invoice just
// recorded. It is skipped entirely in dry runs: the fee number derives
// from the sales invoice number, which is not durable before a real
// create.
func (s *MigrationService) migrateFee(ctx context.Context, inv *source.Invoice, sales *ledger.Invoice, spec *ledger.Invoice) error {
	if !s.cfg.Migration.CreateFees || s.dryRun() {
		return nil
	}
	merged := *spec
	merged.ID = sales.ID
	merged.InvoiceNumber = sales.InvoiceNumber

	fee := s.mapper.MapFee(inv, &merged)
	if fee == nil {
		return nil
	}
	existing, err := s.findInvoice(ctx, fee.ContactID, fee.InvoiceNumber)
	if err != nil {
		return err
	}
	if existing != nil {
		s.logger.Debugw("fee bill already exists", "invoice_number", existing.InvoiceNumber)
		return nil
	}
	created, err := s.sink.CreateInvoice(ctx, fee)
	if err != nil {
		return err
	}
	s.logf("created fee bill %s (%s %s)", created.InvoiceNumber, created.Total, created.Currency)
	if fee.Paid() {
		return s.sink.CreatePayment(ctx, &ledger.Payment{
			InvoiceID:   created.ID,
			AccountCode: s.cfg.Xero.PaymentsAccountCode,
			Amount:      fee.Total,
			Currency:    fee.Currency,
			Date:        *fee.FullyPaidOnDate,
		})
	}
	return nil
}

func (s *MigrationService) migrateRefund(ctx context.Context, state *watermark.State, refund *source.Refund) (types.RecordOutcome, error) {
	if ok, reason := s.refundEligible(refund); !ok {
		s.logger.Debugw("refund not eligible", "refund_id", refund.ID, "reason", reason)
		return types.RecordOutcomeFilteredOut, nil
	}
	if !s.dryRun() && state.HasRefund(refund.ID) {
		s.logger.Debugw("refund already migrated", "refund_id", refund.ID)
		return types.RecordOutcomeSkipped, nil
	}
	if refund.CustomerID == "" || refund.InvoiceID == "" {
		s.logger.Warnw("refund lacks customer or invoice linkage, skipping",
			"refund_id", refund.ID,
			"customer_id", refund.CustomerID,
			"invoice_id", refund.InvoiceID)
		return types.RecordOutcomeInconsistent, nil
	}

	contact, err := s.ensureContact(ctx, refund.CustomerID)
	if err != nil {
		return "", err
	}

	original, err := s.findInvoice(ctx, contact.ID, refund.InvoiceID)
	if err != nil {
		return "", err
	}
	note, alloc, err := s.mapper.MapRefund(refund, contact, original)
	if err != nil {
		if ierr.IsMappingInconsistency(err) {
			s.logger.Warnw("refund has no destination invoice, skipping",
				"refund_id", refund.ID,
				"source_invoice_id", refund.InvoiceID)
			return types.RecordOutcomeInconsistent, nil
		}
		return "", err
	}

	existing, err := s.findCreditNote(ctx, contact.ID, refund.ID)
	if err != nil {
		return "", err
	}
	if existing != nil {
		s.logger.Infow("destination credit note already exists, marking migrated",
			"refund_id", refund.ID,
			"credit_note_number", existing.Number)
		return types.RecordOutcomeSkipped, s.markRefund(state, refund.ID)
	}

	created, err := s.createCreditNote(ctx, note)
	if err != nil {
		return "", err
	}
	s.logf("created credit note %s for %s (%s %s)", created.Number, contact.Name, created.Total, created.Currency)

	alloc.CreditNoteID = created.ID
	if err := s.createAllocation(ctx, alloc); err != nil {
		return "", err
	}
	if err := s.createPayment(ctx, &ledger.Payment{
		CreditNoteID: created.ID,
		AccountCode:  s.cfg.Xero.PaymentsAccountCode,
		Amount:       note.Total,
		Currency:     note.Currency,
		Date:         note.Date,
	}); err != nil {
		return "", err
	}

	return types.RecordOutcomeRecorded, s.markRefund(state, refund.ID)
}

func (s *MigrationService) invoiceEligible(inv *source.Invoice) (bool, string) {
	start, _ := s.cfg.Migration.StartBound()
	switch {
	case inv.Created.Before(start):
		return false, "created before start date"
	case inv.Total <= 0:
		return false, "zero or negative total"
	case s.cfg.Migration.OnlyPaidInvoices && !inv.Paid:
		return false, "not paid"
	}
	return true, ""
}

func (s *MigrationService) refundEligible(refund *source.Refund) (bool, string) {
	start, _ := s.cfg.Migration.StartBound()
	switch {
	case refund.Created.Before(start):
		return false, "created before start date"
	case refund.Amount <= 0:
		return false, "zero or negative amount"
	}
	return true, ""
}

// findInvoice wraps the sink lookup, treating absence as a nil result.
func (s *MigrationService) findInvoice(ctx context.Context, contactID, key string) (*ledger.Invoice, error) {
	inv, err := s.sink.FindInvoice(ctx, contactID, key)
	if ierr.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return inv, nil
}

func (s *MigrationService) findCreditNote(ctx context.Context, contactID, key string) (*ledger.CreditNote, error) {
	note, err := s.sink.FindCreditNote(ctx, contactID, key)
	if ierr.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return note, nil
}

// ensureContact resolves the destination contact for a source customer,
// creating it on first sight.
func (s *MigrationService) ensureContact(ctx context.Context, customerID string) (*ledger.Contact, error) {
	if s.dryRun() {
		if cached, ok := s.dryRunContacts[customerID]; ok {
			return cached, nil
		}
	}

	contact, err := s.sink.FindContact(ctx, customerID)
	if err == nil {
		return contact, nil
	}
	if !ierr.IsNotFound(err) {
		return nil, err
	}

	customer, err := s.source.GetCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	spec := s.mapper.MapContact(customer)
	if s.dryRun() {
		s.logf("would create contact %s for customer %s", spec.Name, customerID)
		created := *spec
		created.ID = types.GenerateUUID()
		s.dryRunContacts[customerID] = &created
		return &created, nil
	}
	created, err := s.sink.CreateContact(ctx, spec)
	if err != nil {
		return nil, err
	}
	s.logger.Infow("created contact", "name", created.Name, "customer_id", customerID)
	return created, nil
}

func (s *MigrationService) createInvoice(ctx context.Context, spec *ledger.Invoice) (*ledger.Invoice, error) {
	if s.dryRun() {
		created := *spec
		created.ID = types.GenerateUUID()
		return &created, nil
	}
	return s.sink.CreateInvoice(ctx, spec)
}

func (s *MigrationService) createCreditNote(ctx context.Context, note *ledger.CreditNote) (*ledger.CreditNote, error) {
	if s.dryRun() {
		created := *note
		created.ID = types.GenerateUUID()
		return &created, nil
	}
	return s.sink.CreateCreditNote(ctx, note)
}

func (s *MigrationService) createAllocation(ctx context.Context, alloc *ledger.Allocation) error {
	if s.dryRun() {
		s.logf("would allocate %s to invoice %s", alloc.Amount, alloc.InvoiceID)
		return nil
	}
	return s.sink.CreateAllocation(ctx, alloc)
}

func (s *MigrationService) createPayment(ctx context.Context, payment *ledger.Payment) error {
	if s.dryRun() {
		s.logf("would record payment of %s %s", payment.Amount, payment.Currency)
		return nil
	}
	return s.sink.CreatePayment(ctx, payment)
}

// markInvoice records the migrated id durably. Dry runs leave the
// migrated sets untouched.
func (s *MigrationService) markInvoice(state *watermark.State, id string) error {
	if s.dryRun() {
		return nil
	}
	state.MarkInvoice(id)
	return s.states.Save(state)
}

func (s *MigrationService) markRefund(state *watermark.State, id string) error {
	if s.dryRun() {
		return nil
	}
	state.MarkRefund(id)
	return s.states.Save(state)
}

func (s *MigrationService) beginRun(ctx context.Context, pass string) (*watermark.State, types.Window, *RunSummary, error) {
	state, err := s.states.Load()
	if err != nil {
		return nil, types.Window{}, nil, err
	}
	win, err := window.Plan(state, s.cfg.Migration)
	if err != nil {
		return nil, types.Window{}, nil, err
	}

	prefix := types.UUID_PREFIX_RUN
	if s.dryRun() {
		prefix = types.UUID_PREFIX_DRY_RUN
	}
	summary := &RunSummary{
		RunID:  types.GenerateUUIDWithPrefix(prefix),
		DryRun: s.dryRun(),
	}
	s.logger.Infow("starting pass",
		"run_id", summary.RunID,
		"pass", pass,
		"window_start", win.Start,
		"window_end", win.End,
		"dry_run", summary.DryRun)
	return state, win, summary, nil
}

func (s *MigrationService) finishRun(summary *RunSummary) {
	s.logger.Infow("pass finished",
		"run_id", summary.RunID,
		"fetched", summary.Fetched,
		"filtered_out", summary.FilteredOut,
		"skipped", summary.Skipped,
		"recorded", summary.Recorded,
		"inconsistent", summary.Inconsistent)
}

func (s *MigrationService) record(summary *RunSummary, outcome types.RecordOutcome) {
	switch outcome {
	case types.RecordOutcomeFilteredOut:
		summary.FilteredOut++
	case types.RecordOutcomeSkipped:
		summary.Skipped++
	case types.RecordOutcomeRecorded:
		summary.Recorded++
	case types.RecordOutcomeInconsistent:
		summary.Inconsistent++
	}
}

func (s *MigrationService) dryRun() bool {
	return s.cfg.Migration.DryRun
}

// logf logs a progress line, prefixed in dry runs so would-be actions
// are unmistakable in the output.
func (s *MigrationService) logf(format string, args ...any) {
	if s.dryRun() {
		s.logger.Infof(logger.DryRunPrefix+" "+format, args...)
		return
	}
	s.logger.Infof(format, args...)
}
