package telemetry

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MeterName names the meter for ledger instruments
const MeterName = "ledger"

// LedgerMetrics holds the business counters recorded by the services.
// A nil *LedgerMetrics records nothing.
type LedgerMetrics struct {
	vouchersCreated *Counter
	vouchersPosted  *Counter
	voucherAmount   *Histogram
	deletesBlocked  *Counter
	duplicates      *Counter
}

// NewLedgerMetrics registers the ledger instruments on meter
func NewLedgerMetrics(meter metric.Meter) (*LedgerMetrics, error) {
	var (
		m   LedgerMetrics
		err error
	)
	if m.vouchersCreated, err = NewCounter(meter, "ledger.vouchers.created", "Vouchers saved as draft", "{voucher}"); err != nil {
		return nil, err
	}
	if m.vouchersPosted, err = NewCounter(meter, "ledger.vouchers.posted", "Vouchers posted to the ledger", "{voucher}"); err != nil {
		return nil, err
	}
	if m.voucherAmount, err = NewHistogram(meter, "ledger.voucher.amount", "Total debit of posted vouchers", "1"); err != nil {
		return nil, err
	}
	if m.deletesBlocked, err = NewCounter(meter, "ledger.deletes.blocked", "Deletes refused because the record is referenced", "{request}"); err != nil {
		return nil, err
	}
	if m.duplicates, err = NewCounter(meter, "ledger.duplicates.rejected", "Writes rejected by a unique index", "{request}"); err != nil {
		return nil, err
	}
	return &m, nil
}

func companyAttr(companyID uuid.UUID) attribute.KeyValue {
	return attribute.String("company_id", companyID.String())
}

// VoucherCreated counts a new draft voucher
func (m *LedgerMetrics) VoucherCreated(ctx context.Context, companyID uuid.UUID, voucherType string) {
	if m == nil {
		return
	}
	m.vouchersCreated.Inc(ctx, companyAttr(companyID), attribute.String("voucher_type", voucherType))
}

// VoucherPosted counts a posting and records its total
func (m *LedgerMetrics) VoucherPosted(ctx context.Context, companyID uuid.UUID, voucherType string, total float64) {
	if m == nil {
		return
	}
	attrs := []attribute.KeyValue{companyAttr(companyID), attribute.String("voucher_type", voucherType)}
	m.vouchersPosted.Inc(ctx, attrs...)
	m.voucherAmount.Record(ctx, total, attrs...)
}

// DeleteBlocked counts a delete refused by the reference check
func (m *LedgerMetrics) DeleteBlocked(ctx context.Context, resource string) {
	if m == nil {
		return
	}
	m.deletesBlocked.Inc(ctx, attribute.String("resource", resource))
}

// DuplicateRejected counts a write refused by a unique index
func (m *LedgerMetrics) DuplicateRejected(ctx context.Context, resource string) {
	if m == nil {
		return
	}
	m.duplicates.Inc(ctx, attribute.String("resource", resource))
}
