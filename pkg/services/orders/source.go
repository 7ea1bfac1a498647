package orders

import (
	"context"
	"fmt"

	"github.com/de-tools/tax-atlas/pkg/models/domain"
)

// Source retrieves raw order line items from the upstream order-data feed for
// one chunk at a time. Implementations must respect the 31-day per-request
// limit enforced by the chunking layer and are the only place blocking I/O
// happens in a report run.
type Source interface {
	FetchOrders(ctx context.Context, chunk domain.Period) ([]domain.OrderLineItem, error)
}

// TransientError marks an upstream failure worth retrying, such as throttling
// or a report that is still being generated.
type TransientError struct {
	Op  string
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("transient fetch failure during %s: %v", e.Op, e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

// DataShapeError reports a required field missing from the upstream row set.
type DataShapeError struct {
	Field string
}

func (e *DataShapeError) Error() string {
	return fmt.Sprintf("required field %q is missing from the order data", e.Field)
}
