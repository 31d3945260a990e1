package query

import (
	"context"

	"github.com/kopofin/hanabank/internal/events"
	"github.com/kopofin/hanabank/internal/models"
)

// CustomerLookup resolves a customer id back to its phone number for cache
// invalidation.
type CustomerLookup interface {
	GetByID(id int64) (*models.Customer, error)
}

// SnapshotInvalidator returns an event handler that drops cached customer
// snapshots whenever an account lifecycle or balance event lands. Events
// carry the phone number when the publisher had it; otherwise the customer
// id is resolved back to one. Events carrying neither key are ignored.
func SnapshotInvalidator(svc *IntegrationQueryService, customers CustomerLookup) events.Handler {
	return func(ctx context.Context, event events.Event) error {
		data, ok := event.Data.(map[string]any)
		if !ok {
			return nil
		}
		if phone, ok := data["phoneNumber"].(string); ok && phone != "" {
			svc.InvalidateSnapshot(ctx, phone)
			return nil
		}
		id, ok := data["customerId"].(float64)
		if !ok || id <= 0 {
			return nil
		}
		customer, err := customers.GetByID(int64(id))
		if err != nil {
			return err
		}
		svc.InvalidateSnapshot(ctx, customer.PhoneNumber)
		return nil
	}
}
