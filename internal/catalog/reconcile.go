package catalog

// reconcile.go turns extracted concepts into order line drafts, resolving
// or creating the catalog records they reference.
//
// Resolution is asymmetric on purpose, matching how site offices actually
// maintain their catalogs: an unknown unit name falls back to the default
// unit and is never created, while an unknown item is created on the spot.

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/jvaldeolmillos/bc3-import/internal/bc3"
	"github.com/jvaldeolmillos/bc3-import/internal/order"
)

// DefaultUomName is the display name of the fallback unit. The schema
// seeds it; a catalog without it is misconfigured.
const DefaultUomName = "Units"

// Reconciler resolves concepts against the catalog.
type Reconciler struct {
	store      Store
	defaultUom string
}

// NewReconciler creates a reconciler over store. defaultUom may be empty,
// in which case DefaultUomName is used.
func NewReconciler(store Store, defaultUom string) *Reconciler {
	if defaultUom == "" {
		defaultUom = DefaultUomName
	}
	return &Reconciler{store: store, defaultUom: defaultUom}
}

// ResolveLine resolves one concept into an order line draft, creating a
// catalog item when no existing item matches the concept's description.
//
// Item creation is a read-then-write with no claim on the code: two
// overlapping imports racing on the same description can both create an
// item. Callers are expected to run imports inside one transaction and
// not concurrently against overlapping files.
func (r *Reconciler) ResolveLine(ctx context.Context, c bc3.Concept, orderID uuid.UUID) (order.LineDraft, error) {
	uom, err := r.resolveUnit(ctx, c.Uom)
	if err != nil {
		return order.LineDraft{}, err
	}

	item, err := r.store.ItemByCode(ctx, c.Description)
	if err != nil {
		return order.LineDraft{}, err
	}
	if item == nil {
		item = &Item{
			ID:            uuid.New(),
			Code:          c.Description,
			Name:          c.Description,
			Kind:          ItemKindService,
			SaleUomID:     uom.ID,
			PurchaseUomID: uom.ID,
			ListPrice:     c.Price,
		}
		if err := r.store.CreateItem(ctx, *item); err != nil {
			return order.LineDraft{}, err
		}
		slog.Info("created catalog item for concept",
			"code", c.Code,
			"item", item.Code,
		)
	}

	return order.LineDraft{
		OrderID:   orderID,
		ItemID:    item.ID,
		UomID:     uom.ID,
		Quantity:  c.Quantity,
		UnitPrice: c.Price,
		Name:      c.Description,
	}, nil
}

// resolveUnit finds the unit matching name, falling back to the default
// unit. Units are never created here.
func (r *Reconciler) resolveUnit(ctx context.Context, name string) (*UnitOfMeasure, error) {
	for _, candidate := range []string{name, r.defaultUom} {
		uom, err := r.store.UnitByName(ctx, candidate)
		if err != nil {
			return nil, err
		}
		if uom != nil {
			return uom, nil
		}
	}
	return nil, fmt.Errorf("default unit of measure %q is missing from the catalog", r.defaultUom)
}
