// Package catalog owns unit-of-measure and catalog item resolution for
// imported budget concepts. The reconciler works against the narrow Store
// interface so the logic is testable with an in-memory fake.
package catalog

import (
	"context"

	"github.com/google/uuid"
)

// ItemKindService marks catalog items created from budget concepts.
// Imported concepts describe work performed, not stocked goods.
const ItemKindService = "service"

// UnitOfMeasure is a unit as known to the host catalog.
type UnitOfMeasure struct {
	ID   uuid.UUID
	Name string
}

// Item is a catalog item. Code is the internal reference used for
// exact-match lookup during reconciliation.
type Item struct {
	ID            uuid.UUID
	Code          string
	Name          string
	Kind          string
	SaleUomID     uuid.UUID
	PurchaseUomID uuid.UUID
	ListPrice     float64
}

// Store is the catalog port. Lookups return (nil, nil) on a clean miss;
// an error means the lookup itself failed.
type Store interface {
	// UnitByName finds a unit whose display name exactly equals name.
	UnitByName(ctx context.Context, name string) (*UnitOfMeasure, error)

	// ItemByCode finds an item whose internal reference exactly equals code.
	ItemByCode(ctx context.Context, code string) (*Item, error)

	// CreateItem inserts a new catalog item.
	CreateItem(ctx context.Context, item Item) error
}
