// Package order owns quotation orders produced by BC3 imports: the import
// version marker, the order header, and its lines.
package order

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Version marks one import attempt. Every order and every concept created
// by an import reference the version that produced them.
type Version struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Order is a quotation header.
type Order struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	VersionID uuid.UUID `json:"version_id"`
	CreatedAt time.Time `json:"created_at"`
}

// LineDraft is a fully resolved order line ready for insertion: the
// concept paired with its catalog item and unit of measure.
type LineDraft struct {
	OrderID   uuid.UUID `json:"order_id"`
	ItemID    uuid.UUID `json:"item_id"`
	UomID     uuid.UUID `json:"uom_id"`
	Quantity  float64   `json:"quantity"`
	UnitPrice float64   `json:"unit_price"`
	Name      string    `json:"name"`
}

// ImportSummary is one row of the import history listing.
type ImportSummary struct {
	OrderID   uuid.UUID `json:"order_id"`
	Title     string    `json:"title"`
	Lines     int       `json:"lines"`
	CreatedAt time.Time `json:"created_at"`
}

// Store is the order port consumed by the import orchestration.
type Store interface {
	CreateVersion(ctx context.Context, name string) (Version, error)
	CreateOrder(ctx context.Context, title string, versionID uuid.UUID) (Order, error)
	CreateLines(ctx context.Context, lines []LineDraft) error
	OrderByID(ctx context.Context, id uuid.UUID) (*Order, []LineDraft, error)
	RecentImports(ctx context.Context, limit int) ([]ImportSummary, error)
}
