package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/jvaldeolmillos/bc3-import/internal/database"
)

// PgStore implements Store against PostgreSQL. It accepts any DBTX so the
// same store works on a pool or inside a transaction.
type PgStore struct {
	db database.DBTX
}

// NewPgStore creates a catalog store bound to db.
func NewPgStore(db database.DBTX) *PgStore {
	return &PgStore{db: db}
}

func (s *PgStore) UnitByName(ctx context.Context, name string) (*UnitOfMeasure, error) {
	var u UnitOfMeasure
	err := s.db.QueryRow(ctx, `
		select id, name
		from uoms
		where name = $1
	`, name).Scan(&u.ID, &u.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup uom %q: %w", name, err)
	}
	return &u, nil
}

func (s *PgStore) ItemByCode(ctx context.Context, code string) (*Item, error) {
	var (
		item  Item
		price pgtype.Numeric
	)
	err := s.db.QueryRow(ctx, `
		select id, code, name, kind, sale_uom_id, purchase_uom_id, list_price
		from catalog_items
		where code = $1
	`, code).Scan(&item.ID, &item.Code, &item.Name, &item.Kind,
		&item.SaleUomID, &item.PurchaseUomID, &price)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup catalog item %q: %w", code, err)
	}

	f, err := price.Float64Value()
	if err != nil {
		return nil, fmt.Errorf("catalog item %q list price: %w", code, err)
	}
	item.ListPrice = f.Float64
	return &item, nil
}

func (s *PgStore) CreateItem(ctx context.Context, item Item) error {
	_, err := s.db.Exec(ctx, `
		insert into catalog_items (id, code, name, kind, sale_uom_id, purchase_uom_id, list_price)
		values ($1, $2, $3, $4, $5, $6, $7)
	`, item.ID, item.Code, item.Name, item.Kind,
		item.SaleUomID, item.PurchaseUomID, item.ListPrice)
	if err != nil {
		return fmt.Errorf("create catalog item %q: %w", item.Code, err)
	}
	return nil
}
