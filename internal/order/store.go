package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/jvaldeolmillos/bc3-import/internal/database"
)

// PgStore implements Store against PostgreSQL.
type PgStore struct {
	db database.DBTX
}

// NewPgStore creates an order store bound to db.
func NewPgStore(db database.DBTX) *PgStore {
	return &PgStore{db: db}
}

func (s *PgStore) CreateVersion(ctx context.Context, name string) (Version, error) {
	v := Version{ID: uuid.New(), Name: name}
	err := s.db.QueryRow(ctx, `
		insert into import_versions (id, name)
		values ($1, $2)
		returning created_at
	`, v.ID, v.Name).Scan(&v.CreatedAt)
	if err != nil {
		return Version{}, fmt.Errorf("create import version: %w", err)
	}
	return v, nil
}

func (s *PgStore) CreateOrder(ctx context.Context, title string, versionID uuid.UUID) (Order, error) {
	o := Order{ID: uuid.New(), Title: title, VersionID: versionID}
	err := s.db.QueryRow(ctx, `
		insert into orders (id, title, version_id)
		values ($1, $2, $3)
		returning created_at
	`, o.ID, o.Title, o.VersionID).Scan(&o.CreatedAt)
	if err != nil {
		return Order{}, fmt.Errorf("create order: %w", err)
	}
	return o, nil
}

func (s *PgStore) CreateLines(ctx context.Context, lines []LineDraft) error {
	for _, l := range lines {
		_, err := s.db.Exec(ctx, `
			insert into order_lines (order_id, item_id, uom_id, quantity, unit_price, name)
			values ($1, $2, $3, $4, $5, $6)
		`, l.OrderID, l.ItemID, l.UomID, l.Quantity, l.UnitPrice, l.Name)
		if err != nil {
			return fmt.Errorf("create order line %q: %w", l.Name, err)
		}
	}
	return nil
}

func (s *PgStore) OrderByID(ctx context.Context, id uuid.UUID) (*Order, []LineDraft, error) {
	var o Order
	err := s.db.QueryRow(ctx, `
		select id, title, version_id, created_at
		from orders
		where id = $1
	`, id).Scan(&o.ID, &o.Title, &o.VersionID, &o.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("lookup order %s: %w", id, err)
	}

	rows, err := s.db.Query(ctx, `
		select order_id, item_id, uom_id, quantity, unit_price, name
		from order_lines
		where order_id = $1
		order by name
	`, id)
	if err != nil {
		return nil, nil, fmt.Errorf("list order lines: %w", err)
	}
	defer rows.Close()

	var lines []LineDraft
	for rows.Next() {
		var (
			l     LineDraft
			qty   pgtype.Numeric
			price pgtype.Numeric
		)
		if err := rows.Scan(&l.OrderID, &l.ItemID, &l.UomID, &qty, &price, &l.Name); err != nil {
			return nil, nil, fmt.Errorf("scan order line: %w", err)
		}
		if l.Quantity, err = numericFloat(qty); err != nil {
			return nil, nil, fmt.Errorf("order line quantity: %w", err)
		}
		if l.UnitPrice, err = numericFloat(price); err != nil {
			return nil, nil, fmt.Errorf("order line unit price: %w", err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate order lines: %w", err)
	}

	return &o, lines, nil
}

func (s *PgStore) RecentImports(ctx context.Context, limit int) ([]ImportSummary, error) {
	rows, err := s.db.Query(ctx, `
		select o.id, o.title, count(l.*), o.created_at
		from orders o
		left join order_lines l on l.order_id = o.id
		group by o.id
		order by o.created_at desc
		limit $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list imports: %w", err)
	}
	defer rows.Close()

	var imports []ImportSummary
	for rows.Next() {
		var imp ImportSummary
		if err := rows.Scan(&imp.OrderID, &imp.Title, &imp.Lines, &imp.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan import summary: %w", err)
		}
		imports = append(imports, imp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate imports: %w", err)
	}

	return imports, nil
}

func numericFloat(n pgtype.Numeric) (float64, error) {
	f, err := n.Float64Value()
	if err != nil {
		return 0, err
	}
	return f.Float64, nil
}
