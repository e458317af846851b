// Package importer orchestrates a BC3 import end to end: decode the
// payload, extract concepts, reconcile them against the catalog, and
// assemble the quotation order. The sequencing lives here; the parsing
// logic lives in bc3 and the catalog logic in catalog.
package importer

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jvaldeolmillos/bc3-import/internal/bc3"
	"github.com/jvaldeolmillos/bc3-import/internal/catalog"
	"github.com/jvaldeolmillos/bc3-import/internal/database"
	"github.com/jvaldeolmillos/bc3-import/internal/order"
)

var (
	// ErrMissingFile means no payload was supplied.
	ErrMissingFile = errors.New("no file provided")

	// ErrNoConcepts means the file decoded fine but contained zero usable
	// concept records. An empty file and a non-BC3 file both land here.
	ErrNoConcepts = errors.New("no valid concepts were found in the BC3 file")
)

const (
	defaultVersionName = "BC3 Import"
	defaultOrderTitle  = "Imported BC3"
)

// Ports bundles the stores one import touches.
type Ports struct {
	Catalog catalog.Store
	Orders  order.Store
}

// Runner executes fn with ports bound to one atomic unit of work. If fn
// returns an error, nothing fn wrote is visible afterwards.
type Runner interface {
	Run(ctx context.Context, fn func(p Ports) error) error
}

// PgRunner binds ports to a single pgx transaction per run.
type PgRunner struct {
	Pool *pgxpool.Pool
}

func (r *PgRunner) Run(ctx context.Context, fn func(p Ports) error) error {
	return database.WithTx(ctx, r.Pool, func(tx database.DBTX) error {
		return fn(Ports{
			Catalog: catalog.NewPgStore(tx),
			Orders:  order.NewPgStore(tx),
		})
	})
}

// Result describes a completed import.
type Result struct {
	OrderID   uuid.UUID        `json:"order_id"`
	VersionID uuid.UUID        `json:"version_id"`
	Title     string           `json:"title"`
	Lines     int              `json:"lines"`
	Stats     bc3.ExtractStats `json:"stats"`
}

// Service runs imports. One Import call is one end-to-end, synchronous,
// all-or-nothing operation.
type Service struct {
	runner     Runner
	defaultUom string
}

// NewService creates an import service. defaultUom names the fallback
// unit of measure; empty means the catalog default.
func NewService(runner Runner, defaultUom string) *Service {
	return &Service{runner: runner, defaultUom: defaultUom}
}

// Import processes one uploaded BC3 file and creates a quotation order
// from its concepts.
//
// The returned errors worth branching on: ErrMissingFile, bc3.ErrUndecodable,
// ErrNoConcepts. Per-line problems never fail an import; they are logged
// and counted in Result.Stats.
func (s *Service) Import(ctx context.Context, fileName string, data []byte) (*Result, error) {
	if len(data) == 0 {
		return nil, ErrMissingFile
	}

	lines, err := bc3.DecodeLines(data)
	if err != nil {
		return nil, err
	}

	var result *Result
	err = s.runner.Run(ctx, func(p Ports) error {
		version, err := p.Orders.CreateVersion(ctx, orDefault(fileName, defaultVersionName))
		if err != nil {
			return err
		}

		concepts, stats := bc3.ExtractConcepts(lines, version.ID)
		if len(concepts) == 0 {
			return ErrNoConcepts
		}

		o, err := p.Orders.CreateOrder(ctx, orDefault(fileName, defaultOrderTitle), version.ID)
		if err != nil {
			return err
		}

		reconciler := catalog.NewReconciler(p.Catalog, s.defaultUom)
		drafts := make([]order.LineDraft, 0, len(concepts))
		for _, c := range concepts {
			draft, err := reconciler.ResolveLine(ctx, c, o.ID)
			if err != nil {
				return err
			}
			drafts = append(drafts, draft)
		}

		if err := p.Orders.CreateLines(ctx, drafts); err != nil {
			return err
		}

		result = &Result{
			OrderID:   o.ID,
			VersionID: version.ID,
			Title:     o.Title,
			Lines:     len(drafts),
			Stats:     stats,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("bc3 import complete",
		"order_id", result.OrderID,
		"file", fileName,
		"lines", result.Lines,
		"malformed", result.Stats.Malformed,
		"price_errors", result.Stats.PriceErrors,
	)
	return result, nil
}

// Order returns an imported order with its lines, or (nil, nil, nil)
// when the order does not exist.
func (s *Service) Order(ctx context.Context, id uuid.UUID) (*order.Order, []order.LineDraft, error) {
	var (
		o     *order.Order
		lines []order.LineDraft
	)
	err := s.runner.Run(ctx, func(p Ports) error {
		var err error
		o, lines, err = p.Orders.OrderByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return o, lines, nil
}

// RecentImports lists the most recent imports, newest first.
func (s *Service) RecentImports(ctx context.Context, limit int) ([]order.ImportSummary, error) {
	var imports []order.ImportSummary
	err := s.runner.Run(ctx, func(p Ports) error {
		var err error
		imports, err = p.Orders.RecentImports(ctx, limit)
		return err
	})
	if err != nil {
		return nil, err
	}
	return imports, nil
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
