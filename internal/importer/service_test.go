package importer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/jvaldeolmillos/bc3-import/internal/bc3"
	"github.com/jvaldeolmillos/bc3-import/internal/catalog"
	"github.com/jvaldeolmillos/bc3-import/internal/order"
)

// memCatalog is an in-memory catalog.Store.
type memCatalog struct {
	units []catalog.UnitOfMeasure
	items []catalog.Item
}

func (m *memCatalog) UnitByName(_ context.Context, name string) (*catalog.UnitOfMeasure, error) {
	for i := range m.units {
		if m.units[i].Name == name {
			return &m.units[i], nil
		}
	}
	return nil, nil
}

func (m *memCatalog) ItemByCode(_ context.Context, code string) (*catalog.Item, error) {
	for i := range m.items {
		if m.items[i].Code == code {
			return &m.items[i], nil
		}
	}
	return nil, nil
}

func (m *memCatalog) CreateItem(_ context.Context, item catalog.Item) error {
	m.items = append(m.items, item)
	return nil
}

// memOrders is an in-memory order.Store.
type memOrders struct {
	versions []order.Version
	orders   []order.Order
	lines    []order.LineDraft
}

func (m *memOrders) CreateVersion(_ context.Context, name string) (order.Version, error) {
	v := order.Version{ID: uuid.New(), Name: name, CreatedAt: time.Now()}
	m.versions = append(m.versions, v)
	return v, nil
}

func (m *memOrders) CreateOrder(_ context.Context, title string, versionID uuid.UUID) (order.Order, error) {
	o := order.Order{ID: uuid.New(), Title: title, VersionID: versionID, CreatedAt: time.Now()}
	m.orders = append(m.orders, o)
	return o, nil
}

func (m *memOrders) CreateLines(_ context.Context, lines []order.LineDraft) error {
	m.lines = append(m.lines, lines...)
	return nil
}

func (m *memOrders) OrderByID(_ context.Context, id uuid.UUID) (*order.Order, []order.LineDraft, error) {
	for i := range m.orders {
		if m.orders[i].ID == id {
			var lines []order.LineDraft
			for _, l := range m.lines {
				if l.OrderID == id {
					lines = append(lines, l)
				}
			}
			return &m.orders[i], lines, nil
		}
	}
	return nil, nil, nil
}

func (m *memOrders) RecentImports(_ context.Context, limit int) ([]order.ImportSummary, error) {
	var imports []order.ImportSummary
	for i := len(m.orders) - 1; i >= 0 && len(imports) < limit; i-- {
		o := m.orders[i]
		count := 0
		for _, l := range m.lines {
			if l.OrderID == o.ID {
				count++
			}
		}
		imports = append(imports, order.ImportSummary{
			OrderID:   o.ID,
			Title:     o.Title,
			Lines:     count,
			CreatedAt: o.CreatedAt,
		})
	}
	return imports, nil
}

// memRunner runs fn against shared in-memory stores, no transactionality.
type memRunner struct {
	catalog *memCatalog
	orders  *memOrders
}

func (r *memRunner) Run(_ context.Context, fn func(p Ports) error) error {
	return fn(Ports{Catalog: r.catalog, Orders: r.orders})
}

func newTestService() (*Service, *memRunner) {
	runner := &memRunner{
		catalog: &memCatalog{
			units: []catalog.UnitOfMeasure{
				{ID: uuid.New(), Name: catalog.DefaultUomName},
				{ID: uuid.New(), Name: "m2"},
			},
		},
		orders: &memOrders{},
	}
	return NewService(runner, ""), runner
}

func TestImport_MissingFile(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Import(context.Background(), "budget.bc3", nil)
	if !errors.Is(err, ErrMissingFile) {
		t.Fatalf("Import(nil) error = %v, want ErrMissingFile", err)
	}
}

func TestImport_Undecodable(t *testing.T) {
	svc, runner := newTestService()

	_, err := svc.Import(context.Background(), "budget.bc3", []byte{'a', 0x81})
	if !errors.Is(err, bc3.ErrUndecodable) {
		t.Fatalf("Import() error = %v, want bc3.ErrUndecodable", err)
	}
	if len(runner.orders.orders) != 0 {
		t.Error("order created despite decode failure")
	}
}

func TestImport_NoConcepts(t *testing.T) {
	svc, runner := newTestService()

	_, err := svc.Import(context.Background(), "budget.bc3", []byte("~V|header|\n~T|A1|text|\n"))
	if !errors.Is(err, ErrNoConcepts) {
		t.Fatalf("Import() error = %v, want ErrNoConcepts", err)
	}
	if len(runner.orders.orders) != 0 {
		t.Error("order created despite zero concepts")
	}
}

func TestImport_SingleConcept(t *testing.T) {
	svc, runner := newTestService()

	result, err := svc.Import(context.Background(), "budget.bc3",
		[]byte("~C|A1|m2|Concrete wall|12,50\n"))
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}

	if result.Lines != 1 {
		t.Errorf("result.Lines = %d, want 1", result.Lines)
	}
	if result.Title != "budget.bc3" {
		t.Errorf("result.Title = %q, want file name", result.Title)
	}
	if len(runner.orders.lines) != 1 {
		t.Fatalf("len(lines) = %d, want 1", len(runner.orders.lines))
	}
	line := runner.orders.lines[0]
	if line.UnitPrice != 12.50 {
		t.Errorf("line.UnitPrice = %v, want 12.50", line.UnitPrice)
	}
	if line.Quantity != 1.0 {
		t.Errorf("line.Quantity = %v, want 1.0", line.Quantity)
	}
	if line.OrderID != result.OrderID {
		t.Errorf("line.OrderID = %v, want %v", line.OrderID, result.OrderID)
	}
}

func TestImport_DefaultTitleWhenNoFilename(t *testing.T) {
	svc, runner := newTestService()

	result, err := svc.Import(context.Background(), "", []byte("~C|A1|m2|Wall|1\n"))
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if result.Title != "Imported BC3" {
		t.Errorf("result.Title = %q, want %q", result.Title, "Imported BC3")
	}
	if runner.orders.versions[0].Name != "BC3 Import" {
		t.Errorf("version name = %q, want %q", runner.orders.versions[0].Name, "BC3 Import")
	}
}

func TestImport_SkippedLinesSurfaceInStats(t *testing.T) {
	svc, _ := newTestService()

	file := "~C|A1|m2|Good|1\n" +
		"~C|A2|m2|Short\n" +
		"~C|A3|m2|Bad price|abc\n"
	result, err := svc.Import(context.Background(), "budget.bc3", []byte(file))
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}

	if result.Stats.Malformed != 1 || result.Stats.PriceErrors != 1 {
		t.Errorf("result.Stats = %+v", result.Stats)
	}
	if result.Lines != 1 {
		t.Errorf("result.Lines = %d, want 1", result.Lines)
	}
}

func TestImport_VersionTagsConcepts(t *testing.T) {
	svc, runner := newTestService()

	result, err := svc.Import(context.Background(), "budget.bc3", []byte("~C|A1|m2|Wall|1\n"))
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}

	if len(runner.orders.versions) != 1 {
		t.Fatalf("len(versions) = %d, want 1", len(runner.orders.versions))
	}
	if result.VersionID != runner.orders.versions[0].ID {
		t.Errorf("result.VersionID = %v, want %v", result.VersionID, runner.orders.versions[0].ID)
	}
	if runner.orders.orders[0].VersionID != result.VersionID {
		t.Error("order not tagged with the import version")
	}
}

func TestOrder_RoundTrip(t *testing.T) {
	svc, _ := newTestService()

	result, err := svc.Import(context.Background(), "budget.bc3",
		[]byte("~C|A1|m2|Wall|2,5\n~C|A2|ud|Door|30\n"))
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}

	o, lines, err := svc.Order(context.Background(), result.OrderID)
	if err != nil {
		t.Fatalf("Order() error = %v", err)
	}
	if o == nil {
		t.Fatal("Order() = nil, want the imported order")
	}
	if len(lines) != 2 {
		t.Errorf("len(lines) = %d, want 2", len(lines))
	}

	missing, _, err := svc.Order(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("Order(unknown) error = %v", err)
	}
	if missing != nil {
		t.Error("Order(unknown) found an order")
	}
}

func TestRecentImports(t *testing.T) {
	svc, _ := newTestService()

	for _, name := range []string{"first.bc3", "second.bc3"} {
		if _, err := svc.Import(context.Background(), name, []byte("~C|A1|m2|Wall|1\n")); err != nil {
			t.Fatalf("Import(%s) error = %v", name, err)
		}
	}

	imports, err := svc.RecentImports(context.Background(), 10)
	if err != nil {
		t.Fatalf("RecentImports() error = %v", err)
	}
	if len(imports) != 2 {
		t.Fatalf("len(imports) = %d, want 2", len(imports))
	}
	if imports[0].Title != "second.bc3" {
		t.Errorf("imports[0].Title = %q, want newest first", imports[0].Title)
	}
	if imports[0].Lines != 1 {
		t.Errorf("imports[0].Lines = %d, want 1", imports[0].Lines)
	}
}
