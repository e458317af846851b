package bc3

import (
	"testing"

	"github.com/google/uuid"
)

func TestExtractConcepts_SingleLine(t *testing.T) {
	version := uuid.New()
	concepts, stats := ExtractConcepts([]string{"~C|A1|m2|Concrete wall|12,50"}, version)

	if len(concepts) != 1 {
		t.Fatalf("len(concepts) = %d, want 1", len(concepts))
	}
	c, ok := concepts["A1"]
	if !ok {
		t.Fatal("concepts[A1] missing")
	}
	if c.Code != "A1" || c.Uom != "m2" || c.Description != "Concrete wall" {
		t.Errorf("concept = %+v", c)
	}
	if c.Price != 12.50 {
		t.Errorf("Price = %v, want 12.50", c.Price)
	}
	if c.Quantity != 1.0 {
		t.Errorf("Quantity = %v, want 1.0", c.Quantity)
	}
	if c.VersionID != version {
		t.Errorf("VersionID = %v, want %v", c.VersionID, version)
	}
	if stats.ConceptLines != 1 {
		t.Errorf("stats.ConceptLines = %d, want 1", stats.ConceptLines)
	}
}

func TestExtractConcepts_CommaAndDotPricesEqual(t *testing.T) {
	comma, _ := ExtractConcepts([]string{"~C|A1|m2|X|1,50"}, uuid.Nil)
	dot, _ := ExtractConcepts([]string{"~C|A1|m2|X|1.50"}, uuid.Nil)

	if comma["A1"].Price != dot["A1"].Price {
		t.Errorf("comma price %v != dot price %v", comma["A1"].Price, dot["A1"].Price)
	}
	if comma["A1"].Price != 1.50 {
		t.Errorf("Price = %v, want 1.50", comma["A1"].Price)
	}
}

func TestExtractConcepts_EmptyPriceIsZero(t *testing.T) {
	concepts, stats := ExtractConcepts([]string{"~C|A1|m2|Concrete wall|"}, uuid.Nil)

	if c := concepts["A1"]; c.Price != 0.0 {
		t.Errorf("Price = %v, want 0.0", c.Price)
	}
	if stats.PriceErrors != 0 {
		t.Errorf("stats.PriceErrors = %d, want 0", stats.PriceErrors)
	}
}

func TestExtractConcepts_SkipsLines(t *testing.T) {
	tests := []struct {
		name      string
		line      string
		wantStats ExtractStats
	}{
		{
			name:      "empty code",
			line:      "~C||m2|No code|5",
			wantStats: ExtractStats{EmptyCode: 1},
		},
		{
			name:      "too few fields",
			line:      "~C|A2|m2|Bad",
			wantStats: ExtractStats{Malformed: 1},
		},
		{
			name:      "unparseable price",
			line:      "~C|A3|m2|Bad price|abc",
			wantStats: ExtractStats{PriceErrors: 1},
		},
		{
			name:      "negative price",
			line:      "~C|A4|m2|Below zero|-3,5",
			wantStats: ExtractStats{PriceErrors: 1},
		},
		{
			name:      "non-finite price",
			line:      "~C|A5|m2|Weird|inf",
			wantStats: ExtractStats{PriceErrors: 1},
		},
		{
			name:      "other record type",
			line:      "~V|FIEBDC-3/2016|",
			wantStats: ExtractStats{},
		},
		{
			name:      "blank line",
			line:      "   ",
			wantStats: ExtractStats{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			concepts, stats := ExtractConcepts([]string{tt.line}, uuid.Nil)
			if len(concepts) != 0 {
				t.Errorf("len(concepts) = %d, want 0", len(concepts))
			}
			if stats != tt.wantStats {
				t.Errorf("stats = %+v, want %+v", stats, tt.wantStats)
			}
		})
	}
}

func TestExtractConcepts_BadLineDoesNotAbort(t *testing.T) {
	lines := []string{
		"~C|A1|m2|Good|1",
		"~C|A2|m2|Bad",
		"~C|A3|m2|Bad price|abc",
		"~C|A4|ud|Also good|2,25",
	}
	concepts, stats := ExtractConcepts(lines, uuid.Nil)

	if len(concepts) != 2 {
		t.Fatalf("len(concepts) = %d, want 2", len(concepts))
	}
	if _, ok := concepts["A4"]; !ok {
		t.Error("extraction stopped before A4")
	}
	if stats.Malformed != 1 || stats.PriceErrors != 1 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestExtractConcepts_LastDuplicateWins(t *testing.T) {
	lines := []string{
		"~C|A1|m2|First description|1,00",
		"~C|A1|ud|Second description|2,00",
	}
	concepts, _ := ExtractConcepts(lines, uuid.Nil)

	if len(concepts) != 1 {
		t.Fatalf("len(concepts) = %d, want 1", len(concepts))
	}
	c := concepts["A1"]
	if c.Description != "Second description" || c.Uom != "ud" || c.Price != 2.00 {
		t.Errorf("concept = %+v, want later line's data", c)
	}
}

func TestExtractConcepts_ExtraFieldsIgnored(t *testing.T) {
	concepts, _ := ExtractConcepts([]string{"~C|A1|m2|Wall|3|0|extra|junk"}, uuid.Nil)

	c, ok := concepts["A1"]
	if !ok {
		t.Fatal("concepts[A1] missing")
	}
	if c.Price != 3 {
		t.Errorf("Price = %v, want 3", c.Price)
	}
}

func TestExtractConcepts_TrimsSurroundingWhitespace(t *testing.T) {
	concepts, _ := ExtractConcepts([]string{"  ~C|A1|m2|Wall|3  "}, uuid.Nil)

	if _, ok := concepts["A1"]; !ok {
		t.Fatal("whitespace-padded concept line not extracted")
	}
}
