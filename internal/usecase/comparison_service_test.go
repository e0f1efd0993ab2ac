package usecase

import (
	"reflect"
	"testing"

	"github.com/rs/zerolog"

	"github.com/splitcart/backend/internal/domain"
)

// makeRow builds a comparison row from (store, price) pairs, preserving
// the pair order as the row's store order.
func makeRow(key string, pairs ...string) domain.ComparisonRow {
	row := domain.ComparisonRow{
		Key:    key,
		Name:   key,
		Stores: make(map[string]domain.StorePriceCell),
	}
	for i := 0; i+1 < len(pairs); i += 2 {
		store, price := pairs[i], pairs[i+1]
		row.Stores[store] = domain.StorePriceCell{Price: price}
		row.StoreOrder = append(row.StoreOrder, store)
	}
	return row
}

func newComparisonService() *ComparisonService {
	return NewComparisonService(zerolog.Nop())
}

func TestBuildTable_StoreColumns(t *testing.T) {
	svc := newComparisonService()

	t.Run("store names are deduplicated and sorted ascending", func(t *testing.T) {
		table := svc.BuildTable([]domain.ComparisonRow{
			makeRow("p1", "Lidl", "1.99", "Konzum", "2.10"),
			makeRow("p2", "Spar", "3.00", "Lidl", "2.80"),
		})

		want := []string{"Konzum", "Lidl", "Spar"}
		if !reflect.DeepEqual(table.StoreNames, want) {
			t.Errorf("StoreNames = %v, want %v", table.StoreNames, want)
		}
	})

	t.Run("store order follows first appearance across rows", func(t *testing.T) {
		table := svc.BuildTable([]domain.ComparisonRow{
			makeRow("p1", "Spar", "3.00", "Lidl", "2.80"),
			makeRow("p2", "Konzum", "2.10", "Spar", "3.10"),
		})

		want := []string{"Spar", "Lidl", "Konzum"}
		if !reflect.DeepEqual(table.StoreOrder, want) {
			t.Errorf("StoreOrder = %v, want %v", table.StoreOrder, want)
		}
	})

	t.Run("store name list is stable under row reordering", func(t *testing.T) {
		rows := []domain.ComparisonRow{
			makeRow("p1", "Lidl", "1.99", "Konzum", "2.10"),
			makeRow("p2", "Spar", "3.00"),
		}
		reversed := []domain.ComparisonRow{rows[1], rows[0]}

		a := svc.BuildTable(rows)
		b := svc.BuildTable(reversed)
		if !reflect.DeepEqual(a.StoreNames, b.StoreNames) {
			t.Errorf("StoreNames differ under reordering: %v vs %v", a.StoreNames, b.StoreNames)
		}
	})
}

func TestBuildTable_RowOrder(t *testing.T) {
	svc := newComparisonService()

	table := svc.BuildTable([]domain.ComparisonRow{
		makeRow("zebra", "Lidl", "1.00"),
		makeRow("apple", "Lidl", "2.00"),
		makeRow("mango", "Lidl", "3.00"),
	})

	if len(table.Rows) != 3 {
		t.Fatalf("len(Rows) = %d, want 3", len(table.Rows))
	}
	for i, want := range []string{"zebra", "apple", "mango"} {
		if table.Rows[i].Key != want {
			t.Errorf("Rows[%d].Key = %q, want %q (response order must be preserved)", i, table.Rows[i].Key, want)
		}
	}
}

func TestBuildTable_HighlightFlags(t *testing.T) {
	svc := newComparisonService()

	t.Run("ties at minimum are all flagged best, maximum flagged worst", func(t *testing.T) {
		table := svc.BuildTable([]domain.ComparisonRow{
			makeRow("p1", "A", "3.00", "B", "3.00", "C", "5.00"),
		})

		flags := table.Rows[0].Flags
		if !flags["A"].Best || !flags["B"].Best {
			t.Errorf("flags A/B = %+v/%+v, want both best", flags["A"], flags["B"])
		}
		if flags["C"].Best {
			t.Error("C flagged best, want not best")
		}
		if !flags["C"].Worst {
			t.Error("C not flagged worst, want worst")
		}
		if flags["A"].Worst || flags["B"].Worst {
			t.Error("A or B flagged worst, want neither")
		}
	})

	t.Run("single price is best but never worst", func(t *testing.T) {
		table := svc.BuildTable([]domain.ComparisonRow{
			makeRow("p1", "A", "3.00"),
		})

		flags := table.Rows[0].Flags
		if !flags["A"].Best {
			t.Error("A not flagged best")
		}
		if flags["A"].Worst {
			t.Error("A flagged worst, want worst suppressed for single price")
		}
	})

	t.Run("all prices equal suppresses worst", func(t *testing.T) {
		table := svc.BuildTable([]domain.ComparisonRow{
			makeRow("p1", "A", "2.50", "B", "2.50"),
		})

		flags := table.Rows[0].Flags
		if !flags["A"].Best || !flags["B"].Best {
			t.Error("want both stores flagged best")
		}
		if flags["A"].Worst || flags["B"].Worst {
			t.Error("want no store flagged worst when all prices are equal")
		}
	})

	t.Run("unparseable prices carry no flags", func(t *testing.T) {
		table := svc.BuildTable([]domain.ComparisonRow{
			makeRow("p1", "A", "n/a", "B", "4.00"),
		})

		flags := table.Rows[0].Flags
		if _, ok := flags["A"]; ok {
			t.Errorf("flags contains A = %+v, want absent store excluded", flags["A"])
		}
		if !flags["B"].Best {
			t.Error("B not flagged best")
		}
		if flags["B"].Worst {
			t.Error("B flagged worst, want suppressed (only available price)")
		}
	})

	t.Run("row with no parseable price has no flags and no price", func(t *testing.T) {
		table := svc.BuildTable([]domain.ComparisonRow{
			makeRow("p1", "A", "", "B", "soon"),
		})

		row := table.Rows[0]
		if row.HasPrice {
			t.Error("HasPrice = true, want false")
		}
		if len(row.Flags) != 0 {
			t.Errorf("Flags = %v, want empty", row.Flags)
		}
	})
}

func TestBuildTable_BestPicks(t *testing.T) {
	svc := newComparisonService()

	t.Run("best pick lists tied stores sorted alphabetically", func(t *testing.T) {
		// Row order deliberately non-alphabetical.
		table := svc.BuildTable([]domain.ComparisonRow{
			makeRow("p1", "Spar", "3.00", "Konzum", "3.00", "Lidl", "4.50"),
		})

		pick := table.BestPicks[0]
		if !pick.HasPrice {
			t.Fatal("HasPrice = false, want true")
		}
		if pick.Price != 3.00 {
			t.Errorf("Price = %v, want 3.00", pick.Price)
		}
		want := []string{"Konzum", "Spar"}
		if !reflect.DeepEqual(pick.Stores, want) {
			t.Errorf("Stores = %v, want %v", pick.Stores, want)
		}
	})

	t.Run("no parseable price reports empty store list", func(t *testing.T) {
		table := svc.BuildTable([]domain.ComparisonRow{
			makeRow("p1", "Spar", "-", "Konzum", ""),
		})

		pick := table.BestPicks[0]
		if pick.HasPrice {
			t.Error("HasPrice = true, want false")
		}
		if len(pick.Stores) != 0 {
			t.Errorf("Stores = %v, want empty", pick.Stores)
		}
	})

	t.Run("one pick per row in row order", func(t *testing.T) {
		table := svc.BuildTable([]domain.ComparisonRow{
			makeRow("p1", "A", "2.00"),
			makeRow("p2", "A", "0.99"),
		})

		if len(table.BestPicks) != 2 {
			t.Fatalf("len(BestPicks) = %d, want 2", len(table.BestPicks))
		}
		if table.BestPicks[0].Key != "p1" || table.BestPicks[1].Key != "p2" {
			t.Errorf("picks = [%s %s], want [p1 p2]", table.BestPicks[0].Key, table.BestPicks[1].Key)
		}
	})
}

func TestBuildTable_Empty(t *testing.T) {
	svc := newComparisonService()

	table := svc.BuildTable(nil)
	if len(table.Rows) != 0 || len(table.BestPicks) != 0 {
		t.Errorf("rows/picks = %d/%d, want 0/0", len(table.Rows), len(table.BestPicks))
	}
	if len(table.StoreNames) != 0 {
		t.Errorf("StoreNames = %v, want empty", table.StoreNames)
	}
}
