package report

import (
	"cmp"
	"io"
	"slices"

	"homedepot/scraper/internal/domain"

	"github.com/jedib0t/go-pretty/v6/table"
)

// GroupKey is the taxonomy a product was scraped under.
type GroupKey struct {
	DeliveryZip string
	StoreID     string
	Department  string
	Category    string
	SubCategory string
	Brand       string
}

type GroupCount struct {
	GroupKey
	Count int
}

// GroupCounts counts persisted products per taxonomy group across all documents,
// ordered by the group key.
func GroupCounts(docs []domain.Document) []GroupCount {
	counts := make(map[GroupKey]int)
	for _, doc := range docs {
		for _, p := range doc.Products {
			counts[GroupKey{
				DeliveryZip: p.DeliveryZip,
				StoreID:     p.StoreID,
				Department:  p.Department,
				Category:    p.Category,
				SubCategory: p.SubCategory,
				Brand:       p.Brand,
			}]++
		}
	}

	groups := make([]GroupCount, 0, len(counts))
	for key, count := range counts {
		groups = append(groups, GroupCount{GroupKey: key, Count: count})
	}

	slices.SortFunc(groups, func(a, b GroupCount) int {
		return cmp.Or(
			cmp.Compare(a.DeliveryZip, b.DeliveryZip),
			cmp.Compare(a.StoreID, b.StoreID),
			cmp.Compare(a.Department, b.Department),
			cmp.Compare(a.Category, b.Category),
			cmp.Compare(a.SubCategory, b.SubCategory),
			cmp.Compare(a.Brand, b.Brand),
		)
	})
	return groups
}

// Render writes the group counts as a table.
func Render(w io.Writer, groups []GroupCount) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"delivery_zip", "store_id", "department_name", "category_name", "sub_category_name", "brand", "count"})

	total := 0
	for _, g := range groups {
		t.AppendRow(table.Row{g.DeliveryZip, g.StoreID, g.Department, g.Category, g.SubCategory, g.Brand, g.Count})
		total += g.Count
	}

	t.AppendFooter(table.Row{"", "", "", "", "", "total", total})
	t.Render()
}

// RenderSummary writes a run's totals followed by one row per failed entry.
func RenderSummary(w io.Writer, summary *domain.RunSummary) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetTitle("run " + summary.RunID)
	t.AppendHeader(table.Row{"entries", "resolved", "pages", "products", "failed"})
	t.AppendRow(table.Row{summary.Entries, summary.Resolved, summary.Pages, summary.Products, len(summary.Failures)})
	t.Render()

	if len(summary.Failures) == 0 {
		return
	}

	f := table.NewWriter()
	f.SetOutputMirror(w)
	f.SetStyle(table.StyleLight)
	f.SetTitle("failed entries")
	f.AppendHeader(table.Row{"stage", "entry", "error"})
	for _, failure := range summary.Failures {
		f.AppendRow(table.Row{failure.Stage, failure.Entry.String(), failure.Err.Error()})
	}
	f.Render()
}
