package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/nao1215/webharvest/internal/model"
)

// Tables returns every table in document order. Index is the position of
// the table on the page and rows keep the cell count of the source markup.
func Tables(d *Document) []model.Table {
	var out []model.Table
	d.doc.Find("table").Each(func(i int, table *goquery.Selection) {
		rows := make([][]string, 0)
		table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
			cells := make([]string, 0)
			tr.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
				cells = append(cells, strings.TrimSpace(cell.Text()))
			})
			rows = append(rows, cells)
		})
		out = append(out, model.Table{Index: i, Rows: rows})
	})
	return out
}
