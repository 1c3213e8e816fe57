package mock

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/consensys/plonkish/constraint"
	"github.com/consensys/plonkish/witness"
)

// cell occupancy levels for the heatmap palette
const (
	cellEmpty    = 0
	cellAssigned = 1
	cellSelector = 2
)

// RenderLayout writes a self-contained HTML page picturing the grid: one
// heatmap cell per (column, row), advice columns first then selector
// columns, with assigned cells and enabled selectors lit up and each row
// labelled with the region covering it. Shape-only grids render the same
// picture as concrete ones, so the layout of a circuit can be inspected
// without a witness.
func RenderLayout(cs *constraint.System, grid *witness.Grid, w io.Writer) error {
	nbRows := grid.NbRows()

	columns := make([]string, 0, cs.NbAdvice+cs.NbSelector)
	for i := 0; i < cs.NbAdvice; i++ {
		columns = append(columns, constraint.Column{Kind: constraint.Advice, Index: i}.String())
	}
	for i := 0; i < cs.NbSelector; i++ {
		columns = append(columns, constraint.Column{Kind: constraint.Selector, Index: i}.String())
	}

	rows := make([]string, nbRows)
	for row := 0; row < nbRows; row++ {
		if r, ok := grid.RegionAt(row); ok && r.Name != "" {
			rows[row] = fmt.Sprintf("%d · %s", row, r.Name)
		} else {
			rows[row] = fmt.Sprintf("%d", row)
		}
	}

	data := make([]opts.HeatMapData, 0, len(columns)*nbRows)
	for row := 0; row < nbRows; row++ {
		for col := 0; col < cs.NbAdvice; col++ {
			v := cellEmpty
			if grid.IsAssigned(col, row) {
				v = cellAssigned
			}
			data = append(data, opts.HeatMapData{Value: [3]interface{}{col, row, v}})
		}
		for sel := 0; sel < cs.NbSelector; sel++ {
			v := cellEmpty
			if grid.IsSelectorEnabled(sel, row) {
				v = cellSelector
			}
			data = append(data, opts.HeatMapData{Value: [3]interface{}{cs.NbAdvice + sel, row, v}})
		}
	}

	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "circuit layout"}),
		charts.WithXAxisOpts(opts.XAxis{
			Type:      "category",
			SplitArea: &opts.SplitArea{Show: opts.Bool(true)},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type:      "category",
			Data:      rows,
			SplitArea: &opts.SplitArea{Show: opts.Bool(true)},
		}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Calculable: opts.Bool(true),
			Min:        cellEmpty,
			Max:        cellSelector,
			InRange: &opts.VisualMapInRange{
				Color: []string{"#f8fafc", "#22c55e", "#0ea5e9"},
			},
		}),
	)
	hm.SetXAxis(columns).AddSeries("cells", data)

	page := components.NewPage().SetPageTitle("circuit layout")
	page.AddCharts(hm)
	return page.Render(w)
}

// RenderLayout writes the prover's run through the package-level renderer.
func (p *Prover) RenderLayout(w io.Writer) error {
	return RenderLayout(p.cs, p.grid, w)
}
