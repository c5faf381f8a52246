// Package visual renders the clustering results as a standalone interactive
// HTML page.
package visual

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/pharmalign/drugalign/internal/cluster"
	"github.com/pharmalign/drugalign/internal/utils"
)

// FileClustersHTML is the name of the rendered page.
const FileClustersHTML = "clusters.html"

// RenderScatter writes a PC1/PC2 scatter of the clustered drugs to outDir,
// one series per cluster, tooltips carrying the drug name and its mechanism
// of action when known. Returns the path written.
func RenderScatter(outDir string, p *cluster.Projection, cl *cluster.Clustering, moa cluster.MOATable) (string, error) {
	if p.Components < 2 {
		return "", fmt.Errorf("scatter needs at least 2 components, got %d", p.Components)
	}
	if err := utils.EnsureDir(outDir); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	subtitle := fmt.Sprintf("%d drugs, %d clusters, silhouette %.3f", len(p.Drugs), cl.K, cl.Silhouette)
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Drug pathway clusters", Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "item", Formatter: "{a}<br/>{b}"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: axisName("PC1", p, 0), Type: "value"}),
		charts.WithYAxisOpts(opts.YAxis{Name: axisName("PC2", p, 1), Type: "value"}),
	)

	series := make([][]opts.ScatterData, cl.K)
	for i, drug := range p.Drugs {
		label := drug
		if m, ok := moa[drug]; ok {
			label = fmt.Sprintf("%s (%s)", drug, m)
		}
		series[cl.Labels[i]] = append(series[cl.Labels[i]], opts.ScatterData{
			Name:       label,
			Value:      []interface{}{p.Points[i][0], p.Points[i][1]},
			SymbolSize: 10,
		})
	}
	for c, data := range series {
		scatter.AddSeries(fmt.Sprintf("Cluster %d", c), data)
	}

	path := filepath.Join(outDir, FileClustersHTML)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	if err := scatter.Render(f); err != nil {
		return "", fmt.Errorf("render scatter: %w", err)
	}
	return path, nil
}

func axisName(base string, p *cluster.Projection, k int) string {
	if k < len(p.ExplainedVariance) {
		return fmt.Sprintf("%s (%.1f%%)", base, p.ExplainedVariance[k]*100)
	}
	return base
}
