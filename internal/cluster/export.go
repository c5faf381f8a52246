package cluster

import (
	"fmt"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/pharmalign/drugalign/internal/dataset"
	"github.com/pharmalign/drugalign/internal/utils"
)

// Output files written under the results directory.
const (
	FileClusteringResults  = "clustering_results.csv"
	FileClusterDetails     = "cluster_details.csv"
	FileMOADistribution    = "moa_cluster_distribution.csv"
	minMOADistributionSize = 3
)

// Export writes the clustering results tables to outDir and returns the
// paths written. The MoA distribution table is only produced when a MoA
// lookup is available.
func Export(outDir string, p *Projection, cl *Clustering, moa MOATable) ([]string, error) {
	if err := utils.EnsureDir(outDir); err != nil {
		return nil, fmt.Errorf("create results dir: %w", err)
	}
	var written []string

	// Per-drug coordinates, cluster and MoA.
	header := []string{"drug"}
	for k := 0; k < p.Components; k++ {
		header = append(header, fmt.Sprintf("PC%d", k+1))
	}
	header = append(header, "cluster", "MoA")
	rows := make([][]string, 0, len(p.Drugs))
	for i, drug := range p.Drugs {
		row := []string{drug}
		for k := 0; k < p.Components; k++ {
			row = append(row, strconv.FormatFloat(p.Points[i][k], 'f', 6, 64))
		}
		row = append(row, strconv.Itoa(cl.Labels[i]), moa[drug])
		rows = append(rows, row)
	}
	path := filepath.Join(outDir, FileClusteringResults)
	if err := dataset.WriteCSV(path, header, rows); err != nil {
		return nil, err
	}
	written = append(written, path)

	// Per-cluster details; the quality scores describe the whole partition
	// and repeat on every row.
	rows = rows[:0]
	for c := 0; c < cl.K; c++ {
		rows = append(rows, []string{
			strconv.Itoa(c),
			strconv.Itoa(cl.Sizes[c]),
			strconv.FormatFloat(cl.Silhouette, 'f', 4, 64),
			strconv.FormatFloat(cl.CalinskiHarabasz, 'f', 4, 64),
			strconv.FormatFloat(cl.DaviesBouldin, 'f', 4, 64),
			strconv.FormatFloat(cl.Inertia, 'f', 4, 64),
		})
	}
	path = filepath.Join(outDir, FileClusterDetails)
	detailsHeader := []string{"cluster", "size", "silhouette", "calinski_harabasz", "davies_bouldin", "inertia"}
	if err := dataset.WriteCSV(path, detailsHeader, rows); err != nil {
		return nil, err
	}
	written = append(written, path)

	if len(moa) > 0 {
		path = filepath.Join(outDir, FileMOADistribution)
		if err := dataset.WriteCSV(path, moaDistributionHeader(cl.K), moaDistributionRows(p, cl, moa)); err != nil {
			return nil, err
		}
		written = append(written, path)
	}
	return written, nil
}

func moaDistributionHeader(k int) []string {
	header := []string{"MOA", "Count"}
	for c := 0; c < k; c++ {
		header = append(header, fmt.Sprintf("Cluster_%d", c))
	}
	return header
}

// moaDistributionRows tallies, per mechanism of action, how its drugs spread
// across clusters. MoAs with fewer drugs than minMOADistributionSize are
// dropped; rows sort by total count descending.
func moaDistributionRows(p *Projection, cl *Clustering, moa MOATable) [][]string {
	type dist struct {
		moa        string
		total      int
		perCluster []int
	}
	byMOA := make(map[string]*dist)
	for i, drug := range p.Drugs {
		m, ok := moa[drug]
		if !ok {
			continue
		}
		d := byMOA[m]
		if d == nil {
			d = &dist{moa: m, perCluster: make([]int, cl.K)}
			byMOA[m] = d
		}
		d.total++
		d.perCluster[cl.Labels[i]]++
	}

	all := make([]*dist, 0, len(byMOA))
	for _, d := range byMOA {
		if d.total >= minMOADistributionSize {
			all = append(all, d)
		}
	}
	sort.Slice(all, func(a, b int) bool {
		if all[a].total == all[b].total {
			return all[a].moa < all[b].moa
		}
		return all[a].total > all[b].total
	})

	rows := make([][]string, 0, len(all))
	for _, d := range all {
		row := []string{d.moa, strconv.Itoa(d.total)}
		for _, n := range d.perCluster {
			row = append(row, strconv.Itoa(n))
		}
		rows = append(rows, row)
	}
	return rows
}
