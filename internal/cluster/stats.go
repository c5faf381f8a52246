package cluster

import "sort"

// PathwayMean is one pathway's mean score within a cluster.
type PathwayMean struct {
	Pathway string
	Mean    float64
}

// TopPathways returns, per cluster, the n pathways with the highest mean
// score over the cluster's members. Ties break alphabetically.
func TopPathways(m *Matrix, cl *Clustering, n int) [][]PathwayMean {
	_, cols := m.Data.Dims()
	sums := make([][]float64, cl.K)
	for c := range sums {
		sums[c] = make([]float64, cols)
	}
	for i, lbl := range cl.Labels {
		for j := 0; j < cols; j++ {
			sums[lbl][j] += m.Data.At(i, j)
		}
	}

	out := make([][]PathwayMean, cl.K)
	for c := 0; c < cl.K; c++ {
		if cl.Sizes[c] == 0 {
			continue
		}
		means := make([]PathwayMean, cols)
		for j := 0; j < cols; j++ {
			means[j] = PathwayMean{Pathway: m.Pathways[j], Mean: sums[c][j] / float64(cl.Sizes[c])}
		}
		sort.Slice(means, func(a, b int) bool {
			if means[a].Mean == means[b].Mean {
				return means[a].Pathway < means[b].Pathway
			}
			return means[a].Mean > means[b].Mean
		})
		if len(means) > n {
			means = means[:n]
		}
		out[c] = means
	}
	return out
}
