package cluster

import (
	"fmt"
	"math"

	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
)

// Clustering is the result of grouping projected drugs.
type Clustering struct {
	K       int
	Labels  []int // Labels[i] is the cluster of Projection.Drugs[i]
	Centers [][]float64
	Sizes   []int
	Inertia float64 // within-cluster sum of squared distances

	// Quality scores over the whole partition.
	Silhouette       float64 // mean silhouette coefficient
	CalinskiHarabasz float64 // between/within dispersion ratio, higher is better
	DaviesBouldin    float64 // worst-pair spread/separation ratio, lower is better
}

// KMeans partitions the projected points into k clusters. Cluster numbers are
// relabeled by first appearance in drug order so output is stable across runs
// of the same partition.
func KMeans(p *Projection, k int) (*Clustering, error) {
	if k < 2 {
		return nil, fmt.Errorf("k must be at least 2, got %d", k)
	}
	if k > len(p.Points) {
		return nil, fmt.Errorf("k=%d exceeds number of drugs (%d)", k, len(p.Points))
	}

	obs := make(clusters.Observations, len(p.Points))
	for i, pt := range p.Points {
		obs[i] = clusters.Coordinates(pt)
	}
	km := kmeans.New()
	partition, err := km.Partition(obs, k)
	if err != nil {
		return nil, fmt.Errorf("kmeans partition: %w", err)
	}

	centers := make([][]float64, len(partition))
	for i, c := range partition {
		centers[i] = append([]float64(nil), c.Center...)
	}

	raw := make([]int, len(p.Points))
	for i, pt := range p.Points {
		raw[i] = nearestCenter(pt, centers)
	}

	// Relabel by first appearance.
	remap := make(map[int]int, len(centers))
	labels := make([]int, len(raw))
	for i, r := range raw {
		id, ok := remap[r]
		if !ok {
			id = len(remap)
			remap[r] = id
		}
		labels[i] = id
	}
	ordered := make([][]float64, len(centers))
	for from, to := range remap {
		ordered[to] = centers[from]
	}

	cl := &Clustering{
		K:       len(ordered),
		Labels:  labels,
		Centers: ordered,
		Sizes:   make([]int, len(ordered)),
	}
	for i, lbl := range labels {
		cl.Sizes[lbl]++
		cl.Inertia += squaredDistance(p.Points[i], ordered[lbl])
	}
	cl.Silhouette = silhouette(p.Points, labels, cl.K)
	cl.CalinskiHarabasz = calinskiHarabasz(p.Points, ordered, cl.Sizes, cl.Inertia)
	cl.DaviesBouldin = daviesBouldin(p.Points, labels, ordered, cl.Sizes)
	return cl, nil
}

// FindOptimalK picks a cluster count by the elbow of the inertia curve over
// k=2..min(maxK, n/5): largest distance from the curve to the chord between
// its endpoints. If the curve is too short for an elbow, the k with the best
// silhouette wins; with no usable range at all the answer is 4.
func FindOptimalK(p *Projection, maxK int) (int, error) {
	upper := maxK
	if n := len(p.Points) / 5; n < upper {
		upper = n
	}
	if upper < 2 {
		k := 4
		if n := len(p.Points); n < k {
			k = n
		}
		if k < 2 {
			return 0, fmt.Errorf("need at least 2 drugs to cluster, got %d", len(p.Points))
		}
		return k, nil
	}

	var ks []int
	var inertias, silhouettes []float64
	for k := 2; k <= upper; k++ {
		cl, err := KMeans(p, k)
		if err != nil {
			return 0, err
		}
		ks = append(ks, k)
		inertias = append(inertias, cl.Inertia)
		silhouettes = append(silhouettes, cl.Silhouette)
	}
	if len(ks) == 1 {
		return ks[0], nil
	}
	if len(ks) > 2 {
		if k := elbow(ks, inertias); k > 0 {
			return k, nil
		}
	}
	best := 0
	for i, s := range silhouettes {
		if s > silhouettes[best] {
			best = i
		}
	}
	return ks[best], nil
}

// elbow finds the point of maximum distance to the line through the first
// and last (k, inertia) points. Returns 0 when the curve has no interior
// point above the chord.
func elbow(ks []int, inertias []float64) int {
	n := len(ks)
	x1, y1 := float64(ks[0]), inertias[0]
	x2, y2 := float64(ks[n-1]), inertias[n-1]
	norm := math.Hypot(x2-x1, y2-y1)
	if norm == 0 {
		return 0
	}
	bestK, bestDist := 0, 0.0
	for i := 1; i < n-1; i++ {
		x0, y0 := float64(ks[i]), inertias[i]
		dist := math.Abs((y2-y1)*x0-(x2-x1)*y0+x2*y1-y2*x1) / norm
		if dist > bestDist {
			bestK, bestDist = ks[i], dist
		}
	}
	return bestK
}

func nearestCenter(pt []float64, centers [][]float64) int {
	best, bestDist := 0, math.Inf(1)
	for i, c := range centers {
		if d := squaredDistance(pt, c); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

func squaredDistance(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

// calinskiHarabasz is the between-cluster dispersion over the within-cluster
// dispersion, each scaled by its degrees of freedom.
func calinskiHarabasz(points [][]float64, centers [][]float64, sizes []int, inertia float64) float64 {
	n := len(points)
	k := 0
	for _, s := range sizes {
		if s > 0 {
			k++
		}
	}
	if k < 2 || n <= k || inertia == 0 {
		return 0
	}
	mean := make([]float64, len(points[0]))
	for _, pt := range points {
		for d, v := range pt {
			mean[d] += v
		}
	}
	for d := range mean {
		mean[d] /= float64(n)
	}
	between := 0.0
	for c, center := range centers {
		if sizes[c] == 0 {
			continue
		}
		between += float64(sizes[c]) * squaredDistance(center, mean)
	}
	return (between / float64(k-1)) / (inertia / float64(n-k))
}

// daviesBouldin averages, over clusters, the worst ratio of summed mean
// intra-cluster spread to centroid separation.
func daviesBouldin(points [][]float64, labels []int, centers [][]float64, sizes []int) float64 {
	k := len(centers)
	spread := make([]float64, k)
	for i, pt := range points {
		spread[labels[i]] += math.Sqrt(squaredDistance(pt, centers[labels[i]]))
	}
	for c := range spread {
		if sizes[c] > 0 {
			spread[c] /= float64(sizes[c])
		}
	}
	total, counted := 0.0, 0
	for i := 0; i < k; i++ {
		if sizes[i] == 0 {
			continue
		}
		worst := 0.0
		for j := 0; j < k; j++ {
			if j == i || sizes[j] == 0 {
				continue
			}
			d := math.Sqrt(squaredDistance(centers[i], centers[j]))
			if d == 0 {
				continue
			}
			if r := (spread[i] + spread[j]) / d; r > worst {
				worst = r
			}
		}
		total += worst
		counted++
	}
	if counted == 0 {
		return 0
	}
	return total / float64(counted)
}

// silhouette computes the mean silhouette coefficient: (b-a)/max(a,b) per
// point, where a is mean intra-cluster distance and b the mean distance to
// the nearest other cluster. Singleton clusters contribute 0.
func silhouette(points [][]float64, labels []int, k int) float64 {
	n := len(points)
	if n == 0 || k < 2 {
		return 0
	}
	total := 0.0
	for i := 0; i < n; i++ {
		sumByCluster := make([]float64, k)
		countByCluster := make([]int, k)
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			sumByCluster[labels[j]] += math.Sqrt(squaredDistance(points[i], points[j]))
			countByCluster[labels[j]]++
		}
		own := labels[i]
		if countByCluster[own] == 0 {
			continue // singleton
		}
		a := sumByCluster[own] / float64(countByCluster[own])
		b := math.Inf(1)
		for c := 0; c < k; c++ {
			if c == own || countByCluster[c] == 0 {
				continue
			}
			if m := sumByCluster[c] / float64(countByCluster[c]); m < b {
				b = m
			}
		}
		if math.IsInf(b, 1) {
			continue
		}
		if m := math.Max(a, b); m > 0 {
			total += (b - a) / m
		}
	}
	return total / float64(n)
}
