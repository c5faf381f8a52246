package cluster

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Projection holds the PCA-projected coordinates of each drug plus the share
// of variance each component explains.
type Projection struct {
	Drugs      []string
	Components int
	// Points[i] are the coordinates of Drugs[i], length Components.
	Points [][]float64
	// ExplainedVariance[k] is the fraction of total variance on component k.
	ExplainedVariance []float64
}

// PCA standardizes the pathway matrix column-wise (zero mean, unit variance;
// constant columns stay zero) and projects it onto the first nComponents
// principal components. nComponents is clamped to what the data supports.
func PCA(m *Matrix, nComponents int) (*Projection, error) {
	rows, cols := m.Data.Dims()
	if rows < 2 {
		return nil, fmt.Errorf("pca needs at least 2 drugs, got %d", rows)
	}
	if nComponents < 1 {
		nComponents = 1
	}
	maxComp := rows - 1
	if cols < maxComp {
		maxComp = cols
	}
	if nComponents > maxComp {
		nComponents = maxComp
	}

	scaled := standardize(m.Data)

	var pc stat.PC
	if ok := pc.PrincipalComponents(scaled, nil); !ok {
		return nil, fmt.Errorf("pca decomposition failed")
	}

	var vecs mat.Dense
	pc.VectorsTo(&vecs)
	vars := pc.VarsTo(nil)

	var proj mat.Dense
	proj.Mul(scaled, vecs.Slice(0, cols, 0, nComponents))

	out := &Projection{
		Drugs:             m.Drugs,
		Components:        nComponents,
		Points:            make([][]float64, rows),
		ExplainedVariance: make([]float64, nComponents),
	}
	for i := 0; i < rows; i++ {
		p := make([]float64, nComponents)
		for k := 0; k < nComponents; k++ {
			p[k] = proj.At(i, k)
		}
		out.Points[i] = p
	}
	total := 0.0
	for _, v := range vars {
		total += v
	}
	if total > 0 {
		for k := 0; k < nComponents; k++ {
			out.ExplainedVariance[k] = vars[k] / total
		}
	}
	return out, nil
}

func standardize(data *mat.Dense) *mat.Dense {
	rows, cols := data.Dims()
	out := mat.NewDense(rows, cols, nil)
	col := make([]float64, rows)
	for j := 0; j < cols; j++ {
		mat.Col(col, j, data)
		mean, std := stat.MeanStdDev(col, nil)
		for i := 0; i < rows; i++ {
			if std > 0 {
				out.Set(i, j, (col[i]-mean)/std)
			} else {
				out.Set(i, j, 0)
			}
		}
	}
	return out
}
