package features

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// PCA is a fitted principal component basis. Component signs are fixed so the
// largest-magnitude loading of every component is positive, which keeps
// projections identical across runs.
type PCA struct {
	mean    []float64
	vectors *mat.Dense // features x components
	ratios  []float64
}

// FitPCA fits a basis keeping the first components directions. When the data
// has fewer directions than requested, the missing ones project to zero.
func FitPCA(x [][]float64, components int) (*PCA, error) {
	if components < 1 {
		return nil, fmt.Errorf("fit pca: components=%d: %w", components, ErrEmptyMatrix)
	}
	mean, vecs, vars, err := principalComponents(x)
	if err != nil {
		return nil, err
	}
	return newPCA(mean, vecs, vars, components), nil
}

// FitPCAVariance fits a basis keeping the fewest components whose cumulative
// explained variance ratio exceeds target.
func FitPCAVariance(x [][]float64, target float64) (*PCA, error) {
	if target <= 0 || target > 1 || math.IsNaN(target) {
		return nil, fmt.Errorf("fit pca: target=%v: %w", target, ErrInvalidVariance)
	}
	mean, vecs, vars, err := principalComponents(x)
	if err != nil {
		return nil, err
	}
	return newPCA(mean, vecs, vars, componentsFor(vars, target)), nil
}

// Components returns the number of kept components.
func (p *PCA) Components() int { return len(p.ratios) }

// ExplainedVarianceRatio returns the variance fraction of every kept component.
func (p *PCA) ExplainedVarianceRatio() []float64 {
	return append([]float64(nil), p.ratios...)
}

// Transform projects rows onto the kept components.
func (p *PCA) Transform(x [][]float64) [][]float64 {
	out := make([][]float64, len(x))
	_, avail := p.vectors.Dims()
	for i, row := range x {
		proj := make([]float64, len(p.ratios))
		for c := range proj {
			if c >= avail {
				continue
			}
			var s float64
			for j, v := range row {
				s += (v - p.mean[j]) * p.vectors.At(j, c)
			}
			proj[c] = s
		}
		out[i] = proj
	}
	return out
}

func newPCA(mean []float64, vecs *mat.Dense, vars []float64, components int) *PCA {
	var total float64
	for _, v := range vars {
		total += v
	}
	ratios := make([]float64, components)
	for c := range ratios {
		if c < len(vars) && total > 0 {
			ratios[c] = vars[c] / total
		}
	}
	return &PCA{mean: mean, vectors: vecs, ratios: ratios}
}

// componentsFor picks the first index whose cumulative ratio is strictly
// greater than target. Degenerate data keeps one component.
func componentsFor(vars []float64, target float64) int {
	var total float64
	for _, v := range vars {
		total += v
	}
	if total <= 0 {
		return 1
	}
	var cum float64
	for i, v := range vars {
		cum += v / total
		if cum > target {
			return i + 1
		}
	}
	return len(vars)
}

func principalComponents(x [][]float64) ([]float64, *mat.Dense, []float64, error) {
	if len(x) < 2 || len(x[0]) == 0 {
		return nil, nil, nil, fmt.Errorf("fit pca: %d rows: %w", len(x), ErrEmptyMatrix)
	}
	n, p := len(x), len(x[0])
	data := mat.NewDense(n, p, nil)
	for i, row := range x {
		data.SetRow(i, row)
	}

	var pc stat.PC
	if ok := pc.PrincipalComponents(data, nil); !ok {
		return nil, nil, nil, errors.New("fit pca: decomposition failed")
	}
	var vecs mat.Dense
	pc.VectorsTo(&vecs)
	vars := pc.VarsTo(nil)
	flipSigns(&vecs)

	mean := make([]float64, p)
	col := make([]float64, n)
	for j := range mean {
		mat.Col(col, j, data)
		mean[j] = stat.Mean(col, nil)
	}
	return mean, &vecs, vars, nil
}

func flipSigns(v *mat.Dense) {
	r, c := v.Dims()
	for j := 0; j < c; j++ {
		best, at := 0.0, 0
		for i := 0; i < r; i++ {
			if a := math.Abs(v.At(i, j)); a > best {
				best, at = a, i
			}
		}
		if v.At(at, j) >= 0 {
			continue
		}
		for i := 0; i < r; i++ {
			v.Set(i, j, -v.At(i, j))
		}
	}
}
