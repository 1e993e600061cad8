package align

import (
	"fmt"
	"math"

	"word-aligner/internal/embeddings"
)

// Matrix is a dense similarity matrix: rows are source tokens, columns
// are target tokens. It is immutable after BuildMatrix returns.
type Matrix struct {
	rows int
	cols int
	data []float64
}

func (m *Matrix) Rows() int { return m.rows }
func (m *Matrix) Cols() int { return m.cols }

// At returns the similarity of source token i and target token j.
func (m *Matrix) At(i, j int) float64 {
	return m.data[i*m.cols+j]
}

// BuildMatrix computes the cosine similarity of every source vector
// against every target vector. A zero-norm vector yields similarity 0
// for its pairs; an inconsistent dimensionality or a non-finite score
// is a hard error.
func BuildMatrix(src, tgt []embeddings.Vector) (*Matrix, error) {
	if len(src) == 0 || len(tgt) == 0 {
		return nil, ErrEmptySequence
	}
	dim := len(src[0])
	for i, v := range src {
		if len(v) != dim {
			return nil, fmt.Errorf("%w: source vector %d has %d dims, want %d", ErrDimensionMismatch, i, len(v), dim)
		}
	}
	for j, v := range tgt {
		if len(v) != dim {
			return nil, fmt.Errorf("%w: target vector %d has %d dims, want %d", ErrDimensionMismatch, j, len(v), dim)
		}
	}

	srcNorms := norms(src)
	tgtNorms := norms(tgt)

	m := &Matrix{rows: len(src), cols: len(tgt), data: make([]float64, len(src)*len(tgt))}
	for i, a := range src {
		for j, b := range tgt {
			score := cosine(a, b, srcNorms[i], tgtNorms[j])
			if math.IsNaN(score) || math.IsInf(score, 0) {
				return nil, fmt.Errorf("non-finite similarity at (%d,%d)", i, j)
			}
			m.data[i*m.cols+j] = score
		}
	}
	return m, nil
}

func norms(vecs []embeddings.Vector) []float64 {
	out := make([]float64, len(vecs))
	for i, v := range vecs {
		var sum float64
		for _, x := range v {
			sum += float64(x) * float64(x)
		}
		out[i] = math.Sqrt(sum)
	}
	return out
}

func cosine(a, b embeddings.Vector, normA, normB float64) float64 {
	if normA == 0 || normB == 0 {
		return 0
	}
	var dot float64
	for k := range a {
		dot += float64(a[k]) * float64(b[k])
	}
	return dot / (normA * normB)
}
