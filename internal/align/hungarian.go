package align

import "math"

// matchPairs solves the maximum-weight bipartite assignment over the
// matrix: every token on the shorter side gets exactly one partner,
// tokens on the longer side may stay unmatched, and the sum of selected
// similarities is maximal. Scanning order makes equal-weight solutions
// resolve deterministically toward lower indices.
func matchPairs(m *Matrix) []Pair {
	transposed := m.Rows() > m.Cols()
	n, k := m.Rows(), m.Cols()
	if transposed {
		n, k = k, n
	}

	// Hungarian algorithm with potentials, O(n^2 * k), minimizing cost.
	// Weights are negated to turn the max-weight matching into a
	// min-cost assignment.
	cost := func(i, j int) float64 {
		if transposed {
			return -m.At(j, i)
		}
		return -m.At(i, j)
	}

	u := make([]float64, n+1)
	v := make([]float64, k+1)
	p := make([]int, k+1)   // p[j] = row matched to column j (1-based, 0 = none)
	way := make([]int, k+1) // predecessor column on the augmenting path

	for i := 1; i <= n; i++ {
		p[0] = i
		j0 := 0
		minv := make([]float64, k+1)
		used := make([]bool, k+1)
		for j := range minv {
			minv[j] = math.Inf(1)
		}
		for {
			used[j0] = true
			i0 := p[j0]
			delta := math.Inf(1)
			j1 := 0
			for j := 1; j <= k; j++ {
				if used[j] {
					continue
				}
				cur := cost(i0-1, j-1) - u[i0] - v[j]
				if cur < minv[j] {
					minv[j] = cur
					way[j] = j0
				}
				if minv[j] < delta {
					delta = minv[j]
					j1 = j
				}
			}
			for j := 0; j <= k; j++ {
				if used[j] {
					u[p[j]] += delta
					v[j] -= delta
				} else {
					minv[j] -= delta
				}
			}
			j0 = j1
			if p[j0] == 0 {
				break
			}
		}
		for j0 != 0 {
			j1 := way[j0]
			p[j0] = p[j1]
			j0 = j1
		}
	}

	var pairs []Pair
	for j := 1; j <= k; j++ {
		if p[j] == 0 {
			continue
		}
		if transposed {
			pairs = append(pairs, Pair{Src: j - 1, Tgt: p[j] - 1})
		} else {
			pairs = append(pairs, Pair{Src: p[j] - 1, Tgt: j - 1})
		}
	}
	return pairs
}
