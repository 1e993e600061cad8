package align

// argmaxPairs returns the mutually-best pairs of the matrix restricted
// to rows/columns not yet marked done. A nil mask means all available.
// Ties break toward the lowest index in both scans, so the result is
// deterministic for a given matrix.
func argmaxPairs(m *Matrix, rowDone, colDone []bool) []Pair {
	rowBest := make([]int, m.Rows())
	colBest := make([]int, m.Cols())

	for i := 0; i < m.Rows(); i++ {
		rowBest[i] = -1
		if rowDone != nil && rowDone[i] {
			continue
		}
		best := -1
		for j := 0; j < m.Cols(); j++ {
			if colDone != nil && colDone[j] {
				continue
			}
			if best == -1 || m.At(i, j) > m.At(i, best) {
				best = j
			}
		}
		rowBest[i] = best
	}

	for j := 0; j < m.Cols(); j++ {
		colBest[j] = -1
		if colDone != nil && colDone[j] {
			continue
		}
		best := -1
		for i := 0; i < m.Rows(); i++ {
			if rowDone != nil && rowDone[i] {
				continue
			}
			if best == -1 || m.At(i, j) > m.At(best, j) {
				best = i
			}
		}
		colBest[j] = best
	}

	var pairs []Pair
	for i, j := range rowBest {
		if j >= 0 && colBest[j] == i {
			pairs = append(pairs, Pair{Src: i, Tgt: j})
		}
	}
	return pairs
}

// itermaxPairs accumulates mutual-argmax pairs over the residual
// sub-matrix of not-yet-aligned rows and columns, for at most maxIter
// rounds. The first round equals a plain argmax pass, so the result is
// always a superset of it. Terminates early once a round adds nothing
// or one side is fully aligned.
func itermaxPairs(m *Matrix, maxIter int) []Pair {
	rowDone := make([]bool, m.Rows())
	colDone := make([]bool, m.Cols())
	remainingRows := m.Rows()
	remainingCols := m.Cols()

	var out []Pair
	for iter := 0; iter < maxIter; iter++ {
		if remainingRows == 0 || remainingCols == 0 {
			break
		}
		pairs := argmaxPairs(m, rowDone, colDone)
		if len(pairs) == 0 {
			break
		}
		for _, p := range pairs {
			out = append(out, p)
			if !rowDone[p.Src] {
				rowDone[p.Src] = true
				remainingRows--
			}
			if !colDone[p.Tgt] {
				colDone[p.Tgt] = true
				remainingCols--
			}
		}
	}
	return out
}
