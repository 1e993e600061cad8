package align

import (
	"fmt"
	"sort"
)

// Strategy selects how token pairs are extracted from the matrix.
// The set is closed; dispatch happens in Extract.
type Strategy string

const (
	// StrategyArgmax keeps only mutually-best pairs (row argmax and
	// column argmax agree).
	StrategyArgmax Strategy = "argmax"
	// StrategyMatch solves a maximum-weight 1-to-1 assignment.
	StrategyMatch Strategy = "match"
	// StrategyItermax runs bounded iterative argmax refinement, which
	// recovers many-to-one alignments a strict matching would drop.
	StrategyItermax Strategy = "itermax"
)

// DefaultItermaxIterations caps itermax refinement rounds when the
// caller does not configure one.
const DefaultItermaxIterations = 2

// ParseStrategy validates a strategy name from configuration.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyArgmax, StrategyMatch, StrategyItermax:
		return Strategy(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidStrategy, s)
	}
}

// Options configures extraction.
type Options struct {
	Strategy      Strategy
	MaxIterations int // itermax round cap, >= 1
}

// Pair links a source token index to a target token index.
type Pair struct {
	Src int
	Tgt int
}

// Extract produces token alignment pairs from the matrix using the
// configured strategy. It is a pure function of the matrix: no state
// survives between calls, and returned indices are always in bounds.
// Pairs come back sorted by (Src, Tgt) with no duplicates.
func Extract(m *Matrix, opts Options) ([]Pair, error) {
	var pairs []Pair
	switch opts.Strategy {
	case StrategyArgmax:
		pairs = argmaxPairs(m, nil, nil)
	case StrategyMatch:
		pairs = matchPairs(m)
	case StrategyItermax:
		iters := opts.MaxIterations
		if iters < 1 {
			iters = DefaultItermaxIterations
		}
		pairs = itermaxPairs(m, iters)
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidStrategy, opts.Strategy)
	}
	sortPairs(pairs)
	return pairs, nil
}

func sortPairs(pairs []Pair) {
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].Src != pairs[j].Src {
			return pairs[i].Src < pairs[j].Src
		}
		return pairs[i].Tgt < pairs[j].Tgt
	})
}
