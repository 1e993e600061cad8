package align

import (
	"errors"
	"reflect"
	"testing"
)

func matrixOf(t *testing.T, rows [][]float64) *Matrix {
	t.Helper()
	m := &Matrix{rows: len(rows), cols: len(rows[0])}
	for _, r := range rows {
		if len(r) != m.cols {
			t.Fatal("ragged test matrix")
		}
		m.data = append(m.data, r...)
	}
	return m
}

func TestParseStrategy(t *testing.T) {
	for _, s := range []string{"argmax", "match", "itermax"} {
		if _, err := ParseStrategy(s); err != nil {
			t.Errorf("ParseStrategy(%q) = %v, want nil", s, err)
		}
	}
	if _, err := ParseStrategy("mwmf"); !errors.Is(err, ErrInvalidStrategy) {
		t.Errorf("expected ErrInvalidStrategy, got %v", err)
	}
}

func TestExtractUnknownStrategy(t *testing.T) {
	m := matrixOf(t, [][]float64{{1}})
	if _, err := Extract(m, Options{Strategy: "best"}); !errors.Is(err, ErrInvalidStrategy) {
		t.Errorf("expected ErrInvalidStrategy, got %v", err)
	}
}

func TestArgmaxMutualBest(t *testing.T) {
	m := matrixOf(t, [][]float64{
		{0.9, 0.1},
		{0.2, 0.8},
	})
	pairs, err := Extract(m, Options{Strategy: StrategyArgmax})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	want := []Pair{{Src: 0, Tgt: 0}, {Src: 1, Tgt: 1}}
	if !reflect.DeepEqual(pairs, want) {
		t.Errorf("got %v, want %v", pairs, want)
	}
}

func TestArgmaxTieBreaksToLowestIndex(t *testing.T) {
	// Row 0 ties between both columns; the lowest column index wins,
	// and row 1 is left without a mutual best.
	m := matrixOf(t, [][]float64{
		{1.0, 1.0},
		{0.9, 0.1},
	})
	pairs, err := Extract(m, Options{Strategy: StrategyArgmax})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	want := []Pair{{Src: 0, Tgt: 0}}
	if !reflect.DeepEqual(pairs, want) {
		t.Errorf("got %v, want %v", pairs, want)
	}
}

func TestMatchRecoversPairArgmaxDrops(t *testing.T) {
	// Source token 0 is tied between both targets; mutual argmax keeps
	// only (0,0) and drops token 1 entirely. The assignment solver
	// pairs (0,1)+(1,0) for a total of 1.9 over 1.1.
	m := matrixOf(t, [][]float64{
		{1.0, 1.0},
		{0.9, 0.1},
	})

	fromArgmax, err := Extract(m, Options{Strategy: StrategyArgmax})
	if err != nil {
		t.Fatalf("Extract argmax: %v", err)
	}
	fromMatch, err := Extract(m, Options{Strategy: StrategyMatch})
	if err != nil {
		t.Fatalf("Extract match: %v", err)
	}

	want := []Pair{{Src: 0, Tgt: 1}, {Src: 1, Tgt: 0}}
	if !reflect.DeepEqual(fromMatch, want) {
		t.Errorf("match got %v, want %v", fromMatch, want)
	}
	dropped := Pair{Src: 1, Tgt: 0}
	if containsPair(fromArgmax, dropped) {
		t.Fatal("test premise broken: argmax kept the pair")
	}
	if !containsPair(fromMatch, dropped) {
		t.Error("match failed to recover the pair argmax dropped")
	}
}

func TestMatchOneToOne(t *testing.T) {
	matrices := [][][]float64{
		{
			{0.9, 0.2, 0.4},
			{0.3, 0.8, 0.5},
		},
		{
			{0.9, 0.2},
			{0.3, 0.8},
			{0.7, 0.6},
		},
		{
			{0.5, 0.5, 0.5},
			{0.5, 0.5, 0.5},
			{0.5, 0.5, 0.5},
		},
	}
	for _, rows := range matrices {
		m := matrixOf(t, rows)
		pairs, err := Extract(m, Options{Strategy: StrategyMatch})
		if err != nil {
			t.Fatalf("Extract: %v", err)
		}
		shorter := m.Rows()
		if m.Cols() < shorter {
			shorter = m.Cols()
		}
		if len(pairs) != shorter {
			t.Errorf("got %d pairs, want %d (shorter side fully matched)", len(pairs), shorter)
		}
		srcSeen := map[int]bool{}
		tgtSeen := map[int]bool{}
		for _, p := range pairs {
			if p.Src < 0 || p.Src >= m.Rows() || p.Tgt < 0 || p.Tgt >= m.Cols() {
				t.Errorf("pair %v out of bounds for (%d,%d)", p, m.Rows(), m.Cols())
			}
			if srcSeen[p.Src] || tgtSeen[p.Tgt] {
				t.Errorf("pair %v violates 1-to-1", p)
			}
			srcSeen[p.Src] = true
			tgtSeen[p.Tgt] = true
		}
	}
}

func TestMatchMaximizesTotalWeight(t *testing.T) {
	m := matrixOf(t, [][]float64{
		{0.1, 0.9, 0.1},
		{0.9, 0.1, 0.1},
		{0.1, 0.1, 0.9},
	})
	pairs, err := Extract(m, Options{Strategy: StrategyMatch})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	want := []Pair{{Src: 0, Tgt: 1}, {Src: 1, Tgt: 0}, {Src: 2, Tgt: 2}}
	if !reflect.DeepEqual(pairs, want) {
		t.Errorf("got %v, want %v", pairs, want)
	}
}

func TestItermaxSupersetOfArgmax(t *testing.T) {
	matrices := [][][]float64{
		{
			{0.9, 0.8, 0.1},
			{0.85, 0.2, 0.1},
			{0.1, 0.1, 0.7},
		},
		{
			{1.0, 1.0},
			{0.9, 0.1},
		},
		{
			{0.9, 0.1},
			{0.2, 0.8},
		},
	}
	for _, rows := range matrices {
		m := matrixOf(t, rows)
		single, err := Extract(m, Options{Strategy: StrategyArgmax})
		if err != nil {
			t.Fatalf("Extract argmax: %v", err)
		}
		iter, err := Extract(m, Options{Strategy: StrategyItermax, MaxIterations: 2})
		if err != nil {
			t.Fatalf("Extract itermax: %v", err)
		}
		for _, p := range single {
			if !containsPair(iter, p) {
				t.Errorf("itermax %v missing argmax pair %v", iter, p)
			}
		}
	}
}

func TestItermaxSecondRoundAddsResidualPair(t *testing.T) {
	// Round one yields (0,0) and (2,2); the residual sub-matrix then
	// pairs the leftover row 1 with column 1.
	m := matrixOf(t, [][]float64{
		{0.9, 0.8, 0.1},
		{0.85, 0.2, 0.1},
		{0.1, 0.1, 0.7},
	})
	pairs, err := Extract(m, Options{Strategy: StrategyItermax, MaxIterations: 2})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	want := []Pair{{Src: 0, Tgt: 0}, {Src: 1, Tgt: 1}, {Src: 2, Tgt: 2}}
	if !reflect.DeepEqual(pairs, want) {
		t.Errorf("got %v, want %v", pairs, want)
	}
}

func TestItermaxRespectsIterationCap(t *testing.T) {
	m := matrixOf(t, [][]float64{
		{0.9, 0.8, 0.1},
		{0.85, 0.2, 0.1},
		{0.1, 0.1, 0.7},
	})
	pairs, err := Extract(m, Options{Strategy: StrategyItermax, MaxIterations: 1})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	// One round is exactly the argmax pass.
	want := []Pair{{Src: 0, Tgt: 0}, {Src: 2, Tgt: 2}}
	if !reflect.DeepEqual(pairs, want) {
		t.Errorf("got %v, want %v", pairs, want)
	}
}

func TestExtractDeterministic(t *testing.T) {
	m := matrixOf(t, [][]float64{
		{0.4, 0.4, 0.2},
		{0.4, 0.4, 0.4},
		{0.2, 0.4, 0.4},
	})
	for _, strat := range []Strategy{StrategyArgmax, StrategyMatch, StrategyItermax} {
		first, err := Extract(m, Options{Strategy: strat, MaxIterations: 2})
		if err != nil {
			t.Fatalf("Extract %s: %v", strat, err)
		}
		second, err := Extract(m, Options{Strategy: strat, MaxIterations: 2})
		if err != nil {
			t.Fatalf("Extract %s: %v", strat, err)
		}
		if !reflect.DeepEqual(first, second) {
			t.Errorf("%s: repeated extraction differs: %v vs %v", strat, first, second)
		}
	}
}

func TestExtractBounds(t *testing.T) {
	m := matrixOf(t, [][]float64{
		{0.1, 0.5, 0.3, 0.7},
		{0.6, 0.2, 0.9, 0.4},
	})
	for _, strat := range []Strategy{StrategyArgmax, StrategyMatch, StrategyItermax} {
		pairs, err := Extract(m, Options{Strategy: strat, MaxIterations: 3})
		if err != nil {
			t.Fatalf("Extract %s: %v", strat, err)
		}
		seen := map[Pair]bool{}
		for _, p := range pairs {
			if p.Src < 0 || p.Src >= m.Rows() || p.Tgt < 0 || p.Tgt >= m.Cols() {
				t.Errorf("%s: pair %v out of bounds", strat, p)
			}
			if seen[p] {
				t.Errorf("%s: duplicate pair %v", strat, p)
			}
			seen[p] = true
		}
	}
}

func containsPair(pairs []Pair, p Pair) bool {
	for _, q := range pairs {
		if q == p {
			return true
		}
	}
	return false
}
