package align

import (
	"errors"
	"reflect"
	"testing"

	"word-aligner/internal/tokenizer"
)

func TestProjectCollapsesSubwordPairs(t *testing.T) {
	// "hello" split into two sub-word tokens, both aligned to the same
	// target token: one word alignment comes out.
	srcWords := []tokenizer.Word{
		{Index: 0, Text: "hello", Start: 0, End: 5, TokenIndexes: []int{0, 1}},
	}
	tgtWords := []tokenizer.Word{
		{Index: 0, Text: "bonjour", Start: 0, End: 7, TokenIndexes: []int{0}},
	}
	srcTokenWord := map[int]int{0: 0, 1: 0}
	tgtTokenWord := map[int]int{0: 0}

	got, err := Project([]Pair{{0, 0}, {1, 0}}, srcWords, tgtWords, srcTokenWord, tgtTokenWord)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	want := []WordAlignment{
		{SrcWord: "hello", TargetWord: "bonjour", SrcSpan: [2]int{0, 5}, TargetSpan: [2]int{0, 7}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestProjectOrderIndependentOfPairOrder(t *testing.T) {
	srcWords := []tokenizer.Word{
		{Index: 0, Text: "a", Start: 0, End: 1, TokenIndexes: []int{0}},
		{Index: 1, Text: "b", Start: 2, End: 3, TokenIndexes: []int{1}},
	}
	tgtWords := []tokenizer.Word{
		{Index: 0, Text: "x", Start: 0, End: 1, TokenIndexes: []int{0}},
		{Index: 1, Text: "y", Start: 2, End: 3, TokenIndexes: []int{1}},
	}
	mapping := map[int]int{0: 0, 1: 1}

	forward, err := Project([]Pair{{0, 0}, {1, 1}}, srcWords, tgtWords, mapping, mapping)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	reversed, err := Project([]Pair{{1, 1}, {0, 0}}, srcWords, tgtWords, mapping, mapping)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	if !reflect.DeepEqual(forward, reversed) {
		t.Errorf("ordering depends on pair iteration order: %v vs %v", forward, reversed)
	}
	if forward[0].SrcWord != "a" || forward[1].SrcWord != "b" {
		t.Errorf("expected source-word order, got %v", forward)
	}
}

func TestProjectTieOrderBySourceThenTarget(t *testing.T) {
	srcWords := []tokenizer.Word{
		{Index: 0, Text: "one", Start: 0, End: 3, TokenIndexes: []int{0}},
	}
	tgtWords := []tokenizer.Word{
		{Index: 0, Text: "uno", Start: 0, End: 3, TokenIndexes: []int{0}},
		{Index: 1, Text: "una", Start: 4, End: 7, TokenIndexes: []int{1}},
	}
	got, err := Project([]Pair{{0, 1}, {0, 0}}, srcWords, tgtWords,
		map[int]int{0: 0}, map[int]int{0: 0, 1: 1})
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	if len(got) != 2 || got[0].TargetWord != "uno" || got[1].TargetWord != "una" {
		t.Errorf("expected target-index tiebreak, got %v", got)
	}
}

func TestProjectOrphanToken(t *testing.T) {
	srcWords := []tokenizer.Word{{Index: 0, Text: "a", TokenIndexes: []int{0}}}
	tgtWords := []tokenizer.Word{{Index: 0, Text: "x", TokenIndexes: []int{0}}}

	_, err := Project([]Pair{{5, 0}}, srcWords, tgtWords, map[int]int{0: 0}, map[int]int{0: 0})
	if !errors.Is(err, ErrOrphanToken) {
		t.Errorf("expected ErrOrphanToken for unmapped source token, got %v", err)
	}
	_, err = Project([]Pair{{0, 5}}, srcWords, tgtWords, map[int]int{0: 0}, map[int]int{0: 0})
	if !errors.Is(err, ErrOrphanToken) {
		t.Errorf("expected ErrOrphanToken for unmapped target token, got %v", err)
	}
}

func TestProjectSpansComeFromWords(t *testing.T) {
	// Word span must equal the union of its token spans, as produced by
	// the tokenizer contract; Project reads it straight from the Word.
	srcWords := []tokenizer.Word{
		{Index: 0, Text: "McGregor's", Start: 0, End: 10, TokenIndexes: []int{0, 1, 2}},
	}
	tgtWords := []tokenizer.Word{
		{Index: 0, Text: "МакГрегора", Start: 3, End: 13, TokenIndexes: []int{0, 1}},
	}
	got, err := Project([]Pair{{1, 1}}, srcWords, tgtWords,
		map[int]int{0: 0, 1: 0, 2: 0}, map[int]int{0: 0, 1: 0})
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	if got[0].SrcSpan != [2]int{0, 10} {
		t.Errorf("src span = %v, want [0,10]", got[0].SrcSpan)
	}
	if got[0].TargetSpan != [2]int{3, 13} {
		t.Errorf("target span = %v, want [3,13]", got[0].TargetSpan)
	}
}

func TestProjectEmptyPairs(t *testing.T) {
	got, err := Project(nil, nil, nil, map[int]int{}, map[int]int{})
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no alignments, got %v", got)
	}
}
