package align

import (
	"fmt"
	"sort"

	"word-aligner/internal/tokenizer"
)

// WordAlignment links a source word to a target word with character
// spans on both sides.
type WordAlignment struct {
	SrcWord    string `json:"src_word"`
	TargetWord string `json:"target_word"`
	SrcSpan    [2]int `json:"src_indexes"`
	TargetSpan [2]int `json:"target_indexes"`
}

// Result is the final alignment of one (source, target) text pair.
type Result struct {
	Alignments      []WordAlignment `json:"alignments"`
	SourceText      string          `json:"source_text"`
	TargetText      string          `json:"target_text"`
	TotalAlignments int             `json:"total_alignments"`
}

// Project resolves token pairs to their owning words, collapses pairs
// that land on the same word pair, and orders the records by source
// word index, then target word index. Spans come from the Word itself,
// which is the union of its tokens' spans by construction. Ordering is
// independent of the extractor's iteration order.
func Project(pairs []Pair, srcWords, tgtWords []tokenizer.Word, srcTokenWord, tgtTokenWord map[int]int) ([]WordAlignment, error) {
	type wordPair struct{ src, tgt int }
	seen := make(map[wordPair]bool, len(pairs))
	var collapsed []wordPair

	for _, p := range pairs {
		sw, ok := srcTokenWord[p.Src]
		if !ok {
			return nil, fmt.Errorf("%w: source token %d", ErrOrphanToken, p.Src)
		}
		tw, ok := tgtTokenWord[p.Tgt]
		if !ok {
			return nil, fmt.Errorf("%w: target token %d", ErrOrphanToken, p.Tgt)
		}
		if sw < 0 || sw >= len(srcWords) {
			return nil, fmt.Errorf("%w: source word index %d out of range", ErrOrphanToken, sw)
		}
		if tw < 0 || tw >= len(tgtWords) {
			return nil, fmt.Errorf("%w: target word index %d out of range", ErrOrphanToken, tw)
		}
		wp := wordPair{src: sw, tgt: tw}
		if !seen[wp] {
			seen[wp] = true
			collapsed = append(collapsed, wp)
		}
	}

	sort.Slice(collapsed, func(i, j int) bool {
		if collapsed[i].src != collapsed[j].src {
			return collapsed[i].src < collapsed[j].src
		}
		return collapsed[i].tgt < collapsed[j].tgt
	})

	out := make([]WordAlignment, 0, len(collapsed))
	for _, wp := range collapsed {
		s := srcWords[wp.src]
		t := tgtWords[wp.tgt]
		out = append(out, WordAlignment{
			SrcWord:    s.Text,
			TargetWord: t.Text,
			SrcSpan:    [2]int{s.Start, s.End},
			TargetSpan: [2]int{t.Start, t.End},
		})
	}
	return out, nil
}
