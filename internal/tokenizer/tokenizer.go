package tokenizer

// Token is the smallest unit produced by tokenization; it may be a
// sub-word fragment of its owning word.
type Token struct {
	Index     int    // 0-based position in the sequence
	Text      string
	Start     int // rune offset in the original text, inclusive
	End       int // rune offset in the original text, exclusive
	WordIndex int // index of the owning word
}

// Word is a delimited unit composed of one or more contiguous tokens.
// Its span is the union of its tokens' spans.
type Word struct {
	Index        int
	Text         string
	Start        int
	End          int
	TokenIndexes []int
}

// Tokenization bundles the full output of one Tokenize call.
type Tokenization struct {
	Tokens      []Token
	Words       []Word
	TokenToWord map[int]int
}

// Tokenizer splits raw text into tokens with character spans and groups
// them into words. Implementations must be deterministic for identical
// input; token spans must be non-overlapping and sorted by start offset.
type Tokenizer interface {
	Tokenize(text string) (Tokenization, error)
}
