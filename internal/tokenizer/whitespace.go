package tokenizer

import "unicode"

// Whitespace splits text on Unicode whitespace, yielding one token per
// word (a 1:1 token-to-word mapping). Offsets are rune positions so
// spans stay stable for non-ASCII text.
type Whitespace struct{}

// NewWhitespace returns the default whitespace tokenizer.
func NewWhitespace() Whitespace {
	return Whitespace{}
}

func (Whitespace) Tokenize(text string) (Tokenization, error) {
	runes := []rune(text)
	tok := Tokenization{TokenToWord: make(map[int]int)}

	i := 0
	for i < len(runes) {
		if unicode.IsSpace(runes[i]) {
			i++
			continue
		}
		start := i
		for i < len(runes) && !unicode.IsSpace(runes[i]) {
			i++
		}
		idx := len(tok.Words)
		tok.Tokens = append(tok.Tokens, Token{
			Index:     idx,
			Text:      string(runes[start:i]),
			Start:     start,
			End:       i,
			WordIndex: idx,
		})
		tok.Words = append(tok.Words, Word{
			Index:        idx,
			Text:         string(runes[start:i]),
			Start:        start,
			End:          i,
			TokenIndexes: []int{idx},
		})
		tok.TokenToWord[idx] = idx
	}
	return tok, nil
}
