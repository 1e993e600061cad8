package align

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"word-aligner/internal/embeddings"
	"word-aligner/internal/tokenizer"
)

// Aligner runs the full pipeline: tokenize both texts, embed them,
// build the similarity matrix, extract token pairs, project them to
// word alignments. It holds no per-request state; the embedder is the
// only shared resource and manages its own concurrency.
type Aligner struct {
	tok      tokenizer.Tokenizer
	embedder embeddings.Embedder
	opts     Options
	log      *slog.Logger
}

// New validates the strategy eagerly and returns a ready Aligner.
func New(tok tokenizer.Tokenizer, embedder embeddings.Embedder, opts Options, log *slog.Logger) (*Aligner, error) {
	if _, err := ParseStrategy(string(opts.Strategy)); err != nil {
		return nil, err
	}
	if opts.MaxIterations < 1 {
		opts.MaxIterations = DefaultItermaxIterations
	}
	return &Aligner{tok: tok, embedder: embedder, opts: opts, log: log}, nil
}

// Align aligns words between the source and target text. Texts that are
// empty after trimming are rejected with ErrEmptyInput; texts that
// tokenize to zero tokens produce a valid empty result. Cancellation is
// checked cooperatively at each stage boundary.
func (a *Aligner) Align(ctx context.Context, sourceText, targetText string) (Result, error) {
	if strings.TrimSpace(sourceText) == "" || strings.TrimSpace(targetText) == "" {
		return Result{}, ErrEmptyInput
	}
	res := Result{
		Alignments: []WordAlignment{},
		SourceText: sourceText,
		TargetText: targetText,
	}

	src, err := a.tok.Tokenize(sourceText)
	if err != nil {
		return Result{}, fmt.Errorf("tokenize source: %w", err)
	}
	tgt, err := a.tok.Tokenize(targetText)
	if err != nil {
		return Result{}, fmt.Errorf("tokenize target: %w", err)
	}
	if len(src.Tokens) == 0 || len(tgt.Tokens) == 0 {
		// Nothing alignable (e.g. punctuation-only input); a valid
		// empty result, not an error.
		return res, nil
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	srcVecs, tgtVecs, err := a.embedBoth(ctx, src.Tokens, tgt.Tokens)
	if err != nil {
		return Result{}, err
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	matrix, err := BuildMatrix(srcVecs, tgtVecs)
	if err != nil {
		return Result{}, fmt.Errorf("build matrix: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	pairs, err := Extract(matrix, a.opts)
	if err != nil {
		return Result{}, fmt.Errorf("extract: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	alignments, err := Project(pairs, src.Words, tgt.Words, src.TokenToWord, tgt.TokenToWord)
	if err != nil {
		return Result{}, fmt.Errorf("project: %w", err)
	}

	res.Alignments = alignments
	res.TotalAlignments = len(alignments)
	if a.log != nil {
		a.log.Debug("aligned",
			"strategy", string(a.opts.Strategy),
			"source_tokens", len(src.Tokens),
			"target_tokens", len(tgt.Tokens),
			"token_pairs", len(pairs),
			"word_alignments", len(alignments),
		)
	}
	return res, nil
}

// embedBoth embeds the two sides concurrently; results are identical to
// sequential embedding.
func (a *Aligner) embedBoth(ctx context.Context, srcTokens, tgtTokens []tokenizer.Token) ([]embeddings.Vector, []embeddings.Vector, error) {
	var srcVecs, tgtVecs []embeddings.Vector
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		vecs, err := a.embedder.EmbedTokens(gctx, tokenTexts(srcTokens))
		if err != nil {
			return fmt.Errorf("embed source: %w", err)
		}
		if len(vecs) != len(srcTokens) {
			return fmt.Errorf("embed source: got %d vectors for %d tokens", len(vecs), len(srcTokens))
		}
		srcVecs = vecs
		return nil
	})
	g.Go(func() error {
		vecs, err := a.embedder.EmbedTokens(gctx, tokenTexts(tgtTokens))
		if err != nil {
			return fmt.Errorf("embed target: %w", err)
		}
		if len(vecs) != len(tgtTokens) {
			return fmt.Errorf("embed target: got %d vectors for %d tokens", len(vecs), len(tgtTokens))
		}
		tgtVecs = vecs
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return srcVecs, tgtVecs, nil
}

func tokenTexts(tokens []tokenizer.Token) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = t.Text
	}
	return out
}
