package embeddings

import (
	"context"
	"errors"
	"testing"
)

func TestNewOpenAIEmbedderRequiresKey(t *testing.T) {
	if _, err := NewOpenAIEmbedder("", "text-embedding-3-small"); err == nil {
		t.Fatal("expected error for empty api key")
	}
}

func TestOpenAIEmbedderNilNotReady(t *testing.T) {
	var e *OpenAIEmbedder
	if err := e.Ready(context.Background()); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if _, err := e.EmbedTokens(context.Background(), []string{"a"}); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestMockEmbedderRoundTrip(t *testing.T) {
	m := &MockEmbedder{}
	tokens := []string{"cat", "sat"}
	want := []Vector{{1, 0}, {0, 1}}
	m.On("EmbedTokens", context.Background(), tokens).Return(want, nil).Once()

	got, err := m.EmbedTokens(context.Background(), tokens)
	if err != nil {
		t.Fatalf("EmbedTokens: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("got %d vectors, want %d", len(got), len(want))
	}
	m.AssertExpectations(t)
}
