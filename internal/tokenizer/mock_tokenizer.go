package tokenizer

import "github.com/stretchr/testify/mock"

// MockTokenizer is a mock implementation of Tokenizer using testify/mock.
type MockTokenizer struct {
	mock.Mock
}

func (m *MockTokenizer) Tokenize(text string) (Tokenization, error) {
	args := m.Called(text)
	return args.Get(0).(Tokenization), args.Error(1)
}
