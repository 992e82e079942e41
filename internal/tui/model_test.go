package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/y2chan/SYUGPT/internal/domain"
)

type stubAssistant struct {
	answer string
	err    error
}

func (s *stubAssistant) Ask(context.Context, string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.answer, nil
}

func (s *stubAssistant) Overview() string { return "삼육대학교 정보 요약." }

func submit(t *testing.T, m Model, question string) Model {
	t.Helper()
	m.input.SetValue(question)
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	next, ok := updated.(Model)
	require.True(t, ok)
	return next
}

func TestSuccessfulQuestionAppendsTwoTurns(t *testing.T) {
	m := New(&stubAssistant{answer: "도서관은 아홉시에 엽니다."})
	m = submit(t, m, "도서관 언제 열어?")

	turns := m.Transcript()
	require.Len(t, turns, 2)
	assert.Equal(t, domain.RoleUser, turns[0].Role)
	assert.Equal(t, "도서관 언제 열어?", turns[0].Content)
	assert.Equal(t, domain.RoleAssistant, turns[1].Role)
	assert.Equal(t, "도서관은 아홉시에 엽니다.", turns[1].Content)
}

func TestFailedQuestionLeavesTranscriptUnmodified(t *testing.T) {
	m := New(&stubAssistant{err: &domain.GenerationError{Stage: "generate", Err: errors.New("connection refused")}})
	m = submit(t, m, "장학금 알려줘")

	assert.Empty(t, m.Transcript(), "no partial entries on failure")
	assert.True(t, strings.HasPrefix(m.status, ErrorPrefix))
	assert.Contains(t, m.status, "connection refused")
}

func TestNotInitializedSentinel(t *testing.T) {
	m := New(&stubAssistant{err: domain.ErrNotInitialized})
	m = submit(t, m, "안녕")

	assert.Empty(t, m.Transcript())
	assert.Equal(t, NotInitializedMessage, m.status)
}

func TestFormatError(t *testing.T) {
	assert.Equal(t, NotInitializedMessage, FormatError(domain.ErrNotInitialized))

	err := &domain.GenerationError{Stage: "generate", Err: errors.New("quota exceeded")}
	assert.Equal(t, ErrorPrefix+"quota exceeded", FormatError(err))

	assert.Equal(t, ErrorPrefix+"boom", FormatError(errors.New("boom")))
}

func TestBlankInputIsIgnored(t *testing.T) {
	m := New(&stubAssistant{answer: "x"})
	m = submit(t, m, "   ")
	assert.Empty(t, m.Transcript())
}
