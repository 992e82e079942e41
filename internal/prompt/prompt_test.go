package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderSubstitutesContextAndQuestion(t *testing.T) {
	p := New()
	out, err := p.Render("도서관은 평일 9시에 개관합니다.", "도서관 언제 열어?")
	require.NoError(t, err)

	assert.Contains(t, out, "도서관은 평일 9시에 개관합니다.")
	assert.Contains(t, out, "Question: 도서관 언제 열어?")
}

func TestRenderedPromptCarriesGreetingDirective(t *testing.T) {
	p := New()
	// The self-introduction behavior for greetings like "안녕" is a prompt
	// contract: the directive must reach the model verbatim.
	out, err := p.Render("", "안녕")
	require.NoError(t, err)
	assert.Contains(t, out, GreetingDirective)
}

func TestRenderedPromptCarriesPersonaRules(t *testing.T) {
	p := New()
	out, err := p.Render("ctx", "q")
	require.NoError(t, err)

	for _, directive := range []string{
		"당신의 이름은 SYU-GPT입니다",
		"bullet style format",
		"Don't make up anything",
	} {
		assert.True(t, strings.Contains(out, directive), "missing directive %q", directive)
	}
}
