package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/y2chan/SYUGPT/internal/domain"
)

// ErrorPrefix is the fixed user-facing prefix for failed questions.
const ErrorPrefix = "오류가 발생했습니다: "

// NotInitializedMessage is shown when questions arrive before an index
// exists (empty or failed corpus load).
const NotInitializedMessage = "문서 인덱스가 초기화되지 않았습니다. 말뭉치 디렉터리를 확인한 뒤 다시 실행해주세요."

// Assistant is the TUI-facing subset of the question-answering core.
type Assistant interface {
	Ask(ctx context.Context, question string) (string, error)
	Overview() string
}

// Model is the Bubble Tea model for the chat shell. It keeps a linear
// append-only transcript; one question is in flight at a time because Ask is
// called synchronously from Update.
type Model struct {
	assistant Assistant
	input     textinput.Model
	viewport  viewport.Model
	turns     []domain.Turn
	status    string
	ready     bool
}

// New creates the chat model.
func New(assistant Assistant) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "질문을 입력하세요."
	ti.Focus()
	ti.CharLimit = 0
	return Model{
		assistant: assistant,
		input:     ti,
		viewport:  viewport.New(0, 0),
		status:    "안녕! 이라고 인사해보세요 ✋",
	}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, th := transcriptStyle.GetFrameSize()
		_, qh := inputBoxStyle.GetFrameSize()
		reserved := 2 + 1 + qh + 1 // header + status + input frame + spacer
		vh := msg.Height - reserved - th
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = vh
		m.viewport.SetContent(m.renderTranscript())
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		if msg.Type == tea.KeyEnter {
			if q := strings.TrimSpace(m.input.Value()); q != "" {
				m = m.ask(q)
				return m, nil
			}
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// ask submits the question and appends the exchange to the transcript. On
// failure the transcript is left untouched and only the status line changes.
func (m Model) ask(question string) Model {
	answer, err := m.assistant.Ask(context.Background(), question)
	if err != nil {
		m.status = FormatError(err)
		m.viewport.SetContent(m.renderTranscript())
		return m
	}
	m.turns = append(m.turns,
		domain.Turn{Role: domain.RoleUser, Content: question},
		domain.Turn{Role: domain.RoleAssistant, Content: answer},
	)
	m.status = ""
	m.input.SetValue("")
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
	return m
}

// FormatError maps pipeline errors to the fixed user-facing strings.
func FormatError(err error) string {
	if errors.Is(err, domain.ErrNotInitialized) {
		return NotInitializedMessage
	}
	var genErr *domain.GenerationError
	if errors.As(err, &genErr) {
		return ErrorPrefix + genErr.Err.Error()
	}
	return ErrorPrefix + err.Error()
}

// Transcript exposes the turns for inspection.
func (m Model) Transcript() []domain.Turn { return m.turns }

// View renders the chat layout.
func (m Model) View() string {
	if !m.ready {
		return "데이터를 불러오는 중입니다..."
	}
	header := titleStyle.Render("SYU-GPT") + "  " + subtitleStyle.Render("삼육대학교 검색 엔진")
	body := transcriptStyle.Render(m.viewport.View())
	input := inputBoxStyle.Render(m.input.View())
	status := statusStyle.Render(m.status)
	return header + "\n" + body + "\n" + input + "\n" + status
}

func (m Model) renderTranscript() string {
	if len(m.turns) == 0 {
		var welcome strings.Builder
		welcome.WriteString("여러분이 검색하고 싶은 학교 정보를 검색하세요!\n")
		welcome.WriteString("데이터를 주기적으로 업데이트 중입니다.\n")
		if overview := m.assistant.Overview(); overview != "" {
			welcome.WriteString("\n")
			welcome.WriteString(overviewStyle.Render(overview))
		}
		return welcome.String()
	}
	var sb strings.Builder
	for i, turn := range m.turns {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		switch turn.Role {
		case domain.RoleUser:
			sb.WriteString(userStyle.Render("나") + "  " + turn.Content)
		case domain.RoleAssistant:
			sb.WriteString(assistantStyle.Render("SYU-GPT") + "  " + turn.Content)
		}
	}
	return sb.String()
}

var (
	titleStyle      = lipgloss.NewStyle().Bold(true)
	subtitleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	transcriptStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	statusStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	overviewStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true)
	userStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	assistantStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
)

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
