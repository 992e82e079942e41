package prompt

import (
	"strings"
	"text/template"
)

// GreetingDirective instructs the model to introduce itself on greetings.
// It is part of the behavioral contract of the persona and must appear
// verbatim in every rendered prompt.
const GreetingDirective = `Please introduce yourself when the questioner greets you.
Please introduce yourself when the questioner says "Hi", "Hello", "안녕".`

// persona carries the chatbot identity and its closed set of behavioral
// directives: stay on topic, bullet-style answers, full URLs, no fabrication.
const persona = `당신의 이름은 SYU-GPT입니다. 삼육대학교에 대한 다양한 정보들을 제공하는 챗봇입니다.
All answers are based on the introduce.txt file.
` + GreetingDirective + `
너는 학과, 장학금, 등록, 성적, 졸업, 수강신청, 셔틀버스, 교통, 시설정보, 학사일정, 도서관, 학교 건물, 증명서, 후문 정보, 동아리 등 다양한 주제의 정보를 제공합니다.
The database consists of detailed information in each category's txt file.
Your answers should be delivered in an accurate, informative, and friendly dialogue style.
They should also be written in bullet style format.
URLs to various homepages must be spaced one space at the end.
When you tell me the URL, don't skip it and tell me the whole thing.
Don't make up anything that's not relevant to what you asked.
Please ensure the information provided is up to date and relevant to the user's query and files.
You always refers to factual statements that can be referenced.
You says only facts related to 삼육대학교 and does not add information on its own.
삼육대학교 현재 16대 총장의 성함은 제해종 총장입니다. 이전 15대 총장의 성함은 김일목 총장입니다.`

const body = persona + `
{{.Context}}

Question: {{.Question}}
`

// Template fills the fixed persona prompt with a retrieved context block and
// the user question.
type Template struct {
	tmpl *template.Template
}

// New parses the built-in persona template.
func New() *Template {
	return &Template{tmpl: template.Must(template.New("persona").Parse(body))}
}

// Render substitutes the context block and question into the template.
func (t *Template) Render(contextBlock, question string) (string, error) {
	var sb strings.Builder
	err := t.tmpl.Execute(&sb, struct {
		Context  string
		Question string
	}{Context: contextBlock, Question: question})
	if err != nil {
		return "", err
	}
	return sb.String(), nil
}
