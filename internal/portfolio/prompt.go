package portfolio

import (
	_ "embed"
	"strings"

	"forgefolio/internal/llm"
)

var (
	//go:embed prompts/system_v1.txt
	systemPromptV1 string
	//go:embed prompts/generate_v1.txt
	generatePromptV1 string
)

const notSpecified = "Not specified"

// BuildPrompt renders the completion prompt for req in the style of tmpl. The
// user message carries every request field and lists each section marker once,
// in Sections order. It is a pure function.
func BuildPrompt(req PortfolioRequest, tmpl Template) llm.Prompt {
	headings := make([]string, 0, len(Sections))
	for _, s := range Sections {
		headings = append(headings, s.Marker())
	}

	// Single pass, so placeholder-looking text in user input is left alone.
	user := strings.NewReplacer(
		"{{TEMPLATE_NAME}}", tmpl.Name,
		"{{TEMPLATE_STYLE}}", tmpl.Style,
		"{{NAME}}", req.Name,
		"{{PROFESSION}}", req.Profession,
		"{{EXPERIENCE}}", req.Experience,
		"{{SKILLS}}", joinOrNotSpecified(req.Skills),
		"{{PROJECTS}}", joinOrNotSpecified(req.Projects),
		"{{EDUCATION}}", orNotSpecified(req.Education),
		"{{SECTION_HEADINGS}}", strings.Join(headings, "\n"),
	).Replace(generatePromptV1)

	system := strings.NewReplacer(
		"{{TEMPLATE_NAME}}", tmpl.Name,
		"{{TEMPLATE_STYLE}}", tmpl.Style,
	).Replace(systemPromptV1)

	return llm.Prompt{
		System: strings.TrimSpace(system),
		User:   strings.TrimSpace(user),
	}
}

func joinOrNotSpecified(items []string) string {
	if len(items) == 0 {
		return notSpecified
	}
	return strings.Join(items, ", ")
}

func orNotSpecified(s string) string {
	if strings.TrimSpace(s) == "" {
		return notSpecified
	}
	return s
}
