package portfolio

// PortfolioRequest is validated form input.
type PortfolioRequest struct {
	Name       string   `json:"name"`
	Profession string   `json:"profession"`
	Experience string   `json:"experience"`
	Skills     []string `json:"skills"`
	Projects   []string `json:"projects"`
	Education  string   `json:"education,omitempty"`
	TemplateID string   `json:"template_id,omitempty"`
	Contact    Contact  `json:"contact"`
}

// Contact holds optional user-supplied contact details.
type Contact struct {
	Email    string `json:"email,omitempty" yaml:"email"`
	Phone    string `json:"phone,omitempty" yaml:"phone"`
	LinkedIn string `json:"linkedin,omitempty" yaml:"linkedin"`
	GitHub   string `json:"github,omitempty" yaml:"github"`
	Website  string `json:"website,omitempty" yaml:"website"`
}

// IsZero reports whether no contact field is set.
func (c Contact) IsZero() bool {
	return c == Contact{}
}

// GeneratedContent is the sectioned model output returned to the caller.
type GeneratedContent struct {
	Summary    string `json:"summary"`
	Skills     string `json:"skills"`
	Experience string `json:"experience"`
	Projects   string `json:"projects"`
	Conclusion string `json:"conclusion"`

	Template  string   `json:"template,omitempty"`
	Education string   `json:"education,omitempty"`
	Contact   *Contact `json:"contact,omitempty"`
}

// Section names one of the five generated sections.
type Section int

const (
	SectionSummary Section = iota
	SectionSkills
	SectionExperience
	SectionProjects
	SectionConclusion
)

// Sections lists every section in prompt order.
var Sections = []Section{
	SectionSummary,
	SectionSkills,
	SectionExperience,
	SectionProjects,
	SectionConclusion,
}

var sectionHeadings = [...]string{
	SectionSummary:    "Professional Summary",
	SectionSkills:     "Technical Skills",
	SectionExperience: "Professional Experience",
	SectionProjects:   "Key Projects",
	SectionConclusion: "Conclusion",
}

// Heading is the section's label inside its marker.
func (s Section) Heading() string {
	return sectionHeadings[s]
}

// Marker is the literal line that introduces the section in model output.
func (s Section) Marker() string {
	return "**" + sectionHeadings[s] + "**"
}

func (g *GeneratedContent) set(s Section, text string) {
	switch s {
	case SectionSummary:
		g.Summary = text
	case SectionSkills:
		g.Skills = text
	case SectionExperience:
		g.Experience = text
	case SectionProjects:
		g.Projects = text
	case SectionConclusion:
		g.Conclusion = text
	}
}
