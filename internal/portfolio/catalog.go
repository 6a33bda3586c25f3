package portfolio

import (
	"embed"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

//go:embed catalog/*.yaml
var catalogFS embed.FS

// DefaultTemplateID is used when no template is given or the given one is unknown.
const DefaultTemplateID = "tech_modern"

// Template is a visual style the client renders the generated sections with.
type Template struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	Style       string   `json:"style" yaml:"style"`
	Sections    []string `json:"sections" yaml:"sections"`
	Keywords    []string `json:"-" yaml:"keywords"`
}

// SampleProfile is a canned form fill the UI can offer.
type SampleProfile struct {
	ID         string   `json:"id" yaml:"id"`
	Name       string   `json:"name" yaml:"name"`
	Profession string   `json:"profession" yaml:"profession"`
	Experience string   `json:"experience" yaml:"experience"`
	Skills     []string `json:"skills" yaml:"skills"`
	Projects   []string `json:"projects" yaml:"projects"`
}

// Catalog holds the templates and sample profiles. It is read-only after load.
type Catalog struct {
	templates []Template
	byID      map[string]Template
	samples   []SampleProfile
}

// LoadCatalog parses the embedded template and sample definitions.
func LoadCatalog() (*Catalog, error) {
	rawTemplates, err := catalogFS.ReadFile("catalog/templates.yaml")
	if err != nil {
		return nil, errors.Wrap(err, "read templates")
	}
	rawSamples, err := catalogFS.ReadFile("catalog/samples.yaml")
	if err != nil {
		return nil, errors.Wrap(err, "read samples")
	}
	return ParseCatalog(rawTemplates, rawSamples)
}

// MustLoadCatalog is LoadCatalog for program start-up.
func MustLoadCatalog() *Catalog {
	c, err := LoadCatalog()
	if err != nil {
		panic(err)
	}
	return c
}

// ParseCatalog builds a Catalog from YAML documents. The template list must
// contain DefaultTemplateID.
func ParseCatalog(templatesYAML, samplesYAML []byte) (*Catalog, error) {
	var templates []Template
	if err := yaml.Unmarshal(templatesYAML, &templates); err != nil {
		return nil, errors.Wrap(err, "parse templates")
	}
	var samples []SampleProfile
	if err := yaml.Unmarshal(samplesYAML, &samples); err != nil {
		return nil, errors.Wrap(err, "parse samples")
	}

	byID := make(map[string]Template, len(templates))
	for _, t := range templates {
		if t.ID == "" {
			return nil, errors.New("template without id")
		}
		if _, dup := byID[t.ID]; dup {
			return nil, errors.Errorf("duplicate template %q", t.ID)
		}
		byID[t.ID] = t
	}
	if _, ok := byID[DefaultTemplateID]; !ok {
		return nil, errors.Errorf("default template %q missing", DefaultTemplateID)
	}
	return &Catalog{templates: templates, byID: byID, samples: samples}, nil
}

// Templates returns the templates in catalog order.
func (c *Catalog) Templates() []Template {
	out := make([]Template, len(c.templates))
	copy(out, c.templates)
	return out
}

// Samples returns the sample profiles in catalog order.
func (c *Catalog) Samples() []SampleProfile {
	out := make([]SampleProfile, len(c.samples))
	copy(out, c.samples)
	return out
}

// TemplatesByID returns the templates keyed by id.
func (c *Catalog) TemplatesByID() map[string]Template {
	out := make(map[string]Template, len(c.byID))
	for id, t := range c.byID {
		out[id] = t
	}
	return out
}

// SamplesByID returns the sample profiles keyed by id.
func (c *Catalog) SamplesByID() map[string]SampleProfile {
	out := make(map[string]SampleProfile, len(c.samples))
	for _, s := range c.samples {
		out[s.ID] = s
	}
	return out
}

// Template looks up id, reporting whether it exists.
func (c *Catalog) Template(id string) (Template, bool) {
	t, ok := c.byID[id]
	return t, ok
}

// Resolve picks the template for a request: an explicit known id wins, then
// keyword inference from the profession, then the default.
func (c *Catalog) Resolve(templateID, profession string) Template {
	if t, ok := c.byID[templateID]; ok {
		return t
	}
	return c.ForProfession(profession)
}

var wordRE = regexp.MustCompile(`[a-z0-9]+`)

// ForProfession returns the first template with a keyword matching a word of
// the profession, or the default template.
func (c *Catalog) ForProfession(profession string) Template {
	words := make(map[string]struct{})
	for _, w := range wordRE.FindAllString(strings.ToLower(profession), -1) {
		words[w] = struct{}{}
	}
	for _, t := range c.templates {
		for _, kw := range t.Keywords {
			if _, ok := words[strings.ToLower(kw)]; ok {
				return t
			}
		}
	}
	return c.byID[DefaultTemplateID]
}
