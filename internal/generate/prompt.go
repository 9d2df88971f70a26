// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/Kr-Amritanshu/Paper-Genius/pkg/types"
)

// Profile names accepted in GenerationConfig.Profile.
const (
	ProfileComprehensive = "comprehensive"
	ProfileConcise       = "concise"
)

const systemPrompt = "You are an expert academic research paper writer. Generate well-structured, professionally written research papers with proper citations."

// Profile sets the length targets and token budget of a generated paper.
type Profile struct {
	Name         string
	Adjective    string
	AbstractMin  int
	AbstractMax  int
	SectionWords int
	MaxTokens    int
}

var profiles = map[string]Profile{
	ProfileComprehensive: {
		Name:         ProfileComprehensive,
		Adjective:    "comprehensive",
		AbstractMin:  150,
		AbstractMax:  250,
		SectionWords: 200,
		MaxTokens:    8192,
	},
	ProfileConcise: {
		Name:         ProfileConcise,
		Adjective:    "concise",
		AbstractMin:  100,
		AbstractMax:  150,
		SectionWords: 120,
		MaxTokens:    4096,
	},
}

// LookupProfile returns the named profile. An empty name selects
// comprehensive.
func LookupProfile(name string) (Profile, error) {
	if name == "" {
		name = ProfileComprehensive
	}
	p, ok := profiles[strings.ToLower(name)]
	if !ok {
		return Profile{}, fmt.Errorf("unknown generation profile %q: use %s or %s", name, ProfileComprehensive, ProfileConcise)
	}
	return p, nil
}

var paperPromptTmpl = template.Must(template.New("paper").Funcs(template.FuncMap{
	"inc":  func(i int) int { return i + 1 },
	"join": strings.Join,
}).Parse(`You are a research paper writing assistant. Generate a {{.Profile.Adjective}}, well-structured research paper on the following topic: "{{.Topic}}".

Use the following REAL references in your paper. You MUST cite these references throughout the paper using in-text citations in {{.Style}} format:

{{range $i, $r := .References}}[{{inc $i}}] {{$r.Title}} by {{join $r.Authors ", "}} ({{$r.Year}}){{if $r.DOI}} DOI: {{$r.DOI}}{{end}}
{{end}}
Generate a complete research paper with the following sections. Each section should be substantial and well-developed:

1. **Title**: Create a compelling, academic title for this research paper
2. **Abstract**: {{.Profile.AbstractMin}}-{{.Profile.AbstractMax}} words summarizing the entire paper
3. **Introduction**: Introduction with background, context, and research objectives. Include in-text citations.
4. **Methods**: Methodology section explaining research approach, data collection, and analysis methods. Include citations where appropriate.
5. **Results**: Present hypothetical but realistic findings and data relevant to the topic. Reference similar studies.
6. **Discussion**: Interpret the results, compare with existing literature, discuss implications. Use citations extensively.
7. **Conclusion**: Summarize findings, discuss limitations, and suggest future research directions.

IMPORTANT:
- Use in-text citations throughout ({{.CitationHint}})
- Make citations relevant to the content
- The paper should be academically rigorous and coherent
- Each section should be at least {{.Profile.SectionWords}} words
- Respond in JSON format with keys: title, abstract, introduction, methods, results, discussion, conclusion
`))

var citationHints = map[types.CitationStyle]string{
	types.StyleAPA:  "e.g., (Author, Year) or Author (Year)",
	types.StyleIEEE: "e.g., [1] or [2, 3], numbered as listed above",
	types.StyleMLA:  "e.g., (Author) or Author",
}

// Render builds the provider request for topic.
func (p Profile) Render(topic string, refs []types.Reference, style types.CitationStyle) (Prompt, error) {
	if !style.Valid() {
		style = types.DefaultCitationStyle
	}
	var buf bytes.Buffer
	err := paperPromptTmpl.Execute(&buf, struct {
		Profile      Profile
		Topic        string
		Style        types.CitationStyle
		CitationHint string
		References   []types.Reference
	}{p, topic, style, citationHints[style], refs})
	if err != nil {
		return Prompt{}, err
	}
	return Prompt{System: systemPrompt, User: buf.String(), MaxTokens: p.MaxTokens}, nil
}
