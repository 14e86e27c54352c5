package loam

// EntryMetadata is the frontmatter (or JSON/YAML body) of one catalog document.
// It carries the union of zone and persona keys; the Source kind decides which are used.
type EntryMetadata struct {
	ID   string `json:"id" mapstructure:"id"`
	Code string `json:"code" mapstructure:"code"`
	Zone string `json:"zone" mapstructure:"zone"`

	// Zone fields
	Title         string `json:"title" mapstructure:"title"`
	Style         string `json:"style" mapstructure:"style"`
	Voice         string `json:"voice" mapstructure:"voice"`
	Summary       string `json:"summary" mapstructure:"summary"`
	Collaboration string `json:"collaboration" mapstructure:"collaboration"`
	Prompt        string `json:"prompt" mapstructure:"prompt"`
	Badge         string `json:"badge" mapstructure:"badge"`

	// Persona fields
	Name        string `json:"name" mapstructure:"name"`
	Desc        string `json:"desc" mapstructure:"desc"`
	Description string `json:"description" mapstructure:"description"`
	Suffix      string `json:"suffix" mapstructure:"suffix"`
	PromptHint  string `json:"prompt_hint" mapstructure:"prompt_hint"`

	Traits []any `json:"traits" mapstructure:"traits"`
}
