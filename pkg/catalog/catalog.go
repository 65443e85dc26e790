// Package catalog loads letter definitions: per-language paragraph
// templates, section titles and filename tokens for every letter type the
// engine can produce. A default catalog is embedded in the binary; an
// operations team can override it with a YAML file of the same shape.
package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

var (
	// ErrUnknownLetter indicates a letter type absent from the catalog.
	ErrUnknownLetter = errors.New("unknown letter type")

	// ErrNoLanguage indicates a letter with no usable language variant.
	ErrNoLanguage = errors.New("letter has no language variants")

	// ErrInvalidCatalog indicates the YAML could not be parsed.
	ErrInvalidCatalog = errors.New("invalid catalog")
)

// Paragraph is one templated paragraph of a letter or email body. When is
// an optional predicate key restricting the paragraph to matching
// selections ("qfzp", "sbr", "noc", "relief-available",
// "relief-unavailable", "qfzp-unqualified").
type Paragraph struct {
	Text     string `yaml:"text"`
	Kind     string `yaml:"kind"`
	When     string `yaml:"when"`
	Numbered bool   `yaml:"numbered"`
}

// SectionDef is one titled section of a letter. Table names a computed
// sub-table the composer expands in place ("qfzp-conditions"). Options
// marks the section carrying the mutually exclusive filing-option group.
type SectionDef struct {
	Title      string      `yaml:"title"`
	When       string      `yaml:"when"`
	Table      string      `yaml:"table"`
	Paragraphs []Paragraph `yaml:"paragraphs"`
	Mandatory  bool        `yaml:"mandatory"`
	Options    bool        `yaml:"options"`
}

// LetterText is one language variant of a letter.
type LetterText struct {
	Synopsis  string       `yaml:"synopsis"`
	EmailBody []Paragraph  `yaml:"email_body"`
	Sections  []SectionDef `yaml:"sections"`
}

// Letter is one letter type with all its language variants. Tokens are the
// letter-type tokens used in the shared filename convention.
type Letter struct {
	Type      string                `yaml:"type"`
	Tokens    []string              `yaml:"tokens"`
	Languages map[string]LetterText `yaml:"languages"`
}

// Catalog holds every known letter definition keyed by type.
type Catalog struct {
	letters map[string]Letter
}

type catalogFile struct {
	Letters []Letter `yaml:"letters"`
}

// Load parses a catalog from YAML.
func Load(r io.Reader) (*Catalog, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Join(ErrInvalidCatalog, err)
	}
	var f catalogFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, errors.Join(ErrInvalidCatalog, err)
	}
	c := &Catalog{letters: make(map[string]Letter, len(f.Letters))}
	for _, l := range f.Letters {
		if l.Type == "" {
			return nil, fmt.Errorf("%w: letter without a type", ErrInvalidCatalog)
		}
		c.letters[l.Type] = l
	}
	return c, nil
}

// LoadFile parses a catalog from a YAML file on disk.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Join(ErrInvalidCatalog, err)
	}
	defer f.Close()
	return Load(f)
}

// Default returns the catalog embedded in the binary.
func Default() *Catalog {
	c, err := Load(bytes.NewReader(defaultsYAML))
	if err != nil {
		// The embedded catalog is validated by tests; failing to parse it
		// is a build defect, not a runtime condition.
		panic(err)
	}
	return c
}

// Letter returns the definition and the text for the requested language,
// falling back to English when the language variant is missing.
func (c *Catalog) Letter(letterType, lang string) (Letter, LetterText, error) {
	l, ok := c.letters[letterType]
	if !ok {
		return Letter{}, LetterText{}, fmt.Errorf("%w: %s", ErrUnknownLetter, letterType)
	}
	if txt, ok := l.Languages[lang]; ok {
		return l, txt, nil
	}
	if txt, ok := l.Languages["en"]; ok {
		return l, txt, nil
	}
	return Letter{}, LetterText{}, fmt.Errorf("%w: %s", ErrNoLanguage, letterType)
}

// Types lists every letter type in the catalog.
func (c *Catalog) Types() []string {
	out := make([]string, 0, len(c.letters))
	for t := range c.letters {
		out = append(out, t)
	}
	return out
}
