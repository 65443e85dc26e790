package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefault_ParsesEmbeddedCatalog(t *testing.T) {
	t.Parallel()

	c := Default()

	require.ElementsMatch(t, []string{"cit-return-filing", "tax-disclaimer", "visa-offer"}, c.Types())
}

func TestLetter_KnownTypeAndLanguage(t *testing.T) {
	t.Parallel()

	c := Default()

	l, txt, err := c.Letter("cit-return-filing", "en")

	require.NoError(t, err)
	require.Equal(t, []string{"CIT", "RF"}, l.Tokens)
	require.NotEmpty(t, txt.Synopsis)
	require.NotEmpty(t, txt.EmailBody)
	require.NotEmpty(t, txt.Sections)
}

func TestLetter_MissingLanguageFallsBackToEnglish(t *testing.T) {
	t.Parallel()

	c := Default()

	_, txt, err := c.Letter("visa-offer", "ar")

	require.NoError(t, err)
	require.Contains(t, txt.Synopsis, "Visa offer")
}

func TestLetter_ArabicVariant(t *testing.T) {
	t.Parallel()

	c := Default()

	_, txt, err := c.Letter("cit-return-filing", "ar")

	require.NoError(t, err)
	require.NotContains(t, txt.Synopsis, "Corporate tax")
}

func TestLetter_UnknownType(t *testing.T) {
	t.Parallel()

	c := Default()

	_, _, err := c.Letter("salary-certificate", "en")

	require.ErrorIs(t, err, ErrUnknownLetter)
}

func TestLoad_InvalidYAML(t *testing.T) {
	t.Parallel()

	_, err := Load(strings.NewReader("letters: [this is not valid"))

	require.ErrorIs(t, err, ErrInvalidCatalog)
}

func TestLoad_LetterWithoutType(t *testing.T) {
	t.Parallel()

	_, err := Load(strings.NewReader("letters:\n  - tokens: [\"X\"]\n"))

	require.ErrorIs(t, err, ErrInvalidCatalog)
}

func TestLoad_OverrideCatalog(t *testing.T) {
	t.Parallel()

	src := `
letters:
  - type: custom-letter
    tokens: ["CUST"]
    languages:
      en:
        synopsis: "Custom letter"
        sections:
          - title: "Body"
            mandatory: true
            paragraphs:
              - text: "Hello {{first_name}}."
`
	c, err := Load(strings.NewReader(src))

	require.NoError(t, err)
	_, txt, err := c.Letter("custom-letter", "de")
	require.NoError(t, err)
	require.Equal(t, "Custom letter", txt.Synopsis)
}
