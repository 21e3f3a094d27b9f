package langdata

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	log.SetLevel(log.ErrorLevel)
}

func TestCLDRLookups(t *testing.T) {
	r := NewRegistry()

	assert.Equal(t, "Deutsch", r.Autonym("de"))
	assert.Equal(t, "español", r.Autonym("es"))
	assert.Equal(t, "Latn", r.Script("en"))
	assert.Equal(t, "Cyrl", r.Script("ru"))
	assert.Equal(t, "Mlym", r.Script("ml"))

	assert.Empty(t, r.Autonym(""))
	assert.Empty(t, r.Script("not a code!"))
}

func TestOverridesWin(t *testing.T) {
	r := NewRegistry()
	r.SetAutonym("de", "Hochdeutsch")
	r.SetScript("sr", "Latn")

	assert.Equal(t, "Hochdeutsch", r.Autonym("de"))
	assert.Equal(t, "Latn", r.Script("sr"))
}

func TestStaticRegistry(t *testing.T) {
	r := NewStaticRegistry(map[string]string{"xx": "Xish"}, map[string]string{"xx": "Zyyy"})
	assert.Equal(t, "Xish", r.Autonym("xx"))
	assert.Equal(t, "Zyyy", r.Script("xx"))
	assert.Empty(t, r.Autonym("de"), "no CLDR fallback")
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overrides.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[autonyms]
ml = "മലയാളം (ml)"

[scripts]
sr = "Latn"
`), 0644))

	r := NewRegistry()
	require.NoError(t, r.LoadOverrides(path))
	assert.Equal(t, "മലയാളം (ml)", r.Autonym("ml"))
	assert.Equal(t, "Latn", r.Script("sr"))

	assert.Error(t, r.LoadOverrides(filepath.Join(t.TempDir(), "nope.toml")))
}

func TestDisplayNames(t *testing.T) {
	set, err := DisplayNames([]string{"fr", " de ", "", "ja"}, "en")
	require.NoError(t, err)
	assert.Equal(t, []string{"fr", "de", "ja"}, set.Codes())

	name, _ := set.Name("de")
	assert.Equal(t, "German", name)

	_, err = DisplayNames([]string{"fr"}, "!!")
	assert.Error(t, err)
}
