package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-layout-backend/internal/config"
	"storefront-layout-backend/internal/repository"
)

const exportedLayout = `{
  "scope_id": "collection:shoes",
  "sections": [
    {
      "id": "hero-1",
      "kind": "hero",
      "is_active": true,
      "settings": {"heading": "Fresh kicks"},
      "style": {"paddingTop": 24, "mobile": {"paddingTop": "8px"}}
    },
    {
      "id": "grid-1",
      "kind": "new_arrivals",
      "is_active": false,
      "settings": {"limit": 4}
    }
  ]
}`

type nopCloser struct{ closed *int }

func (c nopCloser) Close() error {
	*c.closed++
	return nil
}

func newTestCLI(t *testing.T) (*CLI, *bytes.Buffer, *repository.MemoryLayoutRepository, *int) {
	t.Helper()
	repo := repository.NewMemoryLayoutRepository()
	closed := 0
	out := &bytes.Buffer{}

	cfg := config.New()
	c := New(out, cfg).WithStoreOpener(func(ctx context.Context, cfg *config.Config) (repository.LayoutRepository, io.Closer, error) {
		return repo, nopCloser{closed: &closed}, nil
	})
	return c, out, repo, &closed
}

func run(t *testing.T, c *CLI, args ...string) error {
	t.Helper()
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetErr(io.Discard)
	return root.ExecuteContext(context.Background())
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestImportExportRoundTrip(t *testing.T) {
	c, out, repo, closed := newTestCLI(t)

	require.NoError(t, run(t, c, "import", writeFile(t, "layout.json", exportedLayout)))
	assert.Contains(t, out.String(), "Imported 2 sections into collection:shoes")
	assert.Equal(t, 1, repo.Len())
	assert.Equal(t, 1, *closed)

	out.Reset()
	require.NoError(t, run(t, c, "export", "collection:shoes"))

	var exported struct {
		ScopeID  string `json:"scope_id"`
		Sections []struct {
			ID       string `json:"id"`
			Kind     string `json:"kind"`
			IsActive bool   `json:"is_active"`
		} `json:"sections"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &exported))
	assert.Equal(t, "collection:shoes", exported.ScopeID)
	require.Len(t, exported.Sections, 2)
	assert.Equal(t, "hero-1", exported.Sections[0].ID)
	assert.Equal(t, "new_arrivals", exported.Sections[1].Kind)
	assert.False(t, exported.Sections[1].IsActive)
}

func TestExportToFile(t *testing.T) {
	c, out, _, _ := newTestCLI(t)
	require.NoError(t, run(t, c, "import", writeFile(t, "layout.json", exportedLayout)))

	target := filepath.Join(t.TempDir(), "out.json")
	out.Reset()
	require.NoError(t, run(t, c, "export", "collection:shoes", "-o", target))
	assert.Contains(t, out.String(), "Exported 2 sections")

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"scope_id": "collection:shoes"`)
}

func TestImportScopeOverride(t *testing.T) {
	c, out, _, _ := newTestCLI(t)

	require.NoError(t, run(t, c, "import", "--scope", "page:landing", writeFile(t, "layout.json", exportedLayout)))
	assert.Contains(t, out.String(), "into page:landing")

	out.Reset()
	require.NoError(t, run(t, c, "export", "page:landing"))
	assert.Contains(t, out.String(), `"scope_id": "page:landing"`)
}

func TestImportRejectsBadInput(t *testing.T) {
	c, _, repo, _ := newTestCLI(t)

	assert.Error(t, run(t, c, "import", writeFile(t, "broken.json", "{not json")))
	assert.Error(t, run(t, c, "import", writeFile(t, "noscope.json", `{"sections": []}`)))
	assert.Error(t, run(t, c, "import", filepath.Join(t.TempDir(), "missing.json")))
	assert.Equal(t, 0, repo.Len())
}

func TestCSSPrintsActiveSectionRules(t *testing.T) {
	c, out, _, _ := newTestCLI(t)
	require.NoError(t, run(t, c, "import", writeFile(t, "layout.json", exportedLayout)))

	out.Reset()
	require.NoError(t, run(t, c, "css", "collection:shoes"))
	css := out.String()
	assert.Contains(t, css, "#section-hero-1 {")
	assert.Contains(t, css, "padding-top: 24px;")
	assert.Contains(t, css, "@media (max-width: 768px)")
	assert.NotContains(t, css, "grid-1")

	out.Reset()
	require.NoError(t, run(t, c, "css", "--important", "collection:shoes"))
	assert.Contains(t, out.String(), "!important")
}

func TestCSSOfEmptyScope(t *testing.T) {
	c, out, _, _ := newTestCLI(t)
	require.NoError(t, run(t, c, "css", "global"))
	assert.Empty(t, out.String())
}

func TestInvalidScopeArgument(t *testing.T) {
	c, _, _, _ := newTestCLI(t)
	err := run(t, c, "export", "bad scope!")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "invalid scope"))
}

func TestStoreOpenFailure(t *testing.T) {
	c, _, _, _ := newTestCLI(t)
	cause := errors.New("connection refused")
	c.WithStoreOpener(func(context.Context, *config.Config) (repository.LayoutRepository, io.Closer, error) {
		return nil, nil, cause
	})

	assert.ErrorIs(t, run(t, c, "export", "global"), cause)
}

func TestTemplatesListsBuiltinsAndFile(t *testing.T) {
	c, out, _, _ := newTestCLI(t)

	require.NoError(t, run(t, c, "templates"))
	assert.Contains(t, out.String(), "storefront")
	assert.Contains(t, out.String(), "landing")

	presets := writeFile(t, "presets.toml", `
[[templates]]
id = "spring"
name = "Spring launch"

[[templates.sections]]
kind = "hero"

[templates.sections.settings]
heading = "Spring is here"
`)

	out.Reset()
	require.NoError(t, run(t, c, "templates", "--file", presets))
	assert.Contains(t, out.String(), "Spring launch")
}

func TestTemplatesRejectsUnknownKinds(t *testing.T) {
	c, _, _, _ := newTestCLI(t)

	presets := writeFile(t, "presets.toml", `
[[templates]]
id = "odd"
name = "Odd"

[[templates.sections]]
kind = "carousel"
`)
	assert.Error(t, run(t, c, "templates", "--file", presets))
}
