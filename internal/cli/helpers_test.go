package cli

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/pngcard/internal/testutil"
)

// testEnv is an isolated workspace: a config file pointing the library into
// a temp dir, and a fixed export clock.
type testEnv struct {
	dir     string
	config  string
	library string
	clock   *testutil.DeterministicClock
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, ".config"))

	env := &testEnv{
		dir:     dir,
		config:  filepath.Join(dir, "config.toml"),
		library: filepath.Join(dir, "data", "library.db"),
		clock:   testutil.NewDeterministicClock(),
	}
	env.writeFile(t, "config.toml", "library_path = \""+filepath.ToSlash(env.library)+"\"\nlog_level = \"warn\"\n")
	return env
}

func (e *testEnv) path(name string) string {
	return filepath.Join(e.dir, name)
}

func (e *testEnv) writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := e.path(name)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

// run executes the CLI with --config prepended and returns stdout, stderr
// and the exit code.
func (e *testEnv) run(t *testing.T, args ...string) (string, string, int) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	opts := &RootOptions{Now: e.clock.Now}
	code := execute(opts, append([]string{"--config", e.config}, args...), &stdout, &stderr)
	return stdout.String(), stderr.String(), code
}

const ariaYAML = `kind: character_card
card:
  name: Aria
  description: A wandering mage.
  traits: [curious, stubborn]
world:
  name: Saltmarsh
lore_entries:
  - key: tide
    text: The tide answers to the lighthouse.
`

// exportAria writes aria.yaml and exports it, returning the PNG path.
func exportAria(t *testing.T, env *testEnv) string {
	t.Helper()
	card := env.writeFile(t, "aria.yaml", ariaYAML)
	out := env.path("out/aria.png")
	_, stderr, code := env.run(t, "export", card, "-o", out)
	require.Equal(t, ExitSuccess, code, stderr)
	return out
}

// decodeData unmarshals the data of a successful JSON response into v.
func decodeData(t *testing.T, stdout string, v any) {
	t.Helper()
	var resp struct {
		Status string          `json:"status"`
		Data   json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp), stdout)
	require.Equal(t, "ok", resp.Status)
	require.NoError(t, json.Unmarshal(resp.Data, v))
}

func decodeImage(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	return img
}
