package cli

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/pngcard/internal/capsule"
	"github.com/roach88/pngcard/internal/payload"
	"github.com/roach88/pngcard/internal/testutil"
)

func TestExport_WritesCapsule(t *testing.T) {
	env := newTestEnv(t)
	out := exportAria(t, env)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	res, err := capsule.Decode(data)
	require.NoError(t, err)

	assert.Equal(t, payload.KindCharacterCard, res.Payload.Kind)
	assert.Equal(t, "Aria", payload.Name(res.Payload.Card))
	assert.Equal(t, "Saltmarsh", payload.Name(res.Payload.World))
	assert.Len(t, res.Payload.LoreEntries, 1)
	assert.True(t, res.Payload.ExportedAt.Equal(testutil.Epoch))

	// Canvas size comes from the default config.
	img := decodeImage(t, res.Image)
	assert.Equal(t, 400, img.Bounds().Dx())
	assert.Equal(t, 600, img.Bounds().Dy())
}

func TestExport_JSONResult(t *testing.T) {
	env := newTestEnv(t)
	card := env.writeFile(t, "aria.yaml", ariaYAML)
	out := env.path("aria.png")

	stdout, _, code := env.run(t, "--format", "json", "export", card, "-o", out)
	require.Equal(t, ExitSuccess, code)

	var result ExportResult
	decodeData(t, stdout, &result)
	assert.Equal(t, out, result.Path)
	assert.Equal(t, payload.KindCharacterCard, result.Kind)
	assert.Equal(t, "Aria", result.Name)
	assert.Positive(t, result.Bytes)
}

func TestExport_KindOverride(t *testing.T) {
	env := newTestEnv(t)
	card := env.writeFile(t, "aria.yaml", ariaYAML)
	out := env.path("aria.png")

	_, stderr, code := env.run(t, "export", card, "--kind", "persona", "-o", out)
	require.Equal(t, ExitSuccess, code, stderr)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	res, err := capsule.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, payload.KindPersona, res.Payload.Kind)

	_, _, code = env.run(t, "export", card, "--kind", "villain", "-o", out)
	assert.Equal(t, ExitCommandError, code)
}

func TestExport_UsesArtwork(t *testing.T) {
	env := newTestEnv(t)
	card := env.writeFile(t, "aria.yaml", ariaYAML)
	art := env.path("art.png")
	require.NoError(t, os.WriteFile(art, testutil.PNG(t, 800, 1200, color.RGBA{R: 255, A: 255}), 0o644))
	out := env.path("aria.png")

	_, stderr, code := env.run(t, "export", card, "--image", art, "-o", out)
	require.Equal(t, ExitSuccess, code, stderr)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	res, err := capsule.Decode(data)
	require.NoError(t, err)
	r, g, b, _ := decodeImage(t, res.Image).At(200, 300).RGBA()
	assert.InDelta(t, 0xffff, r, 0x200)
	assert.InDelta(t, 0, g, 0x200)
	assert.InDelta(t, 0, b, 0x200)
}

func TestExport_MissingArtworkFallsBack(t *testing.T) {
	env := newTestEnv(t)
	card := env.writeFile(t, "aria.yaml", ariaYAML)
	out := env.path("aria.png")

	_, stderr, code := env.run(t, "export", card, "--image", env.path("missing.png"), "-o", out)
	require.Equal(t, ExitSuccess, code)
	assert.Contains(t, stderr, "artwork unreadable")
	assert.FileExists(t, out)
}

func TestExport_CreatesOutputDirectory(t *testing.T) {
	env := newTestEnv(t)
	card := env.writeFile(t, "aria.yaml", ariaYAML)
	out := filepath.Join(env.dir, "deep", "nested", "aria.png")

	_, _, code := env.run(t, "export", card, "-o", out)
	require.Equal(t, ExitSuccess, code)
	assert.FileExists(t, out)
}

func TestExport_InvalidCardFile(t *testing.T) {
	env := newTestEnv(t)
	card := env.writeFile(t, "bad.yaml", "card:\n  name: Nobody\n")

	_, stderr, code := env.run(t, "export", card, "-o", env.path("bad.png"))
	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, stderr, CodeInvalidInput)
	assert.NoFileExists(t, env.path("bad.png"))
}

func TestExport_RenderConfig(t *testing.T) {
	env := newTestEnv(t)
	env.writeFile(t, "config.toml", "log_level = \"warn\"\n[render]\nwidth = 200\nheight = 300\n")
	card := env.writeFile(t, "aria.yaml", ariaYAML)
	out := env.path("aria.png")

	_, stderr, code := env.run(t, "export", card, "-o", out)
	require.Equal(t, ExitSuccess, code, stderr)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	res, err := capsule.Decode(data)
	require.NoError(t, err)
	img := decodeImage(t, res.Image)
	assert.Equal(t, 200, img.Bounds().Dx())
	assert.Equal(t, 300, img.Bounds().Dy())
}
