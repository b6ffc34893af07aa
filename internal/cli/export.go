package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/pngcard/internal/capsule"
	"github.com/roach88/pngcard/internal/cardfile"
	"github.com/roach88/pngcard/internal/payload"
	"github.com/roach88/pngcard/internal/render"
)

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*RootOptions
	Output string
	Image  string
	Kind   string
}

// ExportResult is the outcome of an export.
type ExportResult struct {
	Path  string       `json:"path"`
	Kind  payload.Kind `json:"kind"`
	Name  string       `json:"name"`
	Bytes int          `json:"bytes"`
}

// Text implements textRenderer.
func (r ExportResult) Text() string {
	return fmt.Sprintf("Exported %q (%s) to %s (%d bytes)\n", r.Name, r.Kind, r.Path, r.Bytes)
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export <card-file>",
		Short: "Export a card file as a capsule PNG",
		Long: `Render a card and embed its record in the resulting PNG.

The card file is YAML (.yaml, .yml) or JSON with comments (.json, .jsonc):

  kind: character_card
  card: {name: Aria, description: A wandering mage.}
  world: {name: Saltmarsh}        # optional
  lore_entries: [{key: tide}]     # optional
  image: art/aria.png             # optional, relative to the card file

Without usable artwork a placeholder card is drawn. The output defaults to
<name>_<kind>.png in the current directory.

Examples:
  pngcard export aria.yaml
  pngcard export aria.yaml --image portrait.jpg -o out/aria.png
  pngcard export narrator.jsonc --kind persona`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output PNG path")
	cmd.Flags().StringVar(&opts.Image, "image", "", "artwork to crop onto the card (overrides the card file)")
	cmd.Flags().StringVar(&opts.Kind, "kind", "", "card kind (overrides the card file)")

	return cmd
}

func runExport(opts *ExportOptions, path string, cmd *cobra.Command) error {
	logger := opts.Logger

	in, err := cardfile.Load(path)
	if err != nil {
		return WrapExitError(ExitCommandError, CodeInvalidInput, "failed to load card file", err)
	}
	if opts.Kind != "" {
		if in.Kind, err = payload.ParseKind(opts.Kind); err != nil {
			return WrapExitError(ExitCommandError, CodeUsage, "invalid --kind", err)
		}
	}

	imagePath := in.Image
	if opts.Image != "" {
		imagePath = opts.Image
	}
	var source []byte
	if imagePath != "" {
		// Unreadable artwork degrades to the placeholder, like undecodable artwork.
		if source, err = os.ReadFile(imagePath); err != nil {
			logger.Warn("artwork unreadable, using placeholder", "path", imagePath, "error", err)
			source = nil
		}
	}

	exporter := newExporter(opts.RootOptions)
	out, err := exporter.Export(capsule.ExportRequest{
		Kind:        in.Kind,
		Card:        in.Card,
		SourceImage: source,
		World:       in.World,
		LoreEntries: in.LoreEntries,
	})
	if err != nil {
		return WrapExitError(ExitCommandError, CodeInvalidInput, "failed to export card", err)
	}

	name := payload.Name(in.Card)
	outPath := opts.Output
	if outPath == "" {
		outPath = capsule.Filename(name, in.Kind)
	}
	if err := resolveOutputDir(outPath); err != nil {
		return WrapExitError(ExitCommandError, CodeIO, "failed to create output directory", err)
	}
	if err := writeFileAtomic(outPath, out); err != nil {
		return WrapExitError(ExitCommandError, CodeIO, "failed to write output", err)
	}
	logger.Info("card exported", "path", outPath, "kind", in.Kind, "bytes", len(out))

	return opts.formatter(cmd).Success(ExportResult{
		Path:  outPath,
		Kind:  in.Kind,
		Name:  name,
		Bytes: len(out),
	})
}

// newExporter builds an exporter from the loaded configuration.
func newExporter(opts *RootOptions) *capsule.Exporter {
	exporter := capsule.NewExporter(opts.Logger)
	exporter.Renderer = newRenderer(opts)
	exporter.Now = opts.Now
	return exporter
}

func newRenderer(opts *RootOptions) *render.Renderer {
	r := render.New()
	r.Logger = opts.Logger
	if cfg := opts.Config; cfg != nil {
		r.Width = cfg.Render.Width
		r.Height = cfg.Render.Height
		r.MaxLines = cfg.Render.MaxDescriptionLines
	}
	return r
}

// resolveOutputDir makes sure the parent of path exists.
func resolveOutputDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
