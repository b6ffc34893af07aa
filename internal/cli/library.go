package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/pngcard/internal/capsule"
	"github.com/roach88/pngcard/internal/payload"
	"github.com/roach88/pngcard/internal/store"
)

// LibraryOptions holds flags shared by the library subcommands.
type LibraryOptions struct {
	*RootOptions
	Database string
}

func (o *LibraryOptions) path() string {
	if o.Database != "" {
		return o.Database
	}
	return o.Config.LibraryPath
}

func (o *LibraryOptions) open() (*store.Store, error) {
	return openLibrary(o.path())
}

// NewLibraryCommand creates the library command and its subcommands.
func NewLibraryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LibraryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "library",
		Short: "Browse and re-export imported cards",
		Long: `Work with the local card library.

The library defaults to library_path from the config file; --db overrides it.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "library database (default from config)")

	cmd.AddCommand(newLibraryListCommand(opts))
	cmd.AddCommand(newLibraryShowCommand(opts))
	cmd.AddCommand(newLibraryExtractCommand(opts))

	return cmd
}

// LibraryListItem is one row of library list.
type LibraryListItem struct {
	ID         string       `json:"id"`
	Kind       payload.Kind `json:"kind"`
	Name       string       `json:"name"`
	ExportedAt string       `json:"exported_at"`
	CreatedAt  string       `json:"created_at"`
	HasImage   bool         `json:"has_image"`
}

// LibraryListResult is the output of library list.
type LibraryListResult struct {
	Entries []LibraryListItem `json:"entries"`
}

// Text implements textRenderer.
func (r LibraryListResult) Text() string {
	if len(r.Entries) == 0 {
		return "No cards in library.\n"
	}
	rows := make([][]string, 0, len(r.Entries))
	for _, e := range r.Entries {
		image := "-"
		if e.HasImage {
			image = "yes"
		}
		rows = append(rows, []string{e.ID, string(e.Kind), e.Name, e.CreatedAt, image})
	}
	return renderTable(
		[]string{"ID", "KIND", "NAME", "ADDED", "IMAGE"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft},
	) + "\n"
}

func newLibraryListCommand(opts *LibraryOptions) *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:           "list",
		Short:         "List cards in the library",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLibraryList(opts, kind, cmd)
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "only list cards of this kind (persona|character_card|scenario_card)")

	return cmd
}

func runLibraryList(opts *LibraryOptions, kindFlag string, cmd *cobra.Command) error {
	var kind payload.Kind
	if kindFlag != "" {
		k, err := payload.ParseKind(kindFlag)
		if err != nil {
			return WrapExitError(ExitCommandError, CodeUsage, "invalid --kind", err)
		}
		kind = k
	}

	st, err := opts.open()
	if err != nil {
		return err
	}
	defer st.Close()

	entries, err := st.List(commandContext(cmd), kind)
	if err != nil {
		return WrapExitError(ExitCommandError, CodeLibrary, "failed to list cards", err)
	}

	result := LibraryListResult{Entries: make([]LibraryListItem, 0, len(entries))}
	for _, e := range entries {
		result.Entries = append(result.Entries, LibraryListItem{
			ID:         e.ID,
			Kind:       e.Kind,
			Name:       e.Name,
			ExportedAt: e.ExportedAt.UTC().Format(payload.TimeFormat),
			CreatedAt:  formatCreated(e.CreatedAt),
			HasImage:   e.ImageHash != "",
		})
	}
	return opts.formatter(cmd).Success(result)
}

func newLibraryShowCommand(opts *LibraryOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "show <id>",
		Short:         "Show one card",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLibraryShow(opts, args[0], cmd)
		},
	}
}

func runLibraryShow(opts *LibraryOptions, id string, cmd *cobra.Command) error {
	st, err := opts.open()
	if err != nil {
		return err
	}
	defer st.Close()

	entry, err := getEntry(commandContext(cmd), st, id)
	if err != nil {
		return err
	}
	summary, err := summarize(entry.Payload())
	if err != nil {
		return WrapExitError(ExitCommandError, CodeLibrary, "failed to summarize card", err)
	}
	summary.ID = entry.ID
	return opts.formatter(cmd).Success(summary)
}

// ExtractResult is the output of library extract.
type ExtractResult struct {
	ID    string `json:"id"`
	Path  string `json:"path"`
	Bytes int    `json:"bytes"`
}

// Text implements textRenderer.
func (r ExtractResult) Text() string {
	return fmt.Sprintf("Extracted %s to %s (%d bytes)\n", r.ID, r.Path, r.Bytes)
}

func newLibraryExtractCommand(opts *LibraryOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "extract <id>",
		Short: "Re-export a card as a fresh capsule",
		Long: `Re-export a library card as a PNG capsule stamped with the current time.

The stored artwork is used when the entry has one; otherwise a placeholder
card is drawn. -o names the output file or directory.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLibraryExtract(opts, args[0], output, cmd)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file or directory (default: current directory)")

	return cmd
}

func runLibraryExtract(opts *LibraryOptions, id, output string, cmd *cobra.Command) error {
	ctx := commandContext(cmd)

	st, err := opts.open()
	if err != nil {
		return err
	}
	defer st.Close()

	entry, err := getEntry(ctx, st, id)
	if err != nil {
		return err
	}
	src, err := st.Image(ctx, id)
	if err != nil && !errors.Is(err, store.ErrNoImage) {
		return WrapExitError(ExitCommandError, CodeLibrary, "failed to load artwork", err)
	}

	p := entry.Payload()
	p.ExportedAt = opts.Now().UTC().Truncate(time.Millisecond)
	png, err := newExporter(opts.RootOptions).ExportPayload(p, src)
	if err != nil {
		return WrapExitError(ExitCommandError, CodeInvalidInput, "failed to export card", err)
	}

	path := output
	if path == "" || isDirTarget(path) {
		path = filepath.Join(path, capsule.Filename(entry.Name, entry.Kind))
	}
	if err := resolveOutputDir(path); err != nil {
		return WrapExitError(ExitCommandError, CodeIO, "failed to create output directory", err)
	}
	if err := writeFileAtomic(path, png); err != nil {
		return WrapExitError(ExitCommandError, CodeIO, "failed to write capsule", err)
	}
	opts.Logger.Info("card extracted", "id", id, "path", path)

	return opts.formatter(cmd).Success(ExtractResult{ID: id, Path: path, Bytes: len(png)})
}

func getEntry(ctx context.Context, st *store.Store, id string) (*store.Entry, error) {
	entry, err := st.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, NewExitError(ExitFailure, CodeNotFound, fmt.Sprintf("no card with id %q", id))
	}
	if err != nil {
		return nil, WrapExitError(ExitCommandError, CodeLibrary, "failed to load card", err)
	}
	return entry, nil
}

// isDirTarget reports whether an -o value names a directory rather than a
// file: an existing directory, or a path ending in a separator.
func isDirTarget(output string) bool {
	if strings.HasSuffix(output, string(os.PathSeparator)) || strings.HasSuffix(output, "/") {
		return true
	}
	info, err := os.Stat(output)
	return err == nil && info.IsDir()
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
