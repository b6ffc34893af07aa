package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/pngcard/internal/capsule"
	"github.com/roach88/pngcard/internal/payload"
	"github.com/roach88/pngcard/internal/store"
)

// ImportOptions holds flags for the import command.
type ImportOptions struct {
	*RootOptions
	Database string
	Save     bool
}

// ImportResult is the outcome of an import.
type ImportResult struct {
	File    string             `json:"file"`
	Card    CardSummary        `json:"card"`
	Library *ImportLibraryInfo `json:"library,omitempty"`
}

// ImportLibraryInfo reports how an import was reconciled with the library.
type ImportLibraryInfo struct {
	Path   string `json:"path"`
	ID     string `json:"id"`
	Reused bool   `json:"reused"`
}

// Text implements textRenderer.
func (r ImportResult) Text() string {
	s := fmt.Sprintf("Capsule found in %s\n%s", r.File, r.Card.Text())
	if r.Library != nil {
		verb := "added as"
		if r.Library.Reused {
			verb = "already present as"
		}
		s += fmt.Sprintf("Library:      %s %s\n", verb, r.Library.ID)
	}
	return s
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ImportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "import <file.png>",
		Short: "Decode the card embedded in a PNG",
		Long: `Find and decode the capsule embedded in a PNG and print the card.

With --db (or --save, which uses the configured library_path) the card is
reconciled with the library: a card already present resolves to its
existing entry, anything else is added.

Exit status is 1 when the file carries no decodable capsule.

Examples:
  pngcard import Aria_character_card.png
  pngcard import Aria_character_card.png --db ./cards.db
  pngcard import Aria_character_card.png --save --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "library database to reconcile into")
	cmd.Flags().BoolVar(&opts.Save, "save", false, "reconcile into the configured library")

	return cmd
}

func runImport(opts *ImportOptions, path string, cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return WrapExitError(ExitCommandError, CodeIO, "failed to read file", err)
	}
	opts.formatter(cmd).VerboseLog("read %d bytes from %s", len(data), path)

	res, err := capsule.Decode(data)
	if err != nil {
		opts.Logger.Debug("no capsule", "file", path, "error", err)
		return WrapExitError(ExitFailure, CodeNoCapsule, fmt.Sprintf("no capsule found in %s", path), err)
	}

	summary, err := summarize(res.Payload)
	if err != nil {
		return WrapExitError(ExitFailure, CodeInvalidInput, "failed to summarize card", err)
	}
	if payload.CheckVersion(res.Payload.SchemaVersion) != nil {
		opts.Logger.Warn("capsule written by a newer schema", "schema_version", res.Payload.SchemaVersion)
	}
	result := ImportResult{File: path, Card: summary}

	dbPath := opts.Database
	if dbPath == "" && opts.Save {
		dbPath = opts.Config.LibraryPath
	}
	if dbPath != "" {
		st, err := openLibrary(dbPath)
		if err != nil {
			return err
		}
		defer st.Close()

		resolution, err := st.Resolve(ctx, res)
		if err != nil {
			if errors.Is(err, payload.ErrUnsupportedVersion) {
				return WrapExitError(ExitFailure, CodeInvalidInput, "card cannot be added to the library", err)
			}
			return WrapExitError(ExitCommandError, CodeLibrary, "failed to reconcile card", err)
		}
		opts.Logger.Info("card reconciled", "id", resolution.ID, "reused", resolution.Reused)
		result.Card.ID = resolution.ID
		result.Library = &ImportLibraryInfo{Path: dbPath, ID: resolution.ID, Reused: resolution.Reused}
	}

	return opts.formatter(cmd).Success(result)
}

// openLibrary opens (creating if needed) the library database at path.
func openLibrary(path string) (*store.Store, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, WrapExitError(ExitCommandError, CodeLibrary, "failed to create library directory", err)
		}
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, CodeLibrary, "failed to open library", err)
	}
	return st, nil
}
