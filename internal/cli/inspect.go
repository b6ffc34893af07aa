package cli

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/pngcard/internal/capsule"
	"github.com/roach88/pngcard/internal/pngchunk"
)

// InspectOptions holds flags for the inspect command.
type InspectOptions struct {
	*RootOptions
}

// ChunkInfo describes one chunk of an inspected PNG.
type ChunkInfo struct {
	Index   int    `json:"index"`
	Offset  int    `json:"offset"`
	Type    string `json:"type"`
	Length  uint32 `json:"length"`
	CRC     string `json:"crc"`
	Valid   bool   `json:"valid"`
	Keyword string `json:"keyword,omitempty"`
	Capsule bool   `json:"capsule,omitempty"`
}

// InspectResult lists the chunks of a PNG.
type InspectResult struct {
	File      string      `json:"file"`
	Size      int         `json:"size"`
	Chunks    []ChunkInfo `json:"chunks"`
	Capsules  int         `json:"capsules"`
	Truncated string      `json:"truncated,omitempty"`
}

// Text implements textRenderer.
func (r InspectResult) Text() string {
	rows := make([][]string, 0, len(r.Chunks))
	for _, c := range r.Chunks {
		valid := "ok"
		if !c.Valid {
			valid = "BAD"
		}
		note := c.Keyword
		if c.Capsule {
			note += " (capsule)"
		}
		rows = append(rows, []string{
			strconv.Itoa(c.Index),
			strconv.Itoa(c.Offset),
			c.Type,
			strconv.FormatUint(uint64(c.Length), 10),
			c.CRC,
			valid,
			note,
		})
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s (%d bytes, %d chunks, %d capsules)\n", r.File, r.Size, len(r.Chunks), r.Capsules)
	b.WriteString(renderTable(
		[]string{"#", "OFFSET", "TYPE", "LENGTH", "CRC", "VALID", "NOTE"},
		rows,
		[]columnAlignment{alignRight, alignRight, alignLeft, alignRight, alignLeft, alignLeft, alignLeft},
	))
	b.WriteString("\n")
	if r.Truncated != "" {
		fmt.Fprintf(&b, "Truncated: %s\n", r.Truncated)
	}
	return b.String()
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InspectOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "inspect <file.png>",
		Short: "List the chunks of a PNG",
		Long: `List every chunk of a PNG with its offset, length and CRC status.

tEXt chunks show their keyword; capsule chunks are marked. A file that ends
inside a chunk lists the chunks before it and reports where it was cut.

Examples:
  pngcard inspect Aria_character_card.png
  pngcard inspect Aria_character_card.png --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(opts, args[0], cmd)
		},
	}

	return cmd
}

func runInspect(opts *InspectOptions, path string, cmd *cobra.Command) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return WrapExitError(ExitCommandError, CodeIO, "failed to read file", err)
	}
	opts.formatter(cmd).VerboseLog("read %d bytes from %s", len(data), path)

	chunks, err := pngchunk.Chunks(data)
	if err != nil && !errors.Is(err, pngchunk.ErrTruncatedFile) {
		return WrapExitError(ExitFailure, CodeInvalidInput, fmt.Sprintf("%s is not a PNG", path), err)
	}

	result := InspectResult{File: path, Size: len(data), Chunks: make([]ChunkInfo, 0, len(chunks))}
	if err != nil {
		result.Truncated = err.Error()
		opts.Logger.Warn("file is truncated", "file", path, "error", err)
	}
	for i, c := range chunks {
		info := ChunkInfo{
			Index:  i,
			Offset: c.Offset,
			Type:   c.TypeString(),
			Length: c.Length,
			CRC:    fmt.Sprintf("%08x", c.CRC),
			Valid:  c.Valid(),
		}
		if kw, ok := c.Keyword(); ok {
			info.Keyword = kw
			info.Capsule = kw == capsule.Keyword && info.Valid
			if info.Capsule {
				result.Capsules++
			}
		}
		result.Chunks = append(result.Chunks, info)
	}

	return opts.formatter(cmd).Success(result)
}
