package capsule

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/roach88/pngcard/internal/payload"
	"github.com/roach88/pngcard/internal/pngchunk"
	"github.com/roach88/pngcard/internal/render"
)

// ExportRequest describes one card to export.
type ExportRequest struct {
	Kind        payload.Kind
	Card        payload.Record
	SourceImage []byte // optional artwork; undecodable bytes fall back to a placeholder
	World       payload.Record
	LoreEntries []payload.Record
}

// Exporter turns card records into capsule PNGs.
// An Exporter is safe for concurrent use.
type Exporter struct {
	Renderer *render.Renderer
	Now      func() time.Time
	Logger   *slog.Logger
}

// NewExporter returns an Exporter using the default renderer and wall clock.
func NewExporter(logger *slog.Logger) *Exporter {
	r := render.New()
	r.Logger = logger
	return &Exporter{
		Renderer: r,
		Now:      time.Now,
		Logger:   logger,
	}
}

// Export builds the payload, renders the card and embeds the payload in
// the rendered image. The returned buffer is complete; on error nothing is
// returned.
func (e *Exporter) Export(req ExportRequest) ([]byte, error) {
	p, err := payload.New(req.Kind, e.now(), req.Card, req.World, req.LoreEntries)
	if err != nil {
		return nil, fmt.Errorf("build payload: %w", err)
	}
	return e.ExportPayload(p, req.SourceImage)
}

// ExportPayload embeds an already built payload. It is used to re-export
// stored cards without touching their exported_at timestamp.
func (e *Exporter) ExportPayload(p *payload.Payload, sourceImage []byte) ([]byte, error) {
	text, err := payload.Serialize(p)
	if err != nil {
		return nil, fmt.Errorf("serialize payload: %w", err)
	}

	img := e.renderer().Render(sourceImage, render.Card{
		Kind:        p.Kind,
		Name:        payload.Name(p.Card),
		Description: payload.Description(p.Card),
	})
	base, err := render.Encode(img)
	if err != nil {
		return nil, err
	}

	out, err := pngchunk.InsertText(base, Keyword, text)
	if err != nil {
		return nil, fmt.Errorf("embed capsule: %w", err)
	}

	e.logger().Debug("card exported",
		"kind", p.Kind,
		"payload_bytes", len(text),
		"png_bytes", len(out),
		"artwork", len(sourceImage) > 0,
	)
	return out, nil
}

func (e *Exporter) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e *Exporter) renderer() *render.Renderer {
	if e.Renderer != nil {
		return e.Renderer
	}
	return render.New()
}

func (e *Exporter) logger() *slog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
