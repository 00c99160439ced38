// Package pipeline runs one PDF through extraction, parsing, resolution and
// output.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/matsen/bibref/internal/pdf"
	"github.com/matsen/bibref/internal/resolve"
	"github.com/matsen/bibref/internal/tei"
	"github.com/rs/zerolog"
)

// OutputExt is the extension of the artifact written next to the PDF.
const OutputExt = ".md"

// Availability makes sure the extraction service can take requests.
// *grobid.Supervisor implements it.
type Availability interface {
	EnsureAvailable(ctx context.Context) error
}

// Extractor turns a PDF into a TEI document. *grobid.Client implements it.
type Extractor interface {
	ProcessReferences(ctx context.Context, pdf []byte, filename string) (string, error)
}

// Resolver recovers a DOI for one reference. *resolve.Resolver implements it.
type Resolver interface {
	Resolve(ctx context.Context, text string) resolve.Result
}

// Entry pairs one bibliography record with its resolved identifier.
type Entry struct {
	Reference string `json:"reference"`
	DOI       string `json:"doi,omitempty"`
	Source    string `json:"source,omitempty"`
}

// Result summarizes a completed run.
type Result struct {
	PDFPath    string  `json:"pdf"`
	OutputPath string  `json:"output"`
	Pages      int     `json:"pages,omitempty"`
	References []Entry `json:"references"`
}

// Resolved returns how many references got a DOI.
func (r *Result) Resolved() int {
	n := 0
	for _, e := range r.References {
		if e.DOI != "" {
			n++
		}
	}
	return n
}

// Pipeline wires the stages together. It holds no per-run state besides
// what its Resolver memoizes.
type Pipeline struct {
	service    Availability
	extractor  Extractor
	resolver   Resolver
	outputPath string
	logger     zerolog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithOutputPath writes the artifact to path instead of next to the PDF.
func WithOutputPath(path string) Option {
	return func(p *Pipeline) {
		p.outputPath = path
	}
}

// WithLogger sets the logger used for progress messages.
func WithLogger(logger zerolog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New creates a Pipeline.
func New(service Availability, extractor Extractor, resolver Resolver, opts ...Option) *Pipeline {
	p := &Pipeline{
		service:   service,
		extractor: extractor,
		resolver:  resolver,
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// OutputPathFor returns the default artifact path for a PDF: same directory
// and stem, OutputExt extension.
func OutputPathFor(pdfPath string) string {
	return strings.TrimSuffix(pdfPath, filepath.Ext(pdfPath)) + OutputExt
}

// Run processes one PDF end to end. On error nothing is written.
func (p *Pipeline) Run(ctx context.Context, pdfPath string) (*Result, error) {
	handle, err := pdf.Open(pdfPath)
	if err != nil {
		if errors.Is(err, pdf.ErrNotFound) || errors.Is(err, pdf.ErrNotAFile) {
			return nil, fmt.Errorf("%w: %v", ErrPDFNotFound, err)
		}
		return nil, err
	}

	result := &Result{
		PDFPath:    handle.Path,
		OutputPath: p.outputPath,
	}
	if result.OutputPath == "" {
		result.OutputPath = OutputPathFor(handle.Path)
	}

	if pages, err := handle.PageCount(); err != nil {
		p.logger.Warn().Err(err).Str("pdf", handle.Path).Msg("could not count pages")
	} else {
		result.Pages = pages
	}

	if err := p.service.EnsureAvailable(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrServiceUnavailable, err)
	}

	data, err := handle.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPDFNotFound, err)
	}

	p.logger.Info().Str("pdf", handle.Filename()).Int64("bytes", handle.Size).Msg("extracting references")
	teiXML, err := p.extractor.ProcessReferences(ctx, data, handle.Filename())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExtractionFailed, err)
	}

	refs := tei.ParseReferences(teiXML)
	p.logger.Info().Int("count", len(refs)).Msg("parsed bibliography")

	result.References = make([]Entry, 0, len(refs))
	for i, ref := range refs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res := p.resolver.Resolve(ctx, ref)
		p.logger.Debug().
			Int("index", i).
			Str("doi", res.DOI).
			Str("source", res.Source).
			Msg("resolved reference")
		result.References = append(result.References, Entry{
			Reference: ref,
			DOI:       res.DOI,
			Source:    res.Source,
		})
	}

	if err := WriteMarkdown(result.OutputPath, result.References); err != nil {
		return nil, err
	}
	p.logger.Info().Str("path", result.OutputPath).Msg("references written")

	return result, nil
}
