package printing

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/tharukaruwan/fitrobit-fitness-management-v2-sub002/internal/domain/printing"
)

// EngineConfig contains configuration for the composition engine
type EngineConfig struct {
	// HostFactory opens the drawing surface (default: NewFpdfCanvas)
	HostFactory HostFactory
	// DefaultBrand is used when a request carries none
	DefaultBrand *printing.Brand
	// Clock supplies the footer timestamp (default: time.Now)
	Clock func() time.Time
	// Logger for composition diagnostics
	Logger *zap.Logger
}

// Engine composes document payloads into paginated documents. It holds no
// per-document state; every call builds its own DocumentContext, so one
// Engine is safe for concurrent use.
type Engine struct {
	newHost HostFactory
	brand   *printing.Brand
	clock   func() time.Time
	logger  *zap.Logger
}

// NewEngine creates an Engine, filling unset config fields with defaults
func NewEngine(config *EngineConfig) *Engine {
	if config == nil {
		config = &EngineConfig{}
	}
	e := &Engine{
		newHost: config.HostFactory,
		brand:   config.DefaultBrand,
		clock:   config.Clock,
		logger:  config.Logger,
	}
	if e.newHost == nil {
		e.newHost = NewFpdfCanvas
	}
	if e.brand == nil {
		e.brand = printing.DefaultBrand()
	}
	if e.clock == nil {
		e.clock = time.Now
	}
	if e.logger == nil {
		e.logger = zap.NewNop()
	}
	return e
}

// Document is a finished composition. The host serializes it on first use
// and the bytes are reused afterwards.
type Document struct {
	host  Host
	pages int
	tiles []TileResult

	once sync.Once
	data []byte
	err  error
}

// PageCount is the number of pages the composition produced
func (doc *Document) PageCount() int {
	return doc.pages
}

// Tiles returns the outcome of every image the document tried to draw
func (doc *Document) Tiles() []TileResult {
	return doc.tiles
}

// Skipped returns the images that were replaced by placeholders
func (doc *Document) Skipped() []TileResult {
	var skipped []TileResult
	for _, t := range doc.tiles {
		if t.Skipped() {
			skipped = append(skipped, t)
		}
	}
	return skipped
}

// Bytes returns the serialized document
func (doc *Document) Bytes() ([]byte, error) {
	doc.once.Do(func() {
		var buf bytes.Buffer
		if err := doc.host.Finish(&buf); err != nil {
			doc.err = NewRenderError(ErrCodeRenderFailed, "failed to serialize document", err)
			return
		}
		doc.data = buf.Bytes()
	})
	return doc.data, doc.err
}

// WriteTo streams the serialized document to w
func (doc *Document) WriteTo(w io.Writer) (int64, error) {
	data, err := doc.Bytes()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(data)
	return int64(n), err
}

// WriteFile saves the serialized document at path
func (doc *Document) WriteFile(path string) error {
	data, err := doc.Bytes()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Generate dispatches the payload to its recipe
func (e *Engine) Generate(payload printing.DocumentPayload, profile printing.PageProfile, brand *printing.Brand) (*Document, error) {
	return e.generate(payload, profile, brand, e.clock())
}

// GenerateReceipt composes a receipt. A thermal profile selects the
// point-of-sale layout; any sheet profile the full page layout.
func (e *Engine) GenerateReceipt(r *printing.Receipt, profile printing.PageProfile, brand *printing.Brand) (*Document, error) {
	return e.Generate(r, profile, brand)
}

// GenerateWorkoutProgram composes a multi-day training plan
func (e *Engine) GenerateWorkoutProgram(p *printing.WorkoutProgram, profile printing.PageProfile, brand *printing.Brand) (*Document, error) {
	return e.Generate(p, profile, brand)
}

// GenerateNutritionProgram composes a multi-day meal plan
func (e *Engine) GenerateNutritionProgram(p *printing.NutritionProgram, profile printing.PageProfile, brand *printing.Brand) (*Document, error) {
	return e.Generate(p, profile, brand)
}

// GenerateProgressReport composes a member progress report
func (e *Engine) GenerateProgressReport(r *printing.ProgressReport, profile printing.PageProfile, brand *printing.Brand) (*Document, error) {
	return e.Generate(r, profile, brand)
}

func (e *Engine) generate(payload printing.DocumentPayload, profile printing.PageProfile, brand *printing.Brand, at time.Time) (doc *Document, err error) {
	if isNilPayload(payload) {
		return nil, NewRenderError(ErrCodeInvalidPayload, "document payload is nil", nil)
	}
	if err := profile.Validate(); err != nil {
		return nil, NewRenderError(ErrCodeInvalidPaperSize, "invalid page profile", err)
	}
	docType := payload.DocType()
	if profile.IsThermal() && !docType.AllowsThermal() {
		return nil, NewRenderError(ErrCodeInvalidPaperSize,
			fmt.Sprintf("%s cannot be printed on receipt stock", docType.DisplayName()), nil)
	}
	if brand == nil {
		brand = e.brand
	}
	if err := brand.Validate(); err != nil {
		return nil, NewRenderError(ErrCodeInvalidPayload, "invalid brand", err)
	}

	// Layout helpers panic on caller bugs such as a negative advance.
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("Document composition panicked",
				zap.String("doc_type", string(docType)),
				zap.Any("panic", r),
			)
			doc, err = nil, NewRenderError(ErrCodeRenderFailed, "document composition failed", fmt.Errorf("%v", r))
		}
	}()

	if r, ok := payload.(*printing.Receipt); ok && profile.IsThermal() {
		profile = thermalSlipProfile(profile, r, brand)
	}

	host, err := e.newHost(profile, brand, HostOptions{
		Title:     joinNonEmpty(" ", docType.DisplayName(), payload.Reference()),
		Subject:   docType.DisplayName(),
		Author:    brand.Name,
		CreatedAt: at,
	})
	if err != nil {
		return nil, err
	}

	withFooter := !profile.IsThermal()
	d := newDocumentContext(host, profile, brand, withFooter)

	switch p := payload.(type) {
	case *printing.Receipt:
		composeReceipt(d, p)
	case *printing.WorkoutProgram:
		composeWorkoutProgram(d, p)
	case *printing.NutritionProgram:
		composeNutritionProgram(d, p)
	case *printing.ProgressReport:
		composeProgressReport(d, p)
	}

	if withFooter {
		stampFooters(d, at)
	}

	doc = &Document{host: host, pages: host.PageCount(), tiles: d.tiles}
	for _, t := range doc.Skipped() {
		e.logger.Warn("Image skipped",
			zap.String("doc_type", string(docType)),
			zap.String("section", t.Section),
			zap.Int("index", t.Index),
			zap.String("reason", string(t.Reason)),
			zap.Error(t.Err),
		)
	}
	return doc, nil
}

func isNilPayload(p printing.DocumentPayload) bool {
	switch v := p.(type) {
	case nil:
		return true
	case *printing.Receipt:
		return v == nil
	case *printing.WorkoutProgram:
		return v == nil
	case *printing.NutritionProgram:
		return v == nil
	case *printing.ProgressReport:
		return v == nil
	}
	return false
}

// Render implements PDFRenderer
func (e *Engine) Render(ctx context.Context, req *RenderRequest) (*RenderResult, error) {
	if req == nil {
		return nil, NewRenderError(ErrCodeInvalidPayload, "render request is nil", nil)
	}
	if err := ctx.Err(); err != nil {
		return nil, NewRenderError(ErrCodeRenderFailed, "render cancelled", err)
	}

	var profile printing.PageProfile
	if req.Profile != nil {
		profile = *req.Profile
	} else {
		p, err := printing.LookupProfile(req.PaperSize)
		if err != nil {
			return nil, NewRenderError(ErrCodeInvalidPaperSize, "invalid paper size: "+string(req.PaperSize), err)
		}
		profile = p
	}

	at := req.GeneratedAt
	if at.IsZero() {
		at = e.clock()
	}

	startTime := time.Now()
	doc, err := e.generate(req.Payload, profile, req.Brand, at)
	if err != nil {
		return nil, err
	}
	data, err := doc.Bytes()
	if err != nil {
		return nil, err
	}
	duration := time.Since(startTime)

	e.logger.Debug("Document rendered",
		zap.String("paper_size", string(profile.Size)),
		zap.Int("pages", doc.PageCount()),
		zap.Int("bytes", len(data)),
		zap.Int("skipped_images", len(doc.Skipped())),
		zap.Duration("duration", duration),
	)

	return &RenderResult{
		PDFData:        data,
		PageCount:      doc.PageCount(),
		Skipped:        doc.Skipped(),
		RenderDuration: duration,
	}, nil
}

// Close implements PDFRenderer. The engine holds no resources.
func (e *Engine) Close() error {
	return nil
}

var _ PDFRenderer = (*Engine)(nil)
