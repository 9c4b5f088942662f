// Package service orchestrates letter generation: resolve, bind, render,
// convert and dispatch.
package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"letterapi/internal/apperr"
	"letterapi/internal/converter"
	"letterapi/internal/model"
	"letterapi/internal/repository"
	"letterapi/internal/storage"
	"letterapi/internal/template"
)

const artifactPrefix = "generated_letter"

var (
	ErrIDRequired      = errors.New("id is required")
	ErrNotFound        = errors.New("generation not found")
	ErrRecordsDisabled = errors.New("generation records are disabled")
)

var tracer = otel.Tracer("letterapi/internal/service")

// Resolver maps a language and document type to a template path.
type Resolver interface {
	Resolve(language, docType string) (string, error)
}

// Renderer loads templates and merges render contexts into them.
type Renderer interface {
	Load(path string) (*template.Template, error)
	Render(t *template.Template, ctx model.RenderContext) ([]byte, error)
}

// Binder builds the render context for the placeholders a template declares.
type Binder interface {
	Bind(req model.GenerationRequest, declared []string) (model.RenderContext, error)
}

// GenerationResult is the outcome of a generation. On a delivery failure it is
// returned together with the error so callers still see what was produced.
type GenerationResult struct {
	ID       string                 `json:"id"`
	Artifact *model.Artifact        `json:"artifact"`
	Delivery *model.DeliveryOutcome `json:"delivery"`
}

// GenerationListResult is the service-level DTO for paginated records.
type GenerationListResult struct {
	Items []model.GenerationRecord `json:"data"`
	Total int                      `json:"total"`
}

// GenerationService defines the letter use cases.
type GenerationService interface {
	// Generate runs the pipeline for one request. Every call works on its own
	// artifact names, so concurrent calls never share files.
	Generate(ctx context.Context, req model.GenerationRequest) (*GenerationResult, error)

	// Get returns the record of a past generation.
	Get(ctx context.Context, id string) (*model.GenerationRecord, error)

	// List returns generation records using limit/offset and a total count.
	List(ctx context.Context, limit, offset int) (*GenerationListResult, error)
}

// Deps wires the pipeline stages. Repo and Metrics are optional.
type Deps struct {
	Resolver   Resolver
	Renderer   Renderer
	Binder     Binder
	Converter  converter.Converter
	Dispatcher *Dispatcher
	Store      storage.Storage
	Repo       repository.GenerationRepository
	Metrics    *Metrics
	Log        *zap.Logger
	// Retain keeps artifacts in the output area after a successful request.
	Retain bool
	Now    func() time.Time
}

type generationService struct {
	Deps
}

// NewGenerationService constructs a new GenerationService.
func NewGenerationService(d Deps) GenerationService {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	return &generationService{Deps: d}
}

// ArtifactBase returns the artifact name without extension for a generation.
func ArtifactBase(day time.Time, id string) string {
	return fmt.Sprintf("%s_%s_%s", artifactPrefix, day.Format("2006-01-02"), id)
}

func (s *generationService) Generate(ctx context.Context, req model.GenerationRequest) (res *GenerationResult, err error) {
	id := uuid.NewString()
	started := s.Now()
	base := ArtifactBase(started, id)
	log := s.Log.With(
		zap.String("request_id", req.ID),
		zap.String("generation_id", id),
		zap.String("language", req.Language),
		zap.String("doc_type", req.DocumentType),
		zap.String("output_format", string(req.OutputFormat)),
	)

	ctx, span := tracer.Start(ctx, "letter.generate")
	span.SetAttributes(
		attribute.String("letter.generation_id", id),
		attribute.String("letter.language", req.Language),
		attribute.String("letter.doc_type", req.DocumentType),
		attribute.String("letter.output_format", string(req.OutputFormat)),
		attribute.Bool("letter.send_email", req.Delivery.Send),
	)
	defer span.End()

	rec := &model.GenerationRecord{
		ID:             id,
		Language:       req.Language,
		DocumentType:   req.DocumentType,
		OutputFormat:   req.OutputFormat,
		Filename:       base + req.OutputFormat.Ext(),
		Status:         model.StatusSucceeded,
		EmailRequested: req.Delivery.Send,
		CreatedAt:      started.UTC(),
	}
	var stored []string

	defer func() {
		outcome := "success"
		if err != nil {
			kind := apperr.KindOf(err)
			outcome = string(kind)
			rec.Status = model.StatusFailed
			rec.ErrorKind = string(kind)
			span.RecordError(err)
			span.SetStatus(codes.Error, string(kind))
			log.Warn("letter generation failed", zap.String("kind", string(kind)), zap.Error(err))
		} else {
			log.Info("letter generated", zap.String("filename", rec.Filename), zap.Duration("duration", time.Since(started)))
			if !s.Retain {
				s.cleanup(ctx, log, stored)
			}
		}
		s.Metrics.countGeneration(string(req.OutputFormat), outcome)
		s.record(ctx, log, rec)
	}()

	var (
		path     string
		tmpl     *template.Template
		rctx     model.RenderContext
		document []byte
	)

	if err = s.stage(ctx, log, "resolve", func(context.Context) (e error) {
		path, e = s.Resolver.Resolve(req.Language, req.DocumentType)
		return e
	}); err != nil {
		return nil, err
	}
	if err = s.stage(ctx, log, "load", func(context.Context) (e error) {
		tmpl, e = s.Renderer.Load(path)
		return e
	}); err != nil {
		return nil, err
	}
	if err = s.stage(ctx, log, "bind", func(context.Context) (e error) {
		rctx, e = s.Binder.Bind(req, tmpl.Placeholders())
		return e
	}); err != nil {
		return nil, err
	}
	if err = s.stage(ctx, log, "render", func(ctx context.Context) (e error) {
		document, e = s.Renderer.Render(tmpl, rctx)
		if e != nil {
			return e
		}
		key := base + model.FormatDOCX.Ext()
		if e = s.put(ctx, key, document, model.MIMEDOCX); e != nil {
			return apperr.Render("write document "+key, e)
		}
		stored = append(stored, key)
		rec.StorageKey = key
		return nil
	}); err != nil {
		return nil, err
	}

	art := &model.Artifact{
		Filename:    base + model.FormatDOCX.Ext(),
		ContentType: model.MIMEDOCX,
		StorageKey:  base + model.FormatDOCX.Ext(),
		Format:      model.FormatDOCX,
		Data:        document,
	}

	if req.OutputFormat.Converted() {
		if err = s.stage(ctx, log, "convert", func(ctx context.Context) error {
			pdf, e := s.Converter.Convert(ctx, base, document)
			if e != nil {
				return e
			}
			key := base + model.FormatPDF.Ext()
			if e := s.put(ctx, key, pdf, model.MIMEPDF); e != nil {
				return apperr.Conversion("write converted document "+key, e)
			}
			stored = append(stored, key)
			art = &model.Artifact{
				Filename:    key,
				ContentType: model.MIMEPDF,
				StorageKey:  key,
				Format:      model.FormatPDF,
				Data:        pdf,
			}
			return nil
		}); err != nil {
			return nil, err
		}
	}
	rec.StorageKey = art.StorageKey

	res = &GenerationResult{ID: id, Artifact: art, Delivery: &model.DeliveryOutcome{}}
	if req.Delivery.Send {
		err = s.stage(ctx, log, "dispatch", func(ctx context.Context) (e error) {
			res.Delivery, e = s.Dispatcher.Dispatch(ctx, art, req.Delivery)
			return e
		})
		rec.EmailSent = res.Delivery != nil && res.Delivery.Sent
		if err != nil {
			return res, err
		}
	}
	return res, nil
}

// stage runs one pipeline step inside its own span and records its duration.
func (s *generationService) stage(ctx context.Context, log *zap.Logger, name string, fn func(context.Context) error) error {
	ctx, span := tracer.Start(ctx, "letter."+name)
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)
	s.Metrics.observeStage(name, elapsed)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	log.Debug("stage done", zap.String("stage", name), zap.Duration("duration", elapsed))
	return nil
}

func (s *generationService) put(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := s.Store.Put(ctx, key, bytes.NewReader(data), storage.PutObjectOptions{
		Size:        int64(len(data)),
		ContentType: contentType,
	})
	return err
}

// cleanup removes the artifacts of a successful request when they are not retained.
func (s *generationService) cleanup(ctx context.Context, log *zap.Logger, keys []string) {
	ctx = context.WithoutCancel(ctx)
	for _, key := range keys {
		if err := s.Store.Delete(ctx, key); err != nil && !errors.Is(err, storage.ErrNotFound) {
			log.Warn("artifact cleanup failed", zap.String("key", key), zap.Error(err))
		}
	}
}

// record stores the generation row. Failures are logged and never change the
// request outcome.
func (s *generationService) record(ctx context.Context, log *zap.Logger, rec *model.GenerationRecord) {
	if s.Repo == nil {
		return
	}
	if _, err := s.Repo.Create(context.WithoutCancel(ctx), rec); err != nil {
		log.Warn("generation record not stored", zap.Error(err))
	}
}

func (s *generationService) Get(ctx context.Context, id string) (*model.GenerationRecord, error) {
	if s.Repo == nil {
		return nil, ErrRecordsDisabled
	}
	if id == "" {
		return nil, ErrIDRequired
	}
	rec, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return rec, nil
}

func (s *generationService) List(ctx context.Context, limit, offset int) (*GenerationListResult, error) {
	if s.Repo == nil {
		return nil, ErrRecordsDisabled
	}
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	res, err := s.Repo.List(ctx, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &GenerationListResult{Items: res.Items, Total: res.Total}, nil
}
