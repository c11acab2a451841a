// Package orchestrator drives a query through the pipeline stages:
// extraction, classification, optional fallback parsing, dispatch to the
// entity handler, and response formatting.
package orchestrator

import (
	"context"
	"time"

	apperrors "talentops-bot/internal/common/errors"
	"talentops-bot/internal/common/logger"
	"talentops-bot/internal/common/metrics"
	"talentops-bot/internal/common/observability"
	"talentops-bot/internal/models"
)

// Pipeline states. A query moves strictly forward; FAILED is terminal
// and reachable from any stage.
const (
	StateReceived       = "RECEIVED"
	StateExtracted      = "EXTRACTED"
	StateClassified     = "CLASSIFIED"
	StateParsedFallback = "PARSED_FALLBACK"
	StateDispatched     = "DISPATCHED"
	StateFormatted      = "FORMATTED"
	StateDone           = "DONE"
	StateFailed         = "FAILED"
)

// Extractor recognizes typed fields in raw text.
type Extractor interface {
	Extract(text string) models.ExtractedEntities
}

// Classifier resolves an intent deterministically; the bool reports
// whether the result is conclusive.
type Classifier interface {
	Classify(text string, ents models.ExtractedEntities) (models.Intent, bool)
}

// FallbackParser resolves queries the classifier could not.
type FallbackParser interface {
	Parse(ctx context.Context, text string) (models.Intent, models.ExtractedEntities, error)
}

// EntityHandler executes the operations for one entity type.
type EntityHandler interface {
	Handle(ctx context.Context, req models.OperationRequest) (*models.OperationResult, error)
}

// ResponseFormatter renders results and failures into user text.
type ResponseFormatter interface {
	Format(intent models.Intent, result *models.OperationResult) string
	FormatError(err error) string
}

type Orchestrator struct {
	extractor  Extractor
	classifier Classifier
	parser     FallbackParser
	handlers   map[models.EntityType]EntityHandler
	formatter  ResponseFormatter
	log        logger.Logger
	obs        *observability.Observability
}

type Option func(*Orchestrator)

// WithFallbackParser enables LLM parsing for inconclusive queries.
// Without it, inconclusive queries resolve to UNKNOWN_INTENT.
func WithFallbackParser(p FallbackParser) Option {
	return func(o *Orchestrator) { o.parser = p }
}

// WithObservability attaches the otel instruments.
func WithObservability(obs *observability.Observability) Option {
	return func(o *Orchestrator) { o.obs = obs }
}

func New(ext Extractor, cls Classifier, handlers map[models.EntityType]EntityHandler, fmtr ResponseFormatter, log logger.Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		extractor:  ext,
		classifier: cls,
		handlers:   handlers,
		formatter:  fmtr,
		log:        log,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Process runs one query through the pipeline and always returns a
// well-formed response; failures surface as user-safe messages, never
// as raw errors.
func (o *Orchestrator) Process(ctx context.Context, query models.Query) models.FormattedResponse {
	started := time.Now()
	state := StateReceived

	o.log.Info("Query received", map[string]interface{}{
		"user_id": query.UserID,
		"length":  len(query.Text),
	})

	ents := o.timedExtract(query.Text)
	state = StateExtracted

	intent, conclusive := o.timedClassify(query.Text, ents)
	state = StateClassified

	if !conclusive {
		if o.parser == nil {
			return o.fail(ctx, started, state, intent, ents,
				apperrors.NewUnknownIntentError("no rule matched and no fallback parser configured"))
		}

		parsedIntent, parsedEnts, err := o.timedParse(ctx, query.Text)
		if err != nil {
			return o.fail(ctx, started, state, intent, ents, err)
		}
		state = StateParsedFallback
		intent = parsedIntent
		// Deterministically extracted fields win over parser output.
		ents.Merge(parsedEnts)
	}

	if intent.Unknown() {
		return o.fail(ctx, started, state, intent, ents,
			apperrors.NewUnknownIntentError("query resolved to unknown intent"))
	}

	handler, ok := o.handlers[intent.EntityType]
	if !ok {
		return o.fail(ctx, started, state, intent, ents,
			apperrors.NewUnsupportedOperationError(string(intent.Action), string(intent.EntityType)))
	}

	result, err := o.timedDispatch(ctx, handler, models.OperationRequest{
		Intent:   intent,
		Entities: ents,
		UserID:   query.UserID,
	})
	if err != nil {
		return o.fail(ctx, started, state, intent, ents, err)
	}
	state = StateDispatched

	message := o.formatter.Format(intent, result)
	state = StateFormatted

	o.recordSuccess(ctx, started, intent)
	o.log.Info("Query done", map[string]interface{}{
		"intent":      string(intent.Action),
		"entity_type": string(intent.EntityType),
		"duration_ms": time.Since(started).Milliseconds(),
	})

	return models.FormattedResponse{
		Success: true,
		Message: message,
		Result:  result,
		Metadata: models.ResponseMetadata{
			Intent:     intent.Action,
			EntityType: intent.EntityType,
			Entities:   ents,
			Confidence: intent.Confidence,
			State:      StateDone,
		},
	}
}

func (o *Orchestrator) fail(ctx context.Context, started time.Time, lastState string, intent models.Intent, ents models.ExtractedEntities, err error) models.FormattedResponse {
	code := apperrors.CodeOf(err)

	metrics.QueryFailures.WithLabelValues(string(code)).Inc()
	metrics.QueriesProcessed.WithLabelValues(string(intent.Action), string(intent.EntityType), "failed").Inc()
	if o.obs != nil {
		o.obs.RecordQuery(ctx, "failed")
		o.obs.RecordQueryDuration(ctx, time.Since(started), "failed")
	}

	details := ""
	if stdErr, ok := apperrors.AsStandard(err); ok {
		details = stdErr.Details
	}
	o.log.Warn("Query failed", map[string]interface{}{
		"error_code": string(code),
		"last_state": lastState,
		"details":    details,
	})

	return models.FormattedResponse{
		Success: false,
		Error:   o.formatter.FormatError(err),
		Metadata: models.ResponseMetadata{
			Intent:     intent.Action,
			EntityType: intent.EntityType,
			Entities:   ents,
			Confidence: intent.Confidence,
			State:      StateFailed,
			ErrorCode:  string(code),
		},
	}
}

func (o *Orchestrator) recordSuccess(ctx context.Context, started time.Time, intent models.Intent) {
	metrics.QueriesProcessed.WithLabelValues(string(intent.Action), string(intent.EntityType), "success").Inc()
	if o.obs != nil {
		o.obs.RecordQuery(ctx, "success")
		o.obs.RecordQueryDuration(ctx, time.Since(started), "success")
	}
}

func (o *Orchestrator) timedExtract(text string) models.ExtractedEntities {
	t := time.Now()
	defer func() {
		metrics.StageDuration.WithLabelValues("extract").Observe(time.Since(t).Seconds())
	}()
	return o.extractor.Extract(text)
}

func (o *Orchestrator) timedClassify(text string, ents models.ExtractedEntities) (models.Intent, bool) {
	t := time.Now()
	defer func() {
		metrics.StageDuration.WithLabelValues("classify").Observe(time.Since(t).Seconds())
	}()
	return o.classifier.Classify(text, ents)
}

func (o *Orchestrator) timedParse(ctx context.Context, text string) (models.Intent, models.ExtractedEntities, error) {
	t := time.Now()
	defer func() {
		metrics.StageDuration.WithLabelValues("parse_fallback").Observe(time.Since(t).Seconds())
	}()
	return o.parser.Parse(ctx, text)
}

func (o *Orchestrator) timedDispatch(ctx context.Context, h EntityHandler, req models.OperationRequest) (*models.OperationResult, error) {
	t := time.Now()
	defer func() {
		metrics.StageDuration.WithLabelValues("dispatch").Observe(time.Since(t).Seconds())
	}()
	return h.Handle(ctx, req)
}
