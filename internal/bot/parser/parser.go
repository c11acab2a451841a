// Package parser is the LLM fallback for queries the deterministic
// ruleset cannot classify. It renders an instruction prompt, delegates
// to an injected Interpreter, and validates the structured reply.
package parser

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"

	apperrors "talentops-bot/internal/common/errors"
	"talentops-bot/internal/common/logger"
	"talentops-bot/internal/common/metrics"
	"talentops-bot/internal/models"
)

// Interpreter is the model capability the parser depends on. It returns
// the raw completion text for a prompt.
type Interpreter interface {
	Interpret(ctx context.Context, prompt string) (string, error)
}

// Cache stores validated parse payloads keyed by normalized query text.
// Implementations must be safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string)
}

// TransientError marks an interpreter failure worth a single retry.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string { return e.Err.Error() }
func (e *TransientError) Unwrap() error { return e.Err }

const resultSchema = `{
	"type": "object",
	"required": ["action", "entity_type"],
	"properties": {
		"action": {"type": "string", "enum": ["CREATE", "READ", "UPDATE", "DELETE", "QUERY", "UNKNOWN"]},
		"entity_type": {"type": "string", "enum": ["TIMESHEET", "INVOICE", "EXPENSE", "PROJECT", "TALENT", "UNKNOWN"]},
		"confidence": {"type": "number", "minimum": 0, "maximum": 1},
		"entities": {"type": "object"}
	}
}`

type Parser struct {
	interpreter Interpreter
	cache       Cache
	log         logger.Logger
	schema      *gojsonschema.Schema
	timeout     time.Duration
	maxRetries  int
}

type Option func(*Parser)

// WithCache enables payload caching for repeated identical queries.
func WithCache(c Cache) Option {
	return func(p *Parser) { p.cache = c }
}

// WithTimeout bounds each interpreter call. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(p *Parser) { p.timeout = d }
}

// WithMaxRetries sets how many extra attempts follow a transient failure.
func WithMaxRetries(n int) Option {
	return func(p *Parser) { p.maxRetries = n }
}

func New(interpreter Interpreter, log logger.Logger, opts ...Option) *Parser {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(resultSchema))
	if err != nil {
		// The schema is a compile-time constant; failing to parse it is a
		// programming error.
		panic("parser: invalid result schema: " + err.Error())
	}

	p := &Parser{
		interpreter: interpreter,
		log:         log,
		schema:      schema,
		maxRetries:  1,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type payload struct {
	Action     string                   `json:"action"`
	EntityType string                   `json:"entity_type"`
	Confidence float64                  `json:"confidence"`
	Entities   models.ExtractedEntities `json:"entities"`
}

// Parse classifies text through the model. It returns UNKNOWN_INTENT
// when no interpreter is configured, TIMEOUT_ERROR when the call runs
// out of time, and PARSE_ERROR for anything the model sends back that
// does not validate. Structurally invalid output is never retried.
func (p *Parser) Parse(ctx context.Context, text string) (models.Intent, models.ExtractedEntities, error) {
	if p.interpreter == nil {
		return models.UnknownIntent(), models.ExtractedEntities{}, apperrors.NewUnknownIntentError("no interpreter configured")
	}

	key := cacheKey(text)
	if p.cache != nil {
		if cached, ok := p.cache.Get(ctx, key); ok {
			if pl, err := p.decode(cached); err == nil {
				metrics.FallbackParses.WithLabelValues("cache_hit").Inc()
				return p.toIntent(pl), pl.Entities, nil
			}
			// A corrupt cache entry falls through to a fresh call.
		}
	}

	prompt, err := renderPrompt(text)
	if err != nil {
		return models.UnknownIntent(), models.ExtractedEntities{}, apperrors.NewParseError(err.Error())
	}

	raw, err := p.interpret(ctx, prompt)
	if err != nil {
		return models.UnknownIntent(), models.ExtractedEntities{}, err
	}

	pl, err := p.decode(raw)
	if err != nil {
		metrics.FallbackParses.WithLabelValues("parse_error").Inc()
		p.log.Warn("Fallback parse produced invalid output", map[string]interface{}{
			"error": err.Error(),
		})
		return models.UnknownIntent(), models.ExtractedEntities{}, err
	}

	if p.cache != nil {
		p.cache.Set(ctx, key, stripFences(raw))
	}

	metrics.FallbackParses.WithLabelValues("ok").Inc()
	return p.toIntent(pl), pl.Entities, nil
}

func (p *Parser) interpret(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		callCtx := ctx
		cancel := func() {}
		if p.timeout > 0 {
			callCtx, cancel = context.WithTimeout(ctx, p.timeout)
		}

		raw, err := p.interpreter.Interpret(callCtx, prompt)
		cancel()
		if err == nil {
			return raw, nil
		}
		lastErr = err

		if errors.Is(err, context.DeadlineExceeded) || callCtx.Err() != nil {
			metrics.FallbackParses.WithLabelValues("timeout").Inc()
			return "", apperrors.NewTimeoutError("intent_parse")
		}

		var transient *TransientError
		if !errors.As(err, &transient) {
			break
		}
	}

	metrics.FallbackParses.WithLabelValues("parse_error").Inc()
	return "", apperrors.NewParseError(lastErr.Error())
}

// decode strips markdown fences, parses the JSON and validates it
// against the result schema. Action and entity type are normalized to
// upper case before validation.
func (p *Parser) decode(raw string) (payload, error) {
	cleaned := stripFences(raw)

	var doc map[string]interface{}
	if err := json.Unmarshal([]byte(cleaned), &doc); err != nil {
		return payload{}, apperrors.NewParseError("model output is not valid JSON")
	}

	for _, field := range []string{"action", "entity_type"} {
		if s, ok := doc[field].(string); ok {
			doc[field] = strings.ToUpper(s)
		}
	}

	result, err := p.schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return payload{}, apperrors.NewParseError(err.Error())
	}
	if !result.Valid() {
		var details []string
		for _, desc := range result.Errors() {
			details = append(details, desc.String())
		}
		return payload{}, apperrors.NewParseError(strings.Join(details, "; "))
	}

	buf, err := json.Marshal(doc)
	if err != nil {
		return payload{}, apperrors.NewParseError(err.Error())
	}
	var pl payload
	if err := json.Unmarshal(buf, &pl); err != nil {
		return payload{}, apperrors.NewParseError(err.Error())
	}
	return pl, nil
}

func (p *Parser) toIntent(pl payload) models.Intent {
	return models.Intent{
		Action:     models.Action(pl.Action),
		EntityType: models.EntityType(pl.EntityType),
		Confidence: pl.Confidence,
	}
}

// stripFences removes a surrounding markdown code fence, with or without
// a language tag.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 && !strings.HasPrefix(s, "{") {
		s = s[idx+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func cacheKey(text string) string {
	return "parse:" + strings.Join(strings.Fields(strings.ToLower(text)), " ")
}
