package resolve

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"loctext/internal/color"
	"loctext/internal/diagnostics"
	"loctext/internal/language"
	"loctext/internal/store"
	"loctext/internal/substitute"
	"loctext/internal/textutil"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// ErrNilStore is returned when a Session is built without a template store.
var ErrNilStore = errors.New("resolve: nil template store")

const meterName = "loctext/internal/resolve"

// templateLogLimit caps the template excerpt in locdebug warnings, in runes.
const templateLogLimit = 80

// Request carries the runtime values for one resolution. Nil slices mean
// "nothing supplied" and behave like empty ones.
type Request struct {
	Substrings []string
	Colors     []color.Color
	// ContextPath names the UI element asking for the text, for diagnostics.
	ContextPath string
}

// Result is the display-ready text for one resolution.
type Result struct {
	Text   string
	Status substitute.Status
	Issues []substitute.Issue
	// Language is the table the template came from.
	Language language.Language
	// Fallback is set when the template came from the default language.
	Fallback           bool
	ForceTextExpansion bool
	RightToLeft        bool
}

// Session owns the current display language and resolves templates
// against a store. Build one per host and pass it to whoever displays text.
type Session struct {
	store       *store.Store
	engine      *substitute.Engine
	defaultLang language.Language
	current     atomic.Int32
	logger      zerolog.Logger
	notFound    func(store.Key) string
	resolutions metric.Int64Counter
}

type settings struct {
	current       language.Language
	defaultLang   language.Language
	logger        *zerolog.Logger
	notFound      func(store.Key) string
	meterProvider metric.MeterProvider
}

// Option configures a Session.
type Option func(*settings)

// WithLanguage sets the initial display language.
func WithLanguage(l language.Language) Option {
	return func(s *settings) { s.current = l }
}

// WithDefaultLanguage sets the language used when a template is missing
// from the requested one.
func WithDefaultLanguage(l language.Language) Option {
	return func(s *settings) { s.defaultLang = l }
}

// WithLogger sets the logger used for locdebug warnings.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *settings) { s.logger = &logger }
}

// WithNotFoundText overrides the text returned for unknown keys.
func WithNotFoundText(fn func(store.Key) string) Option {
	return func(s *settings) { s.notFound = fn }
}

// WithMeterProvider records resolution counts on mp instead of the global provider.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(s *settings) { s.meterProvider = mp }
}

// DefaultNotFoundText is the text returned for a key no table knows.
func DefaultNotFoundText(key store.Key) string {
	return fmt.Sprintf("MISSING_TEXT_%d", uint64(key))
}

// NewSession wires a Session to st.
func NewSession(st *store.Store, opts ...Option) (*Session, error) {
	if st == nil {
		return nil, ErrNilStore
	}

	cfg := settings{
		current:     language.English,
		defaultLang: language.English,
		notFound:    DefaultNotFoundText,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if !cfg.current.Valid() {
		return nil, fmt.Errorf("resolve: current %w", language.ErrUnknownLanguage)
	}
	if !cfg.defaultLang.Valid() {
		return nil, fmt.Errorf("resolve: default %w", language.ErrUnknownLanguage)
	}
	if cfg.notFound == nil {
		cfg.notFound = DefaultNotFoundText
	}
	if cfg.logger == nil {
		l := log.Logger
		cfg.logger = &l
	}
	if cfg.meterProvider == nil {
		cfg.meterProvider = otel.GetMeterProvider()
	}

	counter, err := cfg.meterProvider.Meter(meterName).Int64Counter(
		"loctext.resolve.count",
		metric.WithDescription("Template resolutions by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("create resolve counter: %w", err)
	}

	s := &Session{
		store:       st,
		engine:      substitute.New(substitute.WithDebug(diagnostics.Enabled)),
		defaultLang: cfg.defaultLang,
		logger:      *cfg.logger,
		notFound:    cfg.notFound,
		resolutions: counter,
	}
	s.current.Store(int32(cfg.current))
	return s, nil
}

// Language returns the current display language.
func (s *Session) Language() language.Language {
	return language.Language(s.current.Load())
}

// SetLanguage switches the current display language.
func (s *Session) SetLanguage(l language.Language) error {
	if !l.Valid() {
		return fmt.Errorf("set language %d: %w", int(l), language.ErrUnknownLanguage)
	}
	s.current.Store(int32(l))
	return nil
}

// DefaultLanguage returns the fallback language.
func (s *Session) DefaultLanguage() language.Language {
	return s.defaultLang
}

// ResolveCurrent resolves key in the current display language.
func (s *Session) ResolveCurrent(key store.Key, req Request) Result {
	return s.Resolve(key, s.Language(), req)
}

// Resolve looks key up in lang, falling back once to the default language,
// and fills in the request values.
func (s *Session) Resolve(key store.Key, lang language.Language, req Request) Result {
	if s.store == nil {
		panic(ErrNilStore)
	}

	res := Result{Language: lang}

	template, ok := s.store.Lookup(key, lang)
	if !ok && lang != s.defaultLang {
		template, ok = s.store.Lookup(key, s.defaultLang)
		if ok {
			res.Language = s.defaultLang
			res.Fallback = true
		}
	}

	if !ok {
		res.Text = s.notFound(key)
		res.Status = substitute.TemplateNotFound
		if diagnostics.Enabled {
			res.Text = diagnostics.Highlight(res.Text)
			res.ForceTextExpansion = true
			s.logger.Warn().
				Uint64("key", uint64(key)).
				Str("language", lang.String()).
				Str("context", req.ContextPath).
				Str("status", res.Status.String()).
				Msg("Template not found")
		}
		res.RightToLeft = language.NeedsRTL(lang, res.Text)
		s.record(res)
		return res
	}

	out := s.engine.Substitute(template, req.Substrings, req.Colors)
	res.Text = out.Text
	res.Status = out.Status
	res.Issues = out.Issues
	res.ForceTextExpansion = out.ForceTextExpansion

	if diagnostics.Enabled && res.Status != substitute.Success {
		res.Text = diagnostics.Annotate(res.Text, res.Issues)
		res.ForceTextExpansion = true
		s.logger.Warn().
			Uint64("key", uint64(key)).
			Str("language", res.Language.String()).
			Str("context", req.ContextPath).
			Str("template", textutil.Truncate(template, templateLogLimit)).
			Ints("indices", diagnostics.Indices(res.Issues)).
			Str("issues", diagnostics.Describe(res.Issues)).
			Str("status", res.Status.String()).
			Msg("Template resolved with problems")
	}

	res.RightToLeft = language.NeedsRTL(res.Language, res.Text)
	s.record(res)
	return res
}

func (s *Session) record(res Result) {
	s.resolutions.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("status", res.Status.String()),
		attribute.String("language", res.Language.String()),
	))
}
