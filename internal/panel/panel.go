package panel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/leapstack-labs/watermgmt/internal/backend"
	"github.com/leapstack-labs/watermgmt/internal/chart"
)

// Fetcher is the part of the backend client a panel uses.
type Fetcher interface {
	GetJSON(ctx context.Context, backend, path string, out any) error
	PostJSON(ctx context.Context, backend, path string, body, out any) error
}

// Options configures a Panel.
type Options struct {
	// Backend overrides Spec.Backend.
	Backend string
	Logger  *slog.Logger
	Rand    *rand.Rand
	Now     func() time.Time
}

type graphData struct {
	data   any
	gen    uint64
	failed bool
}

// Panel is the runtime state of one mounted prediction view. All methods
// are safe for concurrent use. Responses arriving after Unmount are dropped.
type Panel struct {
	spec    *Spec
	client  Fetcher
	backend string
	logger  *slog.Logger
	now     func() time.Time

	ctx    context.Context
	cancel context.CancelFunc

	mu            sync.Mutex
	rng           *rand.Rand
	mounted       bool
	fields        []Field
	defaults      FormState
	form          FormState
	models        []string
	defaultModel  string
	model         string
	result        Result
	resultGen     uint64
	errMsg        string
	loading       bool
	sampling      bool
	graphs        map[string]graphData
	graphsLoading bool
	gen           uint64
	chartKind     chart.Kind
	memos         []*chart.Memo
}

// New mounts a panel for spec. parent bounds the panel's lifetime in
// addition to Unmount.
func New(parent context.Context, spec *Spec, client Fetcher, opts Options) *Panel {
	ctx, cancel := context.WithCancel(parent)

	p := &Panel{
		spec:    spec,
		client:  client,
		backend: opts.Backend,
		logger:  opts.Logger,
		now:     opts.Now,
		rng:     opts.Rand,
		ctx:     ctx,
		cancel:  cancel,
		mounted: true,
		fields:  slices.Clone(spec.Fields),
		graphs:  make(map[string]graphData),
	}
	if p.backend == "" {
		p.backend = spec.Backend
	}
	if p.logger == nil {
		p.logger = slog.New(slog.DiscardHandler)
	}
	p.logger = p.logger.With("panel", spec.ID)
	if p.now == nil {
		p.now = time.Now
	}
	if p.rng == nil {
		seed := uint64(time.Now().UnixNano())
		p.rng = rand.New(rand.NewPCG(seed, seed>>17))
	}
	if len(spec.ChartKinds) > 0 {
		p.chartKind = spec.ChartKinds[0]
	}
	p.memos = make([]*chart.Memo, len(spec.Charts))
	for i := range p.memos {
		p.memos[i] = &chart.Memo{}
	}

	p.defaults = p.hardcodedDefaults()
	p.form = p.defaults.Clone()
	return p
}

// Spec returns the panel's declarative description.
func (p *Panel) Spec() *Spec {
	return p.spec
}

// ID returns the panel id.
func (p *Panel) ID() string {
	return p.spec.ID
}

func (p *Panel) hardcodedDefaults() FormState {
	now := p.now()
	out := make(FormState, len(p.fields))
	for _, f := range p.fields {
		var v any
		switch {
		case f.DefaultFunc != nil:
			v = f.DefaultFunc(now)
		case f.Default != nil:
			v = f.Default
		case f.Kind == KindTimestamp:
			v = isoTime(now)
		}
		out[f.Name] = v
	}
	return out
}

// bind derives a request context that also ends when the panel unmounts.
func (p *Panel) bind(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(p.ctx, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

// Init loads models or features and every graph endpoint concurrently.
// Load failures leave the hardcoded defaults in place; the first one is
// returned for logging and shown inline only when the spec asks for it.
func (p *Panel) Init(ctx context.Context) error {
	ctx, cancel := p.bind(ctx)
	defer cancel()

	var g errgroup.Group
	if p.spec.Endpoints.Models != "" {
		g.Go(func() error { return p.loadModels(ctx) })
	}
	if p.spec.Endpoints.Features != "" {
		g.Go(func() error { return p.loadFeatures(ctx) })
	}
	g.Go(func() error {
		p.loadGraphs(ctx)
		return nil
	})
	err := g.Wait()

	p.mu.Lock()
	if !p.mounted {
		p.mu.Unlock()
		return ErrUnmounted
	}
	if err != nil && p.spec.SurfaceLoadErrors {
		p.errMsg = backend.Message(err, "Failed to load "+p.spec.Title+" options.")
	}
	p.mu.Unlock()

	if err != nil {
		p.logger.Warn("panel init incomplete", "error", err)
	}
	if p.spec.InitialPredict {
		p.initialPredict(ctx)
	}
	return err
}

func (p *Panel) loadModels(ctx context.Context) error {
	var raw map[string]any
	if err := p.client.GetJSON(ctx, p.backend, p.spec.Endpoints.Models, &raw); err != nil {
		return fmt.Errorf("failed to load models: %w", err)
	}

	var models []string
	if list, ok := raw["models"].([]any); ok {
		for _, m := range list {
			if s := plain(m); s != "" {
				models = append(models, s)
			}
		}
	}
	def := firstString(raw["default"], raw["default_model"])
	if def == "" && len(models) > 0 {
		def = models[0]
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.mounted {
		return nil
	}
	p.models = models
	p.defaultModel = def
	if p.model == "" {
		p.model = def
	}

	overrides := make(map[string]any)
	if d, ok := raw["defaults"].(map[string]any); ok {
		for k, v := range d {
			overrides[k] = v
		}
	}
	for _, f := range p.fields {
		if f.DefaultFrom == "" {
			continue
		}
		if v, ok := raw[f.DefaultFrom]; ok && v != nil {
			overrides[f.Name] = v
		}
	}
	p.applyDefaultsLocked(overrides)
	return nil
}

// applyDefaultsLocked replaces defaults for known fields; form values still
// holding the old default follow along.
func (p *Panel) applyDefaultsLocked(overrides map[string]any) {
	for _, f := range p.fields {
		raw, ok := overrides[f.Name]
		if !ok {
			continue
		}
		v, err := Coerce(f, raw)
		if err != nil || v == nil {
			continue
		}
		old := p.defaults[f.Name]
		p.defaults[f.Name] = v
		if p.form[f.Name] == old {
			p.form[f.Name] = v
		}
	}
}

var titleCaser = cases.Title(language.English)

// FeatureLabel turns a backend feature name into a display label.
func FeatureLabel(name string) string {
	words := make([]rune, 0, len(name))
	for _, r := range name {
		if r == '_' || r == '-' {
			r = ' '
		}
		words = append(words, r)
	}
	return titleCaser.String(string(words))
}

func (p *Panel) loadFeatures(ctx context.Context) error {
	var raw struct {
		Features []string       `json:"features"`
		Defaults map[string]any `json:"defaults"`
	}
	if err := p.client.GetJSON(ctx, p.backend, p.spec.Endpoints.Features, &raw); err != nil {
		return fmt.Errorf("failed to load features: %w", err)
	}
	if len(raw.Features) == 0 {
		return nil
	}

	fields := make([]Field, 0, len(raw.Features))
	defaults := make(FormState, len(raw.Features))
	for _, name := range raw.Features {
		f := Field{Name: name, Label: FeatureLabel(name), Kind: KindNumber, Step: 0.01}
		v, err := Coerce(f, raw.Defaults[name])
		if err != nil || v == nil {
			v = 0.0
		}
		f.Default = v
		fields = append(fields, f)
		defaults[name] = v
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.mounted {
		return nil
	}
	p.fields = fields
	p.defaults = defaults
	p.form = defaults.Clone()
	return nil
}

// loadGraphs fetches every graph endpoint. A failed graph is kept as a
// placeholder.
func (p *Panel) loadGraphs(ctx context.Context) {
	if len(p.spec.Endpoints.Graphs) == 0 {
		return
	}
	p.mu.Lock()
	p.graphsLoading = true
	p.mu.Unlock()

	var wg sync.WaitGroup
	for name, path := range p.spec.Endpoints.Graphs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var data any
			err := p.client.GetJSON(ctx, p.backend, path, &data)
			if err != nil {
				p.logger.Debug("graph load failed", "graph", name, "error", err)
			}

			p.mu.Lock()
			defer p.mu.Unlock()
			if !p.mounted {
				return
			}
			p.gen++
			if err != nil {
				p.graphs[name] = graphData{gen: p.gen, failed: true}
				return
			}
			p.graphs[name] = graphData{data: data, gen: p.gen}
		}()
	}
	wg.Wait()

	p.mu.Lock()
	p.graphsLoading = false
	p.mu.Unlock()
}

// RefreshGraphs reloads the graph endpoints.
func (p *Panel) RefreshGraphs(ctx context.Context) {
	ctx, cancel := p.bind(ctx)
	defer cancel()
	p.loadGraphs(ctx)
}

// SetField updates one form value by field name. The model selector is
// addressed as ModelKey.
func (p *Panel) SetField(name string, raw any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.setFieldLocked(name, raw)
}

func (p *Panel) setFieldLocked(name string, raw any) error {
	if name == ModelKey && p.spec.HasModels() {
		if raw == nil {
			p.model = ""
			return nil
		}
		p.model = plain(raw)
		return nil
	}
	for _, f := range p.fields {
		if f.Name != name {
			continue
		}
		v, err := Coerce(f, raw)
		if err != nil {
			return err
		}
		p.form[name] = v
		return nil
	}
	return fmt.Errorf("%w: %s", ErrUnknownField, name)
}

// ApplySignals updates the form from browser signal keys (see Field.Key).
// Unknown keys are ignored; invalid values leave their field unchanged.
func (p *Panel) ApplySignals(values map[string]any, model *string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var errs []error
	for _, f := range p.fields {
		raw, ok := values[f.Key()]
		if !ok {
			continue
		}
		if err := p.setFieldLocked(f.Name, raw); err != nil {
			errs = append(errs, err)
		}
	}
	if model != nil && p.spec.HasModels() {
		p.model = *model
	}
	return errors.Join(errs...)
}

// SetChartKind switches every chart to kind when the spec allows it.
func (p *Panel) SetChartKind(kind chart.Kind) error {
	if !slices.Contains(p.spec.ChartKinds, kind) {
		return fmt.Errorf("panel %s: chart kind %q not available", p.spec.ID, kind)
	}
	p.mu.Lock()
	p.chartKind = kind
	p.mu.Unlock()
	return nil
}

// Reset restores the defaults captured at load time and clears result and error.
func (p *Panel) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.form = p.defaults.Clone()
	p.model = p.defaultModel
	p.result = nil
	p.resultGen = 0
	p.errMsg = ""
	if len(p.spec.ChartKinds) > 0 {
		p.chartKind = p.spec.ChartKinds[0]
	}
}

// validateLocked checks required fields, then the model selection.
func (p *Panel) validateLocked() *backend.ValidationError {
	for _, f := range p.fields {
		if f.Required && p.form.Empty(f.Name) {
			msg := p.spec.ValidationMessage
			if msg == "" {
				msg = "Please fill in all required fields."
			}
			return &backend.ValidationError{Field: f.Name, Message: msg}
		}
	}
	if p.spec.RequireModel && p.model == "" {
		msg := p.spec.ModelMessage
		if msg == "" {
			msg = "Please select a model."
		}
		return &backend.ValidationError{Field: ModelKey, Message: msg}
	}
	return nil
}

func (p *Panel) bodyLocked() map[string]any {
	body := make(map[string]any, len(p.fields)+1)
	for _, f := range p.fields {
		body[f.Name] = p.form[f.Name]
	}
	if p.spec.HasModels() {
		body[ModelKey] = p.model
	}
	return body
}

// Predict validates the form and posts it. progress, when non-nil, is
// called with the loading view once the request is under way. A second
// call while one is in flight returns ErrBusy. On failure the previous
// result stays visible next to the error.
func (p *Panel) Predict(ctx context.Context, progress func(View)) error {
	p.mu.Lock()
	if !p.mounted {
		p.mu.Unlock()
		return ErrUnmounted
	}
	if p.loading {
		p.mu.Unlock()
		return ErrBusy
	}
	if verr := p.validateLocked(); verr != nil {
		p.errMsg = verr.Message
		p.mu.Unlock()
		return verr
	}
	body := p.bodyLocked()
	p.loading = true
	p.errMsg = ""
	p.mu.Unlock()

	if progress != nil {
		progress(p.Snapshot())
	}

	ctx, cancel := p.bind(ctx)
	defer cancel()

	var res Result
	err := p.client.PostJSON(ctx, p.backend, p.spec.Endpoints.Predict, body, &res)

	p.mu.Lock()
	p.loading = false
	if !p.mounted {
		p.mu.Unlock()
		return ErrUnmounted
	}
	if err != nil {
		fallback := p.spec.FailureMessage
		if fallback == "" {
			fallback = "Prediction failed"
		}
		p.errMsg = backend.Message(err, fallback)
		p.mu.Unlock()
		p.logger.Info("prediction failed", "error", err)
		return err
	}
	p.gen++
	p.result = res
	p.resultGen = p.gen
	p.mu.Unlock()

	p.logger.Debug("prediction complete")
	if p.spec.RefreshAfterPredict {
		p.loadGraphs(ctx)
	}
	return nil
}

// initialPredict posts the defaults once; any failure is ignored. It holds
// the loading flag like Predict so a user submit during the request gets
// ErrBusy.
func (p *Panel) initialPredict(ctx context.Context) {
	p.mu.Lock()
	if !p.mounted || p.result != nil || p.loading {
		p.mu.Unlock()
		return
	}
	body := p.bodyLocked()
	p.loading = true
	p.mu.Unlock()

	var res Result
	err := p.client.PostJSON(ctx, p.backend, p.spec.Endpoints.Predict, body, &res)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.loading = false
	if err != nil {
		p.logger.Debug("initial prediction skipped", "error", err)
		return
	}
	if !p.mounted || p.result != nil {
		return
	}
	p.gen++
	p.result = res
	p.resultGen = p.gen
}

// Randomize fills the form with plausible values according to the spec's
// Random mode. The form is replaced in one step.
func (p *Panel) Randomize(ctx context.Context) error {
	switch p.spec.Random.Mode {
	case RandomJitter:
		p.mu.Lock()
		p.form = p.jitterLocked()
		p.mu.Unlock()
		return nil
	case RandomUniform:
		p.mu.Lock()
		p.form = p.uniformLocked()
		p.mu.Unlock()
		return nil
	case RandomServer:
		return p.sample(ctx)
	default:
		return nil
	}
}

func (p *Panel) jitterLocked() FormState {
	r := p.spec.Random
	next := p.form.Clone()
	for _, f := range p.fields {
		if !f.Kind.Numeric() {
			continue
		}
		base, err := toNumber(p.defaults[f.Name])
		if err != nil {
			base = 0
		}
		spread := math.Abs(base) * r.Spread
		if spread == 0 {
			spread = r.Fallback
		}
		v := base + (p.rng.Float64()-0.5)*2*spread
		if base >= 0 && f.Min == 0 && f.Max == 0 {
			v = math.Max(v, 0)
		}
		next[f.Name] = f.Clamp(roundTo(v, r.Precision))
	}
	return next
}

func (p *Panel) uniformLocked() FormState {
	next := p.form.Clone()
	for _, f := range p.fields {
		if f.Kind == KindTimestamp {
			next[f.Name] = isoTime(p.now())
			continue
		}
		rg, ok := p.spec.Random.Ranges[f.Name]
		if !ok {
			continue
		}
		v := rg.Min + p.rng.Float64()*(rg.Max-rg.Min)
		next[f.Name] = roundTo(v, rg.Precision)
	}
	return next
}

func (p *Panel) sample(ctx context.Context) error {
	p.mu.Lock()
	if !p.mounted {
		p.mu.Unlock()
		return ErrUnmounted
	}
	if p.sampling {
		p.mu.Unlock()
		return ErrBusy
	}
	p.sampling = true
	p.errMsg = ""
	p.mu.Unlock()

	ctx, cancel := p.bind(ctx)
	defer cancel()

	var sample map[string]any
	err := p.client.GetJSON(ctx, p.backend, p.spec.Endpoints.Random, &sample)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.sampling = false
	if !p.mounted {
		return ErrUnmounted
	}
	if err != nil {
		p.errMsg = backend.Message(err, "Failed to fetch a random sample")
		return err
	}

	next := p.form.Clone()
	for _, f := range p.fields {
		raw, ok := sample[f.Name]
		if !ok {
			continue
		}
		if v, err := Coerce(f, raw); err == nil {
			next[f.Name] = v
		}
	}
	p.form = next
	return nil
}

// Unmount ends the panel's lifetime. In-flight requests are cancelled and
// their responses discarded.
func (p *Panel) Unmount() {
	p.mu.Lock()
	p.mounted = false
	p.mu.Unlock()
	p.cancel()
}

// Mounted reports whether the panel is still shown.
func (p *Panel) Mounted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.mounted
}

func isoTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
}

func firstString(values ...any) string {
	for _, v := range values {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return ""
}
