package graveyard

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"

	"pkt.systems/pslog"
)

// StatusForHTTP maps a probe HTTP status to its status code and severity.
// Unlisted statuses map to a provider error.
func StatusForHTTP(httpStatus int) (StatusCode, Severity) {
	switch httpStatus {
	case 200:
		return StatusAlive, SeverityOK
	case 429:
		return StatusRateLimit, SeverityWarn
	case 408:
		return StatusTimeout, SeverityError
	case 500:
		return StatusProviderError, SeverityError
	case 401:
		return StatusUnauthorized, SeverityCritical
	case 404:
		return StatusModelNotFound, SeverityCritical
	case 400:
		return StatusBadRequest, SeverityError
	default:
		return StatusProviderError, SeverityError
	}
}

// weightedHTTPStatuses skews simulated probes toward healthy outcomes.
var weightedHTTPStatuses = []int{200, 200, 200, 200, 200, 429, 408, 500, 401, 404, 400}

// ProbeResult is the outcome of probing one model.
type ProbeResult struct {
	HTTPStatus   int
	Status       StatusCode
	Severity     Severity
	ErrorType    string
	ErrorMessage string
	LatencyMS    int
}

// ProbeFunc probes a single model for real. When absent, probes are
// simulated.
type ProbeFunc func(ctx context.Context, model string) ProbeResult

// Prober turns a roster into status items, probing each distinct model once.
type Prober struct {
	mu      sync.Mutex
	probe   ProbeFunc
	workers int
	rng     *rand.Rand
	log     pslog.Logger
}

// ProberOption configures a Prober.
type ProberOption func(*Prober)

// WithProbeFunc installs a real probe instead of the simulation.
func WithProbeFunc(fn ProbeFunc) ProberOption {
	return func(p *Prober) {
		p.probe = fn
	}
}

// WithWorkers bounds concurrent real probes.
func WithWorkers(n int) ProberOption {
	return func(p *Prober) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithSeed reseeds the simulated probe randomness.
func WithSeed(seed int64) ProberOption {
	return func(p *Prober) {
		p.rng = rand.New(rand.NewSource(seed))
	}
}

// WithProberLogger sets the diagnostic logger.
func WithProberLogger(log pslog.Logger) ProberOption {
	return func(p *Prober) {
		p.log = log
	}
}

// NewProber creates a prober. Without a ProbeFunc it simulates outcomes from
// a fixed seed so repeated runs are reproducible.
func NewProber(opts ...ProberOption) *Prober {
	p := &Prober{
		workers: 3,
		rng:     rand.New(rand.NewSource(42)),
		log:     pslog.Ctx(context.Background()),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ProbeAll probes every roster entry and returns one status item per entry,
// in roster order. Entries without a model become INVALID_CONFIG items.
func (p *Prober) ProbeAll(ctx context.Context, roster []RosterEntry) []StatusItem {
	models := distinctModels(roster)
	results := p.probeModels(ctx, models)

	items := make([]StatusItem, 0, len(roster))
	for _, entry := range roster {
		items = append(items, p.itemFor(entry, results))
	}
	p.log.Info("probe run complete", "models", len(models), "items", len(items))
	return items
}

// ProbeOne probes a single roster entry.
func (p *Prober) ProbeOne(ctx context.Context, entry RosterEntry) StatusItem {
	if entry.Model == "" {
		return invalidConfigItem(entry)
	}
	result := p.probeModel(ctx, entry.Model)
	return itemFromResult(entry, result)
}

func (p *Prober) itemFor(entry RosterEntry, results map[string]ProbeResult) StatusItem {
	if entry.Model == "" {
		return invalidConfigItem(entry)
	}
	result, ok := results[entry.Model]
	if !ok {
		status, severity := StatusForHTTP(500)
		result = ProbeResult{
			HTTPStatus:   500,
			Status:       status,
			Severity:     severity,
			ErrorType:    string(status),
			ErrorMessage: "Probe failed",
		}
	}
	return itemFromResult(entry, result)
}

func (p *Prober) probeModels(ctx context.Context, models []string) map[string]ProbeResult {
	results := make(map[string]ProbeResult, len(models))
	if p.probe == nil {
		for _, model := range models {
			results[model] = p.simulate()
		}
		return results
	}

	type outcome struct {
		model  string
		result ProbeResult
	}
	jobs := make(chan string)
	out := make(chan outcome)

	workers := p.workers
	if workers > len(models) {
		workers = len(models)
	}
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for model := range jobs {
				out <- outcome{model: model, result: p.probe(ctx, model)}
			}
		}()
	}
	go func() {
		for _, model := range models {
			jobs <- model
		}
		close(jobs)
		wg.Wait()
		close(out)
	}()

	for o := range out {
		results[o.model] = o.result
	}
	return results
}

func (p *Prober) probeModel(ctx context.Context, model string) ProbeResult {
	if p.probe == nil {
		return p.simulate()
	}
	return p.probe(ctx, model)
}

func (p *Prober) simulate() ProbeResult {
	p.mu.Lock()
	httpStatus := weightedHTTPStatuses[p.rng.Intn(len(weightedHTTPStatuses))]
	latency := 50 + p.rng.Intn(2951)
	p.mu.Unlock()

	status, severity := StatusForHTTP(httpStatus)
	result := ProbeResult{
		HTTPStatus: httpStatus,
		Status:     status,
		Severity:   severity,
		LatencyMS:  latency,
	}
	if httpStatus != 200 {
		result.ErrorType = string(status)
		result.ErrorMessage = fmt.Sprintf("Simulated %s", strings.ToLower(string(status)))
	}
	return result
}

func itemFromResult(entry RosterEntry, result ProbeResult) StatusItem {
	return StatusItem{
		ID:           ItemID(entry.Type, entry.Name),
		Name:         entry.Name,
		Type:         entry.Type,
		Model:        entry.Model,
		Status:       result.Status,
		Severity:     result.Severity,
		HTTPStatus:   result.HTTPStatus,
		ErrorType:    result.ErrorType,
		ErrorMessage: result.ErrorMessage,
		LatencyMS:    result.LatencyMS,
	}
}

func invalidConfigItem(entry RosterEntry) StatusItem {
	return StatusItem{
		ID:           ItemID(entry.Type, entry.Name),
		Name:         entry.Name,
		Type:         entry.Type,
		Status:       StatusInvalidConfig,
		Severity:     SeverityError,
		ErrorType:    string(StatusInvalidConfig),
		ErrorMessage: "Missing model",
	}
}

func distinctModels(roster []RosterEntry) []string {
	seen := make(map[string]bool, len(roster))
	var models []string
	for _, entry := range roster {
		if entry.Model == "" || seen[entry.Model] {
			continue
		}
		seen[entry.Model] = true
		models = append(models, entry.Model)
	}
	return models
}

// TierOrder lists ability tiers from strongest to lightest.
var TierOrder = []string{"top", "high", "mid", "light"}

// ClassifyTier buckets a model name into an ability tier by name.
func ClassifyTier(model string) string {
	low := strings.ToLower(model)
	switch {
	case strings.Contains(low, "opus"):
		return "top"
	case strings.Contains(low, "gpt-5"), strings.Contains(low, "pro"):
		return "high"
	case strings.Contains(low, "sonnet"):
		return "mid"
	default:
		return "light"
	}
}

// ModelTiers groups the distinct roster models by ability tier.
func ModelTiers(roster []RosterEntry) map[string][]string {
	tiers := make(map[string][]string, len(TierOrder))
	for _, tier := range TierOrder {
		tiers[tier] = nil
	}
	seen := make(map[string]bool)
	for _, entry := range roster {
		if entry.Model == "" || seen[entry.Model] {
			continue
		}
		seen[entry.Model] = true
		tier := ClassifyTier(entry.Model)
		tiers[tier] = append(tiers[tier], entry.Model)
	}
	return tiers
}

// SuggestReplacement proposes an alive model for a failed one: same tier
// first, then one tier up, never the failed model itself. Empty means no
// remediation is available.
func SuggestReplacement(failedModel string, tiers map[string][]string, items []StatusItem) string {
	alive := make(map[string]bool)
	for _, it := range items {
		if it.Severity == SeverityOK && it.Model != "" {
			alive[it.Model] = true
		}
	}

	failedTier := ClassifyTier(failedModel)
	tierIdx := 0
	for i, tier := range TierOrder {
		if tier == failedTier {
			tierIdx = i
			break
		}
	}

	up := tierIdx - 1
	if up < 0 {
		up = 0
	}
	for _, idx := range []int{tierIdx, up} {
		for _, model := range tiers[TierOrder[idx]] {
			if alive[model] && model != failedModel {
				return model
			}
		}
	}
	return ""
}
