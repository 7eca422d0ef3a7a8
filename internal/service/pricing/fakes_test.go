package pricing

import (
	"context"
	"errors"
	"sync"

	"github.com/Temutjin2k/delivery-fare/internal/domain/models"
	"github.com/Temutjin2k/delivery-fare/internal/domain/types"
	"github.com/Temutjin2k/delivery-fare/internal/service/fare"
	"github.com/Temutjin2k/delivery-fare/pkg/logger"
)

type fakeTx struct{}

func (fakeTx) Do(ctx context.Context, fn func(ctx context.Context) error) error { return fn(ctx) }
func (fakeTx) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type store struct {
	mu       sync.Mutex
	ranges   []models.RangeDefinition
	cities   []models.CityRule
	surge    map[string]models.SurgeRule
	audit    map[string]models.FareBreakdown
	replaces int
	listErr  error
}

func newStore() *store {
	return &store{
		surge: make(map[string]models.SurgeRule),
		audit: make(map[string]models.FareBreakdown),
	}
}

type rangeRepo struct{ *store }

func (r rangeRepo) List(context.Context) ([]models.RangeDefinition, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	return models.CloneRanges(r.ranges), nil
}

func (r rangeRepo) Replace(_ context.Context, ranges []models.RangeDefinition) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ranges = models.CloneRanges(ranges)
	r.replaces++
	return nil
}

type cityRepo struct{ *store }

func (r cityRepo) List(context.Context) ([]models.CityRule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return models.CloneCityRules(r.cities), nil
}

func (r cityRepo) Replace(_ context.Context, rules []models.CityRule) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cities = models.CloneCityRules(rules)
	r.replaces++
	return nil
}

type surgeRepo struct {
	*store
	lists int
}

func (r *surgeRepo) List(context.Context) ([]models.SurgeRule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lists++
	out := make([]models.SurgeRule, 0, len(r.surge))
	for _, rule := range r.surge {
		out = append(out, rule)
	}
	return out, nil
}

func (r *surgeRepo) Upsert(_ context.Context, rule models.SurgeRule) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.surge[rule.ID] = rule
	return nil
}

type auditRepo struct{ *store }

func (r auditRepo) Get(_ context.Context, tripID string) (models.FareBreakdown, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.audit[tripID]
	if !ok {
		return models.FareBreakdown{}, types.ErrNotFound
	}
	return b, nil
}

func (r auditRepo) Save(_ context.Context, tripID string, b models.FareBreakdown) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.audit[tripID]; ok {
		return false, nil
	}
	r.audit[tripID] = b
	return true, nil
}

type memCache struct {
	mu          sync.Mutex
	rules       []models.SurgeRule
	filled      bool
	invalidated int
	err         error
}

func (c *memCache) Load(context.Context) ([]models.SurgeRule, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return nil, false, c.err
	}
	return c.rules, c.filled, nil
}

func (c *memCache) Store(_ context.Context, rules []models.SurgeRule) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rules, c.filled = rules, true
	return nil
}

func (c *memCache) Invalidate(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rules, c.filled = nil, false
	c.invalidated++
	return nil
}

type recorder struct {
	mu         sync.Mutex
	fares      []models.FareCalculatedMessage
	changes    []models.ConfigChangedMessage
	publishErr error
}

func (p *recorder) PublishFareCalculated(_ context.Context, msg models.FareCalculatedMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.publishErr != nil {
		return p.publishErr
	}
	p.fares = append(p.fares, msg)
	return nil
}

func (p *recorder) PublishConfigChanged(_ context.Context, msg models.ConfigChangedMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.changes = append(p.changes, msg)
	return nil
}

type feedRecorder struct {
	mu   sync.Mutex
	msgs []any
}

func (f *feedRecorder) Broadcast(_ context.Context, msg any) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgs = append(f.msgs, msg)
	return 1
}

type fixture struct {
	svc   *Service
	store *store
	surge *surgeRepo
	cache *memCache
	pub   *recorder
}

func newFixture() *fixture {
	st := newStore()
	st.ranges = []models.RangeDefinition{
		{
			DistanceLimit: models.Limit(5),
			Base:          models.BaseFare{Fare: 30},
			Distance:      models.DistanceFee{Fare: 4, BaseDistance: 3},
		},
		{
			Base:     models.BaseFare{Fare: 50},
			Distance: models.DistanceFee{Fare: 3, BaseDistance: 5},
			Surge:    models.SurgeSpec{Dynamic: true, SelectedRule: "evening"},
		},
	}
	st.cities = []models.CityRule{
		{City: types.Almaty, BaseFee: 30, BaseDistance: 3, PerKmFee: 4, PeakHourBonus: 15},
	}
	st.surge["evening"] = models.SurgeRule{ID: "evening", Multiplier: 1.5}

	sr := &surgeRepo{store: st}
	cache := &memCache{}
	pub := &recorder{}

	svc := New(fare.NewEngine("KZT"), rangeRepo{st}, cityRepo{st}, sr, auditRepo{st}, cache, pub, fakeTx{}, logger.NewNop())
	return &fixture{svc: svc, store: st, surge: sr, cache: cache, pub: pub}
}

var errBoom = errors.New("boom")
