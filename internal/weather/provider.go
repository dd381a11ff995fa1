package weather

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

// Observation is a single weather reading for a location
type Observation struct {
	Location    string    `json:"location"`
	Temperature float64   `json:"temperature"`
	Description string    `json:"description"`
	WindSpeed   float64   `json:"wind_speed"`
	Humidity    int       `json:"humidity"`
	GoodForWork bool      `json:"good_for_work"`
	ObservedAt  time.Time `json:"observed_at"`
}

// Provider supplies weather observations. Implementations backed by a real
// forecast API can replace the mock without changes to callers.
type Provider interface {
	Current(ctx context.Context, location string) (Observation, error)
}

// condition is one entry in the simulated weather table
type condition struct {
	Temp     float64
	Desc     string
	Wind     float64
	Humidity int
	Good     bool
}

var mockConditions = []condition{
	{Temp: 15, Desc: "Solskinn", Wind: 5, Humidity: 45, Good: true},
	{Temp: 8, Desc: "Delvis skyet", Wind: 12, Humidity: 60, Good: true},
	{Temp: 3, Desc: "Lett regn", Wind: 18, Humidity: 85, Good: false},
	{Temp: -2, Desc: "Snø", Wind: 8, Humidity: 70, Good: false},
	{Temp: 22, Desc: "Pent vær", Wind: 3, Humidity: 40, Good: true},
}

// MockProvider generates simulated observations drawn from a fixed set of
// conditions. It stands in for a real forecast API in every environment.
type MockProvider struct {
	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

// NewMockProvider creates a provider with a time-seeded random source
func NewMockProvider() *MockProvider {
	return &MockProvider{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
		now: time.Now,
	}
}

// Current returns a simulated observation for the location
func (p *MockProvider) Current(_ context.Context, location string) (Observation, error) {
	p.mu.Lock()
	c := mockConditions[p.rng.Intn(len(mockConditions))]
	observedAt := p.now()
	p.mu.Unlock()

	return Observation{
		Location:    location,
		Temperature: c.Temp,
		Description: c.Desc,
		WindSpeed:   c.Wind,
		Humidity:    c.Humidity,
		GoodForWork: c.Good,
		ObservedAt:  observedAt,
	}, nil
}

// WorkRecommendation maps an observation to the suggested kind of work.
// The first matching rule wins.
func WorkRecommendation(obs Observation) string {
	switch {
	case obs.Temperature < 0:
		return "Perfekt for brøyting og vinterarbeid!"
	case obs.Temperature > 20 && obs.GoodForWork:
		return "Ideelt vær for plenklipping og hagearbeid!"
	case obs.WindSpeed > 15:
		return "Sterk vind - perfekt for trefelling (sikker avstand)"
	case !obs.GoodForWork:
		return "Innendørs planlegging og vedlikehold anbefales"
	default:
		return "Gode arbeidsforhold for de fleste tjenester!"
	}
}
