package pricing

import (
	"errors"
	"math"
	"strings"
	"time"

	"github.com/sorgulen/tjenesteportal/internal/domain"
)

var (
	// ErrServiceRequired is returned when no service type is chosen yet
	ErrServiceRequired = errors.New("service type is required")
	// ErrUnknownService is returned for a service type outside the price table
	ErrUnknownService = errors.New("unknown service type")
)

// rate holds the price table entry for one service
type rate struct {
	Base       float64
	PerHour    float64
	WeatherMul float64
}

// baseRates is the price table. PerHour and WeatherMul are carried for
// manual quoting; the automatic estimate uses Base only.
var baseRates = map[domain.ServiceType]rate{
	domain.ServiceBroyting:     {Base: 800, PerHour: 450, WeatherMul: 1.2},
	domain.ServicePlenklipping: {Base: 400, PerHour: 300, WeatherMul: 0.8},
	domain.ServiceTrefelling:   {Base: 1200, PerHour: 600, WeatherMul: 1.5},
	domain.ServiceDiverse:      {Base: 500, PerHour: 400, WeatherMul: 1.0},
}

var urgencyWords = []string{"haster", "akutt", "raskt", "øyeblikkelig", "nødsituasjon"}

var complexityWords = []string{
	"stor", "mange", "vanskelig", "komplisert", "høy", "tung",
	"farlig", "spesiell", "ekstra", "mye", "omfattende",
}

var farAreas = []string{"oslo", "bergen", "trondheim", "stavanger"}

// Input describes the order parameters the estimate is computed from
type Input struct {
	ServiceType domain.ServiceType
	Address     string
	// Datetime is the preferred execution time; nil when the customer
	// has not picked one
	Datetime  *time.Time
	ExtraInfo string
}

// Estimate is a computed price with the factors that shaped it. Factors is
// empty when the base price applies unmodified.
type Estimate struct {
	Total   int
	Factors []string
}

// Compute derives a price estimate from the order parameters. The same
// input always yields the same estimate.
func Compute(in Input) (*Estimate, error) {
	if in.ServiceType == "" {
		return nil, ErrServiceRequired
	}
	r, ok := baseRates[in.ServiceType]
	if !ok {
		return nil, ErrUnknownService
	}

	price := r.Base
	var factors []string

	if mul, reason := seasonTimeFactor(in.ServiceType, in.Datetime); mul != 1 {
		price *= mul
		factors = append(factors, reason)
	}
	if mul, reason := complexityFactor(in.ExtraInfo); mul != 1 {
		price *= mul
		factors = append(factors, reason)
	}
	if add, reason := distanceFactor(in.Address); add != 0 {
		price += add
		factors = append(factors, reason)
	}
	if mul, reason := weekendEveningFactor(in.Datetime); mul != 1 {
		price *= mul
		factors = append(factors, reason)
	}

	return &Estimate{Total: int(math.Round(price)), Factors: factors}, nil
}

// seasonTimeFactor applies at most one of the season and off-hours
// multipliers, season first.
func seasonTimeFactor(st domain.ServiceType, dt *time.Time) (float64, string) {
	if dt == nil {
		return 1, ""
	}
	month := dt.Month()
	hour := dt.Hour()

	if st == domain.ServiceBroyting && (month >= time.November || month <= time.March) {
		return 1.3, "høysesong for brøyting"
	}
	if st == domain.ServicePlenklipping && month >= time.May && month <= time.September {
		return 1.1, "vekstsesong for gress"
	}
	if hour < 7 || hour > 18 {
		return 1.2, "arbeid utenom normal arbeidstid"
	}
	return 1, ""
}

// complexityFactor inspects the free-text description. Urgency outranks
// complexity.
func complexityFactor(extraInfo string) (float64, string) {
	if extraInfo == "" {
		return 1, ""
	}
	text := strings.ToLower(extraInfo)

	for _, w := range urgencyWords {
		if strings.Contains(text, w) {
			return 1.4, "hastearbeid"
		}
	}

	count := 0
	for _, w := range complexityWords {
		if strings.Contains(text, w) {
			count++
		}
	}
	switch {
	case count >= 3:
		return 1.3, "høy kompleksitet"
	case count >= 1:
		return 1.15, "økt kompleksitet"
	}
	return 1, ""
}

// distanceFactor adds a fixed travel surcharge for far-away areas
func distanceFactor(address string) (float64, string) {
	addr := strings.ToLower(address)
	for _, area := range farAreas {
		if strings.Contains(addr, area) {
			return 300, "reisekostnader for lang avstand"
		}
	}
	return 0, ""
}

// weekendEveningFactor applies the weekend surcharge, or the evening
// surcharge on weekdays.
func weekendEveningFactor(dt *time.Time) (float64, string) {
	if dt == nil {
		return 1, ""
	}
	switch dt.Weekday() {
	case time.Saturday, time.Sunday:
		return 1.25, "helgetillegg"
	}
	if hour := dt.Hour(); hour >= 18 || hour < 7 {
		return 1.2, "kveldstillegg"
	}
	return 1, ""
}

// BaseRate exposes the table entry for a service, for manual quoting
func BaseRate(st domain.ServiceType) (base, perHour, weatherMul float64, ok bool) {
	r, found := baseRates[st]
	if !found {
		return 0, 0, 0, false
	}
	return r.Base, r.PerHour, r.WeatherMul, true
}
