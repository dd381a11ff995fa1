package handler

import (
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/sorgulen/tjenesteportal/internal/booking"
	"github.com/sorgulen/tjenesteportal/internal/domain"
	"github.com/sorgulen/tjenesteportal/internal/weather"
)

// WeatherHandler serves the weather widget: the current feed observation
// and the per-service timing advisory
type WeatherHandler struct {
	feed   *weather.Feed
	logger *zap.Logger
}

func NewWeatherHandler(feed *weather.Feed, logger *zap.Logger) *WeatherHandler {
	return &WeatherHandler{
		feed:   feed,
		logger: logger,
	}
}

// Current returns the latest cached observation with a work recommendation
func (h *WeatherHandler) Current(w http.ResponseWriter, r *http.Request) {
	obs, err := h.feed.Latest()
	if err != nil {
		if errors.Is(err, weather.ErrNoObservation) {
			respondWithError(w, http.StatusServiceUnavailable, "Værdata ikke tilgjengelig")
			return
		}
		h.logger.Error("failed to read weather feed", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to read weather feed")
		return
	}

	respondJSON(w, http.StatusOK, domain.WeatherResponse{
		Location:       obs.Location,
		Temperature:    obs.Temperature,
		Description:    obs.Description,
		WindSpeed:      obs.WindSpeed,
		Humidity:       obs.Humidity,
		GoodForWork:    obs.GoodForWork,
		Recommendation: weather.WorkRecommendation(obs),
		ObservedAt:     obs.ObservedAt.Format(time.RFC3339),
		Simulated:      true,
	})
}

// Advice returns the timing recommendations for a service at a date.
// Defaults to now when no datetime is given.
func (h *WeatherHandler) Advice(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	st := domain.ServiceType(q.Get("service"))
	if !st.IsValid() {
		respondWithError(w, http.StatusBadRequest, "Invalid or missing service")
		return
	}

	date := time.Now()
	if raw := q.Get("datetime"); raw != "" {
		parsed, err := booking.ParseDatetime(raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid datetime")
			return
		}
		date = parsed
	}

	respondJSON(w, http.StatusOK, domain.AdvisoryResponse{
		ServiceType:     string(st),
		Recommendations: weather.Advise(st, date),
	})
}
