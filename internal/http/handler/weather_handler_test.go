package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sorgulen/tjenesteportal/internal/domain"
	"github.com/sorgulen/tjenesteportal/internal/http/handler"
	"github.com/sorgulen/tjenesteportal/internal/weather"
)

// fixedProvider always returns the same observation
type fixedProvider struct {
	obs weather.Observation
}

func (p fixedProvider) Current(_ context.Context, location string) (weather.Observation, error) {
	obs := p.obs
	obs.Location = location
	return obs, nil
}

func newWeatherHandler(t *testing.T, obs weather.Observation, refresh bool) *handler.WeatherHandler {
	t.Helper()
	feed := weather.NewFeed(fixedProvider{obs: obs}, "Sorgulen", zap.NewNop())
	if refresh {
		require.NoError(t, feed.Refresh(context.Background()))
	}
	return handler.NewWeatherHandler(feed, zap.NewNop())
}

func TestWeatherHandler_Current(t *testing.T) {
	t.Run("returns cached observation with recommendation", func(t *testing.T) {
		observedAt := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
		h := newWeatherHandler(t, weather.Observation{
			Temperature: 22,
			Description: "Pent vær",
			WindSpeed:   3,
			Humidity:    40,
			GoodForWork: true,
			ObservedAt:  observedAt,
		}, true)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/weather", nil)
		rr := httptest.NewRecorder()
		h.Current(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var resp domain.WeatherResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, "Sorgulen", resp.Location)
		assert.Equal(t, 22.0, resp.Temperature)
		assert.Equal(t, "Pent vær", resp.Description)
		assert.Equal(t, "Ideelt vær for plenklipping og hagearbeid!", resp.Recommendation)
		assert.Equal(t, observedAt.Format(time.RFC3339), resp.ObservedAt)
		assert.True(t, resp.Simulated)
	})

	t.Run("reports unavailable before first refresh", func(t *testing.T) {
		h := newWeatherHandler(t, weather.Observation{}, false)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/weather", nil)
		rr := httptest.NewRecorder()
		h.Current(rr, req)

		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)

		var apiErr domain.APIError
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &apiErr))
		assert.Equal(t, "Værdata ikke tilgjengelig", apiErr.Detail)
	})
}

func TestWeatherHandler_Advice(t *testing.T) {
	h := newWeatherHandler(t, weather.Observation{}, false)

	getAdvice := func(t *testing.T, query string) (*httptest.ResponseRecorder, domain.AdvisoryResponse) {
		t.Helper()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/weather/advice?"+query, nil)
		rr := httptest.NewRecorder()
		h.Advice(rr, req)

		var resp domain.AdvisoryResponse
		if rr.Code == http.StatusOK {
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		}
		return rr, resp
	}

	t.Run("winter service in season", func(t *testing.T) {
		rr, resp := getAdvice(t, "service=brøyting&datetime=2024-01-10T10:00")

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "brøyting", resp.ServiceType)
		assert.Contains(t, resp.Recommendations, "Optimal sesong for brøyting")
	})

	t.Run("winter service out of season", func(t *testing.T) {
		rr, resp := getAdvice(t, "service=brøyting&datetime=2024-07-10T10:00")

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, resp.Recommendations, "Ikke brøytesesong - vurder andre tjenester")
	})

	t.Run("defaults to now when datetime omitted", func(t *testing.T) {
		rr, resp := getAdvice(t, "service=diverse")

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.NotEmpty(t, resp.Recommendations)
	})

	t.Run("rejects missing service", func(t *testing.T) {
		rr, _ := getAdvice(t, "")
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("rejects malformed datetime", func(t *testing.T) {
		rr, _ := getAdvice(t, "service=diverse&datetime=snart")
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
