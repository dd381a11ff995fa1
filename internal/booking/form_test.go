package booking

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sorgulen/tjenesteportal/internal/config"
	"github.com/sorgulen/tjenesteportal/internal/domain"
	"github.com/sorgulen/tjenesteportal/internal/orderapi"
)

func completeDraft() Draft {
	return Draft{
		CustomerName:      "Kari Nordmann",
		Phone:             "99887766",
		Email:             "kari@example.com",
		Address:           "Sørgulen 4",
		ServiceType:       "plenklipping",
		PreferredDatetime: "2024-06-15T10:00",
		ExtraInfo:         "stor hage",
	}
}

func TestDraftProgress(t *testing.T) {
	t.Run("empty draft is in the low band", func(t *testing.T) {
		progress, band := Draft{}.Progress()
		assert.Equal(t, 0.0, progress)
		assert.Equal(t, BandLow, band)
	})

	t.Run("one of five fields stays low", func(t *testing.T) {
		progress, band := Draft{CustomerName: "Kari"}.Progress()
		assert.InDelta(t, 0.2, progress, 0.001)
		assert.Equal(t, BandLow, band)
	})

	t.Run("two and three of five are medium", func(t *testing.T) {
		_, band := Draft{CustomerName: "Kari", Phone: "99887766"}.Progress()
		assert.Equal(t, BandMedium, band)

		_, band = Draft{CustomerName: "Kari", Phone: "99887766", Email: "k@e.no"}.Progress()
		assert.Equal(t, BandMedium, band)
	})

	t.Run("four of five is high", func(t *testing.T) {
		progress, band := Draft{
			CustomerName: "Kari", Phone: "99887766", Email: "k@e.no", Address: "Sørgulen 4",
		}.Progress()
		assert.InDelta(t, 0.8, progress, 0.001)
		assert.Equal(t, BandHigh, band)
	})

	t.Run("whitespace-only fields count as empty", func(t *testing.T) {
		progress, _ := Draft{CustomerName: "   "}.Progress()
		assert.Equal(t, 0.0, progress)
	})
}

func TestDraftFieldStates(t *testing.T) {
	t.Run("complete draft is valid", func(t *testing.T) {
		for field, state := range completeDraft().FieldStates() {
			assert.True(t, state.Valid, field)
		}
		assert.True(t, completeDraft().Complete())
	})

	t.Run("flags missing and malformed fields", func(t *testing.T) {
		draft := Draft{Email: "ikke-epost", ServiceType: "vinduspuss"}
		states := draft.FieldStates()

		assert.False(t, states["customer_name"].Valid)
		assert.False(t, states["phone"].Valid)
		assert.False(t, states["address"].Valid)
		assert.False(t, states["email"].Valid)
		assert.Equal(t, "Ugyldig e-postadresse", states["email"].Message)
		assert.False(t, states["service_type"].Valid)
		assert.False(t, draft.Complete())
	})

	t.Run("invalid datetime is flagged", func(t *testing.T) {
		draft := completeDraft()
		draft.PreferredDatetime = "i morgen"
		states := draft.FieldStates()
		assert.False(t, states["preferred_datetime"].Valid)
	})
}

func TestDraftEstimate(t *testing.T) {
	t.Run("recomputes from current field values", func(t *testing.T) {
		draft := completeDraft()
		draft.Address = "Gata 1, Oslo"
		draft.ExtraInfo = "stor og vanskelig hage"

		est, err := draft.Estimate()
		require.NoError(t, err)
		assert.Equal(t, 1008, est.Total)
	})

	t.Run("missing service prompts for one", func(t *testing.T) {
		_, err := Draft{Address: "Sørgulen 4"}.Estimate()
		assert.Error(t, err)
	})
}

func TestDraftAdvisory(t *testing.T) {
	t.Run("needs service and date", func(t *testing.T) {
		assert.Nil(t, Draft{ServiceType: "brøyting"}.Advisory())
		assert.Nil(t, Draft{PreferredDatetime: "2024-12-10T10:00"}.Advisory())
	})

	t.Run("advises on the chosen service and date", func(t *testing.T) {
		draft := Draft{ServiceType: "brøyting", PreferredDatetime: "2024-12-10T10:00"}
		assert.Contains(t, draft.Advisory(), "Optimal sesong for brøyting")
	})
}

func TestFormSubmit(t *testing.T) {
	newForm := func(handler http.HandlerFunc) *Form {
		srv := httptest.NewServer(handler)
		t.Cleanup(srv.Close)
		client := orderapi.NewClient(&config.OrderAPIConfig{BaseURL: srv.URL, Timeout: 5})
		return NewForm(client, zap.NewNop())
	}

	t.Run("returns a receipt with the short reference", func(t *testing.T) {
		form := newForm(func(w http.ResponseWriter, r *http.Request) {
			var req domain.CreateOrderRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "Kari Nordmann", req.CustomerName)

			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(domain.Order{
				ID:     "deadbeef-1234-5678-9abc-def012345678",
				Status: domain.OrderStatusNew,
			})
		})

		receipt, err := form.Submit(context.Background(), completeDraft())
		require.NoError(t, err)
		assert.Equal(t, "deadbeef", receipt.Ref)
	})

	t.Run("propagates upstream failure without retrying", func(t *testing.T) {
		calls := 0
		form := newForm(func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.WriteHeader(http.StatusBadGateway)
		})

		_, err := form.Submit(context.Background(), completeDraft())
		assert.Error(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("refuses an incomplete draft locally", func(t *testing.T) {
		called := false
		form := newForm(func(w http.ResponseWriter, r *http.Request) {
			called = true
		})

		_, err := form.Submit(context.Background(), Draft{CustomerName: "Kari"})
		assert.Error(t, err)
		assert.False(t, called)
	})
}
