package booking

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sorgulen/tjenesteportal/internal/domain"
	"github.com/sorgulen/tjenesteportal/internal/orderapi"
	"github.com/sorgulen/tjenesteportal/internal/pricing"
	"github.com/sorgulen/tjenesteportal/internal/weather"
)

// Draft is a booking form in progress. Required fields are customer name,
// phone, email, address and service type; the rest are optional.
type Draft struct {
	CustomerName      string
	Phone             string
	Email             string
	Address           string
	ServiceType       string
	PreferredDatetime string
	ExtraInfo         string
	PriceEstimate     *float64
}

// requiredFieldCount is the number of fields counted by Progress
const requiredFieldCount = 5

// Band classifies form completion for the progress indicator
type Band string

const (
	BandLow    Band = "low"
	BandMedium Band = "medium"
	BandHigh   Band = "high"
)

// FieldState marks one field as valid or invalid after it loses focus
type FieldState struct {
	Valid   bool
	Message string
}

// Receipt confirms a submitted order
type Receipt struct {
	Order *domain.Order
	Ref   string
}

// Form drives the booking flow: live estimate and advisory on every
// change, validation markers per field, and submission to the order API.
type Form struct {
	orders *orderapi.Client
	logger *zap.Logger
}

// NewForm creates a booking form controller
func NewForm(orders *orderapi.Client, logger *zap.Logger) *Form {
	return &Form{orders: orders, logger: logger}
}

// Normalize trims the text fields the way the submission will send them
func (d Draft) Normalize() Draft {
	d.CustomerName = strings.TrimSpace(d.CustomerName)
	d.Phone = strings.TrimSpace(d.Phone)
	d.Email = strings.TrimSpace(d.Email)
	d.Address = strings.TrimSpace(d.Address)
	d.ExtraInfo = strings.TrimSpace(d.ExtraInfo)
	return d
}

// Progress returns the filled fraction of required fields (0..1) and its
// display band: below 30% low, below 70% medium, otherwise high.
func (d Draft) Progress() (float64, Band) {
	d = d.Normalize()
	filled := 0
	for _, v := range []string{d.CustomerName, d.Phone, d.Email, d.Address, d.ServiceType} {
		if v != "" {
			filled++
		}
	}
	progress := float64(filled) / float64(requiredFieldCount)
	switch {
	case progress < 0.3:
		return progress, BandLow
	case progress < 0.7:
		return progress, BandMedium
	default:
		return progress, BandHigh
	}
}

// FieldStates validates each field independently so feedback stays local
// to the field being edited
func (d Draft) FieldStates() map[string]FieldState {
	d = d.Normalize()
	states := make(map[string]FieldState)

	states["customer_name"] = requireField(d.CustomerName, "Navn er påkrevd")
	states["phone"] = requireField(d.Phone, "Telefonnummer er påkrevd")
	states["address"] = requireField(d.Address, "Adresse er påkrevd")

	switch {
	case d.Email == "":
		states["email"] = FieldState{Valid: false, Message: "E-post er påkrevd"}
	default:
		if _, err := mail.ParseAddress(d.Email); err != nil {
			states["email"] = FieldState{Valid: false, Message: "Ugyldig e-postadresse"}
		} else {
			states["email"] = FieldState{Valid: true}
		}
	}

	switch {
	case d.ServiceType == "":
		states["service_type"] = FieldState{Valid: false, Message: "Velg en tjeneste"}
	case !domain.ServiceType(d.ServiceType).IsValid():
		states["service_type"] = FieldState{Valid: false, Message: "Ukjent tjeneste"}
	default:
		states["service_type"] = FieldState{Valid: true}
	}

	if d.PreferredDatetime != "" {
		if _, err := ParseDatetime(d.PreferredDatetime); err != nil {
			states["preferred_datetime"] = FieldState{Valid: false, Message: "Ugyldig dato"}
		} else {
			states["preferred_datetime"] = FieldState{Valid: true}
		}
	}

	return states
}

// Complete reports whether every field state is valid
func (d Draft) Complete() bool {
	for _, state := range d.FieldStates() {
		if !state.Valid {
			return false
		}
	}
	return true
}

// Estimate recomputes the price for the current draft. Called on every
// relevant change; the result is never cached.
func (d Draft) Estimate() (*pricing.Estimate, error) {
	d = d.Normalize()
	in := pricing.Input{
		ServiceType: domain.ServiceType(d.ServiceType),
		Address:     d.Address,
		ExtraInfo:   d.ExtraInfo,
	}
	if d.PreferredDatetime != "" {
		if dt, err := ParseDatetime(d.PreferredDatetime); err == nil {
			in.Datetime = &dt
		}
	}
	return pricing.Compute(in)
}

// Advisory returns the weather recommendations for the chosen service and
// date. Without both, there is nothing to advise on.
func (d Draft) Advisory() []string {
	st := domain.ServiceType(d.ServiceType)
	if !st.IsValid() || d.PreferredDatetime == "" {
		return nil
	}
	dt, err := ParseDatetime(d.PreferredDatetime)
	if err != nil {
		return nil
	}
	return weather.Advise(st, dt)
}

// Submit sends the draft to the order API. On success the receipt carries
// the short reference and the caller starts over with an empty draft; on
// failure the draft is left untouched for a manual retry.
func (f *Form) Submit(ctx context.Context, draft Draft) (*Receipt, error) {
	draft = draft.Normalize()
	if !draft.Complete() {
		return nil, fmt.Errorf("draft has invalid fields")
	}

	req := &domain.CreateOrderRequest{
		CustomerName:      draft.CustomerName,
		Phone:             draft.Phone,
		Email:             draft.Email,
		Address:           draft.Address,
		ServiceType:       draft.ServiceType,
		PreferredDatetime: draft.PreferredDatetime,
		ExtraInfo:         draft.ExtraInfo,
		PriceEstimate:     draft.PriceEstimate,
	}

	order, err := f.orders.Create(ctx, req)
	if err != nil {
		f.logger.Error("Order submission failed", zap.Error(err))
		return nil, err
	}

	f.logger.Info("Order submitted",
		zap.String("ref", order.ShortRef()),
		zap.String("service_type", string(order.ServiceType)),
	)
	return &Receipt{Order: order, Ref: order.ShortRef()}, nil
}

// ParseDatetime parses the datetime-local format used by the form, with a
// fallback to RFC 3339
func ParseDatetime(value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02T15:04", value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}

func requireField(value, message string) FieldState {
	if value == "" {
		return FieldState{Valid: false, Message: message}
	}
	return FieldState{Valid: true}
}
