package domain

// DTOs for the portal API

// CreateOrderRequest is the public order submission payload
type CreateOrderRequest struct {
	CustomerName      string   `json:"customer_name" validate:"required,max=200"`
	Phone             string   `json:"phone" validate:"required,max=50"`
	Email             string   `json:"email" validate:"required,email,max=255"`
	Address           string   `json:"address" validate:"required,max=500"`
	ServiceType       string   `json:"service_type" validate:"required,oneof=brøyting plenklipping trefelling diverse"`
	PreferredDatetime string   `json:"preferred_datetime,omitempty" validate:"omitempty"`
	ExtraInfo         string   `json:"extra_info,omitempty" validate:"max=2000"`
	PriceEstimate     *float64 `json:"price_estimate,omitempty" validate:"omitempty,gte=0"`
}

// CreateOrderResponse confirms a submitted order with its short reference
type CreateOrderResponse struct {
	Order
	Ref string `json:"ref"`
}

// UpdateOrderStatusRequest changes the status of an order
type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=new in_progress done cancelled"`
}

// EstimateResponse carries a price estimate with its explanation
type EstimateResponse struct {
	ServiceType string   `json:"service_type"`
	Price       int      `json:"price"`
	Factors     []string `json:"factors"`
	Message     string   `json:"message,omitempty"`
}

// LoginRequest is the operator sign-in payload
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SessionResponse is returned after a successful operator sign-in
type SessionResponse struct {
	AccessToken string        `json:"access_token"`
	TokenType   string        `json:"token_type"`
	ExpiresIn   int           `json:"expires_in"`
	User        *UserResponse `json:"user,omitempty"`
}

// UserResponse describes the signed-in operator
type UserResponse struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
}

// WeatherResponse is the current observation with a work recommendation.
// Simulated is always true while the feed runs on generated data.
type WeatherResponse struct {
	Location       string  `json:"location"`
	Temperature    float64 `json:"temperature"`
	Description    string  `json:"description"`
	WindSpeed      float64 `json:"wind_speed"`
	Humidity       int     `json:"humidity"`
	GoodForWork    bool    `json:"good_for_work"`
	Recommendation string  `json:"recommendation"`
	ObservedAt     string  `json:"observed_at"` // ISO 8601
	Simulated      bool    `json:"simulated"`
}

// AdvisoryResponse is the per-service weather advisory
type AdvisoryResponse struct {
	ServiceType     string   `json:"service_type"`
	Recommendations []string `json:"recommendations"`
}

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}
