package domain

// Usage is the token metering reported by a provider during a streaming call.
// Adapters overwrite it as metering arrives; it is read once the stream ends.
type Usage struct {
	InputTokens  int64 `json:"input_tokens"`
	OutputTokens int64 `json:"output_tokens"`
}

// Observed reports whether any metering was recorded.
func (u Usage) Observed() bool {
	return u.InputTokens > 0 || u.OutputTokens > 0
}

// Rates are a provider's prices in dollars per million tokens.
type Rates struct {
	InputPerMillion  float64 `json:"input_per_million"`
	OutputPerMillion float64 `json:"output_per_million"`
}

// CostEstimate is the dollar cost derived from a Usage and Rates.
type CostEstimate struct {
	InputCost  float64 `json:"input_cost"`
	OutputCost float64 `json:"output_cost"`
	TotalCost  float64 `json:"total_cost"`
}
