package generation

import "github.com/phrazzld/scry-relay/internal/domain"

const tokensPerMillion = 1_000_000

// EstimateCost prices usage at rates. Zero usage yields a zero estimate; the
// caller decides whether missing metering is worth a warning.
func EstimateCost(usage domain.Usage, rates domain.Rates) domain.CostEstimate {
	in := float64(usage.InputTokens) / tokensPerMillion * rates.InputPerMillion
	out := float64(usage.OutputTokens) / tokensPerMillion * rates.OutputPerMillion
	return domain.CostEstimate{
		InputCost:  in,
		OutputCost: out,
		TotalCost:  in + out,
	}
}
