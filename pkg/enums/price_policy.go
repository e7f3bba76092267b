package enums

import "fmt"

// PricePolicy controls how the sale engine treats a cart line whose
// container size has no configured price.
type PricePolicy string

const (
	// PricePolicyReject refuses the line with PRICE_NOT_CONFIGURED.
	PricePolicyReject PricePolicy = "reject"
	// PricePolicyZero accepts the line at price zero.
	PricePolicyZero PricePolicy = "zero"
)

var validPricePolicies = []PricePolicy{
	PricePolicyReject,
	PricePolicyZero,
}

// IsValid reports whether the value matches the canonical price policy enum.
func (p PricePolicy) IsValid() bool {
	for _, candidate := range validPricePolicies {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePricePolicy converts the raw string to PricePolicy.
func ParsePricePolicy(value string) (PricePolicy, error) {
	for _, candidate := range validPricePolicies {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid price policy %q", value)
}
