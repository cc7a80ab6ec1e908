package eligibility

import (
	"flexipay-be/internal/money"
)

// Checker answers whether installment financing can be offered for a given
// billing region and currency. Both checks fail closed: anything not known
// to be eligible is reported unavailable, never raised as an error.
type Checker struct {
	// denylist keys are region names compared exactly as the storefront
	// sends them.
	// TODO: key this on ISO region codes once the storefront sends them;
	// free-form names are fragile across locales.
	denylist   map[string]struct{}
	currencies *money.Currencies
}

func NewChecker(denyRegions []string, currencies *money.Currencies) *Checker {
	deny := make(map[string]struct{}, len(denyRegions))
	for _, r := range denyRegions {
		deny[r] = struct{}{}
	}
	return &Checker{denylist: deny, currencies: currencies}
}

func (c *Checker) AvailableForRegion(region string) bool {
	if region == "" {
		return false
	}
	_, denied := c.denylist[region]
	return !denied
}

func (c *Checker) CanUseForCurrency(code string) bool {
	return c.currencies.Accepts(code)
}

// Available is the combined storefront check.
func (c *Checker) Available(billingRegion, currencyCode string) bool {
	return c.AvailableForRegion(billingRegion) && c.CanUseForCurrency(currencyCode)
}
