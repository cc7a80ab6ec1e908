package money

// baseAllowedCurrencies is the allow-list the gateway supports out of the box.
var baseAllowedCurrencies = []string{"USD"}

// Currencies is the accepted-currency set: the fixed allow-list plus the one
// currency configured on the gateway account. Computed once at construction
// and immutable afterwards.
type Currencies struct {
	codes map[string]struct{}
}

func NewCurrencies(gatewayCurrency string) *Currencies {
	codes := make(map[string]struct{}, len(baseAllowedCurrencies)+1)
	for _, c := range baseAllowedCurrencies {
		codes[c] = struct{}{}
	}
	if gatewayCurrency != "" {
		codes[gatewayCurrency] = struct{}{}
	}
	return &Currencies{codes: codes}
}

func (c *Currencies) Accepts(code string) bool {
	_, ok := c.codes[code]
	return ok
}

func (c *Currencies) List() []string {
	out := make([]string, 0, len(c.codes))
	for code := range c.codes {
		out = append(out, code)
	}
	return out
}
