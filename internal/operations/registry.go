package operations

import "sort"

const (
	PaymentCode   = "payment_code"
	LoyaltyTier   = "loyalty_tier"
	PaymentRoutes = "payment_routes"
)

type Registry struct {
	handlers map[string]OperationHandler
}

func NewRegistry(tiers TierSource) *Registry {
	return &Registry{handlers: map[string]OperationHandler{
		PaymentCode:   &PaymentCodeHandler{},
		LoyaltyTier:   &LoyaltyTierHandler{tiers: tiers},
		PaymentRoutes: &PaymentRoutesHandler{},
	}}
}

func (r *Registry) Get(name string) (OperationHandler, bool) {
	h, ok := r.handlers[name]
	return h, ok
}

// Names lists the registered operation names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
