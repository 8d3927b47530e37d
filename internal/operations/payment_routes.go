package operations

import (
	"context"

	"momo-engine/internal/model"
	"momo-engine/internal/ussd"
)

// PaymentRoutesHandler lists the routes a merchant can offer, optionally
// filtered by provider and country.
type PaymentRoutesHandler struct{}

func (h *PaymentRoutesHandler) Validate(_ context.Context, op *model.Operation) []model.Message {
	if _, err := routesProps(op); err != nil {
		return []model.Message{invalidProps(err)}
	}
	return nil
}

func (h *PaymentRoutesHandler) Apply(_ context.Context, op *model.Operation) (any, []model.Message) {
	props, err := routesProps(op)
	if err != nil {
		return nil, []model.Message{invalidProps(err)}
	}

	routes := FilterRoutes(props.Provider, props.Country)
	var msgs []model.Message
	if len(routes) == 0 {
		msgs = append(msgs, warning(model.CodeNoMatchingRoutes,
			"No payment routes match the provided filter criteria"))
	}
	return &model.RoutesResult{Routes: routes}, msgs
}

// FilterRoutes returns the supported routes matching provider and country;
// an empty filter matches everything.
func FilterRoutes(provider, country string) []ussd.Route {
	routes := []ussd.Route{}
	for _, r := range ussd.Matrix() {
		if provider != "" && string(r.Provider) != provider {
			continue
		}
		if country != "" && string(r.Country) != country {
			continue
		}
		if r.Shape == ussd.ShapeUnsupported {
			continue
		}
		routes = append(routes, r)
	}
	return routes
}

func routesProps(op *model.Operation) (model.RoutesRequest, error) {
	var props model.RoutesRequest
	if len(op.Properties) == 0 {
		return props, nil
	}
	err := decodeProps(op, &props)
	return props, err
}
