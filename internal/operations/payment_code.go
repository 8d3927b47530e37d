package operations

import (
	"context"
	"fmt"

	"momo-engine/internal/model"
	"momo-engine/internal/ussd"
)

type PaymentCodeHandler struct{}

func (h *PaymentCodeHandler) Validate(_ context.Context, op *model.Operation) []model.Message {
	var props model.PaymentCodeRequest
	if err := decodeProps(op, &props); err != nil {
		return []model.Message{invalidProps(err)}
	}

	if err := ussd.CheckAmount(props.Amount); err != nil {
		return []model.Message{critical(model.CodeInvalidAmount, "Invalid amount: "+err.Error())}
	}

	route := ussd.Resolve(ussd.Provider(props.Provider), ussd.Country(props.Country))
	if route.Shape == ussd.ShapeUnsupported {
		return []model.Message{warning(model.CodeUnsupportedRoute,
			fmt.Sprintf("No payment route for provider %s in country %s", props.Provider, props.Country))}
	}
	if props.RecipientCodes[route.RecipientKey] == "" {
		return []model.Message{warning(model.CodeMissingRecipientCode,
			fmt.Sprintf("No %s recipient code configured", route.RecipientKey))}
	}
	return nil
}

func (h *PaymentCodeHandler) Apply(_ context.Context, op *model.Operation) (any, []model.Message) {
	var props model.PaymentCodeRequest
	if err := decodeProps(op, &props); err != nil {
		return nil, []model.Message{invalidProps(err)}
	}

	route := ussd.Resolve(ussd.Provider(props.Provider), ussd.Country(props.Country))
	return &model.PaymentCodeResult{
		Provider: props.Provider,
		Country:  props.Country,
		Amount:   props.Amount.String(),
		Shape:    route.Shape,
		Code:     ussd.GeneratePaymentCode(props.RecipientCodes, props.Country, props.Provider, props.Amount),
	}, nil
}
