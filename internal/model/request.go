package model

import (
	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"

	"momo-engine/internal/loyalty"
	"momo-engine/internal/ussd"
)

type CalculationRequest struct {
	TenantID                string                  `json:"tenant_id"`
	CalculationInstructions CalculationInstructions `json:"calculation_instructions"`
}

type CalculationInstructions struct {
	Operations []Operation `json:"operations"`
}

type Operation struct {
	OperationID   string          `json:"operation_id"`
	OperationName string          `json:"operation_name"`
	Properties    json.RawMessage `json:"properties"`
}

type PaymentCodeRequest struct {
	RecipientCodes ussd.RecipientCodes `json:"recipient_codes"`
	Country        string              `json:"country" validate:"required"`
	Provider       string              `json:"provider" validate:"required"`
	Amount         decimal.Decimal     `json:"amount"`
}

type TierRequest struct {
	Points     int64          `json:"points"`
	Tiers      []loyalty.Tier `json:"tiers" validate:"required_without=BusinessID"`
	BusinessID string         `json:"business_id" validate:"required_without=Tiers"`
}

type RoutesRequest struct {
	Provider string `json:"provider"`
	Country  string `json:"country"`
}
