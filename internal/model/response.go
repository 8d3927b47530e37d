package model

import (
	"momo-engine/internal/loyalty"
	"momo-engine/internal/ussd"
)

type CalculationResponse struct {
	CalculationMetadata CalculationMetadata `json:"calculation_metadata"`
	CalculationResult   CalculationResult   `json:"calculation_result"`
}

type CalculationMetadata struct {
	CalculationID          string `json:"calculation_id"`
	TenantID               string `json:"tenant_id"`
	CalculationStartedAt   string `json:"calculation_started_at"`
	CalculationCompletedAt string `json:"calculation_completed_at"`
	CalculationDurationMs  int64  `json:"calculation_duration_ms"`
	CalculationOutcome     string `json:"calculation_outcome"`
}

type CalculationResult struct {
	Messages   []Message            `json:"messages"`
	Operations []ProcessedOperation `json:"operations"`
}

type ProcessedOperation struct {
	Operation      Operation `json:"operation"`
	Output         any       `json:"output,omitempty"`
	MessageIndexes []int     `json:"calculation_message_indexes,omitempty"`
}

type PaymentCodeResult struct {
	Provider string     `json:"provider"`
	Country  string     `json:"country"`
	Amount   string     `json:"amount"`
	Shape    ussd.Shape `json:"shape"`
	Code     string     `json:"code"`
}

type TierResult struct {
	BusinessID string         `json:"business_id,omitempty"`
	Points     int64          `json:"points"`
	Tiers      []loyalty.Tier `json:"tiers"`
	loyalty.Resolution
	// DefaultTiers is set when the business catalog could not be used.
	DefaultTiers bool `json:"default_tiers,omitempty"`
}

type RoutesResult struct {
	Routes []ussd.Route `json:"routes"`
}

type ErrorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

const (
	OutcomeSuccess = "SUCCESS"
	OutcomeFailure = "FAILURE"
)
