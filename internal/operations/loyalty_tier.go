package operations

import (
	"context"
	"errors"

	"momo-engine/internal/loyalty"
	"momo-engine/internal/model"
)

// LoyaltyTierHandler resolves a client's tier from inline tiers or, when
// none are given, from the business catalog.
type LoyaltyTierHandler struct {
	tiers TierSource
}

func (h *LoyaltyTierHandler) Validate(_ context.Context, op *model.Operation) []model.Message {
	var props model.TierRequest
	if err := decodeProps(op, &props); err != nil {
		return []model.Message{invalidProps(err)}
	}

	if props.Points < 0 {
		return []model.Message{tierError(loyalty.ErrNegativePoints)}
	}
	if props.Tiers != nil {
		if err := loyalty.Validate(props.Tiers); err != nil {
			return []model.Message{tierError(err)}
		}
	}
	return nil
}

func (h *LoyaltyTierHandler) Apply(ctx context.Context, op *model.Operation) (any, []model.Message) {
	var props model.TierRequest
	if err := decodeProps(op, &props); err != nil {
		return nil, []model.Message{invalidProps(err)}
	}

	var msgs []model.Message
	tiers, fallback := props.Tiers, false
	if tiers == nil {
		tiers, fallback = h.lookup(ctx, props.BusinessID)
		if fallback {
			msgs = append(msgs, warning(model.CodeCatalogUnavailable,
				"Tier catalog for business "+props.BusinessID+" unavailable, default tiers used"))
		}
	}

	res, err := loyalty.Resolve(props.Points, tiers)
	if err != nil {
		return nil, append(msgs, tierError(err))
	}

	return &model.TierResult{
		BusinessID:   props.BusinessID,
		Points:       props.Points,
		Tiers:        tiers,
		Resolution:   res,
		DefaultTiers: fallback,
	}, msgs
}

// Prefetch loads the catalogs of every business referenced without inline tiers.
func (h *LoyaltyTierHandler) Prefetch(ctx context.Context, ops []model.Operation) {
	if h.tiers == nil {
		return
	}
	var ids []string
	for i := range ops {
		var props model.TierRequest
		if err := decodeProps(&ops[i], &props); err != nil {
			continue
		}
		if props.Tiers == nil && props.BusinessID != "" {
			ids = append(ids, props.BusinessID)
		}
	}
	if len(ids) > 0 {
		h.tiers.Prefetch(ctx, ids)
	}
}

func (h *LoyaltyTierHandler) lookup(ctx context.Context, businessID string) ([]loyalty.Tier, bool) {
	if h.tiers == nil {
		return loyalty.DefaultTiers(), true
	}
	return h.tiers.TiersOrDefault(ctx, businessID)
}

func tierError(err error) model.Message {
	switch {
	case errors.Is(err, loyalty.ErrNoTiers):
		return critical(model.CodeNoTiers, "At least one tier is required")
	case errors.Is(err, loyalty.ErrNegativePoints):
		return critical(model.CodeNegativePoints, "Points must be non-negative")
	case errors.Is(err, loyalty.ErrUnsortedTiers):
		return critical(model.CodeUnsortedTiers, err.Error())
	default:
		return critical(model.CodeInvalidProperties, err.Error())
	}
}
