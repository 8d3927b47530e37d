package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"momo-engine/internal/metrics"
	"momo-engine/internal/model"
	"momo-engine/internal/operations"
)

type Engine struct {
	registry *operations.Registry
	log      *zap.Logger
	metrics  *metrics.Metrics
}

func New(registry *operations.Registry, log *zap.Logger, m *metrics.Metrics) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{registry: registry, log: log.Named("engine"), metrics: m}
}

// Process runs the operations of req in order. The first CRITICAL message
// stops the batch and marks the outcome FAILURE.
func (e *Engine) Process(ctx context.Context, req *model.CalculationRequest) *model.CalculationResponse {
	start := time.Now()
	ops := req.CalculationInstructions.Operations

	e.prefetch(ctx, ops)

	allMessages := []model.Message{}
	processed := []model.ProcessedOperation{}
	outcome := model.OutcomeSuccess

	for i := range ops {
		op := ops[i]

		handler, ok := e.registry.Get(op.OperationName)
		if !ok {
			msg := model.Message{
				ID:      len(allMessages),
				Level:   model.LevelCritical,
				Code:    model.CodeUnknownOperation,
				Message: fmt.Sprintf("Unknown operation: %s", op.OperationName),
			}
			allMessages = append(allMessages, msg)
			processed = append(processed, model.ProcessedOperation{
				Operation:      op,
				MessageIndexes: []int{msg.ID},
			})
			e.metrics.ObserveOperation("unknown", model.OutcomeFailure)
			outcome = model.OutcomeFailure
			break
		}

		// Validate
		var msgIndexes []int
		hasCritical := false
		for _, vm := range handler.Validate(ctx, &op) {
			vm.ID = len(allMessages)
			allMessages = append(allMessages, vm)
			msgIndexes = append(msgIndexes, vm.ID)
			if vm.Level == model.LevelCritical {
				hasCritical = true
			}
		}

		if hasCritical {
			processed = append(processed, model.ProcessedOperation{
				Operation:      op,
				MessageIndexes: msgIndexes,
			})
			e.metrics.ObserveOperation(op.OperationName, model.OutcomeFailure)
			outcome = model.OutcomeFailure
			break
		}

		// Apply
		output, applyMsgs := handler.Apply(ctx, &op)
		for _, am := range applyMsgs {
			am.ID = len(allMessages)
			allMessages = append(allMessages, am)
			msgIndexes = append(msgIndexes, am.ID)
			if am.Level == model.LevelCritical {
				hasCritical = true
			}
		}

		processed = append(processed, model.ProcessedOperation{
			Operation:      op,
			Output:         output,
			MessageIndexes: msgIndexes,
		})

		if hasCritical {
			e.metrics.ObserveOperation(op.OperationName, model.OutcomeFailure)
			outcome = model.OutcomeFailure
			break
		}
		e.metrics.ObserveOperation(op.OperationName, model.OutcomeSuccess)
		if pc, ok := output.(*model.PaymentCodeResult); ok {
			e.metrics.ObservePaymentCode(pc.Provider, pc.Country, string(pc.Shape))
		}
	}

	elapsed := time.Since(start)
	now := time.Now().UTC()
	e.metrics.ObserveCalculation(outcome, elapsed)

	resp := &model.CalculationResponse{
		CalculationMetadata: model.CalculationMetadata{
			CalculationID:          uuid.New().String(),
			TenantID:               req.TenantID,
			CalculationStartedAt:   now.Add(-elapsed).Format(time.RFC3339),
			CalculationCompletedAt: now.Format(time.RFC3339),
			CalculationDurationMs:  elapsed.Milliseconds(),
			CalculationOutcome:     outcome,
		},
		CalculationResult: model.CalculationResult{
			Messages:   allMessages,
			Operations: processed,
		},
	}

	e.log.Debug("calculation processed",
		zap.String("calculation_id", resp.CalculationMetadata.CalculationID),
		zap.String("tenant_id", req.TenantID),
		zap.Int("operations", len(processed)),
		zap.String("outcome", outcome),
		zap.Duration("elapsed", elapsed))
	return resp
}

// prefetch lets handlers load remote data for the whole batch up front.
func (e *Engine) prefetch(ctx context.Context, ops []model.Operation) {
	byName := make(map[string][]model.Operation)
	for _, op := range ops {
		byName[op.OperationName] = append(byName[op.OperationName], op)
	}
	for name, group := range byName {
		h, ok := e.registry.Get(name)
		if !ok {
			continue
		}
		if p, ok := h.(operations.Prefetcher); ok {
			p.Prefetch(ctx, group)
		}
	}
}
