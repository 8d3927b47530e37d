package handler

import (
	"github.com/go-playground/validator/v10"
	json "github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
	"go.uber.org/zap"

	"momo-engine/internal/engine"
	"momo-engine/internal/loyalty"
	"momo-engine/internal/metrics"
	"momo-engine/internal/model"
	"momo-engine/internal/operations"
	"momo-engine/internal/ussd"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type Handler struct {
	engine  *engine.Engine
	tiers   operations.TierSource
	metrics *metrics.Metrics
	log     *zap.Logger

	serveMetrics fasthttp.RequestHandler
}

func New(e *engine.Engine, tiers operations.TierSource, m *metrics.Metrics, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		engine:  e,
		tiers:   tiers,
		metrics: m,
		log:     log.Named("http"),
		serveMetrics: fasthttpadaptor.NewFastHTTPHandler(
			promhttp.HandlerFor(m.Registry(), promhttp.HandlerOpts{}),
		),
	}
}

// Handle routes a request to its endpoint.
func (h *Handler) Handle(ctx *fasthttp.RequestCtx) {
	path := string(ctx.Path())
	h.log.Debug("request",
		zap.ByteString("method", ctx.Method()),
		zap.String("path", path))

	switch path {
	case "/calculate":
		h.post(ctx, h.HandleCalculation)
	case "/payment-code":
		h.post(ctx, h.HandlePaymentCode)
	case "/loyalty/tier":
		h.post(ctx, h.HandleTier)
	case "/routes":
		h.get(ctx, h.HandleRoutes)
	case "/healthz":
		h.get(ctx, func(ctx *fasthttp.RequestCtx) {
			writeJSON(ctx, fasthttp.StatusOK, map[string]string{"status": "ok"})
		})
	case "/metrics":
		h.get(ctx, h.serveMetrics)
	default:
		writeError(ctx, fasthttp.StatusNotFound, "Not found")
	}
}

func (h *Handler) post(ctx *fasthttp.RequestCtx, next fasthttp.RequestHandler) {
	if !ctx.IsPost() {
		writeError(ctx, fasthttp.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	next(ctx)
}

func (h *Handler) get(ctx *fasthttp.RequestCtx, next fasthttp.RequestHandler) {
	if !ctx.IsGet() {
		writeError(ctx, fasthttp.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	next(ctx)
}

func (h *Handler) HandleCalculation(ctx *fasthttp.RequestCtx) {
	var req model.CalculationRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if len(req.CalculationInstructions.Operations) == 0 {
		writeError(ctx, fasthttp.StatusBadRequest, "At least one operation is required")
		return
	}

	resp := h.engine.Process(ctx, &req)
	writeJSON(ctx, fasthttp.StatusOK, resp)
}

func (h *Handler) HandlePaymentCode(ctx *fasthttp.RequestCtx) {
	var req model.PaymentCodeRequest
	if !decode(ctx, &req) {
		return
	}
	if err := ussd.CheckAmount(req.Amount); err != nil {
		writeError(ctx, fasthttp.StatusUnprocessableEntity, err.Error())
		return
	}

	route := ussd.Resolve(ussd.Provider(req.Provider), ussd.Country(req.Country))
	code := ussd.GeneratePaymentCode(req.RecipientCodes, req.Country, req.Provider, req.Amount)
	h.metrics.ObservePaymentCode(req.Provider, req.Country, string(route.Shape))

	writeJSON(ctx, fasthttp.StatusOK, &model.PaymentCodeResult{
		Provider: req.Provider,
		Country:  req.Country,
		Amount:   req.Amount.String(),
		Shape:    route.Shape,
		Code:     code,
	})
}

func (h *Handler) HandleTier(ctx *fasthttp.RequestCtx) {
	var req model.TierRequest
	if !decode(ctx, &req) {
		return
	}

	tiers, fallback := req.Tiers, false
	if tiers == nil {
		if h.tiers != nil {
			tiers, fallback = h.tiers.TiersOrDefault(ctx, req.BusinessID)
		} else {
			tiers, fallback = loyalty.DefaultTiers(), true
		}
	}

	res, err := loyalty.Resolve(req.Points, tiers)
	if err != nil {
		writeError(ctx, fasthttp.StatusUnprocessableEntity, err.Error())
		return
	}

	writeJSON(ctx, fasthttp.StatusOK, &model.TierResult{
		BusinessID:   req.BusinessID,
		Points:       req.Points,
		Tiers:        tiers,
		Resolution:   res,
		DefaultTiers: fallback,
	})
}

func (h *Handler) HandleRoutes(ctx *fasthttp.RequestCtx) {
	args := ctx.QueryArgs()
	routes := operations.FilterRoutes(string(args.Peek("provider")), string(args.Peek("country")))
	writeJSON(ctx, fasthttp.StatusOK, &model.RoutesResult{Routes: routes})
}

func decode(ctx *fasthttp.RequestCtx, v any) bool {
	if err := json.Unmarshal(ctx.PostBody(), v); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	if err := validate.Struct(v); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

func writeJSON(ctx *fasthttp.RequestCtx, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		writeError(ctx, fasthttp.StatusInternalServerError, "Encoding response: "+err.Error())
		return
	}
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(status)
	ctx.SetBody(body)
}

func writeError(ctx *fasthttp.RequestCtx, status int, message string) {
	body, _ := json.Marshal(model.ErrorResponse{
		Status:  status,
		Message: message,
	})
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(status)
	ctx.SetBody(body)
}
