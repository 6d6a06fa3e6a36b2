package web

import (
	"net/http"

	"pricewatch_api/internal/auth"
	"pricewatch_api/internal/pricewatch/app/web/handlers"
	"pricewatch_api/metrics"
	"pricewatch_api/pkg/logger"
	"pricewatch_api/pkg/middleware"
)

// routeConfig describes one route of the public surface.
type routeConfig struct {
	pattern  string
	handler  http.Handler
	operator bool
}

type Handlers struct {
	Watches *handlers.WatchHandler
	Notify  *handlers.NotifyHandler
	Health  *handlers.HealthHandler
}

// SetupRoutes builds the service mux. operatorSecret, when set, guards operator-only routes with a JWT.
func SetupRoutes(h Handlers, operatorSecret string, log logger.Logger) http.Handler {
	routes := []routeConfig{
		{pattern: "POST /notifications", handler: http.HandlerFunc(h.Watches.Create)},
		{pattern: "GET /notifications", handler: http.HandlerFunc(h.Watches.List)},
		{pattern: "GET /notifications/{id}", handler: http.HandlerFunc(h.Watches.Get)},
		{pattern: "POST /notify", handler: h.Notify},
		{pattern: "GET /health/live", handler: http.HandlerFunc(h.Health.Live)},
		{pattern: "PUT /health/test/toggle", handler: http.HandlerFunc(h.Health.Toggle), operator: true},
		{pattern: "GET /metrics", handler: http.HandlerFunc(h.Health.Metrics)},
		{pattern: "GET /metrics/prometheus", handler: metrics.MetricsHandler()},
	}

	mux := http.NewServeMux()
	for _, rCfg := range routes {
		handler := rCfg.handler
		if rCfg.operator {
			handler = auth.OperatorOnly(operatorSecret, handler)
		}
		mux.Handle(rCfg.pattern, middleware.PrometheusMiddleware(rCfg.pattern)(handler))
	}

	return middleware.Chain(mux,
		middleware.CORS,
		middleware.RequestID,
		middleware.Logging(log.WithPrefix("[HTTP]")),
	)
}
