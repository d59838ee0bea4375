package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/cotacao-hub/cotacao/internal/dispatch"
	"github.com/cotacao-hub/cotacao/internal/inbox"
	"github.com/cotacao-hub/cotacao/internal/masterdata/products"
	"github.com/cotacao-hub/cotacao/internal/masterdata/suppliers"
	"github.com/cotacao-hub/cotacao/internal/observability"
	"github.com/cotacao-hub/cotacao/internal/platform/httpx"
	"github.com/cotacao-hub/cotacao/internal/procurement"
	"github.com/cotacao-hub/cotacao/internal/quotations"
	"github.com/cotacao-hub/cotacao/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger             *slog.Logger
	Config             *Config
	SupplierHandler    *suppliers.Handler
	ProductHandler     *products.Handler
	ProcurementHandler *procurement.Handler
	DispatchHandler    *dispatch.Handler
	InboxHandler       *inbox.Handler
	QuotationHandler   *quotations.Handler
	JobHandler         *jobs.Handler
	Metrics            *observability.Metrics
	// AccessLog enables chi's request logger.
	AccessLog bool
}

type routeGroup struct {
	prefix string
	routes []httpx.Route
}

// NewRouter registers every route group and returns the router together with
// the route table it was built from.
func NewRouter(params RouterParams) (http.Handler, []httpx.Route) {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}
	if params.AccessLog {
		r.Use(chimw.Logger)
	}

	var table []httpx.Route
	system := []httpx.Route{
		{Method: http.MethodGet, Pattern: "/health", Name: "health", Handler: health},
		{Method: http.MethodGet, Pattern: "/metrics", Name: "metrics", Handler: params.Metrics.Handler().ServeHTTP},
		{Method: http.MethodGet, Pattern: "/debug/routes", Name: "debug.routes", Handler: func(w http.ResponseWriter, _ *http.Request) {
			httpx.JSON(w, http.StatusOK, table)
		}},
	}

	groups := []routeGroup{{prefix: "", routes: system}}
	if params.SupplierHandler != nil {
		groups = append(groups, routeGroup{"/fornecedores", params.SupplierHandler.Routes()})
	}
	if params.ProductHandler != nil {
		groups = append(groups, routeGroup{"/produtos", params.ProductHandler.Routes()})
	}
	if params.ProcurementHandler != nil {
		groups = append(groups, routeGroup{"/pedidos", params.ProcurementHandler.Routes()})
	}
	if params.DispatchHandler != nil {
		groups = append(groups, routeGroup{"/digisac", params.DispatchHandler.Routes()})
	}
	if params.InboxHandler != nil {
		groups = append(groups,
			routeGroup{"/webhook", params.InboxHandler.WebhookRoutes()},
			routeGroup{"/mensagens", params.InboxHandler.Routes()})
	}
	if params.QuotationHandler != nil {
		groups = append(groups, routeGroup{"/cotacoes", params.QuotationHandler.Routes()})
	}
	if params.JobHandler != nil {
		groups = append(groups, routeGroup{"/jobs", params.JobHandler.Routes()})
	}

	for _, g := range groups {
		table = append(table, httpx.Mount(r, g.prefix, g.routes)...)
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httpx.Problem(w, http.StatusNotFound, "Not Found", "rota não encontrada")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httpx.Problem(w, http.StatusMethodNotAllowed, "Method Not Allowed", "método não permitido")
	})
	return r, table
}

func health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
