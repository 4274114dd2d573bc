package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Maxx-Protein/compliance-companion/internal/handler"
	"github.com/Maxx-Protein/compliance-companion/internal/metrics"
	"github.com/Maxx-Protein/compliance-companion/internal/middleware"
	"github.com/Maxx-Protein/compliance-companion/internal/service"
)

// Handlers groups the HTTP handlers mounted by Setup.
type Handlers struct {
	Health     *handler.HealthHandler
	Calculator *handler.CalculatorHandler
	Invoice    *handler.InvoiceHandler
	Filing     *handler.FilingHandler
	Report     *handler.ReportHandler
	Profile    *handler.ProfileHandler
	Product    *handler.ProductHandler
}

// Options carries the cross-cutting dependencies of the router.
type Options struct {
	AllowedOrigins []string
	Metrics        *metrics.Metrics
	Gatherer       prometheus.Gatherer
}

// Setup configures the Gin engine with all routes and middleware.
func Setup(authSvc service.AuthService, h Handlers, opts Options) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(opts.Metrics))
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(opts.AllowedOrigins))

	// Health checks and metrics
	r.GET("/healthz", h.Health.Liveness)
	r.GET("/readyz", h.Health.Readiness)
	gatherer := opts.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	v1 := r.Group("/api/v1")
	v1.Use(middleware.AuthMiddleware(authSvc))

	calc := v1.Group("/calculators")
	calc.POST("/gst", h.Calculator.GST)
	calc.POST("/tcs", h.Calculator.TCS)
	calc.POST("/itc", h.Calculator.ITC)
	calc.POST("/pnl", h.Calculator.PnL)
	calc.POST("/invoice", h.Calculator.Invoice)

	invoices := v1.Group("/invoices")
	invoices.POST("", h.Invoice.Create)
	invoices.GET("", h.Invoice.List)
	invoices.GET("/export", h.Invoice.ExportCSV)
	invoices.POST("/import", h.Invoice.ImportCSV)
	invoices.GET("/:id", h.Invoice.GetByID)
	invoices.PUT("/:id", h.Invoice.Update)
	invoices.GET("/:id/pdf", h.Invoice.DownloadPDF)

	products := v1.Group("/products")
	products.POST("", h.Product.Create)
	products.GET("", h.Product.List)
	products.GET("/export", h.Product.ExportCSV)
	products.POST("/import", h.Product.ImportCSV)
	products.GET("/:id", h.Product.GetByID)
	products.PUT("/:id", h.Product.Update)
	products.DELETE("/:id", h.Product.Delete)

	filings := v1.Group("/filings")
	filings.GET("", h.Filing.List)
	filings.GET("/:month", h.Filing.Get)
	filings.PUT("/:month", h.Filing.Upsert)
	filings.PATCH("/:month/status", h.Filing.UpdateStatus)

	reports := v1.Group("/reports")
	reports.GET("/summary", h.Report.Summary)
	reports.GET("/export", h.Report.Export)
	reports.POST("/archive", h.Report.Archive)

	v1.GET("/profile", h.Profile.Get)
	v1.PUT("/profile", h.Profile.Upsert)

	return r
}
