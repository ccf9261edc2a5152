// Package server exposes the evaluation engines and feed caches over
// HTTP. Every endpoint is a GET with query parameters and JSON out.
package server

import (
	"context"
	"net/http"
	"time"

	affordabilitydomain "github.com/brickvale/homebuyer/internal/affordability/domain"
	"github.com/brickvale/homebuyer/internal/config"
	jobsearchdomain "github.com/brickvale/homebuyer/internal/jobsearch/domain"
	landregistrydomain "github.com/brickvale/homebuyer/internal/landregistry/domain"
	mortgagedomain "github.com/brickvale/homebuyer/internal/mortgage/domain"
	"github.com/brickvale/homebuyer/internal/observability"
	obslogger "github.com/brickvale/homebuyer/internal/observability/logger"
	obsmetrics "github.com/brickvale/homebuyer/internal/observability/metrics"
	propertyfeedsdomain "github.com/brickvale/homebuyer/internal/propertyfeeds/domain"
	ratesdomain "github.com/brickvale/homebuyer/internal/rates/domain"
	stampdutydomain "github.com/brickvale/homebuyer/internal/stampduty/domain"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	fx.Provide(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obslogger.GinMiddleware(obslogger.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(cors.Default())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, _ *Server) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine           *gin.Engine
	cfg              config.Config
	mortgageSvc      mortgagedomain.Service
	stampDutySvc     stampdutydomain.Service
	affordabilitySvc affordabilitydomain.Service
	ratesSvc         ratesdomain.Service
	landRegistrySvc  landregistrydomain.Service
	propertySvc      propertyfeedsdomain.Service
	jobSvc           jobsearchdomain.Service
}

type ServerParams struct {
	fx.In

	Gin              *gin.Engine
	Cfg              config.Config
	MortgageSvc      mortgagedomain.Service
	StampDutySvc     stampdutydomain.Service
	AffordabilitySvc affordabilitydomain.Service
	RatesSvc         ratesdomain.Service
	LandRegistrySvc  landregistrydomain.Service
	PropertySvc      propertyfeedsdomain.Service
	JobSvc           jobsearchdomain.Service
}

func NewServer(p ServerParams) *Server {
	s := &Server{
		engine:           p.Gin,
		cfg:              p.Cfg,
		mortgageSvc:      p.MortgageSvc,
		stampDutySvc:     p.StampDutySvc,
		affordabilitySvc: p.AffordabilitySvc,
		ratesSvc:         p.RatesSvc,
		landRegistrySvc:  p.LandRegistrySvc,
		propertySvc:      p.PropertySvc,
		jobSvc:           p.JobSvc,
	}

	s.registerAPIRoutes()
	return s
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	// -------- Evaluation engines --------
	api.GET("/mortgage", s.GetMortgageQuote)
	api.GET("/deposit_comparison", s.GetDepositComparison)
	api.GET("/stamp_duty", s.GetStampDuty)
	api.GET("/affordability", s.GetAffordability)
	api.GET("/purchase_costs", s.GetPurchaseCosts)
	api.GET("/base_rate", s.GetBaseRate)

	// -------- Market data --------
	api.GET("/area_prices", s.GetAreaPrices)
	api.GET("/properties", s.SearchProperties)
	api.GET("/property_stats", s.GetPropertyStats)
	api.GET("/jobs", s.SearchJobs)
	api.GET("/job_stats", s.GetJobStats)
	api.GET("/salary_history", s.GetSalaryHistory)
}
