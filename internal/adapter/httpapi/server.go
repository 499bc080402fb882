// Package httpapi exposes the REST surface: report submission and moderation,
// hotspot aggregation, the social feed, and the usual health and metrics
// endpoints.
package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/hazard-report-service/internal/domain"
	"github.com/couchcryptid/hazard-report-service/internal/observability"
	"github.com/couchcryptid/hazard-report-service/internal/social"
)

const (
	defaultFeedLimit = 50
	maxFeedLimit     = 200

	scrapeTimeout = 2 * time.Minute
)

// Enqueuer starts a background verification run for a newly stored report.
type Enqueuer interface {
	Enqueue(report domain.Report)
}

// Ingester handles social content ingestion, both single items and full runs.
type Ingester interface {
	Run(ctx context.Context) (social.Stats, error)
	IngestItem(ctx context.Context, source domain.SocialSource, post social.RawPost) (domain.SocialItem, bool, error)
}

// Server wires the REST routes over the stores and the verification engine.
type Server struct {
	httpServer *http.Server

	store            domain.ReportStore
	socialStore      domain.SocialStore
	engine           Enqueuer
	ingester         Ingester
	hotspotPrecision int

	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewServer creates the HTTP server with all API routes registered.
func NewServer(addr string, store domain.ReportStore, socialStore domain.SocialStore, engine Enqueuer, ingester Ingester, hotspotPrecision int, logger *slog.Logger, metrics *observability.Metrics) *Server {
	s := &Server{
		store:            store,
		socialStore:      socialStore,
		engine:           engine,
		ingester:         ingester,
		hotspotPrecision: hotspotPrecision,
		logger:           logger,
		metrics:          metrics,
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	api := router.Group("/api")
	{
		api.POST("/reports", s.handleCreateReport)
		api.GET("/reports", s.handleListReports)
		api.GET("/reports/hotspots", s.handleHotspots)
		api.GET("/reports/:id", s.handleGetReport)
		api.PATCH("/reports/:id/status", s.handleUpdateStatus)

		api.POST("/social/ingest", s.handleIngestSocial)
		api.GET("/social/posts", s.handleListSocial)
		api.POST("/social/scrape", s.handleScrape)
	}

	router.GET("/healthz", s.handleHealth)
	router.GET("/readyz", s.handleReady)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

type createReportRequest struct {
	Longitude   *float64 `json:"longitude" binding:"required"`
	Latitude    *float64 `json:"latitude" binding:"required"`
	Description string   `json:"description" binding:"required"`
	MediaURL    string   `json:"mediaUrl" binding:"required"`
	HazardKind  string   `json:"hazardKind" binding:"required"`
	SubmittedBy string   `json:"submittedBy"`
}

func (s *Server) handleCreateReport(c *gin.Context) {
	var req createReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := domain.NewReport(*req.Longitude, *req.Latitude, req.Description,
		req.MediaURL, domain.HazardKind(req.HazardKind), req.SubmittedBy)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.store.CreateReport(c.Request.Context(), report); err != nil {
		s.logger.Error("create report failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store report"})
		return
	}

	s.metrics.ReportsCreated.Inc()
	s.engine.Enqueue(report)
	c.JSON(http.StatusCreated, report)
}

func (s *Server) handleListReports(c *gin.Context) {
	var filter domain.ReportFilter

	if status := c.Query("status"); status != "" {
		if !domain.ValidStatus(domain.ReportStatus(status)) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status " + strconv.Quote(status)})
			return
		}
		filter.Status = domain.ReportStatus(status)
	}
	// Analysts work off confirmed hazards only.
	if c.Query("role") == "analyst" {
		filter.Status = domain.StatusVerified
	}

	reports, err := s.store.ListReports(c.Request.Context(), filter)
	if err != nil {
		s.logger.Error("list reports failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list reports"})
		return
	}
	c.JSON(http.StatusOK, reports)
}

func (s *Server) handleGetReport(c *gin.Context) {
	report, err := s.store.GetReport(c.Request.Context(), c.Param("id"))
	if errors.Is(err, domain.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "report not found"})
		return
	}
	if err != nil {
		s.logger.Error("get report failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get report"})
		return
	}
	c.JSON(http.StatusOK, report)
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (s *Server) handleUpdateStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	status := domain.ReportStatus(req.Status)
	if !domain.ValidStatus(status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status " + strconv.Quote(req.Status)})
		return
	}

	report, err := s.store.UpdateStatus(c.Request.Context(), c.Param("id"), status)
	if errors.Is(err, domain.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "report not found"})
		return
	}
	if err != nil {
		s.logger.Error("update status failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update status"})
		return
	}

	s.logger.Info("report status updated manually", "report_id", report.ID, "status", status)
	c.JSON(http.StatusOK, report)
}

func (s *Server) handleHotspots(c *gin.Context) {
	verified, err := s.store.ListReports(c.Request.Context(), domain.ReportFilter{Status: domain.StatusVerified})
	if err != nil {
		s.logger.Error("list verified reports failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute hotspots"})
		return
	}
	c.JSON(http.StatusOK, domain.ComputeHotspots(verified, s.hotspotPrecision))
}

type ingestSocialRequest struct {
	Source      string     `json:"source" binding:"required"`
	Title       string     `json:"title" binding:"required"`
	Snippet     string     `json:"snippet"`
	URL         string     `json:"url" binding:"required"`
	PublishedAt *time.Time `json:"publishedAt"`
}

func (s *Server) handleIngestSocial(c *gin.Context) {
	var req ingestSocialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, inserted, err := s.ingester.IngestItem(c.Request.Context(), domain.SocialSource(req.Source), social.RawPost{
		Title:       req.Title,
		Snippet:     req.Snippet,
		URL:         req.URL,
		PublishedAt: req.PublishedAt,
	})
	if errors.Is(err, domain.ErrInvalidInput) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		s.logger.Error("ingest social item failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to ingest item"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"item": item, "duplicate": !inserted})
}

func (s *Server) handleListSocial(c *gin.Context) {
	limit := defaultFeedLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = min(n, maxFeedLimit)
	}

	items, err := s.socialStore.ListSocialItems(c.Request.Context(), limit)
	if err != nil {
		s.logger.Error("list social items failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list items"})
		return
	}
	c.JSON(http.StatusOK, items)
}

func (s *Server) handleScrape(c *gin.Context) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), scrapeTimeout)
		defer cancel()
		if _, err := s.ingester.Run(ctx); err != nil {
			s.logger.Error("social scrape run failed", "error", err)
		}
	}()
	c.JSON(http.StatusAccepted, gin.H{"status": "scrape started"})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (s *Server) handleReady(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := s.store.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
