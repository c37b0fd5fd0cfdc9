// Package server exposes the matching pipeline over HTTP.
package server

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/matchforge/vendormatch/internal/apperr"
	"github.com/matchforge/vendormatch/internal/config"
	"github.com/matchforge/vendormatch/internal/core"
	"github.com/matchforge/vendormatch/internal/core/model"
	"github.com/matchforge/vendormatch/internal/extract"
)

type Server struct {
	matcher *core.Matcher
	cfg     *config.Config
	log     *zap.Logger
}

func New(matcher *core.Matcher, cfg *config.Config, log *zap.Logger) *Server {
	return &Server{matcher: matcher, cfg: cfg, log: log}
}

func (s *Server) SetupRouter() *gin.Engine {
	if !s.cfg.Server.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())
	r.MaxMultipartMemory = s.cfg.Limits.MaxFileSize

	r.GET("/api/health", s.Health)
	r.GET("/api/dashboard", s.DashboardStats)
	r.POST("/api/clear_cache", s.ClearCache)

	r.POST("/api/vendor_submission", s.SubmitVendor)
	r.GET("/api/vendors", s.ListVendors)
	r.GET("/api/vendors/:name", s.GetVendor)
	r.DELETE("/api/vendors/:name", s.DeleteVendor)

	r.POST("/api/ps_submission", s.SubmitProblem)
	r.GET("/api/problem_statements", s.ListProblems)
	r.GET("/api/problem_statements/:ps_id", s.GetProblem)
	r.DELETE("/api/problem_statements/:ps_id", s.DeleteProblem)

	r.POST("/api/vendor_matching", s.MatchVendors)
	r.GET("/api/download_results/:ps_id", s.DownloadResults)
	r.POST("/api/web_search_vendors", s.WebSearchVendors)

	return r
}

// requestLogger tags each request with an ID and logs its outcome.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.NewString()
		c.Set("request_id", requestID)

		start := time.Now()
		c.Next()

		s.log.Info("request",
			zap.String("request_id", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)))
	}
}

// fail maps the error taxonomy onto HTTP statuses. Unclassified errors are
// logged with full detail but reported generically.
func (s *Server) fail(c *gin.Context, err error) {
	switch apperr.KindOf(err) {
	case apperr.Validation:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case apperr.NotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		s.log.Error("request failed",
			zap.String("request_id", c.GetString("request_id")), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func (s *Server) Health(c *gin.Context) {
	status := "healthy"
	dbStatus := "connected"
	if err := s.matcher.Ping(c.Request.Context()); err != nil {
		status = "degraded"
		dbStatus = "disconnected"
	}
	c.JSON(http.StatusOK, gin.H{
		"status":    status,
		"database":  dbStatus,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) DashboardStats(c *gin.Context) {
	stats, err := s.matcher.Dashboard(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (s *Server) ClearCache(c *gin.Context) {
	if err := s.matcher.ClearCache(c.Request.Context()); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cache cleared successfully"})
}

func (s *Server) SubmitVendor(c *gin.Context) {
	name := strings.TrimSpace(c.PostForm("vendor_name"))

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	if fileHeader.Size > s.cfg.Limits.MaxFileSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file too large"})
		return
	}

	extension := strings.TrimPrefix(strings.ToLower(filepath.Ext(fileHeader.Filename)), ".")
	if !extract.AllowedExtensions[extension] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported file type (allowed: pdf, pptx, ppt, docx)"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		s.fail(c, err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.fail(c, err)
		return
	}

	provider, err := s.matcher.OnboardVendor(c.Request.Context(), c.PostForm("llm_provider"), name, data, extension)
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      fmt.Sprintf("Vendor '%s' processed successfully", name),
		"vendor_name":  name,
		"llm_provider": provider,
	})
}

func (s *Server) ListVendors(c *gin.Context) {
	vendors, provider, err := s.matcher.ListVendors(c.Request.Context(), c.Query("llm_provider"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"vendors":      vendors,
		"total":        len(vendors),
		"llm_provider": provider,
	})
}

func (s *Server) GetVendor(c *gin.Context) {
	details, err := s.matcher.VendorDetails(c.Request.Context(), c.Query("llm_provider"), c.Param("name"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

func (s *Server) DeleteVendor(c *gin.Context) {
	name := c.Param("name")
	report, err := s.matcher.DeleteVendor(c.Request.Context(), name)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Vendor '%s' deleted", name),
		"report":  report,
	})
}

type problemRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Outcomes    string `json:"outcomes"`
	Provider    string `json:"llm_provider"`
}

func (s *Server) SubmitProblem(c *gin.Context) {
	var req problemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	problem, provider, err := s.matcher.OnboardProblem(c.Request.Context(), req.Provider, req.Title, req.Description, req.Outcomes)
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Problem statement processed successfully",
		"ps_id":        problem.ID,
		"llm_provider": provider,
	})
}

func (s *Server) ListProblems(c *gin.Context) {
	problems, provider, err := s.matcher.ListProblems(c.Request.Context(), c.Query("llm_provider"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"problem_statements": problems,
		"total":              len(problems),
		"llm_provider":       provider,
	})
}

func (s *Server) GetProblem(c *gin.Context) {
	details, err := s.matcher.ProblemDetails(c.Request.Context(), c.Query("llm_provider"), c.Param("ps_id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

func (s *Server) DeleteProblem(c *gin.Context) {
	id := c.Param("ps_id")
	report, err := s.matcher.DeleteProblem(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Problem statement '%s' deleted", id),
		"report":  report,
	})
}

type matchRequest struct {
	ProblemID string            `json:"ps_id"`
	Provider  string            `json:"llm_provider"`
	TopK      *int              `json:"top_k"`
	BatchSize *int              `json:"batch_size"`
	Criteria  []model.Criterion `json:"criteria"`
}

func (s *Server) MatchVendors(c *gin.Context) {
	var req matchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.ProblemID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ps_id is required"})
		return
	}

	topK := 20
	if req.TopK != nil {
		topK = *req.TopK
	}
	batchSize := 5
	if req.BatchSize != nil {
		batchSize = *req.BatchSize
	}

	result, err := s.matcher.Match(c.Request.Context(), core.MatchRequest{
		Provider:  req.Provider,
		ProblemID: req.ProblemID,
		TopK:      topK,
		BatchSize: batchSize,
		Criteria:  req.Criteria,
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) DownloadResults(c *gin.Context) {
	id := c.Param("ps_id")
	payload, err := s.matcher.ExportResults(c.Request.Context(), c.Query("llm_provider"), id)
	if err != nil {
		s.fail(c, err)
		return
	}

	filename := fmt.Sprintf("matching_results_%s.json", id)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/json", payload)
}

type webSearchRequest struct {
	ProblemID        string                  `json:"ps_id"`
	Provider         string                  `json:"llm_provider"`
	Count            *int                    `json:"count"`
	EvaluationParams []model.EvaluationParam `json:"evaluation_params"`
}

func (s *Server) WebSearchVendors(c *gin.Context) {
	var req webSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.ProblemID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ps_id is required"})
		return
	}

	count := 5
	if req.Count != nil {
		count = *req.Count
	}

	result, err := s.matcher.WebDiscover(c.Request.Context(), core.WebSearchRequest{
		Provider:         req.Provider,
		ProblemID:        req.ProblemID,
		Count:            count,
		EvaluationParams: req.EvaluationParams,
	})
	if err != nil {
		s.fail(c, err)
		return
	}

	if !result.Outcome.Successful {
		c.JSON(http.StatusOK, gin.H{
			"problem_statement_id": result.ProblemID,
			"llm_provider":         result.Provider,
			"search_successful":    false,
			"error":                result.Outcome.Error,
			"vendors":              []model.Evaluation{},
			"total_found":          0,
		})
		return
	}

	// Search ran but nothing parseable came back; surface a raw preview so
	// the caller can see what the tool returned.
	if len(result.Vendors) == 0 {
		preview := result.Outcome.RawResults
		if len(preview) > 500 {
			preview = preview[:500]
		}
		c.JSON(http.StatusOK, gin.H{
			"problem_statement_id":   result.ProblemID,
			"llm_provider":           result.Provider,
			"search_successful":      true,
			"message":                "No vendors found in web search",
			"total_found":            0,
			"vendors":                []model.Evaluation{},
			"sources_count":          result.SourcesCount,
			"top_score":              0,
			"search_results_preview": preview,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"problem_statement_id": result.ProblemID,
		"llm_provider":         result.Provider,
		"search_successful":    true,
		"vendors":              result.Vendors,
		"total_found":          result.TotalFound,
		"sources_count":        result.SourcesCount,
		"top_score":            result.TopScore,
		"evaluation_params":    result.EvaluationParams,
	})
}
