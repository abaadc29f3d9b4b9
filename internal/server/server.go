package server

import (
	"context"
	"embed"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/agenthands/askform/internal/askapi"
	"github.com/agenthands/askform/internal/config"
	"github.com/agenthands/askform/internal/controller"
	"github.com/agenthands/askform/internal/logging"
	"github.com/agenthands/askform/internal/view"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

const pageTemplate = "index.html.tmpl"

// Backend is what the server needs from the agent API.
type Backend interface {
	controller.Asker
	Health(ctx context.Context) (*askapi.Health, error)
}

type Server struct {
	Config *config.Config
	Logger *zap.Logger

	// BaseURL is the agent backend every submission goes to. It is fixed at
	// construction and never taken from request headers.
	BaseURL string

	// NewBackend builds the client for BaseURL.
	NewBackend func(baseURL string) Backend

	backend Backend
}

// NewServer fails when the config names neither an API base URL nor a
// public URL to fall back on.
func NewServer(cfg *config.Config, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	baseURL, err := cfg.APIBaseURL()
	if err != nil {
		return nil, err
	}

	s := &Server{
		Config:  cfg,
		Logger:  logger,
		BaseURL: baseURL,
		NewBackend: func(baseURL string) Backend {
			return askapi.NewClient(baseURL, askapi.WithTimeout(cfg.API.Timeout.Duration))
		},
	}
	return s, nil
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), AccessLog(s.Logger), Recovery(s.Logger))
	r.SetHTMLTemplate(template.Must(template.ParseFS(templatesFS, "templates/*.tmpl")))

	s.backend = s.NewBackend(s.BaseURL)

	r.GET("/", s.Index)
	r.POST("/", s.Submit)
	r.POST("/api/submit", s.SubmitJSON)
	r.GET("/healthz", s.Healthz)
	r.GET("/readyz", s.Readyz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

// page is the data behind the HTML template; it doubles as the
// controller's Surface for a form post.
type page struct {
	Query        string
	State        view.State
	LoadingLabel string
}

func (p *page) Apply(s view.State) {
	p.State = s
}

func newPage(query string) *page {
	return &page{
		Query:        query,
		State:        view.Initial(),
		LoadingLabel: view.LoadingLabel,
	}
}

func (s *Server) Index(c *gin.Context) {
	c.HTML(http.StatusOK, pageTemplate, newPage(""))
}

// Submit runs one controller cycle for a form post and renders the page.
// Failures are shown in the error banner, so the status is always 200.
func (s *Server) Submit(c *gin.Context) {
	p := newPage(c.PostForm("query"))

	ctrl := controller.New(s.backend, p, s.requestLogger(c))
	ctrl.HandleSubmit(c.Request.Context(), p.Query)

	c.HTML(http.StatusOK, pageTemplate, p)
}

type SubmitRequest struct {
	Query          string `json:"query"`
	TopK           *int   `json:"top_k"`
	TopN           *int   `json:"top_n"`
	RequestedYears []int  `json:"requested_years"`
}

// SubmitJSON runs the same cycle as Submit and returns the view state.
func (s *Server) SubmitJSON(c *gin.Context) {
	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	ctrl := controller.New(s.backend, nil, s.requestLogger(c))
	state := ctrl.HandleRequest(c.Request.Context(), askapi.Request{
		Query:          req.Query,
		TopK:           req.TopK,
		TopN:           req.TopN,
		RequestedYears: req.RequestedYears,
	})

	c.JSON(http.StatusOK, state)
}

func (s *Server) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readyz reports whether the agent backend says it is healthy.
func (s *Server) Readyz(c *gin.Context) {
	h, err := s.backend.Health(c.Request.Context())
	if err != nil {
		s.requestLogger(c).Warn("backend health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "message": err.Error()})
		return
	}
	if !h.OK() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": h.Status, "mcp_ready": h.MCPReady, "message": h.Message})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": h.Status, "mcp_ready": h.MCPReady, "message": h.Message})
}

func (s *Server) requestLogger(c *gin.Context) *zap.Logger {
	return logging.ForRequest(c.Request.Context(), s.Logger)
}
