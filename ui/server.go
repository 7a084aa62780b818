// Package ui serves the dashboard: one page derived entirely from the
// session's table plus two iframe endpoints for the rendered charts.
package ui

import (
	"embed"
	"fmt"
	"html/template"

	"growthlens/adapters/postgres"
	"growthlens/internal"
	"growthlens/internal/config"
	"growthlens/internal/session"
	"growthlens/internal/storage"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*
var embeddedFiles embed.FS

const sessionCookie = "growthlens_session"

// Server is the dashboard web server.
type Server struct {
	router   *gin.Engine
	cfg      *config.Config
	logger   *internal.Logger
	sessions *session.Store
	uploads  *storage.LocalFileStorage
	history  *postgres.UploadRepository // nil when no database is configured

	templates *template.Template
	introHTML template.HTML
}

// NewServer wires the dashboard. history may be nil.
func NewServer(cfg *config.Config, logger *internal.Logger, history *postgres.UploadRepository) (*Server, error) {
	gin.SetMode(cfg.Server.GinMode)

	funcMap := template.FuncMap{
		"fmtFloat": func(v float64) string {
			return fmt.Sprintf("%.4g", v)
		},
	}
	templates, err := template.New("").Funcs(funcMap).ParseFS(embeddedFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	s := &Server{
		router:    gin.Default(),
		cfg:       cfg,
		logger:    logger,
		sessions:  session.NewStore(),
		uploads:   storage.NewLocalFileStorage(cfg.Data.UploadDir),
		history:   history,
		templates: templates,
		introHTML: renderIntroCard(),
	}
	s.router.SetHTMLTemplate(templates)
	s.router.MaxMultipartMemory = cfg.Data.MaxUploadBytes
	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleIndex)
	s.router.POST("/upload", s.handleUpload)
	s.router.POST("/clean/:op", s.handleClean)
	s.router.GET("/chart", s.handleChart)
	s.router.GET("/correlation", s.handleCorrelation)
	s.router.GET("/export", s.handleExport)
}

// session resolves the request's session from the cookie, minting one
// and setting the cookie when absent.
func (s *Server) session(c *gin.Context) *session.Session {
	id, _ := c.Cookie(sessionCookie)
	sess := s.sessions.GetOrCreate(id)
	if sess.ID != id {
		c.SetCookie(sessionCookie, sess.ID, 0, "/", "", false, true)
	}
	return sess
}

// Router exposes the gin engine, mainly for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Start serves the dashboard and blocks.
func (s *Server) Start() error {
	addr := ":" + s.cfg.Server.Port
	s.logger.Info("Starting dashboard on %s", addr)
	return s.router.Run(addr)
}
