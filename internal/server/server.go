// Package server exposes job status and manual triggers over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"budget-reconciler/internal/domain"
	"budget-reconciler/internal/jobs"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Runner is the part of jobs.Runner the server uses.
type Runner interface {
	Run(ctx context.Context, name string) ([]*domain.RunReport, error)
	Running() string
	Statuses() []jobs.Status
}

type Service struct {
	runner  Runner
	log     logrus.FieldLogger
	started time.Time
}

func NewService(runner Runner, log logrus.FieldLogger) *Service {
	return &Service{runner: runner, log: log, started: time.Now()}
}

// Router builds the gin engine with all routes.
func (s *Service) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), s.logRequests)

	r.GET("/healthz", s.HandleHealthz)
	r.GET("/status", s.HandleStatus)
	r.POST("/jobs/:name", s.HandleTrigger)
	return r
}

func (s *Service) logRequests(c *gin.Context) {
	start := time.Now()
	c.Next()
	s.log.WithFields(logrus.Fields{
		"method":  c.Request.Method,
		"path":    c.FullPath(),
		"status":  c.Writer.Status(),
		"elapsed": time.Since(start).Round(time.Millisecond),
	}).Debug("request")
}

func (s *Service) HandleHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Service) HandleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"uptime":  time.Since(s.started).Round(time.Second).String(),
		"running": s.runner.Running(),
		"jobs":    s.runner.Statuses(),
	})
}

// HandleTrigger runs a job and answers once it finishes. The job keeps
// running if the client goes away.
func (s *Service) HandleTrigger(c *gin.Context) {
	name := c.Param("name")
	reports, err := s.runner.Run(context.WithoutCancel(c.Request.Context()), name)
	switch {
	case errors.Is(err, jobs.ErrUnknownJob):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, jobs.ErrRunInProgress):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "running": s.runner.Running()})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "reports": reports})
	default:
		c.JSON(http.StatusOK, gin.H{"reports": reports})
	}
}

// Serve listens on addr until ctx is cancelled.
func (s *Service) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Router(), ReadHeaderTimeout: 10 * time.Second}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdown)
	}
}
