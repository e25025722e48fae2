// Package server exposes the duration predictor as an HTML form and a
// small JSON API.
package server

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/YuminosukeSato/biketrip/pkg/errors"
	"github.com/YuminosukeSato/biketrip/pkg/log"
	"github.com/YuminosukeSato/biketrip/trip"
	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Predictor is the inference surface the handlers use.
type Predictor interface {
	Predict(f trip.Features) (int, error)
	PredictValues(values []float64) (int, error)
	Raw(f trip.Features) (float64, error)
}

// Options configures New.
type Options struct {
	// Env is reported by /health.
	Env string
	// Debug enables gin debug mode.
	Debug bool
}

type Server struct {
	engine    *gin.Engine
	predictor Predictor
	logger    log.Logger
	env       string
}

func New(p Predictor, logger log.Logger, opts Options) *Server {
	if logger == nil {
		logger = log.Nop()
	}
	if opts.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		engine:    gin.New(),
		predictor: p,
		logger:    logger.With(log.ComponentKey, "server"),
		env:       opts.Env,
	}

	s.engine.SetHTMLTemplate(template.Must(template.ParseFS(templatesFS, "templates/*.html")))
	s.engine.Use(gin.Recovery(), RequestID(), AccessLog(s.logger))
	s.routes()
	return s
}

func (s *Server) routes() {
	s.engine.GET("/health", s.health)
	s.engine.GET("/", s.showForm)
	s.engine.POST("/", s.submitForm)

	api := s.engine.Group("/api/v1")
	{
		api.POST("/predict", s.predict)
		api.POST("/predict/vector", s.predictVector)
		api.GET("/features", s.features)
		api.GET("/sweep.png", s.sweep)
	}
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "UP", "env": s.env})
}

// errorStatus maps a prediction failure onto an HTTP status and error code.
func errorStatus(err error) (int, string) {
	var (
		valErr *errors.ValueError
		numErr *errors.NumericalInstabilityError
	)
	switch {
	case errors.Is(err, errors.ErrShapeMismatch):
		return http.StatusBadRequest, log.ErrorShapeMismatch
	case errors.As(err, &valErr):
		return http.StatusBadRequest, log.ErrorInvalidInput
	case errors.As(err, &numErr):
		return http.StatusUnprocessableEntity, log.ErrorNumerical
	default:
		return http.StatusInternalServerError, log.ErrorInternal
	}
}

// fail logs err and aborts with a JSON error body.
func (s *Server) fail(c *gin.Context, err error) {
	status, code := errorStatus(err)
	logger := s.logger
	if id, ok := c.Get(requestIDKey); ok {
		logger = logger.With(log.RequestIDKey, id)
	}
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", log.ErrAttrKey, err, log.ErrorCodeKey, code)
	} else {
		logger.Warn("request rejected", log.ErrAttrKey, err, log.ErrorCodeKey, code)
	}
	message := err.Error()
	if status >= http.StatusInternalServerError {
		message = "internal error"
	}
	c.AbortWithStatusJSON(status, gin.H{"error": message, "code": code})
}
