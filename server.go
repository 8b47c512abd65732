package pagerduty

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Server accepts alert events over HTTP and exposes the callback's
// introspection hooks. Events are queued for the Processor; delivery
// happens asynchronously.
type Server struct {
	callbacks *Holder
	drain     chan<- *AlertEvent

	log *logrus.Entry
}

func NewServer(callbacks *Holder, drain chan<- *AlertEvent) *Server {
	return &Server{
		callbacks: callbacks,
		drain:     drain,
		log:       logrus.WithField("system", "server"),
	}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	router := gin.New()
	router.Use(gin.Recovery(), s.logRequests)

	router.GET("/healthz", s.healthz)
	router.GET("/api/callback", s.describeCallback)
	router.POST("/api/alerts", s.enqueueAlert)
	return router
}

func (s *Server) logRequests(c *gin.Context) {
	start := time.Now()
	c.Next()
	s.log.WithFields(logrus.Fields{
		"method":  c.Request.Method,
		"path":    c.FullPath(),
		"status":  c.Writer.Status(),
		"latency": time.Since(start),
	}).Debug("request")
}

func (s *Server) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) describeCallback(c *gin.Context) {
	cb := s.callbacks.Load()
	if cb == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no callback configured"})
		return
	}

	resp := gin.H{
		"name":                    cb.Name(),
		"attributes":              cb.Attributes(),
		"requested_configuration": cb.RequestedConfiguration(),
		"valid":                   true,
	}
	if err := cb.CheckConfiguration(); err != nil {
		resp["valid"] = false
		resp["error"] = err.Error()
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) enqueueAlert(c *gin.Context) {
	var event AlertEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		s.log.WithField("err", err).Warn("failed to parse alert")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	if event.Stream.ID == "" || event.Result.ConditionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "stream.id and check_result.condition_id are required"})
		return
	}
	if s.callbacks.Load() == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no callback configured"})
		return
	}

	select {
	case s.drain <- &event:
		c.JSON(http.StatusAccepted, gin.H{"status": "queued"})
	default:
		s.log.WithField("stream.id", event.Stream.ID).Warn("alert queue full")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "alert queue full"})
	}
}
