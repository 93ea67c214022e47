package api

import (
	"fmt"
	"net/http"

	"partyplan/internal/app"
	"partyplan/internal/handlers"
	"partyplan/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server представляет HTTP сервер функции напоминаний
type Server struct {
	router *gin.Engine
	app    *app.App
}

// NewServer создает новый экземпляр сервера
func NewServer(a *app.App) *Server {
	gin.SetMode(a.Config.GinMode)

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.CORS())

	server := &Server{
		router: router,
		app:    a,
	}

	server.setupRoutes()

	return server
}

// setupRoutes настраивает роуты
func (s *Server) setupRoutes() {
	h := handlers.NewHandlers(s.app.Job)

	s.router.Any("/functions/payment-reminders", h.PaymentReminders)

	s.router.GET("/health", s.healthCheck)
	s.router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.app.Registry, promhttp.HandlerOpts{})))
}

// healthCheck обрабатывает health check запросы
func (s *Server) healthCheck(c *gin.Context) {
	if s.app.DB == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "unconfigured",
			"service": "payment-reminders",
		})
		return
	}

	health := s.app.DB.HealthCheck(c.Request.Context())
	status := http.StatusOK
	if health.Status != "healthy" {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, gin.H{
		"status":   health.Status,
		"service":  "payment-reminders",
		"database": health,
	})
}

// Run запускает HTTP сервер
func (s *Server) Run() error {
	addr := fmt.Sprintf(":%s", s.app.Config.Port)
	return s.router.Run(addr)
}

// GetRouter возвращает роутер для тестирования
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}
