package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edupay/payflow-backend/internal/config"
	"github.com/edupay/payflow-backend/internal/transport/http/middleware"
	"github.com/edupay/payflow-backend/internal/upstream"
)

// requestID pulls the ID the middleware stored so log lines can be
// matched to the X-Request-ID the client saw.
func requestID(c *gin.Context) string {
	return c.GetString("request_id")
}

// NewRouter wires the middleware chain and every edge entry point.
func NewRouter(cfg *config.Config, client *upstream.Client) *gin.Engine {
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(gin.Logger())
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.CORSMiddleware())

	authHandler := NewAuthHandler(cfg, client)
	proxyHandler := NewProxyHandler(cfg, client)
	paymentHandler := NewPaymentHandler(cfg, client)
	studentHandler := NewStudentHandler(cfg, client)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.POST("/api/login", authHandler.Login)
	router.POST("/api/register", authHandler.Register)
	// Logout accepts GET as well so a plain link can end the session.
	router.POST("/api/logout", authHandler.Logout)
	router.GET("/api/logout", authHandler.Logout)
	router.GET("/api/session", authHandler.Session)

	router.Any("/api/proxy/*path", proxyHandler.Relay)

	router.POST("/api/payments/process", paymentHandler.Process)
	router.POST("/api/students/create", studentHandler.Create)

	return router
}
