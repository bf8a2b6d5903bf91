package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"menlo.ai/chat-relay/app/domain/healthcheck"
	"menlo.ai/chat-relay/app/interfaces/http/middleware"
	v1 "menlo.ai/chat-relay/app/interfaces/http/routes/v1"
	"menlo.ai/chat-relay/app/utils/logger"
	"menlo.ai/chat-relay/app/utils/observability"
	"menlo.ai/chat-relay/config/environment_variables"
)

type HttpServer struct {
	engine             *gin.Engine
	v1Route            *v1.V1Route
	healthcheckService *healthcheck.HealthcheckService
}

func NewHttpServer(v1Route *v1.V1Route, healthcheckService *healthcheck.HealthcheckService) *HttpServer {
	gin.SetMode(gin.ReleaseMode)
	server := HttpServer{
		engine:             gin.New(),
		v1Route:            v1Route,
		healthcheckService: healthcheckService,
	}
	server.engine.Use(gin.Recovery())
	server.engine.Use(middleware.LoggerMiddleware(logger.GetLogger()))
	server.engine.Use(middleware.CORS())
	server.engine.GET("/health-check", server.healthCheck)
	server.engine.GET("/metrics", gin.WrapH(observability.MetricsHandler()))
	server.v1Route.RegisterRouter(server.engine.Group("/"))
	return &server
}

func (httpServer *HttpServer) healthCheck(c *gin.Context) {
	report := httpServer.healthcheckService.Check(c.Request.Context())
	status := http.StatusOK
	if report.Status != healthcheck.StatusOK {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, report)
}

func (httpServer *HttpServer) Handler() http.Handler {
	return httpServer.engine
}

func (httpServer *HttpServer) Run() error {
	port := environment_variables.EnvironmentVariables.HTTP_PORT
	if port == "" {
		port = "8080"
	}
	if err := httpServer.engine.Run(fmt.Sprintf(":%s", port)); err != nil {
		return err
	}
	return nil
}
