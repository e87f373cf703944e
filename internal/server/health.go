package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kode4food/arran"
	"github.com/kode4food/arran/pkg/api"
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, api.HealthResponse{
		Service: arran.Name,
		Version: arran.Version,
		Status:  "healthy",
	})
}
