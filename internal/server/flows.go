package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kode4food/arran/internal/engine"
	"github.com/kode4food/arran/pkg/api"
)

func (s *Server) createFlow(c *gin.Context) {
	var req api.CreateFlowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{
			Error:  fmt.Sprintf("%s: %v", ErrInvalidJSON, err),
			Status: http.StatusBadRequest,
		})
		return
	}

	sess, err := s.engine.CreateFlow(c.Request.Context(), &req)
	if err == nil {
		c.JSON(http.StatusCreated, api.FlowCreatedResponse{
			FlowID: sess.ID(),
			View:   sess.View(),
		})
		return
	}

	if errors.Is(err, engine.ErrFlowExists) {
		c.JSON(http.StatusConflict, api.ErrorResponse{
			Error:  fmt.Sprintf("%s: %s", err.Error(), req.ID),
			Status: http.StatusConflict,
		})
		return
	}
	c.JSON(http.StatusBadRequest, api.ErrorResponse{
		Error:  err.Error(),
		Status: http.StatusBadRequest,
	})
}

func (s *Server) listFlows(c *gin.Context) {
	flows := s.engine.ListFlows()
	c.JSON(http.StatusOK, api.FlowsListResponse{
		Flows: flows,
		Count: len(flows),
	})
}

func (s *Server) getFlow(c *gin.Context) {
	sess, ok := s.flowFor(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, sess.View())
}

func (s *Server) deleteFlow(c *gin.Context) {
	flowID := api.FlowID(c.Param("flowID"))

	err := s.engine.RemoveFlow(c.Request.Context(), flowID)
	if err == nil {
		c.Status(http.StatusNoContent)
		return
	}

	c.JSON(http.StatusNotFound, api.ErrorResponse{
		Error:  fmt.Sprintf("%s: %s", err.Error(), flowID),
		Status: http.StatusNotFound,
	})
}

func (s *Server) flowFor(c *gin.Context) (*engine.Session, bool) {
	flowID := api.FlowID(c.Param("flowID"))
	sess, err := s.engine.GetFlow(flowID)
	if err != nil {
		c.JSON(http.StatusNotFound, api.ErrorResponse{
			Error:  fmt.Sprintf("%s: %s", err.Error(), flowID),
			Status: http.StatusNotFound,
		})
		return nil, false
	}
	return sess, true
}
