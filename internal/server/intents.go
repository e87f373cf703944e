package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kode4food/arran/pkg/api"
)

// handleIntent dispatches a navigation or lifecycle intent to a session.
// A policy denial is domain data, not a transport failure: the response is
// 200 with Allowed=false and the denial reason
func (s *Server) handleIntent(c *gin.Context) {
	sess, ok := s.flowFor(c)
	if !ok {
		return
	}

	var req api.IntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{
			Error:  fmt.Sprintf("%s: %v", ErrInvalidJSON, err),
			Status: http.StatusBadRequest,
		})
		return
	}

	ctx := c.Request.Context()
	var out api.Outcome
	switch req.Type {
	case api.IntentNext:
		out = sess.Next(ctx)
	case api.IntentBack:
		out = sess.Back(ctx)
	case api.IntentSkip:
		out = sess.Skip(ctx)
	case api.IntentJump:
		out = sess.JumpTo(ctx, req.Target)
	case api.IntentSubmit:
		out = sess.Submit(ctx)
	case api.IntentReset:
		out = sess.Reset(ctx)
	case api.IntentConfirmReset:
		out = sess.ConfirmReset(ctx)
	default:
		c.JSON(http.StatusBadRequest, api.ErrorResponse{
			Error:  fmt.Sprintf("unknown intent type: %s", req.Type),
			Status: http.StatusBadRequest,
		})
		return
	}

	c.JSON(http.StatusOK, api.IntentResponse{
		Outcome: out,
		View:    sess.View(),
	})
}

func (s *Server) updateFields(c *gin.Context) {
	sess, ok := s.flowFor(c)
	if !ok {
		return
	}

	var req api.FieldsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{
			Error:  fmt.Sprintf("%s: %v", ErrInvalidJSON, err),
			Status: http.StatusBadRequest,
		})
		return
	}

	res := sess.SetFields(req.Values)
	c.JSON(http.StatusOK, api.FieldsResponse{
		Result: res,
		View:   sess.View(),
	})
}
