package server

import (
	"fmt"
	"io"
	"net/http"

	"github.com/chainview/chainview/engine/normalizer"
	"github.com/chainview/chainview/pkg/version"
	"github.com/gin-gonic/gin"
	"github.com/tidwall/gjson"
)

// APIPrefix is the versioned route group.
const APIPrefix = "/api/v0"

func (s *Server) registerRoutes(r *gin.Engine) {
	api := r.Group(APIPrefix)
	api.GET("/health", s.handleHealth)
	limited := api.Group("", BodySizeLimiter(s.config.Server.MaxBodyBytes))
	limited.POST("/normalize", s.handleNormalize)
	limited.POST("/normalize/batch", s.handleBatch)
	if s.monitoring != nil && s.monitoring.IsInitialized() {
		r.GET(s.monitoring.Path(), gin.WrapH(s.monitoring.ExporterHandler()))
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"status":  "ok",
			"version": version.Get(),
		},
		"message": "Success",
	})
}

func (s *Server) handleNormalize(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		RespondError(c, err)
		return
	}
	out, err := s.service.Normalize(c.Request.Context(), body)
	if err != nil {
		RespondError(c, err)
		return
	}
	respondData(c, out)
}

// handleBatch accepts {"items":[envelope,...]}.
func (s *Server) handleBatch(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		RespondError(c, err)
		return
	}
	if !gjson.ValidBytes(body) {
		RespondProblem(c, newProblem(http.StatusBadRequest, CodeInvalidRequest, "request body is not valid JSON"))
		return
	}
	items := gjson.GetBytes(body, "items")
	if !items.IsArray() {
		RespondProblem(c, newProblem(http.StatusBadRequest, CodeInvalidRequest, `"items" must be an array`))
		return
	}
	var docs [][]byte
	items.ForEach(func(_, item gjson.Result) bool {
		docs = append(docs, []byte(item.Raw))
		return true
	})
	out, err := s.service.Batch(c.Request.Context(), docs)
	if err != nil {
		RespondError(c, err)
		return
	}
	respondData(c, out)
}

// respondData writes {"data": out} keeping object member order.
func respondData(c *gin.Context, out any) {
	payload, err := normalizer.Marshal(normalizer.ObjectOf("data", out))
	if err != nil {
		RespondError(c, fmt.Errorf("failed to encode response: %w", err))
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", payload)
}
