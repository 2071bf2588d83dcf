// Package handlers binds HTTP requests to the detection pipeline.
package handlers

import (
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"audioshield/internal/config"
	"audioshield/internal/services"
	"audioshield/internal/types"
)

// DetectionHandler serves POST /api/voice-detection.
type DetectionHandler struct {
	cfg     *config.Config
	service *services.DetectionService
}

// NewDetectionHandler creates the handler.
func NewDetectionHandler(cfg *config.Config, service *services.DetectionService) *DetectionHandler {
	return &DetectionHandler{cfg: cfg, service: service}
}

// HandleDetection validates the request, runs the pipeline and shapes the
// response. Validation failures short-circuit before any model is touched.
func (h *DetectionHandler) HandleDetection(c *gin.Context) {
	var req types.DetectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse("language, audioFormat and audioBase64 are required"))
		return
	}

	if !h.cfg.SupportsLanguage(req.Language) {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(fmt.Sprintf("unsupported language %q", req.Language)))
		return
	}

	data, err := base64.StdEncoding.DecodeString(req.AudioBase64)
	if err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse("Invalid Base64 encoding."))
		return
	}
	if len(data) == 0 {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse("Empty audio data."))
		return
	}
	if len(data) > h.cfg.Detection.MaxAudioBytes {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse("audio payload too large"))
		return
	}

	log.Printf("processing request for language: %s", req.Language)
	verdict, err := h.service.Analyze(c.Request.Context(), data, req.AudioFormat)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.DetectionResponse{
		Status:          "success",
		Language:        req.Language,
		Classification:  verdict.Classification,
		ConfidenceScore: verdict.ConfidenceScore,
		Explanation:     verdict.Explanation,
	})
}

// writeError maps pipeline errors to status codes. Internal detail never
// reaches the caller on unexpected failures.
func (h *DetectionHandler) writeError(c *gin.Context, err error) {
	log.Printf("detection failed: %v", err)

	switch {
	case errors.Is(err, types.ErrUnsupportedFormat):
		c.JSON(http.StatusBadRequest, types.NewErrorResponse("unsupported audio format, expected mp3 or wav"))
	case errors.Is(err, types.ErrDecode), errors.Is(err, types.ErrEmptyAudio):
		c.JSON(http.StatusBadRequest, types.NewErrorResponse("could not decode audio in the declared format"))
	case errors.Is(err, types.ErrInference):
		c.JSON(http.StatusBadGateway, types.NewErrorResponse("model inference failed, please retry"))
	default:
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse("Internal server error processing audio."))
	}
}
