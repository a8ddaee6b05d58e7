package controllers

import (
	"log/slog"
	"net/http"

	"slice-url/internal/service"

	"github.com/gin-gonic/gin"
)

type QRCodeController struct {
	linkService service.LinkService
	logger      *slog.Logger
}

func NewQRCodeController(linkService service.LinkService, logger *slog.Logger) *QRCodeController {
	return &QRCodeController{
		linkService: linkService,
		logger:      logger,
	}
}

// GenerateQRCode handles GET /links/:shortId/qrcode - renders the short URL of an owned link
func (qc *QRCodeController) GenerateQRCode(c *gin.Context) {
	userID, ok := callerID(c, qc.logger)
	if !ok {
		return
	}

	pngData, err := qc.linkService.QRCode(c.Request.Context(), c.Param("shortId"), userID)
	if err != nil {
		respondError(c, qc.logger, err)
		return
	}

	// Set headers and return image
	c.Header("Content-Disposition", "inline; filename=qrcode.png")
	c.Data(http.StatusOK, "image/png", pngData)
}
