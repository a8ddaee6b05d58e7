package controllers

import (
	"log/slog"
	"net/http"

	"slice-url/internal/service"

	"github.com/gin-gonic/gin"
)

type VisitController struct {
	visitService service.VisitService
	logger       *slog.Logger
}

func NewVisitController(visitService service.VisitService, logger *slog.Logger) *VisitController {
	return &VisitController{
		visitService: visitService,
		logger:       logger,
	}
}

// CountVisit handles GET /visit?source=
func (vc *VisitController) CountVisit(c *gin.Context) {
	total, err := vc.visitService.Record(c.Request.Context(), c.GetHeader("User-Agent"), c.Query("source"))
	if err != nil {
		respondError(c, vc.logger, err)
		return
	}

	respond(c, http.StatusOK, "Visitor counted successfully", gin.H{"total": total})
}
