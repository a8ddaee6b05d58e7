package controllers

import (
	"log/slog"
	"net/http"

	"slice-url/internal/models"
	"slice-url/internal/service"

	"github.com/gin-gonic/gin"
)

type LinkController struct {
	linkService     service.LinkService
	resolverService service.ResolverService
	baseURL         string
	logger          *slog.Logger
}

func NewLinkController(linkService service.LinkService, resolverService service.ResolverService, baseURL string, logger *slog.Logger) *LinkController {
	return &LinkController{
		linkService:     linkService,
		resolverService: resolverService,
		baseURL:         baseURL,
		logger:          logger,
	}
}

// CreateShortLink handles POST /links/shorten and POST /links/shorten-anonymously
func (lc *LinkController) CreateShortLink(c *gin.Context) {
	userID, ok := callerID(c, lc.logger)
	if !ok {
		return
	}

	var req models.CreateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadBody(c, err)
		return
	}

	link, err := lc.linkService.Create(c.Request.Context(), req.OriginalURL, userID, serverAddress(c, lc.baseURL))
	if err != nil {
		respondError(c, lc.logger, err)
		return
	}

	respond(c, http.StatusCreated, "Short URL created successfully", gin.H{"newLink": link})
}

// GetLinks handles GET /links
func (lc *LinkController) GetLinks(c *gin.Context) {
	userID, ok := callerID(c, lc.logger)
	if !ok {
		return
	}

	links, err := lc.linkService.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, lc.logger, err)
		return
	}

	respond(c, http.StatusOK, "Links retrieved successfully", gin.H{"links": links})
}

// GetLink handles GET /links/:shortId
func (lc *LinkController) GetLink(c *gin.Context) {
	userID, ok := callerID(c, lc.logger)
	if !ok {
		return
	}

	link, err := lc.linkService.Get(c.Request.Context(), c.Param("shortId"), userID)
	if err != nil {
		respondError(c, lc.logger, err)
		return
	}

	respond(c, http.StatusOK, "Link retrieved successfully", gin.H{"link": link})
}

// Redirect handles GET /links/redirect/:shortId?source= and answers 303 with the target
// in both the Location header and the body
func (lc *LinkController) Redirect(c *gin.Context) {
	target, err := lc.resolverService.Resolve(c.Request.Context(),
		c.Param("shortId"),
		c.GetHeader("User-Agent"),
		c.Query("source"),
	)
	if err != nil {
		respondError(c, lc.logger, err)
		return
	}

	c.Header("Location", target)
	respond(c, http.StatusSeeOther, "Redirect", gin.H{"url": target})
}

// DeleteLink handles DELETE /links/:shortId
func (lc *LinkController) DeleteLink(c *gin.Context) {
	userID, ok := callerID(c, lc.logger)
	if !ok {
		return
	}

	if err := lc.linkService.Delete(c.Request.Context(), c.Param("shortId"), userID); err != nil {
		respondError(c, lc.logger, err)
		return
	}

	respond(c, http.StatusOK, "Link deleted successfully", nil)
}

// ChangeLinkAlias handles PATCH /links/:shortId?alias=
func (lc *LinkController) ChangeLinkAlias(c *gin.Context) {
	userID, ok := callerID(c, lc.logger)
	if !ok {
		return
	}

	link, err := lc.linkService.SetAlias(c.Request.Context(),
		c.Param("shortId"),
		userID,
		c.Query("alias"),
		serverAddress(c, lc.baseURL),
	)
	if err != nil {
		respondError(c, lc.logger, err)
		return
	}

	respond(c, http.StatusOK, "Link alias updated successfully", gin.H{"link": link})
}
