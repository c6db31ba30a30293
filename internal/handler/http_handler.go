package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/weiawesome/wes-furniture/internal/domain"
	"github.com/weiawesome/wes-furniture/internal/imageproc"
	"github.com/weiawesome/wes-furniture/internal/service"
	"github.com/weiawesome/wes-furniture/pkg/log"
	"github.com/weiawesome/wes-furniture/pkg/response"
)

const navRoomsKey = "navRooms"

// Handler handles the public storefront routes.
type Handler struct {
	catalogService service.CatalogService
	searchService  service.SearchService
}

// NewHandler creates a new HTTP handler.
func NewHandler(catalogService service.CatalogService, searchService service.SearchService) *Handler {
	return &Handler{
		catalogService: catalogService,
		searchService:  searchService,
	}
}

// RegisterRoutes registers all public routes.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	pages := r.Group("/")
	pages.Use(h.NavRooms())
	{
		pages.GET("/", h.Home)
		pages.GET("/catalogue", h.Catalogue)
		pages.GET("/room/:slug", h.Room)
		pages.GET("/item/:slug", h.Item)
		pages.GET("/set/:slug", h.Set)
		pages.GET("/about", h.About)
		pages.GET("/services", h.Services)
		pages.GET("/contact", h.Contact)
		pages.GET("/wishlist", h.WishlistPage)
	}

	api := r.Group("/api")
	{
		api.GET("/search", h.Search)
		api.POST("/wishlist", h.Wishlist)
	}
}

// NavRooms loads the header menu for every page.
func (h *Handler) NavRooms() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(navRoomsKey, h.catalogService.NavRooms(c.Request.Context()))
		c.Next()
	}
}

func page(c *gin.Context, title string, data any) {
	rooms, _ := c.Get(navRoomsKey)
	nav, _ := rooms.([]domain.NavRoom)
	if nav == nil {
		nav = []domain.NavRoom{}
	}
	response.Success(c, domain.Page{Title: title, NavRooms: nav, Data: data})
}

// Home renders the landing page.
func (h *Handler) Home(c *gin.Context) {
	result, err := h.catalogService.Home(c.Request.Context())
	if err != nil {
		writeError(c, err, "failed to load home page")
		return
	}
	page(c, "Home", result)
}

// Catalogue renders every product; filters are echoed for the client.
func (h *Handler) Catalogue(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	var filters domain.CatalogueFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		l.Warn().Err(err).Msg("invalid catalogue filters")
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.catalogService.Catalogue(ctx, filters)
	if err != nil {
		writeError(c, err, "failed to load catalogue")
		return
	}
	page(c, "Catalogue", result)
}

// Room renders a room page.
func (h *Handler) Room(c *gin.Context) {
	result, err := h.catalogService.Room(c.Request.Context(), c.Param("slug"))
	if err != nil {
		writeError(c, err, "failed to load room")
		return
	}
	page(c, result.Room.Name, result)
}

// Item renders an item page.
func (h *Handler) Item(c *gin.Context) {
	result, err := h.catalogService.Item(c.Request.Context(), c.Param("slug"))
	if err != nil {
		writeError(c, err, "failed to load item")
		return
	}
	page(c, result.Item.Name, result)
}

// Set renders a set page.
func (h *Handler) Set(c *gin.Context) {
	result, err := h.catalogService.Set(c.Request.Context(), c.Param("slug"))
	if err != nil {
		writeError(c, err, "failed to load set")
		return
	}
	page(c, result.Set.Name, result)
}

// About renders the about page.
func (h *Handler) About(c *gin.Context) {
	settings, err := h.catalogService.Settings(c.Request.Context())
	if err != nil {
		writeError(c, err, "failed to load about page")
		return
	}
	page(c, "About", settings.About)
}

// Services renders the services page.
func (h *Handler) Services(c *gin.Context) {
	settings, err := h.catalogService.Settings(c.Request.Context())
	if err != nil {
		writeError(c, err, "failed to load services page")
		return
	}
	page(c, "Services", settings.Services)
}

// Contact renders the contact page.
func (h *Handler) Contact(c *gin.Context) {
	settings, err := h.catalogService.Settings(c.Request.Context())
	if err != nil {
		writeError(c, err, "failed to load contact page")
		return
	}
	page(c, "Contact", settings.Contact)
}

// WishlistPage renders the wishlist shell; entries are resolved by Wishlist.
func (h *Handler) WishlistPage(c *gin.Context) {
	page(c, "Wishlist", nil)
}

type wishlistRequest struct {
	Items []string `json:"items"`
	Sets  []string `json:"sets"`
}

// Wishlist resolves the slugs a browser keeps locally.
func (h *Handler) Wishlist(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	var req wishlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		l.Warn().Err(err).Msg("invalid wishlist request")
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.catalogService.Wishlist(ctx, req.Items, req.Sets)
	if err != nil {
		writeError(c, err, "failed to load wishlist")
		return
	}
	response.Success(c, result)
}

// Search answers the header search box. The body is the bare result, not the
// response envelope.
func (h *Handler) Search(c *gin.Context) {
	result, err := h.searchService.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "search failed"})
		return
	}
	c.JSON(http.StatusOK, result)
}

// writeError maps service errors to responses. Unknown errors are logged and
// answered with msg.
func writeError(c *gin.Context, err error, msg string) {
	switch {
	case errors.Is(err, service.ErrItemNotFound):
		response.NotFound(c, "item not found")
	case errors.Is(err, service.ErrSetNotFound):
		response.NotFound(c, "set not found")
	case errors.Is(err, service.ErrRoomNotFound):
		response.NotFound(c, "room not found")
	case errors.Is(err, service.ErrDuplicateCode):
		response.Conflict(c, "code already in use")
	case errors.Is(err, service.ErrInvalidInput):
		response.BadRequest(c, err.Error())
	case errors.Is(err, imageproc.ErrImageTooLarge):
		response.TooLarge(c, err.Error())
	case errors.Is(err, imageproc.ErrInvalidImage):
		response.UnsupportedMedia(c, err.Error())
	default:
		l := log.Ctx(c.Request.Context())
		l.Error().Err(err).Msg(msg)
		response.InternalError(c, msg)
	}
}
