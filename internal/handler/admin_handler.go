package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/weiawesome/wes-furniture/internal/domain"
	"github.com/weiawesome/wes-furniture/internal/imageproc"
	"github.com/weiawesome/wes-furniture/internal/service"
	"github.com/weiawesome/wes-furniture/pkg/log"
	"github.com/weiawesome/wes-furniture/pkg/response"
)

const (
	// multipartOverhead is added to the image limit to bound the whole body.
	multipartOverhead = 64 << 10
	defaultFolder     = "products"
)

// AdminHandler handles the dashboard API.
type AdminHandler struct {
	adminService   service.AdminService
	maxUploadBytes int64
}

// NewAdminHandler creates a new admin handler. Uploads larger than
// maxUploadBytes are rejected.
func NewAdminHandler(adminService service.AdminService, maxUploadBytes int64) *AdminHandler {
	return &AdminHandler{
		adminService:   adminService,
		maxUploadBytes: maxUploadBytes,
	}
}

// RegisterRoutes registers the admin API under /<prefix>/api.
func (h *AdminHandler) RegisterRoutes(r *gin.Engine, prefix string) {
	api := r.Group("/" + strings.Trim(prefix, "/") + "/api")
	{
		items := api.Group("/items")
		{
			items.GET("", h.ListItems)
			items.POST("", h.CreateItem)
			items.GET("/:id", h.GetItem)
			items.PUT("/:id", h.UpdateItem)
			items.DELETE("/:id", h.DeleteItem)
		}

		sets := api.Group("/sets")
		{
			sets.GET("", h.ListSets)
			sets.POST("", h.CreateSet)
			sets.GET("/:id", h.GetSet)
			sets.PUT("/:id", h.UpdateSet)
			sets.DELETE("/:id", h.DeleteSet)
		}

		api.GET("/furniture-types", h.FurnitureTypes)
		api.GET("/next-code", h.NextCode)

		api.GET("/rooms", h.ListRooms)
		api.PUT("/rooms/:id", h.UpdateRoom)

		settings := api.Group("/settings")
		{
			settings.GET("", h.GetSettings)
			settings.PUT("/home", h.UpdateHome)
			settings.PUT("/contact", h.UpdateContact)
			settings.PUT("/about", h.UpdateAbout)
			settings.PUT("/services", h.UpdateServices)
			settings.PUT("/hero-image", h.SetHeroImage)
			settings.PUT("/hero-active", h.SetActiveHero)
		}

		api.POST("/upload-image", h.UploadImage)
	}
}

// ListItems lists items, optionally narrowed by room, style and type.
func (h *AdminHandler) ListItems(c *gin.Context) {
	filter := domain.ItemFilter{
		Room:  c.Query("room"),
		Style: c.Query("style"),
		Type:  c.Query("type"),
	}
	items, err := h.adminService.ListItems(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err, "failed to list items")
		return
	}
	response.Success(c, items)
}

// GetItem returns one item.
func (h *AdminHandler) GetItem(c *gin.Context) {
	item, err := h.adminService.GetItem(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err, "failed to get item")
		return
	}
	response.Success(c, item)
}

// CreateItem creates an item.
func (h *AdminHandler) CreateItem(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	var req domain.ItemInput
	if err := c.ShouldBindJSON(&req); err != nil {
		l.Warn().Err(err).Msg("invalid create item request")
		response.BadRequest(c, err.Error())
		return
	}

	item, err := h.adminService.CreateItem(ctx, &req)
	if err != nil {
		writeError(c, err, "failed to create item")
		return
	}
	response.Created(c, item)
}

// UpdateItem edits an item.
func (h *AdminHandler) UpdateItem(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	var req domain.ItemUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		l.Warn().Err(err).Msg("invalid update item request")
		response.BadRequest(c, err.Error())
		return
	}

	item, err := h.adminService.UpdateItem(ctx, c.Param("id"), &req)
	if err != nil {
		writeError(c, err, "failed to update item")
		return
	}
	response.Success(c, item)
}

// DeleteItem deletes an item.
func (h *AdminHandler) DeleteItem(c *gin.Context) {
	if err := h.adminService.DeleteItem(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err, "failed to delete item")
		return
	}
	c.Status(http.StatusNoContent)
}

// FurnitureTypes lists the types in use.
func (h *AdminHandler) FurnitureTypes(c *gin.Context) {
	types, err := h.adminService.FurnitureTypes(c.Request.Context())
	if err != nil {
		writeError(c, err, "failed to list furniture types")
		return
	}
	response.Success(c, types)
}

// ListSets lists sets, optionally narrowed by room and style.
func (h *AdminHandler) ListSets(c *gin.Context) {
	filter := domain.SetFilter{
		Room:  c.Query("room"),
		Style: c.Query("style"),
	}
	sets, err := h.adminService.ListSets(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err, "failed to list sets")
		return
	}
	response.Success(c, sets)
}

// GetSet returns one set.
func (h *AdminHandler) GetSet(c *gin.Context) {
	set, err := h.adminService.GetSet(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err, "failed to get set")
		return
	}
	response.Success(c, set)
}

// CreateSet creates a set.
func (h *AdminHandler) CreateSet(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	var req domain.SetInput
	if err := c.ShouldBindJSON(&req); err != nil {
		l.Warn().Err(err).Msg("invalid create set request")
		response.BadRequest(c, err.Error())
		return
	}

	set, err := h.adminService.CreateSet(ctx, &req)
	if err != nil {
		writeError(c, err, "failed to create set")
		return
	}
	response.Created(c, set)
}

// UpdateSet edits a set.
func (h *AdminHandler) UpdateSet(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	var req domain.SetUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		l.Warn().Err(err).Msg("invalid update set request")
		response.BadRequest(c, err.Error())
		return
	}

	set, err := h.adminService.UpdateSet(ctx, c.Param("id"), &req)
	if err != nil {
		writeError(c, err, "failed to update set")
		return
	}
	response.Success(c, set)
}

// DeleteSet deletes a set.
func (h *AdminHandler) DeleteSet(c *gin.Context) {
	if err := h.adminService.DeleteSet(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err, "failed to delete set")
		return
	}
	c.Status(http.StatusNoContent)
}

type nextCodeRequest struct {
	Kind  string `form:"kind" binding:"required,oneof=item set"`
	Room  string `form:"room" binding:"required"`
	Style string `form:"style" binding:"required"`
}

// NextCode suggests the next free product code.
func (h *AdminHandler) NextCode(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	var req nextCodeRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		l.Warn().Err(err).Msg("invalid next code request")
		response.BadRequest(c, err.Error())
		return
	}

	code, err := h.adminService.NextCode(ctx, req.Kind, req.Room, req.Style)
	if err != nil {
		writeError(c, err, "failed to compute next code")
		return
	}
	response.Success(c, gin.H{"code": code})
}

// ListRooms lists rooms.
func (h *AdminHandler) ListRooms(c *gin.Context) {
	rooms, err := h.adminService.ListRooms(c.Request.Context())
	if err != nil {
		writeError(c, err, "failed to list rooms")
		return
	}
	response.Success(c, rooms)
}

// UpdateRoom edits a room.
func (h *AdminHandler) UpdateRoom(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	var req domain.RoomUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		l.Warn().Err(err).Msg("invalid update room request")
		response.BadRequest(c, err.Error())
		return
	}

	room, err := h.adminService.UpdateRoom(ctx, c.Param("id"), &req)
	if err != nil {
		writeError(c, err, "failed to update room")
		return
	}
	response.Success(c, room)
}

// GetSettings returns the site settings.
func (h *AdminHandler) GetSettings(c *gin.Context) {
	settings, err := h.adminService.GetSettings(c.Request.Context())
	if err != nil {
		writeError(c, err, "failed to get settings")
		return
	}
	response.Success(c, settings)
}

// UpdateHome replaces the home section.
func (h *AdminHandler) UpdateHome(c *gin.Context) {
	var req domain.HomeSettings
	updateSection(c, &req, "home", func() (*domain.SiteSettings, error) {
		return h.adminService.UpdateHome(c.Request.Context(), &req)
	})
}

// UpdateContact replaces the contact section.
func (h *AdminHandler) UpdateContact(c *gin.Context) {
	var req domain.ContactSettings
	updateSection(c, &req, "contact", func() (*domain.SiteSettings, error) {
		return h.adminService.UpdateContact(c.Request.Context(), &req)
	})
}

// UpdateAbout replaces the about section.
func (h *AdminHandler) UpdateAbout(c *gin.Context) {
	var req domain.AboutContent
	updateSection(c, &req, "about", func() (*domain.SiteSettings, error) {
		return h.adminService.UpdateAbout(c.Request.Context(), &req)
	})
}

// UpdateServices replaces the services section.
func (h *AdminHandler) UpdateServices(c *gin.Context) {
	var req domain.ServicesContent
	updateSection(c, &req, "services", func() (*domain.SiteSettings, error) {
		return h.adminService.UpdateServices(c.Request.Context(), &req)
	})
}

type heroImageRequest struct {
	Index *int   `json:"index" binding:"required"`
	URL   string `json:"url" binding:"required"`
}

// SetHeroImage stores an image in a hero slot.
func (h *AdminHandler) SetHeroImage(c *gin.Context) {
	var req heroImageRequest
	updateSection(c, &req, "hero image", func() (*domain.SiteSettings, error) {
		return h.adminService.SetHeroImage(c.Request.Context(), *req.Index, req.URL)
	})
}

type heroActiveRequest struct {
	Index *int `json:"index" binding:"required"`
}

// SetActiveHero selects the hero image shown first.
func (h *AdminHandler) SetActiveHero(c *gin.Context) {
	var req heroActiveRequest
	updateSection(c, &req, "active hero", func() (*domain.SiteSettings, error) {
		return h.adminService.SetActiveHero(c.Request.Context(), *req.Index)
	})
}

// updateSection binds req, runs update and writes the saved settings.
func updateSection(c *gin.Context, req any, section string, update func() (*domain.SiteSettings, error)) {
	l := log.Ctx(c.Request.Context())

	if err := c.ShouldBindJSON(req); err != nil {
		l.Warn().Err(err).Str("section", section).Msg("invalid settings request")
		response.BadRequest(c, err.Error())
		return
	}

	settings, err := update()
	if err != nil {
		writeError(c, err, "failed to update "+section)
		return
	}
	response.Success(c, settings)
}

// UploadImage stores the multipart "image" file under the "folder" form value.
func (h *AdminHandler) UploadImage(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	if h.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes+multipartOverhead)
	}

	file, err := c.FormFile("image")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			response.TooLarge(c, imageproc.ErrImageTooLarge.Error())
			return
		}
		l.Warn().Err(err).Msg("invalid upload request")
		response.BadRequest(c, "image file is required")
		return
	}
	if h.maxUploadBytes > 0 && file.Size > h.maxUploadBytes {
		response.TooLarge(c, imageproc.ErrImageTooLarge.Error())
		return
	}

	src, err := file.Open()
	if err != nil {
		l.Error().Err(err).Msg("failed to open uploaded file")
		response.InternalError(c, "failed to read upload")
		return
	}
	defer src.Close()

	folder := c.DefaultPostForm("folder", defaultFolder)
	img, err := h.adminService.UploadImage(ctx, folder, src)
	if err != nil {
		writeError(c, err, "failed to upload image")
		return
	}
	response.Created(c, img)
}
