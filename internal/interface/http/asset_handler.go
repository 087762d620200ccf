package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/danisatya/asset-management-api/internal/application"
	"github.com/danisatya/asset-management-api/pkg/response"
	"github.com/danisatya/asset-management-api/pkg/validation"
	"github.com/danisatya/asset-management-api/pkg/vision"
)

const purchaseDateLayout = "2006-01-02"

type AssetHandler struct {
	Svc    *application.AssetService
	Logger *logrus.Logger
}

func NewAssetHandler(svc *application.AssetService, logger *logrus.Logger) *AssetHandler {
	return &AssetHandler{Svc: svc, Logger: logger}
}

type createAssetRequest struct {
	Name          string   `json:"name" binding:"required,min=1,max=255"`
	AssetType     string   `json:"asset_type" binding:"required,min=1,max=100"`
	SerialNumber  string   `json:"serial_number" binding:"required,min=1,max=255"`
	Status        string   `json:"status" binding:"omitempty,max=50"`
	AssignedTo    *string  `json:"assigned_to" binding:"omitempty,max=255"`
	PurchaseDate  *string  `json:"purchase_date"`
	PurchasePrice *float64 `json:"purchase_price" binding:"omitempty,gte=0"`
	Description   *string  `json:"description"`
}

type updateAssetRequest struct {
	Name          *string  `json:"name" binding:"omitempty,min=1,max=255"`
	AssetType     *string  `json:"asset_type" binding:"omitempty,min=1,max=100"`
	SerialNumber  *string  `json:"serial_number" binding:"omitempty,min=1,max=255"`
	Status        *string  `json:"status" binding:"omitempty,max=50"`
	AssignedTo    *string  `json:"assigned_to" binding:"omitempty,max=255"`
	PurchaseDate  *string  `json:"purchase_date"`
	PurchasePrice *float64 `json:"purchase_price" binding:"omitempty,gte=0"`
	Description   *string  `json:"description"`
}

func parsePurchaseDate(s *string) (*time.Time, bool) {
	if s == nil {
		return nil, true
	}
	t, err := time.Parse(purchaseDateLayout, *s)
	if err != nil {
		return nil, false
	}
	return &t, true
}

// writeServiceError maps service sentinels onto the HTTP error taxonomy.
func (h *AssetHandler) writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, application.ErrAssetNotFound):
		response.Error[any](c, http.StatusNotFound, "asset not found", nil)
	case errors.Is(err, application.ErrSerialNumberTaken):
		response.Error[any](c, http.StatusConflict, "serial number already exists", nil)
	case errors.Is(err, application.ErrUpstreamDependency):
		response.Error[any](c, http.StatusBadGateway, "upstream dependency failed", err.Error())
	default:
		if h.Logger != nil {
			h.Logger.WithError(err).Error("asset operation failed")
		}
		response.Error[any](c, http.StatusInternalServerError, "internal error", nil)
	}
}

// Create POST /api/assets
func (h *AssetHandler) Create(c *gin.Context) {
	var req createAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	pd, ok := parsePurchaseDate(req.PurchaseDate)
	if !ok {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{"purchase_date": "must be a date in YYYY-MM-DD format"})
		return
	}

	a, err := h.Svc.Create(c.Request.Context(), application.CreateAssetInput{
		Name:          req.Name,
		AssetType:     req.AssetType,
		SerialNumber:  req.SerialNumber,
		Status:        req.Status,
		AssignedTo:    req.AssignedTo,
		PurchaseDate:  pd,
		PurchasePrice: req.PurchasePrice,
		Description:   req.Description,
	})
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, a, "asset created", nil)
}

// List GET /api/assets?skip=0&limit=100
func (h *AssetHandler) List(c *gin.Context) {
	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	assets, err := h.Svc.List(c.Request.Context(), skip, limit)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, assets, "assets", map[string]any{"skip": skip, "limit": limit, "count": len(assets)})
}

// Get GET /api/assets/:id
func (h *AssetHandler) Get(c *gin.Context) {
	a, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, a, "asset", nil)
}

// Update PUT /api/assets/:id
func (h *AssetHandler) Update(c *gin.Context) {
	var req updateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	pd, ok := parsePurchaseDate(req.PurchaseDate)
	if !ok {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{"purchase_date": "must be a date in YYYY-MM-DD format"})
		return
	}

	a, err := h.Svc.Update(c.Request.Context(), c.Param("id"), application.UpdateAssetInput{
		Name:          req.Name,
		AssetType:     req.AssetType,
		SerialNumber:  req.SerialNumber,
		Status:        req.Status,
		AssignedTo:    req.AssignedTo,
		PurchaseDate:  pd,
		PurchasePrice: req.PurchasePrice,
		Description:   req.Description,
	})
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, a, "asset updated", nil)
}

// Delete DELETE /api/assets/:id
func (h *AssetHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Search GET /api/assets/search?q=...
func (h *AssetHandler) Search(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{"q": "is required"})
		return
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))

	hits, err := h.Svc.Search(c.Request.Context(), q, size)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, hits, "search results", map[string]any{"count": len(hits)})
}

// UploadImage POST /api/assets/:id/upload-image
// Accepts a multipart image (<= 10 MB, JPEG/PNG; anything else is treated as
// PNG) and replaces the asset description with a generated caption.
func (h *AssetHandler) UploadImage(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "image file is required", nil)
		return
	}

	contentType := fh.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		response.Error[any](c, http.StatusBadRequest, "file must be an image", nil)
		return
	}
	if fh.Size > vision.MaxImageBytes {
		response.Error[any](c, http.StatusBadRequest, "image file size must be less than 10MB", nil)
		return
	}

	f, err := fh.Open()
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "unreadable image file", nil)
		return
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(io.LimitReader(f, vision.MaxImageBytes+1))
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "unreadable image file", nil)
		return
	}
	if len(data) > vision.MaxImageBytes {
		response.Error[any](c, http.StatusBadRequest, "image file size must be less than 10MB", nil)
		return
	}

	format := imageFormat(contentType, fh.Filename)

	a, err := h.Svc.UploadImage(c.Request.Context(), c.Param("id"), data, format)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, a, "asset description generated", nil)
}

// imageFormat resolves the declared format from the content type, falling back
// to the filename extension. Unrecognized types default to png.
func imageFormat(contentType, filename string) string {
	switch contentType {
	case "image/jpeg", "image/jpg":
		return "jpeg"
	case "image/png":
		return "png"
	}
	if i := strings.LastIndex(filename, "."); i >= 0 {
		switch strings.ToLower(filename[i+1:]) {
		case "jpg", "jpeg":
			return "jpeg"
		}
	}
	return "png"
}
