package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"inventory-service/internal/cache"
	"inventory-service/internal/commands"
	"inventory-service/internal/config"
	"inventory-service/internal/csvcodec"
	"inventory-service/internal/domain"
	"inventory-service/internal/repository"
	apperrors "inventory-service/pkg/errors"
	"inventory-service/pkg/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ExportFileName is the attachment name of the CSV download
const ExportFileName = "inventory-export.csv"

// IdempotencyTTL is how long a write response is replayed for a repeated X-Request-ID
const IdempotencyTTL = 5 * time.Minute

type InventoryHandler struct {
	logger   *zap.Logger
	items    repository.InventoryRepository
	history  repository.HistoryRepository
	commands *commands.Handler
	cache    cache.Cache
	cacheTTL time.Duration

	storageDriver  string
	exportPath     string
	maxUploadBytes int64
	exportMu       sync.Mutex
}

func NewInventoryHandler(logger *zap.Logger, cfg *config.Config, store repository.Store, cmd *commands.Handler, c cache.Cache) *InventoryHandler {
	return &InventoryHandler{
		logger:         logger,
		items:          store.Items(),
		history:        store.History(),
		commands:       cmd,
		cache:          c,
		cacheTTL:       cache.TTL(cfg.CacheTTLSeconds),
		storageDriver:  cfg.StorageDriver,
		exportPath:     cfg.ExportPath,
		maxUploadBytes: int64(cfg.MaxUploadMB) << 20,
	}
}

// RegisterRoutes mounts the inventory endpoints. When authorize is not nil it
// runs in front of every write endpoint, ahead of the idempotency replay.
func (h *InventoryHandler) RegisterRoutes(api *gin.RouterGroup, authorize gin.HandlerFunc) {
	writeChain := make([]gin.HandlerFunc, 0, 2)
	if authorize != nil {
		writeChain = append(writeChain, authorize)
	}
	writeChain = append(writeChain, middleware.IdempotencyMiddleware(h.cache, h.logger, IdempotencyTTL))

	api.GET("/health", h.Health)

	inventory := api.Group("/inventory")
	{
		inventory.GET("", h.ListItems)
		inventory.GET("/export", h.ExportItems)
		inventory.GET("/:id/history", h.GetItemHistory)

		writes := inventory.Group("", writeChain...)
		writes.POST("", h.CreateItem)
		writes.POST("/import", h.ImportItems)
		writes.PUT("/:id", h.UpdateItem)
	}
}

// Health handles GET /api/health
// @Summary      Health check
// @Tags         health
// @Produce      json
// @Success      200  {object}  HealthResponse
// @Router       /health [get]
func (h *InventoryHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:  "ok",
		Service: "inventory-service",
		Storage: h.storageDriver,
	})
}

// ListItems handles GET /api/inventory
// @Summary      List inventory items
// @Description  Returns every stored item in insertion order. No pagination.
// @Tags         inventory
// @Produce      json
// @Success      200  {array}   domain.InventoryItem
// @Failure      500  {object}  apperrors.StandardError  "Storage error"
// @Router       /inventory [get]
func (h *InventoryHandler) ListItems(c *gin.Context) {
	ctx := c.Request.Context()

	var items []domain.InventoryItem
	if err := cache.GetJSON(ctx, h.cache, cache.KeyItems, &items); err == nil {
		h.logger.Debug("Cache hit", zap.String("key", cache.KeyItems))
		c.JSON(http.StatusOK, items)
		return
	}

	items, err := h.items.List(ctx)
	if err != nil {
		c.Error(apperrors.NewStorageError("fetching inventory", err))
		return
	}

	if err := cache.SetJSON(ctx, h.cache, cache.KeyItems, items, h.cacheTTL); err != nil {
		h.logger.Warn("Failed to cache item list", zap.Error(err))
	}
	c.JSON(http.StatusOK, items)
}

// CreateItem handles POST /api/inventory
// @Summary      Create an inventory item
// @Description  Creates an item with a fresh id and records a CREATE history entry.
// @Description  Send X-Request-ID to make retries idempotent.
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        X-Request-ID  header    string             false  "Request ID for idempotency"
// @Param        request       body      CreateItemRequest  true   "Item to create"
// @Success      200           {object}  domain.InventoryItem
// @Failure      400           {object}  apperrors.StandardError  "Invalid body"
// @Failure      401           {object}  apperrors.StandardError  "Missing or invalid token"
// @Failure      403           {object}  apperrors.StandardError  "Role cannot write"
// @Failure      409           {object}  apperrors.StandardError  "Same X-Request-ID still in progress"
// @Failure      500           {object}  apperrors.StandardError  "Storage error"
// @Router       /inventory [post]
func (h *InventoryHandler) CreateItem(c *gin.Context) {
	var req CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperrors.NewInvalidRequest("invalid request body", err.Error()))
		return
	}

	item, err := h.commands.HandleCreate(c.Request.Context(), commands.CreateItemCommand{Fields: req.toFields()})
	if err != nil {
		c.Error(h.mapError(err, "adding item", 0))
		return
	}

	c.JSON(http.StatusOK, item)
}

// UpdateItem handles PUT /api/inventory/:id
// @Summary      Update an inventory item
// @Description  Merges the supplied fields onto the item. Omitted fields, the id and addedDate are kept.
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        X-Request-ID  header    string             false  "Request ID for idempotency"
// @Param        id            path      int                true   "Item ID"
// @Param        request       body      UpdateItemRequest  true   "Fields to change"
// @Success      200           {object}  domain.InventoryItem
// @Failure      400           {object}  apperrors.StandardError  "Invalid id or body"
// @Failure      401           {object}  apperrors.StandardError  "Missing or invalid token"
// @Failure      403           {object}  apperrors.StandardError  "Role cannot write"
// @Failure      409           {object}  apperrors.StandardError  "Same X-Request-ID still in progress"
// @Failure      404           {object}  apperrors.StandardError  "Item not found"
// @Failure      500           {object}  apperrors.StandardError  "Storage error"
// @Router       /inventory/{id} [put]
func (h *InventoryHandler) UpdateItem(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperrors.NewInvalidRequest("invalid request body", err.Error()))
		return
	}

	item, err := h.commands.HandleUpdate(c.Request.Context(), commands.UpdateItemCommand{ID: id, Patch: req.toPatch()})
	if err != nil {
		c.Error(h.mapError(err, "updating item", id))
		return
	}

	c.JSON(http.StatusOK, item)
}

// GetItemHistory handles GET /api/inventory/:id/history
// @Summary      Item change history
// @Description  Returns the CREATE and UPDATE entries of one item in the order they were recorded.
// @Tags         inventory
// @Produce      json
// @Param        id   path      int  true  "Item ID"
// @Success      200  {array}   domain.HistoryEntry
// @Failure      400  {object}  apperrors.StandardError  "Invalid id"
// @Failure      500  {object}  apperrors.StandardError  "Storage error"
// @Router       /inventory/{id}/history [get]
func (h *InventoryHandler) GetItemHistory(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	key := cache.HistoryKey(id)

	var entries []domain.HistoryEntry
	if err := cache.GetJSON(ctx, h.cache, key, &entries); err == nil {
		h.logger.Debug("Cache hit", zap.String("key", key))
		c.JSON(http.StatusOK, entries)
		return
	}

	entries, err := h.history.ListFor(ctx, id)
	if err != nil {
		c.Error(apperrors.NewStorageError("fetching history", err))
		return
	}

	if err := cache.SetJSON(ctx, h.cache, key, entries, h.cacheTTL); err != nil {
		h.logger.Warn("Failed to cache item history", zap.Int64("item_id", id), zap.Error(err))
	}
	c.JSON(http.StatusOK, entries)
}

// ImportItems handles POST /api/inventory/import
// @Summary      Bulk import from CSV
// @Description  Creates one item per CSV row. Headers may be camelCase field names or the export column titles.
// @Description  Any bad row aborts the whole import before anything is stored.
// @Tags         inventory
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file  formData  file  true  "CSV file"
// @Success      200   {object}  MessageResponse
// @Failure      400   {object}  apperrors.StandardError  "Missing or oversized file"
// @Failure      401   {object}  apperrors.StandardError  "Missing or invalid token"
// @Failure      403   {object}  apperrors.StandardError  "Role cannot write"
// @Failure      409   {object}  apperrors.StandardError  "Same X-Request-ID still in progress"
// @Failure      500   {object}  apperrors.StandardError  "Import or storage error"
// @Router       /inventory/import [post]
func (h *InventoryHandler) ImportItems(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)

	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.Error(apperrors.NewInvalidRequest("file too large", fmt.Sprintf("Limit: %d bytes", h.maxUploadBytes)))
			return
		}
		c.Error(apperrors.NewInvalidRequest("file is required", "Form field: file"))
		return
	}

	file, err := header.Open()
	if err != nil {
		c.Error(apperrors.NewImportError(err))
		return
	}
	defer file.Close()

	rows, err := csvcodec.Decode(file)
	if err != nil {
		h.logger.Warn("Rejected CSV import", zap.String("filename", header.Filename), zap.Error(err))
		c.Error(apperrors.NewImportError(err))
		return
	}

	count, err := h.commands.HandleImport(c.Request.Context(), commands.ImportItemsCommand{Items: rows})
	if err != nil {
		c.Error(h.mapError(err, "importing items", 0))
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: fmt.Sprintf("Imported %d items successfully", count)})
}

// ExportItems handles GET /api/inventory/export
// @Summary      Export inventory as CSV
// @Description  Writes the inventory to the configured export path and returns it as inventory-export.csv.
// @Tags         inventory
// @Produce      text/csv
// @Success      200  {file}    file
// @Failure      500  {object}  apperrors.StandardError  "Storage error"
// @Router       /inventory/export [get]
func (h *InventoryHandler) ExportItems(c *gin.Context) {
	items, err := h.items.List(c.Request.Context())
	if err != nil {
		c.Error(apperrors.NewStorageError("exporting inventory", err))
		return
	}

	h.exportMu.Lock()
	defer h.exportMu.Unlock()

	if err := h.writeExport(items); err != nil {
		c.Error(apperrors.NewStorageError("exporting inventory", err))
		return
	}

	h.logger.Info("Inventory exported", zap.Int("count", len(items)), zap.String("path", h.exportPath))
	c.FileAttachment(h.exportPath, ExportFileName)
}

func (h *InventoryHandler) writeExport(items []domain.InventoryItem) error {
	if err := os.MkdirAll(filepath.Dir(h.exportPath), 0o755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}
	f, err := os.Create(h.exportPath)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	if err := csvcodec.Encode(f, items); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (h *InventoryHandler) parseID(c *gin.Context) (int64, bool) {
	raw := c.Param("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		c.Error(apperrors.NewInvalidRequest("invalid item id", fmt.Sprintf("ID: %s", raw)))
		return 0, false
	}
	return id, true
}

// mapError converts command errors into the API error taxonomy
func (h *InventoryHandler) mapError(err error, operation string, id int64) *apperrors.StandardError {
	var verr *domain.ValidationError
	switch {
	case errors.Is(err, domain.ErrItemNotFound):
		return apperrors.NewItemNotFound(id)
	case errors.As(err, &verr):
		return apperrors.NewValidationError(verr.Message, verr.Field)
	default:
		return apperrors.NewStorageError(operation, err)
	}
}
