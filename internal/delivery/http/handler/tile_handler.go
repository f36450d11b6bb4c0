package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/poi-tile-service/internal/pkg/utils"
	"github.com/poi-tile-service/internal/usecase"
)

// TileHandler - обработчик тайловых запросов
type TileHandler struct {
	tileUC *usecase.TileUseCase
	logger *zap.Logger
}

// NewTileHandler создает новый TileHandler
func NewTileHandler(tileUC *usecase.TileUseCase, logger *zap.Logger) *TileHandler {
	return &TileHandler{
		tileUC: tileUC,
		logger: logger,
	}
}

// GetTile отдаёт коллекцию фич тайла по GET /{zoom}/{x}/{y}.json.
// Неподдерживаемый zoom - 404, сбой хранилища - 503.
func (h *TileHandler) GetTile(c *fiber.Ctx) error {
	z, err := parseTileParam(c, "z")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid zoom parameter"})
	}

	x, err := parseTileParam(c, "x")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid x parameter"})
	}

	y, err := parseTileParam(c, "y")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid y parameter"})
	}

	data, err := h.tileUC.GetTileJSON(c.Context(), z, x, y)
	if err != nil {
		h.logger.Error("Failed to get tile",
			zap.Uint32("z", z),
			zap.Uint32("x", x),
			zap.Uint32("y", y),
			zap.Error(err))
		return utils.SendError(c, err)
	}

	c.Set("Content-Type", "application/json")
	c.Set("Cache-Control", "public, max-age=3600")

	return c.Send(data)
}

func parseTileParam(c *fiber.Ctx, name string) (uint32, error) {
	value, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint32(value), nil
}
