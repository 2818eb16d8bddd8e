package api

import (
	"log/slog"
	"path/filepath"

	"github.com/gofiber/fiber/v2"

	"pdftrim/types"
)

type FileHandler struct {
	logger *slog.Logger
	cfg    types.Config
}

func NewFileHandler(cfg types.Config) *FileHandler {
	return &FileHandler{
		logger: slog.Default(),
		cfg:    cfg,
	}
}

// HandleUpload stores an uploaded PDF in the source directory so a session
// can be opened against it.
func (h *FileHandler) HandleUpload(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return ErrBadRequest()
	}

	path := filepath.Join(h.cfg.SourceDir, filepath.Base(fileHeader.Filename))
	if err := c.SaveFile(fileHeader, path); err != nil {
		return err
	}
	h.logger.Info("file uploaded", "path", path, "size", fileHeader.Size)

	return c.JSON(types.UploadResponse{Path: path})
}
