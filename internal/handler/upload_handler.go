package handler

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/devmart/internal/hook"
	"github.com/devmart/internal/model"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	_ "golang.org/x/image/webp"
)

// maxUploadBytes 单个文件上限 10MB
const maxUploadBytes = 10 << 20

// UploadMedia 保存上传的图片并登记到媒体库
func (a *API) UploadMedia(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, "missing upload field \"file\"")
		return
	}
	if file.Size > maxUploadBytes {
		respondError(c, http.StatusRequestEntityTooLarge, "file exceeds 10MB")
		return
	}

	contentType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		respondError(c, http.StatusBadRequest, "only image uploads are allowed")
		return
	}

	if err := os.MkdirAll(a.uploadDir, 0o755); err != nil {
		a.log.Error().Err(err).Str("dir", a.uploadDir).Msg("failed to create upload dir")
		respondError(c, http.StatusInternalServerError, "failed to create upload directory")
		return
	}

	// 生成唯一文件名
	ext := strings.ToLower(filepath.Ext(file.Filename))
	newFilename := fmt.Sprintf("%s-%s%s", a.now().Format("20060102"), uuid.New().String(), ext)
	filePath := filepath.Join(a.uploadDir, newFilename)

	if err := c.SaveUploadedFile(file, filePath); err != nil {
		a.log.Error().Err(err).Str("path", filePath).Msg("failed to save upload")
		respondError(c, http.StatusInternalServerError, "failed to save file")
		return
	}

	width, height := readDimensions(filePath)

	h := hook.NewMedia(a.reg, a.log)
	h.SetFilter(model.MediaFilter{Folder: c.PostForm("folder")})
	item, items, err := h.CreateMedia(c.Request.Context(), model.CreateMediaInput{
		URL:       path.Join(a.uploadURL, newFilename),
		Alt:       c.PostForm("alt"),
		Width:     width,
		Height:    height,
		Type:      contentType,
		Folder:    c.PostForm("folder"),
		SizeBytes: file.Size,
	})
	if err != nil {
		if removeErr := os.Remove(filePath); removeErr != nil {
			a.log.Warn().Err(removeErr).Str("path", filePath).Msg("failed to remove orphaned upload")
		}
		a.respondErr(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"item": item, "items": items})
}

// readDimensions 读取图片头部获取宽高，无法识别的格式（如 SVG）返回 0
func readDimensions(filePath string) (int, int) {
	f, err := os.Open(filePath)
	if err != nil {
		return 0, 0
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0
	}
	return cfg.Width, cfg.Height
}
