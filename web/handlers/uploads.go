package handlers

import (
	"bytes"
	"net/http"
	"strings"

	"axiapac.com/attendance/web/common"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type UploadEndpoint struct {
	reader ObjectReader
	logger *zap.SugaredLogger
}

// Serve streams a stored profile image. Only keys under profiles/ are served.
func (ep *UploadEndpoint) Serve(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("key"), "/")
	if !strings.HasPrefix(key, "profiles/") || strings.Contains(key, "..") {
		c.JSON(http.StatusNotFound, common.NewErrorResponse("Not found"))
		return
	}

	var buf bytes.Buffer
	contentType, err := ep.reader.ReadFile(c.Request.Context(), key, &buf)
	if err != nil {
		ep.logger.Warnw("failed to read upload", "key", key, "error", err)
		c.JSON(http.StatusNotFound, common.NewErrorResponse("Not found"))
		return
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Cache-Control", "public, max-age=86400")
	c.Data(http.StatusOK, contentType, buf.Bytes())
}
