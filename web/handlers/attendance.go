package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"axiapac.com/attendance/core"
	"axiapac.com/attendance/export"
	"axiapac.com/attendance/utils"
	"axiapac.com/attendance/web/common"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AttendanceEndpoint struct {
	aggregator *core.Aggregator
	location   *time.Location
	logger     *zap.SugaredLogger
}

type AttendanceQuery struct {
	Date   string `form:"date" binding:"omitempty,datetime=2006-01-02"`
	Query  string `form:"q"`
	Latest bool   `form:"latest"`
	Format string `form:"format" binding:"omitempty,oneof=xlsx csv"`
}

func (q AttendanceQuery) roster() core.RosterQuery {
	return core.RosterQuery{Date: q.Date, Query: q.Query, Latest: q.Latest}
}

func (ep *AttendanceEndpoint) List(c *gin.Context) {
	var query AttendanceQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		badRequest(c, err)
		return
	}

	entries, err := ep.aggregator.Roster(c.Request.Context(), query.roster())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSearchResponse(entries))
}

// Export renders the same view as List as a spreadsheet download.
func (ep *AttendanceEndpoint) Export(c *gin.Context) {
	var query AttendanceQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		badRequest(c, err)
		return
	}
	if query.Format == "" {
		query.Format = export.FormatXLSX
	}
	contentType, err := export.ContentType(query.Format)
	if err != nil {
		badRequest(c, err)
		return
	}

	entries, err := ep.aggregator.Roster(c.Request.Context(), query.roster())
	if err != nil {
		abortWithError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, query.Format, entries, ep.location); err != nil {
		ep.logger.Errorw("failed to render export", "format", query.Format, "error", err)
		abortWithError(c, err)
		return
	}

	name := query.Date
	if name == "" {
		name = utils.Today(ep.location)
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="attendance-%s.%s"`, name, query.Format))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}
