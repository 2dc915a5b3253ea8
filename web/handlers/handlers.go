package handlers

import (
	"context"
	"io"
	"net/http"
	"time"

	"axiapac.com/attendance/core"
	"axiapac.com/attendance/web/common"
	"axiapac.com/attendance/web/middlewares"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const HealthMessage = "Attendance App Backend is Running"

// ObjectReader streams a stored object back to the client.
type ObjectReader interface {
	ReadFile(ctx context.Context, key string, outStream io.Writer) (string, error)
}

type Deps struct {
	Accounts   *core.AccountManager
	Attendance *core.Aggregator
	Verifier   middlewares.CredentialVerifier
	// Uploads is nil when no profile bucket is configured.
	Uploads  ObjectReader
	Location *time.Location
	Logger   *zap.SugaredLogger

	AttendanceRequireAuth bool
}

// Register mounts every route on r.
func Register(r *gin.Engine, d Deps) {
	if d.Logger == nil {
		d.Logger = zap.NewNop().Sugar()
	}
	if d.Location == nil {
		d.Location = time.UTC
	}
	auth := middlewares.Authentication(d.Verifier)

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, HealthMessage)
	})
	if d.Uploads != nil {
		r.GET("/uploads/*key", (&UploadEndpoint{reader: d.Uploads, logger: d.Logger}).Serve)
	}

	api := r.Group("/api")

	accounts := &AccountEndpoint{accounts: d.Accounts, logger: d.Logger}
	authGroup := api.Group("/auth")
	authGroup.POST("/login", accounts.Login)
	authGroup.POST("/register", auth, accounts.Register)
	authGroup.GET("/me", auth, accounts.Me)

	users := api.Group("/users", auth)
	users.GET("", accounts.ListEmployees)
	users.PATCH("/:uid/status", accounts.SetStatus)

	attendance := &AttendanceEndpoint{aggregator: d.Attendance, location: d.Location, logger: d.Logger}
	attendanceGroup := api.Group("/attendance")
	if d.AttendanceRequireAuth {
		attendanceGroup.Use(auth)
	}
	attendanceGroup.GET("", attendance.List)
	attendanceGroup.GET("/export", attendance.Export)
}

// abortWithError renders err and records it on the context for the request log.
func abortWithError(c *gin.Context, err error) {
	status, resp := common.NewErrorResponseFor(err)
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, resp)
}

func badRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, common.NewBindingErrorResponse(err))
}
