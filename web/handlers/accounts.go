package handlers

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"axiapac.com/attendance/core"
	"axiapac.com/attendance/model"
	"axiapac.com/attendance/utils"
	"axiapac.com/attendance/web/common"
	"axiapac.com/attendance/web/middlewares"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AccountEndpoint struct {
	accounts *core.AccountManager
	logger   *zap.SugaredLogger
}

type LoginDTO struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResult struct {
	User  *model.UserAccount `json:"user"`
	Token string             `json:"token"`
}

func (ep *AccountEndpoint) Login(c *gin.Context) {
	var dto LoginDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		badRequest(c, err)
		return
	}

	account, token, err := ep.accounts.SignIn(c.Request.Context(), dto.Email, dto.Password)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(LoginResult{User: account, Token: token}))
}

// RegisterDTO is decoded without validation: the account manager checks
// the actor's permission before it looks at any of these fields.
type RegisterDTO struct {
	FirstName  string `json:"firstName" form:"firstName"`
	LastName   string `json:"lastName" form:"lastName"`
	Email      string `json:"email" form:"email"`
	Username   string `json:"username" form:"username"`
	EmployeeID string `json:"employeeId" form:"employeeId"`
	NIC        string `json:"nic" form:"nic"`
	Password   string `json:"password" form:"password"`
	Type       string `json:"type" form:"type"`
	AdminRole  string `json:"adminRole" form:"adminRole"`
}

// toNewAccount keeps unrecognised type and adminRole values as given so
// the account manager can reject them after authorization.
func (dto *RegisterDTO) toNewAccount() core.NewAccount {
	role, err := model.ParseRole(dto.Type)
	if err != nil {
		role = model.Role(strings.TrimSpace(dto.Type))
	}
	adminRole, err := model.ParseAdminRole(dto.AdminRole)
	if err != nil {
		adminRole = model.AdminRole(strings.TrimSpace(dto.AdminRole))
	}
	return core.NewAccount{
		FirstName:  dto.FirstName,
		LastName:   dto.LastName,
		Email:      dto.Email,
		Username:   dto.Username,
		EmployeeID: dto.EmployeeID,
		NationalID: dto.NIC,
		Password:   dto.Password,
		Role:       role,
		AdminRole:  adminRole,
	}
}

type RegisterResult struct {
	UserID string             `json:"userId"`
	User   *model.UserAccount `json:"user"`
}

// Register accepts JSON, or multipart/form-data with an optional
// profileImage file.
func (ep *AccountEndpoint) Register(c *gin.Context) {
	var dto RegisterDTO
	multipartForm := strings.HasPrefix(c.ContentType(), "multipart/form-data")

	var bindErr error
	if multipartForm {
		if err := c.Request.ParseMultipartForm(core.MaxProfileImageSize + 1<<20); err != nil {
			badRequest(c, err)
			return
		}
		bindErr = c.ShouldBind(&dto)
	} else {
		bindErr = c.ShouldBindJSON(&dto)
	}
	if bindErr != nil {
		badRequest(c, bindErr)
		return
	}

	input := dto.toNewAccount()

	if multipartForm {
		header, err := c.FormFile("profileImage")
		if err != nil && err != http.ErrMissingFile {
			badRequest(c, err)
			return
		}
		if header != nil {
			file, err := header.Open()
			if err != nil {
				badRequest(c, err)
				return
			}
			defer file.Close()
			input.ProfileImage = profileImage(header, file)
		}
	}

	account, err := ep.accounts.CreateAccount(c.Request.Context(), middlewares.ActorID(c), input)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, common.NewMessageResponse("User registered successfully", RegisterResult{
		UserID: account.ID,
		User:   account,
	}))
}

func profileImage(header *multipart.FileHeader, file multipart.File) *core.ProfileImage {
	return &core.ProfileImage{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	}
}

func (ep *AccountEndpoint) Me(c *gin.Context) {
	account, err := ep.accounts.Account(c.Request.Context(), middlewares.ActorID(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(account))
}

func (ep *AccountEndpoint) ListEmployees(c *gin.Context) {
	employees, err := ep.accounts.ListEmployees(c.Request.Context(), middlewares.ActorID(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSearchResponse(employees))
}

type StatusDTO struct {
	IsActive *bool `json:"isActive" binding:"required"`
}

func (ep *AccountEndpoint) SetStatus(c *gin.Context) {
	var dto StatusDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		badRequest(c, err)
		return
	}

	if err := ep.accounts.SetActiveStatus(c.Request.Context(), middlewares.ActorID(c), c.Param("uid"), *dto.IsActive); err != nil {
		abortWithError(c, err)
		return
	}

	state := utils.FormatBoolean(*dto.IsActive, "activated", "deactivated")
	c.JSON(http.StatusOK, common.NewMessageResponse(fmt.Sprintf("User %s successfully", state), gin.H{
		"uid":      c.Param("uid"),
		"isActive": *dto.IsActive,
	}))
}
