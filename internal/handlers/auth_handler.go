package handlers

import (
	"github.com/gin-gonic/gin"

	accountdomain "github.com/BruksfildServices01/tenant-scheduler/internal/domain/account"
	"github.com/BruksfildServices01/tenant-scheduler/internal/httpresp"
	ucAccount "github.com/BruksfildServices01/tenant-scheduler/internal/usecase/account"
	"github.com/BruksfildServices01/tenant-scheduler/internal/validation"
)

type AuthHandler struct {
	register *ucAccount.RegisterBusiness
	login    *ucAccount.Login
	signup   *ucAccount.SignupClient
	client   *ucAccount.ClientLogin
}

func NewAuthHandler(
	repo accountdomain.Repository,
	tokens ucAccount.TokenSigner,
	emails ucAccount.EmailChecker,
	notifier ucAccount.Notifier,
	auditor ucAccount.Auditor,
) *AuthHandler {
	return &AuthHandler{
		register: ucAccount.NewRegisterBusiness(repo, tokens, emails, auditor),
		login:    ucAccount.NewLogin(repo, tokens),
		signup:   ucAccount.NewSignupClient(repo, tokens, notifier, auditor),
		client:   ucAccount.NewClientLogin(repo, tokens),
	}
}

// --------- Requests ---------

type RegisterRequest struct {
	BusinessName    string `json:"business_name" binding:"required,max=100"`
	BusinessSlug    string `json:"business_slug" binding:"required,max=100"`
	BusinessPhone   string `json:"business_phone" binding:"max=20"`
	BusinessAddress string `json:"business_address" binding:"max=255"`
	Timezone        string `json:"timezone"`

	Name     string `json:"name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone" binding:"max=20"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type SignupRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Phone    string `json:"phone" binding:"required,max=20"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

type ClientLoginRequest struct {
	Phone    string `json:"phone" binding:"required,max=20"`
	Password string `json:"password" binding:"required"`
}

// --------- Handlers ---------

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := validation.BindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}

	out, err := h.register.Execute(c.Request.Context(), ucAccount.RegisterInput{
		BusinessName:    req.BusinessName,
		BusinessSlug:    req.BusinessSlug,
		BusinessPhone:   req.BusinessPhone,
		BusinessAddress: req.BusinessAddress,
		Timezone:        req.Timezone,
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		Phone:           req.Phone,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	httpresp.Created(c, out)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := validation.BindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}

	out, err := h.login.Execute(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	httpresp.OK(c, out)
}

// Signup creates a client of the business in the path and returns a
// client token. A phone already registered there is a CONFLICT.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := validation.BindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}

	out, err := h.signup.Execute(c.Request.Context(), ucAccount.SignupInput{
		BusinessSlug: c.Param("slug"),
		Name:         req.Name,
		Phone:        req.Phone,
		Password:     req.Password,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	httpresp.Created(c, out)
}

func (h *AuthHandler) ClientLogin(c *gin.Context) {
	var req ClientLoginRequest
	if err := validation.BindJSON(c, &req); err != nil {
		respondError(c, err)
		return
	}

	out, err := h.client.Execute(c.Request.Context(), c.Param("slug"), req.Phone, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	httpresp.OK(c, out)
}
