package account

import (
	"context"
	"net/http"

	"invoice_back_end/internal/handlers"
	"invoice_back_end/internal/middleware"
	"invoice_back_end/internal/models"
	"invoice_back_end/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type AccountService interface {
	Register(ctx context.Context, in services.RegisterInput) (*models.Customer, error)
	Authenticate(ctx context.Context, email, password string) (models.Identity, error)
}

type Handler struct {
	accounts AccountService
	sessions *middleware.Sessions
	log      *logrus.Logger
}

func NewHandler(accounts AccountService, sessions *middleware.Sessions, log *logrus.Logger) *Handler {
	return &Handler{accounts: accounts, sessions: sessions, log: log}
}

type registerForm struct {
	CustomerName   string `form:"customerName" json:"customerName" binding:"required"`
	Email          string `form:"email" json:"email" binding:"required,email"`
	Password       string `form:"password" json:"password" binding:"required"`
	Phone          string `form:"phone" json:"phone" binding:"required"`
	BillingAddress string `form:"billingAddress" json:"billingAddress" binding:"required"`
}

type loginForm struct {
	Email    string `form:"email" json:"email" binding:"required,email"`
	Password string `form:"password" json:"password" binding:"required"`
}

// GET /Account/Register
func (h *Handler) RegisterForm(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"form":   "register",
		"fields": []string{"customerName", "email", "password", "phone", "billingAddress"},
	})
}

// POST /Account/Register
func (h *Handler) Register(c *gin.Context) {
	var form registerForm
	if err := c.ShouldBind(&form); err != nil {
		handlers.BadRequest(c, err)
		return
	}

	customer, err := h.accounts.Register(c.Request.Context(), services.RegisterInput{
		Name:           form.CustomerName,
		Email:          form.Email,
		Password:       form.Password,
		Phone:          form.Phone,
		BillingAddress: form.BillingAddress,
	})
	if err != nil {
		handlers.RespondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"customer": customer,
		"redirect": middleware.LoginPath,
	})
}

// GET /Account/Login
func (h *Handler) LoginForm(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"form": "login", "fields": []string{"email", "password"}})
}

// POST /Account/Login
func (h *Handler) Login(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBind(&form); err != nil {
		handlers.BadRequest(c, err)
		return
	}

	who, err := h.accounts.Authenticate(c.Request.Context(), form.Email, form.Password)
	if err != nil {
		handlers.RespondError(c, h.log, err)
		return
	}

	if err := h.sessions.SignIn(c, who); err != nil {
		handlers.RespondError(c, h.log, err)
		return
	}

	h.log.WithField("customer_id", who.CustomerID).Info("✅ Connexion réussie")
	c.JSON(http.StatusOK, gin.H{"identity": who, "redirect": "/Order"})
}

// GET /Account/Logout
func (h *Handler) Logout(c *gin.Context) {
	if err := h.sessions.SignOut(c); err != nil {
		h.log.WithError(err).Warn("⚠️ Cookie de session non supprimé")
	}
	if middleware.WantsJSON(c) {
		c.JSON(http.StatusOK, gin.H{"redirect": middleware.LoginPath})
		return
	}
	c.Redirect(http.StatusFound, middleware.LoginPath)
}
