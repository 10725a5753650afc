package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"invoice_back_end/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

// BindingErrors transforme les erreurs du validator en messages par champ
func BindingErrors(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"_": "Requête invalide"}
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		name := lowerFirst(fe.Field())
		switch fe.Tag() {
		case "required":
			fields[name] = fe.Field() + " is required."
		case "email":
			fields[name] = "Invalid email address."
		case "max":
			fields[name] = fe.Field() + " must be at most " + fe.Param() + " characters."
		case "min", "gt", "gte":
			fields[name] = fe.Field() + " is too small."
		default:
			fields[name] = fe.Field() + " is invalid."
		}
	}
	return fields
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// BadRequest répond 400 avec les erreurs de champ du bind
func BadRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides", "fields": BindingErrors(err)})
}

// RespondError associe une erreur de service à un statut HTTP
func RespondError(c *gin.Context, log *logrus.Logger, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides", "fields": verr.Fields})
	case errors.Is(err, services.ErrEmptyOrder):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "fields": map[string]string{"orderItems": "At least one order line is required."}})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Introuvable"})
	case errors.Is(err, services.ErrDuplicateEmail):
		c.JSON(http.StatusConflict, gin.H{"error": "Email already registered.", "fields": map[string]string{"email": "Email already registered."}})
	case errors.Is(err, services.ErrAlreadyPaid):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid login attempt."})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		log.WithError(err).WithFields(logrus.Fields{
			"path":       c.Request.URL.Path,
			"request_id": c.GetString("request_id"),
		}).Error("❌ Erreur serveur")
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur interne du serveur"})
	}
}

// ParamID lit un identifiant numérique dans l'URL (ou la query) ; 404 si illisible
func ParamID(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	if raw == "" {
		raw = c.Query(name)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Introuvable"})
		return 0, false
	}
	return id, true
}
