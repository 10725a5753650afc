package middleware

import (
	"net/http"
	"strings"

	"invoice_back_end/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/sirupsen/logrus"
)

const (
	SessionName = "invoice_session"
	identityKey = "identity"
	LoginPath   = "/Account/Login"
)

// Sessions lit et écrit l'identité du client dans le cookie de session
type Sessions struct {
	store sessions.Store
	log   *logrus.Logger
}

func NewSessions(secret string, secure bool, log *logrus.Logger) *Sessions {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   7 * 24 * 3600,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &Sessions{store: store, log: log}
}

// SignIn enregistre l'identité dans le cookie
func (s *Sessions) SignIn(c *gin.Context, who models.Identity) error {
	session, _ := s.store.Get(c.Request, SessionName)
	session.Values["customer_id"] = who.CustomerID
	session.Values["name"] = who.Name
	session.Values["email"] = who.Email
	session.Values["role"] = who.Role
	return session.Save(c.Request, c.Writer)
}

// SignOut expire le cookie
func (s *Sessions) SignOut(c *gin.Context) error {
	session, _ := s.store.Get(c.Request, SessionName)
	session.Values = map[interface{}]interface{}{}
	session.Options.MaxAge = -1
	return session.Save(c.Request, c.Writer)
}

// Identity lit l'identité du cookie ; false si absente ou illisible
func (s *Sessions) Identity(r *http.Request) (models.Identity, bool) {
	session, err := s.store.Get(r, SessionName)
	if err != nil {
		return models.Identity{}, false
	}
	id, ok := session.Values["customer_id"].(int64)
	if !ok || id <= 0 {
		return models.Identity{}, false
	}
	name, _ := session.Values["name"].(string)
	email, _ := session.Values["email"].(string)
	role, _ := session.Values["role"].(string)
	return models.Identity{CustomerID: id, Name: name, Email: email, Role: role}, true
}

// LoadIdentity place l'identité (si présente) dans le contexte gin, sans bloquer
func (s *Sessions) LoadIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if who, ok := s.Identity(c.Request); ok {
			SetIdentity(c, who)
		}
		c.Next()
	}
}

// RequireSession : redirection vers la page de connexion, ou 401 pour les clients JSON
func (s *Sessions) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		who, ok := s.Identity(c.Request)
		if !ok {
			s.log.WithField("path", c.Request.URL.Path).Debug("🔒 Session absente")
			if WantsJSON(c) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentification requise"})
				return
			}
			c.Redirect(http.StatusFound, LoginPath)
			c.Abort()
			return
		}
		SetIdentity(c, who)
		c.Next()
	}
}

func SetIdentity(c *gin.Context, who models.Identity) {
	c.Set(identityKey, who)
}

// CurrentIdentity renvoie l'identité posée par LoadIdentity/RequireSession
func CurrentIdentity(c *gin.Context) (models.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return models.Identity{}, false
	}
	who, ok := v.(models.Identity)
	return who, ok
}

// WantsJSON : le client attend du JSON plutôt qu'une redirection
func WantsJSON(c *gin.Context) bool {
	if strings.Contains(c.GetHeader("Accept"), "application/json") {
		return true
	}
	if strings.Contains(c.GetHeader("Content-Type"), "application/json") {
		return true
	}
	return c.GetHeader("X-Requested-With") == "XMLHttpRequest"
}
