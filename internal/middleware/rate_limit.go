package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	// Limites par endpoint
	LoginMaxAttempts    = 5
	RegisterMaxAttempts = 3

	// Durées de cooldown
	LoginCooldown    = 15 * time.Minute
	RegisterCooldown = 30 * time.Minute
)

// RateLimiter limite les tentatives via Redis ; sans Redis, tout passe
type RateLimiter struct {
	redis *redis.Client
	log   *logrus.Logger
}

func NewRateLimiter(client *redis.Client, log *logrus.Logger) *RateLimiter {
	return &RateLimiter{redis: client, log: log}
}

// cooldown renvoie la durée restante si la clé de blocage existe
func (l *RateLimiter) cooldown(ctx context.Context, key string) (time.Duration, bool) {
	if l.redis.Exists(ctx, key).Val() == 0 {
		return 0, false
	}
	return l.redis.TTL(ctx, key).Val(), true
}

func tooManyRequests(c *gin.Context, message string, retryAfter time.Duration) {
	c.Header("Retry-After", fmt.Sprintf("%d", int(retryAfter.Seconds())))
	c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
		"error":       message,
		"retry_after": int(retryAfter.Seconds()),
	})
}

// Login limite les connexions échouées par IP (formulaire : pas d'email fiable avant le bind)
func (l *RateLimiter) Login() gin.HandlerFunc {
	return func(c *gin.Context) {
		if l.redis == nil || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		ip := c.ClientIP()
		key := "login_attempts:" + ip
		cooldownKey := "login_cooldown:" + ip

		if ttl, blocked := l.cooldown(ctx, cooldownKey); blocked {
			tooManyRequests(c, fmt.Sprintf("Trop de tentatives échouées. Réessayez dans %d minutes", int(ttl.Minutes())), ttl)
			return
		}

		attempts, _ := l.redis.Get(ctx, key).Int()
		if attempts >= LoginMaxAttempts {
			l.redis.Set(ctx, cooldownKey, "1", LoginCooldown)
			l.redis.Del(ctx, key)
			l.log.WithField("client_ip", ip).Warn("🚫 Connexion bloquée après trop d'échecs")
			tooManyRequests(c, fmt.Sprintf("Trop de tentatives échouées. Compte bloqué pendant %d minutes", int(LoginCooldown.Minutes())), LoginCooldown)
			return
		}

		c.Next()

		switch c.Writer.Status() {
		case http.StatusUnauthorized:
			pipe := l.redis.Pipeline()
			pipe.Incr(ctx, key)
			pipe.Expire(ctx, key, LoginCooldown)
			if _, err := pipe.Exec(ctx); err != nil {
				l.log.WithError(err).Warn("⚠️ Compteur de connexions non mis à jour")
			}
		case http.StatusOK, http.StatusFound:
			l.redis.Del(ctx, key, cooldownKey)
		}
	}
}

// Register limite les inscriptions réussies par IP
func (l *RateLimiter) Register() gin.HandlerFunc {
	return func(c *gin.Context) {
		if l.redis == nil || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		ip := c.ClientIP()
		key := "register_attempts:" + ip
		cooldownKey := "register_cooldown:" + ip

		if ttl, blocked := l.cooldown(ctx, cooldownKey); blocked {
			tooManyRequests(c, fmt.Sprintf("Trop d'inscriptions. Réessayez dans %d minutes", int(ttl.Minutes())), ttl)
			return
		}

		attempts, _ := l.redis.Get(ctx, key).Int()
		if attempts >= RegisterMaxAttempts {
			l.redis.Set(ctx, cooldownKey, "1", RegisterCooldown)
			l.redis.Del(ctx, key)
			tooManyRequests(c, fmt.Sprintf("Trop d'inscriptions. Réessayez dans %d minutes", int(RegisterCooldown.Minutes())), RegisterCooldown)
			return
		}

		c.Next()

		if c.Writer.Status() == http.StatusCreated {
			pipe := l.redis.Pipeline()
			pipe.Incr(ctx, key)
			pipe.Expire(ctx, key, RegisterCooldown)
			if _, err := pipe.Exec(ctx); err != nil {
				l.log.WithError(err).Warn("⚠️ Compteur d'inscriptions non mis à jour")
			}
		}
	}
}
