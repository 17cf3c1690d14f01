package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	LoginMaxAttempts = 5
	LoginCooldown    = 15 * time.Minute
)

// LoginRateLimit limite les échecs de connexion admin par IP ; sans Redis il laisse tout passer
func LoginRateLimit(rdb *redis.Client, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		ip := c.ClientIP()
		key := "login_attempts:" + ip
		cooldownKey := "login_cooldown:" + ip

		// En cooldown ?
		ttl, err := rdb.TTL(ctx, cooldownKey).Result()
		if err != nil {
			log.Error().Err(err).Str("ip", ip).Msg("❌ Lecture du cooldown impossible")
		}
		if ttl > 0 {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       fmt.Sprintf("Trop de tentatives échouées. Réessayez dans %d minutes", int(ttl.Minutes())+1),
				"retry_after": int(ttl.Seconds()),
			})
			return
		}

		attempts, err := rdb.Get(ctx, key).Int()
		if err != nil && !errors.Is(err, redis.Nil) {
			log.Error().Err(err).Str("ip", ip).Msg("❌ Lecture des tentatives impossible")
		}
		if attempts >= LoginMaxAttempts {
			if err := rdb.Set(ctx, cooldownKey, "1", LoginCooldown).Err(); err != nil {
				log.Error().Err(err).Str("ip", ip).Msg("❌ Pose du cooldown impossible")
			}
			if err := rdb.Del(ctx, key).Err(); err != nil {
				log.Error().Err(err).Str("ip", ip).Msg("❌ Remise à zéro des tentatives impossible")
			}
			log.Warn().Str("ip", ip).Msg("🔒 Connexion admin bloquée")

			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       fmt.Sprintf("Trop de tentatives échouées. Bloqué pendant %d minutes", int(LoginCooldown.Minutes())),
				"retry_after": int(LoginCooldown.Seconds()),
			})
			return
		}

		c.Next()

		switch c.Writer.Status() {
		case http.StatusUnauthorized:
			pipe := rdb.Pipeline()
			pipe.Incr(ctx, key)
			pipe.Expire(ctx, key, LoginCooldown)
			if _, err := pipe.Exec(ctx); err != nil {
				log.Error().Err(err).Msg("❌ Compteur de tentatives indisponible")
			}
		case http.StatusOK:
			if err := rdb.Del(ctx, key, cooldownKey).Err(); err != nil {
				log.Error().Err(err).Str("ip", ip).Msg("❌ Remise à zéro des tentatives impossible")
			}
		}
	}
}
