package middleware

import (
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"workpulse/internal/security"
	"workpulse/internal/service"
)

const (
	ClientTokenHeader = "X-Client-Token"

	clientIDKey     = "client_id"
	sessionStoreKey = "session_store"
	persistKey      = "client_persist"
)

// Client resolves the caller's SessionStore from its client token. Callers
// without a usable token get an unregistered anonymous store; it becomes a
// client, with a token in the X-Client-Token response header, only when a
// handler calls Persist.
func Client(secret string, ttl time.Duration, clients *service.ClientRegistry, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenStr := clientToken(c); tokenStr != "" {
			claims, err := security.ParseClientToken(tokenStr, secret)
			if err == nil {
				if store, ok := clients.Open(claims.ClientID); ok {
					c.Set(clientIDKey, claims.ClientID)
					c.Set(sessionStoreKey, store)
					c.Next()
					return
				}
			}
			log.Debug().Err(err).Msg("client token not usable, serving anonymously")
		}

		store := clients.Anonymous()
		c.Set(sessionStoreKey, store)
		c.Set(persistKey, func() error {
			clientID := clients.Adopt(store)
			token, err := security.GenerateClientToken(secret, clientID, ttl)
			if err != nil {
				return err
			}
			c.Writer.Header().Set(ClientTokenHeader, token)
			c.Set(clientIDKey, clientID)
			return nil
		})
		c.Next()
	}
}

// Persist registers an anonymous caller's store as a client and issues its
// token. Handlers call it after writing state worth keeping, before the
// response body. Known clients are left alone.
func Persist(c *gin.Context) error {
	if ClientIDFrom(c) != "" {
		return nil
	}
	v, ok := c.Get(persistKey)
	if !ok {
		return errors.New("no client to persist")
	}
	persist, _ := v.(func() error)
	if persist == nil {
		return errors.New("no client to persist")
	}
	return persist()
}

func clientToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	}
	return strings.TrimSpace(c.GetHeader(ClientTokenHeader))
}

// StoreFrom returns the SessionStore installed by Client.
func StoreFrom(c *gin.Context) *service.SessionStore {
	v, ok := c.Get(sessionStoreKey)
	if !ok {
		return nil
	}
	store, _ := v.(*service.SessionStore)
	return store
}

func ClientIDFrom(c *gin.Context) string {
	return c.GetString(clientIDKey)
}
