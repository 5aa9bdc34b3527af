package middleware

import (
	"net/http"
	"sync"
	"time"

	"tippool/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Fixed-window counters per IP, one map for login attempts and one for the
// general API. Entries are purged in the background so forgotten IPs do not
// accumulate.

const maxIntentosLogin = 20

type ventanaConteo struct {
	count     int
	windowEnd time.Time
	mu        sync.Mutex
}

var (
	loginMap   = make(map[string]*ventanaConteo)
	loginMapMu sync.Mutex

	apiMap   = make(map[string]*ventanaConteo)
	apiMapMu sync.Mutex
)

func tomarEntrada(m map[string]*ventanaConteo, mu *sync.Mutex, ip string) *ventanaConteo {
	mu.Lock()
	defer mu.Unlock()
	entry, ok := m[ip]
	if !ok {
		entry = &ventanaConteo{}
		m[ip] = entry
	}
	return entry
}

// contar registers one hit and reports whether the limit was exceeded.
func (e *ventanaConteo) contar(limit int, window time.Duration) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := time.Now()
	if now.After(e.windowEnd) {
		e.count = 0
		e.windowEnd = now.Add(window)
	}
	e.count++
	return e.count > limit
}

// LoginRateLimiter caps authentication attempts per IP so credential
// stuffing gets throttled before bcrypt does any work.
func LoginRateLimiter() gin.HandlerFunc {
	return func(c *gin.Context) {
		entry := tomarEntrada(loginMap, &loginMapMu, c.ClientIP())
		if entry.contar(maxIntentosLogin, time.Minute) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("Demasiados intentos de login. Intente en 1 minuto."))
			return
		}
		c.Next()
	}
}

// RateLimiter is the general per-IP limiter mounted on the whole API.
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		entry := tomarEntrada(apiMap, &apiMapMu, c.ClientIP())
		if entry.contar(limit, window) {
			entry.mu.Lock()
			retryAfter := entry.windowEnd.Format(time.RFC1123)
			entry.mu.Unlock()
			c.Header("Retry-After", retryAfter)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("Demasiadas solicitudes. Intente nuevamente en un momento."))
			return
		}
		c.Next()
	}
}

const purgeInterval = 5 * time.Minute

func init() {
	go purgarVencidas()
}

func purgarVencidas() {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()

	for range ticker.C {
		purged := purgarMapa(loginMap, &loginMapMu) + purgarMapa(apiMap, &apiMapMu)
		if purged > 0 {
			log.Debug().Int("purged", purged).Msg("rate limiter entries purged")
		}
	}
}

func purgarMapa(m map[string]*ventanaConteo, mu *sync.Mutex) int {
	now := time.Now()
	purged := 0

	mu.Lock()
	defer mu.Unlock()
	for ip, entry := range m {
		entry.mu.Lock()
		if now.After(entry.windowEnd) {
			delete(m, ip)
			purged++
		}
		entry.mu.Unlock()
	}
	return purged
}
