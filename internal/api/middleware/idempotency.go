package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const IdempotencyKeyHeader = "Idempotency-Key"

// entryTTL bounds how long a replayed response stays available. Double-clicks
// and client retries land well inside this window.
const entryTTL = 24 * time.Hour

type idempotencyEntry struct {
	requestHash string
	response    []byte
	storedAt    time.Time
}

// IdempotencyStore keeps completed checkout responses in memory, keyed by the
// caller's idempotency key. The cart itself is not durable, so neither is
// this; a restart forgets both together.
type IdempotencyStore struct {
	mu      sync.Mutex
	entries map[string]idempotencyEntry
}

func NewIdempotencyStore() *IdempotencyStore {
	return &IdempotencyStore{entries: make(map[string]idempotencyEntry)}
}

func (s *IdempotencyStore) get(key string) (idempotencyEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[key]
	if !ok {
		return idempotencyEntry{}, false
	}
	if time.Since(entry.storedAt) > entryTTL {
		delete(s.entries, key)
		return idempotencyEntry{}, false
	}
	return entry, true
}

// Save records a successful response for later replay under the same key
func (s *IdempotencyStore) Save(key, requestHash string, response []byte) {
	if key == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = idempotencyEntry{
		requestHash: requestHash,
		response:    response,
		storedAt:    time.Now(),
	}
}

// IdempotencyMiddleware handles idempotency key validation for checkout
// submissions: the same key with the same payload replays the stored
// response instead of creating a second sale.
func IdempotencyMiddleware(store *IdempotencyStore, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Only apply to POST/PUT/PATCH requests
		if c.Request.Method != http.MethodPost && c.Request.Method != http.MethodPut && c.Request.Method != http.MethodPatch {
			c.Next()
			return
		}

		idempotencyKey := c.GetHeader(IdempotencyKeyHeader)
		if idempotencyKey == "" {
			c.Next()
			return
		}

		// Read request body
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			logger.Error("Failed to read request body for idempotency", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process request"})
			c.Abort()
			return
		}

		// Restore body for handler
		c.Request.Body = io.NopCloser(bytes.NewBuffer(body))

		// Calculate request hash
		hash := sha256.Sum256(body)
		requestHash := hex.EncodeToString(hash[:])

		if entry, exists := store.get(idempotencyKey); exists {
			if entry.requestHash != requestHash {
				// Same key, different payload - conflict
				c.JSON(http.StatusConflict, gin.H{
					"error": "idempotency key conflict: same key used with different payload",
				})
				c.Abort()
				return
			}

			// Same key, same payload - replay the stored response
			logger.Info("Replaying idempotent checkout response", zap.String("key", idempotencyKey))
			c.Data(http.StatusOK, "application/json", entry.response)
			c.Abort()
			return
		}

		// New key - handler stores the response after a successful submission
		c.Set("idempotency_key", idempotencyKey)
		c.Set("idempotency_request_hash", requestHash)

		c.Next()
	}
}

// GetIdempotencyInfo retrieves idempotency information from context
func GetIdempotencyInfo(c *gin.Context) (key string, requestHash string) {
	keyVal, _ := c.Get("idempotency_key")
	hashVal, _ := c.Get("idempotency_request_hash")

	key, _ = keyVal.(string)
	requestHash, _ = hashVal.(string)

	return key, requestHash
}
