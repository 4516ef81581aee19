package middleware

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ikkim/fyyur-backend/pkg/redis"
)

const (
	FlashSuccess = "success"
	FlashError   = "error"

	flashStateKey = "flash_state"
	flashMaxAge   = 10 * time.Minute
)

// Flash is a one-shot notice shown on the next rendered page.
type Flash struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

// FlashStore persists pending notices between requests of one browser.
type FlashStore interface {
	Load(c *gin.Context) ([]Flash, error)
	Save(c *gin.Context, flashes []Flash) error
}

type flashState struct {
	store   FlashStore
	pending []Flash
}

// FlashMiddleware loads the notices left by the previous request. They stay
// stored until a page consumes them with Flashes.
func FlashMiddleware(store FlashStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		state := &flashState{store: store}

		loaded, err := store.Load(c)
		if err != nil {
			GetLoggerFromContext(c).Warn("Failed to load flash messages", map[string]interface{}{
				"error": err.Error(),
			})
		}
		state.pending = loaded

		c.Set(flashStateKey, state)
		c.Next()
	}
}

// AddFlash queues a notice and persists it immediately so it survives a
// redirect.
func AddFlash(c *gin.Context, category, message string) {
	state := getFlashState(c)
	if state == nil {
		return
	}
	state.pending = append(state.pending, Flash{Category: category, Message: message})
	if err := state.store.Save(c, state.pending); err != nil {
		GetLoggerFromContext(c).Error("Failed to save flash message", err, map[string]interface{}{
			"category": category,
		})
	}
}

// Flashes returns and clears every pending notice.
func Flashes(c *gin.Context) []Flash {
	state := getFlashState(c)
	if state == nil || len(state.pending) == 0 {
		return []Flash{}
	}

	out := state.pending
	state.pending = nil
	if err := state.store.Save(c, nil); err != nil {
		GetLoggerFromContext(c).Error("Failed to clear flash messages", err, nil)
	}
	return out
}

func getFlashState(c *gin.Context) *flashState {
	if v, ok := c.Get(flashStateKey); ok {
		if state, ok := v.(*flashState); ok {
			return state
		}
	}
	return nil
}

// replaceSetCookie drops any Set-Cookie header already queued for name so
// the last write in a request wins.
func replaceSetCookie(c *gin.Context, cookie *http.Cookie) {
	header := c.Writer.Header()
	var kept []string
	for _, v := range header.Values("Set-Cookie") {
		if !strings.HasPrefix(v, cookie.Name+"=") {
			kept = append(kept, v)
		}
	}
	header.Del("Set-Cookie")
	for _, v := range kept {
		header.Add("Set-Cookie", v)
	}
	http.SetCookie(c.Writer, cookie)
}

// CookieFlashStore keeps the notices themselves in a cookie.
type CookieFlashStore struct {
	name string
}

func NewCookieFlashStore(name string) *CookieFlashStore {
	return &CookieFlashStore{name: name}
}

func (s *CookieFlashStore) Load(c *gin.Context) ([]Flash, error) {
	raw, err := c.Cookie(s.name)
	if err != nil || raw == "" {
		return nil, nil
	}

	data, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return nil, err
	}

	var flashes []Flash
	if err := json.Unmarshal(data, &flashes); err != nil {
		return nil, err
	}
	return flashes, nil
}

func (s *CookieFlashStore) Save(c *gin.Context, flashes []Flash) error {
	cookie := &http.Cookie{
		Name:     s.name,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	if len(flashes) == 0 {
		cookie.MaxAge = -1
		replaceSetCookie(c, cookie)
		return nil
	}

	data, err := json.Marshal(flashes)
	if err != nil {
		return err
	}
	cookie.Value = base64.RawURLEncoding.EncodeToString(data)
	cookie.MaxAge = int(flashMaxAge.Seconds())
	replaceSetCookie(c, cookie)
	return nil
}

// FlashBackend is the session keyed storage behind RedisFlashStore.
type FlashBackend interface {
	Load(ctx context.Context, sessionID string) ([]string, error)
	Replace(ctx context.Context, sessionID string, values []string) error
}

var _ FlashBackend = (*redis.FlashStore)(nil)

// RedisFlashStore keeps only a random session id in the cookie and the
// notices in Redis.
type RedisFlashStore struct {
	name    string
	backend FlashBackend
}

func NewRedisFlashStore(name string, backend FlashBackend) *RedisFlashStore {
	return &RedisFlashStore{name: name, backend: backend}
}

func (s *RedisFlashStore) sessionID(c *gin.Context, create bool) string {
	if id, ok := c.Get(s.name); ok {
		return id.(string)
	}

	id, err := c.Cookie(s.name)
	if err == nil {
		if _, parseErr := uuid.Parse(id); parseErr == nil {
			c.Set(s.name, id)
			return id
		}
	}
	if !create {
		return ""
	}

	id = uuid.NewString()
	c.Set(s.name, id)
	replaceSetCookie(c, &http.Cookie{
		Name:     s.name,
		Value:    id,
		Path:     "/",
		MaxAge:   int(flashMaxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

func (s *RedisFlashStore) Load(c *gin.Context) ([]Flash, error) {
	id := s.sessionID(c, false)
	if id == "" {
		return nil, nil
	}

	values, err := s.backend.Load(c.Request.Context(), id)
	if err != nil {
		return nil, err
	}

	flashes := make([]Flash, 0, len(values))
	for _, v := range values {
		var f Flash
		if err := json.Unmarshal([]byte(v), &f); err != nil {
			continue
		}
		flashes = append(flashes, f)
	}
	return flashes, nil
}

func (s *RedisFlashStore) Save(c *gin.Context, flashes []Flash) error {
	id := s.sessionID(c, len(flashes) > 0)
	if id == "" {
		return nil
	}

	values := make([]string, 0, len(flashes))
	for _, f := range flashes {
		data, err := json.Marshal(f)
		if err != nil {
			return err
		}
		values = append(values, string(data))
	}
	return s.backend.Replace(c.Request.Context(), id, values)
}
