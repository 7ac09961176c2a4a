package tmdb

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"moviecatalog/internal/logging"
)

const CacheTTL = 2 * time.Minute

type Handler struct {
	Client *Client
	cache  *responseCache
}

func NewHandler(client *Client) *Handler {
	return &Handler{
		Client: client,
		cache:  newResponseCache(CacheTTL),
	}
}

func (h *Handler) StartJanitor(stop <-chan struct{}) {
	h.cache.StartJanitor(time.Minute, stop)
}

// Proxy forwards GET requests under /tmdb/* to the TMDB API, caching
// responses for CacheTTL. The cache key excludes the api key.
func (h *Handler) Proxy(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "tmdb_proxy")

	path := c.Param("*")
	query := c.Request().URL.Query()
	query.Del("api_key")

	key := path + "?" + query.Encode()
	if cached, ok := h.cache.Get(key); ok {
		return c.Blob(cached.status, cached.contentType, cached.body)
	}

	status, contentType, body, err := h.Client.Get(ctx, path, query)
	if err != nil {
		l.Error("tmdb request failed", "path", path, "error", err)
		return echo.NewHTTPError(http.StatusBadGateway, "movie database unavailable")
	}
	if contentType == "" {
		contentType = echo.MIMEApplicationJSON
	}

	if status == http.StatusOK {
		h.cache.Set(key, cachedResponse{status: status, contentType: contentType, body: body})
	}

	return c.Blob(status, contentType, body)
}
