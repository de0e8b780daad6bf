package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/storefront/storefront-api/internal/api/metrics"
	"github.com/storefront/storefront-api/internal/core/domain"
	"github.com/storefront/storefront-api/internal/core/ports"
	"github.com/storefront/storefront-api/internal/debounce"
)

const (
	sourceHTTP = "http"
	sourceLive = "live"

	liveReadLimit    = 4096
	liveWriteTimeout = 5 * time.Second
)

// SearchHandler serves the navigation bar search box, either per request or
// over a socket that debounces keystrokes.
type SearchHandler struct {
	catalog  ports.CatalogService
	delay    time.Duration
	log      zerolog.Logger
	upgrader websocket.Upgrader
}

func NewSearchHandler(catalog ports.CatalogService, delay time.Duration, log zerolog.Logger) *SearchHandler {
	return &SearchHandler{
		catalog: catalog,
		delay:   delay,
		log:     log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Search filters products or categories by name.
//
// @Summary      Search
// @Tags         search
// @Produce      json
// @Param        mode  query     string  false  "Product (default) or Category"
// @Param        q     query     string  false  "Case-insensitive substring; empty returns everything"
// @Success      200   {object}  searchResponse
// @Failure      400   {object}  errorResponse
// @Router       /v1/search [get]
func (h *SearchHandler) Search(c echo.Context) error {
	mode, err := domain.ParseSearchMode(c.QueryParam("mode"))
	if err != nil {
		return err
	}
	query := c.QueryParam("q")

	resp, err := h.run(c.Request().Context(), domain.SearchQuery{Mode: mode, Text: query}, sourceHTTP)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *SearchHandler) run(ctx context.Context, q domain.SearchQuery, source string) (searchResponse, error) {
	entries, err := h.catalog.Search(ctx, q.Mode, q.Text)
	if err != nil {
		return searchResponse{}, err
	}
	metrics.SearchQueriesTotal.WithLabelValues(string(q.Mode), source).Inc()
	metrics.SearchResults.WithLabelValues(string(q.Mode)).Observe(float64(len(entries)))
	return searchResponse{Mode: q.Mode, Query: q.Text, Entries: entries}, nil
}

// liveRequest is one keystroke update from the search box.
type liveRequest struct {
	Mode  string `json:"mode"`
	Query string `json:"query"`
}

type liveResults struct {
	Type    string               `json:"type"`
	Mode    domain.SearchMode    `json:"mode"`
	Query   string               `json:"query"`
	Entries []domain.SearchEntry `json:"entries"`
}

type liveError struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

// liveConn serializes writes; the reader and the debounce timer both write.
type liveConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (l *liveConn) send(msg any) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	_ = l.conn.SetWriteDeadline(time.Now().Add(liveWriteTimeout))
	return l.conn.WriteJSON(msg)
}

// Live upgrades to a WebSocket. Each message updates the query state and
// results are pushed once the query has been stable for the debounce delay.
//
// @Summary      Live search
// @Tags         search
// @Param        Upgrade  header  string  true  "websocket"
// @Success      101
// @Router       /v1/search/live [get]
func (h *SearchHandler) Live(c echo.Context) error {
	ws, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	ws.SetReadLimit(liveReadLimit)

	metrics.LiveSearchConnections.Inc()
	defer metrics.LiveSearchConnections.Dec()

	ctx := c.Request().Context()
	out := &liveConn{conn: ws}
	log := h.log.With().Str("remote_ip", c.RealIP()).Logger()

	var state *debounce.Value[domain.SearchQuery]
	state = debounce.NewValue(domain.SearchQuery{}, h.delay, func(q domain.SearchQuery) {
		resp, err := h.run(ctx, q, sourceLive)
		if err != nil {
			// Resending the same query retries it.
			state.Unsettle()
			log.Warn().Err(err).Str("mode", string(q.Mode)).Msg("live search failed")
			_ = out.send(liveError{Type: "error", Error: "search unavailable"})
			return
		}
		if err := out.send(liveResults{Type: "results", Mode: resp.Mode, Query: resp.Query, Entries: resp.Entries}); err != nil {
			log.Debug().Err(err).Msg("live search write failed")
		}
	})

	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Debug().Err(err).Msg("live search connection closed")
			}
			break
		}
		metrics.LiveSearchMessagesTotal.Inc()

		var req liveRequest
		if err := json.Unmarshal(data, &req); err != nil {
			if out.send(liveError{Type: "error", Error: "invalid message"}) != nil {
				break
			}
			continue
		}
		mode, err := domain.ParseSearchMode(req.Mode)
		if err != nil {
			if out.send(liveError{Type: "error", Error: err.Error()}) != nil {
				break
			}
			continue
		}
		state.Set(domain.SearchQuery{Mode: mode, Text: req.Query})
	}

	if state.Pending() || state.Raw() != state.Debounced() {
		log.Debug().Str("query", state.Raw().Text).Msg("live search closed before the query settled")
	}
	// Nothing may be pushed once the socket is gone.
	state.Close()
	return ws.Close()
}
