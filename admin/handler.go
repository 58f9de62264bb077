package admin

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/dustin/go-humanize"
	"github.com/golang/gddo/httputil/header"
	"github.com/icecave/forager/cache"
)

const (
	// HealthPath is the path of the health-check endpoint.
	HealthPath = "/health"

	// StatsPath is the path of the cache statistics endpoint.
	StatsPath = "/stats"
)

// StatsSource provides cache statistics.
type StatsSource interface {
	Stats() cache.Stats
}

// Handler is an http.Handler that serves health-check information and cache
// statistics.
type Handler struct {
	Checker Checker
	Stats   StatsSource
	Logger  *log.Logger
}

func (handler *Handler) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	if request.Method != http.MethodGet && request.Method != http.MethodHead {
		writer.Header().Set("Allow", "GET, HEAD")
		http.Error(writer, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	switch request.URL.Path {
	case HealthPath:
		handler.serveHealth(writer)
	case StatsPath:
		handler.serveStats(writer, request)
	default:
		http.NotFound(writer, request)
	}
}

func (handler *Handler) serveHealth(writer http.ResponseWriter) {
	writer.Header().Set("Content-Type", "text/plain; charset=utf-8")

	status := Status{
		true,
		"The proxy is accepting requests, but no health-checker is configured.",
	}

	if handler.Checker != nil {
		status = handler.Checker.Check()
	}

	if status.IsHealthy {
		writer.WriteHeader(http.StatusOK)
	} else {
		if handler.Logger != nil {
			handler.Logger.Println(status)
		}

		writer.WriteHeader(http.StatusServiceUnavailable)
	}

	io.WriteString(writer, status.Message)
}

func (handler *Handler) serveStats(writer http.ResponseWriter, request *http.Request) {
	if handler.Stats == nil {
		http.NotFound(writer, request)
		return
	}

	stats := handler.Stats.Stats()

	if useJSON(request) {
		writer.Header().Set("Content-Type", "application/json")
		json.NewEncoder(writer).Encode(stats)
		return
	}

	writer.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(writer, FormatStats(stats))
}

// FormatStats renders stats as human-readable text, one value per line.
func FormatStats(stats cache.Stats) string {
	return fmt.Sprintf(
		"hits: %s\n"+
			"misses: %s\n"+
			"insertions: %s\n"+
			"evictions: %s\n"+
			"rejections: %s\n"+
			"entries: %s\n"+
			"size: %s / %s\n"+
			"max object size: %s\n",
		humanize.Comma(stats.Hits),
		humanize.Comma(stats.Misses),
		humanize.Comma(stats.Insertions),
		humanize.Comma(stats.Evictions),
		humanize.Comma(stats.Rejections),
		humanize.Comma(int64(stats.Entries)),
		humanize.Bytes(uint64(stats.Size)),
		humanize.Bytes(uint64(stats.MaxSize)),
		humanize.Bytes(uint64(stats.MaxObjectSize)),
	)
}

func useJSON(request *http.Request) bool {
	jsonQ := -1.0
	textQ := 0.0

	for _, spec := range header.ParseAccept(request.Header, "Accept") {
		if spec.Value == "application/json" {
			if spec.Q > jsonQ {
				jsonQ = spec.Q
			}
		} else if spec.Value == "text/plain" || spec.Value == "*/*" {
			if spec.Q > textQ {
				textQ = spec.Q
			}
		}
	}

	return jsonQ > textQ
}
