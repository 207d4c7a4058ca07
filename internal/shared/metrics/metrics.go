package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

var (
	rankingsTotal          atomic.Uint64
	workspaceWritesTotal   atomic.Uint64
	workspaceFailuresTotal atomic.Uint64

	rankingDuration = newHistogram([]float64{0.1, 0.5, 1, 5, 10, 50, 100, 500})
	rankingOffers   = newHistogram([]float64{1, 2, 3, 5, 10, 20, 50})
)

// ObserveRanking records one ranking computation over offerCount offers.
func ObserveRanking(offerCount int, durationMs float64) {
	rankingsTotal.Add(1)
	if durationMs < 0 {
		durationMs = 0
	}
	rankingDuration.Observe(durationMs)
	rankingOffers.Observe(float64(offerCount))
}

// IncWorkspaceWrite counts a persisted workspace change.
func IncWorkspaceWrite() {
	workspaceWritesTotal.Add(1)
}

// IncWorkspaceFailure counts a workspace load or save that failed.
func IncWorkspaceFailure() {
	workspaceFailuresTotal.Add(1)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "rankings_total", "Total offer rankings computed", rankingsTotal.Load())
	writeCounter(&buf, "workspace_writes_total", "Total workspace changes persisted", workspaceWritesTotal.Load())
	writeCounter(&buf, "workspace_failures_total", "Total workspace loads or saves that failed", workspaceFailuresTotal.Load())
	writeHistogram(&buf, "ranking_duration_ms", "Ranking computation time in milliseconds", rankingDuration.Snapshot())
	writeHistogram(&buf, "ranking_offers", "Offers per ranking", rankingOffers.Snapshot())
	return buf.String()
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	// counts are per bucket; writeHistogram accumulates them.
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
			break
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
	return out
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}
