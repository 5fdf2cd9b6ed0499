package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks implements every hook interface by writing debug-level records to
// a charmbracelet logger. Failures are logged at warn level.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks writing to l, or to log.Default() if l is nil.
func NewLogHooks(l *log.Logger) *LogHooks {
	if l == nil {
		l = log.Default()
	}
	return &LogHooks{logger: l.WithPrefix("hooks")}
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ HTTPHooks     = (*LogHooks)(nil)
)

func (h *LogHooks) OnPlanStart(_ context.Context, terminals int) {
	h.logger.Debug("plan start", "terminals", terminals)
}

func (h *LogHooks) OnPlanComplete(_ context.Context, terminals, connections int, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("plan failed", "terminals", terminals, "err", err)
		return
	}
	h.logger.Debug("plan done", "terminals", terminals, "connections", connections, "took", d.Round(time.Microsecond))
}

func (h *LogHooks) OnVerifyStart(_ context.Context, terminals int) {
	h.logger.Debug("verify start", "terminals", terminals)
}

func (h *LogHooks) OnVerifyComplete(_ context.Context, terminals int, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("verify failed", "terminals", terminals, "err", err)
		return
	}
	h.logger.Debug("verify done", "terminals", terminals, "took", d.Round(time.Microsecond))
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "key", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "key", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "key", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, route string) {
	h.logger.Debug("request", "method", method, "route", route)
}

func (h *LogHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	h.logger.Debug("response", "method", method, "route", route, "status", status, "took", d.Round(time.Microsecond))
}
