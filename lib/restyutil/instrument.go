// Package restyutil dumps full request/response exchanges of a resty
// client to an output sink. Tracing lives in lib/telemetry, this is
// the heavier debugging layer you turn on when a scraper misbehaves
// and you need to see exactly what the portal sent back.
package restyutil

import (
	"log/slog"
	"strconv"
	"sync/atomic"

	"github.com/go-resty/resty/v2"
)

type InstrumentOutput interface {
	Write(id string, contents string)
}

// InstrumentClient registers dump middleware on client. A nil output
// makes this a no-op, callers can wire it unconditionally.
func InstrumentClient(client *resty.Client, output InstrumentOutput) {
	if output == nil {
		return
	}

	var idcounter uint64
	client.OnAfterResponse(func(_ *resty.Client, res *resty.Response) error {
		id := strconv.FormatUint(atomic.AddUint64(&idcounter, 1), 10)
		output.Write(id, formatHttpMessage(res))
		slog.DebugContext(
			res.Request.Context(), "dumped http exchange",
			"method", res.Request.Method,
			"url", res.Request.URL,
			"message_id", id,
		)
		return nil
	})
}
