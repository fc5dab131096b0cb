package restyutil

import (
	"log/slog"
	"strconv"
	"sync/atomic"

	"github.com/go-resty/resty/v2"
)

// InstrumentOutput receives a full request/response dump per message,
// keyed by a monotonically increasing id.
type InstrumentOutput interface {
	Write(id string, contents string)
}

var idcounter uint64

// InstrumentClient dumps every exchange the client makes to `output`.
// A nil output makes this a no-op. Useful when debugging why the
// upstream served a block page or an unexpected fragment shape.
func InstrumentClient(client *resty.Client, output InstrumentOutput) {
	if output == nil {
		return
	}

	client.OnAfterResponse(func(_ *resty.Client, res *resty.Response) error {
		messageId := strconv.FormatUint(atomic.AddUint64(&idcounter, 1), 10)
		output.Write(messageId, formatHttpMessage(res))
		slog.Debug("request completed",
			"method", res.Request.Method,
			"url", res.Request.URL,
			"status", res.StatusCode(),
			"message_id", messageId,
		)
		return nil
	})
	client.OnError(func(req *resty.Request, err error) {
		slog.Error("request failed",
			"method", req.Method,
			"url", req.URL,
			"err", err,
		)
	})
}
