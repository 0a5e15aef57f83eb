// Package metrics provides helpers for emitting standardised portal metrics.
package metrics

import (
	"strconv"
	"time"

	obserrors "github.com/teamdesk/teamdesk/internal/observability/errors"
	"github.com/teamdesk/teamdesk/internal/observability/statsd"
)

// HTTPRequest captures details about a served request for metric emission.
type HTTPRequest struct {
	Method   string
	Route    string
	Status   int
	Duration time.Duration
}

// EmitHTTPRequest emits request count and latency metrics.
func EmitHTTPRequest(sink statsd.Sink, in HTTPRequest) {
	if sink == nil {
		return
	}

	route := in.Route
	if route == "" {
		route = "unmatched"
	}
	tags := map[string]string{
		"method": in.Method,
		"route":  route,
		"status": strconv.Itoa(in.Status),
	}

	sink.Count("http.requests", 1, tags)
	sink.Timing("http.request.duration", in.Duration, tags)
}

// NotificationEvent captures details about an outbound notification attempt.
type NotificationEvent struct {
	Event string
	Err   error
}

// EmitNotification emits delivery metrics for outbound notifications, tagging
// failures with a normalized error class.
func EmitNotification(sink statsd.Sink, in NotificationEvent) {
	if sink == nil {
		return
	}

	tags := map[string]string{"event": in.Event}
	if in.Err != nil {
		tags["result"] = "error"
		tags["error_class"] = obserrors.Classify(in.Err)
	} else {
		tags["result"] = "success"
	}

	sink.Count("notify.deliveries", 1, tags)
}
