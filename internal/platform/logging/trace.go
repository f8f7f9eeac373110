package logging

import (
	"fmt"
	"os"
	"regexp"
	"sync"

	"go.uber.org/zap"
)

const traceparentHeader = "traceparent"

// W3C Trace Context: {version}-{trace-id}-{parent-id}-{trace-flags}
var traceparentRe = regexp.MustCompile(`^([0-9a-fA-F]{2})-([0-9a-fA-F]{32})-([0-9a-fA-F]{16})-([0-9a-fA-F]{2})$`)

var (
	projectIDOnce   sync.Once
	cachedProjectID string
)

// traceContext is the parsed form of a traceparent header.
type traceContext struct {
	TraceID string
	SpanID  string
	Sampled bool
}

func parseTraceparent(header string) (traceContext, bool) {
	m := traceparentRe.FindStringSubmatch(header)
	if len(m) != 5 {
		return traceContext{}, false
	}
	return traceContext{TraceID: m[2], SpanID: m[3], Sampled: m[4] == "01"}, true
}

// resource formats the Cloud Trace resource name for the trace.
func (tc traceContext) resource(projectID string) string {
	return fmt.Sprintf("projects/%s/traces/%s", projectID, tc.TraceID)
}

// requestFields builds the per-request logger fields. Cloud Trace fields are
// only emitted when both a project ID and a valid traceparent are present.
func requestFields(header, projectID, requestID string) []zap.Field {
	var fields []zap.Field
	if tc, ok := parseTraceparent(header); ok && projectID != "" {
		fields = append(fields,
			zap.String("logging.googleapis.com/trace", tc.resource(projectID)),
			zap.String("logging.googleapis.com/spanId", tc.SpanID),
			zap.Bool("logging.googleapis.com/trace_sampled", tc.Sampled),
		)
	}
	if requestID != "" {
		fields = append(fields, zap.String("requestId", requestID))
	}
	return fields
}

func resolveProjectID() string {
	projectIDOnce.Do(func() {
		for _, key := range []string{"GOOGLE_CLOUD_PROJECT", "GCP_PROJECT", "GCLOUD_PROJECT", "PROJECT_ID"} {
			if v := os.Getenv(key); v != "" {
				cachedProjectID = v
				return
			}
		}
	})
	return cachedProjectID
}
