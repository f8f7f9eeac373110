package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"strconv"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/fxamacker/cbor/v2"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	applog "github.com/janisto/task-manager-api/internal/platform/logging"
)

const (
	contentTypeProblemJSON = "application/problem+json"
	contentTypeProblemCBOR = "application/problem+cbor"

	msgNotFound           = "resource not found"
	msgInternalServerErr  = "internal server error"
	msgMethodNotAllowedFn = "method %s not allowed"
)

// candidateMethods are probed against the route tree to build the Allow header.
var candidateMethods = []string{
	http.MethodGet,
	http.MethodHead,
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
	http.MethodOptions,
}

// NotFoundHandler renders a 404 problem document.
func NotFoundHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeProblem(w, r, http.StatusNotFound, msgNotFound, nil)
	}
}

// MethodNotAllowedHandler renders a 405 problem document and lists the
// methods the path does accept in the Allow header.
func MethodNotAllowedHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if allow := allowedMethods(r); len(allow) > 0 {
			w.Header().Set("Allow", strings.Join(allow, ", "))
		}
		writeProblem(w, r, http.StatusMethodNotAllowed, fmt.Sprintf(msgMethodNotAllowedFn, r.Method), nil)
	}
}

// Recoverer converts panics into 500 problem documents. If the handler already
// started the response, the panic is logged and the response left as is.
// http.ErrAbortHandler is re-panicked so net/http can abort the connection.
func Recoverer() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rw := &responseWriter{ResponseWriter: w}
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(rec)
				}
				err := fmt.Errorf("panic: %v\n%s", rec, debug.Stack())
				if rw.wroteHeader {
					applog.LogError(r.Context(), "panic after response started", err)
					return
				}
				writeProblem(rw, r, http.StatusInternalServerError, msgInternalServerErr, err)
			}()
			next.ServeHTTP(rw, r)
		})
	}
}

// responseWriter records whether the response has been started.
type responseWriter struct {
	http.ResponseWriter
	wroteHeader bool
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.wroteHeader = true
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	return rw.ResponseWriter.Write(b)
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

func writeProblem(w http.ResponseWriter, r *http.Request, status int, detail string, cause error) {
	problem := &huma.ErrorModel{
		Title:  http.StatusText(status),
		Status: status,
		Detail: detail,
	}

	fields := []zap.Field{
		zap.Int("status", status),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	}
	if status >= http.StatusInternalServerError {
		applog.LogError(r.Context(), detail, cause, fields...)
	} else {
		applog.LogWarn(r.Context(), detail, fields...)
	}

	var (
		body        []byte
		err         error
		contentType = contentTypeProblemJSON
	)
	if acceptsCBOR(r.Header.Get("Accept")) {
		contentType = contentTypeProblemCBOR
		body, err = cbor.Marshal(problem)
	} else {
		body, err = json.Marshal(problem)
	}
	if err != nil {
		applog.LogError(r.Context(), "failed to encode problem", err)
		http.Error(w, http.StatusText(status), status)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		applog.LogError(r.Context(), "failed to write problem", err)
	}
}

// allowedMethods probes chi's route tree for methods registered on the request path.
func allowedMethods(r *http.Request) []string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil || rctx.Routes == nil {
		return nil
	}
	routePath := rctx.RoutePath
	if routePath == "" {
		routePath = r.URL.RawPath
		if routePath == "" {
			routePath = r.URL.Path
		}
		if routePath == "" {
			routePath = "/"
		}
	}

	allowed := make([]string, 0, len(candidateMethods))
	for _, method := range candidateMethods {
		if rctx.Routes.Match(chi.NewRouteContext(), method, routePath) {
			allowed = append(allowed, method)
		}
	}
	return allowed
}

// acceptsCBOR reports whether the Accept header prefers a CBOR representation.
// Ranking follows RFC 9110: highest q-value wins, more specific media types
// break ties, and JSON wins any remaining tie. Wildcards select JSON.
func acceptsCBOR(accept string) bool {
	if strings.TrimSpace(accept) == "" {
		return false
	}

	bestCBOR, bestJSON := mediaRank{}, mediaRank{}
	for part := range strings.SplitSeq(accept, ",") {
		mediaType, q := parseMediaRange(part)
		if q <= 0 {
			continue
		}
		switch mediaType {
		case "application/cbor":
			bestCBOR = bestCBOR.max(mediaRank{q: q, specificity: 1})
		case "application/problem+cbor":
			bestCBOR = bestCBOR.max(mediaRank{q: q, specificity: 2})
		case "application/json":
			bestJSON = bestJSON.max(mediaRank{q: q, specificity: 1})
		case "application/problem+json":
			bestJSON = bestJSON.max(mediaRank{q: q, specificity: 2})
		case "*/*", "application/*":
			bestJSON = bestJSON.max(mediaRank{q: q, specificity: 0})
		}
	}
	return bestCBOR.beats(bestJSON)
}

type mediaRank struct {
	q           float64
	specificity int
}

func (m mediaRank) beats(other mediaRank) bool {
	if m.q != other.q {
		return m.q > other.q
	}
	return m.specificity > other.specificity
}

func (m mediaRank) max(other mediaRank) mediaRank {
	if other.beats(m) {
		return other
	}
	return m
}

// parseMediaRange returns the lower-cased media type and its q-value.
// A missing or malformed q parameter counts as 1.
func parseMediaRange(part string) (string, float64) {
	params := strings.Split(part, ";")
	mediaType := strings.ToLower(strings.TrimSpace(params[0]))
	q := 1.0
	for _, p := range params[1:] {
		key, value, ok := strings.Cut(strings.TrimSpace(p), "=")
		if !ok || !strings.EqualFold(strings.TrimSpace(key), "q") {
			continue
		}
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
			q = parsed
		}
	}
	return mediaType, q
}
