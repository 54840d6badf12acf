package bufferedlogger

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"slices"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
)

// HeaderRequestID is read for the request token and echoed on the response.
const HeaderRequestID = "X-Request-Id"

// NewFunc builds the BufferedLogger for one request. Factory.New is a NewFunc.
type NewFunc func(req Request) *BufferedLogger

// PanicError is recorded as an internal fault when a handler panics.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// RequestToken picks the token for r: the X-Request-Id header, then the
// OpenTelemetry trace id of the request context, then a new UUID.
func RequestToken(r *http.Request) string {
	if id := strings.TrimSpace(r.Header.Get(HeaderRequestID)); id != "" {
		return id
	}
	if spanCtx := trace.SpanContextFromContext(r.Context()); spanCtx.HasTraceID() {
		return spanCtx.TraceID().String()
	}
	return uuid.NewString()
}

// RequestFromHTTP describes r as a Request: the method, the path, then the
// query parameters sorted by name. Repeated query values are kept as a list.
func RequestFromHTTP(r *http.Request) Request {
	query := r.URL.Query()
	params := make([]Parameter, 0, len(query)+2)
	params = append(params, Param("method", r.Method), Param("path", r.URL.Path))

	names := make([]string, 0, len(query))
	for name := range query {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		values := query[name]
		if len(values) == 1 {
			params = append(params, Param(name, values[0]))
		} else {
			params = append(params, Param(name, values))
		}
	}
	return NewRequest(RequestToken(r), params...)
}

// Middleware gives every request its own BufferedLogger, reachable through
// FromContext, and flushes it when the handler returns.
//
// A panicking handler has the panic recorded as an internal *PanicError; the
// logger is flushed and the panic continues up the stack.
//
// Example:
//
//	mux := http.NewServeMux()
//	http.ListenAndServe(":8080", bufferedlogger.Middleware(factory.New)(mux))
func Middleware(newLogger NewFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			req := RequestFromHTTP(r)
			l := newLogger(req)
			w.Header().Set(HeaderRequestID, req.Token())

			defer func() {
				if rec := recover(); rec != nil {
					l.RecordInternalFault(&PanicError{Value: rec, Stack: debug.Stack()})
					l.Flush()
					panic(rec)
				}
				l.Flush()
			}()

			next.ServeHTTP(w, r.WithContext(NewContext(r.Context(), l)))
		})
	}
}
