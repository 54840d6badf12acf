// Package ginlog attaches a bufferedlogger.BufferedLogger to every gin request.
package ginlog

import (
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/gourdian25/bufferedlogger"
)

// ContextKey is the gin context key holding the request logger.
const ContextKey = "bufferedlogger"

// Middleware creates a logger per request and flushes it after the handler
// chain returns. Errors attached with c.Error are recorded as faults before
// the flush: public errors as business faults, everything else as internal
// faults.
//
// A panic is recorded as an internal *bufferedlogger.PanicError and
// re-raised after the flush, so gin.Recovery should be registered before
// this middleware.
func Middleware(newLogger bufferedlogger.NewFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		req := bufferedlogger.RequestFromHTTP(c.Request)
		if route := c.FullPath(); route != "" {
			req = bufferedlogger.NewRequest(req.Token(), append(req.Parameters(), bufferedlogger.Param("route", route))...)
		}

		l := newLogger(req)
		c.Header(bufferedlogger.HeaderRequestID, req.Token())
		c.Set(ContextKey, l)
		c.Request = c.Request.WithContext(bufferedlogger.NewContext(c.Request.Context(), l))

		defer func() {
			rec := recover()
			recordErrors(l, c.Errors)
			if rec != nil {
				l.RecordInternalFault(&bufferedlogger.PanicError{Value: rec, Stack: debug.Stack()})
			}
			l.Flush()
			if rec != nil {
				panic(rec)
			}
		}()

		c.Next()
	}
}

// Logger returns the request logger set by Middleware, or nil.
func Logger(c *gin.Context) *bufferedlogger.BufferedLogger {
	v, ok := c.Get(ContextKey)
	if !ok {
		return nil
	}
	l, _ := v.(*bufferedlogger.BufferedLogger)
	return l
}

func recordErrors(l *bufferedlogger.BufferedLogger, errs []*gin.Error) {
	for _, e := range errs {
		if e == nil || e.Err == nil {
			continue
		}
		if e.IsType(gin.ErrorTypePublic) {
			l.RecordBusinessFault(e.Err)
		} else {
			l.RecordInternalFault(e.Err)
		}
	}
}
