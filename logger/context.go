package logger

import (
	"bytes"
	"encoding"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"runtime"
)

// maxLoggedBody bounds how much of a JSON request body a LogContext reads.
const maxLoggedBody = 64 << 10

var (
	_ encoding.TextMarshaler = LogContext{}
)

// A LogContext provides additional information and configuration
// for a [Logger] method that cannot be tersely captured in the message itself.
type LogContext struct {
	// Caller overrides the caller file and line number with the provided value.
	// It is not logged in the text of a LogContext.
	Caller string

	// Type names the enumeration type involved, if any.
	Type string

	// Token is the token being decoded or validated, if any.
	Token string

	// Data is any other information pertinent at the time of the logging event.
	Data map[string]any

	// Error is the error that may or may not have instigated a logging event.
	Error error

	// Request is the *http.Request that may or may not have been open during the logging event.
	Request *http.Request
}

// MarshalText converts LogContext into a JSON object, omitting its empty fields and Caller.
//
// Values in LogContext.Data that cannot be represented in JSON cause an error.
//
// MarshalText implements [encoding.TextMarshaler].
func (lc LogContext) MarshalText() ([]byte, error) {
	m := make(map[string]any)
	if lc.Type != "" {
		m["type"] = lc.Type
	}

	if lc.Token != "" {
		m["token"] = lc.Token
	}

	if lc.Data != nil {
		m["data"] = lc.Data
	}

	if lc.Error != nil {
		m["error"] = lc.Error.Error()
	}

	if lc.Request != nil {
		m["request"] = summarize(lc.Request)
	}

	return json.Marshal(m)
}

// summarize renders the parts of r worth logging.
// A JSON body is read and put back for later readers.
func summarize(r *http.Request) map[string]any {
	s := map[string]any{
		"method": r.Method,
		"url":    r.URL.String(),
		"header": r.Header,
	}

	if r.Form != nil {
		s["form"] = r.Form
	}

	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mt != "application/json" || r.Body == nil || r.Body == http.NoBody {
		return s
	}

	head, err := io.ReadAll(io.LimitReader(r.Body, maxLoggedBody))
	r.Body = struct {
		io.Reader
		io.Closer
	}{io.MultiReader(bytes.NewReader(head), r.Body), r.Body}

	var j any
	if err == nil && json.Unmarshal(head, &j) == nil {
		s["json"] = j
	}

	return s
}

// String renders LogContext as MarshalText does, or as a JSON error object when that fails.
func (lc LogContext) String() string {
	b, err := lc.MarshalText()
	if err != nil {
		return fmt.Sprintf(`{"error":%q}`, err.Error())
	}

	return string(b)
}

// CurrentCaller retrieves the caller for the caller of CurrentCaller,
// formatted for using as a value in LogContext.Caller.
//
//	myFunc() {		<- returns this caller
//		func() {
//			CurrentCaller()
//		}()
//	}
func CurrentCaller() string {
	_, file, line, _ := runtime.Caller(2)
	return fmt.Sprintf(callerTmpl, immediateFilepath(file), line)
}
