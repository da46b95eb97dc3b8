// Package bodyparse turns JSON and url-encoded request bodies into plain
// Go values before a route handler runs.
package bodyparse

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// BodyKey is the gin context key holding the parsed body.
const BodyKey = "bodyparse.body"

const (
	mimeJSON = "application/json"
	mimeForm = "application/x-www-form-urlencoded"
)

func init() {
	// keep numbers as json.Number so an echoed body is byte-for-byte the same number
	binding.EnableDecoderUseNumber = true
}

// Config controls the body parser.
type Config struct {
	Limit int64 // maximum body size in bytes
	Debug bool
}

// Error is a body rejection carrying the HTTP status to answer with.
type Error struct {
	Status int
	Msg    string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Middleware parses the request body of POST, PUT, PATCH and DELETE
// requests and stores the result under BodyKey. Rejected bodies abort the
// request with a JSON error and the matching client error status.
func Middleware(cfg Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !hasBody(c.Request.Method) {
			c.Next()
			return
		}

		body, err := Parse(c.Request, c.Writer, cfg.Limit)
		if err != nil {
			var perr *Error
			if !errors.As(err, &perr) {
				perr = &Error{Status: http.StatusBadRequest, Msg: "invalid request body", Err: err}
			}
			if cfg.Debug {
				log.Printf("[BODY]: Rejected %s %s: %v", c.Request.Method, c.Request.URL.Path, perr)
			}
			c.AbortWithStatusJSON(perr.Status, gin.H{"error": perr.Msg})
			return
		}

		c.Set(BodyKey, body)
		c.Next()
	}
}

// Body returns the parsed body of c, or an empty object when the parser
// did not run or found nothing to parse.
func Body(c *gin.Context) any {
	if body, ok := c.Get(BodyKey); ok && body != nil {
		return body
	}
	return map[string]any{}
}

// Parse reads and decodes the body of req according to its content type.
// Unknown or missing content types yield an empty object.
func Parse(req *http.Request, w http.ResponseWriter, limit int64) (any, error) {
	mediaType, params, err := contentType(req)
	if err != nil {
		return nil, &Error{Status: http.StatusBadRequest, Msg: "invalid content type", Err: err}
	}
	if mediaType != mimeJSON && mediaType != mimeForm {
		return map[string]any{}, nil
	}

	raw, err := readBody(req, w, limit)
	if err != nil {
		return nil, err
	}

	switch mediaType {
	case mimeJSON:
		return parseJSON(raw, params["charset"])
	default:
		return parseForm(raw, params["charset"])
	}
}

func hasBody(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

func contentType(req *http.Request) (string, map[string]string, error) {
	header := req.Header.Get("Content-Type")
	if header == "" {
		return "", nil, nil
	}
	return mime.ParseMediaType(header)
}

func readBody(req *http.Request, w http.ResponseWriter, limit int64) ([]byte, error) {
	if req.Body == nil || req.Body == http.NoBody {
		return nil, nil
	}
	if limit > 0 && req.ContentLength > limit {
		return nil, &Error{Status: http.StatusRequestEntityTooLarge, Msg: "request entity too large"}
	}
	reader := io.Reader(req.Body)
	if limit > 0 {
		reader = http.MaxBytesReader(w, req.Body, limit)
	}
	raw, err := io.ReadAll(reader)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, &Error{Status: http.StatusRequestEntityTooLarge, Msg: "request entity too large", Err: err}
		}
		return nil, &Error{Status: http.StatusBadRequest, Msg: "failed to read body", Err: err}
	}
	// later readers still see the original bytes
	req.Body = io.NopCloser(bytes.NewReader(raw))
	return raw, nil
}

// parseJSON accepts objects and arrays only.
func parseJSON(raw []byte, charset string) (any, error) {
	if !isUTF8(charset) {
		return nil, &Error{Status: http.StatusUnsupportedMediaType, Msg: fmt.Sprintf("unsupported charset %q", charset)}
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return map[string]any{}, nil
	}
	if trimmed[0] != '{' && trimmed[0] != '[' {
		return nil, &Error{Status: http.StatusBadRequest, Msg: "JSON body must be an object or array"}
	}

	// the whole body must be one JSON value, no trailing data
	if !json.Valid(trimmed) {
		return nil, &Error{Status: http.StatusBadRequest, Msg: "malformed JSON body"}
	}

	var body any
	if err := binding.JSON.BindBody(trimmed, &body); err != nil {
		return nil, &Error{Status: http.StatusBadRequest, Msg: "malformed JSON body", Err: err}
	}
	return body, nil
}

// parseForm decodes a flat url-encoded body. A key given once maps to a
// string, a repeated key to a list of strings.
func parseForm(raw []byte, charset string) (any, error) {
	decode, err := charsetDecoder(charset)
	if err != nil {
		return nil, err
	}
	keys, values, err := parseQuery(string(raw))
	if err != nil {
		return nil, &Error{Status: http.StatusBadRequest, Msg: "malformed form body", Err: err}
	}

	body := make(map[string]any, len(values))
	for _, key := range keys {
		vals := values[key]
		if key, err = decode(key); err != nil {
			return nil, err
		}
		for i := range vals {
			if vals[i], err = decode(vals[i]); err != nil {
				return nil, err
			}
		}
		if len(vals) == 1 {
			body[key] = vals[0]
		} else {
			body[key] = vals
		}
	}
	return body, nil
}

// parseQuery splits a url-encoded body on '&' only. A ';' is kept as part of
// the value, unlike url.ParseQuery which rejects it.
func parseQuery(query string) ([]string, map[string][]string, error) {
	var keys []string
	values := make(map[string][]string)
	for _, pair := range strings.Split(query, "&") {
		if pair == "" {
			continue
		}
		key, value, _ := strings.Cut(pair, "=")
		key, err := url.QueryUnescape(key)
		if err != nil {
			return nil, nil, err
		}
		value, err = url.QueryUnescape(value)
		if err != nil {
			return nil, nil, err
		}
		if _, seen := values[key]; !seen {
			keys = append(keys, key)
		}
		values[key] = append(values[key], value)
	}
	return keys, values, nil
}
