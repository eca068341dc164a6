// Package request decodes submitted records from HTTP request bodies.
package request

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
)

// ErrInvalidBody marks a body that could not be decoded into a record
var ErrInvalidBody = errors.New("invalid request body")

// Parser handles parsing of HTTP request bodies
type Parser struct {
	maxBodySize int64 // Maximum size for request bodies (in bytes)
}

// NewParser creates a new request parser with default settings
func NewParser() *Parser {
	return &Parser{
		maxBodySize: 1 << 20, // 1MB default
	}
}

// NewParserWithMaxSize creates a parser with a custom max body size
func NewParserWithMaxSize(maxBytes int64) *Parser {
	return &Parser{
		maxBodySize: maxBytes,
	}
}

// ParseRecord decodes the submitted field values of a record based on Content-Type
func (p *Parser) ParseRecord(w http.ResponseWriter, r *http.Request) (map[string]interface{}, error) {
	contentType := r.Header.Get("Content-Type")
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = contentType
	}

	switch mediaType {
	case "application/json", "":
		return p.ParseJSON(w, r)
	case "application/x-www-form-urlencoded":
		return p.ParseForm(w, r)
	default:
		return nil, fmt.Errorf("%w: unsupported content type: %s", ErrInvalidBody, mediaType)
	}
}

// ParseJSON decodes a JSON object. Numbers are kept as json.Number so whole
// numbers survive beyond float64 precision.
func (p *Parser) ParseJSON(w http.ResponseWriter, r *http.Request) (map[string]interface{}, error) {
	r.Body = http.MaxBytesReader(w, r.Body, p.maxBodySize)
	defer r.Body.Close()

	decoder := json.NewDecoder(r.Body)
	decoder.UseNumber()

	var record map[string]interface{}
	if err := decoder.Decode(&record); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return nil, fmt.Errorf("%w: request body is empty", ErrInvalidBody)
		case errors.As(err, &tooLarge):
			return nil, fmt.Errorf("%w: request body exceeds %d bytes", ErrInvalidBody, tooLarge.Limit)
		default:
			return nil, fmt.Errorf("%w: invalid JSON: %v", ErrInvalidBody, err)
		}
	}
	if record == nil {
		return nil, fmt.Errorf("%w: expected a JSON object", ErrInvalidBody)
	}

	if decoder.More() {
		return nil, fmt.Errorf("%w: request body contains multiple JSON objects", ErrInvalidBody)
	}

	return record, nil
}

// ParseForm decodes URL-encoded form data. Repeated keys become lists.
func (p *Parser) ParseForm(w http.ResponseWriter, r *http.Request) (map[string]interface{}, error) {
	r.Body = http.MaxBytesReader(w, r.Body, p.maxBodySize)
	defer r.Body.Close()

	if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("%w: invalid form data: %v", ErrInvalidBody, err)
	}

	return formToMap(r.PostForm), nil
}

// formToMap converts url.Values to a record
func formToMap(values url.Values) map[string]interface{} {
	result := make(map[string]interface{}, len(values))
	for key, vals := range values {
		if len(vals) == 1 {
			result[key] = vals[0]
			continue
		}
		list := make([]interface{}, len(vals))
		for i, v := range vals {
			list[i] = v
		}
		result[key] = list
	}
	return result
}
