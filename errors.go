package endpoint

import (
	"cmp"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strconv"
)

// Sentinel errors reported while a Service is being assembled.
var (
	ErrNoEncoder        = errors.New("no encoder")
	ErrNilEndpoint      = errors.New("nil endpoint")
	ErrUnsupportedValue = errors.New("unsupported value")
)

// ErrorMap is the body of an Error output. Every Service encodes it with
// a single error encoder fixed at build time.
type ErrorMap map[string]string

// StatusCoder is implemented by errors that carry an HTTP status code.
type StatusCoder interface {
	StatusCode() int
}

// ProblemDetail is an RFC 9457 problem details body.
//
//nolint:errname // RFC 9457 standard name
type ProblemDetail struct {
	Type     string            `json:"type,omitempty"`
	Title    string            `json:"title,omitempty"`
	Status   int               `json:"status,omitempty"`
	Detail   string            `json:"detail,omitempty"`
	Instance string            `json:"instance,omitempty"`
	Errors   []ValidationError `json:"errors,omitempty"`
}

// Error returns the detail message (or title if detail is empty).
func (p *ProblemDetail) Error() string {
	if p.Detail != "" {
		return p.Detail
	}
	return p.Title
}

// StatusCode returns the HTTP status code.
func (p *ProblemDetail) StatusCode() int { return p.Status }

// ErrorMap flattens p into an ErrorMap. Validation errors become
// field/message entries.
func (p *ProblemDetail) ErrorMap() ErrorMap {
	m := make(ErrorMap, len(p.Errors)+5)
	for _, ve := range p.Errors {
		m[ve.Field] = ve.Message
	}
	set := func(k, v string) {
		if v != "" {
			m[k] = v
		}
	}
	set("type", p.Type)
	set("title", p.Title)
	set("detail", p.Detail)
	set("instance", p.Instance)
	if p.Status != 0 {
		m["status"] = strconv.Itoa(p.Status)
	}
	return m
}

// ValidationError describes a single field failure.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// problemFromMap is the inverse of ErrorMap. A "message" entry stands in
// for a missing detail; any key that is not a problem member is reported as
// a field error, sorted by field.
func problemFromMap(m ErrorMap) *ProblemDetail {
	p := &ProblemDetail{
		Type:     m["type"],
		Title:    m["title"],
		Detail:   m["detail"],
		Instance: m["instance"],
	}
	if p.Type == "" {
		p.Type = "about:blank"
	}
	if p.Detail == "" {
		p.Detail = m["message"]
	}

	for k, v := range m {
		switch k {
		case "type", "title", "detail", "instance":
		case "message":
			if m["detail"] != "" {
				p.Errors = append(p.Errors, ValidationError{Field: k, Message: v})
			}
		case "status":
			if code, err := strconv.Atoi(v); err == nil {
				p.Status = code
			} else {
				p.Errors = append(p.Errors, ValidationError{Field: k, Message: v})
			}
		default:
			p.Errors = append(p.Errors, ValidationError{Field: k, Message: v})
		}
	}
	slices.SortFunc(p.Errors, func(a, b ValidationError) int {
		return cmp.Compare(a.Field, b.Field)
	})

	if p.Title == "" && p.Status != 0 {
		p.Title = http.StatusText(p.Status)
	}
	return p
}

// HTTPError is an error with an HTTP status code.
type HTTPError struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// Error returns the error message.
func (e *HTTPError) Error() string { return e.Message }

// StatusCode returns the HTTP status code.
func (e *HTTPError) StatusCode() int { return e.Status }

// Error returns an error with the given HTTP status code and message.
func Error(status int, message string) error {
	return &HTTPError{Status: status, Message: message}
}

// Errorf returns a formatted error with the given HTTP status code.
func Errorf(status int, format string, args ...any) error {
	return &HTTPError{Status: status, Message: fmt.Sprintf(format, args...)}
}

// ErrorStatus extracts the HTTP status code from an error. Returns
// http.StatusInternalServerError if the error does not implement StatusCoder.
func ErrorStatus(err error) int {
	var sc StatusCoder
	if errors.As(err, &sc) {
		return sc.StatusCode()
	}
	return http.StatusInternalServerError
}

func noEncoder(typeName string) error {
	return fmt.Errorf("%w for %s", ErrNoEncoder, typeName)
}
