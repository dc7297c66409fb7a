package endpoint

import (
	"net/http"
	"strconv"
)

// Response is a fully shaped HTTP response. Endpoints may return one
// directly as a result value, in which case it is passed through as is.
type Response struct {
	Status  int
	Header  http.Header
	Cookies []*http.Cookie
	Body    []byte
}

// Write sends the response to w. Cookies and headers are applied before the
// status line.
func (r *Response) Write(w http.ResponseWriter) error {
	for _, c := range r.Cookies {
		http.SetCookie(w, c)
	}

	h := w.Header()
	for k, vs := range r.Header {
		h[k] = append([]string(nil), vs...)
	}
	status := r.Status
	if status == 0 {
		status = http.StatusOK
	}
	if status != http.StatusNoContent && status != http.StatusNotModified {
		h.Set("Content-Length", strconv.Itoa(len(r.Body)))
	}
	w.WriteHeader(status)

	if len(r.Body) == 0 {
		return nil
	}
	_, err := w.Write(r.Body)
	return err
}

// Redirect returns a response that redirects to url. A zero status means
// 302 Found. Inside a Service the status of the enclosing Output wins, so
// return it with a matching WithStatus.
func Redirect(url string, status int) *Response {
	if status == 0 {
		status = http.StatusFound
	}
	return &Response{
		Status: status,
		Header: http.Header{"Location": {url}},
	}
}

func notFound() *Response {
	return &Response{Status: http.StatusNotFound, Header: make(http.Header)}
}
