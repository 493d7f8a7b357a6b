package cgi

import (
	"fmt"
	"io"
)

// Response is where a rendered page goes. The content type must be set before
// the first Write; Flush completes a response that may have no body.
type Response interface {
	io.Writer
	SetContentType(contentType string)
	Flush() error
}

// CGIResponse writes the Content-Type line and the blank line that end a CGI
// header block right before the first body byte.
type CGIResponse struct {
	w           io.Writer
	contentType string
	started     bool
}

func NewCGIResponse(w io.Writer) *CGIResponse {
	return &CGIResponse{w: w, contentType: "text/html"}
}

// SetContentType has no effect once the header block is written.
func (r *CGIResponse) SetContentType(contentType string) {
	if !r.started {
		r.contentType = contentType
	}
}

func (r *CGIResponse) Write(p []byte) (int, error) {
	if err := r.start(); err != nil {
		return 0, err
	}
	return r.w.Write(p)
}

func (r *CGIResponse) Flush() error {
	return r.start()
}

func (r *CGIResponse) start() error {
	if r.started {
		return nil
	}
	r.started = true
	_, err := fmt.Fprintf(r.w, "Content-Type: %s\n\n", r.contentType)
	return err
}
