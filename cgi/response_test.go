package cgi

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCGIResponsePreambleOnce(t *testing.T) {
	var buf bytes.Buffer
	r := NewCGIResponse(&buf)
	r.SetContentType("text/plain")

	_, err := io.WriteString(r, "one")
	require.NoError(t, err)
	r.SetContentType("text/html")
	_, err = io.WriteString(r, " two")
	require.NoError(t, err)
	require.NoError(t, r.Flush())

	assert.Equal(t, "Content-Type: text/plain\n\none two", buf.String())
}

func TestCGIResponseEmptyBody(t *testing.T) {
	var buf bytes.Buffer
	r := NewCGIResponse(&buf)
	require.NoError(t, r.Flush())
	require.NoError(t, r.Flush())
	assert.Equal(t, "Content-Type: text/html\n\n", buf.String())
}
