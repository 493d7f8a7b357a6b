package cgi

import (
	"bytes"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/yuin/goldmark"
)

const defaultHeader = "<div id=\"header\">\n" +
	"Welcome to duc<br>\n" +
	"<hr>\n" +
	"</div>\n\n"

const defaultFooter = "<div id=\"footer\">\n" +
	"<hr>\n" +
	"You can find duc at <a href=\"http://github.com/zevv/duc\">http://github.com/zevv/duc</a>\n" +
	"</div>\n\n"

// readFragment returns the markup stored at path. Markdown files (.md) are
// converted to HTML.
func readFragment(fs afero.Fs, path string) ([]byte, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(filepath.Ext(path), ".md") {
		return data, nil
	}

	var buf bytes.Buffer
	if err := goldmark.Convert(data, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeFragment writes the fragment at path, or def when path is unset or
// cannot be read.
func (h *Handler) writeFragment(w io.Writer, path, def string) error {
	if path != "" {
		data, err := readFragment(h.fs, path)
		if err == nil {
			_, err = w.Write(data)
			return err
		}
		h.log.Debug("Cannot read fragment, using default", slog.String("path", path), slog.Any("error", err))
	}
	_, err := io.WriteString(w, def)
	return err
}
