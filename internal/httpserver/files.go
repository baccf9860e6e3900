package httpserver

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/labstack/echo/v4"
)

// formFilePath spools an uploaded multipart file to a temp file and returns
// its path, the local-path contract the blob uploader expects. Returns ""
// when the field is absent. The caller cleans up via the returned func.
func formFilePath(c echo.Context, field string) (string, func(), error) {
	noop := func() {}

	fh, err := c.FormFile(field)
	if err != nil {
		return "", noop, nil
	}

	src, err := fh.Open()
	if err != nil {
		return "", noop, fmt.Errorf("open upload %s: %w", field, err)
	}
	defer src.Close()

	dst, err := os.CreateTemp("", "upload-*"+filepath.Ext(fh.Filename))
	if err != nil {
		return "", noop, fmt.Errorf("spool upload %s: %w", field, err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(dst.Name())
		return "", noop, fmt.Errorf("spool upload %s: %w", field, err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(dst.Name())
		return "", noop, fmt.Errorf("spool upload %s: %w", field, err)
	}

	path := dst.Name()
	return path, func() { os.Remove(path) }, nil
}
