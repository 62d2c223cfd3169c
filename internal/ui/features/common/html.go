// Package common provides the page layout and helpers shared by UI features.
package common

import (
	"bytes"
	"fmt"
	"io"
)

// AppName is shown in page titles and the top bar.
const AppName = "Water Management"

// Post is a datastar click action posting to path.
func Post(path string) string {
	return fmt.Sprintf("@post('%s')", path)
}

// InlineSVG renders an SVG document for embedding in HTML, dropping any XML
// prolog or leading comment before the <svg> element.
func InlineSVG(render func(io.Writer) error) (string, error) {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		return "", err
	}
	b := buf.Bytes()
	if i := bytes.Index(b, []byte("<svg")); i > 0 {
		b = b[i:]
	}
	return string(b), nil
}
