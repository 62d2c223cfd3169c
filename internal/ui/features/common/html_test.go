package common

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInlineSVG(t *testing.T) {
	out, err := InlineSVG(func(w io.Writer) error {
		_, err := io.WriteString(w, "<?xml version=\"1.0\"?>\n<!-- Generated -->\n<svg width=\"1\"></svg>")
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, `<svg width="1"></svg>`, out)

	_, err = InlineSVG(func(io.Writer) error { return errors.New("boom") })
	assert.Error(t, err)
}

func TestPost(t *testing.T) {
	assert.Equal(t, "@post('/nav/tab/leakage')", Post("/nav/tab/leakage"))
}

func TestPage(t *testing.T) {
	body := templ.Raw(`<div id="app"></div>`)

	var buf bytes.Buffer
	require.NoError(t, Page("Dashboard", false, body).Render(context.Background(), &buf))
	html := buf.String()

	assert.True(t, strings.HasPrefix(html, "<!doctype html>"))
	assert.Contains(t, html, "<title>Dashboard - Water Management</title>")
	assert.Contains(t, html, `data-init="@get('/updates')"`)
	assert.Contains(t, html, `href="/static/app.css"`)
	assert.Contains(t, html, `<div id="app"></div>`)
	assert.NotContains(t, html, "/reload")
}

func TestPage_DevReloadAndEscaping(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Page(`Rain & "storms"`, true, nil).Render(context.Background(), &buf))
	html := buf.String()

	assert.Contains(t, html, "<title>Rain &amp; &#34;storms&#34; - Water Management</title>")
	assert.Contains(t, html, "@get('/reload'")
	assert.True(t, strings.HasSuffix(html, "</body></html>"))
}

type failingWriter struct{ n int }

func (w *failingWriter) Write(p []byte) (int, error) {
	w.n++
	return 0, errors.New("closed")
}

func TestPage_ReturnsWriteError(t *testing.T) {
	w := &failingWriter{}
	require.Error(t, Page("Dashboard", false, nil).Render(context.Background(), w))
	assert.Positive(t, w.n)
}
