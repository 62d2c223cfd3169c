package shell

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/watermgmt/internal/nav"
	"github.com/leapstack-labs/watermgmt/internal/panel/catalog"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	return buf.String()
}

func TestApp_HomeSidebarShowsQuickAccess(t *testing.T) {
	n := nav.NewNavigator(nav.Default)
	html := render(t, App(AppData{
		Taxonomy:  n.Taxonomy(),
		Selection: n.Initial(),
		Content:   Landing(catalog.Home()),
	}))

	assert.Contains(t, html, `<div id="app">`)
	assert.Contains(t, html, "Quick Access")
	for _, c := range nav.Default {
		assert.Contains(t, html, "/nav/category/"+c.ID)
		assert.Contains(t, html, "/nav/quick/"+c.ID)
	}
	assert.Equal(t, 1, strings.Count(html, `class="active"`), "only the initial category is highlighted")
	assert.NotContains(t, html, `class="crumb"`)
}

func TestApp_CategorySidebarListsItems(t *testing.T) {
	n := nav.NewNavigator(nav.Default)
	sel := n.SelectCategory(n.Initial(), "gs")
	html := render(t, App(AppData{
		Taxonomy:  n.Taxonomy(),
		Selection: sel,
		Label:     n.Label(sel),
	}))

	assert.NotContains(t, html, "Quick Access")
	assert.Contains(t, html, "<h3>Groundwater &amp; Soil</h3>")
	assert.Contains(t, html, "/nav/tab/water-prediction")
	assert.Contains(t, html, "/nav/tab/soil-moisture")
	assert.Contains(t, html, "/nav/tab/water-stress")
	assert.Contains(t, html, "Groundwater &amp; Soil &rsaquo; Ground Water Level")
	// the active category in the top bar and the active tab in the sidebar
	assert.Equal(t, 2, strings.Count(html, `class="active"`))
}

func TestLanding(t *testing.T) {
	html := render(t, Landing(catalog.Home()))

	assert.Contains(t, html, `<section id="home">`)
	assert.Equal(t, 12, strings.Count(html, `class="card feature-card"`))
	assert.Contains(t, html, "/nav/tab/citizen-report")
	assert.Equal(t, 20, strings.Count(html, `class="marker"`))
	assert.Contains(t, html, "Global Water Stress Levels")
	assert.NotContains(t, html, "<?xml")
}
