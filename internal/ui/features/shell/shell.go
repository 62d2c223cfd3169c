// Package shell renders the dashboard frame: top bar, sidebar and the
// active view, which is either the landing page or a prediction panel.
package shell

import (
	"io"

	"github.com/a-h/templ"

	"github.com/leapstack-labs/watermgmt/internal/geo"
	"github.com/leapstack-labs/watermgmt/internal/nav"
	"github.com/leapstack-labs/watermgmt/internal/panel/catalog"
	"github.com/leapstack-labs/watermgmt/internal/ui/features/common"
	"github.com/leapstack-labs/watermgmt/internal/ui/features/panels"
	"github.com/leapstack-labs/watermgmt/internal/ui/workspace"
)

// ElementID is the id of the element replaced by full-app patches.
const ElementID = "app"

// World map size in pixels.
const (
	worldWidth  = 900
	worldHeight = 450
)

// AppData holds everything the frame needs.
type AppData struct {
	Taxonomy  nav.Taxonomy
	Selection nav.Selection
	// Label is the active tab's label; empty on the landing page.
	Label   string
	Content templ.Component
}

// Renderer builds the frame for a workspace.
type Renderer struct {
	navigator *nav.Navigator
	home      catalog.HomePage
}

// NewRenderer creates a renderer over navigator's taxonomy.
func NewRenderer(navigator *nav.Navigator, home catalog.HomePage) *Renderer {
	return &Renderer{navigator: navigator, home: home}
}

// Data assembles the frame data of ws.
func (r *Renderer) Data(ws *workspace.Workspace) AppData {
	sel := ws.Selection()
	data := AppData{
		Taxonomy:  r.navigator.Taxonomy(),
		Selection: sel,
		Content:   Landing(r.home),
	}
	if p := ws.Panel(); p != nil {
		data.Label = r.navigator.Label(sel)
		data.Content = panels.View(p.Snapshot())
	}
	return data
}

// App renders the frame of ws.
func (r *Renderer) App(ws *workspace.Workspace) templ.Component {
	return App(r.Data(ws))
}

// Title returns the document title for ws.
func (r *Renderer) Title(ws *workspace.Workspace) string {
	if p := ws.Panel(); p != nil {
		return p.Spec().Title
	}
	return "Dashboard"
}

// worldMap renders the static water stress map of the landing page.
func worldMap(page catalog.HomePage) string {
	svg, _ := common.InlineSVG(func(w io.Writer) error {
		geo.RenderSVG(w, geo.Markers(page.World, page.Palette), geo.WorldView, page.Palette, worldWidth, worldHeight)
		return nil
	})
	return svg
}
