package nav

// Selection is the Shell's navigation state. It is a value type; every
// transition returns a new Selection.
type Selection struct {
	Category string
	Tab      string
}

// IsHome reports whether the landing page is shown.
func (s Selection) IsHome() bool {
	return s.Tab == HomeTab
}

// Navigator applies transitions against a taxonomy.
type Navigator struct {
	tax Taxonomy
}

// NewNavigator returns a navigator over tax. A nil or empty taxonomy uses Default.
func NewNavigator(tax Taxonomy) *Navigator {
	if len(tax) == 0 {
		tax = Default
	}
	return &Navigator{tax: tax}
}

// Taxonomy returns the navigator's taxonomy.
func (n *Navigator) Taxonomy() Taxonomy {
	return n.tax
}

// Initial is the state a fresh page load starts from: first category, home tab.
func (n *Navigator) Initial() Selection {
	return Selection{Category: n.tax[0].ID, Tab: HomeTab}
}

// SelectCategory switches category. When the current tab is not an item of
// the new category, the tab becomes the category's first item, which also
// means leaving home. Unknown category ids leave s unchanged.
func (n *Navigator) SelectCategory(s Selection, id string) Selection {
	c, ok := n.tax.Category(id)
	if !ok {
		return s
	}
	s.Category = c.ID
	if !c.Has(s.Tab) && len(c.Items) > 0 {
		s.Tab = c.Items[0].ID
	}
	return s
}

// SelectTab sets the tab directly. The category is not consulted.
func (n *Navigator) SelectTab(s Selection, id string) Selection {
	s.Tab = id
	return s
}

// GoHome returns to the landing page of the initial category.
func (n *Navigator) GoHome(Selection) Selection {
	return n.Initial()
}

// QuickAccess jumps from the home sidebar to a category's first item.
func (n *Navigator) QuickAccess(s Selection, id string) Selection {
	c, ok := n.tax.Category(id)
	if !ok || len(c.Items) == 0 {
		return s
	}
	s = n.SelectCategory(s, id)
	return n.SelectTab(s, c.Items[0].ID)
}

// Label returns the display label of the selected tab within its category,
// falling back to the first label found anywhere.
func (n *Navigator) Label(s Selection) string {
	if c, ok := n.tax.Category(s.Category); ok {
		for _, it := range c.Items {
			if it.ID == s.Tab {
				return it.Label
			}
		}
	}
	for _, p := range n.tax.Pairs() {
		if p.Item.ID == s.Tab {
			return p.Item.Label
		}
	}
	return ""
}
