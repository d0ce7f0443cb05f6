package nav

import (
	"errors"
	"fmt"
)

// Route is the stable key of one sidebar destination.
type Route string

const (
	StockOverview  Route = "stockOverview"
	ShoppingList   Route = "shoppingList"
	Recipes        Route = "recipes"
	MealPlan       Route = "mealPlan"
	ChoresOverview Route = "choresOverview"
	Tasks          Route = "tasks"
	Batteries      Route = "batteriesOverview"
	Equipment      Route = "equipment"
	Calendar       Route = "calendar"

	Purchase        Route = "purchase"
	Consume         Route = "consume"
	Transfer        Route = "transfer"
	Inventory       Route = "inventory"
	ChoreTracking   Route = "choreTracking"
	BatteryTracking Route = "batteryTracking"

	MDProducts          Route = "mdProducts"
	MDLocations         Route = "mdLocations"
	MDShoppingLocations Route = "mdShoppingLocations"
	MDQuantityUnits     Route = "mdQuantityUnits"
	MDProductGroups     Route = "mdProductGroups"
	MDChores            Route = "mdChores"
	MDBatteries         Route = "mdBatteries"
	MDTaskCategories    Route = "mdTaskCategories"

	Settings       Route = "settings"
	UserManagement Route = "userManagement"
)

// DefaultRoute is selected at launch.
const DefaultRoute = StockOverview

// ErrUnknownRoute is returned when selecting a route that is not in the tree.
var ErrUnknownRoute = errors.New("unknown route")

// Destination says what a route resolves to.
type Destination int

const (
	// Feature routes are backed by a view.
	Feature Destination = iota
	// Reserved routes are declared but show a "not yet implemented" page.
	Reserved
)

func (d Destination) String() string {
	if d == Reserved {
		return "reserved"
	}
	return "feature"
}

// Item is one sidebar entry.
type Item struct {
	Route       Route
	Label       string
	Icon        string
	Destination Destination
}

// Section is a labeled group of items.
type Section struct {
	Label string
	Items []Item
}

// Capabilities toggles the platform dependent parts of the tree.
type Capabilities struct {
	SystemSettings bool
	SidebarToggle  bool
}

// Router owns the sidebar tree and the current selection.
type Router struct {
	caps     Capabilities
	sections []Section
	items    []Item
	index    map[Route]int
	selected Route
	has      bool
}

// New builds the tree for caps with DefaultRoute selected.
func New(caps Capabilities) *Router {
	r := &Router{caps: caps, index: make(map[Route]int)}
	for _, s := range tree(caps) {
		r.sections = append(r.sections, s)
		for _, it := range s.Items {
			r.index[it.Route] = len(r.items)
			r.items = append(r.items, it)
		}
	}
	r.selected, r.has = DefaultRoute, true
	return r
}

func tree(caps Capabilities) []Section {
	feature := func(route Route, label, icon string) Item {
		return Item{Route: route, Label: label, Icon: icon, Destination: Feature}
	}
	reserved := func(route Route, label, icon string) Item {
		return Item{Route: route, Label: label, Icon: icon, Destination: Reserved}
	}

	system := Section{Label: "System"}
	if caps.SystemSettings {
		system.Items = append(system.Items, feature(Settings, "Settings", "gear"))
	}
	system.Items = append(system.Items, feature(UserManagement, "User management", "person.3"))

	return []Section{
		{Label: "Overview", Items: []Item{
			feature(StockOverview, "Stock overview", "books.vertical"),
			feature(ShoppingList, "Shopping list", "cart"),
		}},
		{Label: "Planning", Items: []Item{
			reserved(Recipes, "Recipes", "list.bullet.below.rectangle"),
			reserved(MealPlan, "Meal plan", "paperplane"),
		}},
		{Label: "Household", Items: []Item{
			reserved(ChoresOverview, "Chores overview", "house"),
			reserved(Tasks, "Tasks", "checkmark.circle"),
			reserved(Batteries, "Batteries overview", "battery.25"),
			reserved(Equipment, "Equipment", "latch.2.case"),
		}},
		{Label: "Calendar", Items: []Item{
			reserved(Calendar, "Calendar", "calendar"),
		}},
		{Label: "Tracking", Items: []Item{
			feature(Purchase, "Purchase", "cart.badge.plus"),
			feature(Consume, "Consume", "tuningfork"),
			feature(Transfer, "Transfer", "arrow.left.arrow.right"),
			feature(Inventory, "Inventory", "list.bullet"),
			reserved(ChoreTracking, "Chore tracking", "play.fill"),
			reserved(BatteryTracking, "Battery tracking", "fire"),
		}},
		{Label: "Master data", Items: []Item{
			feature(MDProducts, "Products", "archivebox"),
			feature(MDLocations, "Locations", "mappin.circle"),
			feature(MDShoppingLocations, "Stores", "cart"),
			feature(MDQuantityUnits, "Quantity units", "scalemass"),
			feature(MDProductGroups, "Product groups", "square.stack.3d.up"),
			feature(MDChores, "Chores", "house"),
			feature(MDBatteries, "Batteries", "battery.25"),
			feature(MDTaskCategories, "Task categories", "scroll"),
		}},
		system,
	}
}

// Capabilities returns the flags the tree was built with.
func (r *Router) Capabilities() Capabilities { return r.caps }

// Sections returns the grouped tree.
func (r *Router) Sections() []Section {
	out := make([]Section, len(r.sections))
	for i, s := range r.sections {
		out[i] = Section{Label: s.Label, Items: append([]Item(nil), s.Items...)}
	}
	return out
}

// Items returns every visible item in display order.
func (r *Router) Items() []Item {
	return append([]Item(nil), r.items...)
}

// Lookup finds the item for route.
func (r *Router) Lookup(route Route) (Item, bool) {
	i, ok := r.index[route]
	if !ok {
		return Item{}, false
	}
	return r.items[i], true
}

// Selected returns the current route; false when nothing is selected.
func (r *Router) Selected() (Route, bool) {
	return r.selected, r.has
}

// SelectedItem returns the item for the current route.
func (r *Router) SelectedItem() (Item, bool) {
	if !r.has {
		return Item{}, false
	}
	return r.Lookup(r.selected)
}

// Select makes route the current destination.
func (r *Router) Select(route Route) error {
	if _, ok := r.index[route]; !ok {
		return fmt.Errorf("select %q: %w", route, ErrUnknownRoute)
	}
	r.selected, r.has = route, true
	return nil
}

// Clear drops the selection.
func (r *Router) Clear() {
	r.selected, r.has = "", false
}

// Next moves the selection one item down, wrapping at the end.
func (r *Router) Next() Route {
	return r.move(1)
}

// Prev moves the selection one item up, wrapping at the start.
func (r *Router) Prev() Route {
	return r.move(-1)
}

func (r *Router) move(delta int) Route {
	if len(r.items) == 0 {
		return ""
	}
	i := -1
	if r.has {
		i = r.index[r.selected]
	}
	switch {
	case i < 0 && delta > 0:
		i = 0
	case i < 0:
		i = len(r.items) - 1
	default:
		i = (i + delta + len(r.items)) % len(r.items)
	}
	r.selected, r.has = r.items[i].Route, true
	return r.selected
}
