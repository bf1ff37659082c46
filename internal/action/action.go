// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of evcon

package action

// ID identifies an action.
type ID string

const (
	Create              ID = "create"
	Refresh             ID = "refresh"
	AutoRefresh         ID = "auto-refresh"
	View                ID = "view"
	Edit                ID = "edit"
	Delete              ID = "delete"
	More                ID = "more"
	OpenInMaps          ID = "open-in-maps"
	RetrieveConsumption ID = "retrieve-consumption"
	StopTransaction     ID = "stop-transaction"
	SmartCharging       ID = "smart-charging"
	Revoke              ID = "revoke"
	Export              ID = "export"
	ResetFilters        ID = "reset-filters"
	Select              ID = "select"
)

// Kind discriminates action variants.
type Kind int

const (
	// KindButton fires once.
	KindButton Kind = iota
	// KindToggle carries an on/off state.
	KindToggle
	// KindDropdown groups nested actions.
	KindDropdown
)

// Def describes an action offered by a grid, either on the whole table or on a row.
type Def struct {
	ID        ID
	Kind      Kind
	Name      string
	Icon      string
	Key       rune
	Disabled  bool
	Dangerous bool
	Active    bool
	Children  []Def
}

// WithDisabled returns a copy of the action with its enablement set.
func (d Def) WithDisabled(disabled bool) Def {
	d.Disabled = disabled
	return d
}

func NewCreate() Def {
	return Def{ID: Create, Name: "Create", Icon: "add", Key: 'c'}
}

func NewRefresh() Def {
	return Def{ID: Refresh, Name: "Refresh", Icon: "refresh", Key: 'r'}
}

// NewAutoRefresh returns the auto refresh toggle, on when active is set.
func NewAutoRefresh(active bool) Def {
	return Def{ID: AutoRefresh, Kind: KindToggle, Name: "Auto Refresh", Icon: "autorenew", Key: 'a', Active: active}
}

func NewView() Def {
	return Def{ID: View, Name: "View", Icon: "remove_red_eye", Key: 'v'}
}

func NewEdit() Def {
	return Def{ID: Edit, Name: "Edit", Icon: "edit", Key: 'e'}
}

func NewDelete() Def {
	return Def{ID: Delete, Name: "Delete", Icon: "delete", Key: 'd', Dangerous: true}
}

// NewMore groups secondary actions.
func NewMore(children ...Def) Def {
	return Def{ID: More, Kind: KindDropdown, Name: "More", Icon: "more_horiz", Children: children}
}

func NewOpenInMaps() Def {
	return Def{ID: OpenInMaps, Name: "Open in Maps", Icon: "location_on", Key: 'm'}
}

func NewRetrieveConsumption() Def {
	return Def{ID: RetrieveConsumption, Name: "Retrieve Consumption", Icon: "cloud_download", Key: 'u'}
}

func NewStopTransaction() Def {
	return Def{ID: StopTransaction, Name: "Stop", Icon: "stop", Key: 's', Dangerous: true}
}

func NewSmartCharging() Def {
	return Def{ID: SmartCharging, Name: "Smart Charging", Icon: "battery_charging_full", Key: 'l'}
}

func NewRevoke() Def {
	return Def{ID: Revoke, Name: "Revoke", Icon: "cancel", Key: 'R', Dangerous: true}
}

func NewExport() Def {
	return Def{ID: Export, Name: "Export", Icon: "cloud_upload", Key: 'x'}
}

func NewResetFilters() Def {
	return Def{ID: ResetFilters, Name: "Reset Filters", Icon: "filter_alt_off", Key: 'z'}
}

// Find looks up an action by id, descending into dropdown children.
func Find(dd []Def, id ID) (Def, bool) {
	for _, d := range dd {
		if d.ID == id {
			return d, true
		}
		if d.Kind == KindDropdown {
			if c, ok := Find(d.Children, id); ok {
				return c, true
			}
		}
	}
	return Def{}, false
}

// Flatten returns the leaf actions, children of dropdowns included.
func Flatten(dd []Def) []Def {
	out := make([]Def, 0, len(dd))
	for _, d := range dd {
		if d.Kind == KindDropdown {
			out = append(out, Flatten(d.Children)...)
			continue
		}
		out = append(out, d)
	}
	return out
}

// Insert places d at position i, appending when i is past the end.
func Insert(dd []Def, i int, d Def) []Def {
	if i < 0 || i >= len(dd) {
		return append(dd, d)
	}
	out := make([]Def, 0, len(dd)+1)
	out = append(out, dd[:i]...)
	out = append(out, d)
	return append(out, dd[i:]...)
}

// IDs returns the ids of the actions, in order.
func IDs(dd []Def) []ID {
	ids := make([]ID, 0, len(dd))
	for _, d := range dd {
		ids = append(ids, d.ID)
	}
	return ids
}
