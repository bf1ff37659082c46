package filter

import "strings"

// Selection filters on entities picked from a dialog.
type Selection struct {
	id, httpID, name string
	dialog           string
	multiple         bool
	params           Values
	items            []Item
}

// NewSelection returns a selection filter whose entries come from the named dialog.
func NewSelection(id, httpID, name, dialog string, multiple bool) *Selection {
	return &Selection{
		id:       id,
		httpID:   httpID,
		name:     name,
		dialog:   dialog,
		multiple: multiple,
		params:   make(Values),
	}
}

// NewSite returns a site filter.
func NewSite() *Selection {
	return NewSelection("sites", "SiteID", "Sites", "sites", true)
}

// NewSiteArea returns a site area filter.
func NewSiteArea() *Selection {
	return NewSelection("siteAreas", "SiteAreaID", "Site Areas", "site-areas", true)
}

// NewChargingStation returns a charging station filter.
func NewChargingStation() *Selection {
	return NewSelection("charger", "ChargingStationID", "Charging Stations", "charging-stations", true)
}

// NewUser returns a user filter. Site admins may only pick users of the sites they administer.
func NewUser(sitesAdmin []string) *Selection {
	s := NewSelection("user", "UserID", "Users", "users", true)
	if len(sitesAdmin) > 0 {
		s.params["SiteID"] = JoinKeys(sitesAdmin)
	}

	return s
}

// NewTag returns an RFID tag filter.
func NewTag() *Selection {
	return NewSelection("tag", "TagID", "Tags", "tags", true)
}

// NewCarMaker returns a car maker filter.
func NewCarMaker() *Selection {
	return NewSelection("carMaker", "CarMaker", "Car Makers", "car-makers", true)
}

func (s *Selection) ID() string     { return s.id }
func (s *Selection) HTTPID() string { return s.httpID }
func (s *Selection) Name() string   { return s.name }
func (s *Selection) Type() Type     { return TypeDialogTable }
func (s *Selection) IsAll() bool    { return len(s.items) == 0 }

// Dialog names the pick list feeding this filter.
func (s *Selection) Dialog() string {
	return s.dialog
}

// Multiple returns true if several entries may be selected.
func (s *Selection) Multiple() bool {
	return s.multiple
}

// DialogParams returns the static filters to apply to the pick list.
func (s *Selection) DialogParams() Values {
	return s.params.Clone()
}

// Current returns the selected entries.
func (s *Selection) Current() []Item {
	out := make([]Item, len(s.items))
	copy(out, s.items)

	return out
}

func (s *Selection) Reset() {
	s.items = nil
}

// Set accepts an Item or an []Item.
func (s *Selection) Set(v any) error {
	switch t := v.(type) {
	case Item:
		s.items = []Item{t}
	case []Item:
		if len(t) > 1 && !s.multiple {
			return ErrInvalidValue
		}
		s.items = make([]Item, len(t))
		copy(s.items, t)
	default:
		return ErrInvalidValue
	}

	return nil
}

func (s *Selection) Encode(vv Values) {
	if s.IsAll() {
		return
	}
	vv[s.httpID] = JoinKeys(Keys(s.items))
}

func (s *Selection) Display() string {
	if s.IsAll() {
		return "all"
	}
	vv := make([]string, 0, len(s.items))
	for _, it := range s.items {
		vv = append(vv, it.Value)
	}

	return strings.Join(vv, ", ")
}
