package filter

// AllKey is the dropdown entry that disables a filter.
const AllKey = "all"

// Dropdown filters on one of a fixed set of entries.
type Dropdown struct {
	id, httpID, name string
	items            []Item
	defaultKey       string
	current          string
}

// NewDropdown returns a dropdown filter. An empty defaultKey means all.
func NewDropdown(id, httpID, name string, items []Item, defaultKey string) *Dropdown {
	if defaultKey == "" {
		defaultKey = AllKey
	}
	d := Dropdown{
		id:         id,
		httpID:     httpID,
		name:       name,
		items:      items,
		defaultKey: defaultKey,
	}
	d.Reset()

	return &d
}

// NewIssuer returns a filter on the organisation owning the data.
func NewIssuer() *Dropdown {
	return NewDropdown("issuer", "Issuer", "Organizations", []Item{
		{Key: "true", Value: "Current Organization"},
		{Key: "false", Value: "Roaming"},
	}, AllKey)
}

func (d *Dropdown) ID() string     { return d.id }
func (d *Dropdown) HTTPID() string { return d.httpID }
func (d *Dropdown) Name() string   { return d.name }
func (d *Dropdown) Type() Type     { return TypeDropdown }
func (d *Dropdown) IsAll() bool    { return d.current == AllKey }

// Items returns the entries, all first.
func (d *Dropdown) Items() []Item {
	out := make([]Item, 0, len(d.items)+1)
	out = append(out, Item{Key: AllKey, Value: "All"})

	return append(out, d.items...)
}

// Current returns the selected key.
func (d *Dropdown) Current() string {
	return d.current
}

func (d *Dropdown) Reset() {
	d.current = d.defaultKey
}

// Set accepts the key of one of the entries as a string or an Item.
func (d *Dropdown) Set(v any) error {
	var key string
	switch t := v.(type) {
	case string:
		key = t
	case Item:
		key = t.Key
	default:
		return ErrInvalidValue
	}
	for _, it := range d.Items() {
		if it.Key == key {
			d.current = key
			return nil
		}
	}

	return ErrInvalidValue
}

func (d *Dropdown) Encode(vv Values) {
	if d.IsAll() {
		return
	}
	vv[d.httpID] = d.current
}

func (d *Dropdown) Display() string {
	for _, it := range d.Items() {
		if it.Key == d.current {
			return it.Value
		}
	}

	return d.current
}
