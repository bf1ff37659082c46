package action_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/evcon/evcon/internal/action"
)

func TestFind(t *testing.T) {
	dd := []action.Def{
		action.NewEdit(),
		action.NewMore(action.NewOpenInMaps(), action.NewDelete()),
	}

	d, ok := action.Find(dd, action.Delete)
	assert.True(t, ok)
	assert.True(t, d.Dangerous)

	_, ok = action.Find(dd, action.Revoke)
	assert.False(t, ok)

	assert.Equal(t, []action.ID{action.Edit, action.OpenInMaps, action.Delete}, action.IDs(action.Flatten(dd)))
}

func TestInsert(t *testing.T) {
	uu := map[string]struct {
		at int
		e  []action.ID
	}{
		"front":  {at: 0, e: []action.ID{action.View, action.Edit, action.Delete}},
		"middle": {at: 1, e: []action.ID{action.Edit, action.View, action.Delete}},
		"past":   {at: 9, e: []action.ID{action.Edit, action.Delete, action.View}},
	}

	for k := range uu {
		u := uu[k]
		t.Run(k, func(t *testing.T) {
			dd := action.Insert([]action.Def{action.NewEdit(), action.NewDelete()}, u.at, action.NewView())
			assert.Equal(t, u.e, action.IDs(dd))
		})
	}
}
