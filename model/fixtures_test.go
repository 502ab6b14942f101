package model

import (
	"strings"

	"github.com/hupe1980/statetree/core"
	"github.com/hupe1980/statetree/reactive"
)

// itemType is the basic identified leaf used throughout the tests.
var itemType = MustNewType("item", core.Config{
	"id":    {Kind: core.Identifier},
	"title": {Kind: core.State},
	"upper": {Kind: core.Computed, Compute: func(owner any) any {
		m := owner.(*Model)
		title, _ := m.Get("title").(string)
		return strings.ToUpper(title)
	}},
})

// noteType has no identifier property; its children reuse positionally.
var noteType = MustNewType("note", core.Config{
	"text": {Kind: core.State},
})

// boxType exercises every structural kind: two named child slots, a child
// list, references and a scratch observable.
var boxType = MustNewType("box", core.Config{
	"id":      {Kind: core.Identifier},
	"left":    {Kind: core.Child, Child: itemType},
	"right":   {Kind: core.Child, Child: itemType},
	"items":   {Kind: core.ChildList, Child: itemType},
	"notes":   {Kind: core.ChildList, Child: noteType},
	"fav":     {Kind: core.Reference},
	"picks":   {Kind: core.ReferenceList},
	"scratch": {Kind: core.Observable},
})

func mustCreate(t interface{ Fatalf(string, ...any) }, ty *Type, g *reactive.Graph, snap core.Snapshot) *Model {
	m, err := ty.Create(g, snap)
	if err != nil {
		t.Fatalf("create %s: %v", ty.Name(), err)
	}
	return m
}
