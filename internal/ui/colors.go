package ui

import (
	"sync/atomic"

	"batterytext/internal/indicator"
	"batterytext/internal/settings"
)

// Header records whether the text sits in the expanded header, where it
// takes the header colour.
type Header struct {
	on atomic.Bool
}

// NewHeader starts in the given context.
func NewHeader(on bool) *Header {
	h := &Header{}
	h.on.Store(on)
	return h
}

func (h *Header) Get() bool   { return h.on.Load() }
func (h *Header) Set(on bool) { h.on.Store(on) }

// FollowColors re-applies the text colour whenever either colour setting
// changes, in the context header reports. The returned func stops following.
func FollowColors(store settings.Store, w *indicator.Widget, header *Header) (cancel func()) {
	apply := func(settings.URI) { w.SetTextColor(header.Get()) }
	cancels := []func(){
		store.Watch(settings.URIFor(settings.KeyTextColor), apply),
		store.Watch(settings.URIFor(settings.KeyHeaderTextColor), apply),
	}
	return func() {
		for _, c := range cancels {
			c()
		}
	}
}
