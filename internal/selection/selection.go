package selection

import "media-sweep/internal/asset"

// Entitlement gates every mutating operation. When it reports false the
// operation is refused and the caller is redirected to the purchase offer.
type Entitlement interface {
	Allowed() bool
}

// Outcome is the result of a gated selection operation.
type Outcome int

const (
	// OutcomeApplied means the operation mutated the selection.
	OutcomeApplied Outcome = iota
	// OutcomeNoop means the target was not found; nothing changed.
	OutcomeNoop
	// OutcomePaywall means the caller is not entitled; nothing changed and
	// the UI should navigate to the purchase offer.
	OutcomePaywall
)

// List tracks which assets in the currently displayed category are marked
// for deletion. It is owned by exactly one screen at a time; the selected
// flags never outlive the list.
type List struct {
	assets []asset.MediaAsset
	gate   Entitlement
}

// NewList builds a selection list over the given assets. All selected flags
// start false regardless of what the input carries.
func NewList(assets []asset.MediaAsset, gate Entitlement) *List {
	owned := make([]asset.MediaAsset, len(assets))
	copy(owned, assets)
	for i := range owned {
		owned[i].Selected = false
	}
	return &List{assets: owned, gate: gate}
}

// Assets returns the current assets in display order. The returned slice is
// the list's own storage; callers render from it but mutate only through
// Toggle and ToggleAll.
func (l *List) Assets() []asset.MediaAsset {
	return l.assets
}

// Len returns the number of visible assets.
func (l *List) Len() int {
	return len(l.assets)
}

// Toggle flips the selected flag of the asset with the given id.
func (l *List) Toggle(id string) Outcome {
	if !l.gate.Allowed() {
		return OutcomePaywall
	}
	for i := range l.assets {
		if l.assets[i].ID == id {
			l.assets[i].Selected = !l.assets[i].Selected
			return OutcomeApplied
		}
	}
	return OutcomeNoop
}

// ToggleAll selects every asset unless every asset is already selected, in
// which case it deselects all.
func (l *List) ToggleAll() Outcome {
	if !l.gate.Allowed() {
		return OutcomePaywall
	}
	if len(l.assets) == 0 {
		return OutcomeNoop
	}
	target := !l.AllSelected()
	for i := range l.assets {
		l.assets[i].Selected = target
	}
	return OutcomeApplied
}

// AllSelected reports whether every visible asset is selected.
func (l *List) AllSelected() bool {
	if len(l.assets) == 0 {
		return false
	}
	for _, a := range l.assets {
		if !a.Selected {
			return false
		}
	}
	return true
}

// SelectedCount is derived from the flags on every call; it is never stored.
func (l *List) SelectedCount() int {
	n := 0
	for _, a := range l.assets {
		if a.Selected {
			n++
		}
	}
	return n
}

// SelectedSize sums the file sizes of selected assets, treating unknown as 0.
func (l *List) SelectedSize() int64 {
	var total int64
	for _, a := range l.assets {
		if a.Selected {
			total += a.SizeOrZero()
		}
	}
	return total
}

// SelectedIDs returns the ids of selected assets in display order.
func (l *List) SelectedIDs() []string {
	var ids []string
	for _, a := range l.assets {
		if a.Selected {
			ids = append(ids, a.ID)
		}
	}
	return ids
}

// Snapshot returns copies of the selected assets, for pre-deletion
// accounting that must not depend on the list afterwards.
func (l *List) Snapshot() []asset.MediaAsset {
	var out []asset.MediaAsset
	for _, a := range l.assets {
		if a.Selected {
			out = append(out, a)
		}
	}
	return out
}

// Remove drops the assets with the given ids from the list. Used to
// reconcile the visible list against ids the library reports deleted.
func (l *List) Remove(ids []string) {
	if len(ids) == 0 {
		return
	}
	gone := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		gone[id] = struct{}{}
	}
	kept := l.assets[:0]
	for _, a := range l.assets {
		if _, ok := gone[a.ID]; ok {
			continue
		}
		kept = append(kept, a)
	}
	l.assets = kept
}
