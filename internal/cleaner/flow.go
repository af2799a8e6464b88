package cleaner

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"media-sweep/internal/analytics"
	"media-sweep/internal/asset"
	"media-sweep/internal/selection"
)

// State is the deletion flow's position. The flow moves
// Idle -> Confirming -> Deleting -> Succeeded | Failed, then back to Idle
// after the outcome is acknowledged.
type State int

const (
	StateIdle State = iota
	StateConfirming
	StateDeleting
	StateSucceeded
	StateFailed
)

// Request is the answer to a delete request.
type Request int

const (
	// RequestConfirm means a destructive-action confirmation is now pending.
	RequestConfirm Request = iota
	// RequestNothing means the selection was empty; nothing to do, no
	// collaborator call.
	RequestNothing
	// RequestPaywall means the caller is not entitled; redirect to the
	// purchase offer.
	RequestPaywall
)

// Deleter is the batch-deletion half of the library contract.
type Deleter interface {
	DeleteAssets(ctx context.Context, ids []string) ([]string, error)
}

// BackupFunc archives the snapshot before deletion. A backup error aborts
// the batch.
type BackupFunc func(ctx context.Context, assets []asset.MediaAsset) error

// Result reports a completed deletion, computed from the pre-deletion
// snapshot rather than by re-querying the library.
type Result struct {
	FilesDeleted int
	SpaceFreed   int64
}

// Flow drives one deletion at a time over the currently displayed selection.
type Flow struct {
	deleter Deleter
	gate    selection.Entitlement
	sink    analytics.Sink
	log     zerolog.Logger

	dryRun bool
	backup BackupFunc

	state    State
	list     *selection.List
	category asset.Category
	snapshot []asset.MediaAsset
}

// NewFlow builds an idle flow.
func NewFlow(deleter Deleter, gate selection.Entitlement, sink analytics.Sink, log zerolog.Logger) *Flow {
	return &Flow{deleter: deleter, gate: gate, sink: sink, log: log}
}

// SetDryRun makes Confirm simulate success without calling the collaborator.
func (f *Flow) SetDryRun(v bool) { f.dryRun = v }

// SetBackup installs an optional pre-deletion backup step.
func (f *Flow) SetBackup(b BackupFunc) { f.backup = b }

// State returns the current flow state.
func (f *Flow) State() State { return f.state }

// PendingCount is the number of assets in the snapshot awaiting confirmation.
func (f *Flow) PendingCount() int { return len(f.snapshot) }

// PendingSize is the total byte count of the snapshot.
func (f *Flow) PendingSize() int64 {
	var total int64
	for _, a := range f.snapshot {
		total += a.SizeOrZero()
	}
	return total
}

// RequestDelete starts a deletion for the list's current selection. The
// entitlement gate is consulted first; an empty selection short-circuits to
// a "nothing to do" notice without touching the collaborator.
func (f *Flow) RequestDelete(list *selection.List, category asset.Category) Request {
	if f.state != StateIdle {
		return RequestNothing
	}
	if !f.gate.Allowed() {
		f.sink.Track(analytics.PaywallShown{Trigger: "delete"})
		return RequestPaywall
	}
	if list.SelectedCount() == 0 {
		return RequestNothing
	}
	f.list = list
	f.category = category
	f.snapshot = list.Snapshot()
	f.state = StateConfirming
	return RequestConfirm
}

// Cancel abandons a pending confirmation and returns to Idle with no state
// change anywhere.
func (f *Flow) Cancel() {
	if f.state != StateConfirming {
		return
	}
	f.reset()
}

// Confirm executes the batch deletion for the snapshot. On success the
// result carries count and bytes freed from the snapshot. On failure the
// selection survives for a retry, reconciled against any ids the library
// reports it did remove, so a retry never re-requests a file already gone.
func (f *Flow) Confirm(ctx context.Context) (Result, error) {
	if f.state != StateConfirming {
		return Result{}, errors.New("no deletion pending confirmation")
	}
	f.state = StateDeleting

	if f.backup != nil {
		if err := f.backup(ctx, f.snapshot); err != nil {
			f.state = StateFailed
			return Result{}, fmt.Errorf("backup before delete: %w", err)
		}
	}

	ids := make([]string, 0, len(f.snapshot))
	for _, a := range f.snapshot {
		ids = append(ids, a.ID)
	}

	var deleted []string
	var err error
	if f.dryRun {
		deleted = ids
	} else {
		deleted, err = f.deleter.DeleteAssets(ctx, ids)
	}

	f.list.Remove(deleted)

	if err != nil {
		f.log.Warn().Err(err).Int("requested", len(ids)).Int("deleted", len(deleted)).Msg("batch deletion failed")
		f.state = StateFailed
		return Result{}, fmt.Errorf("delete assets: %w", err)
	}

	res := Result{FilesDeleted: len(f.snapshot), SpaceFreed: f.PendingSize()}
	f.sink.Track(analytics.FilesDeleted{
		Count:      res.FilesDeleted,
		Category:   f.category,
		SpaceFreed: res.SpaceFreed,
	})
	f.log.Info().Int("files", res.FilesDeleted).Int64("freed", res.SpaceFreed).Msg("deletion complete")
	f.state = StateSucceeded
	return res, nil
}

// Ack acknowledges a terminal outcome and returns the flow to Idle.
func (f *Flow) Ack() {
	if f.state != StateSucceeded && f.state != StateFailed {
		return
	}
	f.reset()
}

func (f *Flow) reset() {
	f.state = StateIdle
	f.list = nil
	f.category = ""
	f.snapshot = nil
}
