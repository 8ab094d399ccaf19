package domain

import "time"

// Dataset is the full games table as loaded from the backing store.
// It is built once by the loader and never mutated afterwards, so it can be
// shared between goroutines without locking.
type Dataset struct {
	games      []Game
	source     string
	snapshotID string
	loadedAt   time.Time
}

// NewDataset wraps games in a Dataset. The slice is copied so later changes
// by the caller cannot leak into the Dataset.
func NewDataset(games []Game, source, snapshotID string, loadedAt time.Time) *Dataset {
	owned := make([]Game, len(games))
	copy(owned, games)
	return &Dataset{
		games:      owned,
		source:     source,
		snapshotID: snapshotID,
		loadedAt:   loadedAt,
	}
}

// Len returns the number of rows. A nil Dataset has no rows.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.games)
}

// At returns the row at position i in load order.
func (d *Dataset) At(i int) Game {
	return d.games[i]
}

// Each calls fn for every row in load order until fn returns false.
// fn receives a pointer into the Dataset and must not modify it.
func (d *Dataset) Each(fn func(i int, g *Game) bool) {
	if d == nil {
		return
	}
	for i := range d.games {
		if !fn(i, &d.games[i]) {
			return
		}
	}
}

// Games returns a copy of all rows in load order.
func (d *Dataset) Games() []Game {
	if d == nil {
		return nil
	}
	out := make([]Game, len(d.games))
	copy(out, d.games)
	return out
}

// Source is the identity of the backing store the rows came from.
func (d *Dataset) Source() string { return d.source }

// SnapshotID identifies this particular load of the store.
func (d *Dataset) SnapshotID() string { return d.snapshotID }

// LoadedAt is when the rows were read.
func (d *Dataset) LoadedAt() time.Time { return d.loadedAt }
