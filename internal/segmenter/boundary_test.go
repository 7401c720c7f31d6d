package segmenter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransition(t *testing.T) {
	tests := []struct {
		name         string
		state        State
		signal       bool
		ttlExpired   bool
		pastMinTrack bool
		wantState    State
		wantActions  actions
	}{
		{
			name:        "silence_stays_on_silence",
			state:       StateSilence,
			wantState:   StateSilence,
			wantActions: actions{},
		},
		{
			name:        "silence_arms_on_signal",
			state:       StateSilence,
			signal:      true,
			wantState:   StateTrackStarting,
			wantActions: actions{markStart: true, appendLead: true, ttl: ttlArmSignal},
		},
		{
			name:        "starting_rejects_false_positive",
			state:       StateTrackStarting,
			signal:      false,
			wantState:   StateSilence,
			wantActions: actions{purgeLead: true},
		},
		{
			name:        "starting_counts_down",
			state:       StateTrackStarting,
			signal:      true,
			wantState:   StateTrackStarting,
			wantActions: actions{appendLead: true, ttl: ttlDecrement},
		},
		{
			name:        "starting_confirms_track",
			state:       StateTrackStarting,
			signal:      true,
			ttlExpired:  true,
			wantState:   StateTrack,
			wantActions: actions{beginTrack: true, commit: true},
		},
		{
			name:        "track_commits_on_signal",
			state:       StateTrack,
			signal:      true,
			wantState:   StateTrack,
			wantActions: actions{commit: true},
		},
		{
			name:        "track_ignores_silence_before_min_length",
			state:       StateTrack,
			signal:      false,
			wantState:   StateTrack,
			wantActions: actions{commit: true},
		},
		{
			name:         "track_arms_ending_after_min_length",
			state:        StateTrack,
			signal:       false,
			pastMinTrack: true,
			wantState:    StateTrackEnding,
			wantActions:  actions{commit: true, ttl: ttlArmSilence},
		},
		{
			name:        "ending_reenters_track_on_signal",
			state:       StateTrackEnding,
			signal:      true,
			ttlExpired:  true,
			wantState:   StateTrack,
			wantActions: actions{commit: true},
		},
		{
			name:        "ending_counts_down",
			state:       StateTrackEnding,
			signal:      false,
			wantState:   StateTrackEnding,
			wantActions: actions{commit: true, ttl: ttlDecrement},
		},
		{
			name:        "ending_finalizes",
			state:       StateTrackEnding,
			signal:      false,
			ttlExpired:  true,
			wantState:   StateSilence,
			wantActions: actions{commit: true, finalize: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, act := transition(tt.state, tt.signal, tt.ttlExpired, tt.pastMinTrack)
			assert.Equal(t, tt.wantState, next)
			assert.Equal(t, tt.wantActions, act)
		})
	}
}

func TestTrackerCountdowns(t *testing.T) {
	tr := newTracker(3, 2, 5)

	// Three consecutive signal frames confirm the track.
	act := tr.step(true, 10)
	assert.True(t, act.markStart)
	assert.Equal(t, StateTrackStarting, tr.state)
	assert.Equal(t, int64(10), tr.trackStart)
	assert.Equal(t, int64(2), tr.ttl)

	act = tr.step(true, 11)
	assert.Equal(t, ttlDecrement, act.ttl)
	act = tr.step(true, 12)
	assert.Equal(t, ttlDecrement, act.ttl)

	act = tr.step(true, 13)
	assert.True(t, act.beginTrack)
	assert.Equal(t, StateTrack, tr.state)

	// Silence before the minimum track length keeps the track open.
	act = tr.step(false, 14)
	assert.Equal(t, StateTrack, tr.state)
	assert.True(t, act.commit)

	// Silence past the minimum track length arms the ending countdown.
	act = tr.step(false, 15)
	assert.Equal(t, StateTrackEnding, tr.state)
	assert.Equal(t, int64(2), tr.ttl)

	tr.step(false, 16)
	tr.step(false, 17)
	act = tr.step(false, 18)
	assert.True(t, act.finalize)
	assert.Equal(t, StateSilence, tr.state)
}

func TestTrackerFalsePositive(t *testing.T) {
	tr := newTracker(5, 2, 5)

	tr.step(true, 0)
	tr.step(true, 1)
	act := tr.step(false, 2)
	assert.True(t, act.purgeLead)
	assert.False(t, act.finalize)
	assert.Equal(t, StateSilence, tr.state)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "silence", StateSilence.String())
	assert.Equal(t, "track-starting", StateTrackStarting.String())
	assert.Equal(t, "track", StateTrack.String())
	assert.Equal(t, "track-ending", StateTrackEnding.String())
}
