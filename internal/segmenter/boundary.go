package segmenter

// State is the position of the boundary detector within the
// silence/track alternation of the recording.
type State int

const (
	// StateSilence means no track is in progress and no candidate start
	// has been seen.
	StateSilence State = iota
	// StateTrackStarting means energy has appeared but has not yet
	// persisted for the minimum signal period.
	StateTrackStarting
	// StateTrack means a confirmed track is in progress.
	StateTrack
	// StateTrackEnding means silence has appeared inside a track but has
	// not yet persisted for the minimum silence period.
	StateTrackEnding
)

func (s State) String() string {
	switch s {
	case StateSilence:
		return "silence"
	case StateTrackStarting:
		return "track-starting"
	case StateTrack:
		return "track"
	case StateTrackEnding:
		return "track-ending"
	default:
		return "unknown"
	}
}

// ttlOp describes how a transition adjusts the hysteresis countdown.
type ttlOp int

const (
	ttlKeep ttlOp = iota
	ttlDecrement
	ttlArmSignal  // load minimum signal period, less the frame just seen
	ttlArmSilence // load minimum silence period
)

// actions lists the side effects the stream driver must perform for one
// classified center frame. The transition function itself performs none
// of them.
type actions struct {
	markStart  bool // remember the current position as candidate track start
	appendLead bool // stash the center frame in the lead-in buffer
	purgeLead  bool // discard the lead-in buffer (false positive)
	beginTrack bool // confirm the track: resolve name, open sink, flush lead-in
	commit     bool // write the center frame to the open track
	finalize   bool // close the track at the current position
	ttl        ttlOp
}

// transition is the hysteresis table. Given the current state, whether the
// energy window classifies the center frame as signal, whether the
// countdown has run out, and whether the minimum track length has elapsed
// since the candidate start, it yields the next state and the actions to
// take. It is pure: no I/O, no buffers, no counters.
func transition(st State, signal, ttlExpired, pastMinTrack bool) (State, actions) {
	switch st {
	case StateSilence:
		if signal {
			return StateTrackStarting, actions{markStart: true, appendLead: true, ttl: ttlArmSignal}
		}
		return StateSilence, actions{}

	case StateTrackStarting:
		if !signal {
			return StateSilence, actions{purgeLead: true}
		}
		if !ttlExpired {
			return StateTrackStarting, actions{appendLead: true, ttl: ttlDecrement}
		}
		return StateTrack, actions{beginTrack: true, commit: true}

	case StateTrack:
		if !signal && pastMinTrack {
			return StateTrackEnding, actions{commit: true, ttl: ttlArmSilence}
		}
		return StateTrack, actions{commit: true}

	case StateTrackEnding:
		if signal {
			return StateTrack, actions{commit: true}
		}
		if !ttlExpired {
			return StateTrackEnding, actions{commit: true, ttl: ttlDecrement}
		}
		return StateSilence, actions{commit: true, finalize: true}
	}
	return st, actions{}
}

// tracker binds the transition table to the countdown and candidate start
// counters.
type tracker struct {
	state      State
	ttl        int64
	trackStart int64

	minSignalLen  int64
	minSilenceLen int64
	minTrackLen   int64
}

func newTracker(minSignalLen, minSilenceLen, minTrackLen int64) *tracker {
	return &tracker{
		state:         StateSilence,
		minSignalLen:  minSignalLen,
		minSilenceLen: minSilenceLen,
		minTrackLen:   minTrackLen,
	}
}

// step advances the detector by one classified frame at position pos and
// returns the actions the driver must carry out.
func (t *tracker) step(signal bool, pos int64) actions {
	next, act := transition(t.state, signal, t.ttl <= 0, pos >= t.trackStart+t.minTrackLen)
	switch act.ttl {
	case ttlArmSignal:
		t.ttl = t.minSignalLen - 1
	case ttlArmSilence:
		t.ttl = t.minSilenceLen
	case ttlDecrement:
		t.ttl--
	}
	if act.markStart {
		t.trackStart = pos
	}
	t.state = next
	return act
}
