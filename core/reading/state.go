package reading

// State is a step of the acquisition state machine
type State int

const (
	ColdStart State = iota
	CacheHit
	CacheMiss
	SnapshotAttempt
	SnapshotHit
	SnapshotMiss
	LiveAttempt
	LiveSuccess
	LiveExhausted
)

var stateNames = map[State]string{
	ColdStart:       "cold_start",
	CacheHit:        "cache_hit",
	CacheMiss:       "cache_miss",
	SnapshotAttempt: "snapshot_attempt",
	SnapshotHit:     "snapshot_hit",
	SnapshotMiss:    "snapshot_miss",
	LiveAttempt:     "live_attempt",
	LiveSuccess:     "live_success",
	LiveExhausted:   "live_exhausted",
}

// String returns the state's log name
func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// Terminal reports whether a foreground load can end in s
func (s State) Terminal() bool {
	switch s {
	case CacheHit, SnapshotHit, LiveSuccess, LiveExhausted:
		return true
	}
	return false
}
