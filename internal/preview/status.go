package preview

import "sync"

// buildStatus tracks the outcome of the most recent build.
type buildStatus struct {
	mu           sync.RWMutex
	lastError    error
	lastBuildID  string
	builds       int
	hasGoodBuild bool
}

func (bs *buildStatus) setError(err error) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.lastError = err
	bs.builds++
}

func (bs *buildStatus) setSuccess(id string) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.lastError = nil
	bs.lastBuildID = id
	bs.hasGoodBuild = true
	bs.builds++
}

// Snapshot is a copy of the build status, served by /healthz.
type Snapshot struct {
	Status       string `json:"status"`
	Builds       int    `json:"builds"`
	LastBuildID  string `json:"last_build_id,omitempty"`
	LastError    string `json:"last_error,omitempty"`
	HasGoodBuild bool   `json:"has_good_build"`
}

func (bs *buildStatus) snapshot() (Snapshot, error) {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	s := Snapshot{
		Status:       "ok",
		Builds:       bs.builds,
		LastBuildID:  bs.lastBuildID,
		HasGoodBuild: bs.hasGoodBuild,
	}
	if bs.lastError != nil {
		s.Status = "failing"
		s.LastError = bs.lastError.Error()
	}
	return s, bs.lastError
}
