// Package briefio reads campaign briefs from disk and tracks run status in a
// sidecar file next to each brief.
package briefio

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// State is a campaign or product lifecycle state.
type State string

const (
	StatePending    State = "pending"
	StateInProgress State = "in_progress"
	StateDone       State = "done"
	StateFailed     State = "failed"
)

const statusFile = "meta.yaml"

// RunStatus is the persisted progress record for one campaign. A campaign
// marked done is skipped on re-runs; products marked done inside a failed
// campaign are also skipped, so re-runs retry only what failed.
type RunStatus struct {
	path string

	Status      State            `yaml:"status"`
	CompletedAt string           `yaml:"completed_at,omitempty"`
	Products    map[string]State `yaml:"products,omitempty"`
}

// LoadStatus reads the status sidecar from campaignPath. A missing file means
// the campaign has never run and yields a fresh pending record.
func LoadStatus(campaignPath string) (*RunStatus, error) {
	st := &RunStatus{
		path:     filepath.Join(campaignPath, statusFile),
		Status:   StatePending,
		Products: map[string]State{},
	}

	data, err := os.ReadFile(st.path)
	if errors.Is(err, os.ErrNotExist) {
		return st, nil
	}
	if err != nil {
		return nil, fmt.Errorf("briefio: read status: %w", err)
	}
	if err := yaml.Unmarshal(data, st); err != nil {
		return nil, fmt.Errorf("briefio: parse status: %w", err)
	}
	if st.Products == nil {
		st.Products = map[string]State{}
	}
	return st, nil
}

// Done reports whether the whole campaign already completed.
func (s *RunStatus) Done() bool {
	return s.Status == StateDone
}

// ShouldRun reports whether a product still needs processing.
func (s *RunStatus) ShouldRun(product string) bool {
	return s.Products[product] != StateDone
}

// SetProduct records a product state transition in memory; call Save to
// persist it.
func (s *RunStatus) SetProduct(product string, state State) {
	s.Products[product] = state
}

// Finalize stamps the campaign outcome. The campaign is done only when every
// product is done; completed_at is set either way so re-runs can tell a
// finished attempt from an interrupted one.
func (s *RunStatus) Finalize() {
	s.Status = StateDone
	for _, state := range s.Products {
		if state != StateDone {
			s.Status = StateFailed
			break
		}
	}
	s.CompletedAt = time.Now().UTC().Format(time.RFC3339)
}

// Save writes the status record back to its sidecar file.
func (s *RunStatus) Save() error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("briefio: marshal status: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("briefio: write status: %w", err)
	}
	return nil
}
