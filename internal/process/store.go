// File path: internal/process/store.go
package process

import "sync"

// Operation is one row of the process management sheet: a tool correction
// number, a tool number and the step name.
type Operation struct {
	Correction string `json:"correction"`
	Tool       string `json:"tool"`
	Name       string `json:"name"`
}

// Data is the full step dataset for a workpiece, split into front-side and
// back-side operations.
type Data struct {
	FrontOperations []Operation `json:"front_operations"`
	BackOperations  []Operation `json:"back_operations"`
}

// Store holds the currently loaded step dataset. It is explicitly owned and
// injected into handlers; the single-writer semantics live behind this
// narrow interface instead of ambient package state.
type Store struct {
	mu   sync.RWMutex
	data Data
}

func NewStore() *Store {
	return &Store{data: Data{FrontOperations: []Operation{}, BackOperations: []Operation{}}}
}

// Get returns a copy of the current dataset.
func (s *Store) Get() Data {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Data{
		FrontOperations: append([]Operation(nil), s.data.FrontOperations...),
		BackOperations:  append([]Operation(nil), s.data.BackOperations...),
	}
}

// Replace swaps the dataset wholesale.
func (s *Store) Replace(data Data) {
	if data.FrontOperations == nil {
		data.FrontOperations = []Operation{}
	}
	if data.BackOperations == nil {
		data.BackOperations = []Operation{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = data
}

// Clear resets the dataset to empty.
func (s *Store) Clear() {
	s.Replace(Data{})
}
