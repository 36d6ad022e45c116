package filestore

import (
	"context"
	"fmt"
	"sync"
)

// Memory keeps uploads in process memory for tests and local runs.
type Memory struct {
	mu      sync.Mutex
	nextRef int
	files   map[string]memoryFile
}

type memoryFile struct {
	name    string
	folder  string
	content []byte
}

func NewMemory() *Memory {
	return &Memory{files: make(map[string]memoryFile)}
}

func (m *Memory) Store(_ context.Context, content []byte, name string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextRef++
	ref := fmt.Sprintf("mem-%d", m.nextRef)
	m.files[ref] = memoryFile{name: name, content: append([]byte(nil), content...)}
	return ref, nil
}

func (m *Memory) Move(_ context.Context, ref, targetFolder string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.files[ref]
	if !ok {
		return fmt.Errorf("file %s not found", ref)
	}
	f.folder = targetFolder
	m.files[ref] = f
	return nil
}

// Folder reports which folder a reference currently sits in. Test helper.
func (m *Memory) Folder(ref string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.files[ref].folder
}
