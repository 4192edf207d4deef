package credentials

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/clubify-io/checkout-client/internal/constants"
)

// Storage persists credential contexts. Retrieve returns (nil, nil) when the
// id is unknown; absence is an expected outcome, not an error.
type Storage interface {
	Store(id string, credContext *Context) error
	Retrieve(id string) (*Context, error)
	Exists(id string) bool
	Remove(id string) error
	ListContexts() ([]string, error)
	IsHealthy() bool
}

// MemoryStorage is a map-backed Storage for tests and memory-only managers.
type MemoryStorage struct {
	mu       sync.RWMutex
	contexts map[string]*Context
}

// NewMemoryStorage creates an empty in-memory storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{contexts: make(map[string]*Context)}
}

// Store persists a copy of the context.
func (s *MemoryStorage) Store(id string, credContext *Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clone := *credContext
	s.contexts[id] = &clone

	return nil
}

// Retrieve returns a copy of the stored context, or (nil, nil).
func (s *MemoryStorage) Retrieve(id string) (*Context, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	credContext, ok := s.contexts[id]
	if !ok {
		return nil, nil
	}

	clone := *credContext

	return &clone, nil
}

// Exists reports whether id is stored.
func (s *MemoryStorage) Exists(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.contexts[id]

	return ok
}

// Remove deletes a stored context.
func (s *MemoryStorage) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.contexts, id)

	return nil
}

// ListContexts returns every stored id.
func (s *MemoryStorage) ListContexts() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.contexts))
	for id := range s.contexts {
		ids = append(ids, id)
	}

	return ids, nil
}

// IsHealthy always reports true.
func (s *MemoryStorage) IsHealthy() bool {
	return true
}

// FileStorage persists contexts as a YAML document on disk, one file per
// manager (e.g. ~/.clubify/contexts.yml).
type FileStorage struct {
	mu   sync.Mutex
	path string
}

// NewFileStorage creates a YAML file storage at path, creating the parent
// directory when needed.
func NewFileStorage(path string) (*FileStorage, error) {
	err := os.MkdirAll(filepath.Dir(path), constants.ConfigDirPerm)
	if err != nil {
		return nil, fmt.Errorf("creating storage directory: %w", err)
	}

	return &FileStorage{path: path}, nil
}

// fileDocument is the on-disk shape.
type fileDocument struct {
	Contexts map[string]*Context `yaml:"contexts"`
}

func (s *FileStorage) read() (*fileDocument, error) {
	doc := &fileDocument{Contexts: make(map[string]*Context)}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return doc, nil
		}

		return nil, fmt.Errorf("reading storage file: %w", err)
	}

	err = yaml.Unmarshal(data, doc)
	if err != nil {
		return nil, fmt.Errorf("decoding storage file: %w", err)
	}

	if doc.Contexts == nil {
		doc.Contexts = make(map[string]*Context)
	}

	return doc, nil
}

func (s *FileStorage) write(doc *fileDocument) error {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding storage file: %w", err)
	}

	err = os.WriteFile(s.path, data, constants.ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("writing storage file: %w", err)
	}

	return nil
}

// Store persists a context.
func (s *FileStorage) Store(id string, credContext *Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return err
	}

	clone := *credContext
	doc.Contexts[id] = &clone

	return s.write(doc)
}

// Retrieve returns the stored context, or (nil, nil) when absent.
func (s *FileStorage) Retrieve(id string) (*Context, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return nil, err
	}

	credContext, ok := doc.Contexts[id]
	if !ok {
		return nil, nil
	}

	return credContext, nil
}

// Exists reports whether id is stored.
func (s *FileStorage) Exists(id string) bool {
	credContext, err := s.Retrieve(id)

	return err == nil && credContext != nil
}

// Remove deletes a stored context.
func (s *FileStorage) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return err
	}

	delete(doc.Contexts, id)

	return s.write(doc)
}

// ListContexts returns every stored id.
func (s *FileStorage) ListContexts() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(doc.Contexts))
	for id := range doc.Contexts {
		ids = append(ids, id)
	}

	return ids, nil
}

// IsHealthy reports whether the storage file is readable (or absent, which
// is a valid empty store).
func (s *FileStorage) IsHealthy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.read()

	return err == nil
}
