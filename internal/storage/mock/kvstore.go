package mock

import (
	"sync"
)

// KVStore mocks storage.KVStore.
type KVStore struct {
	data    map[string][]byte
	reads   int
	updates int
	deletes int
	m       sync.Mutex

	// ReadErr, if set, is returned from every ReadKey call.
	ReadErr error
	// UpdateErr, if set, is returned from every UpdateKey call.
	UpdateErr error
}

// NewKVStore creates new KVStore instance with given data
func NewKVStore(data map[string][]byte) *KVStore {
	return &KVStore{
		data: data,
	}
}

// ReadKey returns data saved for given key.
func (s *KVStore) ReadKey(key []byte) ([]byte, error) {
	s.m.Lock()
	defer s.m.Unlock()

	s.reads++
	if s.ReadErr != nil {
		return nil, s.ReadErr
	}
	if s.data == nil {
		return nil, nil
	}

	return s.data[string(key)], nil
}

// UpdateKey stores given data under given key.
func (s *KVStore) UpdateKey(key []byte, data []byte) error {
	s.m.Lock()
	defer s.m.Unlock()

	s.updates++
	if s.UpdateErr != nil {
		return s.UpdateErr
	}
	if s.data == nil {
		s.data = make(map[string][]byte)
	}
	s.data[string(key)] = data

	return nil
}

// DeleteKey removes given key.
func (s *KVStore) DeleteKey(key []byte) error {
	s.m.Lock()
	defer s.m.Unlock()

	s.deletes++
	delete(s.data, string(key))

	return nil
}

// Get returns raw data stored under key.
func (s *KVStore) Get(key string) []byte {
	s.m.Lock()
	defer s.m.Unlock()

	return s.data[key]
}

// Reads returns read call count.
func (s *KVStore) Reads() int {
	s.m.Lock()
	defer s.m.Unlock()

	return s.reads
}

// Updates returns update call count.
func (s *KVStore) Updates() int {
	s.m.Lock()
	defer s.m.Unlock()

	return s.updates
}

// Deletes returns delete call count.
func (s *KVStore) Deletes() int {
	s.m.Lock()
	defer s.m.Unlock()

	return s.deletes
}
