package savedata

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"voxel-game/internal/logging"
	"voxel-game/internal/profiling"
	"voxel-game/internal/world"

	"github.com/dgraph-io/badger/v3"
)

// ErrWorldNotFound is returned when no save exists under a name.
var ErrWorldNotFound = errors.New("world not found")

// Store keeps one save blob per world name.
type Store interface {
	Load(name string) ([]byte, error)
	Save(name string, data []byte) error
	Close() error
}

func validName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("invalid world name %q", name)
	}
	return nil
}

// FileStore writes worlds to <dir>/worlds/<name>.bin.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (s *FileStore) path(name string) string {
	return filepath.Join(s.dir, "worlds", name+".bin")
}

func (s *FileStore) Load(name string) ([]byte, error) {
	if err := validName(name); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path(name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrWorldNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("read world file: %w", err)
	}
	return data, nil
}

// Save replaces the file atomically so a crash never leaves half a save.
func (s *FileStore) Save(name string, data []byte) error {
	if err := validName(name); err != nil {
		return err
	}
	path := s.path(name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create worlds dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), name+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write world file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write world file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace world file: %w", err)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }

// BadgerStore keeps worlds in a Badger key-value database under "world:<name>".
type BadgerStore struct {
	db *badger.DB
}

// OpenBadgerStore opens (or creates) a database in dir.
func OpenBadgerStore(dir string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil
	return openBadger(opts)
}

// OpenInMemoryBadgerStore opens a database that lives only in memory.
func OpenInMemoryBadgerStore() (*BadgerStore, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil
	return openBadger(opts)
}

func openBadger(opts badger.Options) (*BadgerStore, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

func worldKey(name string) []byte {
	return []byte("world:" + name)
}

func (s *BadgerStore) Load(name string) ([]byte, error) {
	if err := validName(name); err != nil {
		return nil, err
	}
	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(worldKey(name))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrWorldNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("badger load: %w", err)
	}
	return data, nil
}

func (s *BadgerStore) Save(name string, data []byte) error {
	if err := validName(name); err != nil {
		return err
	}
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(worldKey(name), data)
	})
	if err != nil {
		return fmt.Errorf("badger save: %w", err)
	}
	return nil
}

func (s *BadgerStore) Close() error {
	return s.db.Close()
}

// SaveWorld encodes w and stores it under name.
func SaveWorld(s Store, name string, w *world.World) error {
	defer profiling.Track("savedata.SaveWorld")()
	logging.Info("Saving game world %s...", name)

	data, err := Encode(w)
	if err != nil {
		return fmt.Errorf("encode world %s: %w", name, err)
	}
	if err := s.Save(name, data); err != nil {
		return err
	}

	logging.Info("Saved game world %s (%d chunks, %d bytes)", name, w.Len(), len(data))
	return nil
}

// LoadWorld reads and decodes the world stored under name.
func LoadWorld(s Store, name string) (*world.World, error) {
	defer profiling.Track("savedata.LoadWorld")()

	data, err := s.Load(name)
	if err != nil {
		return nil, err
	}
	w, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode world %s: %w", name, err)
	}
	logging.Info("Loaded game world %s (%d chunks)", name, w.Len())
	return w, nil
}

// LoadOrCreate loads the world called name, or builds a fresh one with
// create when none has been saved yet. Other errors are returned as is.
func LoadOrCreate(s Store, name string, create func() *world.World) (*world.World, bool, error) {
	w, err := LoadWorld(s, name)
	if errors.Is(err, ErrWorldNotFound) {
		logging.Info("No saved world %s, creating a new one", name)
		return create(), true, nil
	}
	if err != nil {
		return nil, false, err
	}
	return w, false, nil
}
