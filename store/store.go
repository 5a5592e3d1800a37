// Package store persists ImageAssets to named files under a root directory,
// one file per asset, addressed by stem name. This is the external "asset
// store" collaborator: the core pipeline neither reads nor writes files.
package store

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/zinbin/tlimg/asset"
)

const extension = ".tlimg"

// Store addresses ImageAssets by stem name under a root directory.
type Store struct {
	root string
}

// Open returns a Store rooted at dir, creating dir if it does not exist.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("store: create root %s: %w", dir, err)
	}
	return &Store{root: dir}, nil
}

// Save encodes asset a and writes it atomically to <name>.tlimg: it encodes
// to a uniquely-named sibling temp file first, then renames over the final
// path, so a crash mid-write never corrupts an existing asset.
func (s *Store) Save(name string, a asset.ImageAsset) error {
	final := s.path(name)
	tmp := final + "." + uuid.NewString() + ".tmp"

	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("store: create %s: %w", tmp, err)
	}
	if err := gob.NewEncoder(f).Encode(a); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("store: encode %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("store: close %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, final); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("store: rename %s: %w", tmp, err)
	}
	return nil
}

// Load decodes the asset named name.
func (s *Store) Load(name string) (asset.ImageAsset, error) {
	f, err := os.Open(s.path(name))
	if err != nil {
		return asset.ImageAsset{}, fmt.Errorf("store: open %s: %w", name, err)
	}
	defer f.Close()

	var a asset.ImageAsset
	if err := gob.NewDecoder(f).Decode(&a); err != nil {
		return asset.ImageAsset{}, fmt.Errorf("store: decode %s: %w", name, err)
	}
	return a, nil
}

// Delete removes the asset named name. It is not an error to delete an
// asset that does not exist.
func (s *Store) Delete(name string) error {
	if err := os.Remove(s.path(name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("store: delete %s: %w", name, err)
	}
	return nil
}

// Rename renames an asset from oldName to newName.
func (s *Store) Rename(oldName, newName string) error {
	if oldName == "" || newName == "" {
		return fmt.Errorf("store: rename: empty name")
	}
	if oldName == newName {
		return nil
	}
	if _, err := os.Stat(s.path(newName)); err == nil {
		return fmt.Errorf("store: rename: %s already exists", newName)
	}
	if err := os.Rename(s.path(oldName), s.path(newName)); err != nil {
		return fmt.Errorf("store: rename %s to %s: %w", oldName, newName, err)
	}
	return nil
}

// Entry describes one stored asset found by List.
type Entry struct {
	Name string
	Path string
}

// List enumerates the stored assets under the store's root.
func (s *Store) List() ([]Entry, error) {
	dirEntries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("store: list %s: %w", s.root, err)
	}

	var entries []Entry
	for _, de := range dirEntries {
		if de.IsDir() || filepath.Ext(de.Name()) != extension {
			continue
		}
		name := strings.TrimSuffix(de.Name(), extension)
		entries = append(entries, Entry{Name: name, Path: filepath.Join(s.root, de.Name())})
	}
	return entries, nil
}

func (s *Store) path(name string) string {
	return filepath.Join(s.root, name+extension)
}
