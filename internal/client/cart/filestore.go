// internal/client/cart/filestore.go
package cart

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// FileStore 把购物车状态存成一个 JSON 文件。
// 先写临时文件再 rename，避免写一半留下损坏的文件。
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Load() (State, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return State{}, nil
	}
	if err != nil {
		return State{}, errors.Wrap(err, "read cart file")
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return State{}, errors.Wrap(err, "decode cart file")
	}
	return state, nil
}

func (s *FileStore) Save(state State) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode cart state")
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "create cart directory")
	}

	tmp, err := os.CreateTemp(dir, ".cart-*.json")
	if err != nil {
		return errors.Wrap(err, "create temp cart file")
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return errors.Wrap(err, "write temp cart file")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrap(err, "close temp cart file")
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrap(err, "replace cart file")
	}
	return nil
}
