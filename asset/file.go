package asset

import (
	"io/ioutil"

	"github.com/db47h/ofs"
	"golang.org/x/xerrors"
)

type file []byte

func loadFile(fs ofs.FileSystem, name string) (interface{}, error) {
	r, err := fs.Open(name)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	data, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return file(data), nil
}

// File returns the contents of the named raw file asset.
func (m *Manager) File(name string) ([]byte, error) {
	m.m.Lock()
	defer m.m.Unlock()
	for {
		var err error
		a, s := m.lookup(TypeFile, name)
		switch s {
		case stateMissing:
			a, err = m.syncLoad(TypeFile, name, loadFile)
			if err != nil {
				return nil, err
			}
			fallthrough
		case stateLoaded:
			if data, ok := a.(file); ok {
				return data, nil
			}
			return nil, xerrors.Errorf("asset %s is not a raw file", name)
		}
		m.cond.Wait()
	}
}
