package asset

import (
	"io/ioutil"

	"github.com/db47h/ofs"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/xerrors"

	"github.com/mediafe/pixi.js/text"
	"github.com/mediafe/pixi.js/texture"
)

type fnt struct {
	name string
	f    *truetype.Font
	ds   map[fntOpts]*text.Drawer
}

func (f *fnt) Close() error {
	var errs errorList
	for opts, d := range f.ds {
		if err := d.Close(); err != nil {
			errs = append(errs, xerrors.Errorf("close drawer %v: %w", opts, err))
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type fntOpts struct {
	sz float64
	h  font.Hinting
	mf texture.FilterMode
}

func loadFont(fs ofs.FileSystem, name string) (interface{}, error) {
	f, err := fs.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	data, err := ioutil.ReadAll(f)
	if err != nil {
		return nil, err
	}
	ttf, err := truetype.Parse(data)
	if err != nil {
		return nil, err
	}
	return &fnt{name, ttf, make(map[fntOpts]*text.Drawer)}, nil
}

// Font returns the named font asset.
func (m *Manager) Font(name string) (*truetype.Font, error) {
	m.m.Lock()
	defer m.m.Unlock()
	f, err := m.font(name)
	if err != nil {
		return nil, err
	}
	return f.f, nil
}

// FontDrawer returns a text drawer for the named font at the given size.
// Drawers are cached per (size, hinting, filter) tuple and closed together
// with the font asset.
func (m *Manager) FontDrawer(name string, size float64, h font.Hinting, magFilter texture.FilterMode) (*text.Drawer, error) {
	m.m.Lock()
	defer m.m.Unlock()
	f, err := m.font(name)
	if err != nil {
		return nil, err
	}
	opts := fntOpts{size, h, magFilter}
	if d, ok := f.ds[opts]; ok {
		return d, nil
	}
	face := truetype.NewFace(f.f, &truetype.Options{Size: size, Hinting: h})
	d := text.NewDrawer(face, magFilter)
	f.ds[opts] = d
	return d, nil
}

// font must be called with m.m held.
func (m *Manager) font(name string) (*fnt, error) {
	for {
		var err error
		a, s := m.lookup(TypeFont, name)
		switch s {
		case stateMissing:
			a, err = m.syncLoad(TypeFont, name, loadFont)
			if err != nil {
				return nil, err
			}
			fallthrough
		case stateLoaded:
			f, ok := a.(*fnt)
			if !ok {
				return nil, xerrors.Errorf("asset %s is not a font", name)
			}
			return f, nil
		}
		m.cond.Wait()
	}
}
