package asset

import (
	"image"
	_ "image/jpeg"
	_ "image/png"

	"github.com/db47h/ofs"
	"golang.org/x/xerrors"

	"github.com/mediafe/pixi.js/texture"
)

// texImage is a decoded image cached until first use; the GPU texture is
// created lazily from the graphics context thread.
type texImage struct {
	img image.Image
}

func (*texImage) Close() error { return nil }

type tex texture.Texture

func (t *tex) Close() error {
	(*texture.Texture)(t).Delete()
	return nil
}

func loadTexture(fs ofs.FileSystem, name string) (interface{}, error) {
	r, err := fs.Open(name)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	src, _, err := image.Decode(r)
	if err != nil {
		return nil, err
	}
	return &texImage{img: src}, nil
}

// Texture returns the named texture asset, loading it synchronously if it
// is neither cached nor being preloaded. The GPU texture is created on
// first use and must therefore be requested from the thread owning the
// graphics context.
func (m *Manager) Texture(name string, params ...texture.Parameter) (*texture.Texture, error) {
	m.m.Lock()
	defer m.m.Unlock()
	for {
		var err error
		a, s := m.lookup(TypeTexture, name)
		switch s {
		case stateMissing:
			a, err = m.syncLoad(TypeTexture, name, loadTexture)
			if err != nil {
				return nil, err
			}
			fallthrough
		case stateLoaded:
			switch t := a.(type) {
			case *tex:
				tx := (*texture.Texture)(t)
				tx.Parameters(params...)
				return tx, nil
			case *texImage:
				tx := texture.FromImage(t.img, params...)
				m.assets[Asset{TypeTexture, name}] = (*tex)(tx)
				return tx, nil
			default:
				return nil, xerrors.Errorf("asset %s is not a texture", name)
			}
		}
		m.cond.Wait()
	}
}
