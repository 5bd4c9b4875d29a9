// Package asset manages asynchronous (pre)loading and caching of textures,
// fonts and raw files from an overlay file system.
//
// GPU-side objects are only created on first use, from the thread that
// owns the graphics context; loading and decoding happen on worker
// goroutines.
package asset

import (
	"path"
	"runtime"
	"strings"
	"sync"

	"github.com/db47h/ofs"
	"golang.org/x/xerrors"
)

var errMissingAsset = xerrors.New("asset not found")

type errorList []error

func (e errorList) Error() string {
	var sb strings.Builder
	for i, err := range e {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(err.Error())
	}
	return sb.String()
}

// Closer is implemented by cached assets owning resources.
type Closer interface {
	Close() error
}

// Type designates the type of an asset.
type Type int

const (
	TypeFont Type = iota
	TypeTexture
	TypeFile
)

// Asset uniquely describes an asset.
type Asset struct {
	Type
	Name string
}

func (a Asset) String() string {
	switch a.Type {
	case TypeFont:
		return "font asset " + a.Name
	case TypeTexture:
		return "texture asset " + a.Name
	case TypeFile:
		return "file asset " + a.Name
	}
	return "unknown asset " + a.Name
}

func Font(name string) Asset    { return Asset{TypeFont, name} }
func Texture(name string) Asset { return Asset{TypeTexture, name} }
func File(name string) Asset    { return Asset{TypeFile, name} }

type config struct {
	texturePath string
	fontPath    string
	filePath    string
}

// Option is implemented by option functions passed as arguments to
// NewManager.
type Option interface {
	set(*config)
}

type cfn func(*config)

func (f cfn) set(cfg *config) {
	f(cfg)
}

// TexturePath returns an Option that sets the default texture path.
func TexturePath(name string) Option {
	return cfn(func(cfg *config) { cfg.texturePath = name })
}

// FontPath returns an Option that sets the default font path.
func FontPath(name string) Option {
	return cfn(func(cfg *config) { cfg.fontPath = name })
}

// FilePath returns an Option that sets the default path for raw files.
func FilePath(name string) Option {
	return cfn(func(cfg *config) { cfg.filePath = name })
}

// A Manager manages loading and caching of assets.
type Manager struct {
	fs      ofs.FileSystem
	cfg     *config
	m       sync.Mutex
	cond    *sync.Cond
	assets  map[Asset]interface{}
	pending map[Asset]struct{}
}

// NewManager returns a new asset Manager.
func NewManager(fs ofs.FileSystem, options ...Option) *Manager {
	cfg := new(config)
	for _, o := range options {
		o.set(cfg)
	}

	m := &Manager{
		fs:      fs,
		cfg:     cfg,
		assets:  make(map[Asset]interface{}),
		pending: make(map[Asset]struct{}),
	}
	m.cond = sync.NewCond(&m.m)
	return m
}

func (m *Manager) assetPath(a *Asset) string {
	switch a.Type {
	case TypeFont:
		return path.Join(m.cfg.fontPath, a.Name)
	case TypeTexture:
		return path.Join(m.cfg.texturePath, a.Name)
	case TypeFile:
		return path.Join(m.cfg.filePath, a.Name)
	}
	return a.Name
}

type loadState int

const (
	stateMissing loadState = iota
	statePending
	stateLoaded
)

// lookup must be called with m.m held.
func (m *Manager) lookup(t Type, name string) (a interface{}, state loadState) {
	k := Asset{t, name}
	if a, ok := m.assets[k]; ok {
		return a, stateLoaded
	}
	if _, ok := m.pending[k]; ok {
		return nil, statePending
	}
	return nil, stateMissing
}

// syncLoad loads an asset synchronously, releasing m.m for the disk access.
// Must be called with m.m held; the caller's lookup must have reported
// stateMissing.
func (m *Manager) syncLoad(t Type, name string, load loaderFunc) (interface{}, error) {
	k := Asset{t, name}
	m.pending[k] = struct{}{}
	m.m.Unlock()
	a, err := load(m.fs, m.assetPath(&k))
	m.m.Lock()
	delete(m.pending, k)
	m.cond.Broadcast()
	if err != nil {
		return nil, xerrors.Errorf("load %s: %w", k, err)
	}
	m.assets[k] = a
	return a, nil
}

type loaderFunc func(fs ofs.FileSystem, name string) (interface{}, error)

func loaderFor(t Type) loaderFunc {
	switch t {
	case TypeFont:
		return loadFont
	case TypeTexture:
		return loadTexture
	default:
		return loadFile
	}
}

// Discard removes the given asset from the cache.
func (m *Manager) Discard(a Asset) (err error) {
	defer func() {
		if err != nil {
			err = xerrors.Errorf("discard %s: %w", a, err)
		}
	}()
	m.m.Lock()
	for {
		if aa, ok := m.assets[a]; ok {
			delete(m.assets, a)
			m.m.Unlock()
			if cl, ok := aa.(Closer); ok {
				return cl.Close()
			}
			return nil
		}
		if _, ok := m.pending[a]; !ok {
			m.m.Unlock()
			return errMissingAsset
		}
		m.cond.Wait()
	}
}

// Close discards all assets.
func (m *Manager) Close() error {
	m.m.Lock()
	defer m.m.Unlock()
	var errs errorList
	for k, a := range m.assets {
		delete(m.assets, k)
		if cl, ok := a.(Closer); ok {
			if err := cl.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	if errs != nil {
		return errs
	}
	return nil
}

// Result wraps the result from preloading an asset.
type Result struct {
	Asset
	Err error
}

// Preload bulk preloads assets. If the flush argument is true, cached
// assets not present in the asset list are removed from the cache. It
// returns a channel to read preload results from as well as the number of
// items that will actually be preloaded. The item count is informational
// only: callers should rely on the rc channel being closed to know that
// the operation is complete.
//
// Calling Preload concurrently may result in unexpected side effects, like
// flushing assets that should not be.
func (m *Manager) Preload(assets []Asset, flush bool) (rc <-chan Result, n int) {
	m.m.Lock()
	if flush {
		keep := make(map[Asset]struct{}, len(assets))
		for i := range assets {
			keep[assets[i]] = struct{}{}
		}
		for k := range m.assets {
			if _, ok := keep[k]; !ok {
				delete(m.assets, k)
			}
		}
	}

	// skip assets already loaded or pending
	todo := assets[:0]
	for _, a := range assets {
		if _, state := m.lookup(a.Type, a.Name); state == stateMissing {
			m.pending[a] = struct{}{}
			todo = append(todo, a)
		}
	}
	m.m.Unlock()

	c := make(chan Result)
	go m.preload(todo, c)
	return c, len(todo)
}

func (m *Manager) preload(assets []Asset, rc chan<- Result) {
	// limit the number of workers to bound simultaneous disk access
	sem := make(chan struct{}, 2*runtime.NumCPU())
	var wg sync.WaitGroup
	for i := range assets {
		a := assets[i]
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer func() { <-sem; wg.Done() }()
			data, err := loaderFor(a.Type)(m.fs, m.assetPath(&a))
			m.m.Lock()
			if err != nil {
				err = xerrors.Errorf("preload %s: %w", a, err)
			} else {
				m.assets[a] = data
			}
			delete(m.pending, a)
			m.cond.Broadcast()
			m.m.Unlock()
			rc <- Result{Asset: a, Err: err}
		}()
	}
	wg.Wait()
	close(rc)
}

// Wait waits for completion of a previous Preload and returns any load
// errors.
func Wait(rc <-chan Result) error {
	var errs errorList
	for r := range rc {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	if errs != nil {
		return errs
	}
	return nil
}
