// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package dxc drives the DirectX Shader Compiler from Go without cgo.
//
// The compiler ships as a shared library (dxcompiler) exposing COM-style
// objects, with the validator in a second library (dxil). This package
// loads them at run time, creates their objects and wraps every interface
// in a typed façade: Compiler, Library, Linker, Validator, Assembler,
// Optimizer, ContainerBuilder, ContainerReflection and VersionInfo.
//
// The simplest entry points compile and validate in one call:
//
//	dxil, err := dxc.CompileHLSL("shader.hlsl", source, "main", "ps_6_0", nil, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	signed, err := dxc.ValidateDXIL(dxil)
//
// For repeated work, create a Dxc once and reuse it:
//
//	d, err := dxc.New(dxc.WithLibraryDir("/opt/dxc/lib"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer d.Close()
//	out, err := d.CompileHLSL("shader.hlsl", source, "main", "cs_6_6", []string{"-O3"}, nil)
//
// Façade operations return raw com.HRESULT statuses, or *OperationError
// when an operation ran but its result reports failure. CompileHLSL and
// ValidateDXIL turn those into *Error values carrying the diagnostics.
//
// Handles are not safe for concurrent use. Independent Dxc values may be
// used from different goroutines.
package dxc

import (
	"io"
	"log/slog"

	"github.com/spf13/afero"

	"github.com/gogpu/dxc/cache"
	"github.com/gogpu/dxc/com"
	"github.com/gogpu/dxc/config"
	"github.com/gogpu/dxc/internal/logging"
	"github.com/gogpu/dxc/loader"
)

// Instantiator creates objects by class and interface identifier.
// *loader.Factory is the production implementation.
type Instantiator interface {
	CreateInstance(clsid, iid com.GUID) (*com.Unknown, error)
}

type options struct {
	cfg        *config.Config
	libraryDir string
	log        *slog.Logger
	cache      *cache.Cache
	fs         afero.Fs
	include    IncludeHandler
}

// Option configures New, NewWithInstantiator, NewDxil and
// NewDxilWithInstantiator.
type Option func(*options)

// WithConfig supplies the configuration. The default is config.Default().
func WithConfig(cfg *config.Config) Option {
	return func(o *options) { o.cfg = cfg }
}

// WithLibraryDir overrides the directory the libraries are loaded from.
func WithLibraryDir(dir string) Option {
	return func(o *options) { o.libraryDir = dir }
}

// WithLogger sets the logger. By default nothing is logged.
func WithLogger(log *slog.Logger) Option {
	return func(o *options) { o.log = log }
}

// WithCache sets the compile cache used by CompileHLSL. The caller keeps
// ownership of c.
func WithCache(c *cache.Cache) Option {
	return func(o *options) { o.cache = c }
}

// WithFS sets the file system read by the default include handler.
func WithFS(fs afero.Fs) Option {
	return func(o *options) { o.fs = fs }
}

// WithIncludeHandler replaces the default include handler of CompileHLSL.
func WithIncludeHandler(h IncludeHandler) Option {
	return func(o *options) { o.include = h }
}

func resolve(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.cfg == nil {
		o.cfg = config.Default()
	}
	if o.libraryDir != "" {
		cfg := *o.cfg
		cfg.LibraryDir = o.libraryDir
		o.cfg = &cfg
	}
	if o.log == nil {
		o.log = logging.Discard()
	}
	if o.fs == nil {
		o.fs = afero.NewOsFs()
	}
	if o.include == nil {
		o.include = &FileIncludeHandler{FS: o.fs, Dirs: o.cfg.IncludeDirs}
	}
	return o
}

// Dxc is the root of the compiler library.
type Dxc struct {
	inst      Instantiator
	closer    io.Closer
	library   string
	log       *slog.Logger
	cache     *cache.Cache
	ownsCache bool
	include   IncludeHandler
}

// New loads the compiler library named by the configuration. When the
// configuration names a cache directory, the cache is opened and closed
// with the Dxc.
func New(opts ...Option) (*Dxc, error) {
	o := resolve(opts)
	path := o.cfg.CompilerPath()
	f, err := loader.OpenFactory(path)
	if err != nil {
		return nil, loadError(path, err)
	}
	o.log.Debug("loaded compiler library", "path", path)

	d, err := newDxc(f, path, o)
	if err != nil {
		f.Close()
		return nil, err
	}
	d.closer = f
	return d, nil
}

// NewWithInstantiator builds a Dxc over inst instead of loading a library.
// Close does not close inst.
func NewWithInstantiator(inst Instantiator, opts ...Option) (*Dxc, error) {
	return newDxc(inst, "", resolve(opts))
}

func newDxc(inst Instantiator, library string, o *options) (*Dxc, error) {
	d := &Dxc{
		inst:    inst,
		library: library,
		log:     o.log,
		cache:   o.cache,
		include: o.include,
	}
	if d.cache == nil && o.cfg.CacheDir != "" {
		c, err := cache.Open(o.cfg.CacheDir)
		if err != nil {
			return nil, err
		}
		o.log.Debug("opened compile cache", "path", c.Path())
		d.cache = c
		d.ownsCache = true
	}
	return d, nil
}

// Close unloads the library. Every object created from it must already be
// released.
func (d *Dxc) Close() error {
	var err error
	if d.ownsCache {
		err = d.cache.Close()
		d.cache = nil
		d.ownsCache = false
	}
	if d.closer != nil {
		if cerr := d.closer.Close(); err == nil {
			err = cerr
		}
		d.closer = nil
	}
	return err
}

// LibraryPath returns the path the compiler library was loaded from, or
// the empty string for a Dxc built over an Instantiator.
func (d *Dxc) LibraryPath() string {
	return d.library
}

// CreateInstance creates any object the library exports, such as the
// CLSID_DxcDiaDataSource debug interface.
func (d *Dxc) CreateInstance(clsid, iid com.GUID) (*com.Unknown, error) {
	return create(d.inst, clsid, iid)
}

// CreateCompiler creates a compiler along with the library it uses for
// include blobs.
func (d *Dxc) CreateCompiler() (*Compiler, error) {
	u, err := d.CreateInstance(CLSID_DxcCompiler, IID_IDxcCompiler)
	if err != nil {
		return nil, err
	}
	lib, err := d.CreateLibrary()
	if err != nil {
		u.Release()
		return nil, err
	}
	return NewCompiler(u, lib, d.log), nil
}

// CreateLibrary creates a blob library.
func (d *Dxc) CreateLibrary() (*Library, error) {
	u, err := d.CreateInstance(CLSID_DxcLibrary, IID_IDxcLibrary)
	if err != nil {
		return nil, err
	}
	return &Library{u: u}, nil
}

// CreateLinker creates a linker.
func (d *Dxc) CreateLinker() (*Linker, error) {
	u, err := d.CreateInstance(CLSID_DxcLinker, IID_IDxcLinker)
	if err != nil {
		return nil, err
	}
	return &Linker{u: u}, nil
}

// CreateValidator creates the validator built into the compiler library.
// Signing validation normally comes from Dxil instead.
func (d *Dxc) CreateValidator() (*Validator, error) {
	u, err := d.CreateInstance(CLSID_DxcValidator, IID_IDxcValidator)
	if err != nil {
		return nil, err
	}
	return &Validator{u: u}, nil
}

// CreateAssembler creates an assembler.
func (d *Dxc) CreateAssembler() (*Assembler, error) {
	u, err := d.CreateInstance(CLSID_DxcAssembler, IID_IDxcAssembler)
	if err != nil {
		return nil, err
	}
	return &Assembler{u: u}, nil
}

// CreateContainerBuilder creates a container builder.
func (d *Dxc) CreateContainerBuilder() (*ContainerBuilder, error) {
	u, err := d.CreateInstance(CLSID_DxcContainerBuilder, IID_IDxcContainerBuilder)
	if err != nil {
		return nil, err
	}
	return &ContainerBuilder{u: u}, nil
}

// CreateContainerReflection creates a container reader.
func (d *Dxc) CreateContainerReflection() (*ContainerReflection, error) {
	u, err := d.CreateInstance(CLSID_DxcContainerReflection, IID_IDxcContainerReflection)
	if err != nil {
		return nil, err
	}
	return &ContainerReflection{u: u}, nil
}

// CreateOptimizer creates an optimizer.
func (d *Dxc) CreateOptimizer() (*Optimizer, error) {
	u, err := d.CreateInstance(CLSID_DxcOptimizer, IID_IDxcOptimizer)
	if err != nil {
		return nil, err
	}
	return &Optimizer{u: u}, nil
}

// Dxil is the root of the validator library.
type Dxil struct {
	inst    Instantiator
	closer  io.Closer
	library string
	log     *slog.Logger
}

// NewDxil loads the validator library named by the configuration.
func NewDxil(opts ...Option) (*Dxil, error) {
	o := resolve(opts)
	path := o.cfg.ValidatorPath()
	f, err := loader.OpenFactory(path)
	if err != nil {
		return nil, loadError(path, err)
	}
	o.log.Debug("loaded validator library", "path", path)
	return &Dxil{inst: f, closer: f, library: path, log: o.log}, nil
}

// NewDxilWithInstantiator builds a Dxil over inst.
func NewDxilWithInstantiator(inst Instantiator, opts ...Option) (*Dxil, error) {
	o := resolve(opts)
	return &Dxil{inst: inst, log: o.log}, nil
}

// LibraryPath returns the path the validator library was loaded from.
func (d *Dxil) LibraryPath() string {
	return d.library
}

// CreateValidator creates the signing validator.
func (d *Dxil) CreateValidator() (*Validator, error) {
	u, err := create(d.inst, CLSID_DxcValidator, IID_IDxcValidator)
	if err != nil {
		return nil, err
	}
	return &Validator{u: u}, nil
}

// Close unloads the library.
func (d *Dxil) Close() error {
	if d.closer == nil {
		return nil
	}
	err := d.closer.Close()
	d.closer = nil
	return err
}

func create(inst Instantiator, clsid, iid com.GUID) (*com.Unknown, error) {
	u, err := inst.CreateInstance(clsid, iid)
	if err != nil {
		return nil, callError(err)
	}
	return u, nil
}
