// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package format

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/gazed/meshfile"
	"github.com/gazed/meshfile/config"
	"github.com/gazed/meshfile/handle"
)

// trialOrder is the fixed dispatch priority from spec.md §4.K: OBJ goes
// last because it has no reliable magic and must serve as the fallback.
var trialOrder = []Codec{Codec3DS, CodecJTF, CodecGLTF, CodecSTL, CodecOBJ}

// codecByName maps a config.Config.FormatPriority entry (case
// insensitive) to its Codec.
var codecByName = map[string]Codec{
	"3ds":  Codec3DS,
	"jtf":  CodecJTF,
	"gltf": CodecGLTF,
	"stl":  CodecSTL,
	"obj":  CodecOBJ,
}

// resolveTrialOrder returns cfg's FormatPriority translated to Codecs, or
// trialOrder unchanged if cfg is nil or sets no priority, per SPEC_FULL.md
// §4.K: an application-supplied config can reorder (or narrow) the
// dispatcher's trial sequence. Unrecognised names are logged and skipped
// rather than failing the whole load.
func resolveTrialOrder(cfg *config.Config) []Codec {
	names := cfg.Priority()
	if len(names) == 0 {
		return trialOrder
	}
	order := make([]Codec, 0, len(names))
	for _, name := range names {
		c, ok := codecByName[strings.ToLower(name)]
		if !ok {
			slog.Warn("format: config: unknown format in format_priority, skipping", "name", name)
			continue
		}
		order = append(order, c)
	}
	if len(order) == 0 {
		return trialOrder
	}
	return order
}

// suffixes maps a codec to the filename suffixes Save recognises when no
// explicit codec is requested.
var suffixes = map[Codec][]string{
	Codec3DS:  {".3ds"},
	CodecJTF:  {".jtf"},
	CodecGLTF: {".gltf", ".glb"},
	CodecSTL:  {".stl"},
	CodecOBJ:  {".obj"},
}

// Load opens path as the scene's source file and trial-loads it: each
// codec in trialOrder is tried in turn, with the file handle rewound to
// the starting offset between attempts; the first success stops the
// chain. flags' codec bits are not consulted by Load (trial-by-priority
// is how codec selection always works for reads, per spec.md §4.K);
// flags' processing bits still apply.
func Load(mf *meshfile.MeshFile, path string, flags Flags) error {
	return LoadWithConfig(mf, path, flags, nil)
}

// LoadWithConfig is Load with an application-supplied config: cfg's
// FormatPriority (if set) overrides trialOrder, and its AssetDirs are
// searched before the scene's own directory when resolving sidecar
// assets. cfg may be nil, equivalent to calling Load.
func LoadWithConfig(mf *meshfile.MeshFile, path string, flags Flags, cfg *config.Config) error {
	h, err := handle.FileHandle(path, false)
	if err != nil {
		return fmt.Errorf("format: %w", err)
	}
	defer h.Close()
	open := configFileOpener(filepath.Dir(path), cfg)
	mf.SetPath(path)
	return LoadHandleWithConfig(mf, h, open, flags, cfg)
}

// LoadHandle is Load's handle-based entry point: h must already be open
// for reading and positioned at the start of the scene data; open
// resolves sidecar/external asset references (nil disables them).
func LoadHandle(mf *meshfile.MeshFile, h handle.Handle, open OpenFunc, flags Flags) error {
	return LoadHandleWithConfig(mf, h, open, flags, nil)
}

// LoadHandleWithConfig is LoadHandle with an application-supplied config
// controlling the trial order (see LoadWithConfig). cfg may be nil.
func LoadHandleWithConfig(mf *meshfile.MeshFile, h handle.Handle, open OpenFunc, flags Flags, cfg *config.Config) error {
	start, err := h.Seek(0, handle.SeekCur)
	if err != nil {
		return fmt.Errorf("format: seek: %w", err)
	}

	var lastErr error
	for _, c := range resolveTrialOrder(cfg) {
		if _, err := h.Seek(start, handle.SeekSet); err != nil {
			return fmt.Errorf("format: rewind: %w", err)
		}
		if err := loadWith(c, mf, h, open); err == nil {
			return mf.Process(flags.process())
		} else {
			lastErr = err
			slog.Debug("format: trial load failed", "codec", c, "err", err)
		}
	}
	return fmt.Errorf("format: no format matched: %w", lastErr)
}

func loadWith(c Codec, mf *meshfile.MeshFile, h handle.Handle, open OpenFunc) error {
	switch c {
	case Codec3DS:
		return Load3DS(mf, h, open)
	case CodecJTF:
		return LoadJTF(mf, h, open)
	case CodecGLTF:
		return LoadGLTF(mf, h, open)
	case CodecSTL:
		return LoadSTL(mf, h, open)
	case CodecOBJ:
		return LoadOBJ(mf, h, open)
	}
	return fmt.Errorf("format: unknown codec %d", c)
}

// Save writes mf to path, choosing a codec by (a) flags' explicit codec
// bits, (b) path's filename suffix, else (c) OBJ.
func Save(mf *meshfile.MeshFile, path string, flags Flags) error {
	return SaveWithConfig(mf, path, flags, nil)
}

// SaveWithConfig is Save with an application-supplied config. The
// opener built from cfg consults AssetDirs only for reads, and the save
// codecs only open sidecars for writing, which always target path's
// directory; so cfg does not change what is written. cfg may be nil,
// equivalent to calling Save.
func SaveWithConfig(mf *meshfile.MeshFile, path string, flags Flags, cfg *config.Config) error {
	h, err := handle.FileHandle(path, true)
	if err != nil {
		return fmt.Errorf("format: %w", err)
	}
	defer h.Close()
	open := configFileOpener(filepath.Dir(path), cfg)
	c := selectSaveCodec(flags, path)
	return saveWith(c, mf, h, open)
}

// SaveHandle is Save's handle-based entry point.
func SaveHandle(mf *meshfile.MeshFile, h handle.Handle, open OpenFunc, flags Flags, path string) error {
	c := selectSaveCodec(flags, path)
	return saveWith(c, mf, h, open)
}

func selectSaveCodec(flags Flags, path string) Codec {
	if c := flags.Codec(); c != CodecAuto {
		return c
	}
	ext := strings.ToLower(filepath.Ext(path))
	for c, suf := range suffixes {
		for _, s := range suf {
			if s == ext {
				return c
			}
		}
	}
	return CodecOBJ
}

func saveWith(c Codec, mf *meshfile.MeshFile, h handle.Handle, open OpenFunc) error {
	switch c {
	case Codec3DS:
		return Save3DS(mf, h, open)
	case CodecJTF:
		return SaveJTF(mf, h, open)
	case CodecGLTF:
		return SaveGLTF(mf, h, open)
	case CodecSTL:
		return SaveSTL(mf, h, open)
	case CodecOBJ, CodecAuto:
		return SaveOBJ(mf, h, open)
	}
	return fmt.Errorf("format: unknown codec %d", c)
}

// process converts the upper processing bits of f into the equivalent
// meshfile.ProcessFlags word consumed by MeshFile.Process.
func (f Flags) process() meshfile.ProcessFlags {
	var p meshfile.ProcessFlags
	if f&FlagGenTangents != 0 {
		p |= meshfile.GenTangents
	}
	if f&FlagApplyXform != 0 {
		p |= meshfile.ApplyXform
	}
	if f&FlagNoProc != 0 {
		p |= meshfile.NoProc
	}
	return p
}

// configFileOpener returns an OpenFunc that resolves name relative to
// dir, extended with cfg's AssetDirs: on a read, every configured
// directory is tried (in map order) before dir itself, letting a
// deployment relocate textures/mtllibs without touching the scene
// file. Writes always target dir, since Save only ever rewrites a
// sidecar that lives alongside the scene it came from. cfg may be nil,
// in which case this is plain directory-relative resolution.
func configFileOpener(dir string, cfg *config.Config) OpenFunc {
	return func(name string, write bool) (handle.Handle, error) {
		if !write && cfg != nil {
			for _, d := range cfg.AssetDirs {
				if h, err := handle.FileHandle(filepath.Join(d, name), false); err == nil {
					return h, nil
				}
			}
		}
		return handle.FileHandle(filepath.Join(dir, name), write)
	}
}
