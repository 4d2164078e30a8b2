// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package format

import (
	"bytes"
	"fmt"
	"io"

	"github.com/gazed/meshfile/handle"
)

// memHandle is a seekable in-memory handle.Handle used by the codec
// tests in this package in place of real files.
type memHandle struct {
	buf *bytes.Reader
	w   *bytes.Buffer
	pos int64
}

func newReadHandle(data []byte) *memHandle {
	return &memHandle{buf: bytes.NewReader(data)}
}

func newWriteHandle() *memHandle {
	return &memHandle{w: &bytes.Buffer{}}
}

func (m *memHandle) Read(p []byte) (int, error) {
	if m.buf == nil {
		return 0, io.EOF
	}
	return m.buf.Read(p)
}

func (m *memHandle) Write(p []byte) (int, error) {
	if m.w == nil {
		return 0, fmt.Errorf("memHandle: not opened for write")
	}
	n, err := m.w.Write(p)
	m.pos += int64(n)
	return n, err
}

func (m *memHandle) Seek(offset int64, whence int) (int64, error) {
	if m.buf != nil {
		return m.buf.Seek(offset, whence)
	}
	return m.pos, nil
}

func (m *memHandle) Close() error { return nil }

func (m *memHandle) bytes() []byte { return m.w.Bytes() }

// memOpener serves named byte slices out of a map, recording writes back
// into the same map so a test can round-trip a sidecar file (e.g. MTL).
type memOpener struct {
	files map[string][]byte
}

func (o *memOpener) open(name string, write bool) (handle.Handle, error) {
	if write {
		return &recordingHandle{memHandle: newWriteHandle(), store: o, name: name}, nil
	}
	data, ok := o.files[name]
	if !ok {
		return nil, fmt.Errorf("memOpener: %q not found", name)
	}
	return newReadHandle(data), nil
}

type recordingHandle struct {
	*memHandle
	store *memOpener
	name  string
}

func (r *recordingHandle) Close() error {
	if r.store.files == nil {
		r.store.files = map[string][]byte{}
	}
	r.store.files[r.name] = r.memHandle.bytes()
	return nil
}
