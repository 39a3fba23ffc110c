// Package mapping memory-maps a file read-only and advises the kernel that
// access will be sequential. The mapped region is exposed as a contiguous
// byte slice; every token produced downstream borrows from this slice and
// must never outlive it.
package mapping

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// File is a read-only memory-mapped byte range [0, Len()). Once Close has
// been called, Bytes is no longer valid to dereference.
type File struct {
	data   []byte
	fd     int
	mapped bool
}

// Open maps path read-only and advises MADV_SEQUENTIAL, since every
// downstream pass over the bytes walks forward from the beginning.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("mapping: cannot open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("mapping: cannot stat %s: %w", path, err)
	}
	size := info.Size()
	if size == 0 {
		return &File{data: nil, fd: -1}, nil
	}

	fd := int(f.Fd())
	data, err := unix.Mmap(fd, 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("mapping: cannot mmap %s: %w", path, err)
	}
	if err := unix.Madvise(data, unix.MADV_SEQUENTIAL); err != nil {
		_ = unix.Munmap(data)
		return nil, fmt.Errorf("mapping: madvise failed for %s: %w", path, err)
	}

	// Duplicate the descriptor: the caller's *os.File closes the original
	// on return, but the mapping stays valid until Close releases it.
	dupFd, err := unix.Dup(fd)
	if err != nil {
		_ = unix.Munmap(data)
		return nil, fmt.Errorf("mapping: cannot dup descriptor for %s: %w", path, err)
	}

	return &File{data: data, fd: dupFd, mapped: true}, nil
}

// FromBytes wraps data as a File without mapping anything, for tests that
// want Preprocess/tokenize behavior without a real file on disk. Close on
// the result unmaps nothing and closes no descriptor; it only clears the
// slice Bytes returns.
func FromBytes(data []byte) *File {
	return &File{data: data, fd: -1}
}

// Bytes returns the mapped region. The returned slice must not be retained
// past Close.
func (f *File) Bytes() []byte {
	if f == nil {
		return nil
	}
	return f.data
}

// Len returns the size of the mapped region in bytes.
func (f *File) Len() int {
	if f == nil {
		return 0
	}
	return len(f.data)
}

// Close unmaps the region and closes the duplicated descriptor. Safe to
// call more than once.
func (f *File) Close() error {
	if f == nil {
		return nil
	}
	var err error
	if f.mapped && f.data != nil {
		err = unix.Munmap(f.data)
	}
	f.data = nil
	if f.fd >= 0 {
		if cerr := unix.Close(f.fd); cerr != nil && err == nil {
			err = cerr
		}
		f.fd = -1
	}
	return err
}
