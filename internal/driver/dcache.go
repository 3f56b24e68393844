package driver

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"plume/internal/source"
)

// Increment when the DiskPayload format changes.
const diskCacheSchemaVersion uint16 = 1

// Digest is a SHA-256 value identifying file content or a cache entry.
type Digest [sha256.Size]byte

// DiskCache stores rendered pages keyed by a digest of the entry path,
// the compile options and the data fingerprint. Thread-safe.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// DiskPayload is one cached render plus everything needed to decide
// whether it is still valid.
type DiskPayload struct {
	Schema uint16

	HTML string

	// Every on-disk file the render depended on, entry included.
	FilePaths  []string
	FileHashes []Digest
}

// OpenDiskCache initializes a disk cache at the standard user location.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return NewDiskCache(filepath.Join(base, app))
}

// NewDiskCache initializes a disk cache rooted at dir.
func NewDiskCache(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) pathFor(key Digest) string {
	hexKey := hex.EncodeToString(key[:])
	// a subdirectory keeps the cache easy to inspect and wipe
	return filepath.Join(c.dir, "out", hexKey+".mp")
}

// Put serializes and writes a payload. The write is atomic: a temp file
// in the target directory renamed over the final name.
func (c *DiskCache) Put(key Digest, payload *DiskPayload) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}

	enc := msgpack.NewEncoder(f)
	if err := enc.Encode(payload); err != nil {
		f.Close()
		os.Remove(f.Name())
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return err
	}
	return os.Rename(f.Name(), p)
}

// Get reads a payload. The first result is false on a clean miss.
func (c *DiskCache) Get(key Digest, out *DiskPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	dec := msgpack.NewDecoder(f)
	if err := dec.Decode(out); err != nil {
		return false, err
	}
	return true, nil
}

// DropAll invalidates the whole cache, useful after format changes.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		return err
	}
	if err := os.RemoveAll(old); err != nil {
		return err
	}
	return os.MkdirAll(c.dir, 0o755)
}

// CacheKey derives the cache entry digest for one compilation. The data
// fingerprint covers whatever value source feeds the Lookup (for the CLI,
// the raw bytes of the data file).
func CacheKey(entryPath string, opts Options, fingerprint []byte) Digest {
	h := sha256.New()
	h.Write([]byte(entryPath))
	h.Write([]byte{0})
	h.Write([]byte(opts.Basedir))
	h.Write([]byte{0})
	h.Write([]byte(opts.Indent))
	h.Write([]byte{0})
	h.Write([]byte(opts.Doctype))
	h.Write([]byte{0})

	var flags byte
	if opts.Pretty {
		flags |= 1
	}
	if opts.Filter.StripUnbuffered {
		flags |= 2
	}
	if opts.Filter.StripBuffered {
		flags |= 4
	}
	h.Write([]byte{flags})

	var schema [2]byte
	binary.LittleEndian.PutUint16(schema[:], diskCacheSchemaVersion)
	h.Write(schema[:])

	h.Write(fingerprint)

	var key Digest
	copy(key[:], h.Sum(nil))
	return key
}

// CompileCached compiles through the cache: a hit whose dependency files
// are unchanged on disk skips the pipeline entirely. Failed compilations
// are never cached. A nil cache degrades to a plain Compile.
func CompileCached(cache *DiskCache, path string, opts Options, fingerprint []byte) *Result {
	key := CacheKey(path, opts, fingerprint)

	var payload DiskPayload
	if hit, err := cache.Get(key, &payload); err == nil && hit &&
		payload.Schema == diskCacheSchemaVersion && depsUnchanged(&payload) {
		opts.Observer.emit(path, StageGenerate, StatusDone)
		return &Result{HTML: payload.HTML, Ok: true}
	}

	res := Compile(path, opts)
	if !res.Ok {
		return res
	}

	if put := payloadFor(res); put != nil {
		// best effort: a failed write only costs the next run a recompile
		_ = cache.Put(key, put)
	}
	return res
}

// depsUnchanged rehashes every recorded dependency file.
func depsUnchanged(payload *DiskPayload) bool {
	if len(payload.FilePaths) != len(payload.FileHashes) {
		return false
	}
	for i, p := range payload.FilePaths {
		content, err := os.ReadFile(p)
		if err != nil {
			return false
		}
		if Digest(sha256.Sum256(content)) != payload.FileHashes[i] {
			return false
		}
	}
	return true
}

// payloadFor records the render and the raw-content hash of every
// on-disk file the compilation touched. Renders that read nothing from
// disk (pure stdin input) are not cacheable.
func payloadFor(res *Result) *DiskPayload {
	payload := &DiskPayload{
		Schema: diskCacheSchemaVersion,
		HTML:   res.HTML,
	}
	for i := range res.FileSet.Files() {
		f := &res.FileSet.Files()[i]
		if f.Flags&source.FileVirtual != 0 {
			continue
		}
		content, err := os.ReadFile(f.Path)
		if err != nil {
			return nil
		}
		payload.FilePaths = append(payload.FilePaths, f.Path)
		payload.FileHashes = append(payload.FileHashes, Digest(sha256.Sum256(content)))
	}
	if len(payload.FilePaths) == 0 {
		return nil
	}
	return payload
}
