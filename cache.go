package seoulmetro

import (
	"fmt"
	"github.com/bluele/gcache"
	"log/slog"
	"os"
	"path/filepath"
)

// Cache memoizes parsed input files. A file is re-read when its size or
// modification time changes.
type Cache struct {
	files gcache.Cache
}

type fileKey struct {
	Kind     string
	Path     string
	Size     int64
	ModTime  int64
	Encoding Encoding
}

// NewCache returns a cache holding up to size parsed files, evicting the
// least recently used.
func NewCache(size int) *Cache {
	return &Cache{files: gcache.New(size).LRU().Build()}
}

func identify(kind, path string, encoding Encoding) (fileKey, bool) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fileKey{}, false
	}
	info, err := os.Stat(abs)
	if err != nil {
		return fileKey{}, false
	}
	return fileKey{
		Kind:     kind,
		Path:     abs,
		Size:     info.Size(),
		ModTime:  info.ModTime().UnixNano(),
		Encoding: encoding,
	}, true
}

// Ridership is LoadRidership backed by the cache.
func (c *Cache) Ridership(basePath string, files []string, opts *LoadOpts) ([]RidershipRecord, error) {
	return loadRidership(basePath, files, opts, c.ridershipFile)
}

// Stations is LoadStations backed by the cache. Only the grouped
// coordinates are cached, colors are resolved on every call.
func (c *Cache) Stations(path string, colors map[string]string, opts *LoadOpts, report *DropReport) ([]StationLocation, error) {
	grouped, err := cached(c, "stations", path, opts.encoding(), loadStationFile)
	if err != nil {
		return nil, err
	}
	return resolveColors(grouped, colors, report), nil
}

func (c *Cache) ridershipFile(path string, encoding Encoding) ([]RidershipRecord, error) {
	return cached(c, "ridership", path, encoding, loadRidershipFile)
}

func cached[T any](c *Cache, kind, path string, encoding Encoding, load func(string, Encoding) ([]T, error)) ([]T, error) {
	key, ok := identify(kind, path, encoding)
	if !ok {
		// Let the loader report the missing file
		return load(path, encoding)
	}

	if v, err := c.files.Get(key); err == nil {
		if rows, ok := v.([]T); ok {
			slog.Debug(fmt.Sprintf("Cache hit for %s", path))
			return rows, nil
		}
	}

	rows, err := load(path, encoding)
	if err != nil {
		return nil, err
	}
	if err := c.files.Set(key, rows); err != nil {
		return nil, err
	}
	return rows, nil
}
