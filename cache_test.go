package main

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCacheRoundTrip(t *testing.T) {
	data := []byte("Time,Geography\n2018/19,All\n")

	for _, name := range []string{"arrests.csv", "arrests.csv.gz", "arrests.csv.lz4"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			assert.NoError(t, saveCache(path, data))

			got, err := loadCache(path)
			assert.NoError(t, err)
			assert.Equal(t, data, got)
		})
	}
}

func TestCacheFresh(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arrests.csv")
	assert.False(t, cacheFresh(path, time.Hour))

	assert.NoError(t, saveCache(path, []byte("data")))
	assert.True(t, cacheFresh(path, time.Hour))
	assert.False(t, cacheFresh(path, 0))
}

func TestLoadCacheMissing(t *testing.T) {
	_, err := loadCache(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}
