package main

import (
	"bytes"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/pierrec/lz4"
)

// The dataset cache is an optimization, never a correctness requirement: a
// stale or broken cache file simply triggers a refetch. The file extension
// picks the codec, so CACHE_PATH=arrests.csv.lz4 stores a compressed copy.

func cacheFresh(path string, maxAge time.Duration) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return time.Since(info.ModTime()) < maxAge
}

func saveCache(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()

	switch filepath.Ext(path) {
	case ".gz":
		gw := gzip.NewWriter(out)
		if _, err := gw.Write(data); err != nil {
			return err
		}
		return gw.Close()
	case ".lz4":
		lw := lz4.NewWriter(out)
		if _, err := lw.Write(data); err != nil {
			return err
		}
		return lw.Close()
	default:
		_, err := out.Write(data)
		return err
	}
}

func loadCache(path string) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	switch filepath.Ext(path) {
	case ".gz":
		gr, err := gzip.NewReader(file)
		if err != nil {
			return nil, err
		}
		defer gr.Close()
		return io.ReadAll(gr)
	case ".lz4":
		buf := bytes.NewBuffer([]byte{})
		if _, err := io.Copy(buf, lz4.NewReader(file)); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return io.ReadAll(file)
	}
}
