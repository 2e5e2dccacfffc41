// Package export writes the intervention journal as zstd-compressed JSON
// lines, one intervention per line.
package export

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Falloutization/royalty/pkg/core"

	"github.com/klauspost/compress/zstd"
)

// WriteJSONL encodes entries to w, one JSON object per line.
func WriteJSONL(w io.Writer, entries []core.Intervention) error {
	enc := json.NewEncoder(w)
	for i := range entries {
		if err := enc.Encode(&entries[i]); err != nil {
			return fmt.Errorf("error encoding intervention %d: %w", entries[i].ID, err)
		}
	}
	return nil
}

// WriteFile writes entries to path as zstd-compressed JSON lines, creating
// the parent directory if needed.
func WriteFile(path string, entries []core.Intervention) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	zw, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(zw)
	if err := WriteJSONL(bw, entries); err != nil {
		_ = zw.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		_ = zw.Close()
		return err
	}
	return zw.Close()
}

// ReadFile decodes a file written by WriteFile.
func ReadFile(path string) ([]core.Intervention, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	zr, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	var out []core.Intervention
	dec := json.NewDecoder(zr)
	for {
		var iv core.Intervention
		if err := dec.Decode(&iv); err == io.EOF {
			return out, nil
		} else if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		out = append(out, iv)
	}
}
