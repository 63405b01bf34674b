package byteview

import (
	"context"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/bodgit/byteview/raster"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScan(t *testing.T) {
	v := newTestViewer(t)
	dir := t.TempDir()

	files := map[string][]byte{
		"a.bin":            {1, 2, 3, 4},
		"sub/b.rom":        {5, 6, 7},
		"sub/deeper/c":     {8},
		".hidden":          {9},
		".git/config":      {10},
		"existing.png":     {11},
		"sub/.DS_Store":    {12},
		"sub/deeper/empty": nil,
	}
	for name, b := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, b, 0o644))
	}

	require.NoError(t, v.Scan(context.Background(), dir, RenderOptions{Depth: raster.EightBpp}))

	var got []string
	require.NoError(t, filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if filepath.Ext(path) == imageExt {
			rel, _ := filepath.Rel(dir, path)
			got = append(got, filepath.ToSlash(rel))
		}
		return nil
	}))
	sort.Strings(got)

	assert.Equal(t, []string{"a.bin.png", "existing.png", "sub/b.rom.png", "sub/deeper/c.png", "sub/deeper/empty.png"}, got)

	records, err := v.DB().Renders()
	require.NoError(t, err)
	assert.Len(t, records, 4)
}

func TestScanError(t *testing.T) {
	v := newTestViewer(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.bin"), []byte{0xff}, 0o644))

	err := v.Scan(context.Background(), dir, RenderOptions{Depth: raster.Invalid})
	assert.ErrorIs(t, err, raster.ErrInvalidDepth)

	err = v.Scan(context.Background(), filepath.Join(dir, "missing"), RenderOptions{Depth: raster.EightBpp})
	assert.Error(t, err)
}

func TestScanSkipsDatabase(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "byteview.db")

	v, err := New(db, log.New(io.Discard, "", 0))
	require.NoError(t, err)
	defer v.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.bin"), []byte{1, 2, 3}, 0o644))
	require.NoError(t, os.WriteFile(db+"-journal", []byte{4}, 0o644))

	require.NoError(t, v.Scan(context.Background(), dir, RenderOptions{Depth: raster.EightBpp}))

	assert.FileExists(t, filepath.Join(dir, "a.bin.png"))
	assert.NoFileExists(t, db+imageExt)
	assert.NoFileExists(t, db+"-journal"+imageExt)

	records, err := v.DB().Renders()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, filepath.Join(dir, "a.bin"), records[0].Source)
}
