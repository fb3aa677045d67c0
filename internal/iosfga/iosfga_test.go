package iosfga

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/gnidx/internal/iotesting"
	"github.com/gnames/gnidx/pkg/errcode"
	"github.com/gnames/gnidx/pkg/sfga"
	"github.com/gnames/gnidx/pkg/sources"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAndRecords(t *testing.T) {
	ctx := context.Background()
	path := iotesting.WriteSFGA(t, t.TempDir(), 7, "v0.3.33", []iotesting.NameRow{
		{ID: "1", GNName: "Plantago major L.", ColName: "Plantago major",
			Authorship: "L.", Rank: "species", Code: "botanical"},
		{ID: "2", ColName: "Homo sapiens", Authorship: "Linnaeus, 1758"},
		{ID: "3", ColName: "Aus bus Smith", Authorship: "Smith"},
	})

	arc, err := Open(path, 7)
	require.NoError(t, err)
	defer arc.Close()

	assert.Equal(t, "v0.3.33", arc.Version())
	assert.Equal(t, path, arc.Path())

	n, err := arc.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	ch := make(chan sfga.Record)
	errCh := make(chan error, 1)
	go func() { errCh <- arc.Records(ctx, ch) }()

	var recs []sfga.Record
	for r := range ch {
		recs = append(recs, r)
	}
	require.NoError(t, <-errCh)
	require.Len(t, recs, 3)

	assert.Equal(t, sfga.Record{
		ID: "1", ScientificName: "Plantago major L.",
		Rank: "species", Code: "botanical",
	}, recs[0])
	assert.Equal(t, "Homo sapiens Linnaeus, 1758", recs[1].ScientificName)
	assert.Equal(t, "Aus bus Smith", recs[2].ScientificName)
}

func TestRecordsCancelled(t *testing.T) {
	path := iotesting.WriteSFGA(t, t.TempDir(), 7, "v0.3.33", []iotesting.NameRow{
		{ID: "1", ColName: "Aus"}, {ID: "2", ColName: "Bus"},
	})
	arc, err := Open(path, 7)
	require.NoError(t, err)
	defer arc.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ch := make(chan sfga.Record)
	err = arc.Records(ctx, ch)
	assert.Error(t, err)
	_, ok := <-ch
	assert.False(t, ok)
}

func TestOpenVersion(t *testing.T) {
	tests := []struct {
		msg, version string
		code         gn.ErrorCode
	}{
		{"too old", "v0.2.0", errcode.ImportSFGAVersionTooOldError},
		{"not a version", "latest", errcode.ImportSFGAVersionError},
	}

	for _, v := range tests {
		t.Run(v.msg, func(t *testing.T) {
			path := iotesting.WriteSFGA(t, t.TempDir(), 1, v.version, nil)
			_, err := Open(path, 1)
			var gnErr *gn.Error
			require.ErrorAs(t, err, &gnErr)
			assert.Equal(t, v.code, gnErr.Code)
		})
	}

	_, err := Open(filepath.Join(t.TempDir(), "none.sqlite"), 1)
	assert.Error(t, err)
}

func TestResolveLocal(t *testing.T) {
	dir := t.TempDir()
	files := []string{
		"0001_col_2024-01-01.sqlite.zip",
		"0001_col_2025-01-01.sql.zip",
		"0001_col_2025-01-01.sqlite.zip",
		"0001_notes.txt",
		"0002_itis_2025-06-01.sqlite",
	}
	for _, f := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, f), nil, 0644))
	}

	path, warning, err := resolve(sources.DataSourceConfig{ID: 1, Parent: dir})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "0001_col_2025-01-01.sqlite.zip"), path)
	assert.NotEmpty(t, warning)

	path, warning, err = resolve(sources.DataSourceConfig{ID: 2, Parent: dir})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "0002_itis_2025-06-01.sqlite"), path)
	assert.Empty(t, warning)

	_, _, err = resolve(sources.DataSourceConfig{ID: 3, Parent: dir})
	assert.ErrorContains(t, err, "no files found")
}

func TestNameString(t *testing.T) {
	tests := []struct {
		gnName, colName, au, res string
	}{
		{"Aus bus L.", "Aus bus", "L.", "Aus bus L."},
		{"", "Aus bus", "L.", "Aus bus L."},
		{"", "Aus bus L.", "L.", "Aus bus L."},
		{"  ", " Aus bus ", "", "Aus bus"},
	}
	for _, v := range tests {
		assert.Equal(t, v.res, nameString(v.gnName, v.colName, v.au))
	}
}
