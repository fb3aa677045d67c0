package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/gnames/gnidx/internal/iostore/memstore"
	"github.com/gnames/gnidx/pkg/config"
	"github.com/gnames/gnidx/pkg/nameindex"
	"github.com/gnames/gnidx/pkg/parserpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd(t *testing.T) {
	assert := assert.New(t)
	assert.Equal("gnidx", rootCmd.Use)

	var subs []string
	for _, c := range rootCmd.Commands() {
		subs = append(subs, c.Name())
	}
	for _, name := range []string{"seed", "import", "match", "stats", "optimize"} {
		assert.Contains(subs, name)
	}

	f := rootCmd.Flags().ShorthandLookup("V")
	require.NotNil(t, f)
	assert.Equal("version", f.Name)
}

func TestCommandFlags(t *testing.T) {
	tests := []struct {
		msg   string
		flags map[string]string
	}{
		{"seed", map[string]string{"source-ids": "s"}},
		{"import", map[string]string{
			"source-ids": "s", "with-insert": "i", "verbose": "v",
		}},
		{"match", map[string]string{
			"insert": "i", "verbose": "v", "code": "c", "rank": "r",
		}},
	}

	for _, tt := range tests {
		c, _, err := rootCmd.Find([]string{tt.msg})
		require.NoError(t, err, tt.msg)
		for name, short := range tt.flags {
			f := c.Flags().Lookup(name)
			require.NotNil(t, f, tt.msg+" "+name)
			assert.Equal(t, short, f.Shorthand, tt.msg+" "+name)
		}
	}
}

func TestImportOptions(t *testing.T) {
	t.Run("no flags", func(t *testing.T) {
		c := getImportCmd()
		require.NoError(t, c.ParseFlags([]string{}))
		assert.Empty(t, importOptions(c, nil))
	})

	t.Run("explicit flags", func(t *testing.T) {
		assert := assert.New(t)
		c := getImportCmd()
		require.NoError(t, c.ParseFlags(
			[]string{"-s", "1,3", "--with-insert=false", "-v"},
		))
		ids, err := c.Flags().GetIntSlice("source-ids")
		require.NoError(t, err)

		cfg := config.New()
		cfg.Update(importOptions(c, ids))
		assert.Equal([]int{1, 3}, cfg.Import.SourceIDs)
		require.NotNil(t, cfg.Import.WithInsert)
		assert.False(*cfg.Import.WithInsert)
		assert.True(cfg.Import.Verbose)
	})

	t.Run("seed has no insert flag", func(t *testing.T) {
		c := getSeedCmd()
		require.NoError(t, c.ParseFlags([]string{"-s", "5"}))
		cfg := config.New()
		cfg.Update(importOptions(c, []int{5}))
		assert.Equal(t, []int{5}, cfg.Import.SourceIDs)
		assert.Nil(t, cfg.Import.WithInsert)
	})
}

func TestMatchStream(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	idx := nameindex.New(memstore.New(4))
	defer idx.Close()
	pool := parserpool.NewPool(2)
	defer pool.Close()

	in := strings.NewReader(
		"Aus bus Smith, 1890\n\n  Aus bus  \nCus dus\n",
	)
	var out bytes.Buffer
	p := matchParams{insert: true}
	err := matchStream(ctx, idx, pool, in, &out, p)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)

	var res []map[string]any
	for _, l := range lines {
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(l), &m))
		res = append(res, m)
	}
	assert.Equal("Aus bus Smith, 1890", res[0]["name"])
	assert.Equal("Inserted", res[0]["type"])
	assert.Equal("Aus bus", res[1]["name"])
	assert.Equal("Variant", res[1]["type"])
	assert.Equal("Inserted", res[2]["type"])

	size, err := idx.Size(ctx)
	require.NoError(t, err)
	assert.Equal(2, size)

	out.Reset()
	p = matchParams{}
	err = matchStream(ctx, idx, pool, strings.NewReader("Ego sum"), &out, p)
	require.NoError(t, err)
	assert.Contains(out.String(), `"type":"None"`)
}

func TestMatchStreamCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	idx := nameindex.New(memstore.New(4))
	defer idx.Close()
	pool := parserpool.NewPool(1)
	defer pool.Close()

	var out bytes.Buffer
	err := matchStream(ctx, idx, pool,
		strings.NewReader("Aus bus"), &out, matchParams{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, out.String())
}

func TestStoreLocation(t *testing.T) {
	tests := []struct {
		msg, backend, res string
	}{
		{"badger", config.BackendBadger, "/tmp/idx"},
		{"memory", config.BackendMemory, ""},
		{"postgres", config.BackendPostgres, "gn@db:5432/gnidx"},
	}

	for _, tt := range tests {
		c := config.New()
		c.Update([]config.Option{
			config.OptStoreBackend(tt.backend),
			config.OptStorePath("/tmp/idx"),
			config.OptDatabaseHost("db"),
			config.OptDatabasePort(5432),
			config.OptDatabaseUser("gn"),
			config.OptDatabaseDatabase("gnidx"),
		})
		assert.Equal(t, tt.res, storeLocation(c), tt.msg)
	}
}
