package iostore_test

import (
	"context"
	"errors"
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/gnidx/internal/iostore"
	"github.com/gnames/gnidx/internal/iostore/storetest"
	"github.com/gnames/gnidx/pkg/config"
	"github.com/gnames/gnidx/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		msg     string
		backend string
	}{
		{"memory", config.BackendMemory},
		{"badger", config.BackendBadger},
	}

	for _, v := range tests {
		t.Run(v.msg, func(t *testing.T) {
			cfg := config.New()
			cfg.Update([]config.Option{
				config.OptHomeDir(t.TempDir()),
				config.OptStoreBackend(v.backend),
				config.OptStoreSyncWrites(false),
			})
			s, err := iostore.New(ctx, cfg)
			require.NoError(t, err)
			defer s.Close()

			_, err = s.Insert(ctx, storetest.Entry("aus·bus", "Aus", "bus", ""))
			require.NoError(t, err)
			size, err := s.Size(ctx)
			require.NoError(t, err)
			assert.Equal(t, 1, size)
		})
	}
}

func TestNewUnknownBackend(t *testing.T) {
	cfg := config.New()
	cfg.Store.Backend = "sqlite"
	_, err := iostore.New(context.Background(), cfg)
	var gnErr *gn.Error
	require.True(t, errors.As(err, &gnErr))
	assert.Equal(t, errcode.StoreUnknownBackendError, gnErr.Code)
}
