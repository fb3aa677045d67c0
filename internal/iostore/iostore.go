// Package iostore creates the name index store selected in the
// configuration.
package iostore

import (
	"context"
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gnidx/internal/iodb"
	"github.com/gnames/gnidx/internal/iostore/badgerstore"
	"github.com/gnames/gnidx/internal/iostore/memstore"
	"github.com/gnames/gnidx/internal/iostore/pgstore"
	"github.com/gnames/gnidx/pkg/config"
	"github.com/gnames/gnidx/pkg/errcode"
	"github.com/gnames/gnidx/pkg/store"
)

// New opens the store of cfg.Store.Backend. The caller must Close it.
func New(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.Store.Backend {
	case config.BackendMemory:
		return memstore.New(cfg.Store.LockStripes), nil
	case config.BackendBadger:
		return badgerstore.Open(
			cfg.StorePath(),
			cfg.Store.SyncWrites,
			cfg.Store.LockStripes,
		)
	case config.BackendPostgres:
		op := iodb.NewPgxOperator()
		if err := op.Connect(ctx, &cfg.Database); err != nil {
			return nil, err
		}
		res, err := pgstore.Open(ctx, op)
		if err != nil {
			op.Close()
			return nil, err
		}
		return res, nil
	default:
		return nil, UnknownBackendError(cfg.Store.Backend)
	}
}

func UnknownBackendError(backend string) error {
	msg := "Unknown store backend <em>%s</em>"
	vars := []any{backend}
	return &gn.Error{
		Code: errcode.StoreUnknownBackendError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("unknown store backend %q", backend),
	}
}
