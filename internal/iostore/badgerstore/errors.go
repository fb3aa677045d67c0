package badgerstore

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/gnidx/pkg/errcode"
)

func OpenError(dir string, err error) error {
	msg := "Cannot open name index at <em>%s</em>"
	vars := []any{dir}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc).Name()
	return &gn.Error{
		Code: errcode.StoreOpenError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: cannot open badger at %s: %w", fn, dir, err),
	}
}

func CloseError(dir string, err error) error {
	msg := "Cannot close name index at <em>%s</em>"
	vars := []any{dir}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc).Name()
	return &gn.Error{
		Code: errcode.StoreCloseError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: cannot close badger: %w", fn, err),
	}
}

func ClosedError() error {
	msg := "Name index is closed"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc).Name()
	return &gn.Error{
		Code: errcode.StoreClosedError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: badger store is closed", fn),
	}
}

func ReadError(key string, err error) error {
	msg := "Cannot read <em>%s</em> from name index"
	vars := []any{key}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc).Name()
	return &gn.Error{
		Code: errcode.StoreReadError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: cannot read %q: %w", fn, key, err),
	}
}

func WriteError(key string, err error) error {
	msg := "Cannot write <em>%s</em> to name index"
	vars := []any{key}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc).Name()
	return &gn.Error{
		Code: errcode.StoreWriteError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: cannot write %q: %w", fn, key, err),
	}
}

func EncodeError(key string, err error) error {
	msg := "Cannot encode entry of <em>%s</em>"
	vars := []any{key}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc).Name()
	return &gn.Error{
		Code: errcode.StoreWriteError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: cannot encode %q: %w", fn, key, err),
	}
}

func CompactError(dir string, err error) error {
	msg := "Cannot compact name index at <em>%s</em>"
	vars := []any{dir}
	return &gn.Error{
		Code: errcode.StoreCompactError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("cannot compact badger at %s: %w", dir, err),
	}
}
