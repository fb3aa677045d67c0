package pgstore

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/gnidx/pkg/errcode"
)

func OpenError(err error) error {
	msg := "Cannot open name index in PostgreSQL"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc).Name()
	return &gn.Error{
		Code: errcode.StoreOpenError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: cannot open postgres store: %w", fn, err),
	}
}

func ClosedError() error {
	msg := "Name index is closed"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc).Name()
	return &gn.Error{
		Code: errcode.StoreClosedError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: postgres store is closed", fn),
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

func DecodeError(key string, err error) error {
	msg := "Cannot decode entry of <em>%s</em>"
	vars := []any{key}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc).Name()
	return &gn.Error{
		Code: errcode.StoreDecodeError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: cannot decode %q: %w", fn, key, err),
	}
}

func CompactError(err error) error {
	msg := "Cannot run VACUUM ANALYZE on name index"
	return &gn.Error{
		Code: errcode.StoreCompactError,
		Msg:  msg,
		Err:  fmt.Errorf("cannot vacuum name_entries: %w", err),
	}
}
