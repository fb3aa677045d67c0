package memstore

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/gnidx/pkg/errcode"
)

func ClosedError() error {
	msg := "Name index is closed"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc).Name()
	return &gn.Error{
		Code: errcode.StoreClosedError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: memory store is closed", fn),
	}
}
