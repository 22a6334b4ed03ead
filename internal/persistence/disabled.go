package persistence

import (
	"context"
	"errors"
)

// ErrStorageDisabled is returned by every DisabledBackend call.
var ErrStorageDisabled = errors.New("storage is disabled")

// DisabledBackend models a medium that refuses all access, such as a
// browser with storage turned off.
type DisabledBackend struct{}

func (DisabledBackend) Get(context.Context, string) (string, bool, error) {
	return "", false, ErrStorageDisabled
}

func (DisabledBackend) Set(context.Context, string, string) error {
	return ErrStorageDisabled
}

func (DisabledBackend) Delete(context.Context, string) error {
	return ErrStorageDisabled
}
