package migrate_test

import (
	"context"
	"errors"
	"net/url"

	"github.com/johnwards/solarsail/internal/hubapi"
)

var errTransport = errors.New("connection refused")

// failingAPI fails every call at the transport level.
type failingAPI struct{ calls int }

func (f *failingAPI) Get(context.Context, string, hubapi.Environment, url.Values) (*hubapi.Response, error) {
	f.calls++
	return nil, errTransport
}

func (f *failingAPI) Post(context.Context, string, hubapi.Environment, any) (*hubapi.Response, error) {
	f.calls++
	return nil, errTransport
}

func (f *failingAPI) Delete(context.Context, string, hubapi.Environment) (*hubapi.Response, error) {
	f.calls++
	return nil, errTransport
}
