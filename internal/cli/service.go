package cli

import (
	"github.com/courtlog/courtlog/internal/scoring"
	"github.com/courtlog/courtlog/internal/store"
)

// openService opens the configured database and wraps it in a scoring
// service. The caller must Close the returned store.
func openService(opts *RootOptions) (*store.Store, *scoring.Service, error) {
	st, err := store.Open(opts.Database)
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	return st, scoring.NewService(st), nil
}
