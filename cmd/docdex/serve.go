package main

import (
	dochttp "github.com/fwojciec/docdex/http"
	"golang.org/x/sync/errgroup"
)

// Run executes the serve command.
func (c *ServeCmd) Run(deps *Dependencies) error {
	addr := c.Addr
	if addr == "" {
		addr = deps.Config.Addr
	}

	srv := dochttp.NewServer()
	srv.Addr = addr
	srv.Searcher = deps.Searcher
	srv.Catalog = deps.Catalog
	srv.Store = deps.Store
	srv.Logger = deps.Logger

	g, ctx := errgroup.WithContext(deps.Ctx)
	g.Go(srv.Open)
	g.Go(func() error {
		<-ctx.Done()
		return srv.Close()
	})
	return g.Wait()
}
