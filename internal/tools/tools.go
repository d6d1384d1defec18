// Package tools holds the tools served by rakuten-mcp.
package tools

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/johncarpenter/rakuten-mcp/internal/config"
	"github.com/johncarpenter/rakuten-mcp/internal/mcp"
	"github.com/johncarpenter/rakuten-mcp/internal/rakuten"
)

// Searcher runs an item search.
type Searcher interface {
	Search(ctx context.Context, p rakuten.SearchParams) (*rakuten.SearchResponse, error)
}

type options struct {
	searcher Searcher
	rakuten  []rakuten.Option
}

// Option customizes Register.
type Option func(*options)

// WithSearcher replaces the Rakuten client used by rakuten_search.
func WithSearcher(s Searcher) Option {
	return func(o *options) { o.searcher = s }
}

// WithRakutenOptions passes options through to rakuten.NewClient.
func WithRakutenOptions(opts ...rakuten.Option) Option {
	return func(o *options) { o.rakuten = append(o.rakuten, opts...) }
}

// Register adds every tool to reg, in the order they are listed.
func Register(reg *mcp.Registry, cfg *config.Config, opts ...Option) error {
	if cfg == nil {
		cfg = &config.Config{}
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.searcher == nil {
		ropts := append([]rakuten.Option{rakuten.WithEndpoint(cfg.RakutenEndpoint)}, o.rakuten...)
		o.searcher = rakuten.NewClient(cfg.RakutenAppID, ropts...)
	}

	if err := reg.Register(helloWorldTool, helloWorld); err != nil {
		return errors.Wrap(err, "register hello_world")
	}
	if err := reg.Register(rakutenSearchTool, newRakutenSearch(o.searcher)); err != nil {
		return errors.Wrap(err, "register rakuten_search")
	}
	return nil
}
