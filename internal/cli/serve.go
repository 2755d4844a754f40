package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaohuangguan/orion-voice2map/internal/server"
	"github.com/yaohuangguan/orion-voice2map/pkg/integrations/brave"
	"github.com/yaohuangguan/orion-voice2map/pkg/integrations/gemini"
	"github.com/yaohuangguan/orion-voice2map/pkg/store"
)

// serveCommand creates the serve command for running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		noCache  bool
		allowAll bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API.

Serves the engine over HTTP: transcript structuring, layout, graph
reconstruction, export, link enrichment, and saved-map CRUD.

Documents are stored in MongoDB when [mongo] uri is configured, otherwise
in the XDG data directory. Structuring and enrichment endpoints answer
501 unless the matching API key is configured.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, noCache, allowAll)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, else :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable response caching")
	cmd.Flags().BoolVar(&allowAll, "allow-all-origins", false, "allow all CORS origins (dev mode)")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, noCache, allowAll bool) error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	if addr == "" {
		addr = cfg.Server.Addr
	}

	st, backendName, err := c.newStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	backend := c.newCache(ctx, cfg, noCache)
	defer backend.Close()

	var structurer server.Structurer
	if cfg.Gemini.APIKey != "" {
		structurer = gemini.NewClient(cfg.Gemini.APIKey, backend, cfg.CacheTTL(), gemini.Options{
			Model:    cfg.Gemini.Model,
			MaxNodes: cfg.Gemini.MaxNodes,
			Language: cfg.Gemini.Language,
		})
	} else {
		c.Logger.Warn("no Gemini API key configured, /api/generate disabled")
	}

	var enricher server.Enricher
	if cfg.Brave.APIKey != "" {
		enricher = brave.NewClient(cfg.Brave.APIKey, backend, cfg.CacheTTL(), brave.Options{
			Count: cfg.Brave.Count,
		})
	} else {
		c.Logger.Warn("no Brave API key configured, /api/enrich disabled")
	}

	srv := server.New(server.Config{
		Addr:     addr,
		AllowAll: allowAll || cfg.Server.AllowAll,
	}, st, structurer, enricher, c.Logger)

	c.Logger.Info("starting server", "addr", addr, "store", backendName)
	return srv.Start(ctx)
}

// newStore picks the document store backend: MongoDB when configured,
// the XDG file store otherwise.
func (c *CLI) newStore(ctx context.Context, cfg *Config) (store.Store, string, error) {
	if cfg.Mongo.URI != "" {
		ms, err := store.NewMongoStore(ctx, store.MongoConfig{URI: cfg.Mongo.URI})
		if err != nil {
			return nil, "", fmt.Errorf("connect mongodb: %w", err)
		}
		return ms, "mongodb", nil
	}
	fs, err := store.NewFileStore("")
	if err != nil {
		return nil, "", fmt.Errorf("open file store: %w", err)
	}
	return fs, "file:" + fs.Dir(), nil
}
