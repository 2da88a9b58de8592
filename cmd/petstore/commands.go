package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/Chendemo12/decorapi"
	"github.com/Chendemo12/decorapi/config"
	"github.com/Chendemo12/decorapi/example/petstore"
	"github.com/Chendemo12/decorapi/metadata"
	"github.com/Chendemo12/decorapi/middleware/echoWrapper"
	"github.com/Chendemo12/decorapi/middleware/fiberWrapper"
	"github.com/Chendemo12/decorapi/middleware/routers"
	"github.com/Chendemo12/decorapi/openapi"
	"github.com/spf13/cobra"
)

// ServeOptions serve 命令的选项
type ServeOptions struct {
	ConfigFile string
	Engine     string
	Port       int
}

// NewServeCommand 启动 petstore 服务
func NewServeCommand() *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the petstore HTTP server",
		Example: `  # Serve with defaults on :8080 using fiber
  petstore serve

  # Serve on echo with a config file
  petstore serve --config config.yaml --engine echo`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigFile, "config", "c", "", "YAML config file")
	cmd.Flags().StringVarP(&opts.Engine, "engine", "e", "", "HTTP engine (fiber|echo), overrides the config")
	cmd.Flags().IntVarP(&opts.Port, "port", "p", 0, "Listen port, overrides the config")

	return cmd
}

// DocsOptions docs 命令的选项
type DocsOptions struct {
	ConfigFile string
	OutputDir  string
	YAML       bool
}

// NewDocsCommand 仅生成文档, 不启动服务
func NewDocsCommand() *cobra.Command {
	opts := &DocsOptions{}

	cmd := &cobra.Command{
		Use:     "docs",
		Short:   "Write the OpenAPI document of the petstore controllers",
		Example: `  petstore docs --out docs --yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDocs(cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigFile, "config", "c", "", "YAML config file")
	cmd.Flags().StringVarP(&opts.OutputDir, "out", "o", "", "Output directory, overrides the config")
	cmd.Flags().BoolVar(&opts.YAML, "yaml", false, "Also write openapi.yaml")

	return cmd
}

func runServe(ctx context.Context, opts *ServeOptions) error {
	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		return err
	}
	if opts.Engine != "" {
		cfg.Server.Engine = opts.Engine
	}
	if opts.Port > 0 {
		cfg.Server.Port = opts.Port
	}

	log := cfg.NewLogger()
	decorapi.SetLogger(log)

	mux, err := newMux(cfg.Server.Engine)
	if err != nil {
		return err
	}

	reg, err := declare()
	if err != nil {
		return err
	}
	controllers := append(petstore.Controllers(petstore.NewStore()), routers.NewInfoController(cfg.OpenAPIOptions()))

	app := decorapi.New(reg, cfg.AppConfig(log))
	if _, err = app.Register(mux, controllers, cfg.OpenAPIOptions()); err != nil {
		return err
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Infof("%s listening on %s (%s)", cfg.App.Title, cfg.Addr(), cfg.Server.Engine)
		errCh <- mux.Listen(cfg.Addr())
	}()

	select {
	case err = <-errCh:
		return err
	case <-ctx.Done():
		log.Info("shutting down")
		return mux.ShutdownWithTimeout(cfg.Server.Timeout.Shutdown)
	}
}

func runDocs(out io.Writer, opts *DocsOptions) error {
	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		return err
	}
	if opts.OutputDir != "" {
		cfg.Docs.Dir = opts.OutputDir
	}

	reg, err := declare()
	if err != nil {
		return err
	}

	appOpts := cfg.OpenAPIOptions()
	if err = appOpts.Validate(); err != nil {
		return err
	}
	doc := openapi.NewBuilder(reg).Build(appOpts)

	files, err := openapi.WriteFiles(cfg.Docs.Dir, doc, opts.YAML || cfg.Docs.YAML)
	if err != nil {
		return err
	}
	for _, f := range files {
		fmt.Fprintln(out, f)
	}
	return nil
}

// declare 声明全部控制器
func declare() (*metadata.Registry, error) {
	reg := metadata.NewRegistry()
	if err := errors.Join(petstore.Declare(reg), routers.DeclareInfo(reg)); err != nil {
		return nil, fmt.Errorf("declare controllers: %w", err)
	}
	return reg, nil
}

// newMux 按名称创建 Web 引擎
func newMux(engine string) (decorapi.MuxWrapper, error) {
	switch engine {
	case config.EngineFiber:
		return fiberWrapper.Default(), nil
	case config.EngineEcho:
		return echoWrapper.Default(), nil
	}
	return nil, fmt.Errorf("unknown engine %q, expected %s or %s", engine, config.EngineFiber, config.EngineEcho)
}
