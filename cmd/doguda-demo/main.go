// Command doguda-demo is a small example app built on go-doguda. It registers
// a couple of commands and providers, exposes them as CLI subcommands, and
// adds a serve subcommand that publishes the same commands over HTTP.
//
// Try:
//
//	doguda-demo ping 3
//	doguda-demo serve --listen 127.0.0.1:8000
//	curl -X POST localhost:8000/v1/doguda/ping -d '{"x": 3}'
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/gburgyan/go-doguda"
)

// PingResponse is the structured result of the ping command.
type PingResponse struct {
	Markdown string `json:"markdown"`
}

// Clock is a provider-supplied dependency so command handlers stay testable.
type Clock func() time.Time

// Greeter formats greetings; it depends on the Clock through the provider
// graph rather than receiving it from callers.
type Greeter struct {
	clock Clock
}

func (g *Greeter) Greet(name string) string {
	return fmt.Sprintf("hello %s, it is %s", name, g.clock().UTC().Format(time.Kitchen))
}

func ping(x int) *PingResponse {
	return &PingResponse{Markdown: fmt.Sprintf("ping %d", x)}
}

func greet(name string, g *Greeter) string {
	return g.Greet(name)
}

func buildApp(logger *zap.Logger) *doguda.App {
	app := doguda.New("doguda-demo", doguda.WithLogger(logger))

	app.Provide(func() Clock { return time.Now })
	app.Provide(func(clock Clock) *Greeter { return &Greeter{clock: clock} })

	app.CommandDoc("ping", "Reply with a ping payload", ping,
		doguda.Param{Name: "x", Doc: "value echoed back"})
	app.CommandDoc("greet", "Greet someone by name", greet,
		doguda.Param{Name: "name", Default: "world", Doc: "who to greet"},
		doguda.Param{Name: "greeter"})

	return app
}

func newServeCommand(app *doguda.App) *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the registered commands over HTTP",
		RunE: func(c *cobra.Command, _ []string) error {
			v := viper.New()
			v.SetDefault("listen", "0.0.0.0:8000")
			v.SetDefault("prefix", doguda.DefaultPrefix)
			v.SetDefault("metrics", true)
			v.SetDefault("healthz", true)
			v.SetEnvPrefix("DOGUDA")
			v.AutomaticEnv()
			if configFile != "" {
				v.SetConfigFile(configFile)
				if err := v.ReadInConfig(); err != nil {
					return fmt.Errorf("read config: %w", err)
				}
			}
			if c.Flags().Changed("listen") {
				listen, _ := c.Flags().GetString("listen")
				v.Set("listen", listen)
			}

			ctx, stop := signal.NotifyContext(c.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return app.Serve(ctx, doguda.ServeOptions{
				Addr:          v.GetString("listen"),
				Prefix:        v.GetString("prefix"),
				EnableMetrics: v.GetBool("metrics"),
				EnableHealthz: v.GetBool("healthz"),
			})
		},
	}

	cmd.Flags().String("listen", "0.0.0.0:8000", "listen address")
	cmd.Flags().StringVar(&configFile, "config", "", "optional YAML config file")
	return cmd
}

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	app := buildApp(logger)
	root := app.CLI()
	root.AddCommand(newServeCommand(app))
	root.SetContext(context.Background())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
