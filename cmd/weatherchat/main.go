// weatherchat is the interactive client: it launches the tool server given
// on the command line, forwards each typed query to the language model, and
// prints the assembled answer.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/weatherchat/weatherchat/pkg/config"
	"github.com/weatherchat/weatherchat/pkg/mcpclient"
	"github.com/weatherchat/weatherchat/pkg/model"
	"github.com/weatherchat/weatherchat/pkg/orchestrator"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: weatherchat <path-to-server-program>")
		os.Exit(1)
	}
	if err := run(os.Args[1]); err != nil {
		fmt.Fprintf(os.Stderr, "weatherchat: %v\n", err)
		os.Exit(1)
	}
}

func run(serverPath string) error {
	cfg, err := config.Load(config.DefaultEnvFile)
	if err != nil {
		return err
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(cfg.ZerologLevel()).
		With().Timestamp().Logger()

	client := mcpclient.New(serverPath)
	defer func() {
		if err := client.Close(); err != nil {
			logger.Warn().Err(err).Msg("closing tool server session")
		}
	}()

	chat, err := model.NewAnthropicClient(cfg.AnthropicAPIKey, cfg.AnthropicBaseURL,
		model.WithModel(cfg.Model))
	if err != nil {
		return err
	}

	shell := newShell(orchestrator.New(chat, client, orchestrator.WithLogger(logger)), client, logger)
	return shell.run()
}
