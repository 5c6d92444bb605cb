// weather-server exposes the weather and capital-lookup tools over MCP on
// stdio. The client launches it as a subprocess; logs go to stderr so they
// never mix with the protocol stream.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/weatherchat/weatherchat/pkg/toolserver"
	"github.com/weatherchat/weatherchat/pkg/weather"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	nws := weather.NewNWSClient(os.Getenv("NWS_BASE_URL"))
	srv := toolserver.New(toolserver.Definitions(nws), log)

	log.Info().Msg("weather tool server listening on stdio")
	if err := srv.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
