package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/weatherchat/weatherchat/pkg/mcpclient"
	"github.com/weatherchat/weatherchat/pkg/orchestrator"
)

const quitCommand = "quit"

// shell is the thin interactive wrapper: it reads lines, hands them to the
// orchestrator, prints results, and keeps going when a query fails.
type shell struct {
	orch   *orchestrator.Orchestrator
	client *mcpclient.Client
	log    zerolog.Logger
}

func newShell(orch *orchestrator.Orchestrator, client *mcpclient.Client, log zerolog.Logger) *shell {
	return &shell{orch: orch, client: client, log: log}
}

func (s *shell) run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Connect up front so a bad server path is fatal before the prompt.
	if err := s.client.Connect(ctx); err != nil {
		return err
	}
	tools, err := s.client.ListTools(ctx)
	if err != nil {
		return err
	}
	names := make([]string, 0, len(tools))
	for _, t := range tools {
		names = append(names, t.Name)
	}
	fmt.Printf("\nConnected to server with tools: %s\n", strings.Join(names, ", "))
	fmt.Println("\nMCP Client Started!")
	fmt.Printf("Type your queries or %q to exit.\n", quitCommand)

	// Reader goroutine so Ctrl-C interrupts a blocked prompt.
	inputCh := make(chan string)
	scanner := bufio.NewScanner(os.Stdin)
	go func() {
		defer close(inputCh)
		for scanner.Scan() {
			select {
			case inputCh <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		fmt.Print("\nQuery: ")
		var (
			line string
			ok   bool
		)
		select {
		case <-ctx.Done():
			fmt.Println("\nExiting...")
			return nil
		case line, ok = <-inputCh:
			if !ok {
				return scanner.Err()
			}
		}

		query := strings.TrimSpace(line)
		if strings.EqualFold(query, quitCommand) {
			return nil
		}

		response, err := s.orch.ProcessQuery(ctx, query)
		if err != nil {
			// Per-query failures are reported and the loop continues;
			// partial output (e.g. from a capped tool loop) still prints.
			if response != "" {
				fmt.Println("\n" + response)
			}
			fmt.Printf("\nError: %v\n", err)
			continue
		}
		fmt.Println("\n" + response)
	}
}
