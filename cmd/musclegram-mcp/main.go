// Command musclegram-mcp serves the MCP tools over stdio for local
// assistants, answering from a running musclegram server.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/HIkaru827/musclegram/internal/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	serverURL := flag.String("server", os.Getenv("MUSCLEGRAM_URL"), "musclegram server URL")
	userID := flag.String("user", os.Getenv("MUSCLEGRAM_USER_ID"), "user whose data is served")
	flag.Parse()
	apiKey := os.Getenv("MUSCLEGRAM_API_KEY")

	// stdout carries the protocol.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *serverURL == "" || *userID == "" || apiKey == "" {
		fmt.Fprintf(os.Stderr, "Usage: MUSCLEGRAM_API_KEY=... musclegram-mcp -server <URL> -user <id>\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	client := mcp.NewHTTPClient(*serverURL, apiKey)
	s := mcp.New(client, Version, log)

	log.Info("musclegram-mcp serving on stdio", "server", *serverURL, "user", *userID)
	err := server.ServeStdio(s, server.WithStdioContextFunc(func(ctx context.Context) context.Context {
		return mcp.WithUserID(ctx, *userID)
	}))
	if err != nil {
		log.Error("stdio server stopped", "error", err)
		os.Exit(1)
	}
}
