package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pflow-xyz/go-morph/logger"
	"github.com/pflow-xyz/go-morph/rpc"
)

func cmdServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: morph serve

Serve derivations over JSON-RPC 2.0 on stdin/stdout with
Content-Length framing. Methods: %s, %s, %s.

Example:
  morph serve < requests.bin > responses.bin
`, rpc.MethodDerive, rpc.MethodExpand, rpc.MethodVersion)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	logger.Setup(logger.DefaultConfig())
	log := logger.ForComponent("serve")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("listening on stdio", "version", rpc.Version)
	return rpc.ServeStdio(ctx)
}
