// Package rpc exposes derivations over JSON-RPC 2.0 with Content-Length
// framing, so editors and pipelines can drive the engine without going
// through the CLI.
package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/sourcegraph/jsonrpc2"

	"github.com/pflow-xyz/go-morph/derive"
	"github.com/pflow-xyz/go-morph/grammar"
	"github.com/pflow-xyz/go-morph/logger"
	"github.com/pflow-xyz/go-morph/results"
	"github.com/pflow-xyz/go-morph/tables"
)

// Version reported by morph/version.
const Version = "0.1.0"

// Served methods.
const (
	MethodDerive  = "morph/derive"
	MethodExpand  = "morph/expand"
	MethodVersion = "morph/version"
)

// TablesParams selects a configuration: a directory on the server's
// filesystem, or table contents sent inline keyed by file name
// (psr.txt, vi_rules.txt, ...). Exactly one of the two must be set.
type TablesParams struct {
	Dir    string            `json:"dir,omitempty"`
	Tables map[string]string `json:"tables,omitempty"`
}

// DeriveResult carries the produced words plus the same run record a
// batch derivation stores.
type DeriveResult struct {
	Words []string     `json:"words"`
	Run   *results.Run `json:"run"`
}

// ExpandResult is the grammar expansion in labeled bracket notation.
type ExpandResult struct {
	Start string `json:"start"`
	Tree  string `json:"tree"`
}

type VersionResult struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Server answers morph requests on jsonrpc2 connections.
type Server struct {
	log *slog.Logger
}

func NewServer() *Server {
	return &Server{log: logger.ForComponent("rpc")}
}

func (s *Server) handle(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) (interface{}, error) {
	switch req.Method {
	case MethodDerive:
		params, err := tablesParams(req)
		if err != nil {
			return nil, err
		}
		return s.derive(params)
	case MethodExpand:
		params, err := tablesParams(req)
		if err != nil {
			return nil, err
		}
		return s.expand(params)
	case MethodVersion:
		return VersionResult{Name: "morph", Version: Version}, nil
	default:
		return nil, &jsonrpc2.Error{
			Code:    jsonrpc2.CodeMethodNotFound,
			Message: fmt.Sprintf("method not supported: %s", req.Method),
		}
	}
}

func tablesParams(req *jsonrpc2.Request) (TablesParams, error) {
	var p TablesParams
	if req.Params != nil {
		if err := json.Unmarshal(*req.Params, &p); err != nil {
			return p, &jsonrpc2.Error{Code: jsonrpc2.CodeInvalidParams, Message: err.Error()}
		}
	}
	switch {
	case p.Dir != "" && p.Tables != nil:
		return p, &jsonrpc2.Error{Code: jsonrpc2.CodeInvalidParams, Message: "dir and tables are mutually exclusive"}
	case p.Dir == "" && p.Tables == nil:
		return p, &jsonrpc2.Error{Code: jsonrpc2.CodeInvalidParams, Message: "dir or tables required"}
	}
	return p, nil
}

func (p TablesParams) load() (*derive.Config, string, error) {
	if p.Dir != "" {
		cfg, _, err := tables.LoadDirectory(p.Dir)
		return cfg, p.Dir, err
	}
	cfg, _, err := tables.LoadMap(p.Tables)
	return cfg, "inline", err
}

func (s *Server) derive(p TablesParams) (*DeriveResult, error) {
	cfg, source, err := p.load()
	if err != nil {
		return nil, err
	}
	res, err := derive.Run(cfg)
	if err != nil {
		return nil, err
	}
	run := results.New(source, cfg, res)
	s.log.Info("derivation served", "source", source, "words", len(run.Words))
	return &DeriveResult{Words: run.Words, Run: run}, nil
}

func (s *Server) expand(p TablesParams) (*ExpandResult, error) {
	cfg, _, err := p.load()
	if err != nil {
		return nil, err
	}
	tree, err := grammar.Expand(cfg.Start, cfg.Grammar)
	if err != nil {
		return nil, err
	}
	return &ExpandResult{Start: cfg.Start, Tree: tree.String()}, nil
}

// ServeStream answers requests on one connection until the peer
// disconnects. Cancelling the context shuts the connection down.
func ServeStream(ctx context.Context, rwc io.ReadWriteCloser) error {
	srv := NewServer()
	stream := jsonrpc2.NewBufferedStream(rwc, jsonrpc2.VSCodeObjectCodec{})
	conn := jsonrpc2.NewConn(ctx, stream, jsonrpc2.AsyncHandler(jsonrpc2.HandlerWithError(srv.handle)))

	select {
	case <-ctx.Done():
		conn.Close()
		<-conn.DisconnectNotify()
		return nil
	case <-conn.DisconnectNotify():
		return nil
	}
}

// stdrwc bridges the process's standard streams into one connection.
type stdrwc struct{}

func (stdrwc) Read(p []byte) (int, error)  { return os.Stdin.Read(p) }
func (stdrwc) Write(p []byte) (int, error) { return os.Stdout.Write(p) }

func (stdrwc) Close() error {
	if err := os.Stdin.Close(); err != nil {
		return err
	}
	return os.Stdout.Close()
}

// ServeStdio runs the server over stdin/stdout, the transport editors
// spawn language servers with.
func ServeStdio(ctx context.Context) error {
	return ServeStream(ctx, stdrwc{})
}
