package rpc

import (
	"context"
	"errors"
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/sourcegraph/jsonrpc2"

	"github.com/pflow-xyz/go-morph/tables"
)

type noopHandler struct{}

func (noopHandler) Handle(context.Context, *jsonrpc2.Conn, *jsonrpc2.Request) {}

// startClient wires a client connection to an in-process server over a
// synchronous pipe.
func startClient(t *testing.T) *jsonrpc2.Conn {
	t.Helper()
	serverEnd, clientEnd := net.Pipe()
	go func() { _ = ServeStream(context.Background(), serverEnd) }()
	stream := jsonrpc2.NewBufferedStream(clientEnd, jsonrpc2.VSCodeObjectCodec{})
	conn := jsonrpc2.NewConn(context.Background(), stream, noopHandler{})
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestVersion(t *testing.T) {
	conn := startClient(t)

	var res VersionResult
	if err := conn.Call(context.Background(), MethodVersion, nil, &res); err != nil {
		t.Fatalf("call failed: %v", err)
	}
	if res.Name != "morph" || res.Version != Version {
		t.Errorf("version = %+v", res)
	}
}

func TestDeriveInlineTables(t *testing.T) {
	conn := startClient(t)

	params := TablesParams{Tables: map[string]string{
		tables.GrammarFile: "S, T\nT, V\n",
		tables.VocabFile:   "V, apa\n",
		tables.TargetsFile: "V\n",
	}}
	var res DeriveResult
	if err := conn.Call(context.Background(), MethodDerive, params, &res); err != nil {
		t.Fatalf("call failed: %v", err)
	}
	if len(res.Words) != 2 || res.Words[0] != "apa" || res.Words[1] != "apaapa" {
		t.Errorf("words = %v, want [apa apaapa]", res.Words)
	}
	if res.Run == nil || res.Run.ID == "" {
		t.Fatal("run record missing")
	}
	if res.Run.Source != "inline" || res.Run.Tables.Targets != 1 {
		t.Errorf("run = source %q, %d targets", res.Run.Source, res.Run.Tables.Targets)
	}
}

func TestDeriveFromDirectory(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		tables.GrammarFile: "S, T\nT, V\n",
		tables.VocabFile:   "V, pata\n",
	}
	for name, data := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(data), 0644); err != nil {
			t.Fatal(err)
		}
	}
	conn := startClient(t)

	var res DeriveResult
	if err := conn.Call(context.Background(), MethodDerive, TablesParams{Dir: dir}, &res); err != nil {
		t.Fatalf("call failed: %v", err)
	}
	if len(res.Words) != 1 || res.Words[0] != "pata" {
		t.Errorf("words = %v, want [pata]", res.Words)
	}
	if res.Run.Source != dir {
		t.Errorf("source = %q, want %q", res.Run.Source, dir)
	}
}

func TestExpand(t *testing.T) {
	conn := startClient(t)

	params := TablesParams{Tables: map[string]string{
		tables.GrammarFile: "S, T\nT, V\n",
		tables.VocabFile:   "V, apa\n",
	}}
	var res ExpandResult
	if err := conn.Call(context.Background(), MethodExpand, params, &res); err != nil {
		t.Fatalf("call failed: %v", err)
	}
	if res.Start != "S" || res.Tree != "[S [T V]]" {
		t.Errorf("expand = %+v", res)
	}
}

func TestInvalidParams(t *testing.T) {
	conn := startClient(t)

	cases := []TablesParams{
		{},
		{Dir: "x", Tables: map[string]string{"a": "b"}},
	}
	for _, params := range cases {
		var res DeriveResult
		err := conn.Call(context.Background(), MethodDerive, params, &res)
		var rpcErr *jsonrpc2.Error
		if !errors.As(err, &rpcErr) || rpcErr.Code != jsonrpc2.CodeInvalidParams {
			t.Errorf("params %+v: err = %v, want invalid params", params, err)
		}
	}
}

func TestUnknownMethod(t *testing.T) {
	conn := startClient(t)

	var res any
	err := conn.Call(context.Background(), "morph/bogus", nil, &res)
	var rpcErr *jsonrpc2.Error
	if !errors.As(err, &rpcErr) || rpcErr.Code != jsonrpc2.CodeMethodNotFound {
		t.Fatalf("err = %v, want method not found", err)
	}
}

func TestDeriveBadTables(t *testing.T) {
	conn := startClient(t)

	params := TablesParams{Tables: map[string]string{
		tables.GrammarFile: "S, T\n",
	}}
	var res DeriveResult
	if err := conn.Call(context.Background(), MethodDerive, params, &res); err == nil {
		t.Fatal("expected error for missing vocabulary table")
	}
}
