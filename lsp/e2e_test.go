// Copyright © 2024 The Lithium authors

package lsp

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// jsonRPCRequest builds a JSON-RPC 2.0 request.
func jsonRPCRequest(id int, method string, params any) []byte {
	msg := map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"method":  method,
		"params":  params,
	}
	b, _ := json.Marshal(msg)
	return b
}

// jsonRPCNotification builds a JSON-RPC 2.0 notification (no id).
func jsonRPCNotification(method string, params any) []byte {
	msg := map[string]any{
		"jsonrpc": "2.0",
		"method":  method,
		"params":  params,
	}
	b, _ := json.Marshal(msg)
	return b
}

// lspMessage wraps JSON content with the LSP Content-Length header.
func lspMessage(content []byte) []byte {
	return fmt.Appendf(nil, "Content-Length: %d\r\n\r\n%s", len(content), content)
}

// readLSPMessage reads a single LSP message from a buffered reader.
// Returns the parsed JSON as a map.
func readLSPMessage(t *testing.T, r *bufio.Reader) map[string]any {
	t.Helper()

	// Read headers until blank line.
	var contentLength int
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			t.Fatalf("failed to read LSP header: %v", err)
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		if val, ok := strings.CutPrefix(line, "Content-Length: "); ok {
			n, err := strconv.Atoi(val)
			require.NoError(t, err, "parsing Content-Length")
			contentLength = n
		}
	}
	require.Greater(t, contentLength, 0, "Content-Length must be positive")

	// Read content body.
	body := make([]byte, contentLength)
	_, err := io.ReadFull(r, body)
	require.NoError(t, err, "reading message body")

	var msg map[string]any
	require.NoError(t, json.Unmarshal(body, &msg), "parsing JSON body")
	return msg
}

// readResponse reads LSP messages until a response with the given id appears.
// Returns the response and any notifications received along the way.
func readResponse(t *testing.T, r *bufio.Reader, id int) (map[string]any, []map[string]any) {
	t.Helper()
	var notifications []map[string]any
	deadline := time.After(10 * time.Second)
	for {
		select {
		case <-deadline:
			t.Fatalf("timeout waiting for response id=%d", id)
		default:
		}
		msg := readLSPMessage(t, r)
		// If this message has the expected id, it's our response.
		if msgID, ok := msg["id"]; ok {
			var msgIDFloat float64
			switch v := msgID.(type) {
			case float64:
				msgIDFloat = v
			case json.Number:
				f, _ := v.Float64()
				msgIDFloat = f
			}
			if int(msgIDFloat) == id {
				return msg, notifications
			}
		}
		// Otherwise it's a notification (no id, or different id).
		notifications = append(notifications, msg)
	}
}

// e2eServer starts an LSP server over an in-memory project on a random TCP
// port and returns the connection and a cleanup function.
func e2eServer(t *testing.T, fs afero.Fs, r *scriptedRunner) (net.Conn, func()) {
	t.Helper()

	srv := New(WithFs(fs), WithRunner(r))
	srv.exitFn = func(int) {}

	// Find a free port.
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	_ = listener.Close()

	// Start the server in the background.
	done := make(chan error, 1)
	go func() {
		done <- srv.RunTCP(addr)
	}()

	// Give server a moment to start listening, then connect.
	var conn net.Conn
	for i := 0; i < 50; i++ {
		conn, err = net.Dial("tcp", addr)
		if err == nil {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	require.NoError(t, err, "failed to connect to LSP server at %s", addr)

	cleanup := func() {
		_ = conn.Close()
	}

	return conn, cleanup
}

// send writes an LSP message to the connection.
func send(t *testing.T, conn net.Conn, data []byte) {
	t.Helper()
	_, err := conn.Write(lspMessage(data))
	require.NoError(t, err, "writing LSP message")
}

// waitDiagnostics reads messages until a publishDiagnostics notification.
func waitDiagnostics(t *testing.T, r *bufio.Reader) {
	t.Helper()
	for {
		msg := readLSPMessage(t, r)
		if msg["method"] == "textDocument/publishDiagnostics" {
			return
		}
	}
}

// e2eProject returns an in-memory project with a problems file and the
// Helper class sources.
func e2eProject(t *testing.T) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/p/.lithium/problems.json", []byte(`[
		{"file": "`+testPath+`", "level": "warning", "message": "deprecated", "line": 7, "artifactClass": "JavaCompiler"}
	]`), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/p/src/com/acme/util/Helper.java", []byte("class Helper {}\n"), 0o644))
	return fs
}

func TestE2E_FullLifecycle(t *testing.T) {
	r := &scriptedRunner{outputs: map[string][]string{
		"LiJavaToolRunner:classInfo:com.acme.util.Helper": {
			"{{{=(",
			`{"name": "com.acme.util.Helper", "methods": [{"name": "size", "level": "public", "signature": "public int size()"}]}`,
			")=}}}",
		},
	}}
	conn, cleanup := e2eServer(t, e2eProject(t), r)
	defer cleanup()

	reader := bufio.NewReader(conn)

	// --- Step 1: Initialize ---
	send(t, conn, jsonRPCRequest(1, "initialize", map[string]any{
		"capabilities": map[string]any{},
		"rootUri":      "file:///p",
	}))

	resp, _ := readResponse(t, reader, 1)
	result := resp["result"].(map[string]any)
	caps := result["capabilities"].(map[string]any)

	// Verify key capabilities.
	assert.NotNil(t, caps["hoverProvider"], "should have hover")
	assert.NotNil(t, caps["definitionProvider"], "should have definition")
	assert.NotNil(t, caps["documentFormattingProvider"], "should have formatting")
	assert.NotNil(t, caps["codeActionProvider"], "should have code actions")

	serverInfo := result["serverInfo"].(map[string]any)
	assert.Equal(t, "lithium-lsp", serverInfo["name"])

	// --- Step 2: Initialized ---
	send(t, conn, jsonRPCNotification("initialized", map[string]any{}))

	// --- Step 3: Open document, diagnostics come from the problems file ---
	send(t, conn, jsonRPCNotification("textDocument/didOpen", map[string]any{
		"textDocument": map[string]any{
			"uri":        testURI,
			"languageId": "java",
			"version":    1,
			"text":       helperSrc,
		},
	}))

	var diagParams map[string]any
	deadline := time.After(5 * time.Second)
	for diagParams == nil {
		select {
		case <-deadline:
			t.Fatal("timeout waiting for diagnostics notification")
		default:
		}
		msg := readLSPMessage(t, reader)
		if method, ok := msg["method"].(string); ok && method == "textDocument/publishDiagnostics" {
			diagParams = msg["params"].(map[string]any)
		}
	}
	assert.Equal(t, testURI, diagParams["uri"])
	diagnostics := diagParams["diagnostics"].([]any)
	require.Len(t, diagnostics, 1, "didOpen should publish the problems of the file")
	diag := diagnostics[0].(map[string]any)
	assert.Equal(t, "deprecated", diag["message"])
	assert.Equal(t, float64(1), diag["severity"], "warnings are reported as errors")

	// --- Step 4: Hover on "Helper" at line 5, char 5 ---
	send(t, conn, jsonRPCRequest(2, "textDocument/hover", map[string]any{
		"textDocument": map[string]any{"uri": testURI},
		"position":     map[string]any{"line": 5, "character": 5},
	}))

	hoverResp, _ := readResponse(t, reader, 2)
	require.NotNil(t, hoverResp["result"], "hover should return a result")
	hoverResult := hoverResp["result"].(map[string]any)
	hoverContents := hoverResult["contents"].(map[string]any)
	hoverValue := hoverContents["value"].(string)
	assert.Contains(t, hoverValue, "com.acme.util.Helper", "hover should show the class path")
	assert.Contains(t, hoverValue, "public int size()", "hover should show members")

	// --- Step 5: Go to Definition on "Helper" ---
	send(t, conn, jsonRPCRequest(3, "textDocument/definition", map[string]any{
		"textDocument": map[string]any{"uri": testURI},
		"position":     map[string]any{"line": 5, "character": 5},
	}))

	defResp, _ := readResponse(t, reader, 3)
	require.NotNil(t, defResp["result"], "definition should return a result")
	defResult := defResp["result"].([]any)
	require.Len(t, defResult, 1)
	assert.Equal(t, "file:///p/src/com/acme/util/Helper.java", defResult[0].(map[string]any)["uri"])

	// --- Step 6: Shutdown ---
	send(t, conn, jsonRPCRequest(4, "shutdown", nil))
	shutdownResp, _ := readResponse(t, reader, 4)
	assert.Nil(t, shutdownResp["error"], "shutdown should succeed")
}

func TestE2E_HoverOnWhitespace(t *testing.T) {
	conn, cleanup := e2eServer(t, e2eProject(t), &scriptedRunner{})
	defer cleanup()

	reader := bufio.NewReader(conn)

	send(t, conn, jsonRPCRequest(1, "initialize", map[string]any{
		"capabilities": map[string]any{},
		"rootUri":      "file:///p",
	}))
	readResponse(t, reader, 1)
	send(t, conn, jsonRPCNotification("initialized", map[string]any{}))

	src := "class A {\n\n}\n"
	send(t, conn, jsonRPCNotification("textDocument/didOpen", map[string]any{
		"textDocument": map[string]any{
			"uri":        testURI,
			"languageId": "java",
			"version":    1,
			"text":       src,
		},
	}))

	waitDiagnostics(t, reader)

	send(t, conn, jsonRPCRequest(2, "textDocument/hover", map[string]any{
		"textDocument": map[string]any{"uri": testURI},
		"position":     map[string]any{"line": 1, "character": 0},
	}))
	hoverResp, _ := readResponse(t, reader, 2)
	assert.Nil(t, hoverResp["result"], "hover on a blank line should be null")
}

func TestE2E_Formatting(t *testing.T) {
	conn, cleanup := e2eServer(t, e2eProject(t), &scriptedRunner{})
	defer cleanup()

	reader := bufio.NewReader(conn)

	send(t, conn, jsonRPCRequest(1, "initialize", map[string]any{
		"capabilities": map[string]any{},
		"rootUri":      "file:///p",
	}))
	readResponse(t, reader, 1)
	send(t, conn, jsonRPCNotification("initialized", map[string]any{}))

	send(t, conn, jsonRPCNotification("textDocument/didOpen", map[string]any{
		"textDocument": map[string]any{
			"uri":        testURI,
			"languageId": "java",
			"version":    1,
			"text":       unsortedSrc,
		},
	}))

	waitDiagnostics(t, reader)

	send(t, conn, jsonRPCRequest(2, "textDocument/formatting", map[string]any{
		"textDocument": map[string]any{"uri": testURI},
		"options":      map[string]any{"tabSize": 4, "insertSpaces": true},
	}))
	fmtResp, _ := readResponse(t, reader, 2)
	edits, ok := fmtResp["result"].([]any)
	require.True(t, ok, "formatting should return edits, got %v", fmtResp["result"])
	require.Len(t, edits, 1)
	newText := edits[0].(map[string]any)["newText"].(string)
	assert.True(t, strings.HasPrefix(newText, "package com.acme;\n\nimport java.io.File;\nimport java.util.List;\n\nimport com.acme.Foo;\n"), newText)
}
