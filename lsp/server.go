// Copyright © 2024 The Lithium authors

// Package lsp implements a Language Server Protocol server for JVM sources.
// It resolves symbols for hover and go-to-definition, organizes imports
// through code actions and formatting, and publishes the problems reported
// by the lithium tool as diagnostics.
package lsp

import (
	"os"
	"sync"
	"time"

	"github.com/spf13/afero"
	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	glspserver "github.com/tliron/glsp/server"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/barmalei/lithium/config"
	"github.com/barmalei/lithium/resolver"
	"github.com/barmalei/lithium/runner"
)

const serverName = "lithium-lsp"

var log = commonlog.GetLogger("lithium.lsp")

// Server is the lithium language server.
type Server struct {
	handler  protocol.Handler
	glspSrv  *glspserver.Server
	docs     *DocumentStore
	rootURI  string
	rootPath string

	cfg      *config.Config
	fs       afero.Fs
	runner   runner.Runner
	resolver *resolver.Resolver

	// Debouncer for didChange notifications.
	debounceMu sync.Mutex
	debounce   map[string]*time.Timer

	// Context for sending notifications (captured from latest request).
	notifyMu sync.Mutex
	notify   glsp.NotifyFunc

	watcher *problemsWatcher

	// exitFn is called on the LSP exit notification. Defaults to os.Exit.
	exitFn func(int)
}

// Option configures the LSP server.
type Option func(*Server)

// WithConfig sets the settings used by the commands.
func WithConfig(cfg *config.Config) Option {
	return func(s *Server) { s.cfg = cfg }
}

// WithRunner sets the runner starting lithium tool commands.
func WithRunner(r runner.Runner) Option {
	return func(s *Server) { s.runner = r }
}

// WithFs sets the file system used for sibling lookups, project home
// detection and the problems file.
func WithFs(fs afero.Fs) Option {
	return func(s *Server) { s.fs = fs }
}

// New creates a new lithium LSP server.
func New(opts ...Option) *Server {
	s := &Server{
		docs:     NewDocumentStore(),
		debounce: make(map[string]*time.Timer),
		exitFn:   os.Exit,
	}
	for _, o := range opts {
		o(s)
	}
	if s.cfg == nil {
		s.cfg = config.Default()
	}
	if s.fs == nil {
		s.fs = afero.NewOsFs()
	}
	if s.runner == nil {
		s.runner = &runner.Exec{Tool: s.cfg.Lithium.Command}
	}
	s.resolver = resolver.New(s.fs)

	s.handler = protocol.Handler{
		Initialize:  s.initialize,
		Initialized: s.initialized,
		Shutdown:    s.shutdown,
		Exit:        s.exit,
		SetTrace:    s.setTrace,

		TextDocumentDidOpen:   s.textDocumentDidOpen,
		TextDocumentDidChange: s.textDocumentDidChange,
		TextDocumentDidSave:   s.textDocumentDidSave,
		TextDocumentDidClose:  s.textDocumentDidClose,

		TextDocumentHover:      s.textDocumentHover,
		TextDocumentDefinition: s.textDocumentDefinition,
		TextDocumentFormatting: s.textDocumentFormatting,
		TextDocumentCodeAction: s.textDocumentCodeAction,
	}

	s.glspSrv = glspserver.NewServer(&s.handler, serverName, false)
	return s
}

// RunStdio starts the server using stdio transport.
func (s *Server) RunStdio() error {
	return s.glspSrv.RunStdio()
}

// RunTCP starts the server listening on the given address.
func (s *Server) RunTCP(addr string) error {
	return s.glspSrv.RunTCP(addr)
}

func (s *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	s.captureNotify(ctx)

	if params.RootURI != nil {
		s.rootURI = *params.RootURI
		s.rootPath = uriToPath(s.rootURI)
	} else if params.RootPath != nil {
		s.rootPath = *params.RootPath
		s.rootURI = pathToURI(s.rootPath)
	}

	capabilities := s.handler.CreateServerCapabilities()

	syncKind := protocol.TextDocumentSyncKindFull
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    &syncKind,
		Save:      &protocol.SaveOptions{IncludeText: boolPtr(false)},
	}
	capabilities.CodeActionProvider = &protocol.CodeActionOptions{
		CodeActionKinds: []protocol.CodeActionKind{
			protocol.CodeActionKindSourceOrganizeImports,
			CodeActionKindRemoveUnusedImports,
			CodeActionKindValidateImports,
			protocol.CodeActionKindSource,
		},
	}

	version := "0.1.0"
	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    serverName,
			Version: &version,
		},
	}, nil
}

// initialized starts watching the problems file of the workspace.
func (s *Server) initialized(ctx *glsp.Context, _ *protocol.InitializedParams) error {
	s.captureNotify(ctx)
	if s.rootPath == "" || s.watcher != nil {
		return nil
	}
	w, err := s.watchProblems(s.problemsFile(s.rootPath))
	if err != nil {
		log.Warningf("watch problems: %v", err)
		return nil
	}
	s.watcher = w
	return nil
}

func (s *Server) shutdown(_ *glsp.Context) error {
	s.debounceMu.Lock()
	for _, t := range s.debounce {
		t.Stop()
	}
	s.debounce = make(map[string]*time.Timer)
	s.debounceMu.Unlock()

	if s.watcher != nil {
		if err := s.watcher.Close(); err != nil {
			log.Warningf("close watcher: %v", err)
		}
		s.watcher = nil
	}
	return nil
}

// exit terminates the process; shutdown has released everything already.
func (s *Server) exit(_ *glsp.Context) error {
	s.exitFn(0)
	return nil
}

// setTrace handles the $/setTrace notification (required by some clients).
func (s *Server) setTrace(_ *glsp.Context, _ *protocol.SetTraceParams) error {
	return nil
}

// captureNotify stores the notification function from the context for
// async use (e.g., publishing diagnostics after a debounce).
func (s *Server) captureNotify(ctx *glsp.Context) {
	s.notifyMu.Lock()
	s.notify = ctx.Notify
	s.notifyMu.Unlock()
}

func (s *Server) sendNotification(method string, params any) {
	s.notifyMu.Lock()
	fn := s.notify
	s.notifyMu.Unlock()
	if fn != nil {
		fn(method, params)
	}
}

func boolPtr(b bool) *bool {
	return &b
}
