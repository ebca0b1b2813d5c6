package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/sourcegraph/go-lsp"
	"github.com/sourcegraph/jsonrpc2"

	iLsp "github.com/jwtly10/litpage/internal/lsp"
)

type Server struct {
	conn *jsonrpc2.Conn
	// tracks canceled request IDs
	cancelMap sync.Map

	// tracking for method request counts
	trackRequestCount sync.Map

	// renders documents and reports their problems
	docService *iLsp.DocumentService

	exit func(code int)
}

type Options struct {
	DocService iLsp.DocumentServiceOptions
}

func (o Options) Validate() error {
	return o.DocService.Validate()
}

func NewServer(options Options) (*Server, error) {
	dService, err := iLsp.NewDocumentService(options.DocService)
	if err != nil {
		return nil, err
	}

	return &Server{
		docService: dService,
		exit:       os.Exit,
	}, nil
}

func (s *Server) Handle(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) (result interface{}, err error) {
	if s.conn == nil {
		s.conn = conn
	}
	slog.Info("received request", "method", req.Method, "id", req.ID)
	reqCount, _ := s.trackRequestCount.LoadOrStore(req.Method, 0)
	if count, ok := reqCount.(int); ok {
		s.trackRequestCount.Store(req.Method, count+1)
	}

	if _, ok := s.cancelMap.Load(req.ID.String()); ok {
		slog.Debug("request was canceled", "id", req.ID)
		s.cancelMap.Delete(req.ID.String())
		return nil, nil
	}

	switch req.Method {
	case "initialize":
		slog.Info("initializing lsp server")

		var initParams lsp.InitializeParams
		if err := unmarshalParams(req, &initParams); err != nil {
			return nil, err
		}

		if root := initParams.Root(); root != "" && root != "file://" {
			if dir, err := s.docService.URIToPath(root); err == nil {
				s.docService.SetWorkspace(dir)
			}
		}

		return lsp.InitializeResult{
			Capabilities: lsp.ServerCapabilities{
				TextDocumentSync: &lsp.TextDocumentSyncOptionsOrKind{
					Options: &lsp.TextDocumentSyncOptions{
						OpenClose: true,
						Change:    lsp.TDSKFull,
						Save:      &lsp.SaveOptions{},
					},
				},
			},
		}, nil

	case "initialized":
		slog.Info("server initialized", "root", s.docService.SourceRoot())
		return nil, nil
	case "shutdown":
		slog.Info("shutting down")

		s.printDebugStats()

		return nil, nil
	case "exit":
		slog.Info("exiting")

		s.exit(0)
		return nil, nil

	// Biz logic
	case "textDocument/didOpen":
		// Diagnostics are shown as soon as the document is opened
		var params lsp.DidOpenTextDocumentParams
		if err := unmarshalParams(req, &params); err != nil {
			return nil, err
		}

		if err := s.docService.Update(params.TextDocument.URI, params.TextDocument.Text); err != nil {
			return nil, err
		}
		return nil, s.publish(ctx, params.TextDocument.URI)
	case "textDocument/didChange":
		var params lsp.DidChangeTextDocumentParams
		if err := unmarshalParams(req, &params); err != nil {
			return nil, err
		}

		if len(params.ContentChanges) == 0 {
			return nil, nil
		}

		// full sync, the last change holds the whole document
		newContent := params.ContentChanges[len(params.ContentChanges)-1].Text
		if err := s.docService.Update(params.TextDocument.URI, newContent); err != nil {
			return nil, err
		}
		return nil, s.publish(ctx, params.TextDocument.URI)
	case "textDocument/didSave":
		var params lsp.DidSaveTextDocumentParams
		if err := unmarshalParams(req, &params); err != nil {
			return nil, err
		}

		return nil, s.publish(ctx, params.TextDocument.URI)
	case "textDocument/didClose":
		var params lsp.DidCloseTextDocumentParams
		if err := unmarshalParams(req, &params); err != nil {
			return nil, err
		}

		if err := s.docService.Close(params.TextDocument.URI); err != nil {
			return nil, err
		}
		return nil, s.SendDiagnostics(ctx, lsp.PublishDiagnosticsParams{
			URI:         params.TextDocument.URI,
			Diagnostics: []lsp.Diagnostic{},
		})
	case "$/cancelRequest":
		var params lsp.CancelParams
		if err := unmarshalParams(req, &params); err != nil {
			return nil, err
		}
		slog.Debug("canceling request", "id", params.ID)
		s.cancelMap.Store(params.ID.String(), struct{}{})
		return nil, nil

	default:
		if req.Notif {
			return nil, nil
		}
		return nil, &jsonrpc2.Error{
			Code:    jsonrpc2.CodeMethodNotFound,
			Message: fmt.Sprintf("method not supported: %s", req.Method),
		}
	}
}

func (s *Server) publish(ctx context.Context, uri lsp.DocumentURI) error {
	diagnostics, err := s.docService.Diagnose(uri)
	if err != nil {
		return err
	}

	return s.SendDiagnostics(ctx, lsp.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

func (s *Server) SendDiagnostics(ctx context.Context, params lsp.PublishDiagnosticsParams) error {
	return s.conn.Notify(ctx, "textDocument/publishDiagnostics", params)
}

func (s *Server) printDebugStats() {
	s.trackRequestCount.Range(func(key, value interface{}) bool {
		msg := fmt.Sprintf("Method: %-30s Count: %d", key.(string), value.(int))
		slog.Debug(msg)
		return true
	})
}

func unmarshalParams(req *jsonrpc2.Request, v interface{}) error {
	if req.Params == nil {
		return fmt.Errorf("%s: missing params", req.Method)
	}
	return json.Unmarshal(*req.Params, v)
}
