package mcp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/go-faster/errors"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	protocolVersion = "2024-11-05"

	defaultServerName    = "my-custom-server"
	defaultServerVersion = "1.0.0"
)

// Options configures a Server. Zero values fall back to defaults.
type Options struct {
	Name    string
	Version string

	// Logger receives diagnostics. It must not write to the protocol stream.
	Logger *log.Logger
	Debug  bool

	TracerProvider trace.TracerProvider
	MeterProvider  metric.MeterProvider
}

// Server implements the MCP protocol over a pair of byte streams.
type Server struct {
	registry *Registry
	info     ServerInfo
	logger   *log.Logger
	debug    bool
	tel      *telemetry

	input  io.Reader
	reader *bufio.Reader
	enc    *Encoder
}

// NewServer creates a new MCP server bound to stdin and stdout.
func NewServer(reg *Registry, opts Options) *Server {
	if reg == nil {
		reg = NewRegistry()
	}
	s := &Server{
		registry: reg,
		info: ServerInfo{
			Name:    opts.Name,
			Version: opts.Version,
		},
		logger: opts.Logger,
		debug:  opts.Debug,
		tel:    newTelemetry(opts.TracerProvider, opts.MeterProvider),
	}
	if s.info.Name == "" {
		s.info.Name = defaultServerName
	}
	if s.info.Version == "" {
		s.info.Version = defaultServerVersion
	}
	if s.logger == nil {
		s.logger = log.New(os.Stderr, "", log.LstdFlags)
	}
	s.SetIO(os.Stdin, os.Stdout)
	return s
}

// SetIO allows setting custom IO for testing.
func (s *Server) SetIO(r io.Reader, w io.Writer) {
	s.input = r
	s.reader = bufio.NewReader(r)
	s.enc = NewEncoder(w)
}

// Run reads requests one line at a time until end of input. It returns nil
// on EOF, ctx.Err() once ctx is done, and an error only when reading or
// writing the streams fails.
//
// When ctx is done while a read is pending, the input is closed if it is an
// io.Closer so the pending read returns.
func (s *Server) Run(ctx context.Context) error {
	lines := make(chan readResult)
	done := make(chan struct{})
	defer close(done)
	go readLines(s.reader, lines, done)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		var r readResult
		select {
		case <-ctx.Done():
			s.closeInput()
			return ctx.Err()
		case r = <-lines:
		}

		if r.err != nil && r.err != io.EOF {
			if err := ctx.Err(); err != nil {
				return err
			}
			return errors.Wrap(r.err, "read request")
		}

		line := bytes.TrimRight(r.line, "\r\n")
		if len(bytes.TrimSpace(line)) > 0 {
			if err := s.serveLine(ctx, line); err != nil {
				return err
			}
		}

		if r.err == io.EOF {
			return nil
		}
	}
}

type readResult struct {
	line []byte
	err  error
}

// readLines feeds lines to out until a read fails or done is closed.
func readLines(r *bufio.Reader, out chan<- readResult, done <-chan struct{}) {
	for {
		line, err := r.ReadBytes('\n')
		select {
		case out <- readResult{line: line, err: err}:
		case <-done:
			return
		}
		if err != nil {
			return
		}
	}
}

func (s *Server) closeInput() {
	if c, ok := s.input.(io.Closer); ok {
		if err := c.Close(); err != nil {
			s.debugf("close input: %v", err)
		}
	}
}

// serveLine handles one input line. Only failures to write a response are
// returned; everything else is answered or dropped.
func (s *Server) serveLine(ctx context.Context, line []byte) (err error) {
	var req *Request
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		s.logger.Printf("panic while handling request: %v", r)
		if req == nil {
			return
		}
		err = s.enc.Encode(errorResponse(req.ID, InternalError, fmt.Sprintf("Internal error: %v", r)))
	}()

	req, decErr := DecodeRequest(line)
	if decErr != nil {
		s.debugf("skipping undecodable line: %v", decErr)
		return nil
	}

	resp := s.Handle(ctx, req)
	err = s.enc.Encode(resp)
	var me *marshalError
	if errors.As(err, &me) {
		s.logger.Printf("failed to encode response: %v", err)
		return s.enc.Encode(errorResponse(req.ID, InternalError, fmt.Sprintf("Internal error: %v", me.err)))
	}
	return err
}

// Handle dispatches a decoded request and returns its response. It never
// returns nil.
func (s *Server) Handle(ctx context.Context, req *Request) *Response {
	switch ParseMethod(req.Method) {
	case MethodInitialize:
		return resultResponse(req.ID, s.initializeResult())
	case MethodToolsList:
		return resultResponse(req.ID, ToolsListResult{Tools: s.registry.Tools()})
	case MethodToolsCall:
		return s.handleToolsCall(ctx, req)
	default:
		return errorResponse(req.ID, MethodNotFound, fmt.Sprintf("Method not found: %s", req.MethodName()))
	}
}

func (s *Server) initializeResult() InitializeResult {
	return InitializeResult{
		ProtocolVersion: protocolVersion,
		Capabilities: Capabilities{
			Tools: map[string]interface{}{},
		},
		ServerInfo: s.info,
	}
}

func (s *Server) handleToolsCall(ctx context.Context, req *Request) *Response {
	params, err := decodeToolCallParams(req.Params)
	if err != nil {
		return errorResponse(req.ID, InternalError, fmt.Sprintf("Internal error: invalid tools/call params: %v", err))
	}

	handler, ok := s.registry.Lookup(params.Name)
	if !ok || params.rawName != "" {
		return errorResponse(req.ID, InternalError, fmt.Sprintf("Unknown tool: %s", params.ToolName()))
	}

	args, err := decodeArguments(params.Arguments)
	if err != nil {
		return errorResponse(req.ID, InternalError, err.Error())
	}

	outcome := s.invoke(ctx, params.Name, handler, args)
	if !outcome.OK() {
		return errorResponse(req.ID, InternalError, outcome.Err().Error())
	}
	return resultResponse(req.ID, textResult(outcome.Text()))
}

// invoke runs handler, converting a panic into a failure outcome.
func (s *Server) invoke(ctx context.Context, name string, handler Handler, args Arguments) (outcome Outcome) {
	started := time.Now()
	ctx, span := s.tel.start(ctx, name)
	defer func() {
		if r := recover(); r != nil {
			s.logger.Printf("tool %s panicked: %v", name, r)
			outcome = Failuref("Internal error: %v", r)
		}
		s.tel.finish(ctx, span, name, started, outcome.Err())
		s.debugf("tool=%s ok=%t took=%s", name, outcome.OK(), time.Since(started))
	}()

	return handler(ctx, args)
}

func (s *Server) debugf(format string, args ...interface{}) {
	if s.debug {
		s.logger.Printf(format, args...)
	}
}

func resultResponse(id json.RawMessage, result interface{}) *Response {
	return &Response{
		JSONRPC: jsonrpcVersion,
		ID:      id,
		Result:  result,
	}
}

func errorResponse(id json.RawMessage, code int, message string) *Response {
	return &Response{
		JSONRPC: jsonrpcVersion,
		ID:      id,
		Error: &RPCError{
			Code:    code,
			Message: message,
		},
	}
}
