package streamrpc

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/opsknowledge/retrieval-core/pipeline"
)

// maxLineBytes bounds one Stream-RPC line and is this transport's only
// size limit (the pipeline's body-size check runs for HTTP requests only),
// while still bounding a runaway scanner buffer.
const maxLineBytes = 10 * 1024 * 1024

// Server runs the Stream-RPC loop around a Pipeline.
type Server struct {
	Pipeline *pipeline.Pipeline
}

// NewServer creates a Server dispatching tool calls through p.
func NewServer(p *pipeline.Pipeline) *Server {
	return &Server{Pipeline: p}
}

// Run reads newline-delimited requests from r and writes one
// newline-delimited response per request to w, until r is exhausted or ctx
// is canceled. Blank lines are skipped. A write failure aborts the loop;
// a malformed request line produces a JSON-RPC parse-error response and
// the loop continues.
func (s *Server) Run(ctx context.Context, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	out := bufio.NewWriter(w)
	defer out.Flush()

	for scanner.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		resp := s.handleLine(ctx, line)
		if err := writeResponse(out, resp); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func (s *Server) handleLine(ctx context.Context, line []byte) Response {
	var req Request
	if err := json.Unmarshal(line, &req); err != nil {
		return Response{JSONRPC: "2.0", Error: &Error{Code: codeParseError, Message: "parse error: " + err.Error()}}
	}

	switch req.Method {
	case "tools/list":
		return s.handleToolsList(req)
	case "tools/call":
		return s.handleToolsCall(ctx, req)
	default:
		return Response{JSONRPC: "2.0", ID: req.ID, Error: &Error{
			Code: codeMethodNotFound, Message: "unknown method: " + req.Method,
		}}
	}
}

func (s *Server) handleToolsList(req Request) Response {
	result, err := json.Marshal(map[string]any{"tools": catalog()})
	if err != nil {
		return Response{JSONRPC: "2.0", ID: req.ID, Error: &Error{Code: codeParseError, Message: err.Error()}}
	}
	return Response{JSONRPC: "2.0", ID: req.ID, Result: result}
}

func (s *Server) handleToolsCall(ctx context.Context, req Request) Response {
	var params toolsCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return Response{JSONRPC: "2.0", ID: req.ID, Error: &Error{
			Code: codeInvalidParams, Message: "invalid params: " + err.Error(),
		}}
	}

	var args map[string]any
	if len(params.Arguments) > 0 {
		if err := json.Unmarshal(params.Arguments, &args); err != nil {
			return Response{JSONRPC: "2.0", ID: req.ID, Error: &Error{
				Code: codeInvalidParams, Message: "invalid arguments: " + err.Error(),
			}}
		}
	}
	if args == nil {
		args = map[string]any{}
	}

	pr := s.Pipeline.Run(ctx, pipeline.Request{Tool: params.Name, Arguments: args})

	body, err := json.Marshal(pr.Envelope)
	if err != nil {
		return Response{JSONRPC: "2.0", ID: req.ID, Error: &Error{Code: codeParseError, Message: err.Error()}}
	}

	result, err := json.Marshal(toolsCallResult{Content: []content{{Type: "text", Text: string(body)}}})
	if err != nil {
		return Response{JSONRPC: "2.0", ID: req.ID, Error: &Error{Code: codeParseError, Message: err.Error()}}
	}
	return Response{JSONRPC: "2.0", ID: req.ID, Result: result}
}

func writeResponse(w *bufio.Writer, resp Response) error {
	payload, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("streamrpc: marshal response: %w", err)
	}
	if _, err := w.Write(payload); err != nil {
		return err
	}
	if err := w.WriteByte('\n'); err != nil {
		return err
	}
	return w.Flush()
}
