// Package lsp evaluates calculator expressions in editor documents over the
// Language Server Protocol.
package lsp

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"unicode/utf16"

	"github.com/tidwall/gjson"
	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/zephyrtronium/calc"
)

// EvaluateCommand is the command that evaluates selections. Its arguments are
// the document URI and a list of ranges.
const EvaluateCommand = "calc.evaluate"

// DefaultMaxLineLength is the longest line evaluated for an empty selection.
const DefaultMaxLineLength = 120

var log = commonlog.GetLogger("calc.lsp")

// Handler serves calculator requests for a set of open documents.
type Handler struct {
	mu       sync.Mutex
	defaults calc.Settings
	maxLine  int
	docs     map[protocol.DocumentUri]*document
}

// document is an open text document and its calculator state.
type document struct {
	text  string
	state *calc.DocumentState
}

// NewHandler creates a handler with default settings.
func NewHandler() *Handler {
	return &Handler{
		defaults: calc.DefaultSettings(),
		maxLine:  DefaultMaxLineLength,
		docs:     make(map[protocol.DocumentUri]*document),
	}
}

// Protocol returns the LSP method table for h.
func (h *Handler) Protocol() *protocol.Handler {
	return &protocol.Handler{
		Initialize:              h.Initialize,
		Initialized:             h.Initialized,
		Shutdown:                h.Shutdown,
		SetTrace:                h.SetTrace,
		TextDocumentDidOpen:     h.TextDocumentDidOpen,
		TextDocumentDidChange:   h.TextDocumentDidChange,
		TextDocumentDidClose:    h.TextDocumentDidClose,
		WorkspaceExecuteCommand: h.WorkspaceExecuteCommand,
	}
}

// Configure applies initialization options given as JSON. Unknown keys are
// ignored and absent keys keep their current values.
func (h *Handler) Configure(opts []byte) error {
	if len(opts) == 0 || !gjson.ValidBytes(opts) {
		return fmt.Errorf("invalid initialization options %q", opts)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	s := h.defaults
	r := gjson.ParseBytes(opts)
	if v := r.Get("base"); v.Exists() {
		s.Base = int(v.Int())
	}
	if v := r.Get("precision"); v.Exists() {
		s.Precision = int(v.Int())
	}
	if v := r.Get("commaSeparated"); v.Exists() {
		s.CommaSeparated = v.Bool()
	}
	if v := r.Get("timestamp"); v.Exists() {
		s.Timestamp = v.Bool()
	}
	if v := r.Get("arithmetic"); v.Exists() {
		k, ok := calc.ParseKind(v.String())
		if !ok {
			return fmt.Errorf("unknown arithmetic %q", v.String())
		}
		s.Arith = k
	}
	if err := s.Validate(); err != nil {
		return err
	}
	if v := r.Get("maxLineLength"); v.Exists() {
		if v.Int() <= 0 {
			return fmt.Errorf("maxLineLength must be positive, not %d", v.Int())
		}
		h.maxLine = int(v.Int())
	}
	h.defaults = s
	return nil
}

func (h *Handler) Initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	if params.InitializationOptions != nil {
		b, err := json.Marshal(params.InitializationOptions)
		if err != nil {
			return nil, err
		}
		if err := h.Configure(b); err != nil {
			log.Errorf("initialization options: %v", err)
			return nil, err
		}
	}
	log.Infof("initialized with %v", h.defaults)
	change := protocol.TextDocumentSyncKindFull
	version := "0.1.0"
	return protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: protocol.TextDocumentSyncOptions{
				OpenClose: ptrBool(true),
				Change:    &change,
			},
			ExecuteCommandProvider: &protocol.ExecuteCommandOptions{
				Commands: []string{EvaluateCommand},
			},
		},
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    "calc",
			Version: &version,
		},
	}, nil
}

func (h *Handler) Initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	return nil
}

func (h *Handler) Shutdown(ctx *glsp.Context) error {
	protocol.SetTraceValue(protocol.TraceValueOff)
	return nil
}

func (h *Handler) SetTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (h *Handler) TextDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.docs[params.TextDocument.URI] = &document{
		text:  params.TextDocument.Text,
		state: calc.NewDocumentState(h.defaults),
	}
	log.Debugf("opened %s", params.TextDocument.URI)
	return nil
}

func (h *Handler) TextDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	doc := h.docs[params.TextDocument.URI]
	if doc == nil {
		return fmt.Errorf("change to unopened document %s", params.TextDocument.URI)
	}
	for _, c := range params.ContentChanges {
		switch c := c.(type) {
		case protocol.TextDocumentContentChangeEventWhole:
			doc.text = c.Text
		case *protocol.TextDocumentContentChangeEventWhole:
			doc.text = c.Text
		case protocol.TextDocumentContentChangeEvent:
			doc.text = splice(doc.text, c.Range, c.Text)
		case *protocol.TextDocumentContentChangeEvent:
			doc.text = splice(doc.text, c.Range, c.Text)
		}
	}
	return nil
}

func (h *Handler) TextDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.docs, params.TextDocument.URI)
	log.Debugf("closed %s", params.TextDocument.URI)
	return nil
}

// WorkspaceExecuteCommand runs the evaluate command, applying its edits and
// showing its messages through the client.
func (h *Handler) WorkspaceExecuteCommand(ctx *glsp.Context, params *protocol.ExecuteCommandParams) (any, error) {
	if params.Command != EvaluateCommand {
		return nil, fmt.Errorf("unknown command %q", params.Command)
	}
	b, err := json.Marshal(params.Arguments)
	if err != nil {
		return nil, err
	}
	uri, ranges, err := commandArgs(b)
	if err != nil {
		return nil, err
	}
	edits, msgs, err := h.Evaluate(uri, ranges)
	if err != nil {
		return nil, err
	}
	for _, m := range msgs {
		ctx.Notify(protocol.ServerWindowShowMessage, m)
	}
	if len(edits) == 0 {
		return nil, nil
	}
	label := "calculate"
	var result protocol.ApplyWorkspaceEditResponse
	ctx.Call(protocol.ServerWorkspaceApplyEdit, protocol.ApplyWorkspaceEditParams{
		Label: &label,
		Edit: protocol.WorkspaceEdit{
			Changes: map[protocol.DocumentUri][]protocol.TextEdit{uri: edits},
		},
	}, &result)
	if !result.Applied {
		log.Warningf("client did not apply edits to %s", uri)
	}
	return nil, nil
}

// commandArgs decodes the arguments of the evaluate command.
func commandArgs(b []byte) (protocol.DocumentUri, []protocol.Range, error) {
	args := gjson.ParseBytes(b)
	uri := args.Get("0")
	if uri.Type != gjson.String {
		return "", nil, fmt.Errorf("%s: first argument must be a document URI", EvaluateCommand)
	}
	var ranges []protocol.Range
	var err error
	args.Get("1").ForEach(func(_, r gjson.Result) bool {
		pos := func(path string) (protocol.Position, bool) {
			l, c := r.Get(path+".line"), r.Get(path+".character")
			if l.Type != gjson.Number || c.Type != gjson.Number || l.Int() < 0 || c.Int() < 0 {
				return protocol.Position{}, false
			}
			return protocol.Position{Line: protocol.UInteger(l.Int()), Character: protocol.UInteger(c.Int())}, true
		}
		start, ok1 := pos("start")
		end, ok2 := pos("end")
		if !ok1 || !ok2 {
			err = fmt.Errorf("%s: invalid range %s", EvaluateCommand, r.Raw)
			return false
		}
		ranges = append(ranges, protocol.Range{Start: start, End: end})
		return true
	})
	return protocol.DocumentUri(uri.String()), ranges, err
}

// Evaluate evaluates the text of each range in a document, in order. A
// non-empty range is replaced with its result. An empty range evaluates its
// whole line, and the result is inserted at the cursor after an = sign unless
// the line already ends with one. Errors and settings changes become
// messages for the user.
func (h *Handler) Evaluate(uri protocol.DocumentUri, ranges []protocol.Range) ([]protocol.TextEdit, []protocol.ShowMessageParams, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	doc := h.docs[uri]
	if doc == nil {
		return nil, nil, fmt.Errorf("document %s is not open", uri)
	}
	var (
		edits []protocol.TextEdit
		msgs  []protocol.ShowMessageParams
	)
	for _, r := range ranges {
		expr, at, eq := doc.selection(r, h.maxLine)
		if expr == "" {
			continue
		}
		o, err := doc.state.Evaluate(expr)
		if err != nil {
			log.Debugf("evaluating %q: %v", expr, err)
			msgs = append(msgs, protocol.ShowMessageParams{
				Type:    protocol.MessageTypeError,
				Message: "Error parsing expression: " + err.Error(),
			})
			continue
		}
		if o.Persisted() {
			msgs = append(msgs, protocol.ShowMessageParams{
				Type:    protocol.MessageTypeInfo,
				Message: "Settings updated: " + o.Globals.String(),
			})
		}
		if o.Text == "" {
			continue
		}
		text := o.Text
		if at.Start == at.End && !eq {
			text = "=" + text
		}
		edits = append(edits, protocol.TextEdit{Range: at, NewText: text})
	}
	return edits, msgs, nil
}

// selection returns the expression for a range, the range to replace with the
// result, and whether the expression came from a line that ended with =.
func (d *document) selection(r protocol.Range, maxLine int) (string, protocol.Range, bool) {
	if r.Start != r.End {
		i, j := offset(d.text, r.Start), offset(d.text, r.End)
		if i > j {
			i, j = j, i
		}
		return d.text[i:j], r, false
	}
	line := lineAt(d.text, r.Start.Line)
	if len(line) == 0 || len(line) > maxLine {
		return "", r, false
	}
	line = strings.TrimSpace(line)
	if s, ok := strings.CutSuffix(line, "="); ok {
		return s, r, true
	}
	return line, r, false
}

// lineAt returns the text of a line without its terminator.
func lineAt(text string, n protocol.UInteger) string {
	for ; n > 0; n-- {
		k := strings.IndexByte(text, '\n')
		if k < 0 {
			return ""
		}
		text = text[k+1:]
	}
	if k := strings.IndexByte(text, '\n'); k >= 0 {
		text = text[:k]
	}
	return strings.TrimSuffix(text, "\r")
}

// offset converts an LSP position, counted in UTF-16 code units, to a byte
// offset in text. Positions past the end of a line clamp to its end.
func offset(text string, pos protocol.Position) int {
	off := 0
	for n := pos.Line; n > 0; n-- {
		k := strings.IndexByte(text[off:], '\n')
		if k < 0 {
			return len(text)
		}
		off += k + 1
	}
	units := int(pos.Character)
	for i, c := range text[off:] {
		if units <= 0 || c == '\n' {
			return off + i
		}
		units -= utf16.RuneLen(c)
	}
	return len(text)
}

// splice replaces a range of text.
func splice(text string, r *protocol.Range, repl string) string {
	if r == nil {
		return repl
	}
	return text[:offset(text, r.Start)] + repl + text[offset(text, r.End):]
}

func ptrBool(b bool) *bool {
	return &b
}
