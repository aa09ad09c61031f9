package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"sort"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/brewin-lang/brewin/brewin"
)

var lspTypes = []string{"bool", "int", "string", "void"}

type lspInboundMessage struct {
	JSONRPC string           `json:"jsonrpc"`
	ID      *json.RawMessage `json:"id,omitempty"`
	Method  string           `json:"method,omitempty"`
	Params  json.RawMessage  `json:"params,omitempty"`
}

type lspResponseError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type lspOutboundMessage struct {
	JSONRPC string            `json:"jsonrpc"`
	ID      *json.RawMessage  `json:"id,omitempty"`
	Method  string            `json:"method,omitempty"`
	Params  any               `json:"params,omitempty"`
	Result  any               `json:"result,omitempty"`
	Error   *lspResponseError `json:"error,omitempty"`
}

type lspDidOpenParams struct {
	TextDocument struct {
		URI  string `json:"uri"`
		Text string `json:"text"`
	} `json:"textDocument"`
}

type lspDidChangeParams struct {
	TextDocument struct {
		URI string `json:"uri"`
	} `json:"textDocument"`
	ContentChanges []struct {
		Text string `json:"text"`
	} `json:"contentChanges"`
}

type lspTextDocumentPositionParams struct {
	TextDocument struct {
		URI string `json:"uri"`
	} `json:"textDocument"`
	Position struct {
		Line      int `json:"line"`
		Character int `json:"character"`
	} `json:"position"`
}

type lspServer struct {
	reader *bufio.Reader
	writer *bufio.Writer
	engine *brewin.Engine
	docs   map[string]string
}

func newLSPServer(r io.Reader, w io.Writer) *lspServer {
	logger, _ := newLogger(io.Discard, "error")
	return &lspServer{
		reader: bufio.NewReader(r),
		writer: bufio.NewWriter(w),
		engine: brewin.NewEngine(brewin.Config{Logger: logger}),
		docs:   make(map[string]string),
	}
}

func runLSP() error {
	return newLSPServer(os.Stdin, os.Stdout).serve()
}

func (s *lspServer) serve() error {
	for {
		payload, err := s.readPayload()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}

		var incoming lspInboundMessage
		if err := json.Unmarshal(payload, &incoming); err != nil {
			continue
		}

		messages := s.handleMessage(incoming)
		for _, msg := range messages {
			if err := s.writePayload(msg); err != nil {
				return err
			}
		}

		if incoming.Method == "exit" {
			return nil
		}
	}
}

func reply(id *json.RawMessage, result any) []lspOutboundMessage {
	return []lspOutboundMessage{{JSONRPC: "2.0", ID: id, Result: result}}
}

func replyError(id *json.RawMessage, code int, message string) []lspOutboundMessage {
	return []lspOutboundMessage{{JSONRPC: "2.0", ID: id, Error: &lspResponseError{Code: code, Message: message}}}
}

func (s *lspServer) handleMessage(incoming lspInboundMessage) []lspOutboundMessage {
	switch incoming.Method {
	case "initialize":
		return reply(incoming.ID, map[string]any{
			"capabilities": map[string]any{
				"textDocumentSync": 1,
				"hoverProvider":    true,
				"completionProvider": map[string]any{
					"resolveProvider":   false,
					"triggerCharacters": []string{"("},
				},
			},
		})
	case "initialized", "exit":
		return nil
	case "textDocument/didOpen", "textDocument/didChange":
		return s.handleDocument(incoming)
	}

	// everything else is a request and needs an id to answer
	if incoming.ID == nil {
		return nil
	}
	switch incoming.Method {
	case "shutdown":
		return reply(incoming.ID, nil)
	case "textDocument/completion":
		var params lspTextDocumentPositionParams
		if err := json.Unmarshal(incoming.Params, &params); err != nil {
			return replyError(incoming.ID, -32602, "invalid completion params")
		}
		return reply(incoming.ID, map[string]any{
			"isIncomplete": false,
			"items":        completionItems(s.docs[params.TextDocument.URI]),
		})
	case "textDocument/hover":
		return s.handleHover(incoming)
	default:
		return replyError(incoming.ID, -32601, "method not found")
	}
}

// handleDocument stores the latest text of an opened or changed document and
// republishes its diagnostics.
func (s *lspServer) handleDocument(incoming lspInboundMessage) []lspOutboundMessage {
	var uri, text string
	if incoming.Method == "textDocument/didOpen" {
		var params lspDidOpenParams
		if err := json.Unmarshal(incoming.Params, &params); err != nil {
			return nil
		}
		uri, text = params.TextDocument.URI, params.TextDocument.Text
	} else {
		var params lspDidChangeParams
		if err := json.Unmarshal(incoming.Params, &params); err != nil || len(params.ContentChanges) == 0 {
			return nil
		}
		uri, text = params.TextDocument.URI, params.ContentChanges[len(params.ContentChanges)-1].Text
	}
	s.docs[uri] = text
	return []lspOutboundMessage{{
		JSONRPC: "2.0",
		Method:  "textDocument/publishDiagnostics",
		Params: map[string]any{
			"uri":         uri,
			"diagnostics": diagnosticsForSource(s.engine, text),
		},
	}}
}

func (s *lspServer) handleHover(incoming lspInboundMessage) []lspOutboundMessage {
	var params lspTextDocumentPositionParams
	if err := json.Unmarshal(incoming.Params, &params); err != nil {
		return replyError(incoming.ID, -32602, "invalid hover params")
	}
	source := s.docs[params.TextDocument.URI]
	word := wordAtPosition(source, params.Position.Line, params.Position.Character)
	if word == "" {
		return reply(incoming.ID, nil)
	}
	return reply(incoming.ID, map[string]any{
		"contents": map[string]any{
			"kind":  "markdown",
			"value": fmt.Sprintf("`%s`\n\nBrewin %s", word, classifyWord(word, declaredClasses(source))),
		},
	})
}

// diagnosticsForSource reports compile errors as error diagnostics and
// analyzer findings as warnings.
func diagnosticsForSource(engine *brewin.Engine, source string) []map[string]any {
	script, err := engine.Compile(source)
	if err != nil {
		errs := flattenErrors(err)
		out := make([]map[string]any, 0, len(errs))
		for _, e := range errs {
			var be *brewin.Error
			if !errors.As(e, &be) {
				out = append(out, newDiagnostic(0, 0, 1, e.Error()))
				continue
			}
			out = append(out, newDiagnostic(max(0, be.Pos.Line-1), max(0, be.Pos.Column-1), 1, be.Kind.String()+": "+be.Message))
		}
		return out
	}

	warnings := brewin.Analyze(script)
	out := make([]map[string]any, 0, len(warnings))
	for _, w := range warnings {
		out = append(out, newDiagnostic(max(0, w.Pos.Line-1), max(0, w.Pos.Column-1), 2, w.Message))
	}
	return out
}

func flattenErrors(err error) []error {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []error
		for _, e := range joined.Unwrap() {
			out = append(out, flattenErrors(e)...)
		}
		return out
	}
	return []error{err}
}

func newDiagnostic(line, character, severity int, message string) map[string]any {
	return map[string]any{
		"range": map[string]any{
			"start": map[string]any{
				"line":      line,
				"character": character,
			},
			"end": map[string]any{
				"line":      line,
				"character": character + 1,
			},
		},
		"severity": severity,
		"source":   "brewin-lsp",
		"message":  message,
	}
}

// declaredClasses returns the names of the classes declared in source, even
// when the rest of the document does not compile.
func declaredClasses(source string) []string {
	forms, err := brewin.ReadForms(source)
	if err != nil {
		return nil
	}
	var names []string
	for _, form := range forms {
		if form.Head() == "class" && len(form.Items) > 1 && form.Items[1].IsAtom() {
			names = append(names, form.Items[1].Atom)
		}
	}
	return names
}

func completionItems(source string) []map[string]any {
	keywords := brewin.Keywords()
	classes := declaredClasses(source)

	kinds := make(map[string]int)
	details := make(map[string]string)
	for _, keyword := range keywords {
		kinds[keyword] = 14 // Keyword
		details[keyword] = "keyword"
	}
	for _, typ := range lspTypes {
		kinds[typ] = 25 // TypeParameter
		details[typ] = "type"
	}
	for _, class := range classes {
		if _, taken := kinds[class]; taken {
			continue
		}
		kinds[class] = 7 // Class
		details[class] = "class"
	}

	labels := make([]string, 0, len(kinds))
	for label := range kinds {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	items := make([]map[string]any, 0, len(labels))
	for _, label := range labels {
		items = append(items, map[string]any{
			"label":  label,
			"kind":   kinds[label],
			"detail": details[label],
		})
	}
	return items
}

func classifyWord(word string, classes []string) string {
	switch {
	case slices.Contains(lspTypes, word):
		return "type"
	case slices.Contains(brewin.Keywords(), word):
		return "keyword"
	case slices.Contains(classes, word):
		return "class"
	}
	if _, err := strconv.ParseInt(word, 10, 64); err == nil {
		return "int literal"
	}
	return "symbol"
}

// wordAtPosition finds the atom under an LSP position; character counts
// UTF-16 code units.
func wordAtPosition(source string, line, character int) string {
	lines := strings.Split(source, "\n")
	if line < 0 || line >= len(lines) {
		return ""
	}

	runes := []rune(strings.TrimRight(lines[line], "\r"))
	if len(runes) == 0 {
		return ""
	}
	if character < 0 {
		character = 0
	}

	cursor := len(runes)
	units := 0
	for i, r := range runes {
		if units >= character {
			cursor = i
			break
		}
		units += len(utf16.Encode([]rune{r}))
	}
	if cursor == len(runes) {
		cursor--
	}
	if !isWordRune(runes[cursor]) {
		if cursor > 0 && isWordRune(runes[cursor-1]) {
			cursor--
		} else {
			return ""
		}
	}

	start := cursor
	for start > 0 && isWordRune(runes[start-1]) {
		start--
	}
	end := cursor
	for end < len(runes) && isWordRune(runes[end]) {
		end++
	}
	return string(runes[start:end])
}

func isWordRune(r rune) bool {
	switch r {
	case '(', ')', '"', '#', ' ', '\t':
		return false
	}
	return r > ' '
}

func (s *lspServer) readPayload() ([]byte, error) {
	contentLength := -1
	for {
		line, err := s.reader.ReadString('\n')
		if err != nil {
			return nil, err
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			continue
		}
		name := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		if strings.EqualFold(name, "Content-Length") {
			n, err := strconv.Atoi(value)
			if err != nil {
				return nil, fmt.Errorf("invalid Content-Length: %w", err)
			}
			contentLength = n
		}
	}

	if contentLength < 0 {
		return nil, fmt.Errorf("missing Content-Length header")
	}
	payload := make([]byte, contentLength)
	if _, err := io.ReadFull(s.reader, payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func (s *lspServer) writePayload(msg lspOutboundMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(s.writer, "Content-Length: %d\r\n\r\n", len(data)); err != nil {
		return err
	}
	if _, err := s.writer.Write(data); err != nil {
		return err
	}
	return s.writer.Flush()
}
