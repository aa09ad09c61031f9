package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"testing"
)

func newTestLSPServer(docs map[string]string) *lspServer {
	server := newLSPServer(strings.NewReader(""), io.Discard)
	for uri, text := range docs {
		server.docs[uri] = text
	}
	return server
}

func TestRunCLIStartsLSPAndExitsOnEOF(t *testing.T) {
	origStdin := os.Stdin
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close write pipe: %v", err)
	}
	os.Stdin = r
	defer func() {
		os.Stdin = origStdin
		_ = r.Close()
	}()

	if err := runCLI([]string{"brewin", "lsp"}); err != nil {
		t.Fatalf("runCLI lsp failed: %v", err)
	}
}

func TestDiagnosticsForSourceWithoutErrors(t *testing.T) {
	server := newTestLSPServer(nil)
	diags := diagnosticsForSource(server.engine, "(class main (method void main () (print 1)))\n")
	if len(diags) != 0 {
		t.Fatalf("expected no diagnostics, got %d", len(diags))
	}
}

func TestDiagnosticsForSourceWithSyntaxErrors(t *testing.T) {
	server := newTestLSPServer(nil)
	source := "(class main\n  (field int))\n(class other\n  (bogus))\n"
	diags := diagnosticsForSource(server.engine, source)
	if len(diags) != 2 {
		t.Fatalf("expected 2 diagnostics, got %d: %v", len(diags), diags)
	}
	first := diags[0]
	if first["severity"] != 1 {
		t.Fatalf("expected severity 1, got %#v", first["severity"])
	}
	start := first["range"].(map[string]any)["start"].(map[string]any)
	if start["line"] != 1 || start["character"] != 2 {
		t.Fatalf("unexpected diagnostic start %#v", start)
	}
	message, ok := first["message"].(string)
	if !ok || !strings.HasPrefix(message, "SyntaxError: ") {
		t.Fatalf("unexpected diagnostic message %#v", first["message"])
	}
}

func TestDiagnosticsForSourceIncludesWarnings(t *testing.T) {
	server := newTestLSPServer(nil)
	source := "(class main\n  (method void main ()\n    (begin (return) (print 1))))\n"
	diags := diagnosticsForSource(server.engine, source)
	if len(diags) != 1 {
		t.Fatalf("expected one warning, got %v", diags)
	}
	if diags[0]["severity"] != 2 || diags[0]["message"] != "unreachable statement" {
		t.Fatalf("unexpected warning %#v", diags[0])
	}
}

func TestCompletionItemsAreSortedAndCategorized(t *testing.T) {
	items := completionItems("(class shape)\n(class main inherits shape)")
	if len(items) == 0 {
		t.Fatalf("expected completion items")
	}

	labels := make([]string, 0, len(items))
	for _, item := range items {
		label, ok := item["label"].(string)
		if !ok {
			t.Fatalf("unexpected completion label: %#v", item["label"])
		}
		labels = append(labels, label)
	}
	if !slices.IsSorted(labels) {
		t.Fatalf("expected sorted completion labels, got %v", labels)
	}

	keyword := findCompletionItem(t, items, "while")
	if keyword["detail"] != "keyword" || keyword["kind"] != 14 {
		t.Fatalf("unexpected keyword item %#v", keyword)
	}
	typ := findCompletionItem(t, items, "int")
	if typ["detail"] != "type" {
		t.Fatalf("unexpected type item %#v", typ)
	}
	class := findCompletionItem(t, items, "shape")
	if class["detail"] != "class" || class["kind"] != 7 {
		t.Fatalf("unexpected class item %#v", class)
	}
}

func TestHandleMessageDidOpenPublishesDiagnostics(t *testing.T) {
	server := newTestLSPServer(nil)
	params := map[string]any{
		"textDocument": map[string]any{
			"uri":  "file:///tmp/test.brewin",
			"text": "(class main\n",
		},
	}
	payload, err := json.Marshal(params)
	if err != nil {
		t.Fatalf("marshal params: %v", err)
	}

	messages := server.handleMessage(lspInboundMessage{
		JSONRPC: "2.0",
		Method:  "textDocument/didOpen",
		Params:  payload,
	})
	if len(messages) != 1 {
		t.Fatalf("expected one publishDiagnostics notification, got %d", len(messages))
	}
	if messages[0].Method != "textDocument/publishDiagnostics" {
		t.Fatalf("unexpected method: %q", messages[0].Method)
	}
	paramsMap, ok := messages[0].Params.(map[string]any)
	if !ok {
		t.Fatalf("unexpected params payload: %#v", messages[0].Params)
	}
	diags, ok := paramsMap["diagnostics"].([]map[string]any)
	if !ok {
		t.Fatalf("unexpected diagnostics payload: %#v", paramsMap["diagnostics"])
	}
	if len(diags) == 0 {
		t.Fatalf("expected diagnostics for invalid source")
	}
	if server.docs["file:///tmp/test.brewin"] != "(class main\n" {
		t.Fatalf("document not stored")
	}
}

func TestHandleMessageHoverClassifiesWords(t *testing.T) {
	uri := "file:///tmp/test.brewin"
	server := newTestLSPServer(map[string]string{
		uri: "(class shape)\n(class main\n  (field shape s null))\n",
	})
	tests := []struct {
		line, character int
		want            string
	}{
		{0, 2, "keyword"},
		{2, 10, "class"},
		{2, 4, "keyword"},
		{2, 15, "symbol"},
	}
	for _, tc := range tests {
		params := map[string]any{
			"textDocument": map[string]any{"uri": uri},
			"position":     map[string]any{"line": tc.line, "character": tc.character},
		}
		payload, err := json.Marshal(params)
		if err != nil {
			t.Fatalf("marshal params: %v", err)
		}
		messages := server.handleMessage(lspInboundMessage{
			JSONRPC: "2.0",
			ID:      rawID("1"),
			Method:  "textDocument/hover",
			Params:  payload,
		})
		if len(messages) != 1 {
			t.Fatalf("expected one response, got %d", len(messages))
		}
		result, ok := messages[0].Result.(map[string]any)
		if !ok {
			t.Fatalf("unexpected hover result: %#v", messages[0].Result)
		}
		value := result["contents"].(map[string]any)["value"].(string)
		if !strings.HasSuffix(value, "Brewin "+tc.want) {
			t.Fatalf("position %d:%d: expected %s classification, got %q", tc.line, tc.character, tc.want, value)
		}
	}
}

func TestServeRoundTrip(t *testing.T) {
	var in bytes.Buffer
	writeFrame := func(body string) {
		fmt.Fprintf(&in, "Content-Length: %d\r\n\r\n%s", len(body), body)
	}
	writeFrame(`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}`)
	writeFrame(`{"jsonrpc":"2.0","id":2,"method":"unknown/method"}`)
	writeFrame(`{"jsonrpc":"2.0","method":"exit"}`)

	var out bytes.Buffer
	if err := newLSPServer(&in, &out).serve(); err != nil {
		t.Fatalf("serve: %v", err)
	}
	got := out.String()
	if !strings.Contains(got, `"hoverProvider":true`) || !strings.Contains(got, `"method not found"`) {
		t.Fatalf("unexpected responses:\n%s", got)
	}
}

func TestWordAtPosition(t *testing.T) {
	source := "(class main\n  (field int count 0))\n"
	word := wordAtPosition(source, 1, 14)
	if word != "count" {
		t.Fatalf("expected count, got %q", word)
	}
}

func TestWordAtPositionUsesUTF16CharacterOffsets(t *testing.T) {
	source := "😀😀x y\n"
	word := wordAtPosition(source, 0, 4)
	if word != "x" {
		t.Fatalf("expected x, got %q", word)
	}
}

func rawID(value string) *json.RawMessage {
	raw := json.RawMessage(value)
	return &raw
}

func findCompletionItem(t *testing.T, items []map[string]any, label string) map[string]any {
	t.Helper()
	for _, item := range items {
		itemLabel, ok := item["label"].(string)
		if ok && itemLabel == label {
			return item
		}
	}
	t.Fatalf("missing completion item %q", label)
	return nil
}

func TestHandleMessageCompletionRejectsMalformedParams(t *testing.T) {
	server := newTestLSPServer(nil)
	messages := server.handleMessage(lspInboundMessage{
		JSONRPC: "2.0",
		ID:      rawID("7"),
		Method:  "textDocument/completion",
		Params:  json.RawMessage(`{"textDocument": 5}`),
	})
	if len(messages) != 1 || messages[0].Error == nil {
		t.Fatalf("expected one error response, got %#v", messages)
	}
	if messages[0].Error.Code != -32602 {
		t.Fatalf("unexpected error code %d", messages[0].Error.Code)
	}
}

func TestHandleMessageCompletionListsDocumentClasses(t *testing.T) {
	uri := "file:///tmp/shapes.brewin"
	server := newTestLSPServer(map[string]string{uri: "(class shape)"})
	payload, err := json.Marshal(map[string]any{
		"textDocument": map[string]any{"uri": uri},
		"position":     map[string]any{"line": 0, "character": 1},
	})
	if err != nil {
		t.Fatalf("marshal params: %v", err)
	}
	messages := server.handleMessage(lspInboundMessage{
		JSONRPC: "2.0",
		ID:      rawID("8"),
		Method:  "textDocument/completion",
		Params:  payload,
	})
	if len(messages) != 1 || messages[0].Error != nil {
		t.Fatalf("expected one result, got %#v", messages)
	}
	result := messages[0].Result.(map[string]any)
	items := result["items"].([]map[string]any)
	if item := findCompletionItem(t, items, "shape"); item["detail"] != "class" {
		t.Fatalf("unexpected class item %#v", item)
	}
}
