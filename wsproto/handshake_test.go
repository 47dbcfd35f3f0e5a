package wsproto

import (
	"bytes"
	"testing"
)

func TestAcceptKey_RFC6455Vector(t *testing.T) {
	got := AcceptKey("dGhlIHNhbXBsZSBub25jZQ==")
	want := "s3pPLMBiTxaQ9kYGzzhZRbK+xOo="
	if got != want {
		t.Errorf("AcceptKey(%q) = %q, want %q", "dGhlIHNhbXBsZSBub25jZQ==", got, want)
	}
}

func TestAcceptKey_EmptyKeyDegradesGracefully(t *testing.T) {
	if got := AcceptKey(""); got == "" {
		t.Error("expected a non-empty accept key even for an empty input key")
	}
}

func TestWriteHandshakeResponse(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteHandshakeResponse(&buf, "dGhlIHNhbXBsZSBub25jZQ=="); err != nil {
		t.Fatalf("WriteHandshakeResponse failed: %v", err)
	}

	want := "HTTP/1.1 101 Switching Protocols\r\n" +
		"Upgrade: websocket\r\n" +
		"Connection: Upgrade\r\n" +
		"Sec-Websocket-Accept: s3pPLMBiTxaQ9kYGzzhZRbK+xOo=\r\n" +
		"\r\n"
	if buf.String() != want {
		t.Errorf("response = %q, want %q", buf.String(), want)
	}
}

func TestParseRequest_GETWithHeaders(t *testing.T) {
	raw := "GET /chat HTTP/1.1\n" +
		"Host: example.com\n" +
		"Upgrade: websocket\n" +
		"Connection: Upgrade\n" +
		"Sec-WebSocket-Key: dGhlIHNhbXBsZSBub25jZQ==\n" +
		"Sec-WebSocket-Version: 13\n" +
		"\n"

	req, err := ParseRequest([]byte(raw))
	if err != nil {
		t.Fatalf("ParseRequest failed: %v", err)
	}
	if req.Method != MethodGET {
		t.Errorf("expected MethodGET, got %v", req.Method)
	}
	if req.URI != "/chat" {
		t.Errorf("expected URI %q, got %q", "/chat", req.URI)
	}
	if key, ok := req.Header("Sec-WebSocket-Key"); !ok || key != "dGhlIHNhbXBsZSBub25jZQ==" {
		t.Errorf("expected Sec-WebSocket-Key header, got %q (found=%v)", key, ok)
	}
	if req.Body != nil {
		t.Errorf("expected nil body for GET, got %v", *req.Body)
	}
}

func TestParseRequest_POSTRetainsBody(t *testing.T) {
	raw := "POST / HTTP/1.1\n" +
		"Content-Type: application/json\n" +
		"Content-Length: 15\n" +
		"\n" +
		"{\"id\": 5}"

	req, err := ParseRequest([]byte(raw))
	if err != nil {
		t.Fatalf("ParseRequest failed: %v", err)
	}
	if req.Method != MethodPOST {
		t.Errorf("expected MethodPOST, got %v", req.Method)
	}
	if req.Body == nil {
		t.Fatal("expected POST body to be retained")
	}
	if *req.Body != "{\"id\": 5}" {
		t.Errorf("expected body %q, got %q", "{\"id\": 5}", *req.Body)
	}
}

func TestParseRequest_POSTWithoutSeparatorHasNilBody(t *testing.T) {
	raw := "POST / HTTP/1.1\n" +
		"Content-Type: application/json\n" +
		"Content-Length: 15"

	req, err := ParseRequest([]byte(raw))
	if err != nil {
		t.Fatalf("ParseRequest failed: %v", err)
	}
	if req.Body != nil {
		t.Errorf("expected nil body when no blank-line separator is present, got %v", *req.Body)
	}
}

func TestParseRequest_GETNeverRetainsBodyEvenWhenPresent(t *testing.T) {
	raw := "GET / HTTP/1.1\n" +
		"Host: example.com\n" +
		"\n" +
		"ignored"

	req, err := ParseRequest([]byte(raw))
	if err != nil {
		t.Fatalf("ParseRequest failed: %v", err)
	}
	if req.Body != nil {
		t.Errorf("expected nil body for GET even with a body section present, got %v", *req.Body)
	}
}

func TestParseRequest_DELETEIsNeverProduced(t *testing.T) {
	raw := "DELETE /resource HTTP/1.1\n\n"

	req, err := ParseRequest([]byte(raw))
	if err != nil {
		t.Fatalf("ParseRequest failed: %v", err)
	}
	if req.Method != MethodUnknown {
		t.Errorf("expected MethodUnknown for a DELETE request line, got %v", req.Method)
	}
}

func TestParseRequest_EmptyRequestErrors(t *testing.T) {
	if _, err := ParseRequest([]byte("")); err == nil {
		t.Error("expected an error for an empty request")
	}
}
