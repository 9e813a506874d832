package sse

import (
	"testing"
	"time"

	"github.com/mcoot/apollo/internal/testutil"
)

func TestFormatSSEMessage(t *testing.T) {
	tests := []struct {
		name      string
		eventName string
		data      string
		expected  string
	}{
		{
			name:      "single line data",
			eventName: "test-event",
			data:      "hello world",
			expected:  "event: test-event\ndata: hello world\n\n",
		},
		{
			name:      "multi-line data",
			eventName: "member-update",
			data:      "<div>\n  <p>line1</p>\n  <p>line2</p>\n</div>",
			expected:  "event: member-update\ndata: <div>\ndata:   <p>line1</p>\ndata:   <p>line2</p>\ndata: </div>\n\n",
		},
		{
			name:      "empty data",
			eventName: "ping",
			data:      "",
			expected:  "event: ping\ndata: \n\n",
		},
		{
			name:      "data with carriage returns",
			eventName: "test",
			data:      "line1\r\nline2",
			expected:  "event: test\ndata: line1\ndata: line2\n\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := formatSSEMessage(tt.eventName, tt.data)
			if string(result) != tt.expected {
				t.Errorf("formatSSEMessage(%q, %q)\ngot:  %q\nwant: %q",
					tt.eventName, tt.data, string(result), tt.expected)
			}
		})
	}
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "single line",
			input:    "hello",
			expected: []string{"hello"},
		},
		{
			name:     "two lines",
			input:    "line1\nline2",
			expected: []string{"line1", "line2"},
		},
		{
			name:     "trailing newline",
			input:    "line1\n",
			expected: []string{"line1"},
		},
		{
			name:     "empty string",
			input:    "",
			expected: []string{""},
		},
		{
			name:     "crlf line endings",
			input:    "line1\r\nline2\r\n",
			expected: []string{"line1", "line2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := splitLines(tt.input)
			if len(result) != len(tt.expected) {
				t.Errorf("splitLines(%q) returned %d lines, want %d",
					tt.input, len(result), len(tt.expected))
				return
			}
			for i, line := range result {
				if line != tt.expected[i] {
					t.Errorf("splitLines(%q)[%d] = %q, want %q",
						tt.input, i, line, tt.expected[i])
				}
			}
		})
	}
}

func TestHub_RegisterAndBroadcast(t *testing.T) {
	hub := NewHub(testutil.NopLogger())
	go hub.Run()
	defer hub.Close()

	client := NewClient()
	hub.Register(client)

	// Give the hub time to process registration
	time.Sleep(10 * time.Millisecond)

	if hub.ClientCount() != 1 {
		t.Errorf("ClientCount() = %d, want 1", hub.ClientCount())
	}

	hub.BroadcastEvent("test-event", "test data")

	select {
	case msg := <-client.send:
		expected := "event: test-event\ndata: test data\n\n"
		if string(msg) != expected {
			t.Errorf("client received %q, want %q", string(msg), expected)
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("client did not receive message")
	}
}

func TestHub_Unregister(t *testing.T) {
	hub := NewHub(testutil.NopLogger())
	go hub.Run()
	defer hub.Close()

	client := NewClient()
	hub.Register(client)
	hub.Unregister(client)
	time.Sleep(10 * time.Millisecond)

	if hub.ClientCount() != 0 {
		t.Errorf("ClientCount() = %d after unregister, want 0", hub.ClientCount())
	}
	if _, ok := <-client.send; ok {
		t.Error("send channel should be closed after unregister")
	}
}

func TestHub_BroadcastToMultipleClients(t *testing.T) {
	hub := NewHub(testutil.NopLogger())
	go hub.Run()
	defer hub.Close()

	clients := []*Client{NewClient(), NewClient(), NewClient()}
	for _, c := range clients {
		hub.Register(c)
	}
	time.Sleep(10 * time.Millisecond)

	if hub.ClientCount() != 3 {
		t.Errorf("ClientCount() = %d, want 3", hub.ClientCount())
	}

	hub.BroadcastEvent("update", "data")

	for i, client := range clients {
		select {
		case msg := <-client.send:
			expected := "event: update\ndata: data\n\n"
			if string(msg) != expected {
				t.Errorf("client %d received %q, want %q", i+1, string(msg), expected)
			}
		case <-time.After(100 * time.Millisecond):
			t.Errorf("client %d did not receive message", i+1)
		}
	}
}

func TestHub_CloseDisconnectsClients(t *testing.T) {
	hub := NewHub(testutil.NopLogger())
	go hub.Run()

	client := NewClient()
	hub.Register(client)
	hub.Close()

	select {
	case _, ok := <-client.send:
		if ok {
			t.Error("expected closed channel")
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("client was not disconnected")
	}

	if hub.Register(NewClient()) {
		t.Error("Register should fail after Close")
	}
	// Close is idempotent
	hub.Close()
}

func TestHub_SlowClientDoesNotBlockOthers(t *testing.T) {
	hub := NewHub(testutil.NopLogger())
	go hub.Run()
	defer hub.Close()

	slow := NewClient()
	fast := NewClient()
	hub.Register(slow)
	hub.Register(fast)

	for i := 0; i < sendBufferSize+5; i++ {
		hub.BroadcastEvent("tick", "x")
		select {
		case <-fast.send:
		case <-time.After(100 * time.Millisecond):
			t.Fatalf("fast client starved at message %d", i)
		}
	}

	if len(slow.send) != sendBufferSize {
		t.Errorf("slow client buffer = %d, want %d", len(slow.send), sendBufferSize)
	}
}
