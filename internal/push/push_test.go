package push

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/taskview/internal/dom"
	"github.com/desertthunder/taskview/internal/patch"
	"github.com/desertthunder/taskview/internal/shared"
	"github.com/desertthunder/taskview/internal/sse"
)

const page = `<html><body><main id="tasks">
<section id="queue"><ul id="queued"></ul></section>
<section id="active"></section>
<section id="ended"><header>ended</header><footer>end</footer></section>
</main></body></html>`

type sliceStream []sse.Event

func (s sliceStream) Subscribe(ctx context.Context, fn func(sse.Event)) error {
	for _, ev := range s {
		fn(ev)
	}
	return context.Canceled
}

type treeSink struct {
	doc     *dom.Document
	applier *patch.Applier
	alerts  []string
}

func newTreeSink(t *testing.T) *treeSink {
	t.Helper()
	d, err := dom.Parse(page)
	if err != nil {
		t.Fatalf("failed to parse page: %v", err)
	}
	return &treeSink{doc: d, applier: patch.NewApplier(d, log.New(io.Discard), nil)}
}

func (s *treeSink) Apply(_ context.Context, cmd patch.Command) error { return s.applier.Apply(cmd) }

func (s *treeSink) Alert(_ context.Context, text string) error {
	s.alerts = append(s.alerts, text)
	return nil
}

func run(t *testing.T, sink *treeSink, events ...sse.Event) {
	t.Helper()
	l := NewListener(sliceStream(events), sink, log.New(io.Discard))
	if err := l.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func childIDs(d *dom.Document, id string) []string {
	var ids []string
	for _, n := range d.Children(id) {
		v, _ := dom.Attr(n, "id")
		ids = append(ids, v)
	}
	return ids
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		ev   sse.Event
		want Message
	}{
		{"new task", sse.Event{Type: "new-task", Data: `<li id="t1">A</li>`}, NewTask{Markup: `<li id="t1">A</li>`}},
		{"remove task", sse.Event{Type: "remove-task", Data: "t1"}, Remove{NodeID: "t1"}},
		{"remove node", sse.Event{Type: "remove-node", Data: " t2 "}, Remove{NodeID: "t2"}},
		{
			"replace node",
			sse.Event{Type: "replace-node", Data: `{"TargetNodeID":"t1","ReceiverNodeSelector":"#active","Position":"beforeend","NewContent":"<div id=\"t1\"></div>"}`},
			ReplaceNode{TargetNodeID: "t1", ReceiverNodeSelector: "#active", Position: dom.BeforeEnd, NewContent: `<div id="t1"></div>`},
		},
		{
			"replace node with legacy casing",
			sse.Event{Type: "replace-node", Data: `{"targetNodeID":"t1","receiverNode":"#ended","position":"afterbegin","newContent":"x"}`},
			ReplaceNode{TargetNodeID: "t1", ReceiverNodeSelector: "#ended", Position: dom.AfterBegin, NewContent: "x"},
		},
		{
			"update content",
			sse.Event{Type: "update-node-content", Data: `{"ReceiverNodeSelector":"#t1","NewContent":"50%"}`},
			UpdateContent{ReceiverNodeSelector: "#t1", NewContent: "50%"},
		},
		{
			"deprecated update name",
			sse.Event{Type: "replace-node-content", Data: `{"TargetNodeID":"t1","ReceiverNodeSelector":"t1","NewContent":null}`},
			UpdateContent{ReceiverNodeSelector: "t1"},
		},
		{"error", sse.Event{Type: "error", Data: "disk full"}, Error{Text: "disk full"}},
		{"message", sse.Event{Type: "message", Data: "hello"}, Diagnostic{Text: "hello"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.ev)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %#v, got %#v", tt.want, got)
			}
		})
	}

	t.Run("rejects", func(t *testing.T) {
		cases := []struct {
			ev   sse.Event
			want error
		}{
			{sse.Event{Type: "new-node", Data: "x"}, shared.ErrUnknownEvent},
			{sse.Event{Type: "replace-node", Data: "{not json"}, shared.ErrMalformedPayload},
			{sse.Event{Type: "replace-node", Data: `{"ReceiverNodeSelector":"#a","Position":"inside"}`}, shared.ErrMalformedPayload},
			{sse.Event{Type: "replace-node", Data: `{"TargetNodeID":"t1"}`}, shared.ErrMalformedPayload},
			{sse.Event{Type: "update-node-content", Data: `{"ReceiverNodeSelector":"#a","NewContent":{"a":1}}`}, shared.ErrMalformedPayload},
			{sse.Event{Type: "remove-task", Data: ""}, shared.ErrMalformedPayload},
		}
		for _, c := range cases {
			if _, err := Decode(c.ev); !errors.Is(err, c.want) {
				t.Errorf("%s %q: expected %v, got %v", c.ev.Type, c.ev.Data, c.want, err)
			}
		}
	})
}

func TestListener(t *testing.T) {
	t.Run("new task into an empty bucket", func(t *testing.T) {
		sink := newTreeSink(t)
		run(t, sink, sse.Event{Type: "new-task", Data: `<li id="t1">A</li>`})

		ids := childIDs(sink.doc, "queued")
		if len(ids) != 1 || ids[0] != "t1" {
			t.Errorf("expected exactly t1 in queued, got %v", ids)
		}
	})

	t.Run("removing a missing task leaves the tree unchanged", func(t *testing.T) {
		sink := newTreeSink(t)
		before := sink.doc.HTML()
		run(t, sink, sse.Event{Type: "remove-task", Data: "t1"})
		if sink.doc.HTML() != before {
			t.Errorf("expected tree to be unchanged")
		}
	})

	t.Run("malformed payloads are dropped and the stream continues", func(t *testing.T) {
		sink := newTreeSink(t)
		run(t, sink,
			sse.Event{Type: "replace-node", Data: "{broken"},
			sse.Event{Type: "bogus", Data: "x"},
			sse.Event{Type: "new-task", Data: `<li id="t2">B</li>`},
		)
		if ids := childIDs(sink.doc, "queued"); len(ids) != 1 || ids[0] != "t2" {
			t.Errorf("expected t2 after malformed events, got %v", ids)
		}
	})

	t.Run("applies in receipt order", func(t *testing.T) {
		sink := newTreeSink(t)
		run(t, sink,
			sse.Event{Type: "new-task", Data: `<li id="t1">A</li>`},
			sse.Event{Type: "new-task", Data: `<li id="t2">B</li>`},
			sse.Event{Type: "replace-node", Data: `{"TargetNodeID":"t1","ReceiverNodeSelector":"#active","Position":"beforeend","NewContent":"<div id=\"t1\">running</div>"}`},
			sse.Event{Type: "remove-task", Data: "t2"},
			sse.Event{Type: "replace-node", Data: `{"TargetNodeID":"t1","ReceiverNodeSelector":"#ended > footer","Position":"beforebegin","NewContent":"<div id=\"t1\">done</div>"}`},
		)

		if ids := childIDs(sink.doc, "queued"); len(ids) != 0 {
			t.Errorf("expected empty queue, got %v", ids)
		}
		if ids := childIDs(sink.doc, "active"); len(ids) != 0 {
			t.Errorf("expected no active rows, got %v", ids)
		}
		ended := childIDs(sink.doc, "ended")
		if len(ended) != 3 || ended[1] != "t1" {
			t.Errorf("expected t1 between the sentinels, got %v", ended)
		}
	})

	t.Run("replace node on a missing target appends", func(t *testing.T) {
		sink := newTreeSink(t)
		run(t, sink, sse.Event{Type: "replace-node", Data: `{"TargetNodeID":"t1","ReceiverNodeSelector":"#queued","Position":"beforeend","NewContent":"<li id=\"t1\">B</li>"}`})

		text, ok := sink.doc.Text("t1")
		if !ok || text != "B" {
			t.Errorf("expected t1 with content B, got %q (present=%v)", text, ok)
		}
	})

	t.Run("errors alert only with a payload", func(t *testing.T) {
		sink := newTreeSink(t)
		run(t, sink,
			sse.Event{Type: "error"},
			sse.Event{Type: "error", Data: "download failed"},
			sse.Event{Type: "message", Data: "ping"},
		)
		if len(sink.alerts) != 1 || sink.alerts[0] != "download failed" {
			t.Errorf("expected one alert, got %v", sink.alerts)
		}
	})

	t.Run("handle reports patch failures", func(t *testing.T) {
		sink := newTreeSink(t)
		l := NewListener(nil, sink, log.New(io.Discard))
		err := l.Handle(context.Background(), sse.Event{Type: "update-node-content", Data: `{"ReceiverNodeSelector":"#gone","NewContent":"x"}`})
		if !errors.Is(err, shared.ErrReceiverNotFound) {
			t.Errorf("expected ErrReceiverNotFound, got %v", err)
		}
	})
}
