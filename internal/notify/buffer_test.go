package notify

import (
	"context"
	"testing"

	"github.com/finnvos/skysniper/internal/model"
)

func TestGrowableBufferSendReceive(t *testing.T) {
	buf := NewGrowableBuffer[int](8)
	defer buf.Close()

	for i := 0; i < 3; i++ {
		if !buf.Send(i) {
			t.Fatalf("Send(%d) returned false", i)
		}
	}
	if got := buf.Len(); got != 3 {
		t.Fatalf("Len() = %d, want 3", got)
	}

	for i := 0; i < 3; i++ {
		v, ok := buf.Receive()
		if !ok {
			t.Fatal("Receive returned false with items buffered")
		}
		if v != i {
			t.Errorf("Receive = %d, want %d", v, i)
		}
	}
}

func TestGrowableBufferGrows(t *testing.T) {
	buf := NewGrowableBuffer[int](4)
	defer buf.Close()

	// Past the 70% threshold the buffer doubles rather than blocking.
	for i := 0; i < 10; i++ {
		if !buf.Send(i) {
			t.Fatalf("Send(%d) returned false", i)
		}
	}
	if buf.Cap() <= 4 {
		t.Errorf("Cap() = %d, want growth beyond 4", buf.Cap())
	}
	if buf.Len() != 10 {
		t.Errorf("Len() = %d, want 10", buf.Len())
	}

	// Order survives the resize.
	for i := 0; i < 10; i++ {
		v, ok := buf.Receive()
		if !ok || v != i {
			t.Fatalf("Receive = (%d, %v), want (%d, true)", v, ok, i)
		}
	}
}

func TestGrowableBufferTryReceiveEmpty(t *testing.T) {
	buf := NewGrowableBuffer[string](8)
	defer buf.Close()

	if _, ok := buf.TryReceive(); ok {
		t.Error("TryReceive on empty buffer returned ok")
	}
	if !buf.Send("x") {
		t.Fatal("Send returned false")
	}
	v, ok := buf.TryReceive()
	if !ok || v != "x" {
		t.Errorf("TryReceive = (%q, %v), want (x, true)", v, ok)
	}
}

func TestGrowableBufferClosedDrains(t *testing.T) {
	buf := NewGrowableBuffer[int](8)
	buf.Send(1)
	buf.Close()

	if buf.Send(2) {
		t.Error("Send after Close returned true")
	}

	// Buffered items are still delivered after Close.
	if v, ok := buf.Receive(); !ok || v != 1 {
		t.Errorf("Receive = (%d, %v), want (1, true)", v, ok)
	}
	if _, ok := buf.Receive(); ok {
		t.Error("Receive on drained closed buffer returned ok")
	}
}

func TestBufferSinkNotify(t *testing.T) {
	buf := NewGrowableBuffer[model.FlipEvent](8)
	sink := NewBufferSink(buf)

	ev := model.FlipEvent{Name: "ASPECT_OF_THE_END", Price: 100, Value: 500}
	if err := sink.Notify(context.Background(), ev); err != nil {
		t.Fatalf("Notify: %v", err)
	}

	got, ok := buf.TryReceive()
	if !ok {
		t.Fatal("TryReceive returned false after Notify")
	}
	if got.Name != ev.Name || got.Price != ev.Price {
		t.Errorf("buffered event = %+v, want %+v", got, ev)
	}

	buf.Close()
	if err := sink.Notify(context.Background(), ev); err != ErrBufferClosed {
		t.Errorf("Notify after Close = %v, want ErrBufferClosed", err)
	}
}
