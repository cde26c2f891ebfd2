package bus

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/profileforms-backend/internal/realtime"
)

func TestMemoryBusForwards(t *testing.T) {
	b := NewMemoryBus(nil)
	var got []realtime.Message
	if err := b.StartForwarder(context.Background(), func(m realtime.Message) { got = append(got, m) }); err != nil {
		t.Fatalf("StartForwarder: %v", err)
	}
	userID := uuid.New()
	msg := realtime.SectionUpdated{UserID: userID, SectionID: "education", Status: "complete"}.Message()
	if err := b.Publish(context.Background(), msg); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("delivered: want=1 got=%d", len(got))
	}
	if got[0].Channel != "user:"+userID.String() || got[0].Event != realtime.EventSectionUpdated {
		t.Fatalf("message: got=%+v", got[0])
	}

	_ = b.Close()
	if err := b.Publish(context.Background(), msg); err == nil {
		t.Fatalf("publish after close: want error")
	}
}

func TestMemoryBusHonoursContext(t *testing.T) {
	b := NewMemoryBus(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := b.Publish(ctx, realtime.Message{Channel: "x"}); err == nil {
		t.Fatalf("cancelled context: want error")
	}
}
