package messaging

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	pgrepo "github.com/kashodiya/milan/internal/repo/postgres"
)

type fakeStore struct {
	nextID   int64
	messages map[int64]pgrepo.MessageRecord
	readAt   map[int64]time.Time
}

func newFakeStore() *fakeStore {
	return &fakeStore{nextID: 1, messages: map[int64]pgrepo.MessageRecord{}, readAt: map[int64]time.Time{}}
}

func (f *fakeStore) Create(_ context.Context, senderID, receiverID int64, text string, sentAt time.Time) (pgrepo.MessageRecord, error) {
	rec := pgrepo.MessageRecord{
		ID:         f.nextID,
		SenderID:   senderID,
		ReceiverID: receiverID,
		Text:       text,
		SentAt:     sentAt,
	}
	f.nextID++
	f.messages[rec.ID] = rec
	return rec, nil
}

func (f *fakeStore) GetByID(_ context.Context, messageID int64) (pgrepo.MessageRecord, error) {
	rec, ok := f.messages[messageID]
	if !ok {
		return pgrepo.MessageRecord{}, pgrepo.ErrMessageNotFound
	}
	return rec, nil
}

func (f *fakeStore) ListBetween(_ context.Context, a, b int64, _, _ int) ([]pgrepo.MessageRecord, error) {
	var out []pgrepo.MessageRecord
	for _, m := range f.messages {
		if (m.SenderID == a && m.ReceiverID == b) || (m.SenderID == b && m.ReceiverID == a) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeStore) MarkRead(_ context.Context, messageID int64, at time.Time) error {
	rec, ok := f.messages[messageID]
	if !ok {
		return pgrepo.ErrMessageNotFound
	}
	rec.ReadAt = &at
	f.messages[messageID] = rec
	f.readAt[messageID] = at
	return nil
}

type fakeEntitlements struct {
	premium map[int64]bool
}

func (f *fakeEntitlements) IsPremiumActive(_ context.Context, userID int64, _ time.Time) (bool, error) {
	return f.premium[userID], nil
}

type fakeLedger struct {
	accepted map[[2]int64]bool
}

func (f *fakeLedger) HasAcceptedConnection(_ context.Context, a, b int64) (bool, error) {
	if a > b {
		a, b = b, a
	}
	return f.accepted[[2]int64{a, b}], nil
}

func newService() (*Service, *fakeStore, *fakeEntitlements, *fakeLedger) {
	store := newFakeStore()
	ent := &fakeEntitlements{premium: map[int64]bool{}}
	ledger := &fakeLedger{accepted: map[[2]int64]bool{}}
	return NewService(store, ent, ledger), store, ent, ledger
}

func TestCanMessageMatrix(t *testing.T) {
	cases := []struct {
		name          string
		senderPremium bool
		accepted      bool
		want          bool
	}{
		{"premium without connection", true, false, true},
		{"premium with connection", true, true, true},
		{"free with accepted connection", false, true, true},
		{"free without connection", false, false, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, _, ent, ledger := newService()
			ent.premium[1] = tc.senderPremium
			ledger.accepted[[2]int64{1, 2}] = tc.accepted

			got, err := svc.CanMessage(context.Background(), 1, 2)
			if err != nil {
				t.Fatalf("can message: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %v want %v", got, tc.want)
			}
		})
	}
}

func TestCanMessageOnlySenderPremiumCounts(t *testing.T) {
	svc, _, ent, _ := newService()
	ent.premium[2] = true

	got, err := svc.CanMessage(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("can message: %v", err)
	}
	if got {
		t.Fatalf("receiver's membership must not authorize the sender")
	}
}

func TestSendMessageDeniedForFreeSenderWithPendingOnly(t *testing.T) {
	svc, store, _, _ := newService()

	_, err := svc.SendMessage(context.Background(), 1, 2, "hello")
	if !errors.Is(err, ErrMessagingNotAllowed) {
		t.Fatalf("expected ErrMessagingNotAllowed, got %v", err)
	}
	if len(store.messages) != 0 {
		t.Fatalf("denied send must not persist a message")
	}
}

func TestSendMessagePersistsForAcceptedPair(t *testing.T) {
	svc, store, _, ledger := newService()
	ledger.accepted[[2]int64{1, 2}] = true

	msg, err := svc.SendMessage(context.Background(), 1, 2, "  namaste  ")
	if err != nil {
		t.Fatalf("send message: %v", err)
	}
	if msg.Text != "namaste" {
		t.Fatalf("text not trimmed: %q", msg.Text)
	}
	if len(store.messages) != 1 {
		t.Fatalf("message not persisted")
	}
}

func TestSendMessageValidation(t *testing.T) {
	svc, _, ent, _ := newService()
	ent.premium[1] = true

	if _, err := svc.SendMessage(context.Background(), 1, 2, "   "); !errors.Is(err, ErrValidation) {
		t.Fatalf("blank text: expected ErrValidation, got %v", err)
	}
	if _, err := svc.SendMessage(context.Background(), 1, 1, "hi"); !errors.Is(err, ErrValidation) {
		t.Fatalf("self message: expected ErrValidation, got %v", err)
	}
	if _, err := svc.SendMessage(context.Background(), 1, 2, strings.Repeat("x", maxMessageLength+1)); !errors.Is(err, ErrValidation) {
		t.Fatalf("oversized text: expected ErrValidation, got %v", err)
	}
}

func TestMarkReadReceiverOnly(t *testing.T) {
	svc, store, ent, _ := newService()
	ent.premium[1] = true

	msg, err := svc.SendMessage(context.Background(), 1, 2, "hello")
	if err != nil {
		t.Fatalf("send message: %v", err)
	}

	if err := svc.MarkRead(context.Background(), msg.ID, 1); !errors.Is(err, ErrNotMessageReceiver) {
		t.Fatalf("sender mark read: expected ErrNotMessageReceiver, got %v", err)
	}
	if err := svc.MarkRead(context.Background(), msg.ID, 2); err != nil {
		t.Fatalf("receiver mark read: %v", err)
	}
	if _, ok := store.readAt[msg.ID]; !ok {
		t.Fatalf("read timestamp not written")
	}

	// Second mark is a no-op, not an error.
	if err := svc.MarkRead(context.Background(), msg.ID, 2); err != nil {
		t.Fatalf("repeat mark read: %v", err)
	}
}

func TestMarkReadUnknownMessage(t *testing.T) {
	svc, _, _, _ := newService()

	if err := svc.MarkRead(context.Background(), 99, 2); !errors.Is(err, ErrMessageNotFound) {
		t.Fatalf("expected ErrMessageNotFound, got %v", err)
	}
}
