package contact

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ananyev/craftmarket/internal/model"
	"github.com/ananyev/craftmarket/internal/storage"
	"github.com/pkg/errors"
)

type memStore struct {
	mu       sync.Mutex
	users    map[string]*model.User
	messages []*model.ContactMessage
}

func newMemStore() *memStore {
	return &memStore{users: make(map[string]*model.User)}
}

func (m *memStore) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, storage.ErrEntityNotFound
	}
	return u, nil
}

func (m *memStore) CreateContactMessage(ctx context.Context, msg *model.ContactMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
	return nil
}

type recordingNotifier struct {
	received []string
	err      error
}

func (n *recordingNotifier) ContactReceived(ctx context.Context, vendorID string, msg *model.ContactMessage) error {
	if n.err != nil {
		return n.err
	}
	n.received = append(n.received, msg.ID)
	return nil
}

func cleanDTO() model.CreateContactDTO {
	return model.CreateContactDTO{
		VendorID: "v1",
		ReplyTo:  "buyer@example.com",
		Subject:  "Custom order",
		Body:     "Could you make the same shelf in walnut?",
	}
}

func setup(t *testing.T) (*Service, *memStore, *recordingNotifier) {
	t.Helper()

	st := newMemStore()
	st.users["v1"] = &model.User{ID: "v1", Role: model.Vendor, CreatedAt: time.Now().AddDate(-1, 0, 0)}
	st.users["c1"] = &model.User{ID: "c1", Role: model.Customer}

	n := &recordingNotifier{}
	return New(st, n), st, n
}

func TestCreateDeliversCleanMessage(t *testing.T) {
	svc, st, n := setup(t)

	msg, err := svc.Create(context.Background(), "c1", cleanDTO())
	if err != nil {
		t.Fatal(err)
	}
	if len(st.messages) != 1 || st.messages[0].ID != msg.ID {
		t.Fatal("message not persisted")
	}
	if len(n.received) != 1 || n.received[0] != msg.ID {
		t.Fatalf("vendor not notified: %v", n.received)
	}
}

func TestCreateVendorChecks(t *testing.T) {
	svc, _, _ := setup(t)

	dto := cleanDTO()
	dto.VendorID = "missing"
	if _, err := svc.Create(context.Background(), "c1", dto); !errors.Is(err, ErrVendorNotFound) {
		t.Fatalf("want ErrVendorNotFound, got %v", err)
	}

	dto.VendorID = "c1"
	if _, err := svc.Create(context.Background(), "c1", dto); !errors.Is(err, ErrVendorNotFound) {
		t.Fatalf("want ErrVendorNotFound for non-vendor, got %v", err)
	}
}

func TestCreateRejectsDisposableReplyAddress(t *testing.T) {
	svc, st, _ := setup(t)

	dto := cleanDTO()
	dto.ReplyTo = "anon@mailinator.com"
	if _, err := svc.Create(context.Background(), "c1", dto); !errors.Is(err, ErrDisposableEmail) {
		t.Fatalf("want ErrDisposableEmail, got %v", err)
	}
	if len(st.messages) != 0 {
		t.Fatal("rejected message persisted")
	}
}

func TestCreateRejectsSpamOutright(t *testing.T) {
	svc, st, n := setup(t)

	dto := cleanDTO()
	dto.Body = "FREE money, click here: http://a http://b http://c"
	if _, err := svc.Create(context.Background(), "c1", dto); !errors.Is(err, ErrContentRejected) {
		t.Fatalf("want ErrContentRejected, got %v", err)
	}
	if len(st.messages) != 0 || len(n.received) != 0 {
		t.Fatal("rejected message persisted or announced")
	}

	// subject is filtered too
	dto = cleanDTO()
	dto.Subject = "Limited time offer"
	if _, err := svc.Create(context.Background(), "c1", dto); !errors.Is(err, ErrContentRejected) {
		t.Fatalf("want ErrContentRejected for subject, got %v", err)
	}
}

func TestCreateNotifierFailureIsSwallowed(t *testing.T) {
	svc, st, n := setup(t)
	n.err = errors.New("hub down")

	msg, err := svc.Create(context.Background(), "c1", cleanDTO())
	if err != nil {
		t.Fatalf("notifier failure surfaced: %v", err)
	}
	if msg == nil || len(st.messages) != 1 {
		t.Fatal("message lost on notifier failure")
	}
}
