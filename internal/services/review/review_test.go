package review

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
	mu      sync.Mutex
	users   map[string]*model.User
	reviews map[string]*model.Review

	createErr error
}

func newMemStore() *memStore {
	return &memStore{
		users:   make(map[string]*model.User),
		reviews: make(map[string]*model.Review),
	}
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

func (m *memStore) GetReviewByAuthorAndVendor(ctx context.Context, authorID, vendorID string) (*model.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.reviews {
		if r.AuthorID == authorID && r.VendorID == vendorID {
			return r, nil
		}
	}
	return nil, storage.ErrEntityNotFound
}

func (m *memStore) CreateReview(ctx context.Context, rec *model.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	m.reviews[rec.ID] = rec
	return nil
}

func (m *memStore) ListAuthorRatings(ctx context.Context, authorID string) ([]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []int
	for _, r := range m.reviews {
		if r.AuthorID == authorID {
			out = append(out, r.Rating)
		}
	}
	return out, nil
}

func (m *memStore) ListVendorReviews(ctx context.Context, vendorID string) ([]model.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Review
	for _, r := range m.reviews {
		if r.VendorID == vendorID && r.IsApproved && !r.IsHidden {
			out = append(out, *r)
		}
	}
	return out, nil
}

type recordingNotifier struct {
	mu        sync.Mutex
	published []string
	err       error
}

func (n *recordingNotifier) ReviewPublished(ctx context.Context, vendorID string, rec *model.Review) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.published = append(n.published, rec.ID)
	return nil
}

func setupService(t *testing.T) (*Service, *memStore, *recordingNotifier) {
	t.Helper()

	st := newMemStore()
	st.users["a1"] = &model.User{ID: "a1", Role: model.Customer, CreatedAt: time.Now().AddDate(0, -3, 0)}
	st.users["v1"] = &model.User{ID: "v1", Role: model.Vendor, CreatedAt: time.Now().AddDate(-1, 0, 0)}
	st.users["c2"] = &model.User{ID: "c2", Role: model.Customer, CreatedAt: time.Now().AddDate(0, -1, 0)}

	n := &recordingNotifier{}
	svc := New(st, NewEngine(&fakeLimiter{allow: true}), n)
	return svc, st, n
}

func TestSubmitPublishesCleanReview(t *testing.T) {
	svc, st, n := setupService(t)

	res, err := svc.Submit(context.Background(), "a1", cleanDTO())
	if err != nil {
		t.Fatal(err)
	}
	if !res.Published || !res.Review.IsApproved {
		t.Fatalf("clean review not published: %+v", res)
	}
	if len(res.Review.Flags) != 0 {
		t.Fatalf("clean review flagged: %v", res.Review.Flags)
	}
	if _, ok := st.reviews[res.Review.ID]; !ok {
		t.Fatal("review not persisted")
	}
	if len(n.published) != 1 || n.published[0] != res.Review.ID {
		t.Fatalf("vendor not notified: %v", n.published)
	}
}

func TestSubmitSelfReview(t *testing.T) {
	svc, _, _ := setupService(t)

	dto := cleanDTO()
	dto.VendorID = "a1"
	if _, err := svc.Submit(context.Background(), "a1", dto); !errors.Is(err, ErrSelfReview) {
		t.Fatalf("want ErrSelfReview, got %v", err)
	}
}

func TestSubmitVendorChecks(t *testing.T) {
	svc, _, _ := setupService(t)

	dto := cleanDTO()
	dto.VendorID = "missing"
	if _, err := svc.Submit(context.Background(), "a1", dto); !errors.Is(err, ErrVendorNotFound) {
		t.Fatalf("want ErrVendorNotFound for unknown id, got %v", err)
	}

	// customers are not reviewable even though the account exists
	dto.VendorID = "c2"
	if _, err := svc.Submit(context.Background(), "a1", dto); !errors.Is(err, ErrVendorNotFound) {
		t.Fatalf("want ErrVendorNotFound for non-vendor, got %v", err)
	}
}

func TestSubmitDuplicate(t *testing.T) {
	svc, _, n := setupService(t)

	if _, err := svc.Submit(context.Background(), "a1", cleanDTO()); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Submit(context.Background(), "a1", cleanDTO()); !errors.Is(err, ErrDuplicateReview) {
		t.Fatalf("want ErrDuplicateReview, got %v", err)
	}
	if len(n.published) != 1 {
		t.Fatalf("duplicate triggered extra notification: %v", n.published)
	}
}

func TestSubmitDuplicateRaceMapsStorageConflict(t *testing.T) {
	svc, st, _ := setupService(t)
	st.createErr = storage.ErrEntityExists

	if _, err := svc.Submit(context.Background(), "a1", cleanDTO()); !errors.Is(err, ErrDuplicateReview) {
		t.Fatalf("want ErrDuplicateReview, got %v", err)
	}
}

func TestSubmitHoldsFlaggedReview(t *testing.T) {
	svc, st, n := setupService(t)
	// hours-old account trips the new-account rule
	st.users["a1"].CreatedAt = time.Now().Add(-2 * time.Hour)

	res, err := svc.Submit(context.Background(), "a1", cleanDTO())
	if err != nil {
		t.Fatal(err)
	}
	if res.Published || res.Review.IsApproved {
		t.Fatal("flagged review published")
	}
	if len(res.Review.Flags) != 1 || res.Review.Flags[0] != string(model.FlagNewAccount) {
		t.Fatalf("want NEW_ACCOUNT flag, got %v", res.Review.Flags)
	}
	if _, ok := st.reviews[res.Review.ID]; !ok {
		t.Fatal("held review not persisted")
	}
	if len(n.published) != 0 {
		t.Fatalf("vendor notified about held review: %v", n.published)
	}
}

func TestSubmitRateLimitedLeavesNoRecord(t *testing.T) {
	st := newMemStore()
	st.users["a1"] = &model.User{ID: "a1", Role: model.Customer, CreatedAt: time.Now().AddDate(0, -3, 0)}
	st.users["v1"] = &model.User{ID: "v1", Role: model.Vendor, CreatedAt: time.Now().AddDate(-1, 0, 0)}

	n := &recordingNotifier{}
	svc := New(st, NewEngine(&fakeLimiter{allow: false}), n)

	if _, err := svc.Submit(context.Background(), "a1", cleanDTO()); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("want ErrRateLimited, got %v", err)
	}
	if len(st.reviews) != 0 {
		t.Fatal("rate-limited submission persisted")
	}
}

func TestSubmitNotifierFailureIsSwallowed(t *testing.T) {
	svc, _, n := setupService(t)
	n.err = errors.New("hub down")

	res, err := svc.Submit(context.Background(), "a1", cleanDTO())
	if err != nil {
		t.Fatalf("notifier failure surfaced: %v", err)
	}
	if !res.Published {
		t.Fatal("publish state changed by notifier failure")
	}
}

func TestListForVendor(t *testing.T) {
	svc, st, _ := setupService(t)

	if _, err := svc.Submit(context.Background(), "a1", cleanDTO()); err != nil {
		t.Fatal(err)
	}
	// hidden records stay out of the public listing
	st.reviews["hidden"] = &model.Review{ID: "hidden", AuthorID: "c2", VendorID: "v1", Rating: 2, IsApproved: true, IsHidden: true}

	res, err := svc.ListForVendor(context.Background(), "v1")
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Items) != 1 {
		t.Fatalf("want 1 visible review, got %d", len(res.Items))
	}

	if _, err := svc.ListForVendor(context.Background(), "missing"); !errors.Is(err, ErrVendorNotFound) {
		t.Fatalf("want ErrVendorNotFound, got %v", err)
	}

	for id := range st.reviews {
		delete(st.reviews, id)
	}
	res, err = svc.ListForVendor(context.Background(), "v1")
	if err != nil {
		t.Fatal(err)
	}
	if res.Items == nil || len(res.Items) != 0 {
		t.Fatalf("want empty non-nil items, got %#v", res.Items)
	}
}
