package services_test

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/cardtavern/storefront/catalog"
	"github.com/cardtavern/storefront/models"
	"github.com/cardtavern/storefront/payment"
	"github.com/cardtavern/storefront/repository"
)

// ---- in-memory cart repository ----

type memCartRepo struct {
	mu    sync.Mutex
	lines []models.CartLine

	countErr  error
	createErr error
	findErr   error
	deleteErr error

	deleteByUserCalls int
}

func (m *memCartRepo) CountLine(_ context.Context, userID uuid.UUID, pt models.ProductType, productID int64, size string) (int64, error) {
	if m.countErr != nil {
		return 0, m.countErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var count int64
	for _, l := range m.lines {
		if l.UserID == userID && l.ProductType == pt && l.ProductID == productID && (size == "" || l.Size == size) {
			count++
		}
	}
	return count, nil
}

func (m *memCartRepo) Create(_ context.Context, line *models.CartLine) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if line.ID == uuid.Nil {
		line.ID = uuid.New()
	}
	if line.CreatedAt.IsZero() {
		line.CreatedAt = time.Now()
	}
	m.lines = append(m.lines, *line)
	return nil
}

func (m *memCartRepo) DeleteLine(_ context.Context, userID uuid.UUID, pt models.ProductType, productID int64) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.lines[:0]
	for _, l := range m.lines {
		if !(l.UserID == userID && l.ProductType == pt && l.ProductID == productID) {
			kept = append(kept, l)
		}
	}
	m.lines = kept
	return nil
}

func (m *memCartRepo) FindByUserID(_ context.Context, userID uuid.UUID) ([]models.CartLine, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.CartLine
	for _, l := range m.lines {
		if l.UserID == userID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *memCartRepo) DeleteByUserID(_ context.Context, userID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleteByUserCalls++
	if m.deleteErr != nil {
		return m.deleteErr
	}
	kept := m.lines[:0]
	for _, l := range m.lines {
		if l.UserID != userID {
			kept = append(kept, l)
		}
	}
	m.lines = kept
	return nil
}

// ---- fake catalog fetcher ----

type fakeFetcher struct {
	productType models.ProductType
	items       map[int64]catalog.Item
	err         error
}

func (f *fakeFetcher) Type() models.ProductType { return f.productType }

func (f *fakeFetcher) FetchByIDs(_ context.Context, ids []int64) (map[int64]catalog.Item, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[int64]catalog.Item)
	for _, id := range ids {
		if item, ok := f.items[id]; ok {
			out[id] = item
		}
	}
	return out, nil
}

// ---- mock order repository ----

type mockOrderRepo struct {
	mu sync.Mutex

	createDraftErr error
	drafts         []*models.OrderDraft

	attachErr      error
	attachedDraft  uuid.UUID
	attachedSessID string

	draftBySession map[string]*models.OrderDraft
	findDraftErr   error

	commitErr     error
	commitCalls   int
	committed     map[string][]models.OrderRecord
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{
		draftBySession: make(map[string]*models.OrderDraft),
		committed:      make(map[string][]models.OrderRecord),
	}
}

func (m *mockOrderRepo) CreateDraft(_ context.Context, draft *models.OrderDraft) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createDraftErr != nil {
		return m.createDraftErr
	}
	if draft.ID == uuid.Nil {
		draft.ID = uuid.New()
	}
	m.drafts = append(m.drafts, draft)
	return nil
}

func (m *mockOrderRepo) AttachSession(_ context.Context, draftID uuid.UUID, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.attachErr != nil {
		return m.attachErr
	}
	m.attachedDraft = draftID
	m.attachedSessID = sessionID
	for _, d := range m.drafts {
		if d.ID == draftID {
			sid := sessionID
			d.SessionID = &sid
			m.draftBySession[sessionID] = d
		}
	}
	return nil
}

func (m *mockOrderRepo) FindDraftBySessionID(_ context.Context, sessionID string) (*models.OrderDraft, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findDraftErr != nil {
		return nil, m.findDraftErr
	}
	if d, ok := m.draftBySession[sessionID]; ok {
		return d, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockOrderRepo) CommitRecords(_ context.Context, sessionID string, records []models.OrderRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.commitCalls++
	if m.commitErr != nil {
		return m.commitErr
	}
	if _, ok := m.committed[sessionID]; ok {
		return repository.ErrAlreadyCommitted
	}
	m.committed[sessionID] = records
	return nil
}

func (m *mockOrderRepo) FindRecordsByUserID(_ context.Context, userID uuid.UUID, page, limit int) ([]models.OrderRecord, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.OrderRecord
	for _, records := range m.committed {
		for _, r := range records {
			if r.UserID == userID {
				out = append(out, r)
			}
		}
	}
	return out, int64(len(out)), nil
}

// ---- mock payment provider ----

type mockPayment struct {
	mu sync.Mutex

	createErr    error
	createCalls  int
	gotItems     []payment.LineItem
	gotEmail     string
	gotDraftID   string
	sessionID    string
	redirectURL  string

	verifyErr error
	session   *payment.Session
}

func (m *mockPayment) CreateCheckoutSession(_ context.Context, items []payment.LineItem, email, draftID string) (string, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createCalls++
	if m.createErr != nil {
		return "", "", m.createErr
	}
	m.gotItems = items
	m.gotEmail = email
	m.gotDraftID = draftID
	return m.sessionID, m.redirectURL, nil
}

func (m *mockPayment) VerifySession(_ context.Context, sessionID string) (*payment.Session, error) {
	if m.verifyErr != nil {
		return nil, m.verifyErr
	}
	return m.session, nil
}

// ---- mock SNS publisher ----

type mockSNS struct {
	mu         sync.Mutex
	publishErr error
	published  [][]byte
}

func (m *mockSNS) Publish(_ context.Context, _ string, message []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.publishErr != nil {
		return m.publishErr
	}
	m.published = append(m.published, message)
	return nil
}

// ---- mock card repository (search only) ----

type mockCardRepo struct {
	mu       sync.Mutex
	queries  []string
	cards    []models.Card
	searchErr error
}

func (m *mockCardRepo) FindByIDs(_ context.Context, ids []int64) ([]models.Card, error) {
	return nil, nil
}

func (m *mockCardRepo) FindByID(_ context.Context, id int64) (*models.Card, error) {
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCardRepo) List(_ context.Context, _ repository.CardFilters, _, _ int) ([]models.Card, int64, error) {
	return nil, 0, nil
}

func (m *mockCardRepo) SearchByName(_ context.Context, q string, _ int) ([]models.Card, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	m.queries = append(m.queries, q)
	return m.cards, nil
}

// ---- helpers ----

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}
