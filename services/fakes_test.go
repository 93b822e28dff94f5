package services

import (
	"context"
	"errors"
	"sync"

	"matchmaking_server/models"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// memSlots is an in-memory SlotRepository.
type memSlots struct {
	mu        sync.Mutex
	docs      map[string]*models.MatchSlots
	loadErr   map[string]error
	statusErr map[string]error
	saves     int
	setCalls  map[string][]StatusUpdate
}

func newMemSlots() *memSlots {
	return &memSlots{
		docs:      map[string]*models.MatchSlots{},
		loadErr:   map[string]error{},
		statusErr: map[string]error{},
		setCalls:  map[string][]StatusUpdate{},
	}
}

func (m *memSlots) put(s *models.MatchSlots) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[s.UserID] = s
}

func clone(s *models.MatchSlots) *models.MatchSlots {
	c := models.RestoreMatchSlots(s.UserID, s.Active.Items(), s.Chopped.Items(), s.Discovered.Items())
	c.UpdatedAt = s.UpdatedAt
	return c
}

func (m *memSlots) Load(ctx context.Context, userID string) (*models.MatchSlots, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.loadErr[userID]; err != nil {
		return nil, err
	}
	if s, ok := m.docs[userID]; ok {
		return clone(s), nil
	}
	return models.NewMatchSlots(userID), nil
}

func (m *memSlots) Save(ctx context.Context, slots *models.MatchSlots) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	m.docs[slots.UserID] = clone(slots)
	return nil
}

// SetStatuses mirrors the guarded element write of DynamoSlotRepository.
func (m *memSlots) SetStatuses(ctx context.Context, ownerID string, updates []StatusUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setCalls[ownerID] = append(m.setCalls[ownerID], updates...)
	if err := m.statusErr[ownerID]; err != nil {
		return err
	}
	s, ok := m.docs[ownerID]
	if !ok {
		return errors.New("no document")
	}
	items := s.Active.Items()
	var errs []error
	for _, u := range updates {
		if u.Index >= len(items) || items[u.Index].UserID != u.CounterpartID || items[u.Index].Status == models.StatusChopped {
			errs = append(errs, errors.New("condition failed"))
			continue
		}
		items[u.Index].Status = u.Status
	}
	restored := models.RestoreMatchSlots(ownerID, items, s.Chopped.Items(), s.Discovered.Items())
	m.docs[ownerID] = restored
	return errors.Join(errs...)
}

func (m *memSlots) status(ownerID, counterpartID string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.docs[ownerID]
	if !ok {
		return ""
	}
	if i := s.Active.IndexOf(counterpartID); i >= 0 {
		return s.Active.At(i).Status
	}
	return ""
}

// stubPool answers queries from a function and records every filter.
type stubPool struct {
	mu      sync.Mutex
	filters []PoolFilter
	answer  func(PoolFilter) ([]string, error)
}

func (p *stubPool) Query(ctx context.Context, filter PoolFilter) ([]string, error) {
	p.mu.Lock()
	p.filters = append(p.filters, filter)
	p.mu.Unlock()
	if p.answer == nil {
		return nil, nil
	}
	return p.answer(filter)
}

func (p *stubPool) calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.filters)
}

// firstNSampler is a deterministic Sampler.
type firstNSampler struct{}

func (firstNSampler) Sample(ids []string, n int) []string {
	if n > len(ids) {
		n = len(ids)
	}
	return append([]string(nil), ids[:n]...)
}

// fakeImages serves images from a map and presents refs with a prefix.
type fakeImages struct {
	images map[string]string
	err    map[string]error
}

func (f *fakeImages) MainImageFor(ctx context.Context, userID string) (string, error) {
	if err := f.err[userID]; err != nil {
		return "", err
	}
	return f.images[userID], nil
}

func (f *fakeImages) PresentURL(ctx context.Context, ref string) string {
	if ref == "" {
		return ""
	}
	return "https://signed.example/" + ref
}

// fakeProfiles serves seeker profiles from a map.
type fakeProfiles struct {
	profiles map[string]models.SeekerProfile
	calls    int
}

func (f *fakeProfiles) GetSeekerProfile(ctx context.Context, userID string) (models.SeekerProfile, error) {
	f.calls++
	p, ok := f.profiles[userID]
	if !ok {
		return models.SeekerProfile{}, models.ErrNotLinked
	}
	return p, nil
}

// fakeDynamo records requests made through DynamoAPI.
type fakeDynamo struct {
	getOut    *dynamodb.GetItemOutput
	getErr    error
	updates   []*dynamodb.UpdateItemInput
	updateErr func(*dynamodb.UpdateItemInput) error
	queries   []*dynamodb.QueryInput
	queryOut  *dynamodb.QueryOutput
	scans     []*dynamodb.ScanInput
	scanPages []*dynamodb.ScanOutput
}

func (f *fakeDynamo) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.getOut == nil {
		return &dynamodb.GetItemOutput{}, nil
	}
	return f.getOut, nil
}

func (f *fakeDynamo) UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	f.updates = append(f.updates, params)
	if f.updateErr != nil {
		if err := f.updateErr(params); err != nil {
			return nil, err
		}
	}
	return &dynamodb.UpdateItemOutput{}, nil
}

func (f *fakeDynamo) Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	f.queries = append(f.queries, params)
	if f.queryOut == nil {
		return &dynamodb.QueryOutput{}, nil
	}
	return f.queryOut, nil
}

func (f *fakeDynamo) Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	copied := *params
	f.scans = append(f.scans, &copied)
	if len(f.scans) > len(f.scanPages) {
		return &dynamodb.ScanOutput{}, nil
	}
	return f.scanPages[len(f.scans)-1], nil
}
