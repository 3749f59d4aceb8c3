package services

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/stablemesh/go-breeder-network/internal/repo"
)

// newServiceDB opens a silent temp-file SQLite database with the network
// schema migrated.
func newServiceDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), fmt.Sprintf("services_test_%d.db", time.Now().UnixNano()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

// ----- Fake collaborators -----

type fakeAnimalStore struct {
	animals map[string]Animal
	traits  map[string][]AnimalTrait
}

func newFakeAnimalStore(animals ...Animal) *fakeAnimalStore {
	f := &fakeAnimalStore{
		animals: make(map[string]Animal),
		traits:  make(map[string][]AnimalTrait),
	}
	for _, a := range animals {
		f.animals[a.ID] = a
	}
	return f
}

func (f *fakeAnimalStore) addTrait(animalID, category, locus, value string) {
	f.traits[animalID] = append(f.traits[animalID], AnimalTrait{
		AnimalID: animalID, Category: category, Locus: locus, Value: value,
	})
}

func (f *fakeAnimalStore) GetAnimal(_ context.Context, animalID string) (*Animal, error) {
	a, ok := f.animals[animalID]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &a, nil
}

func (f *fakeAnimalStore) ListShareableAnimals(_ context.Context, tenantID string) ([]Animal, error) {
	var out []Animal
	for _, a := range f.animals {
		if a.TenantID == tenantID && a.Shareable {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeAnimalStore) ListTraits(_ context.Context, animalID string) ([]AnimalTrait, error) {
	return f.traits[animalID], nil
}

type fakeTenantDirectory struct {
	tenants map[string]TenantProfile
}

func newFakeTenantDirectory(tenants ...TenantProfile) *fakeTenantDirectory {
	f := &fakeTenantDirectory{tenants: make(map[string]TenantProfile)}
	for _, p := range tenants {
		f.tenants[p.ID] = p
	}
	return f
}

func (f *fakeTenantDirectory) GetTenant(_ context.Context, tenantID string) (*TenantProfile, error) {
	p, ok := f.tenants[tenantID]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &p, nil
}

type fakePlanStore struct {
	plans map[string]BreedingPlan
}

func newFakePlanStore(plans ...BreedingPlan) *fakePlanStore {
	f := &fakePlanStore{plans: make(map[string]BreedingPlan)}
	for _, p := range plans {
		f.plans[p.ID] = p
	}
	return f
}

func (f *fakePlanStore) GetPlan(_ context.Context, planID string) (*BreedingPlan, error) {
	p, ok := f.plans[planID]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &p, nil
}

type fakeThreadStore struct {
	mu       sync.Mutex
	nextID   int
	subjects map[string]string
	messages map[string][]ThreadMessage
}

func newFakeThreadStore() *fakeThreadStore {
	return &fakeThreadStore{
		subjects: make(map[string]string),
		messages: make(map[string][]ThreadMessage),
	}
}

func (f *fakeThreadStore) CreateThread(_ context.Context, subject string, _ []string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	id := fmt.Sprintf("th-%d", f.nextID)
	f.subjects[id] = subject
	return id, nil
}

func (f *fakeThreadStore) PostMessage(_ context.Context, threadID, senderTenantID, body string) (*ThreadMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	msg := ThreadMessage{
		ID:             fmt.Sprintf("msg-%d", f.nextID),
		ThreadID:       threadID,
		SenderTenantID: senderTenantID,
		Body:           body,
		CreatedAt:      time.Now().UTC(),
	}
	f.messages[threadID] = append(f.messages[threadID], msg)
	return &msg, nil
}

func (f *fakeThreadStore) ListMessages(_ context.Context, threadID string) ([]ThreadMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]ThreadMessage(nil), f.messages[threadID]...), nil
}

type notifiedEvent struct {
	TenantID  string
	Event     string
	SubjectID string
	Payload   map[string]string
}

type fakeNotifier struct {
	mu     sync.Mutex
	events []notifiedEvent
	err    error
}

func (f *fakeNotifier) Notify(_ context.Context, tenantID, event, subjectID string, payload map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, notifiedEvent{TenantID: tenantID, Event: event, SubjectID: subjectID, Payload: payload})
	return nil
}

func (f *fakeNotifier) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.events)
}
