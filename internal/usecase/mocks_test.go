package usecase

import (
	"context"
	"sync"
	"time"

	"cutoff-alert-service/internal/domain/entity"
	"cutoff-alert-service/internal/domain/repository"
)

// memoryDeadlineRepository is an in-memory DeadlineRepository that mimics the store filter
type memoryDeadlineRepository struct {
	mu      sync.Mutex
	records map[string]*entity.BookingDeadline
	order   []string

	fetchErr    error
	setLatchErr func(deadlineID string) error
	fetchCalls  int
}

func newMemoryDeadlineRepository(records ...*entity.BookingDeadline) *memoryDeadlineRepository {
	repo := &memoryDeadlineRepository{records: make(map[string]*entity.BookingDeadline)}
	for _, r := range records {
		repo.add(r)
	}
	return repo
}

func (m *memoryDeadlineRepository) add(r *entity.BookingDeadline) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[r.ID] = r
	m.order = append(m.order, r.ID)
}

func (m *memoryDeadlineRepository) get(id string) entity.BookingDeadline {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.records[id]
}

func (m *memoryDeadlineRepository) confirmSales(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[id].SalesConfirmed = true
}

func (m *memoryDeadlineRepository) FetchPendingDeadlines(ctx context.Context) ([]*entity.BookingDeadline, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetchCalls++
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}

	var result []*entity.BookingDeadline
	for _, id := range m.order {
		r := m.records[id]
		if r.MonitoringStatus == entity.MonitoringPending && !r.SalesConfirmed {
			copied := *r
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (m *memoryDeadlineRepository) SetLatch(ctx context.Context, deadlineID string, tier entity.EscalationTier, at time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if m.setLatchErr != nil {
		if err := m.setLatchErr(deadlineID); err != nil {
			return err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.records[deadlineID]
	if !ok {
		return repository.ErrDeadlineNotFound
	}
	r.Latches = r.Latches.Set(tier)
	r.UpdatedAt = at
	return nil
}

// mockSender records alerts and optionally fails
type mockSender struct {
	mu       sync.Mutex
	sendFunc func(ctx context.Context, alert *entity.Alert) error
	sent     []*entity.Alert
}

func (m *mockSender) Send(ctx context.Context, alert *entity.Alert) error {
	if m.sendFunc != nil {
		if err := m.sendFunc(ctx, alert); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, alert)
	return nil
}

func (m *mockSender) alerts() []*entity.Alert {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*entity.Alert(nil), m.sent...)
}

// fixedClock is a settable clock
type fixedClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

var testNow = time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

// newDeadline builds a pending record whose cut-offs sit at the given offsets from testNow
func newDeadline(id string, si, vgm, cy time.Duration) *entity.BookingDeadline {
	return &entity.BookingDeadline{
		ID:        id,
		BookingID: "booking-" + id,
		CutOffs: entity.CutOffs{
			SI:  testNow.Add(si),
			VGM: testNow.Add(vgm),
			CY:  testNow.Add(cy),
		},
		MonitoringStatus: entity.MonitoringPending,
		Booking: entity.BookingContext{
			BookingID:    "booking-" + id,
			BookingRef:   "BK-" + id,
			ShipmentType: "FCL",
			Origin:       "SGSIN",
			Destination:  "NLRTM",
			Carrier:      "MAERSK ESSEN",
			SalesUserID:  "sales-" + id,
		},
	}
}
