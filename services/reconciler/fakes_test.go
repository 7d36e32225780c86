package reconciler

import (
	"context"
	"sync"
	"time"

	announcementModel "room-booking/models/announcement"
	reservationModel "room-booking/models/reservation"
	roomModel "room-booking/models/room"
)

// fakeClock lets tests move time by hand.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(at time.Time) *fakeClock {
	return &fakeClock{now: at}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// memStore is an in-memory implementation of all three engine stores.
type memStore struct {
	mu sync.Mutex

	rooms        map[uint]*roomModel.Room
	reservations map[uint]*reservationModel.Reservation
	announces    map[uint]*announcementModel.Announcement
	nextAnnID    uint

	statusEvents []roomModel.RoomStatusEvent
	statusWrites int
	listCalls    int

	listErr      error
	getErr       error
	setStatusErr error
}

func newMemStore() *memStore {
	return &memStore{
		rooms:        make(map[uint]*roomModel.Room),
		reservations: make(map[uint]*reservationModel.Reservation),
		announces:    make(map[uint]*announcementModel.Announcement),
	}
}

func (s *memStore) addRoom(id uint, name string, status roomModel.RoomStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms[id] = &roomModel.Room{ID: id, Name: name, Status: status}
}

func (s *memStore) addReservation(id, roomID uint, date, start, end time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reservations[id] = &reservationModel.Reservation{
		ID:        id,
		RoomID:    roomID,
		Date:      date,
		StartTime: start,
		EndTime:   end,
		Status:    reservationModel.ReservationStatusApproved,
	}
}

func (s *memStore) roomStatus(id uint) roomModel.RoomStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rooms[id].Status
}

func (s *memStore) reservationStatus(id uint) reservationModel.ReservationStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reservations[id].Status
}

func (s *memStore) listCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listCalls
}

func (s *memStore) ListActiveForDate(ctx context.Context, date time.Time) ([]reservationModel.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.listCalls++
	if s.listErr != nil {
		return nil, s.listErr
	}

	var out []reservationModel.Reservation
	y, m, d := date.Date()
	for _, res := range s.reservations {
		ry, rm, rd := res.Date.Date()
		if ry == y && rm == m && rd == d && !res.Status.IsCompleted() {
			out = append(out, *res)
		}
	}
	return out, nil
}

func (s *memStore) MarkCompleted(ctx context.Context, id uint, actor string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, ok := s.reservations[id]
	if !ok {
		return nil
	}
	res.Status = reservationModel.ReservationStatusCompleted
	return nil
}

func (s *memStore) DeleteCompletedBefore(ctx context.Context, cutoff time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, res := range s.reservations {
		if res.Status.IsCompleted() && res.EndTime.Before(cutoff) {
			delete(s.reservations, id)
		}
	}
	return nil
}

func (s *memStore) Get(ctx context.Context, id uint) (*roomModel.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.getErr != nil {
		return nil, s.getErr
	}
	rm, ok := s.rooms[id]
	if !ok {
		return nil, context.Canceled
	}
	copied := *rm
	return &copied, nil
}

func (s *memStore) SetStatus(ctx context.Context, id uint, status roomModel.RoomStatus, actor string) (*roomModel.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.setStatusErr != nil {
		return nil, s.setStatusErr
	}
	rm := s.rooms[id]
	rm.Status = status
	rm.UpdatedBy = actor
	s.statusWrites++
	copied := *rm
	return &copied, nil
}

func (s *memStore) AppendStatusEvent(ctx context.Context, event *roomModel.RoomStatusEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statusEvents = append(s.statusEvents, *event)
	return nil
}

func (s *memStore) FindMaintenanceByRoom(ctx context.Context, roomID uint) ([]announcementModel.Announcement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []announcementModel.Announcement
	for _, a := range s.announces {
		if a.Kind == announcementModel.KindMaintenance && a.RoomID != nil && *a.RoomID == roomID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (s *memStore) Create(ctx context.Context, a *announcementModel.Announcement) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextAnnID++
	a.ID = s.nextAnnID
	copied := *a
	s.announces[a.ID] = &copied
	return nil
}

func (s *memStore) DeleteMany(ctx context.Context, ids []uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range ids {
		delete(s.announces, id)
	}
	return nil
}

// recordingSink collects notifications for assertions.
type recordingSink struct {
	mu    sync.Mutex
	notes []string
}

func (s *recordingSink) Notify(title, description, severity string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes = append(s.notes, title)
}

func (s *recordingSink) titles() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.notes))
	copy(out, s.notes)
	return out
}
