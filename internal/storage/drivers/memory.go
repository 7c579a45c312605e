package drivers

import (
	"context"
	"sync"

	"github.com/Salvatore112/pvz-task/internal/models"
)

// MemoryStorage implements storage.Storage over in-process maps. One
// RWMutex guards the whole store: every mutating operation is a single
// critical section, so check-then-create on receptions and
// find-then-append/remove on products are atomic. Listing takes the read
// lock and sees a consistent snapshot.
type MemoryStorage struct {
	mu sync.RWMutex

	users  map[string]*models.User // user id -> user
	emails map[string]string       // email -> user id
	tokens map[string]string       // token -> user id

	pvzs     map[string]*models.PVZ
	pvzOrder []string

	// Receptions kept per PVZ and products per reception in insertion
	// order: "last added" is defined by position, never by timestamp.
	receptions map[string][]*models.Reception
	products   map[string][]*models.Product
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		users:      make(map[string]*models.User),
		emails:     make(map[string]string),
		tokens:     make(map[string]string),
		pvzs:       make(map[string]*models.PVZ),
		receptions: make(map[string][]*models.Reception),
		products:   make(map[string][]*models.Product),
	}
}

// User operations
func (s *MemoryStorage) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if user.Email != "" {
		if _, ok := s.emails[user.Email]; ok {
			return ErrDuplicateEmail
		}
		s.emails[user.Email] = user.ID
	}

	u := *user
	s.users[user.ID] = &u
	return nil
}

func (s *MemoryStorage) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.emails[email]
	if !ok {
		return nil, ErrNotFound
	}
	u := *s.users[id]
	return &u, nil
}

// Token operations
func (s *MemoryStorage) SaveToken(_ context.Context, token, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Старые токены остаются валидными
	s.tokens[token] = userID
	return nil
}

func (s *MemoryStorage) GetUserByToken(_ context.Context, token string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.tokens[token]
	if !ok {
		return nil, ErrNotFound
	}
	user, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	u := *user
	return &u, nil
}

// PVZ operations
func (s *MemoryStorage) CreatePVZ(_ context.Context, pvz *models.PVZ) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := *pvz
	s.pvzs[pvz.ID] = &p
	s.pvzOrder = append(s.pvzOrder, pvz.ID)
	return nil
}

func (s *MemoryStorage) GetPVZ(_ context.Context, id string) (*models.PVZ, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pvz, ok := s.pvzs[id]
	if !ok {
		return nil, ErrNotFound
	}
	p := *pvz
	return &p, nil
}

func (s *MemoryStorage) ListPVZs(_ context.Context, filter models.PVZFilter) ([]*models.PVZListItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*models.PVZListItem, 0, len(s.pvzOrder))
	for _, pvzID := range s.pvzOrder {
		pvz := *s.pvzs[pvzID]
		item := &models.PVZListItem{
			PVZ:        &pvz,
			Receptions: []*models.ReceptionItem{},
		}

		for _, reception := range s.receptions[pvzID] {
			// Фильтр применяется только при обеих границах
			if filter.HasDateRange() {
				if reception.DateTime.Before(filter.StartDate) || reception.DateTime.After(filter.EndDate) {
					continue
				}
			}

			r := *reception
			ri := &models.ReceptionItem{
				Reception: &r,
				Products:  []*models.Product{},
			}
			for _, product := range s.products[reception.ID] {
				p := *product
				ri.Products = append(ri.Products, &p)
			}
			item.Receptions = append(item.Receptions, ri)
		}

		result = append(result, item)
	}

	return paginate(result, filter.Page, filter.Limit), nil
}

// paginate slices items to the requested window; pages past the end are
// empty, never an error.
func paginate(items []*models.PVZListItem, page, limit int) []*models.PVZListItem {
	start := (page - 1) * limit
	if start < 0 {
		start = 0
	}
	if start >= len(items) {
		return []*models.PVZListItem{}
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// findOpen returns the in_progress reception for a PVZ. Lookup is by
// status, not recency: uniqueness is the invariant. Caller holds the lock.
func (s *MemoryStorage) findOpen(pvzID string) *models.Reception {
	for _, reception := range s.receptions[pvzID] {
		if reception.Status == models.ReceptionInProgress {
			return reception
		}
	}
	return nil
}

// Reception operations
func (s *MemoryStorage) CreateReception(_ context.Context, reception *models.Reception) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.pvzs[reception.PVZID]; !ok {
		return ErrNotFound
	}
	if s.findOpen(reception.PVZID) != nil {
		return ErrOpenReceptionExists
	}

	r := *reception
	s.receptions[reception.PVZID] = append(s.receptions[reception.PVZID], &r)
	return nil
}

func (s *MemoryStorage) GetOpenReception(_ context.Context, pvzID string) (*models.Reception, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	reception := s.findOpen(pvzID)
	if reception == nil {
		return nil, ErrNotFound
	}
	r := *reception
	return &r, nil
}

func (s *MemoryStorage) CloseReception(_ context.Context, pvzID string) (*models.Reception, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.pvzs[pvzID]; !ok {
		return nil, ErrNotFound
	}
	reception := s.findOpen(pvzID)
	if reception == nil {
		return nil, ErrNoOpenReception
	}

	// closed — терминальный статус, обратного перехода нет
	reception.Status = models.ReceptionClosed
	r := *reception
	return &r, nil
}

// Product operations
func (s *MemoryStorage) AddProduct(_ context.Context, pvzID string, product *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.pvzs[pvzID]; !ok {
		return ErrNotFound
	}
	reception := s.findOpen(pvzID)
	if reception == nil {
		return ErrNoOpenReception
	}

	product.ReceptionID = reception.ID
	p := *product
	s.products[reception.ID] = append(s.products[reception.ID], &p)
	return nil
}

func (s *MemoryStorage) DeleteLastProduct(_ context.Context, pvzID string) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.pvzs[pvzID]; !ok {
		return nil, ErrNotFound
	}
	reception := s.findOpen(pvzID)
	if reception == nil {
		return nil, ErrNoOpenReception
	}

	list := s.products[reception.ID]
	if len(list) == 0 {
		return nil, ErrNoProducts
	}

	last := list[len(list)-1]
	s.products[reception.ID] = list[:len(list)-1]
	p := *last
	return &p, nil
}

// Migrate is a no-op: the memory driver has no schema.
func (s *MemoryStorage) Migrate(string) error {
	return nil
}
