package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/storefront/storefront-api/internal/core/domain"
)

// pngHeader is enough of a PNG for content sniffing.
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

type stubUserRepo struct {
	mu      sync.Mutex
	users   map[string]*domain.User
	nextID  int
	findErr error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) find(match func(*domain.User) bool) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, u := range r.users {
		if match(u) {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.Email == email })
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.Username == username })
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.User, 0, len(r.users))
	for i := 1; i <= r.nextID; i++ {
		if u, ok := r.users[fmt.Sprintf("u%d", i)]; ok {
			out = append(out, cloneUser(u))
		}
	}
	return out, nil
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email || u.Username == user.Username {
			return nil, domain.ErrUserExists
		}
	}
	r.nextID++
	clone := cloneUser(user)
	clone.ID = fmt.Sprintf("u%d", r.nextID)
	r.users[clone.ID] = clone
	return cloneUser(clone), nil
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return nil, domain.ErrUserNotFound
	}
	r.users[user.ID] = cloneUser(user)
	return cloneUser(user), nil
}

type stubAvatarStore struct {
	saved map[string][]byte
	types map[string]string
}

func newStubAvatarStore() *stubAvatarStore {
	return &stubAvatarStore{saved: make(map[string][]byte), types: make(map[string]string)}
}

func (s *stubAvatarStore) Save(_ context.Context, _ string, contentType string, data []byte) (string, error) {
	id := fmt.Sprintf("avatar%d", len(s.saved)+1)
	s.saved[id] = data
	s.types[id] = contentType
	return id, nil
}

func (s *stubAvatarStore) Open(_ context.Context, id string) ([]byte, string, error) {
	data, ok := s.saved[id]
	if !ok {
		return nil, "", domain.ErrAvatarNotFound
	}
	return data, s.types[id], nil
}

type stubSessionStore struct {
	revoked map[string]time.Time
}

func newStubSessionStore() *stubSessionStore {
	return &stubSessionStore{revoked: make(map[string]time.Time)}
}

func (s *stubSessionStore) Revoke(_ context.Context, tokenID string, until time.Time) error {
	s.revoked[tokenID] = until
	return nil
}

func (s *stubSessionStore) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	_, ok := s.revoked[tokenID]
	return ok, nil
}

type recordingSink struct {
	mu     sync.Mutex
	events []domain.UserEvent
}

func (s *recordingSink) Enqueue(e domain.UserEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
}

func (s *recordingSink) types() []domain.UserEventType {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.UserEventType, 0, len(s.events))
	for _, e := range s.events {
		out = append(out, e.Type)
	}
	return out
}

type stubCatalogRepo struct {
	mu            sync.Mutex
	products      []domain.Product
	categories    []domain.Category
	productLoads  int
	categoryLoads int
	listErr       error

	// When gate is set, ListProducts reads the products, reports on started
	// and then waits for gate to close or ctx to end before returning them.
	gate    chan struct{}
	started chan struct{}
}

func (r *stubCatalogRepo) ListProducts(ctx context.Context) ([]domain.Product, error) {
	r.mu.Lock()
	r.productLoads++
	err := r.listErr
	products := append([]domain.Product(nil), r.products...)
	r.mu.Unlock()

	if r.gate != nil {
		r.started <- struct{}{}
		select {
		case <-r.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (r *stubCatalogRepo) loads() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.productLoads
}

func (r *stubCatalogRepo) FindProduct(_ context.Context, id string) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.products {
		if p.ID == id {
			clone := p
			return &clone, nil
		}
	}
	return nil, domain.ErrProductNotFound
}

func (r *stubCatalogRepo) CreateProduct(_ context.Context, p *domain.Product) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *p
	clone.ID = fmt.Sprintf("p%d", len(r.products)+1)
	r.products = append(r.products, clone)
	return &clone, nil
}

func (r *stubCatalogRepo) UpdateProduct(_ context.Context, p *domain.Product) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.products {
		if r.products[i].ID == p.ID {
			r.products[i] = *p
			clone := *p
			return &clone, nil
		}
	}
	return nil, domain.ErrProductNotFound
}

func (r *stubCatalogRepo) ListCategories(_ context.Context) ([]domain.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.categoryLoads++
	if r.listErr != nil {
		return nil, r.listErr
	}
	return append([]domain.Category(nil), r.categories...), nil
}

func (r *stubCatalogRepo) FindCategory(_ context.Context, id string) (*domain.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.categories {
		if c.ID == id {
			clone := c
			return &clone, nil
		}
	}
	return nil, domain.ErrCategoryNotFound
}

type stubCartRepo struct {
	carts    map[string]map[string]int64
	countErr error
}

func newStubCartRepo() *stubCartRepo {
	return &stubCartRepo{carts: make(map[string]map[string]int64)}
}

func (r *stubCartRepo) Get(_ context.Context, userID string) (*domain.Cart, error) {
	cart := &domain.Cart{UserID: userID}
	for id, qty := range r.carts[userID] {
		cart.Items = append(cart.Items, domain.CartItem{ProductID: id, Quantity: qty})
	}
	return cart, nil
}

func (r *stubCartRepo) Add(_ context.Context, userID, productID string, qty int64) (int64, error) {
	if r.carts[userID] == nil {
		r.carts[userID] = make(map[string]int64)
	}
	r.carts[userID][productID] += qty
	return r.carts[userID][productID], nil
}

func (r *stubCartRepo) Remove(_ context.Context, userID, productID string) error {
	delete(r.carts[userID], productID)
	return nil
}

func (r *stubCartRepo) Count(_ context.Context, userID string) (int, error) {
	if r.countErr != nil {
		return 0, r.countErr
	}
	return len(r.carts[userID]), nil
}
