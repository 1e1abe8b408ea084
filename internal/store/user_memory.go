package store

import (
	"context"
	"strconv"
	"sync"

	"github.com/exercise-tracker/apiserver/types"
)

// MemoryUserRepository keeps users in process memory. It backs tests and
// STORE_DRIVER=memory; nothing survives a restart.
type MemoryUserRepository struct {
	mu     sync.RWMutex
	nextID int64
	order  []string
	users  map[string]types.User
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[string]types.User)}
}

func (r *MemoryUserRepository) Count(context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users), nil
}

func (r *MemoryUserRepository) List(context.Context) ([]types.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]types.User, 0, len(r.order))
	for _, id := range r.order {
		users = append(users, r.users[id].Clone())
	}
	return users, nil
}

func (r *MemoryUserRepository) GetByID(_ context.Context, id string) (types.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return types.User{}, ErrNotFound
	}
	return user.Clone(), nil
}

func (r *MemoryUserRepository) Create(_ context.Context, user types.User) (types.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user.ID = strconv.FormatInt(r.nextID, 10)
	user.Count = 0
	user.Log = []types.Exercise{}
	r.nextID++

	r.users[user.ID] = user
	r.order = append(r.order, user.ID)
	return user.Clone(), nil
}

func (r *MemoryUserRepository) AppendExercise(_ context.Context, id string, exercise types.Exercise) (types.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return types.User{}, ErrNotFound
	}
	user = user.Clone()
	user.Log = append(user.Log, exercise)
	user.Count = len(user.Log)
	r.users[id] = user
	return user.Clone(), nil
}

func (r *MemoryUserRepository) Close(context.Context) error {
	return nil
}
