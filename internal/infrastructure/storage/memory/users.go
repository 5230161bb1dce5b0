package memory

import (
	"context"
	"slices"

	"inventory/internal/core/apperror"
	"inventory/internal/domain"
	"inventory/internal/domain/auth"
)

// UserRepo implements auth.UserRepository.
type UserRepo struct{ store *Store }

// NewUserRepo creates a user repository.
func NewUserRepo(store *Store) *UserRepo { return &UserRepo{store: store} }

func (r *UserRepo) Create(ctx context.Context, u *auth.User) error {
	defer r.store.lock(ctx)()
	for _, existing := range r.store.data.users {
		if existing.Email == u.Email {
			return apperror.NewDuplicate("user", "email", u.Email)
		}
	}
	r.store.data.users[u.ID] = *u
	return nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*auth.User, error) {
	defer r.store.lock(ctx)()
	for _, u := range r.store.data.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, apperror.NewNotFound("user", email)
}

func (r *UserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	defer r.store.lock(ctx)()
	for _, u := range r.store.data.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *UserRepo) CountByRole(ctx context.Context, role string) (int64, error) {
	defer r.store.lock(ctx)()
	var n int64
	for _, u := range r.store.data.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

func (r *UserRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*auth.User], error) {
	defer r.store.lock(ctx)()
	items := make([]*auth.User, 0, len(r.store.data.users))
	for _, u := range r.store.data.users {
		if matchesSearch(u.Name, filter.Search) || matchesSearch(u.Email, filter.Search) {
			items = append(items, &u)
		}
	}
	slices.SortFunc(items, func(a, b *auth.User) int { return -newestFirst(a.ID, b.ID) })
	return domain.ListResult[*auth.User]{
		Items:      page(items, filter.Limit, filter.Offset),
		TotalCount: int64(len(items)),
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	}, nil
}
