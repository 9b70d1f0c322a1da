package service

import (
	"context"

	"github.com/verygoodisland/backend/internal/user/domain"
	"github.com/verygoodisland/backend/internal/user/repository"
)

type mockRepository struct {
	CreateFunc         func(ctx context.Context, user domain.User) (int64, error)
	FindByUsernameFunc func(ctx context.Context, username string) (domain.User, error)
	FindByIDFunc       func(ctx context.Context, id int64) (domain.User, error)
	UpdateFunc         func(ctx context.Context, id int64, patch domain.ProfilePatch) error
	UpdatePhotoFunc    func(ctx context.Context, id int64, photo string) error
	DeleteFunc         func(ctx context.Context, id int64) error
	ListFunc           func(ctx context.Context, page, pageSize int, factor string) (domain.UserPage, error)
}

func (m *mockRepository) Create(ctx context.Context, user domain.User) (int64, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	return 1, nil
}

func (m *mockRepository) FindByUsername(ctx context.Context, username string) (domain.User, error) {
	if m.FindByUsernameFunc != nil {
		return m.FindByUsernameFunc(ctx, username)
	}
	return domain.User{}, repository.ErrUserNotFound
}

func (m *mockRepository) FindByID(ctx context.Context, id int64) (domain.User, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return domain.User{ID: id}, nil
}

func (m *mockRepository) Update(ctx context.Context, id int64, patch domain.ProfilePatch) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, patch)
	}
	return nil
}

func (m *mockRepository) UpdatePhoto(ctx context.Context, id int64, photo string) error {
	if m.UpdatePhotoFunc != nil {
		return m.UpdatePhotoFunc(ctx, id, photo)
	}
	return nil
}

func (m *mockRepository) Delete(ctx context.Context, id int64) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *mockRepository) List(ctx context.Context, page, pageSize int, factor string) (domain.UserPage, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, page, pageSize, factor)
	}
	return domain.UserPage{Page: page, PageSize: pageSize}, nil
}

type mockIssuer struct {
	GrantFunc func(ctx context.Context, userID int64, name string, count int) error
}

func (m *mockIssuer) Grant(ctx context.Context, userID int64, name string, count int) error {
	if m.GrantFunc != nil {
		return m.GrantFunc(ctx, userID, name, count)
	}
	return nil
}

type mockStorage struct {
	SaveFunc   func(ctx context.Context, key string, data []byte) (string, error)
	DeleteFunc func(ctx context.Context, key string) error
}

func (m *mockStorage) Save(ctx context.Context, key string, data []byte) (string, error) {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, key, data)
	}
	return key, nil
}

func (m *mockStorage) Delete(ctx context.Context, key string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, key)
	}
	return nil
}

type mockLocations struct {
	IsValidFunc func(city string) bool
}

func (m *mockLocations) IsValid(city string) bool {
	if m.IsValidFunc != nil {
		return m.IsValidFunc(city)
	}
	return true
}

type mockHasher struct {
	HashFunc    func(password string) (string, error)
	CompareFunc func(hash, password string) error
}

func (m *mockHasher) Hash(password string) (string, error) {
	if m.HashFunc != nil {
		return m.HashFunc(password)
	}
	return "hash:" + password, nil
}

func (m *mockHasher) Compare(hash, password string) error {
	if m.CompareFunc != nil {
		return m.CompareFunc(hash, password)
	}
	if hash != "hash:"+password {
		return errMockMismatch
	}
	return nil
}

type constError string

func (e constError) Error() string { return string(e) }

const errMockMismatch = constError("mock hash mismatch")
