package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verygoodisland/backend/internal/common/clock"
	"github.com/verygoodisland/backend/internal/common/logger"
	"github.com/verygoodisland/backend/internal/imaging"
	"github.com/verygoodisland/backend/internal/user/domain"
	"github.com/verygoodisland/backend/internal/user/repository"
)

var pngBytes = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 13, 'I', 'H', 'D', 'R'}

func newTestService(t *testing.T, deps UserServiceDeps) *UserService {
	t.Helper()

	log, err := logger.New("", "test", "error")
	require.NoError(t, err)

	if deps.Repo == nil {
		deps.Repo = &mockRepository{}
	}
	if deps.Stamps == nil {
		deps.Stamps = &mockIssuer{}
	}
	if deps.Storage == nil {
		deps.Storage = &mockStorage{}
	}
	if deps.Locations == nil {
		deps.Locations = &mockLocations{}
	}
	if deps.Hasher == nil {
		deps.Hasher = &mockHasher{}
	}
	if deps.Sniffer == nil {
		deps.Sniffer = imaging.NewSniffer()
	}
	if deps.Clock == nil {
		deps.Clock = clock.NewMockClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	}
	deps.Log = log

	return NewUserService(deps)
}

func TestRegisterSuccess(t *testing.T) {
	var granted struct {
		name  string
		count int
	}
	svc := newTestService(t, UserServiceDeps{
		Repo: &mockRepository{
			CreateFunc: func(_ context.Context, u domain.User) (int64, error) {
				assert.Equal(t, "alice123", u.Username)
				assert.Equal(t, "hash:pass1234", u.PasswordHash)
				assert.Equal(t, "alice123", u.Nickname)
				return 7, nil
			},
		},
		Stamps: &mockIssuer{
			GrantFunc: func(_ context.Context, userID int64, name string, count int) error {
				assert.Equal(t, int64(7), userID)
				granted.name = name
				granted.count = count
				return nil
			},
		},
	})

	user, err := svc.Register(context.Background(), "alice123", "pass1234")
	require.NoError(t, err)
	assert.Equal(t, int64(7), user.ID)
	assert.Empty(t, user.PasswordHash)
	assert.Equal(t, "China", granted.name)
	assert.Equal(t, 5, granted.count)
}

func TestRegisterMissingCredential(t *testing.T) {
	svc := newTestService(t, UserServiceDeps{})

	_, err := svc.Register(context.Background(), "", "pass1234")
	assert.ErrorIs(t, err, ErrMissingCredential)

	_, err = svc.Register(context.Background(), "alice123", "")
	assert.ErrorIs(t, err, ErrMissingCredential)
}

func TestRegisterInvalidFormat(t *testing.T) {
	svc := newTestService(t, UserServiceDeps{})

	_, err := svc.Register(context.Background(), "ab", "pass1234")
	assert.ErrorIs(t, err, ErrInvalidUsernameFormat)

	_, err = svc.Register(context.Background(), "alice_123", "pass1234")
	assert.ErrorIs(t, err, ErrInvalidUsernameFormat)

	_, err = svc.Register(context.Background(), "alice123", "password")
	assert.ErrorIs(t, err, ErrInvalidPasswordFormat)

	_, err = svc.Register(context.Background(), "alice123", "12345678")
	assert.ErrorIs(t, err, ErrInvalidPasswordFormat)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc := newTestService(t, UserServiceDeps{
		Repo: &mockRepository{
			FindByUsernameFunc: func(_ context.Context, _ string) (domain.User, error) {
				return domain.User{ID: 1, Username: "alice123"}, nil
			},
		},
	})

	_, err := svc.Register(context.Background(), "alice123", "pass1234")
	assert.ErrorIs(t, err, ErrDuplicateAccount)
}

func TestRegisterDuplicateRace(t *testing.T) {
	// The pre-check misses but the insert hits the unique constraint.
	svc := newTestService(t, UserServiceDeps{
		Repo: &mockRepository{
			CreateFunc: func(_ context.Context, _ domain.User) (int64, error) {
				return 0, repository.ErrUsernameAlreadyExists
			},
		},
	})

	_, err := svc.Register(context.Background(), "alice123", "pass1234")
	assert.ErrorIs(t, err, ErrDuplicateAccount)
}

func TestRegisterGrantFailureCompensates(t *testing.T) {
	var deletedID int64
	svc := newTestService(t, UserServiceDeps{
		Repo: &mockRepository{
			CreateFunc: func(_ context.Context, _ domain.User) (int64, error) { return 9, nil },
			DeleteFunc: func(_ context.Context, id int64) error {
				deletedID = id
				return nil
			},
		},
		Stamps: &mockIssuer{
			GrantFunc: func(_ context.Context, _ int64, _ string, _ int) error {
				return errors.New("stamp store down")
			},
		},
	})

	_, err := svc.Register(context.Background(), "alice123", "pass1234")
	assert.ErrorIs(t, err, ErrGrantFailed)
	assert.Equal(t, int64(9), deletedID)
}

func TestAuthenticate(t *testing.T) {
	stored := domain.User{ID: 3, Username: "bob4567", PasswordHash: "hash:secret99"}
	repo := &mockRepository{
		FindByUsernameFunc: func(_ context.Context, username string) (domain.User, error) {
			if username == "bob4567" {
				return stored, nil
			}
			return domain.User{}, repository.ErrUserNotFound
		},
	}
	svc := newTestService(t, UserServiceDeps{Repo: repo})

	user, err := svc.Authenticate(context.Background(), "bob4567", "secret99")
	require.NoError(t, err)
	assert.Equal(t, int64(3), user.ID)
	assert.Empty(t, user.PasswordHash)

	_, err = svc.Authenticate(context.Background(), "bob4567", "wrongpw1")
	assert.ErrorIs(t, err, ErrBadCredential)

	_, err = svc.Authenticate(context.Background(), "nobody99", "secret99")
	assert.ErrorIs(t, err, ErrUnknownAccount)
}

func TestUpdateProfileStripsProtectedFields(t *testing.T) {
	nickname := "Captain"
	word := "sneaky"
	photo := "hijack.png"
	sent := 42

	var persisted domain.ProfilePatch
	svc := newTestService(t, UserServiceDeps{
		Repo: &mockRepository{
			UpdateFunc: func(_ context.Context, _ int64, patch domain.ProfilePatch) error {
				persisted = patch
				return nil
			},
		},
	})

	_, err := svc.UpdateProfile(context.Background(), 1, domain.ProfilePatch{
		Nickname:    &nickname,
		Word:        &word,
		Photo:       &photo,
		LettersSent: &sent,
	})
	require.NoError(t, err)
	assert.NotNil(t, persisted.Nickname)
	assert.Nil(t, persisted.Word)
	assert.Nil(t, persisted.Photo)
	assert.Nil(t, persisted.LettersSent)
}

func TestUpdateProfileEmptyAfterStripIsNoOp(t *testing.T) {
	word := "sneaky"
	updateCalled := false
	svc := newTestService(t, UserServiceDeps{
		Repo: &mockRepository{
			UpdateFunc: func(_ context.Context, _ int64, _ domain.ProfilePatch) error {
				updateCalled = true
				return nil
			},
			FindByIDFunc: func(_ context.Context, id int64) (domain.User, error) {
				return domain.User{ID: id, Username: "carol123"}, nil
			},
		},
	})

	user, err := svc.UpdateProfile(context.Background(), 5, domain.ProfilePatch{Word: &word})
	require.NoError(t, err)
	assert.False(t, updateCalled)
	assert.Equal(t, "carol123", user.Username)
}

func TestUpdateProfileRejectsUnknownCity(t *testing.T) {
	city := "Atlantis"
	svc := newTestService(t, UserServiceDeps{
		Locations: &mockLocations{IsValidFunc: func(string) bool { return false }},
	})

	_, err := svc.UpdateProfile(context.Background(), 1, domain.ProfilePatch{City: &city})
	assert.ErrorIs(t, err, ErrInvalidLocation)
}

func TestUploadAvatarRejectsEmptyAndNonImage(t *testing.T) {
	svc := newTestService(t, UserServiceDeps{})

	_, err := svc.UploadAvatar(context.Background(), 1, "a.jpg", nil)
	assert.ErrorIs(t, err, ErrEmptyFile)

	// Extension claims image, content says otherwise.
	_, err = svc.UploadAvatar(context.Background(), 1, "a.jpg", []byte("plain text"))
	assert.ErrorIs(t, err, ErrNotAnImage)
}

func TestUploadAvatarReplacesOldBlob(t *testing.T) {
	var savedKey, deletedKey, pointedKey string
	svc := newTestService(t, UserServiceDeps{
		Repo: &mockRepository{
			FindByIDFunc: func(_ context.Context, id int64) (domain.User, error) {
				return domain.User{ID: id, Photo: "old-blob.png"}, nil
			},
			UpdatePhotoFunc: func(_ context.Context, _ int64, photo string) error {
				pointedKey = photo
				return nil
			},
		},
		Storage: &mockStorage{
			SaveFunc: func(_ context.Context, key string, _ []byte) (string, error) {
				savedKey = key
				return key, nil
			},
			DeleteFunc: func(_ context.Context, key string) error {
				deletedKey = key
				return nil
			},
		},
	})

	user, err := svc.UploadAvatar(context.Background(), 1, "pic.png", pngBytes)
	require.NoError(t, err)
	assert.NotEmpty(t, savedKey)
	assert.Equal(t, "old-blob.png", deletedKey)
	assert.Equal(t, savedKey, pointedKey)
	assert.Equal(t, savedKey, user.Photo)
	assert.Empty(t, user.PasswordHash)
}

func TestUploadAvatarOldBlobDeleteFailureIsNotFatal(t *testing.T) {
	svc := newTestService(t, UserServiceDeps{
		Repo: &mockRepository{
			FindByIDFunc: func(_ context.Context, id int64) (domain.User, error) {
				return domain.User{ID: id, Photo: "old-blob.png"}, nil
			},
		},
		Storage: &mockStorage{
			DeleteFunc: func(_ context.Context, _ string) error {
				return errors.New("disk error")
			},
		},
	})

	_, err := svc.UploadAvatar(context.Background(), 1, "pic.png", pngBytes)
	assert.NoError(t, err)
}

func TestGetByID(t *testing.T) {
	svc := newTestService(t, UserServiceDeps{
		Repo: &mockRepository{
			FindByIDFunc: func(_ context.Context, id int64) (domain.User, error) {
				if id == 2 {
					return domain.User{ID: 2, Username: "dana1234", PasswordHash: "h"}, nil
				}
				return domain.User{}, repository.ErrUserNotFound
			},
		},
	})

	user, err := svc.GetByID(context.Background(), 2)
	require.NoError(t, err)
	assert.Empty(t, user.PasswordHash)

	_, err = svc.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestReadFailureIsStoreFailure(t *testing.T) {
	ioErr := errors.New("connection reset")
	svc := newTestService(t, UserServiceDeps{
		Repo: &mockRepository{
			FindByIDFunc: func(context.Context, int64) (domain.User, error) {
				return domain.User{}, ioErr
			},
			FindByUsernameFunc: func(context.Context, string) (domain.User, error) {
				return domain.User{}, ioErr
			},
		},
	})

	_, err := svc.GetByID(context.Background(), 2)
	assert.ErrorIs(t, err, ErrStoreFailure)
	assert.NotErrorIs(t, err, ErrUpdateFailed)

	_, err = svc.Authenticate(context.Background(), "alice123", "pass1234")
	assert.ErrorIs(t, err, ErrStoreFailure)

	_, err = svc.Register(context.Background(), "alice123", "pass1234")
	assert.ErrorIs(t, err, ErrStoreFailure)
}

func TestListByPageClampsAndRedacts(t *testing.T) {
	var gotPage, gotSize int
	svc := newTestService(t, UserServiceDeps{
		Repo: &mockRepository{
			ListFunc: func(_ context.Context, page, pageSize int, _ string) (domain.UserPage, error) {
				gotPage, gotSize = page, pageSize
				return domain.UserPage{
					Records:  []domain.User{{ID: 1, PasswordHash: "h1"}, {ID: 2, PasswordHash: "h2"}},
					Total:    2,
					Page:     page,
					PageSize: pageSize,
				}, nil
			},
		},
	})

	result, err := svc.ListByPage(context.Background(), 0, 1000, "")
	require.NoError(t, err)
	assert.Equal(t, 1, gotPage)
	assert.Equal(t, 100, gotSize)
	for _, u := range result.Records {
		assert.Empty(t, u.PasswordHash)
	}
}

func TestDeleteByIDRemovesAvatar(t *testing.T) {
	var deletedBlob string
	svc := newTestService(t, UserServiceDeps{
		Repo: &mockRepository{
			FindByIDFunc: func(_ context.Context, id int64) (domain.User, error) {
				return domain.User{ID: id, Photo: "ava.png"}, nil
			},
		},
		Storage: &mockStorage{
			DeleteFunc: func(_ context.Context, key string) error {
				deletedBlob = key
				return nil
			},
		},
	})

	err := svc.DeleteByID(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, "ava.png", deletedBlob)
}

func TestDeleteByIDUnknownUser(t *testing.T) {
	svc := newTestService(t, UserServiceDeps{
		Repo: &mockRepository{
			FindByIDFunc: func(_ context.Context, _ int64) (domain.User, error) {
				return domain.User{}, repository.ErrUserNotFound
			},
		},
	})

	err := svc.DeleteByID(context.Background(), 4)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
