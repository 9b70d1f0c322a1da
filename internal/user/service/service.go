package service

import (
	"context"
	"errors"

	"github.com/verygoodisland/backend/internal/common/clock"
	"github.com/verygoodisland/backend/internal/common/constants"
	"github.com/verygoodisland/backend/internal/common/crypto"
	"github.com/verygoodisland/backend/internal/common/logger"
	"github.com/verygoodisland/backend/internal/imaging"
	"github.com/verygoodisland/backend/internal/location"
	"github.com/verygoodisland/backend/internal/observability/metrics"
	stampservice "github.com/verygoodisland/backend/internal/stamp/service"
	"github.com/verygoodisland/backend/internal/storage"
	"github.com/verygoodisland/backend/internal/user/domain"
	"github.com/verygoodisland/backend/internal/user/repository"
)

// UserServiceDeps carries every collaborator the service needs. All fields
// are required.
type UserServiceDeps struct {
	Repo      repository.Repository
	Stamps    stampservice.Issuer
	Storage   storage.Storage
	Locations location.Validator
	Hasher    crypto.PasswordHasher
	Sniffer   *imaging.Sniffer
	Clock     clock.Clock
	Log       *logger.Logger

	StarterStampName  string
	StarterStampCount int
}

type UserService struct {
	deps UserServiceDeps
}

func NewUserService(deps UserServiceDeps) *UserService {
	if deps.StarterStampName == "" {
		deps.StarterStampName = constants.StarterStampName
	}
	if deps.StarterStampCount <= 0 {
		deps.StarterStampCount = constants.StarterStampCount
	}
	return &UserService{deps: deps}
}

// Register creates a new account and grants it the starter stamp set. The
// returned user is redacted. When the starter grant fails the half-created
// account is removed so a retry with the same username can succeed.
func (s *UserService) Register(ctx context.Context, username, password string) (domain.User, error) {
	if username == "" || password == "" {
		return domain.User{}, ErrMissingCredential
	}
	if err := ValidateUsername(username); err != nil {
		return domain.User{}, err
	}
	if err := ValidatePassword(password); err != nil {
		return domain.User{}, err
	}

	if _, err := s.deps.Repo.FindByUsername(ctx, username); err == nil {
		return domain.User{}, ErrDuplicateAccount
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return domain.User{}, ErrStoreFailure.WithCause(err)
	}

	hash, err := s.deps.Hasher.Hash(password)
	if err != nil {
		return domain.User{}, ErrStoreFailure.WithCause(err)
	}

	user := domain.User{
		Username:     username,
		PasswordHash: hash,
		Nickname:     username,
		CreatedAt:    s.deps.Clock.Now(),
	}

	id, err := s.deps.Repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrUsernameAlreadyExists) {
			return domain.User{}, ErrDuplicateAccount
		}
		return domain.User{}, ErrStoreFailure.WithCause(err)
	}
	user.ID = id

	if err := s.deps.Stamps.Grant(ctx, id, s.deps.StarterStampName, s.deps.StarterStampCount); err != nil {
		s.deps.Log.WithFields(ctx, logger.Fields{"user_id": id}).
			Errorf("starter stamp grant failed, removing account: %v", err)
		if delErr := s.deps.Repo.Delete(ctx, id); delErr != nil {
			s.deps.Log.WithFields(ctx, logger.Fields{"user_id": id}).
				Errorf("compensating delete failed: %v", delErr)
		}
		return domain.User{}, ErrGrantFailed.WithCause(err)
	}

	metrics.UsersRegisteredTotal.Inc()
	s.deps.Log.WithFields(ctx, logger.Fields{"user_id": id, "username": username}).
		Info("user registered")

	return user.Redacted(), nil
}

// Authenticate verifies a username and password pair and returns the
// redacted account on success. An unknown username and a wrong password are
// distinguishable to the caller: the first is a lookup miss, the second a
// credential failure.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (domain.User, error) {
	if username == "" || password == "" {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return domain.User{}, ErrMissingCredential
	}

	user, err := s.deps.Repo.FindByUsername(ctx, username)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		if errors.Is(err, repository.ErrUserNotFound) {
			return domain.User{}, ErrUnknownAccount
		}
		return domain.User{}, ErrStoreFailure.WithCause(err)
	}

	if err := s.deps.Hasher.Compare(user.PasswordHash, password); err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return domain.User{}, ErrBadCredential
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return user.Redacted(), nil
}

// UpdateProfile applies a caller-supplied patch to the given account. Word,
// Photo and the letter counters are stripped before persisting: Photo is
// owned by UploadAvatar and the rest by the letter subsystem. A patch left
// empty after stripping is a successful no-op.
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, patch domain.ProfilePatch) (domain.User, error) {
	patch.Word = nil
	patch.Photo = nil
	patch.LettersSent = nil
	patch.LettersReceived = nil

	if patch.City != nil && *patch.City != "" && !s.deps.Locations.IsValid(*patch.City) {
		return domain.User{}, ErrInvalidLocation
	}

	if !patch.IsEmpty() {
		if err := s.deps.Repo.Update(ctx, userID, patch); err != nil {
			if errors.Is(err, repository.ErrUserNotFound) || errors.Is(err, repository.ErrNoRowsAffected) {
				return domain.User{}, ErrUserNotFound
			}
			return domain.User{}, ErrUpdateFailed.WithCause(err)
		}
	}

	user, err := s.deps.Repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, ErrStoreFailure.WithCause(err)
	}
	return user.Redacted(), nil
}

// UploadAvatar validates the upload by content, commits the new blob, then
// flips the account's photo pointer. The old blob is deleted best effort
// after the new one is durable; a failed delete is logged, not surfaced.
func (s *UserService) UploadAvatar(ctx context.Context, userID int64, filename string, data []byte) (domain.User, error) {
	if len(data) == 0 {
		metrics.AvatarUploadsTotal.WithLabelValues("rejected").Inc()
		return domain.User{}, ErrEmptyFile
	}
	if !s.deps.Sniffer.IsImage(data) {
		metrics.AvatarUploadsTotal.WithLabelValues("rejected").Inc()
		return domain.User{}, ErrNotAnImage
	}

	current, err := s.deps.Repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, ErrStoreFailure.WithCause(err)
	}

	key := storage.NewObjectKey(filename)
	stored, err := s.deps.Storage.Save(ctx, key, data)
	if err != nil {
		metrics.AvatarUploadsTotal.WithLabelValues("failure").Inc()
		return domain.User{}, ErrStorageFailure.WithCause(err)
	}

	if current.Photo != "" && current.Photo != stored {
		if delErr := s.deps.Storage.Delete(ctx, current.Photo); delErr != nil && !errors.Is(delErr, storage.ErrBlobNotFound) {
			s.deps.Log.WithFields(ctx, logger.Fields{"user_id": userID, "blob": current.Photo}).
				Warnf("previous avatar not deleted: %v", delErr)
		}
	}

	if err := s.deps.Repo.UpdatePhoto(ctx, userID, stored); err != nil {
		metrics.AvatarUploadsTotal.WithLabelValues("failure").Inc()
		if errors.Is(err, repository.ErrUserNotFound) || errors.Is(err, repository.ErrNoRowsAffected) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, ErrUpdateFailed.WithCause(err)
	}

	metrics.AvatarUploadsTotal.WithLabelValues("success").Inc()
	current.Photo = stored
	return current.Redacted(), nil
}

func (s *UserService) GetByID(ctx context.Context, userID int64) (domain.User, error) {
	user, err := s.deps.Repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, ErrStoreFailure.WithCause(err)
	}
	return user.Redacted(), nil
}

// ListByPage returns one page of accounts, optionally filtered by a
// substring match on username or nickname. Page numbers start at 1; out of
// range sizes are clamped.
func (s *UserService) ListByPage(ctx context.Context, page, pageSize int, factor string) (domain.UserPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = constants.DefaultListPageSize
	}
	if pageSize > constants.MaxListPageSize {
		pageSize = constants.MaxListPageSize
	}

	result, err := s.deps.Repo.List(ctx, page, pageSize, factor)
	if err != nil {
		return domain.UserPage{}, ErrStoreFailure.WithCause(err)
	}
	for i := range result.Records {
		result.Records[i] = result.Records[i].Redacted()
	}
	return result, nil
}

func (s *UserService) DeleteByID(ctx context.Context, userID int64) error {
	user, err := s.deps.Repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return ErrStoreFailure.WithCause(err)
	}

	if err := s.deps.Repo.Delete(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) || errors.Is(err, repository.ErrNoRowsAffected) {
			return ErrUserNotFound
		}
		return ErrStoreFailure.WithCause(err)
	}

	if user.Photo != "" {
		if delErr := s.deps.Storage.Delete(ctx, user.Photo); delErr != nil && !errors.Is(delErr, storage.ErrBlobNotFound) {
			s.deps.Log.WithFields(ctx, logger.Fields{"user_id": userID, "blob": user.Photo}).
				Warnf("avatar not deleted with account: %v", delErr)
		}
	}

	s.deps.Log.WithFields(ctx, logger.Fields{"user_id": userID}).Info("user deleted")
	return nil
}
