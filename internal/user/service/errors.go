package service

import (
	"net/http"

	commonerrors "github.com/verygoodisland/backend/internal/common/errors"
)

var (
	ErrMissingCredential = commonerrors.NewDomainError(
		"MISSING_CREDENTIAL",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		"username and password are required",
	)

	ErrInvalidUsernameFormat = commonerrors.NewDomainError(
		"INVALID_USERNAME_FORMAT",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		"username must be 4-16 letters or digits",
	)

	ErrInvalidPasswordFormat = commonerrors.NewDomainError(
		"INVALID_PASSWORD_FORMAT",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		"password must be 6-16 letters and digits with at least one of each",
	)

	ErrDuplicateAccount = commonerrors.NewDomainError(
		"DUPLICATE_ACCOUNT",
		commonerrors.CategoryConflict,
		http.StatusConflict,
		"username is already taken",
	)

	ErrUnknownAccount = commonerrors.NewDomainError(
		"UNKNOWN_ACCOUNT",
		commonerrors.CategoryNotFound,
		http.StatusNotFound,
		"account does not exist",
	)

	ErrUserNotFound = commonerrors.NewDomainError(
		"USER_NOT_FOUND",
		commonerrors.CategoryNotFound,
		http.StatusNotFound,
		"user not found",
	)

	ErrBadCredential = commonerrors.NewDomainError(
		"BAD_CREDENTIAL",
		commonerrors.CategoryUnauthorized,
		http.StatusUnauthorized,
		"wrong username or password",
	)

	ErrInvalidLocation = commonerrors.NewDomainError(
		"INVALID_LOCATION",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		"unknown city",
	)

	ErrEmptyFile = commonerrors.NewDomainError(
		"EMPTY_FILE",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		"uploaded file is empty",
	)

	ErrNotAnImage = commonerrors.NewDomainError(
		"NOT_AN_IMAGE",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		"uploaded file is not an image",
	)

	ErrUpdateFailed = commonerrors.NewDomainError(
		"UPDATE_FAILED",
		commonerrors.CategoryInternal,
		http.StatusInternalServerError,
		"failed to update user",
	)

	ErrStoreFailure = commonerrors.NewDomainError(
		"STORE_FAILURE",
		commonerrors.CategoryInternal,
		http.StatusInternalServerError,
		"account store operation failed",
	)

	ErrStorageFailure = commonerrors.NewDomainError(
		"STORAGE_FAILURE",
		commonerrors.CategoryInternal,
		http.StatusInternalServerError,
		"failed to store file",
	)

	ErrGrantFailed = commonerrors.NewDomainError(
		"STAMP_GRANT_FAILED",
		commonerrors.CategoryInternal,
		http.StatusInternalServerError,
		"failed to issue starter stamps",
	)
)
