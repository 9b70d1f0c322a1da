package http

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/verygoodisland/backend/internal/common/clock"
	"github.com/verygoodisland/backend/internal/common/constants"
	commonhttp "github.com/verygoodisland/backend/internal/common/http"
	"github.com/verygoodisland/backend/internal/common/jwtauth"
	"github.com/verygoodisland/backend/internal/common/logger"
	stampdomain "github.com/verygoodisland/backend/internal/stamp/domain"
	"github.com/verygoodisland/backend/internal/user/domain"
	"github.com/verygoodisland/backend/internal/user/service"
)

// StampLister reads the stamps owned by an account.
type StampLister interface {
	ListByUser(ctx context.Context, userID int64) ([]stampdomain.Stamp, error)
}

type registerRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type updateProfileRequest struct {
	Nickname *string `json:"nickname" validate:"omitempty,max=64"`
	City     *string `json:"city" validate:"omitempty,max=64"`
}

type userResponse struct {
	ID              int64     `json:"id"`
	Username        string    `json:"username"`
	Nickname        string    `json:"nickname"`
	City            string    `json:"city"`
	Photo           string    `json:"photo"`
	Word            string    `json:"word"`
	LettersSent     int       `json:"letters_sent"`
	LettersReceived int       `json:"letters_received"`
	CreatedAt       time.Time `json:"created_at"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

type pageResponse struct {
	Records  []userResponse `json:"records"`
	Total    int64          `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
}

type stampResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Config carries the handler's cross cutting settings.
type Config struct {
	JWTSecret      string
	SessionTTL     time.Duration
	RequestTimeout time.Duration
	UploadTimeout  time.Duration
}

type Handler struct {
	users    *service.UserService
	stamps   StampLister
	log      *logger.Logger
	validate *validator.Validate
	clk      clock.Clock
	cfg      Config
}

func NewHandler(users *service.UserService, stamps StampLister, clk clock.Clock, log *logger.Logger, cfg Config) http.Handler {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = constants.DefaultRequestTimeout
	}
	if cfg.UploadTimeout <= 0 {
		cfg.UploadTimeout = constants.DefaultUploadTimeout
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = constants.DefaultSessionTTL
	}

	h := &Handler{
		users:    users,
		stamps:   stamps,
		log:      log,
		validate: validator.New(),
		clk:      clk,
		cfg:      cfg,
	}

	auth := jwtauth.Middleware(cfg.JWTSecret, log)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/users", h.register)
	mux.HandleFunc("POST /api/v1/users/login", h.login)
	mux.HandleFunc("GET /api/v1/users", h.list)
	mux.HandleFunc("GET /api/v1/users/{id}", h.getByID)
	mux.Handle("PUT /api/v1/users/me", auth(http.HandlerFunc(h.updateProfile)))
	mux.Handle("GET /api/v1/users/me/stamps", auth(http.HandlerFunc(h.listStamps)))
	mux.Handle("POST /api/v1/users/me/avatar", auth(http.HandlerFunc(h.uploadAvatar)))
	mux.Handle("DELETE /api/v1/users/{id}", auth(http.HandlerFunc(h.deleteByID)))
	return mux
}

func toUserResponse(u domain.User) userResponse {
	return userResponse{
		ID:              u.ID,
		Username:        u.Username,
		Nickname:        u.Nickname,
		City:            u.City,
		Photo:           u.Photo,
		Word:            u.Word,
		LettersSent:     u.LettersSent,
		LettersReceived: u.LettersReceived,
		CreatedAt:       u.CreatedAt,
	}
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := commonhttp.DecodeJSON(r, v); err != nil {
		h.log.Warnf("%s %s: invalid json: %v", r.Method, r.URL.Path, err)
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeInvalidJSON, "invalid json", commonhttp.TraceIDFromContext(r.Context()))
		return false
	}
	if err := h.validate.Struct(v); err != nil {
		h.log.Warnf("%s %s: invalid request: %v", r.Method, r.URL.Path, err)
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeBadRequest, "invalid request", commonhttp.TraceIDFromContext(r.Context()))
		return false
	}
	return true
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !h.decode(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.cfg.RequestTimeout)
	defer cancel()

	user, err := h.users.Register(ctx, req.Username, req.Password)
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteJSON(w, http.StatusCreated, toUserResponse(user))
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !h.decode(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.cfg.RequestTimeout)
	defer cancel()

	user, err := h.users.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	token, err := jwtauth.IssueToken(user.ID, user.Username, []byte(h.cfg.JWTSecret), h.cfg.SessionTTL, h.clk.Now())
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, loginResponse{
		Token: token,
		User:  toUserResponse(user),
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page := queryInt(query.Get("page"), 1)
	pageSize := queryInt(query.Get("page_size"), constants.DefaultListPageSize)
	factor := query.Get("factor")

	ctx, cancel := context.WithTimeout(r.Context(), h.cfg.RequestTimeout)
	defer cancel()

	result, err := h.users.ListByPage(ctx, page, pageSize, factor)
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	records := make([]userResponse, 0, len(result.Records))
	for _, u := range result.Records {
		records = append(records, toUserResponse(u))
	}

	commonhttp.WriteJSON(w, http.StatusOK, pageResponse{
		Records:  records,
		Total:    result.Total,
		Page:     result.Page,
		PageSize: result.PageSize,
	})
}

func (h *Handler) getByID(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.cfg.RequestTimeout)
	defer cancel()

	user, err := h.users.GetByID(ctx, id)
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, toUserResponse(user))
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := jwtauth.FromContext(r.Context())
	if !ok {
		commonhttp.WriteErrorEnvelope(w, http.StatusUnauthorized, commonhttp.CodeMissingAuth, "missing or invalid authorization", commonhttp.TraceIDFromContext(r.Context()))
		return
	}

	var req updateProfileRequest
	if !h.decode(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.cfg.RequestTimeout)
	defer cancel()

	user, err := h.users.UpdateProfile(ctx, claims.UserID, domain.ProfilePatch{
		Nickname: req.Nickname,
		City:     req.City,
	})
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, toUserResponse(user))
}

func (h *Handler) listStamps(w http.ResponseWriter, r *http.Request) {
	claims, ok := jwtauth.FromContext(r.Context())
	if !ok {
		commonhttp.WriteErrorEnvelope(w, http.StatusUnauthorized, commonhttp.CodeMissingAuth, "missing or invalid authorization", commonhttp.TraceIDFromContext(r.Context()))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.cfg.RequestTimeout)
	defer cancel()

	stamps, err := h.stamps.ListByUser(ctx, claims.UserID)
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	records := make([]stampResponse, 0, len(stamps))
	for _, s := range stamps {
		records = append(records, stampResponse{ID: s.ID, Name: s.Name, CreatedAt: s.CreatedAt})
	}

	commonhttp.WriteJSON(w, http.StatusOK, records)
}

func (h *Handler) uploadAvatar(w http.ResponseWriter, r *http.Request) {
	claims, ok := jwtauth.FromContext(r.Context())
	if !ok {
		commonhttp.WriteErrorEnvelope(w, http.StatusUnauthorized, commonhttp.CodeMissingAuth, "missing or invalid authorization", commonhttp.TraceIDFromContext(r.Context()))
		return
	}

	if err := r.ParseMultipartForm(constants.MaxAvatarSizeBytes); err != nil {
		h.log.Warnf("avatar upload: bad multipart form: %v", err)
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeBadRequest, "invalid multipart form", commonhttp.TraceIDFromContext(r.Context()))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.log.Warnf("avatar upload: missing file part: %v", err)
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeBadRequest, "file part is required", commonhttp.TraceIDFromContext(r.Context()))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, constants.MaxAvatarSizeBytes+1))
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}
	if len(data) > constants.MaxAvatarSizeBytes {
		commonhttp.WriteErrorEnvelope(w, http.StatusRequestEntityTooLarge, commonhttp.CodeBodyTooLarge, "file too large", commonhttp.TraceIDFromContext(r.Context()))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.cfg.UploadTimeout)
	defer cancel()

	user, err := h.users.UploadAvatar(ctx, claims.UserID, header.Filename, data)
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, toUserResponse(user))
}

func (h *Handler) deleteByID(w http.ResponseWriter, r *http.Request) {
	if _, ok := jwtauth.FromContext(r.Context()); !ok {
		commonhttp.WriteErrorEnvelope(w, http.StatusUnauthorized, commonhttp.CodeMissingAuth, "missing or invalid authorization", commonhttp.TraceIDFromContext(r.Context()))
		return
	}

	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.cfg.RequestTimeout)
	defer cancel()

	if err := h.users.DeleteByID(ctx, id); err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeInvalidUserID, "invalid user id", commonhttp.TraceIDFromContext(r.Context()))
		return 0, false
	}
	return id, true
}

func queryInt(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

