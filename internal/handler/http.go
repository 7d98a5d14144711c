package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"petShop/internal/domain"
	"petShop/internal/handler/mw"
	"petShop/internal/metrics"
	"petShop/internal/usecase"
)

type Handler struct {
	service *usecase.Service
	auth    *mw.Auth
	limiter *mw.RateLimiter
	log     zerolog.Logger
}

func NewHandler(service *usecase.Service, auth *mw.Auth, limiter *mw.RateLimiter, log zerolog.Logger) *Handler {
	return &Handler{service: service, auth: auth, limiter: limiter, log: log}
}

func (h *Handler) Register(r chi.Router) {
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(hlog.NewHandler(h.log))
	r.Use(hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("request")
	}))
	r.Use(metrics.InstrumentHandler)

	r.Get("/", h.rootHandler)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.With(h.limiter.Handler).Post("/api/auth", h.authenticate)

	r.Group(func(r chi.Router) {
		r.Use(h.auth.Middleware)
		r.Use(h.limiter.Handler)

		r.Get("/api/info", h.getInfo)
		r.Get("/api/items", h.listItems)
		r.Post("/api/buy/{itemID}", h.buyItem)
		r.Get("/api/inventory", h.listInventory)
		r.Post("/api/inventory/{entryID}/use", h.useItem)
		r.Get("/api/pets", h.listPets)
		r.Post("/api/pets", h.createPet)
		r.Get("/api/pets/{petID}", h.getPet)
		r.Post("/api/pets/{petID}/feed", h.feedPet)
	})
}

func (h *Handler) rootHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(`
<html>
<head>
  <title>Pet Shop</title>
</head>
<body style="font-family: sans-serif;">
  <h1>Welcome to the Pet Shop</h1>
  <p>Available endpoints:</p>
  <ul>
    <li>Sign in or register: <strong>POST /api/auth</strong></li>
    <li>Coins, inventory, pets and purchases: <strong>GET /api/info</strong></li>
    <li>Shop catalog: <strong>GET /api/items</strong></li>
    <li>Buy an item: <strong>POST /api/buy/{itemID}</strong> with <code>{"quantity": n}</code></li>
    <li>Inventory: <strong>GET /api/inventory?filter=food|toy|health|happiness|energy</strong></li>
    <li>Use an item on a pet: <strong>POST /api/inventory/{entryID}/use</strong> with <code>{"petId": n}</code></li>
    <li>Pets: <strong>GET /api/pets</strong>, <strong>POST /api/pets</strong>, <strong>GET /api/pets/{petID}</strong></li>
    <li>Feed a pet: <strong>POST /api/pets/{petID}/feed</strong> with <code>{"itemId": n}</code></li>
  </ul>
  <p>Every /api endpoint except auth needs the header
    <code>Authorization: Bearer &lt;token&gt;</code>
  </p>
</body>
</html>
`))
}

type authRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string `json:"token"`
}

func (h *Handler) authenticate(w http.ResponseWriter, r *http.Request) {
	var req authRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "bad request")
		return
	}
	user, err := h.service.RegisterOrLogin(r.Context(), req.Username, req.Password)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	token, err := h.auth.IssueToken(user.ID, user.Username)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, authResponse{Token: token})
}

func (h *Handler) getInfo(w http.ResponseWriter, r *http.Request) {
	info, err := h.service.GetInfo(r.Context(), mw.UserID(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (h *Handler) listItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListItems(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if items == nil {
		items = []domain.Item{}
	}
	writeJSON(w, http.StatusOK, items)
}

type buyRequest struct {
	Quantity int `json:"quantity"`
}

type buyResponse struct {
	ID       int `json:"id"`
	ItemID   int `json:"itemId"`
	Quantity int `json:"quantity"`
	Amount   int `json:"amount"`
}

func (h *Handler) buyItem(w http.ResponseWriter, r *http.Request) {
	itemID, ok := pathID(w, r, "itemID")
	if !ok {
		return
	}
	req := buyRequest{Quantity: 1}
	if !decodeOptional(w, r, &req) {
		return
	}

	p, err := h.service.Purchase(r.Context(), mw.UserID(r.Context()), itemID, req.Quantity)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, buyResponse{ID: p.ID, ItemID: p.ItemID, Quantity: p.Quantity, Amount: p.Amount})
}

func (h *Handler) listInventory(w http.ResponseWriter, r *http.Request) {
	filter, err := domain.ParseInventoryFilter(r.URL.Query().Get("filter"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	entries, err := h.service.Inventory(r.Context(), mw.UserID(r.Context()), filter)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if entries == nil {
		entries = []domain.InventoryEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

type useRequest struct {
	PetID int `json:"petId"`
}

func (h *Handler) useItem(w http.ResponseWriter, r *http.Request) {
	entryID, ok := pathID(w, r, "entryID")
	if !ok {
		return
	}
	var req useRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PetID <= 0 {
		writeError(w, http.StatusBadRequest, "petId is required")
		return
	}

	pet, err := h.service.UseItem(r.Context(), mw.UserID(r.Context()), entryID, req.PetID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pet)
}

type createPetRequest struct {
	Name    string `json:"name"`
	Species string `json:"species"`
}

func (h *Handler) createPet(w http.ResponseWriter, r *http.Request) {
	var req createPetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad request")
		return
	}
	pet, err := h.service.CreatePet(r.Context(), mw.UserID(r.Context()), req.Name, req.Species)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, pet)
}

func (h *Handler) listPets(w http.ResponseWriter, r *http.Request) {
	pets, err := h.service.ListPets(r.Context(), mw.UserID(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if pets == nil {
		pets = []domain.Pet{}
	}
	writeJSON(w, http.StatusOK, pets)
}

func (h *Handler) getPet(w http.ResponseWriter, r *http.Request) {
	petID, ok := pathID(w, r, "petID")
	if !ok {
		return
	}
	pet, err := h.service.GetPet(r.Context(), mw.UserID(r.Context()), petID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pet)
}

type feedRequest struct {
	ItemID int `json:"itemId"`
}

type feedResponse struct {
	Fed bool        `json:"fed"`
	Pet *domain.Pet `json:"pet"`
}

func (h *Handler) feedPet(w http.ResponseWriter, r *http.Request) {
	petID, ok := pathID(w, r, "petID")
	if !ok {
		return
	}
	var req feedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ItemID <= 0 {
		writeError(w, http.StatusBadRequest, "itemId is required")
		return
	}

	userID := mw.UserID(r.Context())
	fed, err := h.service.Feed(r.Context(), userID, petID, req.ItemID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	pet, err := h.service.GetPet(r.Context(), userID, petID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, feedResponse{Fed: fed, Pet: pet})
}

// fail maps service errors onto HTTP statuses. Anything unrecognised is
// logged and reported as an internal error.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		hlog.FromRequest(r).Error().Stack().Err(err).Msg("request failed")
		writeError(w, status, "internal error")
		return
	}
	writeError(w, status, err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, usecase.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, usecase.ErrUserNotFound),
		errors.Is(err, usecase.ErrItemNotFound),
		errors.Is(err, usecase.ErrPetNotFound),
		errors.Is(err, usecase.ErrEntryNotFound):
		return http.StatusNotFound
	case errors.Is(err, usecase.ErrWeakPassword),
		errors.Is(err, usecase.ErrNotEnoughCoins),
		errors.Is(err, usecase.ErrInsufficientQuantity),
		errors.Is(err, usecase.ErrInvalidAmount),
		errors.Is(err, usecase.ErrInvalidPet),
		errors.Is(err, usecase.ErrInvalidItem),
		errors.Is(err, domain.ErrUnknownFilter):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return id, true
}

// decodeOptional decodes a JSON body into v, leaving v as is when the body is
// empty.
func decodeOptional(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	writeError(w, http.StatusBadRequest, "bad request")
	return false
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"errors": msg})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
