package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/estermelatii/wishkeeper/internal/common"
	"github.com/estermelatii/wishkeeper/internal/server/models"
	"github.com/estermelatii/wishkeeper/internal/server/services"
	"github.com/shopspring/decimal"
)

const maxImageBytes = 5 << 20

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type updateNameRequest struct {
	Name string `json:"name"`
}

type userResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type profileResponse struct {
	userResponse
	PendingCount int64 `json:"pendingCount"`
	BoughtCount  int64 `json:"boughtCount"`
}

type itemPayload struct {
	Name        string           `json:"name"`
	Price       *decimal.Decimal `json:"price"`
	SavedAmount *decimal.Decimal `json:"savedAmount"`
	Category    *string          `json:"category"`
	TargetDate  *string          `json:"targetDate"`
	ShopURL     *string          `json:"shopUrl"`
	Description *string          `json:"description"`
}

type itemResponse struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	SavedAmount decimal.Decimal  `json:"savedAmount"`
	Category    *string          `json:"category,omitempty"`
	TargetDate  *string          `json:"targetDate,omitempty"`
	ShopURL     *string          `json:"shopUrl,omitempty"`
	Description *string          `json:"description,omitempty"`
	ImageKey    *string          `json:"imageKey,omitempty"`
	Status      string           `json:"status"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

type statsResponse struct {
	TotalPending    int64                      `json:"totalPending"`
	TotalBought     int64                      `json:"totalBought"`
	TotalCancelled  int64                      `json:"totalCancelled"`
	PendingPriceSum decimal.Decimal            `json:"pendingPriceSum"`
	BoughtPriceSum  decimal.Decimal            `json:"boughtPriceSum"`
	CountByCategory map[string]int64           `json:"countByCategory"`
	PriceByCategory map[string]decimal.Decimal `json:"priceByCategory"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

func toItemResponse(item *models.WishlistItem) itemResponse {
	resp := itemResponse{
		ID:          item.ID,
		Name:        item.Name,
		Price:       item.Price,
		SavedAmount: item.SavedAmount,
		Category:    item.Category,
		ShopURL:     item.ShopURL,
		Description: item.Description,
		ImageKey:    item.ImageKey,
		Status:      string(item.Status),
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}
	if item.TargetDate != nil {
		d := item.TargetDate.Format("2006-01-02")
		resp.TargetDate = &d
	}
	return resp
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "name, email and password are required")
		return
	}

	user, err := s.auth.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toUserResponse(user))
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	token, err := s.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	token, _ := bearerToken(r)
	if err := s.auth.Logout(r.Context(), token); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	user := services.UserFromContext(r.Context())

	pending, err := s.wishlist.CountPending(r.Context(), user.ID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	bought, err := s.wishlist.CountBought(r.Context(), user.ID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, profileResponse{
		userResponse: toUserResponse(user),
		PendingCount: pending,
		BoughtCount:  bought,
	})
}

func (s *Server) handleUpdateName(w http.ResponseWriter, r *http.Request) {
	var req updateNameRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	user := services.UserFromContext(r.Context())
	if err := s.auth.UpdateName(r.Context(), user.ID, req.Name); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	user := services.UserFromContext(r.Context())

	items, err := s.wishlist.ListItems(r.Context(), user.ID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	out := make([]itemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, toItemResponse(item))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	form, err := parseItemForm(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	user := services.UserFromContext(r.Context())
	item, err := s.wishlist.AddItem(r.Context(), user.ID, form)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/wishlist/%s", item.ID))
	writeJSON(w, http.StatusCreated, toItemResponse(item))
}

func (s *Server) handleGetItem(w http.ResponseWriter, r *http.Request) {
	user := services.UserFromContext(r.Context())

	item, err := s.wishlist.GetItem(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toItemResponse(item))
}

func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	form, err := parseItemForm(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	user := services.UserFromContext(r.Context())
	id := r.PathValue("id")
	if err := s.wishlist.UpdateItem(r.Context(), user.ID, id, form); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	item, err := s.wishlist.GetItem(r.Context(), user.ID, id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toItemResponse(item))
}

func (s *Server) handleToggleItem(w http.ResponseWriter, r *http.Request) {
	user := services.UserFromContext(r.Context())
	id := r.PathValue("id")

	// scope the id to the caller before mutating
	if _, err := s.wishlist.GetItem(r.Context(), user.ID, id); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if err := s.wishlist.ToggleStatus(r.Context(), id); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	user := services.UserFromContext(r.Context())
	id := r.PathValue("id")

	item, err := s.wishlist.GetItem(r.Context(), user.ID, id)
	if err != nil {
		// absent is already the desired outcome
		if errors.Is(err, common.ErrNotFound) {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		s.writeServiceError(w, r, err)
		return
	}
	if err := s.wishlist.DeleteItem(r.Context(), item.ID); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	user := services.UserFromContext(r.Context())

	stats, err := s.wishlist.Stats(r.Context(), user.ID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, statsResponse{
		TotalPending:    stats.TotalPending,
		TotalBought:     stats.TotalBought,
		TotalCancelled:  stats.TotalCancelled,
		PendingPriceSum: stats.PendingPriceSum,
		BoughtPriceSum:  stats.BoughtPriceSum,
		CountByCategory: stats.CountByCategory,
		PriceByCategory: stats.PriceByCategory,
	})
}

// parseItemForm reads the item fields from either a JSON body or a
// multipart form. Only the multipart variant can carry an image file.
func parseItemForm(r *http.Request) (*services.ItemForm, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	var payload itemPayload
	form := &services.ItemForm{}

	if strings.HasPrefix(mediaType, "multipart/") {
		if err := r.ParseMultipartForm(maxImageBytes); err != nil {
			return nil, fmt.Errorf("invalid multipart form: %w", err)
		}
		if err := payloadFromMultipart(r, &payload); err != nil {
			return nil, err
		}
		file, header, err := r.FormFile("image")
		if err == nil {
			defer file.Close()
			data, err := io.ReadAll(io.LimitReader(file, maxImageBytes+1))
			if err != nil {
				return nil, fmt.Errorf("error reading image: %w", err)
			}
			if len(data) > maxImageBytes {
				return nil, fmt.Errorf("image exceeds %d bytes", maxImageBytes)
			}
			form.Image = data
			form.ImageName = header.Filename
		} else if err != http.ErrMissingFile {
			return nil, fmt.Errorf("invalid image upload: %w", err)
		}
	} else {
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&payload); err != nil {
			return nil, fmt.Errorf("invalid request payload: %w", err)
		}
	}

	if strings.TrimSpace(payload.Name) == "" {
		return nil, fmt.Errorf("name is required")
	}

	form.Name = payload.Name
	form.Price = payload.Price
	form.SavedAmount = payload.SavedAmount
	form.Category = payload.Category
	form.ShopURL = payload.ShopURL
	form.Description = payload.Description

	if payload.TargetDate != nil && *payload.TargetDate != "" {
		d, err := time.Parse("2006-01-02", *payload.TargetDate)
		if err != nil {
			return nil, fmt.Errorf("invalid targetDate, expected YYYY-MM-DD: %w", err)
		}
		form.TargetDate = &d
	}

	return form, nil
}

func payloadFromMultipart(r *http.Request, payload *itemPayload) error {
	payload.Name = r.FormValue("name")

	for field, dst := range map[string]**decimal.Decimal{
		"price":       &payload.Price,
		"savedAmount": &payload.SavedAmount,
	} {
		if v := r.FormValue(field); v != "" {
			d, err := decimal.NewFromString(v)
			if err != nil {
				return fmt.Errorf("invalid %s: %w", field, err)
			}
			*dst = &d
		}
	}

	for field, dst := range map[string]**string{
		"category":    &payload.Category,
		"targetDate":  &payload.TargetDate,
		"shopUrl":     &payload.ShopURL,
		"description": &payload.Description,
	} {
		if v := r.FormValue(field); v != "" {
			s := v
			*dst = &s
		}
	}

	return nil
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid request payload: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeServiceError maps the service error taxonomy onto HTTP statuses.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, common.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, common.ErrAlreadyExists):
		writeError(w, http.StatusConflict, "already exists")
	case errors.Is(err, common.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, common.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	default:
		s.logger.Error(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	}
}
