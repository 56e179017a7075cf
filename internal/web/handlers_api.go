package web

// handlers_api.go exposes the same actions as the page as a JSON API. The
// API never touches the page's form state: no draft, no selections.

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/JonMunkholm/inventory/internal/core"
)

// productRequest is the body of POST /api/products and PUT /api/products/{sku}.
// On PUT the SKU comes from the path.
type productRequest struct {
	SKU           string          `json:"sku"`
	Description   string          `json:"description"`
	Quantity      int             `json:"quantity"`
	PurchaseValue decimal.Decimal `json:"purchaseValue"`
}

// ProductListResponse is the body of GET /api/products.
type ProductListResponse struct {
	Term     string         `json:"term,omitempty"`
	Products []core.Product `json:"products"`
	Showing  int            `json:"showing"`
	Total    int            `json:"total"`
}

// ActionResponse reports an accepted mutation. Saved is false when the change
// is only held in memory; Warning then carries the mapped save error.
type ActionResponse struct {
	Action  core.Action    `json:"action"`
	Product *core.Product  `json:"product,omitempty"`
	Saved   bool           `json:"saved"`
	Warning *ErrorResponse `json:"warning,omitempty"`
}

func newActionResponse(out core.Outcome) ActionResponse {
	resp := ActionResponse{Action: out.Action, Saved: out.Saved()}
	if out.Product.SKU != "" {
		p := out.Product
		resp.Product = &p
	}
	if !out.Saved() {
		warn := newErrorResponse(out.SaveErr)
		resp.Warning = &warn
	}
	return resp
}

// apiListProducts returns the rows matching ?q= plus the counts for
// "showing X of Y".
func (s *Server) apiListProducts(w http.ResponseWriter, r *http.Request) {
	t, err := s.ctrl.Snapshot(r.Context(), s.state)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	term := r.URL.Query().Get("q")
	visible := core.Filter(t, term)
	writeJSON(w, http.StatusOK, ProductListResponse{
		Term:     term,
		Products: visible,
		Showing:  len(visible),
		Total:    len(t),
	})
}

// apiSummary returns the aggregates of the full table.
func (s *Server) apiSummary(w http.ResponseWriter, r *http.Request) {
	t, err := s.ctrl.Snapshot(r.Context(), s.state)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, core.Summarize(t))
}

func (s *Server) apiAddProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	out, err := s.ctrl.Add(r.Context(), s.state, core.ProductInput{
		SKU:           req.SKU,
		Description:   req.Description,
		Quantity:      req.Quantity,
		PurchaseValue: req.PurchaseValue,
	})
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, http.StatusCreated, newActionResponse(out))
}

func (s *Server) apiEditProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	sku := chi.URLParam(r, "sku")
	if req.SKU != "" && strings.TrimSpace(req.SKU) != strings.TrimSpace(sku) {
		err := core.ValidationError{Value: req.SKU, Message: "SKU in the body does not match the URL"}
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	out, err := s.ctrl.Edit(r.Context(), s.state, core.EditInput{
		SKU:           sku,
		Description:   req.Description,
		Quantity:      req.Quantity,
		PurchaseValue: req.PurchaseValue,
	})
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, newActionResponse(out))
}

func (s *Server) apiRemoveProduct(w http.ResponseWriter, r *http.Request) {
	out, err := s.ctrl.Remove(r.Context(), s.state, chi.URLParam(r, "sku"))
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, newActionResponse(out))
}

func (s *Server) apiSave(w http.ResponseWriter, r *http.Request) {
	out, err := s.ctrl.Save(r.Context(), s.state)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, newActionResponse(out))
}

// decodeJSON reads a single JSON object into v. Malformed bodies come back as
// a ValidationError so they map to 400.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return core.ValidationError{Message: "request body too large"}
		case errors.Is(err, io.EOF):
			return core.ValidationError{Message: "request body is empty"}
		default:
			return core.ValidationError{Message: fmt.Sprintf("invalid JSON: %v", err)}
		}
	}
	if dec.More() {
		return core.ValidationError{Message: "request body must hold a single JSON object"}
	}
	return nil
}
