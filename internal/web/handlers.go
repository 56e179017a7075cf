package web

// handlers.go serves the inventory page and its form actions. Every form
// post redirects back to the page (POST-redirect-GET); results travel as
// flash messages.

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/JonMunkholm/inventory/internal/core"
	"github.com/JonMunkholm/inventory/internal/logging"
	"github.com/JonMunkholm/inventory/internal/web/templates"
)

// handleIndex renders the page for the current filter term.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	view, err := s.ctrl.View(ctx, s.state, r.URL.Query().Get("q"))
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	flashes := s.flashes.take()
	if view.Filtered() && len(view.Visible) == 0 && len(view.All) > 0 {
		flashes = append(flashes, templates.Flash{
			Level:   templates.FlashInfo,
			Message: "No products match the filter, so edit and remove list every product",
			Action:  "Clear the filter to see the whole table",
		})
	}

	// Render into a buffer so a template error can still become a 500.
	var buf bytes.Buffer
	page := templates.Page(templates.PageData{
		Title:      s.cfg.UI.Title,
		View:       view,
		Flashes:    flashes,
		Format:     s.format,
		ExportName: s.exporter.FileName,
	})
	if err := page.Render(ctx, &buf); err != nil {
		s.respondError(w, r, fmt.Errorf("render page: %w", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(buf.Bytes())
}

// handleAdd submits the add form.
func (s *Server) handleAdd(w http.ResponseWriter, r *http.Request) {
	if !s.parseForm(w, r) {
		return
	}

	draft := core.Draft{
		SKU:           r.PostFormValue("sku"),
		Description:   r.PostFormValue("description"),
		Quantity:      r.PostFormValue("quantity"),
		PurchaseValue: r.PostFormValue("purchase_value"),
	}

	out, err := s.ctrl.SubmitAdd(r.Context(), s.state, draft)
	if err != nil {
		s.flashError(err)
		redirectHome(w, r)
		return
	}

	s.flashes.add(templates.Flash{
		Level:   templates.FlashSuccess,
		Message: fmt.Sprintf("Product %s added", out.Product.SKU),
	})
	s.flashUnsaved(out)
	redirectHome(w, r)
}

// handleEdit submits the edit form for the product named by field sku.
func (s *Server) handleEdit(w http.ResponseWriter, r *http.Request) {
	if !s.parseForm(w, r) {
		return
	}

	form := core.EditForm{
		SKU:           r.PostFormValue("sku"),
		Description:   r.PostFormValue("description"),
		Quantity:      r.PostFormValue("quantity"),
		PurchaseValue: r.PostFormValue("purchase_value"),
	}

	out, err := s.ctrl.SubmitEdit(r.Context(), s.state, form)
	if err != nil {
		s.flashError(err)
		redirectHome(w, r)
		return
	}

	s.flashes.add(templates.Flash{
		Level:   templates.FlashSuccess,
		Message: fmt.Sprintf("Product %s updated", out.Product.SKU),
	})
	s.flashUnsaved(out)
	redirectHome(w, r)
}

// handleRemove removes the product named by field sku.
func (s *Server) handleRemove(w http.ResponseWriter, r *http.Request) {
	if !s.parseForm(w, r) {
		return
	}

	out, err := s.ctrl.Remove(r.Context(), s.state, r.PostFormValue("sku"))
	if err != nil {
		s.flashError(err)
		redirectHome(w, r)
		return
	}

	s.flashes.add(templates.Flash{
		Level:   templates.FlashWarning,
		Message: fmt.Sprintf("Product with SKU %s removed from inventory", out.Product.SKU),
	})
	s.flashUnsaved(out)
	redirectHome(w, r)
}

// handleSelect changes the pending edit and/or remove selection.
func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	if !s.parseForm(w, r) {
		return
	}

	err := s.ctrl.Select(r.Context(), s.state, r.PostFormValue("edit_sku"), r.PostFormValue("remove_sku"))
	if err != nil {
		s.flashError(err)
	}
	redirectHome(w, r)
}

// handleSave retries writing the in-memory table.
func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	if !s.parseForm(w, r) {
		return
	}

	if _, err := s.ctrl.Save(r.Context(), s.state); err != nil {
		s.flashError(err)
		redirectHome(w, r)
		return
	}

	s.flashes.add(templates.Flash{
		Level:   templates.FlashSuccess,
		Message: "Inventory saved",
	})
	redirectHome(w, r)
}

// handleExport downloads the full table as a workbook, independent of the
// filter.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	t, err := s.ctrl.Snapshot(ctx, s.state)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	data, err := s.exporter.Export(t)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	logging.FromContext(ctx).Info("inventory exported",
		"products", len(t),
		"bytes", len(data),
	)

	w.Header().Set("Content-Type", s.exporter.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, s.exporter.FileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "no-store")
	w.Write(data)
}

// flashUnsaved reports a change that was kept in memory but not written.
func (s *Server) flashUnsaved(out core.Outcome) {
	if out.Saved() {
		return
	}
	msg := core.MapError(out.SaveErr)
	s.flashes.add(templates.Flash{
		Level:   templates.FlashError,
		Message: "Change kept in memory but not saved: " + msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
	})
}

// parseForm parses the posted form, answering 400 on failure.
func (s *Server) parseForm(w http.ResponseWriter, r *http.Request) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.respondError(w, r, core.ValidationError{Message: "form too large"}, http.StatusRequestEntityTooLarge)
			return false
		}
		s.respondError(w, r, core.ValidationError{Message: "malformed form"}, http.StatusBadRequest)
		return false
	}
	return true
}

// maxFormBytes bounds form and JSON bodies.
const maxFormBytes = 64 << 10

// redirectHome sends the browser back to the page, keeping the filter term
// carried in the posted field q.
func redirectHome(w http.ResponseWriter, r *http.Request) {
	target := "/"
	if q := r.PostFormValue("q"); q != "" {
		target = "/?q=" + url.QueryEscape(q)
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
