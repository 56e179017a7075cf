package core

import (
	"context"
	"errors"
	"strings"

	"github.com/JonMunkholm/inventory/internal/logging"
)

// Store reads and writes the whole product table.
type Store interface {
	Load(ctx context.Context) (Table, error)
	Save(ctx context.Context, t Table) error
	Path() string
}

// Recorder receives action and table observations (metrics).
type Recorder interface {
	ObserveAction(action, result string)
	ObservePersistFailure(op string)
	ObserveTable(count int, items int64, value float64)
}

type nopRecorder struct{}

func (nopRecorder) ObserveAction(string, string)     {}
func (nopRecorder) ObservePersistFailure(string)     {}
func (nopRecorder) ObserveTable(int, int64, float64) {}

// Action names an operation for outcomes, logs and metrics.
type Action string

const (
	ActionAdd    Action = "add"
	ActionEdit   Action = "edit"
	ActionRemove Action = "remove"
	ActionSave   Action = "save"
	ActionSelect Action = "select"
)

// Outcome describes an accepted action. SaveErr is set when the table was
// changed in memory but could not be written; the change is kept and the
// state is marked dirty.
type Outcome struct {
	Action  Action
	Product Product
	SaveErr error
}

// Saved reports whether the action's result reached the backing file.
func (o Outcome) Saved() bool { return o.SaveErr == nil }

// Controller runs the form actions: validate, transform the table, persist,
// refresh derived views. Actions are serialized by an ActionGate.
type Controller struct {
	store Store
	gate  *ActionGate
	rec   Recorder
}

// Option configures a Controller.
type Option func(*Controller)

// WithRecorder sets the metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(c *Controller) {
		if r != nil {
			c.rec = r
		}
	}
}

// WithGate replaces the default action gate.
func WithGate(g *ActionGate) Option {
	return func(c *Controller) {
		if g != nil {
			c.gate = g
		}
	}
}

// NewController creates a controller over store.
func NewController(store Store, opts ...Option) *Controller {
	c := &Controller{
		store: store,
		gate:  NewActionGate(DefaultActionWait),
		rec:   nopRecorder{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Gate exposes the action gate for shutdown and monitoring.
func (c *Controller) Gate() *ActionGate {
	return c.gate
}

// Open loads the backing file into a fresh State.
func (c *Controller) Open(ctx context.Context) (*State, error) {
	t, err := c.store.Load(ctx)
	if err != nil {
		c.rec.ObservePersistFailure("load")
		return nil, err
	}
	st := NewState(t)
	c.observe(st.Table)

	logging.FromContext(ctx).Info("inventory loaded",
		"path", c.store.Path(),
		"products", len(st.Table),
	)
	return st, nil
}

// View computes the derived views for rendering: the filtered rows, the
// summary of the full table and the selectable SKUs. Pending selections are
// constrained to the selectable SKUs.
func (c *Controller) View(ctx context.Context, st *State, term string) (View, error) {
	if err := c.gate.Acquire(ctx); err != nil {
		return View{}, err
	}
	defer c.gate.Release()

	visible := Filter(st.Table, term)
	selectable := SelectableSKUs(st.Table, visible)
	st.Form.ResolveSelections(selectable)

	return View{
		Term:       term,
		All:        st.Table.Clone(),
		Visible:    visible.Clone(),
		Summary:    Summarize(st.Table),
		Selectable: selectable,
		Form:       st.Form,
		Dirty:      st.Dirty,
	}, nil
}

// Snapshot returns a copy of the full table.
func (c *Controller) Snapshot(ctx context.Context, st *State) (Table, error) {
	if err := c.gate.Acquire(ctx); err != nil {
		return nil, err
	}
	defer c.gate.Release()
	return st.Table.Clone(), nil
}

// SubmitAdd records the raw add-form draft, then parses and adds it. The
// draft survives a rejected add and is reset after an accepted one.
func (c *Controller) SubmitAdd(ctx context.Context, st *State, d Draft) (Outcome, error) {
	if err := c.enter(ctx, ActionAdd); err != nil {
		return Outcome{}, err
	}
	defer c.gate.Release()

	st.Form.Draft = d

	in, err := parseDraft(d)
	if err != nil {
		return c.reject(ctx, ActionAdd, err)
	}
	return c.add(ctx, st, in)
}

// Add inserts a product from already-typed input.
func (c *Controller) Add(ctx context.Context, st *State, in ProductInput) (Outcome, error) {
	if err := c.enter(ctx, ActionAdd); err != nil {
		return Outcome{}, err
	}
	defer c.gate.Release()

	return c.add(ctx, st, in)
}

func (c *Controller) add(ctx context.Context, st *State, in ProductInput) (Outcome, error) {
	next, p, err := AddProduct(st.Table, in)
	if err != nil {
		return c.reject(ctx, ActionAdd, err)
	}
	out := c.commit(ctx, st, ActionAdd, next, p)
	st.Form.ResetDraft()
	return out, nil
}

// SubmitEdit parses the raw edit form and applies it.
func (c *Controller) SubmitEdit(ctx context.Context, st *State, f EditForm) (Outcome, error) {
	if err := c.enter(ctx, ActionEdit); err != nil {
		return Outcome{}, err
	}
	defer c.gate.Release()

	st.Form.EditSKU = strings.TrimSpace(f.SKU)

	in, err := parseEditForm(f)
	if err != nil {
		return c.reject(ctx, ActionEdit, err)
	}
	return c.edit(ctx, st, in)
}

// Edit updates an existing product from already-typed input.
func (c *Controller) Edit(ctx context.Context, st *State, in EditInput) (Outcome, error) {
	if err := c.enter(ctx, ActionEdit); err != nil {
		return Outcome{}, err
	}
	defer c.gate.Release()

	return c.edit(ctx, st, in)
}

func (c *Controller) edit(ctx context.Context, st *State, in EditInput) (Outcome, error) {
	next, p, err := EditProduct(st.Table, in)
	if err != nil {
		return c.reject(ctx, ActionEdit, err)
	}
	return c.commit(ctx, st, ActionEdit, next, p), nil
}

// Remove deletes a product and clears selections that referenced it.
func (c *Controller) Remove(ctx context.Context, st *State, sku string) (Outcome, error) {
	if err := c.enter(ctx, ActionRemove); err != nil {
		return Outcome{}, err
	}
	defer c.gate.Release()

	sku = strings.TrimSpace(sku)
	next, p, err := RemoveProduct(st.Table, sku)
	if err != nil {
		return c.reject(ctx, ActionRemove, err)
	}
	out := c.commit(ctx, st, ActionRemove, next, p)
	st.Form.ClearSelection(sku)
	return out, nil
}

// Select records the pending edit/remove selections. Empty values leave the
// corresponding selection untouched; unknown SKUs are rejected.
func (c *Controller) Select(ctx context.Context, st *State, editSKU, removeSKU string) error {
	if err := c.enter(ctx, ActionSelect); err != nil {
		return err
	}
	defer c.gate.Release()

	editSKU = strings.TrimSpace(editSKU)
	removeSKU = strings.TrimSpace(removeSKU)
	for _, sku := range []string{editSKU, removeSKU} {
		if sku != "" && !st.Table.Contains(sku) {
			_, err := c.reject(ctx, ActionSelect, &NotFoundError{SKU: sku})
			return err
		}
	}
	if editSKU != "" {
		st.Form.EditSKU = editSKU
	}
	if removeSKU != "" {
		st.Form.RemoveSKU = removeSKU
	}
	return nil
}

// Save writes the current in-memory table, typically to retry after a failed
// save. The error is the PersistenceError itself.
func (c *Controller) Save(ctx context.Context, st *State) (Outcome, error) {
	if err := c.enter(ctx, ActionSave); err != nil {
		return Outcome{}, err
	}
	defer c.gate.Release()

	if err := c.persist(ctx, st); err != nil {
		c.rec.ObserveAction(string(ActionSave), "unsaved")
		return Outcome{Action: ActionSave, SaveErr: err}, err
	}
	c.rec.ObserveAction(string(ActionSave), "ok")
	return Outcome{Action: ActionSave}, nil
}

// enter acquires the gate, counting a busy rejection.
func (c *Controller) enter(ctx context.Context, action Action) error {
	if err := c.gate.Acquire(ctx); err != nil {
		if errors.Is(err, ErrBusy) {
			c.rec.ObserveAction(string(action), "busy")
		}
		return err
	}
	return nil
}

// commit installs next as the current table and persists it. A failed save
// keeps next in memory and marks the state dirty.
func (c *Controller) commit(ctx context.Context, st *State, action Action, next Table, p Product) Outcome {
	st.Table = next
	c.observe(next)

	out := Outcome{Action: action, Product: p}
	if err := c.persist(ctx, st); err != nil {
		out.SaveErr = err
		c.rec.ObserveAction(string(action), "unsaved")
		return out
	}

	c.rec.ObserveAction(string(action), "ok")
	logging.FromContext(ctx).Info("inventory updated",
		"action", action,
		"sku", p.SKU,
		"products", len(next),
	)
	return out
}

func (c *Controller) persist(ctx context.Context, st *State) error {
	if err := c.store.Save(ctx, st.Table); err != nil {
		st.Dirty = true
		c.rec.ObservePersistFailure("save")
		logging.FromContext(ctx).Warn("inventory not saved",
			"path", c.store.Path(),
			"products", len(st.Table),
			"error", err,
		)
		return err
	}
	st.Dirty = false
	return nil
}

func (c *Controller) reject(ctx context.Context, action Action, err error) (Outcome, error) {
	c.rec.ObserveAction(string(action), "rejected")
	logging.FromContext(ctx).Warn("action rejected",
		"action", action,
		"error", err,
	)
	return Outcome{}, err
}

func (c *Controller) observe(t Table) {
	s := Summarize(t)
	c.rec.ObserveTable(s.Count, s.TotalItems, s.TotalValue.InexactFloat64())
}

func parseDraft(d Draft) (ProductInput, error) {
	qty, err := ParseQuantity(ColQuantity, d.Quantity)
	if err != nil {
		return ProductInput{}, err
	}
	purchase, err := ParseMoney(ColPurchaseValue, d.PurchaseValue)
	if err != nil {
		return ProductInput{}, err
	}
	return ProductInput{
		SKU:           d.SKU,
		Description:   d.Description,
		Quantity:      qty,
		PurchaseValue: purchase,
	}, nil
}

func parseEditForm(f EditForm) (EditInput, error) {
	qty, err := ParseQuantity(ColQuantity, f.Quantity)
	if err != nil {
		return EditInput{}, err
	}
	purchase, err := ParseMoney(ColPurchaseValue, f.PurchaseValue)
	if err != nil {
		return EditInput{}, err
	}
	return EditInput{
		SKU:           f.SKU,
		Description:   f.Description,
		Quantity:      qty,
		PurchaseValue: purchase,
	}, nil
}
