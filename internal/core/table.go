package core

// table.go holds the pure table transforms behind the form actions.
//
// Each transform takes the current table and validated input and returns a new
// table; the input table is never modified, so a rejected action or a failed
// save leaves the caller's state exactly as it was.

// AddProduct appends a new product. It fails with ValidationError for bad
// input and DuplicateKeyError when the SKU is already present.
func AddProduct(t Table, in ProductInput) (Table, Product, error) {
	if err := ValidateProductInput(&in); err != nil {
		return t, Product{}, err
	}
	if t.Contains(in.SKU) {
		return t, Product{}, &DuplicateKeyError{SKU: in.SKU}
	}

	p := NewProduct(in.SKU, in.Description, in.Quantity, in.PurchaseValue)
	next := make(Table, len(t), len(t)+1)
	copy(next, t)
	next = append(next, p)
	return next, p, nil
}

// EditProduct replaces description, quantity and purchase value of every row
// with the target SKU and recomputes their totals. The SKU is not editable.
func EditProduct(t Table, in EditInput) (Table, Product, error) {
	if err := ValidateEditInput(&in); err != nil {
		return t, Product{}, err
	}
	if !t.Contains(in.SKU) {
		return t, Product{}, &NotFoundError{SKU: in.SKU}
	}

	next := t.Clone()
	var updated Product
	for i := range next {
		if next[i].SKU != in.SKU {
			continue
		}
		next[i].Description = in.Description
		next[i].Quantity = in.Quantity
		next[i].PurchaseValue = in.PurchaseValue
		next[i].Recompute()
		updated = next[i]
	}
	return next, updated, nil
}

// RemoveProduct deletes every row with the target SKU and returns the first
// removed row.
func RemoveProduct(t Table, sku string) (Table, Product, error) {
	removed, ok := t.Find(sku)
	if !ok {
		return t, Product{}, &NotFoundError{SKU: sku}
	}

	next := make(Table, 0, len(t))
	for _, p := range t {
		if p.SKU != sku {
			next = append(next, p)
		}
	}
	return next, removed, nil
}
