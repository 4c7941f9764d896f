package quantity

// Convert expresses q in the target unit.
func (t *Table) Convert(q Quantity, to string) (Quantity, error) {
	if !q.IsNumeric() {
		return Quantity{}, ErrNotNumeric
	}
	from, target, err := t.factors(q.Unit, to)
	if err != nil {
		return Quantity{}, err
	}
	return New(q.Amount*from/target, to), nil
}

// Add sums two quantities. The result is expressed in a's unit.
func (t *Table) Add(a, b Quantity) (Quantity, error) {
	conv, err := t.alignTo(a, b)
	if err != nil {
		return Quantity{}, err
	}
	return New(a.Amount+conv.Amount, a.Unit), nil
}

// Sub subtracts b from a. The result is expressed in a's unit.
func (t *Table) Sub(a, b Quantity) (Quantity, error) {
	conv, err := t.alignTo(a, b)
	if err != nil {
		return Quantity{}, err
	}
	return New(a.Amount-conv.Amount, a.Unit), nil
}

// Ratio divides a by b after converting b into a's unit.
func (t *Table) Ratio(a, b Quantity) (float64, error) {
	conv, err := t.alignTo(a, b)
	if err != nil {
		return 0, err
	}
	if conv.Amount == 0 {
		return 0, ErrDivideByZero
	}
	return a.Amount / conv.Amount, nil
}

// Sum adds all quantities, expressing the total in the first one's unit.
// An empty slice sums to a unitless zero.
func (t *Table) Sum(qs []Quantity) (Quantity, error) {
	if len(qs) == 0 {
		return Number(0), nil
	}
	total := qs[0]
	if !total.IsNumeric() {
		return Quantity{}, ErrNotNumeric
	}
	for _, q := range qs[1:] {
		var err error
		if total, err = t.Add(total, q); err != nil {
			return Quantity{}, err
		}
	}
	return total, nil
}

func (t *Table) alignTo(a, b Quantity) (Quantity, error) {
	if !a.IsNumeric() || !b.IsNumeric() {
		return Quantity{}, ErrNotNumeric
	}
	return t.Convert(b, a.Unit)
}

// Group sums the quantities that can be combined. Each group is expressed
// in the unit of its first member and groups keep the order in which they
// first appear. Non-numeric quantities are never combined.
func (t *Table) Group(qs []Quantity) []Quantity {
	var out []Quantity
	for _, q := range qs {
		merged := false
		if q.IsNumeric() {
			for i, g := range out {
				if !g.IsNumeric() || !t.Compatible(g.Unit, q.Unit) {
					continue
				}
				sum, err := t.Add(g, q)
				if err != nil {
					continue
				}
				out[i] = sum
				merged = true
				break
			}
		}
		if !merged {
			out = append(out, q)
		}
	}
	return out
}
