package evaluator

import (
	"errors"
	"fmt"
	"math"

	"github.com/vk/cookcli/internal/quantity"
	"github.com/vk/cookcli/internal/report"
)

var (
	errUnexpectedNode = errors.New("node cannot be evaluated here")
	errOutsideLoop    = errors.New("ingredient is only defined inside each_ingredient")
)

// numeric views numbers as unitless quantities.
func numeric(v report.Value) (quantity.Quantity, bool) {
	switch v.Kind {
	case report.KindNumber:
		return quantity.Number(v.Num), true
	case report.KindQuantity:
		return v.Quantity, true
	default:
		return quantity.Quantity{}, false
	}
}

func (r *run) arithmetic(n *report.Arithmetic, left, right report.Value) (report.Value, error) {
	l, ok := numeric(left)
	if !ok {
		return report.Value{}, mismatch(n.Left, "operand of "+n.Op.String(), report.KindNumber, left)
	}
	rq, ok := numeric(right)
	if !ok {
		return report.Value{}, mismatch(n.Right, "operand of "+n.Op.String(), report.KindNumber, right)
	}

	units := r.ev.units
	switch n.Op {
	case report.OpAdd, report.OpSub:
		var (
			out quantity.Quantity
			err error
		)
		if n.Op == report.OpAdd {
			out, err = units.Add(l, rq)
		} else {
			out, err = units.Sub(l, rq)
		}
		if err != nil {
			return report.Value{}, quantityErr(n, n.Op.String(), err)
		}
		return report.Quantity(out), nil
	case report.OpMul:
		if l.Unit != "" && rq.Unit != "" {
			return report.Value{}, evalErr(report.TypeMismatch, n, "*",
				fmt.Errorf("cannot multiply %s by %s", l, rq))
		}
		unit := l.Unit
		if unit == "" {
			unit = rq.Unit
		}
		return report.Quantity(quantity.New(l.Amount*rq.Amount, unit)), nil
	case report.OpDiv:
		if rq.Amount == 0 {
			return report.Value{}, evalErr(report.DivideByZero, n, "/", nil)
		}
		if rq.Unit == "" {
			return report.Quantity(quantity.New(l.Amount/rq.Amount, l.Unit)), nil
		}
		if l.Unit == "" {
			return report.Value{}, evalErr(report.TypeMismatch, n, "/",
				fmt.Errorf("cannot divide a number by %s", rq))
		}
		ratio, err := units.Ratio(l, rq)
		if err != nil {
			return report.Value{}, quantityErr(n, "/", err)
		}
		return report.Number(ratio), nil
	default:
		return report.Value{}, evalErr(report.TypeMismatch, n, n.Op.String(), errUnexpectedNode)
	}
}

func (r *run) compare(n *report.Compare, left, right report.Value) (report.Value, error) {
	op := n.Op.String()

	if l, ok := numeric(left); ok {
		rq, ok := numeric(right)
		if !ok {
			return report.Value{}, mismatch(n.Right, "operand of "+op, left.Kind, right)
		}
		conv, err := r.ev.units.Convert(rq, l.Unit)
		if err != nil {
			return report.Value{}, quantityErr(n, op, err)
		}
		return report.Bool(ordered(n.Op, cmpFloat(l.Amount, conv.Amount))), nil
	}

	if left.Kind != right.Kind {
		return report.Value{}, mismatch(n.Right, "operand of "+op, left.Kind, right)
	}
	switch left.Kind {
	case report.KindString:
		c := 0
		switch {
		case left.Str < right.Str:
			c = -1
		case left.Str > right.Str:
			c = 1
		}
		return report.Bool(ordered(n.Op, c)), nil
	case report.KindBool:
		switch n.Op {
		case report.OpEq:
			return report.Bool(left.Bool == right.Bool), nil
		case report.OpNe:
			return report.Bool(left.Bool != right.Bool), nil
		}
	}
	return report.Value{}, evalErr(report.TypeMismatch, n, op,
		fmt.Errorf("%s values cannot be compared with %s", left.Kind, op))
}

// cmpFloat treats values within a relative 1e-9 as equal so that unit
// conversions do not break equality.
func cmpFloat(a, b float64) int {
	if math.Abs(a-b) <= 1e-9*math.Max(math.Abs(a), math.Abs(b)) {
		return 0
	}
	if a < b {
		return -1
	}
	return 1
}

func ordered(op report.CompareOp, c int) bool {
	switch op {
	case report.OpEq:
		return c == 0
	case report.OpNe:
		return c != 0
	case report.OpLt:
		return c < 0
	case report.OpLe:
		return c <= 0
	case report.OpGt:
		return c > 0
	default:
		return c >= 0
	}
}

func evalErr(kind report.ErrorKind, n report.Node, subject string, err error) *report.EvalError {
	return &report.EvalError{Kind: kind, Range: n.SrcRange(), Subject: subject, Err: err}
}

func mismatch(n report.Node, what string, want report.ValueKind, got report.Value) *report.EvalError {
	return evalErr(report.TypeMismatch, n, what, fmt.Errorf("expected %s, got %s", want, got.Kind))
}

// quantityErr classifies an error from the quantity package.
func quantityErr(n report.Node, subject string, err error) *report.EvalError {
	kind := report.TypeMismatch
	switch {
	case errors.Is(err, quantity.ErrIncompatibleUnits):
		kind = report.IncompatibleUnits
	case errors.Is(err, quantity.ErrDivideByZero):
		kind = report.DivideByZero
	}
	return evalErr(kind, n, subject, err)
}
