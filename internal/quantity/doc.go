// Package quantity models recipe amounts: a magnitude with an optional unit,
// or free text such as "a pinch" that takes no part in arithmetic.
//
// Unit-aware arithmetic goes through a Table, which maps unit names and
// their aliases onto a dimension (mass, volume, count, time) and a factor
// relative to the dimension's base unit. Quantities of different
// dimensions are never combined; the operation fails with
// ErrIncompatibleUnits instead.
package quantity
