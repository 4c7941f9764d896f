// Package report defines report definitions, the closed expression tree
// they are made of, the values expressions produce and the result of
// evaluating a report.
package report
