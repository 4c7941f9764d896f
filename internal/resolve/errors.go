package resolve

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned by (*Resolution).Err when nothing matched.
	ErrNotFound = errors.New("recipe not found")
	// ErrAmbiguous is returned by (*Resolution).Err when several recipes matched.
	ErrAmbiguous = errors.New("recipe reference is ambiguous")
	// ErrParseFailed is matched by ParseFailedError.
	ErrParseFailed = errors.New("recipe could not be parsed")
)

// ParseFailedError reports a matched recipe file whose text does not parse.
type ParseFailedError struct {
	Path string
	Err  error
}

func (e *ParseFailedError) Error() string {
	return fmt.Sprintf("parsing recipe %s: %v", e.Path, e.Err)
}

func (e *ParseFailedError) Unwrap() error { return e.Err }

func (e *ParseFailedError) Is(target error) bool { return target == ErrParseFailed }

// NotFoundError reports a reference with no match.
type NotFoundError struct {
	Reference string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no recipe matches %q", e.Reference)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// AmbiguousError reports a reference matching several recipes.
type AmbiguousError struct {
	Reference  string
	Candidates []Candidate
}

func (e *AmbiguousError) Error() string {
	paths := make([]string, 0, len(e.Candidates))
	for _, c := range e.Candidates {
		paths = append(paths, c.Entry.RelPath)
	}
	return fmt.Sprintf("%q matches %d recipes: %s", e.Reference, len(e.Candidates), strings.Join(paths, ", "))
}

func (e *AmbiguousError) Is(target error) bool { return target == ErrAmbiguous }
