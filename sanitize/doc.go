// Package sanitize filters a sequence of candidate updates into a
// well-formed sequence, recording every elision as a model.ParseError.
// All repairs are deletions: the sanitiser removes, it never invents.
package sanitize
