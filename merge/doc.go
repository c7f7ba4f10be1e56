// Package merge joins logbooks built from disjoint, contiguous time windows
// into one consistent history, reconciling trips whose EN_ROUTE_TO tail in
// an earlier window is continued by a later one.
package merge
