// Package fields is the registry of canonical column names every source is
// normalized onto. Declaration order of the constants is the output column
// order.
package fields
