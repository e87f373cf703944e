// Package util provides common utility data structures shared across the
// wizard engine
package util
