// Package model defines the analyzed recipe.
//
// A Recipe owns its ingredients, cookware, timers and inline quantities in
// flat slices. Steps and references address them by index, so a recipe is a
// plain value that can be copied, serialized and shared read-only between
// goroutines.
package model
