// Package metadata holds the ">> key: value" entries of a recipe.
//
// All entries are kept, in order, in Metadata.Map. A few well known keys are
// also parsed into typed fields: description, tags, emoji, author, source,
// time (or prep_time and cook_time, in minutes) and servings.
package metadata
