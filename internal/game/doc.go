// Package game generates complete, immutable puzzles from a GenConfig.
//
// GENERATION PIPELINE:
//
// Each attempt runs the whole pipeline under one salted RNG stream:
//  1. Ingredient count drawn in [MinIngredients, MaxIngredients]
//  2. ingredient.Generate draws and deduplicates the population
//  3. coverage.Ensure appends ingredients until every element is brewable
//  4. combo.Catalog lists every distinct non-null outcome with its smallest
//     realizing combination
//  5. combo.SelectTarget picks the exact-craft target, preferring outcomes
//     that need at least three ingredients
//  6. The profile-hunt ingredient is drawn last
//
// Attempts use the variants seed#1 … seed#12 and stop at the first whose
// target needs three or more ingredients. If none qualifies, the variant
// seed#fallback is accepted whatever its target size.
//
// DETERMINISM:
//
// Generate is a pure function of the config. The seed is NFC-normalized and
// trimmed before salting, so visually identical seeds produce identical games.
// A Game is never mutated after Generate returns; a new game replaces it.
package game
