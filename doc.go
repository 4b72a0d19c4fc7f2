// Package calc implements an inline calculator for text editors.
//
// An expression like "0x10 + 2k" is evaluated in the context of a document,
// which remembers variables and display settings between evaluations. Bare
// words in an expression are directives: "hex" displays the result in base
// 16, "cs" groups digits with commas, "ts" shows a timestamp, "pre 50" sets
// the number of significant digits, and "u8" through "u128" switch to
// fixed-width unsigned arithmetic with wraparound. A directive followed by
// "!" is remembered for later evaluations in the same document; "reset"
// forgets them. Words following numbers, like the k in 2k, are unit suffixes.
//
// Assignments "$name = expr" define variables. The last result is always
// available as $? (or $$).
package calc
