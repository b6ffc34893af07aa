// Package capsule assembles and resolves card capsules: PNG files whose
// visible image is a rendered card and whose tEXt chunk keyed by Keyword
// carries the card's payload as canonical JSON.
//
// Export always produces a structurally valid PNG with exactly one capsule,
// positioned directly after IHDR. Import accepts any byte buffer and reports
// "no capsule" for anything it cannot decode, so callers can feed it
// arbitrary files.
package capsule

// Keyword identifies the capsule's tEXt chunk.
const Keyword = "pngcard"
