// Package render draws the visible half of a card capsule: a 2:3 portrait
// image built either from user-supplied artwork (center-cropped and scaled)
// or, when no usable artwork exists, from a generated placeholder showing
// the card's kind, name and description.
//
// Rendering never fails. Undecodable artwork falls back to the placeholder.
package render
