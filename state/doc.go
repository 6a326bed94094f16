// Package state persists a param.Store as an opaque binary blob.
//
// The blob is a self-describing tree: every node carries a type name, a list
// of typed named properties and child nodes. Manager maps a Store onto a tree
// with one PARAM child per parameter. Decoding validates the whole blob
// before touching the Store, so a corrupt blob never leaves a partial update.
//
// Nothing in this package may be called from the audio path.
package state
