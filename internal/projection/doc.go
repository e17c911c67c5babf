// Package projection turns elements returned by the metadata platform into
// rows for a resolved column list.
//
// Payloads are ingested once into Node, a tagged variant of null, scalar,
// object and array; the projector never re-inspects raw JSON. Each column key
// is looked up in the element's properties, then its elementHeader, then its
// relationship arrays, and finally the mermaidGraph field. Unresolved columns
// are left empty.
package projection
