// Package tablex extracts tables and the document context leading to them
// from HTML pages. Table cells and context segments are kept as rich text:
// the rendered text plus a tree of the source elements that produced each
// character range.
//
// This package contains domain types, the pure table and rich-text
// algorithms and the service interfaces. Implementations live in
// subdirectories named after their primary dependency (e.g., goquery/,
// sqlite/, rod/).
package tablex
