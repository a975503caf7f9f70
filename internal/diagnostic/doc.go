// Package diagnostic provides structured warnings and errors for mapping
// files and their validation against a class source.
//
// Key capabilities:
//   - Malformed mapping line warnings with line numbers
//   - Unknown owner and undeclared method reports with near-miss suggestions
//   - Rename collision and invalid descriptor errors
package diagnostic
