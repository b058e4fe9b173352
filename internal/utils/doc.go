// Package utils provides shared utility functions.
//
// These utilities include:
//   - Commit subject extraction and branch slug derivation
//   - Ref-name validation for configuration values
package utils
