// Package pairing matches raw survey units against graded survey units by
// base key and resolves duplicates deterministically.
package pairing
