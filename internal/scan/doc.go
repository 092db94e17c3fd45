// Package scan walks a survey tree and groups accepted image files into
// survey units keyed by base key.
package scan
