// Package batch lets a calendar tool accept one ID or many in the same
// argument and process the set with per-item success and error reporting,
// so deleting several events never stops at the first failure.
package batch
