// Package sanitizer normalizes caller input before validation and storage.
//
// Every function is idempotent: applying it twice gives the same result as applying it once.
// Invalid input is never an error here; it is normalized as far as possible and left for the
// validator to reject.
package sanitizer
