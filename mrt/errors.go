package mrt

import "errors"

// errShort is the sentinel wrapped by every error DecodeRecord returns for
// a too-short buffer — compare with errors.Is, not string matching.
var errShort = errors.New("mrt: record incomplete")
