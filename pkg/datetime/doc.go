// Package datetime implements calendar arithmetic, time zone conversion and
// Unix timestamp conversion.
//
// Month arithmetic clamps to the end of the target month, so adding one month
// to January 31 yields the last day of February. Zone rules are embedded via
// time/tzdata and a canonical zone list is shipped for listing and search.
package datetime
