// Package marks keeps the ordered range list for the active video and
// enforces its consistency rules.
//
// The store is single-owner state for the interactive context. Every read
// that leaves the package is a detached snapshot, which is what lets the
// export engine run against a fixed job list while the operator keeps
// editing. The only auto-repair is the start/end swap on commit; bounds and
// crop validation stay advisory until export.
package marks
