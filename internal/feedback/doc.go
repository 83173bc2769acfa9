// Package feedback persists reviewer judgments for a batch in a single CSV
// file with one row per article.
//
// Rows are created by the first write for an article and never deleted.
// Fields update independently: writing visibility leaves dates and notes as
// they were. A field distinguishes "never written" (absent) from "written
// empty" (cleared); the CSV encoding keeps that distinction by quoting every
// present value and leaving absent values as bare empty fields.
//
// Every mutation loads the whole file, changes one row in memory and writes
// the whole file back through an atomic rename. The store assumes a single
// writer; it performs no locking of its own.
package feedback
