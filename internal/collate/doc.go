// Package collate turns the regions of an editor selection into the
// lines of source code to send to an interactive session.
//
// Regions are first split one per line (see cursor.SplitIntoLines).
// Collate then keeps the regions whose start lies in a source scope,
// takes the whole line for bare cursors and the exact text for
// highlighted regions, and returns the result as ordered lines together
// with the cursors that must advance to the next line.
//
// Two outcomes are reported as sentinel errors: ErrNoSourceScope when no
// region is in scope, and ErrEmptySelection when the matched text is
// blank. Both are normal results of user interaction; callers advance
// the cursors the Result names and do nothing else.
//
// The package depends only on the Classifier, Matcher and Text
// capabilities; it knows nothing about editors or session transports.
package collate
