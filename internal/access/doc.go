// Package access holds the static role/permission matrix and the guard
// decisions built on it.
//
// Everything here is a pure function of its inputs. Denial is an ordinary
// return value (false or a Verdict), never an error: access checks fail
// routinely and callers render or redirect on them.
package access
