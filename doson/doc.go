// Package doson implements DOSON, a small textual data-interchange format
// built around a single tagged value.
//
// # Data Model
//
//	None     produced only by a failed top-level parse
//	String   "quoted text" with JSON-style escapes
//	Number   64-bit float: 1, -2.5, 3e10, .5
//	Boolean  true / false (case-insensitive on input)
//	List     [v1,v2,v3]
//	Dict     {"k":v,"k2":v2}
//	Tuple    (first,second)
//	Binary   binary!(<base64>)
//
// # Canonical Text
//
// The printer emits no whitespace, sorts dict keys, and re-escapes strings.
// For any value [Parse] can produce, the output of [Value.String] parses
// back to an equal value. A None nested in a composite and non-finite
// numbers, which only programmatic construction yields, print as text the
// grammar does not accept.
//
//	v := doson.Parse(`{ "b": [1, 2], "a": (true, "x") }`)
//	v.String() // {"a":(true,"x"),"b":[1,2]}
//
// # Envelope
//
// A whole document may be wrapped as b:<base64>: to carry text through
// channels that would otherwise mangle it. [Parse] unwraps it transparently.
//
// # Error Tolerance
//
// [Parse] never fails: any problem yields a None value, and a binary!(...)
// body that is not valid base64 yields an empty blob. Use [ParseStrict] when
// the caller needs to know what went wrong and where.
//
// # Weight
//
// Every value has a weight used as its sort key. Numbers weigh their value,
// composites weigh the sum of their numeric contents, and other leaves carry
// the [NoWeight] sentinel.
package doson
