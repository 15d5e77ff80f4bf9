// Package altsv implements ALTSV, a line-oriented record format for flat
// key/value data. It is a faster, escape-safe alternative to CSV/TSV.
//
// A line holds tab separated fields; each field is a key and a value split by
// the first unescaped colon:
//
//	host:127.0.0.1	path:/index.html	referer:
//
// Components:
//   - DecodeLine: one line -> Record. Total, never fails.
//   - DecodeDocument: multi-line text -> []Record, one per line, order preserved.
//   - Encode: mapping-like value -> one escaped line.
//   - Parse / Load / Writer: the same codec over io.Reader, files and io.Writer.
//
// Values:
//
//	an empty value ("key:") decodes to Absent, never to ""
//	only the first ':' in a field splits key from value
//	the last occurrence of a duplicate key wins
//
// Escapes (both directions): \n \r \t \\ and \: for a literal colon.
// Any other backslash sequence is kept verbatim by the decoder.
package altsv
