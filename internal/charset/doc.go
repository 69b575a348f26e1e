// Package charset converts between file bytes and editor text.
//
// Decode detects or validates the byte encoding of a file, strips its byte
// order mark and normalizes its line endings, recording all three in a
// Descriptor. Encode reverses the process so that an unedited document
// saves back to exactly the bytes it was loaded from.
//
// Supported encodings are UTF-8, UTF-16 (both byte orders), Shift_JIS,
// EUC-JP, ISO-8859-1 and Windows-1252. Conversion goes through
// golang.org/x/text; names are resolved through its IANA index so common
// aliases such as "sjis" or "latin1" are accepted.
//
// Failures are reported as coreerr system errors of kind Encoding that are
// never retriable: re-reading the same bytes cannot produce a different
// result.
package charset
