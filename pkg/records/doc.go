// Package records produces substitution records for a mail-merge run.
//
// A record maps placeholder names to string values and yields exactly one
// output document. Records come from a Source, read lazily and forward
// only:
//
//	src, err := records.Open("people.csv", records.FormatForPath("people.csv"))
//	...
//	defer src.Close()
//	for {
//		rec, err := src.Next()
//		if err == io.EOF {
//			break
//		}
//		if errors.IsErrorCode(err, errors.ErrInputParse) {
//			continue // malformed line, already carries source and line
//		}
//		...
//	}
//
// Supported formats are CSV and TSV (first row holds field names),
// key=value lines (one record per line, quote-aware), YAML document
// streams and TOML files with [[record]] tables. The format is chosen by
// the caller, usually from the file extension, never by sniffing content.
// RegisterFormat adds further formats.
package records
