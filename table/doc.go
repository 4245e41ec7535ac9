// Package table provides the in-memory tabular results returned by the warehouse client.
//
// Two representations are offered:
//
//   - [Frame]: a row-oriented table of Go values, the result of Client.Read
//   - arrow.Record: a typed column-oriented table, the result of Client.ReadTyped
//
// # Conversion
//
// [FromRows] drains a row cursor into a Frame. [ToRecord] converts a Frame
// into an Arrow record, using explicit type overrides where given and
// inferring the column type from the data otherwise. [ReadDatabase] combines
// both: it runs a query against a [Querier] and returns a typed record.
//
// # Type Names
//
// Casts and overrides use Spark SQL type names, case-insensitive:
//
//	long, bigint         -> int64     (arrow int64)
//	int, integer         -> int32     (arrow int32)
//	short, smallint      -> int16     (arrow int16)
//	byte, tinyint        -> int8      (arrow int8)
//	double, decimal      -> float64   (arrow float64)
//	float, real          -> float32   (arrow float32)
//	string, varchar, char -> string   (arrow utf8)
//	boolean, bool        -> bool      (arrow boolean)
//	binary               -> []byte    (arrow binary)
//	date                 -> time.Time (arrow date32)
//	timestamp, timestamp_ntz -> time.Time (arrow timestamp[us, UTC])
//
// Decimals are approximated by float64. Wide decimals such as DECIMAL(38,0)
// should be read as string when exact digits matter.
//
// Record column types come from overrides, then from the first non-nil
// value, then from the declared column type the driver reports, so all-NULL
// and empty results keep their declared types.
//
// Records returned by this package must be released by the caller.
package table
