// Package core provides the engine data model used throughout ifxsql.
//
// The package defines column type tags, result-set descriptors, the
// diagnostics record the engine returns after every call, and the fixed
// binary layouts values take inside a fetch buffer.
//
// # Type Tags
//
// Describe reports engine types (SQLChar, SQLDecimal, SQLUDTFixed, ...).
// The row buffer allocator rewrites each column to a client type
// (CChar, CDecimal, CLocator, ...) which decides how the value is laid out
// and decoded:
//
//	col := core.ColumnMeta{Name: "price", Type: core.SQLDecimal, Length: core.PrecMake(8, 2)}
//	core.ToClientType(col.Type) // core.CDecimal
//
// # Packed Lengths
//
// DECIMAL and MONEY lengths pack precision and scale (PrecMake, PrecTot,
// PrecDec). DATETIME and INTERVAL lengths pack a qualifier (TUEncode,
// TUStart, TUEnd).
//
// # Fixed Layouts
//
// Decimal, Int8, TimeValue, Locator and DATE day numbers each have an
// Encode method or function writing the exact bytes a fetch buffer holds,
// and a matching decoder. Converter turns them into text the way the
// engine client prints them.
//
// # Diagnostics
//
// Every engine call yields a Diagnostics value. Failures are reported as
// *EngineError, whose message embeds the code, ISAM code and engine text:
//
//	prepare sql fail, CODE:-201 ISAM:0 MSG:A syntax error has occurred.
package core
