// Package lineinfo decodes and encodes the per-instruction line tables of
// Lua function prototypes.
//
// [ResolveLine] maps one instruction to its source line for any of the
// encodings described in the proto package. [Scanner] walks every decodable
// instruction of a prototype in order, which for delta encoded tables is
// much cheaper than resolving each instruction independently.
//
// The encoders build tables from plain per-instruction line lists the way
// each VM generation's compiler lays them out. They are used to load
// fixtures written in source form and by tests.
package lineinfo
