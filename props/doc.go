/*
Package props is a change-tracked codec for a fixed, ordered set of typed
fields ("properties") of a replicated entity.

# Shapes

A record is written in one of two shapes.

The full shape (snapshot) is every field's base encoding, in declared order,
with no flag bits. Both ends know the field kinds out of band (a Schema).

The delta shape carries, for each non-boolean field, one presence bit and the
value only if the bit is 1. Boolean fields are always one bit, the value
itself, with no presence bit.

	(bool active, int32 health, float32 angle), health changed:
	  [active] [1] [health: 32 bits] [0]

A delta written with forceAll is laid out exactly like a snapshot, and
ReadSnapshot and ReadDelta(forceAll) decode identically.

# Change tracking

Each record owns a Tracker: bit i is set by MarkChanged(i) and the whole
vector is cleared by a WriteDelta that wrote something. A WriteDelta with no
marked field and no forceAll writes nothing and returns false. That is the
normal outcome of a quiet tick, not an error.

# Merge

Schema.Merge patches a stored snapshot with a delta at the bit level:
fields present in the delta are copied from it and skipped in the baseline,
absent fields are copied from the baseline. Fixed-width fields are moved as
raw bits and never decoded. Text has no fixed width, so a text field is
re-encoded from the delta and skipped in the baseline by its length prefix.

# Typed and untyped records

Record1 .. Record8 take one Codec per field and check the field sequence at
compile time. Record takes Value slots (RefInt32(&x) and friends) and checks
them against its Schema on every call; it serves layouts of up to MaxFields
fields and layouts only known at run time.

Records are not safe for concurrent use. Mutations that call MarkChanged and
the WriteDelta flush of the same record must be serialised by the caller.
*/
package props

//go:generate go run ../internal/gen -n 8 -o record_generated.go
