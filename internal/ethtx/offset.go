package ethtx

// OffsetWindow bounds the derived offset to one hour of seconds.
const OffsetWindow = 3600

// MessageOffset derives a deterministic offset from a message: the sum of
// its code points weighted by one-based position, mod OffsetWindow. The
// position weight is part of the contract's interop behavior; records
// already stored on-chain were derived with exactly this formula.
func MessageOffset(message string) uint64 {
	var sum uint64
	for i, r := range []rune(message) {
		sum += uint64(r) * uint64(i+1)
	}
	return sum % OffsetWindow
}

// DerivedTimestamp returns now plus the message offset. The result lies in
// [now, now+OffsetWindow-1].
func DerivedTimestamp(message string, now int64) int64 {
	return now + int64(MessageOffset(message))
}
