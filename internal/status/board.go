package status

// Unbounded marks a loop or ammo limit as "no limit".
const Unbounded int64 = -1

// Board is the shared progress surface that ammo generators update and the
// driving loop watches to decide when to stop. It is written by exactly one
// goroutine at a time (the active consumer), so no synchronization is used;
// concurrent consumption of one generator is unsupported.
type Board struct {
	LoopLimit int64
	AmmoLimit int64

	fileSize  int64
	filePos   int64
	loopCount float64
	ammoCount int64
	published map[string]interface{}
}

// NewBoard returns a Board with both limits unbounded.
func NewBoard() *Board {
	return &Board{
		LoopLimit: Unbounded,
		AmmoLimit: Unbounded,
		published: map[string]interface{}{},
	}
}

// SetFileSize records the total size of the active ammo file.
func (b *Board) SetFileSize(n int64) { b.fileSize = n }

// FileSize returns the total size of the active ammo file.
func (b *Board) FileSize() int64 { return b.fileSize }

// SetFilePosition records the number of bytes consumed so far from the
// active ammo file. Generators report the post-read position.
func (b *Board) SetFilePosition(n int64) { b.filePos = n }

// FilePosition returns the number of bytes consumed so far.
func (b *Board) FilePosition() int64 { return b.filePos }

// IncLoopCount records one completed pass over the ammo source.
func (b *Board) IncLoopCount() { b.loopCount++ }

// SetLoopRatio sets the loop count to an approximation: records yielded so
// far divided by the source length. The ratio is published as-is, unrounded.
func (b *Board) SetLoopRatio(yielded, sourceLen int64) {
	if sourceLen <= 0 {
		return
	}
	b.loopCount = float64(yielded) / float64(sourceLen)
}

// LoopCount returns the loop counter. For URI-list sources this is a ratio,
// not an integer.
func (b *Board) LoopCount() float64 { return b.loopCount }

// IncAmmoCount records one record handed to the driver.
func (b *Board) IncAmmoCount() { b.ammoCount++ }

// AmmoCount returns the number of records handed to the driver.
func (b *Board) AmmoCount() int64 { return b.ammoCount }

// Publish stores an arbitrary reporting value, such as the active load
// scheme or the instance count.
func (b *Board) Publish(key string, value interface{}) {
	if b.published == nil {
		b.published = map[string]interface{}{}
	}
	b.published[key] = value
}

// Published returns a previously published value, or nil.
func (b *Board) Published(key string) interface{} {
	return b.published[key]
}

// LoopLimitReached reports whether the loop limit is bounded and met.
func (b *Board) LoopLimitReached() bool {
	return b.LoopLimit != Unbounded && b.loopCount >= float64(b.LoopLimit)
}

// AmmoLimitReached reports whether the ammo limit is bounded and met.
func (b *Board) AmmoLimitReached() bool {
	return b.AmmoLimit != Unbounded && b.ammoCount >= b.AmmoLimit
}
