package game

// Stats counts what happened to every block of a session.
// The counters only grow and LostTetromino is never reset once set.
type Stats struct {
	GeneratedBlocks int
	ClearedBlocks   int
	LostBlocks      int
	LostTetromino   bool
}

// Health is 1 with nothing lost and falls as blocks are lost relative to
// blocks cleared. It is not clamped and goes negative once more blocks are
// lost than cleared. Losing a block of the falling piece drops it to 0.
func (s Stats) Health() float64 {
	if s.LostTetromino {
		return 0
	}
	if s.ClearedBlocks == 0 {
		if s.LostBlocks > 0 {
			return 0
		}
		return 1
	}
	return 1 - float64(s.LostBlocks)/float64(s.ClearedBlocks)
}

// Alive reports whether another piece may spawn
func (s Stats) Alive() bool {
	return s.Health() > 0
}

// HealthBar is the smoothed health shown to the player
type HealthBar struct {
	Value float64
}

const healthBarRate = 0.1

// Approach moves the bar a fixed fraction of the way toward target
func (h *HealthBar) Approach(target float64) {
	h.Value += (target - h.Value) * healthBarRate
}
