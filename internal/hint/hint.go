// Package hint recovers candidate equations for a Sumzle board from the
// feedback the game has given so far. Each guess row colors its tiles
// correct (right char, right spot), present (right char, wrong spot) or
// empty (char not in the answer beyond its counted occurrences); hint turns
// those rows into positional knowledge and enumerates complete equations of
// the board's length consistent with it.
package hint

import (
	"errors"
	"fmt"
)

// Alphabet is every character a board tile can hold, in the order the search
// tries them when no better ordering applies.
const Alphabet = "0123456789+-*/%^A!()[]=>"

// Tile is one cell of a guess row as the game reports it.
type Tile struct {
	Char  string `json:"char"`
	State string `json:"state"` // "correct", "present" or "empty"
}

// Row is one submitted guess.
type Row []Tile

// Constraints is the full feedback history for a board.
type Constraints struct {
	Rows []Row `json:"rows"`
}

// ErrConflict is wrapped by Derive when the feedback rows contradict each
// other; no equation can satisfy contradictory feedback.
var ErrConflict = errors.New("conflicting constraints")

// Knowledge is the positional information distilled from feedback rows.
type Knowledge struct {
	length     int
	fixed      []rune // 0 where the position is free
	cannotBeAt []map[rune]bool
	minCount   map[rune]int
	exactCount map[rune]int
	forbidden  map[rune]bool
}

// Derive preprocesses feedback into Knowledge for a board of the given
// length. Tiles beyond the board length and blank tiles are ignored.
func Derive(c Constraints, length int) (*Knowledge, error) {
	k := &Knowledge{
		length:     length,
		fixed:      make([]rune, length),
		cannotBeAt: make([]map[rune]bool, length),
		minCount:   make(map[rune]int),
		exactCount: make(map[rune]int),
		forbidden:  make(map[rune]bool),
	}
	for i := range k.cannotBeAt {
		k.cannotBeAt[i] = make(map[rune]bool)
	}

	for _, row := range c.Rows {
		for col, tile := range row {
			if col >= length || tile.Char == "" {
				continue
			}
			ch := []rune(tile.Char)[0]
			switch tile.State {
			case "correct":
				if k.fixed[col] != 0 && k.fixed[col] != ch {
					return nil, fmt.Errorf("%w: position %d fixed to both %c and %c",
						ErrConflict, col+1, k.fixed[col], ch)
				}
				k.fixed[col] = ch
				for _, vc := range Alphabet {
					if vc != ch {
						k.cannotBeAt[col][vc] = true
					}
				}
			case "present", "empty":
				k.cannotBeAt[col][ch] = true
			}
		}
	}

	guessed := make(map[rune]bool)
	for _, row := range c.Rows {
		for _, tile := range row {
			if tile.Char != "" {
				guessed[[]rune(tile.Char)[0]] = true
			}
		}
	}

	for ch := range guessed {
		minOverall := 0
		exact := -1
		for _, row := range c.Rows {
			greens, yellows, hasEmpty := 0, 0, false
			inRow := false
			for _, tile := range row {
				if tile.Char == "" || []rune(tile.Char)[0] != ch {
					continue
				}
				inRow = true
				switch tile.State {
				case "correct":
					greens++
				case "present":
					yellows++
				case "empty":
					hasEmpty = true
				}
			}
			if !inRow {
				continue
			}
			if greens+yellows > minOverall {
				minOverall = greens + yellows
			}
			// An empty tile for a char caps its total count: the answer has
			// exactly as many as were colored in this row.
			if hasEmpty {
				if exact >= 0 && exact != greens+yellows {
					return nil, fmt.Errorf("%w: %c has exact counts %d and %d",
						ErrConflict, ch, exact, greens+yellows)
				}
				exact = greens + yellows
			}
		}
		k.minCount[ch] = minOverall
		if exact >= 0 {
			if exact < minOverall {
				return nil, fmt.Errorf("%w: %c exact count %d below minimum %d",
					ErrConflict, ch, exact, minOverall)
			}
			k.exactCount[ch] = exact
			if exact == 0 && minOverall == 0 {
				k.forbidden[ch] = true
			}
		}
	}

	for i, ch := range k.fixed {
		if ch == 0 {
			continue
		}
		if k.forbidden[ch] {
			return nil, fmt.Errorf("%w: %c fixed at position %d but globally forbidden",
				ErrConflict, ch, i+1)
		}
		if k.minCount[ch] < 1 {
			k.minCount[ch] = 1
		}
		if exact, ok := k.exactCount[ch]; ok && exact < k.minCount[ch] {
			return nil, fmt.Errorf("%w: %c exact count %d below fixed minimum %d",
				ErrConflict, ch, exact, k.minCount[ch])
		}
	}

	for ch := range k.forbidden {
		if k.minCount[ch] > 0 {
			return nil, fmt.Errorf("%w: %c forbidden but required to appear", ErrConflict, ch)
		}
	}
	return k, nil
}

// FixedAt returns the forced character at a position, or 0.
func (k *Knowledge) FixedAt(pos int) rune { return k.fixed[pos] }

// Allows reports whether ch may occupy pos under the positional rules alone
// (count rules are checked as the search places characters).
func (k *Knowledge) Allows(ch rune, pos int) bool {
	if k.forbidden[ch] {
		return false
	}
	if k.fixed[pos] != 0 && k.fixed[pos] != ch {
		return false
	}
	return !k.cannotBeAt[pos][ch]
}
