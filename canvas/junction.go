package canvas

// CharacterMerger handles the merging of two characters at the same position
type CharacterMerger struct {
	mergeMap map[mergePair]rune
}

type mergePair struct {
	existing rune
	new      rune
}

// NewCharacterMerger creates a merger with standard box-drawing merge rules
func NewCharacterMerger() *CharacterMerger {
	m := &CharacterMerger{
		mergeMap: make(map[mergePair]rune),
	}
	m.initializeMergeRules()
	return m
}

// Merge combines two characters according to box-drawing rules
func (m *CharacterMerger) Merge(existing, new rune) rune {
	if existing == ' ' || existing == '\x00' {
		return new
	}
	if existing == new {
		return existing
	}

	// Arrowheads are never overwritten
	if isArrow(existing) {
		return existing
	}
	if isArrow(new) {
		return new
	}

	if merged, ok := m.mergeMap[mergePair{existing, new}]; ok {
		return merged
	}
	if merged, ok := m.mergeMap[mergePair{new, existing}]; ok {
		return merged
	}

	// Text and unknown glyphs win over lines
	if !isLineChar(new) {
		return new
	}
	return existing
}

func isArrow(r rune) bool {
	switch r {
	case '▶', '◀', '▲', '▼', '→', '←', '↑', '↓':
		return true
	}
	return false
}

func (m *CharacterMerger) initializeMergeRules() {
	m.mergeMap[mergePair{'─', '│'}] = '┼'

	// Corner + line = T-junction
	m.mergeMap[mergePair{'┌', '─'}] = '┬'
	m.mergeMap[mergePair{'┌', '│'}] = '├'
	m.mergeMap[mergePair{'┐', '─'}] = '┬'
	m.mergeMap[mergePair{'┐', '│'}] = '┤'
	m.mergeMap[mergePair{'└', '─'}] = '┴'
	m.mergeMap[mergePair{'└', '│'}] = '├'
	m.mergeMap[mergePair{'┘', '─'}] = '┴'
	m.mergeMap[mergePair{'┘', '│'}] = '┤'

	// Rounded corners join the same way
	m.mergeMap[mergePair{'╭', '─'}] = '┬'
	m.mergeMap[mergePair{'╭', '│'}] = '├'
	m.mergeMap[mergePair{'╮', '─'}] = '┬'
	m.mergeMap[mergePair{'╮', '│'}] = '┤'
	m.mergeMap[mergePair{'╰', '─'}] = '┴'
	m.mergeMap[mergePair{'╰', '│'}] = '├'
	m.mergeMap[mergePair{'╯', '─'}] = '┴'
	m.mergeMap[mergePair{'╯', '│'}] = '┤'

	// A perpendicular line through a T makes a cross; a parallel one keeps it
	m.mergeMap[mergePair{'┬', '│'}] = '┼'
	m.mergeMap[mergePair{'┴', '│'}] = '┼'
	m.mergeMap[mergePair{'├', '─'}] = '┼'
	m.mergeMap[mergePair{'┤', '─'}] = '┼'
	m.mergeMap[mergePair{'┬', '─'}] = '┬'
	m.mergeMap[mergePair{'┴', '─'}] = '┴'
	m.mergeMap[mergePair{'├', '│'}] = '├'
	m.mergeMap[mergePair{'┤', '│'}] = '┤'

	m.mergeMap[mergePair{'┌', '┘'}] = '┼'
	m.mergeMap[mergePair{'┐', '└'}] = '┼'
	m.mergeMap[mergePair{'┌', '┐'}] = '┬'
	m.mergeMap[mergePair{'└', '┘'}] = '┴'
	m.mergeMap[mergePair{'┌', '└'}] = '├'
	m.mergeMap[mergePair{'┐', '┘'}] = '┤'

	// ASCII fallbacks
	m.mergeMap[mergePair{'-', '|'}] = '+'
	m.mergeMap[mergePair{'+', '-'}] = '+'
	m.mergeMap[mergePair{'+', '|'}] = '+'
}

func isLineChar(r rune) bool {
	switch r {
	case '─', '│', '┌', '┐', '└', '┘', '├', '┤', '┬', '┴', '┼',
		'╭', '╮', '╰', '╯', '═', '║', '╔', '╗', '╚', '╝', '-', '|', '+':
		return true
	}
	return false
}
