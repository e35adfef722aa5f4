package board

// neighbors lists the orthogonally adjacent cell indexes for each cell.
// The order is fixed: successor enumeration must be stable.
var neighbors = [Cells][]int{
	{1, 3},
	{0, 2, 4},
	{1, 5},
	{0, 4, 6},
	{1, 3, 5, 7},
	{2, 4, 8},
	{3, 7},
	{4, 6, 8},
	{5, 7},
}

// mergeCombos[n] enumerates every subset of size >= 2 over n candidate
// neighbors, pairs first, then triples, then the quad. Indexes refer to
// positions in the candidate list, not board cells.
var mergeCombos = [5][][]int{
	{},
	{},
	{{0, 1}},
	{
		{0, 1}, {0, 2}, {1, 2},
		{0, 1, 2},
	},
	{
		{0, 1}, {0, 2}, {0, 3},
		{1, 2}, {1, 3}, {2, 3},
		{0, 1, 2}, {0, 1, 3}, {0, 2, 3}, {1, 2, 3},
		{0, 1, 2, 3},
	},
}

// Successors returns every board reachable by one legal move, in a
// deterministic order: empty cells ascending, and for each cell either
// the single place-a-1 move or the qualifying merges in combo order.
//
// A move on an empty cell considers its non-empty neighbors of value
// below 6 (sixes are inert). With fewer than two such neighbors the
// cell is set to 1. Otherwise each neighbor subset of size >= 2 whose
// values sum to at most 6 produces a merge: the subset cells are
// cleared and the empty cell receives the sum. If no subset qualifies
// the cell falls back to 1.
func (b Board) Successors() []Board {
	result := make([]Board, 0, Cells)
	for idx := 0; idx < Cells; idx++ {
		if b.At(idx) != 0 {
			continue
		}

		var candidateValues [4]int
		var candidateCells [4]int
		count := 0
		for _, pos := range neighbors[idx] {
			value := b.At(pos)
			if value != 0 && value != MaxValue {
				candidateValues[count] = value
				candidateCells[count] = pos
				count++
			}
		}

		if count < 2 {
			result = append(result, b.withCell(idx, 1))
			continue
		}

		merged := false
		for _, combo := range mergeCombos[count] {
			sum := 0
			for _, i := range combo {
				sum += candidateValues[i]
			}
			if sum > MaxValue {
				continue
			}
			next := b
			for _, i := range combo {
				next = next.withCell(candidateCells[i], 0)
			}
			result = append(result, next.withCell(idx, sum))
			merged = true
		}
		if !merged {
			result = append(result, b.withCell(idx, 1))
		}
	}
	return result
}
