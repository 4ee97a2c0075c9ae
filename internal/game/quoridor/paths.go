package quoridor

// pathExists runs breadth-first search over the open grid graph (walls
// remove edges, pawns do not block) and reports whether the seat can
// still reach its goal row.
func (s *State) pathExists(seat int) bool {
	return s.distanceToGoal(seat) >= 0
}

// distanceToGoal returns the BFS step count from the seat's pawn to its
// goal row, or -1 when no path remains.
func (s *State) distanceToGoal(seat int) int {
	goal := goalRow(seat)
	start := s.Pawns[seat]
	if start.Row == goal {
		return 0
	}
	var visited [Size * Size]bool
	visited[start.Row*Size+start.Col] = true
	frontier := []Pos{start}
	dist := 0
	for len(frontier) > 0 {
		dist++
		var next []Pos
		for _, p := range frontier {
			for _, d := range dirs {
				n := Pos{Row: p.Row + d.Row, Col: p.Col + d.Col}
				if !s.stepOpen(p, n) || visited[n.Row*Size+n.Col] {
					continue
				}
				if n.Row == goal {
					return dist
				}
				visited[n.Row*Size+n.Col] = true
				next = append(next, n)
			}
		}
		frontier = next
	}
	return -1
}
