package sched

// runKuhn computes a maximum bipartite matching between satellites (left)
// and stations (right) with Kuhn's augmenting-path algorithm. Vertices are
// numbered satellites first, stations offset by the satellite count; graph[s]
// lists offset station vertices reachable from satellite s. Augmentations are
// attempted in perm order, so the priority sort is the only bias on which
// maximum matching comes out. Rounds repeat while any augmentation succeeds;
// the used marks are cleared per round.
//
// The returned slice has one entry per satellite: the plain station index, or
// Unassigned.
func runKuhn(facilities, satellites int, graph [][]int, perm []int) []int {
	paired := make([]int, satellites+facilities)
	for i := range paired {
		paired[i] = Unassigned
	}
	used := make([]bool, satellites+facilities)
	for run := true; run; {
		run = false
		for i := range used {
			used[i] = false
		}
		for _, v := range perm {
			if !used[v] && paired[v] == Unassigned && kuhnDfs(v, graph, used, paired) {
				run = true
			}
		}
	}
	matched := make([]int, satellites)
	for i := range matched {
		if paired[i] == Unassigned {
			matched[i] = Unassigned
		} else {
			matched[i] = paired[i] - satellites
		}
	}
	return matched
}

// kuhnDfs tries to extend an augmenting chain from satellite vertex v.
func kuhnDfs(v int, graph [][]int, used []bool, paired []int) bool {
	if used[v] {
		return false
	}
	used[v] = true
	for _, to := range graph[v] {
		if paired[to] == Unassigned || kuhnDfs(paired[to], graph, used, paired) {
			paired[to] = v
			paired[v] = to
			return true
		}
	}
	return false
}
