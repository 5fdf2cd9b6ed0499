package crossbar

// wire is a connection before its rows are resolved against the block tree.
type wire struct {
	startStage, startTerminal int
	endStage, endTerminal     int
	column                    int
}

// pack computes wire k of the n-terminal switch. Indices are laid out level
// by level: level i = k/n + 1 owns indices [(i-1)*n, i*n), offset j = k mod n.
// For even n the last level is the half level with only n/2 wires.
func pack(n, k int) wire {
	i, j := k/n+1, k%n
	if 2*i == n {
		return halfLevel(i, j)
	}
	return fullLevel(n, i, j)
}

// fullLevel places the wire joining j and (i+j) mod n across stages 2i-2 and
// 2i-1. Runs of i consecutive offsets alternate between the two stages; a run
// that wraps past terminal n-1 continues in the next stage.
func fullLevel(n, i, j int) wire {
	odd := (j/i)&1 == 1
	wrap := i+j >= n
	if odd && wrap {
		return reverseWire(n, i, j)
	}

	stage := 2*i - 2
	w := wire{
		startStage:    stage,
		startTerminal: j,
		endStage:      stage,
		endTerminal:   (i + j) % n,
		column:        j % i,
	}
	if odd {
		w.startStage++
	}
	if odd || wrap {
		w.endStage++
	}
	return w
}

// reverseWire handles the tail of an odd run that wraps: both rows are in
// stage 2i-1 and the wire runs upwards from the wrapped terminal. Past the
// third run it needs the second band of columns starting at i.
func reverseWire(n, i, j int) wire {
	stage := 2*i - 1
	col := j % i
	if j >= 3*i {
		col = i + min(j%i, j+i-n)
	}
	return wire{
		startStage:    stage,
		startTerminal: i + j - n,
		endStage:      stage,
		endTerminal:   j,
		column:        col,
	}
}

// halfLevel places the wire joining j and i+j inside stage 2i-2; only the
// first i offsets are needed since the remaining pairs repeat them.
func halfLevel(i, j int) wire {
	stage := 2*i - 2
	return wire{
		startStage:    stage,
		startTerminal: j,
		endStage:      stage,
		endTerminal:   i + j,
		column:        j,
	}
}
