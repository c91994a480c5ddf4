package automap

// selectOutput draws one output alternative with probability
// proportional to its weight.
//
// Returns (index, true) for the chosen alternative, or (0, false) when
// the weights sum to zero (including an empty list) - in that case no
// draw is consumed, so the random stream sees exactly one draw per
// actual firing.
func selectOutput(src Source, outputs []OutputPattern) (int, bool) {
	total := 0
	for i := range outputs {
		if outputs[i].Weight > 0 {
			total += outputs[i].Weight
		}
	}
	if total == 0 {
		return 0, false
	}

	draw := src.IntN(total)
	acc := 0
	for i := range outputs {
		if outputs[i].Weight <= 0 {
			continue
		}
		acc += outputs[i].Weight
		if draw < acc {
			return i, true
		}
	}

	// Unreachable: draw < total and the cumulative walk covers total.
	return len(outputs) - 1, true
}
