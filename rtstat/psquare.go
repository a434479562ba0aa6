package rtstat

// insertionSort sorts a small slice of float64s in place. Shared by
// Stats.seedMarkers (sorting the fixed 5-sample init buffer) and
// Stats.waitEstimate's few-samples fallback (sorting however many
// samples have arrived so far), rather than each keeping its own copy.
func insertionSort(a []float64) {
	for i := 1; i < len(a); i++ {
		key := a[i]
		j := i - 1
		for j >= 0 && a[j] > key {
			a[j+1] = a[j]
			j--
		}
		a[j+1] = key
	}
}

// p2Parabolic and p2Linear are the P² algorithm's marker-adjustment
// formulas (Jain & Chlamtac, 1985): given the five current marker
// heights q and positions n, recompute marker i's height after nudging
// its position by sign (±1). p2Parabolic is tried first; callers fall
// back to p2Linear when the parabolic estimate would violate the
// markers' ordering invariant.
func p2Parabolic(q [5]float64, n [5]int, i, sign int) float64 {
	d := float64(sign)
	ni, niPrev, niNext := float64(n[i]), float64(n[i-1]), float64(n[i+1])

	term1 := d / (niNext - niPrev)
	term2 := (ni - niPrev + d) * (q[i+1] - q[i]) / (niNext - ni)
	term3 := (niNext - ni - d) * (q[i] - q[i-1]) / (ni - niPrev)
	return q[i] + term1*(term2+term3)
}

func p2Linear(q [5]float64, n [5]int, i, sign int) float64 {
	if sign == 1 {
		return q[i] + (q[i+1]-q[i])/float64(n[i+1]-n[i])
	}
	return q[i] - (q[i]-q[i-1])/float64(n[i]-n[i-1])
}
