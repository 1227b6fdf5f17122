package video

// filterFrames drops frames below the minimum resolution and near-duplicate
// frames (by perceptual hash Hamming distance as an SSIM proxy) against the
// previously kept frame, Phase A.
func filterFrames(frames []Frame, ssimThreshold float64, minWidth, minHeight int) []Frame {
	var kept []Frame
	var lastHash uint64
	haveLast := false

	for _, f := range frames {
		if f.Width < minWidth || f.Height < minHeight {
			continue
		}
		hash := perceptualHash(f.Data)
		if haveLast && similarity(hash, lastHash) >= ssimThreshold {
			continue // near-duplicate of the last kept frame
		}
		kept = append(kept, f)
		lastHash = hash
		haveLast = true
	}
	return kept
}

// perceptualHash computes a coarse 64-bit average hash over the frame's
// raw bytes downsampled into an 8x8 grid of average intensities (a bit is
// set where a cell is at or above the grid mean) — a
// lightweight stand-in for a full DCT-based pHash that is cheap enough to
// run per-frame during extraction.
func perceptualHash(data []byte) uint64 {
	if len(data) == 0 {
		return 0
	}
	const grid = 64
	cellSize := len(data) / grid
	if cellSize == 0 {
		cellSize = 1
	}

	var averages [grid]float64
	for i := 0; i < grid; i++ {
		start := i * cellSize
		end := start + cellSize
		if start >= len(data) {
			break
		}
		if end > len(data) {
			end = len(data)
		}
		var sum float64
		for _, b := range data[start:end] {
			sum += float64(b)
		}
		averages[i] = sum / float64(end-start)
	}

	var mean float64
	for _, a := range averages {
		mean += a
	}
	mean /= grid

	var hash uint64
	for i, a := range averages {
		if a >= mean {
			hash |= 1 << uint(i)
		}
	}
	return hash
}

// similarity converts Hamming distance between two hashes into a [0,1]
// similarity score compatible with the configured SSIM threshold.
func similarity(a, b uint64) float64 {
	dist := popcount(a ^ b)
	return 1.0 - float64(dist)/64.0
}

func popcount(x uint64) int {
	count := 0
	for x != 0 {
		count++
		x &= x - 1
	}
	return count
}
