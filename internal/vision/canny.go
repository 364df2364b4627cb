package vision

// Hysteresis thresholds on the L1 Sobel magnitude.
const (
	cannyLow  = 50.0
	cannyHigh = 150.0

	tan22_5 = 0.41421356237 // tan(22.5°)
	tan67_5 = 2.41421356237 // tan(67.5°)
)

// plane is a single-channel 8-bit image stored row-major.
type plane struct {
	pix  []uint8
	w, h int
}

// at returns the pixel at (x, y), replicating the border for out-of-range coordinates.
func (p plane) at(x, y int) float64 {
	x = clampInt(x, 0, p.w-1)
	y = clampInt(y, 0, p.h-1)
	return float64(p.pix[y*p.w+x])
}

// edgeDensity returns the fraction of pixels marked as edges by canny.
func edgeDensity(p plane) float64 {
	if len(p.pix) == 0 {
		return 0
	}
	edges := canny(p, cannyLow, cannyHigh)
	n := 0
	for _, e := range edges {
		if e {
			n++
		}
	}
	return float64(n) / float64(len(edges))
}

// canny runs 3x3 Sobel gradients, non-maximum suppression along the quantized
// gradient direction, and double-threshold hysteresis with 8-connectivity.
func canny(p plane, low, high float64) []bool {
	w, h := p.w, p.h
	gx := make([]float64, w*h)
	gy := make([]float64, w*h)
	mag := make([]float64, w*h)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dx := (p.at(x+1, y-1) + 2*p.at(x+1, y) + p.at(x+1, y+1)) -
				(p.at(x-1, y-1) + 2*p.at(x-1, y) + p.at(x-1, y+1))
			dy := (p.at(x-1, y+1) + 2*p.at(x, y+1) + p.at(x+1, y+1)) -
				(p.at(x-1, y-1) + 2*p.at(x, y-1) + p.at(x+1, y-1))
			i := y*w + x
			gx[i], gy[i] = dx, dy
			mag[i] = abs(dx) + abs(dy)
		}
	}

	magAt := func(x, y int) float64 {
		if x < 0 || y < 0 || x >= w || y >= h {
			return 0
		}
		return mag[y*w+x]
	}

	// 0 = suppressed, 1 = weak candidate, 2 = strong edge.
	class := make([]uint8, w*h)
	stack := make([]int, 0, w)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			m := mag[i]
			if m <= low {
				continue
			}

			ax, ay := abs(gx[i]), abs(gy[i])
			var n1, n2 float64
			switch {
			case ay <= ax*tan22_5:
				n1, n2 = magAt(x-1, y), magAt(x+1, y)
			case ay >= ax*tan67_5:
				n1, n2 = magAt(x, y-1), magAt(x, y+1)
			case gx[i]*gy[i] > 0:
				n1, n2 = magAt(x-1, y-1), magAt(x+1, y+1)
			default:
				n1, n2 = magAt(x+1, y-1), magAt(x-1, y+1)
			}
			if m <= n1 || m < n2 {
				continue
			}

			if m > high {
				class[i] = 2
				stack = append(stack, i)
			} else {
				class[i] = 1
			}
		}
	}

	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		x, y := i%w, i/w
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				nx, ny := x+dx, y+dy
				if nx < 0 || ny < 0 || nx >= w || ny >= h {
					continue
				}
				j := ny*w + nx
				if class[j] == 1 {
					class[j] = 2
					stack = append(stack, j)
				}
			}
		}
	}

	edges := make([]bool, w*h)
	for i, c := range class {
		edges[i] = c == 2
	}
	return edges
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
