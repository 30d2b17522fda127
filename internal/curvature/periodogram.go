package curvature

import (
	"math"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/stat"
)

// Periodogram computes a Lomb-Scargle normalized power spectrum directly from
// irregularly spaced samples. One FrequencyEstimate is returned per scanned
// frequency, in ascending frequency order.
//
// Bins are computed independently across a bounded worker pool and written
// into a preallocated slice indexed by bin, so the result is deterministic
// regardless of worker count.
func Periodogram(samples []SparseSample, freqs []float64, workers int) []FrequencyEstimate {
	n := len(samples)
	if n == 0 || len(freqs) == 0 {
		return nil
	}

	positions := make([]float64, n)
	values := make([]float64, n)
	for i, s := range samples {
		positions[i] = s.Position
		values[i] = s.Value
	}
	mean := stat.Mean(values, nil)
	variance := stat.Variance(values, nil)
	for i := range values {
		values[i] -= mean
	}

	out := make([]FrequencyEstimate, len(freqs))

	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(freqs) {
		workers = len(freqs)
	}

	var wg sync.WaitGroup
	chunk := (len(freqs) + workers - 1) / workers
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := start + chunk
		if end > len(freqs) {
			end = len(freqs)
		}
		if start >= end {
			break
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				out[i] = FrequencyEstimate{
					Frequency: freqs[i],
					Power:     lombScarglePower(positions, values, variance, freqs[i]),
				}
			}
		}(start, end)
	}
	wg.Wait()

	return out
}

// lombScarglePower evaluates the classic Lomb-Scargle power at one frequency.
// values must already be mean-centred; variance is the sample variance of the
// original values and normalizes the power.
func lombScarglePower(positions, values []float64, variance, freq float64) float64 {
	if freq <= 0 || variance <= 0 {
		return 0
	}
	omega := 2 * math.Pi * freq

	// Time offset tau decouples the cosine and sine terms.
	var s2, c2 float64
	for _, t := range positions {
		s2 += math.Sin(2 * omega * t)
		c2 += math.Cos(2 * omega * t)
	}
	tau := math.Atan2(s2, c2) / (2 * omega)

	var cNum, cDen, sNum, sDen float64
	for i, t := range positions {
		arg := omega * (t - tau)
		c := math.Cos(arg)
		s := math.Sin(arg)
		cNum += values[i] * c
		cDen += c * c
		sNum += values[i] * s
		sDen += s * s
	}

	var power float64
	if cDen > 0 {
		power += cNum * cNum / cDen
	}
	if sDen > 0 {
		power += sNum * sNum / sDen
	}
	return power / (2 * variance)
}

// scanFrequencies builds the candidate frequency ladder. The minimum
// resolvable frequency is 1/span (one full cycle across the sample span) and
// the maximum defaults to the average-Nyquist n/(2*span). Explicit bounds in
// the config override the derived ones.
func (c *ReconstructorConfig) scanFrequencies(samples []SparseSample) []float64 {
	span := sampleSpan(samples)
	if span <= 0 {
		return nil
	}

	lo := c.MinFrequency
	if lo <= 0 {
		lo = 1.0 / span
	}
	hi := c.MaxFrequency
	if hi <= 0 {
		hi = float64(len(samples)) / (2 * span)
	}
	if hi < lo {
		hi = lo
	}

	steps := c.FrequencyScanSteps
	freqs := make([]float64, steps)
	if steps == 1 {
		freqs[0] = lo
		return freqs
	}
	step := (hi - lo) / float64(steps-1)
	for i := range freqs {
		freqs[i] = lo + float64(i)*step
	}
	return freqs
}

// selectDominant returns the k highest-power estimates. Ties in power break
// toward the lower frequency so reconstructions prefer the smoother
// candidate. Input order is preserved for equal selections.
func selectDominant(spectrum []FrequencyEstimate, k int) []FrequencyEstimate {
	if k <= 0 || len(spectrum) == 0 {
		return nil
	}
	picked := make([]FrequencyEstimate, 0, k)
	used := make(map[int]bool, k)
	for len(picked) < k && len(picked) < len(spectrum) {
		best := -1
		for i, fe := range spectrum {
			if used[i] {
				continue
			}
			if best < 0 || fe.Power > spectrum[best].Power ||
				(fe.Power == spectrum[best].Power && fe.Frequency < spectrum[best].Frequency) {
				best = i
			}
		}
		used[best] = true
		picked = append(picked, spectrum[best])
	}
	return picked
}

func sampleSpan(samples []SparseSample) float64 {
	if len(samples) == 0 {
		return 0
	}
	lo, hi := samples[0].Position, samples[0].Position
	for _, s := range samples[1:] {
		if s.Position < lo {
			lo = s.Position
		}
		if s.Position > hi {
			hi = s.Position
		}
	}
	return hi - lo
}
