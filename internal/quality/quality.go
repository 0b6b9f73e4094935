// Package quality compares two gray pixel buffers of equal length.
package quality

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// IdenticalPSNR is returned by PSNR when the buffers are equal.
const IdenticalPSNR = 100

const pixelMax = 255.0

var (
	c1 = math.Pow(0.01*pixelMax, 2)
	c2 = math.Pow(0.03*pixelMax, 2)
)

var ErrSizeMismatch = errors.New("buffers differ in size")

// MSE returns the mean squared error between a and b.
func MSE(a, b []uint8) (float64, error) {
	if err := check(a, b); err != nil {
		return 0, err
	}
	if len(a) == 0 {
		return 0, nil
	}
	sq := make([]float64, len(a))
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sq[i] = d * d
	}
	return stat.Mean(sq, nil), nil
}

// PSNR returns 20*log10(255/sqrt(MSE)) in dB, or IdenticalPSNR when MSE is 0.
func PSNR(a, b []uint8) (float64, error) {
	mse, err := MSE(a, b)
	if err != nil {
		return 0, err
	}
	if mse == 0 {
		return IdenticalPSNR, nil
	}
	return 20 * math.Log10(pixelMax/math.Sqrt(mse)), nil
}

// SSIM returns the structural similarity of a and b computed over a single global window.
func SSIM(a, b []uint8) (float64, error) {
	if err := check(a, b); err != nil {
		return 0, err
	}
	if len(a) == 0 {
		return 1, nil
	}
	x, y, xy := make([]float64, len(a)), make([]float64, len(a)), make([]float64, len(a))
	for i := range a {
		x[i], y[i] = float64(a[i]), float64(b[i])
		xy[i] = x[i] * y[i]
	}
	mx, vx := stat.PopMeanVariance(x, nil)
	my, vy := stat.PopMeanVariance(y, nil)
	cov := stat.Mean(xy, nil) - mx*my

	return ((2*mx*my + c1) * (2*cov + c2)) /
		((mx*mx + my*my + c1) * (vx + vy + c2)), nil
}

func check(a, b []uint8) error {
	if len(a) != len(b) {
		return fmt.Errorf("%w: %d != %d", ErrSizeMismatch, len(a), len(b))
	}
	return nil
}
