package stdimg

import (
	"fmt"
	"image"
	"math"
	"math/rand"
	"strings"
)

// AddNoise returns src with noise added. typ is "gaussian" (amount is the
// standard deviation), "uniform" (amount is the maximum deviation) or
// "impulse" (amount is the percentage of pixels set to 0 or 255).
// Equal seeds give equal output; seed 0 is treated as 1.
func AddNoise(src *image.Gray, typ string, amount float64, seed int64) (*image.Gray, error) {
	if src == nil {
		return nil, nil
	}
	if seed == 0 {
		seed = 1
	}
	rng := rand.New(rand.NewSource(seed))

	var sample func(v uint8) uint8
	switch strings.ToLower(typ) {
	case "gaussian", "":
		sample = func(v uint8) uint8 { return roundUint8(float64(v) + gaussianSample(rng, amount)) }
	case "uniform":
		sample = func(v uint8) uint8 { return roundUint8(float64(v) + (rng.Float64()*2-1)*amount) }
	case "impulse":
		p := amount / 100
		sample = func(v uint8) uint8 {
			if rng.Float64() >= p {
				return v
			}
			if rng.Intn(2) == 0 {
				return 0
			}
			return 255
		}
	default:
		return nil, fmt.Errorf("unknown noise type %q", typ)
	}
	if amount <= 0 {
		return CloneGray(src), nil
	}

	b := src.Bounds()
	out := image.NewGray(b)
	w := b.Dx()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		si := src.PixOffset(b.Min.X, y)
		di := out.PixOffset(b.Min.X, y)
		for x := 0; x < w; x++ {
			out.Pix[di+x] = sample(src.Pix[si+x])
		}
	}
	return out, nil
}

// gaussianSample returns a normal(0,std) sample using Box-Muller
func gaussianSample(rng *rand.Rand, std float64) float64 {
	if std <= 0 {
		return 0
	}
	u1 := 1 - rng.Float64() // (0,1]
	u2 := rng.Float64()
	return math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2) * std
}
