package filter

import "testing"

func TestGaussianKernelIdentity(t *testing.T) {
	tests := []struct {
		half  int
		sigma float32
	}{
		{0, 1},
		{-3, 1},
		{2, 0},
	}
	for _, tt := range tests {
		k := GaussianKernel(tt.half, tt.sigma)
		if len(k) != 1 || k[0] != 1 {
			t.Errorf("GaussianKernel(%d, %v) = %v, want [1]", tt.half, tt.sigma, k)
		}
	}
}

func TestGaussianKernelNormalizedSymmetric(t *testing.T) {
	for _, half := range []int{1, 2, 4, 6, 10} {
		k := GaussianKernel(half, float32(half)/2)
		if len(k) != half*2+1 {
			t.Errorf("GaussianKernel(%d) len = %d, want %d", half, len(k), half*2+1)
		}

		var sum float32
		for _, v := range k {
			sum += v
		}
		if absf32(sum-1) > 1e-4 {
			t.Errorf("GaussianKernel(%d) sum = %v, want ~1.0", half, sum)
		}

		for i := 0; i < half; i++ {
			if absf32(k[i]-k[len(k)-1-i]) > 1e-6 {
				t.Errorf("GaussianKernel(%d)[%d] = %v != [%d] = %v", half, i, k[i], len(k)-1-i, k[len(k)-1-i])
			}
		}
		if k[half] <= k[0] {
			t.Errorf("GaussianKernel(%d) center %v not above edge %v", half, k[half], k[0])
		}
	}
}

func TestKernelSizes(t *testing.T) {
	tests := []struct {
		blur Blur
		want int
	}{
		{BlurNone, 1},
		{BlurFast, 5},
		{BlurMedium, 9},
		{BlurDetail, 13},
		{Blur(99), 1},
	}
	for _, tt := range tests {
		if got := len(Kernel(tt.blur)); got != tt.want {
			t.Errorf("len(Kernel(%d)) = %d, want %d", tt.blur, got, tt.want)
		}
	}
}

func BenchmarkGaussianKernel(b *testing.B) {
	b.ReportAllocs()
	for b.Loop() {
		GaussianKernel(6, 2)
	}
}
