// SPDX-License-Identifier: EPL-2.0

package audio_test

import (
	"fmt"

	"github.com/ik5/audlooper/audio"
	"github.com/ik5/audlooper/internal/audiotest"
)

// Example_resampler converts a one second 44.1kHz tone to 16kHz.
func Example_resampler() {
	source := audiotest.NewSineSource(44100, 1, 44100, 440.0)
	resampler := audio.NewResampler(source, 16000)

	samples, err := audio.ReadAll(resampler)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	fmt.Printf("Output sample rate: %d Hz\n", resampler.SampleRate())
	fmt.Printf("Total samples read: %d\n", len(samples))
	// Output:
	// Output sample rate: 16000 Hz
	// Total samples read: 16000
}

// Example_remixer widens a mono recording to the two channels of a stereo
// looper.
func Example_remixer() {
	source, _ := audio.NewSliceSource(8000, 1, []float32{0.1, 0.2, 0.3})
	stereo := audio.NewRemixer(source, 2)

	samples, _ := audio.ReadAll(stereo)
	fmt.Println(stereo.Channels(), samples)
	// Output: 2 [0.1 0.1 0.2 0.2 0.3 0.3]
}
