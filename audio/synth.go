package audio

import "math"

const (
	SampleRate    = 44100
	ChannelCount  = 2
	bytesPerFrame = 4 * ChannelCount // float32 per channel
)

// softSat is a cubic soft clipper that keeps mixes inside [-1,1].
func softSat(x float64) float64 {
	if x > 1.0 {
		return 1.0 - 0.5/x
	}
	if x < -1.0 {
		return -1.0 + 0.5/(-x)
	}
	return x - x*x*x/3.0
}

// adsr returns an envelope at normalized progress [0,1]. attack, decay and
// release are fractions of the total duration.
func adsr(progress, attack, decay, sustain, release float64) float64 {
	switch {
	case progress < attack:
		return progress / attack
	case progress < attack+decay:
		return 1.0 - (progress-attack)/decay*(1.0-sustain)
	case progress < 1.0-release:
		return sustain
	default:
		return sustain * (1.0 - (progress-(1.0-release))/release)
	}
}

// fm returns one FM sample: carrier frequency, modulator ratio and depth.
func fm(t, carrier, modRatio, modIdx float64) float64 {
	mod := math.Sin(2 * math.Pi * carrier * modRatio * t)
	return math.Sin(2*math.Pi*carrier*t + modIdx*mod)
}

func makeBuf(n int) []byte { return make([]byte, n*bytesPerFrame) }

// putStereo writes sample as float32 LE to both channels of frame i.
func putStereo(buf []byte, i int, sample float64) {
	v := math.Float32bits(float32(sample))
	for ch := 0; ch < ChannelCount; ch++ {
		off := i*bytesPerFrame + ch*4
		buf[off] = byte(v)
		buf[off+1] = byte(v >> 8)
		buf[off+2] = byte(v >> 16)
		buf[off+3] = byte(v >> 24)
	}
}

type note struct {
	freq, onset float64
}

// arpeggio mixes FM notes starting at their onsets, all ending together.
func arpeggio(dur float64, notes []note, gain float64) []byte {
	n := int(dur * SampleRate)
	mix := make([]float64, n)
	for _, nt := range notes {
		start := int(nt.onset * SampleRate)
		for i := start; i < n; i++ {
			t := float64(i) / SampleRate
			np := float64(i-start) / float64(n-start)
			env := adsr(np, 0.008, 0.25, 0.3, 0.45)
			s := fm(t, nt.freq, 2.0, 2.0*env) * env * gain
			s += math.Sin(2*math.Pi*nt.freq*0.5*t) * env * 0.1
			mix[i] += s
		}
	}

	buf := makeBuf(n)
	for i, s := range mix {
		putStereo(buf, i, softSat(s))
	}
	return buf
}

// genEat is a short rising chirp.
func genEat() []byte {
	n := int(0.09 * SampleRate)
	buf := makeBuf(n)
	for i := 0; i < n; i++ {
		t := float64(i) / SampleRate
		p := float64(i) / float64(n)
		env := adsr(p, 0.01, 0.5, 0.0, 0.1)
		freq := 480 + 720*p
		s := fm(t, freq, 2.0, 3.5*env) * env * 0.5
		s += math.Sin(2*math.Pi*freq*3*t) * env * 0.06
		putStereo(buf, i, softSat(s))
	}
	return buf
}

// genDeath is a falling E-C-A figure.
func genDeath() []byte {
	return arpeggio(0.75, []note{
		{329.63, 0.00},
		{261.63, 0.14},
		{220.00, 0.28},
	}, 0.32)
}

// genWin is a rising C-E-G-C figure.
func genWin() []byte {
	return arpeggio(0.9, []note{
		{523.25, 0.00},
		{659.25, 0.09},
		{783.99, 0.18},
		{1046.5, 0.27},
	}, 0.28)
}
