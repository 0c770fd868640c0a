// Command cwdecode synthesizes a Morse tone from text, decodes it back
// through cw.Decoder, and prints the recovered text and estimated WPM.
//
// Usage:
//
//	cwdecode [flags]
//
// Examples:
//
//	cwdecode -text "PARIS" -wpm 20
//	cwdecode -text "CQ CQ DE W1AW" -wpm 35 -noise 0.05
package main

import (
	"flag"
	"log"
	"math"
	"math/rand"
	"os"
	"strings"

	"github.com/cwbudde/cwdsp/cw"
)

var morseCode = map[rune]string{
	'A': ".-", 'B': "-...", 'C': "-.-.", 'D': "-..", 'E': ".", 'F': "..-.",
	'G': "--.", 'H': "....", 'I': "..", 'J': ".---", 'K': "-.-", 'L': ".-..",
	'M': "--", 'N': "-.", 'O': "---", 'P': ".--.", 'Q': "--.-", 'R': ".-.",
	'S': "...", 'T': "-", 'U': "..-", 'V': "...-", 'W': ".--", 'X': "-..-",
	'Y': "-.--", 'Z': "--..",
	'0': "-----", '1': ".----", '2': "..---", '3': "...--", '4': "....-",
	'5': ".....", '6': "-....", '7': "--...", '8': "---..", '9': "----.",
}

func main() {
	text := flag.String("text", "PARIS", "message to synthesize and decode")
	wpm := flag.Float64("wpm", 20, "sending speed in words per minute")
	freq := flag.Float64("freq", 700, "tone frequency in Hz")
	rate := flag.Float64("rate", 48000, "sample rate in Hz")
	noise := flag.Float64("noise", 0, "additive white noise amplitude, 0-1")
	chunk := flag.Int("chunk", 4096, "audio samples fed to the decoder per Process call")
	flag.Usage = func() {
		stderr := os.Stderr
		stderr.WriteString("Usage: cwdecode [flags]\n\n")
		stderr.WriteString("Synthesizes a Morse tone from -text, decodes it back through cw.Decoder,\n")
		stderr.WriteString("and prints the recovered text and the decoder's estimated WPM.\n\n")
		stderr.WriteString("Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	audio := synthesize(*text, *wpm, *freq, *rate, *noise)

	cfg := cw.DefaultConfig()
	cfg.SampleRate = *rate
	cfg.CenterFreq = *freq
	cfg.InitialWPM = *wpm

	dec, err := cw.NewDecoder(cfg)
	if err != nil {
		log.Fatalf("cwdecode: invalid config: %v", err)
	}

	log.Printf("cwdecode: synthesized %d samples at %.0f Hz sample rate, %.1f WPM, features=%+v",
		len(audio), *rate, *wpm, dec.Features())

	out := make([]byte, 0, len(*text)+16)
	buf := make([]byte, 256)
	for pos := 0; pos < len(audio); pos += *chunk {
		end := pos + *chunk
		if end > len(audio) {
			end = len(audio)
		}
		n := dec.Process(audio[pos:end], buf)
		out = append(out, buf[:n]...)
	}
	n := dec.Finalize(buf)
	out = append(out, buf[:n]...)

	os.Stdout.WriteString(string(out) + "\n")
	log.Printf("cwdecode: decoder speed estimate: %.2f WPM", dec.WPM())
}

// synthesize renders text as a dit/dah/gap schedule at wpm and returns
// the resulting audio at sampleRate, optionally with additive uniform
// noise of the given amplitude.
func synthesize(text string, wpm, freq, sampleRate, noiseAmp float64) []float64 {
	ditSeconds := 1.2 / wpm
	unit := int(ditSeconds * sampleRate)
	if unit < 1 {
		unit = 1
	}

	var schedule []int // positive: mark for n units; negative: gap for n units
	words := strings.Fields(strings.ToUpper(text))
	for wi, word := range words {
		letters := []rune(word)
		for ci, ch := range letters {
			pattern, ok := morseCode[ch]
			if !ok {
				continue
			}
			for si, sym := range pattern {
				if si > 0 {
					schedule = append(schedule, -1)
				}
				if sym == '.' {
					schedule = append(schedule, 1)
				} else {
					schedule = append(schedule, 3)
				}
			}
			if ci < len(letters)-1 {
				schedule = append(schedule, -3)
			}
		}
		if wi < len(words)-1 {
			schedule = append(schedule, -7)
		}
	}
	schedule = append(schedule, -10) // trailing silence

	total := 0
	for _, s := range schedule {
		total += absInt(s) * unit
	}

	audio := make([]float64, 0, total)
	phase := 0.0
	step := 2 * math.Pi * freq / sampleRate
	for _, s := range schedule {
		mark := s > 0
		n := absInt(s) * unit
		for i := 0; i < n; i++ {
			var sample float64
			if mark {
				sample = math.Sin(phase)
				phase += step
			}
			if noiseAmp > 0 {
				sample += noiseAmp * (2*rand.Float64() - 1)
			}
			audio = append(audio, sample)
		}
	}
	return audio
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
