// Command framedump prints the encoded animation frame of a preset, the
// bytes the serial board receives after its handshake.
package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/urmzd/ledhub/pkg/effect"
	"github.com/urmzd/ledhub/pkg/effect/catalog"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	name := flag.String("effect", "rainbow", "Frame preset to encode")
	numLeds := flag.Int("leds", 60, "Number of LEDs on the strip")
	seed := flag.Uint64("seed", 1, "Seed for presets with random colors")
	list := flag.Bool("list", false, "List frame presets and exit")
	flag.Parse()

	if *list {
		for _, f := range catalog.Frames() {
			fmt.Printf("%-14s %s\n", f.Name, f.Description)
		}
		return
	}

	e, err := catalog.BuildFrame(*name, *numLeds, rand.New(rand.NewPCG(*seed, *seed)))
	if err != nil {
		log.Fatal().Err(err).Str("effect", *name).Msg("Failed to build frame")
	}

	frame, err := effect.Encode(e)
	if err != nil {
		log.Fatal().Err(err).Str("effect", *name).Msg("Failed to encode frame")
	}

	// Round trip so a dump always matches what the decoder accepts.
	if _, err := effect.Decode(frame); err != nil {
		log.Fatal().Err(err).Msg("Encoded frame does not decode")
	}

	log.Info().
		Str("effect", *name).
		Int("leds", *numLeds).
		Int("steps", len(e)).
		Int("bytes", len(frame)).
		Msg("Frame encoded")
	fmt.Print(hex.Dump(frame))
}
