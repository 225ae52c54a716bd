package cmd

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/beanboi7/chyp8/chyp"
	"github.com/beanboi7/chyp8/emu/audio"
	"github.com/beanboi7/chyp8/emu/cpu"
	"github.com/beanboi7/chyp8/emu/screen"
	"github.com/beanboi7/chyp8/internal/config"
)

var startCmd = &cobra.Command{
	Use:   "start `path/ROM`",
	Short: "load and start the Emulator",
	Args:  cobra.ExactArgs(1),
	RunE:  Start,
}

// chyp8 start 'path/to/ROM' -i 12 -q modern
func Start(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}

	romPath := args[0]
	rom, err := chyp.ReadROM(romPath)
	if err != nil {
		return err
	}

	quirks, err := cfg.CPUQuirks()
	if err != nil {
		return err
	}
	opts, err := cfg.SessionOptions()
	if err != nil {
		return err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	log.Debugf("quirks %+v, seed %d", quirks, seed)
	emu := cpu.NewEMU(quirks, rand.New(rand.NewSource(seed)))

	win, err := screen.NewWindow(fmt.Sprintf("Chyp8 - %s", romPath), cfg.Scale)
	if err != nil {
		return fmt.Errorf("error starting the Emulator: %w", err)
	}
	defer win.Destroy()

	var buzzer chyp.Audio = audio.Mute{}
	if !cfg.Audio.Mute {
		beeper, err := audio.NewBeeper(cfg.AudioConfig())
		if err != nil {
			log.Warningf("audio disabled: %v", err)
		} else {
			defer beeper.Close()
			buzzer = beeper
		}
	}

	session, err := chyp.NewSession(emu, rom, opts, win, win, buzzer)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return session.Run(ctx)
}

func init() {
	rootCmd.AddCommand(startCmd)

	flags := startCmd.Flags()
	flags.IntP("ipf", "i", 10, "instructions executed per frame")
	flags.IntP("refresh", "r", 60, "sets the refresh rate of the display in Hz")
	flags.Float64P("scale", "s", 15, "window pixels per CHIP-8 pixel")
	flags.StringP("quirks", "q", "vip", "quirk set: vip or modern")
	flags.Int64("seed", 0, "seed for the random opcode, 0 picks one from the clock")
	flags.String("on-error", "halt", "what to do when the interpreter fails: halt, reset or skip")
	flags.Bool("mute", false, "disable the buzzer")

	for key, flag := range map[string]string{
		"ipf":        "ipf",
		"refresh":    "refresh",
		"scale":      "scale",
		"quirks":     "quirks",
		"seed":       "seed",
		"on_error":   "on-error",
		"audio.mute": "mute",
	} {
		cobra.CheckErr(viper.BindPFlag(key, flags.Lookup(flag)))
	}
}
