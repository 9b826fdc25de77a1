package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ballmidi",
	Short: "Midi-driven ball synth",
	Long:  `Turns midi files into note pools the bouncing-ball videos trigger.`,
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
