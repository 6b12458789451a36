package main

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
)

var rootCmd = &cobra.Command{
	Use:   "viewer",
	Short: "Plot neuron morphologies with plotly",
	Long: `viewer turns SWC morphologies into self-contained plotly HTML pages.

Figure defaults come from the environment (FIGURE_HEIGHT, LINE_WIDTH,
BUTTON_HEIGHT, BUTTON_GAP, OUTPUT_DIR, PLOTLY_JS_URL); flags override them.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func _main() error {
	return rootCmd.Execute()
}

func main() {
	prefixed := &prefixed.TextFormatter{
		TimestampFormat: "2006-01-02 15:04:05",
		FullTimestamp:   true,
		ForceFormatting: true,
		ForceColors:     true,
	}
	log.SetFormatter(prefixed)
	log.SetOutput(os.Stdout)
	if os.Getenv("VIEWER_DEBUG") != "" {
		log.SetLevel(log.DebugLevel)
	}
	if err := _main(); err != nil {
		log.Fatal(err)
	}
}
