package main

import (
	"github.com/faiface/pixel/pixelgl"

	"github.com/beanboi7/chyp8/cmd"
)

func main() {
	pixelgl.Run(runChyp8)
}

// runChyp8 runs on the main thread, which pixelgl requires for window calls.
func runChyp8() {
	cmd.Execute()
}
