package main

import (
	"errors"
	"fmt"
	"os"

	"viamgo"

	"go.viam.com/rdk/logging"
	"go.viam.com/rdk/rimage"
)

func main() {
	if len(os.Args) < 3 {
		fmt.Fprintf(os.Stderr, "Usage: %s <empty-board.jpg> <frame.jpg>...\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  Frames are read in order; the game is written to stdout as SGF\n")
		os.Exit(1)
	}

	logger := logging.NewLogger("sgfreplay")
	session := viamgo.NewSession(viamgo.DefaultSessionConfig(), logger)

	board, err := rimage.ReadImageFromFile(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading image: %v\n", err)
		os.Exit(1)
	}

	if _, err := session.Calibrate(board); err != nil {
		fmt.Fprintf(os.Stderr, "Error finding board grid: %v\n", err)
		os.Exit(1)
	}

	for _, fn := range os.Args[2:] {
		frame, err := rimage.ReadImageFromFile(fn)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading image: %v\n", err)
			os.Exit(1)
		}

		res, err := session.ProcessFrame(frame)
		if errors.Is(err, viamgo.ErrUnresolvedCapture) {
			logger.Warnf("%s: %v", fn, err)
			continue
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error processing %s: %v\n", fn, err)
			os.Exit(1)
		}
		if res.Status == viamgo.StatusAmbiguous {
			logger.Infof("%s: ambiguous, skipped", fn)
		}
	}

	black, white := session.Tracker().Counts()
	logger.Infof("%d rounds, %d black and %d white stones on the board", len(session.Tracker().Rounds()), black, white)

	fmt.Println(session.Tracker().SGF())
}
