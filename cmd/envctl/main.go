package main

import (
	"os"

	"github.com/rs/zerolog/log"

	"github.com/danmuck/edgeapi/internal/logging"
)

func main() {
	logging.ConfigureRuntime()
	if err := newRootCmd().Execute(); err != nil {
		log.Debug().Err(err).Msg("envctl failed")
		os.Exit(1)
	}
}
