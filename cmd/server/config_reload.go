// Marquee - Mood-to-Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package main

import (
	"github.com/tomtom215/marquee/internal/config"
	"github.com/tomtom215/marquee/internal/logging"
)

// applyConfigChange re-reads the configuration after the file at path
// changed. Only the log level takes effect without a restart; the catalog
// and classifier are fixed for the life of the process.
func applyConfigChange(path string) {
	cfg, err := config.Load()
	if err != nil {
		logging.Err(err).Str("path", path).Msg("Ignoring config file change")
		return
	}

	before := logging.GetLevel()
	logging.SetLevelString(cfg.Logging.Level)
	if after := logging.GetLevel(); after != before {
		logging.Info().Stringer("from", before).Stringer("to", after).Msg("Log level changed")
	}

	logging.Warn().Str("path", path).Msg("Config file changed; restart to apply settings other than logging.level")
}
