// Marquee - Mood-to-Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

/*
Command server runs the Marquee HTTP API.

Startup order:

 1. Configuration: defaults, config.yaml (or CONFIG_PATH), environment
 2. Logging: zerolog, JSON or console
 3. Catalog: JSON file or badger directory; failure to load is fatal
 4. Classifier (optional): zero-shot genre extraction over HTTP
 5. Supervisor tree: classifier probe and HTTP server

Example:

	export CATALOG_PATH=/data/catalog.json
	export CLASSIFIER_ENABLED=true
	export CLASSIFIER_TOKEN=hf_xxx
	./server

SIGINT and SIGTERM stop the tree; in-flight requests get
server.shutdown_timeout to finish.
*/
package main
