// Marquee - Mood-to-Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

/*
Package config loads and validates Marquee configuration using Koanf v2.

Sources are layered, highest priority last:

 1. Built-in defaults (defaultConfig)
 2. YAML file: $CONFIG_PATH, ./config.yaml, ./config.yml, /etc/marquee/config.yaml
 3. Environment variables (explicit mapping, see envMappings)

Example config.yaml:

	server:
	  port: 8642
	catalog:
	  path: /data/catalog.json
	recommend:
	  default_top_k: 5
	  strict_default: true
	classifier:
	  enabled: true
	  url: https://api-inference.huggingface.co/models/facebook/bart-large-mnli
	  threshold: 0.4

Environment equivalents: HTTP_PORT, CATALOG_PATH, RECOMMEND_DEFAULT_TOP_K,
RECOMMEND_STRICT, CLASSIFIER_ENABLED, CLASSIFIER_URL, CLASSIFIER_THRESHOLD.
List values (CORS_ORIGINS, CLASSIFIER_LABELS) are comma-separated.

The returned *Config is immutable and safe for concurrent reads.
*/
package config
