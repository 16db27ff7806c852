// Package confloader provides the configuration loading mechanism.
//
// It layers koanf sources and unmarshals the result into a typed struct.
//
// Priority (highest to lowest):
//
//  1. Environment variables (KIWI_ prefix)
//  2. Configuration file (YAML)
//  3. Default values loaded with LoadMap
//
// Environment names map to keys by lower-casing and replacing underscores
// with dots. Keys already known from defaults or the file are matched
// first, so KIWI_SERVER_REDIS_READ_TIMEOUT resolves to
// server.redis.read_timeout rather than server.redis.read.timeout.
//
// Watcher reports changes to the configuration file through fsnotify so the
// server can apply settings such as log.level without a restart.
package confloader
