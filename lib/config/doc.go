// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads configuration for the desk client.
//
// Configuration comes from a single file named by the --config flag
// (via [LoadFile]) or the DESK_CONFIG environment variable (via
// [Load]). The file format follows the extension: .yaml/.yml is YAML,
// .json/.jsonc is JSON with comments and trailing commas. Without a
// file, [Default] values are used.
//
// Before reading the file, a .env file in the working directory is
// loaded into the process environment if present. Variables already
// set in the environment win over .env entries.
//
// After the file, a fixed set of environment variables override
// individual fields:
//
//	DESK_API_URL        api_url
//	DESK_WIRE           wire
//	DESK_LOG_LEVEL      log_level
//	DESK_CONFIRM_CLOSE  confirm_close
//
// ${HOME}, ${XDG_CONFIG_HOME} and ${VAR:-default} patterns in path
// fields (log_file, session_file) are expanded.
//
// This package depends on no other helpdesk packages.
package config
