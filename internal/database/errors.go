// AdSynth - Synthetic Advertising Data and Analytics Platform
// Copyright 2026 AdSynth contributors
// SPDX-License-Identifier: MIT
// https://github.com/adsynth/adsynth

package database

import "errors"

// Sentinel errors returned by the data access layer. Callers match them with
// errors.Is.
var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrNoRawData is returned by the transform and the consistency checker
	// when a campaign has no raw performance rows to work from.
	ErrNoRawData = errors.New("no raw performance data")
)
